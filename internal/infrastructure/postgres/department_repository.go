package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Trazabilidad-api/internal/domain"
	"github.com/jhoicas/Trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Trazabilidad-api/internal/domain/repository"
)

var _ repository.DepartmentRepository = (*DepartmentRepo)(nil)

// DepartmentRepo implementación del puerto DepartmentRepository sobre PostgreSQL.
type DepartmentRepo struct {
	q Querier
}

// NewDepartmentRepository construye el adaptador de persistencia para reparti.
func NewDepartmentRepository(q Querier) *DepartmentRepo {
	return &DepartmentRepo{q: q}
}

// Create persiste un nuevo reparto. No se impone unicidad de nombre ni posiciones contiguas.
func (r *DepartmentRepo) Create(ctx context.Context, dept *entity.Department) error {
	query := `
		INSERT INTO departments (id, name, order_position, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(ctx, query, dept.ID, dept.Name, dept.Position, dept.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert department: %w", err)
	}
	return nil
}

// GetByID obtiene un reparto por ID.
func (r *DepartmentRepo) GetByID(ctx context.Context, id string) (*entity.Department, error) {
	query := `SELECT id, name, order_position, created_at FROM departments WHERE id = $1`
	var d entity.Department
	err := r.q.QueryRow(ctx, query, id).Scan(&d.ID, &d.Name, &d.Position, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get department: %w", err)
	}
	return &d, nil
}

// List lista todos los reparti por posición ascendente.
func (r *DepartmentRepo) List(ctx context.Context) ([]*entity.Department, error) {
	query := `
		SELECT id, name, order_position, created_at
		FROM departments ORDER BY order_position ASC, name ASC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Department
	for rows.Next() {
		var d entity.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Position, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// MaxPosition devuelve la posición más alta registrada.
func (r *DepartmentRepo) MaxPosition(ctx context.Context) (int, error) {
	var maxPos int
	if err := r.q.QueryRow(ctx, `SELECT COALESCE(MAX(order_position), 0) FROM departments`).Scan(&maxPos); err != nil {
		return 0, fmt.Errorf("max department position: %w", err)
	}
	return maxPos, nil
}

// Delete elimina un reparto sin comprobar referencias; la llave foránea de orders puede rechazarlo.
func (r *DepartmentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("delete department: %w: %w", domain.ErrConflict, err)
		}
		if isInvalidText(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete department: %w", err)
	}
	return nil
}
