package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Trazabilidad-api/internal/domain"
	"github.com/jhoicas/Trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Trazabilidad-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// orderSelect resuelve por JOIN los nombres de reparto y del creador.
const orderSelect = `
	SELECT o.id, o.order_number, o.job_number, o.staccato_number,
	       o.starting_department_id, o.current_department_id, o.created_by,
	       o.scarti, o.note, o.created_at, o.updated_at,
	       COALESCE(sd.name, ''), COALESCE(cd.name, ''),
	       COALESCE(NULLIF(p.full_name, ''), p.username, '')
	FROM orders o
	LEFT JOIN departments sd ON sd.id = o.starting_department_id
	LEFT JOIN departments cd ON cd.id = o.current_department_id
	LEFT JOIN profiles p ON p.id = o.created_by`

// orderSelectPlain sin JOIN: FOR UPDATE no admite el lado nulo de un LEFT JOIN.
const orderSelectPlain = `
	SELECT o.id, o.order_number, o.job_number, o.staccato_number,
	       o.starting_department_id, o.current_department_id, o.created_by,
	       o.scarti, o.note, o.created_at, o.updated_at,
	       '', '', ''
	FROM orders o`

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// codeColumn columna que almacena el código según su tipo.
func codeColumn(kind entity.CodeKind) (string, error) {
	switch kind {
	case entity.CodeKindODL:
		return "order_number", nil
	case entity.CodeKindJOB:
		return "job_number", nil
	case entity.CodeKindSTACCATO:
		return "staccato_number", nil
	default:
		return "", fmt.Errorf("%w: tipo de código %q", domain.ErrInvalidInput, kind)
	}
}

// codeColumns reparte el código en las tres columnas nulas de la tabla.
func codeColumns(code entity.TrackingCode) (odl, job, staccato *string) {
	switch code.Kind {
	case entity.CodeKindODL:
		odl = &code.Value
	case entity.CodeKindJOB:
		job = &code.Value
	case entity.CodeKindSTACCATO:
		staccato = &code.Value
	}
	return odl, job, staccato
}

// codeFromColumns reconstruye el código a partir de la primera columna no nula.
func codeFromColumns(odl, job, staccato *string) entity.TrackingCode {
	switch {
	case odl != nil:
		return entity.TrackingCode{Kind: entity.CodeKindODL, Value: *odl}
	case job != nil:
		return entity.TrackingCode{Kind: entity.CodeKindJOB, Value: *job}
	case staccato != nil:
		return entity.TrackingCode{Kind: entity.CodeKindSTACCATO, Value: *staccato}
	default:
		return entity.TrackingCode{}
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(s rowScanner) (*entity.Order, error) {
	var (
		o                  entity.Order
		odl, job, staccato *string
		createdBy, note    *string
	)
	if err := s.Scan(
		&o.ID, &odl, &job, &staccato,
		&o.StartingDepartmentID, &o.CurrentDepartmentID, &createdBy,
		&o.Scarti, &note, &o.CreatedAt, &o.UpdatedAt,
		&o.StartingDepartmentName, &o.CurrentDepartmentName, &o.CreatorName,
	); err != nil {
		return nil, err
	}
	o.Code = codeFromColumns(odl, job, staccato)
	o.CreatedBy = derefString(createdBy)
	o.Note = derefString(note)
	return &o, nil
}

// CreateIfAbsent persiste una orden nueva. Solo la columna del tipo de código queda informada.
func (r *OrderRepo) CreateIfAbsent(ctx context.Context, order *entity.Order) (bool, error) {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	odl, job, staccato := codeColumns(order.Code)
	// ON CONFLICT espera a la transacción que insertó el mismo código y no aborta la nuestra
	query := `
		INSERT INTO orders (id, order_number, job_number, staccato_number, starting_department_id,
		                    current_department_id, created_by, scarti, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT DO NOTHING`
	tag, err := r.q.Exec(ctx, query,
		order.ID, odl, job, staccato, order.StartingDepartmentID,
		order.CurrentDepartmentID, nullString(order.CreatedBy), order.Scarti, nullString(order.Note),
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, domain.ErrNotFound
		}
		return false, fmt.Errorf("create order: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetByID obtiene una orden por ID.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, orderSelect+` WHERE o.id = $1`, id)
}

// GetByCode obtiene una orden por su código.
func (r *OrderRepo) GetByCode(ctx context.Context, code entity.TrackingCode) (*entity.Order, error) {
	col, err := codeColumn(code.Kind)
	if err != nil {
		return nil, err
	}
	return r.getOne(ctx, orderSelect+` WHERE o.`+col+` = $1`, code.Value)
}

// GetByCodeForUpdate obtiene la orden y bloquea la fila hasta el fin de la transacción.
func (r *OrderRepo) GetByCodeForUpdate(ctx context.Context, code entity.TrackingCode) (*entity.Order, error) {
	col, err := codeColumn(code.Kind)
	if err != nil {
		return nil, err
	}
	return r.getOne(ctx, orderSelectPlain+` WHERE o.`+col+` = $1 FOR UPDATE`, code.Value)
}

func (r *OrderRepo) getOne(ctx context.Context, query string, arg string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// Search busca el término exacto en cualquiera de las tres columnas de código.
func (r *OrderRepo) Search(ctx context.Context, term string) ([]*entity.Order, error) {
	query := orderSelect + `
		WHERE o.order_number = $1 OR o.job_number = $1 OR o.staccato_number = $1
		ORDER BY o.created_at DESC`
	return r.list(ctx, "search orders", query, term)
}

// List lista todas las órdenes, más recientes primero.
func (r *OrderRepo) List(ctx context.Context) ([]*entity.Order, error) {
	return r.list(ctx, "list orders", orderSelect+` ORDER BY o.created_at DESC`)
}

func (r *OrderRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// UpdateCurrentDepartment mueve la orden al reparto indicado.
func (r *OrderRepo) UpdateCurrentDepartment(ctx context.Context, id, deptID string, updatedAt time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE orders SET current_department_id = $2, updated_at = $3 WHERE id = $1`,
		id, deptID, updatedAt,
	)
	if err != nil {
		if isInvalidText(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update order department: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateData actualiza scarti y nota de la orden.
func (r *OrderRepo) UpdateData(ctx context.Context, id string, scarti int, note string, updatedAt time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE orders SET scarti = $2, note = $3, updated_at = $4 WHERE id = $1`,
		id, scarti, nullString(note), updatedAt,
	)
	if err != nil {
		if isInvalidText(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update order data: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountByCurrentDepartment cuenta las órdenes que están en el reparto.
func (r *OrderRepo) CountByCurrentDepartment(ctx context.Context, deptID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE current_department_id = $1`, deptID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count orders in department: %w", err)
	}
	return n, nil
}
