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

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, username, password_hash, COALESCE(full_name, ''), role, approved, created_at`

// UserRepo implementación del puerto UserRepository sobre la tabla profiles.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para perfiles. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo perfil.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO profiles (id, username, password_hash, full_name, role, approved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Username, user.PasswordHash, nullString(user.FullName), user.Role, user.Approved, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// GetByID obtiene un perfil por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM profiles WHERE id = $1`, id)
}

// GetByUsername obtiene un perfil por username, aprobado o no.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM profiles WHERE username = $1`, username)
}

// GetApprovedByUsername obtiene el perfil solo si está aprobado.
func (r *UserRepo) GetApprovedByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM profiles WHERE username = $1 AND approved = true`, username)
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg string) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &u.Role, &u.Approved, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &u, nil
}

// UpdatePassword reemplaza la credencial almacenada.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.exec(ctx, "update password", `UPDATE profiles SET password_hash = $2 WHERE id = $1`, id, passwordHash)
}

// UpdateApproval aprueba (o desaprueba) un perfil asignándole el rol.
func (r *UserRepo) UpdateApproval(ctx context.Context, id string, approved bool, role string) error {
	return r.exec(ctx, "update approval", `UPDATE profiles SET approved = $2, role = $3 WHERE id = $1`, id, approved, role)
}

// UpdateRole cambia el rol de un perfil.
func (r *UserRepo) UpdateRole(ctx context.Context, id, role string) error {
	return r.exec(ctx, "update role", `UPDATE profiles SET role = $2 WHERE id = $1`, id, role)
}

// ListPending perfiles pendientes de aprobación (excluye admin).
func (r *UserRepo) ListPending(ctx context.Context) ([]*entity.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM profiles WHERE approved = false AND role <> 'admin' ORDER BY created_at DESC`)
}

// ListApproved perfiles aprobados.
func (r *UserRepo) ListApproved(ctx context.Context) ([]*entity.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM profiles WHERE approved = true ORDER BY username`)
}

func (r *UserRepo) list(ctx context.Context, query string) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &u.Role, &u.Approved, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// Delete elimina un perfil por ID.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, "delete profile", `DELETE FROM profiles WHERE id = $1`, id)
}

// exec ejecuta una escritura sobre una fila; ErrUserNotFound si no afectó ninguna.
func (r *UserRepo) exec(ctx context.Context, op, query string, args ...any) error {
	cmd, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		if isInvalidText(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
