package repository

import (
	"context"

	"github.com/jhoicas/Trazabilidad-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para perfiles (DIP).
// Las búsquedas devuelven (nil, nil) si no hay fila.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	// GetApprovedByUsername solo devuelve el perfil si approved = true (filtro del login).
	GetApprovedByUsername(ctx context.Context, username string) (*entity.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateApproval(ctx context.Context, id string, approved bool, role string) error
	UpdateRole(ctx context.Context, id, role string) error
	ListPending(ctx context.Context) ([]*entity.User, error)
	ListApproved(ctx context.Context) ([]*entity.User, error)
	Delete(ctx context.Context, id string) error
}
