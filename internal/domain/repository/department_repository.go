package repository

import (
	"context"

	"github.com/jhoicas/Trazabilidad-api/internal/domain/entity"
)

// DepartmentRepository define el puerto de persistencia para reparti (DIP).
type DepartmentRepository interface {
	Create(ctx context.Context, dept *entity.Department) error
	GetByID(ctx context.Context, id string) (*entity.Department, error)
	// List devuelve todos los reparti ordenados por posición ascendente.
	List(ctx context.Context) ([]*entity.Department, error)
	// MaxPosition devuelve la posición más alta (0 si no hay reparti).
	MaxPosition(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
}
