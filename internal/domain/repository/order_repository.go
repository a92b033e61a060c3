package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Trazabilidad-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para órdenes. Las órdenes nunca se eliminan.
type OrderRepository interface {
	// CreateIfAbsent inserta la orden salvo que su código ya exista. Devuelve false
	// sin error cuando otra transacción la creó antes; el llamador debe releerla.
	CreateIfAbsent(ctx context.Context, order *entity.Order) (bool, error)
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetByCode busca por la columna que corresponde al tipo del código.
	GetByCode(ctx context.Context, code entity.TrackingCode) (*entity.Order, error)
	// GetByCodeForUpdate igual que GetByCode pero bloquea la fila (SELECT FOR UPDATE); solo dentro de tx.
	GetByCodeForUpdate(ctx context.Context, code entity.TrackingCode) (*entity.Order, error)
	// Search devuelve las órdenes cuyo ODL, JOB o STACCATO coincide con term.
	Search(ctx context.Context, term string) ([]*entity.Order, error)
	List(ctx context.Context) ([]*entity.Order, error)
	UpdateCurrentDepartment(ctx context.Context, id, deptID string, updatedAt time.Time) error
	UpdateData(ctx context.Context, id string, scarti int, note string, updatedAt time.Time) error
	CountByCurrentDepartment(ctx context.Context, deptID string) (int, error)
}
