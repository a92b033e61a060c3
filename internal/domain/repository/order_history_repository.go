package repository

import (
	"context"

	"github.com/jhoicas/Trazabilidad-api/internal/domain/entity"
)

// OrderHistoryRepository puerto del histórico de movimientos. Solo permite añadir y leer.
type OrderHistoryRepository interface {
	Create(ctx context.Context, entry *entity.OrderHistory) error
	// ListByOrder devuelve el histórico de la orden, más reciente primero.
	ListByOrder(ctx context.Context, orderID string) ([]*entity.OrderHistory, error)
	// ListRecent devuelve los últimos limit movimientos de todas las órdenes.
	ListRecent(ctx context.Context, limit int) ([]*entity.OrderHistory, error)
}
