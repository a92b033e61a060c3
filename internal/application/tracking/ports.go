package tracking

import (
	"context"

	"github.com/jhoicas/Trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Trazabilidad-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repos de órdenes e histórico atados a ella.
// Si fn devuelve error se hace rollback de ambas escrituras.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		historyRepo repository.OrderHistoryRepository,
	) error) error
}

// OrderCardGenerator genera la ficha PDF de una orden con su histórico.
type OrderCardGenerator interface {
	GenerateOrderCard(ctx context.Context, order *entity.Order, history []*entity.OrderHistory) ([]byte, error)
}
