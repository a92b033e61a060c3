// Package tracking contiene los casos de uso de la trazabilidad de órdenes:
// registro de movimientos entre reparti y consultas sobre órdenes e histórico.
package tracking

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Trazabilidad-api/internal/application/dto"
	"github.com/jhoicas/Trazabilidad-api/internal/domain"
	"github.com/jhoicas/Trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Trazabilidad-api/internal/domain/repository"
	domtracking "github.com/jhoicas/Trazabilidad-api/internal/domain/tracking"
	"github.com/jhoicas/Trazabilidad-api/pkg/logger"
)

// DefaultRecentHistoryLimit número de movimientos recientes si no se indica otro.
const DefaultRecentHistoryLimit = 50

// Config parámetros del caso de uso.
type Config struct {
	RecentHistoryLimit int
}

// UseCase casos de uso de trazabilidad.
type UseCase struct {
	orders      repository.OrderRepository
	history     repository.OrderHistoryRepository
	departments repository.DepartmentRepository
	tx          TxRunner
	cards       OrderCardGenerator
	cfg         Config
	log         *logger.Logger
	now         func() time.Time
}

// NewUseCase construye el caso de uso. cards puede ser nil si no se sirven fichas PDF.
func NewUseCase(
	orders repository.OrderRepository,
	history repository.OrderHistoryRepository,
	departments repository.DepartmentRepository,
	tx TxRunner,
	cards OrderCardGenerator,
	cfg Config,
	log *logger.Logger,
) *UseCase {
	if cfg.RecentHistoryLimit <= 0 {
		cfg.RecentHistoryLimit = DefaultRecentHistoryLimit
	}
	log = log.Component("tracking")
	return &UseCase{
		orders:      orders,
		history:     history,
		departments: departments,
		tx:          tx,
		cards:       cards,
		cfg:         cfg,
		log:         log,
		now:         time.Now,
	}
}

// GetAllOrders lista todas las órdenes, más recientes primero, con los nombres de reparto resueltos.
func (uc *UseCase) GetAllOrders(ctx context.Context) ([]dto.OrderResponse, error) {
	list, err := uc.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(list), nil
}

// GetOrderByNumber busca una orden por número ODL.
func (uc *UseCase) GetOrderByNumber(ctx context.Context, number string) (*dto.OrderResponse, error) {
	code, err := domtracking.ParseCode(entity.CodeKindODL, number)
	if err != nil {
		return nil, err
	}
	order, err := uc.orders.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	resp := toOrderResponse(order)
	return &resp, nil
}

// SearchOrder busca el término (en mayúsculas) en ODL, JOB y STACCATO.
func (uc *UseCase) SearchOrder(ctx context.Context, term string) ([]dto.OrderResponse, error) {
	term = domtracking.Normalize(term)
	if term == "" {
		return nil, domain.NewValidationError("q", "ingrese un código para buscar")
	}
	list, err := uc.orders.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(list), nil
}

// GetOrderHistory histórico de la orden, más reciente primero.
func (uc *UseCase) GetOrderHistory(ctx context.Context, orderID string) ([]dto.OrderHistoryResponse, error) {
	list, err := uc.history.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return toHistoryResponses(list), nil
}

// GetRecentHistory últimos movimientos de todas las órdenes. limit <= 0 usa el valor configurado.
func (uc *UseCase) GetRecentHistory(ctx context.Context, limit int) ([]dto.OrderHistoryResponse, error) {
	list, err := uc.history.ListRecent(ctx, uc.limit(limit))
	if err != nil {
		return nil, err
	}
	return toHistoryResponses(list), nil
}

// GetOrderWithHistory orden con su histórico completo.
func (uc *UseCase) GetOrderWithHistory(ctx context.Context, orderID string) (*dto.OrderWithHistoryResponse, error) {
	order, history, err := uc.loadOrderWithHistory(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &dto.OrderWithHistoryResponse{
		Order:   toOrderResponse(order),
		History: toHistoryResponses(history),
	}, nil
}

// CountOrdersInDepartment número de órdenes cuyo reparto actual es deptID.
func (uc *UseCase) CountOrdersInDepartment(ctx context.Context, deptID string) (int, error) {
	if deptID == "" {
		return 0, domain.NewValidationError("department_id", "seleccione un reparto")
	}
	return uc.orders.CountByCurrentDepartment(ctx, deptID)
}

// GetOrdersSummaryByDepartment cuenta las órdenes por reparto actual sobre el listado completo.
func (uc *UseCase) GetOrdersSummaryByDepartment(ctx context.Context) (map[string]int, error) {
	list, err := uc.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	return domtracking.SummarizeByDepartment(list), nil
}

func (uc *UseCase) loadOrderWithHistory(ctx context.Context, orderID string) (*entity.Order, []*entity.OrderHistory, error) {
	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, domain.ErrNotFound
	}
	history, err := uc.history.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return order, history, nil
}

func (uc *UseCase) limit(n int) int {
	if n <= 0 {
		return uc.cfg.RecentHistoryLimit
	}
	return n
}

// loadDepartments obtiene origen y destino; sus nombres se copian al histórico.
func (uc *UseCase) loadDepartments(ctx context.Context, fromID, toID string) (from, to *entity.Department, err error) {
	from, err = uc.departments.GetByID(ctx, fromID)
	if err != nil {
		return nil, nil, err
	}
	if from == nil {
		return nil, nil, fmt.Errorf("reparto de origen: %w", domain.ErrNotFound)
	}
	to, err = uc.departments.GetByID(ctx, toID)
	if err != nil {
		return nil, nil, err
	}
	if to == nil {
		return nil, nil, fmt.Errorf("reparto de destino: %w", domain.ErrNotFound)
	}
	return from, to, nil
}
