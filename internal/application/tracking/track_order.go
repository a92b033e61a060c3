package tracking

import (
	"context"
	"strings"

	"github.com/jhoicas/Trazabilidad-api/internal/application/auth"
	"github.com/jhoicas/Trazabilidad-api/internal/application/dto"
	"github.com/jhoicas/Trazabilidad-api/internal/domain"
	"github.com/jhoicas/Trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Trazabilidad-api/internal/domain/repository"
	domtracking "github.com/jhoicas/Trazabilidad-api/internal/domain/tracking"
)

// MoveData datos que acompañan a un movimiento.
type MoveData struct {
	Scarti int
	Note   string
}

// TrackOrder registra el paso de un código de un reparto a otro.
// Toda la validación ocurre antes de acceder a la BD. Si la orden no existe se crea con
// inicio y reparto actual en el origen. Búsqueda, alta, actualización e histórico van en una transacción.
func (uc *UseCase) TrackOrder(ctx context.Context, in dto.TrackOrderRequest) (*dto.TrackOrderResponse, error) {
	kind, err := domtracking.ParseKind(in.Type)
	if err != nil {
		return nil, err
	}
	code, err := domtracking.ParseCode(kind, in.Code)
	if err != nil {
		return nil, err
	}
	if err := domtracking.ValidateMove(in.FromDepartmentID, in.ToDepartmentID, in.Scarti); err != nil {
		return nil, err
	}
	op, err := domtracking.ParseOperation(in.Operation)
	if err != nil {
		return nil, err
	}
	session, err := auth.SessionFromContext(ctx)
	if err != nil {
		return nil, domain.NewValidationError("session", "inicie sesión para registrar movimientos")
	}

	from, to, err := uc.loadDepartments(ctx, in.FromDepartmentID, in.ToDepartmentID)
	if err != nil {
		return nil, err
	}

	var (
		order   *entity.Order
		entry   *entity.OrderHistory
		created bool
	)
	err = uc.tx.Run(ctx, func(orders repository.OrderRepository, history repository.OrderHistoryRepository) error {
		var err error
		order, err = orders.GetByCodeForUpdate(ctx, code)
		if err != nil {
			return err
		}
		now := uc.now()
		if order == nil {
			candidate := &entity.Order{
				Code:                 code,
				StartingDepartmentID: from.ID,
				CurrentDepartmentID:  from.ID,
				CreatedBy:            session.User.ID,
				CreatedAt:            now,
				UpdatedAt:            now,
			}
			created, err = orders.CreateIfAbsent(ctx, candidate)
			if err != nil {
				return err
			}
			order = candidate
			if !created {
				// primer movimiento simultáneo del mismo código: se encadena tras el ganador
				order, err = orders.GetByCodeForUpdate(ctx, code)
				if err != nil {
					return err
				}
				if order == nil {
					return domain.ErrConflict
				}
			}
		}
		if err := orders.UpdateCurrentDepartment(ctx, order.ID, to.ID, now); err != nil {
			return err
		}
		entry = &entity.OrderHistory{
			OrderID:            order.ID,
			Code:               code,
			FromDepartmentID:   from.ID,
			ToDepartmentID:     to.ID,
			FromDepartmentName: from.Name,
			ToDepartmentName:   to.Name,
			MovedByUserID:      session.User.ID,
			MovedByName:        session.DisplayName(),
			OperationType:      op,
			Scarti:             in.Scarti,
			Note:               strings.TrimSpace(in.Note),
			MovedAt:            now,
		}
		return history.Create(ctx, entry)
	})
	if err != nil {
		uc.log.Error().Err(err).Str("code", code.String()).Msg("error registrando movimiento")
		return nil, err
	}

	if fresh, err := uc.orders.GetByID(ctx, order.ID); err == nil && fresh != nil {
		order = fresh
	} else {
		order.CurrentDepartmentID = to.ID
		order.CurrentDepartmentName = to.Name
		order.StartingDepartmentName = nameFor(order.StartingDepartmentID, from, to)
		order.UpdatedAt = entry.MovedAt
	}
	uc.log.Info().
		Str("code", code.String()).
		Str("order_id", order.ID).
		Str("from", from.Name).
		Str("to", to.Name).
		Str("operation", op).
		Bool("created", created).
		Str("user_id", session.User.ID).
		Msg("movimiento registrado")
	return &dto.TrackOrderResponse{
		Created: created,
		Order:   toOrderResponse(order),
		Entry:   toHistoryResponse(entry),
	}, nil
}

// MoveOrder mueve una orden existente hacia adelante (avanzamento).
func (uc *UseCase) MoveOrder(ctx context.Context, orderID, fromDeptID, toDeptID, userID string, data MoveData) (*dto.OrderHistoryResponse, error) {
	return uc.move(ctx, orderID, fromDeptID, toDeptID, userID, entity.OperationAvanzamento, data)
}

// MoveOrderBackward devuelve una orden a un reparto anterior (retrocessione).
func (uc *UseCase) MoveOrderBackward(ctx context.Context, orderID, fromDeptID, toDeptID, userID string, data MoveData) (*dto.OrderHistoryResponse, error) {
	return uc.move(ctx, orderID, fromDeptID, toDeptID, userID, entity.OperationRetrocessione, data)
}

// move actualiza el reparto actual y añade el movimiento al histórico en la misma transacción.
func (uc *UseCase) move(ctx context.Context, orderID, fromDeptID, toDeptID, userID, op string, data MoveData) (*dto.OrderHistoryResponse, error) {
	if orderID == "" {
		return nil, domain.NewValidationError("order_id", "seleccione una orden")
	}
	if userID == "" {
		return nil, domain.NewValidationError("session", "inicie sesión para registrar movimientos")
	}
	if err := domtracking.ValidateMove(fromDeptID, toDeptID, data.Scarti); err != nil {
		return nil, err
	}
	from, to, err := uc.loadDepartments(ctx, fromDeptID, toDeptID)
	if err != nil {
		return nil, err
	}
	movedBy := ""
	if s, err := auth.SessionFromContext(ctx); err == nil && s.User.ID == userID {
		movedBy = s.DisplayName()
	}

	var entry *entity.OrderHistory
	err = uc.tx.Run(ctx, func(orders repository.OrderRepository, history repository.OrderHistoryRepository) error {
		order, err := orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		now := uc.now()
		if err := orders.UpdateCurrentDepartment(ctx, order.ID, to.ID, now); err != nil {
			return err
		}
		entry = &entity.OrderHistory{
			OrderID:            order.ID,
			Code:               order.Code,
			FromDepartmentID:   from.ID,
			ToDepartmentID:     to.ID,
			FromDepartmentName: from.Name,
			ToDepartmentName:   to.Name,
			MovedByUserID:      userID,
			MovedByName:        movedBy,
			OperationType:      op,
			Scarti:             data.Scarti,
			Note:               strings.TrimSpace(data.Note),
			MovedAt:            now,
		}
		return history.Create(ctx, entry)
	})
	if err != nil {
		uc.log.Error().Err(err).Str("order_id", orderID).Str("operation", op).Msg("error moviendo orden")
		return nil, err
	}
	uc.log.Info().
		Str("order_id", orderID).
		Str("from", from.Name).
		Str("to", to.Name).
		Str("operation", op).
		Str("user_id", userID).
		Msg("orden movida")
	resp := toHistoryResponse(entry)
	return &resp, nil
}

// UpdateOrderData corrige scarti y nota de una orden sin moverla.
func (uc *UseCase) UpdateOrderData(ctx context.Context, orderID string, in dto.UpdateOrderDataRequest) (*dto.OrderResponse, error) {
	if in.Scarti < 0 {
		return nil, domain.NewValidationError("scarti", "los scarti no pueden ser negativos")
	}
	note := strings.TrimSpace(in.Note)
	if err := uc.orders.UpdateData(ctx, orderID, in.Scarti, note, uc.now()); err != nil {
		return nil, err
	}
	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	uc.log.Info().Str("order_id", orderID).Int("scarti", in.Scarti).Msg("datos de orden actualizados")
	resp := toOrderResponse(order)
	return &resp, nil
}

func nameFor(id string, depts ...*entity.Department) string {
	for _, d := range depts {
		if d != nil && d.ID == id {
			return d.Name
		}
	}
	return ""
}
