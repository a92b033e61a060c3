package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Trazabilidad-api/internal/domain/repository"
)

var _ repository.OrderHistoryRepository = (*OrderHistoryRepo)(nil)

// Los nombres guardados al escribir tienen prioridad; el JOIN cubre filas antiguas sin nombre.
const historySelect = `
	SELECT h.id, h.order_id, h.order_number, h.job_number, h.staccato_number,
	       h.from_department_id, h.to_department_id,
	       COALESCE(NULLIF(h.from_department_name, ''), fd.name, ''),
	       COALESCE(NULLIF(h.to_department_name, ''), td.name, ''),
	       h.moved_by_user_id,
	       COALESCE(NULLIF(h.moved_by_name, ''), NULLIF(p.full_name, ''), p.username, ''),
	       h.operation_type, h.scarti, h.note, h.moved_at
	FROM order_history h
	LEFT JOIN departments fd ON fd.id = h.from_department_id
	LEFT JOIN departments td ON td.id = h.to_department_id
	LEFT JOIN profiles p ON p.id = h.moved_by_user_id`

// OrderHistoryRepo implementación del histórico sobre PostgreSQL (usable con pool o tx).
type OrderHistoryRepo struct {
	q Querier
}

// NewOrderHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderHistoryRepository(q Querier) *OrderHistoryRepo {
	return &OrderHistoryRepo{q: q}
}

// Create añade un movimiento al histórico.
func (r *OrderHistoryRepo) Create(ctx context.Context, entry *entity.OrderHistory) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	odl, job, staccato := codeColumns(entry.Code)
	query := `
		INSERT INTO order_history (id, order_id, order_number, job_number, staccato_number,
		                           from_department_id, to_department_id, from_department_name, to_department_name,
		                           moved_by_user_id, moved_by_name, operation_type, scarti, note, moved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		entry.ID, entry.OrderID, odl, job, staccato,
		nullString(entry.FromDepartmentID), nullString(entry.ToDepartmentID),
		entry.FromDepartmentName, entry.ToDepartmentName,
		nullString(entry.MovedByUserID), entry.MovedByName,
		entry.OperationType, entry.Scarti, nullString(entry.Note), entry.MovedAt,
	)
	if err != nil {
		return fmt.Errorf("create order history: %w", err)
	}
	return nil
}

// ListByOrder lista el histórico de una orden, más reciente primero.
func (r *OrderHistoryRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.OrderHistory, error) {
	return r.list(ctx, "list order history", historySelect+` WHERE h.order_id = $1 ORDER BY h.moved_at DESC`, orderID)
}

// ListRecent lista los últimos movimientos de todas las órdenes.
func (r *OrderHistoryRepo) ListRecent(ctx context.Context, limit int) ([]*entity.OrderHistory, error) {
	return r.list(ctx, "list recent history", historySelect+` ORDER BY h.moved_at DESC LIMIT $1`, limit)
}

func (r *OrderHistoryRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.OrderHistory, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		if isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.OrderHistory
	for rows.Next() {
		var (
			h                         entity.OrderHistory
			odl, job, staccato        *string
			fromID, toID, movedBy, nt *string
		)
		if err := rows.Scan(
			&h.ID, &h.OrderID, &odl, &job, &staccato,
			&fromID, &toID, &h.FromDepartmentName, &h.ToDepartmentName,
			&movedBy, &h.MovedByName,
			&h.OperationType, &h.Scarti, &nt, &h.MovedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order history: %w", err)
		}
		h.Code = codeFromColumns(odl, job, staccato)
		h.FromDepartmentID = derefString(fromID)
		h.ToDepartmentID = derefString(toID)
		h.MovedByUserID = derefString(movedBy)
		h.Note = derefString(nt)
		list = append(list, &h)
	}
	if err := rows.Err(); err != nil {
		if isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}
