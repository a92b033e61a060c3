package tracking_test

import (
	"context"
	"encoding/csv"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Trazabilidad-api/internal/application/auth"
	"github.com/jhoicas/Trazabilidad-api/internal/application/dto"
	"github.com/jhoicas/Trazabilidad-api/internal/application/tracking"
	"github.com/jhoicas/Trazabilidad-api/internal/domain"
	"github.com/jhoicas/Trazabilidad-api/internal/domain/entity"
)

var (
	cutting = &entity.Department{ID: "d-cut", Name: "Cutting", Position: 1}
	sewing  = &entity.Department{ID: "d-sew", Name: "Sewing", Position: 2}
	packing = &entity.Department{ID: "d-pack", Name: "Packing", Position: 3}
)

func newUseCase(s *store, cards tracking.OrderCardGenerator) *tracking.UseCase {
	return tracking.NewUseCase(
		fakeOrders{s}, fakeHistory{s}, fakeDepartments{s}, fakeTx{s}, cards,
		tracking.Config{}, nil,
	)
}

func operatorCtx() context.Context {
	return auth.WithSession(context.Background(), &entity.Session{
		ID:   "sess-1",
		User: entity.SessionUser{ID: "u-1", Username: "mario.rossi", FullName: "Mario Rossi", Role: entity.RoleOperator, Approved: true},
	})
}

func track(t *testing.T, uc *tracking.UseCase, code, from, to string) *dto.TrackOrderResponse {
	t.Helper()
	out, err := uc.TrackOrder(operatorCtx(), dto.TrackOrderRequest{
		Type: "ODL", Code: code, FromDepartmentID: from, ToDepartmentID: to,
	})
	require.NoError(t, err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// TrackOrder
// ──────────────────────────────────────────────────────────────────────────────

func TestTrackOrder_CreaOrdenYMovimiento(t *testing.T) {
	s := newStore(cutting, sewing, packing)
	uc := newUseCase(s, nil)

	out := track(t, uc, "abc123", cutting.ID, sewing.ID)

	assert.True(t, out.Created)
	require.Len(t, s.orders, 1)
	order := s.orders[out.Order.ID]
	assert.Equal(t, entity.TrackingCode{Kind: entity.CodeKindODL, Value: "ABC123"}, order.Code)
	assert.Equal(t, cutting.ID, order.StartingDepartmentID)
	assert.Equal(t, sewing.ID, order.CurrentDepartmentID)
	assert.Equal(t, "u-1", order.CreatedBy)

	require.Len(t, s.history, 1)
	h := s.history[0]
	assert.Equal(t, cutting.ID, h.FromDepartmentID)
	assert.Equal(t, sewing.ID, h.ToDepartmentID)
	assert.Equal(t, "Cutting", h.FromDepartmentName)
	assert.Equal(t, "Sewing", h.ToDepartmentName)
	assert.Equal(t, "Mario Rossi", h.MovedByName)
	assert.Equal(t, entity.OperationAvanzamento, h.OperationType)
	assert.Equal(t, "Sewing", out.Order.CurrentDepartmentName)
}

func TestTrackOrder_SegundoMovimientoActualizaYAnade(t *testing.T) {
	s := newStore(cutting, sewing, packing)
	uc := newUseCase(s, nil)

	first := track(t, uc, "ABC123", cutting.ID, sewing.ID)
	firstEntry := *s.history[0]
	second := track(t, uc, "ABC123", sewing.ID, packing.ID)

	assert.False(t, second.Created)
	assert.Equal(t, first.Order.ID, second.Order.ID)
	require.Len(t, s.orders, 1)
	assert.Equal(t, packing.ID, s.orders[first.Order.ID].CurrentDepartmentID)
	require.Len(t, s.history, 2)
	assert.Equal(t, firstEntry, *s.history[0], "el primer movimiento no cambia")
	assert.Equal(t, packing.ID, s.history[1].ToDepartmentID)
}

// Dos primeros movimientos simultáneos del mismo código: el segundo no falla con
// duplicado, se aplica sobre la orden que creó el primero.
func TestTrackOrder_AltaSimultaneaSeEncadena(t *testing.T) {
	s := newStore(cutting, sewing, packing)
	uc := newUseCase(s, nil)
	var winnerID string
	s.beforeCreate = func() {
		s.beforeCreate = nil
		winnerID = track(t, uc, "RACE1", cutting.ID, sewing.ID).Order.ID
	}

	out, err := uc.TrackOrder(operatorCtx(), dto.TrackOrderRequest{
		Type: "ODL", Code: "RACE1", FromDepartmentID: sewing.ID, ToDepartmentID: packing.ID,
	})
	require.NoError(t, err)

	assert.False(t, out.Created)
	assert.Equal(t, winnerID, out.Order.ID)
	require.Len(t, s.orders, 1)
	assert.Equal(t, cutting.ID, s.orders[winnerID].StartingDepartmentID)
	assert.Equal(t, packing.ID, s.orders[winnerID].CurrentDepartmentID)
	require.Len(t, s.history, 2)
	assert.Equal(t, winnerID, s.history[1].OrderID)
}

func TestTrackOrder_ValidacionSinLlamadasRemotas(t *testing.T) {
	cases := []struct {
		name string
		ctx  context.Context
		in   dto.TrackOrderRequest
	}{
		{"odl demasiado largo", operatorCtx(), dto.TrackOrderRequest{Type: "ODL", Code: "ABCDEFGHIJKL", FromDepartmentID: cutting.ID, ToDepartmentID: sewing.ID}},
		{"job demasiado largo", operatorCtx(), dto.TrackOrderRequest{Type: "JOB", Code: "ABCDEFGHIJK", FromDepartmentID: cutting.ID, ToDepartmentID: sewing.ID}},
		{"staccato demasiado largo", operatorCtx(), dto.TrackOrderRequest{Type: "STACCATO", Code: "ABCDEFGHIJK", FromDepartmentID: cutting.ID, ToDepartmentID: sewing.ID}},
		{"código vacío", operatorCtx(), dto.TrackOrderRequest{Type: "ODL", Code: "  ", FromDepartmentID: cutting.ID, ToDepartmentID: sewing.ID}},
		{"tipo inválido", operatorCtx(), dto.TrackOrderRequest{Type: "LOTTO", Code: "A1", FromDepartmentID: cutting.ID, ToDepartmentID: sewing.ID}},
		{"sin origen", operatorCtx(), dto.TrackOrderRequest{Type: "ODL", Code: "A1", ToDepartmentID: sewing.ID}},
		{"sin destino", operatorCtx(), dto.TrackOrderRequest{Type: "ODL", Code: "A1", FromDepartmentID: cutting.ID}},
		{"origen igual a destino", operatorCtx(), dto.TrackOrderRequest{Type: "ODL", Code: "A1", FromDepartmentID: cutting.ID, ToDepartmentID: cutting.ID}},
		{"scarti negativos", operatorCtx(), dto.TrackOrderRequest{Type: "ODL", Code: "A1", FromDepartmentID: cutting.ID, ToDepartmentID: sewing.ID, Scarti: -2}},
		{"operación inválida", operatorCtx(), dto.TrackOrderRequest{Type: "ODL", Code: "A1", FromDepartmentID: cutting.ID, ToDepartmentID: sewing.ID, Operation: "salto"}},
		{"sin sesión", context.Background(), dto.TrackOrderRequest{Type: "ODL", Code: "A1", FromDepartmentID: cutting.ID, ToDepartmentID: sewing.ID}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newStore(cutting, sewing)
			uc := newUseCase(s, nil)

			_, err := uc.TrackOrder(tc.ctx, tc.in)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Zero(t, s.calls, "no debe haber llamadas a la BD")
		})
	}
}

func TestTrackOrder_LongitudMaximaAceptada(t *testing.T) {
	s := newStore(cutting, sewing)
	uc := newUseCase(s, nil)

	out, err := uc.TrackOrder(operatorCtx(), dto.TrackOrderRequest{
		Type: "odl", Code: "ABCDEFGHIJK", FromDepartmentID: cutting.ID, ToDepartmentID: sewing.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "ABCDEFGHIJK", out.Order.Code)
}

func TestTrackOrder_Retrocessione(t *testing.T) {
	s := newStore(cutting, sewing)
	uc := newUseCase(s, nil)

	out, err := uc.TrackOrder(operatorCtx(), dto.TrackOrderRequest{
		Type: "JOB", Code: "j-9", FromDepartmentID: sewing.ID, ToDepartmentID: cutting.ID,
		Operation: "Retrocessione", Scarti: 3, Note: "  cucitura storta  ",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OperationRetrocessione, out.Entry.OperationType)
	assert.Equal(t, 3, out.Entry.Scarti)
	assert.Equal(t, "cucitura storta", out.Entry.Note)
	assert.Equal(t, "J-9", *out.Order.JobNumber)
	assert.Nil(t, out.Order.OrderNumber)
}

func TestTrackOrder_RepartoInexistente(t *testing.T) {
	s := newStore(cutting)
	uc := newUseCase(s, nil)

	_, err := uc.TrackOrder(operatorCtx(), dto.TrackOrderRequest{
		Type: "ODL", Code: "A1", FromDepartmentID: cutting.ID, ToDepartmentID: "d-missing",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, s.orders)
}

func TestTrackOrder_FalloHistoricoHaceRollback(t *testing.T) {
	s := newStore(cutting, sewing)
	s.failHistory = errors.New("insert order_history: connection reset")
	uc := newUseCase(s, nil)

	_, err := uc.TrackOrder(operatorCtx(), dto.TrackOrderRequest{
		Type: "ODL", Code: "A1", FromDepartmentID: cutting.ID, ToDepartmentID: sewing.ID,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Empty(t, s.orders, "la orden creada se descarta con la transacción")
	assert.Empty(t, s.history)
}

// ──────────────────────────────────────────────────────────────────────────────
// MoveOrder / MoveOrderBackward
// ──────────────────────────────────────────────────────────────────────────────

func TestMoveOrder_TipoDeOperacion(t *testing.T) {
	s := newStore(cutting, sewing, packing)
	uc := newUseCase(s, nil)
	order := track(t, uc, "M1", cutting.ID, sewing.ID).Order

	fwd, err := uc.MoveOrder(operatorCtx(), order.ID, sewing.ID, packing.ID, "u-1", tracking.MoveData{Scarti: 1})
	require.NoError(t, err)
	assert.Equal(t, entity.OperationAvanzamento, fwd.OperationType)

	back, err := uc.MoveOrderBackward(operatorCtx(), order.ID, packing.ID, sewing.ID, "u-1", tracking.MoveData{Note: "rilavorare"})
	require.NoError(t, err)
	assert.Equal(t, entity.OperationRetrocessione, back.OperationType)

	require.Len(t, s.history, 3)
	assert.Equal(t, entity.OperationAvanzamento, s.history[1].OperationType)
	assert.Equal(t, entity.OperationRetrocessione, s.history[2].OperationType)
	assert.Equal(t, "M1", s.history[2].Code.Value)
	assert.Equal(t, "Mario Rossi", s.history[2].MovedByName)
	assert.Equal(t, sewing.ID, s.orders[order.ID].CurrentDepartmentID)
}

func TestMoveOrder_OrdenInexistente(t *testing.T) {
	s := newStore(cutting, sewing)
	uc := newUseCase(s, nil)

	_, err := uc.MoveOrder(operatorCtx(), "missing", cutting.ID, sewing.ID, "u-1", tracking.MoveData{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, s.history)
}

func TestMoveOrder_MismoReparto(t *testing.T) {
	s := newStore(cutting)
	uc := newUseCase(s, nil)

	_, err := uc.MoveOrder(operatorCtx(), "o1", cutting.ID, cutting.ID, "u-1", tracking.MoveData{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, s.calls)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas
// ──────────────────────────────────────────────────────────────────────────────

func TestGetOrdersSummaryByDepartment(t *testing.T) {
	s := newStore(cutting, sewing, packing)
	uc := newUseCase(s, nil)
	track(t, uc, "A", cutting.ID, sewing.ID)
	track(t, uc, "B", cutting.ID, sewing.ID)
	track(t, uc, "C", cutting.ID, packing.ID)

	out, err := uc.GetOrdersSummaryByDepartment(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{sewing.ID: 2, packing.ID: 1}, out)

	n, err := uc.CountOrdersInDepartment(context.Background(), sewing.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSearchOrder_NormalizaTermino(t *testing.T) {
	s := newStore(cutting, sewing)
	uc := newUseCase(s, nil)
	track(t, uc, "XY9", cutting.ID, sewing.ID)

	out, err := uc.SearchOrder(context.Background(), " xy9 ")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "XY9", out[0].Code)

	_, err = uc.SearchOrder(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetOrderByNumber(t *testing.T) {
	s := newStore(cutting, sewing)
	uc := newUseCase(s, nil)
	track(t, uc, "N77", cutting.ID, sewing.ID)

	out, err := uc.GetOrderByNumber(context.Background(), "n77")
	require.NoError(t, err)
	assert.Equal(t, "Sewing", out.CurrentDepartmentName)

	_, err = uc.GetOrderByNumber(context.Background(), "N78")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetOrderWithHistory(t *testing.T) {
	s := newStore(cutting, sewing, packing)
	uc := newUseCase(s, nil)
	id := track(t, uc, "H1", cutting.ID, sewing.ID).Order.ID
	track(t, uc, "H1", sewing.ID, packing.ID)

	out, err := uc.GetOrderWithHistory(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Packing", out.Order.CurrentDepartmentName)
	require.Len(t, out.History, 2)
	assert.Equal(t, "Packing", out.History[0].ToDepartmentName, "más reciente primero")
}

func TestGetRecentHistory_LimitePorDefecto(t *testing.T) {
	s := newStore(cutting, sewing)
	uc := newUseCase(s, nil)
	for i := 0; i < 60; i++ {
		s.history = append(s.history, &entity.OrderHistory{ID: strconv.Itoa(i)})
	}

	out, err := uc.GetRecentHistory(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, out, tracking.DefaultRecentHistoryLimit)

	out, err = uc.GetRecentHistory(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, out, 5)
}

func TestUpdateOrderData(t *testing.T) {
	s := newStore(cutting, sewing)
	uc := newUseCase(s, nil)
	id := track(t, uc, "U1", cutting.ID, sewing.ID).Order.ID

	out, err := uc.UpdateOrderData(context.Background(), id, dto.UpdateOrderDataRequest{Scarti: 4, Note: " ok "})
	require.NoError(t, err)
	assert.Equal(t, 4, out.Scarti)
	assert.Equal(t, "ok", out.Note)

	_, err = uc.UpdateOrderData(context.Background(), "missing", dto.UpdateOrderDataRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Exportaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestExportHistoryCSV(t *testing.T) {
	s := newStore(cutting, sewing)
	uc := newUseCase(s, nil)
	track(t, uc, "CSV1", cutting.ID, sewing.ID)

	out, err := uc.ExportHistoryCSV(context.Background(), 0)
	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "codice", records[0][2])
	assert.Equal(t, []string{"ODL", "CSV1", "Cutting", "Sewing", "Mario Rossi", "avanzamento", "0", ""}, records[1][1:])
}

func TestExportHistoryCSV_NeutralizaFormulas(t *testing.T) {
	evil := &entity.Department{ID: "d-evil", Name: "@SUM(A1:A9)", Position: 9}
	s := newStore(cutting, evil)
	uc := newUseCase(s, nil)
	_, err := uc.TrackOrder(operatorCtx(), dto.TrackOrderRequest{
		Type: "ODL", Code: "CSV2", FromDepartmentID: cutting.ID, ToDepartmentID: evil.ID,
		Note: `=HYPERLINK("http://x.test","clic")`,
	})
	require.NoError(t, err)
	s.history[0].MovedByName = "-2+3"

	out, err := uc.ExportHistoryCSV(context.Background(), 0)
	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	row := records[1]
	assert.Equal(t, "Cutting", row[3])
	assert.Equal(t, "'@SUM(A1:A9)", row[4])
	assert.Equal(t, "'-2+3", row[5])
	assert.Equal(t, `'=HYPERLINK("http://x.test","clic")`, row[8])
}

func TestOrderCardPDF(t *testing.T) {
	s := newStore(cutting, sewing)
	cards := &fakeCards{}
	uc := newUseCase(s, cards)
	id := track(t, uc, "PDF1", cutting.ID, sewing.ID).Order.ID

	out, err := uc.OrderCardPDF(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), out)
	assert.Equal(t, "PDF1", cards.order.Code.Value)
	assert.Len(t, cards.history, 1)

	_, err = newUseCase(s, nil).OrderCardPDF(context.Background(), id)
	assert.ErrorIs(t, err, tracking.ErrCardsDisabled)
}
