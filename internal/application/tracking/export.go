package tracking

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrCardsDisabled no hay generador de fichas configurado.
var ErrCardsDisabled = errors.New("generación de fichas PDF no disponible")

var csvHeader = []string{
	"data", "tipo", "codice", "da_reparto", "a_reparto", "operatore", "operazione", "scarti", "note",
}

// ExportHistoryCSV exporta los últimos movimientos con nombres legibles para hoja de cálculo.
func (uc *UseCase) ExportHistoryCSV(ctx context.Context, limit int) ([]byte, error) {
	list, err := uc.history.ListRecent(ctx, uc.limit(limit))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, h := range list {
		record := []string{
			h.MovedAt.Format(time.RFC3339),
			string(h.Code.Kind),
			spreadsheetSafe(h.Code.Value),
			spreadsheetSafe(h.FromDepartmentName),
			spreadsheetSafe(h.ToDepartmentName),
			spreadsheetSafe(h.MovedByName),
			h.OperationType,
			strconv.Itoa(h.Scarti),
			spreadsheetSafe(h.Note),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// spreadsheetSafe antepone un apóstrofo a los textos que una hoja de cálculo
// interpretaría como fórmula (=, +, -, @, tabulador o retorno de carro iniciales).
func spreadsheetSafe(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

// OrderCardPDF genera la ficha PDF de la orden con su histórico.
func (uc *UseCase) OrderCardPDF(ctx context.Context, orderID string) ([]byte, error) {
	if uc.cards == nil {
		return nil, ErrCardsDisabled
	}
	order, history, err := uc.loadOrderWithHistory(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return uc.cards.GenerateOrderCard(ctx, order, history)
}
