package tracking

import (
	"strings"

	"github.com/jhoicas/Trazabilidad-api/internal/domain"
	"github.com/jhoicas/Trazabilidad-api/internal/domain/entity"
)

// ParseOperation normaliza el tipo de operación. Vacío equivale a avanzamento.
func ParseOperation(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", entity.OperationAvanzamento:
		return entity.OperationAvanzamento, nil
	case entity.OperationRetrocessione:
		return entity.OperationRetrocessione, nil
	default:
		return "", domain.NewValidationError("operation", "operación inválida: use avanzamento o retrocessione")
	}
}

// ValidateMove comprueba reparto de origen y destino antes de cualquier escritura.
func ValidateMove(fromDeptID, toDeptID string, scarti int) error {
	if fromDeptID == "" {
		return domain.NewValidationError("from_department_id", "seleccione el reparto de origen")
	}
	if toDeptID == "" {
		return domain.NewValidationError("to_department_id", "seleccione el reparto de destino")
	}
	if fromDeptID == toDeptID {
		return domain.NewValidationError("to_department_id", "los reparti de origen y destino deben ser distintos")
	}
	if scarti < 0 {
		return domain.NewValidationError("scarti", "los scarti no pueden ser negativos")
	}
	return nil
}
