// Package tracking contiene las reglas de dominio de la trazabilidad de órdenes:
// normalización y validación de códigos, tipos de operación y agregaciones locales.
package tracking

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/Trazabilidad-api/internal/domain"
	"github.com/jhoicas/Trazabilidad-api/internal/domain/entity"
)

// Longitud máxima del código por tipo.
const (
	MaxLenODL      = 11
	MaxLenJOB      = 10
	MaxLenSTACCATO = 10
)

// MaxLength devuelve la longitud máxima admitida para el tipo; 0 si el tipo no existe.
func MaxLength(kind entity.CodeKind) int {
	switch kind {
	case entity.CodeKindODL:
		return MaxLenODL
	case entity.CodeKindJOB:
		return MaxLenJOB
	case entity.CodeKindSTACCATO:
		return MaxLenSTACCATO
	default:
		return 0
	}
}

// ParseKind normaliza el tipo de código ("odl", "Job", ...).
func ParseKind(raw string) (entity.CodeKind, error) {
	kind := entity.CodeKind(Normalize(raw))
	if MaxLength(kind) == 0 {
		return "", domain.NewValidationError("type", "tipo de código inválido: use ODL, JOB o STACCATO")
	}
	return kind, nil
}

// Normalize pasa el texto a mayúsculas y quita espacios en los extremos.
func Normalize(raw string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(raw))
}

// ParseCode valida y normaliza un código: no vacío, en mayúsculas y dentro del máximo del tipo.
func ParseCode(kind entity.CodeKind, raw string) (entity.TrackingCode, error) {
	limit := MaxLength(kind)
	if limit == 0 {
		return entity.TrackingCode{}, domain.NewValidationError("type", "tipo de código inválido: use ODL, JOB o STACCATO")
	}
	value := Normalize(raw)
	if value == "" {
		return entity.TrackingCode{}, domain.NewValidationError("code", fmt.Sprintf("ingrese un número %s", kind))
	}
	if utf8.RuneCountInString(value) > limit {
		return entity.TrackingCode{}, domain.NewValidationError("code",
			fmt.Sprintf("el número %s debe tener como máximo %d caracteres", kind, limit))
	}
	return entity.TrackingCode{Kind: kind, Value: value}, nil
}
