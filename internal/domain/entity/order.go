package entity

import "time"

// CodeKind esquema de identificación de una orden.
type CodeKind string

// Esquemas de código admitidos; cada orden usa exactamente uno.
const (
	CodeKindODL      CodeKind = "ODL"
	CodeKindJOB      CodeKind = "JOB"
	CodeKindSTACCATO CodeKind = "STACCATO"
)

// TrackingCode identifica una orden: tipo + valor normalizado en mayúsculas.
type TrackingCode struct {
	Kind  CodeKind
	Value string
}

func (c TrackingCode) String() string {
	return string(c.Kind) + " " + c.Value
}

// Order orden de producción trazada. CurrentDepartmentID es el único campo que cambia con cada movimiento.
type Order struct {
	ID                   string
	Code                 TrackingCode
	StartingDepartmentID string
	CurrentDepartmentID  string
	CreatedBy            string
	Scarti               int
	Note                 string
	CreatedAt            time.Time
	UpdatedAt            time.Time

	// Campos de solo lectura resueltos por JOIN en las consultas.
	StartingDepartmentName string
	CurrentDepartmentName  string
	CreatorName            string
}
