package entity

import "time"

// Tipos de operación registrados en el histórico.
const (
	OperationAvanzamento   = "avanzamento"   // avance
	OperationRetrocessione = "retrocessione" // retroceso
)

// OrderHistory registro inmutable de un movimiento entre reparti.
// Los nombres se copian al escribir para que el histórico siga legible si un reparto se renombra o elimina.
type OrderHistory struct {
	ID                 string
	OrderID            string
	Code               TrackingCode
	FromDepartmentID   string
	ToDepartmentID     string
	FromDepartmentName string
	ToDepartmentName   string
	MovedByUserID      string
	MovedByName        string
	OperationType      string
	Scarti             int
	Note               string
	MovedAt            time.Time
}
