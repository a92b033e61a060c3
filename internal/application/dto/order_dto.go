package dto

import "time"

// TrackOrderRequest envío del formulario de trazabilidad.
type TrackOrderRequest struct {
	Type             string `json:"type" validate:"required,code_kind"`
	Code             string `json:"code"`
	FromDepartmentID string `json:"from_department_id"`
	ToDepartmentID   string `json:"to_department_id"`
	Operation        string `json:"operation" validate:"omitempty,oneof=avanzamento retrocessione AVANZAMENTO RETROCESSIONE"`
	Scarti           int    `json:"scarti"`
	Note             string `json:"note" validate:"max=1000"`
}

// MoveOrderRequest movimiento de una orden ya existente.
type MoveOrderRequest struct {
	FromDepartmentID string `json:"from_department_id"`
	ToDepartmentID   string `json:"to_department_id"`
	Operation        string `json:"operation"`
	Scarti           int    `json:"scarti"`
	Note             string `json:"note" validate:"max=1000"`
}

// UpdateOrderDataRequest corrección de scarti y nota.
type UpdateOrderDataRequest struct {
	Scarti int    `json:"scarti" validate:"gte=0"`
	Note   string `json:"note" validate:"max=1000"`
}

// OrderResponse salida de una orden con los nombres resueltos.
type OrderResponse struct {
	ID                     string    `json:"id"`
	CodeType               string    `json:"code_type"`
	Code                   string    `json:"code"`
	OrderNumber            *string   `json:"order_number"`
	JobNumber              *string   `json:"job_number"`
	StaccatoNumber         *string   `json:"staccato_number"`
	StartingDepartmentID   string    `json:"starting_department_id"`
	StartingDepartmentName string    `json:"starting_department_name"`
	CurrentDepartmentID    string    `json:"current_department_id"`
	CurrentDepartmentName  string    `json:"current_department_name"`
	CreatedBy              string    `json:"created_by,omitempty"`
	CreatorName            string    `json:"creator_name,omitempty"`
	Scarti                 int       `json:"scarti"`
	Note                   string    `json:"note"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// OrderHistoryResponse un movimiento del histórico.
type OrderHistoryResponse struct {
	ID                 string    `json:"id"`
	OrderID            string    `json:"order_id"`
	CodeType           string    `json:"code_type"`
	Code               string    `json:"code"`
	FromDepartmentID   string    `json:"from_department_id,omitempty"`
	FromDepartmentName string    `json:"from_department_name"`
	ToDepartmentID     string    `json:"to_department_id,omitempty"`
	ToDepartmentName   string    `json:"to_department_name"`
	MovedByUserID      string    `json:"moved_by_user_id,omitempty"`
	MovedByName        string    `json:"moved_by_name"`
	OperationType      string    `json:"operation_type"`
	Scarti             int       `json:"scarti"`
	Note               string    `json:"note"`
	MovedAt            time.Time `json:"moved_at"`
}

// TrackOrderResponse resultado del tracking: orden actualizada, movimiento creado y si la orden es nueva.
type TrackOrderResponse struct {
	Created bool                 `json:"created"`
	Order   OrderResponse        `json:"order"`
	Entry   OrderHistoryResponse `json:"entry"`
}

// OrderWithHistoryResponse orden con su histórico completo.
type OrderWithHistoryResponse struct {
	Order   OrderResponse          `json:"order"`
	History []OrderHistoryResponse `json:"history"`
}
