package dto

import "time"

// CreateDepartmentRequest alta de reparto. Sin Position se añade al final.
type CreateDepartmentRequest struct {
	Name     string `json:"name" validate:"notblank,max=100"`
	Position *int   `json:"position" validate:"omitempty,gte=0"`
}

// DepartmentResponse salida de un reparto.
type DepartmentResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}
