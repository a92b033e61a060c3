package entity

import "time"

// Department reparto productivo por el que pasa una orden. Position define el orden de visualización.
type Department struct {
	ID        string
	Name      string
	Position  int
	CreatedAt time.Time
}
