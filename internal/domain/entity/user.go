package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// IsValidRole indica si el rol es uno de los admitidos.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleOperator
}

// User representa un perfil (tabla profiles). Solo puede autenticarse si Approved es true.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt; valores heredados pueden estar en claro hasta el próximo login
	FullName     string
	Role         string // admin, operator
	Approved     bool
	CreatedAt    time.Time
}
