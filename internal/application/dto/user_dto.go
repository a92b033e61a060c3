package dto

import "time"

// RegisterRequest entrada del registro público. Si Username está vacío se genera con nombre.apellido.
type RegisterRequest struct {
	Username  string `json:"username" validate:"omitempty,max=100"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	FirstName string `json:"first_name" validate:"required_without=Username,max=100"`
	LastName  string `json:"last_name" validate:"required_without=Username,max=100"`
	FullName  string `json:"full_name" validate:"omitempty,max=200"`
}

// LoginRequest entrada del login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token firmado y usuario de la sesión.
type LoginResponse struct {
	Token     string       `json:"token"`
	SessionID string       `json:"session_id"`
	User      UserResponse `json:"user"`
}

// ChangePasswordRequest cambio de contraseña desde el perfil.
type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password" validate:"max=72"`
	ConfirmPassword string `json:"confirm_password"`
}

// ApproveUserRequest aprobación de un registro pendiente.
type ApproveUserRequest struct {
	Role string `json:"role" validate:"required,oneof=admin operator"`
}

// ChangeRoleRequest cambio de rol.
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin operator"`
}

// UserResponse salida de un usuario (sin credencial).
type UserResponse struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	FullName  string     `json:"full_name"`
	Role      string     `json:"role"`
	Approved  bool       `json:"approved"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
