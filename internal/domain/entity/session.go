package entity

import "time"

// SessionUser copia del perfil guardada en la sesión (sin credenciales).
type SessionUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Approved bool   `json:"approved"`
}

// Session sesión activa: se crea en el login y se destruye en el logout.
type Session struct {
	ID        string      `json:"id"`
	User      SessionUser `json:"user"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewSessionUser extrae del perfil los datos que viajan en la sesión.
func NewSessionUser(u *User) SessionUser {
	return SessionUser{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Role:     u.Role,
		Approved: u.Approved,
	}
}

// IsAdmin indica si el usuario de la sesión es admin.
func (s *Session) IsAdmin() bool {
	return s != nil && s.User.Role == RoleAdmin
}

// DisplayName nombre legible del usuario de la sesión.
func (s *Session) DisplayName() string {
	if s == nil {
		return ""
	}
	if s.User.FullName != "" {
		return s.User.FullName
	}
	return s.User.Username
}
