package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound       = errors.New("recurso no encontrado")
	ErrUserNotFound   = errors.New("usuario no encontrado")
	ErrInvalidInput   = errors.New("entrada inválida")
	ErrDuplicate      = errors.New("recurso duplicado")
	ErrForbidden      = errors.New("no tiene permisos para esta operación")
	ErrConflict       = errors.New("conflicto con el estado actual")
	ErrAuthentication = errors.New("usuario o contraseña incorrectos")
	ErrNoSession      = errors.New("sesión inexistente o inválida")
)

// ValidationError falla de validación local: se rechaza antes de cualquier llamada a la BD.
// Message es el texto que se muestra al usuario.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError construye un ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
