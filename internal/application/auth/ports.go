package auth

import (
	"context"
	"time"

	"github.com/jhoicas/Trazabilidad-api/internal/domain/entity"
)

// SessionStore almacén clave-valor de sesiones. Get devuelve domain.ErrNoSession
// si la entrada no existe o no se puede deserializar.
type SessionStore interface {
	Set(ctx context.Context, session *entity.Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*entity.Session, error)
	Remove(ctx context.Context, id string) error
}

// TokenIssuer emite el token que referencia una sesión.
type TokenIssuer interface {
	Sign(userID, sessionID string) (string, error)
}
