package auth

import (
	"context"

	"github.com/jhoicas/Trazabilidad-api/internal/domain"
	"github.com/jhoicas/Trazabilidad-api/internal/domain/entity"
)

type sessionKey struct{}

// WithSession devuelve un ctx que transporta la sesión del usuario autenticado.
func WithSession(ctx context.Context, s *entity.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext recupera la sesión del ctx o domain.ErrNoSession.
func SessionFromContext(ctx context.Context) (*entity.Session, error) {
	s, ok := ctx.Value(sessionKey{}).(*entity.Session)
	if !ok || s == nil {
		return nil, domain.ErrNoSession
	}
	return s, nil
}
