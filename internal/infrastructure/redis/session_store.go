// Package redis implementa el almacén de sesiones sobre Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jhoicas/Trazabilidad-api/internal/application/auth"
	"github.com/jhoicas/Trazabilidad-api/internal/application/usecase"
	"github.com/jhoicas/Trazabilidad-api/internal/domain"
	"github.com/jhoicas/Trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Trazabilidad-api/pkg/config"
)

var (
	_ auth.SessionStore      = (*SessionStore)(nil)
	_ usecase.SessionRevoker = (*SessionStore)(nil)
)

// DefaultKeyPrefix prefijo de las claves de sesión.
const DefaultKeyPrefix = "session:"

// SessionStore guarda cada sesión serializada en JSON bajo prefix+id con TTL.
// El set prefix+"user:"+userID indexa los ids de sesión de cada usuario.
type SessionStore struct {
	client redis.Cmdable
	prefix string
}

// NewClient abre la conexión y comprueba que Redis responde.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// NewSessionStore construye el almacén. prefix vacío usa DefaultKeyPrefix.
func NewSessionStore(client redis.Cmdable, prefix string) *SessionStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &SessionStore{client: client, prefix: prefix}
}

func (s *SessionStore) key(id string) string {
	return s.prefix + id
}

func (s *SessionStore) userKey(userID string) string {
	return s.prefix + "user:" + userID
}

// Set guarda o renueva la sesión. ttl 0 significa sin expiración.
func (s *SessionStore) Set(ctx context.Context, session *entity.Session, ttl time.Duration) error {
	if session == nil || session.ID == "" {
		return domain.ErrNoSession
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(session.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	if session.User.ID == "" {
		return nil
	}
	index := s.userKey(session.User.ID)
	if err := s.client.SAdd(ctx, index, session.ID).Err(); err != nil {
		return fmt.Errorf("index session: %w", err)
	}
	// el índice vive al menos tanto como la sesión más reciente
	if ttl > 0 {
		if err := s.client.Expire(ctx, index, ttl).Err(); err != nil {
			return fmt.Errorf("index session ttl: %w", err)
		}
	}
	return nil
}

// Get lee la sesión. Clave ausente o contenido ilegible devuelven domain.ErrNoSession.
func (s *SessionStore) Get(ctx context.Context, id string) (*entity.Session, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNoSession
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	var session entity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNoSession, err)
	}
	if session.ID != id || session.User.ID == "" {
		return nil, domain.ErrNoSession
	}
	return &session, nil
}

// Remove borra la sesión; borrar una clave inexistente no es error.
func (s *SessionStore) Remove(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// RemoveByUser borra todas las sesiones indexadas del usuario y el propio índice.
// Ids ya expirados en el índice se ignoran.
func (s *SessionStore) RemoveByUser(ctx context.Context, userID string) error {
	index := s.userKey(userID)
	ids, err := s.client.SMembers(ctx, index).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("list user sessions: %w", err)
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, s.key(id))
	}
	keys = append(keys, index)
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("remove user sessions: %w", err)
	}
	return nil
}
