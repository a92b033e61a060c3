package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSessionClaim el token es válido pero no referencia ninguna sesión.
var ErrNoSessionClaim = errors.New("jwt: el token no referencia una sesión")

// Claims el rol no viaja en el token: se lee de la sesión guardada.
type Claims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

// SessionToken datos que identifica un token verificado.
type SessionToken struct {
	UserID    string
	SessionID string
	ExpiresAt time.Time
}

// Signer firma y verifica tokens HS256 de sesión.
type Signer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner construye el firmador. ttl <= 0 no es válido.
func NewSigner(secret, issuer string, ttl time.Duration) (*Signer, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("jwt: duración inválida %s", ttl)
	}
	return &Signer{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// Sign emite un token para la sesión sessionID del usuario userID.
func (s *Signer) Sign(userID, sessionID string) (string, error) {
	if userID == "" || sessionID == "" {
		return "", fmt.Errorf("jwt: usuario y sesión son obligatorios")
	}
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID,
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		SessionID: sessionID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify valida firma, algoritmo, emisor y expiración.
func (s *Signer) Verify(tokenString string) (*SessionToken, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("jwt: token inválido")
	}
	if claims.SessionID == "" {
		return nil, ErrNoSessionClaim
	}
	out := &SessionToken{UserID: claims.Subject, SessionID: claims.SessionID}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
