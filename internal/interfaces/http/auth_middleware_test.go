package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Trazabilidad-api/internal/application/auth"
	"github.com/jhoicas/Trazabilidad-api/internal/domain"
	"github.com/jhoicas/Trazabilidad-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Trazabilidad-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Trazabilidad-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "trazabilidad-test"
)

var testSigner = mustSigner()

func mustSigner() *pkgjwt.Signer {
	s, err := pkgjwt.NewSigner(testJWTSecret, testIssuer, time.Hour)
	if err != nil {
		panic(err)
	}
	return s
}

// memSessions almacén de sesiones en memoria.
type memSessions struct {
	items map[string]*entity.Session
	err   error
}

func newMemSessions() *memSessions {
	return &memSessions{items: map[string]*entity.Session{}}
}

func (m *memSessions) Set(_ context.Context, s *entity.Session, _ time.Duration) error {
	m.items[s.ID] = s
	return nil
}

func (m *memSessions) Get(_ context.Context, id string) (*entity.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNoSession
	}
	return s, nil
}

func (m *memSessions) Remove(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

// newSession registra una sesión para el rol y devuelve su id.
func (m *memSessions) newSession(role string) string {
	id := "sess-" + role
	m.items[id] = &entity.Session{
		ID:   id,
		User: entity.SessionUser{ID: testUserID, Username: "mario.rossi", FullName: "Mario Rossi", Role: role, Approved: true},
	}
	return id
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar la sesión
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(sessions *memSessions, allowedRoles ...string) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Get("/protected",
		apphttp.AuthMiddleware(testSigner, sessions),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// tokenFor genera un JWT para la sesión indicada.
func tokenFor(t *testing.T, sessionID string) string {
	t.Helper()
	tok, err := testSigner.Sign(testUserID, sessionID)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	sessions := newMemSessions()
	sid := sessions.newSession(entity.RoleAdmin)
	app := buildTestApp(sessions, entity.RoleAdmin)

	resp := doRequest(t, app, tokenFor(t, sid))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "admin", body["role"])
}

func TestRequireRole_OperatorAccedeRutaCompartida(t *testing.T) {
	sessions := newMemSessions()
	sid := sessions.newSession(entity.RoleOperator)
	app := buildTestApp(sessions, entity.RoleAdmin, entity.RoleOperator)

	resp := doRequest(t, app, tokenFor(t, sid))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_OperatorBloqueadoEnRutaAdmin(t *testing.T) {
	sessions := newMemSessions()
	sid := sessions.newSession(entity.RoleOperator)
	app := buildTestApp(sessions, entity.RoleAdmin)

	resp := doRequest(t, app, tokenFor(t, sid))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
	assert.Contains(t, string(body), domain.ErrForbidden.Error())
}

// El token no lleva rol: se toma de la sesión guardada.
func TestRequireRole_RolSeLeeDeLaSesion(t *testing.T) {
	sessions := newMemSessions()
	sid := sessions.newSession(entity.RoleOperator)
	app := buildTestApp(sessions, entity.RoleAdmin)

	resp := doRequest(t, app, tokenFor(t, sid))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequireRole_SesionSinRol_Retorna401(t *testing.T) {
	sessions := newMemSessions()
	sid := sessions.newSession("")
	app := buildTestApp(sessions, entity.RoleAdmin)

	resp := doRequest(t, app, tokenFor(t, sid))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(newMemSessions(), entity.RoleAdmin)
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(newMemSessions(), entity.RoleAdmin)
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_SesionCerrada_Retorna401(t *testing.T) {
	sessions := newMemSessions()
	sid := sessions.newSession(entity.RoleAdmin)
	header := tokenFor(t, sid)
	require.NoError(t, sessions.Remove(context.Background(), sid))

	resp := doRequest(t, buildTestApp(sessions, entity.RoleAdmin), header)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "NO_SESSION")
}

func TestAuthMiddleware_TokenSinSesion_Retorna401(t *testing.T) {
	claims := pkgjwt.Claims{RegisteredClaims: gojwt.RegisteredClaims{
		Issuer:    testIssuer,
		Subject:   testUserID,
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Minute)),
	}}
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	app := buildTestApp(newMemSessions(), entity.RoleAdmin)
	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "NO_SESSION")
}

func TestAuthMiddleware_SesionDeOtroUsuario_Retorna401(t *testing.T) {
	sessions := newMemSessions()
	sid := sessions.newSession(entity.RoleAdmin)
	tok, err := testSigner.Sign("otro-usuario", sid)
	require.NoError(t, err)

	resp := doRequest(t, buildTestApp(sessions, entity.RoleAdmin), "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_AlmacenCaido_Retorna503(t *testing.T) {
	sessions := newMemSessions()
	sid := sessions.newSession(entity.RoleAdmin)
	sessions.err = errors.New("dial tcp: connection refused")

	resp := doRequest(t, buildTestApp(sessions, entity.RoleAdmin), tokenFor(t, sid))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestAuthMiddleware_CargaSesionEnContexto(t *testing.T) {
	sessions := newMemSessions()
	sid := sessions.newSession(entity.RoleOperator)

	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testSigner, sessions), func(c *fiber.Ctx) error {
		s, err := auth.SessionFromContext(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"session_id": apphttp.GetSessionID(c),
			"role":       apphttp.GetRole(c),
			"name":       s.DisplayName(),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenFor(t, sid))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, sid, body["session_id"])
	assert.Equal(t, "operator", body["role"])
	assert.Equal(t, "Mario Rossi", body["name"])
}
