package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Trazabilidad-api/internal/application/auth"
	"github.com/jhoicas/Trazabilidad-api/internal/domain"
	"github.com/jhoicas/Trazabilidad-api/internal/domain/entity"
	pkgjwt "github.com/jhoicas/Trazabilidad-api/pkg/jwt"
)

var testSigner = mustSigner()

func mustSigner() *pkgjwt.Signer {
	s, err := pkgjwt.NewSigner("auth-test-secret", "test", time.Hour)
	if err != nil {
		panic(err)
	}
	return s
}

// ── fakes ─────────────────────────────────────────────────────────────────────

type fakeUsers struct {
	byID            map[string]*entity.User
	passwordUpdates int
}

func newFakeUsers(users ...*entity.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]*entity.User{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u *entity.User) error {
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	return f.byID[id], nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range f.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) GetApprovedByUsername(ctx context.Context, username string) (*entity.User, error) {
	u, _ := f.GetByUsername(ctx, username)
	if u == nil || !u.Approved {
		return nil, nil
	}
	return u, nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id, hash string) error {
	f.passwordUpdates++
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUsers) UpdateApproval(context.Context, string, bool, string) error { return nil }
func (f *fakeUsers) UpdateRole(context.Context, string, string) error           { return nil }
func (f *fakeUsers) ListPending(context.Context) ([]*entity.User, error)        { return nil, nil }
func (f *fakeUsers) ListApproved(context.Context) ([]*entity.User, error)       { return nil, nil }
func (f *fakeUsers) Delete(context.Context, string) error                       { return nil }

type memSessions struct {
	items map[string]*entity.Session
	ttl   time.Duration
}

func newMemSessions() *memSessions {
	return &memSessions{items: map[string]*entity.Session{}}
}

func (m *memSessions) Set(_ context.Context, s *entity.Session, ttl time.Duration) error {
	cp := *s
	m.items[s.ID] = &cp
	m.ttl = ttl
	return nil
}

func (m *memSessions) Get(_ context.Context, id string) (*entity.Session, error) {
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

// ── helpers ───────────────────────────────────────────────────────────────────

func hash(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newAuth(users *fakeUsers, sessions *memSessions) *auth.AuthUseCase {
	return auth.NewAuthUseCase(users, sessions, testSigner, time.Hour, nil)
}

func approvedUser(t *testing.T) *entity.User {
	return &entity.User{
		ID: "u-1", Username: "mario.rossi", PasswordHash: hash(t, "segreto1"),
		FullName: "Mario Rossi", Role: entity.RoleOperator, Approved: true,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Login / Logout / CurrentUser
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_CreaSesionYToken(t *testing.T) {
	users := newFakeUsers(approvedUser(t))
	sessions := newMemSessions()
	uc := newAuth(users, sessions)

	out, err := uc.Login(context.Background(), "mario.rossi", "segreto1")
	require.NoError(t, err)

	require.Contains(t, sessions.items, out.Session.ID)
	assert.Equal(t, time.Hour, sessions.ttl)
	assert.Equal(t, "Mario Rossi", out.Session.User.FullName)

	tok, err := testSigner.Verify(out.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", tok.UserID)
	assert.Equal(t, out.Session.ID, tok.SessionID)
	assert.Equal(t, entity.RoleOperator, out.Session.User.Role)

	current, err := uc.CurrentUser(context.Background(), out.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, "mario.rossi", current.User.Username)

	require.NoError(t, uc.Logout(context.Background(), out.Session.ID))
	_, err = uc.CurrentUser(context.Background(), out.Session.ID)
	assert.ErrorIs(t, err, domain.ErrNoSession)
}

func TestLogin_FallosNoPersistenSesion(t *testing.T) {
	pending := &entity.User{
		ID: "u-2", Username: "luigi.verdi", PasswordHash: hash(t, "segreto1"),
		Role: entity.RoleOperator, Approved: false,
	}
	cases := []struct {
		name, username, password string
	}{
		{"usuario inexistente", "nessuno", "segreto1"},
		{"usuario no aprobado", "luigi.verdi", "segreto1"},
		{"contraseña incorrecta", "mario.rossi", "sbagliata"},
		{"contraseña vacía", "mario.rossi", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sessions := newMemSessions()
			uc := newAuth(newFakeUsers(approvedUser(t), pending), sessions)

			out, err := uc.Login(context.Background(), tc.username, tc.password)

			assert.Nil(t, out)
			assert.ErrorIs(t, err, domain.ErrAuthentication)
			assert.Empty(t, sessions.items)
		})
	}
}

func TestLogin_CredencialHeredadaSeMigraABcrypt(t *testing.T) {
	legacy := &entity.User{
		ID: "u-3", Username: "anna.bianchi", PasswordHash: "vecchia123",
		Role: entity.RoleAdmin, Approved: true,
	}
	users := newFakeUsers(legacy)
	uc := newAuth(users, newMemSessions())

	_, err := uc.Login(context.Background(), "anna.bianchi", "vecchia123")
	require.NoError(t, err)

	assert.Equal(t, 1, users.passwordUpdates)
	assert.NotEqual(t, "vecchia123", legacy.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(legacy.PasswordHash), []byte("vecchia123")))

	_, err = uc.Login(context.Background(), "anna.bianchi", "vecchia123")
	require.NoError(t, err)
	assert.Equal(t, 1, users.passwordUpdates, "la segunda vez ya es bcrypt")
}

func TestIsAdmin(t *testing.T) {
	admin := approvedUser(t)
	admin.Role = entity.RoleAdmin
	uc := newAuth(newFakeUsers(admin), newMemSessions())

	out, err := uc.Login(context.Background(), "mario.rossi", "segreto1")
	require.NoError(t, err)

	assert.True(t, uc.IsAdmin(context.Background(), out.Session.ID))
	assert.False(t, uc.IsAdmin(context.Background(), "otra"))
	assert.False(t, uc.IsAdmin(context.Background(), ""))
}

// ──────────────────────────────────────────────────────────────────────────────
// Contraseñas
// ──────────────────────────────────────────────────────────────────────────────

func TestChangePassword_CortaSeRechazaSinActualizar(t *testing.T) {
	users := newFakeUsers(approvedUser(t))
	uc := newAuth(users, newMemSessions())

	err := uc.ChangePassword(context.Background(), "u-1", "abc")

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Zero(t, users.passwordUpdates)
}

func TestPassword_MasDe72BytesEsValidacion(t *testing.T) {
	users := newFakeUsers(approvedUser(t))
	uc := newAuth(users, newMemSessions())
	larga := strings.Repeat("a", auth.MaxPasswordBytes+1)

	err := uc.ChangePassword(context.Background(), "u-1", larga)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "new_password", verr.Field)
	assert.Zero(t, users.passwordUpdates)

	_, err = uc.RegisterUser(context.Background(), "giulia.neri", larga, "Giulia Neri")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Len(t, users.byID, 1)

	// 72 bytes multibyte: válida para bcrypt
	require.NoError(t, uc.ChangePassword(context.Background(), "u-1", strings.Repeat("é", 36)))
	assert.Equal(t, 1, users.passwordUpdates)
}

func TestChangePassword_RenuevaSesionPropia(t *testing.T) {
	users := newFakeUsers(approvedUser(t))
	sessions := newMemSessions()
	uc := newAuth(users, sessions)
	out, err := uc.Login(context.Background(), "mario.rossi", "segreto1")
	require.NoError(t, err)
	delete(sessions.items, out.Session.ID)

	ctx := auth.WithSession(context.Background(), out.Session)
	require.NoError(t, uc.ChangePassword(ctx, "u-1", "nuova123"))

	assert.Equal(t, 1, users.passwordUpdates)
	assert.Contains(t, sessions.items, out.Session.ID)
	_, err = uc.Login(context.Background(), "mario.rossi", "nuova123")
	assert.NoError(t, err)
}

func TestChangeOwnPassword(t *testing.T) {
	users := newFakeUsers(approvedUser(t))
	uc := newAuth(users, newMemSessions())
	out, err := uc.Login(context.Background(), "mario.rossi", "segreto1")
	require.NoError(t, err)
	ctx := auth.WithSession(context.Background(), out.Session)

	err = uc.ChangeOwnPassword(ctx, "segreto1", "nuova123", "diversa1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = uc.ChangeOwnPassword(ctx, "", "nuova123", "nuova123")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = uc.ChangeOwnPassword(ctx, "sbagliata", "nuova123", "nuova123")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, users.passwordUpdates)

	err = uc.ChangeOwnPassword(context.Background(), "segreto1", "nuova123", "nuova123")
	assert.ErrorIs(t, err, domain.ErrNoSession)

	require.NoError(t, uc.ChangeOwnPassword(ctx, "segreto1", "nuova123", "nuova123"))
	assert.Equal(t, 1, users.passwordUpdates)
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterUser_OperatorPendiente(t *testing.T) {
	users := newFakeUsers()
	uc := newAuth(users, newMemSessions())

	u, err := uc.RegisterUser(context.Background(), "giulia.neri", "segreto1", "Giulia Neri")
	require.NoError(t, err)

	assert.Equal(t, entity.RoleOperator, u.Role)
	assert.False(t, u.Approved)
	assert.NotEqual(t, "segreto1", u.PasswordHash)

	_, err = uc.Login(context.Background(), "giulia.neri", "segreto1")
	assert.ErrorIs(t, err, domain.ErrAuthentication, "no puede entrar hasta ser aprobado")

	_, err = uc.RegisterUser(context.Background(), "giulia.neri", "altro123", "Giulia Neri")
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestGenerateUsername(t *testing.T) {
	assert.Equal(t, "marioluigi.rossi", auth.GenerateUsername("Mario Luigi", " Rossi "))
	assert.Equal(t, "anna.desantis", auth.GenerateUsername("Anna", "De Santis"))
	assert.Equal(t, "Mario Rossi", auth.FullName(" Mario ", "Rossi"))
}
