package auth

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Trazabilidad-api/internal/domain"
	"github.com/jhoicas/Trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Trazabilidad-api/internal/domain/repository"
	"github.com/jhoicas/Trazabilidad-api/pkg/logger"
)

// MinPasswordLength longitud mínima de una contraseña nueva.
const MinPasswordLength = 6

// MaxPasswordBytes bcrypt no admite más de 72 bytes.
const MaxPasswordBytes = 72

// ValidatePassword comprueba los límites de una contraseña nueva antes de hashearla.
func ValidatePassword(field, password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return domain.NewValidationError(field, "la contraseña debe tener al menos 6 caracteres")
	}
	if len(password) > MaxPasswordBytes {
		return domain.NewValidationError(field, "la contraseña no puede superar los 72 bytes")
	}
	return nil
}

// LoginResult sesión creada y token que la referencia.
type LoginResult struct {
	Session *entity.Session
	Token   string
}

// AuthUseCase casos de uso de autenticación y sesión.
type AuthUseCase struct {
	userRepo   repository.UserRepository
	sessions   SessionStore
	tokens     TokenIssuer
	sessionTTL time.Duration
	log        *logger.Logger
	now        func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, sessions SessionStore, tokens TokenIssuer, sessionTTL time.Duration, log *logger.Logger) *AuthUseCase {
	log = log.Component("auth")
	return &AuthUseCase{
		userRepo:   userRepo,
		sessions:   sessions,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		log:        log,
		now:        time.Now,
	}
}

// Login busca el perfil aprobado con ese username y verifica la contraseña.
// Si la credencial guardada es heredada (en claro) se compara por igualdad y se rehashea con bcrypt.
// Solo se crea la sesión cuando todo lo anterior tuvo éxito.
func (uc *AuthUseCase) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrAuthentication
	}
	user, err := uc.userRepo.GetApprovedByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		uc.log.Warn().Str("username", username).Msg("login rechazado: usuario inexistente o no aprobado")
		return nil, domain.ErrAuthentication
	}
	legacy, ok := verifyPassword(user.PasswordHash, password)
	if !ok {
		uc.log.Warn().Str("username", username).Msg("login rechazado: credencial incorrecta")
		return nil, domain.ErrAuthentication
	}
	if legacy {
		uc.upgradeLegacyPassword(ctx, user, password)
	}

	session := &entity.Session{
		ID:        uuid.New().String(),
		User:      entity.NewSessionUser(user),
		CreatedAt: uc.now(),
	}
	token, err := uc.tokens.Sign(user.ID, session.ID)
	if err != nil {
		return nil, err
	}
	if err := uc.sessions.Set(ctx, session, uc.sessionTTL); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("session_id", session.ID).Msg("sesión iniciada")
	return &LoginResult{Session: session, Token: token}, nil
}

// Logout elimina la sesión del almacén.
func (uc *AuthUseCase) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return domain.ErrNoSession
	}
	if err := uc.sessions.Remove(ctx, sessionID); err != nil {
		return err
	}
	uc.log.Info().Str("session_id", sessionID).Msg("sesión cerrada")
	return nil
}

// CurrentUser lee la sesión. Entrada ausente o ilegible: domain.ErrNoSession.
func (uc *AuthUseCase) CurrentUser(ctx context.Context, sessionID string) (*entity.Session, error) {
	if sessionID == "" {
		return nil, domain.ErrNoSession
	}
	return uc.sessions.Get(ctx, sessionID)
}

// IsAdmin indica si la sesión pertenece a un admin; false ante cualquier fallo.
func (uc *AuthUseCase) IsAdmin(ctx context.Context, sessionID string) bool {
	s, err := uc.CurrentUser(ctx, sessionID)
	if err != nil {
		return false
	}
	return s.IsAdmin()
}

// ChangePassword actualiza la credencial del usuario. Contraseñas de menos de 6 caracteres
// o más de 72 bytes se rechazan sin llegar a la BD. Si la sesión del ctx es del mismo usuario se renueva su entrada.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID, newPassword string) error {
	if err := ValidatePassword("new_password", newPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := uc.userRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}
	uc.log.Info().Str("user_id", userID).Msg("contraseña actualizada")

	session, err := SessionFromContext(ctx)
	if err != nil || session.User.ID != userID {
		return nil
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user != nil {
		session.User = entity.NewSessionUser(user)
	}
	return uc.sessions.Set(ctx, session, uc.sessionTTL)
}

// ChangeOwnPassword cambio desde el perfil: campos obligatorios, confirmación igual,
// longitud mínima y contraseña actual correcta.
func (uc *AuthUseCase) ChangeOwnPassword(ctx context.Context, oldPassword, newPassword, confirm string) error {
	session, err := SessionFromContext(ctx)
	if err != nil {
		return err
	}
	if oldPassword == "" || newPassword == "" || confirm == "" {
		return domain.NewValidationError("password", "complete todos los campos")
	}
	if newPassword != confirm {
		return domain.NewValidationError("confirm_password", "las contraseñas nuevas no coinciden")
	}
	if err := ValidatePassword("new_password", newPassword); err != nil {
		return err
	}
	user, err := uc.userRepo.GetByID(ctx, session.User.ID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if _, ok := verifyPassword(user.PasswordHash, oldPassword); !ok {
		return domain.NewValidationError("old_password", "la contraseña actual es incorrecta")
	}
	return uc.ChangePassword(ctx, user.ID, newPassword)
}

// RegisterUser crea un perfil pendiente de aprobación con rol operator.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, username, password, fullName string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domain.NewValidationError("username", "el nombre de usuario es obligatorio")
	}
	if err := ValidatePassword("password", password); err != nil {
		return nil, err
	}
	existing, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(fullName),
		Role:         entity.RoleOperator,
		Approved:     false,
		CreatedAt:    uc.now(),
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("username", username).Msg("usuario registrado, pendiente de aprobación")
	return user, nil
}

// GenerateUsername construye nombre.apellido en minúsculas y sin espacios.
func GenerateUsername(firstName, lastName string) string {
	clean := func(s string) string {
		return strings.ToLower(strings.Join(strings.Fields(s), ""))
	}
	return clean(firstName) + "." + clean(lastName)
}

// FullName une nombre y apellido.
func FullName(firstName, lastName string) string {
	return strings.TrimSpace(strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName))
}

// HashPassword hashea con bcrypt (usado también por el CLI de administración).
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (uc *AuthUseCase) upgradeLegacyPassword(ctx context.Context, user *entity.User, password string) {
	hash, err := HashPassword(password)
	if err == nil {
		err = uc.userRepo.UpdatePassword(ctx, user.ID, hash)
	}
	if err != nil {
		uc.log.Warn().Err(err).Str("user_id", user.ID).Msg("no se pudo migrar la credencial a bcrypt")
		return
	}
	user.PasswordHash = hash
	uc.log.Info().Str("user_id", user.ID).Msg("credencial heredada migrada a bcrypt")
}

// verifyPassword compara la contraseña con la credencial guardada.
// legacy es true cuando la credencial no es un hash bcrypt y se comparó en claro.
func verifyPassword(stored, password string) (legacy, ok bool) {
	if _, err := bcrypt.Cost([]byte(stored)); err == nil {
		err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password))
		return false, err == nil
	}
	if stored == "" {
		return true, false
	}
	return true, subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}
