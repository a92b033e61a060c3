package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/Trazabilidad-api/internal/application/dto"
	"github.com/jhoicas/Trazabilidad-api/internal/domain"
	"github.com/jhoicas/Trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Trazabilidad-api/internal/domain/repository"
	"github.com/jhoicas/Trazabilidad-api/pkg/logger"
)

// SessionRevoker invalida todas las sesiones abiertas de un usuario.
type SessionRevoker interface {
	RemoveByUser(ctx context.Context, userID string) error
}

// UserUseCase administración de perfiles: aprobación, rol y baja.
type UserUseCase struct {
	repo     repository.UserRepository
	sessions SessionRevoker
	log      *logger.Logger
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia y el de sesiones.
func NewUserUseCase(repo repository.UserRepository, sessions SessionRevoker, log *logger.Logger) *UserUseCase {
	log = log.Component("users")
	return &UserUseCase{repo: repo, sessions: sessions, log: log}
}

// ListPending registros sin aprobar (los admin no aparecen).
func (uc *UserUseCase) ListPending(ctx context.Context) ([]dto.UserResponse, error) {
	list, err := uc.repo.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	return toUserResponses(list), nil
}

// ListApproved usuarios aprobados.
func (uc *UserUseCase) ListApproved(ctx context.Context) ([]dto.UserResponse, error) {
	list, err := uc.repo.ListApproved(ctx)
	if err != nil {
		return nil, err
	}
	return toUserResponses(list), nil
}

// ApproveWithRole aprueba el registro asignando el rol.
func (uc *UserUseCase) ApproveWithRole(ctx context.Context, id, role string) error {
	if !entity.IsValidRole(role) {
		return domain.NewValidationError("role", "rol inválido: use admin u operator")
	}
	if err := uc.repo.UpdateApproval(ctx, id, true, role); err != nil {
		return err
	}
	uc.log.Info().Str("user_id", id).Str("role", role).Msg("usuario aprobado")
	return nil
}

// ChangeRole cambia el rol de un usuario.
func (uc *UserUseCase) ChangeRole(ctx context.Context, id, role string) error {
	if !entity.IsValidRole(role) {
		return domain.NewValidationError("role", "rol inválido: use admin u operator")
	}
	if err := uc.repo.UpdateRole(ctx, id, role); err != nil {
		return err
	}
	uc.log.Info().Str("user_id", id).Str("role", role).Msg("rol actualizado")
	return nil
}

// Delete elimina el perfil (también sirve para rechazar un registro pendiente)
// y cierra sus sesiones abiertas.
func (uc *UserUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("user_id", id).Msg("usuario eliminado")
	if err := uc.sessions.RemoveByUser(ctx, id); err != nil {
		uc.log.Error().Err(err).Str("user_id", id).Msg("revocar sesiones del usuario eliminado")
		return fmt.Errorf("revoke sessions: %w", err)
	}
	return nil
}

// ToUserResponse convierte el perfil en DTO sin credencial.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	resp := &dto.UserResponse{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Role:     u.Role,
		Approved: u.Approved,
	}
	if !u.CreatedAt.IsZero() {
		created := u.CreatedAt
		resp.CreatedAt = &created
	}
	return resp
}

func toUserResponses(list []*entity.User) []dto.UserResponse {
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *ToUserResponse(u))
	}
	return out
}
