package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Trazabilidad-api/internal/application/dto"
	"github.com/jhoicas/Trazabilidad-api/internal/domain"
	"github.com/jhoicas/Trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Trazabilidad-api/internal/domain/repository"
	"github.com/jhoicas/Trazabilidad-api/pkg/logger"
)

// DepartmentUseCase casos de uso del directorio de reparti.
type DepartmentUseCase struct {
	repo repository.DepartmentRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewDepartmentUseCase construye el caso de uso.
func NewDepartmentUseCase(repo repository.DepartmentRepository, log *logger.Logger) *DepartmentUseCase {
	log = log.Component("departments")
	return &DepartmentUseCase{repo: repo, log: log, now: time.Now}
}

// GetDepartments lista los reparti por posición ascendente.
func (uc *DepartmentUseCase) GetDepartments(ctx context.Context) ([]dto.DepartmentResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DepartmentResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toDepartmentResponse(d))
	}
	return out, nil
}

// AddDepartment crea un reparto. Sin posición se coloca tras el último (máximo + 1).
// No se comprueba que el nombre o la posición sean únicos.
func (uc *DepartmentUseCase) AddDepartment(ctx context.Context, in dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "ingrese el nombre del reparto")
	}
	var position int
	if in.Position != nil {
		if *in.Position < 0 {
			return nil, domain.NewValidationError("position", "la posición no puede ser negativa")
		}
		position = *in.Position
	} else {
		maxPos, err := uc.repo.MaxPosition(ctx)
		if err != nil {
			return nil, err
		}
		position = maxPos + 1
	}
	dept := &entity.Department{
		ID:        uuid.New().String(),
		Name:      name,
		Position:  position,
		CreatedAt: uc.now(),
	}
	if err := uc.repo.Create(ctx, dept); err != nil {
		return nil, err
	}
	uc.log.Info().Str("department_id", dept.ID).Str("name", name).Int("position", position).Msg("reparto creado")
	resp := toDepartmentResponse(dept)
	return &resp, nil
}

// DeleteDepartment elimina el reparto sin comprobar referencias.
func (uc *DepartmentUseCase) DeleteDepartment(ctx context.Context, id string) error {
	if id == "" {
		return domain.NewValidationError("id", "seleccione un reparto")
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.log.Error().Err(err).Str("department_id", id).Msg("error eliminando reparto")
		return err
	}
	uc.log.Info().Str("department_id", id).Msg("reparto eliminado")
	return nil
}

func toDepartmentResponse(d *entity.Department) dto.DepartmentResponse {
	return dto.DepartmentResponse{
		ID:        d.ID,
		Name:      d.Name,
		Position:  d.Position,
		CreatedAt: d.CreatedAt,
	}
}
