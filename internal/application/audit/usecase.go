package audit

import (
	"context"

	"github.com/jhoicas/obras-api/internal/application/dto"
	"github.com/jhoicas/obras-api/internal/domain"
	"github.com/jhoicas/obras-api/internal/domain/authz"
	"github.com/jhoicas/obras-api/internal/domain/entity"
	"github.com/jhoicas/obras-api/internal/domain/repository"
)

// ListQuery filtros de GET /api/logs.
type ListQuery struct {
	ProjectID  string
	EntityType string
	EntityID   string
	dto.PageRequest
}

// UseCase lectura del registro de actividad filtrada por visibilidad de proyecto.
type UseCase struct {
	logs repository.AuditLogRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(logs repository.AuditLogRepository) *UseCase {
	return &UseCase{logs: logs}
}

// List devuelve los registros visibles para actor: todos si es admin; si no,
// los de sus proyectos y los globales.
func (uc *UseCase) List(ctx context.Context, actor authz.Actor, q ListQuery) (*dto.AuditLogListResponse, error) {
	if err := actor.Authorize(authz.LogRead); err != nil {
		return nil, err
	}
	if q.ProjectID != "" && !actor.CanAccessProject(q.ProjectID) {
		return nil, domain.ErrForbidden
	}
	q.DefaultPage()
	list, err := uc.logs.List(ctx, repository.AuditLogFilter{
		VisibleProjects: actor.VisibleProjects(),
		ProjectID:       q.ProjectID,
		EntityType:      q.EntityType,
		EntityID:        q.EntityID,
		Limit:           q.Limit,
		Offset:          q.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.AuditLogListResponse{
		Items: make([]dto.AuditLogResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}
	for _, l := range list {
		out.Items = append(out.Items, ToResponse(l))
	}
	return out, nil
}

// ToResponse convierte una entrada a su DTO.
func ToResponse(l *entity.AuditLog) dto.AuditLogResponse {
	return dto.AuditLogResponse{
		ID:          l.ID,
		UserID:      l.UserID,
		ProjectID:   l.ProjectID,
		EntityType:  l.EntityType,
		EntityID:    l.EntityID,
		Action:      l.Action,
		Description: l.Description,
		Changes:     l.Changes,
		CreatedAt:   l.CreatedAt,
	}
}
