package repository

import (
	"context"

	"github.com/jhoicas/obras-api/internal/domain/entity"
)

// AuditLogFilter filtros de lectura.
// VisibleProjects nil = sin restricción; en otro caso solo esos proyectos y los registros globales.
type AuditLogFilter struct {
	VisibleProjects []string
	ProjectID       string
	EntityType      string
	EntityID        string
	Limit           int
	Offset          int
}

// AuditLogRepository registro de actividad. Solo inserción.
type AuditLogRepository interface {
	Append(ctx context.Context, l *entity.AuditLog) error
	List(ctx context.Context, f AuditLogFilter) ([]*entity.AuditLog, error)
}
