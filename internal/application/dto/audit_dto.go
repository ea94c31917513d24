package dto

import (
	"time"

	"github.com/jhoicas/obras-api/internal/domain/entity"
)

// AuditLogResponse salida de un registro de actividad.
type AuditLogResponse struct {
	ID          string               `json:"id"`
	UserID      string               `json:"user_id,omitempty"`
	ProjectID   string               `json:"project_id,omitempty"`
	EntityType  string               `json:"entity_type"`
	EntityID    string               `json:"entity_id,omitempty"`
	Action      string               `json:"action"`
	Description string               `json:"description,omitempty"`
	Changes     []entity.FieldChange `json:"changes,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

// AuditLogListResponse listado paginado.
type AuditLogListResponse struct {
	Items []AuditLogResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
