// Package audit escribe y consulta el registro de actividad.
// Las escrituras siempre usan el repositorio de la transacción en curso para
// que la entrada se confirme junto con el cambio que describe.
package audit

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/obras-api/internal/domain/entity"
	"github.com/jhoicas/obras-api/internal/domain/repository"
)

// Tipos de entidad registrados.
const (
	EntityMaterialRequest = "material_request"
	EntityMaterial        = "material"
	EntityProject         = "project"
	EntityMilestone       = "milestone"
	EntityTask            = "task"
	EntityAsset           = "asset"
	EntityInventory       = "inventory"
	EntityUser            = "user"
	EntityCatalog         = "catalog"
)

// Acciones genéricas; las transiciones de solicitudes usan las de entity.Action*.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionAssign = "assign"
)

// LogOptions datos de una entrada de actividad.
type LogOptions struct {
	UserID      string
	ProjectID   string
	EntityType  string
	EntityID    string
	Action      string
	Description string
	Changes     []entity.FieldChange
}

// Write agrega una entrada al registro usando logs (normalmente atado a la tx).
func Write(ctx context.Context, logs repository.AuditLogRepository, opts LogOptions) error {
	l := &entity.AuditLog{
		ID:          uuid.New().String(),
		UserID:      opts.UserID,
		ProjectID:   opts.ProjectID,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		Changes:     opts.Changes,
		CreatedAt:   time.Now(),
	}
	if err := logs.Append(ctx, l); err != nil {
		return fmt.Errorf("registrar actividad: %w", err)
	}
	return nil
}

// Diff compara dos instantáneas campo→valor y devuelve los cambios ordenados por campo.
func Diff(before, after map[string]string) []entity.FieldChange {
	fields := make(map[string]struct{}, len(after))
	for k := range before {
		fields[k] = struct{}{}
	}
	for k := range after {
		fields[k] = struct{}{}
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var changes []entity.FieldChange
	for _, k := range keys {
		if before[k] != after[k] {
			changes = append(changes, entity.FieldChange{Field: k, Before: before[k], After: after[k]})
		}
	}
	return changes
}
