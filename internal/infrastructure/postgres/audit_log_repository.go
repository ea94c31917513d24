package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/obras-api/internal/domain/entity"
	"github.com/jhoicas/obras-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo tabla logs; changes se guarda como JSONB.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

func (r *AuditLogRepo) Append(ctx context.Context, l *entity.AuditLog) error {
	changes := l.Changes
	if changes == nil {
		changes = []entity.FieldChange{}
	}
	raw, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("marshal log changes: %w", err)
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO logs (id, user_id, project_id, entity_type, entity_id, action, description, changes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		l.ID, nullable(l.UserID), nullable(l.ProjectID), l.EntityType, l.EntityID,
		l.Action, l.Description, raw, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert log: %w", err)
	}
	return nil
}

// List registros más recientes primero. Con VisibleProjects incluye también los globales.
func (r *AuditLogRepo) List(ctx context.Context, f repository.AuditLogFilter) ([]*entity.AuditLog, error) {
	var w where
	if f.VisibleProjects != nil {
		w.add("(project_id IS NULL OR project_id::text = ANY(?))", f.VisibleProjects)
	}
	if f.ProjectID != "" {
		w.add("project_id = ?", f.ProjectID)
	}
	if f.EntityType != "" {
		w.add("entity_type = ?", f.EntityType)
	}
	if f.EntityID != "" {
		w.add("entity_id = ?", f.EntityID)
	}
	query := `
		SELECT id, COALESCE(user_id::text, ''), COALESCE(project_id::text, ''), entity_type, entity_id,
			action, description, changes, created_at
		FROM logs ` + w.String() + ` ORDER BY created_at DESC, id` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.AuditLog, error) {
		var (
			l   entity.AuditLog
			raw []byte
		)
		if err := row.Scan(&l.ID, &l.UserID, &l.ProjectID, &l.EntityType, &l.EntityID,
			&l.Action, &l.Description, &raw, &l.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &l.Changes); err != nil {
			return nil, fmt.Errorf("unmarshal log changes: %w", err)
		}
		return &l, nil
	})
}
