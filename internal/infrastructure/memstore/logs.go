package memstore

import (
	"context"

	"github.com/jhoicas/obras-api/internal/domain/entity"
	"github.com/jhoicas/obras-api/internal/domain/repository"
)

type logRepo struct{ s *Store }

func (r *logRepo) Append(_ context.Context, l *entity.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("logs.append"); err != nil {
		return err
	}
	v := *l
	v.Changes = append([]entity.FieldChange(nil), l.Changes...)
	r.s.data.logs = append(r.s.data.logs, v)
	return nil
}

// List devuelve los registros más recientes primero.
func (r *logRepo) List(_ context.Context, f repository.AuditLogFilter) ([]*entity.AuditLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.AuditLog
	for i := len(r.s.data.logs) - 1; i >= 0; i-- {
		l := r.s.data.logs[i]
		if f.VisibleProjects != nil && l.ProjectID != "" && !contains(f.VisibleProjects, l.ProjectID) {
			continue
		}
		if f.ProjectID != "" && l.ProjectID != f.ProjectID {
			continue
		}
		if f.EntityType != "" && l.EntityType != f.EntityType {
			continue
		}
		if f.EntityID != "" && l.EntityID != f.EntityID {
			continue
		}
		out = append(out, ptr(l))
	}
	return page(out, f.Limit, f.Offset), nil
}
