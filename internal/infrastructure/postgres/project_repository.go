package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/obras-api/internal/domain"
	"github.com/jhoicas/obras-api/internal/domain/entity"
	"github.com/jhoicas/obras-api/internal/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

const projectColumns = `id, name, description, location, status, budget, start_date, end_date, image,
	COALESCE(created_by::text, ''), created_at, updated_at`

// ProjectRepo proyectos y tabla project_members.
type ProjectRepo struct {
	q Querier
}

// NewProjectRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProjectRepository(q Querier) *ProjectRepo {
	return &ProjectRepo{q: q}
}

func scanProject(row pgx.Row) (*entity.Project, error) {
	var p entity.Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Location, &p.Status, &p.Budget,
		&p.StartDate, &p.EndDate, &p.Image, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un proyecto.
func (r *ProjectRepo) Create(ctx context.Context, p *entity.Project) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO projects (id, name, description, location, status, budget, start_date, end_date, image, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ID, p.Name, p.Description, p.Location, p.Status, p.Budget,
		p.StartDate, p.EndDate, p.Image, nullable(p.CreatedBy), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// GetByID obtiene un proyecto por ID.
func (r *ProjectRepo) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	p, err := scanProject(r.q.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// Update actualiza los datos editables.
func (r *ProjectRepo) Update(ctx context.Context, p *entity.Project) error {
	_, err := r.q.Exec(ctx, `
		UPDATE projects SET name = $2, description = $3, location = $4, status = $5, budget = $6,
			start_date = $7, end_date = $8, image = $9, updated_at = $10
		WHERE id = $1`,
		p.ID, p.Name, p.Description, p.Location, p.Status, p.Budget,
		p.StartDate, p.EndDate, p.Image, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

// List proyectos más recientes primero.
func (r *ProjectRepo) List(ctx context.Context, f repository.ProjectFilter) ([]*entity.Project, error) {
	var w where
	if f.IDs != nil {
		w.add("id::text = ANY(?)", f.IDs)
	}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	query := `SELECT ` + projectColumns + ` FROM projects ` + w.String() + ` ORDER BY created_at DESC, id` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()
	var out []*entity.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// AddMember asigna un usuario; repetir la asignación no falla.
func (r *ProjectRepo) AddMember(ctx context.Context, projectID, userID string) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO project_members (project_id, user_id) VALUES ($1, $2)
		ON CONFLICT (project_id, user_id) DO NOTHING`, projectID, userID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("miembro de proyecto: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("add project member: %w", err)
	}
	return nil
}

// RemoveMember quita la asignación.
func (r *ProjectRepo) RemoveMember(ctx context.Context, projectID, userID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	if err != nil {
		return fmt.Errorf("remove project member: %w", err)
	}
	return nil
}

// ListMembers usuarios asignados en orden de asignación.
func (r *ProjectRepo) ListMembers(ctx context.Context, projectID string) ([]string, error) {
	return r.ids(ctx, `SELECT user_id::text FROM project_members WHERE project_id = $1 ORDER BY created_at, user_id`, projectID)
}

// ProjectIDsForUser proyectos asignados al usuario; nunca nil.
func (r *ProjectRepo) ProjectIDsForUser(ctx context.Context, userID string) ([]string, error) {
	return r.ids(ctx, `SELECT project_id::text FROM project_members WHERE user_id = $1 ORDER BY created_at, project_id`, userID)
}

func (r *ProjectRepo) ids(ctx context.Context, query, arg string) ([]string, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list project members: %w", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan project members: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
