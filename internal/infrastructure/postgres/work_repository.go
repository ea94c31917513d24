package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/obras-api/internal/domain/entity"
	"github.com/jhoicas/obras-api/internal/domain/repository"
)

var (
	_ repository.MilestoneRepository = (*MilestoneRepo)(nil)
	_ repository.TaskRepository      = (*TaskRepo)(nil)
)

const (
	milestoneColumns = `id, project_id, name, description, due_date, status, created_at, updated_at`
	taskColumns      = `id, project_id, COALESCE(milestone_id::text, ''), title, description,
		COALESCE(assigned_to::text, ''), status, due_date, created_at, updated_at`
)

// MilestoneRepo hitos de proyecto.
type MilestoneRepo struct {
	q Querier
}

// NewMilestoneRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMilestoneRepository(q Querier) *MilestoneRepo {
	return &MilestoneRepo{q: q}
}

func scanMilestone(row pgx.Row) (*entity.Milestone, error) {
	var m entity.Milestone
	if err := row.Scan(&m.ID, &m.ProjectID, &m.Name, &m.Description, &m.DueDate, &m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MilestoneRepo) Create(ctx context.Context, m *entity.Milestone) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO milestones (`+milestoneColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ID, m.ProjectID, m.Name, m.Description, m.DueDate, m.Status, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert milestone: %w", err)
	}
	return nil
}

func (r *MilestoneRepo) GetByID(ctx context.Context, id string) (*entity.Milestone, error) {
	m, err := scanMilestone(r.q.QueryRow(ctx, `SELECT `+milestoneColumns+` FROM milestones WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get milestone: %w", err)
	}
	return m, nil
}

// ListByProject hitos ordenados por fecha límite (sin fecha al final).
func (r *MilestoneRepo) ListByProject(ctx context.Context, projectID string) ([]*entity.Milestone, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+milestoneColumns+` FROM milestones
		WHERE project_id = $1 ORDER BY due_date NULLS LAST, created_at`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	defer rows.Close()
	var out []*entity.Milestone
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			return nil, fmt.Errorf("scan milestone: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MilestoneRepo) Update(ctx context.Context, m *entity.Milestone) error {
	_, err := r.q.Exec(ctx, `
		UPDATE milestones SET name = $2, description = $3, due_date = $4, status = $5, updated_at = $6
		WHERE id = $1`,
		m.ID, m.Name, m.Description, m.DueDate, m.Status, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update milestone: %w", err)
	}
	return nil
}

// Delete elimina el hito; la FK deja sus tareas con milestone_id NULL.
func (r *MilestoneRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM milestones WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete milestone: %w", err)
	}
	return nil
}

// TaskRepo tareas de proyecto.
type TaskRepo struct {
	q Querier
}

// NewTaskRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTaskRepository(q Querier) *TaskRepo {
	return &TaskRepo{q: q}
}

func scanTask(row pgx.Row) (*entity.Task, error) {
	var t entity.Task
	err := row.Scan(&t.ID, &t.ProjectID, &t.MilestoneID, &t.Title, &t.Description,
		&t.AssignedTo, &t.Status, &t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepo) Create(ctx context.Context, t *entity.Task) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO tasks (id, project_id, milestone_id, title, description, assigned_to, status, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.ProjectID, nullable(t.MilestoneID), t.Title, t.Description,
		nullable(t.AssignedTo), t.Status, t.DueDate, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepo) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	t, err := scanTask(r.q.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (r *TaskRepo) ListByProject(ctx context.Context, projectID, milestoneID string) ([]*entity.Task, error) {
	var w where
	w.add("project_id = ?", projectID)
	if milestoneID != "" {
		w.add("milestone_id = ?", milestoneID)
	}
	rows, err := r.q.Query(ctx, `SELECT `+taskColumns+` FROM tasks `+w.String()+` ORDER BY created_at, id`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()
	var out []*entity.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TaskRepo) Update(ctx context.Context, t *entity.Task) error {
	_, err := r.q.Exec(ctx, `
		UPDATE tasks SET milestone_id = $2, title = $3, description = $4, assigned_to = $5,
			status = $6, due_date = $7, updated_at = $8
		WHERE id = $1`,
		t.ID, nullable(t.MilestoneID), t.Title, t.Description, nullable(t.AssignedTo),
		t.Status, t.DueDate, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
