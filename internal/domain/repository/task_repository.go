package repository

import (
	"context"

	"github.com/jhoicas/obras-api/internal/domain/entity"
)

// TaskRepository persistencia de tareas.
type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) error
	GetByID(ctx context.Context, id string) (*entity.Task, error)
	// ListByProject lista tareas del proyecto; milestoneID vacío = todas.
	ListByProject(ctx context.Context, projectID, milestoneID string) ([]*entity.Task, error)
	Update(ctx context.Context, t *entity.Task) error
	Delete(ctx context.Context, id string) error
}
