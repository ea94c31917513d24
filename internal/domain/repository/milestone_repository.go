package repository

import (
	"context"

	"github.com/jhoicas/obras-api/internal/domain/entity"
)

// MilestoneRepository persistencia de hitos.
type MilestoneRepository interface {
	Create(ctx context.Context, m *entity.Milestone) error
	GetByID(ctx context.Context, id string) (*entity.Milestone, error)
	ListByProject(ctx context.Context, projectID string) ([]*entity.Milestone, error)
	Update(ctx context.Context, m *entity.Milestone) error
	Delete(ctx context.Context, id string) error
}
