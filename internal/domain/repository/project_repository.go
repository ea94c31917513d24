package repository

import (
	"context"

	"github.com/jhoicas/obras-api/internal/domain/entity"
)

// ProjectFilter filtros de listado. IDs nil = sin restricción; vacío = ningún proyecto visible.
type ProjectFilter struct {
	IDs    []string
	Status string
	Limit  int
	Offset int
}

// ProjectRepository persistencia de proyectos y de su personal asignado.
type ProjectRepository interface {
	Create(ctx context.Context, p *entity.Project) error
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	Update(ctx context.Context, p *entity.Project) error
	List(ctx context.Context, f ProjectFilter) ([]*entity.Project, error)
	AddMember(ctx context.Context, projectID, userID string) error
	RemoveMember(ctx context.Context, projectID, userID string) error
	ListMembers(ctx context.Context, projectID string) ([]string, error)
	// ProjectIDsForUser proyectos asignados a un usuario (se copian al token de sesión).
	ProjectIDsForUser(ctx context.Context, userID string) ([]string, error)
}
