package repository

import (
	"context"

	"github.com/jhoicas/obras-api/internal/domain/entity"
)

// AssetFilter filtros de activos. ProjectIDs nil = todos; en otro caso esos proyectos y los activos libres.
type AssetFilter struct {
	ProjectIDs []string
	ProjectID  string
	Status     string
	Limit      int
	Offset     int
}

// AssetRepository persistencia de activos.
type AssetRepository interface {
	Create(ctx context.Context, a *entity.Asset) error
	GetByID(ctx context.Context, id string) (*entity.Asset, error)
	List(ctx context.Context, f AssetFilter) ([]*entity.Asset, error)
	Update(ctx context.Context, a *entity.Asset) error
}
