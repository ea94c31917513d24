package repository

import (
	"context"

	"github.com/jhoicas/obras-api/internal/domain/entity"
)

// MaterialFilter filtros del catálogo.
type MaterialFilter struct {
	Status     string
	CategoryID string
	SupplierID string
	Limit      int
	Offset     int
}

// MaterialRepository persistencia del catálogo de materiales.
type MaterialRepository interface {
	Create(ctx context.Context, m *entity.Material) error
	GetByID(ctx context.Context, id string) (*entity.Material, error)
	// GetForUpdate bloquea la fila del material (SELECT FOR UPDATE) para serializar salidas de inventario.
	GetForUpdate(ctx context.Context, id string) (*entity.Material, error)
	GetByNameKey(ctx context.Context, nameKey string) (*entity.Material, error)
	List(ctx context.Context, f MaterialFilter) ([]*entity.Material, error)
	Update(ctx context.Context, m *entity.Material) error
	Delete(ctx context.Context, id string) error
}
