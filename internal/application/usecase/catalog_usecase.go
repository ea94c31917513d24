package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/obras-api/internal/application/audit"
	"github.com/jhoicas/obras-api/internal/application/dto"
	"github.com/jhoicas/obras-api/internal/application/ports"
	"github.com/jhoicas/obras-api/internal/domain"
	"github.com/jhoicas/obras-api/internal/domain/authz"
	"github.com/jhoicas/obras-api/internal/domain/entity"
)

// CatalogUseCase proveedores, categorías y unidades de medida.
type CatalogUseCase struct {
	txRunner ports.TxRunner
	repos    ports.Repos
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(txRunner ports.TxRunner, repos ports.Repos) *CatalogUseCase {
	return &CatalogUseCase{txRunner: txRunner, repos: repos}
}

func (uc *CatalogUseCase) create(ctx context.Context, actor authz.Actor, kind, id, name string, save func(r ports.Repos) error) error {
	if err := actor.Authorize(authz.CatalogManage); err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	return uc.txRunner.Run(ctx, func(r ports.Repos) error {
		if err := save(r); err != nil {
			return err
		}
		return audit.Write(ctx, r.Logs, audit.LogOptions{
			UserID: actor.UserID, EntityType: audit.EntityCatalog, EntityID: id,
			Action: audit.ActionCreate, Description: fmt.Sprintf("%s creado: %s", kind, name),
		})
	})
}

// CreateSupplier alta de proveedor.
func (uc *CatalogUseCase) CreateSupplier(ctx context.Context, actor authz.Actor, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	s := &entity.Supplier{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		ContactName: in.ContactName,
		Phone:       in.Phone,
		Email:       in.Email,
		Address:     in.Address,
		CreatedAt:   time.Now(),
	}
	err := uc.create(ctx, actor, "proveedor", s.ID, s.Name, func(r ports.Repos) error {
		return r.Suppliers.Create(ctx, s)
	})
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// ListSuppliers lista proveedores.
func (uc *CatalogUseCase) ListSuppliers(ctx context.Context, actor authz.Actor) ([]dto.SupplierResponse, error) {
	if err := actor.Authorize(authz.CatalogRead); err != nil {
		return nil, err
	}
	list, err := uc.repos.Suppliers.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSupplierResponse(s))
	}
	return out, nil
}

// CreateCategory alta de categoría.
func (uc *CatalogUseCase) CreateCategory(ctx context.Context, actor authz.Actor, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	c := &entity.Category{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		CreatedAt:   time.Now(),
	}
	err := uc.create(ctx, actor, "categoría", c.ID, c.Name, func(r ports.Repos) error {
		return r.Categories.Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description, CreatedAt: c.CreatedAt}, nil
}

// ListCategories lista categorías.
func (uc *CatalogUseCase) ListCategories(ctx context.Context, actor authz.Actor) ([]dto.CategoryResponse, error) {
	if err := actor.Authorize(authz.CatalogRead); err != nil {
		return nil, err
	}
	list, err := uc.repos.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description, CreatedAt: c.CreatedAt})
	}
	return out, nil
}

// CreateUnit alta de unidad de medida.
func (uc *CatalogUseCase) CreateUnit(ctx context.Context, actor authz.Actor, in dto.CreateUnitRequest) (*dto.UnitResponse, error) {
	u := &entity.Unit{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Abbreviation: in.Abbreviation,
		CreatedAt:    time.Now(),
	}
	err := uc.create(ctx, actor, "unidad", u.ID, u.Name, func(r ports.Repos) error {
		return r.Units.Create(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return &dto.UnitResponse{ID: u.ID, Name: u.Name, Abbreviation: u.Abbreviation, CreatedAt: u.CreatedAt}, nil
}

// ListUnits lista unidades de medida.
func (uc *CatalogUseCase) ListUnits(ctx context.Context, actor authz.Actor) ([]dto.UnitResponse, error) {
	if err := actor.Authorize(authz.CatalogRead); err != nil {
		return nil, err
	}
	list, err := uc.repos.Units.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnitResponse, 0, len(list))
	for _, u := range list {
		out = append(out, dto.UnitResponse{ID: u.ID, Name: u.Name, Abbreviation: u.Abbreviation, CreatedAt: u.CreatedAt})
	}
	return out, nil
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:          s.ID,
		Name:        s.Name,
		ContactName: s.ContactName,
		Phone:       s.Phone,
		Email:       s.Email,
		Address:     s.Address,
		CreatedAt:   s.CreatedAt,
	}
}
