package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/jhoicas/obras-api/internal/application/audit"
	"github.com/jhoicas/obras-api/internal/application/dto"
	"github.com/jhoicas/obras-api/internal/application/ports"
	"github.com/jhoicas/obras-api/internal/domain"
	"github.com/jhoicas/obras-api/internal/domain/authz"
	"github.com/jhoicas/obras-api/internal/domain/entity"
	"github.com/jhoicas/obras-api/internal/domain/repository"
)

var folder = cases.Fold()

// NameKey normaliza el nombre de un material para detectar duplicados
// sin importar mayúsculas ni espacios repetidos.
func NameKey(name string) string {
	return folder.String(strings.Join(strings.Fields(name), " "))
}

// MaterialQuery filtros de GET /api/items.
type MaterialQuery struct {
	Status     string
	CategoryID string
	SupplierID string
	dto.PageRequest
}

// MaterialUseCase catálogo de materiales. Los materiales creados por personal
// quedan pendientes hasta que un administrador los aprueba.
type MaterialUseCase struct {
	txRunner ports.TxRunner
	repos    ports.Repos
}

// NewMaterialUseCase construye el caso de uso.
func NewMaterialUseCase(txRunner ports.TxRunner, repos ports.Repos) *MaterialUseCase {
	return &MaterialUseCase{txRunner: txRunner, repos: repos}
}

// Create registra un material. Nombre repetido (case-folded) devuelve ErrDuplicate.
func (uc *MaterialUseCase) Create(ctx context.Context, actor authz.Actor, in dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	if err := actor.Authorize(authz.MaterialCreate); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price no puede ser negativo", domain.ErrInvalidInput)
	}
	now := time.Now()
	m := &entity.Material{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		NameKey:     NameKey(in.Name),
		Description: in.Description,
		CategoryID:  in.CategoryID,
		SupplierID:  in.SupplierID,
		UnitID:      in.UnitID,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		Status:      entity.MaterialStatusPending,
		CreatedBy:   actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if actor.Can(authz.MaterialApprove) {
		m.Status = entity.MaterialStatusApproved
		m.ApprovedBy = actor.UserID
	}

	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		existing, err := r.Materials.GetByNameKey(ctx, m.NameKey)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("material %q: %w", m.Name, domain.ErrDuplicate)
		}
		if err := uc.checkRefs(ctx, r, m); err != nil {
			return err
		}
		if err := r.Materials.Create(ctx, m); err != nil {
			return err
		}
		return audit.Write(ctx, r.Logs, audit.LogOptions{
			UserID: actor.UserID, EntityType: audit.EntityMaterial, EntityID: m.ID,
			Action: audit.ActionCreate, Description: "material creado: " + m.Name,
		})
	})
	if err != nil {
		return nil, err
	}
	return toMaterialResponse(m), nil
}

// checkRefs verifica que categoría, proveedor y unidad existan.
func (uc *MaterialUseCase) checkRefs(ctx context.Context, r ports.Repos, m *entity.Material) error {
	if m.CategoryID != "" {
		c, err := r.Categories.GetByID(ctx, m.CategoryID)
		if err != nil {
			return err
		}
		if c == nil {
			return notFound("categoría")
		}
	}
	if m.SupplierID != "" {
		s, err := r.Suppliers.GetByID(ctx, m.SupplierID)
		if err != nil {
			return err
		}
		if s == nil {
			return notFound("proveedor")
		}
	}
	if m.UnitID != "" {
		u, err := r.Units.GetByID(ctx, m.UnitID)
		if err != nil {
			return err
		}
		if u == nil {
			return notFound("unidad")
		}
	}
	return nil
}

// GetByID obtiene un material.
func (uc *MaterialUseCase) GetByID(ctx context.Context, actor authz.Actor, id string) (*dto.MaterialResponse, error) {
	if err := actor.Authorize(authz.MaterialRead); err != nil {
		return nil, err
	}
	m, err := uc.repos.Materials.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, notFound("material")
	}
	return toMaterialResponse(m), nil
}

// List lista el catálogo con filtros.
func (uc *MaterialUseCase) List(ctx context.Context, actor authz.Actor, q MaterialQuery) (*dto.MaterialListResponse, error) {
	if err := actor.Authorize(authz.MaterialRead); err != nil {
		return nil, err
	}
	q.DefaultPage()
	list, err := uc.repos.Materials.List(ctx, repository.MaterialFilter{
		Status: q.Status, CategoryID: q.CategoryID, SupplierID: q.SupplierID,
		Limit: q.Limit, Offset: q.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.MaterialListResponse{
		Items: make([]dto.MaterialResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}
	for _, m := range list {
		out.Items = append(out.Items, *toMaterialResponse(m))
	}
	return out, nil
}

// Update edita un material y registra los campos cambiados.
func (uc *MaterialUseCase) Update(ctx context.Context, actor authz.Actor, id string, in dto.UpdateMaterialRequest) (*dto.MaterialResponse, error) {
	if err := actor.Authorize(authz.MaterialUpdate); err != nil {
		return nil, err
	}
	var out *entity.Material
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		m, err := r.Materials.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			return notFound("material")
		}
		before := materialSnapshot(m)
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return fmt.Errorf("%w: name no puede ser vacío", domain.ErrInvalidInput)
			}
			key := NameKey(name)
			if key != m.NameKey {
				dup, err := r.Materials.GetByNameKey(ctx, key)
				if err != nil {
					return err
				}
				if dup != nil {
					return fmt.Errorf("material %q: %w", name, domain.ErrDuplicate)
				}
			}
			m.Name, m.NameKey = name, key
		}
		if in.Description != nil {
			m.Description = *in.Description
		}
		if in.CategoryID != nil {
			m.CategoryID = *in.CategoryID
		}
		if in.SupplierID != nil {
			m.SupplierID = *in.SupplierID
		}
		if in.UnitID != nil {
			m.UnitID = *in.UnitID
		}
		if in.Price != nil {
			if in.Price.IsNegative() {
				return fmt.Errorf("%w: price no puede ser negativo", domain.ErrInvalidInput)
			}
			m.Price = *in.Price
		}
		if in.ImageURL != nil {
			m.ImageURL = *in.ImageURL
		}
		if err := uc.checkRefs(ctx, r, m); err != nil {
			return err
		}
		m.UpdatedAt = time.Now()
		if err := r.Materials.Update(ctx, m); err != nil {
			return err
		}
		out = m
		return audit.Write(ctx, r.Logs, audit.LogOptions{
			UserID: actor.UserID, EntityType: audit.EntityMaterial, EntityID: m.ID,
			Action: audit.ActionUpdate, Description: "material editado: " + m.Name,
			Changes: audit.Diff(before, materialSnapshot(m)),
		})
	})
	if err != nil {
		return nil, err
	}
	return toMaterialResponse(out), nil
}

// Approve publica un material pendiente.
func (uc *MaterialUseCase) Approve(ctx context.Context, actor authz.Actor, id string) (*dto.MaterialResponse, error) {
	if err := actor.Authorize(authz.MaterialApprove); err != nil {
		return nil, err
	}
	var out *entity.Material
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		m, err := r.Materials.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			return notFound("material")
		}
		if m.Status == entity.MaterialStatusApproved {
			return fmt.Errorf("material ya aprobado: %w", domain.ErrConflict)
		}
		m.Status = entity.MaterialStatusApproved
		m.ApprovedBy = actor.UserID
		m.UpdatedAt = time.Now()
		if err := r.Materials.Update(ctx, m); err != nil {
			return err
		}
		out = m
		return audit.Write(ctx, r.Logs, audit.LogOptions{
			UserID: actor.UserID, EntityType: audit.EntityMaterial, EntityID: m.ID,
			Action: audit.ActionUpdate, Description: "material aprobado: " + m.Name,
			Changes: []entity.FieldChange{{Field: "status", Before: entity.MaterialStatusPending, After: entity.MaterialStatusApproved}},
		})
	})
	if err != nil {
		return nil, err
	}
	return toMaterialResponse(out), nil
}

// Delete elimina un material sin solicitudes asociadas.
func (uc *MaterialUseCase) Delete(ctx context.Context, actor authz.Actor, id string) error {
	if err := actor.Authorize(authz.MaterialDelete); err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(r ports.Repos) error {
		m, err := r.Materials.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			return notFound("material")
		}
		if err := r.Materials.Delete(ctx, id); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return fmt.Errorf("material %q tiene solicitudes o movimientos: %w", m.Name, domain.ErrConflict)
			}
			return err
		}
		return audit.Write(ctx, r.Logs, audit.LogOptions{
			UserID: actor.UserID, EntityType: audit.EntityMaterial, EntityID: m.ID,
			Action: audit.ActionDelete, Description: "material eliminado: " + m.Name,
		})
	})
}

func materialSnapshot(m *entity.Material) map[string]string {
	return map[string]string{
		"name":        m.Name,
		"description": m.Description,
		"category_id": m.CategoryID,
		"supplier_id": m.SupplierID,
		"unit_id":     m.UnitID,
		"price":       m.Price.String(),
		"image_url":   m.ImageURL,
	}
}

func toMaterialResponse(m *entity.Material) *dto.MaterialResponse {
	return &dto.MaterialResponse{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		CategoryID:  m.CategoryID,
		SupplierID:  m.SupplierID,
		UnitID:      m.UnitID,
		Price:       m.Price,
		ImageURL:    m.ImageURL,
		Status:      m.Status,
		CreatedBy:   m.CreatedBy,
		ApprovedBy:  m.ApprovedBy,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
