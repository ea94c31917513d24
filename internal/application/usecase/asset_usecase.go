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
	"github.com/jhoicas/obras-api/internal/domain/repository"
)

// AssetQuery filtros de GET /api/assets.
type AssetQuery struct {
	ProjectID string
	Status    string
	dto.PageRequest
}

// AssetUseCase equipos y herramientas. El personal ve los activos libres y
// los asignados a sus proyectos.
type AssetUseCase struct {
	txRunner ports.TxRunner
	repos    ports.Repos
}

// NewAssetUseCase construye el caso de uso.
func NewAssetUseCase(txRunner ports.TxRunner, repos ports.Repos) *AssetUseCase {
	return &AssetUseCase{txRunner: txRunner, repos: repos}
}

// Create registra un activo. Código repetido devuelve ErrDuplicate.
func (uc *AssetUseCase) Create(ctx context.Context, actor authz.Actor, in dto.CreateAssetRequest) (*dto.AssetResponse, error) {
	if err := actor.Authorize(authz.AssetManage); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	status := in.Status
	if status == "" {
		status = entity.AssetStatusAvailable
	}
	if !entity.ValidAssetStatus(status) {
		return nil, fmt.Errorf("%w: status %q desconocido", domain.ErrInvalidInput, status)
	}
	purchased, err := parseDate("purchase_date", in.PurchaseDate)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	a := &entity.Asset{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Code:         strings.TrimSpace(in.Code),
		Category:     in.Category,
		Status:       status,
		ProjectID:    in.ProjectID,
		Value:        in.Value,
		PurchaseDate: purchased,
		Notes:        in.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.txRunner.Run(ctx, func(r ports.Repos) error {
		if err := uc.checkProject(ctx, r, a.ProjectID); err != nil {
			return err
		}
		if err := r.Assets.Create(ctx, a); err != nil {
			return err
		}
		return audit.Write(ctx, r.Logs, audit.LogOptions{
			UserID: actor.UserID, ProjectID: a.ProjectID, EntityType: audit.EntityAsset, EntityID: a.ID,
			Action: audit.ActionCreate, Description: "activo registrado: " + a.Name,
		})
	})
	if err != nil {
		return nil, err
	}
	return toAssetResponse(a), nil
}

func (uc *AssetUseCase) checkProject(ctx context.Context, r ports.Repos, projectID string) error {
	if projectID == "" {
		return nil
	}
	p, err := r.Projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if p == nil {
		return notFound("proyecto")
	}
	return nil
}

// GetByID obtiene un activo visible para el actor.
func (uc *AssetUseCase) GetByID(ctx context.Context, actor authz.Actor, id string) (*dto.AssetResponse, error) {
	if err := actor.Authorize(authz.AssetRead); err != nil {
		return nil, err
	}
	a, err := uc.repos.Assets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, notFound("activo")
	}
	if a.ProjectID != "" && !actor.CanAccessProject(a.ProjectID) {
		return nil, fmt.Errorf("%w: no está asignado al proyecto", domain.ErrForbidden)
	}
	return toAssetResponse(a), nil
}

// List activos visibles para el actor.
func (uc *AssetUseCase) List(ctx context.Context, actor authz.Actor, q AssetQuery) ([]dto.AssetResponse, error) {
	if err := actor.Authorize(authz.AssetRead); err != nil {
		return nil, err
	}
	if q.ProjectID != "" && !actor.CanAccessProject(q.ProjectID) {
		return nil, fmt.Errorf("%w: no está asignado al proyecto", domain.ErrForbidden)
	}
	q.DefaultPage()
	list, err := uc.repos.Assets.List(ctx, repository.AssetFilter{
		ProjectIDs: actor.VisibleProjects(), ProjectID: q.ProjectID, Status: q.Status,
		Limit: q.Limit, Offset: q.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.AssetResponse, 0, len(list))
	for _, a := range list {
		out = append(out, *toAssetResponse(a))
	}
	return out, nil
}

// Update edita un activo. Unassign libera el activo de su proyecto.
func (uc *AssetUseCase) Update(ctx context.Context, actor authz.Actor, id string, in dto.UpdateAssetRequest) (*dto.AssetResponse, error) {
	if err := actor.Authorize(authz.AssetManage); err != nil {
		return nil, err
	}
	var out *entity.Asset
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		a, err := r.Assets.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if a == nil {
			return notFound("activo")
		}
		before := assetSnapshot(a)
		if in.Name != nil {
			if strings.TrimSpace(*in.Name) == "" {
				return fmt.Errorf("%w: name no puede ser vacío", domain.ErrInvalidInput)
			}
			a.Name = strings.TrimSpace(*in.Name)
		}
		if in.Category != nil {
			a.Category = *in.Category
		}
		if in.Status != nil {
			if !entity.ValidAssetStatus(*in.Status) {
				return fmt.Errorf("%w: status %q desconocido", domain.ErrInvalidInput, *in.Status)
			}
			a.Status = *in.Status
		}
		switch {
		case in.Unassign:
			a.ProjectID = ""
		case in.ProjectID != nil:
			if err := uc.checkProject(ctx, r, *in.ProjectID); err != nil {
				return err
			}
			a.ProjectID = *in.ProjectID
		}
		if in.Value != nil {
			a.Value = *in.Value
		}
		if in.Notes != nil {
			a.Notes = *in.Notes
		}
		a.UpdatedAt = time.Now()
		if err := r.Assets.Update(ctx, a); err != nil {
			return err
		}
		out = a
		return audit.Write(ctx, r.Logs, audit.LogOptions{
			UserID: actor.UserID, ProjectID: a.ProjectID, EntityType: audit.EntityAsset, EntityID: a.ID,
			Action: audit.ActionUpdate, Description: "activo editado: " + a.Name,
			Changes: audit.Diff(before, assetSnapshot(a)),
		})
	})
	if err != nil {
		return nil, err
	}
	return toAssetResponse(out), nil
}

func assetSnapshot(a *entity.Asset) map[string]string {
	return map[string]string{
		"name":       a.Name,
		"category":   a.Category,
		"status":     a.Status,
		"project_id": a.ProjectID,
		"value":      a.Value.String(),
		"notes":      a.Notes,
	}
}

func toAssetResponse(a *entity.Asset) *dto.AssetResponse {
	return &dto.AssetResponse{
		ID:           a.ID,
		Name:         a.Name,
		Code:         a.Code,
		Category:     a.Category,
		Status:       a.Status,
		ProjectID:    a.ProjectID,
		Value:        a.Value,
		PurchaseDate: a.PurchaseDate,
		Notes:        a.Notes,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
