// Package materialrequest implementa el ciclo de vida de las solicitudes de
// materiales: creación, transiciones de etapa, entregas y verificación con
// sus asientos en el libro de inventario. Cada operación de escritura corre
// en una única transacción junto con su bitácora y su registro de actividad.
package materialrequest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/jhoicas/obras-api/internal/application/audit"
	"github.com/jhoicas/obras-api/internal/application/dto"
	"github.com/jhoicas/obras-api/internal/application/ports"
	"github.com/jhoicas/obras-api/internal/domain"
	"github.com/jhoicas/obras-api/internal/domain/authz"
	"github.com/jhoicas/obras-api/internal/domain/entity"
	lifecycle "github.com/jhoicas/obras-api/internal/domain/materialrequest"
	"github.com/jhoicas/obras-api/internal/domain/repository"
	"github.com/jhoicas/obras-api/pkg/metrics"
)

// UseCase casos de uso de solicitudes de materiales.
type UseCase struct {
	txRunner ports.TxRunner
	repos    ports.Repos
	metrics  *metrics.Lifecycle
}

// NewUseCase construye el caso de uso. repos se usa para lecturas fuera de transacción.
func NewUseCase(txRunner ports.TxRunner, repos ports.Repos, m *metrics.Lifecycle) *UseCase {
	return &UseCase{txRunner: txRunner, repos: repos, metrics: m}
}

// Create valida y registra una solicitud con sus líneas en una sola transacción.
// Nace en DRAFT si in.Draft, si no en requested.
func (uc *UseCase) Create(ctx context.Context, actor authz.Actor, in dto.CreateMaterialRequestRequest) (*dto.MaterialRequestResponse, error) {
	if err := actor.Authorize(authz.RequestCreate); err != nil {
		return nil, err
	}
	if err := validateCreate(in); err != nil {
		return nil, err
	}
	if !actor.CanAccessProject(in.ProjectID) {
		return nil, fmt.Errorf("%w: no está asignado al proyecto", domain.ErrForbidden)
	}

	stage := entity.StageRequested
	if in.Draft {
		stage = entity.StageDraft
	}
	now := time.Now()
	req := &entity.MaterialRequest{
		ID:           uuid.New().String(),
		ProjectID:    in.ProjectID,
		RequestedBy:  actor.UserID,
		RequestType:  in.RequestType,
		SupplierID:   in.SupplierID,
		CurrentStage: stage,
		Status:       entity.RequestStatusPending,
		Notes:        in.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		project, err := r.Projects.GetByID(ctx, in.ProjectID)
		if err != nil {
			return err
		}
		if project == nil {
			return fmt.Errorf("proyecto: %w", domain.ErrNotFound)
		}
		if in.SupplierID != "" {
			s, err := r.Suppliers.GetByID(ctx, in.SupplierID)
			if err != nil {
				return err
			}
			if s == nil {
				return fmt.Errorf("proveedor: %w", domain.ErrNotFound)
			}
		}
		if err := r.Requests.Create(ctx, req); err != nil {
			return err
		}
		for _, line := range in.Items {
			m, err := r.Materials.GetByID(ctx, line.MaterialID)
			if err != nil {
				return err
			}
			if m == nil {
				return fmt.Errorf("material %s: %w", line.MaterialID, domain.ErrNotFound)
			}
			it := entity.MaterialRequestItem{
				ID:                uuid.New().String(),
				RequestID:         req.ID,
				MaterialID:        line.MaterialID,
				RequestedQuantity: line.Quantity,
			}
			if err := r.Requests.CreateItem(ctx, &it); err != nil {
				return err
			}
			req.Items = append(req.Items, it)
		}
		if err := appendAction(ctx, r, req.ID, entity.ActionCreate, actor.UserID, "", stage, in.Notes); err != nil {
			return err
		}
		return audit.Write(ctx, r.Logs, audit.LogOptions{
			UserID:      actor.UserID,
			ProjectID:   req.ProjectID,
			EntityType:  audit.EntityMaterialRequest,
			EntityID:    req.ID,
			Action:      audit.ActionCreate,
			Description: fmt.Sprintf("solicitud de materiales creada (%s, %d líneas)", req.RequestType, len(req.Items)),
		})
	})
	if err != nil {
		uc.metrics.ObserveTransition("create", resultOf(err))
		return nil, err
	}
	uc.metrics.ObserveTransition("create", metrics.ResultOK)
	return toResponse(req, req.Items), nil
}

// validateCreate valida la cabecera y todas las líneas, acumulando los errores.
func validateCreate(in dto.CreateMaterialRequestRequest) error {
	var errs []error
	switch in.RequestType {
	case entity.RequestTypeSupplier:
		if in.SupplierID == "" {
			errs = append(errs, fmt.Errorf("%w: supplier_id es requerido para request_type=supplier", domain.ErrInvalidInput))
		}
	case entity.RequestTypeMainInventory:
		if in.SupplierID != "" {
			errs = append(errs, fmt.Errorf("%w: supplier_id solo aplica a request_type=supplier", domain.ErrInvalidInput))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: request_type %q inválido", domain.ErrInvalidInput, in.RequestType))
	}
	if in.ProjectID == "" {
		errs = append(errs, fmt.Errorf("%w: project_id es requerido", domain.ErrInvalidInput))
	}
	if len(in.Items) == 0 {
		errs = append(errs, fmt.Errorf("%w: la solicitud debe tener al menos una línea", domain.ErrInvalidInput))
	}
	seen := make(map[string]bool, len(in.Items))
	for i, line := range in.Items {
		if line.MaterialID == "" {
			errs = append(errs, fmt.Errorf("%w: items[%d].material_id es requerido", domain.ErrInvalidInput, i))
			continue
		}
		if seen[line.MaterialID] {
			errs = append(errs, fmt.Errorf("%w: items[%d] repite el material %s", domain.ErrInvalidInput, i, line.MaterialID))
		}
		seen[line.MaterialID] = true
		if !line.Quantity.IsPositive() {
			errs = append(errs, fmt.Errorf("%w: items[%d].quantity debe ser positiva", domain.ErrInvalidInput, i))
		} else if !entity.FitsQuantityScale(line.Quantity) {
			errs = append(errs, fmt.Errorf("%w: items[%d].quantity admite hasta %d decimales", domain.ErrInvalidInput, i, entity.QuantityScale))
		}
	}
	return multierr.Combine(errs...)
}

// Get devuelve la solicitud con sus líneas y cantidades pendientes.
func (uc *UseCase) Get(ctx context.Context, actor authz.Actor, id string) (*dto.MaterialRequestResponse, error) {
	req, err := uc.load(ctx, actor, uc.repos, id)
	if err != nil {
		return nil, err
	}
	items, err := uc.repos.Requests.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(req, items), nil
}

// checkStageFilter rechaza etapas desconocidas en lugar de devolver una página vacía.
func checkStageFilter(stage string) error {
	if stage != "" && !lifecycle.ValidStage(stage) {
		return fmt.Errorf("%w: stage %q desconocida", domain.ErrInvalidInput, stage)
	}
	return nil
}

// List lista solicitudes visibles para actor con los filtros de q.
func (uc *UseCase) List(ctx context.Context, actor authz.Actor, q dto.MaterialRequestListQuery) (*dto.MaterialRequestListResponse, error) {
	if err := actor.Authorize(authz.RequestRead); err != nil {
		return nil, err
	}
	if err := checkStageFilter(q.Stage); err != nil {
		return nil, err
	}
	if q.ProjectID != "" && !actor.CanAccessProject(q.ProjectID) {
		return nil, domain.ErrForbidden
	}
	q.DefaultPage()
	list, total, err := uc.repos.Requests.List(ctx, repository.MaterialRequestFilter{
		ProjectIDs:  actor.VisibleProjects(),
		ProjectID:   q.ProjectID,
		Stage:       q.Stage,
		Status:      q.Status,
		RequestType: q.RequestType,
		Limit:       q.Limit,
		Offset:      q.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.MaterialRequestListResponse{
		Items: make([]dto.MaterialRequestResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}
	for _, r := range list {
		out.Items = append(out.Items, *toResponse(r, nil))
	}
	return out, nil
}

// ListActions bitácora de la solicitud en orden cronológico.
func (uc *UseCase) ListActions(ctx context.Context, actor authz.Actor, id string) ([]dto.MaterialRequestActionResponse, error) {
	if _, err := uc.load(ctx, actor, uc.repos, id); err != nil {
		return nil, err
	}
	list, err := uc.repos.Actions.ListByRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MaterialRequestActionResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.MaterialRequestActionResponse{
			ID: a.ID, Action: a.Action, ActorID: a.ActorID,
			FromStage: a.FromStage, ToStage: a.ToStage,
			Remarks: a.Remarks, CreatedAt: a.CreatedAt,
		})
	}
	return out, nil
}

// load lee la cabecera y verifica permiso de lectura y acceso al proyecto.
func (uc *UseCase) load(ctx context.Context, actor authz.Actor, r ports.Repos, id string) (*entity.MaterialRequest, error) {
	if err := actor.Authorize(authz.RequestRead); err != nil {
		return nil, err
	}
	req, err := r.Requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("solicitud: %w", domain.ErrNotFound)
	}
	if !actor.CanAccessProject(req.ProjectID) {
		return nil, fmt.Errorf("%w: no está asignado al proyecto", domain.ErrForbidden)
	}
	return req, nil
}

func appendAction(ctx context.Context, r ports.Repos, requestID, action, actorID, from, to, remarks string) error {
	return r.Actions.Append(ctx, &entity.MaterialRequestAction{
		ID:        uuid.New().String(),
		RequestID: requestID,
		Action:    action,
		ActorID:   actorID,
		FromStage: from,
		ToStage:   to,
		Remarks:   remarks,
		CreatedAt: time.Now(),
	})
}

func resultOf(err error) string {
	if err == nil {
		return metrics.ResultOK
	}
	if isClientError(err) {
		return metrics.ResultRejected
	}
	return metrics.ResultError
}
