package materialrequest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/jhoicas/obras-api/internal/application/audit"
	"github.com/jhoicas/obras-api/internal/application/dto"
	"github.com/jhoicas/obras-api/internal/application/inventory"
	"github.com/jhoicas/obras-api/internal/application/ports"
	"github.com/jhoicas/obras-api/internal/domain"
	"github.com/jhoicas/obras-api/internal/domain/authz"
	"github.com/jhoicas/obras-api/internal/domain/entity"
	lifecycle "github.com/jhoicas/obras-api/internal/domain/materialrequest"
	"github.com/jhoicas/obras-api/internal/domain/repository"
	"github.com/jhoicas/obras-api/pkg/metrics"
)

// Verify registra las cantidades aceptadas y rechazadas de cada línea y
// recalcula la etapa a partir de los totales acumulados.
//
// Por cada unidad aceptada se asienta una entrada (in) en el proyecto. Si la
// solicitud se surte del inventario central se asienta además la salida (out)
// del central por la misma cantidad. Todo ocurre en una transacción: si una
// línea no valida o falla un asiento no queda nada escrito.
func (uc *UseCase) Verify(ctx context.Context, actor authz.Actor, id string, in dto.VerifyRequest) (*dto.MaterialRequestResponse, error) {
	const name = "verify"
	if err := actor.Authorize(authz.RequestVerify); err != nil {
		uc.metrics.ObserveTransition(name, metrics.ResultRejected)
		return nil, err
	}
	if err := validateVerify(in); err != nil {
		uc.metrics.ObserveTransition(name, metrics.ResultRejected)
		return nil, err
	}

	var posted []*entity.InventoryMovement
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		if err := actor.Authorize(authz.RequestRead); err != nil {
			return err
		}
		// Cabecera bloqueada: dos verificaciones de la misma solicitud recalculan la etapa en serie
		req, err := r.Requests.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if req == nil {
			return fmt.Errorf("solicitud: %w", domain.ErrNotFound)
		}
		if !actor.CanAccessProject(req.ProjectID) {
			return fmt.Errorf("%w: no está asignado al proyecto", domain.ErrForbidden)
		}
		if !lifecycle.Accepts(lifecycle.EventVerify, req.CurrentStage) {
			return fmt.Errorf("solicitud en etapa %q no admite verificación: %w", req.CurrentStage, domain.ErrNotFound)
		}

		// Primera pasada: bloquear y validar todas las líneas contra lo pendiente
		locked := make([]*entity.MaterialRequestItem, len(in.Items))
		var errs []error
		for i, line := range in.Items {
			it, err := r.Requests.GetItemForUpdate(ctx, line.ItemID)
			if err != nil {
				return err
			}
			if it == nil || it.RequestID != id {
				return fmt.Errorf("línea %s: %w", line.ItemID, domain.ErrNotFound)
			}
			if err := lifecycle.ApplyVerification(it, line.AcceptedQty, line.RejectedQty); err != nil {
				errs = append(errs, fmt.Errorf("items[%d]: %w", i, err))
				continue
			}
			locked[i] = it
		}
		if err := multierr.Combine(errs...); err != nil {
			return err
		}

		// Segunda pasada: persistir acumulados, verificaciones y asientos
		now := time.Now()
		source := entity.SourceSupplier
		if req.RequestType == entity.RequestTypeMainInventory {
			source = entity.SourceMainInventory
		}
		for i, line := range in.Items {
			it := locked[i]
			if err := r.Requests.UpdateItemQuantities(ctx, it); err != nil {
				return err
			}
			if err := r.Verifications.Create(ctx, &entity.MaterialVerification{
				ID:               uuid.New().String(),
				RequestID:        id,
				RequestItemID:    it.ID,
				AcceptedQuantity: line.AcceptedQty,
				RejectedQuantity: line.RejectedQty,
				VerifiedBy:       actor.UserID,
				Remarks:          strings.TrimSpace(line.Remarks),
				CreatedAt:        now,
			}); err != nil {
				return err
			}
			if !line.AcceptedQty.IsPositive() {
				continue
			}
			mov, err := inventory.Post(ctx, r.Movements, inventory.Posting{
				MaterialID:  it.MaterialID,
				ProjectID:   req.ProjectID,
				Direction:   entity.DirectionIn,
				Quantity:    line.AcceptedQty,
				Source:      source,
				ReferenceID: id,
				UserID:      actor.UserID,
			})
			if err != nil {
				return err
			}
			posted = append(posted, mov)
			if source == entity.SourceMainInventory {
				out, err := inventory.Post(ctx, r.Movements, inventory.Posting{
					MaterialID:  it.MaterialID,
					Direction:   entity.DirectionOut,
					Quantity:    line.AcceptedQty,
					Source:      source,
					ReferenceID: id,
					UserID:      actor.UserID,
				})
				if err != nil {
					return err
				}
				posted = append(posted, out)
			}
		}

		// La etapa se deriva de los totales acumulados, no de esta entrega
		items, err := r.Requests.ListItems(ctx, id)
		if err != nil {
			return err
		}
		stage := lifecycle.RecomputeStage(items)
		if stage != req.CurrentStage {
			ok, err := r.Requests.Transition(ctx, id, repository.StageChange{
				From:   []string{req.CurrentStage},
				To:     stage,
				Status: lifecycle.StatusFor(stage),
			})
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("solicitud %s cambió de etapa durante la verificación: %w", id, domain.ErrConflict)
			}
		}

		remarks := strings.TrimSpace(in.Remarks)
		if err := appendAction(ctx, r, id, entity.ActionVerification, actor.UserID, req.CurrentStage, stage, remarks); err != nil {
			return err
		}
		changes := make([]entity.FieldChange, 0, len(in.Items)+1)
		if stage != req.CurrentStage {
			changes = append(changes, entity.FieldChange{Field: "current_stage", Before: req.CurrentStage, After: stage})
		}
		for _, it := range locked {
			changes = append(changes, entity.FieldChange{
				Field: "item:" + it.ID + ":received_quantity",
				After: it.ReceivedQuantity.String(),
			})
		}
		return audit.Write(ctx, r.Logs, audit.LogOptions{
			UserID:      actor.UserID,
			ProjectID:   req.ProjectID,
			EntityType:  audit.EntityMaterialRequest,
			EntityID:    id,
			Action:      entity.ActionVerification,
			Description: fmt.Sprintf("verificación de %d líneas, etapa %s", len(in.Items), stage),
			Changes:     changes,
		})
	})
	uc.metrics.ObserveTransition(name, resultOf(err))
	if err != nil {
		return nil, err
	}
	for _, m := range posted {
		uc.metrics.ObserveMovement(m.Direction, m.Source)
	}
	return uc.Get(ctx, actor, id)
}

// validateVerify valida la forma del payload antes de abrir la transacción.
func validateVerify(in dto.VerifyRequest) error {
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: debe verificar al menos una línea", domain.ErrInvalidInput)
	}
	var errs []error
	seen := make(map[string]bool, len(in.Items))
	for i, line := range in.Items {
		if line.ItemID == "" {
			errs = append(errs, fmt.Errorf("%w: items[%d].item_id es requerido", domain.ErrInvalidInput, i))
			continue
		}
		if seen[line.ItemID] {
			errs = append(errs, fmt.Errorf("%w: items[%d] repite la línea %s", domain.ErrInvalidInput, i, line.ItemID))
		}
		seen[line.ItemID] = true
		if line.AcceptedQty.IsNegative() || line.RejectedQty.IsNegative() {
			errs = append(errs, fmt.Errorf("%w: items[%d] tiene cantidades negativas", domain.ErrInvalidInput, i))
		} else if !entity.FitsQuantityScale(line.AcceptedQty) || !entity.FitsQuantityScale(line.RejectedQty) {
			errs = append(errs, fmt.Errorf("%w: items[%d] admite hasta %d decimales", domain.ErrInvalidInput, i, entity.QuantityScale))
		} else if !line.AcceptedQty.Add(line.RejectedQty).IsPositive() {
			errs = append(errs, fmt.Errorf("%w: items[%d] no verifica ninguna unidad", domain.ErrInvalidInput, i))
		}
	}
	return multierr.Combine(errs...)
}

// ListVerifications verificaciones registradas para la solicitud.
func (uc *UseCase) ListVerifications(ctx context.Context, actor authz.Actor, id string) ([]dto.MaterialVerificationResponse, error) {
	if _, err := uc.load(ctx, actor, uc.repos, id); err != nil {
		return nil, err
	}
	list, err := uc.repos.Verifications.ListByRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MaterialVerificationResponse, 0, len(list))
	for _, v := range list {
		out = append(out, dto.MaterialVerificationResponse{
			ID:               v.ID,
			RequestItemID:    v.RequestItemID,
			AcceptedQuantity: v.AcceptedQuantity,
			RejectedQuantity: v.RejectedQuantity,
			VerifiedBy:       v.VerifiedBy,
			Remarks:          v.Remarks,
			CreatedAt:        v.CreatedAt,
		})
	}
	return out, nil
}
