package materialrequest

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
	lifecycle "github.com/jhoicas/obras-api/internal/domain/materialrequest"
	"github.com/jhoicas/obras-api/internal/domain/repository"
	"github.com/jhoicas/obras-api/pkg/metrics"
)

// RecordDelivery registra la llegada física de materiales. La primera entrega
// lleva la solicitud de ordered a verifying; las siguientes no cambian la etapa.
// No mueve inventario: eso ocurre al verificar.
func (uc *UseCase) RecordDelivery(ctx context.Context, actor authz.Actor, id string, in dto.RecordDeliveryRequest) (*dto.MaterialDeliveryResponse, error) {
	const name = "deliver"
	if err := actor.Authorize(authz.RequestDeliver); err != nil {
		uc.metrics.ObserveTransition(name, metrics.ResultRejected)
		return nil, err
	}
	now := time.Now()
	deliveryDate, err := validateDelivery(in, now)
	if err != nil {
		uc.metrics.ObserveTransition(name, metrics.ResultRejected)
		return nil, err
	}

	delivery := &entity.MaterialDelivery{
		ID:           uuid.New().String(),
		RequestID:    id,
		DeliveredBy:  strings.TrimSpace(in.DeliveredBy),
		DeliveryDate: deliveryDate,
		Status:       in.Status,
		ReceivedBy:   actor.UserID,
		Remarks:      strings.TrimSpace(in.Remarks),
		CreatedAt:    now,
	}

	err = uc.txRunner.Run(ctx, func(r ports.Repos) error {
		if err := actor.Authorize(authz.RequestRead); err != nil {
			return err
		}
		// Cabecera bloqueada: serializa con verificaciones concurrentes
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
		if !lifecycle.Accepts(lifecycle.EventDeliver, req.CurrentStage) {
			return fmt.Errorf("solicitud en etapa %q no admite entregas: %w", req.CurrentStage, domain.ErrNotFound)
		}
		target := lifecycle.DeliveryTarget(req.CurrentStage)
		if target != req.CurrentStage {
			ok, err := r.Requests.Transition(ctx, id, repository.StageChange{
				From:   []string{req.CurrentStage},
				To:     target,
				Status: lifecycle.StatusFor(target),
			})
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("solicitud %s: %w", id, domain.ErrNotFound)
			}
		}
		if err := r.Deliveries.Create(ctx, delivery); err != nil {
			return err
		}
		remarks := fmt.Sprintf("entrega %s por %s", delivery.Status, delivery.DeliveredBy)
		if delivery.Remarks != "" {
			remarks += ": " + delivery.Remarks
		}
		if err := appendAction(ctx, r, id, entity.ActionDelivery, actor.UserID, req.CurrentStage, target, remarks); err != nil {
			return err
		}
		return audit.Write(ctx, r.Logs, audit.LogOptions{
			UserID:      actor.UserID,
			ProjectID:   req.ProjectID,
			EntityType:  audit.EntityMaterialRequest,
			EntityID:    id,
			Action:      entity.ActionDelivery,
			Description: describe(entity.ActionDelivery, remarks),
		})
	})
	uc.metrics.ObserveTransition(name, resultOf(err))
	if err != nil {
		return nil, err
	}
	out := toDeliveryResponse(delivery)
	return &out, nil
}

// validateDelivery devuelve la fecha de entrega; sin fecha se usa now.
func validateDelivery(in dto.RecordDeliveryRequest, now time.Time) (time.Time, error) {
	if strings.TrimSpace(in.DeliveredBy) == "" {
		return time.Time{}, fmt.Errorf("%w: delivered_by es requerido", domain.ErrInvalidInput)
	}
	if in.Status != entity.DeliveryStatusPartial && in.Status != entity.DeliveryStatusComplete {
		return time.Time{}, fmt.Errorf("%w: status debe ser partial o complete", domain.ErrInvalidInput)
	}
	if in.DeliveryDate == "" {
		return now, nil
	}
	d, err := time.Parse(dto.DateLayout, in.DeliveryDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: delivery_date inválida", domain.ErrInvalidInput)
	}
	return d, nil
}

// ListDeliveries entregas registradas para la solicitud.
func (uc *UseCase) ListDeliveries(ctx context.Context, actor authz.Actor, id string) ([]dto.MaterialDeliveryResponse, error) {
	if _, err := uc.load(ctx, actor, uc.repos, id); err != nil {
		return nil, err
	}
	list, err := uc.repos.Deliveries.ListByRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MaterialDeliveryResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toDeliveryResponse(d))
	}
	return out, nil
}

func toDeliveryResponse(d *entity.MaterialDelivery) dto.MaterialDeliveryResponse {
	return dto.MaterialDeliveryResponse{
		ID:           d.ID,
		RequestID:    d.RequestID,
		DeliveredBy:  d.DeliveredBy,
		DeliveryDate: d.DeliveryDate,
		Status:       d.Status,
		ReceivedBy:   d.ReceivedBy,
		Remarks:      d.Remarks,
		CreatedAt:    d.CreatedAt,
	}
}
