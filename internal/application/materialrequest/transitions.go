package materialrequest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

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

// transition describe una transición simple de etapa.
type transition struct {
	event      lifecycle.Event
	permission authz.Permission
	action     string
	// change arma el cambio a aplicar; From se completa a partir del evento.
	change func(actor authz.Actor, req *entity.MaterialRequest, remarks string, now time.Time) repository.StageChange
	// guard validaciones adicionales con la cabecera ya leída.
	guard func(actor authz.Actor, req *entity.MaterialRequest) error
}

var (
	submitTransition = transition{
		event:      lifecycle.EventSubmit,
		permission: authz.RequestSubmit,
		action:     entity.ActionSubmit,
		change: func(_ authz.Actor, _ *entity.MaterialRequest, _ string, _ time.Time) repository.StageChange {
			return repository.StageChange{To: entity.StageRequested, Status: entity.RequestStatusPending}
		},
		guard: func(actor authz.Actor, req *entity.MaterialRequest) error {
			if !actor.IsAdmin() && req.RequestedBy != actor.UserID {
				return fmt.Errorf("%w: solo quien creó el borrador puede enviarlo", domain.ErrForbidden)
			}
			return nil
		},
	}
	approveTransition = transition{
		event:      lifecycle.EventApprove,
		permission: authz.RequestApprove,
		action:     entity.ActionApprove,
		change: func(actor authz.Actor, _ *entity.MaterialRequest, _ string, now time.Time) repository.StageChange {
			approver := actor.UserID
			return repository.StageChange{
				To: entity.StageApproved, Status: entity.RequestStatusApproved,
				ApprovedBy: &approver, ApprovedAt: &now,
			}
		},
	}
	declineTransition = transition{
		event:      lifecycle.EventDecline,
		permission: authz.RequestDecline,
		action:     entity.ActionDecline,
		change: func(_ authz.Actor, _ *entity.MaterialRequest, remarks string, _ time.Time) repository.StageChange {
			reason := remarks
			return repository.StageChange{
				To: entity.StageCancelled, Status: entity.RequestStatusRejected,
				RejectionReason: &reason,
			}
		},
	}
	orderTransition = transition{
		event:      lifecycle.EventOrder,
		permission: authz.RequestOrder,
		action:     entity.ActionOrder,
		change: func(_ authz.Actor, _ *entity.MaterialRequest, _ string, _ time.Time) repository.StageChange {
			return repository.StageChange{To: entity.StageOrdered, Status: entity.RequestStatusApproved}
		},
	}
)

// Submit envía un borrador (DRAFT → requested).
func (uc *UseCase) Submit(ctx context.Context, actor authz.Actor, id, remarks string) (*dto.MaterialRequestResponse, error) {
	return uc.apply(ctx, actor, id, remarks, submitTransition)
}

// Approve aprueba una solicitud (requested → approved) registrando aprobador y fecha.
// Una segunda aprobación no afecta filas y devuelve ErrNotFound.
func (uc *UseCase) Approve(ctx context.Context, actor authz.Actor, id, remarks string) (*dto.MaterialRequestResponse, error) {
	return uc.apply(ctx, actor, id, remarks, approveTransition)
}

// Decline rechaza una solicitud (requested → cancelled); remarks queda como motivo de rechazo.
func (uc *UseCase) Decline(ctx context.Context, actor authz.Actor, id, remarks string) (*dto.MaterialRequestResponse, error) {
	return uc.apply(ctx, actor, id, remarks, declineTransition)
}

// Order marca el inicio de la compra (approved → ordered). No mueve inventario.
func (uc *UseCase) Order(ctx context.Context, actor authz.Actor, id, remarks string) (*dto.MaterialRequestResponse, error) {
	return uc.apply(ctx, actor, id, remarks, orderTransition)
}

// apply ejecuta una transición simple: UPDATE condicionado a la etapa de origen,
// bitácora y registro de actividad en la misma transacción.
func (uc *UseCase) apply(ctx context.Context, actor authz.Actor, id, remarks string, t transition) (*dto.MaterialRequestResponse, error) {
	name := string(t.event)
	if err := actor.Authorize(t.permission); err != nil {
		uc.metrics.ObserveTransition(name, metrics.ResultRejected)
		return nil, err
	}
	remarks = strings.TrimSpace(remarks)

	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		req, err := uc.load(ctx, actor, r, id)
		if err != nil {
			return err
		}
		if t.guard != nil {
			if err := t.guard(actor, req); err != nil {
				return err
			}
		}
		ch := t.change(actor, req, remarks, time.Now())
		ch.From = lifecycle.SourceStages(t.event)
		ch.Status = lifecycle.StatusFor(ch.To)
		ok, err := r.Requests.Transition(ctx, id, ch)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("solicitud en etapa %q no admite %s: %w", req.CurrentStage, name, domain.ErrNotFound)
		}
		if err := appendAction(ctx, r, id, t.action, actor.UserID, req.CurrentStage, ch.To, remarks); err != nil {
			return err
		}
		return audit.Write(ctx, r.Logs, audit.LogOptions{
			UserID:      actor.UserID,
			ProjectID:   req.ProjectID,
			EntityType:  audit.EntityMaterialRequest,
			EntityID:    id,
			Action:      t.action,
			Description: describe(t.action, remarks),
			Changes: []entity.FieldChange{
				{Field: "current_stage", Before: req.CurrentStage, After: ch.To},
			},
		})
	})
	uc.metrics.ObserveTransition(name, resultOf(err))
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, actor, id)
}

// Review agrega un comentario de revisión sin cambiar la etapa.
func (uc *UseCase) Review(ctx context.Context, actor authz.Actor, id, remarks string) (*dto.MaterialRequestResponse, error) {
	if err := actor.Authorize(authz.RequestReview); err != nil {
		return nil, err
	}
	remarks = strings.TrimSpace(remarks)
	if remarks == "" {
		return nil, fmt.Errorf("%w: remarks es requerido", domain.ErrInvalidInput)
	}
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		req, err := uc.load(ctx, actor, r, id)
		if err != nil {
			return err
		}
		if !lifecycle.Accepts(lifecycle.EventReview, req.CurrentStage) {
			return fmt.Errorf("solicitud en etapa %q no admite revisión: %w", req.CurrentStage, domain.ErrNotFound)
		}
		if err := appendAction(ctx, r, id, entity.ActionReview, actor.UserID, req.CurrentStage, req.CurrentStage, remarks); err != nil {
			return err
		}
		return audit.Write(ctx, r.Logs, audit.LogOptions{
			UserID:      actor.UserID,
			ProjectID:   req.ProjectID,
			EntityType:  audit.EntityMaterialRequest,
			EntityID:    id,
			Action:      entity.ActionReview,
			Description: describe(entity.ActionReview, remarks),
		})
	})
	uc.metrics.ObserveTransition(string(lifecycle.EventReview), resultOf(err))
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, actor, id)
}

func describe(action, remarks string) string {
	if remarks == "" {
		return "solicitud: " + action
	}
	return fmt.Sprintf("solicitud: %s (%s)", action, remarks)
}

func isClientError(err error) bool {
	return errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrForbidden) ||
		errors.Is(err, domain.ErrConflict)
}
