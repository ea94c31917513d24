// Package materialrequest contiene las reglas puras del ciclo de vida de una
// solicitud de materiales: qué etapas admite cada evento y cómo se deriva la
// etapa a partir de los totales acumulados de sus líneas.
package materialrequest

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/obras-api/internal/domain"
	"github.com/jhoicas/obras-api/internal/domain/entity"
)

// Event evento que dispara una transición.
type Event string

const (
	EventSubmit  Event = "submit"
	EventApprove Event = "approve"
	EventDecline Event = "decline"
	EventOrder   Event = "order"
	EventDeliver Event = "deliver"
	EventVerify  Event = "verify"
	EventReview  Event = "review"
)

// sourceStages etapas desde las que se acepta cada evento.
var sourceStages = map[Event][]string{
	EventSubmit:  {entity.StageDraft},
	EventApprove: {entity.StageRequested},
	EventDecline: {entity.StageRequested},
	EventOrder:   {entity.StageApproved},
	EventDeliver: {entity.StageOrdered, entity.StageVerifying, entity.StagePartiallyVerified},
	EventVerify:  {entity.StageVerifying, entity.StagePartiallyVerified},
	EventReview:  {entity.StagePartiallyVerified, entity.StageDisputed, entity.StageCompleted},
}

// SourceStages devuelve una copia de las etapas desde las que se acepta ev.
func SourceStages(ev Event) []string {
	src := sourceStages[ev]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Accepts indica si una solicitud en stage admite ev.
func Accepts(ev Event, stage string) bool {
	for _, s := range sourceStages[ev] {
		if s == stage {
			return true
		}
	}
	return false
}

// ValidStage indica si stage es una etapa conocida.
func ValidStage(stage string) bool {
	switch stage {
	case entity.StageDraft, entity.StageRequested, entity.StageApproved, entity.StageOrdered,
		entity.StageVerifying, entity.StagePartiallyVerified, entity.StageDisputed,
		entity.StageCompleted, entity.StageCancelled:
		return true
	}
	return false
}

// StatusFor devuelve el estado grueso que corresponde a stage.
func StatusFor(stage string) string {
	switch stage {
	case entity.StageDraft, entity.StageRequested:
		return entity.RequestStatusPending
	case entity.StageCancelled:
		return entity.RequestStatusRejected
	default:
		return entity.RequestStatusApproved
	}
}

// DeliveryTarget etapa resultante de registrar una entrega desde stage.
// Solo ordered avanza; las entregas posteriores no cambian la etapa.
func DeliveryTarget(stage string) string {
	if stage == entity.StageOrdered {
		return entity.StageVerifying
	}
	return stage
}

// RecomputeStage deriva la etapa de una solicitud en verificación a partir de
// los totales acumulados de sus líneas. Es idempotente: el mismo estado
// acumulado produce siempre la misma etapa.
//
//   - todas las líneas recibidas por completo y sin rechazos: completed
//   - todas las líneas recibidas por completo con algún rechazo: disputed
//   - alguna cantidad recibida: partially_verified
//   - nada recibido: verifying
func RecomputeStage(items []entity.MaterialRequestItem) string {
	if len(items) == 0 {
		return entity.StageVerifying
	}
	allReceived := true
	anyReceived := false
	anyRejected := false
	for _, it := range items {
		if !it.FullyReceived() {
			allReceived = false
		}
		if it.ReceivedQuantity.IsPositive() {
			anyReceived = true
		}
		if it.RejectedQuantity.IsPositive() {
			anyRejected = true
		}
	}
	switch {
	case allReceived && !anyRejected:
		return entity.StageCompleted
	case allReceived:
		return entity.StageDisputed
	case anyReceived:
		return entity.StagePartiallyVerified
	default:
		return entity.StageVerifying
	}
}

// ApplyVerification valida una decisión (aceptado, rechazado) contra la
// cantidad pendiente de la línea y acumula los totales. La línea no se
// modifica si la validación falla.
func ApplyVerification(item *entity.MaterialRequestItem, accepted, rejected decimal.Decimal) error {
	if accepted.IsNegative() || rejected.IsNegative() {
		return fmt.Errorf("%w: las cantidades no pueden ser negativas", domain.ErrInvalidInput)
	}
	total := accepted.Add(rejected)
	if !total.IsPositive() {
		return fmt.Errorf("%w: debe verificar al menos una unidad", domain.ErrInvalidInput)
	}
	pending := item.PendingQuantity()
	if total.GreaterThan(pending) {
		return fmt.Errorf("%w: aceptado + rechazado (%s) supera lo pendiente (%s)",
			domain.ErrInvalidInput, total.String(), pending.String())
	}
	item.AcceptedQuantity = item.AcceptedQuantity.Add(accepted)
	item.RejectedQuantity = item.RejectedQuantity.Add(rejected)
	item.ReceivedQuantity = item.AcceptedQuantity.Add(item.RejectedQuantity)
	return nil
}
