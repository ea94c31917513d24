package entity

import "time"

// Acciones registradas en la bitácora de una solicitud.
const (
	ActionCreate       = "create"
	ActionSubmit       = "submit"
	ActionApprove      = "approve"
	ActionDecline      = "decline"
	ActionOrder        = "order"
	ActionDelivery     = "delivery"
	ActionVerification = "verification"
	ActionReview       = "review"
)

// MaterialRequestAction entrada inmutable de la bitácora de una solicitud.
type MaterialRequestAction struct {
	ID        string
	RequestID string
	Action    string
	ActorID   string
	FromStage string
	ToStage   string
	Remarks   string
	CreatedAt time.Time
}
