package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Etapas (current_stage) del ciclo de vida de una solicitud de materiales.
const (
	StageDraft             = "DRAFT"
	StageRequested         = "requested"
	StageApproved          = "approved"
	StageOrdered           = "ordered"
	StageVerifying         = "verifying"
	StagePartiallyVerified = "partially_verified"
	StageDisputed          = "disputed"
	StageCompleted         = "completed"
	StageCancelled         = "cancelled"
)

// Estado grueso que acompaña a la etapa.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// Origen de los materiales solicitados.
const (
	RequestTypeSupplier      = "supplier"
	RequestTypeMainInventory = "main_inventory"
)

// MaterialRequest solicitud de materiales de un proyecto.
// SupplierID es no vacío si y solo si RequestType es supplier.
type MaterialRequest struct {
	ID              string
	ProjectID       string
	RequestedBy     string
	RequestType     string
	SupplierID      string
	CurrentStage    string
	Status          string
	Notes           string
	ApprovedBy      string
	ApprovedAt      *time.Time
	RejectionReason string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items []MaterialRequestItem
}

// MaterialRequestItem línea de una solicitud. Received = Accepted + Rejected en todo momento.
type MaterialRequestItem struct {
	ID                string
	RequestID         string
	MaterialID        string
	RequestedQuantity decimal.Decimal
	ReceivedQuantity  decimal.Decimal
	AcceptedQuantity  decimal.Decimal
	RejectedQuantity  decimal.Decimal
}

// PendingQuantity cantidad aún no recibida.
func (i MaterialRequestItem) PendingQuantity() decimal.Decimal {
	p := i.RequestedQuantity.Sub(i.ReceivedQuantity)
	if p.IsNegative() {
		return decimal.Zero
	}
	return p
}

// FullyReceived indica si ya se recibió todo lo solicitado.
func (i MaterialRequestItem) FullyReceived() bool {
	return i.ReceivedQuantity.GreaterThanOrEqual(i.RequestedQuantity)
}
