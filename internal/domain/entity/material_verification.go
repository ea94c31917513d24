package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialVerification decisión de verificación sobre una línea de la solicitud.
// Pueden existir varias por línea a medida que se acumulan verificaciones parciales.
type MaterialVerification struct {
	ID               string
	RequestID        string
	RequestItemID    string
	AcceptedQuantity decimal.Decimal
	RejectedQuantity decimal.Decimal
	VerifiedBy       string
	Remarks          string
	CreatedAt        time.Time
}
