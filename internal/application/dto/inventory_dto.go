package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento manual.
const (
	ManualMovementIn       = "in"
	ManualMovementOut      = "out"
	ManualMovementTransfer = "transfer"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// Para in/out: ProjectID vacío = inventario central. Para transfer: sale del central hacia ProjectID.
type RegisterMovementRequest struct {
	MaterialID string          `json:"material_id" validate:"required,uuid"`
	ProjectID  string          `json:"project_id" validate:"omitempty,uuid"`
	Type       string          `json:"type" validate:"required,oneof=in out transfer"`
	Quantity   decimal.Decimal `json:"quantity"`
	Notes      string          `json:"notes" validate:"omitempty,max=500"`
}

// MovementResponse salida de un asiento del libro.
type MovementResponse struct {
	ID          string          `json:"id"`
	MaterialID  string          `json:"material_id"`
	ProjectID   string          `json:"project_id,omitempty"`
	Direction   string          `json:"direction"`
	Quantity    decimal.Decimal `json:"quantity"`
	Source      string          `json:"source"`
	ReferenceID string          `json:"reference_id,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	CreatedBy   string          `json:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// MovementListResponse listado paginado.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// BalanceResponse saldo de un material en un proyecto (o en el central).
type BalanceResponse struct {
	MaterialID string          `json:"material_id"`
	ProjectID  string          `json:"project_id,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
}
