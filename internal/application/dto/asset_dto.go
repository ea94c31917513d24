package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAssetRequest alta de activo.
type CreateAssetRequest struct {
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Code         string          `json:"code" validate:"omitempty,max=60"`
	Category     string          `json:"category" validate:"omitempty,max=120"`
	Status       string          `json:"status" validate:"omitempty,oneof=available in_use maintenance retired"`
	ProjectID    string          `json:"project_id" validate:"omitempty,uuid"`
	Value        decimal.Decimal `json:"value"`
	PurchaseDate string          `json:"purchase_date" validate:"omitempty,datetime=2006-01-02"`
	Notes        string          `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateAssetRequest actualización parcial de activo. Unassign=true libera el activo del proyecto.
type UpdateAssetRequest struct {
	Name      *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Category  *string          `json:"category" validate:"omitempty,max=120"`
	Status    *string          `json:"status" validate:"omitempty,oneof=available in_use maintenance retired"`
	ProjectID *string          `json:"project_id" validate:"omitempty,uuid"`
	Value     *decimal.Decimal `json:"value"`
	Notes     *string          `json:"notes" validate:"omitempty,max=2000"`
	Unassign  bool             `json:"unassign"`
}

// AssetResponse salida de activo.
type AssetResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Code         string          `json:"code,omitempty"`
	Category     string          `json:"category,omitempty"`
	Status       string          `json:"status"`
	ProjectID    string          `json:"project_id,omitempty"`
	Value        decimal.Decimal `json:"value"`
	PurchaseDate *time.Time      `json:"purchase_date,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
