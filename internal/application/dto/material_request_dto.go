package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMaterialRequestItem línea de una nueva solicitud.
type CreateMaterialRequestItem struct {
	MaterialID string          `json:"material_id" validate:"required,uuid"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// CreateMaterialRequestRequest body de POST /api/material-requests.
// Draft=true deja la solicitud en DRAFT; si no, nace en requested.
type CreateMaterialRequestRequest struct {
	ProjectID   string                      `json:"project_id" validate:"required,uuid"`
	RequestType string                      `json:"request_type" validate:"required,oneof=supplier main_inventory"`
	SupplierID  string                      `json:"supplier_id" validate:"omitempty,uuid"`
	Notes       string                      `json:"notes" validate:"omitempty,max=2000"`
	Draft       bool                        `json:"draft"`
	Items       []CreateMaterialRequestItem `json:"items" validate:"required,min=1,dive"`
}

// TransitionRequest body de approve/decline/order/submit/review.
type TransitionRequest struct {
	Remarks string `json:"remarks" validate:"omitempty,max=2000"`
}

// RecordDeliveryRequest body de POST /api/material-requests/:id/deliveries.
type RecordDeliveryRequest struct {
	DeliveredBy  string `json:"delivered_by" validate:"required,min=1,max=200"`
	DeliveryDate string `json:"delivery_date" validate:"omitempty,datetime=2006-01-02"`
	Status       string `json:"status" validate:"required,oneof=partial complete"`
	Remarks      string `json:"remarks" validate:"omitempty,max=2000"`
}

// VerifyItemRequest decisión de verificación para una línea.
type VerifyItemRequest struct {
	ItemID      string          `json:"item_id" validate:"required,uuid"`
	AcceptedQty decimal.Decimal `json:"accepted_qty"`
	RejectedQty decimal.Decimal `json:"rejected_qty"`
	Remarks     string          `json:"remarks" validate:"omitempty,max=2000"`
}

// VerifyRequest body de POST /api/material-requests/:id/verify.
type VerifyRequest struct {
	Items   []VerifyItemRequest `json:"items" validate:"required,min=1,dive"`
	Remarks string              `json:"remarks" validate:"omitempty,max=2000"`
}

// MaterialRequestListQuery filtros de GET /api/material-requests.
type MaterialRequestListQuery struct {
	ProjectID   string `query:"project_id" validate:"omitempty,uuid"`
	Stage       string `query:"stage" validate:"omitempty,max=40"`
	Status      string `query:"status" validate:"omitempty,oneof=pending approved rejected"`
	RequestType string `query:"request_type" validate:"omitempty,oneof=supplier main_inventory"`
	PageRequest
}

// MaterialRequestItemResponse línea con su cantidad pendiente.
type MaterialRequestItemResponse struct {
	ID                string          `json:"id"`
	MaterialID        string          `json:"material_id"`
	RequestedQuantity decimal.Decimal `json:"requested_quantity"`
	ReceivedQuantity  decimal.Decimal `json:"received_quantity"`
	AcceptedQuantity  decimal.Decimal `json:"accepted_quantity"`
	RejectedQuantity  decimal.Decimal `json:"rejected_quantity"`
	PendingQuantity   decimal.Decimal `json:"pending_quantity"`
}

// MaterialRequestResponse salida de una solicitud.
type MaterialRequestResponse struct {
	ID              string                        `json:"id"`
	ProjectID       string                        `json:"project_id"`
	RequestedBy     string                        `json:"requested_by"`
	RequestType     string                        `json:"request_type"`
	SupplierID      string                        `json:"supplier_id,omitempty"`
	CurrentStage    string                        `json:"current_stage"`
	Status          string                        `json:"status"`
	Notes           string                        `json:"notes,omitempty"`
	ApprovedBy      string                        `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time                    `json:"approved_at,omitempty"`
	RejectionReason string                        `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time                     `json:"created_at"`
	UpdatedAt       time.Time                     `json:"updated_at"`
	Items           []MaterialRequestItemResponse `json:"items,omitempty"`
}

// MaterialRequestListResponse listado paginado.
type MaterialRequestListResponse struct {
	Items []MaterialRequestResponse `json:"items"`
	Page  PageResponse              `json:"page"`
}

// MaterialRequestActionResponse entrada de la bitácora de una solicitud.
type MaterialRequestActionResponse struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	ActorID   string    `json:"actor_id"`
	FromStage string    `json:"from_stage,omitempty"`
	ToStage   string    `json:"to_stage,omitempty"`
	Remarks   string    `json:"remarks,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MaterialDeliveryResponse salida de una entrega.
type MaterialDeliveryResponse struct {
	ID           string    `json:"id"`
	RequestID    string    `json:"request_id"`
	DeliveredBy  string    `json:"delivered_by"`
	DeliveryDate time.Time `json:"delivery_date"`
	Status       string    `json:"status"`
	ReceivedBy   string    `json:"received_by"`
	Remarks      string    `json:"remarks,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// MaterialVerificationResponse salida de una verificación.
type MaterialVerificationResponse struct {
	ID               string          `json:"id"`
	RequestItemID    string          `json:"request_item_id"`
	AcceptedQuantity decimal.Decimal `json:"accepted_quantity"`
	RejectedQuantity decimal.Decimal `json:"rejected_quantity"`
	VerifiedBy       string          `json:"verified_by"`
	Remarks          string          `json:"remarks,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}
