package repository

import (
	"context"
	"time"

	"github.com/jhoicas/obras-api/internal/domain/entity"
)

// MaterialRequestFilter filtros de listado. ProjectIDs nil = todos los proyectos.
type MaterialRequestFilter struct {
	ProjectIDs  []string
	ProjectID   string
	Stage       string
	Status      string
	RequestType string
	Limit       int
	Offset      int
}

// StageChange cambio de etapa condicionado a la etapa actual.
// Los campos puntero nil conservan el valor existente.
type StageChange struct {
	From            []string
	To              string
	Status          string
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string
}

// MaterialRequestRepository persistencia de solicitudes y sus líneas.
type MaterialRequestRepository interface {
	Create(ctx context.Context, r *entity.MaterialRequest) error
	CreateItem(ctx context.Context, it *entity.MaterialRequestItem) error
	GetByID(ctx context.Context, id string) (*entity.MaterialRequest, error)
	// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.MaterialRequest, error)
	List(ctx context.Context, f MaterialRequestFilter) ([]*entity.MaterialRequest, int, error)
	ListItems(ctx context.Context, requestID string) ([]entity.MaterialRequestItem, error)
	// GetItemForUpdate bloquea la línea (SELECT FOR UPDATE) para evitar doble conteo.
	GetItemForUpdate(ctx context.Context, itemID string) (*entity.MaterialRequestItem, error)
	UpdateItemQuantities(ctx context.Context, it *entity.MaterialRequestItem) error
	// Transition aplica ch solo si la etapa actual está en ch.From. Devuelve false si no afectó filas.
	Transition(ctx context.Context, id string, ch StageChange) (bool, error)
}

// MaterialRequestActionRepository bitácora de solicitudes. Solo inserción.
type MaterialRequestActionRepository interface {
	Append(ctx context.Context, a *entity.MaterialRequestAction) error
	ListByRequest(ctx context.Context, requestID string) ([]*entity.MaterialRequestAction, error)
}

// MaterialDeliveryRepository entregas físicas de una solicitud.
type MaterialDeliveryRepository interface {
	Create(ctx context.Context, d *entity.MaterialDelivery) error
	ListByRequest(ctx context.Context, requestID string) ([]*entity.MaterialDelivery, error)
}

// MaterialVerificationRepository verificaciones por línea. Solo inserción.
type MaterialVerificationRepository interface {
	Create(ctx context.Context, v *entity.MaterialVerification) error
	ListByRequest(ctx context.Context, requestID string) ([]*entity.MaterialVerification, error)
}
