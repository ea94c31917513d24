package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/obras-api/internal/domain"
	"github.com/jhoicas/obras-api/internal/domain/entity"
	"github.com/jhoicas/obras-api/internal/domain/repository"
)

// Posting datos de un asiento. ProjectID vacío = inventario central.
type Posting struct {
	MaterialID  string
	ProjectID   string
	Direction   string
	Quantity    decimal.Decimal
	Source      string
	ReferenceID string
	Notes       string
	UserID      string
}

// Post agrega un asiento al libro. No existe camino de actualización ni borrado:
// las correcciones se registran como asientos compensatorios.
// movements debe estar atado a la transacción del caller.
func Post(ctx context.Context, movements repository.InventoryMovementRepository, p Posting) (*entity.InventoryMovement, error) {
	if p.MaterialID == "" {
		return nil, fmt.Errorf("%w: material requerido", domain.ErrInvalidInput)
	}
	if p.Direction != entity.DirectionIn && p.Direction != entity.DirectionOut {
		return nil, fmt.Errorf("%w: dirección %q inválida", domain.ErrInvalidInput, p.Direction)
	}
	if !p.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	m := &entity.InventoryMovement{
		ID:          uuid.New().String(),
		MaterialID:  p.MaterialID,
		ProjectID:   p.ProjectID,
		Direction:   p.Direction,
		Quantity:    p.Quantity,
		Source:      p.Source,
		ReferenceID: p.ReferenceID,
		Notes:       p.Notes,
		CreatedBy:   p.UserID,
		CreatedAt:   time.Now(),
	}
	if err := movements.Append(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}
