package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/obras-api/internal/domain/entity"
)

// MovementFilter filtros de listado del libro. ProjectID vacío con Central=true = inventario central.
type MovementFilter struct {
	MaterialID  string
	ProjectID   string
	Central     bool
	ReferenceID string
	Limit       int
	Offset      int
}

// InventoryMovementRepository libro de inventario: solo inserción, saldos calculados al leer.
type InventoryMovementRepository interface {
	Append(ctx context.Context, m *entity.InventoryMovement) error
	// Balance suma(in) - suma(out) para (materialID, projectID); projectID vacío = central.
	Balance(ctx context.Context, materialID, projectID string) (decimal.Decimal, error)
	// Balances saldo por material para projectID; vacío = central.
	Balances(ctx context.Context, projectID string) ([]entity.StockBalance, error)
	List(ctx context.Context, f MovementFilter) ([]*entity.InventoryMovement, error)
}
