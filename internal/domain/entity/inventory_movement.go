package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dirección de un movimiento del libro de inventario.
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// Origen de un movimiento.
const (
	SourceSupplier      = "supplier"
	SourceMainInventory = "main_inventory"
	SourceManual        = "manual"
	SourceTransfer      = "transfer"
)

// InventoryMovement asiento inmutable del libro de inventario.
// ProjectID vacío representa el inventario central.
type InventoryMovement struct {
	ID          string
	MaterialID  string
	ProjectID   string
	Direction   string
	Quantity    decimal.Decimal // siempre positivo; el signo lo da Direction
	Source      string
	ReferenceID string // solicitud de materiales que originó el movimiento
	Notes       string
	CreatedBy   string
	CreatedAt   time.Time
}

// Signed devuelve la cantidad con signo según la dirección.
func (m InventoryMovement) Signed() decimal.Decimal {
	if m.Direction == DirectionOut {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// StockBalance saldo derivado del libro para un par (material, proyecto).
type StockBalance struct {
	MaterialID string
	ProjectID  string
	Quantity   decimal.Decimal
}

// QuantityScale decimales que se persisten en las columnas de cantidad (NUMERIC(18,3)).
const QuantityScale = 3

// FitsQuantityScale indica si q se guarda sin redondeo.
func FitsQuantityScale(q decimal.Decimal) bool {
	return q.Equal(q.Truncate(QuantityScale))
}
