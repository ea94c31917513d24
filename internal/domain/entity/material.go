package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de aprobación de un material del catálogo.
const (
	MaterialStatusPending  = "pending"
	MaterialStatusApproved = "approved"
)

// Material entrada del catálogo de materiales (tabla items).
type Material struct {
	ID          string
	Name        string
	NameKey     string // nombre normalizado para detectar duplicados
	Description string
	CategoryID  string
	SupplierID  string
	UnitID      string
	Price       decimal.Decimal
	ImageURL    string
	Status      string
	CreatedBy   string
	ApprovedBy  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
