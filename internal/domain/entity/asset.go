package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un activo (equipo o herramienta).
const (
	AssetStatusAvailable   = "available"
	AssetStatusInUse       = "in_use"
	AssetStatusMaintenance = "maintenance"
	AssetStatusRetired     = "retired"
)

// Asset equipo o herramienta de la empresa, opcionalmente asignado a un proyecto.
type Asset struct {
	ID           string
	Name         string
	Code         string
	Category     string
	Status       string
	ProjectID    string
	Value        decimal.Decimal
	PurchaseDate *time.Time
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidAssetStatus indica si s es un estado de activo conocido.
func ValidAssetStatus(s string) bool {
	switch s {
	case AssetStatusAvailable, AssetStatusInUse, AssetStatusMaintenance, AssetStatusRetired:
		return true
	}
	return false
}
