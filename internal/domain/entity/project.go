package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un proyecto.
const (
	ProjectStatusPlanning  = "planning"
	ProjectStatusActive    = "active"
	ProjectStatusOnHold    = "on_hold"
	ProjectStatusCompleted = "completed"
)

// Project representa una obra. El personal solo ve los proyectos a los que está asignado.
type Project struct {
	ID          string
	Name        string
	Description string
	Location    string
	Status      string
	Budget      decimal.Decimal
	StartDate   *time.Time
	EndDate     *time.Time
	Image       string // nombre de archivo en el directorio de uploads
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidProjectStatus indica si s es un estado de proyecto conocido.
func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusPlanning, ProjectStatusActive, ProjectStatusOnHold, ProjectStatusCompleted:
		return true
	}
	return false
}
