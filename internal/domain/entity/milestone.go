package entity

import "time"

// Estados compartidos por hitos y tareas.
const (
	WorkStatusPending    = "pending"
	WorkStatusInProgress = "in_progress"
	WorkStatusCompleted  = "completed"
)

// Milestone hito de un proyecto.
type Milestone struct {
	ID          string
	ProjectID   string
	Name        string
	Description string
	DueDate     *time.Time
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidWorkStatus indica si s es un estado válido para hitos y tareas.
func ValidWorkStatus(s string) bool {
	switch s {
	case WorkStatusPending, WorkStatusInProgress, WorkStatusCompleted:
		return true
	}
	return false
}
