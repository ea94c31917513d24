package entity

import "time"

// Task tarea de un proyecto, opcionalmente agrupada bajo un hito.
type Task struct {
	ID          string
	ProjectID   string
	MilestoneID string // vacío si no pertenece a un hito
	Title       string
	Description string
	AssignedTo  string // vacío si no está asignada
	Status      string
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
