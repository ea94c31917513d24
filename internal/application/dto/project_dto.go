package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProjectRequest alta de proyecto.
type CreateProjectRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description" validate:"omitempty,max=2000"`
	Location    string          `json:"location" validate:"omitempty,max=300"`
	Status      string          `json:"status" validate:"omitempty,oneof=planning active on_hold completed"`
	Budget      decimal.Decimal `json:"budget"`
	StartDate   string          `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string          `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Image       string          `json:"image" validate:"omitempty,max=300"`
}

// UpdateProjectRequest actualización parcial de proyecto.
type UpdateProjectRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Location    *string          `json:"location" validate:"omitempty,max=300"`
	Status      *string          `json:"status" validate:"omitempty,oneof=planning active on_hold completed"`
	Budget      *decimal.Decimal `json:"budget"`
	StartDate   *string          `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     *string          `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Image       *string          `json:"image" validate:"omitempty,max=300"`
}

// AssignMemberRequest asignación de personal a un proyecto.
type AssignMemberRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// ProjectResponse salida de proyecto.
type ProjectResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Location    string          `json:"location,omitempty"`
	Status      string          `json:"status"`
	Budget      decimal.Decimal `json:"budget"`
	StartDate   *time.Time      `json:"start_date,omitempty"`
	EndDate     *time.Time      `json:"end_date,omitempty"`
	Image       string          `json:"image,omitempty"`
	Members     []string        `json:"members,omitempty"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProjectListResponse listado paginado.
type ProjectListResponse struct {
	Items []ProjectResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreateMilestoneRequest alta de hito.
type CreateMilestoneRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	DueDate     string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateMilestoneRequest actualización parcial de hito.
type UpdateMilestoneRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	DueDate     *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Status      *string `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
}

// MilestoneResponse salida de hito.
type MilestoneResponse struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateTaskRequest alta de tarea.
type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	MilestoneID string `json:"milestone_id" validate:"omitempty,uuid"`
	AssignedTo  string `json:"assigned_to" validate:"omitempty,uuid"`
	DueDate     string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateTaskRequest actualización parcial de tarea.
type UpdateTaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	AssignedTo  *string `json:"assigned_to" validate:"omitempty,uuid"`
	DueDate     *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Status      *string `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
}

// TaskResponse salida de tarea.
type TaskResponse struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	MilestoneID string     `json:"milestone_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
