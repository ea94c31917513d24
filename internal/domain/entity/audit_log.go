package entity

import "time"

// FieldChange par antes/después de un campo editado.
type FieldChange struct {
	Field  string `json:"field"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// AuditLog registro de actividad. ProjectID vacío = registro global.
type AuditLog struct {
	ID          string
	UserID      string
	ProjectID   string
	EntityType  string
	EntityID    string
	Action      string
	Description string
	Changes     []FieldChange
	CreatedAt   time.Time
}
