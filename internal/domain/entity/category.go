package entity

import "time"

// Category categoría de materiales.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}
