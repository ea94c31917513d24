package entity

import "time"

// Supplier proveedor de materiales.
type Supplier struct {
	ID          string
	Name        string
	ContactName string
	Phone       string
	Email       string
	Address     string
	CreatedAt   time.Time
}
