package entity

import "time"

// Unit unidad de medida (bolsa, m3, varilla...).
type Unit struct {
	ID           string
	Name         string
	Abbreviation string
	CreatedAt    time.Time
}
