// Package usecase casos de uso CRUD del catálogo, proyectos, trabajo, activos y personal.
package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/obras-api/internal/application/dto"
	"github.com/jhoicas/obras-api/internal/domain"
)

// parseDate convierte "2006-01-02" a fecha; vacío devuelve nil.
func parseDate(field, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s inválida", domain.ErrInvalidInput, field)
	}
	return &d, nil
}

func formatDate(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format(dto.DateLayout)
}

// notFound envuelve ErrNotFound con el nombre del recurso.
func notFound(resource string) error {
	return fmt.Errorf("%s: %w", resource, domain.ErrNotFound)
}
