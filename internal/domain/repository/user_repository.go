package repository

import (
	"context"

	"github.com/jhoicas/obras-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User.
// GetByID y FindByEmail devuelven (nil, nil) si el usuario no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
	// SetActive marca la sesión del usuario como vigente o terminada.
	SetActive(ctx context.Context, id string, active bool) error
}
