package memstore

import (
	"context"
	"strings"

	"github.com/jhoicas/obras-api/internal/domain"
	"github.com/jhoicas/obras-api/internal/domain/entity"
)

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.create"); err != nil {
		return err
	}
	for _, existing := range r.s.data.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.data.users[u.ID] = *u
	r.s.data.touch(u.ID)
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.data.users[id]
	if !ok {
		return nil, nil
	}
	return ptr(u), nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.data.users {
		if strings.EqualFold(u.Email, email) {
			return ptr(u), nil
		}
	}
	return nil, nil
}

func (r *userRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := make([]string, 0, len(r.s.data.users))
	for id := range r.s.data.users {
		ids = append(ids, id)
	}
	r.s.data.sortByOrder(ids, false)
	out := make([]*entity.User, 0, len(ids))
	for _, id := range page(ids, limit, offset) {
		out = append(out, ptr(r.s.data.users[id]))
	}
	return out, nil
}

func (r *userRepo) SetActive(_ context.Context, id string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.data.users[id]
	if !ok {
		return nil
	}
	u.IsActive = active
	r.s.data.users[id] = u
	return nil
}
