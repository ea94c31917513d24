package memstore

import (
	"context"

	"github.com/jhoicas/obras-api/internal/domain"
	"github.com/jhoicas/obras-api/internal/domain/entity"
	"github.com/jhoicas/obras-api/internal/domain/repository"
)

type assetRepo struct{ s *Store }

func (r *assetRepo) Create(_ context.Context, a *entity.Asset) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.data.assets {
		if a.Code != "" && existing.Code == a.Code {
			return domain.ErrDuplicate
		}
	}
	r.s.data.assets[a.ID] = *a
	r.s.data.touch(a.ID)
	return nil
}

func (r *assetRepo) GetByID(_ context.Context, id string) (*entity.Asset, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.data.assets[id]
	if !ok {
		return nil, nil
	}
	return ptr(a), nil
}

func (r *assetRepo) List(_ context.Context, f repository.AssetFilter) ([]*entity.Asset, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ids []string
	for id, a := range r.s.data.assets {
		if f.ProjectIDs != nil && a.ProjectID != "" && !contains(f.ProjectIDs, a.ProjectID) {
			continue
		}
		if f.ProjectID != "" && a.ProjectID != f.ProjectID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		ids = append(ids, id)
	}
	r.s.data.sortByOrder(ids, false)
	out := make([]*entity.Asset, 0, len(ids))
	for _, id := range page(ids, f.Limit, f.Offset) {
		out = append(out, ptr(r.s.data.assets[id]))
	}
	return out, nil
}

func (r *assetRepo) Update(_ context.Context, a *entity.Asset) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.assets[a.ID]; ok {
		r.s.data.assets[a.ID] = *a
	}
	return nil
}
