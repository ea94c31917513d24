package memstore

import (
	"context"

	"github.com/jhoicas/obras-api/internal/domain"
	"github.com/jhoicas/obras-api/internal/domain/entity"
	"github.com/jhoicas/obras-api/internal/domain/repository"
)

type materialRepo struct{ s *Store }

func (r *materialRepo) Create(_ context.Context, m *entity.Material) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("materials.create"); err != nil {
		return err
	}
	for _, existing := range r.s.data.materials {
		if existing.NameKey == m.NameKey {
			return domain.ErrDuplicate
		}
	}
	r.s.data.materials[m.ID] = *m
	r.s.data.touch(m.ID)
	return nil
}

func (r *materialRepo) GetByID(_ context.Context, id string) (*entity.Material, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.data.materials[id]
	if !ok {
		return nil, nil
	}
	return ptr(m), nil
}

// GetForUpdate en memoria equivale a GetByID: Run ya serializa las transacciones.
func (r *materialRepo) GetForUpdate(ctx context.Context, id string) (*entity.Material, error) {
	return r.GetByID(ctx, id)
}

func (r *materialRepo) GetByNameKey(_ context.Context, nameKey string) (*entity.Material, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.data.materials {
		if m.NameKey == nameKey {
			return ptr(m), nil
		}
	}
	return nil, nil
}

func (r *materialRepo) List(_ context.Context, f repository.MaterialFilter) ([]*entity.Material, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ids []string
	for id, m := range r.s.data.materials {
		if f.Status != "" && m.Status != f.Status {
			continue
		}
		if f.CategoryID != "" && m.CategoryID != f.CategoryID {
			continue
		}
		if f.SupplierID != "" && m.SupplierID != f.SupplierID {
			continue
		}
		ids = append(ids, id)
	}
	r.s.data.sortByOrder(ids, false)
	out := make([]*entity.Material, 0, len(ids))
	for _, id := range page(ids, f.Limit, f.Offset) {
		out = append(out, ptr(r.s.data.materials[id]))
	}
	return out, nil
}

func (r *materialRepo) Update(_ context.Context, m *entity.Material) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, existing := range r.s.data.materials {
		if id != m.ID && existing.NameKey == m.NameKey {
			return domain.ErrDuplicate
		}
	}
	if _, ok := r.s.data.materials[m.ID]; ok {
		r.s.data.materials[m.ID] = *m
	}
	return nil
}

func (r *materialRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, it := range r.s.data.items {
		if it.MaterialID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.data.materials, id)
	return nil
}

type supplierRepo struct{ s *Store }

func (r *supplierRepo) Create(_ context.Context, v *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.data.suppliers[v.ID] = *v
	r.s.data.touch(v.ID)
	return nil
}

func (r *supplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.data.suppliers[id]
	if !ok {
		return nil, nil
	}
	return ptr(v), nil
}

func (r *supplierRepo) List(_ context.Context) ([]*entity.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return listAll(r.s.data, r.s.data.suppliers), nil
}

type categoryRepo struct{ s *Store }

func (r *categoryRepo) Create(_ context.Context, v *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.data.categories[v.ID] = *v
	r.s.data.touch(v.ID)
	return nil
}

func (r *categoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.data.categories[id]
	if !ok {
		return nil, nil
	}
	return ptr(v), nil
}

func (r *categoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return listAll(r.s.data, r.s.data.categories), nil
}

type unitRepo struct{ s *Store }

func (r *unitRepo) Create(_ context.Context, v *entity.Unit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.data.units[v.ID] = *v
	r.s.data.touch(v.ID)
	return nil
}

func (r *unitRepo) GetByID(_ context.Context, id string) (*entity.Unit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.data.units[id]
	if !ok {
		return nil, nil
	}
	return ptr(v), nil
}

func (r *unitRepo) List(_ context.Context) ([]*entity.Unit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return listAll(r.s.data, r.s.data.units), nil
}

// listAll copia todos los valores de m en orden de inserción.
func listAll[V any](st *state, m map[string]V) []*V {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	st.sortByOrder(ids, false)
	out := make([]*V, 0, len(ids))
	for _, id := range ids {
		out = append(out, ptr(m[id]))
	}
	return out
}
