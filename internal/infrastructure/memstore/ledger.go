package memstore

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/obras-api/internal/domain/entity"
	"github.com/jhoicas/obras-api/internal/domain/repository"
)

type movementRepo struct{ s *Store }

func (r *movementRepo) Append(_ context.Context, m *entity.InventoryMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("movements.append"); err != nil {
		return err
	}
	r.s.data.movements = append(r.s.data.movements, *m)
	return nil
}

func (r *movementRepo) Balance(_ context.Context, materialID, projectID string) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := decimal.Zero
	for _, m := range r.s.data.movements {
		if m.MaterialID == materialID && m.ProjectID == projectID {
			total = total.Add(m.Signed())
		}
	}
	return total, nil
}

func (r *movementRepo) Balances(_ context.Context, projectID string) ([]entity.StockBalance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	totals := map[string]decimal.Decimal{}
	for _, m := range r.s.data.movements {
		if m.ProjectID != projectID {
			continue
		}
		totals[m.MaterialID] = totals[m.MaterialID].Add(m.Signed())
	}
	out := make([]entity.StockBalance, 0, len(totals))
	for mat, q := range totals {
		out = append(out, entity.StockBalance{MaterialID: mat, ProjectID: projectID, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MaterialID < out[j].MaterialID })
	return out, nil
}

// List devuelve los asientos más recientes primero.
func (r *movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.InventoryMovement
	for i := len(r.s.data.movements) - 1; i >= 0; i-- {
		m := r.s.data.movements[i]
		if f.MaterialID != "" && m.MaterialID != f.MaterialID {
			continue
		}
		if f.Central && m.ProjectID != "" {
			continue
		}
		if !f.Central && f.ProjectID != "" && m.ProjectID != f.ProjectID {
			continue
		}
		if f.ReferenceID != "" && m.ReferenceID != f.ReferenceID {
			continue
		}
		out = append(out, ptr(m))
	}
	return page(out, f.Limit, f.Offset), nil
}
