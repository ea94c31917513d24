package memstore

import (
	"context"
	"time"

	"github.com/jhoicas/obras-api/internal/domain/entity"
	"github.com/jhoicas/obras-api/internal/domain/repository"
)

type requestRepo struct{ s *Store }

func (r *requestRepo) Create(_ context.Context, req *entity.MaterialRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("requests.create"); err != nil {
		return err
	}
	v := *req
	v.Items = nil
	r.s.data.requests[v.ID] = v
	r.s.data.touch(v.ID)
	return nil
}

func (r *requestRepo) CreateItem(_ context.Context, it *entity.MaterialRequestItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("requests.create_item"); err != nil {
		return err
	}
	r.s.data.items[it.ID] = *it
	r.s.data.touch(it.ID)
	return nil
}

func (r *requestRepo) GetByID(_ context.Context, id string) (*entity.MaterialRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.data.requests[id]
	if !ok {
		return nil, nil
	}
	return ptr(v), nil
}

func (r *requestRepo) GetForUpdate(ctx context.Context, id string) (*entity.MaterialRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *requestRepo) List(_ context.Context, f repository.MaterialRequestFilter) ([]*entity.MaterialRequest, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ids []string
	for id, v := range r.s.data.requests {
		if f.ProjectIDs != nil && !contains(f.ProjectIDs, v.ProjectID) {
			continue
		}
		if f.ProjectID != "" && v.ProjectID != f.ProjectID {
			continue
		}
		if f.Stage != "" && v.CurrentStage != f.Stage {
			continue
		}
		if f.Status != "" && v.Status != f.Status {
			continue
		}
		if f.RequestType != "" && v.RequestType != f.RequestType {
			continue
		}
		ids = append(ids, id)
	}
	r.s.data.sortByOrder(ids, true)
	out := make([]*entity.MaterialRequest, 0, len(ids))
	for _, id := range page(ids, f.Limit, f.Offset) {
		out = append(out, ptr(r.s.data.requests[id]))
	}
	return out, len(ids), nil
}

func (r *requestRepo) ListItems(_ context.Context, requestID string) ([]entity.MaterialRequestItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ids []string
	for id, it := range r.s.data.items {
		if it.RequestID == requestID {
			ids = append(ids, id)
		}
	}
	r.s.data.sortByOrder(ids, false)
	out := make([]entity.MaterialRequestItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.s.data.items[id])
	}
	return out, nil
}

func (r *requestRepo) GetItemForUpdate(_ context.Context, itemID string) (*entity.MaterialRequestItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	it, ok := r.s.data.items[itemID]
	if !ok {
		return nil, nil
	}
	return ptr(it), nil
}

func (r *requestRepo) UpdateItemQuantities(_ context.Context, it *entity.MaterialRequestItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("requests.update_item"); err != nil {
		return err
	}
	cur, ok := r.s.data.items[it.ID]
	if !ok {
		return nil
	}
	cur.ReceivedQuantity = it.ReceivedQuantity
	cur.AcceptedQuantity = it.AcceptedQuantity
	cur.RejectedQuantity = it.RejectedQuantity
	r.s.data.items[it.ID] = cur
	return nil
}

func (r *requestRepo) Transition(_ context.Context, id string, ch repository.StageChange) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("requests.transition"); err != nil {
		return false, err
	}
	v, ok := r.s.data.requests[id]
	if !ok || !contains(ch.From, v.CurrentStage) {
		return false, nil
	}
	v.CurrentStage = ch.To
	if ch.Status != "" {
		v.Status = ch.Status
	}
	if ch.ApprovedBy != nil {
		v.ApprovedBy = *ch.ApprovedBy
	}
	if ch.ApprovedAt != nil {
		at := *ch.ApprovedAt
		v.ApprovedAt = &at
	}
	if ch.RejectionReason != nil {
		v.RejectionReason = *ch.RejectionReason
	}
	v.UpdatedAt = time.Now()
	r.s.data.requests[id] = v
	return true, nil
}

type actionRepo struct{ s *Store }

func (r *actionRepo) Append(_ context.Context, a *entity.MaterialRequestAction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("actions.append"); err != nil {
		return err
	}
	r.s.data.actions = append(r.s.data.actions, *a)
	return nil
}

func (r *actionRepo) ListByRequest(_ context.Context, requestID string) ([]*entity.MaterialRequestAction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.MaterialRequestAction
	for _, a := range r.s.data.actions {
		if a.RequestID == requestID {
			out = append(out, ptr(a))
		}
	}
	return out, nil
}

type deliveryRepo struct{ s *Store }

func (r *deliveryRepo) Create(_ context.Context, d *entity.MaterialDelivery) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("deliveries.create"); err != nil {
		return err
	}
	r.s.data.deliveries = append(r.s.data.deliveries, *d)
	return nil
}

func (r *deliveryRepo) ListByRequest(_ context.Context, requestID string) ([]*entity.MaterialDelivery, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.MaterialDelivery
	for _, d := range r.s.data.deliveries {
		if d.RequestID == requestID {
			out = append(out, ptr(d))
		}
	}
	return out, nil
}

type verificationRepo struct{ s *Store }

func (r *verificationRepo) Create(_ context.Context, v *entity.MaterialVerification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("verifications.create"); err != nil {
		return err
	}
	r.s.data.verifications = append(r.s.data.verifications, *v)
	return nil
}

func (r *verificationRepo) ListByRequest(_ context.Context, requestID string) ([]*entity.MaterialVerification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.MaterialVerification
	for _, v := range r.s.data.verifications {
		if v.RequestID == requestID {
			out = append(out, ptr(v))
		}
	}
	return out, nil
}
