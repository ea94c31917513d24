package memstore

import (
	"context"

	"github.com/jhoicas/obras-api/internal/domain/entity"
	"github.com/jhoicas/obras-api/internal/domain/repository"
)

type projectRepo struct{ s *Store }

func (r *projectRepo) Create(_ context.Context, p *entity.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("projects.create"); err != nil {
		return err
	}
	r.s.data.projects[p.ID] = *p
	r.s.data.touch(p.ID)
	return nil
}

func (r *projectRepo) GetByID(_ context.Context, id string) (*entity.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.data.projects[id]
	if !ok {
		return nil, nil
	}
	return ptr(p), nil
}

func (r *projectRepo) Update(_ context.Context, p *entity.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.projects[p.ID]; ok {
		r.s.data.projects[p.ID] = *p
	}
	return nil
}

func (r *projectRepo) List(_ context.Context, f repository.ProjectFilter) ([]*entity.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ids []string
	for id, p := range r.s.data.projects {
		if f.IDs != nil && !contains(f.IDs, id) {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		ids = append(ids, id)
	}
	r.s.data.sortByOrder(ids, true)
	out := make([]*entity.Project, 0, len(ids))
	for _, id := range page(ids, f.Limit, f.Offset) {
		out = append(out, ptr(r.s.data.projects[id]))
	}
	return out, nil
}

func (r *projectRepo) AddMember(_ context.Context, projectID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	set, ok := r.s.data.members[projectID]
	if !ok {
		set = map[string]bool{}
		r.s.data.members[projectID] = set
	}
	set[userID] = true
	return nil
}

func (r *projectRepo) RemoveMember(_ context.Context, projectID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.data.members[projectID], userID)
	return nil
}

func (r *projectRepo) ListMembers(_ context.Context, projectID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []string
	for u := range r.s.data.members[projectID] {
		out = append(out, u)
	}
	r.s.data.sortByOrder(out, false)
	return out, nil
}

func (r *projectRepo) ProjectIDsForUser(_ context.Context, userID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []string{}
	for p, set := range r.s.data.members {
		if set[userID] {
			out = append(out, p)
		}
	}
	r.s.data.sortByOrder(out, false)
	return out, nil
}

type milestoneRepo struct{ s *Store }

func (r *milestoneRepo) Create(_ context.Context, m *entity.Milestone) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.data.milestones[m.ID] = *m
	r.s.data.touch(m.ID)
	return nil
}

func (r *milestoneRepo) GetByID(_ context.Context, id string) (*entity.Milestone, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.data.milestones[id]
	if !ok {
		return nil, nil
	}
	return ptr(m), nil
}

func (r *milestoneRepo) ListByProject(_ context.Context, projectID string) ([]*entity.Milestone, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ids []string
	for id, m := range r.s.data.milestones {
		if m.ProjectID == projectID {
			ids = append(ids, id)
		}
	}
	r.s.data.sortByOrder(ids, false)
	out := make([]*entity.Milestone, 0, len(ids))
	for _, id := range ids {
		out = append(out, ptr(r.s.data.milestones[id]))
	}
	return out, nil
}

func (r *milestoneRepo) Update(_ context.Context, m *entity.Milestone) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.milestones[m.ID]; ok {
		r.s.data.milestones[m.ID] = *m
	}
	return nil
}

func (r *milestoneRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.data.milestones, id)
	for tid, t := range r.s.data.tasks {
		if t.MilestoneID == id {
			t.MilestoneID = ""
			r.s.data.tasks[tid] = t
		}
	}
	return nil
}

type taskRepo struct{ s *Store }

func (r *taskRepo) Create(_ context.Context, t *entity.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.data.tasks[t.ID] = *t
	r.s.data.touch(t.ID)
	return nil
}

func (r *taskRepo) GetByID(_ context.Context, id string) (*entity.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.data.tasks[id]
	if !ok {
		return nil, nil
	}
	return ptr(t), nil
}

func (r *taskRepo) ListByProject(_ context.Context, projectID, milestoneID string) ([]*entity.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ids []string
	for id, t := range r.s.data.tasks {
		if t.ProjectID != projectID {
			continue
		}
		if milestoneID != "" && t.MilestoneID != milestoneID {
			continue
		}
		ids = append(ids, id)
	}
	r.s.data.sortByOrder(ids, false)
	out := make([]*entity.Task, 0, len(ids))
	for _, id := range ids {
		out = append(out, ptr(r.s.data.tasks[id]))
	}
	return out, nil
}

func (r *taskRepo) Update(_ context.Context, t *entity.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.tasks[t.ID]; ok {
		r.s.data.tasks[t.ID] = *t
	}
	return nil
}

func (r *taskRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.data.tasks, id)
	return nil
}
