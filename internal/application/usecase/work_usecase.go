package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/obras-api/internal/application/audit"
	"github.com/jhoicas/obras-api/internal/application/dto"
	"github.com/jhoicas/obras-api/internal/application/ports"
	"github.com/jhoicas/obras-api/internal/domain"
	"github.com/jhoicas/obras-api/internal/domain/authz"
	"github.com/jhoicas/obras-api/internal/domain/entity"
)

// WorkUseCase hitos y tareas de un proyecto.
type WorkUseCase struct {
	txRunner ports.TxRunner
	repos    ports.Repos
}

// NewWorkUseCase construye el caso de uso.
func NewWorkUseCase(txRunner ports.TxRunner, repos ports.Repos) *WorkUseCase {
	return &WorkUseCase{txRunner: txRunner, repos: repos}
}

// checkProject valida permiso, existencia del proyecto y asignación del actor.
func (uc *WorkUseCase) checkProject(ctx context.Context, actor authz.Actor, r ports.Repos, p authz.Permission, projectID string) error {
	if err := actor.Authorize(p); err != nil {
		return err
	}
	proj, err := r.Projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if proj == nil {
		return notFound("proyecto")
	}
	if !actor.CanAccessProject(projectID) {
		return fmt.Errorf("%w: no está asignado al proyecto", domain.ErrForbidden)
	}
	return nil
}

// CreateMilestone agrega un hito al proyecto.
func (uc *WorkUseCase) CreateMilestone(ctx context.Context, actor authz.Actor, projectID string, in dto.CreateMilestoneRequest) (*dto.MilestoneResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	due, err := parseDate("due_date", in.DueDate)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	m := &entity.Milestone{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		DueDate:     due,
		Status:      entity.WorkStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = uc.txRunner.Run(ctx, func(r ports.Repos) error {
		if err := uc.checkProject(ctx, actor, r, authz.MilestoneManage, projectID); err != nil {
			return err
		}
		if err := r.Milestones.Create(ctx, m); err != nil {
			return err
		}
		return audit.Write(ctx, r.Logs, audit.LogOptions{
			UserID: actor.UserID, ProjectID: projectID, EntityType: audit.EntityMilestone, EntityID: m.ID,
			Action: audit.ActionCreate, Description: "hito creado: " + m.Name,
		})
	})
	if err != nil {
		return nil, err
	}
	return toMilestoneResponse(m), nil
}

// ListMilestones hitos del proyecto.
func (uc *WorkUseCase) ListMilestones(ctx context.Context, actor authz.Actor, projectID string) ([]dto.MilestoneResponse, error) {
	if err := uc.checkProject(ctx, actor, uc.repos, authz.ProjectRead, projectID); err != nil {
		return nil, err
	}
	list, err := uc.repos.Milestones.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MilestoneResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toMilestoneResponse(m))
	}
	return out, nil
}

// UpdateMilestone edita un hito.
func (uc *WorkUseCase) UpdateMilestone(ctx context.Context, actor authz.Actor, id string, in dto.UpdateMilestoneRequest) (*dto.MilestoneResponse, error) {
	var out *entity.Milestone
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		m, err := r.Milestones.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			return notFound("hito")
		}
		if err := uc.checkProject(ctx, actor, r, authz.MilestoneManage, m.ProjectID); err != nil {
			return err
		}
		before := milestoneSnapshot(m)
		if in.Name != nil {
			if strings.TrimSpace(*in.Name) == "" {
				return fmt.Errorf("%w: name no puede ser vacío", domain.ErrInvalidInput)
			}
			m.Name = strings.TrimSpace(*in.Name)
		}
		if in.Description != nil {
			m.Description = *in.Description
		}
		if in.DueDate != nil {
			if m.DueDate, err = parseDate("due_date", *in.DueDate); err != nil {
				return err
			}
		}
		if in.Status != nil {
			if !entity.ValidWorkStatus(*in.Status) {
				return fmt.Errorf("%w: status %q desconocido", domain.ErrInvalidInput, *in.Status)
			}
			m.Status = *in.Status
		}
		m.UpdatedAt = time.Now()
		if err := r.Milestones.Update(ctx, m); err != nil {
			return err
		}
		out = m
		return audit.Write(ctx, r.Logs, audit.LogOptions{
			UserID: actor.UserID, ProjectID: m.ProjectID, EntityType: audit.EntityMilestone, EntityID: m.ID,
			Action: audit.ActionUpdate, Description: "hito editado: " + m.Name,
			Changes: audit.Diff(before, milestoneSnapshot(m)),
		})
	})
	if err != nil {
		return nil, err
	}
	return toMilestoneResponse(out), nil
}

// DeleteMilestone elimina un hito; sus tareas quedan sin hito.
func (uc *WorkUseCase) DeleteMilestone(ctx context.Context, actor authz.Actor, id string) error {
	return uc.txRunner.Run(ctx, func(r ports.Repos) error {
		m, err := r.Milestones.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			return notFound("hito")
		}
		if err := uc.checkProject(ctx, actor, r, authz.MilestoneManage, m.ProjectID); err != nil {
			return err
		}
		if err := r.Milestones.Delete(ctx, id); err != nil {
			return err
		}
		return audit.Write(ctx, r.Logs, audit.LogOptions{
			UserID: actor.UserID, ProjectID: m.ProjectID, EntityType: audit.EntityMilestone, EntityID: m.ID,
			Action: audit.ActionDelete, Description: "hito eliminado: " + m.Name,
		})
	})
}

// CreateTask agrega una tarea al proyecto, opcionalmente bajo un hito.
func (uc *WorkUseCase) CreateTask(ctx context.Context, actor authz.Actor, projectID string, in dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title es requerido", domain.ErrInvalidInput)
	}
	due, err := parseDate("due_date", in.DueDate)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	t := &entity.Task{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		MilestoneID: in.MilestoneID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		AssignedTo:  in.AssignedTo,
		Status:      entity.WorkStatusPending,
		DueDate:     due,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = uc.txRunner.Run(ctx, func(r ports.Repos) error {
		if err := uc.checkProject(ctx, actor, r, authz.TaskManage, projectID); err != nil {
			return err
		}
		if t.MilestoneID != "" {
			m, err := r.Milestones.GetByID(ctx, t.MilestoneID)
			if err != nil {
				return err
			}
			if m == nil || m.ProjectID != projectID {
				return notFound("hito")
			}
		}
		if err := uc.checkAssignee(ctx, r, t.AssignedTo); err != nil {
			return err
		}
		if err := r.Tasks.Create(ctx, t); err != nil {
			return err
		}
		return audit.Write(ctx, r.Logs, audit.LogOptions{
			UserID: actor.UserID, ProjectID: projectID, EntityType: audit.EntityTask, EntityID: t.ID,
			Action: audit.ActionCreate, Description: "tarea creada: " + t.Title,
		})
	})
	if err != nil {
		return nil, err
	}
	return toTaskResponse(t), nil
}

func (uc *WorkUseCase) checkAssignee(ctx context.Context, r ports.Repos, userID string) error {
	if userID == "" {
		return nil
	}
	u, err := r.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrUserNotFound
	}
	return nil
}

// ListTasks tareas del proyecto; milestoneID vacío = todas.
func (uc *WorkUseCase) ListTasks(ctx context.Context, actor authz.Actor, projectID, milestoneID string) ([]dto.TaskResponse, error) {
	if err := uc.checkProject(ctx, actor, uc.repos, authz.ProjectRead, projectID); err != nil {
		return nil, err
	}
	list, err := uc.repos.Tasks.ListByProject(ctx, projectID, milestoneID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TaskResponse, 0, len(list))
	for _, t := range list {
		out = append(out, *toTaskResponse(t))
	}
	return out, nil
}

// UpdateTask edita una tarea.
func (uc *WorkUseCase) UpdateTask(ctx context.Context, actor authz.Actor, id string, in dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	var out *entity.Task
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		t, err := r.Tasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return notFound("tarea")
		}
		if err := uc.checkProject(ctx, actor, r, authz.TaskManage, t.ProjectID); err != nil {
			return err
		}
		before := taskSnapshot(t)
		if in.Title != nil {
			if strings.TrimSpace(*in.Title) == "" {
				return fmt.Errorf("%w: title no puede ser vacío", domain.ErrInvalidInput)
			}
			t.Title = strings.TrimSpace(*in.Title)
		}
		if in.Description != nil {
			t.Description = *in.Description
		}
		if in.AssignedTo != nil {
			if err := uc.checkAssignee(ctx, r, *in.AssignedTo); err != nil {
				return err
			}
			t.AssignedTo = *in.AssignedTo
		}
		if in.DueDate != nil {
			if t.DueDate, err = parseDate("due_date", *in.DueDate); err != nil {
				return err
			}
		}
		if in.Status != nil {
			if !entity.ValidWorkStatus(*in.Status) {
				return fmt.Errorf("%w: status %q desconocido", domain.ErrInvalidInput, *in.Status)
			}
			t.Status = *in.Status
		}
		t.UpdatedAt = time.Now()
		if err := r.Tasks.Update(ctx, t); err != nil {
			return err
		}
		out = t
		return audit.Write(ctx, r.Logs, audit.LogOptions{
			UserID: actor.UserID, ProjectID: t.ProjectID, EntityType: audit.EntityTask, EntityID: t.ID,
			Action: audit.ActionUpdate, Description: "tarea editada: " + t.Title,
			Changes: audit.Diff(before, taskSnapshot(t)),
		})
	})
	if err != nil {
		return nil, err
	}
	return toTaskResponse(out), nil
}

// DeleteTask elimina una tarea.
func (uc *WorkUseCase) DeleteTask(ctx context.Context, actor authz.Actor, id string) error {
	return uc.txRunner.Run(ctx, func(r ports.Repos) error {
		t, err := r.Tasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return notFound("tarea")
		}
		if err := uc.checkProject(ctx, actor, r, authz.TaskManage, t.ProjectID); err != nil {
			return err
		}
		if err := r.Tasks.Delete(ctx, id); err != nil {
			return err
		}
		return audit.Write(ctx, r.Logs, audit.LogOptions{
			UserID: actor.UserID, ProjectID: t.ProjectID, EntityType: audit.EntityTask, EntityID: t.ID,
			Action: audit.ActionDelete, Description: "tarea eliminada: " + t.Title,
		})
	})
}

func milestoneSnapshot(m *entity.Milestone) map[string]string {
	return map[string]string{
		"name":        m.Name,
		"description": m.Description,
		"due_date":    formatDate(m.DueDate),
		"status":      m.Status,
	}
}

func taskSnapshot(t *entity.Task) map[string]string {
	return map[string]string{
		"title":       t.Title,
		"description": t.Description,
		"assigned_to": t.AssignedTo,
		"due_date":    formatDate(t.DueDate),
		"status":      t.Status,
	}
}

func toMilestoneResponse(m *entity.Milestone) *dto.MilestoneResponse {
	return &dto.MilestoneResponse{
		ID:          m.ID,
		ProjectID:   m.ProjectID,
		Name:        m.Name,
		Description: m.Description,
		DueDate:     m.DueDate,
		Status:      m.Status,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toTaskResponse(t *entity.Task) *dto.TaskResponse {
	return &dto.TaskResponse{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		MilestoneID: t.MilestoneID,
		Title:       t.Title,
		Description: t.Description,
		AssignedTo:  t.AssignedTo,
		Status:      t.Status,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
