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
	"github.com/jhoicas/obras-api/internal/domain/repository"
)

// ProjectUseCase obras y su personal asignado.
type ProjectUseCase struct {
	txRunner ports.TxRunner
	repos    ports.Repos
}

// NewProjectUseCase construye el caso de uso.
func NewProjectUseCase(txRunner ports.TxRunner, repos ports.Repos) *ProjectUseCase {
	return &ProjectUseCase{txRunner: txRunner, repos: repos}
}

// Create da de alta un proyecto. Estado por defecto: planning.
func (uc *ProjectUseCase) Create(ctx context.Context, actor authz.Actor, in dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	if err := actor.Authorize(authz.ProjectManage); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	status := in.Status
	if status == "" {
		status = entity.ProjectStatusPlanning
	}
	if !entity.ValidProjectStatus(status) {
		return nil, fmt.Errorf("%w: status %q desconocido", domain.ErrInvalidInput, status)
	}
	start, err := parseDate("start_date", in.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", in.EndDate)
	if err != nil {
		return nil, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, fmt.Errorf("%w: end_date anterior a start_date", domain.ErrInvalidInput)
	}
	now := time.Now()
	p := &entity.Project{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Location:    in.Location,
		Status:      status,
		Budget:      in.Budget,
		StartDate:   start,
		EndDate:     end,
		Image:       in.Image,
		CreatedBy:   actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = uc.txRunner.Run(ctx, func(r ports.Repos) error {
		if err := r.Projects.Create(ctx, p); err != nil {
			return err
		}
		return audit.Write(ctx, r.Logs, audit.LogOptions{
			UserID: actor.UserID, ProjectID: p.ID, EntityType: audit.EntityProject, EntityID: p.ID,
			Action: audit.ActionCreate, Description: "proyecto creado: " + p.Name,
		})
	})
	if err != nil {
		return nil, err
	}
	return toProjectResponse(p, nil), nil
}

// GetByID obtiene un proyecto visible para el actor, con su personal.
func (uc *ProjectUseCase) GetByID(ctx context.Context, actor authz.Actor, id string) (*dto.ProjectResponse, error) {
	p, err := uc.load(ctx, actor, uc.repos, id)
	if err != nil {
		return nil, err
	}
	members, err := uc.repos.Projects.ListMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProjectResponse(p, members), nil
}

func (uc *ProjectUseCase) load(ctx context.Context, actor authz.Actor, r ports.Repos, id string) (*entity.Project, error) {
	if err := actor.Authorize(authz.ProjectRead); err != nil {
		return nil, err
	}
	p, err := r.Projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, notFound("proyecto")
	}
	if !actor.CanAccessProject(id) {
		return nil, fmt.Errorf("%w: no está asignado al proyecto", domain.ErrForbidden)
	}
	return p, nil
}

// List proyectos visibles para el actor.
func (uc *ProjectUseCase) List(ctx context.Context, actor authz.Actor, status string, page dto.PageRequest) (*dto.ProjectListResponse, error) {
	if err := actor.Authorize(authz.ProjectRead); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.repos.Projects.List(ctx, repository.ProjectFilter{
		IDs: actor.VisibleProjects(), Status: status, Limit: page.Limit, Offset: page.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.ProjectListResponse{
		Items: make([]dto.ProjectResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, p := range list {
		out.Items = append(out.Items, *toProjectResponse(p, nil))
	}
	return out, nil
}

// Update edita un proyecto y registra los campos cambiados.
func (uc *ProjectUseCase) Update(ctx context.Context, actor authz.Actor, id string, in dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	if err := actor.Authorize(authz.ProjectManage); err != nil {
		return nil, err
	}
	var out *entity.Project
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		p, err := uc.load(ctx, actor, r, id)
		if err != nil {
			return err
		}
		before := projectSnapshot(p)
		if in.Name != nil {
			if strings.TrimSpace(*in.Name) == "" {
				return fmt.Errorf("%w: name no puede ser vacío", domain.ErrInvalidInput)
			}
			p.Name = strings.TrimSpace(*in.Name)
		}
		if in.Description != nil {
			p.Description = *in.Description
		}
		if in.Location != nil {
			p.Location = *in.Location
		}
		if in.Status != nil {
			if !entity.ValidProjectStatus(*in.Status) {
				return fmt.Errorf("%w: status %q desconocido", domain.ErrInvalidInput, *in.Status)
			}
			p.Status = *in.Status
		}
		if in.Budget != nil {
			p.Budget = *in.Budget
		}
		if in.StartDate != nil {
			if p.StartDate, err = parseDate("start_date", *in.StartDate); err != nil {
				return err
			}
		}
		if in.EndDate != nil {
			if p.EndDate, err = parseDate("end_date", *in.EndDate); err != nil {
				return err
			}
		}
		if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
			return fmt.Errorf("%w: end_date anterior a start_date", domain.ErrInvalidInput)
		}
		if in.Image != nil {
			p.Image = *in.Image
		}
		p.UpdatedAt = time.Now()
		if err := r.Projects.Update(ctx, p); err != nil {
			return err
		}
		out = p
		return audit.Write(ctx, r.Logs, audit.LogOptions{
			UserID: actor.UserID, ProjectID: p.ID, EntityType: audit.EntityProject, EntityID: p.ID,
			Action: audit.ActionUpdate, Description: "proyecto editado: " + p.Name,
			Changes: audit.Diff(before, projectSnapshot(p)),
		})
	})
	if err != nil {
		return nil, err
	}
	return toProjectResponse(out, nil), nil
}

// AssignMember asigna un usuario al proyecto. Surte efecto en su próxima sesión.
func (uc *ProjectUseCase) AssignMember(ctx context.Context, actor authz.Actor, projectID, userID string) error {
	return uc.changeMember(ctx, actor, projectID, userID, true)
}

// RemoveMember quita un usuario del proyecto.
func (uc *ProjectUseCase) RemoveMember(ctx context.Context, actor authz.Actor, projectID, userID string) error {
	return uc.changeMember(ctx, actor, projectID, userID, false)
}

func (uc *ProjectUseCase) changeMember(ctx context.Context, actor authz.Actor, projectID, userID string, add bool) error {
	if err := actor.Authorize(authz.ProjectManage); err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(r ports.Repos) error {
		p, err := uc.load(ctx, actor, r, projectID)
		if err != nil {
			return err
		}
		u, err := r.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.ErrUserNotFound
		}
		desc := fmt.Sprintf("%s asignado a %s", u.Email, p.Name)
		if add {
			err = r.Projects.AddMember(ctx, projectID, userID)
		} else {
			err = r.Projects.RemoveMember(ctx, projectID, userID)
			desc = fmt.Sprintf("%s retirado de %s", u.Email, p.Name)
		}
		if err != nil {
			return err
		}
		return audit.Write(ctx, r.Logs, audit.LogOptions{
			UserID: actor.UserID, ProjectID: projectID, EntityType: audit.EntityProject, EntityID: projectID,
			Action: audit.ActionAssign, Description: desc,
		})
	})
}

func projectSnapshot(p *entity.Project) map[string]string {
	return map[string]string{
		"name":        p.Name,
		"description": p.Description,
		"location":    p.Location,
		"status":      p.Status,
		"budget":      p.Budget.String(),
		"start_date":  formatDate(p.StartDate),
		"end_date":    formatDate(p.EndDate),
		"image":       p.Image,
	}
}

func toProjectResponse(p *entity.Project, members []string) *dto.ProjectResponse {
	return &dto.ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Location:    p.Location,
		Status:      p.Status,
		Budget:      p.Budget,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Image:       p.Image,
		Members:     members,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
