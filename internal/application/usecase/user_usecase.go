package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/obras-api/internal/application/audit"
	"github.com/jhoicas/obras-api/internal/application/dto"
	"github.com/jhoicas/obras-api/internal/application/ports"
	"github.com/jhoicas/obras-api/internal/domain"
	"github.com/jhoicas/obras-api/internal/domain/authz"
	"github.com/jhoicas/obras-api/internal/domain/entity"
)

// UserUseCase aplica reglas de negocio para el personal.
type UserUseCase struct {
	txRunner   ports.TxRunner
	repos      ports.Repos
	bcryptCost int
}

// NewUserUseCase construye el caso de uso. cost 0 usa bcrypt.DefaultCost.
func NewUserUseCase(txRunner ports.TxRunner, repos ports.Repos, cost int) *UserUseCase {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &UserUseCase{txRunner: txRunner, repos: repos, bcryptCost: cost}
}

// Create da de alta a un miembro del personal y lo asigna a sus proyectos.
func (uc *UserUseCase) Create(ctx context.Context, actor authz.Actor, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := actor.Authorize(authz.UserManage); err != nil {
		return nil, err
	}
	if !entity.ValidRole(in.Role) {
		return nil, fmt.Errorf("%w: rol %q desconocido", domain.ErrInvalidInput, in.Role)
	}
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: password debe tener al menos 8 caracteres", domain.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash de password: %w", err)
	}
	now := time.Now()
	u := &entity.User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		Phone:        in.Phone,
		Role:         in.Role,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.txRunner.Run(ctx, func(r ports.Repos) error {
		existing, err := r.Users.FindByEmail(ctx, u.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrEmailAlreadyExists
		}
		if err := r.Users.Create(ctx, u); err != nil {
			return err
		}
		for _, pid := range in.Projects {
			p, err := r.Projects.GetByID(ctx, pid)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("proyecto %s: %w", pid, domain.ErrNotFound)
			}
			if err := r.Projects.AddMember(ctx, pid, u.ID); err != nil {
				return err
			}
		}
		return audit.Write(ctx, r.Logs, audit.LogOptions{
			UserID: actor.UserID, EntityType: audit.EntityUser, EntityID: u.ID,
			Action: audit.ActionCreate, Description: fmt.Sprintf("usuario creado: %s (%s)", u.Email, u.Role),
		})
	})
	if err != nil {
		return nil, err
	}
	projects := in.Projects
	if projects == nil {
		projects = []string{}
	}
	out := dto.NewUserResponse(u, projects)
	return &out, nil
}

// GetByID obtiene un usuario. Cada quien puede consultarse a sí mismo.
func (uc *UserUseCase) GetByID(ctx context.Context, actor authz.Actor, id string) (*dto.UserResponse, error) {
	if id != actor.UserID {
		if err := actor.Authorize(authz.UserRead); err != nil {
			return nil, err
		}
	}
	u, err := uc.repos.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	projects, err := uc.repos.Projects.ProjectIDsForUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	out := dto.NewUserResponse(u, projects)
	return &out, nil
}

// List lista el personal.
func (uc *UserUseCase) List(ctx context.Context, actor authz.Actor, page dto.PageRequest) (*dto.UserListResponse, error) {
	if err := actor.Authorize(authz.UserRead); err != nil {
		return nil, err
	}
	page.DefaultPage()
	users, err := uc.repos.Users.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.UserListResponse{
		Items: make([]dto.UserResponse, 0, len(users)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, u := range users {
		projects, err := uc.repos.Projects.ProjectIDsForUser(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, dto.NewUserResponse(u, projects))
	}
	return out, nil
}

