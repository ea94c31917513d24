package auth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/obras-api/internal/application/dto"
	"github.com/jhoicas/obras-api/internal/domain"
	"github.com/jhoicas/obras-api/internal/domain/authz"
	"github.com/jhoicas/obras-api/internal/domain/entity"
	"github.com/jhoicas/obras-api/internal/domain/repository"
	"github.com/jhoicas/obras-api/pkg/jwt"
)

// AuthUseCase casos de uso de sesión: login, logout, identidad actual.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
	jwtOpts     jwt.Options
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, projectRepo repository.ProjectRepository, jwtOpts jwt.Options) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, projectRepo: projectRepo, jwtOpts: jwtOpts}
}

// Login verifica email/password y emite el token con rol y proyectos asignados.
// Credenciales incorrectas y usuario inexistente devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: credenciales inválidas", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, fmt.Errorf("%w: credenciales inválidas", domain.ErrUnauthorized)
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrUserInactive
	}

	projects, err := uc.projectsOf(ctx, user)
	if err != nil {
		return nil, err
	}
	token, exp, err := jwt.Generate(uc.jwtOpts, user.ID, user.Role, projects)
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.SetActive(ctx, user.ID, true); err != nil {
		return nil, err
	}
	user.IsActive = true
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: exp,
		User:      dto.NewUserResponse(user, projects),
	}, nil
}

// Logout marca la sesión del usuario como terminada.
func (uc *AuthUseCase) Logout(ctx context.Context, userID string) error {
	return uc.userRepo.SetActive(ctx, userID, false)
}

// ExpireSession se invoca cuando llega un token expirado: el usuario deja de figurar en línea.
func (uc *AuthUseCase) ExpireSession(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}
	return uc.userRepo.SetActive(ctx, userID, false)
}

// Me devuelve la identidad del actor con los proyectos vigentes.
func (uc *AuthUseCase) Me(ctx context.Context, actor authz.Actor) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	projects, err := uc.projectsOf(ctx, user)
	if err != nil {
		return nil, err
	}
	out := dto.NewUserResponse(user, projects)
	return &out, nil
}

// projectsOf proyectos asignados; los administradores no llevan lista (ven todo).
func (uc *AuthUseCase) projectsOf(ctx context.Context, user *entity.User) ([]string, error) {
	if user.Role == entity.RoleAdmin {
		return nil, nil
	}
	return uc.projectRepo.ProjectIDsForUser(ctx, user.ID)
}
