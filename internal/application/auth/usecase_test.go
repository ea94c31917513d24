package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/obras-api/internal/application/auth"
	"github.com/jhoicas/obras-api/internal/application/dto"
	"github.com/jhoicas/obras-api/internal/domain"
	"github.com/jhoicas/obras-api/internal/domain/authz"
	"github.com/jhoicas/obras-api/internal/domain/entity"
	"github.com/jhoicas/obras-api/internal/infrastructure/memstore"
	"github.com/jhoicas/obras-api/pkg/jwt"
)

const secret = "test-secret-key-for-unit-tests"

func setup(t *testing.T, status string) (*memstore.Store, *auth.AuthUseCase) {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()
	r := store.Repos()
	hash, err := bcrypt.GenerateFromPassword([]byte("clave-segura"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, r.Users.Create(ctx, &entity.User{
		ID: "u1", Email: "capataz@obra.co", PasswordHash: string(hash), Name: "Capataz",
		Role: entity.RoleForeman, Status: status, CreatedAt: time.Now(),
	}))
	require.NoError(t, r.Projects.Create(ctx, &entity.Project{ID: "p1", Name: "Torre"}))
	require.NoError(t, r.Projects.AddMember(ctx, "p1", "u1"))
	return store, auth.NewAuthUseCase(r.Users, r.Projects, jwt.Options{Secret: secret, Issuer: "test", ExpMinutes: 60})
}

func TestLogin_EmiteTokenConProyectosYMarcaActivo(t *testing.T) {
	store, uc := setup(t, entity.UserStatusActive)
	ctx := context.Background()

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "capataz@obra.co", Password: "clave-segura"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, out.User.Projects)
	assert.True(t, out.User.IsActive)

	claims, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleForeman, claims.Role)
	assert.Equal(t, []string{"p1"}, claims.Projects)

	u, err := store.Repos().Users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, u.IsActive, "el login marca la sesión como vigente")

	require.NoError(t, uc.Logout(ctx, "u1"))
	u, err = store.Repos().Users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, u.IsActive, "el logout cierra la sesión")
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	_, uc := setup(t, entity.UserStatusActive)
	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "capataz@obra.co", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@obra.co", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "usuario inexistente no se distingue")
}

func TestLogin_CuentaSuspendida(t *testing.T) {
	_, uc := setup(t, entity.UserStatusSuspended)
	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "capataz@obra.co", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrUserInactive)
}

func TestExpireSession_YMe(t *testing.T) {
	store, uc := setup(t, entity.UserStatusActive)
	ctx := context.Background()
	require.NoError(t, store.Repos().Users.SetActive(ctx, "u1", true))

	require.NoError(t, uc.ExpireSession(ctx, "u1"))
	me, err := uc.Me(ctx, authz.Actor{UserID: "u1", Role: entity.RoleForeman})
	require.NoError(t, err)
	assert.False(t, me.IsActive)
	assert.Equal(t, []string{"p1"}, me.Projects)
}
