package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/obras-api/internal/domain"
	"github.com/jhoicas/obras-api/internal/domain/authz"
	"github.com/jhoicas/obras-api/internal/domain/entity"
)

func TestCan_TablaDeAprobacion(t *testing.T) {
	for _, role := range []string{entity.RoleAdmin, entity.RoleEngineer, entity.RoleProjectManager} {
		assert.True(t, authz.Can(role, authz.RequestApprove), "%s debe poder aprobar", role)
		assert.True(t, authz.Can(role, authz.RequestDecline), "%s debe poder rechazar", role)
	}
	for _, role := range []string{entity.RoleForeman, entity.RoleStaff} {
		assert.False(t, authz.Can(role, authz.RequestApprove), "%s no debe poder aprobar", role)
	}
}

func TestCan_TablaDeEntregaYVerificacion(t *testing.T) {
	for _, role := range []string{entity.RoleAdmin, entity.RoleForeman} {
		assert.True(t, authz.Can(role, authz.RequestDeliver))
		assert.True(t, authz.Can(role, authz.RequestVerify))
	}
	for _, role := range []string{entity.RoleEngineer, entity.RoleProjectManager, entity.RoleStaff} {
		assert.False(t, authz.Can(role, authz.RequestVerify), "%s no debe poder verificar", role)
	}
}

func TestCan_RolDesconocido(t *testing.T) {
	assert.False(t, authz.Can("vendedor", authz.RequestRead))
	assert.False(t, authz.Can("", authz.RequestRead))
}

func TestAuthorize_DevuelveForbidden(t *testing.T) {
	assert.NoError(t, authz.Authorize(entity.RoleAdmin, authz.UserManage))
	assert.ErrorIs(t, authz.Authorize(entity.RoleStaff, authz.UserManage), domain.ErrForbidden)
}

func TestPermission_Matches(t *testing.T) {
	assert.True(t, authz.All.Matches(authz.InventoryAdjust))
	assert.True(t, authz.Permission("inventory:*").Matches(authz.InventoryAdjust))
	assert.False(t, authz.Permission("inventory:*").Matches(authz.MaterialDelete))
	assert.False(t, authz.Permission("invalido").Matches(authz.MaterialDelete))
}

func TestActor_CanAccessProject(t *testing.T) {
	admin := authz.Actor{UserID: "u1", Role: entity.RoleAdmin}
	foreman := authz.Actor{UserID: "u2", Role: entity.RoleForeman, Projects: []string{"p1"}}

	assert.True(t, admin.CanAccessProject("cualquiera"))
	assert.Nil(t, admin.VisibleProjects(), "admin no filtra por proyecto")
	assert.True(t, foreman.CanAccessProject("p1"))
	assert.False(t, foreman.CanAccessProject("p2"))
	assert.Equal(t, []string{}, authz.Actor{Role: entity.RoleStaff}.VisibleProjects())
}
