package audit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/obras-api/internal/application/audit"
	"github.com/jhoicas/obras-api/internal/domain"
	"github.com/jhoicas/obras-api/internal/domain/authz"
	"github.com/jhoicas/obras-api/internal/domain/entity"
	"github.com/jhoicas/obras-api/internal/infrastructure/memstore"
)

func TestDiff_SoloCamposCambiados(t *testing.T) {
	changes := audit.Diff(
		map[string]string{"name": "Losa", "status": "pending", "notes": ""},
		map[string]string{"name": "Losa", "status": "completed", "notes": "ok"},
	)
	require.Len(t, changes, 2)
	assert.Equal(t, entity.FieldChange{Field: "notes", Before: "", After: "ok"}, changes[0])
	assert.Equal(t, entity.FieldChange{Field: "status", Before: "pending", After: "completed"}, changes[1])
}

func TestList_VisibilidadPorProyecto(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	logs := store.Repos().Logs
	for _, p := range []string{"p1", "p2", ""} {
		require.NoError(t, audit.Write(ctx, logs, audit.LogOptions{UserID: "u1", ProjectID: p, EntityType: audit.EntityProject, Action: audit.ActionUpdate}))
	}
	uc := audit.NewUseCase(logs)

	staff := authz.Actor{UserID: "u2", Role: entity.RoleStaff, Projects: []string{"p1"}}
	out, err := uc.List(ctx, staff, audit.ListQuery{})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2, "staff ve su proyecto y los registros globales")

	all, err := uc.List(ctx, authz.Actor{UserID: "a", Role: entity.RoleAdmin}, audit.ListQuery{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 3)

	_, err = uc.List(ctx, staff, audit.ListQuery{ProjectID: "p2"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
