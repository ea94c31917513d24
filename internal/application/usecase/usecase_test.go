package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/obras-api/internal/application/audit"
	"github.com/jhoicas/obras-api/internal/application/dto"
	"github.com/jhoicas/obras-api/internal/application/usecase"
	"github.com/jhoicas/obras-api/internal/domain"
	"github.com/jhoicas/obras-api/internal/domain/authz"
	"github.com/jhoicas/obras-api/internal/domain/entity"
	"github.com/jhoicas/obras-api/internal/domain/repository"
	"github.com/jhoicas/obras-api/internal/infrastructure/memstore"
)

const (
	projectID = "10000000-0000-0000-0000-000000000001"
	otherID   = "10000000-0000-0000-0000-000000000002"
)

var (
	admin    = authz.Actor{UserID: "u-admin", Role: entity.RoleAdmin}
	engineer = authz.Actor{UserID: "u-eng", Role: entity.RoleEngineer, Projects: []string{projectID}}
	foreman  = authz.Actor{UserID: "u-foreman", Role: entity.RoleForeman, Projects: []string{projectID}}
	staff    = authz.Actor{UserID: "u-staff", Role: entity.RoleStaff, Projects: []string{projectID}}
)

func newStore(t *testing.T) *memstore.Store {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()
	r := store.Repos()
	require.NoError(t, r.Projects.Create(ctx, &entity.Project{ID: projectID, Name: "Torre Norte", Status: entity.ProjectStatusActive}))
	require.NoError(t, r.Projects.Create(ctx, &entity.Project{ID: otherID, Name: "Bodega Sur", Status: entity.ProjectStatusPlanning}))
	require.NoError(t, r.Users.Create(ctx, &entity.User{ID: "u-staff", Email: "staff@obra.co", Role: entity.RoleStaff}))
	return store
}

func logsFor(t *testing.T, store *memstore.Store, entityType string) []*entity.AuditLog {
	t.Helper()
	list, err := store.Repos().Logs.List(context.Background(), repository.AuditLogFilter{EntityType: entityType})
	require.NoError(t, err)
	return list
}

func TestNameKey_IgnoraMayusculasYEspacios(t *testing.T) {
	assert.Equal(t, usecase.NameKey("cemento gris"), usecase.NameKey("  CEMENTO   Gris "))
	assert.NotEqual(t, usecase.NameKey("cemento gris"), usecase.NameKey("cemento blanco"))
}

func TestMaterial_CreatePorPersonalQuedaPendiente(t *testing.T) {
	store := newStore(t)
	uc := usecase.NewMaterialUseCase(store, store.Repos())
	ctx := context.Background()

	m, err := uc.Create(ctx, staff, dto.CreateMaterialRequest{Name: "Cemento Gris", Price: decimal.NewFromInt(32000)})
	require.NoError(t, err)
	assert.Equal(t, entity.MaterialStatusPending, m.Status)

	_, err = uc.Approve(ctx, staff, m.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden, "solo el administrador aprueba materiales")

	approved, err := uc.Approve(ctx, admin, m.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.MaterialStatusApproved, approved.Status)
	assert.Equal(t, admin.UserID, approved.ApprovedBy)

	_, err = uc.Approve(ctx, admin, m.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestMaterial_CreatePorAdminQuedaAprobado(t *testing.T) {
	store := newStore(t)
	uc := usecase.NewMaterialUseCase(store, store.Repos())

	m, err := uc.Create(context.Background(), admin, dto.CreateMaterialRequest{Name: "Varilla 3/8"})
	require.NoError(t, err)
	assert.Equal(t, entity.MaterialStatusApproved, m.Status)
}

func TestMaterial_NombreDuplicado(t *testing.T) {
	store := newStore(t)
	uc := usecase.NewMaterialUseCase(store, store.Repos())
	ctx := context.Background()

	_, err := uc.Create(ctx, admin, dto.CreateMaterialRequest{Name: "Arena de río"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, staff, dto.CreateMaterialRequest{Name: "ARENA  DE RÍO"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Len(t, logsFor(t, store, audit.EntityMaterial), 1, "el alta fallida no deja registro")
}

func TestMaterial_ReferenciaInexistente(t *testing.T) {
	store := newStore(t)
	uc := usecase.NewMaterialUseCase(store, store.Repos())

	_, err := uc.Create(context.Background(), admin, dto.CreateMaterialRequest{Name: "Bloque", SupplierID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMaterial_UpdateRegistraCambios(t *testing.T) {
	store := newStore(t)
	uc := usecase.NewMaterialUseCase(store, store.Repos())
	ctx := context.Background()
	m, err := uc.Create(ctx, admin, dto.CreateMaterialRequest{Name: "Bloque #4", Price: decimal.NewFromInt(1800)})
	require.NoError(t, err)

	price := decimal.NewFromInt(2100)
	_, err = uc.Update(ctx, engineer, m.ID, dto.UpdateMaterialRequest{Price: &price})
	require.NoError(t, err)

	logs := logsFor(t, store, audit.EntityMaterial)
	require.Len(t, logs, 2)
	last := logs[0]
	assert.Equal(t, audit.ActionUpdate, last.Action)
	require.Len(t, last.Changes, 1, "solo cambió el precio")
	assert.Equal(t, "price", last.Changes[0].Field)
	assert.Equal(t, "1800", last.Changes[0].Before)
	assert.Equal(t, "2100", last.Changes[0].After)
}

func TestMaterial_DeleteSoloAdmin(t *testing.T) {
	store := newStore(t)
	uc := usecase.NewMaterialUseCase(store, store.Repos())
	ctx := context.Background()
	m, err := uc.Create(ctx, admin, dto.CreateMaterialRequest{Name: "Grava"})
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Delete(ctx, engineer, m.ID), domain.ErrForbidden)
	require.NoError(t, uc.Delete(ctx, admin, m.ID))
	_, err = uc.GetByID(ctx, admin, m.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProject_ListSoloAsignados(t *testing.T) {
	store := newStore(t)
	uc := usecase.NewProjectUseCase(store, store.Repos())
	ctx := context.Background()

	list, err := uc.List(ctx, staff, "", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, projectID, list.Items[0].ID)

	all, err := uc.List(ctx, admin, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)

	_, err = uc.GetByID(ctx, staff, otherID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	none, err := uc.List(ctx, authz.Actor{UserID: "x", Role: entity.RoleStaff}, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, none.Items, "sin asignaciones no ve proyectos")
}

func TestProject_CreateYAsignarPersonal(t *testing.T) {
	store := newStore(t)
	uc := usecase.NewProjectUseCase(store, store.Repos())
	ctx := context.Background()

	_, err := uc.Create(ctx, engineer, dto.CreateProjectRequest{Name: "Puente"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Create(ctx, admin, dto.CreateProjectRequest{Name: "Puente", StartDate: "2026-05-01", EndDate: "2026-01-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	p, err := uc.Create(ctx, admin, dto.CreateProjectRequest{Name: "Puente", StartDate: "2026-01-01"})
	require.NoError(t, err)
	assert.Equal(t, entity.ProjectStatusPlanning, p.Status)

	require.NoError(t, uc.AssignMember(ctx, admin, p.ID, "u-staff"))
	got, err := uc.GetByID(ctx, admin, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"u-staff"}, got.Members)

	assert.ErrorIs(t, uc.AssignMember(ctx, admin, p.ID, "no-existe"), domain.ErrUserNotFound)
	require.NoError(t, uc.RemoveMember(ctx, admin, p.ID, "u-staff"))
	got, err = uc.GetByID(ctx, admin, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Members)
}

func TestWork_HitosYTareas(t *testing.T) {
	store := newStore(t)
	uc := usecase.NewWorkUseCase(store, store.Repos())
	ctx := context.Background()

	_, err := uc.CreateMilestone(ctx, foreman, projectID, dto.CreateMilestoneRequest{Name: "Cimentación"})
	assert.ErrorIs(t, err, domain.ErrForbidden, "el maestro de obra no gestiona hitos")

	m, err := uc.CreateMilestone(ctx, engineer, projectID, dto.CreateMilestoneRequest{Name: "Cimentación", DueDate: "2026-03-01"})
	require.NoError(t, err)
	require.NotNil(t, m.DueDate)

	task, err := uc.CreateTask(ctx, foreman, projectID, dto.CreateTaskRequest{Title: "Excavar", MilestoneID: m.ID, AssignedTo: "u-staff"})
	require.NoError(t, err)
	assert.Equal(t, entity.WorkStatusPending, task.Status)

	done := entity.WorkStatusCompleted
	updated, err := uc.UpdateTask(ctx, foreman, task.ID, dto.UpdateTaskRequest{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, entity.WorkStatusCompleted, updated.Status)

	_, err = uc.CreateTask(ctx, engineer, otherID, dto.CreateTaskRequest{Title: "Ajena"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, uc.DeleteMilestone(ctx, engineer, m.ID))
	tasks, err := uc.ListTasks(ctx, staff, projectID, "")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Empty(t, tasks[0].MilestoneID, "la tarea queda sin hito")

	deletes := 0
	for _, l := range logsFor(t, store, audit.EntityMilestone) {
		if l.Action == audit.ActionDelete {
			deletes++
		}
	}
	assert.Equal(t, 1, deletes)
}

func TestCatalog_SoloAdminCrea(t *testing.T) {
	store := newStore(t)
	uc := usecase.NewCatalogUseCase(store, store.Repos())
	ctx := context.Background()

	_, err := uc.CreateSupplier(ctx, engineer, dto.CreateSupplierRequest{Name: "Ferretería Central"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.CreateSupplier(ctx, admin, dto.CreateSupplierRequest{Name: "Ferretería Central"})
	require.NoError(t, err)
	_, err = uc.CreateUnit(ctx, admin, dto.CreateUnitRequest{Name: "Bolsa", Abbreviation: "bl"})
	require.NoError(t, err)
	_, err = uc.CreateCategory(ctx, admin, dto.CreateCategoryRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	suppliers, err := uc.ListSuppliers(ctx, staff)
	require.NoError(t, err)
	assert.Len(t, suppliers, 1)
	units, err := uc.ListUnits(ctx, staff)
	require.NoError(t, err)
	assert.Len(t, units, 1)
}

func TestAsset_VisibilidadYLiberar(t *testing.T) {
	store := newStore(t)
	uc := usecase.NewAssetUseCase(store, store.Repos())
	ctx := context.Background()

	mixer, err := uc.Create(ctx, admin, dto.CreateAssetRequest{Name: "Mezcladora", Code: "EQ-01", ProjectID: otherID})
	require.NoError(t, err)
	_, err = uc.Create(ctx, admin, dto.CreateAssetRequest{Name: "Andamio", Code: "EQ-02"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, admin, dto.CreateAssetRequest{Name: "Otra", Code: "EQ-01"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	list, err := uc.List(ctx, staff, usecase.AssetQuery{})
	require.NoError(t, err)
	require.Len(t, list, 1, "ve solo el activo libre")
	assert.Equal(t, "Andamio", list[0].Name)

	_, err = uc.GetByID(ctx, staff, mixer.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	freed, err := uc.Update(ctx, admin, mixer.ID, dto.UpdateAssetRequest{Unassign: true})
	require.NoError(t, err)
	assert.Empty(t, freed.ProjectID)
}

func TestUser_CreateAsignaProyectos(t *testing.T) {
	store := newStore(t)
	uc := usecase.NewUserUseCase(store, store.Repos(), bcrypt.MinCost)
	ctx := context.Background()

	in := dto.CreateUserRequest{Email: "Ing@Obra.co", Password: "secreto123", Name: "Ana", Role: entity.RoleEngineer, Projects: []string{projectID}}
	_, err := uc.Create(ctx, engineer, in)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	u, err := uc.Create(ctx, admin, in)
	require.NoError(t, err)
	assert.Equal(t, "ing@obra.co", u.Email)
	assert.Equal(t, []string{projectID}, u.Projects)

	stored, err := store.Repos().Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secreto123")))

	_, err = uc.Create(ctx, admin, in)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	in.Email, in.Projects = "otro@obra.co", []string{"no-existe"}
	_, err = uc.Create(ctx, admin, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	found, err := store.Repos().Users.FindByEmail(ctx, "otro@obra.co")
	require.NoError(t, err)
	assert.Nil(t, found, "el alta se revierte si un proyecto no existe")

	self, err := uc.GetByID(ctx, authz.Actor{UserID: u.ID, Role: entity.RoleStaff}, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, self.ID)
}
