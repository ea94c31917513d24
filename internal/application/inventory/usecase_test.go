package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/obras-api/internal/application/dto"
	"github.com/jhoicas/obras-api/internal/application/inventory"
	"github.com/jhoicas/obras-api/internal/domain"
	"github.com/jhoicas/obras-api/internal/domain/authz"
	"github.com/jhoicas/obras-api/internal/domain/entity"
	"github.com/jhoicas/obras-api/internal/domain/repository"
	"github.com/jhoicas/obras-api/internal/infrastructure/memstore"
)

const (
	projectID  = "10000000-0000-0000-0000-000000000001"
	materialID = "30000000-0000-0000-0000-000000000001"
)

var (
	admin   = authz.Actor{UserID: "u-admin", Role: entity.RoleAdmin}
	foreman = authz.Actor{UserID: "u-foreman", Role: entity.RoleForeman, Projects: []string{projectID}}
)

func setup(t *testing.T) (*memstore.Store, *inventory.UseCase) {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()
	r := store.Repos()
	require.NoError(t, r.Projects.Create(ctx, &entity.Project{ID: projectID, Name: "Torre Norte"}))
	require.NoError(t, r.Materials.Create(ctx, &entity.Material{ID: materialID, Name: "Arena", NameKey: "arena"}))
	return store, inventory.NewUseCase(store, r, nil)
}

func TestRegisterMovement_EntradaYSalidaCentral(t *testing.T) {
	_, uc := setup(t)
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, admin, dto.RegisterMovementRequest{MaterialID: materialID, Type: dto.ManualMovementIn, Quantity: decimal.NewFromInt(50)})
	require.NoError(t, err)
	_, err = uc.RegisterMovement(ctx, admin, dto.RegisterMovementRequest{MaterialID: materialID, Type: dto.ManualMovementOut, Quantity: decimal.NewFromInt(20)})
	require.NoError(t, err)

	bal, err := uc.Balance(ctx, admin, materialID, "")
	require.NoError(t, err)
	assert.True(t, bal.Quantity.Equal(decimal.NewFromInt(30)), "saldo central debe ser 50 - 20")
}

func TestRegisterMovement_SalidaSinSaldo_Falla(t *testing.T) {
	store, uc := setup(t)
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, admin, dto.RegisterMovementRequest{MaterialID: materialID, Type: dto.ManualMovementOut, Quantity: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	movs, err := store.Repos().Movements.List(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, movs, "no debe asentarse nada")
}

func TestRegisterMovement_CantidadConMasDeTresDecimales_Falla(t *testing.T) {
	store, uc := setup(t)
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, admin, dto.RegisterMovementRequest{MaterialID: materialID, Type: dto.ManualMovementIn, Quantity: decimal.RequireFromString("1.0005")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "NUMERIC(18,3) redondearía la cantidad")

	movs, err := store.Repos().Movements.List(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestRegisterMovement_TransferenciaMueveDelCentralAlProyecto(t *testing.T) {
	_, uc := setup(t)
	ctx := context.Background()
	_, err := uc.RegisterMovement(ctx, admin, dto.RegisterMovementRequest{MaterialID: materialID, Type: dto.ManualMovementIn, Quantity: decimal.NewFromInt(10)})
	require.NoError(t, err)

	out, err := uc.RegisterMovement(ctx, admin, dto.RegisterMovementRequest{MaterialID: materialID, ProjectID: projectID, Type: dto.ManualMovementTransfer, Quantity: decimal.NewFromInt(4)})
	require.NoError(t, err)
	require.Len(t, out, 2, "transfer genera salida y entrada")

	central, err := uc.Balance(ctx, admin, materialID, "")
	require.NoError(t, err)
	site, err := uc.Balance(ctx, admin, materialID, projectID)
	require.NoError(t, err)
	assert.True(t, central.Quantity.Equal(decimal.NewFromInt(6)))
	assert.True(t, site.Quantity.Equal(decimal.NewFromInt(4)))

	balances, err := uc.Balances(ctx, foreman, projectID)
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, materialID, balances[0].MaterialID)
}

func TestRegisterMovement_SinPermiso(t *testing.T) {
	_, uc := setup(t)
	_, err := uc.RegisterMovement(context.Background(), foreman, dto.RegisterMovementRequest{MaterialID: materialID, Type: dto.ManualMovementIn, Quantity: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrForbidden, "foreman no ajusta inventario")
}

func TestListMovements_SinProyectoSoloAdmin(t *testing.T) {
	_, uc := setup(t)
	ctx := context.Background()

	_, err := uc.ListMovements(ctx, foreman, inventory.MovementQuery{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.ListMovements(ctx, foreman, inventory.MovementQuery{ProjectID: projectID})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}
