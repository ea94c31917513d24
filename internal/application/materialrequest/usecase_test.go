package materialrequest_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/obras-api/internal/application/dto"
	"github.com/jhoicas/obras-api/internal/application/materialrequest"
	"github.com/jhoicas/obras-api/internal/domain"
	"github.com/jhoicas/obras-api/internal/domain/authz"
	"github.com/jhoicas/obras-api/internal/domain/entity"
	"github.com/jhoicas/obras-api/internal/domain/repository"
	"github.com/jhoicas/obras-api/internal/infrastructure/memstore"
	"github.com/jhoicas/obras-api/pkg/metrics"
)

const (
	projectID  = "10000000-0000-0000-0000-000000000001"
	otherProj  = "10000000-0000-0000-0000-000000000002"
	supplierID = "20000000-0000-0000-0000-000000000001"
	cementID   = "30000000-0000-0000-0000-000000000001"
	rebarID    = "30000000-0000-0000-0000-000000000002"
)

var (
	staff    = authz.Actor{UserID: "u-staff", Role: entity.RoleStaff, Projects: []string{projectID}}
	engineer = authz.Actor{UserID: "u-eng", Role: entity.RoleEngineer, Projects: []string{projectID}}
	foreman  = authz.Actor{UserID: "u-foreman", Role: entity.RoleForeman, Projects: []string{projectID}}
	admin    = authz.Actor{UserID: "u-admin", Role: entity.RoleAdmin}
)

type fixture struct {
	store *memstore.Store
	uc    *materialrequest.UseCase
	reg   *prometheus.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()
	r := store.Repos()
	now := time.Now()
	require.NoError(t, r.Projects.Create(ctx, &entity.Project{ID: projectID, Name: "Torre Norte", Status: entity.ProjectStatusActive, CreatedAt: now}))
	require.NoError(t, r.Projects.Create(ctx, &entity.Project{ID: otherProj, Name: "Bodega Sur", Status: entity.ProjectStatusActive, CreatedAt: now}))
	require.NoError(t, r.Suppliers.Create(ctx, &entity.Supplier{ID: supplierID, Name: "Cementos Andinos", CreatedAt: now}))
	require.NoError(t, r.Materials.Create(ctx, &entity.Material{ID: cementID, Name: "Cemento gris", NameKey: "cemento gris", Status: entity.MaterialStatusApproved}))
	require.NoError(t, r.Materials.Create(ctx, &entity.Material{ID: rebarID, Name: "Varilla 1/2", NameKey: "varilla 1/2", Status: entity.MaterialStatusApproved}))

	reg := prometheus.NewRegistry()
	return &fixture{
		store: store,
		uc:    materialrequest.NewUseCase(store, r, metrics.NewLifecycle(reg)),
		reg:   reg,
	}
}

func qty(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func (f *fixture) create(t *testing.T, requestType string, lines map[string]int64) *dto.MaterialRequestResponse {
	t.Helper()
	in := dto.CreateMaterialRequestRequest{ProjectID: projectID, RequestType: requestType}
	if requestType == entity.RequestTypeSupplier {
		in.SupplierID = supplierID
	}
	for _, id := range []string{cementID, rebarID} {
		if n, ok := lines[id]; ok {
			in.Items = append(in.Items, dto.CreateMaterialRequestItem{MaterialID: id, Quantity: qty(n)})
		}
	}
	out, err := f.uc.Create(context.Background(), staff, in)
	require.NoError(t, err, "la solicitud debe crearse")
	return out
}

// toVerifying lleva la solicitud hasta verifying: approve → order → entrega.
func (f *fixture) toVerifying(t *testing.T, id string) {
	t.Helper()
	ctx := context.Background()
	_, err := f.uc.Approve(ctx, engineer, id, "")
	require.NoError(t, err)
	_, err = f.uc.Order(ctx, engineer, id, "")
	require.NoError(t, err)
	_, err = f.uc.RecordDelivery(ctx, foreman, id, dto.RecordDeliveryRequest{DeliveredBy: "Transportes Ruiz", Status: entity.DeliveryStatusComplete})
	require.NoError(t, err)
}

func (f *fixture) balance(t *testing.T, materialID, project string) decimal.Decimal {
	t.Helper()
	b, err := f.store.Repos().Movements.Balance(context.Background(), materialID, project)
	require.NoError(t, err)
	return b
}

func TestCreate_NaceEnRequestedConPendienteIgualASolicitado(t *testing.T) {
	f := newFixture(t)
	out := f.create(t, entity.RequestTypeSupplier, map[string]int64{cementID: 10})

	assert.Equal(t, entity.StageRequested, out.CurrentStage)
	assert.Equal(t, entity.RequestStatusPending, out.Status)
	require.Len(t, out.Items, 1)
	assert.True(t, out.Items[0].PendingQuantity.Equal(qty(10)), "pendiente debe ser lo solicitado")

	actions, err := f.uc.ListActions(context.Background(), staff, out.ID)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, entity.ActionCreate, actions[0].Action)
}

func TestCreate_Borrador_SubmitSoloPorQuienLoCreo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	out, err := f.uc.Create(ctx, staff, dto.CreateMaterialRequestRequest{
		ProjectID: projectID, RequestType: entity.RequestTypeMainInventory, Draft: true,
		Items: []dto.CreateMaterialRequestItem{{MaterialID: cementID, Quantity: qty(3)}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StageDraft, out.CurrentStage)

	_, err = f.uc.Submit(ctx, engineer, out.ID, "")
	assert.ErrorIs(t, err, domain.ErrForbidden, "otro usuario no puede enviar el borrador")

	sent, err := f.uc.Submit(ctx, staff, out.ID, "")
	require.NoError(t, err)
	assert.Equal(t, entity.StageRequested, sent.CurrentStage)
}

func TestCreate_ValidaProveedorSegunTipo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	items := []dto.CreateMaterialRequestItem{{MaterialID: cementID, Quantity: qty(1)}}

	_, err := f.uc.Create(ctx, staff, dto.CreateMaterialRequestRequest{ProjectID: projectID, RequestType: entity.RequestTypeSupplier, Items: items})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "supplier sin supplier_id debe fallar")

	_, err = f.uc.Create(ctx, staff, dto.CreateMaterialRequestRequest{ProjectID: projectID, RequestType: entity.RequestTypeMainInventory, SupplierID: supplierID, Items: items})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "main_inventory con supplier_id debe fallar")

	_, err = f.uc.Create(ctx, staff, dto.CreateMaterialRequestRequest{ProjectID: projectID, RequestType: entity.RequestTypeMainInventory})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas debe fallar")

	_, err = f.uc.Create(ctx, staff, dto.CreateMaterialRequestRequest{
		ProjectID: projectID, RequestType: entity.RequestTypeMainInventory,
		Items: []dto.CreateMaterialRequestItem{{MaterialID: cementID, Quantity: qty(0)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero debe fallar")

	list, _, err := f.store.Repos().Requests.List(ctx, repository.MaterialRequestFilter{})
	require.NoError(t, err)
	assert.Empty(t, list, "ninguna solicitud inválida debe persistirse")
}

func TestCreate_ProyectoNoAsignado_Forbidden(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), staff, dto.CreateMaterialRequestRequest{
		ProjectID: otherProj, RequestType: entity.RequestTypeMainInventory,
		Items: []dto.CreateMaterialRequestItem{{MaterialID: cementID, Quantity: qty(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestApprove_RegistraAprobadorYSegundaAprobacionFalla(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.create(t, entity.RequestTypeSupplier, map[string]int64{cementID: 5})

	out, err := f.uc.Approve(ctx, engineer, req.ID, "ok")
	require.NoError(t, err)
	assert.Equal(t, entity.StageApproved, out.CurrentStage)
	assert.Equal(t, entity.RequestStatusApproved, out.Status)
	assert.Equal(t, engineer.UserID, out.ApprovedBy)
	assert.NotNil(t, out.ApprovedAt)

	_, err = f.uc.Approve(ctx, engineer, req.ID, "")
	assert.ErrorIs(t, err, domain.ErrNotFound, "aprobar dos veces no debe afectar filas")

	expected := `
# HELP material_request_transitions_total Transiciones de solicitudes de materiales por tipo y resultado.
# TYPE material_request_transitions_total counter
material_request_transitions_total{result="ok",transition="approve"} 1
material_request_transitions_total{result="ok",transition="create"} 1
material_request_transitions_total{result="rejected",transition="approve"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(f.reg, strings.NewReader(expected), "material_request_transitions_total"))
}

func TestApprove_StaffNoTienePermiso(t *testing.T) {
	f := newFixture(t)
	req := f.create(t, entity.RequestTypeSupplier, map[string]int64{cementID: 5})

	_, err := f.uc.Approve(context.Background(), staff, req.ID, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDecline_CancelaConMotivo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.create(t, entity.RequestTypeSupplier, map[string]int64{cementID: 5})

	out, err := f.uc.Decline(ctx, engineer, req.ID, "presupuesto agotado")
	require.NoError(t, err)
	assert.Equal(t, entity.StageCancelled, out.CurrentStage)
	assert.Equal(t, entity.RequestStatusRejected, out.Status)
	assert.Equal(t, "presupuesto agotado", out.RejectionReason)

	actions, err := f.uc.ListActions(ctx, engineer, req.ID)
	require.NoError(t, err)
	last := actions[len(actions)-1]
	assert.Equal(t, entity.ActionDecline, last.Action)
	assert.Equal(t, "presupuesto agotado", last.Remarks)
	assert.Equal(t, entity.StageRequested, last.FromStage)
	assert.Equal(t, entity.StageCancelled, last.ToStage)

	_, err = f.uc.Order(ctx, engineer, req.ID, "")
	assert.ErrorIs(t, err, domain.ErrNotFound, "una solicitud cancelada no admite más transiciones")
}

func TestDelivery_NoMueveInventario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.create(t, entity.RequestTypeSupplier, map[string]int64{cementID: 10})
	f.toVerifying(t, req.ID)

	got, err := f.uc.Get(ctx, foreman, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StageVerifying, got.CurrentStage)
	assert.True(t, f.balance(t, cementID, projectID).IsZero(), "la entrega no debe asentar movimientos")

	deliveries, err := f.uc.ListDeliveries(ctx, foreman, req.ID)
	require.NoError(t, err)
	assert.Len(t, deliveries, 1)
}

func TestDelivery_AntesDeOrdered_Falla(t *testing.T) {
	f := newFixture(t)
	req := f.create(t, entity.RequestTypeSupplier, map[string]int64{cementID: 10})

	_, err := f.uc.RecordDelivery(context.Background(), foreman, req.ID, dto.RecordDeliveryRequest{DeliveredBy: "x", Status: entity.DeliveryStatusPartial})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelivery_DatosInvalidos_CuentaRechazo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.create(t, entity.RequestTypeSupplier, map[string]int64{cementID: 10})

	for _, in := range []dto.RecordDeliveryRequest{
		{DeliveredBy: "  ", Status: entity.DeliveryStatusComplete},
		{DeliveredBy: "Transportes Ruiz", Status: "lost"},
		{DeliveredBy: "Transportes Ruiz", Status: entity.DeliveryStatusPartial, DeliveryDate: "15/10/2026"},
	} {
		_, err := f.uc.RecordDelivery(ctx, foreman, req.ID, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}

	expected := `
# HELP material_request_transitions_total Transiciones de solicitudes de materiales por tipo y resultado.
# TYPE material_request_transitions_total counter
material_request_transitions_total{result="ok",transition="create"} 1
material_request_transitions_total{result="rejected",transition="deliver"} 3
`
	assert.NoError(t, testutil.GatherAndCompare(f.reg, strings.NewReader(expected), "material_request_transitions_total"))
}

func TestVerify_InventarioCentral_CompletaYMueveLibro(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.create(t, entity.RequestTypeMainInventory, map[string]int64{cementID: 10})
	f.toVerifying(t, req.ID)

	out, err := f.uc.Verify(ctx, foreman, req.ID, dto.VerifyRequest{
		Items: []dto.VerifyItemRequest{{ItemID: req.Items[0].ID, AcceptedQty: qty(10)}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StageCompleted, out.CurrentStage)
	assert.True(t, out.Items[0].PendingQuantity.IsZero())

	assert.True(t, f.balance(t, cementID, projectID).Equal(qty(10)), "el proyecto recibe 10")
	assert.True(t, f.balance(t, cementID, "").Equal(qty(-10)), "el central entrega 10")

	movs, err := f.store.Repos().Movements.List(ctx, repository.MovementFilter{ReferenceID: req.ID})
	require.NoError(t, err)
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, entity.SourceMainInventory, m.Source)
	}
}

func TestVerify_Parcial_YLuegoCompleta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.create(t, entity.RequestTypeSupplier, map[string]int64{cementID: 10})
	f.toVerifying(t, req.ID)
	itemID := req.Items[0].ID

	out, err := f.uc.Verify(ctx, foreman, req.ID, dto.VerifyRequest{
		Items: []dto.VerifyItemRequest{{ItemID: itemID, AcceptedQty: qty(6)}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StagePartiallyVerified, out.CurrentStage)
	assert.True(t, out.Items[0].PendingQuantity.Equal(qty(4)))

	// Una segunda entrega no cambia la etapa
	_, err = f.uc.RecordDelivery(ctx, foreman, req.ID, dto.RecordDeliveryRequest{DeliveredBy: "Transportes Ruiz", Status: entity.DeliveryStatusComplete})
	require.NoError(t, err)

	out, err = f.uc.Verify(ctx, foreman, req.ID, dto.VerifyRequest{
		Items: []dto.VerifyItemRequest{{ItemID: itemID, AcceptedQty: qty(4)}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StageCompleted, out.CurrentStage)
	assert.True(t, f.balance(t, cementID, projectID).Equal(qty(10)))
	assert.True(t, f.balance(t, cementID, "").IsZero(), "supplier no toca el central")

	verifs, err := f.uc.ListVerifications(ctx, foreman, req.ID)
	require.NoError(t, err)
	assert.Len(t, verifs, 2)
}

func TestVerify_ConRechazos_QuedaEnDisputa(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.create(t, entity.RequestTypeSupplier, map[string]int64{cementID: 10})
	f.toVerifying(t, req.ID)

	out, err := f.uc.Verify(ctx, foreman, req.ID, dto.VerifyRequest{
		Items: []dto.VerifyItemRequest{{ItemID: req.Items[0].ID, AcceptedQty: qty(6), RejectedQty: qty(4)}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StageDisputed, out.CurrentStage)

	it := out.Items[0]
	assert.True(t, it.ReceivedQuantity.Equal(it.AcceptedQuantity.Add(it.RejectedQuantity)),
		"recibido debe ser aceptado + rechazado")
	assert.True(t, f.balance(t, cementID, projectID).Equal(qty(6)), "solo lo aceptado entra al proyecto")

	_, err = f.uc.Verify(ctx, foreman, req.ID, dto.VerifyRequest{
		Items: []dto.VerifyItemRequest{{ItemID: req.Items[0].ID, AcceptedQty: qty(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "disputed no admite más verificaciones")

	reviewed, err := f.uc.Review(ctx, engineer, req.ID, "se reclama al proveedor")
	require.NoError(t, err)
	assert.Equal(t, entity.StageDisputed, reviewed.CurrentStage, "la revisión no cambia la etapa")
}

func TestVerify_SuperaPendiente_NoEscribeNada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.create(t, entity.RequestTypeSupplier, map[string]int64{cementID: 10, rebarID: 5})
	f.toVerifying(t, req.ID)

	_, err := f.uc.Verify(ctx, foreman, req.ID, dto.VerifyRequest{
		Items: []dto.VerifyItemRequest{
			{ItemID: req.Items[0].ID, AcceptedQty: qty(10)},
			{ItemID: req.Items[1].ID, AcceptedQty: qty(5), RejectedQty: qty(1)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := f.uc.Get(ctx, foreman, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StageVerifying, got.CurrentStage)
	for _, it := range got.Items {
		assert.True(t, it.ReceivedQuantity.IsZero(), "ninguna línea debe quedar verificada")
	}
	assert.True(t, f.balance(t, cementID, projectID).IsZero())
}

func TestVerify_FallaEnLibro_RevierteTodo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.create(t, entity.RequestTypeMainInventory, map[string]int64{cementID: 10})
	f.toVerifying(t, req.ID)
	logsBefore, err := f.store.Repos().Logs.List(ctx, repository.AuditLogFilter{})
	require.NoError(t, err)

	f.store.FailOn("movements.append", errors.New("disco lleno"))
	_, err = f.uc.Verify(ctx, foreman, req.ID, dto.VerifyRequest{
		Items: []dto.VerifyItemRequest{{ItemID: req.Items[0].ID, AcceptedQty: qty(10)}},
	})
	require.Error(t, err)
	f.store.ClearFailures()

	got, err := f.uc.Get(ctx, foreman, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StageVerifying, got.CurrentStage)
	assert.True(t, got.Items[0].ReceivedQuantity.IsZero())

	verifs, err := f.uc.ListVerifications(ctx, foreman, req.ID)
	require.NoError(t, err)
	assert.Empty(t, verifs, "la verificación no debe persistirse")

	logsAfter, err := f.store.Repos().Logs.List(ctx, repository.AuditLogFilter{})
	require.NoError(t, err)
	assert.Len(t, logsAfter, len(logsBefore), "no debe quedar registro de actividad")
}

func TestList_FiltraPorProyectosAsignados(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, entity.RequestTypeSupplier, map[string]int64{cementID: 1})
	_, err := f.uc.Create(ctx, admin, dto.CreateMaterialRequestRequest{
		ProjectID: otherProj, RequestType: entity.RequestTypeMainInventory,
		Items: []dto.CreateMaterialRequestItem{{MaterialID: cementID, Quantity: qty(2)}},
	})
	require.NoError(t, err)

	mine, err := f.uc.List(ctx, staff, dto.MaterialRequestListQuery{})
	require.NoError(t, err)
	assert.Len(t, mine.Items, 1, "staff solo ve su proyecto")
	assert.Equal(t, 1, mine.Page.Total)

	all, err := f.uc.List(ctx, admin, dto.MaterialRequestListQuery{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2, "admin ve todo")

	_, err = f.uc.List(ctx, staff, dto.MaterialRequestListQuery{ProjectID: otherProj})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestList_EtapaDesconocida_Falla(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, entity.RequestTypeSupplier, map[string]int64{cementID: 1})

	_, err := f.uc.List(ctx, admin, dto.MaterialRequestListQuery{Stage: "bogus"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "una etapa mal escrita no debe parecer una lista vacía")

	docs := materialrequest.NewDocumentUseCase(f.store.Repos(), nil, nil)
	_, err = docs.Export(ctx, admin, dto.MaterialRequestListQuery{Stage: "bogus"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	page, err := f.uc.List(ctx, admin, dto.MaterialRequestListQuery{Stage: entity.StageRequested})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}

func TestGet_ProyectoAjeno_Forbidden(t *testing.T) {
	f := newFixture(t)
	req := f.create(t, entity.RequestTypeSupplier, map[string]int64{cementID: 1})
	outsider := authz.Actor{UserID: "u-x", Role: entity.RoleEngineer, Projects: []string{otherProj}}

	_, err := f.uc.Get(context.Background(), outsider, req.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreate_CantidadConMasDeTresDecimales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, staff, dto.CreateMaterialRequestRequest{
		ProjectID: projectID, RequestType: entity.RequestTypeMainInventory,
		Items: []dto.CreateMaterialRequestItem{{MaterialID: cementID, Quantity: decimal.RequireFromString("2.0005")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "la cantidad no puede redondearse al guardar")

	out, err := f.uc.Create(ctx, staff, dto.CreateMaterialRequestRequest{
		ProjectID: projectID, RequestType: entity.RequestTypeMainInventory,
		Items: []dto.CreateMaterialRequestItem{{MaterialID: cementID, Quantity: decimal.RequireFromString("2.5000")}},
	})
	require.NoError(t, err, "ceros a la derecha no agregan precisión")
	assert.True(t, out.Items[0].RequestedQuantity.Equal(decimal.RequireFromString("2.5")))
}

func TestVerify_CantidadConMasDeTresDecimales_NoEscribeNada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.create(t, entity.RequestTypeSupplier, map[string]int64{cementID: 10})
	f.toVerifying(t, req.ID)

	for _, v := range []string{"0.0004", "0.0006"} {
		_, err := f.uc.Verify(ctx, foreman, req.ID, dto.VerifyRequest{
			Items: []dto.VerifyItemRequest{{ItemID: req.Items[0].ID, AcceptedQty: decimal.RequireFromString(v)}},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "accepted_qty=%s debe rechazarse", v)
	}

	got, err := f.uc.Get(ctx, foreman, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StageVerifying, got.CurrentStage)
	assert.True(t, got.Items[0].ReceivedQuantity.IsZero())
	assert.True(t, f.balance(t, cementID, projectID).IsZero())
}

// Verificaciones simultáneas de la misma línea no cuentan dos veces lo recibido.
func TestVerify_Concurrentes_NoDuplicanRecepcion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.create(t, entity.RequestTypeSupplier, map[string]int64{cementID: 10})
	f.toVerifying(t, req.ID)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  []error
	)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.uc.Verify(ctx, foreman, req.ID, dto.VerifyRequest{
				Items: []dto.VerifyItemRequest{{ItemID: req.Items[0].ID, AcceptedQty: qty(6)}},
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			failures = append(failures, err)
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes, "solo una verificación cabe en lo pendiente")
	for _, err := range failures {
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "las demás exceden lo pendiente")
	}

	got, err := f.uc.Get(ctx, foreman, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StagePartiallyVerified, got.CurrentStage)
	assert.True(t, got.Items[0].ReceivedQuantity.Equal(qty(6)), "recibido esperado 6, obtenido %s", got.Items[0].ReceivedQuantity)
	assert.True(t, f.balance(t, cementID, projectID).Equal(qty(6)), "el libro refleja una sola entrada")

	verifs, err := f.uc.ListVerifications(ctx, foreman, req.ID)
	require.NoError(t, err)
	assert.Len(t, verifs, 1)
}
