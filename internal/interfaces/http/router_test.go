package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/obras-api/internal/application/audit"
	"github.com/jhoicas/obras-api/internal/application/auth"
	"github.com/jhoicas/obras-api/internal/application/dto"
	"github.com/jhoicas/obras-api/internal/application/inventory"
	"github.com/jhoicas/obras-api/internal/application/materialrequest"
	"github.com/jhoicas/obras-api/internal/application/usecase"
	"github.com/jhoicas/obras-api/internal/domain/entity"
	"github.com/jhoicas/obras-api/internal/infrastructure/memstore"
	"github.com/jhoicas/obras-api/internal/infrastructure/pdf"
	"github.com/jhoicas/obras-api/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/obras-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/obras-api/pkg/jwt"
	"github.com/jhoicas/obras-api/pkg/logger"
	"github.com/jhoicas/obras-api/pkg/metrics"
)

const (
	flowProject  = "10000000-0000-0000-0000-000000000001"
	flowSupplier = "20000000-0000-0000-0000-000000000001"
	flowCement   = "30000000-0000-0000-0000-000000000001"
	flowPassword = "clave-segura"
)

// fakeLimiter permite max intentos por scope.
type fakeLimiter struct {
	mu     sync.Mutex
	max    int64
	counts map[string]int64
}

func (f *fakeLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[scope]++
	return f.counts[scope] <= f.max, f.counts[scope], nil
}

type flow struct {
	app   *fiber.App
	store *memstore.Store
}

func newFlow(t *testing.T, limiter apphttp.RateLimiter) *flow {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()
	r := store.Repos()
	now := time.Now()

	hash, err := bcrypt.GenerateFromPassword([]byte(flowPassword), bcrypt.MinCost)
	require.NoError(t, err)
	users := []struct{ id, email, role string }{
		{"40000000-0000-0000-0000-000000000001", "personal@obra.co", entity.RoleStaff},
		{"40000000-0000-0000-0000-000000000002", "ingeniera@obra.co", entity.RoleEngineer},
		{"40000000-0000-0000-0000-000000000003", "capataz@obra.co", entity.RoleForeman},
	}
	require.NoError(t, r.Projects.Create(ctx, &entity.Project{ID: flowProject, Name: "Torre Norte", Status: entity.ProjectStatusActive, CreatedAt: now}))
	for _, u := range users {
		require.NoError(t, r.Users.Create(ctx, &entity.User{
			ID: u.id, Email: u.email, PasswordHash: string(hash), Name: u.email,
			Role: u.role, Status: entity.UserStatusActive, CreatedAt: now,
		}))
		require.NoError(t, r.Projects.AddMember(ctx, flowProject, u.id))
	}
	require.NoError(t, r.Suppliers.Create(ctx, &entity.Supplier{ID: flowSupplier, Name: "Cementos Andinos", CreatedAt: now}))
	require.NoError(t, r.Materials.Create(ctx, &entity.Material{ID: flowCement, Name: "Cemento gris", NameKey: "cemento gris", Status: entity.MaterialStatusApproved}))

	lifecycle := metrics.NewLifecycle(prometheus.NewRegistry())
	requestUC := materialrequest.NewUseCase(store, r, lifecycle)
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Use(apphttp.AccessLog(logger.Nop()))
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      auth.NewAuthUseCase(r.Users, r.Projects, pkgjwt.Options{Secret: testJWTSecret, Issuer: "test", ExpMinutes: 60}),
		RequestUC:   requestUC,
		DocumentUC:  materialrequest.NewDocumentUseCase(r, pdf.NewRequestRenderer("Constructora Test"), xlsx.NewExporter()),
		InventoryUC: inventory.NewUseCase(store, r, lifecycle),
		MaterialUC:  usecase.NewMaterialUseCase(store, r),
		CatalogUC:   usecase.NewCatalogUseCase(store, r),
		ProjectUC:   usecase.NewProjectUseCase(store, r),
		WorkUC:      usecase.NewWorkUseCase(store, r),
		AssetUC:     usecase.NewAssetUseCase(store, r),
		UserUC:      usecase.NewUserUseCase(store, r, bcrypt.MinCost),
		AuditUC:     audit.NewUseCase(r.Logs),
		JWTSecret:   testJWTSecret,
		Cookie:      apphttp.CookieConfig{Name: testCookieName},
		LoginLimit:  apphttp.LoginLimit{Limiter: limiter, Limit: 3, Window: time.Minute},
	})
	return &flow{app: app, store: store}
}

// call envía un request JSON con la cookie de sesión indicada.
func (f *flow) call(t *testing.T, method, path, session string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: session})
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// login devuelve el valor de la cookie de sesión emitida.
func (f *flow) login(t *testing.T, email string) string {
	t.Helper()
	resp := f.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: flowPassword})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, "el login de %s debe funcionar", email)
	for _, ck := range resp.Cookies() {
		if ck.Name == testCookieName {
			assert.True(t, ck.HttpOnly, "la cookie de sesión debe ser HttpOnly")
			return ck.Value
		}
	}
	t.Fatalf("el login no emitió la cookie %s", testCookieName)
	return ""
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRouter_CicloCompletoDeSolicitud(t *testing.T) {
	f := newFlow(t, nil)
	staff := f.login(t, "personal@obra.co")
	engineer := f.login(t, "ingeniera@obra.co")
	foreman := f.login(t, "capataz@obra.co")

	// Crear
	resp := f.call(t, http.MethodPost, "/api/material-requests", staff, dto.CreateMaterialRequestRequest{
		ProjectID: flowProject, RequestType: entity.RequestTypeSupplier, SupplierID: flowSupplier,
		Items: []dto.CreateMaterialRequestItem{{MaterialID: flowCement, Quantity: decimal.NewFromInt(10)}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.MaterialRequestResponse](t, resp)
	assert.Equal(t, entity.StageRequested, created.CurrentStage)
	require.Len(t, created.Items, 1)
	base := "/api/material-requests/" + created.ID

	// El personal no aprueba
	resp = f.call(t, http.MethodPut, base+"/approve", staff, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "staff no tiene permiso de aprobación")

	// Aprobar y ordenar
	resp = f.call(t, http.MethodPut, base+"/approve", engineer, dto.TransitionRequest{Remarks: "ok"})
	approved := decode[dto.MaterialRequestResponse](t, resp)
	assert.Equal(t, entity.StageApproved, approved.CurrentStage)
	assert.Equal(t, entity.RequestStatusApproved, approved.Status)

	resp = f.call(t, http.MethodPut, base+"/order", engineer, nil)
	assert.Equal(t, entity.StageOrdered, decode[dto.MaterialRequestResponse](t, resp).CurrentStage)

	// Ordenar dos veces no es una transición válida
	resp = f.call(t, http.MethodPut, base+"/order", engineer, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "la transición no existe desde ordered")

	// Entrega
	resp = f.call(t, http.MethodPost, base+"/deliveries", foreman, dto.RecordDeliveryRequest{
		DeliveredBy: "Transportes Ruiz", Status: entity.DeliveryStatusComplete,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Verificar todo aceptado
	resp = f.call(t, http.MethodPost, base+"/verify", foreman, dto.VerifyRequest{
		Items: []dto.VerifyItemRequest{{ItemID: created.Items[0].ID, AcceptedQty: decimal.NewFromInt(10)}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	verified := decode[dto.MaterialRequestResponse](t, resp)
	assert.Equal(t, entity.StageCompleted, verified.CurrentStage)
	assert.True(t, verified.Items[0].PendingQuantity.IsZero(), "no queda nada pendiente")

	// El saldo del proyecto refleja lo aceptado
	resp = f.call(t, http.MethodGet, "/api/inventory/balance?item_id="+flowCement+"&project_id="+flowProject, engineer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	bal := decode[dto.BalanceResponse](t, resp)
	assert.True(t, bal.Quantity.Equal(decimal.NewFromInt(10)), "saldo esperado 10, obtenido %s", bal.Quantity)

	// Bitácora: create, approve, order, deliver, verify
	resp = f.call(t, http.MethodGet, base+"/actions", staff, nil)
	actions := decode[[]dto.MaterialRequestActionResponse](t, resp)
	assert.Len(t, actions, 5)

	// PDF
	resp = f.call(t, http.MethodGet, base+"/pdf", staff, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
}

func TestRouter_CrearSinItems_Validation(t *testing.T) {
	f := newFlow(t, nil)
	staff := f.login(t, "personal@obra.co")

	resp := f.call(t, http.MethodPost, "/api/material-requests", staff, map[string]any{
		"project_id":   flowProject,
		"request_type": entity.RequestTypeMainInventory,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, apphttp.CodeValidation, body.Code)
	assert.Contains(t, body.Details, "items", "el detalle debe señalar el campo items")
}

func TestRouter_IDMalformado_BadRequest(t *testing.T) {
	f := newFlow(t, nil)
	staff := f.login(t, "personal@obra.co")

	resp := f.call(t, http.MethodGet, "/api/material-requests/no-es-uuid", staff, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_SinSesion_Unauthorized(t *testing.T) {
	f := newFlow(t, nil)

	resp := f.call(t, http.MethodGet, "/api/material-requests", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_LoginCredencialesInvalidas(t *testing.T) {
	f := newFlow(t, nil)

	resp := f.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "personal@obra.co", Password: "otra-clave"})
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apphttp.CodeUnauthorized, body.Code)
}

func TestRouter_LoginLimitado_TooManyRequests(t *testing.T) {
	f := newFlow(t, &fakeLimiter{max: 3, counts: map[string]int64{}})

	var last int
	for i := 0; i < 4; i++ {
		resp := f.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "personal@obra.co", Password: "otra-clave"})
		resp.Body.Close()
		last = resp.StatusCode
	}
	assert.Equal(t, http.StatusTooManyRequests, last, "el cuarto intento supera el límite")
}

func TestRouter_LogoutLimpiaCookie(t *testing.T) {
	f := newFlow(t, nil)
	staff := f.login(t, "personal@obra.co")

	resp := f.call(t, http.MethodGet, "/api/auth/me", staff, nil)
	me := decode[dto.UserResponse](t, resp)
	assert.Equal(t, "personal@obra.co", me.Email)

	resp = f.call(t, http.MethodPost, "/api/auth/logout", staff, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cleared bool
	for _, ck := range resp.Cookies() {
		if ck.Name == testCookieName && ck.Value == "" {
			cleared = true
		}
	}
	assert.True(t, cleared, "el logout debe vaciar la cookie de sesión")

	u, err := f.store.Repos().Users.GetByID(context.Background(), "40000000-0000-0000-0000-000000000001")
	require.NoError(t, err)
	assert.False(t, u.IsActive, "el usuario deja de figurar en línea")
}
