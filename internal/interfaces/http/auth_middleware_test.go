package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/obras-api/internal/domain/authz"
	"github.com/jhoicas/obras-api/internal/domain/entity"
	apphttp "github.com/jhoicas/obras-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/obras-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret  = "test-secret-key-for-unit-tests"
	testUserID     = "00000000-0000-0000-0000-000000000001"
	testProjectID  = "00000000-0000-0000-0000-0000000000aa"
	testCookieName = "session"
)

// fakeExpirer registra los usuarios cuya sesión se cerró por token expirado.
type fakeExpirer struct {
	mu      sync.Mutex
	expired []string
}

func (f *fakeExpirer) ExpireSession(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expired = append(f.expired, userID)
	return nil
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para validar la sesión y cargar el actor
//   - RequirePermission para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(p authz.Permission, expirer apphttp.SessionExpirer) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Get("/protected",
		apphttp.AuthMiddleware(apphttp.AuthConfig{
			Secret:     testJWTSecret,
			CookieName: testCookieName,
			Expirer:    expirer,
		}),
		apphttp.RequirePermission(p),
		func(c *fiber.Ctx) error {
			actor, _ := apphttp.GetActor(c)
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":       true,
				"role":     actor.Role,
				"user_id":  actor.UserID,
				"projects": actor.Projects,
			})
		},
	)
	return app
}

// tokenFor genera un JWT con el rol indicado; expMin negativo produce un token expirado.
func tokenFor(t *testing.T, role string, expMin int) string {
	t.Helper()
	tok, _, err := pkgjwt.Generate(pkgjwt.Options{Secret: testJWTSecret, Issuer: "obras-api-test", ExpMinutes: expMin},
		testUserID, role, []string{testProjectID})
	require.NoError(t, err, "debe generarse un token JWT válido")
	return tok
}

// doRequest lanza GET /protected con el header Authorization y/o la cookie indicados.
func doRequest(t *testing.T, app *fiber.App, authHeader, cookie string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: cookie})
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func bodyString(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequirePermission
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: el rol tiene el permiso → HTTP 200.
func TestRequirePermission_IngenieroApruebaSolicitudes(t *testing.T) {
	app := buildTestApp(authz.RequestApprove, nil)
	resp := doRequest(t, app, "Bearer "+tokenFor(t, entity.RoleEngineer, 60), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"engineer debe poder aprobar solicitudes")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"], "la respuesta debe incluir ok:true")
	assert.Equal(t, entity.RoleEngineer, body["role"])
}

// Caso 1b: admin tiene todos los permisos.
func TestRequirePermission_AdminTieneTodo(t *testing.T) {
	app := buildTestApp(authz.InventoryAdjust, nil)
	resp := doRequest(t, app, "Bearer "+tokenFor(t, entity.RoleAdmin, 60), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// Caso 2: el rol no tiene el permiso → HTTP 403 FORBIDDEN.
func TestRequirePermission_PersonalNoApruebaSolicitudes(t *testing.T) {
	app := buildTestApp(authz.RequestApprove, nil)
	resp := doRequest(t, app, "Bearer "+tokenFor(t, entity.RoleStaff, 60), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"staff no debe poder aprobar solicitudes")
	assert.Contains(t, bodyString(t, resp), "FORBIDDEN",
		"la respuesta de error debe incluir el código FORBIDDEN")
}

// Caso 2b: ingeniero no registra entregas (solo admin y capataz).
func TestRequirePermission_IngenieroNoRegistraEntregas(t *testing.T) {
	app := buildTestApp(authz.RequestDeliver, nil)
	resp := doRequest(t, app, "Bearer "+tokenFor(t, entity.RoleEngineer, 60), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

// Sin cookie ni header → HTTP 401 MISSING_TOKEN.
func TestAuthMiddleware_SinSesion_MissingToken(t *testing.T) {
	app := buildTestApp(authz.RequestRead, nil)
	resp := doRequest(t, app, "", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), apphttp.CodeMissingToken)
}

// Token malformado → HTTP 401 INVALID_TOKEN.
func TestAuthMiddleware_TokenInvalido_InvalidToken(t *testing.T) {
	app := buildTestApp(authz.RequestRead, nil)
	resp := doRequest(t, app, "Bearer token.invalido.aqui", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), apphttp.CodeInvalidToken)
}

// Header sin esquema Bearer → HTTP 401 INVALID_TOKEN.
func TestAuthMiddleware_HeaderSinBearer_InvalidToken(t *testing.T) {
	app := buildTestApp(authz.RequestRead, nil)
	resp := doRequest(t, app, "Basic abc", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), apphttp.CodeInvalidToken)
}

// Token expirado → HTTP 401 TOKEN_EXPIRED y la sesión del usuario se cierra.
func TestAuthMiddleware_TokenExpirado_CierraSesion(t *testing.T) {
	expirer := &fakeExpirer{}
	app := buildTestApp(authz.RequestRead, expirer)
	resp := doRequest(t, app, "", tokenFor(t, entity.RoleForeman, -1))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), apphttp.CodeTokenExpired,
		"el cliente debe poder distinguir una sesión expirada")
	assert.Equal(t, []string{testUserID}, expirer.expired,
		"el usuario deja de figurar en línea")
}

// Token firmado con otro secret → INVALID_TOKEN, sin cerrar sesión.
func TestAuthMiddleware_SecretIncorrecto_NoCierraSesion(t *testing.T) {
	expirer := &fakeExpirer{}
	app := buildTestApp(authz.RequestRead, expirer)
	tok, _, err := pkgjwt.Generate(pkgjwt.Options{Secret: "otro-secret", ExpMinutes: -1}, testUserID, entity.RoleAdmin, nil)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok, "")
	defer resp.Body.Close()

	assert.Contains(t, bodyString(t, resp), apphttp.CodeInvalidToken)
	assert.Empty(t, expirer.expired, "un token ajeno no identifica a nadie")
}

// La cookie de sesión se acepta y tiene prioridad sobre el header.
func TestAuthMiddleware_CookieExtraeActor(t *testing.T) {
	app := buildTestApp(authz.RequestRead, nil)
	resp := doRequest(t, app, "Bearer basura", tokenFor(t, entity.RoleForeman, 60))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		UserID   string   `json:"user_id"`
		Role     string   `json:"role"`
		Projects []string `json:"projects"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body.UserID)
	assert.Equal(t, entity.RoleForeman, body.Role)
	assert.Equal(t, []string{testProjectID}, body.Projects)
}
