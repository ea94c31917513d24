package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/obras-api/internal/application/audit"
	"github.com/jhoicas/obras-api/internal/application/auth"
	"github.com/jhoicas/obras-api/internal/application/inventory"
	"github.com/jhoicas/obras-api/internal/application/materialrequest"
	"github.com/jhoicas/obras-api/internal/application/usecase"
	"github.com/jhoicas/obras-api/internal/domain/authz"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	RequestUC   *materialrequest.UseCase
	DocumentUC  *materialrequest.DocumentUseCase
	InventoryUC *inventory.UseCase
	MaterialUC  *usecase.MaterialUseCase
	CatalogUC   *usecase.CatalogUseCase
	ProjectUC   *usecase.ProjectUseCase
	WorkUC      *usecase.WorkUseCase
	AssetUC     *usecase.AssetUseCase
	UserUC      *usecase.UserUseCase
	AuditUC     *audit.UseCase
	JWTSecret   string
	Cookie      CookieConfig
	LoginLimit  LoginLimit
}

// Router registra las rutas de la API. Cada ruta declara el permiso que exige;
// el alcance por proyecto lo resuelven los casos de uso con el Actor.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	p := RequirePermission

	// Auth (login público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Cookie, deps.LoginLimit)
	api.Post("/auth/login", authHandler.Login)

	protected := api.Group("/", AuthMiddleware(AuthConfig{
		Secret:     deps.JWTSecret,
		CookieName: deps.Cookie.Name,
		Expirer:    deps.AuthUC,
	}))
	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/me", authHandler.Me)

	// Solicitudes de materiales
	mr := NewMaterialRequestHandler(deps.RequestUC, deps.DocumentUC)
	requests := protected.Group("/material-requests")
	requests.Post("/", p(authz.RequestCreate), mr.Create)
	requests.Get("/", p(authz.RequestRead), mr.List)
	requests.Get("/export", p(authz.RequestExport), mr.Export)
	requests.Get("/:id", p(authz.RequestRead), mr.Get)
	requests.Put("/:id/submit", p(authz.RequestSubmit), mr.Submit)
	requests.Put("/:id/approve", p(authz.RequestApprove), mr.Approve)
	requests.Put("/:id/decline", p(authz.RequestDecline), mr.Decline)
	requests.Put("/:id/order", p(authz.RequestOrder), mr.Order)
	requests.Post("/:id/deliveries", p(authz.RequestDeliver), mr.RecordDelivery)
	requests.Get("/:id/deliveries", p(authz.RequestRead), mr.ListDeliveries)
	requests.Post("/:id/verify", p(authz.RequestVerify), mr.Verify)
	requests.Get("/:id/verifications", p(authz.RequestRead), mr.ListVerifications)
	requests.Post("/:id/review", p(authz.RequestReview), mr.Review)
	requests.Get("/:id/actions", p(authz.RequestRead), mr.ListActions)
	requests.Get("/:id/pdf", p(authz.RequestRead), mr.PDF)

	// Libro de inventario
	inv := NewInventoryHandler(deps.InventoryUC)
	invGroup := protected.Group("/inventory")
	invGroup.Get("/balance", p(authz.InventoryRead), inv.Balance)
	invGroup.Get("/balances", p(authz.InventoryRead), inv.Balances)
	invGroup.Get("/movements", p(authz.InventoryRead), inv.ListMovements)
	invGroup.Post("/movements", p(authz.InventoryAdjust), inv.RegisterMovement)

	// Catálogo de materiales
	mat := NewMaterialHandler(deps.MaterialUC)
	items := protected.Group("/items")
	items.Post("/", p(authz.MaterialCreate), mat.Create)
	items.Get("/", p(authz.MaterialRead), mat.List)
	items.Get("/:id", p(authz.MaterialRead), mat.GetByID)
	items.Put("/:id", p(authz.MaterialUpdate), mat.Update)
	items.Put("/:id/approve", p(authz.MaterialApprove), mat.Approve)
	items.Delete("/:id", p(authz.MaterialDelete), mat.Delete)

	cat := NewCatalogHandler(deps.CatalogUC)
	protected.Post("/suppliers", p(authz.CatalogManage), cat.CreateSupplier)
	protected.Get("/suppliers", p(authz.CatalogRead), cat.ListSuppliers)
	protected.Post("/categories", p(authz.CatalogManage), cat.CreateCategory)
	protected.Get("/categories", p(authz.CatalogRead), cat.ListCategories)
	protected.Post("/units", p(authz.CatalogManage), cat.CreateUnit)
	protected.Get("/units", p(authz.CatalogRead), cat.ListUnits)

	// Proyectos, hitos y tareas
	proj := NewProjectHandler(deps.ProjectUC)
	work := NewWorkHandler(deps.WorkUC)
	projects := protected.Group("/projects")
	projects.Post("/", p(authz.ProjectManage), proj.Create)
	projects.Get("/", p(authz.ProjectRead), proj.List)
	projects.Get("/:id", p(authz.ProjectRead), proj.GetByID)
	projects.Put("/:id", p(authz.ProjectManage), proj.Update)
	projects.Post("/:id/members", p(authz.ProjectManage), proj.AssignMember)
	projects.Delete("/:id/members/:userId", p(authz.ProjectManage), proj.RemoveMember)
	projects.Post("/:id/milestones", p(authz.MilestoneManage), work.CreateMilestone)
	projects.Get("/:id/milestones", p(authz.ProjectRead), work.ListMilestones)
	projects.Post("/:id/tasks", p(authz.TaskManage), work.CreateTask)
	projects.Get("/:id/tasks", p(authz.ProjectRead), work.ListTasks)
	protected.Put("/milestones/:id", p(authz.MilestoneManage), work.UpdateMilestone)
	protected.Delete("/milestones/:id", p(authz.MilestoneManage), work.DeleteMilestone)
	protected.Put("/tasks/:id", p(authz.TaskManage), work.UpdateTask)
	protected.Delete("/tasks/:id", p(authz.TaskManage), work.DeleteTask)

	// Activos
	asset := NewAssetHandler(deps.AssetUC)
	assets := protected.Group("/assets")
	assets.Post("/", p(authz.AssetManage), asset.Create)
	assets.Get("/", p(authz.AssetRead), asset.List)
	assets.Get("/:id", p(authz.AssetRead), asset.GetByID)
	assets.Put("/:id", p(authz.AssetManage), asset.Update)

	// Personal; GET /:id lo resuelve el caso de uso (cada quien puede verse a sí mismo)
	user := NewUserHandler(deps.UserUC)
	users := protected.Group("/users")
	users.Post("/", p(authz.UserManage), user.Create)
	users.Get("/", p(authz.UserRead), user.List)
	users.Get("/:id", user.GetByID)

	// Registro de actividad
	logs := NewAuditHandler(deps.AuditUC)
	protected.Get("/logs", p(authz.LogRead), logs.List)
}
