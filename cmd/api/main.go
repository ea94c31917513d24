package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/jhoicas/obras-api/docs"
	"github.com/jhoicas/obras-api/internal/application/audit"
	"github.com/jhoicas/obras-api/internal/application/auth"
	"github.com/jhoicas/obras-api/internal/application/inventory"
	"github.com/jhoicas/obras-api/internal/application/materialrequest"
	"github.com/jhoicas/obras-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/obras-api/internal/infrastructure/pdf"
	"github.com/jhoicas/obras-api/internal/infrastructure/postgres"
	infraxlsx "github.com/jhoicas/obras-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/obras-api/internal/interfaces/http"
	"github.com/jhoicas/obras-api/pkg/config"
	"github.com/jhoicas/obras-api/pkg/jwt"
	"github.com/jhoicas/obras-api/pkg/logger"
	"github.com/jhoicas/obras-api/pkg/metrics"
	"github.com/jhoicas/obras-api/pkg/migrate"
	"github.com/jhoicas/obras-api/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.Migrate.AutoMigrate {
		if err := migrate.Up(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	// Redis es opcional: sin él el login no tiene límite de intentos
	loginLimit := httpRouter.LoginLimit{
		Limit:  int64(cfg.RateLimit.LoginLimit),
		Window: cfg.RateLimit.LoginWindow,
	}
	if cfg.Redis.Enabled() {
		rdb, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, login sin rate limit")
		} else {
			defer rdb.Close()
			loginLimit.Limiter = rdb
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	lifecycle := metrics.NewLifecycle(reg)
	httpMetrics := metrics.NewHTTP(reg)

	txRunner := postgres.NewTxRunner(pool)
	repos := postgres.NewRepos(pool)

	authUC := auth.NewAuthUseCase(repos.Users, repos.Projects, jwt.Options{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	requestUC := materialrequest.NewUseCase(txRunner, repos, lifecycle)
	documentUC := materialrequest.NewDocumentUseCase(repos,
		infrapdf.NewRequestRenderer(cfg.App.Name),
		infraxlsx.NewExporter(),
	)
	inventoryUC := inventory.NewUseCase(txRunner, repos, lifecycle)
	materialUC := usecase.NewMaterialUseCase(txRunner, repos)
	catalogUC := usecase.NewCatalogUseCase(txRunner, repos)
	projectUC := usecase.NewProjectUseCase(txRunner, repos)
	workUC := usecase.NewWorkUseCase(txRunner, repos)
	assetUC := usecase.NewAssetUseCase(txRunner, repos)
	userUC := usecase.NewUserUseCase(txRunner, repos, bcrypt.DefaultCost)
	auditUC := audit.NewUseCase(repos.Logs)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.AccessLog(log))
	if cfg.Metrics.Enabled {
		app.Use(httpRouter.Metrics(httpMetrics))
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	}

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Obras API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		pingCtx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name, "db": "down"})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "db": "up"})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		RequestUC:   requestUC,
		DocumentUC:  documentUC,
		InventoryUC: inventoryUC,
		MaterialUC:  materialUC,
		CatalogUC:   catalogUC,
		ProjectUC:   projectUC,
		WorkUC:      workUC,
		AssetUC:     assetUC,
		UserUC:      userUC,
		AuditUC:     auditUC,
		JWTSecret:   cfg.JWT.Secret,
		Cookie: httpRouter.CookieConfig{
			Name:   cfg.JWT.CookieName,
			Secure: cfg.JWT.CookieSecure,
		},
		LoginLimit: loginLimit,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
