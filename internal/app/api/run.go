// Package api assembles and boots the cafe point-of-sale HTTP API.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	menuhttp "github.com/cafepos/cafe-api-server/internal/domains/menu/adapters/http"
	menumemory "github.com/cafepos/cafe-api-server/internal/domains/menu/adapters/memory"
	menupostgres "github.com/cafepos/cafe-api-server/internal/domains/menu/adapters/persistence/postgres"
	menuapp "github.com/cafepos/cafe-api-server/internal/domains/menu/application"
	menuports "github.com/cafepos/cafe-api-server/internal/domains/menu/ports"

	ordershttp "github.com/cafepos/cafe-api-server/internal/domains/orders/adapters/http"
	ordersmemory "github.com/cafepos/cafe-api-server/internal/domains/orders/adapters/memory"
	ordersobs "github.com/cafepos/cafe-api-server/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/cafepos/cafe-api-server/internal/domains/orders/adapters/persistence/postgres"
	"github.com/cafepos/cafe-api-server/internal/domains/orders/adapters/receipt"
	ordersworkflows "github.com/cafepos/cafe-api-server/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/cafepos/cafe-api-server/internal/domains/orders/application"
	ordersports "github.com/cafepos/cafe-api-server/internal/domains/orders/ports"

	reportshttp "github.com/cafepos/cafe-api-server/internal/domains/reports/adapters/http"
	reportsmemory "github.com/cafepos/cafe-api-server/internal/domains/reports/adapters/memory"
	reportspostgres "github.com/cafepos/cafe-api-server/internal/domains/reports/adapters/persistence/postgres"
	reportsapp "github.com/cafepos/cafe-api-server/internal/domains/reports/application"
	reportsports "github.com/cafepos/cafe-api-server/internal/domains/reports/ports"

	usershttp "github.com/cafepos/cafe-api-server/internal/domains/users/adapters/http"
	usersmemory "github.com/cafepos/cafe-api-server/internal/domains/users/adapters/memory"
	usersobs "github.com/cafepos/cafe-api-server/internal/domains/users/adapters/observability"
	userspostgres "github.com/cafepos/cafe-api-server/internal/domains/users/adapters/persistence/postgres"
	usersapp "github.com/cafepos/cafe-api-server/internal/domains/users/application"
	userports "github.com/cafepos/cafe-api-server/internal/domains/users/ports"

	"github.com/cafepos/cafe-api-server/internal/platform/migrations"
	platformobservability "github.com/cafepos/cafe-api-server/internal/platform/observability"
	platformpostgres "github.com/cafepos/cafe-api-server/internal/platform/postgres"
)

// Run boots the cafe HTTP API with observability, repositories, and workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "cafe-api"

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := connectDatabase(ctx, cfg, logger)
	defer cleanupDB()

	repos := buildRepositories(db, cfg, logger)

	var settler ordersports.Settler = ordersworkflows.NewInlineSettler(repos.orders)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal unavailable, settling orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		settler = ordersworkflows.NewTemporalSettler(temporalClient)
		logger.Info("Temporal order settlement enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	coordinator := ordersobs.New(
		ordersapp.NewCoordinator(repos.orders, settler),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	menuService := menuapp.NewService(repos.menu)
	if err := menuService.EnsureDefaultMenu(ctx); err != nil {
		logger.Warn("failed to seed default menu", slog.String("error", err.Error()))
	}

	userService := usersobs.New(
		usersapp.NewService(repos.users, repos.sessions),
		usersobs.WithLogger(logger),
		usersobs.WithTracer(instruments.Tracer("internal.users.application")),
		usersobs.WithMeter(instruments.Meter("internal.users.application")),
	)
	seedAdminAccount(ctx, cfg, userService, logger)

	reportService := reportsapp.NewService(repos.reports)

	router := buildRouter(serviceName, cfg, coordinator, menuService, userService, reportService)

	addr := ":" + cfg.Port
	logger.Info("cafe API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("cafe API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

type repositories struct {
	orders   ordersports.Repository
	menu     menuports.Repository
	users    userports.Repository
	sessions userports.SessionStore
	reports  reportsports.Repository
}

func connectDatabase(ctx context.Context, cfg Config, logger *slog.Logger) (*gorm.DB, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
		return nil, func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to in-memory repositories", slog.String("error", err.Error()))
		return nil, func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Error("failed to run migrations", slog.String("error", err.Error()))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to in-memory repositories", slog.String("error", err.Error()))
		return nil, func() {}
	}
	logger.Info("postgres connection established")
	return db, func() { _ = sqlDB.Close() }
}

func buildRepositories(db *gorm.DB, cfg Config, logger *slog.Logger) repositories {
	if db == nil {
		orderRepo := ordersmemory.NewRepository()
		return repositories{
			orders:   orderRepo,
			menu:     menumemory.NewRepository(),
			users:    usersmemory.NewRepository(),
			sessions: usersmemory.NewSessionStore(),
			reports:  reportsmemory.NewRepository(orderRepo),
		}
	}
	logger.Info("repositories configured with postgres")
	return repositories{
		orders:   orderspostgres.NewRepository(db),
		menu:     menupostgres.NewRepository(db),
		users:    userspostgres.NewRepository(db),
		sessions: userspostgres.NewSessionStore(db, cfg.SessionTTL),
		reports:  reportspostgres.NewRepository(db),
	}
}

func buildRouter(
	serviceName string,
	cfg Config,
	coordinator ordersports.Coordinator,
	menuService *menuapp.Service,
	userService userports.Service,
	reportService *reportsapp.Service,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))

	orderHandler := ordershttp.NewHandler(coordinator, receipt.NewRenderer(cfg.Business))
	menuHandler := menuhttp.NewHandler(menuService)
	userHandler := usershttp.NewHandler(userService)
	reportHandler := reportshttp.NewHandler(reportService)

	public := router.Group("/api/v1")
	userHandler.Register(public)
	menuHandler.Register(public)

	protected := router.Group("/api/v1", usershttp.RequireAuth(userService))
	userHandler.RegisterProtected(protected)
	orderHandler.Register(protected)

	admin := router.Group("/api/v1", usershttp.RequireAuth(userService), usershttp.RequireAdmin())
	userHandler.RegisterAdmin(admin)
	menuHandler.RegisterAdmin(admin)
	reportHandler.Register(admin)

	return router
}

// seedAdminAccount creates the bootstrap admin when no staff exist yet.
func seedAdminAccount(ctx context.Context, cfg Config, users userports.Service, logger *slog.Logger) {
	existing, err := users.List(ctx)
	if err != nil {
		logger.Warn("failed to check staff accounts", slog.String("error", err.Error()))
		return
	}
	if len(existing) > 0 {
		return
	}
	password := cfg.AdminPassword
	if password == "" {
		password = "admin1234"
		logger.Warn("ADMIN_PASSWORD not set, seeding admin with the default password")
	}
	if _, err := users.Register(ctx, cfg.AdminUsername, password, "Administrator", "admin"); err != nil {
		logger.Warn("failed to seed admin account", slog.String("error", err.Error()))
	}
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
