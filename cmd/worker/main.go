package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	ordersmemory "github.com/cafepos/cafe-api-server/internal/domains/orders/adapters/memory"
	orderspostgres "github.com/cafepos/cafe-api-server/internal/domains/orders/adapters/persistence/postgres"
	ordersports "github.com/cafepos/cafe-api-server/internal/domains/orders/ports"
	orderactivities "github.com/cafepos/cafe-api-server/internal/durable/temporal/activities/orders"
	orderworkflows "github.com/cafepos/cafe-api-server/internal/durable/temporal/workflows/orders"
	"github.com/cafepos/cafe-api-server/internal/platform/migrations"
	platformobservability "github.com/cafepos/cafe-api-server/internal/platform/observability"
	platformpostgres "github.com/cafepos/cafe-api-server/internal/platform/postgres"
)

func main() {
	ctx := context.Background()
	const serviceName = "cafe-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	orderRepo, cleanupRepo := buildOrderRepository(ctx, logger)
	defer cleanupRepo()
	activities := orderactivities.NewActivities(orderRepo)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderSettlementTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderSettlementWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderSettlementWorkflowName})
	w.RegisterActivityWithOptions(activities.SettleOrder, activity.RegisterOptions{Name: orderactivities.SettleOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderSettlementTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildOrderRepository(ctx context.Context, logger *slog.Logger) (ordersports.Repository, func()) {
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	if db == nil {
		logger.Warn("worker settling orders against an in-memory repository")
		return ordersmemory.NewRepository(), cleanup
	}
	if err := migrations.Run(db); err != nil {
		logger.Error("failed to run migrations", slog.String("error", err.Error()))
	}
	logger.Info("worker order repository configured with postgres")
	return orderspostgres.NewRepository(db), cleanup
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
