package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/client"

	"github.com/cafepos/cafe-api-server/internal/domains/orders/application"
	"github.com/cafepos/cafe-api-server/internal/domains/orders/application/types"
	"github.com/cafepos/cafe-api-server/internal/domains/orders/domain"
	"github.com/cafepos/cafe-api-server/internal/domains/orders/ports"
	orderworkflows "github.com/cafepos/cafe-api-server/internal/durable/temporal/workflows/orders"
)

var (
	_ ports.Settler = (*TemporalSettler)(nil)
	_ ports.Settler = (*InlineSettler)(nil)
)

// TemporalSettler persists closed orders through a durable Temporal
// workflow, so a flaky database does not lose a settled ticket.
type TemporalSettler struct {
	client    client.Client
	taskQueue string
}

// NewTemporalSettler wires a Temporal client into the settler.
func NewTemporalSettler(c client.Client) *TemporalSettler {
	return &TemporalSettler{client: c, taskQueue: orderworkflows.OrderSettlementTaskQueue}
}

// Settle starts the settlement workflow and waits for the persisted identifier.
func (s *TemporalSettler) Settle(ctx context.Context, order *domain.Order) (int64, error) {
	if s == nil || s.client == nil {
		return 0, errors.New("temporal order settler not configured")
	}
	snapshot := types.Snapshot(order)
	options := client.StartWorkflowOptions{
		ID:        buildSettlementWorkflowID(snapshot, ctx),
		TaskQueue: s.taskQueue,
	}
	run, err := s.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.OrderSettlementWorkflow,
		orderworkflows.OrderSettlementWorkflowInput{Order: snapshot, TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		return 0, err
	}
	var id int64
	if err := run.Get(ctx, &id); err != nil {
		return 0, err
	}
	return id, nil
}

// InlineSettler settles synchronously against the repository, useful for
// tests or when no Temporal cluster is reachable.
type InlineSettler struct {
	repo ports.Repository
}

// NewInlineSettler wraps the repository for direct settlement.
func NewInlineSettler(repo ports.Repository) *InlineSettler {
	return &InlineSettler{repo: repo}
}

// Settle delegates to the application's upsert-by-table settlement.
func (s *InlineSettler) Settle(ctx context.Context, order *domain.Order) (int64, error) {
	if s == nil || s.repo == nil {
		return 0, errors.New("inline order settler not configured")
	}
	return application.SettleOrder(ctx, s.repo, order)
}

func buildSettlementWorkflowID(snapshot types.OrderSnapshot, ctx context.Context) string {
	traceComponent := workflowTraceID(ctx)
	if traceComponent == "" {
		traceComponent = fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	table := 0
	if snapshot.TableNumber != nil {
		table = *snapshot.TableNumber
	}
	return fmt.Sprintf("order-settlement-%d-%s", table, traceComponent)
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() || !spanCtx.TraceID().IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
