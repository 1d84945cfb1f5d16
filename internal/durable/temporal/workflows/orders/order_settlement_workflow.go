package orders

import (
	"go.temporal.io/sdk/workflow"

	"github.com/cafepos/cafe-api-server/internal/domains/orders/application/types"
	"github.com/cafepos/cafe-api-server/internal/durable/temporal/sequences"
)

const (
	// OrderSettlementWorkflowName is the public identifier for registering the workflow.
	OrderSettlementWorkflowName = "orders.workflows.Settlement"
	// OrderSettlementTaskQueue is the queue consumed by the worker processing settlements.
	OrderSettlementTaskQueue = "ORDER_SETTLEMENT"
)

// OrderSettlementWorkflowInput carries the closed order to persist.
type OrderSettlementWorkflowInput struct {
	Order   types.OrderSnapshot
	TraceID string
}

// OrderSettlementWorkflow durably persists a closed order aggregate.
func OrderSettlementWorkflow(ctx workflow.Context, input OrderSettlementWorkflowInput) (int64, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("OrderSettlementWorkflow started", withTraceID(input.TraceID, "orderId", input.Order.ID)...)
	id, err := sequences.RunOrderSettlementSequence(ctx, input.Order)
	if err != nil {
		logger.Error("OrderSettlementWorkflow failed", withTraceID(input.TraceID, "orderId", input.Order.ID, "error", err)...)
		return 0, err
	}
	logger.Info("OrderSettlementWorkflow completed", withTraceID(input.TraceID, "orderId", id)...)
	return id, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
