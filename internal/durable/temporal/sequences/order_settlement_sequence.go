package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/cafepos/cafe-api-server/internal/domains/orders/application/types"
	orderactivities "github.com/cafepos/cafe-api-server/internal/durable/temporal/activities/orders"
)

// RunOrderSettlementSequence executes the ordered set of activities needed
// to persist a closed order.
func RunOrderSettlementSequence(ctx workflow.Context, order types.OrderSnapshot) (int64, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order settlement sequence started", "orderId", order.ID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var id int64
	if err := workflow.ExecuteActivity(ctx, orderactivities.SettleOrderActivityName, order).Get(ctx, &id); err != nil {
		logger.Error("order settlement sequence failed", "orderId", order.ID, "error", err)
		return 0, err
	}
	logger.Info("order settlement sequence completed", "orderId", id)
	return id, nil
}
