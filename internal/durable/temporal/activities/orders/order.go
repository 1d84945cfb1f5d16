package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	"github.com/cafepos/cafe-api-server/internal/domains/orders/application"
	"github.com/cafepos/cafe-api-server/internal/domains/orders/application/types"
	ordersports "github.com/cafepos/cafe-api-server/internal/domains/orders/ports"
)

const (
	// SettleOrderActivityName persists a closed order with upsert-by-table semantics.
	SettleOrderActivityName = "orders.activities.SettleOrder"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	repo ordersports.Repository
}

// NewActivities wires the order repository into the Temporal activities bundle.
func NewActivities(repo ordersports.Repository) *Activities {
	return &Activities{repo: repo}
}

// SettleOrder stores a closed order and returns its persisted identifier.
func (a *Activities) SettleOrder(ctx context.Context, snapshot types.OrderSnapshot) (int64, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.repo == nil {
		logger.Error("order settle activity not initialized", "orderId", snapshot.ID)
		return 0, errors.New("order settle activity not initialized")
	}
	logger.Info("SettleOrder activity started", "orderId", snapshot.ID)
	order, err := snapshot.Restore()
	if err != nil {
		logger.Error("SettleOrder activity rejected snapshot", "orderId", snapshot.ID, "error", err)
		return 0, err
	}
	id, err := application.SettleOrder(ctx, a.repo, order)
	if err != nil {
		logger.Error("SettleOrder activity failed", "orderId", snapshot.ID, "error", err)
		return 0, err
	}
	logger.Info("SettleOrder activity completed", "orderId", id)
	return id, nil
}
