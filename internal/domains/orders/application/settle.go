package application

import (
	"context"
	"errors"

	"github.com/cafepos/cafe-api-server/internal/domains/orders/domain"
	"github.com/cafepos/cafe-api-server/internal/domains/orders/ports"
)

// SettleOrder writes a closed order to storage with upsert-by-table-and-
// status semantics: when the table already has a persisted open row (for
// example an order opened through the web channel and closed at the till)
// that row is updated, otherwise a new one is inserted. Returns the
// persisted identifier.
func SettleOrder(ctx context.Context, repo ports.Repository, order *domain.Order) (int64, error) {
	if order == nil {
		return 0, errors.New("order is nil")
	}
	if order.ID() != 0 {
		if err := repo.Update(ctx, order); err != nil {
			return 0, err
		}
		return order.ID(), nil
	}
	if table := order.TableNumber(); table != nil {
		existing, err := repo.FindOpenByTable(ctx, *table)
		switch {
		case err == nil:
			order.SetID(existing.ID())
			if err := repo.Update(ctx, order); err != nil {
				return 0, err
			}
			return order.ID(), nil
		case errors.Is(err, ports.ErrNotFound):
			// fall through to insert
		default:
			return 0, err
		}
	}
	saved, err := repo.Save(ctx, order)
	if err != nil {
		return 0, err
	}
	return saved.ID(), nil
}

// repoSettler settles synchronously through the repository. It is the
// default when no durable orchestrator is configured.
type repoSettler struct {
	repo ports.Repository
}

func (s repoSettler) Settle(ctx context.Context, order *domain.Order) (int64, error) {
	return SettleOrder(ctx, s.repo, order)
}

var _ ports.Settler = repoSettler{}
