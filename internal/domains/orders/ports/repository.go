package ports

import (
	"context"
	"errors"

	"github.com/cafepos/cafe-api-server/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// Repository persists order aggregates. Prices cross this boundary as the
// aggregate's Money values; adapters store them as plain integers.
type Repository interface {
	// Save inserts a new order and returns it with the assigned identifier.
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	// Update rewrites the persisted state of an order by its identifier.
	Update(ctx context.Context, order *domain.Order) error
	// GetByID fetches an order snapshot by identifier.
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// FindOpenByTable returns the open order for a table, or ErrNotFound
	// when the table has none.
	FindOpenByTable(ctx context.Context, tableNumber int) (*domain.Order, error)
	// List returns all persisted orders.
	List(ctx context.Context) ([]*domain.Order, error)
}
