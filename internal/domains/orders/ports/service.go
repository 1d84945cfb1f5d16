package ports

import (
	"context"
	"errors"

	"github.com/cafepos/cafe-api-server/internal/domains/orders/domain"
)

var (
	ErrNoActiveTable = errors.New("no open order for the table")
	ErrPersistence   = errors.New("order could not be persisted")
)

// Coordinator routes order commands to per-table sessions and manages each
// session's lifetime. Every command names its table explicitly and resolves
// the session inside one critical section, so concurrent callers for
// different tables cannot deliver a command to the wrong order. A nil table
// number addresses the take-away session.
type Coordinator interface {
	// SelectTable warms a table's session and makes it the one CurrentOrder
	// returns, rehydrating a persisted open order for it when one exists.
	SelectTable(ctx context.Context, tableNumber *int) error
	// CurrentOrder returns the last selected table's order, or nil when no
	// table has been selected. Nil is a valid state callers must handle.
	CurrentOrder() *domain.Order
	// OrderForTable returns the table's order, rehydrating or opening one
	// as needed.
	OrderForTable(ctx context.Context, tableNumber *int) (*domain.Order, error)
	// AddItem adds a line to the table's order, opening one when the table
	// has none yet.
	AddItem(ctx context.Context, tableNumber *int, name string, unitPrice int64, quantity int64) error
	// RemoveItem drops a line. The table must already have an open order
	// (ErrNoActiveTable otherwise); the same applies to ChangeQuantity,
	// ApplyDiscount, and CloseAndSave.
	RemoveItem(ctx context.Context, tableNumber *int, name string) error
	ChangeQuantity(ctx context.Context, tableNumber *int, name string, quantity int64) error
	ApplyDiscount(ctx context.Context, tableNumber *int, amount int64) error
	// CloseAndSave closes the table's order, settles it to storage, and
	// evicts the session. On a persistence failure the session is kept so
	// the save can be retried.
	CloseAndSave(ctx context.Context, tableNumber *int) (int64, error)
	// ClearOrder abandons the table's session without persisting.
	ClearOrder(tableNumber *int)
	// GetOrder reads a persisted order snapshot by identifier.
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
}

// Settler durably persists a closed order, updating the table's existing
// open row when one exists instead of inserting a duplicate.
type Settler interface {
	Settle(ctx context.Context, order *domain.Order) (int64, error)
}
