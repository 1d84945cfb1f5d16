package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cafepos/cafe-api-server/internal/domains/orders/domain"
	"github.com/cafepos/cafe-api-server/internal/domains/orders/ports"
)

// takeawayKey is the session key for orders without a table.
const takeawayKey = 0

var ErrInvalidTable = errors.New("table number must be greater than zero")

// Coordinator owns the per-table order sessions. Each table has at most
// one in-memory order at a time; a table with a persisted open order is
// rehydrated instead of silently double-booked. Every command names its
// table and resolves the session under a single mutex, so concurrent
// callers cannot race on session creation, order mutation, or which table
// a command lands on.
type Coordinator struct {
	mu       sync.Mutex
	sessions map[int]*domain.Order
	active   *int
	repo     ports.Repository
	settler  ports.Settler
}

// NewCoordinator wires the session manager. A nil settler falls back to
// settling directly through the repository.
func NewCoordinator(repo ports.Repository, settler ports.Settler) *Coordinator {
	c := &Coordinator{
		sessions: map[int]*domain.Order{},
		repo:     repo,
	}
	if settler == nil {
		settler = repoSettler{repo: repo}
	}
	c.settler = settler
	return c
}

// SelectTable warms a table's session and makes it the one CurrentOrder
// returns. When no in-memory session exists the persisted open order for
// that table is adopted, so a cashier can resume exactly where another
// session left off.
func (c *Coordinator) SelectTable(ctx context.Context, tableNumber *int) error {
	if err := validateTable(tableNumber); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	_, key, err := c.sessionLocked(ctx, tableNumber, true)
	if err != nil {
		return err
	}
	c.active = &key
	return nil
}

// sessionLocked resolves the session for a table: the in-memory one when
// present, else the persisted open order, else a fresh open order when
// create is set. Callers hold c.mu.
func (c *Coordinator) sessionLocked(ctx context.Context, tableNumber *int, create bool) (*domain.Order, int, error) {
	key := sessionKey(tableNumber)
	if order, ok := c.sessions[key]; ok {
		return order, key, nil
	}
	// Take-away tickets have no table to look up; only real tables can
	// have a persisted open order to adopt.
	if tableNumber != nil {
		persisted, err := c.repo.FindOpenByTable(ctx, *tableNumber)
		switch {
		case err == nil:
			c.sessions[key] = persisted
			return persisted, key, nil
		case errors.Is(err, ports.ErrNotFound):
		default:
			return nil, 0, fmt.Errorf("%w: %w", ports.ErrPersistence, err)
		}
	}
	if !create {
		return nil, 0, ports.ErrNoActiveTable
	}
	order := domain.NewOrder(tableNumber)
	c.sessions[key] = order
	return order, key, nil
}

// CurrentOrder returns the last selected table's order, or nil when no
// table is selected or the session was cleared.
func (c *Coordinator) CurrentOrder() *domain.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return nil
	}
	return c.sessions[*c.active]
}

// OrderForTable returns the table's order, rehydrating or opening one as
// needed.
func (c *Coordinator) OrderForTable(ctx context.Context, tableNumber *int) (*domain.Order, error) {
	if err := validateTable(tableNumber); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	order, _, err := c.sessionLocked(ctx, tableNumber, true)
	return order, err
}

// AddItem adds a line to the table's order, opening one when the table has
// none yet.
func (c *Coordinator) AddItem(ctx context.Context, tableNumber *int, name string, unitPrice int64, quantity int64) error {
	if err := validateTable(tableNumber); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	order, _, err := c.sessionLocked(ctx, tableNumber, true)
	if err != nil {
		return err
	}
	price, err := domain.NewMoney(unitPrice)
	if err != nil {
		return err
	}
	return order.AddItem(name, price, quantity)
}

// RemoveItem drops a line from the table's order.
func (c *Coordinator) RemoveItem(ctx context.Context, tableNumber *int, name string) error {
	if err := validateTable(tableNumber); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	order, _, err := c.sessionLocked(ctx, tableNumber, false)
	if err != nil {
		return err
	}
	return order.RemoveItem(name)
}

// ChangeQuantity updates a line's quantity on the table's order.
func (c *Coordinator) ChangeQuantity(ctx context.Context, tableNumber *int, name string, quantity int64) error {
	if err := validateTable(tableNumber); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	order, _, err := c.sessionLocked(ctx, tableNumber, false)
	if err != nil {
		return err
	}
	return order.ChangeQuantity(name, quantity)
}

// ApplyDiscount replaces the discount on the table's order.
func (c *Coordinator) ApplyDiscount(ctx context.Context, tableNumber *int, amount int64) error {
	if err := validateTable(tableNumber); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	order, _, err := c.sessionLocked(ctx, tableNumber, false)
	if err != nil {
		return err
	}
	return order.ApplyDiscount(amount)
}

// CloseAndSave closes the table's order, settles it, and evicts the
// session. A failed settle keeps the session so the cashier can retry the
// save; the order stays closed in memory and must not be re-opened.
func (c *Coordinator) CloseAndSave(ctx context.Context, tableNumber *int) (int64, error) {
	if err := validateTable(tableNumber); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	order, key, err := c.sessionLocked(ctx, tableNumber, false)
	if err != nil {
		return 0, err
	}
	// A session left closed by a previous failed save goes straight back
	// to settling.
	if order.IsOpen() {
		if err := order.Close(); err != nil {
			return 0, err
		}
	}
	id, err := c.settler.Settle(ctx, order)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ports.ErrPersistence, err)
	}
	order.SetID(id)
	c.evictLocked(key)
	return id, nil
}

// ClearOrder abandons the table's session without persisting.
func (c *Coordinator) ClearOrder(tableNumber *int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evictLocked(sessionKey(tableNumber))
}

func (c *Coordinator) evictLocked(key int) {
	delete(c.sessions, key)
	if c.active != nil && *c.active == key {
		c.active = nil
	}
}

// GetOrder reads a persisted order by identifier.
func (c *Coordinator) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return c.repo.GetByID(ctx, id)
}

func validateTable(tableNumber *int) error {
	if tableNumber != nil && *tableNumber <= 0 {
		return ErrInvalidTable
	}
	return nil
}

func sessionKey(tableNumber *int) int {
	if tableNumber == nil {
		return takeawayKey
	}
	return *tableNumber
}

var _ ports.Coordinator = (*Coordinator)(nil)
