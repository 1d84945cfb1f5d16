package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cafepos/cafe-api-server/internal/domains/orders/domain"
	"github.com/cafepos/cafe-api-server/internal/domains/orders/ports"
)

type fakeOrderRepo struct {
	orders  map[int64]*domain.Order
	nextID  int64
	failing bool
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[int64]*domain.Order{}}
}

var errStorage = errors.New("storage unavailable")

func (f *fakeOrderRepo) Save(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if f.failing {
		return nil, errStorage
	}
	f.nextID++
	order.SetID(f.nextID)
	f.orders[f.nextID] = order
	return order, nil
}

func (f *fakeOrderRepo) Update(_ context.Context, order *domain.Order) error {
	if f.failing {
		return errStorage
	}
	if _, ok := f.orders[order.ID()]; !ok {
		return ports.ErrNotFound
	}
	f.orders[order.ID()] = order
	return nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	if o, ok := f.orders[id]; ok {
		return o, nil
	}
	return nil, ports.ErrNotFound
}

func (f *fakeOrderRepo) FindOpenByTable(_ context.Context, table int) (*domain.Order, error) {
	if f.failing {
		return nil, errStorage
	}
	for _, o := range f.orders {
		if o.Status() == domain.StatusOpen && o.TableNumber() != nil && *o.TableNumber() == table {
			return o, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (f *fakeOrderRepo) List(_ context.Context) ([]*domain.Order, error) {
	var list []*domain.Order
	for _, o := range f.orders {
		list = append(list, o)
	}
	return list, nil
}

func table(n int) *int { return &n }

func TestCoordinator_CommandsRequireOpenOrder(t *testing.T) {
	c := NewCoordinator(newFakeOrderRepo(), nil)
	ctx := context.Background()

	assert.Nil(t, c.CurrentOrder())
	require.ErrorIs(t, c.RemoveItem(ctx, table(3), "Coffee"), ports.ErrNoActiveTable)
	require.ErrorIs(t, c.ChangeQuantity(ctx, table(3), "Coffee", 2), ports.ErrNoActiveTable)
	require.ErrorIs(t, c.ApplyDiscount(ctx, table(3), 100), ports.ErrNoActiveTable)
	_, err := c.CloseAndSave(ctx, table(3))
	require.ErrorIs(t, err, ports.ErrNoActiveTable)
}

func TestCoordinator_CommandsTargetAddressedTable(t *testing.T) {
	c := NewCoordinator(newFakeOrderRepo(), nil)
	ctx := context.Background()

	// Two cashiers select their tables back to back before either sends a
	// command. The item must land on the table it was addressed to, not
	// on whichever table was selected last.
	require.NoError(t, c.SelectTable(ctx, table(5)))
	require.NoError(t, c.SelectTable(ctx, table(6)))
	require.NoError(t, c.AddItem(ctx, table(5), "Coffee", 50000, 2))

	five, err := c.OrderForTable(ctx, table(5))
	require.NoError(t, err)
	require.Len(t, five.Items(), 1)
	assert.Equal(t, "Coffee", five.Items()[0].Name)

	six, err := c.OrderForTable(ctx, table(6))
	require.NoError(t, err)
	assert.Empty(t, six.Items())
}

func TestCoordinator_CloseAndSaveScenario(t *testing.T) {
	repo := newFakeOrderRepo()
	c := NewCoordinator(repo, nil)
	ctx := context.Background()

	require.NoError(t, c.SelectTable(ctx, table(3)))
	require.NoError(t, c.AddItem(ctx, table(3), "Coffee", 50000, 2))
	assert.Equal(t, int64(100000), c.CurrentOrder().Subtotal().Amount())

	require.NoError(t, c.ApplyDiscount(ctx, table(3), 20000))
	assert.Equal(t, int64(80000), c.CurrentOrder().TotalPrice().Amount())

	id, err := c.CloseAndSave(ctx, table(3))
	require.NoError(t, err)
	require.NotZero(t, id)

	// session evicted
	assert.Nil(t, c.CurrentOrder())

	// round-trip through the gateway preserves the totals
	loaded, err := c.GetOrder(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClosed, loaded.Status())
	assert.Equal(t, int64(80000), loaded.TotalPrice().Amount())
	require.NotNil(t, loaded.TableNumber())
	assert.Equal(t, 3, *loaded.TableNumber())
}

func TestCoordinator_TableSwitchKeepsSessions(t *testing.T) {
	c := NewCoordinator(newFakeOrderRepo(), nil)
	ctx := context.Background()

	require.NoError(t, c.SelectTable(ctx, table(5)))
	require.NoError(t, c.AddItem(ctx, table(5), "Latte", 65000, 1))

	require.NoError(t, c.SelectTable(ctx, table(6)))
	assert.Empty(t, c.CurrentOrder().Items())

	require.NoError(t, c.SelectTable(ctx, table(5)))
	items := c.CurrentOrder().Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Latte", items[0].Name)
}

func TestCoordinator_RehydratesPersistedOpenOrder(t *testing.T) {
	repo := newFakeOrderRepo()
	open := domain.NewOrder(table(4))
	price, _ := domain.NewMoney(30000)
	require.NoError(t, open.AddItem("Tea", price, 2))
	_, err := repo.Save(context.Background(), open)
	require.NoError(t, err)

	c := NewCoordinator(repo, nil)
	require.NoError(t, c.SelectTable(context.Background(), table(4)))

	current := c.CurrentOrder()
	require.NotNil(t, current)
	require.Len(t, current.Items(), 1)
	assert.Equal(t, "Tea", current.Items()[0].Name)
	assert.Equal(t, open.ID(), current.ID())
}

func TestCoordinator_CommandRehydratesWithoutSelect(t *testing.T) {
	repo := newFakeOrderRepo()
	open := domain.NewOrder(table(8))
	price, _ := domain.NewMoney(15000)
	require.NoError(t, open.AddItem("Mineral Water", price, 1))
	_, err := repo.Save(context.Background(), open)
	require.NoError(t, err)

	// A command addressed straight at the table adopts the persisted
	// open order instead of starting a second one.
	c := NewCoordinator(repo, nil)
	ctx := context.Background()
	require.NoError(t, c.ApplyDiscount(ctx, table(8), 5000))

	order, err := c.OrderForTable(ctx, table(8))
	require.NoError(t, err)
	assert.Equal(t, open.ID(), order.ID())
	assert.Equal(t, int64(10000), order.TotalPrice().Amount())
}

func TestCoordinator_RejectsInvalidTableNumber(t *testing.T) {
	c := NewCoordinator(newFakeOrderRepo(), nil)
	ctx := context.Background()
	require.ErrorIs(t, c.SelectTable(ctx, table(0)), ErrInvalidTable)
	require.ErrorIs(t, c.SelectTable(ctx, table(-2)), ErrInvalidTable)
	require.ErrorIs(t, c.AddItem(ctx, table(-1), "Coffee", 50000, 1), ErrInvalidTable)
}

func TestCoordinator_TakeawaySession(t *testing.T) {
	repo := newFakeOrderRepo()
	c := NewCoordinator(repo, nil)
	ctx := context.Background()

	require.NoError(t, c.SelectTable(ctx, nil))
	require.NoError(t, c.AddItem(ctx, nil, "Coffee", 50000, 1))
	assert.Nil(t, c.CurrentOrder().TableNumber())

	id, err := c.CloseAndSave(ctx, nil)
	require.NoError(t, err)

	saved, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, saved.TableNumber())
}

func TestCoordinator_FailedSaveKeepsSessionForRetry(t *testing.T) {
	repo := newFakeOrderRepo()
	c := NewCoordinator(repo, nil)
	ctx := context.Background()

	require.NoError(t, c.SelectTable(ctx, table(2)))
	require.NoError(t, c.AddItem(ctx, table(2), "Coffee", 50000, 1))

	repo.failing = true
	_, err := c.CloseAndSave(ctx, table(2))
	require.ErrorIs(t, err, ports.ErrPersistence)

	// session survives, closed in memory but unsaved
	current := c.CurrentOrder()
	require.NotNil(t, current)
	assert.Equal(t, domain.StatusClosed, current.Status())

	// the retry settles without re-closing
	repo.failing = false
	id, err := c.CloseAndSave(ctx, table(2))
	require.NoError(t, err)
	require.NotZero(t, id)
	assert.Nil(t, c.CurrentOrder())
}

func TestCoordinator_UpsertsExistingOpenRowOnClose(t *testing.T) {
	repo := newFakeOrderRepo()
	// an order opened through another channel already has a row
	webOrder := domain.NewOrder(table(7))
	price, _ := domain.NewMoney(95000)
	require.NoError(t, webOrder.AddItem("Pasta", price, 1))
	_, err := repo.Save(context.Background(), webOrder)
	require.NoError(t, err)

	c := NewCoordinator(repo, nil)
	ctx := context.Background()
	require.NoError(t, c.AddItem(ctx, table(7), "Coffee", 50000, 1))

	id, err := c.CloseAndSave(ctx, table(7))
	require.NoError(t, err)
	assert.Equal(t, webOrder.ID(), id)
	// one row, updated in place
	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCoordinator_ClearOrder(t *testing.T) {
	c := NewCoordinator(newFakeOrderRepo(), nil)
	ctx := context.Background()

	require.NoError(t, c.SelectTable(ctx, table(9)))
	require.NoError(t, c.AddItem(ctx, table(9), "Coffee", 50000, 1))

	c.ClearOrder(table(9))
	assert.Nil(t, c.CurrentOrder())

	// reselecting starts fresh, nothing was persisted
	require.NoError(t, c.SelectTable(ctx, table(9)))
	assert.Empty(t, c.CurrentOrder().Items())
}
