package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(t *testing.T, amount int64) Money {
	t.Helper()
	m, err := NewMoney(amount)
	require.NoError(t, err)
	return m
}

func TestAddItem_MergesSameNameWithFirstPrice(t *testing.T) {
	order := NewOrder(nil)

	require.NoError(t, order.AddItem("Coffee", money(t, 50000), 2))
	require.NoError(t, order.AddItem("Coffee", money(t, 60000), 1))

	items := order.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Coffee", items[0].Name)
	assert.Equal(t, int64(3), items[0].Quantity)
	// the price of the first add wins
	assert.Equal(t, int64(50000), items[0].UnitPrice.Amount())
	assert.Equal(t, int64(150000), order.Subtotal().Amount())
}

func TestAddItem_MergesPaddedName(t *testing.T) {
	order := NewOrder(nil)

	require.NoError(t, order.AddItem("Coffee", money(t, 50000), 1))
	require.NoError(t, order.AddItem("  Coffee ", money(t, 50000), 1))

	// the padded repeat merges into the existing line, never a duplicate
	items := order.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Coffee", items[0].Name)
	assert.Equal(t, int64(2), items[0].Quantity)

	require.NoError(t, order.ChangeQuantity(" Coffee", 5))
	assert.Equal(t, int64(5), order.Items()[0].Quantity)

	require.NoError(t, order.RemoveItem("Coffee "))
	assert.Empty(t, order.Items())
}

func TestAddItem_RejectsNonPositiveQuantity(t *testing.T) {
	order := NewOrder(nil)

	require.ErrorIs(t, order.AddItem("Tea", money(t, 30000), 0), ErrInvalidQuantity)
	require.ErrorIs(t, order.AddItem("Tea", money(t, 30000), -1), ErrInvalidQuantity)
	assert.Empty(t, order.Items())
}

func TestRemoveItem_MissingNameIsNoop(t *testing.T) {
	order := NewOrder(nil)
	require.NoError(t, order.AddItem("Coffee", money(t, 50000), 1))

	require.NoError(t, order.RemoveItem("Latte"))
	assert.Len(t, order.Items(), 1)

	require.NoError(t, order.RemoveItem("Coffee"))
	assert.Empty(t, order.Items())
}

func TestChangeQuantity(t *testing.T) {
	order := NewOrder(nil)
	require.NoError(t, order.AddItem("Coffee", money(t, 50000), 2))

	require.NoError(t, order.ChangeQuantity("Coffee", 5))
	assert.Equal(t, int64(5), order.Items()[0].Quantity)

	require.ErrorIs(t, order.ChangeQuantity("Latte", 2), ErrItemNotFound)
}

func TestChangeQuantity_ZeroRemovesItem(t *testing.T) {
	order := NewOrder(nil)
	require.NoError(t, order.AddItem("Coffee", money(t, 50000), 2))

	require.NoError(t, order.ChangeQuantity("Coffee", 0))
	assert.Empty(t, order.Items())

	// once removed the line is not silently re-added
	require.ErrorIs(t, order.ChangeQuantity("Coffee", 5), ErrItemNotFound)
}

func TestApplyDiscount_Bounds(t *testing.T) {
	order := NewOrder(nil)
	require.NoError(t, order.AddItem("Coffee", money(t, 50000), 2))

	require.ErrorIs(t, order.ApplyDiscount(-1), ErrInvalidDiscount)
	require.ErrorIs(t, order.ApplyDiscount(100001), ErrInvalidDiscount)

	require.NoError(t, order.ApplyDiscount(100000))
	assert.Equal(t, int64(0), order.TotalPrice().Amount())

	// a later apply replaces, not accumulates
	require.NoError(t, order.ApplyDiscount(20000))
	assert.Equal(t, int64(80000), order.TotalPrice().Amount())

	require.NoError(t, order.ApplyDiscount(0))
	assert.Equal(t, int64(100000), order.TotalPrice().Amount())
}

func TestTotalPrice_NeverNegative(t *testing.T) {
	order := NewOrder(nil)
	require.NoError(t, order.AddItem("Coffee", money(t, 50000), 2))
	require.NoError(t, order.ApplyDiscount(100000))

	// the discount is not re-validated when the subtotal later shrinks
	require.NoError(t, order.RemoveItem("Coffee"))
	require.NoError(t, order.AddItem("Tea", money(t, 30000), 1))

	assert.Equal(t, int64(0), order.TotalPrice().Amount())
	assert.LessOrEqual(t, order.TotalPrice().Amount(), order.Subtotal().Amount())
}

func TestClose(t *testing.T) {
	order := NewOrder(nil)
	require.ErrorIs(t, order.Close(), ErrEmptyOrder)

	require.NoError(t, order.AddItem("Coffee", money(t, 50000), 1))
	require.NoError(t, order.Close())
	assert.Equal(t, StatusClosed, order.Status())

	require.ErrorIs(t, order.Close(), ErrOrderAlreadyClosed)
}

func TestClosedOrder_RejectsAllMutation(t *testing.T) {
	order := NewOrder(nil)
	require.NoError(t, order.AddItem("Coffee", money(t, 50000), 2))
	require.NoError(t, order.ApplyDiscount(20000))
	require.NoError(t, order.Close())

	require.ErrorIs(t, order.AddItem("Tea", money(t, 30000), 1), ErrOrderClosed)
	require.ErrorIs(t, order.RemoveItem("Coffee"), ErrOrderClosed)
	require.ErrorIs(t, order.ChangeQuantity("Coffee", 5), ErrOrderClosed)
	require.ErrorIs(t, order.ApplyDiscount(0), ErrOrderClosed)

	// rejected calls leave state untouched
	items := order.Items()
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].Quantity)
	assert.Equal(t, int64(20000), order.Discount().Amount())
	assert.Equal(t, int64(80000), order.TotalPrice().Amount())
}

func TestItems_ReturnsDefensiveCopy(t *testing.T) {
	order := NewOrder(nil)
	require.NoError(t, order.AddItem("Coffee", money(t, 50000), 2))

	items := order.Items()
	items[0].Quantity = 99
	items[0].Name = "Mangled"

	fresh := order.Items()
	assert.Equal(t, "Coffee", fresh[0].Name)
	assert.Equal(t, int64(2), fresh[0].Quantity)
}

func TestNewOrder_TableNumber(t *testing.T) {
	table := 3
	order := NewOrder(&table)
	require.NotNil(t, order.TableNumber())
	assert.Equal(t, 3, *order.TableNumber())
	assert.Equal(t, StatusOpen, order.Status())

	takeaway := NewOrder(nil)
	assert.Nil(t, takeaway.TableNumber())
}
