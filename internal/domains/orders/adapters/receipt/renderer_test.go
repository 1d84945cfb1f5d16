package receipt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cafepos/cafe-api-server/internal/domains/orders/domain"
)

func TestRender_ContainsLinesAndTotals(t *testing.T) {
	table := 3
	order := domain.NewOrder(&table)
	price, err := domain.NewMoney(50000)
	require.NoError(t, err)
	require.NoError(t, order.AddItem("Coffee", price, 2))
	require.NoError(t, order.ApplyDiscount(20000))

	r := NewRenderer(Business{Name: "Sample Cafe", Address: "1 Main St", Phone: "555-0100"})
	text := r.Render(order)

	assert.Contains(t, text, "Sample Cafe")
	assert.Contains(t, text, "Table: 3")
	assert.Contains(t, text, "Coffee")
	assert.Contains(t, text, "100,000")
	assert.Contains(t, text, "-20,000")
	assert.Contains(t, text, "80,000")
}

func TestRender_TakeawayWithoutDiscount(t *testing.T) {
	order := domain.NewOrder(nil)
	price, err := domain.NewMoney(15000)
	require.NoError(t, err)
	require.NoError(t, order.AddItem("Water", price, 1))

	r := NewRenderer(Business{Name: "Sample Cafe"})
	text := r.Render(order)

	assert.Contains(t, text, "Take-away")
	assert.NotContains(t, text, "Discount")
}

func TestPrint_WritesRenderedText(t *testing.T) {
	order := domain.NewOrder(nil)
	price, err := domain.NewMoney(30000)
	require.NoError(t, err)
	require.NoError(t, order.AddItem("Tea", price, 1))

	r := NewRenderer(Business{Name: "Sample Cafe"})
	var out strings.Builder
	require.NoError(t, r.Print(&out, order))
	assert.Equal(t, r.Render(order), out.String())
}
