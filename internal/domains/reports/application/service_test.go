package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ordersmemory "github.com/cafepos/cafe-api-server/internal/domains/orders/adapters/memory"
	ordersdomain "github.com/cafepos/cafe-api-server/internal/domains/orders/domain"
	reportsmemory "github.com/cafepos/cafe-api-server/internal/domains/reports/adapters/memory"
	"github.com/cafepos/cafe-api-server/internal/domains/reports/application"
)

func money(t *testing.T, amount int64) ordersdomain.Money {
	t.Helper()
	m, err := ordersdomain.NewMoney(amount)
	require.NoError(t, err)
	return m
}

func closedOrder(t *testing.T, table int, discount int64, lines map[string]int64) *ordersdomain.Order {
	t.Helper()
	order := ordersdomain.NewOrder(&table)
	for name, qty := range lines {
		require.NoError(t, order.AddItem(name, money(t, 50000), qty))
	}
	if discount > 0 {
		require.NoError(t, order.ApplyDiscount(discount))
	}
	require.NoError(t, order.Close())
	return order
}

func TestDailyReportAggregatesClosedOrders(t *testing.T) {
	ctx := context.Background()
	orders := ordersmemory.NewRepository()
	svc := application.NewService(reportsmemory.NewRepository(orders))

	_, err := orders.Save(ctx, closedOrder(t, 1, 20000, map[string]int64{"Coffee": 2}))
	require.NoError(t, err)
	_, err = orders.Save(ctx, closedOrder(t, 2, 0, map[string]int64{"Coffee": 1, "Pasta": 1}))
	require.NoError(t, err)

	// Open sessions never count towards a report.
	five := 5
	open := ordersdomain.NewOrder(&five)
	require.NoError(t, open.AddItem("Coffee", money(t, 50000), 10))
	_, err = orders.Save(ctx, open)
	require.NoError(t, err)

	report, err := svc.DailyReport(ctx, time.Now())
	require.NoError(t, err)

	assert.Equal(t, int64(2), report.Summary.OrdersClosed)
	assert.Equal(t, int64(200000), report.Summary.GrossSales)
	assert.Equal(t, int64(20000), report.Summary.Discounts)
	assert.Equal(t, int64(180000), report.Summary.NetSales)

	require.Len(t, report.TopProducts, 2)
	assert.Equal(t, "Coffee", report.TopProducts[0].ProductName)
	assert.Equal(t, int64(3), report.TopProducts[0].Quantity)
	assert.Equal(t, int64(150000), report.TopProducts[0].Revenue)
	assert.Equal(t, "Pasta", report.TopProducts[1].ProductName)
}

func TestDailyReportExcludesOtherDays(t *testing.T) {
	ctx := context.Background()
	orders := ordersmemory.NewRepository()
	svc := application.NewService(reportsmemory.NewRepository(orders))

	_, err := orders.Save(ctx, closedOrder(t, 1, 0, map[string]int64{"Tea": 1}))
	require.NoError(t, err)

	report, err := svc.DailyReport(ctx, time.Now().AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Zero(t, report.Summary.OrdersClosed)
	assert.Empty(t, report.TopProducts)
}

func TestMonthlyReportSpansTheMonth(t *testing.T) {
	ctx := context.Background()
	orders := ordersmemory.NewRepository()
	svc := application.NewService(reportsmemory.NewRepository(orders))

	_, err := orders.Save(ctx, closedOrder(t, 1, 0, map[string]int64{"Soda": 2}))
	require.NoError(t, err)

	now := time.Now()
	report, err := svc.MonthlyReport(ctx, now.Year(), now.Month(), time.Local)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Summary.OrdersClosed)
	assert.Equal(t, int64(100000), report.Summary.NetSales)

	// The interval is a calendar month.
	assert.Equal(t, report.From.AddDate(0, 1, 0), report.To)
}
