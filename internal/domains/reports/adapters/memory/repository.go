package memory

import (
	"context"
	"sort"
	"time"

	ordersdomain "github.com/cafepos/cafe-api-server/internal/domains/orders/domain"
	ordersports "github.com/cafepos/cafe-api-server/internal/domains/orders/ports"
	"github.com/cafepos/cafe-api-server/internal/domains/reports/domain"
	"github.com/cafepos/cafe-api-server/internal/domains/reports/ports"
)

// Repository computes sales aggregates by scanning an order repository.
// Meant for local runs and tests; the PostgreSQL adapter aggregates in SQL.
type Repository struct {
	orders ordersports.Repository
}

var _ ports.Repository = (*Repository)(nil)

func NewRepository(orders ordersports.Repository) *Repository {
	return &Repository{orders: orders}
}

func (r *Repository) Summarize(ctx context.Context, from, to time.Time) (domain.SalesSummary, error) {
	var summary domain.SalesSummary
	err := r.scan(ctx, from, to, func(order *ordersdomain.Order) {
		subtotal := order.Subtotal().Amount()
		total := order.TotalPrice().Amount()
		summary.OrdersClosed++
		summary.GrossSales += subtotal
		summary.Discounts += subtotal - total
		summary.NetSales += total
	})
	return summary, err
}

func (r *Repository) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]domain.ProductSales, error) {
	if limit <= 0 {
		return nil, nil
	}
	totals := map[string]*domain.ProductSales{}
	err := r.scan(ctx, from, to, func(order *ordersdomain.Order) {
		for _, item := range order.Items() {
			entry, ok := totals[item.Name]
			if !ok {
				entry = &domain.ProductSales{ProductName: item.Name}
				totals[item.Name] = entry
			}
			entry.Quantity += item.Quantity
			entry.Revenue += item.LineTotal().Amount()
		}
	})
	if err != nil {
		return nil, err
	}
	products := make([]domain.ProductSales, 0, len(totals))
	for _, entry := range totals {
		products = append(products, *entry)
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].Quantity != products[j].Quantity {
			return products[i].Quantity > products[j].Quantity
		}
		if products[i].Revenue != products[j].Revenue {
			return products[i].Revenue > products[j].Revenue
		}
		return products[i].ProductName < products[j].ProductName
	})
	if len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

func (r *Repository) scan(ctx context.Context, from, to time.Time, visit func(*ordersdomain.Order)) error {
	orders, err := r.orders.List(ctx)
	if err != nil {
		return err
	}
	for _, order := range orders {
		if order.IsOpen() {
			continue
		}
		created := order.CreatedAt()
		if created.Before(from) || !created.Before(to) {
			continue
		}
		visit(order)
	}
	return nil
}
