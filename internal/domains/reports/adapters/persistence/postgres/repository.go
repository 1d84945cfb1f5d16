package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/cafepos/cafe-api-server/internal/domains/reports/domain"
	"github.com/cafepos/cafe-api-server/internal/domains/reports/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository computes sales aggregates directly in PostgreSQL.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed reporting repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type summaryRow struct {
	OrdersClosed int64
	GrossSales   int64
	Discounts    int64
	NetSales     int64
}

// Summarize aggregates closed orders in [from, to). Per-order totals floor
// at zero, matching what customers were actually charged.
func (r *Repository) Summarize(ctx context.Context, from, to time.Time) (domain.SalesSummary, error) {
	if err := r.ensureDB(); err != nil {
		return domain.SalesSummary{}, err
	}
	var row summaryRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*)                                            AS orders_closed,
			COALESCE(SUM(t.subtotal), 0)                        AS gross_sales,
			COALESCE(SUM(LEAST(t.discount, t.subtotal)), 0)     AS discounts,
			COALESCE(SUM(GREATEST(t.subtotal - t.discount, 0)), 0) AS net_sales
		FROM (
			SELECT o.id, o.discount, COALESCE(SUM(i.unit_price * i.quantity), 0) AS subtotal
			FROM orders o
			LEFT JOIN order_items i ON i.order_id = o.id
			WHERE o.status = ? AND o.created_at >= ? AND o.created_at < ?
			GROUP BY o.id, o.discount
		) t`, "closed", from, to).
		Scan(&row).Error
	if err != nil {
		return domain.SalesSummary{}, err
	}
	return domain.SalesSummary{
		OrdersClosed: row.OrdersClosed,
		GrossSales:   row.GrossSales,
		Discounts:    row.Discounts,
		NetSales:     row.NetSales,
	}, nil
}

type productRow struct {
	ProductName string
	Quantity    int64
	Revenue     int64
}

// TopProducts ranks products sold in [from, to) by quantity.
func (r *Repository) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]domain.ProductSales, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, nil
	}
	var rows []productRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT i.product_name, SUM(i.quantity) AS quantity, SUM(i.unit_price * i.quantity) AS revenue
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		WHERE o.status = ? AND o.created_at >= ? AND o.created_at < ?
		GROUP BY i.product_name
		ORDER BY quantity DESC, revenue DESC
		LIMIT ?`, "closed", from, to, limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	products := make([]domain.ProductSales, 0, len(rows))
	for _, row := range rows {
		products = append(products, domain.ProductSales{
			ProductName: row.ProductName,
			Quantity:    row.Quantity,
			Revenue:     row.Revenue,
		})
	}
	return products, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres reports repository not configured")
	}
	return nil
}
