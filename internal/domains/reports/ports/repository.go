package ports

import (
	"context"
	"time"

	"github.com/cafepos/cafe-api-server/internal/domains/reports/domain"
)

// Repository reads sales aggregates over a half-open interval [from, to).
type Repository interface {
	Summarize(ctx context.Context, from, to time.Time) (domain.SalesSummary, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]domain.ProductSales, error)
}
