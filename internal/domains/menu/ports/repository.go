package ports

import (
	"context"
	"errors"

	"github.com/cafepos/cafe-api-server/internal/domains/menu/domain"
)

var ErrNotFound = errors.New("product not found")

// Repository persists the product catalog.
type Repository interface {
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	ListActive(ctx context.Context) ([]*domain.Product, error)
	ListAll(ctx context.Context) ([]*domain.Product, error)
	ListByCategory(ctx context.Context, category string) ([]*domain.Product, error)
}
