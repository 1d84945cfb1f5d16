package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cafepos/cafe-api-server/internal/domains/menu/domain"
	"github.com/cafepos/cafe-api-server/internal/domains/menu/ports"
)

// Repository is an in-memory catalog used for tests and local runs.
type Repository struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
	nextID   int64
}

var _ ports.Repository = (*Repository)(nil)

func NewRepository() *Repository {
	return &Repository{products: make(map[int64]domain.Product), nextID: 1}
}

func (r *Repository) Save(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if err := product.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := clone(product)
	if stored.ID == 0 {
		stored.ID = r.nextID
		r.nextID++
	} else if _, ok := r.products[stored.ID]; !ok {
		return nil, ports.ErrNotFound
	}
	r.products[stored.ID] = stored
	out := clone(&stored)
	return &out, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	out := clone(&stored)
	return &out, nil
}

func (r *Repository) ListActive(ctx context.Context) ([]*domain.Product, error) {
	return r.list(func(p domain.Product) bool { return p.Active })
}

func (r *Repository) ListAll(ctx context.Context) ([]*domain.Product, error) {
	return r.list(func(domain.Product) bool { return true })
}

func (r *Repository) ListByCategory(_ context.Context, category string) ([]*domain.Product, error) {
	return r.list(func(p domain.Product) bool { return p.Active && p.Category == category })
}

func (r *Repository) list(keep func(domain.Product) bool) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Product
	for _, stored := range r.products {
		if keep(stored) {
			p := clone(&stored)
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func clone(p *domain.Product) domain.Product {
	out := *p
	out.Tags = append([]string(nil), p.Tags...)
	return out
}
