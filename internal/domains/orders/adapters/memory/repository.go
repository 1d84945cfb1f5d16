package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/cafepos/cafe-api-server/internal/domains/orders/application/types"
	"github.com/cafepos/cafe-api-server/internal/domains/orders/domain"
	"github.com/cafepos/cafe-api-server/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter. Orders are stored
// as snapshots so callers can never reach the stored aggregate through a
// returned handle.
type Repository struct {
	mu     sync.RWMutex
	orders map[int64]types.OrderSnapshot
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{orders: map[int64]types.OrderSnapshot{}}
}

func (r *Repository) Save(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := types.Snapshot(order)
	if snap.ID == 0 {
		r.nextID++
		snap.ID = r.nextID
	} else if snap.ID > r.nextID {
		r.nextID = snap.ID
	}
	r.orders[snap.ID] = snap
	order.SetID(snap.ID)
	return order, nil
}

func (r *Repository) Update(_ context.Context, order *domain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := types.Snapshot(order)
	if _, ok := r.orders[snap.ID]; !ok {
		return ports.ErrNotFound
	}
	r.orders[snap.ID] = snap
	return nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return snap.Restore()
}

func (r *Repository) FindOpenByTable(_ context.Context, tableNumber int) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, snap := range r.orders {
		if snap.Status == string(domain.StatusOpen) && snap.TableNumber != nil && *snap.TableNumber == tableNumber {
			return snap.Restore()
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) List(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, snap := range r.orders {
		order, err := snap.Restore()
		if err != nil {
			return nil, err
		}
		list = append(list, order)
	}
	return list, nil
}
