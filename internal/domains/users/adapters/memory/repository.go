package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/cafepos/cafe-api-server/internal/domains/users/domain"
	"github.com/cafepos/cafe-api-server/internal/domains/users/ports"
)

// Repository is an in-memory user store used for tests and local runs.
type Repository struct {
	mu     sync.RWMutex
	users  map[string]domain.User
	nextID int64
}

var _ ports.Repository = (*Repository)(nil)

func NewRepository() *Repository {
	return &Repository{users: make(map[string]domain.User), nextID: 1}
}

func (r *Repository) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	if err := user.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *user
	if existing, ok := r.users[stored.Username]; ok {
		stored.ID = existing.ID
	} else {
		stored.ID = r.nextID
		r.nextID++
	}
	r.users[stored.Username] = stored
	out := stored
	return &out, nil
}

func (r *Repository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.users[strings.TrimSpace(username)]
	if !ok {
		return nil, ports.ErrNotFound
	}
	out := stored
	return &out, nil
}

func (r *Repository) Delete(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	username = strings.TrimSpace(username)
	if _, ok := r.users[username]; !ok {
		return ports.ErrNotFound
	}
	delete(r.users, username)
	return nil
}

func (r *Repository) List(_ context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, stored := range r.users {
		u := stored
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
