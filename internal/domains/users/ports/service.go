package ports

import (
	"context"

	"github.com/cafepos/cafe-api-server/internal/domains/users/domain"
)

// Service exposes staff account use cases to adapters.
type Service interface {
	Register(ctx context.Context, username, password, fullName, role string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Delete(ctx context.Context, username string) error
	ChangePassword(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, username string)
	// Authenticate resolves a session token to the logged-in user.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}
