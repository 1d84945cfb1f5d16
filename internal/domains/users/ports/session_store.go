package ports

import (
	"context"
	"errors"
)

var ErrSessionNotFound = errors.New("session not found or expired")

// SessionStore abstracts session token persistence.
type SessionStore interface {
	Save(ctx context.Context, username, token string) error
	// Lookup resolves a token to its username, ErrSessionNotFound when the
	// token is unknown or expired.
	Lookup(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, username string) error
}

// NoopSessionStore is a safe default when callers do not need session persistence.
var NoopSessionStore SessionStore = noopSessionStore{}

type noopSessionStore struct{}

func (noopSessionStore) Save(_ context.Context, _ string, _ string) error { return nil }
func (noopSessionStore) Lookup(_ context.Context, _ string) (string, error) {
	return "", ErrSessionNotFound
}
func (noopSessionStore) Delete(_ context.Context, _ string) error { return nil }
