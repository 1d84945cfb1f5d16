package memory

import (
	"context"
	"sync"

	"github.com/cafepos/cafe-api-server/internal/domains/users/ports"
)

// SessionStore is an in-memory SessionStore implementation.
type SessionStore struct {
	mu      sync.RWMutex
	byToken map[string]string
	byUser  map[string][]string
}

var _ ports.SessionStore = (*SessionStore)(nil)

func NewSessionStore() *SessionStore {
	return &SessionStore{byToken: make(map[string]string), byUser: make(map[string][]string)}
}

func (s *SessionStore) Save(_ context.Context, username, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byToken[token] = username
	s.byUser[username] = append(s.byUser[username], token)
	return nil
}

func (s *SessionStore) Lookup(_ context.Context, token string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	username, ok := s.byToken[token]
	if !ok {
		return "", ports.ErrSessionNotFound
	}
	return username, nil
}

func (s *SessionStore) Delete(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, token := range s.byUser[username] {
		delete(s.byToken, token)
	}
	delete(s.byUser, username)
	return nil
}
