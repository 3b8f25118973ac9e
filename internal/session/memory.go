package session

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[string]Session{}}
}

func (s *MemoryStore) Create(_ context.Context, id Identity) (string, error) {
	tok, err := NewToken()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.sessions[tok] = Session{Token: tok, UserID: id.UserID, Username: id.Username, Role: id.Role}
	s.mu.Unlock()
	return tok, nil
}

func (s *MemoryStore) Lookup(_ context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return &sess, nil
}

func (s *MemoryStore) Destroy(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

// Len reports the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
