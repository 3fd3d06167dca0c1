// Package session holds the single-session token state: at most one live
// token per principal id. Issuing overwrites, logging out deletes.
//
// Keys are always normalized int64 principal ids. The same id can arrive as
// a JSON number, a path param string, or a float64 JWT claim; storing
// anything but the normalized form is the classic source of false
// session-mismatch rejections, so callers convert before they reach here.
package session

import (
	"context"
	"sync"
	"time"
)

// Store is the injectable session backend. The memory implementation is
// process-local (a restart drops every session, which is accepted); the
// redis implementation keeps the single-session guarantee across replicas.
type Store interface {
	Put(ctx context.Context, principalID int64, token string, ttl time.Duration) error
	Get(ctx context.Context, principalID int64) (string, bool, error)
	Delete(ctx context.Context, principalID int64) error
}

type MemoryStore struct {
	mu     sync.Mutex
	tokens map[int64]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[int64]string)}
}

func (s *MemoryStore) Put(_ context.Context, principalID int64, token string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[principalID] = token
	return nil
}

func (s *MemoryStore) Get(_ context.Context, principalID int64) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.tokens[principalID]
	return token, ok, nil
}

func (s *MemoryStore) Delete(_ context.Context, principalID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, principalID)
	return nil
}
