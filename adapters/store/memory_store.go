package store

import (
	"context"
	"sync"
	"time"

	"github.com/layer-3/urllogin/internal/clock"
	"github.com/layer-3/urllogin/ports"
)

// MemoryStore is an in-memory implementation of the Store interface
type MemoryStore struct {
	invalidatedTokens map[string]time.Time
	mu                sync.RWMutex
	clock             clock.Clocker
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore(clk clock.Clocker) ports.Store {
	return &MemoryStore{
		invalidatedTokens: make(map[string]time.Time),
		clock:             clk,
	}
}

// InvalidateToken marks a token as invalidated until expiry has passed
func (s *MemoryStore) InvalidateToken(ctx context.Context, tokenID string, expiry time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiryTime := s.clock.Now().Add(expiry)
	if stored, exists := s.invalidatedTokens[tokenID]; exists && stored.After(expiryTime) {
		return nil
	}
	s.invalidatedTokens[tokenID] = expiryTime

	return nil
}

// IsTokenInvalidated checks if a token is invalidated
func (s *MemoryStore) IsTokenInvalidated(ctx context.Context, tokenID string) (bool, error) {
	s.mu.RLock()
	expiryTime, exists := s.invalidatedTokens[tokenID]
	s.mu.RUnlock()

	if !exists {
		return false, nil
	}

	// The invalidation record outlived the token itself
	if s.clock.Now().After(expiryTime) {
		s.mu.Lock()
		if stored, ok := s.invalidatedTokens[tokenID]; ok && stored.Equal(expiryTime) {
			delete(s.invalidatedTokens, tokenID)
		}
		s.mu.Unlock()
		return false, nil
	}

	return true, nil
}
