package pending

import (
	"context"
	"sync"
	"time"

	"github.com/layer-3/urllogin/core"
)

// MemoryStore keeps pending logins in a mutex guarded map.
// Entries live for the lifetime of the process only.
type MemoryStore struct {
	mu      sync.Mutex
	logins  map[string]core.PendingLogin
	timeout time.Duration
}

// NewMemoryStore creates an empty store whose entries expire after timeout
func NewMemoryStore(timeout time.Duration) *MemoryStore {
	return &MemoryStore{
		logins:  make(map[string]core.PendingLogin),
		timeout: timeout,
	}
}

// Put records a pending login. An expired entry under the same code is replaced,
// a live one is never overwritten.
func (s *MemoryStore) Put(ctx context.Context, login core.PendingLogin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.logins[login.Code]; ok && !existing.Expired(login.IssuedAt, s.timeout) {
		return core.ErrCodeTaken
	}

	login.Identity = login.Identity.Clone()
	s.logins[login.Code] = login
	return nil
}

// TakeIfValid removes the entry for code and returns its identity if it had not expired at now
func (s *MemoryStore) TakeIfValid(ctx context.Context, code string, now time.Time) (core.Identity, bool) {
	s.mu.Lock()
	login, ok := s.logins[code]
	if ok {
		delete(s.logins, code)
	}
	s.mu.Unlock()

	if !ok || login.Expired(now, s.timeout) {
		return core.Identity{}, false
	}
	return login.Identity.Clone(), true
}

// Sweep drops every entry expired at now and returns how many were removed
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for code, login := range s.logins {
		if login.Expired(now, s.timeout) {
			delete(s.logins, code)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done
func (s *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration, now func() time.Time) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(now())
		}
	}
}

// Len returns the number of entries held, expired ones included
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.logins)
}
