package bindings

import (
	"context"
	"sync"

	"github.com/layer-3/urllogin/core"
)

// MemoryRepository keeps bindings in memory, in insertion order per account
type MemoryRepository struct {
	mu       sync.RWMutex
	bindings map[int64][]core.Binding
}

// NewMemoryRepository creates an empty repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{bindings: make(map[int64][]core.Binding)}
}

// Add appends a binding to accountID
func (r *MemoryRepository) Add(accountID int64, b core.Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bindings[accountID] = append(r.bindings[accountID], b)
}

// FirstByAccount returns the first binding added for accountID
func (r *MemoryRepository) FirstByAccount(ctx context.Context, accountID int64) (core.Binding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.bindings[accountID]
	if len(list) == 0 {
		return core.Binding{}, core.ErrBindingNotFound
	}
	return list[0], nil
}
