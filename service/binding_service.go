package service

import (
	"context"

	"github.com/layer-3/urllogin/core"
	"github.com/layer-3/urllogin/ports"
)

// BindingService resolves accounts to their platform identities
type BindingService struct {
	repo ports.BindingRepository
}

// NewBindingService creates a binding service
func NewBindingService(repo ports.BindingRepository) *BindingService {
	return &BindingService{repo: repo}
}

// GetBinding returns the first binding of accountID or core.ErrBindingNotFound
func (s *BindingService) GetBinding(ctx context.Context, accountID int64) (core.Binding, error) {
	return s.repo.FirstByAccount(ctx, accountID)
}
