package ports

import (
	"context"

	"github.com/layer-3/urllogin/core"
)

// BindingRepository reads platform bindings of accounts
type BindingRepository interface {
	// FirstByAccount returns the first binding of the account, or
	// core.ErrBindingNotFound when it has none.
	FirstByAccount(ctx context.Context, accountID int64) (core.Binding, error)
}
