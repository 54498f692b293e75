package ports

import (
	"context"
	"time"

	"github.com/layer-3/urllogin/core"
)

// PendingStore holds issued login codes until they are redeemed or expire
type PendingStore interface {
	// Put records a pending login. It fails with core.ErrCodeTaken when a
	// live entry already owns the code.
	Put(ctx context.Context, login core.PendingLogin) error

	// TakeIfValid removes the entry for code and returns its identity when
	// it was still valid at now. Absent and expired entries both report false.
	TakeIfValid(ctx context.Context, code string, now time.Time) (core.Identity, bool)
}

// CodeGenerator produces one-time codes
type CodeGenerator interface {
	Generate() string
}
