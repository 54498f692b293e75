package ports

import (
	"context"

	"github.com/layer-3/urllogin/core"
)

// Tokenizer converts between sessions and tokens
type Tokenizer interface {
	SessionToAccessToken(session *core.Session) (string, error)
	AccessTokenToSession(token string) (*core.Session, error)
	SessionToRefreshToken(session *core.Session) (string, error)
	RefreshTokenToSession(token string) (*core.Session, error)
}

// SessionMinter creates a console session for an identity
type SessionMinter interface {
	MintSession(ctx context.Context, identity core.Identity) (core.Tokens, error)
}
