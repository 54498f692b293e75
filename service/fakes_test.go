package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/layer-3/urllogin/core"
)

type recordingMinter struct {
	mu     sync.Mutex
	minted []core.Identity
	err    error
}

func (m *recordingMinter) MintSession(ctx context.Context, identity core.Identity) (core.Tokens, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.minted = append(m.minted, identity)
	if m.err != nil {
		return core.Tokens{}, m.err
	}
	return core.Tokens{SessionID: "sess", AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (m *recordingMinter) calls() []core.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.Identity(nil), m.minted...)
}

type recordingPublisher struct {
	mu      sync.Mutex
	logins  []int64
	logouts []string
	err     error
}

func (p *recordingPublisher) PublishLogin(ctx context.Context, userID int64, sessionID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logins = append(p.logins, userID)
	return p.err
}

func (p *recordingPublisher) PublishLogout(ctx context.Context, userID int64, tokenID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logouts = append(p.logouts, tokenID)
	return p.err
}

// sequenceGenerator hands out codes in order and repeats the last one
type sequenceGenerator struct {
	codes []string
	n     int
}

func (g *sequenceGenerator) Generate() string {
	code := g.codes[min(g.n, len(g.codes)-1)]
	g.n++
	return code
}

type failingStore struct{}

func (failingStore) Put(ctx context.Context, login core.PendingLogin) error {
	return errors.New("disk on fire")
}

func (failingStore) TakeIfValid(ctx context.Context, code string, now time.Time) (core.Identity, bool) {
	return core.Identity{}, false
}
