package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/layer-3/urllogin/core"
	"github.com/layer-3/urllogin/internal/clock"
	"github.com/layer-3/urllogin/internal/logging"
	"github.com/layer-3/urllogin/ports"
)

// LinkWarning is prepended to every issued link
const LinkWarning = "This link contains your account information. Do not share it."

// maxGenerateAttempts bounds retries when a fresh code hits a live entry
const maxGenerateAttempts = 3

// LinkConfig controls how login links are issued
type LinkConfig struct {
	DirectOnly  bool   // Refuse issuance outside direct messages
	SelfURL     string // Console address for links, overrides ServerURL
	ServerURL   string // Server-wide public address
	ObservedURL string // Address the server observed itself listening on
	JumpURL     string // Redirect used when the caller gives none
}

// BaseURL returns the first non-empty of SelfURL, ServerURL and ObservedURL
// without trailing slashes
func (c LinkConfig) BaseURL() string {
	for _, u := range []string{c.SelfURL, c.ServerURL, c.ObservedURL} {
		if u = strings.TrimSpace(u); u != "" {
			return strings.TrimRight(u, "/")
		}
	}
	return ""
}

// IssueRequest describes a chat user asking for a login link
type IssueRequest struct {
	Identity core.Identity
	Redirect string
	Direct   bool // Whether the request came from a direct message
}

// LinkService issues one-time login links and redeems their codes
type LinkService struct {
	cfg      LinkConfig
	pending  ports.PendingStore
	codes    ports.CodeGenerator
	minter   ports.SessionMinter
	eventPub ports.EventPublisher
	clock    clock.Clocker
	log      logging.Logger
}

// NewLinkService creates a link service
func NewLinkService(
	cfg LinkConfig,
	pending ports.PendingStore,
	codes ports.CodeGenerator,
	minter ports.SessionMinter,
	eventPub ports.EventPublisher,
	clk clock.Clocker,
	log logging.Logger,
) *LinkService {
	return &LinkService{
		cfg:      cfg,
		pending:  pending,
		codes:    codes,
		minter:   minter,
		eventPub: eventPub,
		clock:    clk,
		log:      log,
	}
}

// IssueLink records a pending login for the caller and returns the URL that redeems it
func (s *LinkService) IssueLink(ctx context.Context, req IssueRequest) (core.Link, error) {
	if s.cfg.DirectOnly && !req.Direct {
		return core.Link{}, core.ErrDirectOnly
	}

	code, err := s.reserve(ctx, req.Identity)
	if err != nil {
		return core.Link{}, err
	}

	redirect := req.Redirect
	if redirect == "" {
		redirect = s.cfg.JumpURL
	}

	s.log.Info(ctx, "login link issued", "user_id", req.Identity.ID)

	return core.Link{
		URL:     BuildLoginURL(s.cfg.BaseURL(), code, redirect),
		Code:    code,
		Warning: LinkWarning,
	}, nil
}

func (s *LinkService) reserve(ctx context.Context, identity core.Identity) (string, error) {
	for attempt := 1; attempt <= maxGenerateAttempts; attempt++ {
		code := s.codes.Generate()
		err := s.pending.Put(ctx, core.PendingLogin{
			Code:     code,
			Identity: identity,
			IssuedAt: s.clock.Now(),
		})
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, core.ErrCodeTaken) {
			return "", fmt.Errorf("failed to store pending login: %w", err)
		}
		s.log.Warn(ctx, "generated code collided with a pending one", "attempt", attempt)
	}
	return "", core.ErrCodeGeneration
}

// Redeem consumes code and, if it was valid, mints a session for its identity.
// Unknown and expired codes both return false with a nil error. Once taken, a
// code is gone even if minting fails.
func (s *LinkService) Redeem(ctx context.Context, code string) (core.Tokens, bool, error) {
	identity, ok := s.pending.TakeIfValid(ctx, code, s.clock.Now())
	if !ok {
		return core.Tokens{}, false, nil
	}

	tokens, err := s.minter.MintSession(ctx, identity)
	if err != nil {
		return core.Tokens{}, false, fmt.Errorf("failed to mint session: %w", err)
	}

	if err := s.eventPub.PublishLogin(ctx, identity.ID, tokens.SessionID); err != nil {
		s.log.Warn(ctx, "failed to publish login event", "user_id", identity.ID, "err", err)
	}
	s.log.Info(ctx, "login link redeemed", "user_id", identity.ID)

	return tokens, true, nil
}

// BuildLoginURL appends the otp and optional redirect query parameters to base
func BuildLoginURL(base, code, redirect string) string {
	var b strings.Builder
	b.WriteString(base)
	b.WriteString("?otp=")
	b.WriteString(url.QueryEscape(code))
	if redirect != "" {
		b.WriteString("&redirect=")
		b.WriteString(url.QueryEscape(redirect))
	}
	return b.String()
}
