package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/layer-3/urllogin/core"
	"github.com/layer-3/urllogin/internal/clock"
	"github.com/layer-3/urllogin/internal/logging"
	"github.com/layer-3/urllogin/ports"
)

// AuthService mints and maintains console sessions
type AuthService struct {
	tokenizer ports.Tokenizer
	store     ports.Store
	eventPub  ports.EventPublisher
	clock     clock.Clocker
	log       logging.Logger

	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewAuthService creates a new authentication service
func NewAuthService(
	tokenizer ports.Tokenizer,
	store ports.Store,
	eventPub ports.EventPublisher,
	clk clock.Clocker,
	log logging.Logger,
) *AuthService {
	return &AuthService{
		tokenizer:  tokenizer,
		store:      store,
		eventPub:   eventPub,
		clock:      clk,
		log:        log,
		accessTTL:  5 * time.Minute,
		refreshTTL: 5 * 24 * time.Hour, // 5 days
	}
}

// MintSession creates a fresh session for identity and returns its tokens
func (s *AuthService) MintSession(ctx context.Context, identity core.Identity) (core.Tokens, error) {
	now := s.clock.Now()
	session := &core.Session{
		ID:            uuid.New().String(),
		UserID:        identity.ID,
		Name:          identity.Name,
		Authority:     identity.Authority,
		IssuedAt:      now,
		RefreshExpiry: now.Add(s.refreshTTL),
		AccessExpiry:  now.Add(s.accessTTL),
		RefreshID:     uuid.New().String(),
	}

	return s.sign(session)
}

// Refresh rotates the refresh token and issues new access and refresh tokens
func (s *AuthService) Refresh(ctx context.Context, refreshTokenStr string) (core.Tokens, error) {
	session, err := s.tokenizer.RefreshTokenToSession(refreshTokenStr)
	if err != nil {
		return core.Tokens{}, fmt.Errorf("invalid refresh token: %w", err)
	}

	if s.clock.Now().After(session.RefreshExpiry) {
		return core.Tokens{}, core.ErrTokenExpired
	}

	invalidated, err := s.store.IsTokenInvalidated(ctx, session.RefreshID)
	if err != nil {
		return core.Tokens{}, fmt.Errorf("failed to check token invalidation: %w", err)
	}
	if invalidated {
		return core.Tokens{}, core.ErrTokenInvalidated
	}

	// The revocation record only has to outlive the old token
	remainingTime := session.RefreshExpiry.Sub(s.clock.Now())
	if err := s.store.InvalidateToken(ctx, session.RefreshID, remainingTime); err != nil {
		return core.Tokens{}, fmt.Errorf("failed to invalidate old token: %w", err)
	}

	return s.MintSession(ctx, core.Identity{
		ID:        session.UserID,
		Name:      session.Name,
		Authority: session.Authority,
	})
}

// Logout invalidates a refresh token
func (s *AuthService) Logout(ctx context.Context, refreshTokenStr string) error {
	session, err := s.tokenizer.RefreshTokenToSession(refreshTokenStr)
	if err != nil {
		return fmt.Errorf("invalid refresh token: %w", err)
	}

	remainingTime := session.RefreshExpiry.Sub(s.clock.Now())
	if remainingTime <= 0 {
		// Keep a record anyway in case clocks disagree
		remainingTime = time.Hour
	}

	if err := s.store.InvalidateToken(ctx, session.RefreshID, remainingTime); err != nil {
		return fmt.Errorf("failed to invalidate token: %w", err)
	}

	// The token is already invalidated in the store, publishing is best effort
	if err := s.eventPub.PublishLogout(ctx, session.UserID, session.RefreshID); err != nil {
		s.log.Warn(ctx, "failed to publish logout event", "user_id", session.UserID, "err", err)
	}

	return nil
}

// ValidateAccessToken parses an access token and checks that its session is still live
func (s *AuthService) ValidateAccessToken(ctx context.Context, accessToken string) (*core.Session, error) {
	session, err := s.tokenizer.AccessTokenToSession(accessToken)
	if err != nil {
		return nil, fmt.Errorf("invalid access token: %w", err)
	}

	if s.clock.Now().After(session.AccessExpiry) {
		return nil, core.ErrTokenExpired
	}

	// Logging out revokes the refresh token, which also revokes its access tokens
	if session.RefreshID != "" {
		invalidated, err := s.store.IsTokenInvalidated(ctx, session.RefreshID)
		if err != nil {
			return nil, fmt.Errorf("failed to check token invalidation: %w", err)
		}
		if invalidated {
			return nil, core.ErrTokenInvalidated
		}
	}

	return session, nil
}

func (s *AuthService) sign(session *core.Session) (core.Tokens, error) {
	accessToken, err := s.tokenizer.SessionToAccessToken(session)
	if err != nil {
		return core.Tokens{}, fmt.Errorf("failed to create access token: %w", err)
	}

	refreshToken, err := s.tokenizer.SessionToRefreshToken(session)
	if err != nil {
		return core.Tokens{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	return core.Tokens{SessionID: session.ID, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
