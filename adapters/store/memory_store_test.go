package store

import (
	"context"
	"testing"
	"time"

	"github.com/layer-3/urllogin/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_InvalidateToken(t *testing.T) {
	clk := &clock.Fixed{T: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	s := NewMemoryStore(clk)
	ctx := context.Background()

	invalidated, err := s.IsTokenInvalidated(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, invalidated)

	require.NoError(t, s.InvalidateToken(ctx, "jti-1", time.Minute))

	invalidated, err = s.IsTokenInvalidated(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, invalidated)

	clk.Set(clk.Now().Add(2 * time.Minute))
	invalidated, err = s.IsTokenInvalidated(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, invalidated)
	assert.Empty(t, s.(*MemoryStore).invalidatedTokens)
}

func TestMemoryStore_InvalidateKeepsLongerExpiry(t *testing.T) {
	clk := &clock.Fixed{T: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	s := NewMemoryStore(clk)
	ctx := context.Background()

	require.NoError(t, s.InvalidateToken(ctx, "jti-1", time.Hour))
	require.NoError(t, s.InvalidateToken(ctx, "jti-1", time.Minute))

	clk.Set(clk.Now().Add(30 * time.Minute))
	invalidated, err := s.IsTokenInvalidated(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, invalidated)
}
