package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisStore(client).(*RedisStore)
}

func TestRedisStore_InvalidateToken(t *testing.T) {
	mr, s := newRedisStore(t)
	ctx := context.Background()

	invalidated, err := s.IsTokenInvalidated(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, invalidated)

	require.NoError(t, s.InvalidateToken(ctx, "jti-1", time.Minute))
	assert.True(t, mr.Exists("urllogin:invalidated:jti-1"))

	invalidated, err = s.IsTokenInvalidated(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, invalidated)

	mr.FastForward(2 * time.Minute)
	invalidated, err = s.IsTokenInvalidated(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, invalidated)
}

func TestRedisStore_ConnectionErrors(t *testing.T) {
	mr, s := newRedisStore(t)
	mr.Close()
	ctx := context.Background()

	assert.Error(t, s.InvalidateToken(ctx, "jti-1", time.Minute))
	_, err := s.IsTokenInvalidated(ctx, "jti-1")
	assert.Error(t, err)
}
