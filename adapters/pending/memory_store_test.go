package pending

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/layer-3/urllogin/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func alice() core.Identity {
	return core.Identity{ID: 7, Name: "alice", Authority: 2, Config: json.RawMessage(`{"locale":"en"}`)}
}

func TestMemoryStore_TakeIsAtMostOnce(t *testing.T) {
	s := NewMemoryStore(5 * time.Second)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, core.PendingLogin{Code: "abc123", Identity: alice(), IssuedAt: t0}))

	got, ok := s.TakeIfValid(ctx, "abc123", t0.Add(time.Second))
	require.True(t, ok)
	assert.Equal(t, alice(), got)

	_, ok = s.TakeIfValid(ctx, "abc123", t0.Add(time.Second))
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStore_TakeUnknownCode(t *testing.T) {
	s := NewMemoryStore(time.Second)

	got, ok := s.TakeIfValid(context.Background(), "nope", t0)
	assert.False(t, ok)
	assert.Equal(t, core.Identity{}, got)
}

func TestMemoryStore_ExpiryBoundary(t *testing.T) {
	timeout := 5 * time.Second
	ctx := context.Background()

	t.Run("exactly at timeout is valid", func(t *testing.T) {
		s := NewMemoryStore(timeout)
		require.NoError(t, s.Put(ctx, core.PendingLogin{Code: "c", Identity: alice(), IssuedAt: t0}))

		_, ok := s.TakeIfValid(ctx, "c", t0.Add(timeout))
		assert.True(t, ok)
	})

	t.Run("one millisecond late is expired and removed", func(t *testing.T) {
		s := NewMemoryStore(timeout)
		require.NoError(t, s.Put(ctx, core.PendingLogin{Code: "c", Identity: alice(), IssuedAt: t0}))

		_, ok := s.TakeIfValid(ctx, "c", t0.Add(timeout+time.Millisecond))
		assert.False(t, ok)
		assert.Equal(t, 0, s.Len())

		_, ok = s.TakeIfValid(ctx, "c", t0)
		assert.False(t, ok)
	})
}

func TestMemoryStore_PutRejectsLiveCollision(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, core.PendingLogin{Code: "dup", Identity: alice(), IssuedAt: t0}))

	bob := core.Identity{ID: 8, Name: "bob"}
	err := s.Put(ctx, core.PendingLogin{Code: "dup", Identity: bob, IssuedAt: t0.Add(time.Second)})
	assert.ErrorIs(t, err, core.ErrCodeTaken)

	got, ok := s.TakeIfValid(ctx, "dup", t0.Add(2*time.Second))
	require.True(t, ok)
	assert.Equal(t, int64(7), got.ID, "the original owner must keep the code")
}

func TestMemoryStore_PutReplacesExpiredEntry(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, core.PendingLogin{Code: "old", Identity: alice(), IssuedAt: t0}))

	later := t0.Add(2 * time.Minute)
	bob := core.Identity{ID: 8, Name: "bob"}
	require.NoError(t, s.Put(ctx, core.PendingLogin{Code: "old", Identity: bob, IssuedAt: later}))

	got, ok := s.TakeIfValid(ctx, "old", later)
	require.True(t, ok)
	assert.Equal(t, bob, got)
}

func TestMemoryStore_SnapshotIsolated(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()

	id := alice()
	require.NoError(t, s.Put(ctx, core.PendingLogin{Code: "snap", Identity: id, IssuedAt: t0}))

	// Mutating the caller's copy must not reach the pending offer
	id.Name = "mallory"
	id.Config[2] = 'X'

	got, ok := s.TakeIfValid(ctx, "snap", t0)
	require.True(t, ok)
	assert.Equal(t, "alice", got.Name)
	assert.JSONEq(t, `{"locale":"en"}`, string(got.Config))
}

func TestMemoryStore_ConcurrentTakeRedeemsOnce(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()

	for round := 0; round < 50; round++ {
		require.NoError(t, s.Put(ctx, core.PendingLogin{Code: "race", Identity: alice(), IssuedAt: t0}))

		var (
			wg   sync.WaitGroup
			wins atomic.Int32
		)
		start := make(chan struct{})
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				if _, ok := s.TakeIfValid(ctx, "race", t0); ok {
					wins.Add(1)
				}
			}()
		}
		close(start)
		wg.Wait()

		require.Equal(t, int32(1), wins.Load(), "round %d", round)
	}
}

func TestMemoryStore_Sweep(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, core.PendingLogin{Code: "stale", Identity: alice(), IssuedAt: t0}))
	require.NoError(t, s.Put(ctx, core.PendingLogin{Code: "fresh", Identity: alice(), IssuedAt: t0.Add(90 * time.Second)}))

	removed := s.Sweep(t0.Add(2 * time.Minute))
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, s.Len())

	_, ok := s.TakeIfValid(ctx, "fresh", t0.Add(2*time.Minute))
	assert.True(t, ok)
}

func TestMemoryStore_RunSweeperStopsWithContext(t *testing.T) {
	s := NewMemoryStore(time.Millisecond)
	require.NoError(t, s.Put(context.Background(), core.PendingLogin{Code: "x", Identity: alice(), IssuedAt: t0}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.RunSweeper(ctx, time.Millisecond, func() time.Time { return t0.Add(time.Hour) })
		close(done)
	}()

	require.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
