package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *AppSessionStore {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: 9})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.FlushDB(context.Background()).Err())
	return NewAppSessionStore(rdb, time.Minute)
}

func TestSessionLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "sid-1", "user-1"))

	as, err := s.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", as.UserID)

	require.NoError(t, s.Delete(ctx, "sid-1"))
	_, err = s.Get(ctx, "sid-1")
	assert.Error(t, err)
}

func TestRevokeAllForUser(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "sid-a", "user-1"))
	require.NoError(t, s.Create(ctx, "sid-b", "user-1"))
	require.NoError(t, s.Create(ctx, "sid-c", "user-2"))

	require.NoError(t, s.RevokeAllForUser(ctx, "user-1"))

	_, err := s.Get(ctx, "sid-a")
	assert.Error(t, err)
	_, err = s.Get(ctx, "sid-b")
	assert.Error(t, err)

	// other users keep their sessions
	as, err := s.Get(ctx, "sid-c")
	require.NoError(t, err)
	assert.Equal(t, "user-2", as.UserID)
}
