//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-humble/stockledger/internal/model"
	"github.com/you-humble/stockledger/internal/reconciler"
	tcredis "github.com/you-humble/stockledger/platform/testcontainers/redis"
)

func startRedis(t *testing.T) goredis.UniversalClient {
	t.Helper()

	c, err := tcredis.NewContainer(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	return c.Client()
}

func TestCache(t *testing.T) {
	rdb := startRedis(t)
	c := New(rdb, 10*time.Second)
	ctx := context.Background()

	t.Run("miss", func(t *testing.T) {
		_, err := c.Load(ctx, 404)
		assert.ErrorIs(t, err, reconciler.ErrCacheMiss)
	})

	t.Run("round trip", func(t *testing.T) {
		in := reconciler.Entry{
			Snapshot: model.Snapshot{Reminders: []model.Reminder{{ID: -5, Title: "Call"}}},
			Pending:  true,
		}
		require.NoError(t, c.Save(ctx, 1, in))

		out, err := c.Load(ctx, 1)
		require.NoError(t, err)
		assert.True(t, out.Pending)
		require.Len(t, out.Snapshot.Reminders, 1)
		assert.Equal(t, "Call", out.Snapshot.Reminders[0].Title)
	})

	t.Run("flush lock is exclusive", func(t *testing.T) {
		release, ok, err := c.TryLock(ctx, 2)
		require.NoError(t, err)
		require.True(t, ok)

		_, ok, err = c.TryLock(ctx, 2)
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = c.TryLock(ctx, 3)
		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, release(ctx))
		_, ok, err = c.TryLock(ctx, 2)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
