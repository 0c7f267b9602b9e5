// Package redis keeps sync cache entries in Redis so several clients of one
// owner share a cache, and serializes their flushes with a Redis lock.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bsm/redislock"
	goredis "github.com/redis/go-redis/v9"

	"github.com/you-humble/stockledger/internal/reconciler"
)

const keyPrefix = "stockledger:sync:"

type cache struct {
	rdb     goredis.UniversalClient
	locker  *redislock.Client
	lockTTL time.Duration
}

// New wraps rdb. lockTTL bounds how long a crashed flusher can hold the
// owner's flush lock.
func New(rdb goredis.UniversalClient, lockTTL time.Duration) *cache {
	return &cache{
		rdb:     rdb,
		locker:  redislock.New(rdb),
		lockTTL: lockTTL,
	}
}

func (c *cache) Load(ctx context.Context, ownerID int64) (*reconciler.Entry, error) {
	raw, err := c.rdb.Get(ctx, key(ownerID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, reconciler.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var e reconciler.Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("decode cache: %w", err)
	}
	return &e, nil
}

func (c *cache) Save(ctx context.Context, ownerID int64, e reconciler.Entry) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	if err := c.rdb.Set(ctx, key(ownerID), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// TryLock does not wait: ok is false when another process holds the lock.
func (c *cache) TryLock(ctx context.Context, ownerID int64) (func(context.Context) error, bool, error) {
	lock, err := c.locker.Obtain(ctx, key(ownerID)+":flush", c.lockTTL, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("obtain flush lock: %w", err)
	}
	return lock.Release, true, nil
}

func key(ownerID int64) string {
	return keyPrefix + strconv.FormatInt(ownerID, 10)
}
