package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

const (
	pingAttempts = 20
	pingInterval = 250 * time.Millisecond
)

func connectPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Errorf("failed to create pg pool: %v", err)
	}

	for range pingAttempts {
		if err = pool.Ping(ctx); err == nil {
			return pool, nil
		}
		time.Sleep(pingInterval)
	}

	pool.Close()
	return nil, errors.Errorf("failed to ping postgres: %v", err)
}
