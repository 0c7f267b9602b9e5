package postgres

import (
	"context"

	"go.uber.org/zap"

	"github.com/you-humble/stockledger/platform/logger"
	"github.com/you-humble/stockledger/platform/testcontainers"
)

type Logger interface {
	Info(ctx context.Context, msg string, fields ...zap.Field)
	Error(ctx context.Context, msg string, fields ...zap.Field)
}

type Config struct {
	NetworkName  string
	NetworkAlias string
	ImageName    string
	Database     string
	Username     string
	Password     string
	Logger       Logger

	Host string
	Port string
	DSN  string
}

func buildConfig(opts ...Option) *Config {
	cfg := &Config{
		NetworkAlias: testcontainers.PostgresAlias,
		ImageName:    testcontainers.PostgresImage,
		Database:     "stockledger",
		Username:     "stockledger",
		Password:     "stockledger",
		Logger:       &logger.NoopLogger{},
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}
