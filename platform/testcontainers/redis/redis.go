package redis

import (
	"context"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/you-humble/stockledger/platform/logger"
	"github.com/you-humble/stockledger/platform/testcontainers"
)

const startupTimeout = 1 * time.Minute

type Logger interface {
	Info(ctx context.Context, msg string, fields ...zap.Field)
	Error(ctx context.Context, msg string, fields ...zap.Field)
}

type Config struct {
	NetworkName  string
	NetworkAlias string
	ImageName    string
	Logger       Logger

	Address string
}

type Option func(*Config)

func WithNetwork(name, alias string) Option {
	return func(c *Config) {
		c.NetworkName = name
		c.NetworkAlias = alias
	}
}

func WithImageName(image string) Option {
	return func(c *Config) {
		c.ImageName = image
	}
}

func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

type Container struct {
	container tc.Container
	client    *goredis.Client
	cfg       *Config
}

func NewContainer(ctx context.Context, opts ...Option) (*Container, error) {
	cfg := &Config{
		NetworkAlias: testcontainers.RedisAlias,
		ImageName:    testcontainers.RedisImage,
		Logger:       &logger.NoopLogger{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	port := testcontainers.RedisPort + "/tcp"
	req := tc.ContainerRequest{
		Image:        cfg.ImageName,
		ExposedPorts: []string{port},
		WaitingFor:   wait.ForListeningPort(nat.Port(port)).WithStartupTimeout(startupTimeout),
	}
	if cfg.NetworkName != "" {
		req.Networks = []string{cfg.NetworkName}
		req.NetworkAliases = map[string][]string{cfg.NetworkName: {cfg.NetworkAlias}}
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, errors.Errorf("failed to start redis container: %v", err)
	}

	cfg.Address, err = container.Endpoint(ctx, "")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, errors.Errorf("failed to get redis endpoint: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{Addr: cfg.Address})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		_ = container.Terminate(ctx)
		return nil, errors.Errorf("failed to ping redis: %v", err)
	}

	cfg.Logger.Info(ctx, "Redis container started", zap.String("address", cfg.Address))

	return &Container{
		container: container,
		client:    client,
		cfg:       cfg,
	}, nil
}

func (c *Container) Client() *goredis.Client {
	return c.client
}

func (c *Container) Address() string {
	return c.cfg.Address
}

func (c *Container) Terminate(ctx context.Context) error {
	if err := c.client.Close(); err != nil {
		c.cfg.Logger.Error(ctx, "failed to close redis client", zap.Error(err))
	}

	if err := c.container.Terminate(ctx); err != nil {
		c.cfg.Logger.Error(ctx, "failed to terminate redis container", zap.Error(err))
	}

	c.cfg.Logger.Info(ctx, "Redis container terminated")

	return nil
}
