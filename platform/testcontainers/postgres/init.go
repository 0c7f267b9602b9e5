package postgres

import (
	"context"
	"time"

	"github.com/pkg/errors"
	tc "github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const startupTimeout = 1 * time.Minute

func startPostgresContainer(ctx context.Context, cfg *Config) (*tcpostgres.PostgresContainer, error) {
	opts := []tc.ContainerCustomizer{
		tcpostgres.WithDatabase(cfg.Database),
		tcpostgres.WithUsername(cfg.Username),
		tcpostgres.WithPassword(cfg.Password),
		tc.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(startupTimeout),
		),
	}
	if cfg.NetworkName != "" {
		opts = append(opts, withNetwork(cfg.NetworkName, cfg.NetworkAlias))
	}

	container, err := tcpostgres.Run(ctx, cfg.ImageName, opts...)
	if err != nil {
		return nil, errors.Errorf("failed to start postgres container: %v", err)
	}

	return container, nil
}

func withNetwork(name, alias string) tc.CustomizeRequestOption {
	return func(req *tc.GenericContainerRequest) error {
		req.Networks = append(req.Networks, name)
		if req.NetworkAliases == nil {
			req.NetworkAliases = make(map[string][]string)
		}
		req.NetworkAliases[name] = append(req.NetworkAliases[name], alias)
		return nil
	}
}
