package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/you-humble/stockledger/internal/config"
	"github.com/you-humble/stockledger/platform/closer"
	"github.com/you-humble/stockledger/platform/logger"
)

const defaultShutdownTimeout = 10 * time.Second

var errNoAuth = errors.New("AUTH_JWT_SECRET or AUTH_FALLBACK_OWNER_ID must be set")

type app struct {
	di     *di
	server *http.Server
}

// New prepares the ledger server: config, logging, migrations and routes.
func New(ctx context.Context) (*app, error) {
	a := &app{}

	if err := a.init(ctx); err != nil {
		return nil, err
	}

	return a, nil
}

// Bootstrap loads config and logging and hands back the dependency
// container without touching the database. Commands that only need part
// of the graph start here and call Shutdown when done.
func Bootstrap(ctx context.Context) (*di, error) {
	a := &app{}

	inits := []func(context.Context) error{
		a.initConfig,
		a.initLogger,
		a.initCloser,
		a.initDI,
	}
	for _, initFn := range inits {
		if err := initFn(ctx); err != nil {
			return nil, err
		}
	}

	return a.di, nil
}

func (a *app) Run(ctx context.Context) error { return a.run(ctx) }

func (a *app) init(ctx context.Context) error {
	inits := []func(context.Context) error{
		a.initConfig,
		a.initLogger,
		a.initCloser,
		a.initDI,
		a.initTables,
		a.initServer,
	}

	for _, initFn := range inits {
		if err := initFn(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) initConfig(_ context.Context) error {
	return config.Load()
}

func (a *app) initLogger(_ context.Context) error {
	return logger.Init(
		config.C().Logger.Level(),
		config.C().Logger.AsJSON(),
	)
}

func (a *app) initCloser(_ context.Context) error {
	closer.SetLogger(logger.L())
	return nil
}

func (a *app) initDI(_ context.Context) error {
	a.di = NewDI()
	return nil
}

func (a *app) initTables(ctx context.Context) error {
	applied, err := a.di.Migrator(ctx).Up(ctx)
	if err != nil {
		logger.Error(ctx, "failed to apply migrations", logger.ErrorF(err))
		return err
	}
	if len(applied) > 0 {
		logger.Info(ctx, "migrations applied", logger.Int("count", len(applied)))
	}
	return nil
}

func (a *app) initServer(ctx context.Context) error {
	cfg := config.C()

	if cfg.Auth.JWTSecret() == "" && cfg.Auth.FallbackOwnerID() == 0 {
		logger.Error(ctx, "refusing to serve without authentication", logger.ErrorF(errNoAuth))
		return errNoAuth
	}

	a.server = &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           a.di.Router(ctx),
		ReadHeaderTimeout: cfg.Server.ReadTimeout(),
	}
	return nil
}

func (a *app) run(ctx context.Context) error {
	defer Shutdown()

	eg, egCtx := errgroup.WithContext(ctx)

	if config.C().Kafka.Enabled() {
		eg.Go(func() error {
			logger.Info(egCtx,
				"🚀 low stock watcher running",
				logger.Strings("kafka_brokers", config.C().Kafka.Brokers()),
			)
			if err := a.di.LowStockWatcher(egCtx).RunLowStockWatch(egCtx); err != nil {
				return fmt.Errorf("low stock watcher: %w", err)
			}

			return nil
		})
	}

	eg.Go(func() error {
		logger.Info(egCtx,
			"🚀 ledger server listening",
			logger.String("address", config.C().Server.Address()),
		)
		err := a.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	eg.Go(func() error {
		<-egCtx.Done()

		//nolint:contextcheck
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			config.C().Server.ShutdownTimeout(),
		)
		defer cancel()

		return a.server.Shutdown(shutdownCtx)
	})

	if err := eg.Wait(); err != nil {
		return err
	}
	return nil
}

// Shutdown releases everything registered with the closer.
//
//nolint:contextcheck
func Shutdown() {
	timeout := defaultShutdownTimeout
	if cfg := config.C(); cfg != nil {
		timeout = cfg.Server.ShutdownTimeout()
	}

	ctx, cancel := context.WithTimeout(
		context.Background(), // do not inherit cancellation from ctx
		timeout,
	)
	defer cancel()
	defer func() { _ = logger.Sync() }()

	err := closer.CloseAll(ctx)
	if err != nil {
		logger.Error(ctx, "❌ Error during shutdown", logger.ErrorF(err))
		logger.Error(ctx, "❌😵‍💫 Stopped")
		return
	}
	logger.Info(ctx, "✅ Stopped")
}
