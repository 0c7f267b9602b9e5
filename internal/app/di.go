package app

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/IBM/sarama"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/you-humble/stockledger/internal/config"
	"github.com/you-humble/stockledger/internal/converter"
	"github.com/you-humble/stockledger/internal/owner"
	"github.com/you-humble/stockledger/internal/reconciler"
	filecache "github.com/you-humble/stockledger/internal/reconciler/cache/file"
	rediscache "github.com/you-humble/stockledger/internal/reconciler/cache/redis"
	"github.com/you-humble/stockledger/internal/reconciler/remote"
	bundlerepo "github.com/you-humble/stockledger/internal/repository/bundle"
	operationrepo "github.com/you-humble/stockledger/internal/repository/operation"
	productrepo "github.com/you-humble/stockledger/internal/repository/product"
	reminderrepo "github.com/you-humble/stockledger/internal/repository/reminder"
	reservationrepo "github.com/you-humble/stockledger/internal/repository/reservation"
	snapshotrepo "github.com/you-humble/stockledger/internal/repository/snapshot"
	"github.com/you-humble/stockledger/internal/repository/txmanager"
	opconsumer "github.com/you-humble/stockledger/internal/service/consumer/operation"
	dashsvc "github.com/you-humble/stockledger/internal/service/dashboard"
	opsvc "github.com/you-humble/stockledger/internal/service/operation"
	opproducer "github.com/you-humble/stockledger/internal/service/producer/operation"
	prodsvc "github.com/you-humble/stockledger/internal/service/product"
	remsvc "github.com/you-humble/stockledger/internal/service/reminder"
	ressvc "github.com/you-humble/stockledger/internal/service/reservation"
	snapsvc "github.com/you-humble/stockledger/internal/service/snapshot"
	"github.com/you-humble/stockledger/internal/transport/http/health"
	thttp "github.com/you-humble/stockledger/internal/transport/http/ledger/v1"
	"github.com/you-humble/stockledger/internal/transport/http/middleware"
	"github.com/you-humble/stockledger/platform/closer"
	"github.com/you-humble/stockledger/platform/db/migrator"
	"github.com/you-humble/stockledger/platform/kafka"
	"github.com/you-humble/stockledger/platform/kafka/consumer"
	kafkamw "github.com/you-humble/stockledger/platform/kafka/middleware"
	"github.com/you-humble/stockledger/platform/kafka/producer"
	"github.com/you-humble/stockledger/platform/logger"
)

// Repositories are shared by several services; each interface below is the
// union of what its consumers declare.
type (
	ProductRepository interface {
		prodsvc.ProductRepository
		opsvc.ProductRepository
	}

	OperationRepository interface {
		opsvc.OperationRepository
		prodsvc.OperationRepository
		dashsvc.OperationRepository
		snapsvc.OperationRepository
	}

	ReservationRepository interface {
		opsvc.ReservationRepository
		ressvc.ReservationRepository
		snapsvc.ReservationRepository
	}

	BundleRepository interface {
		opsvc.BundleRepository
		snapsvc.BundleRepository
	}

	ReminderRepository interface {
		opsvc.ReminderRepository
		remsvc.ReminderRepository
		snapsvc.ReminderRepository
	}

	TxManager interface {
		opsvc.TxManager
	}
)

type Converter interface {
	opproducer.Converter
	opconsumer.Converter
}

type ProductService interface {
	thttp.ProductService
	snapsvc.ProductSummarizer
}

type DashboardService interface {
	thttp.DashboardService
	opconsumer.Service
}

type LowStockWatcher interface {
	RunLowStockWatch(ctx context.Context) error
}

type di struct {
	dbPool   *pgxpool.Pool
	migrator *migrator.Migrator
	tx       TxManager

	productRepository     ProductRepository
	operationRepository   OperationRepository
	reservationRepository ReservationRepository
	bundleRepository      BundleRepository
	reminderRepository    ReminderRepository
	snapshotRepository    snapsvc.SnapshotRepository

	conv Converter

	syncProducer   sarama.SyncProducer
	eventsProducer kafka.Producer
	eventSender    opsvc.EventProducer

	consumerGroup   sarama.ConsumerGroup
	eventsConsumer  kafka.Consumer
	lowStockWatcher LowStockWatcher

	productService     ProductService
	operationService   thttp.OperationService
	reservationService thttp.ReservationService
	reminderService    thttp.ReminderService
	dashboardService   DashboardService
	snapshotService    thttp.SnapshotService

	resolver     *owner.Resolver
	ledgerRoutes chi.Router
	router       *chi.Mux

	redisClient goredis.UniversalClient
	reconciler  *reconciler.Reconciler
}

func NewDI() *di { return &di{} }

func (d *di) DBPool(ctx context.Context) *pgxpool.Pool {
	if d.dbPool == nil {
		pool, err := pgxpool.New(ctx, config.C().Postgres.DSN())
		if err != nil {
			panic(fmt.Sprintf("failed to create pg pool: %v\n", err))
		}

		closer.AddNamed("PGX Pool",
			func(ctx context.Context) error {
				pool.Close()
				return nil
			})

		if err := pool.Ping(ctx); err != nil {
			panic(fmt.Sprintf("failed to ping db: %v\n", err))
		}

		d.dbPool = pool
	}

	return d.dbPool
}

func (d *di) Migrator(ctx context.Context) *migrator.Migrator {
	if d.migrator == nil {
		d.migrator = migrator.NewMigrator(
			stdlib.OpenDBFromPool(d.DBPool(ctx)),
			config.C().Postgres.MigrationDirectory(),
		)

		closer.AddNamed("Migrator",
			func(ctx context.Context) error {
				return d.migrator.Close()
			})
	}

	return d.migrator
}

func (d *di) TxManager(ctx context.Context) TxManager {
	if d.tx == nil {
		d.tx = txmanager.New(d.DBPool(ctx))
	}

	return d.tx
}

func (d *di) ProductRepository(ctx context.Context) ProductRepository {
	if d.productRepository == nil {
		d.productRepository = productrepo.NewProductRepository(d.DBPool(ctx))
	}

	return d.productRepository
}

func (d *di) OperationRepository(ctx context.Context) OperationRepository {
	if d.operationRepository == nil {
		d.operationRepository = operationrepo.NewOperationRepository(d.DBPool(ctx))
	}

	return d.operationRepository
}

func (d *di) ReservationRepository(ctx context.Context) ReservationRepository {
	if d.reservationRepository == nil {
		d.reservationRepository = reservationrepo.NewReservationRepository(d.DBPool(ctx))
	}

	return d.reservationRepository
}

func (d *di) BundleRepository(ctx context.Context) BundleRepository {
	if d.bundleRepository == nil {
		d.bundleRepository = bundlerepo.NewBundleRepository(d.DBPool(ctx))
	}

	return d.bundleRepository
}

func (d *di) ReminderRepository(ctx context.Context) ReminderRepository {
	if d.reminderRepository == nil {
		d.reminderRepository = reminderrepo.NewReminderRepository(d.DBPool(ctx))
	}

	return d.reminderRepository
}

func (d *di) SnapshotRepository(ctx context.Context) snapsvc.SnapshotRepository {
	if d.snapshotRepository == nil {
		d.snapshotRepository = snapshotrepo.NewSnapshotRepository(d.DBPool(ctx))
	}

	return d.snapshotRepository
}

func (d *di) KafkaConverter(_ context.Context) Converter {
	if d.conv == nil {
		d.conv = converter.NewKafkaConverter()
	}

	return d.conv
}

func (d *di) SyncProducer(_ context.Context) sarama.SyncProducer {
	if d.syncProducer == nil {
		cfg := config.C()

		p, err := sarama.NewSyncProducer(
			cfg.Kafka.Brokers(),
			cfg.Kafka.LedgerEventsProducerConfig(),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create sync producer: %s\n", err.Error()))
		}
		closer.AddNamed("Kafka sync producer", func(ctx context.Context) error {
			return p.Close()
		})

		d.syncProducer = p
	}

	return d.syncProducer
}

func (d *di) LedgerEventsProducer(ctx context.Context) kafka.Producer {
	if d.eventsProducer == nil {
		d.eventsProducer = producer.NewProducer(
			d.SyncProducer(ctx),
			config.C().Kafka.LedgerEventsTopic(),
			logger.L(),
		)
	}

	return d.eventsProducer
}

// EventSender publishes ledger events when Kafka is enabled and drops them
// otherwise.
func (d *di) EventSender(ctx context.Context) opsvc.EventProducer {
	if d.eventSender == nil {
		if !config.C().Kafka.Enabled() {
			logger.Info(ctx, "kafka disabled, ledger events are not published")
			d.eventSender = opproducer.NewNoopProducer()
			return d.eventSender
		}

		d.eventSender = opproducer.NewOperationProducer(
			d.LedgerEventsProducer(ctx),
			d.KafkaConverter(ctx),
		)
	}

	return d.eventSender
}

func (d *di) ConsumerGroup(_ context.Context) sarama.ConsumerGroup {
	if d.consumerGroup == nil {
		cfg := config.C()

		consumerGroup, err := sarama.NewConsumerGroup(
			cfg.Kafka.Brokers(),
			cfg.Kafka.LowStockConsumerGroupID(),
			cfg.Kafka.LowStockConsumerConfig(),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create consumer group: %s\n", err.Error()))
		}
		closer.AddNamed("Kafka consumer group", func(ctx context.Context) error {
			return consumerGroup.Close()
		})

		d.consumerGroup = consumerGroup
	}

	return d.consumerGroup
}

func (d *di) LedgerEventsConsumer(ctx context.Context) kafka.Consumer {
	if d.eventsConsumer == nil {
		d.eventsConsumer = consumer.NewConsumer(
			d.ConsumerGroup(ctx),
			[]string{
				config.C().Kafka.LedgerEventsTopic(),
			},
			logger.L(),
			kafkamw.Recovery(logger.L()),
			kafkamw.Logging(logger.L()),
		)
	}

	return d.eventsConsumer
}

func (d *di) LowStockWatcher(ctx context.Context) LowStockWatcher {
	if d.lowStockWatcher == nil {
		d.lowStockWatcher = opconsumer.NewOperationConsumer(
			d.LedgerEventsConsumer(ctx),
			d.KafkaConverter(ctx),
			d.DashboardService(ctx),
		)
	}

	return d.lowStockWatcher
}

func (d *di) ProductService(ctx context.Context) ProductService {
	if d.productService == nil {
		d.productService = prodsvc.NewProductService(
			d.ProductRepository(ctx),
			d.OperationRepository(ctx),
			d.TxManager(ctx),
			config.C().Server.DBReadTimeout(),
			config.C().Server.DBWriteTimeout(),
		)
	}

	return d.productService
}

func (d *di) OperationService(ctx context.Context) thttp.OperationService {
	if d.operationService == nil {
		d.operationService = opsvc.NewOperationService(
			d.ProductRepository(ctx),
			d.OperationRepository(ctx),
			d.ReservationRepository(ctx),
			d.BundleRepository(ctx),
			d.ReminderRepository(ctx),
			d.EventSender(ctx),
			d.TxManager(ctx),
			config.C().Server.DBReadTimeout(),
			config.C().Server.DBWriteTimeout(),
		)
	}

	return d.operationService
}

func (d *di) ReservationService(ctx context.Context) thttp.ReservationService {
	if d.reservationService == nil {
		d.reservationService = ressvc.NewReservationService(
			d.ReservationRepository(ctx),
			config.C().Server.DBReadTimeout(),
			config.C().Server.DBWriteTimeout(),
		)
	}

	return d.reservationService
}

func (d *di) ReminderService(ctx context.Context) thttp.ReminderService {
	if d.reminderService == nil {
		d.reminderService = remsvc.NewReminderService(
			d.ReminderRepository(ctx),
			config.C().Server.DBReadTimeout(),
			config.C().Server.DBWriteTimeout(),
		)
	}

	return d.reminderService
}

func (d *di) DashboardService(ctx context.Context) DashboardService {
	if d.dashboardService == nil {
		d.dashboardService = dashsvc.NewDashboardService(
			d.ProductService(ctx),
			d.OperationRepository(ctx),
			config.C().Server.DBReadTimeout(),
		)
	}

	return d.dashboardService
}

func (d *di) SnapshotService(ctx context.Context) thttp.SnapshotService {
	if d.snapshotService == nil {
		d.snapshotService = snapsvc.NewSnapshotService(
			d.ProductService(ctx),
			d.OperationRepository(ctx),
			d.ReservationRepository(ctx),
			d.ReminderRepository(ctx),
			d.BundleRepository(ctx),
			d.SnapshotRepository(ctx),
			d.TxManager(ctx),
			config.C().Server.DBReadTimeout(),
			config.C().Server.DBWriteTimeout(),
		)
	}

	return d.snapshotService
}

func (d *di) Resolver(_ context.Context) *owner.Resolver {
	if d.resolver == nil {
		cfg := config.C().Auth
		d.resolver = owner.NewResolver(cfg.JWTSecret(), cfg.FallbackOwnerID())
	}

	return d.resolver
}

func (d *di) LedgerRoutes(ctx context.Context) chi.Router {
	if d.ledgerRoutes == nil {
		d.ledgerRoutes = thttp.NewLedgerHandler(thttp.Services{
			Products:     d.ProductService(ctx),
			Operations:   d.OperationService(ctx),
			Reservations: d.ReservationService(ctx),
			Reminders:    d.ReminderService(ctx),
			Dashboard:    d.DashboardService(ctx),
			Snapshots:    d.SnapshotService(ctx),
		}).Routes()
	}

	return d.ledgerRoutes
}

// Router serves /health and /metrics openly and the ledger API under
// /api/v1 behind the owner guard.
func (d *di) Router(ctx context.Context) *chi.Mux {
	if d.router == nil {
		r := chi.NewRouter()
		r.Use(
			chimw.Recoverer,
			middleware.RequestID,
			chimw.Logger,
			middleware.Metrics,
		)

		r.Get("/health", health.Handler(d.DBPool(ctx)))
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())

		r.Route("/api/v1", func(r chi.Router) {
			r.Use(middleware.Auth(d.Resolver(ctx)))
			r.Mount("/", d.LedgerRoutes(ctx))
		})

		d.router = r
	}

	return d.router
}

func (d *di) RedisClient(ctx context.Context) goredis.UniversalClient {
	if d.redisClient == nil {
		cfg := config.C().Redis

		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Address(),
			Password: cfg.Password(),
			DB:       cfg.DB(),
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			panic(fmt.Sprintf("failed to ping redis %s: %v\n", cfg.Address(), err))
		}
		closer.AddNamed("Redis client", func(ctx context.Context) error {
			return rdb.Close()
		})

		d.redisClient = rdb
	}

	return d.redisClient
}

// Reconciler is the sync client. It is not logged in yet.
func (d *di) Reconciler(ctx context.Context) *reconciler.Reconciler {
	if d.reconciler == nil {
		cfg := config.C().Sync

		client := remote.New(cfg.ServerURL(), cfg.Token(), &http.Client{})

		var (
			cache reconciler.Cache
			opts  []reconciler.Option
		)
		switch cfg.CacheBackend() {
		case "redis":
			rc := rediscache.New(d.RedisClient(ctx), config.C().Redis.LockTTL())
			cache = rc
			opts = append(opts, reconciler.WithLocker(rc))
		case "file":
			fc, err := filecache.New(filepath.Clean(cfg.CachePath()))
			if err != nil {
				panic(fmt.Sprintf("failed to open sync cache: %v\n", err))
			}
			cache = fc
		default:
			panic(fmt.Sprintf("unknown sync cache backend %q\n", cfg.CacheBackend()))
		}

		d.reconciler = reconciler.New(client, cache, cfg.RequestTimeout(), cfg.FlushInterval(), opts...)
	}

	return d.reconciler
}
