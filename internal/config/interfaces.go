package config

import (
	"time"

	"github.com/IBM/sarama"
)

type Server interface {
	Host() string
	Port() int
	Address() string
	ReadTimeout() time.Duration
	ShutdownTimeout() time.Duration
	DBReadTimeout() time.Duration
	DBWriteTimeout() time.Duration
}

type Logger interface {
	Level() string
	AsJSON() bool
}

type Database interface {
	MigrationDirectory() string
	DSN() string
}

type Kafka interface {
	Enabled() bool
	Brokers() []string
	LedgerEventsTopic() string
	LowStockConsumerGroupID() string
	LedgerEventsProducerConfig() *sarama.Config
	LowStockConsumerConfig() *sarama.Config
}

type Auth interface {
	JWTSecret() string
	FallbackOwnerID() int64
}

type Sync interface {
	ServerURL() string
	Token() string
	FlushInterval() time.Duration
	RequestTimeout() time.Duration
	CacheBackend() string
	CachePath() string
}

type Redis interface {
	Address() string
	Password() string
	DB() int
	LockTTL() time.Duration
}
