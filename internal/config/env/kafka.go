package envconfig

import (
	"fmt"

	"github.com/IBM/sarama"
	"github.com/caarlos0/env/v11"
)

type kafkaEnv struct {
	Enabled                 bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	Brokers                 []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	Version                 string   `env:"KAFKA_VERSION" envDefault:"3.6.0"`
	LedgerEventsTopicName   string   `env:"LEDGER_EVENTS_TOPIC_NAME" envDefault:"ledger.operations"`
	LowStockConsumerGroupID string   `env:"LOW_STOCK_CONSUMER_GROUP_ID" envDefault:"stockledger-low-stock"`
}

type kafka struct {
	raw     kafkaEnv
	version sarama.KafkaVersion
}

func NewKafkaConfig() (*kafka, error) {
	var raw kafkaEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}

	version, err := sarama.ParseKafkaVersion(raw.Version)
	if err != nil {
		return nil, fmt.Errorf("KAFKA_VERSION: %w", err)
	}
	return &kafka{raw: raw, version: version}, nil
}

func (cfg *kafka) Enabled() bool                   { return cfg.raw.Enabled }
func (cfg *kafka) Brokers() []string               { return cfg.raw.Brokers }
func (cfg *kafka) LedgerEventsTopic() string       { return cfg.raw.LedgerEventsTopicName }
func (cfg *kafka) LowStockConsumerGroupID() string { return cfg.raw.LowStockConsumerGroupID }

func (cfg *kafka) LedgerEventsProducerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Version = cfg.version
	config.Producer.Return.Successes = true
	config.Producer.Partitioner = sarama.NewHashPartitioner
	config.Producer.RequiredAcks = sarama.WaitForAll

	return config
}

func (cfg *kafka) LowStockConsumerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Version = cfg.version
	config.Consumer.Return.Errors = true
	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	config.Consumer.Offsets.Initial = sarama.OffsetNewest

	return config
}
