package producer

import (
	"context"
	"sort"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/you-humble/stockledger/platform/kafka"
)

type Logger interface {
	Debug(ctx context.Context, msg string, fields ...zap.Field)
	Error(ctx context.Context, msg string, fields ...zap.Field)
}

type producer struct {
	syncProducer sarama.SyncProducer
	topic        string
	logger       Logger
}

func NewProducer(syncProducer sarama.SyncProducer, topic string, logger Logger) *producer {
	return &producer{
		syncProducer: syncProducer,
		topic:        topic,
		logger:       logger,
	}
}

// Send writes rec synchronously and returns once the broker acknowledged it.
func (p *producer) Send(ctx context.Context, rec kafka.Record) error {
	msg := &sarama.ProducerMessage{
		Topic:   p.topic,
		Key:     sarama.ByteEncoder(rec.Key),
		Value:   sarama.ByteEncoder(rec.Value),
		Headers: recordHeaders(rec.Headers),
	}

	partition, offset, err := p.syncProducer.SendMessage(msg)
	if err != nil {
		p.logger.Error(ctx, "send kafka record",
			zap.String("topic", p.topic),
			zap.ByteString("key", rec.Key),
			zap.Error(err),
		)
		return err
	}

	p.logger.Debug(ctx, "kafka record sent",
		zap.String("topic", p.topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
		zap.ByteString("key", rec.Key),
	)

	return nil
}

// recordHeaders sorts by key so equal records produce equal header lists.
func recordHeaders(in map[string]string) []sarama.RecordHeader {
	if len(in) == 0 {
		return nil
	}

	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]sarama.RecordHeader, 0, len(keys))
	for _, k := range keys {
		out = append(out, sarama.RecordHeader{Key: []byte(k), Value: []byte(in[k])})
	}
	return out
}
