package opproducer

import (
	"context"
	"fmt"
	"strconv"

	"github.com/you-humble/stockledger/internal/model"
	"github.com/you-humble/stockledger/platform/kafka"
)

type Converter interface {
	OperationEventToPayload(e model.OperationEvent) ([]byte, error)
}

type service struct {
	producer kafka.Producer
	conv     Converter
}

func NewOperationProducer(producer kafka.Producer, conv Converter) *service {
	return &service{producer: producer, conv: conv}
}

// Send publishes the event keyed by product id so that events of one
// product stay ordered within a partition.
func (s *service) Send(ctx context.Context, event model.OperationEvent) error {
	payload, err := s.conv.OperationEventToPayload(event)
	if err != nil {
		return fmt.Errorf("converter operation_event_to_payload error: %w", err)
	}

	rec := kafka.Record{
		Key:   []byte(strconv.FormatInt(event.ProductID, 10)),
		Value: payload,
		Headers: map[string]string{
			model.HeaderEventID:   event.EventID,
			model.HeaderEventKind: event.Kind,
		},
	}
	if err := s.producer.Send(ctx, rec); err != nil {
		return fmt.Errorf("producer to ledger events topic error: %w", err)
	}

	return nil
}

type noop struct{}

// NewNoopProducer is used when event publishing is disabled.
func NewNoopProducer() noop { return noop{} }

func (noop) Send(context.Context, model.OperationEvent) error { return nil }
