package opconsumer

import (
	"context"
	"errors"
	"fmt"

	"github.com/you-humble/stockledger/internal/metrics"
	"github.com/you-humble/stockledger/internal/model"
	"github.com/you-humble/stockledger/platform/kafka"
	"github.com/you-humble/stockledger/platform/logger"
)

type Converter interface {
	PayloadToOperationEvent(data []byte) (model.OperationEvent, error)
}

type Service interface {
	LowStockProduct(ctx context.Context, ownerID, productID int64) (*model.ProductSummary, error)
}

type service struct {
	consumer kafka.Consumer
	conv     Converter
	svc      Service
}

func NewOperationConsumer(
	consumer kafka.Consumer,
	conv Converter,
	svc Service,
) *service {
	return &service{consumer: consumer, conv: conv, svc: svc}
}

// RunLowStockWatch follows the ledger events and warns whenever a product
// touched by an event is below its minimum stock.
func (s *service) RunLowStockWatch(ctx context.Context) error {
	logger.Info(ctx, "starting low stock watch")

	if err := s.consumer.Consume(ctx, s.handle); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		logger.Error(ctx, "consume ledger events", logger.ErrorF(err))
		return err
	}

	return nil
}

func (s *service) handle(ctx context.Context, msg kafka.Message) error {
	if id, ok := msg.Headers[model.HeaderEventID]; ok {
		ctx = logger.ContextWith(ctx, logger.String("event_id", string(id)))
	}

	event, err := s.conv.PayloadToOperationEvent(msg.Value)
	if err != nil {
		logger.Error(ctx, "decode operation event", logger.ErrorF(err))
		return fmt.Errorf("converter payload_to_operation_event error: %w", err)
	}

	p, err := s.svc.LowStockProduct(ctx, event.OwnerID, event.ProductID)
	if err != nil {
		return err
	}
	if p == nil {
		return nil
	}

	metrics.LowStockAlerts.Inc()
	logger.Warn(ctx, "product below minimum stock",
		logger.Int64("owner_id", event.OwnerID),
		logger.Int64("product_id", p.ID),
		logger.String("product", p.Name),
		logger.String("available", p.Stock.Available.String()),
		logger.Int("min_stock", p.MinStock),
		logger.String("event", event.Kind),
	)

	return nil
}
