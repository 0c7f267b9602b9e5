package converter

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/you-humble/stockledger/internal/model"
)

type operationEventRecord struct {
	EventID     string          `json:"eventId"`
	Kind        string          `json:"kind"`
	OwnerID     int64           `json:"ownerId"`
	OperationID int64           `json:"operationId"`
	ProductID   int64           `json:"productId"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	Customer    *string         `json:"customer,omitempty"`
	OccurredAt  time.Time       `json:"occurredAt"`
}

type kafkaConverter struct{}

func NewKafkaConverter() *kafkaConverter { return &kafkaConverter{} }

func (c *kafkaConverter) OperationEventToPayload(e model.OperationEvent) ([]byte, error) {
	payload, err := json.Marshal(operationEventRecord{
		EventID:     e.EventID,
		Kind:        e.Kind,
		OwnerID:     e.OwnerID,
		OperationID: e.OperationID,
		ProductID:   e.ProductID,
		Type:        string(e.Type),
		Quantity:    e.Quantity,
		Customer:    e.Customer,
		OccurredAt:  e.OccurredAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal operation event: %w", err)
	}

	return payload, nil
}

func (c *kafkaConverter) PayloadToOperationEvent(data []byte) (model.OperationEvent, error) {
	var rec operationEventRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return model.OperationEvent{}, fmt.Errorf("failed to unmarshal operation event: %w", err)
	}
	if rec.EventID == "" || rec.OwnerID == 0 || rec.ProductID == 0 {
		return model.OperationEvent{}, fmt.Errorf("incomplete operation event %q", rec.EventID)
	}

	return model.OperationEvent{
		EventID:     rec.EventID,
		Kind:        rec.Kind,
		OwnerID:     rec.OwnerID,
		OperationID: rec.OperationID,
		ProductID:   rec.ProductID,
		Type:        model.OperationType(rec.Type),
		Quantity:    rec.Quantity,
		Customer:    rec.Customer,
		OccurredAt:  rec.OccurredAt,
	}, nil
}
