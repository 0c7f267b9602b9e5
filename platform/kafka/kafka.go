package kafka

import (
	"context"
)

type (
	Middleware     func(next MessageHandler) MessageHandler
	MessageHandler func(ctx context.Context, msg Message) error
)

// Record is what a Producer writes. Headers are optional.
type Record struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

type Consumer interface {
	Consume(ctx context.Context, handler MessageHandler) error
}

type Producer interface {
	Send(ctx context.Context, rec Record) error
}
