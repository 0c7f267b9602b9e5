package kafka

import "time"

// Message is a consumed record detached from sarama types.
type Message struct {
	Headers   map[string][]byte
	Timestamp time.Time

	Key       []byte
	Value     []byte
	Topic     string
	Partition int32
	Offset    int64
}
