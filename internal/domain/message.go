package domain

import (
	"context"
	"time"
)

// RawMessage is an unprocessed computation request read from the request topic.
type RawMessage struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputMessage is a serialized result destined for the result topic.
type OutputMessage struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
