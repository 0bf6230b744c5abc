package kafka

import (
	"context"
	"log/slog"
	"slices"

	"github.com/couchcryptid/frost-depth-service/internal/config"
	"github.com/couchcryptid/frost-depth-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces messages to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured result topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaResultTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch publishes results to the result topic in a single WriteMessages
// call. Keys are request IDs, so a request's answers share a partition.
func (w *Writer) LoadBatch(ctx context.Context, msgs []domain.OutputMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	out := make([]kafkago.Message, len(msgs))
	for i := range msgs {
		out[i] = toKafkaMessage(msgs[i])
	}
	if err := w.writer.WriteMessages(ctx, out...); err != nil {
		return err
	}
	w.logger.Debug("results published", "count", len(out))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// toKafkaMessage converts an output message, ordering headers by key so the
// wire form is deterministic.
func toKafkaMessage(msg domain.OutputMessage) kafkago.Message {
	keys := make([]string, 0, len(msg.Headers))
	for k := range msg.Headers {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	headers := make([]kafkago.Header, 0, len(keys))
	for _, k := range keys {
		headers = append(headers, kafkago.Header{Key: k, Value: []byte(msg.Headers[k])})
	}
	return kafkago.Message{
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: headers,
	}
}
