package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/seismoview/quake-catalog/internal/config"
)

// Writer publishes refresh notifications. Used by operational tooling to
// force a refresh on all running catalog instances.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a producer for the configured refresh topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaRefreshTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish sends a refresh notification.
func (w *Writer) Publish(ctx context.Context, n Notification) error {
	msg, err := serializeNotification(n)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish refresh notification: %w", err)
	}
	w.logger.Info("refresh notification published", "dataset", n.Dataset, "reason", n.Reason)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeNotification marshals a Notification into a Kafka message keyed by
// dataset so consumers see per-dataset ordering.
func serializeNotification(n Notification) (kafkago.Message, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize notification: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(n.Dataset),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "updated_at", Value: []byte(n.UpdatedAt.Format(time.RFC3339))},
		},
	}, nil
}
