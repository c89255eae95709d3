// Package kafka consumes dataset refresh notifications. The upstream
// publisher emits a small JSON message whenever the source dataset changes;
// each message translates into a refresh trigger on the ingest loop.
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

// Notification is the refresh message payload.
type Notification struct {
	Dataset   string    `json:"dataset"`
	UpdatedAt time.Time `json:"updated_at"`
	Reason    string    `json:"reason"`
}

// Triggerer requests a catalog refresh. Implemented by ingest.Refresher.
type Triggerer interface {
	TriggerRefresh()
}

// Reader consumes refresh notifications from a Kafka topic and forwards them
// as refresh triggers.
type Reader struct {
	reader    *kafkago.Reader
	triggerer Triggerer
	logger    *slog.Logger
}

// NewReader creates a consumer for the configured refresh topic.
func NewReader(cfg *config.Config, triggerer Triggerer, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    cfg.KafkaRefreshTopic,
		GroupID:  cfg.KafkaGroupID,
		MinBytes: 1,
		MaxBytes: 1 << 20,
	})
	return &Reader{reader: r, triggerer: triggerer, logger: logger}
}

// Run consumes notifications until the context is cancelled. Malformed
// messages are logged and skipped; they never stop the loop.
func (r *Reader) Run(ctx context.Context) error {
	r.logger.Info("refresh consumer started",
		"topic", r.reader.Config().Topic,
		"group_id", r.reader.Config().GroupID,
	)

	for {
		msg, err := r.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				r.logger.Info("refresh consumer stopping", "reason", ctx.Err())
				return nil
			}
			return fmt.Errorf("read refresh notification: %w", err)
		}

		n, err := parseNotification(msg.Value)
		if err != nil {
			r.logger.Warn("skipping malformed refresh notification",
				"error", err,
				"partition", msg.Partition,
				"offset", msg.Offset,
			)
			continue
		}

		r.logger.Info("refresh notification received",
			"dataset", n.Dataset,
			"updated_at", n.UpdatedAt,
			"reason", n.Reason,
		)
		r.triggerer.TriggerRefresh()
	}
}

func (r *Reader) Close() error {
	return r.reader.Close()
}

// parseNotification unmarshals a refresh message payload.
func parseNotification(value []byte) (Notification, error) {
	var n Notification
	if err := json.Unmarshal(value, &n); err != nil {
		return Notification{}, fmt.Errorf("parse notification: %w", err)
	}
	if n.Dataset == "" {
		return Notification{}, fmt.Errorf("notification missing dataset")
	}
	return n, nil
}
