//go:build integration

package integration_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	kafkaadapter "github.com/seismoview/quake-catalog/internal/adapter/kafka"
	"github.com/seismoview/quake-catalog/internal/adapter/gsi"
	"github.com/seismoview/quake-catalog/internal/catalog"
	"github.com/seismoview/quake-catalog/internal/config"
	"github.com/seismoview/quake-catalog/internal/ingest"
	"github.com/seismoview/quake-catalog/internal/observability"
)

const testRefreshTopic = "test-dataset-refresh"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka launches a single-node Kafka container and returns its broker address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"),
	)
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic on the broker.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "resolve controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// writeDatasetFile writes a two-event CSV fixture and returns its path.
func writeDatasetFile(t *testing.T) string {
	t.Helper()

	data := "epiid,DateTime,Mag,Lat,Long,Depth(Km),Type,Country\n" +
		"'202501010001',01/01/2025 03:15:00,4.2,32.1,35.2,10.0,EQ,Israel\n" +
		"'202501020002',02/01/2025 11:00:00,2.1,33.0,35.5,5.5,F,Israel\n"
	path := filepath.Join(t.TempDir(), "events.csv")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

// TestKafkaRefreshNotification wires the full refresh path with real Kafka:
// a published notification reaches the consumer, triggers the refresher, and
// the catalog ends up holding the dataset.
func TestKafkaRefreshNotification(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testRefreshTopic)

	cfg := &config.Config{
		KafkaBrokers:      []string{broker},
		KafkaRefreshTopic: testRefreshTopic,
		KafkaGroupID:      fmt.Sprintf("test-refresh-%d", time.Now().UnixNano()),
	}

	logger := discardLogger()
	metrics := observability.NewMetricsForTesting()

	source := gsi.NewFileSource(writeDatasetFile(t), logger)
	cat := catalog.New(logger, metrics, 16)
	// Interval zero: only notifications drive refreshes after the initial one.
	refresher := ingest.New(source, cat, logger, metrics, 0)

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	refresherDone := make(chan error, 1)
	go func() { refresherDone <- refresher.Run(runCtx) }()

	// Wait for the initial refresh.
	require.Eventually(t, func() bool { return cat.Size() == 2 }, 30*time.Second, 100*time.Millisecond)
	firstSnap, ok := cat.Snapshot()
	require.True(t, ok)

	reader := kafkaadapter.NewReader(cfg, refresher, logger)
	t.Cleanup(func() { _ = reader.Close() })

	readerDone := make(chan error, 1)
	go func() { readerDone <- reader.Run(runCtx) }()

	writer := kafkaadapter.NewWriter(cfg, logger)
	t.Cleanup(func() { _ = writer.Close() })

	// Publishing can race the consumer group rebalance, so retry until the
	// notification lands and a new dataset version appears.
	notification := kafkaadapter.Notification{
		Dataset:   "gsi-last30",
		UpdatedAt: time.Now().UTC(),
		Reason:    "integration test",
	}
	require.Eventually(t, func() bool {
		if err := writer.Publish(ctx, notification); err != nil {
			return false
		}
		snap, ok := cat.Snapshot()
		return ok && snap.Version != firstSnap.Version
	}, time.Minute, 2*time.Second)

	snap, ok := cat.Snapshot()
	require.True(t, ok)
	assert.Len(t, snap.Records, 2)
	assert.NotEqual(t, firstSnap.Version, snap.Version)

	stop()
	require.NoError(t, <-refresherDone)
	require.NoError(t, <-readerDone)
}
