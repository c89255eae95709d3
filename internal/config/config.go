package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Dataset source. DatasetPath takes priority over DatasetURL when set,
	// which is how local development against a fixture file works.
	DatasetPath     string
	DatasetURL      string
	FetchTimeout    time.Duration
	RefreshInterval time.Duration

	SnapshotCacheSize int

	// Kafka refresh notifications. Disabled by default; the periodic timer
	// alone keeps the catalog current.
	KafkaEnabled      bool
	KafkaBrokers      []string
	KafkaRefreshTopic string
	KafkaGroupID      string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	refreshInterval, err := parseDuration("REFRESH_INTERVAL", "10m")
	if err != nil {
		return nil, err
	}

	cacheSize, err := parsePositiveInt("SNAPSHOT_CACHE_SIZE", 64)
	if err != nil {
		return nil, err
	}

	kafkaEnabled := false
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DatasetPath:     os.Getenv("DATASET_PATH"),
		DatasetURL:      envOrDefault("DATASET_URL", "https://eq.gsi.gov.il/en/earthquake/files/last30_event.csv"),
		FetchTimeout:    fetchTimeout,
		RefreshInterval: refreshInterval,

		SnapshotCacheSize: cacheSize,

		KafkaEnabled:      kafkaEnabled,
		KafkaBrokers:      parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaRefreshTopic: envOrDefault("KAFKA_REFRESH_TOPIC", "dataset-refresh"),
		KafkaGroupID:      envOrDefault("KAFKA_GROUP_ID", "quake-catalog"),
	}

	if cfg.DatasetPath == "" && cfg.DatasetURL == "" {
		return nil, errors.New("one of DATASET_PATH or DATASET_URL is required")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
		}
		if cfg.KafkaRefreshTopic == "" {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_REFRESH_TOPIC is not set")
		}
	}

	return cfg, nil
}

// GetLogLevel returns the configured log level.
func (c *Config) GetLogLevel() string { return c.LogLevel }

// GetLogFormat returns the configured log format.
func (c *Config) GetLogFormat() string { return c.LogFormat }

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if b := strings.TrimSpace(p); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
