package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/frost-depth-service/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// SNAP Data API (climate projections).
	SnapBaseURL   string
	SnapTimeout   time.Duration
	SnapCacheSize int

	LambdaVariant domain.LambdaVariant

	// Kafka request loop, off unless KAFKA_ENABLED=true.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaRequestTopic  string
	KafkaResultTopic   string
	KafkaGroupID       string
	BatchSize          int
	BatchFlushInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	snapTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("SNAP_TIMEOUT", "10s"))
	if err != nil || snapTimeout <= 0 {
		return nil, errors.New("invalid SNAP_TIMEOUT")
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	cacheSize, err := parseSnapCacheSize()
	if err != nil {
		return nil, err
	}

	variant, err := domain.ParseLambdaVariant(os.Getenv("LAMBDA_VARIANT"))
	if err != nil {
		return nil, fmt.Errorf("invalid LAMBDA_VARIANT: %w", err)
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		SnapBaseURL:   sharedcfg.EnvOrDefault("SNAP_BASE_URL", "http://127.0.0.1:5000/"),
		SnapTimeout:   snapTimeout,
		SnapCacheSize: cacheSize,

		LambdaVariant: variant,

		KafkaEnabled:       os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaRequestTopic:  sharedcfg.EnvOrDefault("KAFKA_REQUEST_TOPIC", "frost-depth-requests"),
		KafkaResultTopic:   sharedcfg.EnvOrDefault("KAFKA_RESULT_TOPIC", "frost-depth-results"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "frost-depth-service"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
	}

	if !strings.HasPrefix(cfg.SnapBaseURL, "http://") && !strings.HasPrefix(cfg.SnapBaseURL, "https://") {
		return nil, errors.New("SNAP_BASE_URL must be an http(s) URL")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required")
		}
		if cfg.KafkaRequestTopic == "" {
			return nil, errors.New("KAFKA_REQUEST_TOPIC is required")
		}
		if cfg.KafkaResultTopic == "" {
			return nil, errors.New("KAFKA_RESULT_TOPIC is required")
		}
	}

	return cfg, nil
}

func parseSnapCacheSize() (int, error) {
	s := os.Getenv("SNAP_CACHE_SIZE")
	if s == "" {
		return 256, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid SNAP_CACHE_SIZE: must be a positive integer")
	}
	return n, nil
}
