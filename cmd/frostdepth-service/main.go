package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/frost-depth-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/frost-depth-service/internal/adapter/kafka"
	"github.com/couchcryptid/frost-depth-service/internal/adapter/snap"
	"github.com/couchcryptid/frost-depth-service/internal/config"
	"github.com/couchcryptid/frost-depth-service/internal/observability"
	"github.com/couchcryptid/frost-depth-service/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	client := snap.NewClient(cfg.SnapBaseURL, cfg.SnapTimeout, metrics, logger)
	provider := snap.NewCachedProvider(client, cfg.SnapCacheSize, metrics)
	logger.Info("climate provider configured",
		"base_url", cfg.SnapBaseURL,
		"timeout", cfg.SnapTimeout,
		"cache_size", cfg.SnapCacheSize,
		"lambda_variant", cfg.LambdaVariant,
	)

	calc := pipeline.NewCalculator(provider, cfg.LambdaVariant, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Without the request loop the service is ready as soon as it listens.
	var ready sharedobs.ReadinessChecker = httpadapter.ReadinessFunc(func(context.Context) error { return nil })

	var (
		reader *kafkaadapter.Reader
		writer *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		p := pipeline.New(reader, pipeline.NewTransformer(calc, logger), writer, logger, metrics, cfg.BatchSize)
		ready = p

		go func() {
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
		logger.Info("kafka request loop enabled",
			"request_topic", cfg.KafkaRequestTopic,
			"result_topic", cfg.KafkaResultTopic,
		)
	} else {
		logger.Info("kafka request loop disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, ready, calc, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
