package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/frost-depth-service/internal/domain"
	"github.com/couchcryptid/frost-depth-service/internal/observability"
	"github.com/couchcryptid/storm-data-shared/retry"
)

// BatchExtractor reads up to batchSize request messages.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawMessage, error)
}

// Transformer answers one request message. An error means the message
// could not be answered at all and is skipped.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawMessage) (domain.OutputMessage, error)
}

// BatchLoader publishes answers.
type BatchLoader interface {
	LoadBatch(ctx context.Context, msgs []domain.OutputMessage) error
}

const (
	minRetryDelay = 200 * time.Millisecond
	maxRetryDelay = 5 * time.Second
)

// Pipeline answers frost depth requests read from a topic until stopped.
// Offsets are committed only after the answers are published.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	batchSize   int
	ready       atomic.Bool
}

// New creates a Pipeline.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// CheckReadiness reports ready once a batch of answers has been published.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.ready.Load() {
		return nil
	}
	return errors.New("no requests answered yet")
}

// Run processes batches until ctx is cancelled. It returns nil on shutdown;
// broker failures are retried with a doubling delay.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("request loop started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	backoff := minRetryDelay
	for ctx.Err() == nil {
		if err := p.step(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			p.logger.Error("request loop step failed", "error", err, "retry_in", backoff)
			if !retry.SleepWithContext(ctx, backoff) {
				break
			}
			backoff = retry.NextBackoff(backoff, maxRetryDelay)
			continue
		}
		backoff = minRetryDelay
	}

	p.logger.Info("request loop stopping", "reason", context.Cause(ctx))
	return nil
}

// step reads one batch, answers every decodable request, publishes the
// answers and commits.
func (p *Pipeline) step(ctx context.Context) error {
	start := time.Now()

	batch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		return err
	}
	if len(batch) == 0 {
		return nil
	}
	p.metrics.RequestsConsumed.Add(float64(len(batch)))
	p.metrics.BatchSize.Observe(float64(len(batch)))

	answers, answered := p.answer(ctx, batch)
	if len(answers) == 0 {
		return nil
	}

	if err := p.loader.LoadBatch(ctx, answers); err != nil {
		return err
	}
	for _, out := range answers {
		p.metrics.ResultsProduced.WithLabelValues(statusOf(out)).Inc()
	}
	for _, raw := range answered {
		p.commit(ctx, raw)
	}

	p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)
	return nil
}

// answer transforms each message. Undecodable messages are committed
// immediately so they are not redelivered.
func (p *Pipeline) answer(ctx context.Context, batch []domain.RawMessage) ([]domain.OutputMessage, []domain.RawMessage) {
	answers := make([]domain.OutputMessage, 0, len(batch))
	answered := make([]domain.RawMessage, 0, len(batch))

	for _, raw := range batch {
		out, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Warn("skipping undecodable request",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.MessagesSkipped.Inc()
			p.commit(ctx, raw)
			continue
		}
		answers = append(answers, out)
		answered = append(answered, raw)
	}
	return answers, answered
}

func (p *Pipeline) commit(ctx context.Context, raw domain.RawMessage) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

func statusOf(out domain.OutputMessage) string {
	if s := out.Headers["status"]; s != "" {
		return s
	}
	return "ok"
}
