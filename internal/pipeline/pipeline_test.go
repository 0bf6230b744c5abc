package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/frost-depth-service/internal/domain"
	"github.com/couchcryptid/frost-depth-service/internal/observability"
	"github.com/couchcryptid/frost-depth-service/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockExtractor struct {
	batches [][]domain.RawMessage
	index   atomic.Int64
	err     error
}

func (m *mockExtractor) ExtractBatch(ctx context.Context, _ int) ([]domain.RawMessage, error) {
	if m.err != nil {
		return nil, m.err
	}
	i := int(m.index.Add(1) - 1)
	if i >= len(m.batches) {
		// block until context cancelled to simulate waiting for messages
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.batches[i], nil
}

type mockTransformer struct {
	err error
}

func (m *mockTransformer) Transform(_ context.Context, raw domain.RawMessage) (domain.OutputMessage, error) {
	if m.err != nil {
		return domain.OutputMessage{}, m.err
	}
	return domain.OutputMessage{Key: raw.Key, Value: raw.Value}, nil
}

type mockLoader struct {
	loaded []domain.OutputMessage
	err    error
}

func (m *mockLoader) LoadBatch(_ context.Context, msgs []domain.OutputMessage) error {
	if m.err != nil {
		return m.err
	}
	m.loaded = append(m.loaded, msgs...)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rawMessage(key string) domain.RawMessage {
	return domain.RawMessage{Key: []byte(key), Value: []byte(`{"id":"` + key + `"}`)}
}

func runFor(t *testing.T, p *pipeline.Pipeline, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	require.NoError(t, p.Run(ctx))
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	ext := &mockExtractor{batches: [][]domain.RawMessage{{rawMessage("req-1"), rawMessage("req-2")}}}
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(ext, &mockTransformer{}, ldr, discardLogger(), metrics, 10)
	require.Error(t, p.CheckReadiness(context.Background()))

	runFor(t, p, 300*time.Millisecond)

	require.Len(t, ldr.loaded, 2)
	assert.Equal(t, []byte("req-1"), ldr.loaded[0].Key)
	assert.NoError(t, p.CheckReadiness(context.Background()))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.RequestsConsumed))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.ResultsProduced.WithLabelValues("ok")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.PipelineRunning))
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ldr := &mockLoader{}
	p := pipeline.New(&mockExtractor{}, &mockTransformer{}, ldr, discardLogger(), observability.NewMetricsForTesting(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, p.Run(ctx))
	assert.Empty(t, ldr.loaded)
}

func TestPipeline_Run_TransformErrorSkipsAndCommits(t *testing.T) {
	var commits atomic.Int32
	raw := rawMessage("req-bad")
	raw.Commit = func(context.Context) error {
		commits.Add(1)
		return nil
	}

	ext := &mockExtractor{batches: [][]domain.RawMessage{{raw}}}
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(ext, &mockTransformer{err: errors.New("bad data")}, ldr, discardLogger(), metrics, 10)

	runFor(t, p, 300*time.Millisecond)

	assert.Empty(t, ldr.loaded)
	assert.Equal(t, int32(1), commits.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.MessagesSkipped))
	assert.Error(t, p.CheckReadiness(context.Background()))
}

type statusTransformer struct{}

func (statusTransformer) Transform(_ context.Context, raw domain.RawMessage) (domain.OutputMessage, error) {
	status := "ok"
	if string(raw.Key) == "req-err" {
		status = "error"
	}
	return domain.OutputMessage{Key: raw.Key, Headers: map[string]string{"status": status}}, nil
}

func TestPipeline_Run_CountsResultsByStatus(t *testing.T) {
	ext := &mockExtractor{batches: [][]domain.RawMessage{{rawMessage("req-ok"), rawMessage("req-err"), rawMessage("req-ok2")}}}
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(ext, statusTransformer{}, ldr, discardLogger(), metrics, 10)

	runFor(t, p, 300*time.Millisecond)

	require.Len(t, ldr.loaded, 3)
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.ResultsProduced.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ResultsProduced.WithLabelValues("error")))
	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_CommitsAfterLoad(t *testing.T) {
	commitCalled := false
	raw := rawMessage("req-5")
	raw.Topic = "frost-depth-requests"
	raw.Commit = func(_ context.Context) error {
		commitCalled = true
		return nil
	}

	ext := &mockExtractor{batches: [][]domain.RawMessage{{raw}}}
	p := pipeline.New(ext, &mockTransformer{}, &mockLoader{}, discardLogger(), observability.NewMetricsForTesting(), 10)

	runFor(t, p, 300*time.Millisecond)
	assert.True(t, commitCalled)
}

func TestPipeline_Run_LoadFailureDoesNotCommit(t *testing.T) {
	commitCalled := false
	raw := rawMessage("req-6")
	raw.Commit = func(_ context.Context) error {
		commitCalled = true
		return nil
	}

	ext := &mockExtractor{batches: [][]domain.RawMessage{{raw}}}
	ldr := &mockLoader{err: errors.New("broker unavailable")}
	p := pipeline.New(ext, &mockTransformer{}, ldr, discardLogger(), observability.NewMetricsForTesting(), 10)

	runFor(t, p, 300*time.Millisecond)
	assert.False(t, commitCalled)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_ExtractErrorBacksOff(t *testing.T) {
	ext := &mockExtractor{err: errors.New("kafka down")}
	p := pipeline.New(ext, &mockTransformer{}, &mockLoader{}, discardLogger(), observability.NewMetricsForTesting(), 10)

	start := time.Now()
	runFor(t, p, 250*time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
}
