package snap

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/couchcryptid/frost-depth-service/internal/domain"
	"github.com/couchcryptid/frost-depth-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringsReader(s string) io.Reader { return strings.NewReader(s) }

// --- mock for cache tests ---

type countingProvider struct {
	matCalls, fiCalls, tiCalls int
	err                        error
}

func (m *countingProvider) MeanAnnualTemperature(_ context.Context, _ domain.TemperatureQuery) (float64, error) {
	m.matCalls++
	return 29.3, m.err
}

func (m *countingProvider) FreezingIndex(_ context.Context, _ domain.IndexQuery) (int, error) {
	m.fiCalls++
	return 4050, m.err
}

func (m *countingProvider) ThawingIndex(_ context.Context, _ domain.IndexQuery) (int, error) {
	m.tiCalls++
	return 2150, m.err
}

// --- CachedProvider tests ---

func TestCachedProvider_TemperatureHit(t *testing.T) {
	inner := &countingProvider{}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedProvider(inner, 10, metrics)

	v1, err := cached.MeanAnnualTemperature(context.Background(), testTempQuery)
	require.NoError(t, err)
	v2, err := cached.MeanAnnualTemperature(context.Background(), testTempQuery)
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.Equal(t, 1, inner.matCalls)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ClimateCache.WithLabelValues(seriesTemperature, "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ClimateCache.WithLabelValues(seriesTemperature, "miss")))
}

func TestCachedProvider_DistinctQueries(t *testing.T) {
	inner := &countingProvider{}
	cached := NewCachedProvider(inner, 10, observability.NewMetricsForTesting())

	_, err := cached.MeanAnnualTemperature(context.Background(), testTempQuery)
	require.NoError(t, err)

	q := testTempQuery
	q.Scenario = "rcp45"
	_, err = cached.MeanAnnualTemperature(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.matCalls)
}

func TestCachedProvider_IndicesKeyedBySeries(t *testing.T) {
	inner := &countingProvider{}
	cached := NewCachedProvider(inner, 10, observability.NewMetricsForTesting())

	fi, err := cached.FreezingIndex(context.Background(), testIndexQuery)
	require.NoError(t, err)
	ti, err := cached.ThawingIndex(context.Background(), testIndexQuery)
	require.NoError(t, err)
	_, err = cached.FreezingIndex(context.Background(), testIndexQuery)
	require.NoError(t, err)

	assert.Equal(t, 4050, fi)
	assert.Equal(t, 2150, ti)
	assert.Equal(t, 1, inner.fiCalls)
	assert.Equal(t, 1, inner.tiCalls)
}

func TestCachedProvider_ErrorsNotCached(t *testing.T) {
	inner := &countingProvider{err: errors.New("upstream down")}
	cached := NewCachedProvider(inner, 10, nil)

	_, err := cached.FreezingIndex(context.Background(), testIndexQuery)
	require.Error(t, err)
	_, err = cached.FreezingIndex(context.Background(), testIndexQuery)
	require.Error(t, err)

	assert.Equal(t, 2, inner.fiCalls)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache[int](2)
	c.put("a", 1)
	c.put("b", 2)

	// Touch "a" so "b" becomes least recently used.
	_, ok := c.get("a")
	require.True(t, ok)

	c.put("c", 3)
	assert.Equal(t, 2, c.size())

	_, ok = c.get("b")
	assert.False(t, ok)
	v, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	v, ok = c.get("c")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache[float64](2)
	c.put("a", 1.5)
	c.put("a", 2.5)

	v, ok := c.get("a")
	require.True(t, ok)
	assert.Equal(t, 2.5, v)
	assert.Equal(t, 1, c.size())
}
