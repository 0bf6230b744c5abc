package snap

import (
	"context"
	"fmt"
	"sync"

	"github.com/couchcryptid/frost-depth-service/internal/domain"
	"github.com/couchcryptid/frost-depth-service/internal/observability"
)

// CachedProvider wraps a ClimateProvider with in-memory LRU caches. Errors
// are never cached.
type CachedProvider struct {
	inner       domain.ClimateProvider
	metrics     *observability.Metrics
	temperature *lruCache[float64]
	indices     *lruCache[int]
}

// NewCachedProvider creates a cache decorator around a climate provider.
func NewCachedProvider(inner domain.ClimateProvider, maxEntries int, metrics *observability.Metrics) *CachedProvider {
	return &CachedProvider{
		inner:       inner,
		metrics:     metrics,
		temperature: newLRUCache[float64](maxEntries),
		indices:     newLRUCache[int](maxEntries),
	}
}

func (c *CachedProvider) MeanAnnualTemperature(ctx context.Context, q domain.TemperatureQuery) (float64, error) {
	key := fmt.Sprintf("mat:%.6f,%.6f|%s|%s|%d-%d", q.Lat, q.Lon, q.Model, q.Scenario, q.YearStart, q.YearEnd)
	if v, ok := c.temperature.get(key); ok {
		c.observe(seriesTemperature, "hit")
		return v, nil
	}
	c.observe(seriesTemperature, "miss")

	v, err := c.inner.MeanAnnualTemperature(ctx, q)
	if err != nil {
		return v, err
	}
	c.temperature.put(key, v)
	return v, nil
}

func (c *CachedProvider) FreezingIndex(ctx context.Context, q domain.IndexQuery) (int, error) {
	return c.index(ctx, seriesFreezingIndex, q, c.inner.FreezingIndex)
}

func (c *CachedProvider) ThawingIndex(ctx context.Context, q domain.IndexQuery) (int, error) {
	return c.index(ctx, seriesThawingIndex, q, c.inner.ThawingIndex)
}

func (c *CachedProvider) index(
	ctx context.Context,
	series string,
	q domain.IndexQuery,
	fetch func(context.Context, domain.IndexQuery) (int, error),
) (int, error) {
	key := fmt.Sprintf("%s:%.6f,%.6f|%s|%d-%d", series, q.Lat, q.Lon, q.Model, q.YearStart, q.YearEnd)
	if v, ok := c.indices.get(key); ok {
		c.observe(series, "hit")
		return v, nil
	}
	c.observe(series, "miss")

	v, err := fetch(ctx, q)
	if err != nil {
		return v, err
	}
	c.indices.put(key, v)
	return v, nil
}

func (c *CachedProvider) observe(series, result string) {
	if c.metrics != nil {
		c.metrics.ClimateCache.WithLabelValues(series, result).Inc()
	}
}

// lruCache is a simple thread-safe LRU cache.
type lruCache[V any] struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry[V]
	head       *entry[V] // most recently used
	tail       *entry[V] // least recently used
}

type entry[V any] struct {
	key   string
	value V
	prev  *entry[V]
	next  *entry[V]
}

func newLRUCache[V any](maxEntries int) *lruCache[V] {
	return &lruCache[V]{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry[V]),
	}
}

func (c *lruCache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache[V]) put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry[V]{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache[V]) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache[V]) moveToFront(e *entry[V]) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache[V]) addToFront(e *entry[V]) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache[V]) remove(e *entry[V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache[V]) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
