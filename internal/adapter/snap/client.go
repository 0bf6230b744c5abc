// Package snap implements domain.ClimateProvider over the SNAP Data API
// (Scenarios Network for Alaska + Arctic Planning) CSV point endpoints.
package snap

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/frost-depth-service/internal/domain"
	"github.com/couchcryptid/frost-depth-service/internal/observability"
	"gonum.org/v1/gonum/stat"
)

// Series names, used in URLs, metric labels, and errors.
const (
	seriesTemperature   = "temperature"
	seriesFreezingIndex = "freezing_index"
	seriesThawingIndex  = "thawing_index"
)

// ErrSeriesNotFound is returned when the response holds no rows for the
// requested model (and scenario).
var ErrSeriesNotFound = errors.New("series not found in response")

// Client implements domain.ClimateProvider using the SNAP Data API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a SNAP Data API client. baseURL is the API root, e.g.
// "http://127.0.0.1:5000/".
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: metrics,
		logger:  logger,
	}
}

// MeanAnnualTemperature averages the yearly mean temperature series for the
// model and scenario, converted to °F and rounded to one decimal.
func (c *Client) MeanAnnualTemperature(ctx context.Context, q domain.TemperatureQuery) (float64, error) {
	u := fmt.Sprintf("%s/temperature/%s/%s/%d/%d?format=csv",
		c.baseURL, formatCoord(q.Lat), formatCoord(q.Lon), q.YearStart, q.YearEnd)

	meanC, err := c.fetchMean(ctx, u, seriesTemperature, "tas", map[string]string{
		"model":    q.Model,
		"scenario": q.Scenario,
	})
	if err != nil {
		return 0, err
	}
	return math.RoundToEven((meanC*1.8+32)*10) / 10, nil
}

// FreezingIndex averages the yearly air freezing index series for the model,
// rounded to the nearest °F·day.
func (c *Client) FreezingIndex(ctx context.Context, q domain.IndexQuery) (int, error) {
	return c.degreeDays(ctx, seriesFreezingIndex, q)
}

// ThawingIndex averages the yearly air thawing index series for the model,
// rounded to the nearest °F·day.
func (c *Client) ThawingIndex(ctx context.Context, q domain.IndexQuery) (int, error) {
	return c.degreeDays(ctx, seriesThawingIndex, q)
}

func (c *Client) degreeDays(ctx context.Context, series string, q domain.IndexQuery) (int, error) {
	u := fmt.Sprintf("%s/degree_days/%s/%s/%s/%d/%d?format=csv",
		c.baseURL, series, formatCoord(q.Lat), formatCoord(q.Lon), q.YearStart, q.YearEnd)

	mean, err := c.fetchMean(ctx, u, series, "dd", map[string]string{"model": q.Model})
	if err != nil {
		return 0, err
	}
	return int(math.RoundToEven(mean)), nil
}

// fetchMean downloads a CSV series and averages valueCol over the rows
// whose columns match every entry of filter.
func (c *Client) fetchMean(ctx context.Context, fullURL, series, valueCol string, filter map[string]string) (float64, error) {
	start := time.Now()
	values, err := c.doRequest(ctx, fullURL, series, valueCol, filter)
	c.metrics.ClimateAPIDuration.WithLabelValues(series).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ClimateRequests.WithLabelValues(series, "error").Inc()
		c.logger.Warn("climate request failed", "series", series, "error", err)
		return 0, err
	}
	c.metrics.ClimateRequests.WithLabelValues(series, "success").Inc()
	return stat.Mean(values, nil), nil
}

func (c *Client) doRequest(ctx context.Context, fullURL, series, valueCol string, filter map[string]string) ([]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", series, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("snap API error: status %d: %s", resp.StatusCode, body)
	}

	values, err := parseSeries(resp.Body, valueCol, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", series, err)
	}
	return values, nil
}

// parseSeries reads a SNAP CSV export. Exports open with free-form metadata
// lines; the header is the first record naming both "model" and valueCol.
func parseSeries(r io.Reader, valueCol string, filter map[string]string) ([]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var cols map[string]int
	for cols == nil {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode response: no header with %q column", valueCol)
		}
		if err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		cols = headerIndex(rec, valueCol)
	}
	for key := range filter {
		if _, ok := cols[key]; !ok {
			return nil, fmt.Errorf("decode response: missing %q column", key)
		}
	}

	var values []float64
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		if !matches(rec, cols, filter) {
			continue
		}
		raw := field(rec, cols[valueCol])
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("decode response: %s value %q: %w", valueCol, raw, err)
		}
		values = append(values, v)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSeriesNotFound, describeFilter(filter))
	}
	return values, nil
}

func headerIndex(rec []string, valueCol string) map[string]int {
	idx := make(map[string]int, len(rec))
	for i, name := range rec {
		idx[strings.TrimSpace(name)] = i
	}
	_, hasModel := idx["model"]
	_, hasValue := idx[valueCol]
	if !hasModel || !hasValue {
		return nil
	}
	return idx
}

func matches(rec []string, cols map[string]int, filter map[string]string) bool {
	for key, want := range filter {
		if field(rec, cols[key]) != want {
			return false
		}
	}
	return true
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func describeFilter(filter map[string]string) string {
	if s, ok := filter["scenario"]; ok {
		return fmt.Sprintf("model=%s scenario=%s", filter["model"], s)
	}
	return "model=" + filter["model"]
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
