package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "frost_depth"

// Metrics holds the Prometheus counters, histograms, and gauges for the service.
type Metrics struct {
	// Computation metrics.
	Computations      *prometheus.CounterVec // labels: mode={freeze,thaw}, variant={high_latitude,low_latitude,blended}
	ComputationErrors *prometheus.CounterVec // labels: kind={validation,domain,provider}
	FrostDepth        prometheus.Histogram

	// Request loop metrics.
	RequestsConsumed        prometheus.Counter
	ResultsProduced         *prometheus.CounterVec // labels: status={ok,error}
	MessagesSkipped         prometheus.Counter
	PipelineRunning         prometheus.Gauge
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Climate provider metrics.
	ClimateRequests    *prometheus.CounterVec   // labels: series={temperature,freezing_index,thawing_index}, outcome={success,error}
	ClimateCache       *prometheus.CounterVec   // labels: series, result={hit,miss}
	ClimateAPIDuration *prometheus.HistogramVec // labels: series
}

func newMetrics() *Metrics {
	return &Metrics{
		Computations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "computations_total",
			Help:      "Successful frost depth computations by mode and lambda variant.",
		}, []string{"mode", "variant"}),
		ComputationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "computation_errors_total",
			Help:      "Failed frost depth computations by error kind.",
		}, []string{"kind"}),
		FrostDepth: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "depth_feet",
			Help:      "Computed frost or thaw depths in feet.",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 8, 10, 15, 20},
		}),
		RequestsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_consumed_total",
			Help:      "Total computation requests read from the request topic.",
		}),
		ResultsProduced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_produced_total",
			Help:      "Results written to the result topic, by status.",
		}, []string{"status"}),
		MessagesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_skipped_total",
			Help:      "Request messages that could not be decoded and were committed without a result.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the request loop is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of requests per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-compute-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		ClimateRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "climate_requests_total",
			Help:      "Climate data API requests by series and outcome.",
		}, []string{"series", "outcome"}),
		ClimateCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "climate_cache_total",
			Help:      "Climate cache lookups by series and result.",
		}, []string{"series", "result"}),
		ClimateAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "climate_api_duration_seconds",
			Help:      "Climate data API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"series"}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewUnregisteredMetrics creates Metrics registered nowhere. One-shot
// commands that never serve /metrics use it.
func NewUnregisteredMetrics() *Metrics {
	return newMetrics()
}

// NewMetricsForTesting creates Metrics registered nowhere, so tests can build
// as many as they like without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return NewUnregisteredMetrics()
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.Computations,
		m.ComputationErrors,
		m.FrostDepth,
		m.RequestsConsumed,
		m.ResultsProduced,
		m.MessagesSkipped,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.ClimateRequests,
		m.ClimateCache,
		m.ClimateAPIDuration,
	}
}
