package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector provides application metrics collection
type Collector struct {
	// API Metrics
	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
	APIErrorsTotal     *prometheus.CounterVec

	// Pipeline Metrics
	PipelineRunsTotal       *prometheus.CounterVec
	PipelineDuration        prometheus.Histogram
	PipelineRowsLoaded      prometheus.Counter
	PipelineRowsKept        prometheus.Counter
	PipelineDuplicates      prometheus.Counter
	PipelineParseMisses     *prometheus.CounterVec
	PipelineLoadErrorsTotal *prometheus.CounterVec

	// Classification Metrics
	HitThreshold   *prometheus.GaugeVec
	SnapshotSize   prometheus.Gauge
	SnapshotHits   prometheus.Gauge
	HitChecksTotal *prometheus.CounterVec

	// Database Metrics
	DBQueryDuration  *prometheus.HistogramVec
	DBConnectionPool *prometheus.GaugeVec
	DBErrorsTotal    *prometheus.CounterVec
}

// NewCollector creates a new metrics collector registered on reg.
// Pass prometheus.DefaultRegisterer to expose it on /metrics.
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)

	return &Collector{
		APIRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Total number of API requests by endpoint, method, and status",
			},
			[]string{"endpoint", "method", "status"},
		),

		APIRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_request_duration_seconds",
				Help:      "API request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0, 5.0},
			},
			[]string{"endpoint"},
		),

		APIErrorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_errors_total",
				Help:      "Total number of API errors by type",
			},
			[]string{"error_type", "endpoint"},
		),

		PipelineRunsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pipeline_runs_total",
				Help:      "Total number of pipeline runs by outcome",
			},
			[]string{"outcome"}, // "ok", "empty", "failed"
		),

		PipelineDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "pipeline_duration_seconds",
				Help:      "Duration of a full load, clean, metrics and save run",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
			},
		),

		PipelineRowsLoaded: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pipeline_rows_loaded_total",
				Help:      "Total number of raw movie rows read",
			},
		),

		PipelineRowsKept: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pipeline_rows_kept_total",
				Help:      "Total number of movie rows kept after deduplication",
			},
		),

		PipelineDuplicates: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pipeline_duplicates_dropped_total",
				Help:      "Total number of duplicate (title, year) rows dropped",
			},
		),

		PipelineParseMisses: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pipeline_parse_misses_total",
				Help:      "Non-empty cells that could not be parsed, by derived column",
			},
			[]string{"column"},
		),

		PipelineLoadErrorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pipeline_load_errors_total",
				Help:      "Total number of source load failures by kind",
			},
			[]string{"kind"},
		),

		HitThreshold: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "hit_threshold",
				Help:      "Current dataset-relative hit cut by metric",
			},
			[]string{"metric"}, // "rating", "roi"
		),

		SnapshotSize: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "snapshot_movies",
				Help:      "Number of movies in the served snapshot",
			},
		),

		SnapshotHits: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "snapshot_hits",
				Help:      "Number of movies flagged as hits in the served snapshot",
			},
		),

		HitChecksTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "hit_checks_total",
				Help:      "Single-movie hit checks by source and result",
			},
			[]string{"source", "result"}, // source: "dataset", "custom"
		),

		DBQueryDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "db_query_duration_seconds",
				Help:      "Database query duration in seconds by query type",
				Buckets:   []float64{0.001, 0.002, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5},
			},
			[]string{"query_type"},
		),

		DBConnectionPool: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connection_pool",
				Help:      "Database connection pool statistics",
			},
			[]string{"state"}, // "in_use", "idle", "total"
		),

		DBErrorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_errors_total",
				Help:      "Total number of database errors by type",
			},
			[]string{"error_type"},
		),
	}
}

// NewTestCollector returns a collector on a private registry
func NewTestCollector() *Collector {
	return NewCollector("test", prometheus.NewRegistry())
}

// Timer provides timing functionality for operations
type Timer struct {
	start    time.Time
	observer prometheus.Observer
}

// NewTimer creates a new timer
func (c *Collector) NewTimer(histogram prometheus.Observer) *Timer {
	return &Timer{
		start:    time.Now(),
		observer: histogram,
	}
}

// ObserveDuration records the elapsed time since timer creation
func (t *Timer) ObserveDuration() time.Duration {
	duration := time.Since(t.start)
	if t.observer != nil {
		t.observer.Observe(duration.Seconds())
	}
	return duration
}

// RecordAPIRequest increments API request counter
func (c *Collector) RecordAPIRequest(endpoint, method, status string) {
	c.APIRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
}

// RecordAPIError increments API error counter
func (c *Collector) RecordAPIError(errorType, endpoint string) {
	c.APIErrorsTotal.WithLabelValues(errorType, endpoint).Inc()
}

// RecordPipelineRun records one run's row counts and outcome
func (c *Collector) RecordPipelineRun(outcome string, loaded, kept, duplicates int, parseMisses map[string]int) {
	c.PipelineRunsTotal.WithLabelValues(outcome).Inc()
	c.PipelineRowsLoaded.Add(float64(loaded))
	c.PipelineRowsKept.Add(float64(kept))
	c.PipelineDuplicates.Add(float64(duplicates))
	for col, n := range parseMisses {
		c.PipelineParseMisses.WithLabelValues(col).Add(float64(n))
	}
}

// RecordLoadError increments the load failure counter
func (c *Collector) RecordLoadError(kind string) {
	c.PipelineLoadErrorsTotal.WithLabelValues(kind).Inc()
}

// SetThresholds publishes the current hit cuts; nil cuts are left untouched
func (c *Collector) SetThresholds(ratingCut, roiCut *float64) {
	if ratingCut != nil {
		c.HitThreshold.WithLabelValues("rating").Set(*ratingCut)
	}
	if roiCut != nil {
		c.HitThreshold.WithLabelValues("roi").Set(*roiCut)
	}
}

// SetSnapshot publishes the served snapshot's size and hit count
func (c *Collector) SetSnapshot(movies, hits int) {
	c.SnapshotSize.Set(float64(movies))
	c.SnapshotHits.Set(float64(hits))
}

// RecordHitCheck counts a single-movie classification
func (c *Collector) RecordHitCheck(source string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.HitChecksTotal.WithLabelValues(source, result).Inc()
}

// RecordDBError increments database error counter
func (c *Collector) RecordDBError(errorType string) {
	c.DBErrorsTotal.WithLabelValues(errorType).Inc()
}

// UpdateDBConnectionPool updates database connection pool metrics
func (c *Collector) UpdateDBConnectionPool(inUse, idle, total int) {
	c.DBConnectionPool.WithLabelValues("in_use").Set(float64(inUse))
	c.DBConnectionPool.WithLabelValues("idle").Set(float64(idle))
	c.DBConnectionPool.WithLabelValues("total").Set(float64(total))
}
