package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name.
const Namespace = "pydocscan"

// Request outcome labels.
const (
	ResultOK    = "ok"
	ResultError = "error"
	ResultCache = "cache"
)

// Metrics holds the collectors of one run.
// The zero value is not usable; create one with New.
//
// Design decision: We write a node_exporter textfile at the end of the run
// rather than serving /metrics. pydocscan is a short-lived command, so
// nothing would be around to be scraped. Each run starts from a fresh
// registry and overwrites the previous file.
type Metrics struct {
	// registry holds only the collectors below, without Go runtime metrics.
	registry *prometheus.Registry

	// Per request.
	requestsTotal   *prometheus.CounterVec
	requestDuration prometheus.Histogram

	// Per run, labeled by mode.
	runDuration *prometheus.GaugeVec
	resultRows  *prometheus.GaugeVec
	lastSuccess *prometheus.GaugeVec

	// pepMismatches is only set by pep runs.
	pepMismatches prometheus.Gauge
}

// New creates Metrics backed by a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "requests_total",
			Help:      "Page requests by outcome (ok, error, cache).",
		}, []string{"result"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "request_duration_seconds",
			Help:      "Duration of network requests.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		runDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}, []string{"mode"}),
		resultRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "result_rows",
			Help:      "Data rows in the result table of the last run.",
		}, []string{"mode"}),
		pepMismatches: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "pep_status_mismatches",
			Help:      "PEPs whose page status disagrees with the index table.",
		}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}, []string{"mode"}),
	}

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.runDuration,
		m.resultRows,
		m.pepMismatches,
		m.lastSuccess,
	)
	return m
}

// CacheHit counts a page served from the response cache.
func (m *Metrics) CacheHit() {
	m.requestsTotal.WithLabelValues(ResultCache).Inc()
}

// RequestDone counts a network request and records its duration.
func (m *Metrics) RequestDone(err error, d time.Duration) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.requestsTotal.WithLabelValues(result).Inc()
	m.requestDuration.Observe(d.Seconds())
}

// SetMismatches records the number of PEP status mismatches.
func (m *Metrics) SetMismatches(n int) {
	m.pepMismatches.Set(float64(n))
}

// RunFinished records a completed run. rows is -1 when the mode produced no table.
func (m *Metrics) RunFinished(mode string, rows int, d time.Duration, at time.Time) {
	m.runDuration.WithLabelValues(mode).Set(d.Seconds())
	if rows >= 0 {
		m.resultRows.WithLabelValues(mode).Set(float64(rows))
	}
	m.lastSuccess.WithLabelValues(mode).Set(float64(at.Unix()))
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile atomically writes every metric to path in the text
// exposition format, creating the parent directory if needed.
func (m *Metrics) WriteTextfile(path string) error {
	// WriteToTextfile renames a temporary file into place, so a collector
	// never reads a half-written file.
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
