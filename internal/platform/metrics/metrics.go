// Package metrics exposes the run counters on a private Prometheus registry.
//
// Metrics:
//   - icph_attempts_total{resource,result}: fetch attempts by outcome class
//   - icph_retries_total{resource}: attempts beyond the first
//   - icph_backoff_seconds{resource}: backoff drawn before a retry
//   - icph_pairs_total{resource,outcome}: finished (target, resource) pairs
//   - icph_values_extracted_total{resource}: real values appended to result files
//   - icph_pacing_delay_seconds{kind}: pacing waits between iterations
//   - icph_run_info{run_id}: constant 1, identifies the run in a textfile export
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"icpharvest/internal/core/domain"
)

// Collector groups the pipeline metrics. A nil *Collector is a valid no-op.
type Collector struct {
	registry *prometheus.Registry

	attempts  *prometheus.CounterVec
	retries   *prometheus.CounterVec
	backoff   *prometheus.HistogramVec
	pairs     *prometheus.CounterVec
	extracted *prometheus.CounterVec
	pacing    *prometheus.HistogramVec
	runInfo   *prometheus.GaugeVec
}

// New creates a Collector with its own registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "icph_attempts_total",
			Help: "Fetch attempts by resource and result class",
		}, []string{"resource", "result"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "icph_retries_total",
			Help: "Attempts beyond the first by resource",
		}, []string{"resource"}),
		backoff: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "icph_backoff_seconds",
			Help:    "Backoff before a retried attempt",
			Buckets: []float64{1, 2, 5, 7.5, 10, 15, 30},
		}, []string{"resource"}),
		pairs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "icph_pairs_total",
			Help: "Processed (target, resource) pairs by outcome",
		}, []string{"resource", "outcome"}),
		extracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "icph_values_extracted_total",
			Help: "Real field values appended to result files",
		}, []string{"resource"}),
		pacing: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "icph_pacing_delay_seconds",
			Help:    "Pacing waits between iterations",
			Buckets: []float64{10, 20, 25, 30, 60, 100, 125, 150, 300},
		}, []string{"kind"}),
		runInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "icph_run_info",
			Help: "Run identifier",
		}, []string{"run_id"}),
	}

	c.registry.MustRegister(c.attempts, c.retries, c.backoff, c.pairs, c.extracted, c.pacing, c.runInfo)
	return c
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// SetRun stamps the run identifier.
func (c *Collector) SetRun(runID string) {
	if c == nil {
		return
	}
	c.runInfo.WithLabelValues(runID).Set(1)
}

// Attempt records one fetch attempt. class is "success" or a failure class.
func (c *Collector) Attempt(resource domain.ResourceType, class string) {
	if c == nil {
		return
	}
	c.attempts.WithLabelValues(string(resource), class).Inc()
}

// Retry records the backoff drawn before a retried attempt.
func (c *Collector) Retry(resource domain.ResourceType, backoff time.Duration) {
	if c == nil {
		return
	}
	c.retries.WithLabelValues(string(resource)).Inc()
	c.backoff.WithLabelValues(string(resource)).Observe(backoff.Seconds())
}

// Pair records a finished pair. outcome is "extracted", "diagnostic" or "exhausted".
func (c *Collector) Pair(resource domain.ResourceType, outcome string, values int) {
	if c == nil {
		return
	}
	c.pairs.WithLabelValues(string(resource), outcome).Inc()
	if values > 0 {
		c.extracted.WithLabelValues(string(resource)).Add(float64(values))
	}
}

// Pacing records a pacing wait. kind is "resource" or "target".
func (c *Collector) Pacing(kind string, d time.Duration) {
	if c == nil {
		return
	}
	c.pacing.WithLabelValues(kind).Observe(d.Seconds())
}

// WriteTextfile dumps the registry in the node-exporter textfile format.
func (c *Collector) WriteTextfile(path string) error {
	if c == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
