// Package metrics defines the Prometheus collectors exported by the ledger.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "splitledger"

// Result label values besides error kinds.
const ResultOK = "ok"

// Cascade actions.
const (
	CascadeDeleted = "deleted"
	CascadeTrimmed = "trimmed"
)

// Collector is a prometheus.Collector for ledger operations.
// A nil *Collector is valid and records nothing.
type Collector struct {
	writes   *prometheus.CounterVec
	cascade  *prometheus.CounterVec
	reads    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewCollector returns a new Collector.
func NewCollector() *Collector {
	return &Collector{
		writes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "writes_total",
				Help:      "The number of write operations by outcome.",
			}, []string{"operation", "result"},
		),
		cascade: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "cascade_settlements_total",
				Help:      "Settlements deleted or trimmed by expense deletion.",
			}, []string{"action"},
		),
		reads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "reads_total",
				Help:      "The number of balance and feed reads by view.",
			}, []string{"view"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "operation_duration_seconds",
				Help:      "Time spent in ledger operations, including the transaction.",
				Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
			}, []string{"operation"},
		),
	}
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.writes.Describe(ch)
	c.cascade.Describe(ch)
	c.reads.Describe(ch)
	c.duration.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.writes.Collect(ch)
	c.cascade.Collect(ch)
	c.reads.Collect(ch)
	c.duration.Collect(ch)
}

// Write counts one write operation with its result.
func (c *Collector) Write(operation, result string) {
	if c == nil {
		return
	}
	c.writes.WithLabelValues(operation, result).Inc()
}

// Cascade counts settlements touched while deleting an expense.
func (c *Collector) Cascade(action string, n int) {
	if c == nil || n == 0 {
		return
	}
	c.cascade.WithLabelValues(action).Add(float64(n))
}

// Read counts one read of view.
func (c *Collector) Read(view string) {
	if c == nil {
		return
	}
	c.reads.WithLabelValues(view).Inc()
}

// Observe records how long operation took since start.
func (c *Collector) Observe(operation string, start time.Time) {
	if c == nil {
		return
	}
	c.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
