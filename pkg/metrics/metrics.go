// Package metrics counts dispatch outcomes with Prometheus collectors. A
// Recorder is a rules.Observer; the CLI exports it in the node_exporter
// textfile format at the end of a run.
package metrics

import (
	"strconv"
	"time"

	"github.com/arthur-debert/gffrules/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gffrules"

// Match paths
const (
	PathExact = "exact"
	PathRegex = "regex"
)

// Recorder holds the collectors of one run in its own registry
type Recorder struct {
	registry *prometheus.Registry

	matches   *prometheus.CounterVec
	fallbacks *prometheus.CounterVec
	records   prometheus.Counter
	duration  prometheus.Histogram
}

// NewRecorder creates and registers the collectors
func NewRecorder() (*Recorder, error) {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rule_matches_total",
			Help:      "Rules applied, by kind and match path",
		}, []string{"kind", "path"}),

		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Records no rule matched",
		}, []string{"noconfig"}),

		records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Records processed",
		}),

		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Time spent processing a batch",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}

	for _, c := range []prometheus.Collector{r.matches, r.fallbacks, r.records, r.duration} {
		if err := r.registry.Register(c); err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to register metric")
		}
	}
	return r, nil
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// ObserveMatch counts one applied rule
func (r *Recorder) ObserveMatch(kind string, exact bool) {
	path := PathRegex
	if exact {
		path = PathExact
	}
	r.matches.WithLabelValues(kind, path).Inc()
}

// ObserveFallback counts one unmatched record
func (r *Recorder) ObserveFallback(noConfig bool) {
	r.fallbacks.WithLabelValues(strconv.FormatBool(noConfig)).Inc()
}

// ObserveBatch counts the records of a finished batch
func (r *Recorder) ObserveBatch(records int, took time.Duration) {
	r.records.Add(float64(records))
	r.duration.Observe(took.Seconds())
}

// WriteTextfile writes every collector to path in the text exposition format
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to write metrics to %s", path).
			WithDetail("path", path)
	}
	return nil
}
