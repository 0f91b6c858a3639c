// Package metrics provides Prometheus metrics for flightsync.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/flightsync/internal/core/domain"
	"github.com/custodia-labs/flightsync/internal/core/ports/driven"
)

// Outcome label values.
const (
	OutcomeRan        = "ran"
	OutcomeSkipped    = "skipped"
	OutcomeError      = "error"
	OutcomeInProgress = "in_progress"
)

// Recorder implements driven.SyncMetrics on a dedicated registry.
type Recorder struct {
	registry *prometheus.Registry

	syncRuns      *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	fetchedOffers *prometheus.CounterVec
	offersWritten *prometheus.CounterVec
	watermark     prometheus.Gauge
}

var _ driven.SyncMetrics = (*Recorder)(nil)

// Option configures a Recorder.
type Option func(*options)

type options struct {
	namespace      string
	buckets        []float64
	runtimeMetrics bool
}

// WithNamespace sets the metric namespace. Default: "flightsync".
func WithNamespace(ns string) Option {
	return func(o *options) { o.namespace = ns }
}

// WithHistogramBuckets sets the fetch latency buckets in seconds.
func WithHistogramBuckets(buckets []float64) Option {
	return func(o *options) { o.buckets = buckets }
}

// WithRuntimeMetrics also exports Go runtime and process collectors.
func WithRuntimeMetrics() Option {
	return func(o *options) { o.runtimeMetrics = true }
}

// New creates a Recorder with its own registry.
func New(opts ...Option) *Recorder {
	o := options{
		namespace: "flightsync",
		buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(&o)
	}

	registry := prometheus.NewRegistry()
	if o.runtimeMetrics {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		syncRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "sync",
			Name:      "runs_total",
			Help:      "Sync invocations by outcome.",
		}, []string{"outcome"}),
		fetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Subsystem: "provider",
			Name:      "fetch_duration_seconds",
			Help:      "Latency of one route/day offer fetch.",
			Buckets:   o.buckets,
		}, []string{"route", "status"}),
		fetchedOffers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "provider",
			Name:      "offers_fetched_total",
			Help:      "Offers returned by the provider, per route.",
		}, []string{"route"}),
		offersWritten: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "store",
			Name:      "offers_written_total",
			Help:      "Offers committed, by operation.",
		}, []string{"op"}),
		watermark: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: o.namespace,
			Subsystem: "sync",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last fully successful sync.",
		}),
	}
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// ObserveFetch records one route/day fetch.
func (r *Recorder) ObserveFetch(route domain.Route, elapsed time.Duration, offers int, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.fetchDuration.WithLabelValues(route.String(), status).Observe(elapsed.Seconds())
	if err == nil {
		r.fetchedOffers.WithLabelValues(route.String()).Add(float64(offers))
	}
}

// ObserveUpsert records a committed batch.
func (r *Recorder) ObserveUpsert(stats domain.UpsertStats) {
	r.offersWritten.WithLabelValues("insert").Add(float64(stats.Inserted))
	r.offersWritten.WithLabelValues("update").Add(float64(stats.Updated))
}

// ObserveResult records the outcome of a cycle.
func (r *Recorder) ObserveResult(result domain.SyncResult, err error) {
	r.syncRuns.WithLabelValues(outcome(result, err)).Inc()
}

// SetWatermark records the current watermark.
func (r *Recorder) SetWatermark(at time.Time) {
	r.watermark.Set(float64(at.Unix()))
}

func outcome(result domain.SyncResult, err error) string {
	switch {
	case errors.Is(err, domain.ErrSyncInProgress):
		return OutcomeInProgress
	case err != nil || result == nil:
		return OutcomeError
	case result.Skipped():
		return OutcomeSkipped
	default:
		return OutcomeRan
	}
}
