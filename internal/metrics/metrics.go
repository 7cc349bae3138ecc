// Package metrics exposes Prometheus counters for job finder runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"jobmate/job-finder/internal/model"
)

const namespace = "jobfinder"

// Stage label values.
const (
	StageFetched    = "fetched"
	StageNormalized = "normalized"
	StageDeduped    = "deduped"
	StageFresh      = "fresh"
	StageEligible   = "eligible"
	StageQualified  = "qualified"
	StageSelected   = "selected"
	StageBackfilled = "backfilled"
)

// Metrics holds the collectors for one process. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	RunsTotal       prometheus.Counter
	RunDuration     prometheus.Histogram
	SourceListings  *prometheus.CounterVec
	SourceFailures  *prometheus.CounterVec
	StageListings   *prometheus.GaugeVec
	LastRunUnixTime prometheus.Gauge
}

// New creates and registers all collectors on reg, or on the default
// registerer when reg is nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		RunsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of completed pipeline runs",
		}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a pipeline run including fetches",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10), // 0.5s to ~4min
		}),
		SourceListings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_listings_total",
			Help:      "Raw listings returned per source",
		}, []string{"source"}),
		SourceFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_failures_total",
			Help:      "Source fetches that failed after retries",
		}, []string{"source"}),
		StageListings: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_listings",
			Help:      "Listings remaining after each stage of the last run",
		}, []string{"stage"}),
		LastRunUnixTime: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
	}
}

// ObserveSource records one source fetch outcome.
func (m *Metrics) ObserveSource(src model.Source, listings int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.SourceFailures.WithLabelValues(src.Key()).Inc()
		return
	}
	m.SourceListings.WithLabelValues(src.Key()).Add(float64(listings))
}

// ObserveRun records the counters of a finished run.
func (m *Metrics) ObserveRun(stats model.Stats, took time.Duration, finished time.Time) {
	if m == nil {
		return
	}
	m.RunsTotal.Inc()
	m.RunDuration.Observe(took.Seconds())
	m.LastRunUnixTime.Set(float64(finished.Unix()))
	for stage, n := range map[string]int{
		StageFetched:    stats.Fetched,
		StageNormalized: stats.Normalized,
		StageDeduped:    stats.Deduped,
		StageFresh:      stats.Fresh,
		StageEligible:   stats.Eligible,
		StageQualified:  stats.Qualified,
		StageSelected:   stats.Selected,
		StageBackfilled: stats.Backfilled,
	} {
		m.StageListings.WithLabelValues(stage).Set(float64(n))
	}
}
