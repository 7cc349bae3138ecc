package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"jobmate/job-finder/internal/metrics"
	"jobmate/job-finder/internal/model"
)

func TestObserveSource(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.ObserveSource(model.SourceInteramt, 12, nil)
	m.ObserveSource(model.SourceInteramt, 3, nil)
	m.ObserveSource(model.SourceStepStone, 0, errors.New("403"))

	assert.InDelta(t, 15, testutil.ToFloat64(m.SourceListings.WithLabelValues("interamt")), 0.001)
	assert.InDelta(t, 1, testutil.ToFloat64(m.SourceFailures.WithLabelValues("stepstone")), 0.001)
}

func TestObserveRun(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	finished := time.Unix(1710000000, 0)

	m.ObserveRun(model.Stats{Fetched: 40, Deduped: 30, Selected: 5}, 2*time.Second, finished)

	assert.InDelta(t, 1, testutil.ToFloat64(m.RunsTotal), 0.001)
	assert.InDelta(t, 40, testutil.ToFloat64(m.StageListings.WithLabelValues(metrics.StageFetched)), 0.001)
	assert.InDelta(t, 5, testutil.ToFloat64(m.StageListings.WithLabelValues(metrics.StageSelected)), 0.001)
	assert.InDelta(t, 1710000000, testutil.ToFloat64(m.LastRunUnixTime), 0.001)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObserveSource(model.SourceBMF, 1, nil)
		m.ObserveRun(model.Stats{}, time.Second, time.Now())
	})
}
