package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/job-finder/internal/metrics"
	"jobmate/job-finder/internal/model"
	"jobmate/job-finder/internal/pipeline"
	"jobmate/job-finder/internal/scraper"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type fakeSource struct {
	name  model.Source
	raws  []model.RawListing
	err   error
	panic bool
	fails int32 // errors returned before succeeding
	calls atomic.Int32
}

func (f *fakeSource) Name() model.Source { return f.name }

func (f *fakeSource) Fetch(_ context.Context, _ model.Profile) ([]model.RawListing, error) {
	n := f.calls.Add(1)
	if f.panic {
		panic("boom")
	}
	if n <= f.fails {
		return nil, &scraper.StatusError{URL: "https://x.test", Code: http.StatusServiceUnavailable}
	}
	if f.err != nil {
		return []model.RawListing{{Source: f.name, Title: "partial result", URL: "https://x.test/p"}}, f.err
	}
	return f.raws, nil
}

func daysAgo(d int) string { return now.AddDate(0, 0, -d).Format(time.RFC3339) }

func raw(src model.Source, title, url string, age int) model.RawListing {
	return model.RawListing{Source: src, Title: title, URL: url, PublishedAt: daysAgo(age)}
}

func newPipeline(sources []scraper.Source, m *metrics.Metrics) *pipeline.Pipeline {
	return pipeline.New(sources, nil, m, pipeline.Options{
		Timeout:       time.Second,
		Retries:       2,
		Concurrency:   2,
		RetryInterval: time.Millisecond,
		Now:           func() time.Time { return now },
	})
}

func analystProfile() model.Profile {
	return model.Profile{
		KeywordsMust:    []string{"analyst"},
		ExcludeKeywords: []string{"intern"},
		MinimumScore:    1,
		MaxResults:      3,
		LookbackDays:    30,
	}
}

// ── Process ────────────────────────────────────────────────────────────────

func TestProcess_EndToEnd(t *testing.T) {
	raws := []model.RawListing{
		raw(model.SourceRemotive, "Data Analyst", "https://x.test/1", 2),
		raw(model.SourceRemotive, "Analyst Intern", "https://x.test/2", 5),
		raw(model.SourceRemotive, "Marketing Analyst", "https://x.test/3", 40),
	}

	out, stats := pipeline.Process(raws, analystProfile(), now)

	require.Len(t, out, 1)
	assert.Equal(t, "Data Analyst", out[0].Title)
	assert.Equal(t, 7, out[0].Score)
	assert.Equal(t, 2, out[0].AgeDays)
	assert.Equal(t, []string{"must: analyst"}, out[0].Reasons)

	assert.Equal(t, 3, stats.Fetched)
	assert.Equal(t, 3, stats.Normalized)
	assert.Equal(t, 3, stats.Deduped)
	assert.Equal(t, 2, stats.Fresh)
	assert.Equal(t, 1, stats.Eligible)
	assert.Equal(t, 1, stats.Qualified)
	assert.Equal(t, 1, stats.Selected)
	assert.Equal(t, 0, stats.Backfilled)
}

func TestProcess_DeduplicatesAcrossSources(t *testing.T) {
	raws := []model.RawListing{
		raw(model.SourceArbeitnow, "Jobs", "https://x.test/job/9?utm_source=a", 1),
		raw(model.SourceRemotive, "Senior Analyst Berlin", "https://X.test/job/9/", 1),
	}
	out, stats := pipeline.Process(raws, analystProfile(), now)

	assert.Equal(t, 1, stats.Deduped)
	require.Len(t, out, 1)
	assert.Equal(t, "Senior Analyst Berlin", out[0].Title)
}

func TestProcess_AncientDateIsStale(t *testing.T) {
	raws := []model.RawListing{
		{Source: model.SourceBMWK, Title: "Referent Analyst Energie", URL: "https://x.test/old", PublishedAt: "1970-01-01T00:00:00Z"},
		raw(model.SourceBMWK, "Data Analyst", "https://x.test/new", 2),
	}
	p := analystProfile()
	p.LookbackDays = 14

	out, stats := pipeline.Process(raws, p, now)

	assert.Equal(t, 1, stats.Fresh)
	require.Len(t, out, 1)
	assert.Equal(t, "https://x.test/new", out[0].URL)
}

func TestProcess_UnparsableDateSurvivesZeroLookback(t *testing.T) {
	raws := []model.RawListing{
		{Source: model.SourceRemotive, Title: "Data Analyst", URL: "https://x.test/1", PublishedAt: "gestern"},
	}
	p := analystProfile()
	p.LookbackDays = 0

	out, stats := pipeline.Process(raws, p, now)

	assert.Equal(t, 1, stats.Fresh)
	require.Len(t, out, 1)
	assert.Equal(t, model.UnknownAge, out[0].AgeDays)
	assert.Equal(t, 5, out[0].Score)
}

func TestProcess_EmptyInput(t *testing.T) {
	out, stats := pipeline.Process(nil, analystProfile(), now)
	assert.Empty(t, out)
	assert.Equal(t, model.Stats{}, stats)
}

// ── Run ────────────────────────────────────────────────────────────────────

func TestRun_IsolatesFailingSources(t *testing.T) {
	good := &fakeSource{name: model.SourceRemotive, raws: []model.RawListing{
		raw(model.SourceRemotive, "Data Analyst", "https://x.test/1", 2),
	}}
	broken := &fakeSource{name: model.SourceArbeitnow, err: errors.New("parse failure")}
	panicky := &fakeSource{name: model.SourceGoodJobs, panic: true}

	res, err := newPipeline([]scraper.Source{broken, good, panicky}, nil).Run(context.Background(), analystProfile())
	require.NoError(t, err)

	require.Len(t, res.Listings, 1)
	assert.Equal(t, "Data Analyst", res.Listings[0].Title)
	assert.Equal(t, 2, res.Stats.FailedFetch)
	assert.Equal(t, 1, res.Stats.Fetched)
	assert.Equal(t, 0, res.Stats.PerSource[model.SourceArbeitnow])
	assert.Equal(t, 1, res.Stats.PerSource[model.SourceRemotive])

	require.Len(t, res.Warnings, 2)
	assert.Equal(t, model.SourceArbeitnow, res.Warnings[0].Source)
	assert.Equal(t, model.SourceGoodJobs, res.Warnings[1].Source)
	assert.Contains(t, res.Warnings[1].Err.Error(), "panic")

	// permanent errors are not retried
	assert.Equal(t, int32(1), broken.calls.Load())
	assert.NotEmpty(t, res.RunID)
}

func TestRun_RetriesTemporaryErrors(t *testing.T) {
	flaky := &fakeSource{name: model.SourceRemotive, fails: 2, raws: []model.RawListing{
		raw(model.SourceRemotive, "Data Analyst", "https://x.test/1", 2),
	}}
	res, err := newPipeline([]scraper.Source{flaky}, nil).Run(context.Background(), analystProfile())
	require.NoError(t, err)

	assert.Equal(t, int32(3), flaky.calls.Load())
	assert.Empty(t, res.Warnings)
	assert.Len(t, res.Listings, 1)
}

func TestRun_GivesUpAfterRetries(t *testing.T) {
	down := &fakeSource{name: model.SourceRemotive, fails: 10}
	res, err := newPipeline([]scraper.Source{down}, nil).Run(context.Background(), analystProfile())
	require.NoError(t, err)

	assert.Equal(t, int32(3), down.calls.Load())
	require.Len(t, res.Warnings, 1)
	var se *scraper.StatusError
	assert.ErrorAs(t, res.Warnings[0].Err, &se)
}

func TestRun_SkipsSourcesOutsideAllowlist(t *testing.T) {
	a := &fakeSource{name: model.SourceRemotive}
	b := &fakeSource{name: model.SourceArbeitnow}
	p := analystProfile()
	p.AllowedSources = []string{"ARBEITNOW"}

	_, err := newPipeline([]scraper.Source{a, b}, nil).Run(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, int32(0), a.calls.Load())
	assert.Equal(t, int32(1), b.calls.Load())
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newPipeline([]scraper.Source{&fakeSource{name: model.SourceRemotive}}, nil).Run(ctx, analystProfile())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_RecordsMetrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	good := &fakeSource{name: model.SourceRemotive, raws: []model.RawListing{
		raw(model.SourceRemotive, "Data Analyst", "https://x.test/1", 2),
	}}
	_, err := newPipeline([]scraper.Source{good}, m).Run(context.Background(), analystProfile())
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceListings.WithLabelValues("remotive")))
}

func TestWarning_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(pipeline.Warning{Source: model.SourceInteramt, Err: errors.New("timeout")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"source":"Interamt","error":"timeout"}`, string(b))
}
