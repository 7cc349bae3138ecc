package scheduler_test

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/job-finder/internal/events"
	"jobmate/job-finder/internal/model"
	"jobmate/job-finder/internal/pipeline"
	"jobmate/job-finder/internal/scheduler"
	"jobmate/job-finder/internal/scraper"
	"jobmate/job-finder/internal/store"
)

type countingSource struct {
	calls atomic.Int32
}

func (c *countingSource) Name() model.Source { return model.SourceRemotive }

func (c *countingSource) Fetch(context.Context, model.Profile) ([]model.RawListing, error) {
	c.calls.Add(1)
	return []model.RawListing{{
		Source:      model.SourceRemotive,
		Title:       "Data Analyst",
		URL:         "https://x.test/1",
		PublishedAt: time.Now().Add(-24 * time.Hour).Format(time.RFC3339),
	}}, nil
}

func profile() model.Profile {
	return model.Profile{KeywordsMust: []string{"analyst"}, MinimumScore: 1, MaxResults: 5, LookbackDays: 14}
}

func newRunner(src scraper.Source) *scheduler.Runner {
	return &scheduler.Runner{
		Pipeline: pipeline.New([]scraper.Source{src}, nil, nil, pipeline.Options{Timeout: time.Second}),
		Profile:  profile(),
	}
}

// ── Runner ─────────────────────────────────────────────────────────────────

func TestRunner_WithoutSinks(t *testing.T) {
	res, err := newRunner(&countingSource{}).RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Listings, 1)
}

func TestRunner_ArchivesAndPublishes(t *testing.T) {
	ctx := context.Background()
	db, err := store.OpenSQLite(ctx, filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer db.Close()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	pub := events.NewPublisher(rdb, 0)

	r := newRunner(&countingSource{})
	r.Store = db
	r.Events = pub

	res, err := r.RunOnce(ctx)
	require.NoError(t, err)

	s, ok, err := pub.LastRun(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, res.RunID, s.RunID)
	assert.Equal(t, 1, s.New)

	_, err = r.RunOnce(ctx)
	require.NoError(t, err)
	s, _, err = pub.LastRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, s.New)
}

func TestRunner_SinkFailureDoesNotFailRun(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.SetError("READONLY")
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	r := newRunner(&countingSource{})
	r.Events = events.NewPublisher(rdb, 0)

	res, err := r.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Listings, 1)
}

func TestRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newRunner(&countingSource{}).RunOnce(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// ── Scheduler ──────────────────────────────────────────────────────────────

func TestScheduler_RunsImmediatelyOnStart(t *testing.T) {
	src := &countingSource{}
	s := scheduler.New(newRunner(src), nil, 6)

	require.NoError(t, s.Start(context.Background()))
	assert.Eventually(t, func() bool { return src.calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	s.Stop()
}
