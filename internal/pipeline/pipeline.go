// Package pipeline runs one batch: fetch all sources concurrently, then
// normalise, deduplicate, filter, score and select in a single pass.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"jobmate/job-finder/internal/dedupe"
	"jobmate/job-finder/internal/filter"
	"jobmate/job-finder/internal/logger"
	"jobmate/job-finder/internal/metrics"
	"jobmate/job-finder/internal/model"
	"jobmate/job-finder/internal/normalize"
	"jobmate/job-finder/internal/scoring"
	"jobmate/job-finder/internal/scraper"
	"jobmate/job-finder/internal/selector"
)

const (
	defaultTimeout       = 25 * time.Second
	defaultConcurrency   = 8
	defaultRetryInterval = 500 * time.Millisecond
)

// Options tunes the fetch phase.
type Options struct {
	Timeout       time.Duration // per attempt and source
	Retries       int           // extra attempts after the first
	Concurrency   int
	RetryInterval time.Duration
	Now           func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.Retries < 0 {
		o.Retries = 0
	}
	if o.Concurrency <= 0 {
		o.Concurrency = defaultConcurrency
	}
	if o.RetryInterval <= 0 {
		o.RetryInterval = defaultRetryInterval
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Result is the outcome of one run.
type Result struct {
	RunID      string          `json:"runId"`
	StartedAt  time.Time       `json:"startedAt"`
	FinishedAt time.Time       `json:"finishedAt"`
	Listings   []model.Listing `json:"listings"`
	Stats      model.Stats     `json:"stats"`
	Warnings   []Warning       `json:"warnings,omitempty"`
}

// Pipeline holds the sources and collaborators for repeated runs. Runs
// share no state.
type Pipeline struct {
	sources []scraper.Source
	opts    Options
	log     logger.Logger
	metrics *metrics.Metrics
}

// New constructs a Pipeline. m may be nil.
func New(sources []scraper.Source, log logger.Logger, m *metrics.Metrics, opts Options) *Pipeline {
	if log == nil {
		log = logger.NewNop()
	}
	return &Pipeline{sources: sources, opts: opts.withDefaults(), log: log, metrics: m}
}

// Run executes one batch for profile. Sources not in a non-empty
// allowedSources are not fetched. The only error is cancellation of ctx.
func (p *Pipeline) Run(ctx context.Context, profile model.Profile) (*Result, error) {
	res := &Result{RunID: uuid.NewString(), StartedAt: p.opts.Now()}
	log := p.log.With(logger.String("run_id", res.RunID))

	run := *p
	run.sources = scraper.Allowed(p.sources, profile.AllowedSources)
	run.log = log
	log.Info("run started", logger.Int("sources", len(run.sources)))

	raws, perSource, warnings := run.FetchAll(ctx, profile)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	listings, stats := Process(raws, profile, p.opts.Now())
	stats.PerSource = perSource
	stats.FailedFetch = len(warnings)

	res.Listings = listings
	res.Stats = stats
	res.Warnings = warnings
	res.FinishedAt = p.opts.Now()

	p.metrics.ObserveRun(stats, res.FinishedAt.Sub(res.StartedAt), res.FinishedAt)
	log.Info("run finished",
		logger.Int("fetched", stats.Fetched),
		logger.Int("normalized", stats.Normalized),
		logger.Int("deduped", stats.Deduped),
		logger.Int("fresh", stats.Fresh),
		logger.Int("eligible", stats.Eligible),
		logger.Int("qualified", stats.Qualified),
		logger.Int("selected", stats.Selected),
		logger.Int("backfilled", stats.Backfilled),
		logger.Int("failed_sources", stats.FailedFetch),
		logger.Duration("took", res.FinishedAt.Sub(res.StartedAt)))
	return res, nil
}

// Process is the sequential core: normalise, deduplicate, filter, score
// and select. It performs no I/O.
func Process(raws []model.RawListing, profile model.Profile, now time.Time) ([]model.Listing, model.Stats) {
	stats := model.Stats{Fetched: len(raws)}

	normalized := normalize.All(raws)
	stats.Normalized = len(normalized)

	deduped := dedupe.Dedupe(normalized)
	stats.Deduped = len(deduped)

	aged := filter.AssignAges(deduped, now)
	eligible, survivors := filter.Run(aged, filter.Stages(profile))
	stats.Fresh = survivors[0]
	stats.Eligible = len(eligible)

	scored := scoring.New(profile).ScoreAll(eligible)
	sel := selector.Select(scored, profile, selector.TablesFor(profile))
	stats.Qualified = sel.Qualified
	stats.Selected = len(sel.Listings)
	stats.Backfilled = sel.Backfilled

	return sel.Listings, stats
}
