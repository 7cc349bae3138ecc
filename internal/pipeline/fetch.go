package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/errgroup"

	"jobmate/job-finder/internal/logger"
	"jobmate/job-finder/internal/model"
	"jobmate/job-finder/internal/scraper"
)

// Warning records a source whose fetch failed. The run continues without
// that source's listings.
type Warning struct {
	Source model.Source `json:"source"`
	Err    error        `json:"-"`
}

func (w Warning) Error() string { return fmt.Sprintf("%s: %v", w.Source, w.Err) }

// MarshalJSON renders the error as its message.
func (w Warning) MarshalJSON() ([]byte, error) {
	msg := ""
	if w.Err != nil {
		msg = w.Err.Error()
	}
	return json.Marshal(struct {
		Source model.Source `json:"source"`
		Error  string       `json:"error"`
	}{w.Source, msg})
}

// fetched is the outcome of one source.
type fetched struct {
	raws []model.RawListing
	err  error
}

// FetchAll calls every source concurrently and returns the merged raw
// listings in source order, the per-source counts and one warning per
// failed source.
func (p *Pipeline) FetchAll(ctx context.Context, profile model.Profile) ([]model.RawListing, map[model.Source]int, []Warning) {
	results := make([]fetched, len(p.sources))

	var g errgroup.Group
	g.SetLimit(p.opts.Concurrency)
	for i, src := range p.sources {
		g.Go(func() error {
			start := time.Now()
			raws, err := p.fetchOne(ctx, src, profile)
			results[i] = fetched{raws: raws, err: err}
			p.metrics.ObserveSource(src.Name(), len(raws), err)
			p.log.Debug("source fetched",
				logger.String("source", string(src.Name())),
				logger.Int("listings", len(raws)),
				logger.Duration("took", time.Since(start)))
			return nil
		})
	}
	_ = g.Wait() // goroutines report through results

	var (
		all       []model.RawListing
		perSource = make(map[model.Source]int, len(p.sources))
		warnings  []Warning
	)
	for i, r := range results {
		name := p.sources[i].Name()
		if r.err != nil {
			warnings = append(warnings, Warning{Source: name, Err: r.err})
			p.log.Warn("source fetch failed", logger.String("source", string(name)), logger.Error(r.err))
			if _, ok := perSource[name]; !ok {
				perSource[name] = 0
			}
			continue
		}
		perSource[name] += len(r.raws)
		all = append(all, r.raws...)
	}
	return all, perSource, warnings
}

// fetchOne runs one source with a per-attempt timeout and retries
// temporary failures. A panic inside the adapter is returned as an error.
// On failure any partial result is discarded.
func (p *Pipeline) fetchOne(ctx context.Context, src scraper.Source, profile model.Profile) (raws []model.RawListing, err error) {
	defer func() {
		if r := recover(); r != nil {
			raws, err = nil, fmt.Errorf("adapter panic: %v", r)
		}
	}()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.opts.RetryInterval

	op := func() ([]model.RawListing, error) {
		actx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
		out, err := src.Fetch(actx, profile)
		if err != nil && !retryable(ctx, err) {
			return nil, backoff.Permanent(err)
		}
		return out, err
	}

	raws, err = backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(p.opts.Retries)+1))
	if err != nil {
		return nil, err
	}
	return raws, nil
}

// retryable reports whether another attempt may succeed: network errors,
// attempt timeouts and 429/5xx responses, as long as the run itself is
// still alive.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var se *scraper.StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}
