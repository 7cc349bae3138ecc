// Package events announces finished runs on Redis for downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"jobmate/job-finder/internal/model"
	"jobmate/job-finder/internal/pipeline"
)

const (
	// Channel carries one EVENT_JOBS_FOUND message per run.
	Channel = "EVENT_JOBS_FOUND"
	// LastRunKey holds the most recent summary.
	LastRunKey = "jobfinder:last_run"

	maxTopListings = 5
)

// Summary is the published payload.
type Summary struct {
	Type       string         `json:"type"`
	RunID      string         `json:"runId"`
	FinishedAt time.Time      `json:"finishedAt"`
	Selected   int            `json:"selected"`
	New        int            `json:"new"`
	Failed     []model.Source `json:"failedSources,omitempty"`
	Top        []Headline     `json:"top"`
	Stats      model.Stats    `json:"stats"`
}

// Headline is a short form of a selected listing.
type Headline struct {
	Title   string       `json:"title"`
	Company string       `json:"company"`
	Source  model.Source `json:"source"`
	Score   int          `json:"score"`
	URL     string       `json:"url"`
}

// Publisher writes run summaries to Redis.
type Publisher struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewPublisher returns a Publisher. ttl bounds the lifetime of LastRunKey;
// zero keeps it forever.
func NewPublisher(rdb redis.Cmdable, ttl time.Duration) *Publisher {
	return &Publisher{rdb: rdb, ttl: ttl}
}

// NewSummary builds the payload for res. newListings is the number of
// listings not seen in earlier runs, or -1 when unknown.
func NewSummary(res *pipeline.Result, newListings int) Summary {
	s := Summary{
		Type:       Channel,
		RunID:      res.RunID,
		FinishedAt: res.FinishedAt,
		Selected:   len(res.Listings),
		New:        newListings,
		Stats:      res.Stats,
		Top:        make([]Headline, 0, min(len(res.Listings), maxTopListings)),
	}
	for _, w := range res.Warnings {
		s.Failed = append(s.Failed, w.Source)
	}
	for _, l := range res.Listings[:min(len(res.Listings), maxTopListings)] {
		s.Top = append(s.Top, Headline{Title: l.Title, Company: l.Company, Source: l.Source, Score: l.Score, URL: l.URL})
	}
	return s
}

// Publish stores s under LastRunKey and publishes it on Channel.
func (p *Publisher) Publish(ctx context.Context, s Summary) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := p.rdb.Set(ctx, LastRunKey, payload, p.ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", LastRunKey, err)
	}
	if err := p.rdb.Publish(ctx, Channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", Channel, err)
	}
	return nil
}

// LastRun reads the most recent summary. ok is false when none was stored.
func (p *Publisher) LastRun(ctx context.Context) (s Summary, ok bool, err error) {
	raw, err := p.rdb.Get(ctx, LastRunKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return Summary{}, false, nil
	}
	if err != nil {
		return Summary{}, false, fmt.Errorf("get %s: %w", LastRunKey, err)
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return Summary{}, false, fmt.Errorf("decode %s: %w", LastRunKey, err)
	}
	return s, true, nil
}
