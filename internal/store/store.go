// Package store archives finished runs. Listings are keyed by their
// deduplication identity so a posting seen in an earlier run is counted as
// a duplicate instead of being inserted again.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"jobmate/job-finder/internal/dedupe"
	"jobmate/job-finder/internal/model"
	"jobmate/job-finder/internal/pipeline"
)

// Store persists run results.
type Store interface {
	SaveRun(ctx context.Context, res *pipeline.Result) (SaveResult, error)
	Close() error
}

// SaveResult reports how many selected listings were new to the archive.
type SaveResult struct {
	Inserted   int
	Duplicates int
}

// row is the flattened form of one selected listing.
type row struct {
	key         string
	source      string
	title       string
	company     string
	location    string
	remote      bool
	url         string
	description string
	publishedAt any
	tags        string
	reasons     string
	score       int
	ageDays     int
	rank        int
}

func rows(listings []model.Listing) ([]row, error) {
	out := make([]row, 0, len(listings))
	for i, l := range listings {
		tags, err := json.Marshal(l.Tags)
		if err != nil {
			return nil, fmt.Errorf("marshal tags: %w", err)
		}
		reasons, err := json.Marshal(l.Reasons)
		if err != nil {
			return nil, fmt.Errorf("marshal reasons: %w", err)
		}
		var published any
		if l.PublishedAt != nil {
			published = l.PublishedAt.UTC()
		}
		out = append(out, row{
			key:         dedupe.Key(l),
			source:      string(l.Source),
			title:       l.Title,
			company:     l.Company,
			location:    l.Location,
			remote:      l.Remote,
			url:         l.URL,
			description: l.Description,
			publishedAt: published,
			tags:        string(tags),
			reasons:     string(reasons),
			score:       l.Score,
			ageDays:     l.AgeDays,
			rank:        i + 1,
		})
	}
	return out, nil
}

func runJSON(res *pipeline.Result) (stats, warnings string, err error) {
	s, err := json.Marshal(res.Stats)
	if err != nil {
		return "", "", fmt.Errorf("marshal stats: %w", err)
	}
	w, err := json.Marshal(res.Warnings)
	if err != nil {
		return "", "", fmt.Errorf("marshal warnings: %w", err)
	}
	return string(s), string(w), nil
}
