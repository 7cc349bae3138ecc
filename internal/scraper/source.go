package scraper

import (
	"context"

	"jobmate/job-finder/internal/model"
)

// Source fetches raw listings from one feed. Implementations are
// best-effort: they may return partial results together with an error.
type Source interface {
	Name() model.Source
	Fetch(ctx context.Context, p model.Profile) ([]model.RawListing, error)
}

// firstMust returns the first required keyword, or fallback.
func firstMust(p model.Profile, fallback string) string {
	for _, k := range p.KeywordsMust {
		if k != "" {
			return k
		}
	}
	return fallback
}
