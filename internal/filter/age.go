package filter

import (
	"time"

	"jobmate/job-finder/internal/model"
)

const day = 24 * time.Hour

// AgeDays returns whole days elapsed between published and now. Future
// dates count as 0; a nil date yields model.UnknownAge. Known dates stay
// below the sentinel however old they are.
func AgeDays(published *time.Time, now time.Time) int {
	if published == nil {
		return model.UnknownAge
	}
	d := now.Sub(*published)
	if d <= 0 {
		return 0
	}
	return min(int(d/day), model.UnknownAge-1)
}

// AssignAges returns a copy of listings with AgeDays derived from
// PublishedAt relative to now.
func AssignAges(listings []model.Listing, now time.Time) []model.Listing {
	out := make([]model.Listing, len(listings))
	for i, l := range listings {
		l.AgeDays = AgeDays(l.PublishedAt, now)
		out[i] = l
	}
	return out
}
