// Package selector builds the final ranked, source-balanced result list.
package selector

import (
	"cmp"
	"slices"

	"jobmate/job-finder/internal/dedupe"
	"jobmate/job-finder/internal/model"
	"jobmate/job-finder/internal/scoring"
)

// Result is the outcome of Select.
type Result struct {
	Listings   []model.Listing
	Qualified  int // listings at or above the minimum score
	Backfilled int // listings added by the quota pass
}

// SortByScore returns a copy of listings ordered by descending score.
// Equal scores keep their input order.
func SortByScore(listings []model.Listing) []model.Listing {
	out := slices.Clone(listings)
	slices.SortStableFunc(out, func(a, b model.Listing) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return out
}

// Select ranks scored listings and returns at most p.MaxResults of them.
func Select(scored []model.Listing, p model.Profile, t Tables) Result {
	limit := max(p.MaxResults, 0)
	sorted := SortByScore(scored)

	qualified := make([]model.Listing, 0, len(sorted))
	for _, l := range sorted {
		if l.Score >= p.MinimumScore {
			qualified = append(qualified, l)
		}
	}

	capped := Capped(qualified, t.Caps, limit)
	out := Backfill(sorted, capped, t, limit)
	return Result{
		Listings:   out,
		Qualified:  len(qualified),
		Backfilled: len(out) - len(capped),
	}
}

// Capped walks pool in order and admits a listing while its source is
// below its cap. If fewer than limit were admitted, the deferred listings
// fill the remainder in pool order.
func Capped(pool []model.Listing, caps map[string]int, limit int) []model.Listing {
	used := make(map[string]int)
	picked := make([]model.Listing, 0, min(limit, len(pool)))
	var rest []model.Listing
	for _, l := range pool {
		if len(picked) >= limit {
			break
		}
		src := l.Source.Key()
		if c, ok := caps[src]; ok && used[src] >= c {
			rest = append(rest, l)
			continue
		}
		used[src]++
		picked = append(picked, l)
	}
	for _, l := range rest {
		if len(picked) >= limit {
			break
		}
		picked = append(picked, l)
	}
	return picked
}

// Backfill appends listings from pool for each quota source still under
// its minimum, newest first then highest score, skipping vetoed listings
// and any whose identity key is already selected. The result never
// exceeds limit.
func Backfill(pool, selected []model.Listing, t Tables, limit int) []model.Listing {
	out := slices.Clone(selected)
	used := make(map[string]bool, len(out))
	count := make(map[string]int)
	for _, l := range out {
		used[dedupe.Key(l)] = true
		count[l.Source.Key()]++
	}

	for _, src := range t.quotaOrder() {
		if len(out) >= limit {
			break
		}
		need := t.Quotas[src]
		if count[src] >= need {
			continue
		}
		for _, cand := range candidates(pool, src) {
			if count[src] >= need || len(out) >= limit {
				break
			}
			k := dedupe.Key(cand)
			if used[k] {
				continue
			}
			used[k] = true
			count[src]++
			out = append(out, cand)
		}
	}
	return out
}

func candidates(pool []model.Listing, src string) []model.Listing {
	var out []model.Listing
	for _, l := range pool {
		if l.Source.Key() == src && l.Score != scoring.VetoScore {
			out = append(out, l)
		}
	}
	slices.SortStableFunc(out, func(a, b model.Listing) int {
		if c := cmp.Compare(a.AgeDays, b.AgeDays); c != 0 {
			return c
		}
		return cmp.Compare(b.Score, a.Score)
	})
	return out
}
