// Package scoring rates listings against an interest profile.
package scoring

import (
	"strings"

	"jobmate/job-finder/internal/model"
)

// VetoScore is assigned when a profile requires keywords and none matched.
const VetoScore = -999

// VetoReason is the only reason recorded for a vetoed listing.
const VetoReason = "no required keyword matched"

// Weights.
const (
	mustWeight     = 5
	niceWeight     = 2
	locationWeight = 3
	remoteBonus    = 2
	excludePenalty = 10
)

// Scorer computes score and reasons for listings under one profile.
// It is safe for concurrent use.
type Scorer struct {
	must     termSet
	nice     termSet
	exclude  termSet
	location termSet
}

// New compiles the keyword sets of p.
func New(p model.Profile) *Scorer {
	return &Scorer{
		must:     newTermSet(p.KeywordsMust),
		nice:     newTermSet(p.KeywordsNice),
		exclude:  newTermSet(p.ExcludeKeywords),
		location: newTermSet(p.LocationsPreferred),
	}
}

// FreshnessBonus rewards recent postings: 2 up to three days, 1 up to a week.
func FreshnessBonus(ageDays int) int {
	switch {
	case ageDays <= 3:
		return 2
	case ageDays <= 7:
		return 1
	default:
		return 0
	}
}

// Score returns l with Score and Reasons set.
func (s *Scorer) Score(l model.Listing) model.Listing {
	haystack := strings.ToLower(strings.Join([]string{
		l.Title, l.Company, l.Location, strings.Join(l.Tags, " "), l.Description,
	}, " "))

	must := s.must.find(haystack)
	if !s.must.empty() && len(must) == 0 {
		l.Score = VetoScore
		l.Reasons = []string{VetoReason}
		return l
	}
	nice := s.nice.find(haystack)
	excluded := s.exclude.find(haystack)
	locs := s.location.find(strings.ToLower(l.Location))

	score := mustWeight*len(must) + niceWeight*len(nice) + locationWeight*len(locs) +
		FreshnessBonus(l.AgeDays) - excludePenalty*len(excluded)

	reasons := make([]string, 0, 5)
	if len(must) > 0 {
		reasons = append(reasons, "must: "+strings.Join(must, ", "))
	}
	if len(nice) > 0 {
		reasons = append(reasons, "nice: "+strings.Join(nice, ", "))
	}
	if len(locs) > 0 {
		reasons = append(reasons, "location: "+strings.Join(locs, ", "))
	}
	if l.Remote {
		score += remoteBonus
		reasons = append(reasons, "remote")
	}
	if len(excluded) > 0 {
		reasons = append(reasons, "exclude: "+strings.Join(excluded, ", "))
	}

	l.Score = score
	l.Reasons = reasons
	return l
}

// ScoreAll scores every listing, keeping order.
func (s *Scorer) ScoreAll(listings []model.Listing) []model.Listing {
	out := make([]model.Listing, len(listings))
	for i, l := range listings {
		out[i] = s.Score(l)
	}
	return out
}
