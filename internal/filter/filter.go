package filter

import (
	"strings"

	"jobmate/job-finder/internal/model"
)

// Stage is one named eligibility predicate. Keep returns false to
// exclude a listing; it never mutates it.
type Stage struct {
	Name string
	Keep func(model.Listing) bool
}

// Stage names, in application order.
const (
	StageFreshness = "freshness"
	StageSources   = "sources"
	StageStrict    = "strict_location"
	StageExclude   = "exclude"
	StageNoise     = "noise"
	StageRemote    = "remote"
)

// Stages returns the eligibility predicates for p in their fixed order.
func Stages(p model.Profile) []Stage {
	return []Stage{
		{StageFreshness, Fresh(p.LookbackDays)},
		{StageSources, AllowedSource(p.AllowedSources)},
		{StageStrict, StrictLocation(p.StrictLocations)},
		{StageExclude, NotExcluded(p.ExcludeKeywords)},
		{StageNoise, func(l model.Listing) bool { return !IsNoise(l) }},
		{StageRemote, RemoteOnly(p.RemoteOnly)},
	}
}

// Run applies stages in order. survivors[i] is the number of listings
// left after stage i.
func Run(listings []model.Listing, stages []Stage) (out []model.Listing, survivors []int) {
	out = listings
	survivors = make([]int, len(stages))
	for i, s := range stages {
		kept := make([]model.Listing, 0, len(out))
		for _, l := range out {
			if s.Keep(l) {
				kept = append(kept, l)
			}
		}
		out = kept
		survivors[i] = len(out)
	}
	return out, survivors
}

// Fresh keeps listings no older than lookbackDays. Listings of unknown
// age are always kept.
func Fresh(lookbackDays int) func(model.Listing) bool {
	return func(l model.Listing) bool {
		return l.AgeDays == model.UnknownAge || l.AgeDays <= lookbackDays
	}
}

// AllowedSource keeps listings whose source is in allowed. An empty
// allowlist admits every source.
func AllowedSource(allowed []string) func(model.Listing) bool {
	set := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		if a = strings.TrimSpace(a); a != "" {
			set[strings.ToLower(a)] = true
		}
	}
	return func(l model.Listing) bool {
		return len(set) == 0 || set[l.Source.Key()]
	}
}

// StrictLocation keeps listings mentioning at least one of terms in title,
// location, description or url. No terms means no restriction.
func StrictLocation(terms []string) func(model.Listing) bool {
	active := hasTerms(terms)
	return func(l model.Listing) bool {
		return !active || ContainsAny(terms, l.Title, l.Location, l.Description, l.URL)
	}
}

// NotExcluded drops listings mentioning any exclude keyword in title,
// company, location, tags or description.
func NotExcluded(terms []string) func(model.Listing) bool {
	return func(l model.Listing) bool {
		return !ContainsAny(terms, l.Title, l.Company, l.Location, strings.Join(l.Tags, " "), l.Description)
	}
}

// RemoteOnly drops non-remote listings when only is set.
func RemoteOnly(only bool) func(model.Listing) bool {
	return func(l model.Listing) bool {
		return !only || l.Remote
	}
}

func hasTerms(terms []string) bool {
	for _, t := range terms {
		if strings.TrimSpace(t) != "" {
			return true
		}
	}
	return false
}
