package selector

import (
	"maps"
	"slices"
	"strings"

	"jobmate/job-finder/internal/model"
)

// DefaultCaps limits how many listings a high-volume source may place in
// the capped pass. Sources not listed are uncapped.
var DefaultCaps = map[string]int{
	model.SourceStepStone.Key():            10,
	model.SourceStudySmarter.Key():         10,
	model.SourceGesinesJobtipps.Key():      10,
	model.SourceInteramt.Key():             5,
	model.SourceKarriereportalBerlin.Key(): 5,
	model.SourceArbeitsagentur.Key():       5,
	model.SourceGoodJobs.Key():             5,
}

// DefaultQuotas is the minimum representation the backfill pass tries to
// reach per source.
var DefaultQuotas = map[string]int{
	model.SourceStepStone.Key():       10,
	model.SourceStudySmarter.Key():    10,
	model.SourceGesinesJobtipps.Key(): 10,
}

// Tables holds the cap and quota tables for one run, keyed by lowercase
// source identifier.
type Tables struct {
	Caps   map[string]int
	Quotas map[string]int
}

// TablesFor returns the defaults, with each table replaced wholesale when
// the profile supplies its own.
func TablesFor(p model.Profile) Tables {
	t := Tables{Caps: maps.Clone(DefaultCaps), Quotas: maps.Clone(DefaultQuotas)}
	if p.SourceCaps != nil {
		t.Caps = lowerKeys(p.SourceCaps)
	}
	if p.SourceQuotas != nil {
		t.Quotas = lowerKeys(p.SourceQuotas)
	}
	return t
}

// quotaOrder is the deterministic order in which quotas are filled.
func (t Tables) quotaOrder() []string {
	return slices.Sorted(maps.Keys(t.Quotas))
}

func lowerKeys(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return out
}
