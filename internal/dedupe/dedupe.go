package dedupe

import (
	"slices"
	"strings"

	"jobmate/job-finder/internal/model"
)

// Dedupe returns one listing per identity key, in the order each key was
// first seen. Within a bucket the highest-quality listing wins (earliest on
// ties) and its blank fields are filled from siblings in encounter order.
func Dedupe(listings []model.Listing) []model.Listing {
	buckets := make(map[string][]model.Listing, len(listings))
	order := make([]string, 0, len(listings))
	for _, l := range listings {
		k := Key(l)
		if _, seen := buckets[k]; !seen {
			order = append(order, k)
		}
		buckets[k] = append(buckets[k], l)
	}

	out := make([]model.Listing, 0, len(order))
	for _, k := range order {
		out = append(out, merge(buckets[k]))
	}
	return out
}

func merge(group []model.Listing) model.Listing {
	best := 0
	bestQ := Quality(group[0].Title, group[0].Company)
	for i := 1; i < len(group); i++ {
		if q := Quality(group[i].Title, group[i].Company); q > bestQ {
			best, bestQ = i, q
		}
	}

	merged := group[best]
	merged.Tags = slices.Clone(merged.Tags)
	for _, sib := range group {
		fillBlank(&merged.Company, sib.Company)
		fillBlank(&merged.Location, sib.Location)
		fillBlank(&merged.Description, sib.Description)
		fillBlank(&merged.URL, sib.URL)
		if merged.PublishedAt == nil && sib.PublishedAt != nil {
			t := *sib.PublishedAt
			merged.PublishedAt = &t
		}
		if sib.Remote {
			merged.Remote = true
		}
		merged.Tags = unionTags(merged.Tags, sib.Tags)
	}
	return merged
}

func fillBlank(dst *string, v string) {
	if strings.TrimSpace(*dst) == "" && strings.TrimSpace(v) != "" {
		*dst = v
	}
}

func unionTags(dst, add []string) []string {
	for _, t := range add {
		if !slices.ContainsFunc(dst, func(d string) bool { return strings.EqualFold(d, t) }) {
			dst = append(dst, t)
		}
	}
	return dst
}
