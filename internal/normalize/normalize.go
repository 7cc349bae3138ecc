package normalize

import (
	"strings"

	"jobmate/job-finder/internal/model"
)

// Listing converts one raw record into a canonical Listing. ok is false
// when the record has an unknown source or yields no title or URL; such
// records are dropped, not reported.
func Listing(raw model.RawListing) (model.Listing, bool) {
	src, known := model.ParseSource(string(raw.Source))
	if !known {
		return model.Listing{}, false
	}

	title := CleanTitle(raw.Title)
	url := strings.TrimSpace(raw.URL)
	if title == "" || url == "" {
		return model.Listing{}, false
	}

	return model.Listing{
		Source:      src,
		Title:       title,
		Company:     CleanText(raw.Company, MaxCompanyLength),
		Location:    Location(raw.Location),
		Remote:      raw.Remote,
		Tags:        Tags(raw.Tags),
		Description: CleanText(raw.Description, MaxDescriptionLength),
		URL:         url,
		PublishedAt: ParseTime(raw.PublishedAt),
		AgeDays:     model.UnknownAge,
	}, true
}

// All normalises a batch, keeping input order and dropping malformed records.
func All(raws []model.RawListing) []model.Listing {
	out := make([]model.Listing, 0, len(raws))
	for _, raw := range raws {
		if l, ok := Listing(raw); ok {
			out = append(out, l)
		}
	}
	return out
}

// Tags cleans each tag and removes empties and case-insensitive repeats.
func Tags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, t := range in {
		t = CleanText(t, 0)
		k := strings.ToLower(t)
		if t == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, t)
	}
	return out
}
