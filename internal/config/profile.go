package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"jobmate/job-finder/internal/model"
)

// Profile defaults, applied to any key the profile file leaves out.
const (
	DefaultMinimumScore = 1
	DefaultMaxResults   = 20
	DefaultLookbackDays = 14
)

// DefaultProfile returns a Profile with every documented default set.
func DefaultProfile() model.Profile {
	return model.Profile{
		MinimumScore: DefaultMinimumScore,
		MaxResults:   DefaultMaxResults,
		LookbackDays: DefaultLookbackDays,
	}
}

// LoadProfile reads a JSON or YAML profile file. JSON profiles decode
// through the YAML parser unchanged.
func LoadProfile(path string) (model.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Profile{}, fmt.Errorf("reading profile: %w", err)
	}
	return ParseProfile(data)
}

// ParseProfile decodes profile bytes on top of DefaultProfile, cleans the
// keyword sets and validates the numeric limits.
func ParseProfile(data []byte) (model.Profile, error) {
	p := DefaultProfile()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return model.Profile{}, fmt.Errorf("parsing profile: %w", err)
	}

	p.KeywordsMust = cleanTerms(p.KeywordsMust)
	p.KeywordsNice = cleanTerms(p.KeywordsNice)
	p.ExcludeKeywords = cleanTerms(p.ExcludeKeywords)
	p.LocationsPreferred = cleanTerms(p.LocationsPreferred)
	p.StrictLocations = cleanTerms(p.StrictLocations)
	p.AllowedSources = cleanTerms(p.AllowedSources)
	p.FeedURLs = cleanTerms(p.FeedURLs)
	p.InteramtSearchURL = strings.TrimSpace(p.InteramtSearchURL)
	p.SourceCaps = lowerKeys(p.SourceCaps)
	p.SourceQuotas = lowerKeys(p.SourceQuotas)

	if p.MaxResults < 0 {
		return model.Profile{}, fmt.Errorf("maxResults must not be negative, got %d", p.MaxResults)
	}
	if p.MaxResults == 0 {
		p.MaxResults = DefaultMaxResults
	}
	if p.LookbackDays < 0 {
		return model.Profile{}, fmt.Errorf("lookbackDays must not be negative, got %d", p.LookbackDays)
	}
	for src, n := range p.SourceCaps {
		if n < 0 {
			return model.Profile{}, fmt.Errorf("sourceCaps[%s] must not be negative, got %d", src, n)
		}
	}
	for src, n := range p.SourceQuotas {
		if n < 0 {
			return model.Profile{}, fmt.Errorf("sourceQuotas[%s] must not be negative, got %d", src, n)
		}
	}
	return p, nil
}

// cleanTerms trims each entry and drops empties; an empty keyword would
// otherwise match every listing.
func cleanTerms(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func lowerKeys(in map[string]int) map[string]int {
	if in == nil {
		return nil
	}
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return out
}
