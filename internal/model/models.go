// Package model defines shared data structures for the job finder.
package model

import "time"

// UnknownAge is the AgeDays value for a listing whose publication date is
// missing or could not be parsed. It sorts after every real age.
const UnknownAge = 9999

// Profile is the interest profile a run is scored against.
// It mirrors the JSON/YAML profile file and is consumed read-only.
type Profile struct {
	KeywordsMust       []string `yaml:"keywordsMust" json:"keywordsMust"`
	KeywordsNice       []string `yaml:"keywordsNice" json:"keywordsNice"`
	ExcludeKeywords    []string `yaml:"excludeKeywords" json:"excludeKeywords"`
	LocationsPreferred []string `yaml:"locationsPreferred" json:"locationsPreferred"`
	StrictLocations    []string `yaml:"strictLocations" json:"strictLocations"`
	RemoteOnly         bool     `yaml:"remoteOnly" json:"remoteOnly"`
	MinimumScore       int      `yaml:"minimumScore" json:"minimumScore"`
	MaxResults         int      `yaml:"maxResults" json:"maxResults"`
	LookbackDays       int      `yaml:"lookbackDays" json:"lookbackDays"`
	AllowedSources     []string `yaml:"allowedSources" json:"allowedSources"`

	InteramtSearchURL string         `yaml:"interamtSearchUrl" json:"interamtSearchUrl,omitempty"`
	FeedURLs          []string       `yaml:"feedUrls" json:"feedUrls,omitempty"`
	SourceCaps        map[string]int `yaml:"sourceCaps" json:"sourceCaps,omitempty"`
	SourceQuotas      map[string]int `yaml:"sourceQuotas" json:"sourceQuotas,omitempty"`
}

// RawListing is one field-tagged record as returned by a source adapter,
// before any cleanup. Location may be a plain string or a decoded JSON-LD
// value (map[string]any or []any); PublishedAt is kept as the source sent it.
type RawListing struct {
	Source      Source
	Title       string
	Company     string
	Location    any
	Remote      bool
	Tags        []string
	Description string
	URL         string
	PublishedAt string
}

// Listing is the canonical record produced by normalisation.
// AgeDays, Score and Reasons are derived later in the pipeline.
type Listing struct {
	Source      Source     `json:"source"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location"`
	Remote      bool       `json:"remote"`
	Tags        []string   `json:"tags"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`

	AgeDays int      `json:"ageDays"`
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// Stats holds per-stage counters for one run. They are meant for operator
// logs and metrics, not for report consumers.
type Stats struct {
	Fetched     int            `json:"fetched"`
	PerSource   map[Source]int `json:"perSource"`
	Normalized  int            `json:"normalized"`
	Deduped     int            `json:"deduped"`
	Fresh       int            `json:"fresh"`
	Eligible    int            `json:"eligible"`
	Qualified   int            `json:"qualified"`
	Selected    int            `json:"selected"`
	Backfilled  int            `json:"backfilled"`
	FailedFetch int            `json:"failedFetch"`
}
