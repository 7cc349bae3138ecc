package model

import "strings"

// Source identifies the feed a listing came from.
type Source string

const (
	SourceArbeitnow            Source = "Arbeitnow"
	SourceRemotive             Source = "Remotive"
	SourceAdzuna               Source = "Adzuna"
	SourceStudySmarter         Source = "StudySmarter"
	SourceStepStone            Source = "StepStone"
	SourceGesinesJobtipps      Source = "GesinesJobtipps"
	SourceInteramt             Source = "Interamt"
	SourceBundService          Source = "BundService"
	SourceBMWK                 Source = "BMWK"
	SourceBMG                  Source = "BMG"
	SourceBMI                  Source = "BMI"
	SourceBMBFSFJ              Source = "BMBFSFJ"
	SourceBMDS                 Source = "BMDS"
	SourceBMF                  Source = "BMF"
	SourceKarriereportalBerlin Source = "KarriereportalBerlin"
	SourceArbeitsagentur       Source = "Arbeitsagentur"
	SourceLinkedInJobs         Source = "LinkedInJobs"
	SourceGoodJobs             Source = "GoodJobs"
	SourceRSSFeed              Source = "RSSFeed"
)

// knownSources is the closed set of identifiers a Listing may carry.
var knownSources = []Source{
	SourceArbeitnow,
	SourceRemotive,
	SourceAdzuna,
	SourceStudySmarter,
	SourceStepStone,
	SourceGesinesJobtipps,
	SourceInteramt,
	SourceBundService,
	SourceBMWK,
	SourceBMG,
	SourceBMI,
	SourceBMBFSFJ,
	SourceBMDS,
	SourceBMF,
	SourceKarriereportalBerlin,
	SourceArbeitsagentur,
	SourceLinkedInJobs,
	SourceGoodJobs,
	SourceRSSFeed,
}

// KnownSources returns a copy of every supported source identifier.
func KnownSources() []Source {
	out := make([]Source, len(knownSources))
	copy(out, knownSources)
	return out
}

// ParseSource resolves s case-insensitively to a known Source.
func ParseSource(s string) (Source, bool) {
	s = strings.TrimSpace(s)
	for _, src := range knownSources {
		if strings.EqualFold(string(src), s) {
			return src, true
		}
	}
	return "", false
}

// Key is the lowercase form used for cap, quota and allowlist lookups.
func (s Source) Key() string { return strings.ToLower(string(s)) }
