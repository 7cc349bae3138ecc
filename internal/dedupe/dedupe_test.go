package dedupe_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/job-finder/internal/dedupe"
	"jobmate/job-finder/internal/model"
)

// ── CanonicalURL ───────────────────────────────────────────────────────────

func TestCanonicalURL_StripsTrackingAndCase(t *testing.T) {
	a, ok := dedupe.CanonicalURL("https://x.test/a/?utm_source=x&b=1")
	require.True(t, ok)
	b, ok := dedupe.CanonicalURL("https://X.test/a?b=1")
	require.True(t, ok)

	assert.Equal(t, a, b)
	assert.Equal(t, "https://x.test/a?b=1", a)
}

func TestCanonicalURL_Idempotent(t *testing.T) {
	inputs := []string{
		"https://x.test/a/?utm_source=x&b=1",
		"HTTP://Jobs.Example.test/stelle///?z=2&a=1&ref=mail&a=0#apply",
		"https://x.test/suche?q=referent+politik",
		"https://x.test/",
	}
	for _, in := range inputs {
		once, ok := dedupe.CanonicalURL(in)
		require.True(t, ok, in)
		twice, ok := dedupe.CanonicalURL(once)
		require.True(t, ok, once)
		assert.Equal(t, once, twice, "input %q", in)
	}
}

func TestCanonicalURL_SortsParameters(t *testing.T) {
	got, ok := dedupe.CanonicalURL("https://x.test/jobs?z=2&a=1&REF=x&utm_medium=y")
	require.True(t, ok)
	assert.Equal(t, "https://x.test/jobs?a=1&z=2", got)
}

func TestCanonicalURL_RejectsRelative(t *testing.T) {
	for _, in := range []string{"", "/jobs/1", "jobs/1", "://broken"} {
		_, ok := dedupe.CanonicalURL(in)
		assert.False(t, ok, "CanonicalURL(%q)", in)
	}
}

func TestKey_FallsBackToTitleCompany(t *testing.T) {
	l := model.Listing{Title: "Data Analyst", Company: "ACME", URL: "/jobs/1"}
	assert.Equal(t, "data analyst|acme", dedupe.Key(l))
}

// ── Quality ────────────────────────────────────────────────────────────────

func TestQuality(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		company string
		want    int
	}{
		{"long role title", "Referent Digitalpolitik", "BMDS", 5},
		{"short role title", "Manager", "", 3},
		{"long generic title", "Sachbearbeitung Allgemein", "", 2},
		{"title equals company", "Bundesministerium", "bundesministerium", -1},
		{"legal entity without role", "Muster Stiftung Berlin", "", 0},
		{"legal entity with role", "Referent Stiftung Berlin", "", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dedupe.Quality(tt.title, tt.company))
		})
	}
}

// ── Dedupe ─────────────────────────────────────────────────────────────────

func TestDedupe_MergesByCanonicalURL(t *testing.T) {
	in := []model.Listing{
		{Source: model.SourceStepStone, Title: "Jobs", URL: "https://x.test/job/1/?utm_source=feed"},
		{Source: model.SourceStepStone, Title: "Referent Vergabe (m/w/d)", Company: "ACME", URL: "https://X.test/job/1"},
		{Source: model.SourceStepStone, Title: "Referent Vergabe", Company: "Other", URL: "https://x.test/job/1"},
	}
	out := dedupe.Dedupe(in)
	require.Len(t, out, 1)
	assert.Equal(t, "Referent Vergabe (m/w/d)", out[0].Title)
	assert.Equal(t, "ACME", out[0].Company)
}

func TestDedupe_BackfillsBlankFields(t *testing.T) {
	published := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	in := []model.Listing{
		{Source: model.SourceInteramt, Title: "Referent Haushalt", URL: "https://x.test/1", Tags: []string{"Bund"}},
		{Source: model.SourceInteramt, Title: "Haushalt", Company: "BMF", Location: "Berlin", Remote: true,
			URL: "https://x.test/1/", PublishedAt: &published, Description: "Teilzeit möglich", Tags: []string{"bund", "Finanzen"}},
	}
	out := dedupe.Dedupe(in)
	require.Len(t, out, 1)

	got := out[0]
	assert.Equal(t, "Referent Haushalt", got.Title)
	assert.Equal(t, "BMF", got.Company)
	assert.Equal(t, "Berlin", got.Location)
	assert.Equal(t, "Teilzeit möglich", got.Description)
	assert.True(t, got.Remote)
	require.NotNil(t, got.PublishedAt)
	assert.True(t, published.Equal(*got.PublishedAt))
	assert.Equal(t, []string{"Bund", "Finanzen"}, got.Tags)
}

func TestDedupe_CompanyFromFirstSupplier(t *testing.T) {
	in := []model.Listing{
		{Source: model.SourceArbeitnow, Title: "Data Analyst Berlin", URL: "https://x.test/a"},
		{Source: model.SourceArbeitnow, Title: "Data Analyst Berlin", Company: "First", URL: "https://x.test/a"},
		{Source: model.SourceArbeitnow, Title: "Data Analyst Berlin", Company: "Second", URL: "https://x.test/a"},
	}
	out := dedupe.Dedupe(in)
	require.Len(t, out, 1)
	assert.Equal(t, "First", out[0].Company)
}

func TestDedupe_KeepsFirstSeenOrderAndUniqueKeys(t *testing.T) {
	in := []model.Listing{
		{Source: model.SourceRemotive, Title: "B job title", URL: "https://x.test/b"},
		{Source: model.SourceRemotive, Title: "A job title", URL: "https://x.test/a"},
		{Source: model.SourceRemotive, Title: "B job title", URL: "https://x.test/b?utm_campaign=z"},
		{Source: model.SourceRemotive, Title: "No URL job", Company: "ACME", URL: "relative/path"},
		{Source: model.SourceRemotive, Title: "no url job", Company: "acme", URL: "other/relative"},
	}
	out := dedupe.Dedupe(in)
	require.Len(t, out, 3)
	assert.Equal(t, "https://x.test/b", out[0].URL)
	assert.Equal(t, "https://x.test/a", out[1].URL)
	assert.Equal(t, "No URL job", out[2].Title)

	seen := map[string]bool{}
	for _, l := range out {
		k := dedupe.Key(l)
		assert.False(t, seen[k], "duplicate key %q", k)
		seen[k] = true
	}
}

func TestDedupe_DoesNotAliasInputTags(t *testing.T) {
	tags := make([]string, 1, 4)
	tags[0] = "Go"
	in := []model.Listing{
		{Source: model.SourceRemotive, Title: "Go Engineer", URL: "https://x.test/1", Tags: tags},
		{Source: model.SourceRemotive, Title: "Go Engineer", URL: "https://x.test/1", Tags: []string{"Remote"}},
	}
	out := dedupe.Dedupe(in)
	require.Len(t, out, 1)
	assert.Equal(t, []string{"Go", "Remote"}, out[0].Tags)
	assert.Equal(t, []string{"Go"}, in[0].Tags)
}
