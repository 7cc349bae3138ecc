package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jobmate/job-finder/internal/model"
	"jobmate/job-finder/internal/scoring"
)

func TestScore_Formula(t *testing.T) {
	s := scoring.New(model.Profile{
		KeywordsMust:       []string{"Referent", "vergabe"},
		KeywordsNice:       []string{"politik", "public affairs", "energie"},
		ExcludeKeywords:    []string{"befristet"},
		LocationsPreferred: []string{"Berlin", "Mitte"},
	})
	l := model.Listing{
		Title:       "Referent Vergabe",
		Company:     "BMWK",
		Location:    "Berlin-Mitte",
		Tags:        []string{"Public Affairs"},
		Description: "Energiepolitik, befristet auf zwei Jahre",
		Remote:      true,
		AgeDays:     5,
	}

	got := s.Score(l)
	// must 2*5 + nice 3*2 + location 2*3 + remote 2 + fresh 1 - exclude 10
	assert.Equal(t, 15, got.Score)
	assert.Equal(t, []string{
		"must: Referent, vergabe",
		"nice: politik, public affairs, energie",
		"location: Berlin, Mitte",
		"remote",
		"exclude: befristet",
	}, got.Reasons)
}

func TestScore_Veto(t *testing.T) {
	s := scoring.New(model.Profile{KeywordsMust: []string{"vergabe"}, KeywordsNice: []string{"analyst"}})
	got := s.Score(model.Listing{Title: "Data Analyst", Remote: true, AgeDays: 0})
	assert.Equal(t, scoring.VetoScore, got.Score)
	assert.Equal(t, []string{scoring.VetoReason}, got.Reasons)
}

func TestScore_NoMustKeywordsMeansNoVeto(t *testing.T) {
	s := scoring.New(model.Profile{KeywordsMust: []string{" ", ""}})
	got := s.Score(model.Listing{Title: "Data Analyst", AgeDays: model.UnknownAge})
	assert.Equal(t, 0, got.Score)
	assert.Empty(t, got.Reasons)
}

func TestScore_LocationOnlyMatchesLocationField(t *testing.T) {
	s := scoring.New(model.Profile{LocationsPreferred: []string{"berlin"}})
	got := s.Score(model.Listing{Title: "Berlin Analyst", Location: "Hamburg", AgeDays: model.UnknownAge})
	assert.Equal(t, 0, got.Score)
}

func TestScore_DuplicateKeywordsCountOnce(t *testing.T) {
	s := scoring.New(model.Profile{KeywordsMust: []string{"analyst", "Analyst", "data analyst"}})
	got := s.Score(model.Listing{Title: "Data Analyst", AgeDays: model.UnknownAge})
	assert.Equal(t, 10, got.Score)
	assert.Equal(t, []string{"must: analyst, data analyst"}, got.Reasons)
}

func TestFreshnessBonus(t *testing.T) {
	tests := []struct {
		age  int
		want int
	}{
		{0, 2}, {3, 2}, {4, 1}, {7, 1}, {8, 0}, {model.UnknownAge, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, scoring.FreshnessBonus(tt.age), "age %d", tt.age)
	}
}

func TestScoreAll_KeepsOrderAndInput(t *testing.T) {
	s := scoring.New(model.Profile{KeywordsMust: []string{"analyst"}})
	in := []model.Listing{
		{Title: "Marketing Manager", AgeDays: model.UnknownAge},
		{Title: "Data Analyst", AgeDays: 1},
	}
	out := s.ScoreAll(in)
	assert.Equal(t, scoring.VetoScore, out[0].Score)
	assert.Equal(t, 7, out[1].Score)
	assert.Zero(t, in[1].Score)
}
