package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jobmate/job-finder/internal/model"
)

func TestParseSource_CaseInsensitive(t *testing.T) {
	for _, s := range []string{"stepstone", "STEPSTONE", " StepStone "} {
		got, ok := model.ParseSource(s)
		assert.True(t, ok, "ParseSource(%q)", s)
		assert.Equal(t, model.SourceStepStone, got)
	}
}

func TestParseSource_Unknown(t *testing.T) {
	_, ok := model.ParseSource("monster")
	assert.False(t, ok)

	_, ok = model.ParseSource("")
	assert.False(t, ok)
}

func TestKnownSources_ReturnsCopy(t *testing.T) {
	a := model.KnownSources()
	a[0] = "mutated"
	b := model.KnownSources()
	assert.Equal(t, model.SourceArbeitnow, b[0])
}

func TestSourceKey(t *testing.T) {
	assert.Equal(t, "karriereportalberlin", model.SourceKarriereportalBerlin.Key())
}
