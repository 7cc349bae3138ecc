package scraper

import (
	"net/url"
	"regexp"
	"strings"

	"jobmate/job-finder/internal/model"
)

// Portal pages scraped for public-sector and NGO listings.
var (
	gesinesURLs        = []string{"https://gesinesjobtipps.de/region/berlin-und-umgebung/"}
	interamtURL        = "https://interamt.de/koop/app/trefferliste?5"
	bundServiceURLs    = []string{"https://bund.service.de/", "https://service.bund.de/"}
	bmwkURLs           = []string{"https://www.bundeswirtschaftsministerium.de/Navigation/DE/Ministerium/Stellenangebote/stellenangebote.html"}
	bmgURLs            = []string{"https://www.bundesgesundheitsministerium.de/ministerium/karriere/stellenangebote"}
	bmiURLs            = []string{"https://www.bmi.bund.de/DE/service/stellenangebote/stellenangebote-node.html"}
	bmbfsfjURLs        = []string{"https://www.bmbfsfj.bund.de/bmbfsfj/ministerium/bmbfsfj-als-arbeitgeber/ausschreibungen"}
	bmdsURLs           = []string{"https://bmds.bund.de/ministerium/bmds-als-arbeitgeber"}
	bmfURLs            = []string{"https://www.bundesfinanzministerium.de/Web/DE/Ministerium/Arbeiten-Ausbildung/Stellenangebote/stellenangebote.html"}
	arbeitsagenturURLs = []string{"https://www.arbeitsagentur.de/jobsuche/suche?angebotsart=1&wo=Berlin"}
	linkedInURLs       = []string{"https://de.linkedin.com/jobs/search/?keywords=Public%20Affairs&location=Berlin"}
	goodJobsURLs       = []string{"https://goodjobs.eu/jobs"}
	karriereportalURLs = []string{
		"https://www.karriereportal-stellen.berlin.de/stellenangebote.html?filter%5Bvolltext%5D=",
		"https://www.karriereportal-stellen.berlin.de/stellenangebote.html?filter%5Bvolltext%5D=referent",
	}

	stepStoneReferer = "https://www.stepstone.de/"
	stepStoneDetail  = regexp.MustCompile(`(?i)stepstone\.de/(job/|stellenangebote--)`)
)

const (
	gesinesEnrichMax   = 40
	stepStoneEnrichMax = 80
)

// stepStoneURLs searches Berlin for the first required keyword plus two
// fixed public-affairs queries.
func stepStoneURLs(p model.Profile) []string {
	kw := url.PathEscape(firstMust(p, "politik"))
	return []string{
		"https://www.stepstone.de/jobs/" + kw + "/in-berlin",
		"https://www.stepstone.de/jobs/referent/in-berlin",
		"https://www.stepstone.de/jobs/public-affairs/in-berlin",
		"https://www.stepstone.de/jobs/" + kw + "/in-berlin-potsdam",
	}
}

func interamtURLs(p model.Profile) []string {
	if u := strings.TrimSpace(p.InteramtSearchURL); u != "" {
		return []string{u}
	}
	return []string{interamtURL}
}

// CatalogueOptions carries the credentials some sources need.
type CatalogueOptions struct {
	AdzunaAppID   string
	AdzunaAppKey  string
	AdzunaCountry string
}

// Catalogue returns every supported source in report order. Adzuna is
// included only when credentials are configured.
func Catalogue(client *Client, opts CatalogueOptions) []Source {
	sources := []Source{
		NewArbeitnow(client),
		NewRemotive(client),
		NewPageSource(client, model.SourceGesinesJobtipps, gesinesURLs,
			WithEnricher(NewEnricher(client, model.SourceGesinesJobtipps, gesinesEnrichMax, nil))),
		NewPageSource(client, model.SourceInteramt, nil, WithURLs(interamtURLs)),
		NewPageSource(client, model.SourceBundService, bundServiceURLs),
		NewPageSource(client, model.SourceBMWK, bmwkURLs),
		NewPageSource(client, model.SourceBMG, bmgURLs),
		NewPageSource(client, model.SourceBMI, bmiURLs),
		NewPageSource(client, model.SourceBMBFSFJ, bmbfsfjURLs),
		NewPageSource(client, model.SourceBMDS, bmdsURLs),
		NewPageSource(client, model.SourceBMF, bmfURLs),
		NewPageSource(client, model.SourceStepStone, nil,
			WithURLs(stepStoneURLs),
			WithReferer(stepStoneReferer),
			WithEnricher(NewEnricher(client, model.SourceStepStone, stepStoneEnrichMax, stepStoneDetail))),
		NewStudySmarter(client),
		NewPageSource(client, model.SourceKarriereportalBerlin, karriereportalURLs,
			WithParsers(ParseJSONLD, ParseKarriereportal)),
		NewPageSource(client, model.SourceArbeitsagentur, arbeitsagenturURLs),
		NewPageSource(client, model.SourceLinkedInJobs, linkedInURLs),
		NewPageSource(client, model.SourceGoodJobs, goodJobsURLs),
		NewFeed(client),
	}
	if adz := NewAdzuna(client, opts.AdzunaAppID, opts.AdzunaAppKey, opts.AdzunaCountry); adz.Configured() {
		sources = append(sources, adz)
	}
	return sources
}

// Allowed keeps the sources named in allowed (case-insensitive). An empty
// allowlist keeps all of them.
func Allowed(sources []Source, allowed []string) []Source {
	set := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		if a = strings.TrimSpace(a); a != "" {
			set[strings.ToLower(a)] = true
		}
	}
	if len(set) == 0 {
		return sources
	}
	out := make([]Source, 0, len(sources))
	for _, s := range sources {
		if set[s.Name().Key()] {
			out = append(out, s)
		}
	}
	return out
}
