package filter

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"jobmate/job-finder/internal/model"
)

// MinTitleLength is the shortest title still treated as a posting.
const MinTitleLength = 6

var (
	chromeTitle   = regexp.MustCompile(`(?i)^(passwort vergessen\??|stellensuche|stellenangebote)$`)
	bundesportal  = regexp.MustCompile(`(?i)bundesportal: erledigen sie ihre behördengänge online`)
	kpbFooterPath = regexp.MustCompile(`(?i)passwort-vergessen|impressum|datenschutz|kontakt|newsletter`)

	gesinesBrand   = []string{"gesines jobtipps", "gesinesjobtipps"}
	gesinesLanding = []string{
		"https://gesinesjobtipps.de",
		"https://gesinesjobtipps.de/jobs",
		"https://gesinesjobtipps.de/region/berlin-und-umgebung",
	}
)

// IsNoise reports whether a listing is site chrome picked up by a page
// scraper: navigation links, password resets, landing or legal pages.
func IsNoise(l model.Listing) bool {
	title := strings.TrimSpace(l.Title)
	if utf8.RuneCountInString(title) < MinTitleLength {
		return true
	}
	if chromeTitle.MatchString(title) || bundesportal.MatchString(title) {
		return true
	}

	url := strings.ToLower(strings.TrimSpace(l.URL))
	switch l.Source {
	case model.SourceGesinesJobtipps:
		if containsFold(gesinesBrand, title) {
			return true
		}
		if containsFold(gesinesLanding, strings.TrimRight(url, "/")) {
			return true
		}
	case model.SourceKarriereportalBerlin:
		return kpbFooterPath.MatchString(url)
	}
	return false
}

func containsFold(set []string, s string) bool {
	for _, v := range set {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
