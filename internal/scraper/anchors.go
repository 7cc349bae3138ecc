package scraper

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"jobmate/job-finder/internal/model"
	"jobmate/job-finder/internal/normalize"
)

const minAnchorText = 8

var anchorRole = regexp.MustCompile(`(?i)job|stelle|stellen|referent|manager|leitung|berater|project|projekt|koordination|sachbearbeiter`)

// ParseAnchors treats links whose text or target carries a role signal
// as listings. Repeats of the same url and text are dropped.
func ParseAnchors(page *Page, src model.Source) []model.RawListing {
	var out []model.RawListing
	seen := make(map[string]bool)
	page.Doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		text := normalize.CleanTitle(s.Text())
		if utf8.RuneCountInString(text) < minAnchorText {
			return
		}
		if !anchorRole.MatchString(text + " " + href) {
			return
		}
		link := resolve(page.URL, href)
		if link == "" {
			return
		}
		key := strings.ToLower(link) + "|" + strings.ToLower(text)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, model.RawListing{
			Source:  src,
			Title:   text,
			Company: InferCompany(text, string(src)),
			Remote:  remoteHint.MatchString(text),
			URL:     link,
		})
	})
	return out
}
