package scraper

import (
	"net/url"
	"path"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"jobmate/job-finder/internal/model"
	"jobmate/job-finder/internal/normalize"
)

const (
	karriereportalHost    = "karriereportal-stellen.berlin.de"
	karriereportalCompany = "Land Berlin"
)

var (
	kpbLikely     = regexp.MustCompile(`(?i)stellen|job|vakanz|ausschreibung|-de-j\d+|/de/jobs?/|/de/stellen`)
	kpbChrome     = regexp.MustCompile(`(?i)impressum|datenschutz|kontakt|newsletter|barrierefrei|hilfe|login|registr`)
	kpbInlineURL  = regexp.MustCompile(`(?i)https?://[^\s"'<>]*karriereportal-stellen\.berlin\.de[^\s"'<>]+`)
	kpbSlugSuffix = regexp.MustCompile(`(?i)-de-j\d+$`)
	kpbHTMLExt    = regexp.MustCompile(`(?i)\.html?$`)
	slugSeparator = regexp.MustCompile(`[-_]+`)
)

// TitleFromJobURL derives a readable title from the last path segment,
// e.g. ".../referent-haushalt-de-j123.html" gives "Referent haushalt".
func TitleFromJobURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	slug := kpbHTMLExt.ReplaceAllString(path.Base(u.Path), "")
	slug = kpbSlugSuffix.ReplaceAllString(slug, "")
	slug = strings.TrimSpace(spaces.ReplaceAllString(slugSeparator.ReplaceAllString(slug, " "), " "))
	if slug == "" || slug == "." || slug == "/" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(slug)
	return strings.ToUpper(string(r)) + slug[size:]
}

// ParseKarriereportal extracts postings of the Berlin state career portal
// from its anchors and from job URLs embedded in scripts.
func ParseKarriereportal(page *Page, _ model.Source) []model.RawListing {
	var out []model.RawListing
	seen := make(map[string]bool)
	add := func(link, title string) {
		key := strings.ToLower(strings.SplitN(link, "?", 2)[0])
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, model.RawListing{
			Source:   model.SourceKarriereportalBerlin,
			Title:    title,
			Company:  karriereportalCompany,
			Location: "Berlin",
			URL:      link,
		})
	}

	page.Doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		link := resolve(page.URL, href)
		low := strings.ToLower(link)
		if !strings.Contains(low, karriereportalHost) || !kpbLikely.MatchString(low) {
			return
		}
		text := normalize.CleanTitle(s.Text())
		if text == "" {
			text = normalize.CleanTitle(s.AttrOr("title", ""))
		}
		if utf8.RuneCountInString(text) < 6 {
			text = TitleFromJobURL(link)
		}
		if utf8.RuneCountInString(text) < 6 || kpbChrome.MatchString(text) {
			return
		}
		add(link, text)
	})

	for _, raw := range kpbInlineURL.FindAllString(string(page.Body), -1) {
		if !kpbLikely.MatchString(raw) {
			continue
		}
		title := TitleFromJobURL(raw)
		if title == "" {
			title = "Stellenangebot (Land Berlin)"
		}
		if kpbChrome.MatchString(title) {
			continue
		}
		add(raw, normalize.CleanTitle(title))
	}
	return out
}
