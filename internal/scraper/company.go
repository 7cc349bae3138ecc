package scraper

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	companyInTitle = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bbei\s+(.+)$`),
		regexp.MustCompile(`\s[-|]\s(.+)$`),
		regexp.MustCompile(`\s@\s(.+)$`),
	}
	roleInCompany = regexp.MustCompile(`(?i)job|stelle|referent|manager|leitung|projekt|koordination|sachbearbeiter`)
	placeWords    = regexp.MustCompile(`(?i)\b(berlin|potsdam|deutschland|hybrid|remote)\b`)
	spaces        = regexp.MustCompile(`\s+`)

	platformNames = []string{
		"stepstone", "meinestadt", "jobware", "kimeta", "jobrapido",
		"indeed", "xing", "linkedin", "stellenanzeigen",
	}
)

// InferCompany extracts an employer from link texts such as
// "Referent (m/w/d) bei ACME" or "Referent - ACME". Candidates that look
// like part of the role, or shrink below two characters once place names
// are removed, are ignored and fallback is returned.
func InferCompany(title, fallback string) string {
	raw := strings.TrimSpace(title)
	if raw == "" {
		return fallback
	}
	for _, re := range companyInTitle {
		m := re.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		c := strings.Trim(spaces.ReplaceAllString(m[1], " "), " -|,;")
		if c == "" || roleInCompany.MatchString(c) {
			continue
		}
		c = strings.Trim(placeWords.ReplaceAllString(c, ""), " ,-/")
		c = spaces.ReplaceAllString(c, " ")
		if utf8.RuneCountInString(c) >= 2 {
			return c
		}
	}
	return fallback
}

// IsPlatformCompany reports whether name is a job board rather than an
// employer. Blank names count as platforms.
func IsPlatformCompany(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return true
	}
	for _, p := range platformNames {
		if strings.Contains(n, p) {
			return true
		}
	}
	return false
}
