// Package normalize turns source-specific raw records into canonical listings.
package normalize

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

// Length limits for cleaned free-text fields, in runes.
const (
	MaxTitleLength       = 220
	MaxCompanyLength     = 200
	MaxLocationLength    = 200
	MaxDescriptionLength = 1500
)

// Ellipsis marks a truncated field.
const Ellipsis = "…"

// nonContentSelectors are removed before taking the text of a fragment.
const nonContentSelectors = "script, style, noscript, template"

// StripHTML removes tags and script/style bodies, decodes entities and
// collapses whitespace. Plain text passes through with whitespace collapsed.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return collapseSpace(s)
	}
	// Tags separate words, so "<p>a</p><p>b</p>" must not become "ab".
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(strings.ReplaceAll(s, "<", " <")))
	if err != nil {
		return collapseSpace(s)
	}
	doc.Find(nonContentSelectors).Remove()
	return collapseSpace(doc.Text())
}

// CleanText strips markup, normalises to NFC and truncates to maxRunes.
func CleanText(s string, maxRunes int) string {
	return Truncate(norm.NFC.String(StripHTML(s)), maxRunes)
}

// Truncate cuts s to at most maxRunes runes, preferring a word boundary, and
// appends Ellipsis when anything was removed. maxRunes <= 0 disables the limit.
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	limit := maxRunes - utf8.RuneCountInString(Ellipsis)
	if limit < 1 {
		limit = 1
	}
	cut := string([]rune(s)[:limit])
	if i := strings.LastIndexByte(cut, ' '); i > len(cut)/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + Ellipsis
}

var (
	cssRule       = regexp.MustCompile(`(?i)\.[a-z0-9_-]+\{[^}]*\}`)
	mediaRule     = regexp.MustCompile(`(?i)@media\s+[^{]+\{[^}]*\}`)
	scriptTails   = regexp.MustCompile(`(?i)\bvar\s+[a-zA-Z_][a-zA-Z0-9_]*\s*=.*$|\bdocument\.addEventListener\([^)]*\).*$|\bwindow\.Livewire.*$|\btrackImpression\w*.*$`)
	firstToApply  = regexp.MustCompile(`(?i)\bZu den Ersten gehören\b.*$`)
	goodCompany   = regexp.MustCompile(`(?i)\bGoodCompany\b`)
	roleAfterBrag = regexp.MustCompile(`(?i)Referent|Manager|Leitung|Projekt`)
)

// CleanTitle strips markup plus the CSS and tracking-script fragments some
// portals inject into anchor text, then truncates to MaxTitleLength.
func CleanTitle(s string) string {
	t := StripHTML(s)
	t = cssRule.ReplaceAllString(t, " ")
	t = mediaRule.ReplaceAllString(t, " ")
	t = scriptTails.ReplaceAllString(t, " ")
	t = dropBadgePrefix(t)
	t = firstToApply.ReplaceAllString(t, " ")
	return Truncate(norm.NFC.String(collapseSpace(t)), MaxTitleLength)
}

// dropBadgePrefix removes a "GoodCompany" badge and whatever follows it up
// to the first role word.
func dropBadgePrefix(t string) string {
	loc := goodCompany.FindStringIndex(t)
	if loc == nil {
		return t
	}
	rest := t[loc[1]:]
	if r := roleAfterBrag.FindStringIndex(rest); r != nil {
		return t[:loc[0]] + " " + rest[r[0]:]
	}
	return t[:loc[0]]
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
