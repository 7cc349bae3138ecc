package scraper

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobmate/job-finder/internal/model"
)

// ParseJSONLD extracts schema.org JobPosting nodes from the page's
// ld+json blocks. Malformed blocks are skipped.
func ParseJSONLD(page *Page, src model.Source) []model.RawListing {
	var out []model.RawListing
	page.Doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}
		var parsed any
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			return
		}
		for _, n := range jsonLDNodes(parsed) {
			if l, ok := jobPosting(n, page.URL, src); ok {
				out = append(out, l)
			}
		}
	})
	return out
}

func jsonLDNodes(v any) []map[string]any {
	var nodes []any
	switch t := v.(type) {
	case []any:
		nodes = t
	case map[string]any:
		if g, ok := t["@graph"].([]any); ok {
			nodes = g
		} else {
			nodes = []any{t}
		}
	}
	out := make([]map[string]any, 0, len(nodes))
	for _, n := range nodes {
		if m, ok := n.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func isJobPosting(n map[string]any) bool {
	switch t := n["@type"].(type) {
	case string:
		return t == "JobPosting"
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok && s == "JobPosting" {
				return true
			}
		}
	}
	return false
}

func jobPosting(n map[string]any, base *url.URL, src model.Source) (model.RawListing, bool) {
	if !isJobPosting(n) {
		return model.RawListing{}, false
	}
	title := str(n["title"])
	href := str(n["url"])
	if href == "" {
		href = str(n["directApply"])
	}
	link := resolve(base, href)
	if title == "" || link == "" {
		return model.RawListing{}, false
	}

	company := string(src)
	switch org := n["hiringOrganization"].(type) {
	case map[string]any:
		if name := str(org["name"]); name != "" {
			company = name
		}
	case string:
		if org != "" {
			company = org
		}
	}
	if src == model.SourceStepStone && IsPlatformCompany(company) {
		company = InferCompany(title, company)
	}

	loc := n["jobLocation"]
	if loc == nil {
		loc = n["applicantLocationRequirements"]
	}

	blob, _ := json.Marshal(n)
	return model.RawListing{
		Source:      src,
		Title:       title,
		Company:     company,
		Location:    loc,
		Remote:      remoteHint.Match(blob) || str(n["jobLocationType"]) == "TELECOMMUTE",
		Description: str(n["description"]),
		URL:         link,
		PublishedAt: str(n["datePosted"]),
	}, true
}

// str returns v when it is a string, otherwise "".
func str(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// resolve makes href absolute against base. Unusable links yield "".
func resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	switch strings.ToLower(ref.Scheme) {
	case "", "http", "https":
	default:
		return "" // mailto:, javascript:, tel:
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	return ref.String()
}
