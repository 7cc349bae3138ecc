package scraper

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"jobmate/job-finder/internal/model"
	"jobmate/job-finder/internal/normalize"
)

const (
	enrichConcurrency = 4
	detailTextHint    = 8000
)

// Enricher visits the detail pages of up to Max listings of one source and
// fills fields the listing page left blank.
type Enricher struct {
	Source model.Source
	Max    int
	// Match restricts enrichment to detail URLs it matches; nil allows all.
	Match  *regexp.Regexp
	client *Client
}

// NewEnricher constructs an Enricher for src.
func NewEnricher(client *Client, src model.Source, maxPages int, match *regexp.Regexp) *Enricher {
	return &Enricher{Source: src, Max: maxPages, Match: match, client: client}
}

type detailPatch struct {
	company, location, description, published string
}

// Enrich returns raws with detail data applied. Detail failures are
// ignored and leave the listing unchanged.
func (e *Enricher) Enrich(ctx context.Context, raws []model.RawListing) []model.RawListing {
	out := append([]model.RawListing(nil), raws...)

	targets := make(map[string][]int)
	var order []string
	for i, r := range out {
		if r.Source != e.Source || !strings.HasPrefix(r.URL, "http") {
			continue
		}
		if e.Match != nil && !e.Match.MatchString(r.URL) {
			continue
		}
		if _, seen := targets[r.URL]; !seen {
			if len(order) >= e.Max {
				continue
			}
			order = append(order, r.URL)
		}
		targets[r.URL] = append(targets[r.URL], i)
	}

	var mu sync.Mutex
	patches := make(map[string]detailPatch, len(order))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	for _, u := range order {
		title := out[targets[u][0]].Title
		g.Go(func() error {
			p, ok := e.detail(gctx, u, title)
			if ok {
				mu.Lock()
				patches[u] = p
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	for u, p := range patches {
		for _, i := range targets[u] {
			apply(&out[i], p, e.Source)
		}
	}
	return out
}

func (e *Enricher) detail(ctx context.Context, rawURL, title string) (detailPatch, bool) {
	body, err := e.client.GetPage(ctx, rawURL, "")
	if err != nil {
		return detailPatch{}, false
	}
	page, err := NewPage(rawURL, body)
	if err != nil {
		return detailPatch{}, false
	}

	var p detailPatch
	postings := ParseJSONLD(page, e.Source)
	if len(postings) > 0 {
		best := postings[0]
		for _, c := range postings {
			if strings.EqualFold(c.Title, title) {
				best = c
				break
			}
		}
		if !strings.EqualFold(best.Company, string(e.Source)) {
			p.company = best.Company
		}
		p.location = normalize.Location(best.Location)
		p.description = best.Description
		p.published = best.PublishedAt
	}
	if p.description == "" {
		p.description = metaDescription(page)
	}
	if p.location == "" {
		text := normalize.StripHTML(string(page.Body))
		text = string([]rune(text)[:min(len([]rune(text)), detailTextHint)])
		p.location = inferLocation(p.description, text)
	}
	return p, true
}

// apply fills blank fields of r. A company equal to the source name is a
// placeholder and may be replaced.
func apply(r *model.RawListing, p detailPatch, src model.Source) {
	if p.company != "" && (strings.TrimSpace(r.Company) == "" || strings.EqualFold(r.Company, string(src))) {
		r.Company = p.company
	}
	if p.location != "" && isBlankLocation(r.Location) {
		r.Location = p.location
	}
	if p.description != "" && strings.TrimSpace(r.Description) == "" {
		r.Description = p.description
	}
	if p.published != "" && strings.TrimSpace(r.PublishedAt) == "" {
		r.PublishedAt = p.published
	}
}

func isBlankLocation(v any) bool {
	return normalize.Location(v) == ""
}

func metaDescription(page *Page) string {
	for _, sel := range []string{`meta[name="description"]`, `meta[property="og:description"]`} {
		if d, ok := page.Doc.Find(sel).First().Attr("content"); ok && strings.TrimSpace(d) != "" {
			return strings.TrimSpace(d)
		}
	}
	return ""
}

func inferLocation(parts ...string) string {
	t := strings.ToLower(strings.Join(parts, " "))
	switch {
	case strings.Contains(t, "berlin"):
		return "Berlin"
	case strings.Contains(t, "potsdam"):
		return "Potsdam"
	}
	return ""
}
