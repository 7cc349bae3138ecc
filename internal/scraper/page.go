package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"jobmate/job-finder/internal/model"
)

// Page is a fetched HTML document together with its address.
type Page struct {
	URL  *url.URL
	Body []byte
	Doc  *goquery.Document
}

// NewPage parses body as HTML fetched from rawURL.
func NewPage(rawURL string, body []byte) (*Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", rawURL, err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html %s: %w", rawURL, err)
	}
	return &Page{URL: u, Body: body, Doc: doc}, nil
}

// PageParser turns one page into raw listings for src.
type PageParser func(page *Page, src model.Source) []model.RawListing

// PageSource scrapes one or more HTML pages of a portal. Every page is
// run through each parser; the source fails only when no page could be
// fetched.
type PageSource struct {
	source  model.Source
	urls    func(p model.Profile) []string
	parsers []PageParser
	referer string
	enrich  *Enricher
	client  *Client
}

// PageOption configures a PageSource.
type PageOption func(*PageSource)

// WithParsers replaces the default JSON-LD plus anchor parsers.
func WithParsers(parsers ...PageParser) PageOption {
	return func(s *PageSource) { s.parsers = parsers }
}

// WithReferer sends a Referer header on page requests.
func WithReferer(referer string) PageOption {
	return func(s *PageSource) { s.referer = referer }
}

// WithEnricher fills blank fields from detail pages after parsing.
func WithEnricher(e *Enricher) PageOption {
	return func(s *PageSource) { s.enrich = e }
}

// WithURLs derives the page list from the profile.
func WithURLs(fn func(p model.Profile) []string) PageOption {
	return func(s *PageSource) { s.urls = fn }
}

// NewPageSource constructs a scraper for the given static page URLs.
func NewPageSource(client *Client, src model.Source, urls []string, opts ...PageOption) *PageSource {
	s := &PageSource{
		source:  src,
		urls:    func(model.Profile) []string { return urls },
		parsers: []PageParser{ParseJSONLD, ParseAnchors},
		client:  client,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PageSource) Name() model.Source { return s.source }

func (s *PageSource) Fetch(ctx context.Context, p model.Profile) ([]model.RawListing, error) {
	var (
		out  []model.RawListing
		errs []error
		ok   int
	)
	for _, rawURL := range s.urls(p) {
		body, err := s.client.GetPage(ctx, rawURL, s.referer)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		page, err := NewPage(rawURL, body)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		ok++
		for _, parse := range s.parsers {
			out = append(out, parse(page, s.source)...)
		}
	}
	if ok == 0 && len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", s.source, errors.Join(errs...))
	}
	if s.enrich != nil {
		out = s.enrich.Enrich(ctx, out)
	}
	return out, nil
}
