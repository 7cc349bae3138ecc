package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"jobmate/job-finder/internal/model"
)

// httpPrefix is the scheme prefix used to decide whether a GUID is a URL.
const httpPrefix = "http"

// Feed reads RSS or Atom job feeds listed in the profile's feedUrls.
type Feed struct {
	client *Client
}

func NewFeed(client *Client) *Feed { return &Feed{client: client} }

func (f *Feed) Name() model.Source { return model.SourceRSSFeed }

func (f *Feed) Fetch(ctx context.Context, p model.Profile) ([]model.RawListing, error) {
	var (
		out  []model.RawListing
		errs []error
	)
	for _, u := range p.FeedURLs {
		items, err := f.fetchOne(ctx, u)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, items...)
	}
	if len(out) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

func (f *Feed) fetchOne(ctx context.Context, feedURL string) ([]model.RawListing, error) {
	body, err := f.client.GetFeed(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	return ParseFeed(body)
}

// ParseFeed converts feed entries into raw listings. Entries without a
// usable link are skipped.
func ParseFeed(body []byte) ([]model.RawListing, error) {
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	out := make([]model.RawListing, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		link := itemLink(item)
		if link == "" {
			continue
		}
		desc := item.Description
		if desc == "" {
			desc = item.Content
		}
		company := parsed.Title
		if len(item.Authors) > 0 && item.Authors[0] != nil && item.Authors[0].Name != "" {
			company = item.Authors[0].Name
		}
		out = append(out, model.RawListing{
			Source:      model.SourceRSSFeed,
			Title:       item.Title,
			Company:     company,
			Remote:      remoteHint.MatchString(item.Title + " " + desc),
			Tags:        item.Categories,
			Description: desc,
			URL:         link,
			PublishedAt: itemPublished(item),
		})
	}
	return out, nil
}

func itemLink(item *gofeed.Item) string {
	if item.Link != "" {
		return item.Link
	}
	if strings.HasPrefix(item.GUID, httpPrefix) {
		return item.GUID
	}
	return ""
}

func itemPublished(item *gofeed.Item) string {
	switch {
	case item.PublishedParsed != nil:
		return item.PublishedParsed.UTC().Format(time.RFC3339)
	case item.UpdatedParsed != nil:
		return item.UpdatedParsed.UTC().Format(time.RFC3339)
	}
	return item.Published
}
