package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"jobmate/job-finder/internal/model"
)

const (
	adzunaBaseURL     = "https://api.adzuna.com/v1/api/jobs"
	adzunaPageSize    = 50
	adzunaMaxPages    = 3 // max 150 results per (keyword × location) pair
	adzunaMaxKeywords = 3
)

// Adzuna fetches listings from the Adzuna public API.
// If AppID or AppKey is empty, Fetch returns (nil, nil).
type Adzuna struct {
	AppID   string
	AppKey  string
	Country string // "de", "fr", "gb", …
	BaseURL string
	client  *Client
}

// NewAdzuna constructs an Adzuna source using the shared client.
func NewAdzuna(client *Client, appID, appKey, country string) *Adzuna {
	if country == "" {
		country = "de"
	}
	return &Adzuna{
		AppID:   appID,
		AppKey:  appKey,
		Country: country,
		BaseURL: adzunaBaseURL,
		client:  client,
	}
}

// Configured reports whether credentials are present.
func (a *Adzuna) Configured() bool { return a.AppID != "" && a.AppKey != "" }

func (a *Adzuna) Name() model.Source { return model.SourceAdzuna }

// adzunaResponse mirrors the top-level Adzuna JSON response.
type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
	Count   int            `json:"count"`
}

// adzunaResult mirrors a single Adzuna job listing.
type adzunaResult struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Company      adzunaName     `json:"company"`
	Location     adzunaLocation `json:"location"`
	Category     adzunaCategory `json:"category"`
	RedirectURL  string         `json:"redirect_url"`
	Created      string         `json:"created"`
	ContractTime string         `json:"contract_time"`
	ContractType string         `json:"contract_type"`
}

type adzunaName struct {
	DisplayName string `json:"display_name"`
}

type adzunaLocation struct {
	DisplayName string   `json:"display_name"`
	Area        []string `json:"area"`
}

type adzunaCategory struct {
	Label string `json:"label"`
}

// Fetch queries every required keyword (up to three) against the first
// preferred location, paging until a short page or adzunaMaxPages.
func (a *Adzuna) Fetch(ctx context.Context, p model.Profile) ([]model.RawListing, error) {
	if !a.Configured() {
		return nil, nil
	}

	keywords := p.KeywordsMust
	if len(keywords) == 0 {
		keywords = []string{""}
	}
	keywords = keywords[:min(len(keywords), adzunaMaxKeywords)]
	where := ""
	if len(p.LocationsPreferred) > 0 {
		where = p.LocationsPreferred[0]
	}

	var results []model.RawListing
	for _, what := range keywords {
		for page := 1; page <= adzunaMaxPages; page++ {
			batch, err := a.fetchPage(ctx, what, where, page)
			if err != nil {
				return results, fmt.Errorf("adzuna %q page %d: %w", what, page, err)
			}
			results = append(results, batch...)
			if len(batch) < adzunaPageSize {
				break // last page
			}
		}
	}
	return results, nil
}

func (a *Adzuna) fetchPage(ctx context.Context, what, where string, page int) ([]model.RawListing, error) {
	endpoint := fmt.Sprintf("%s/%s/search/%d", a.BaseURL, a.Country, page)

	params := url.Values{}
	params.Set("app_id", a.AppID)
	params.Set("app_key", a.AppKey)
	params.Set("results_per_page", strconv.Itoa(adzunaPageSize))
	if what != "" {
		params.Set("what", what)
	}
	if where != "" {
		params.Set("where", where)
	}
	params.Set("content-type", "application/json")
	params.Set("sort_by", "date")

	var apiResp adzunaResponse
	if err := a.client.GetJSON(ctx, endpoint+"?"+params.Encode(), &apiResp); err != nil {
		return nil, err
	}

	results := make([]model.RawListing, 0, len(apiResp.Results))
	for _, r := range apiResp.Results {
		var tags []string
		for _, t := range []string{r.Category.Label, r.ContractTime, r.ContractType} {
			if t != "" {
				tags = append(tags, t)
			}
		}
		results = append(results, model.RawListing{
			Source:      model.SourceAdzuna,
			Title:       r.Title,
			Company:     r.Company.DisplayName,
			Location:    r.Location.DisplayName,
			Remote:      remoteHint.MatchString(r.Title + " " + r.Description),
			Tags:        tags,
			Description: r.Description,
			URL:         r.RedirectURL,
			PublishedAt: r.Created,
		})
	}
	return results, nil
}
