package scraper

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"jobmate/job-finder/internal/model"
)

var remoteHint = regexp.MustCompile(`(?i)remote|home\s?office`)

// ── Arbeitnow ──────────────────────────────────────────────────────────────

const (
	arbeitnowURL      = "https://www.arbeitnow.com/api/job-board-api"
	arbeitnowMaxPages = 3
)

// Arbeitnow reads the paged Arbeitnow job board API.
type Arbeitnow struct {
	BaseURL  string
	MaxPages int
	client   *Client
}

func NewArbeitnow(client *Client) *Arbeitnow {
	return &Arbeitnow{BaseURL: arbeitnowURL, MaxPages: arbeitnowMaxPages, client: client}
}

func (a *Arbeitnow) Name() model.Source { return model.SourceArbeitnow }

type arbeitnowResponse struct {
	Data  []arbeitnowJob `json:"data"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}

type arbeitnowJob struct {
	Slug        string   `json:"slug"`
	CompanyName string   `json:"company_name"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Remote      bool     `json:"remote"`
	URL         string   `json:"url"`
	Tags        []string `json:"tags"`
	JobTypes    []string `json:"job_types"`
	Location    string   `json:"location"`
	CreatedAt   int64    `json:"created_at"`
}

// Fetch follows links.next until it is empty or MaxPages is reached.
func (a *Arbeitnow) Fetch(ctx context.Context, _ model.Profile) ([]model.RawListing, error) {
	var out []model.RawListing
	for page := 1; page <= a.MaxPages; page++ {
		var body arbeitnowResponse
		if err := a.client.GetJSON(ctx, a.BaseURL+"?page="+strconv.Itoa(page), &body); err != nil {
			return out, fmt.Errorf("arbeitnow page %d: %w", page, err)
		}
		for _, j := range body.Data {
			loc := j.Location
			if loc == "" && j.Remote {
				loc = "Remote"
			}
			published := ""
			if j.CreatedAt > 0 {
				published = strconv.FormatInt(j.CreatedAt, 10)
			}
			out = append(out, model.RawListing{
				Source:      model.SourceArbeitnow,
				Title:       j.Title,
				Company:     j.CompanyName,
				Location:    loc,
				Remote:      j.Remote,
				Tags:        append(append([]string(nil), j.Tags...), j.JobTypes...),
				Description: j.Description,
				URL:         j.URL,
				PublishedAt: published,
			})
		}
		if body.Links.Next == "" {
			break
		}
	}
	return out, nil
}

// ── Remotive ───────────────────────────────────────────────────────────────

const remotiveURL = "https://remotive.com/api/remote-jobs"

// Remotive reads the Remotive remote-jobs API. Every listing is remote.
type Remotive struct {
	BaseURL string
	client  *Client
}

func NewRemotive(client *Client) *Remotive {
	return &Remotive{BaseURL: remotiveURL, client: client}
}

func (r *Remotive) Name() model.Source { return model.SourceRemotive }

type remotiveResponse struct {
	Jobs []struct {
		URL                       string   `json:"url"`
		Title                     string   `json:"title"`
		CompanyName               string   `json:"company_name"`
		Category                  string   `json:"category"`
		Tags                      []string `json:"tags"`
		JobType                   string   `json:"job_type"`
		PublicationDate           string   `json:"publication_date"`
		CandidateRequiredLocation string   `json:"candidate_required_location"`
		Description               string   `json:"description"`
	} `json:"jobs"`
}

func (r *Remotive) Fetch(ctx context.Context, _ model.Profile) ([]model.RawListing, error) {
	var body remotiveResponse
	if err := r.client.GetJSON(ctx, r.BaseURL, &body); err != nil {
		return nil, fmt.Errorf("remotive: %w", err)
	}
	out := make([]model.RawListing, 0, len(body.Jobs))
	for _, j := range body.Jobs {
		tags := append([]string(nil), j.Tags...)
		if j.Category != "" {
			tags = append(tags, j.Category)
		}
		out = append(out, model.RawListing{
			Source:      model.SourceRemotive,
			Title:       j.Title,
			Company:     j.CompanyName,
			Location:    j.CandidateRequiredLocation,
			Remote:      true,
			Tags:        tags,
			Description: j.Description,
			URL:         j.URL,
			PublishedAt: j.PublicationDate,
		})
	}
	return out, nil
}

// ── StudySmarter ───────────────────────────────────────────────────────────

const (
	studySmarterAPI     = "https://talents.studysmarter.de/wp-json/studysmarter/v1"
	studySmarterListing = "https://talents.studysmarter.de/jobs/"
)

var remoteFlag = regexp.MustCompile(`(?i)yes|true|remote`)

// StudySmarter queries the StudySmarter talents job API for Berlin.
type StudySmarter struct {
	BaseURL string
	City    string
	client  *Client
}

func NewStudySmarter(client *Client) *StudySmarter {
	return &StudySmarter{BaseURL: studySmarterAPI, City: "Berlin", client: client}
}

func (s *StudySmarter) Name() model.Source { return model.SourceStudySmarter }

type named struct {
	Name string `json:"name"`
}

type studySmarterResponse struct {
	Data []struct {
		Title         string   `json:"title"`
		CompanyName   string   `json:"company_name"`
		Locations     []string `json:"locations"`
		JobCategories []named  `json:"job_categories"`
		JobTypes      []named  `json:"job_types"`
		JobIndustries []named  `json:"job_industries"`
		Posted        string   `json:"posted"`
		IsRemote      any      `json:"is_remote_positions"`
		Link          string   `json:"link"`
	} `json:"data"`
}

func (s *StudySmarter) Fetch(ctx context.Context, p model.Profile) ([]model.RawListing, error) {
	params := url.Values{}
	params.Set("keyword", firstMust(p, "Politik"))
	params.Set("page_number", "1")
	params.Set("city", s.City)
	params.Set("isResetClicked", "false")
	endpoint := strings.TrimRight(s.BaseURL, "/") + "/jobs/?" + params.Encode()

	var body studySmarterResponse
	if err := s.client.getJSON(ctx, endpoint, studySmarterListing, &body); err != nil {
		return nil, fmt.Errorf("studysmarter: %w", err)
	}

	out := make([]model.RawListing, 0, len(body.Data))
	for _, it := range body.Data {
		var tags []string
		for _, group := range [][]named{it.JobCategories, it.JobTypes, it.JobIndustries} {
			for _, n := range group {
				if n.Name != "" {
					tags = append(tags, n.Name)
				}
			}
		}
		company := it.CompanyName
		if company == "" {
			company = string(model.SourceStudySmarter)
		}
		out = append(out, model.RawListing{
			Source:      model.SourceStudySmarter,
			Title:       it.Title,
			Company:     company,
			Location:    strings.Join(nonEmpty(it.Locations), ", "),
			Remote:      it.IsRemote != nil && remoteFlag.MatchString(fmt.Sprint(it.IsRemote)),
			Tags:        tags,
			URL:         it.Link,
			PublishedAt: strings.Replace(strings.TrimSpace(it.Posted), " ", "T", 1),
		})
	}
	return out, nil
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
