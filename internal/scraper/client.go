// Package scraper implements the per-source adapters that fetch raw job
// listings from public APIs, HTML pages and feeds.
package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"
)

const (
	httpTimeout  = 15 * time.Second
	maxBodyBytes = 8 << 20

	// DefaultUserAgent is sent when no agent is configured.
	DefaultUserAgent = "jobfinder/1.0 (+https://jobmate.example)"

	acceptJSON = "application/json,text/plain,*/*"
	acceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptFeed = "application/rss+xml,application/atom+xml,application/xml;q=0.9,*/*;q=0.8"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s returned %d", e.URL, e.Code)
}

// Temporary reports whether retrying the request may succeed.
func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= http.StatusInternalServerError
}

// Client is the HTTP client shared by all adapters. It keeps a cookie jar
// so session-based portals survive their redirect chains.
type Client struct {
	http      *http.Client
	userAgent string
}

// NewClient constructs a Client. A zero timeout uses the package default.
func NewClient(timeout time.Duration, userAgent string) *Client {
	if timeout <= 0 {
		timeout = httpTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	jar, _ := cookiejar.New(nil) // never fails without options
	return &Client{
		http:      &http.Client{Timeout: timeout, Jar: jar},
		userAgent: userAgent,
	}
}

// GetJSON fetches rawURL and decodes the body into dst.
func (c *Client) GetJSON(ctx context.Context, rawURL string, dst any) error {
	return c.getJSON(ctx, rawURL, "", dst)
}

func (c *Client) getJSON(ctx context.Context, rawURL, referer string, dst any) error {
	body, err := c.get(ctx, rawURL, acceptJSON, referer)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("json unmarshal %s: %w", rawURL, err)
	}
	return nil
}

// GetPage fetches an HTML page, optionally sending a Referer.
func (c *Client) GetPage(ctx context.Context, rawURL, referer string) ([]byte, error) {
	return c.get(ctx, rawURL, acceptHTML, referer)
}

// GetFeed fetches an RSS or Atom document.
func (c *Client) GetFeed(ctx context.Context, rawURL string) ([]byte, error) {
	return c.get(ctx, rawURL, acceptFeed, "")
}

func (c *Client) get(ctx context.Context, rawURL, accept, referer string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "de-DE,de;q=0.9,en;q=0.7")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: rawURL, Code: resp.StatusCode}
	}
	return body, nil
}
