// Package report renders ranked listings for people and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"jobmate/job-finder/internal/model"
)

// WriteMarkdown writes the ranked list as one section per listing.
func WriteMarkdown(w io.Writer, listings []model.Listing, profilePath string, generated time.Time) error {
	var b strings.Builder
	b.WriteString("# Job finder results\n\n")
	fmt.Fprintf(&b, "Profile: `%s`\n", profilePath)
	fmt.Fprintf(&b, "Generated: %s\n\n", generated.UTC().Format(time.RFC3339))

	if len(listings) == 0 {
		b.WriteString("No matches. Consider lowering `minimumScore` or adjusting the keywords.\n")
	}
	for i, l := range listings {
		fmt.Fprintf(&b, "## %d. %s (%s)\n", i+1, l.Title, orDefault(l.Company, "unknown"))
		fmt.Fprintf(&b, "- Score: **%d**\n", l.Score)
		fmt.Fprintf(&b, "- Source: %s\n", l.Source)
		fmt.Fprintf(&b, "- Location: %s\n", orDefault(l.Location, "unknown"))
		fmt.Fprintf(&b, "- Published: %s\n", age(l.AgeDays))
		fmt.Fprintf(&b, "- Reasons: %s\n", orDefault(strings.Join(l.Reasons, " | "), "none"))
		fmt.Fprintf(&b, "- Link: %s\n\n", l.URL)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// WriteJSON writes the ranked list as an indented JSON array.
func WriteJSON(w io.Writer, listings []model.Listing) error {
	if listings == nil {
		listings = []model.Listing{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(listings); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

func age(days int) string {
	switch days {
	case model.UnknownAge:
		return "unknown"
	case 0:
		return "today"
	case 1:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
