package report

import (
	"io"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"jobmate/job-finder/internal/model"
)

const maxCellTitle = 60

// WriteTable renders the ranked list as a console table.
func WriteTable(w io.Writer, listings []model.Listing) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"#", "Score", "Title", "Company", "Location", "Source", "Age"})
	for i, l := range listings {
		t.AppendRow(table.Row{
			i + 1,
			l.Score,
			shorten(l.Title, maxCellTitle),
			shorten(orDefault(l.Company, "-"), 30),
			shorten(orDefault(l.Location, "-"), 30),
			l.Source,
			age(l.AgeDays),
		})
	}
	t.Render()
}

// WriteSummary renders per-source fetch counts and stage counters.
func WriteSummary(w io.Writer, stats model.Stats) {
	sources := table.NewWriter()
	sources.SetOutputMirror(w)
	sources.SetStyle(table.StyleLight)
	sources.AppendHeader(table.Row{"Source", "Fetched"})

	names := make([]model.Source, 0, len(stats.PerSource))
	for s := range stats.PerSource {
		names = append(names, s)
	}
	slices.Sort(names)
	for _, s := range names {
		sources.AppendRow(table.Row{s, stats.PerSource[s]})
	}
	sources.AppendFooter(table.Row{"Total", stats.Fetched})
	sources.Render()

	stages := table.NewWriter()
	stages.SetOutputMirror(w)
	stages.SetStyle(table.StyleLight)
	stages.AppendHeader(table.Row{"Stage", "Listings"})
	stages.AppendRows([]table.Row{
		{"normalized", stats.Normalized},
		{"deduped", stats.Deduped},
		{"fresh", stats.Fresh},
		{"eligible", stats.Eligible},
		{"qualified", stats.Qualified},
		{"selected", stats.Selected},
		{"backfilled", stats.Backfilled},
		{"failed sources", stats.FailedFetch},
	})
	stages.Render()
}

func shorten(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
