package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"movieetl/internal/pipeline"
)

// renderSummary formats a run summary as a heading, a counter table and a
// status line.
func renderSummary(s pipeline.Summary, colorize bool) string {
	var b strings.Builder
	for _, line := range renderSectionHeader("Run summary", colorize) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if s.RunID != "" {
		fmt.Fprintf(&b, "Run ID:   %s\n", s.RunID)
	}
	fmt.Fprintf(&b, "Duration: %s\n", s.Duration.Round(time.Millisecond))

	headers := []string{"Entity", "Processed", "OK", "Errors", "Detail"}
	rows := [][]string{
		{"Movies", itoa(s.Movies.Processed), itoa(s.Movies.OK), itoa(s.Movies.Errors), "duplicates=" + itoa(s.Movies.Duplicates)},
		{"Genre links", "", itoa(s.GenreLinks.OK), itoa(s.GenreLinks.Errors), ""},
		{"Ratings", itoa(s.Ratings.Processed), itoa(s.Ratings.OK), itoa(s.Ratings.Errors), "remapped=" + itoa(s.Ratings.Remapped)},
		{"Users", "", itoa(s.Users.OK), itoa(s.Users.Errors), ""},
		{"Enrichment", "", itoa(s.Enrichment.OK), itoa(s.Enrichment.Unavailable),
			fmt.Sprintf("not_found=%d disabled=%d", s.Enrichment.NotFound, s.Enrichment.Disabled)},
	}
	aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignLeft}
	b.WriteString(renderTable(headers, rows, aligns))
	b.WriteByte('\n')

	status, color := "All rows accounted for", ansiGreen
	switch {
	case !s.Balanced():
		status, color = "Counters do not balance; see the run log", ansiRed
	case s.Movies.Errors+s.Ratings.Errors+s.GenreLinks.Errors > 0:
		status, color = "Completed with row errors; see the run log", ansiYellow
	}
	if colorize {
		status = color + status + ansiReset
	}
	b.WriteString(status)
	b.WriteByte('\n')
	return b.String()
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
