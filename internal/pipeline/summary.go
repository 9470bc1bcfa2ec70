package pipeline

import (
	"fmt"
	"time"

	"movieetl/internal/enrichment"
)

// MovieCounts tallies the movie phase. Every processed row lands in exactly
// one of OK, Errors or Duplicates.
type MovieCounts struct {
	Processed  int
	OK         int
	Errors     int
	Duplicates int
}

// GenreLinkCounts tallies genre linking. OK counts links, Errors counts movies
// whose genre unit failed.
type GenreLinkCounts struct {
	OK     int
	Errors int
}

// RatingCounts tallies the rating phase. Remapped counts stored ratings whose
// movie id was redirected to a canonical movie.
type RatingCounts struct {
	Processed int
	OK        int
	Errors    int
	Remapped  int
}

// UserCounts tallies user upserts inside rating units.
type UserCounts struct {
	OK     int
	Errors int
}

// EnrichmentCounts tallies lookup outcomes for canonical movies.
type EnrichmentCounts struct {
	OK          int
	NotFound    int
	Unavailable int
	Disabled    int
}

func (c *EnrichmentCounts) record(status enrichment.Status) {
	switch status {
	case enrichment.StatusOK:
		c.OK++
	case enrichment.StatusNotFound:
		c.NotFound++
	case enrichment.StatusDisabled:
		c.Disabled++
	default:
		c.Unavailable++
	}
}

// Summary reports the outcome of a run.
type Summary struct {
	RunID      string
	StartedAt  time.Time
	Duration   time.Duration
	Movies     MovieCounts
	GenreLinks GenreLinkCounts
	Ratings    RatingCounts
	Users      UserCounts
	Enrichment EnrichmentCounts
}

// Balanced reports whether every processed row was accounted for.
func (s Summary) Balanced() bool {
	return s.Movies.Processed == s.Movies.OK+s.Movies.Errors+s.Movies.Duplicates &&
		s.Ratings.Processed == s.Ratings.OK+s.Ratings.Errors
}

// Lines renders the summary as one line per entity.
func (s Summary) Lines() []string {
	return []string{
		fmt.Sprintf("Movies processed=%d, ok=%d, errors=%d, duplicates=%d",
			s.Movies.Processed, s.Movies.OK, s.Movies.Errors, s.Movies.Duplicates),
		fmt.Sprintf("Genre links ok=%d, errors=%d", s.GenreLinks.OK, s.GenreLinks.Errors),
		fmt.Sprintf("Ratings processed=%d, ok=%d, errors=%d, remapped=%d",
			s.Ratings.Processed, s.Ratings.OK, s.Ratings.Errors, s.Ratings.Remapped),
		fmt.Sprintf("Users ok=%d, errors=%d", s.Users.OK, s.Users.Errors),
		fmt.Sprintf("Enrichment ok=%d, not_found=%d, unavailable=%d, disabled=%d",
			s.Enrichment.OK, s.Enrichment.NotFound, s.Enrichment.Unavailable, s.Enrichment.Disabled),
	}
}
