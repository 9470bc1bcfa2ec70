package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"movieetl/internal/services"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestOpenMoviesReadsRows(t *testing.T) {
	path := writeFile(t, "movies.csv", "\ufeffmovieId,title,genres\n"+
		"1,Toy Story (1995),Adventure|Animation\n"+
		"2,\"American President, The (1995)\",Comedy|Drama|Romance\n")

	reader, err := OpenMovies(path)
	if err != nil {
		t.Fatalf("OpenMovies: %v", err)
	}
	defer reader.Close()

	var rows []MovieRow
	for row, err := range reader.Rows() {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		rows = append(rows, row)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].SourceID != 1 || rows[0].Title != "Toy Story (1995)" || rows[0].Genres != "Adventure|Animation" || rows[0].Line != 2 {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Title != "American President, The (1995)" || rows[1].Line != 3 {
		t.Errorf("quoted title not preserved: %+v", rows[1])
	}
}

func TestMovieColumnsByName(t *testing.T) {
	reader, err := NewMovieReader(strings.NewReader("genres,extra,title,movieId\nDrama,x,Heat (1995),6\n"), "movies")
	if err != nil {
		t.Fatalf("NewMovieReader: %v", err)
	}
	for row, err := range reader.Rows() {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if row.SourceID != 6 || row.Title != "Heat (1995)" || row.Genres != "Drama" {
			t.Fatalf("unexpected row: %+v", row)
		}
	}
}

func TestMovieTitleKeepsSourceWhitespace(t *testing.T) {
	reader, err := NewMovieReader(strings.NewReader("movieId,title,genres\n 7 ,\"  Heat (1995) \", Drama \n"), "movies")
	if err != nil {
		t.Fatalf("NewMovieReader: %v", err)
	}
	for row, err := range reader.Rows() {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if row.Title != "  Heat (1995) " {
			t.Errorf("title = %q, want it untrimmed", row.Title)
		}
		if row.SourceID != 7 || row.Genres != "Drama" {
			t.Errorf("id and genres should still be trimmed: %+v", row)
		}
	}
}

func TestMissingColumnIsFatal(t *testing.T) {
	_, err := NewMovieReader(strings.NewReader("movieId,title\n1,Toy Story\n"), "movies")
	if !errors.Is(err, services.ErrSource) || !services.IsFatal(err) {
		t.Fatalf("expected fatal source error, got %v", err)
	}
	if _, err := NewRatingReader(strings.NewReader(""), "ratings"); !errors.Is(err, services.ErrSource) {
		t.Fatalf("empty file should be a source error, got %v", err)
	}
	if _, err := OpenMovies(filepath.Join(t.TempDir(), "missing.csv")); !errors.Is(err, services.ErrSource) {
		t.Fatalf("missing file should be a source error, got %v", err)
	}
}

func TestMalformedMovieRowContinues(t *testing.T) {
	reader, err := NewMovieReader(strings.NewReader("movieId,title,genres\nabc,Broken,Drama\n3\n4,Fine (2001),Comedy\n"), "movies")
	if err != nil {
		t.Fatalf("NewMovieReader: %v", err)
	}
	var rowErrs []int
	var good []int64
	for row, err := range reader.Rows() {
		if err != nil {
			var rowErr *RowError
			if !errors.As(err, &rowErr) {
				t.Fatalf("expected RowError, got %v", err)
			}
			rowErrs = append(rowErrs, rowErr.Line)
			continue
		}
		good = append(good, row.SourceID)
	}
	if len(rowErrs) != 2 || rowErrs[0] != 2 || rowErrs[1] != 3 {
		t.Fatalf("row errors = %v", rowErrs)
	}
	if len(good) != 1 || good[0] != 4 {
		t.Fatalf("good rows = %v", good)
	}
}

func TestRowsIsSinglePass(t *testing.T) {
	reader, err := NewMovieReader(strings.NewReader("movieId,title,genres\n1,A,B\n"), "movies")
	if err != nil {
		t.Fatalf("NewMovieReader: %v", err)
	}
	count := 0
	for range reader.Rows() {
		count++
	}
	if count != 1 {
		t.Fatalf("first pass count = %d", count)
	}
	for _, err := range reader.Rows() {
		if !errors.Is(err, services.ErrSource) {
			t.Fatalf("second pass should fail with ErrSource, got %v", err)
		}
		count++
	}
	if count != 2 {
		t.Fatalf("second pass should yield exactly one error")
	}
}

func TestRatingRows(t *testing.T) {
	reader, err := NewRatingReader(strings.NewReader(
		"userId,movieId,rating,timestamp\n"+
			"1,1,4.0,964982703\n"+
			"1,3,4.5,\n"+
			"2,5,3,notatime\n"+
			"2,x,3,1\n"+
			"3,7,bad,1\n"), "ratings")
	if err != nil {
		t.Fatalf("NewRatingReader: %v", err)
	}
	if !reader.HasTimestamps() {
		t.Fatal("expected timestamp column")
	}

	var rows []RatingRow
	errCount := 0
	for row, err := range reader.Rows() {
		if err != nil {
			if !IsRowError(err) {
				t.Fatalf("expected row error, got %v", err)
			}
			errCount++
			continue
		}
		rows = append(rows, row)
	}
	if errCount != 2 || len(rows) != 3 {
		t.Fatalf("rows=%d errors=%d", len(rows), errCount)
	}
	if !rows[0].HasTimestamp || rows[0].Timestamp != 964982703 || rows[0].Value != 4.0 {
		t.Errorf("unexpected first rating: %+v", rows[0])
	}
	if rows[1].HasTimestamp || rows[2].HasTimestamp {
		t.Errorf("empty or invalid timestamps should be absent: %+v %+v", rows[1], rows[2])
	}
}

func TestRatingsWithoutTimestampColumn(t *testing.T) {
	reader, err := NewRatingReader(strings.NewReader("userId,movieId,rating\n9,1,5.0\n"), "ratings")
	if err != nil {
		t.Fatalf("NewRatingReader: %v", err)
	}
	if reader.HasTimestamps() {
		t.Fatal("no timestamp column expected")
	}
	for row, err := range reader.Rows() {
		if err != nil || row.UserID != 9 || row.HasTimestamp {
			t.Fatalf("unexpected row %+v err %v", row, err)
		}
	}
}

func TestRowErrorKind(t *testing.T) {
	err := error(&RowError{Line: 4, Err: errors.New("bad")})
	if services.Kind(err) != services.KindInvalidRow || services.IsFatal(err) {
		t.Fatalf("row errors should be non-fatal invalid_row, got %q", services.Kind(err))
	}
	if err.Error() != "line 4: bad" {
		t.Fatalf("Error() = %q", err.Error())
	}
}
