package source

import (
	"fmt"
	"io"
	"iter"
	"strconv"
)

// MovieRow is one line of the movies file.
type MovieRow struct {
	Line     int
	SourceID int64
	Title    string
	Genres   string
}

// MovieReader streams rows from a movies file with movieId, title and genres
// columns.
type MovieReader struct {
	table *table
}

var movieColumns = []string{"movieId", "title", "genres"}

// OpenMovies opens a movies CSV file and validates its header.
func OpenMovies(path string) (*MovieReader, error) {
	t, err := openTable(path, movieColumns)
	if err != nil {
		return nil, err
	}
	return &MovieReader{table: t}, nil
}

// NewMovieReader reads movies from r. name labels errors.
func NewMovieReader(r io.Reader, name string) (*MovieReader, error) {
	t, err := newTable(r, name, movieColumns)
	if err != nil {
		return nil, err
	}
	return &MovieReader{table: t}, nil
}

// Rows yields each movie row in file order. The sequence can be iterated once;
// later calls yield a single error.
func (r *MovieReader) Rows() iter.Seq2[MovieRow, error] {
	return func(yield func(MovieRow, error) bool) {
		if err := r.table.claim(); err != nil {
			yield(MovieRow{}, err)
			return
		}
		for {
			record, line, err := r.table.next()
			if err == io.EOF {
				return
			}
			if err != nil {
				if !yield(MovieRow{Line: line}, err) || !IsRowError(err) {
					return
				}
				continue
			}
			row, err := r.parse(record, line)
			if !yield(row, err) {
				return
			}
		}
	}
}

func (r *MovieReader) parse(record []string, line int) (MovieRow, error) {
	row := MovieRow{Line: line}
	rawID, ok := r.table.field(record, "movieId")
	if !ok {
		return row, &RowError{Line: line, Err: fmt.Errorf("expected %d columns, got %d", len(r.table.columns), len(record))}
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return row, &RowError{Line: line, Err: fmt.Errorf("movieId %q: %w", rawID, err)}
	}
	row.SourceID = id
	title, ok := r.table.rawField(record, "title")
	if !ok {
		return row, &RowError{Line: line, Err: fmt.Errorf("movie %d: missing title", id)}
	}
	row.Title = title
	row.Genres, _ = r.table.field(record, "genres")
	return row, nil
}

// Close releases the underlying file.
func (r *MovieReader) Close() error {
	return r.table.close()
}
