package source

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
)

// RatingRow is one line of the ratings file. MovieID is the raw source id and
// may name a duplicate movie.
type RatingRow struct {
	Line         int
	UserID       int64
	MovieID      int64
	Value        float64
	Timestamp    int64
	HasTimestamp bool
}

// RatingReader streams rows from a ratings file with userId, movieId and
// rating columns plus an optional timestamp column.
type RatingReader struct {
	table *table
}

var ratingColumns = []string{"userId", "movieId", "rating"}

// OpenRatings opens a ratings CSV file and validates its header.
func OpenRatings(path string) (*RatingReader, error) {
	t, err := openTable(path, ratingColumns)
	if err != nil {
		return nil, err
	}
	return &RatingReader{table: t}, nil
}

// NewRatingReader reads ratings from r. name labels errors.
func NewRatingReader(r io.Reader, name string) (*RatingReader, error) {
	t, err := newTable(r, name, ratingColumns)
	if err != nil {
		return nil, err
	}
	return &RatingReader{table: t}, nil
}

// Rows yields each rating row in file order. The sequence can be iterated
// once; later calls yield a single error.
func (r *RatingReader) Rows() iter.Seq2[RatingRow, error] {
	return func(yield func(RatingRow, error) bool) {
		if err := r.table.claim(); err != nil {
			yield(RatingRow{}, err)
			return
		}
		for {
			record, line, err := r.table.next()
			if err == io.EOF {
				return
			}
			if err != nil {
				if !yield(RatingRow{Line: line}, err) || !IsRowError(err) {
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

func (r *RatingReader) parse(record []string, line int) (RatingRow, error) {
	row := RatingRow{Line: line}
	var err error
	if row.UserID, err = r.intField(record, "userId", line); err != nil {
		return row, err
	}
	if row.MovieID, err = r.intField(record, "movieId", line); err != nil {
		return row, err
	}
	rawValue, ok := r.table.field(record, "rating")
	if !ok {
		return row, &RowError{Line: line, Err: errors.New("missing rating")}
	}
	if row.Value, err = strconv.ParseFloat(rawValue, 64); err != nil {
		return row, &RowError{Line: line, Err: fmt.Errorf("rating %q: %w", rawValue, err)}
	}
	// An unusable timestamp leaves rated_at empty rather than rejecting the row.
	if rawTS, ok := r.table.field(record, "timestamp"); ok && rawTS != "" {
		if ts, err := strconv.ParseInt(rawTS, 10, 64); err == nil {
			row.Timestamp = ts
			row.HasTimestamp = true
		}
	}
	return row, nil
}

func (r *RatingReader) intField(record []string, col string, line int) (int64, error) {
	raw, ok := r.table.field(record, col)
	if !ok {
		return 0, &RowError{Line: line, Err: fmt.Errorf("missing %s", col)}
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &RowError{Line: line, Err: fmt.Errorf("%s %q: %w", col, raw, err)}
	}
	return value, nil
}

// HasTimestamps reports whether the file carries a timestamp column.
func (r *RatingReader) HasTimestamps() bool {
	return r.table.has("timestamp")
}

// Close releases the underlying file.
func (r *RatingReader) Close() error {
	return r.table.close()
}
