package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"movieetl/internal/services"
)

// RowError reports a single malformed row. It is never fatal.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, services.ErrInvalidRow) match any row error.
func (e *RowError) Is(target error) bool { return target == services.ErrInvalidRow }

// IsRowError reports whether err describes a single malformed row.
func IsRowError(err error) bool {
	var rowErr *RowError
	return errors.As(err, &rowErr)
}

// table is a header-indexed CSV stream shared by the movie and rating readers.
type table struct {
	name     string
	reader   *csv.Reader
	closer   io.Closer
	columns  map[string]int
	consumed bool
}

func openTable(path string, required []string) (*table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrSource, "source", "open", path, err)
	}
	t, err := newTable(file, path, required)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	t.closer = file
	return t, nil
}

func newTable(r io.Reader, name string, required []string) (*table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty file")
		}
		return nil, services.Wrap(services.ErrSource, "source", "read header", name, err)
	}
	columns := make(map[string]int, len(header))
	for idx, col := range header {
		col = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		if _, dup := columns[col]; !dup {
			columns[col] = idx
		}
	}
	for _, col := range required {
		if _, ok := columns[col]; !ok {
			return nil, services.Wrap(services.ErrSource, "source", "read header", name,
				fmt.Errorf("missing required column %q", col))
		}
	}
	return &table{name: name, reader: reader, columns: columns}, nil
}

// claim marks the table consumed. Only the first caller may iterate.
func (t *table) claim() error {
	if t.consumed {
		return services.Wrap(services.ErrSource, "source", "rows", t.name, errors.New("rows already consumed"))
	}
	t.consumed = true
	return nil
}

// next returns the next record and its line number. A *RowError is returned
// for records the CSV parser rejected; io.EOF ends the stream.
func (t *table) next() ([]string, int, error) {
	record, err := t.reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, io.EOF
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, parseErr.Line, &RowError{Line: parseErr.Line, Err: parseErr.Err}
		}
		return nil, 0, services.Wrap(services.ErrSource, "source", "read", t.name, err)
	}
	line, _ := t.reader.FieldPos(0)
	return record, line, nil
}

// field returns the trimmed value of column col, or false when the record is
// too short to contain it.
func (t *table) field(record []string, col string) (string, bool) {
	value, ok := t.rawField(record, col)
	return strings.TrimSpace(value), ok
}

// rawField returns column col exactly as the CSV reader produced it.
func (t *table) rawField(record []string, col string) (string, bool) {
	idx, ok := t.columns[col]
	if !ok || idx >= len(record) {
		return "", false
	}
	return record[idx], true
}

func (t *table) has(col string) bool {
	_, ok := t.columns[col]
	return ok
}

func (t *table) close() error {
	if t.closer == nil {
		return nil
	}
	err := t.closer.Close()
	t.closer = nil
	return err
}
