package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteCSV writes a header line followed by rows to path, creating parent
// directories as needed.
func WriteCSV(t testing.TB, path, header string, rows ...string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	var b strings.Builder
	b.WriteString(header)
	b.WriteByte('\n')
	for _, row := range rows {
		b.WriteString(row)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// MoviesHeader and RatingsHeader match the MovieLens layout.
const (
	MoviesHeader  = "movieId,title,genres"
	RatingsHeader = "userId,movieId,rating,timestamp"
)
