package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"movieetl/internal/config"
	"movieetl/internal/omdb"
	"movieetl/internal/services"
	"movieetl/internal/source"
)

// probeTitle is looked up to confirm the OMDb key is accepted.
const (
	probeTitle = "The Matrix"
	probeYear  = 1999
)

// CheckOMDb verifies that the OMDb API is reachable and the key is accepted.
// It uses the configured request timeout and a single attempt (no retries).
// A not-found answer still proves the service is reachable.
func CheckOMDb(ctx context.Context, cfg *config.Config, opts ...omdb.Option) Result {
	const name = "OMDb"

	if cfg.OMDb.APIKey == "" {
		return Result{Name: name, Detail: "API key missing"}
	}

	timeout := cfg.RequestTimeout()
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := omdb.New(cfg.OMDb.APIKey, cfg.OMDb.BaseURL, append([]omdb.Option{omdb.WithTimeout(timeout)}, opts...)...)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if _, err := client.Lookup(checkCtx, probeTitle, probeYear); err != nil && !errors.Is(err, services.ErrNotFound) {
		return Result{Name: name, Detail: summarizeLookupError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

// CheckMoviesFile verifies the movies file opens and carries the expected header.
func CheckMoviesFile(path string) Result {
	const name = "Movies file"
	if res, ok := checkReadable(name, path); !ok {
		return res
	}
	reader, err := source.OpenMovies(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	_ = reader.Close()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (header ok)", path)}
}

// CheckRatingsFile verifies the ratings file opens and carries the expected
// header. A missing timestamp column passes with a note.
func CheckRatingsFile(path string) Result {
	const name = "Ratings file"
	if res, ok := checkReadable(name, path); !ok {
		return res
	}
	reader, err := source.OpenRatings(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	defer reader.Close()
	if !reader.HasTimestamps() {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (header ok, no timestamp column)", path)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (header ok)", path)}
}

func checkReadable(name, path string) (Result, bool) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}, false
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}, false
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}, false
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}, false
	}
	return Result{}, true
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

func summarizeLookupError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "lookup timed out (OMDb unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "lookup timed out (OMDb unreachable)"
	}
	return err.Error()
}
