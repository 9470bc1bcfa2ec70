package preflight

import (
	"context"
	"path/filepath"

	"movieetl/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckMoviesFile(cfg.Paths.MoviesCSV),
		CheckRatingsFile(cfg.Paths.RatingsCSV),
		CheckDirectoryAccess("Database directory", filepath.Dir(cfg.Paths.Database)),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}

	if cfg.EnrichmentEnabled() {
		results = append(results, CheckOMDb(ctx, cfg))
	}

	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
