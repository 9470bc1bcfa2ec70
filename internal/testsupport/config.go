package testsupport

import (
	"path/filepath"
	"testing"

	"movieetl/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp paths per test.
// Enrichment is disabled unless WithOMDb is applied.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.Database = filepath.Join(base, "data", "movies.db")
	cfgVal.Paths.MoviesCSV = filepath.Join(base, "movies.csv")
	cfgVal.Paths.RatingsCSV = filepath.Join(base, "ratings.csv")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.OMDb.Enabled = false
	cfgVal.OMDb.APIKey = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithOMDb enables enrichment against baseURL with the given key.
func WithOMDb(baseURL, apiKey string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.OMDb.Enabled = true
		b.cfg.OMDb.BaseURL = baseURL
		b.cfg.OMDb.APIKey = apiKey
	}
}

// WithRetries sets the enrichment retry budget.
func WithRetries(maxRetries int, backoffSeconds float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.OMDb.MaxRetries = maxRetries
		b.cfg.OMDb.BackoffSeconds = backoffSeconds
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.MoviesCSV)
}
