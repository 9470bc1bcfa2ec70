package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateOMDb(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.Database) == "" {
		return errors.New("paths.database must be set")
	}
	return nil
}

func (c *Config) validateOMDb() error {
	if c.OMDb.Enabled && c.OMDb.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("omdb.api_key is required when omdb.enabled is true. Set OMDB_API_KEY env var, edit %s (create with 'movieetl config init'), or run with --no-enrichment", defaultPath)
	}
	if c.OMDb.RequestTimeout <= 0 {
		return errors.New("omdb.request_timeout must be positive (seconds)")
	}
	if c.OMDb.MaxRetries < 0 {
		return errors.New("omdb.max_retries must be >= 0")
	}
	if c.OMDb.BackoffSeconds < 0 {
		return errors.New("omdb.backoff_seconds must be >= 0")
	}
	if c.OMDb.RequestsPerSecond < 0 {
		return errors.New("omdb.requests_per_second must be >= 0")
	}
	return nil
}
