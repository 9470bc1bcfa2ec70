// Package config loads, normalizes, and validates movieetl configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OMDB_API_KEY. The Config type centralizes every knob a pipeline run needs:
// CSV input locations, the SQLite database path, OMDb enrichment settings
// (feature flag, timeout, retries, backoff, rate limit), and logging.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
