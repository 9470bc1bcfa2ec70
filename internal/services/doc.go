// Package services defines shared utilities consumed by the ETL components.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, phase names, and the movie
//     being loaded so log lines can be correlated across a run.
//   - Structured error markers plus the Wrap helper that classify failures
//     into the pipeline's error taxonomy (enrichment unavailable, not found,
//     store write, missing movie reference) and separate the few fatal kinds
//     (row source, schema, configuration) from per-row failures.
//
// Use these helpers when wiring new loader logic so error accounting and
// observability stay uniform across the pipeline.
package services
