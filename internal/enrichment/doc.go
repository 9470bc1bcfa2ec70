// Package enrichment wraps the OMDb lookup in a best-effort fetch that never
// fails the caller.
//
// Fetch always returns a Result. Its Status records whether metadata was
// found, missing, unreachable or switched off, and Data holds normalized
// optional fields. Only Unavailable outcomes are retried, using the configured
// retry count and constant backoff. An optional rate limiter spaces requests.
package enrichment
