// Package omdb is a thin HTTP client for the OMDb title lookup endpoint.
//
// Lookup classifies failures with the services markers: transport errors,
// non-200 statuses and undecodable bodies wrap ErrEnrichmentUnavailable, and a
// well-formed "Response": "False" payload wraps ErrNotFound. Errors without a
// marker (request construction) are unexpected.
package omdb
