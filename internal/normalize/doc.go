// Package normalize converts raw CSV and OMDb field values into typed,
// optional values.
//
// Every function is pure and best-effort: malformed input degrades to
// "absent" (a false second return) and never produces an error, so enrichment
// data quality cannot block a load. Sentinel strings such as "N/A" never
// survive normalization.
package normalize
