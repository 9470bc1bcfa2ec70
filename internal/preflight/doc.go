// Package preflight provides readiness checks for the inputs, directories
// and external services a load run depends on.
//
// The CLI "movieetl check" command runs every applicable check and prints
// one status line per result. Enrichment checks are skipped when lookups are
// disabled.
package preflight
