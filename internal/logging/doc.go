// Package logging assembles structured slog loggers and formatting helpers used
// across the ETL.
//
// It owns the console/JSON handlers, stamps every record with the run_id of
// the current invocation, and tees a JSON copy into the per-run log file. The
// context helpers tag lines with the pipeline phase and source movie id; the
// WarnWithContext/ErrorWithContext helpers enforce event_type and error_hint
// on every skipped row so failures can be filtered after the fact.
package logging
