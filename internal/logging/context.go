package logging

import (
	"context"
	"log/slog"

	"movieetl/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType classifies a record for filtering (movie_skipped, rating_rejected, ...).
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator where to look next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for the consequence of a warning.
	FieldImpact = "impact"
	// FieldErrorKind carries services.Kind for failures.
	FieldErrorKind = "error_kind"
	// FieldRunID identifies a single pipeline invocation.
	FieldRunID = "run_id"
	// FieldPhase is the pipeline phase (movies, ratings).
	FieldPhase = "phase"
	// FieldMovieID is the source movie identifier as it appears in the CSV.
	FieldMovieID = "movie_id"
	// FieldUserID is the source user identifier.
	FieldUserID = "user_id"
	FieldTitle  = "title"
	FieldYear   = "year"
	// FieldAlert flags warnings or anomalies that should stand out in structured logs.
	FieldAlert = "alert"
)

// ContextFields extracts standardized slog attributes from the provided context.
// run_id is omitted because the run handler stamps it on every record.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if phase, ok := services.PhaseFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldPhase, phase))
	}
	if id, ok := services.MovieIDFromContext(ctx); ok {
		fields = append(fields, slog.Int64(FieldMovieID, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
