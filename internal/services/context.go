package services

import "context"

type contextKey string

const (
	runIDKey   contextKey = "run_id"
	phaseKey   contextKey = "phase"
	movieIDKey contextKey = "movie_id"
)

// WithRunID annotates context with the pipeline run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithPhase annotates context with the pipeline phase name (movies/ratings).
func WithPhase(ctx context.Context, phase string) context.Context {
	if phase == "" {
		return ctx
	}
	return context.WithValue(ctx, phaseKey, phase)
}

// PhaseFromContext returns the phase name if present.
func PhaseFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(phaseKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithMovieID annotates context with the movie currently being loaded.
func WithMovieID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, movieIDKey, id)
}

// MovieIDFromContext extracts the movie identifier if present.
func MovieIDFromContext(ctx context.Context) (int64, bool) {
	v := ctx.Value(movieIDKey)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	default:
		return 0, false
	}
}
