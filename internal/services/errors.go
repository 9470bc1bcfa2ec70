package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEnrichmentUnavailable = errors.New("enrichment unavailable")
	ErrNotFound              = errors.New("not found")
	ErrStoreWrite            = errors.New("store write error")
	ErrMissingMovieReference = errors.New("missing movie reference")
	ErrIdentityConflict      = errors.New("identity conflict")
	ErrInvalidRow            = errors.New("invalid row")
	ErrSource                = errors.New("row source error")
	ErrSchema                = errors.New("schema error")
	ErrConfiguration         = errors.New("configuration error")
)

// Error kinds reported in logs and summaries.
const (
	KindEnrichmentUnavailable = "enrichment_unavailable"
	KindNotFound              = "not_found"
	KindStoreWrite            = "store_write"
	KindMissingMovieReference = "missing_movie_reference"
	KindIdentityConflict      = "identity_conflict"
	KindInvalidRow            = "invalid_row"
	KindSource                = "source"
	KindSchema                = "schema"
	KindConfiguration         = "configuration"
	KindUnknown               = "unknown"
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrStoreWrite
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind classifies err against the sentinel markers. Unmarked errors report
// KindUnknown.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEnrichmentUnavailable):
		return KindEnrichmentUnavailable
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrStoreWrite):
		return KindStoreWrite
	case errors.Is(err, ErrMissingMovieReference):
		return KindMissingMovieReference
	case errors.Is(err, ErrIdentityConflict):
		return KindIdentityConflict
	case errors.Is(err, ErrInvalidRow):
		return KindInvalidRow
	case errors.Is(err, ErrSource):
		return KindSource
	case errors.Is(err, ErrSchema):
		return KindSchema
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	default:
		return KindUnknown
	}
}

// IsFatal reports whether err must abort the whole run. Only an unreadable
// row source, schema provisioning and configuration problems qualify.
func IsFatal(err error) bool {
	switch Kind(err) {
	case KindSource, KindSchema, KindConfiguration:
		return true
	default:
		return false
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "etl failure"
	}
	return strings.Join(parts, ": ")
}
