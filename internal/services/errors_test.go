package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"movieetl/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrStoreWrite, "catalog", "upsert movie", "movie_id=7", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrStoreWrite) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"catalog", "upsert movie", "movie_id=7"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutDetail(t *testing.T) {
	err := services.Wrap(services.ErrSchema, "", "", "", nil)
	if !strings.Contains(err.Error(), "etl failure") {
		t.Fatalf("expected default detail, got %q", err)
	}
}

func TestKindMapping(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{services.Wrap(services.ErrEnrichmentUnavailable, "omdb", "lookup", "status 503", nil), services.KindEnrichmentUnavailable},
		{services.Wrap(services.ErrNotFound, "omdb", "lookup", "Movie not found!", nil), services.KindNotFound},
		{services.Wrap(services.ErrStoreWrite, "catalog", "upsert rating", "", errors.New("locked")), services.KindStoreWrite},
		{services.Wrap(services.ErrMissingMovieReference, "pipeline", "rating", "", nil), services.KindMissingMovieReference},
		{services.Wrap(services.ErrInvalidRow, "pipeline", "rating", "rating is NaN", nil), services.KindInvalidRow},
		{services.Wrap(services.ErrIdentityConflict, "identity", "resolve", "", nil), services.KindIdentityConflict},
		{fmt.Errorf("outer: %w", services.Wrap(services.ErrSource, "source", "open", "", nil)), services.KindSource},
		{services.ErrSchema, services.KindSchema},
		{services.ErrConfiguration, services.KindConfiguration},
		{errors.New("plain"), services.KindUnknown},
	}
	for _, tc := range cases {
		if got := services.Kind(tc.err); got != tc.want {
			t.Fatalf("Kind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestIsFatal(t *testing.T) {
	if !services.IsFatal(services.Wrap(services.ErrSource, "source", "open", "", nil)) {
		t.Fatal("expected source errors to be fatal")
	}
	if !services.IsFatal(services.ErrSchema) {
		t.Fatal("expected schema errors to be fatal")
	}
	for _, err := range []error{services.ErrStoreWrite, services.ErrMissingMovieReference, services.ErrNotFound, services.ErrEnrichmentUnavailable, nil} {
		if services.IsFatal(err) {
			t.Fatalf("expected %v to be non-fatal", err)
		}
	}
}
