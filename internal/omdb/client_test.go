package omdb_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"movieetl/internal/omdb"
	"movieetl/internal/services"
)

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := omdb.New(" ", "https://example.com"); err == nil {
		t.Fatal("expected error when api key missing")
	}
}

func TestLookupSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("apikey") != "key" || q.Get("t") != "Toy Story" || q.Get("type") != "movie" || q.Get("r") != "json" || q.Get("y") != "1995" {
			t.Errorf("unexpected query: %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Title":"Toy Story","Year":"1995","imdbID":"tt0114709","Director":"John Lasseter","Plot":"Toys.","BoxOffice":"$223,225,679","Runtime":"81 min","Response":"True"}`))
	}))
	t.Cleanup(server.Close)

	client, err := omdb.New("key", server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	movie, err := client.Lookup(context.Background(), "Toy Story", 1995)
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if movie.IMDbID != "tt0114709" || movie.Runtime != "81 min" || movie.BoxOffice != "$223,225,679" {
		t.Fatalf("unexpected movie: %#v", movie)
	}
}

func TestLookupOmitsMissingYear(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("y") {
			t.Errorf("year should be omitted: %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"Response":"True","Title":"Untitled"}`))
	}))
	t.Cleanup(server.Close)

	client, _ := omdb.New("key", server.URL)
	if _, err := client.Lookup(context.Background(), "Untitled", 0); err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
}

func TestLookupNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
	}))
	t.Cleanup(server.Close)

	client, _ := omdb.New("key", server.URL)
	_, err := client.Lookup(context.Background(), "Nope", 0)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "Movie not found!") {
		t.Fatalf("expected service message in error: %v", err)
	}
}

func TestLookupUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"unauthorized", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"Response":"False","Error":"Invalid API key!"}`))
		}},
		{"garbage body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			t.Cleanup(server.Close)

			client, _ := omdb.New("key", server.URL)
			_, err := client.Lookup(context.Background(), "Toy Story", 1995)
			if !errors.Is(err, services.ErrEnrichmentUnavailable) {
				t.Fatalf("expected ErrEnrichmentUnavailable, got %v", err)
			}
		})
	}
}

func TestLookupTimeoutIsUnavailable(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	client, _ := omdb.New("secret-key", server.URL, omdb.WithTimeout(50*time.Millisecond))
	_, err := client.Lookup(context.Background(), "Slow", 0)
	if !errors.Is(err, services.ErrEnrichmentUnavailable) {
		t.Fatalf("expected ErrEnrichmentUnavailable, got %v", err)
	}
	if strings.Contains(err.Error(), "secret-key") {
		t.Fatalf("api key leaked into error: %v", err)
	}
}

func TestLookupEmptyTitle(t *testing.T) {
	client, _ := omdb.New("key", "https://example.com")
	_, err := client.Lookup(context.Background(), "  ", 0)
	if err == nil {
		t.Fatal("expected error for empty title")
	}
	if services.Kind(err) != services.KindUnknown {
		t.Fatalf("empty title should be an unexpected error, got kind %q", services.Kind(err))
	}
}
