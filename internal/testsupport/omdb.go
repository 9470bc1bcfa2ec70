package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// OMDbServer is a fake OMDb endpoint keyed by the "t" query parameter.
type OMDbServer struct {
	*httptest.Server

	mu     sync.Mutex
	movies map[string]map[string]string
	calls  []string
}

// NewOMDbServer starts a fake OMDb server. Titles absent from movies answer
// with a well-formed not-found payload.
func NewOMDbServer(t testing.TB, movies map[string]map[string]string) *OMDbServer {
	t.Helper()

	srv := &OMDbServer{movies: movies}
	srv.Server = httptest.NewServer(http.HandlerFunc(srv.handle))
	t.Cleanup(srv.Close)
	return srv
}

func (s *OMDbServer) handle(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("t")
	s.mu.Lock()
	s.calls = append(s.calls, title)
	fields, ok := s.movies[title]
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		_ = json.NewEncoder(w).Encode(map[string]string{"Response": "False", "Error": "Movie not found!"})
		return
	}
	payload := map[string]string{"Response": "True", "Title": title}
	for k, v := range fields {
		payload[k] = v
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// Calls returns the titles requested so far.
func (s *OMDbServer) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}
