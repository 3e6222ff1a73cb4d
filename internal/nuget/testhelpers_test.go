package nuget

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// fakeRegistry is an in-process v3 registry for tests. Handlers are added
// per test; the service index advertises whichever capabilities the test
// registers.
type fakeRegistry struct {
	t            *testing.T
	mux          *http.ServeMux
	srv          *httptest.Server
	indexFetches atomic.Int32
}

func newFakeRegistry(t *testing.T) *fakeRegistry {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &fakeRegistry{t: t, mux: mux, srv: srv}
}

// serveIndex registers the service index document advertising the given
// resources. Paths are made absolute against the server's URL.
func (f *fakeRegistry) serveIndex(resources ...serviceResource) {
	for i := range resources {
		if len(resources[i].ID) > 0 && resources[i].ID[0] == '/' {
			resources[i].ID = f.srv.URL + resources[i].ID
		}
	}
	f.mux.HandleFunc("/v3/index.json", func(w http.ResponseWriter, r *http.Request) {
		f.indexFetches.Add(1)
		writeJSON(f.t, w, serviceIndex{Version: "3.0.0", Resources: resources})
	})
}

// serveStandardIndex advertises search, registration and package-content
// endpoints under conventional paths.
func (f *fakeRegistry) serveStandardIndex() {
	f.serveIndex(
		serviceResource{ID: "/query", Type: "SearchQueryService/3.5.0"},
		serviceResource{ID: "/registration/", Type: "RegistrationsBaseUrl/3.6.0"},
		serviceResource{ID: "/flatcontainer/", Type: "PackageBaseAddress/3.0.0"},
	)
}

func (f *fakeRegistry) handle(pattern string, h http.HandlerFunc) {
	f.mux.HandleFunc(pattern, h)
}

// source returns a Source pointing at this registry.
func (f *fakeRegistry) source(id string) Source {
	return Source{
		ID:       id,
		Name:     id,
		IndexURL: f.srv.URL + "/v3/index.json",
		Enabled:  true,
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

func newTestClient(sources ...Source) *RegistryClient {
	return NewRegistryClient(sources, Options{})
}

// searchPayload builds a single-package search response body.
func searchPayload(results ...searchResultWire) searchResponse {
	return searchResponse{TotalHits: int64(len(results)), Data: results}
}
