// ABOUTME: In-memory fake of the administration API for resource tests
// ABOUTME: Records requests and serves fixtures through httptest

package resources

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/markalston/campus-admin/internal/api"
	"github.com/markalston/campus-admin/internal/credstore"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]any
}

type fakeAPI struct {
	mu       sync.Mutex
	requests []recordedRequest
	// responses maps "METHOD /path" to a JSON-encodable body
	responses map[string]any
	status    map[string]int
}

func newFakeAPI(t *testing.T) (*fakeAPI, *Catalog) {
	t.Helper()
	f := &fakeAPI{responses: map[string]any{}, status: map[string]int{}}
	server := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(server.Close)

	store := credstore.New(credstore.NewMemoryBackend())
	gw := api.New(server.URL, store)
	return f, NewCatalog(gw)
}

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path

	var body map[string]any
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		json.Unmarshal(data, &body)
	}

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: body})
	resp, hasResp := f.responses[key]
	status, hasStatus := f.status[key]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if hasStatus {
		w.WriteHeader(status)
	}
	if hasResp {
		json.NewEncoder(w).Encode(resp)
	}
}

func (f *fakeAPI) on(method, path string, body any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[method+" "+path] = body
}

func (f *fakeAPI) fail(method, path string, status int, body any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status[method+" "+path] = status
	if body != nil {
		f.responses[method+" "+path] = body
	}
}

func (f *fakeAPI) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func (f *fakeAPI) last(method string) (recordedRequest, bool) {
	reqs := f.recorded()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Method == method {
			return reqs[i], true
		}
	}
	return recordedRequest{}, false
}

func strPtr(s string) *string { return &s }
