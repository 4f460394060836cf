// ABOUTME: Test helpers for command tests
// ABOUTME: Fake administration API and an app wired over an in-memory store

package cmd

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/markalston/campus-admin/internal/config"
	"github.com/markalston/campus-admin/internal/credstore"
)

// reply is a canned response of the fake API
type reply struct {
	status int
	body   any
}

// fakeAPI serves canned replies keyed by "METHOD /path" and records calls
type fakeAPI struct {
	mu      sync.Mutex
	routes  map[string]reply
	calls   []string
	bodies  map[string]string
	authHdr map[string]string
}

func newFakeAPI(routes map[string]reply) *fakeAPI {
	return &fakeAPI{routes: routes, bodies: map[string]string{}, authHdr: map[string]string{}}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path

	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.authHdr[key] = r.Header.Get("Authorization")
	if body, err := io.ReadAll(r.Body); err == nil {
		f.bodies[key] = string(body)
	}
	rep, ok := f.routes[key]
	f.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"no route ` + key + `"}`))
		return
	}
	if rep.status == 0 {
		rep.status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rep.status)
	if rep.body != nil {
		json.NewEncoder(w).Encode(rep.body)
	}
}

func (f *fakeAPI) called(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == key {
			return true
		}
	}
	return false
}

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// testProfile is the user stored by loggedIn apps
var testProfile = credstore.UserProfile{
	Username: "admin",
	Email:    "admin@campus.test",
	Nom:      "Martin",
	Prenom:   "Alice",
	IDUser:   1,
	Roles:    []string{"ADMIN"},
}

// newTestApp wires an app to a fake API. When loggedIn is set, the store
// starts with a session for testProfile.
func newTestApp(t *testing.T, api http.Handler, loggedIn bool) *app {
	t.Helper()
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	store := credstore.New(credstore.NewMemoryBackend())
	if loggedIn {
		err := store.Save(credstore.Credentials{AccessToken: "tok-1", RefreshToken: "ref-1", Profile: testProfile})
		if err != nil {
			t.Fatalf("seed store: %v", err)
		}
	}
	cfg := &config.Config{
		APIURL:          server.URL,
		Timeout:         5 * time.Second,
		CredentialStore: config.StoreMemory,
	}
	return wire(cfg, store, nil)
}

// resetFlags restores every package-level flag after the test
func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		apiURL = ""
		jsonOutput = false
		outputFormat = formatText
		queryExpr = ""
		loginUsername = ""
		loginPasswordStdin = false
		passwdUsername = ""
	})
}

// nonInteractive returns a prompter reading input as if piped
func nonInteractive(input string) *prompter {
	return newPrompter(strings.NewReader(input), &strings.Builder{})
}

// interactive returns a prompter that believes it is on a terminal and
// answers secret prompts from secrets in order
func interactive(t *testing.T, input string, secrets ...string) *prompter {
	t.Helper()
	orig := readPasswordFunc
	t.Cleanup(func() { readPasswordFunc = orig })

	next := 0
	readPasswordFunc = func(int) ([]byte, error) {
		if next >= len(secrets) {
			t.Fatalf("unexpected secret prompt #%d", next+1)
		}
		s := secrets[next]
		next++
		return []byte(s), nil
	}

	p := nonInteractive(input)
	p.fd = 0
	p.interactive = true
	return p
}
