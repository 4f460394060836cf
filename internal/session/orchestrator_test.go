package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/markalston/campus-admin/internal/api"
	"github.com/markalston/campus-admin/internal/credstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockPoster is a function-field mock of the gateway
type mockPoster struct {
	calls    atomic.Int32
	PostFunc func(ctx context.Context, path string, body, out any) error
}

func (m *mockPoster) Post(ctx context.Context, path string, body, out any) error {
	m.calls.Add(1)
	if m.PostFunc != nil {
		return m.PostFunc(ctx, path, body, out)
	}
	return nil
}

func newTestStore() *credstore.Store {
	return credstore.New(credstore.NewMemoryBackend())
}

// signInServer answers /auth/signIn with status and body
func signInServer(t *testing.T, status int, body any) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if body != nil {
			json.NewEncoder(w).Encode(body)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func successBody() map[string]any {
	return map[string]any{
		"token":        "access-1",
		"refrechToken": "refresh-1",
		"username":     "alice",
		"email":        "alice@school.test",
		"nom":          "Martin",
		"prenom":       "Alice",
		"idUser":       42,
		"first":        "false",
		"roles":        []string{"ADMIN", "SCOLARITE"},
	}
}

func TestLogin_Success(t *testing.T) {
	server := signInServer(t, http.StatusOK, successBody())
	store := newTestStore()
	o := New(store, api.New(server.URL, store))

	profile, err := o.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)

	snap := o.Snapshot()
	assert.True(t, snap.IsAuthenticated())
	assert.Equal(t, Authenticated, snap.State)
	assert.False(t, snap.IsLoading)
	assert.Empty(t, snap.LastError)
	require.NotNil(t, snap.CurrentUser)
	assert.Equal(t, int64(42), snap.CurrentUser.IDUser)
	assert.Equal(t, []string{"ADMIN", "SCOLARITE"}, snap.CurrentUser.Roles)

	// Store holds the same values as memory
	token, ok := store.AccessToken()
	require.True(t, ok)
	assert.Equal(t, snap.AccessToken, token)
	refresh, ok := store.RefreshToken()
	require.True(t, ok)
	assert.Equal(t, "refresh-1", refresh)
	assert.Equal(t, snap.RefreshToken, refresh)
	stored, ok := store.Profile()
	require.True(t, ok)
	assert.Equal(t, *snap.CurrentUser, *stored)
}

func TestLogin_AcceptsRefreshTokenSpelling(t *testing.T) {
	body := successBody()
	delete(body, "refrechToken")
	body["refreshToken"] = "refresh-2"
	server := signInServer(t, http.StatusOK, body)
	store := newTestStore()
	o := New(store, api.New(server.URL, store))

	_, err := o.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "refresh-2", o.Snapshot().RefreshToken)
}

func TestLogin_BooleanFirstLoginFlag(t *testing.T) {
	body := successBody()
	body["first"] = true
	server := signInServer(t, http.StatusOK, body)
	store := newTestStore()
	o := New(store, api.New(server.URL, store))

	profile, err := o.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, credstore.FirstLogin("true"), profile.First)
	assert.True(t, o.Snapshot().IsAuthenticated())
}

func TestLogin_InvalidCredentials(t *testing.T) {
	server := signInServer(t, http.StatusBadRequest, map[string]string{"message": "Invalid credentials"})
	store := newTestStore()
	o := New(store, api.New(server.URL, store))

	_, err := o.Login(context.Background(), "alice", "wrong")

	var loginErr *LoginError
	require.ErrorAs(t, err, &loginErr)
	assert.Equal(t, "Invalid credentials", loginErr.Error())

	snap := o.Snapshot()
	assert.False(t, snap.IsAuthenticated())
	assert.Equal(t, Anonymous, snap.State)
	assert.Equal(t, "Invalid credentials", snap.LastError)
	assert.False(t, snap.IsLoading)

	_, ok := store.AccessToken()
	assert.False(t, ok, "store stays empty after rejection")
}

func TestLogin_GenericFailureMessage(t *testing.T) {
	server := signInServer(t, http.StatusInternalServerError, nil)
	store := newTestStore()
	o := New(store, api.New(server.URL, store))

	_, err := o.Login(context.Background(), "alice", "secret")
	require.Error(t, err)
	assert.Equal(t, MsgLoginFailed, err.Error())
	assert.Equal(t, MsgLoginFailed, o.Snapshot().LastError)
}

func TestLogin_TransportFailure(t *testing.T) {
	store := newTestStore()
	o := New(store, api.New("http://127.0.0.1:1", store))

	_, err := o.Login(context.Background(), "alice", "secret")
	require.Error(t, err)
	assert.True(t, api.IsKind(err, api.KindTransport), "cause stays reachable through the error chain")
	assert.Equal(t, MsgLoginFailed, o.Snapshot().LastError)
}

func TestLogin_PasswordChangeRequired(t *testing.T) {
	server := signInServer(t, api.StatusPasswordChangeRequired, nil)
	store := newTestStore()
	o := New(store, api.New(server.URL, store))

	_, err := o.Login(context.Background(), "bob", "temp123")

	require.ErrorIs(t, err, ErrPasswordChangeRequired)
	assert.Equal(t, "PASSWORD_CHANGE_REQUIRED", err.Error())

	snap := o.Snapshot()
	assert.False(t, snap.IsAuthenticated())
	assert.Equal(t, PasswordChangeRequired, snap.State)
	assert.Equal(t, "bob", snap.PendingUsername)
	assert.Empty(t, snap.LastError)
	assert.Nil(t, snap.CurrentUser)

	_, ok := store.AccessToken()
	assert.False(t, ok, "no session is created")
}

func TestLogin_MissingTokenIsFailure(t *testing.T) {
	body := successBody()
	delete(body, "token")
	server := signInServer(t, http.StatusOK, body)
	store := newTestStore()
	o := New(store, api.New(server.URL, store))

	_, err := o.Login(context.Background(), "alice", "secret")
	require.Error(t, err)
	assert.False(t, o.Snapshot().IsAuthenticated())
}

func TestLogin_ClearsPreviousError(t *testing.T) {
	var states []Session
	poster := &mockPoster{PostFunc: func(ctx context.Context, path string, body, out any) error {
		return &api.Error{Kind: api.KindStatus, Status: 400}
	}}
	o := New(newTestStore(), poster)
	_, _ = o.Login(context.Background(), "alice", "wrong")
	require.NotEmpty(t, o.Snapshot().LastError)

	o.Subscribe(func(s Session) { states = append(states, s) })
	_, _ = o.Login(context.Background(), "alice", "wrong again")

	require.NotEmpty(t, states)
	assert.Equal(t, Authenticating, states[0].State)
	assert.True(t, states[0].IsLoading)
	assert.Empty(t, states[0].LastError)
}

func TestLogin_StaleResponseAfterLogout(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	poster := &mockPoster{PostFunc: func(ctx context.Context, path string, body, out any) error {
		close(started)
		<-release
		resp := out.(*signInResponse)
		resp.Token = "late-token"
		resp.Username = "alice"
		return nil
	}}
	store := newTestStore()
	o := New(store, poster)

	errCh := make(chan error, 1)
	go func() {
		_, err := o.Login(context.Background(), "alice", "secret")
		errCh <- err
	}()

	<-started
	require.NoError(t, o.Logout())
	close(release)

	assert.ErrorIs(t, <-errCh, ErrStaleResponse)
	assert.Equal(t, Session{}, o.Snapshot())
	_, ok := store.AccessToken()
	assert.False(t, ok)
}

// hookStore runs onClear before clearing the wrapped store
type hookStore struct {
	*credstore.Store
	onClear func()
}

func (h *hookStore) Clear() error {
	if h.onClear != nil {
		h.onClear()
	}
	return h.Store.Clear()
}

func TestLogout_LoginResolvingDuringClearIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	answered := make(chan struct{})
	poster := &mockPoster{PostFunc: func(ctx context.Context, path string, body, out any) error {
		close(started)
		<-release
		resp := out.(*signInResponse)
		resp.Token = "access-1"
		resp.Username = "alice"
		close(answered)
		return nil
	}}
	store := &hookStore{Store: newTestStore()}
	o := New(store, poster)

	errCh := make(chan error, 1)
	go func() {
		_, err := o.Login(context.Background(), "alice", "secret")
		errCh <- err
	}()
	<-started

	store.onClear = func() {
		close(release)
		<-answered
	}
	require.NoError(t, o.Logout())

	assert.ErrorIs(t, <-errCh, ErrStaleResponse)
	assert.Equal(t, Session{}, o.Snapshot())
	_, ok := store.AccessToken()
	assert.False(t, ok, "late login must not repopulate the store")

	store.onClear = nil
	assert.Equal(t, Anonymous, New(store, &mockPoster{}).Snapshot().State)
}

func TestChangePassword_MismatchNeverCallsNetwork(t *testing.T) {
	poster := &mockPoster{}
	o := New(newTestStore(), poster)
	confirm := "different1"

	err := o.ChangePassword(context.Background(), PasswordChange{
		Username: "bob", OldPassword: "temp123", NewPassword: "newpass1", ConfirmPassword: &confirm,
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "New passwords do not match", verr.Error())
	assert.Zero(t, poster.calls.Load())
}

func TestChangePassword_TooShortNeverCallsNetwork(t *testing.T) {
	poster := &mockPoster{}
	o := New(newTestStore(), poster)

	err := o.ChangePassword(context.Background(), PasswordChange{
		Username: "bob", OldPassword: "temp123", NewPassword: "abc",
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, MsgPasswordTooShort, verr.Error())
	assert.Zero(t, poster.calls.Load())
}

func TestChangePassword_NoConfirmationCollected(t *testing.T) {
	var sent changePasswordRequest
	poster := &mockPoster{PostFunc: func(ctx context.Context, path string, body, out any) error {
		assert.Equal(t, ChangePasswordPath, path)
		sent = body.(changePasswordRequest)
		return nil
	}}
	o := New(newTestStore(), poster)

	err := o.ChangePassword(context.Background(), PasswordChange{
		Username: "bob", OldPassword: "temp123", NewPassword: "newpass1",
	})
	require.NoError(t, err)
	assert.Equal(t, changePasswordRequest{Username: "bob", OldPassword: "temp123", NewPassword: "newpass1"}, sent)
}

func TestChangePassword_ServerRejection(t *testing.T) {
	poster := &mockPoster{PostFunc: func(ctx context.Context, path string, body, out any) error {
		return &api.Error{Kind: api.KindStatus, Status: 400, Body: []byte(`{"message":"Old password is wrong"}`)}
	}}
	o := New(newTestStore(), poster)
	confirm := "newpass1"

	err := o.ChangePassword(context.Background(), PasswordChange{
		Username: "bob", OldPassword: "nope", NewPassword: "newpass1", ConfirmPassword: &confirm,
	})

	var loginErr *LoginError
	require.ErrorAs(t, err, &loginErr)
	assert.Equal(t, "Old password is wrong", o.Snapshot().LastError)
	assert.False(t, o.Snapshot().IsLoading)
}

func TestChangePassword_FallbackMessage(t *testing.T) {
	poster := &mockPoster{PostFunc: func(ctx context.Context, path string, body, out any) error {
		return &api.Error{Kind: api.KindStatus, Status: 500}
	}}
	o := New(newTestStore(), poster)

	err := o.ChangePassword(context.Background(), PasswordChange{Username: "bob", OldPassword: "x", NewPassword: "newpass1"})
	require.Error(t, err)
	assert.Equal(t, MsgPasswordChangeFailed, err.Error())
}

func TestChangePassword_DoesNotTouchSession(t *testing.T) {
	server := signInServer(t, api.StatusPasswordChangeRequired, nil)
	store := newTestStore()
	gw := api.New(server.URL, store)
	o := New(store, gw)
	_, _ = o.Login(context.Background(), "bob", "temp123")

	o.api = &mockPoster{}
	require.NoError(t, o.ChangePassword(context.Background(), PasswordChange{Username: "bob", OldPassword: "temp123", NewPassword: "newpass1"}))

	snap := o.Snapshot()
	assert.Equal(t, PasswordChangeRequired, snap.State)
	assert.Equal(t, "bob", snap.PendingUsername)
	assert.False(t, snap.IsAuthenticated())
}

func TestLogout_ResetsToInitialState(t *testing.T) {
	server := signInServer(t, http.StatusOK, successBody())
	store := newTestStore()
	o := New(store, api.New(server.URL, store))
	_, err := o.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)

	require.NoError(t, o.Logout())

	assert.Equal(t, Session{}, o.Snapshot())
	_, ok := store.AccessToken()
	assert.False(t, ok)
	_, ok = store.Profile()
	assert.False(t, ok)
	_, ok = store.RefreshToken()
	assert.False(t, ok)
}

func TestLogout_ClearsResidualError(t *testing.T) {
	poster := &mockPoster{PostFunc: func(ctx context.Context, path string, body, out any) error {
		return errors.New("boom")
	}}
	o := New(newTestStore(), poster)
	_, _ = o.Login(context.Background(), "alice", "x")

	require.NoError(t, o.Logout())
	assert.Equal(t, Session{}, o.Snapshot())
}

func TestClearError(t *testing.T) {
	poster := &mockPoster{PostFunc: func(ctx context.Context, path string, body, out any) error {
		return errors.New("boom")
	}}
	o := New(newTestStore(), poster)
	_, _ = o.Login(context.Background(), "alice", "x")
	before := o.Snapshot()

	o.ClearError()

	after := o.Snapshot()
	assert.Empty(t, after.LastError)
	before.LastError = ""
	assert.Equal(t, before, after, "only LastError changes")
}

func TestHydrate_FromStore(t *testing.T) {
	store := newTestStore()
	require.NoError(t, store.Save(credstore.Credentials{
		AccessToken:  "persisted",
		RefreshToken: "r",
		Profile:      credstore.UserProfile{Username: "alice"},
	}))

	poster := &mockPoster{}
	o := New(store, poster)

	snap := o.Snapshot()
	assert.Equal(t, Authenticated, snap.State)
	assert.Equal(t, "persisted", snap.AccessToken)
	assert.Equal(t, "alice", snap.CurrentUser.Username)
	assert.Zero(t, poster.calls.Load(), "hydration makes no network call")
}

func TestHydrate_EmptyStore(t *testing.T) {
	o := New(newTestStore(), &mockPoster{})
	assert.Equal(t, Session{}, o.Snapshot())
}

func TestHydrate_TokenWithoutProfile(t *testing.T) {
	backend := credstore.NewMemoryBackend()
	backend.Set(credstore.SlotToken, "orphan")
	backend.Set(credstore.SlotUser, "{broken")
	store := credstore.New(backend)

	o := New(store, &mockPoster{})

	assert.Equal(t, Anonymous, o.Snapshot().State)
	_, ok := store.AccessToken()
	assert.False(t, ok, "orphan token is cleared")
}

func TestExpire_OnGateway401(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == SignInPath {
			json.NewEncoder(w).Encode(successBody())
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	store := newTestStore()
	gw := api.New(server.URL, store)
	o := New(store, gw)
	gw.OnUnauthorized(o.Expire)

	_, err := o.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	guard := NewGuard(o)
	require.True(t, guard.IsAllowed())

	err = gw.Get(context.Background(), "/users", nil)
	assert.True(t, api.IsKind(err, api.KindUnauthorized))

	snap := o.Snapshot()
	assert.False(t, snap.IsAuthenticated())
	assert.Equal(t, Anonymous, snap.State)
	assert.Equal(t, "/login", snap.RedirectTarget)
	assert.False(t, guard.IsAllowed())
	_, ok := store.AccessToken()
	assert.False(t, ok)
}

func TestExpire_DuringLoginKeepsLoginError(t *testing.T) {
	server := signInServer(t, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
	store := newTestStore()
	gw := api.New(server.URL, store)
	o := New(store, gw)
	gw.OnUnauthorized(o.Expire)

	_, err := o.Login(context.Background(), "alice", "wrong")

	var loginErr *LoginError
	require.ErrorAs(t, err, &loginErr)
	assert.Equal(t, "Bad credentials", o.Snapshot().LastError)
	assert.Equal(t, Anonymous, o.Snapshot().State)
}

func TestSubscribe_Cancel(t *testing.T) {
	o := New(newTestStore(), &mockPoster{})
	count := 0
	cancel := o.Subscribe(func(Session) { count++ })

	o.ClearError()
	cancel()
	o.ClearError()

	assert.Equal(t, 1, count)
}

func TestSnapshot_IsACopy(t *testing.T) {
	server := signInServer(t, http.StatusOK, successBody())
	store := newTestStore()
	o := New(store, api.New(server.URL, store))
	_, err := o.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)

	snap := o.Snapshot()
	snap.CurrentUser.Roles[0] = "HACKED"

	assert.Equal(t, "ADMIN", o.Snapshot().CurrentUser.Roles[0])
}
