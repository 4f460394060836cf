// ABOUTME: Authentication state machine for login, password change and logout
// ABOUTME: Owns the session and keeps it in step with the credential store

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/markalston/campus-admin/internal/api"
	"github.com/markalston/campus-admin/internal/credstore"
)

// API endpoints used by the orchestrator
const (
	SignInPath         = "/auth/signIn"
	ChangePasswordPath = "/auth/changePassword"
)

// Store is the credential persistence the orchestrator writes to
type Store interface {
	Save(credstore.Credentials) error
	Clear() error
	AccessToken() (string, bool)
	RefreshToken() (string, bool)
	Profile() (*credstore.UserProfile, bool)
}

// Poster sends a JSON POST request. *api.Gateway satisfies it.
type Poster interface {
	Post(ctx context.Context, path string, body, out any) error
}

type signInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type signInResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	// Some API versions spell the refresh token field this way
	RefrechToken string `json:"refrechToken"`
	credstore.UserProfile
}

func (r signInResponse) refreshToken() string {
	if r.RefreshToken != "" {
		return r.RefreshToken
	}
	return r.RefrechToken
}

type changePasswordRequest struct {
	Username    string `json:"username"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// PasswordChange is one password change submission. ConfirmPassword is nil
// when the caller did not collect a confirmation.
type PasswordChange struct {
	Username        string
	OldPassword     string
	NewPassword     string
	ConfirmPassword *string
}

// Orchestrator owns the session. It is safe for concurrent use.
type Orchestrator struct {
	store Store
	api   Poster
	log   *slog.Logger

	mu    sync.Mutex
	state Session
	// epoch identifies the current login or password change cycle
	epoch uint64

	nextSub int
	subs    map[int]func(Session)
}

// New creates an Orchestrator and hydrates it from store without any
// network call. A token without a readable profile is discarded.
func New(store Store, poster Poster) *Orchestrator {
	o := &Orchestrator{
		store: store,
		api:   poster,
		log:   slog.Default().With("component", "session"),
		subs:  make(map[int]func(Session)),
	}
	o.hydrate()
	return o
}

func (o *Orchestrator) hydrate() {
	token, ok := o.store.AccessToken()
	if !ok {
		return
	}
	profile, ok := o.store.Profile()
	if !ok {
		o.log.Warn("stored token has no usable profile, discarding session")
		if err := o.store.Clear(); err != nil {
			o.log.Warn("clear credential store", "error", err)
		}
		return
	}
	refresh, _ := o.store.RefreshToken()
	o.state = Session{
		AccessToken:  token,
		RefreshToken: refresh,
		CurrentUser:  profile,
		State:        Authenticated,
	}
	o.log.Debug("session restored", "username", profile.Username)
}

// Snapshot returns a copy of the current session
func (o *Orchestrator) Snapshot() Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.clone()
}

// Subscribe calls fn with a snapshot after every change. The returned
// function stops the notifications.
func (o *Orchestrator) Subscribe(fn func(Session)) (cancel func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := o.nextSub
	o.nextSub++
	o.subs[id] = fn
	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.subs, id)
	}
}

// Login submits credentials. On success the session is persisted and the
// profile returned. A forced password change returns
// ErrPasswordChangeRequired; any other failure returns *LoginError.
func (o *Orchestrator) Login(ctx context.Context, username, password string) (*credstore.UserProfile, error) {
	o.mu.Lock()
	o.epoch++
	epoch := o.epoch
	o.state.State = Authenticating
	o.state.IsLoading = true
	o.state.LastError = ""
	o.state.PendingUsername = ""
	o.state.RedirectTarget = ""
	o.unlockAndNotify()

	var resp signInResponse
	err := o.api.Post(ctx, SignInPath, signInRequest{Username: username, Password: password}, &resp)

	o.mu.Lock()
	if epoch != o.epoch {
		o.mu.Unlock()
		o.log.Debug("discarding stale login response", "username", username)
		return nil, ErrStaleResponse
	}

	if err == nil {
		profile := resp.UserProfile
		creds := credstore.Credentials{
			AccessToken:  resp.Token,
			RefreshToken: resp.refreshToken(),
			Profile:      profile,
		}
		if resp.Token == "" {
			err = errors.New("login response carried no token")
		} else if saveErr := o.store.Save(creds); saveErr != nil {
			err = saveErr
		} else {
			o.state = Session{
				AccessToken:  creds.AccessToken,
				RefreshToken: creds.RefreshToken,
				CurrentUser:  &profile,
				State:        Authenticated,
			}
			o.unlockAndNotify()
			o.log.Info("logged in", "username", profile.Username)
			return &profile, nil
		}
	}

	o.dropCredentialsLocked()
	o.state.IsLoading = false

	if api.IsKind(err, api.KindPasswordChangeRequired) {
		o.state.State = PasswordChangeRequired
		o.state.PendingUsername = username
		o.unlockAndNotify()
		o.log.Info("password change required", "username", username)
		return nil, ErrPasswordChangeRequired
	}

	msg := api.MessageOr(err, MsgLoginFailed)
	o.state.State = Anonymous
	o.state.LastError = msg
	o.unlockAndNotify()
	o.log.Info("login rejected", "username", username, "error", err)
	return nil, &LoginError{Message: msg, Err: err}
}

// ChangePassword validates the submission locally and then asks the API to
// change the password. It never creates a session; callers log in again.
func (o *Orchestrator) ChangePassword(ctx context.Context, pc PasswordChange) error {
	if verr := validatePasswordChange(pc); verr != nil {
		o.mu.Lock()
		o.state.LastError = verr.Message
		o.unlockAndNotify()
		return verr
	}

	o.mu.Lock()
	o.epoch++
	epoch := o.epoch
	o.state.IsLoading = true
	o.state.LastError = ""
	o.unlockAndNotify()

	err := o.api.Post(ctx, ChangePasswordPath, changePasswordRequest{
		Username:    pc.Username,
		OldPassword: pc.OldPassword,
		NewPassword: pc.NewPassword,
	}, nil)

	o.mu.Lock()
	if epoch != o.epoch {
		o.mu.Unlock()
		return ErrStaleResponse
	}
	o.state.IsLoading = false
	if err != nil {
		msg := api.MessageOr(err, MsgPasswordChangeFailed)
		o.state.LastError = msg
		o.unlockAndNotify()
		o.log.Info("password change rejected", "username", pc.Username, "error", err)
		return &LoginError{Message: msg, Err: err}
	}
	o.unlockAndNotify()
	o.log.Info("password changed", "username", pc.Username)
	return nil
}

func validatePasswordChange(pc PasswordChange) *ValidationError {
	if pc.ConfirmPassword != nil && *pc.ConfirmPassword != pc.NewPassword {
		return &ValidationError{Message: MsgPasswordMismatch}
	}
	if utf8.RuneCountInString(pc.NewPassword) < MinPasswordLength {
		return &ValidationError{Message: MsgPasswordTooShort}
	}
	return nil
}

// Logout clears the credential store and resets the session to its initial
// anonymous state. In-flight responses are discarded when they arrive.
func (o *Orchestrator) Logout() error {
	o.mu.Lock()
	o.epoch++
	err := o.store.Clear()
	o.state = Session{}
	o.unlockAndNotify()

	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	o.log.Info("logged out")
	return nil
}

// Expire tears the session down after the API rejected it and records the
// redirect target. It is registered with the gateway's unauthorized hook.
func (o *Orchestrator) Expire(target string) {
	if err := o.store.Clear(); err != nil {
		o.log.Warn("clear credential store", "error", err)
	}

	o.mu.Lock()
	o.dropCredentialsLocked()
	if o.state.State == Authenticated {
		o.state.State = Anonymous
	}
	o.state.RedirectTarget = target
	o.unlockAndNotify()
	o.log.Info("session expired", "target", target)
}

// ClearError forgets the last failure
func (o *Orchestrator) ClearError() {
	o.mu.Lock()
	o.state.LastError = ""
	o.unlockAndNotify()
}

// dropCredentialsLocked removes any held session. Caller holds o.mu.
func (o *Orchestrator) dropCredentialsLocked() {
	if o.state.AccessToken != "" {
		if err := o.store.Clear(); err != nil {
			o.log.Warn("clear credential store", "error", err)
		}
	}
	o.state.AccessToken = ""
	o.state.RefreshToken = ""
	o.state.CurrentUser = nil
}

// unlockAndNotify releases o.mu and then calls subscribers with a snapshot
func (o *Orchestrator) unlockAndNotify() {
	snap := o.state.clone()
	subs := make([]func(Session), 0, len(o.subs))
	for _, fn := range o.subs {
		subs = append(subs, fn)
	}
	o.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}
