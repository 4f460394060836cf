// ABOUTME: Durable storage for the access token, refresh token and cached user profile
// ABOUTME: Store wraps a pluggable Backend and keeps the three slots consistent

package credstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

// Slot names. They are shared with every backend and must not change, or
// existing sessions stop being recognized.
const (
	SlotToken        = "token"
	SlotRefreshToken = "refreshToken"
	SlotUser         = "user"
)

// Slots lists every slot the store owns
var Slots = []string{SlotToken, SlotRefreshToken, SlotUser}

const defaultTimeout = 5 * time.Second

// UserProfile is the cached identity of the logged-in user
type UserProfile struct {
	Username string     `json:"username" yaml:"username"`
	Email    string     `json:"email" yaml:"email"`
	Nom      string     `json:"nom" yaml:"nom"`
	Prenom   string     `json:"prenom" yaml:"prenom"`
	IDUser   int64      `json:"idUser" yaml:"idUser"`
	First    FirstLogin `json:"first" yaml:"first"`
	Roles    []string   `json:"roles" yaml:"roles"`
}

// FirstLogin is the server's first-login marker. Some API versions send it as
// a string and others as a boolean; both decode to "true" or "false".
type FirstLogin string

func (f *FirstLogin) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*f = ""
	case string:
		*f = FirstLogin(x)
	case bool:
		*f = FirstLogin(strconv.FormatBool(x))
	default:
		return fmt.Errorf("first login flag: unexpected JSON %s", data)
	}
	return nil
}

// DisplayName returns "Prenom Nom", falling back to the username
func (p *UserProfile) DisplayName() string {
	switch {
	case p.Prenom != "" && p.Nom != "":
		return p.Prenom + " " + p.Nom
	case p.Nom != "":
		return p.Nom
	default:
		return p.Username
	}
}

// Credentials is everything written on a successful login
type Credentials struct {
	AccessToken  string
	RefreshToken string
	Profile      UserProfile
}

// Backend persists string slots. Get reports ok=false for a missing slot.
type Backend interface {
	Get(ctx context.Context, slot string) (value string, ok bool, err error)
	SetAll(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, slots ...string) error
}

// Store reads and writes credentials through a Backend
type Store struct {
	backend Backend
	timeout time.Duration
	log     *slog.Logger
}

// New creates a Store over the given backend
func New(backend Backend) *Store {
	return &Store{
		backend: backend,
		timeout: defaultTimeout,
		log:     slog.Default().With("component", "credstore"),
	}
}

// Save writes all three slots at once
func (s *Store) Save(c Credentials) error {
	profile, err := json.Marshal(c.Profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	ctx, cancel := s.context()
	defer cancel()

	err = s.backend.SetAll(ctx, map[string]string{
		SlotToken:        c.AccessToken,
		SlotRefreshToken: c.RefreshToken,
		SlotUser:         string(profile),
	})
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	s.log.Debug("credentials saved", "username", c.Profile.Username)
	return nil
}

// Clear removes all three slots. Clearing an empty store is a no-op.
func (s *Store) Clear() error {
	ctx, cancel := s.context()
	defer cancel()

	if err := s.backend.Delete(ctx, Slots...); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	s.log.Debug("credentials cleared")
	return nil
}

// AccessToken returns the stored bearer token
func (s *Store) AccessToken() (string, bool) {
	return s.get(SlotToken)
}

// RefreshToken returns the stored refresh token
func (s *Store) RefreshToken() (string, bool) {
	return s.get(SlotRefreshToken)
}

// Profile returns the cached user profile. A profile that cannot be
// decoded is reported as absent.
func (s *Store) Profile() (*UserProfile, bool) {
	raw, ok := s.get(SlotUser)
	if !ok {
		return nil, false
	}

	var p UserProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		s.log.Warn("stored profile is unreadable", "error", err)
		return nil, false
	}
	return &p, true
}

func (s *Store) get(slot string) (string, bool) {
	ctx, cancel := s.context()
	defer cancel()

	value, ok, err := s.backend.Get(ctx, slot)
	if err != nil {
		s.log.Warn("read credential slot", "slot", slot, "error", err)
		return "", false
	}
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

func (s *Store) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}
