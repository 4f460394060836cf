// ABOUTME: Session snapshot and authentication states
// ABOUTME: Read-only view of the orchestrator handed to UI layers

package session

import "github.com/markalston/campus-admin/internal/credstore"

// State is a node of the authentication state machine
type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
	PasswordChangeRequired
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case PasswordChangeRequired:
		return "password_change_required"
	default:
		return "unknown"
	}
}

// Session is a copy of the orchestrator state at one point in time
type Session struct {
	AccessToken     string
	RefreshToken    string
	CurrentUser     *credstore.UserProfile
	State           State
	IsLoading       bool
	LastError       string
	PendingUsername string
	// RedirectTarget is set when the API rejected the session
	RedirectTarget string
}

// IsAuthenticated reports whether an access token is held
func (s Session) IsAuthenticated() bool {
	return s.AccessToken != ""
}

func (s Session) clone() Session {
	if s.CurrentUser != nil {
		u := *s.CurrentUser
		u.Roles = append([]string(nil), s.CurrentUser.Roles...)
		s.CurrentUser = &u
	}
	return s
}
