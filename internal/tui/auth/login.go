// ABOUTME: Login screen as a bubbletea model built on a huh form
// ABOUTME: Collects username and password and shows notices and errors

package auth

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/markalston/campus-admin/internal/tui/icons"
	"github.com/markalston/campus-admin/internal/tui/styles"
)

// LoginSubmitMsg is sent when the login form is completed
type LoginSubmitMsg struct {
	Username string
	Password string
}

// Login collects credentials
type Login struct {
	username string
	password string
	notice   string
	err      string
	busy     bool
	form     *huh.Form
}

// NewLogin creates a login form, prefilled with username when known
func NewLogin(username string) *Login {
	l := &Login{username: username}
	l.form = l.createForm()
	return l
}

func (l *Login) createForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&l.username).
				Validate(required("username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&l.password).
				Validate(required("password")),
		).Title(icons.Lock.String() + " Sign in"),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

// SetNotice shows an informational message above the form
func (l *Login) SetNotice(msg string) {
	l.notice = msg
}

// SetError shows an error and makes the form usable again
func (l *Login) SetError(msg string) tea.Cmd {
	l.err = msg
	return l.reset()
}

// Username returns the entered username
func (l *Login) Username() string {
	return l.username
}

func (l *Login) reset() tea.Cmd {
	l.busy = false
	l.password = ""
	l.form = l.createForm()
	return l.form.Init()
}

// Init implements tea.Model
func (l *Login) Init() tea.Cmd {
	return l.form.Init()
}

// Update implements tea.Model
func (l *Login) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if l.busy {
		return l, nil
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}
	if l.form.State == huh.StateCompleted {
		l.busy = true
		l.err = ""
		l.notice = ""
		submit := LoginSubmitMsg{Username: strings.TrimSpace(l.username), Password: l.password}
		return l, func() tea.Msg { return submit }
	}
	return l, cmd
}

// View implements tea.Model
func (l *Login) View() string {
	return frame(l.notice, l.err, l.busy, "Signing in...", l.form.View())
}

// required rejects blank input
func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errBlank(name)
		}
		return nil
	}
}

type errBlank string

func (e errBlank) Error() string { return string(e) + " is required" }

// frame stacks notice, error, and form or busy text
func frame(notice, err string, busy bool, busyText, form string) string {
	var sb strings.Builder
	if notice != "" {
		sb.WriteString(styles.Notice.Render(icons.CheckOK.String()+" "+notice) + "\n\n")
	}
	if err != "" {
		sb.WriteString(styles.ErrorText.Render(icons.Critical.String()+" "+err) + "\n\n")
	}
	if busy {
		sb.WriteString(styles.Subtitle.Render(busyText))
		return sb.String()
	}
	sb.WriteString(form)
	return sb.String()
}
