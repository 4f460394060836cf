// ABOUTME: Change-password screen as a bubbletea model
// ABOUTME: Used when the API requires a new password before login

package auth

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/markalston/campus-admin/internal/tui/icons"
	"github.com/markalston/campus-admin/internal/tui/styles"
)

// PasswordSubmitMsg is sent when the change-password form is completed
type PasswordSubmitMsg struct {
	Username        string
	OldPassword     string
	NewPassword     string
	ConfirmPassword string
}

// PasswordCancelledMsg is sent when the user backs out with esc
type PasswordCancelledMsg struct{}

// Password collects the current and new password
type Password struct {
	username    string
	oldPassword string
	newPassword string
	confirm     string
	reason      string
	err         string
	busy        bool
	form        *huh.Form
}

// NewPassword creates the form for username; reason explains why it is shown
func NewPassword(username, reason string) *Password {
	p := &Password{username: username, reason: reason}
	p.form = p.createForm()
	return p
}

func (p *Password) createForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&p.username).
				Validate(required("username")),
			huh.NewInput().
				Title("Current password").
				EchoMode(huh.EchoModePassword).
				Value(&p.oldPassword),
			huh.NewInput().
				Title("New password").
				EchoMode(huh.EchoModePassword).
				Value(&p.newPassword),
			huh.NewInput().
				Title("Confirm new password").
				EchoMode(huh.EchoModePassword).
				Value(&p.confirm),
		).Title(icons.Lock.String() + " Change password").
			Description(p.reason),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

// SetError shows an error and lets the user try again
func (p *Password) SetError(msg string) tea.Cmd {
	p.err = msg
	p.busy = false
	p.oldPassword, p.newPassword, p.confirm = "", "", ""
	p.form = p.createForm()
	return p.form.Init()
}

// Username returns the entered username
func (p *Password) Username() string {
	return p.username
}

// Init implements tea.Model
func (p *Password) Init() tea.Cmd {
	return p.form.Init()
}

// Update implements tea.Model
func (p *Password) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return p, func() tea.Msg { return PasswordCancelledMsg{} }
	}
	if p.busy {
		return p, nil
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}
	if p.form.State == huh.StateCompleted {
		p.busy = true
		p.err = ""
		submit := PasswordSubmitMsg{
			Username:        strings.TrimSpace(p.username),
			OldPassword:     p.oldPassword,
			NewPassword:     p.newPassword,
			ConfirmPassword: p.confirm,
		}
		return p, func() tea.Msg { return submit }
	}
	return p, cmd
}

// View implements tea.Model
func (p *Password) View() string {
	return frame("", p.err, p.busy, "Changing password...", p.form.View())
}
