// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state, the session flow and routes input to child components

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/campus-admin/internal/api"
	"github.com/markalston/campus-admin/internal/credstore"
	"github.com/markalston/campus-admin/internal/resources"
	"github.com/markalston/campus-admin/internal/session"
	"github.com/markalston/campus-admin/internal/tui/auth"
	"github.com/markalston/campus-admin/internal/tui/dashboard"
	"github.com/markalston/campus-admin/internal/tui/editor"
	"github.com/markalston/campus-admin/internal/tui/icons"
	"github.com/markalston/campus-admin/internal/tui/listview"
	"github.com/markalston/campus-admin/internal/tui/menu"
	"github.com/markalston/campus-admin/internal/tui/styles"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenPassword
	ScreenMenu
	ScreenList
	ScreenForm
)

// Layout constants
const (
	minTerminalWidth = 80 // Minimum width before using single-column layout
	panelPadding     = 4  // Total horizontal padding from panel borders (2 each side)
)

const sessionExpiredMessage = "Session expired, please log in again."

// Options are the collaborators the TUI drives
type Options struct {
	Session *session.Orchestrator
	Guard   *session.Guard
	Catalog *resources.Catalog
	APIURL  string
	// OnUnauthorized registers for the gateway's 401 event
	OnUnauthorized func(api.UnauthorizedHandler) (remove func())
}

// loginDoneMsg is sent when a login request finishes
type loginDoneMsg struct {
	profile *credstore.UserProfile
	err     error
}

// passwordDoneMsg is sent when a password change finishes
type passwordDoneMsg struct {
	username string
	err      error
}

// summaryMsg carries the dashboard totals
type summaryMsg struct {
	summaries []resources.EntitySummary
	err       error
}

// fieldsMsg carries the form definition for a create or edit
type fieldsMsg struct {
	name   string
	id     int64
	fields []resources.Field
	err    error
}

// savedMsg is sent when a create or update finishes
type savedMsg struct {
	name string
	row  resources.Row
	err  error
}

// unauthorizedMsg is sent when the API rejected the session
type unauthorizedMsg struct {
	target string
}

// App is the root model for the TUI
type App struct {
	opts   Options
	screen Screen
	width  int
	height int
	// lastUser prefills the login form after the session expires
	lastUser string

	// Child models
	login     *auth.Login
	password  *auth.Password
	menu      *menu.Menu
	dashboard *dashboard.Dashboard
	list      *listview.List
	editor    *editor.Editor
}

// New creates the TUI, starting at the menu when a session is stored
func New(opts Options) *App {
	a := &App{opts: opts}
	if opts.Guard.IsAllowed() {
		a.showMenu()
	} else {
		a.showLogin(opts.Session.Snapshot().PendingUsername, "", "")
	}
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	if a.screen == ScreenMenu {
		return tea.Batch(a.menu.Init(), a.loadSummary())
	}
	return a.login.Init()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.dashboard != nil {
			a.dashboard.SetSize(a.sideWidth(), 0)
		}
		if a.list != nil {
			a.list.SetSize(a.frameWidth()-panelPadding, a.contentHeight())
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.isProtected() && !a.opts.Guard.IsAllowed() {
			return a, a.showLogin("", "", sessionExpiredMessage)
		}
		return a.updateScreen(msg)

	case unauthorizedMsg:
		// Login and password change report their own 401s
		if !a.isProtected() {
			return a, nil
		}
		return a, a.showLogin(a.lastUser, "", sessionExpiredMessage)

	case auth.LoginSubmitMsg:
		return a, a.signIn(msg.Username, msg.Password)

	case loginDoneMsg:
		return a.handleLoginDone(msg)

	case auth.PasswordSubmitMsg:
		return a, a.changePassword(msg)

	case passwordDoneMsg:
		if a.password == nil || errors.Is(msg.err, session.ErrStaleResponse) {
			return a, nil
		}
		if msg.err != nil {
			return a, a.password.SetError(errorText(msg.err))
		}
		return a, a.showLogin(msg.username, session.MsgPasswordChanged, "")

	case auth.PasswordCancelledMsg:
		return a, a.showLogin(a.password.Username(), "", "")

	case menu.SelectedMsg:
		return a, a.showList(msg.Name)

	case menu.LogoutMsg:
		if err := a.opts.Session.Logout(); err != nil {
			return a, a.showLogin("", "", err.Error())
		}
		return a, a.showLogin("", "Logged out.", "")

	case menu.QuitMsg:
		return a, tea.Quit

	case summaryMsg:
		if a.dashboard != nil {
			if msg.err != nil {
				a.dashboard.SetError(errors.New(errorText(msg.err)))
			} else {
				a.dashboard.Update(msg.summaries)
			}
		}
		return a, nil

	case listview.NewMsg:
		return a, a.loadFields(0)

	case listview.EditMsg:
		return a, a.loadFields(msg.ID)

	case listview.BackMsg:
		a.list = nil
		return a, tea.Batch(a.showMenu(), a.loadSummary())

	case fieldsMsg:
		return a.handleFields(msg)

	case editor.SubmitMsg:
		return a, a.save(msg)

	case editor.CancelledMsg:
		a.editor = nil
		a.screen = ScreenList
		return a, nil

	case savedMsg:
		return a.handleSaved(msg)

	case listview.LoadedMsg, listview.ActionDoneMsg, spinner.TickMsg:
		if a.list != nil {
			_, cmd := a.list.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unknown messages to the active screen (needed for huh form internals)
	return a.updateScreen(msg)
}

// updateScreen routes msg to the current child model
func (a *App) updateScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.screen {
	case ScreenLogin:
		_, cmd = a.login.Update(msg)
	case ScreenPassword:
		_, cmd = a.password.Update(msg)
	case ScreenMenu:
		_, cmd = a.menu.Update(msg)
	case ScreenList:
		if a.list != nil {
			_, cmd = a.list.Update(msg)
		}
	case ScreenForm:
		if a.editor != nil {
			_, cmd = a.editor.Update(msg)
		}
	}
	return a, cmd
}

// isProtected reports whether the current screen needs a session
func (a *App) isProtected() bool {
	return a.screen == ScreenMenu || a.screen == ScreenList || a.screen == ScreenForm
}

func (a *App) showLogin(username, notice, errText string) tea.Cmd {
	a.login = auth.NewLogin(username)
	a.login.SetNotice(notice)
	a.list = nil
	a.editor = nil
	a.password = nil
	a.screen = ScreenLogin
	if errText != "" {
		return a.login.SetError(errText)
	}
	a.opts.Session.ClearError()
	return a.login.Init()
}

func (a *App) showPassword(username string) tea.Cmd {
	a.password = auth.NewPassword(username, "Your password must be changed before you can log in.")
	a.screen = ScreenPassword
	return a.password.Init()
}

func (a *App) showMenu() tea.Cmd {
	entries := make([]menu.Entry, 0, len(a.opts.Catalog.Resources()))
	for _, r := range a.opts.Catalog.Resources() {
		entries = append(entries, menu.Entry{Name: r.Name(), Title: r.Title()})
	}
	selected := ""
	if a.menu != nil {
		selected = a.menu.Selected()
	}
	a.menu = menu.New(entries)
	if selected != "" {
		a.menu.Select(selected)
	}
	a.dashboard = dashboard.New(nil, a.sideWidth(), 0)
	a.lastUser = a.currentUsername()
	a.screen = ScreenMenu
	return a.menu.Init()
}

func (a *App) showList(name string) tea.Cmd {
	res, ok := a.opts.Catalog.Lookup(name)
	if !ok {
		return nil
	}
	var toggler listview.Toggler
	if name == "users" {
		toggler = a.opts.Catalog.Users
	}
	a.list = listview.New(res, toggler, a.frameWidth()-panelPadding, a.contentHeight())
	a.screen = ScreenList
	return a.list.Init()
}

func (a *App) handleLoginDone(msg loginDoneMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.err == nil:
		return a, tea.Batch(a.showMenu(), a.loadSummary())
	case errors.Is(msg.err, session.ErrStaleResponse):
		return a, nil
	case errors.Is(msg.err, session.ErrPasswordChangeRequired):
		return a, a.showPassword(a.opts.Session.Snapshot().PendingUsername)
	default:
		return a, a.login.SetError(errorText(msg.err))
	}
}

func (a *App) handleFields(msg fieldsMsg) (tea.Model, tea.Cmd) {
	if a.list == nil || msg.name != a.list.Name() {
		return a, nil
	}
	if msg.err != nil {
		a.list.SetError(errorText(msg.err))
		return a, nil
	}
	res := a.list.Resource()
	title := "New " + res.Singular()
	if msg.id != 0 {
		title = fmt.Sprintf("Edit %s %d", res.Singular(), msg.id)
	}
	a.editor = editor.New(icons.Edit.String()+" "+title, msg.id, msg.fields)
	a.screen = ScreenForm
	return a, a.editor.Init()
}

func (a *App) handleSaved(msg savedMsg) (tea.Model, tea.Cmd) {
	if a.list == nil || msg.name != a.list.Name() {
		return a, nil
	}
	if msg.err != nil {
		if a.editor != nil {
			return a, a.editor.SetError(errorText(msg.err))
		}
		a.list.SetError(errorText(msg.err))
		return a, nil
	}
	a.editor = nil
	a.screen = ScreenList
	a.list.SetNotice(fmt.Sprintf("Saved %s %d", a.list.Resource().Singular(), msg.row.ID))
	return a, a.list.Load()
}

// currentUsername is the user to prefill after an expiry
func (a *App) currentUsername() string {
	if u := a.opts.Session.Snapshot().CurrentUser; u != nil {
		return u.Username
	}
	return ""
}

// signIn runs the login off the event loop
func (a *App) signIn(username, password string) tea.Cmd {
	orch := a.opts.Session
	return func() tea.Msg {
		profile, err := orch.Login(context.Background(), username, password)
		return loginDoneMsg{profile: profile, err: err}
	}
}

func (a *App) changePassword(msg auth.PasswordSubmitMsg) tea.Cmd {
	orch := a.opts.Session
	confirm := msg.ConfirmPassword
	return func() tea.Msg {
		err := orch.ChangePassword(context.Background(), session.PasswordChange{
			Username:        msg.Username,
			OldPassword:     msg.OldPassword,
			NewPassword:     msg.NewPassword,
			ConfirmPassword: &confirm,
		})
		return passwordDoneMsg{username: msg.Username, err: err}
	}
}

func (a *App) loadSummary() tea.Cmd {
	catalog := a.opts.Catalog
	return func() tea.Msg {
		summaries, err := catalog.Summarize(context.Background())
		return summaryMsg{summaries: summaries, err: err}
	}
}

func (a *App) loadFields(id int64) tea.Cmd {
	if a.list == nil {
		return nil
	}
	res := a.list.Resource()
	return func() tea.Msg {
		fields, err := res.Fields(context.Background(), id)
		return fieldsMsg{name: res.Name(), id: id, fields: fields, err: err}
	}
}

func (a *App) save(msg editor.SubmitMsg) tea.Cmd {
	if a.list == nil {
		return nil
	}
	res := a.list.Resource()
	return func() tea.Msg {
		row, err := res.Save(context.Background(), msg.ID, msg.Values)
		return savedMsg{name: res.Name(), row: row, err: err}
	}
}

// errorText turns an error into a line for the screen
func errorText(err error) string {
	return api.MessageOr(err, err.Error())
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLogin:
		content = a.viewCentered(a.login.View())
	case ScreenPassword:
		content = a.viewCentered(a.password.View())
	case ScreenMenu:
		content = a.viewMenu()
	case ScreenList:
		content = a.viewList()
	case ScreenForm:
		content = a.viewForm()
	}

	return a.wrapWithFrame(content)
}

// viewCentered renders a form in a single panel
func (a *App) viewCentered(body string) string {
	return styles.ActivePanel.Width(min(a.frameWidth()-panelPadding, 70)).Render(body)
}

// viewMenu renders the menu beside the dashboard
func (a *App) viewMenu() string {
	if !a.opts.Guard.IsAllowed() {
		return ""
	}
	left := styles.ActivePanel.Width(a.sideWidth()).Render(a.menu.View())
	if a.frameWidth() < minTerminalWidth+20 {
		return left
	}
	right := styles.Panel.Width(a.sideWidth()).Render(a.dashboard.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (a *App) viewList() string {
	if !a.opts.Guard.IsAllowed() || a.list == nil {
		return ""
	}
	return a.list.View()
}

func (a *App) viewForm() string {
	if !a.opts.Guard.IsAllowed() || a.editor == nil {
		return ""
	}
	return styles.ActivePanel.Width(min(a.frameWidth()-panelPadding, 80)).Render(a.editor.View())
}

// frameWidth is the drawable width; one column short of the terminal
// so the frame never wraps
func (a *App) frameWidth() int {
	return max(a.width-1, minTerminalWidth)
}

// sideWidth is the width of each pane on the menu screen
func (a *App) sideWidth() int {
	return (a.frameWidth() - 2*panelPadding) / 2
}

// contentHeight calculates the height available between header and footer
func (a *App) contentHeight() int {
	// Header, newline, newline, footer
	return a.height - 4
}

// renderHeader creates the header bar with app branding and context
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s ", icons.App.String(), titleStyle.Render("Campus Admin"))

	rightText := ""
	if user := a.currentUsername(); user != "" && a.opts.Guard.IsAllowed() {
		rightText = " " + contextStyle.Render(user+" @ "+a.opts.APIURL) + " "
	} else if a.opts.APIURL != "" {
		rightText = " " + contextStyle.Render(a.opts.APIURL) + " "
	}

	fillWidth := max(0, width-4-lipgloss.Width(leftText)-lipgloss.Width(rightText)) // -4 for ╭─ and ─╮
	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"

	return borderStyle.Render(header)
}

// shortcuts returns the key help of the current screen
func (a *App) shortcuts() []string {
	switch a.screen {
	case ScreenLogin:
		return []string{"Tab Next", "Enter Submit", "ctrl+c Quit"}
	case ScreenPassword:
		return []string{"Tab Next", "Enter Submit", "Esc Back"}
	case ScreenMenu:
		return []string{"↑↓ Navigate", "Enter Select", "q Quit"}
	case ScreenList:
		if a.list != nil {
			return a.list.Shortcuts()
		}
	case ScreenForm:
		return []string{"Tab Next", "Enter Save", "Esc Cancel"}
	}
	return nil
}

// renderFooter creates the footer with keyboard shortcuts
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)

	shortcuts := a.shortcuts()
	var styled []string
	for _, s := range shortcuts {
		k, label, ok := strings.Cut(s, " ")
		if ok {
			styled = append(styled, keyStyle.Render(k)+" "+labelStyle.Render(label))
		} else {
			styled = append(styled, s)
		}
	}

	leftText := " " + strings.Join(styled, "  ") + " "
	leftPlain := " " + strings.Join(shortcuts, "  ") + " "
	fillWidth := max(0, width-4-lipgloss.Width(leftPlain)) // -4 for ╰─ and ─╯

	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + "─╯"
	return borderStyle.Render(footer)
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI and blocks until it exits
func Run(opts Options) error {
	app := New(opts)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)
	if opts.OnUnauthorized != nil {
		remove := opts.OnUnauthorized(func(target string) {
			p.Send(unauthorizedMsg{target: target})
		})
		defer remove()
	}
	_, err := p.Run()
	return err
}
