// ABOUTME: Main menu of the TUI as a bubbletea model
// ABOUTME: Picks an entity collection, logs out or quits

package menu

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/markalston/campus-admin/internal/tui/icons"
	"github.com/markalston/campus-admin/internal/tui/styles"
)

// Reserved choices that are not collections
const (
	ChoiceLogout = "logout"
	ChoiceQuit   = "quit"
)

// Entry is one collection offered by the menu
type Entry struct {
	Name  string
	Title string
}

// SelectedMsg is sent when a collection is chosen
type SelectedMsg struct {
	Name string
}

// LogoutMsg is sent when the user chooses to log out
type LogoutMsg struct{}

// QuitMsg is sent when the user chooses to quit
type QuitMsg struct{}

// Menu lets the user choose what to manage
type Menu struct {
	entries  []Entry
	selected string
	form     *huh.Form
}

// New creates a menu over entries, selecting the first one
func New(entries []Entry) *Menu {
	m := &Menu{entries: entries}
	if len(entries) > 0 {
		m.selected = entries[0].Name
	}
	m.form = m.createForm()
	return m
}

func (m *Menu) options() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(m.entries)+2)
	for _, e := range m.entries {
		opts = append(opts, huh.NewOption(icons.ForResource(e.Name).String()+" "+e.Title, e.Name))
	}
	opts = append(opts,
		huh.NewOption(icons.Logout.String()+" Log out", ChoiceLogout),
		huh.NewOption(icons.Quit.String()+" Quit", ChoiceQuit),
	)
	return opts
}

func (m *Menu) createForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("What do you want to manage?").
				Options(m.options()...).
				Value(&m.selected),
		),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

// Select highlights the choice with value name
func (m *Menu) Select(name string) {
	m.selected = name
	m.form = m.createForm()
}

// Selected returns the highlighted choice
func (m *Menu) Selected() string {
	return m.selected
}

// Init implements tea.Model
func (m *Menu) Init() tea.Cmd {
	return m.form.Init()
}

// Update implements tea.Model
func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "q" {
		return m, func() tea.Msg { return QuitMsg{} }
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return m, choose(m.selected)
	}
	return m, cmd
}

// choose turns a menu value into its message
func choose(value string) tea.Cmd {
	return func() tea.Msg {
		switch value {
		case ChoiceLogout:
			return LogoutMsg{}
		case ChoiceQuit:
			return QuitMsg{}
		default:
			return SelectedMsg{Name: value}
		}
	}
}

// View implements tea.Model
func (m *Menu) View() string {
	return m.form.View()
}
