// ABOUTME: Tests for the main menu
// ABOUTME: Validates options and the messages each choice produces

package menu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func entries() []Entry {
	return []Entry{{Name: "users", Title: "Users"}, {Name: "rooms", Title: "Rooms"}}
}

func TestMenuOptions(t *testing.T) {
	m := New(entries())

	opts := m.options()
	if len(opts) != 4 {
		t.Fatalf("expected 4 options, got %d", len(opts))
	}
	if opts[0].Value != "users" {
		t.Errorf("expected first option users, got %s", opts[0].Value)
	}
	if opts[2].Value != ChoiceLogout || opts[3].Value != ChoiceQuit {
		t.Error("expected logout and quit after the collections")
	}
	if m.Selected() != "users" {
		t.Errorf("expected first collection preselected, got %q", m.Selected())
	}
}

func TestChoose(t *testing.T) {
	tests := []struct {
		value string
		want  tea.Msg
	}{
		{"rooms", SelectedMsg{Name: "rooms"}},
		{ChoiceLogout, LogoutMsg{}},
		{ChoiceQuit, QuitMsg{}},
	}
	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			if got := choose(tc.value)(); got != tc.want {
				t.Errorf("expected %#v, got %#v", tc.want, got)
			}
		})
	}
}

func TestMenuQuitKey(t *testing.T) {
	m := New(entries())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}

func TestMenuEmpty(t *testing.T) {
	m := New(nil)
	if m.Selected() != "" {
		t.Errorf("expected no selection, got %q", m.Selected())
	}
	if len(m.options()) != 2 {
		t.Error("expected only logout and quit")
	}
}

func TestMenuSelect(t *testing.T) {
	m := New(entries())
	m.Select("rooms")
	if m.Selected() != "rooms" {
		t.Errorf("expected rooms selected, got %q", m.Selected())
	}
}
