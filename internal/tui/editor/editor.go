// ABOUTME: Create/edit form for any entity as a bubbletea model
// ABOUTME: Builds huh inputs and selects from the collection's field list

package editor

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/markalston/campus-admin/internal/resources"
	"github.com/markalston/campus-admin/internal/tui/styles"
)

// SubmitMsg is sent when the form is completed
type SubmitMsg struct {
	ID     int64
	Values map[string]string
}

// CancelledMsg is sent when the form is left with esc
type CancelledMsg struct{}

// Editor edits one entity; ID 0 means a new one
type Editor struct {
	id     int64
	title  string
	fields []resources.Field
	values []string
	err    string
	busy   bool
	form   *huh.Form
}

// New creates a form for fields, starting from their current values
func New(title string, id int64, fields []resources.Field) *Editor {
	e := &Editor{id: id, title: title, fields: fields, values: make([]string, len(fields))}
	for i, f := range fields {
		e.values[i] = f.Value
		if e.values[i] == "" && len(f.Options) > 0 && f.Required {
			e.values[i] = f.Options[0].Value
		}
	}
	e.form = e.createForm()
	return e
}

func (e *Editor) createForm() *huh.Form {
	inputs := make([]huh.Field, 0, len(e.fields))
	for i, f := range e.fields {
		title := f.Label
		if f.Required {
			title += " *"
		}
		if len(f.Options) > 0 {
			opts := make([]huh.Option[string], 0, len(f.Options))
			for _, o := range f.Options {
				opts = append(opts, huh.NewOption(o.Label, o.Value))
			}
			inputs = append(inputs, huh.NewSelect[string]().
				Title(title).
				Options(opts...).
				Value(&e.values[i]))
			continue
		}
		inputs = append(inputs, huh.NewInput().
			Title(title).
			Value(&e.values[i]).
			Validate(validator(f)))
	}
	return huh.NewForm(
		huh.NewGroup(inputs...).Title(e.title),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

// validator checks what can be checked per field; the rest is left to the
// collection's own validation on save
func validator(f resources.Field) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			if f.Required {
				return fmt.Errorf("%s is required", strings.ToLower(f.Label))
			}
			return nil
		}
		if f.Numeric {
			if _, err := strconv.Atoi(s); err != nil {
				return fmt.Errorf("must be a number")
			}
		}
		return nil
	}
}

// SetError shows err and lets the user correct the values
func (e *Editor) SetError(msg string) tea.Cmd {
	e.err = msg
	e.busy = false
	e.form = e.createForm()
	return e.form.Init()
}

// Values returns the submitted values keyed by field
func (e *Editor) Values() map[string]string {
	out := make(map[string]string, len(e.fields))
	for i, f := range e.fields {
		out[f.Key] = strings.TrimSpace(e.values[i])
	}
	return out
}

// Init implements tea.Model
func (e *Editor) Init() tea.Cmd {
	return e.form.Init()
}

// Update implements tea.Model
func (e *Editor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return e, func() tea.Msg { return CancelledMsg{} }
	}
	if e.busy {
		return e, nil
	}

	form, cmd := e.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		e.form = f
	}
	if e.form.State == huh.StateCompleted {
		e.busy = true
		e.err = ""
		submit := SubmitMsg{ID: e.id, Values: e.Values()}
		return e, func() tea.Msg { return submit }
	}
	return e, cmd
}

// View implements tea.Model
func (e *Editor) View() string {
	var sb strings.Builder
	if e.err != "" {
		sb.WriteString(styles.ErrorText.Render(e.err) + "\n\n")
	}
	if e.busy {
		sb.WriteString(styles.Subtitle.Render("Saving..."))
		return sb.String()
	}
	sb.WriteString(e.form.View())
	return sb.String()
}
