// ABOUTME: Entity list screen with table, search box and filters
// ABOUTME: Loads, filters, deletes and toggles entities of one collection

package listview

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/campus-admin/internal/resources"
	"github.com/markalston/campus-admin/internal/tui/icons"
	"github.com/markalston/campus-admin/internal/tui/styles"
)

const maxColumnWidth = 28

// Toggler activates and deactivates entities; only users have one
type Toggler interface {
	Activate(ctx context.Context, id int64) error
	Deactivate(ctx context.Context, id int64) error
}

// LoadedMsg carries the result of loading a collection
type LoadedMsg struct {
	Name string
	Rows []resources.Row
	Err  error
}

// ActionDoneMsg reports the end of a delete or status change
type ActionDoneMsg struct {
	Name   string
	Notice string
	Err    error
}

// NewMsg asks for a create form
type NewMsg struct{}

// EditMsg asks for an edit form for ID
type EditMsg struct {
	ID int64
}

// BackMsg returns to the menu
type BackMsg struct{}

// List shows one collection
type List struct {
	res     resources.Resource
	toggler Toggler

	rows     []resources.Row
	visible  []resources.Row
	filter   resources.Filter
	facetIdx int

	table   table.Model
	search  textinput.Model
	spinner spinner.Model

	loading       bool
	searching     bool
	confirmDelete *resources.Row
	notice        string
	err           string
	width         int
	height        int
}

// New creates a list for res; toggler may be nil
func New(res resources.Resource, toggler Toggler, width, height int) *List {
	search := textinput.New()
	search.Placeholder = "search"
	search.Prompt = icons.Search.String() + " "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	l := &List{
		res:     res,
		toggler: toggler,
		filter:  resources.Filter{Status: resources.StatusAll},
		search:  search,
		spinner: sp,
		table: table.New(
			table.WithColumns(columns(res.Columns(), nil)),
			table.WithFocused(true),
		),
	}
	l.SetSize(width, height)
	return l
}

// Name returns the collection name
func (l *List) Name() string {
	return l.res.Name()
}

// Resource returns the collection shown
func (l *List) Resource() resources.Resource {
	return l.res
}

// SetSize adapts the table to the available space
func (l *List) SetSize(width, height int) {
	l.width, l.height = width, height
	if h := height - 6; h > 3 {
		l.table.SetHeight(h)
	}
	if width > 0 {
		l.table.SetWidth(width)
	}
}

// SetNotice shows an informational message
func (l *List) SetNotice(msg string) {
	l.notice = msg
}

// SetError shows an error in place of the table
func (l *List) SetError(msg string) {
	l.loading = false
	l.err = msg
}

// Load fetches the collection
func (l *List) Load() tea.Cmd {
	l.loading = true
	l.err = ""
	res := l.res
	load := func() tea.Msg {
		rows, err := res.List(context.Background())
		return LoadedMsg{Name: res.Name(), Rows: rows, Err: err}
	}
	return tea.Batch(load, l.spinner.Tick)
}

// Init implements tea.Model
func (l *List) Init() tea.Cmd {
	return l.Load()
}

// Update implements tea.Model
func (l *List) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.Name != l.res.Name() {
			return l, nil
		}
		l.loading = false
		if msg.Err != nil {
			l.err = msg.Err.Error()
			return l, nil
		}
		l.rows = msg.Rows
		l.applyFilter()
		return l, nil

	case ActionDoneMsg:
		if msg.Name != l.res.Name() {
			return l, nil
		}
		if msg.Err != nil {
			l.loading = false
			l.err = msg.Err.Error()
			return l, nil
		}
		l.notice = msg.Notice
		return l, l.Load()

	case spinner.TickMsg:
		if !l.loading {
			return l, nil
		}
		var cmd tea.Cmd
		l.spinner, cmd = l.spinner.Update(msg)
		return l, cmd

	case tea.KeyMsg:
		return l.handleKey(msg)
	}
	return l, nil
}

func (l *List) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if l.searching {
		switch msg.String() {
		case "esc", "enter":
			l.searching = false
			l.search.Blur()
			l.table.Focus()
			return l, nil
		}
		var cmd tea.Cmd
		l.search, cmd = l.search.Update(msg)
		l.filter.Search = strings.TrimSpace(l.search.Value())
		l.applyFilter()
		return l, cmd
	}

	if l.confirmDelete != nil {
		row := *l.confirmDelete
		l.confirmDelete = nil
		if msg.String() == "y" {
			return l, l.delete(row)
		}
		l.notice = "Delete cancelled"
		return l, nil
	}

	if l.loading {
		return l, nil
	}

	switch msg.String() {
	case "/":
		l.searching = true
		l.table.Blur()
		return l, l.search.Focus()
	case "s":
		l.filter.Status = resources.NextStatus(l.filter.Status)
		l.applyFilter()
		return l, nil
	case "f":
		l.cycleFacet()
		return l, nil
	case "r":
		l.notice = ""
		return l, l.Load()
	case "n":
		return l, func() tea.Msg { return NewMsg{} }
	case "e", "enter":
		if row, ok := l.selected(); ok {
			return l, func() tea.Msg { return EditMsg{ID: row.ID} }
		}
		return l, nil
	case "d":
		if row, ok := l.selected(); ok {
			l.confirmDelete = &row
		}
		return l, nil
	case "a":
		if row, ok := l.selected(); ok && l.toggler != nil {
			return l, l.toggle(row)
		}
		return l, nil
	case "b", "esc":
		return l, func() tea.Msg { return BackMsg{} }
	}

	var cmd tea.Cmd
	l.table, cmd = l.table.Update(msg)
	return l, cmd
}

// facets returns the facet choices, "" meaning all
func (l *List) facets() []string {
	if l.res.FacetName() == "" {
		return nil
	}
	return append([]string{resources.FacetAll}, l.res.Facets(l.rows)...)
}

func (l *List) cycleFacet() {
	facets := l.facets()
	if len(facets) == 0 {
		return
	}
	l.facetIdx = (l.facetIdx + 1) % len(facets)
	l.filter.Facet = facets[l.facetIdx]
	l.applyFilter()
}

func (l *List) applyFilter() {
	// A refreshed list may no longer carry the selected facet
	if facets := l.facets(); l.facetIdx >= len(facets) {
		l.facetIdx = 0
		l.filter.Facet = resources.FacetAll
	}

	l.visible = l.filter.Apply(l.rows)
	cells := make([][]string, len(l.visible))
	rows := make([]table.Row, len(l.visible))
	for i, r := range l.visible {
		cells[i] = r.Cells
		rows[i] = table.Row(r.Cells)
	}
	l.table.SetRows(nil)
	l.table.SetColumns(columns(l.res.Columns(), cells))
	l.table.SetRows(rows)
	if l.table.Cursor() >= len(rows) {
		l.table.SetCursor(max(0, len(rows)-1))
	}
}

func (l *List) selected() (resources.Row, bool) {
	i := l.table.Cursor()
	if i < 0 || i >= len(l.visible) {
		return resources.Row{}, false
	}
	return l.visible[i], true
}

func (l *List) delete(row resources.Row) tea.Cmd {
	l.loading = true
	res := l.res
	return tea.Batch(func() tea.Msg {
		err := res.Delete(context.Background(), row.ID)
		return ActionDoneMsg{Name: res.Name(), Notice: fmt.Sprintf("Deleted %s %d", res.Singular(), row.ID), Err: err}
	}, l.spinner.Tick)
}

func (l *List) toggle(row resources.Row) tea.Cmd {
	l.loading = true
	name, toggler := l.res.Name(), l.toggler
	activate := !strings.EqualFold(row.Status, resources.StatusActive)
	return tea.Batch(func() tea.Msg {
		if activate {
			err := toggler.Activate(context.Background(), row.ID)
			return ActionDoneMsg{Name: name, Notice: fmt.Sprintf("Activated %d", row.ID), Err: err}
		}
		err := toggler.Deactivate(context.Background(), row.ID)
		return ActionDoneMsg{Name: name, Notice: fmt.Sprintf("Deactivated %d", row.ID), Err: err}
	}, l.spinner.Tick)
}

// columns sizes each column to its widest cell
func columns(headers []string, cells [][]string) []table.Column {
	cols := make([]table.Column, len(headers))
	for i, h := range headers {
		w := lipgloss.Width(h)
		for _, row := range cells {
			if i < len(row) {
				w = max(w, lipgloss.Width(row[i]))
			}
		}
		cols[i] = table.Column{Title: h, Width: min(w, maxColumnWidth)}
	}
	return cols
}

// Filter returns the active filter
func (l *List) Filter() resources.Filter {
	return l.filter
}

// View implements tea.Model
func (l *List) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.ForResource(l.res.Name()).String() + " " + l.res.Title()))
	sb.WriteString("\n")
	sb.WriteString(l.filterLine())
	sb.WriteString("\n\n")

	switch {
	case l.loading:
		sb.WriteString(l.spinner.View() + " Loading...")
	case l.err != "":
		sb.WriteString(styles.ErrorText.Render(icons.Critical.String() + " " + l.err))
	case len(l.visible) == 0:
		sb.WriteString(styles.Subtitle.Render("No " + l.res.Name() + " found."))
	default:
		sb.WriteString(l.table.View())
		sb.WriteString("\n")
		sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("%d of %d %s", len(l.visible), len(l.rows), l.res.Name())))
	}

	if l.confirmDelete != nil {
		sb.WriteString("\n" + styles.ErrorText.Render(fmt.Sprintf("Delete %s %d? (y/N)", l.res.Singular(), l.confirmDelete.ID)))
	} else if l.notice != "" && !l.loading {
		sb.WriteString("\n" + styles.Notice.Render(l.notice))
	}
	return sb.String()
}

func (l *List) filterLine() string {
	parts := []string{l.search.View()}
	parts = append(parts, styles.KeyStyle.Render("status:")+" "+l.filter.Status)
	if facet := l.res.FacetName(); facet != "" {
		value := l.filter.Facet
		if value == resources.FacetAll {
			value = "all"
		}
		parts = append(parts, styles.KeyStyle.Render(facet+":")+" "+value)
	}
	return strings.Join(parts, "   ")
}

// Shortcuts returns the key help for the footer
func (l *List) Shortcuts() []string {
	if l.searching {
		return []string{"Enter Done", "Esc Done"}
	}
	keys := []string{"↑↓ Move", "/ Search", "s Status"}
	if l.res.FacetName() != "" {
		keys = append(keys, "f "+strings.ToUpper(l.res.FacetName()[:1])+l.res.FacetName()[1:])
	}
	keys = append(keys,
		"n "+icons.Add.String()+" New",
		"e "+icons.Edit.String()+" Edit",
		"d "+icons.Delete.String()+" Delete",
	)
	if l.toggler != nil {
		keys = append(keys, "a Toggle")
	}
	return append(keys, "r "+icons.Refresh.String()+" Refresh", "b "+icons.Back.String()+" Back")
}
