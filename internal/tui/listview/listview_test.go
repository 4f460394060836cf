// ABOUTME: Tests for the entity list screen
// ABOUTME: Validates loading, filtering keys, delete confirmation and toggling

package listview

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/campus-admin/internal/resources"
	"github.com/markalston/campus-admin/internal/tui/icons"
)

type fakeResource struct {
	rows    []resources.Row
	deleted []int64
}

func (f *fakeResource) Name() string      { return "rooms" }
func (f *fakeResource) Title() string     { return "Rooms" }
func (f *fakeResource) Singular() string  { return "room" }
func (f *fakeResource) Columns() []string { return []string{"ID", "Name", "Type", "Status"} }
func (f *fakeResource) FacetName() string { return "type" }
func (f *fakeResource) Facets(rows []resources.Row) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range rows {
		if !seen[r.Facet] {
			seen[r.Facet] = true
			out = append(out, r.Facet)
		}
	}
	return out
}
func (f *fakeResource) List(ctx context.Context) ([]resources.Row, error) { return f.rows, nil }
func (f *fakeResource) Get(ctx context.Context, id int64) (resources.Row, error) {
	return resources.Row{}, errors.New("not used")
}
func (f *fakeResource) Fields(ctx context.Context, id int64) ([]resources.Field, error) {
	return nil, nil
}
func (f *fakeResource) Save(ctx context.Context, id int64, values map[string]string) (resources.Row, error) {
	return resources.Row{}, nil
}
func (f *fakeResource) Delete(ctx context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeToggler struct {
	activated, deactivated []int64
}

func (f *fakeToggler) Activate(ctx context.Context, id int64) error {
	f.activated = append(f.activated, id)
	return nil
}

func (f *fakeToggler) Deactivate(ctx context.Context, id int64) error {
	f.deactivated = append(f.deactivated, id)
	return nil
}

func sampleRows() []resources.Row {
	return []resources.Row{
		{ID: 1, Cells: []string{"1", "A101", "Amphi", "Actif"}, Status: "Actif", Facet: "Amphi"},
		{ID: 2, Cells: []string{"2", "B12", "TD", "Inactif"}, Status: "Inactif", Facet: "TD"},
		{ID: 3, Cells: []string{"3", "C3", "TD", "Actif"}, Status: "Actif", Facet: "TD"},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T, res *fakeResource, toggler Toggler) *List {
	t.Helper()
	l := New(res, toggler, 100, 30)
	l.loading = true
	l.Update(LoadedMsg{Name: "rooms", Rows: res.rows})
	if l.loading {
		t.Fatal("expected loading to finish")
	}
	return l
}

func TestLoadedMsgFillsTable(t *testing.T) {
	l := loaded(t, &fakeResource{rows: sampleRows()}, nil)
	if len(l.visible) != 3 {
		t.Fatalf("expected 3 visible rows, got %d", len(l.visible))
	}
	if !strings.Contains(l.View(), "3 of 3 rooms") {
		t.Errorf("expected count line, got:\n%s", l.View())
	}
}

func TestLoadedMsgForOtherCollectionIgnored(t *testing.T) {
	l := New(&fakeResource{}, nil, 100, 30)
	l.loading = true
	l.Update(LoadedMsg{Name: "users", Rows: sampleRows()})
	if !l.loading || len(l.rows) != 0 {
		t.Error("expected message for another collection to be ignored")
	}
}

func TestLoadError(t *testing.T) {
	l := New(&fakeResource{}, nil, 100, 30)
	l.Update(LoadedMsg{Name: "rooms", Err: errors.New("cannot connect")})
	if !strings.Contains(l.View(), "cannot connect") {
		t.Error("expected error in view")
	}
}

func TestStatusAndFacetKeys(t *testing.T) {
	l := loaded(t, &fakeResource{rows: sampleRows()}, nil)

	l.Update(key("s"))
	if l.Filter().Status != resources.StatusActif || len(l.visible) != 2 {
		t.Errorf("expected 2 active rows, got %d (status %q)", len(l.visible), l.Filter().Status)
	}

	l.Update(key("f"))
	if l.Filter().Facet != "Amphi" || len(l.visible) != 1 {
		t.Errorf("expected Amphi facet with 1 row, got %q/%d", l.Filter().Facet, len(l.visible))
	}

	l.Update(key("f"))
	l.Update(key("f"))
	if l.Filter().Facet != resources.FacetAll {
		t.Errorf("expected facet to cycle back to all, got %q", l.Filter().Facet)
	}
}

func TestSearch(t *testing.T) {
	l := loaded(t, &fakeResource{rows: sampleRows()}, nil)

	l.Update(key("/"))
	if !l.searching {
		t.Fatal("expected search mode")
	}
	l.Update(key("b12"))
	if l.Filter().Search != "b12" {
		t.Errorf("expected search term, got %q", l.Filter().Search)
	}
	l.Update(key("enter"))
	if l.searching {
		t.Error("expected enter to leave search mode")
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	res := &fakeResource{rows: sampleRows()}
	l := loaded(t, res, nil)

	l.Update(key("d"))
	if l.confirmDelete == nil || l.confirmDelete.ID != 1 {
		t.Fatal("expected confirmation for row 1")
	}
	if !strings.Contains(l.View(), "Delete room 1?") {
		t.Error("expected confirmation prompt")
	}

	l.Update(key("n"))
	if l.confirmDelete != nil || len(res.deleted) != 0 {
		t.Error("expected delete to be cancelled")
	}

	l.Update(key("d"))
	_, cmd := l.Update(key("y"))
	if cmd == nil {
		t.Fatal("expected delete command")
	}
	runBatch(cmd)
	if len(res.deleted) != 1 || res.deleted[0] != 1 {
		t.Errorf("expected row 1 deleted, got %v", res.deleted)
	}
}

func TestToggleOnlyWithToggler(t *testing.T) {
	l := loaded(t, &fakeResource{rows: sampleRows()}, nil)
	if _, cmd := l.Update(key("a")); cmd != nil {
		t.Error("expected no toggle without toggler")
	}

	toggler := &fakeToggler{}
	l = loaded(t, &fakeResource{rows: sampleRows()}, toggler)
	_, cmd := l.Update(key("a"))
	runBatch(cmd)
	if len(toggler.deactivated) != 1 || toggler.deactivated[0] != 1 {
		t.Errorf("expected active row 1 deactivated, got %v", toggler.deactivated)
	}
}

func TestActionDoneReloads(t *testing.T) {
	l := loaded(t, &fakeResource{rows: sampleRows()}, nil)
	_, cmd := l.Update(ActionDoneMsg{Name: "rooms", Notice: "Deleted room 1"})
	if cmd == nil || !l.loading {
		t.Error("expected reload after action")
	}
	if l.notice != "Deleted room 1" {
		t.Errorf("expected notice, got %q", l.notice)
	}
}

func TestNavigationMessages(t *testing.T) {
	l := loaded(t, &fakeResource{rows: sampleRows()}, nil)

	_, cmd := l.Update(key("n"))
	if _, ok := cmd().(NewMsg); !ok {
		t.Error("expected NewMsg")
	}
	_, cmd = l.Update(key("e"))
	if msg, ok := cmd().(EditMsg); !ok || msg.ID != 1 {
		t.Errorf("expected EditMsg for 1, got %#v", msg)
	}
	_, cmd = l.Update(key("b"))
	if _, ok := cmd().(BackMsg); !ok {
		t.Error("expected BackMsg")
	}
}

func TestColumnsWidth(t *testing.T) {
	cols := columns([]string{"ID", "Name"}, [][]string{{"1", strings.Repeat("x", 40)}})
	if cols[0].Width != 2 {
		t.Errorf("expected header width, got %d", cols[0].Width)
	}
	if cols[1].Width != maxColumnWidth {
		t.Errorf("expected capped width, got %d", cols[1].Width)
	}
}

// runBatch executes every command of a tea.Batch
func runBatch(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if batch, ok := cmd().(tea.BatchMsg); ok {
		for _, c := range batch {
			if c != nil {
				c()
			}
		}
	}
}

func TestShortcutsCarryActionIcons(t *testing.T) {
	l := New(&fakeResource{}, nil, 100, 30)
	keys := strings.Join(l.Shortcuts(), "  ")

	for _, want := range []string{
		"n " + icons.Add.String() + " New",
		"d " + icons.Delete.String() + " Delete",
		"r " + icons.Refresh.String() + " Refresh",
		"b " + icons.Back.String() + " Back",
	} {
		if !strings.Contains(keys, want) {
			t.Errorf("expected shortcut %q in %q", want, keys)
		}
	}
	if strings.Contains(keys, "a Toggle") {
		t.Error("toggle shortcut shown without a toggler")
	}
}
