package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/treetable/pkg/model"
	"github.com/vanderheijden86/treetable/pkg/settings"
	"github.com/vanderheijden86/treetable/pkg/table"
)

func newTestTheme() Theme {
	return NewTheme(lipgloss.NewRenderer(io.Discard), settings.ThemeLight)
}

// twelveRoots returns roots 1..12 (odd ids active); root 1 has children 101 and 102.
func twelveRoots() []model.Record {
	var records []model.Record
	for i := 1; i <= 12; i++ {
		records = append(records, model.Record{
			ID:       i,
			Name:     fmt.Sprintf("Root %d", i),
			Email:    fmt.Sprintf("root%02d@example.com", i),
			Balance:  fmt.Sprintf("$%d.00", 100-i),
			IsActive: i%2 == 1,
		})
	}
	records = append(records,
		model.Record{ID: 101, ParentID: 1, Name: "Child A", Email: "a@example.com", Balance: "$5.00", IsActive: true},
		model.Record{ID: 102, ParentID: 1, Name: "Child B", Email: "b@example.com", Balance: "$6.00"},
	)
	return records
}

func staticFetch(records []model.Record) FetchFunc {
	return func(context.Context) ([]model.Record, error) { return records, nil }
}

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	if opts.Renderer == nil {
		opts.Renderer = lipgloss.NewRenderer(io.Discard)
	}
	m := NewModel(table.New(10), opts)
	m = update(m, RecordsLoadedMsg{Records: twelveRoots()})
	return m
}

func update(m Model, msg tea.Msg) Model {
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m = update(m, msg)
	}
	return m
}

func TestModelLoadingState(t *testing.T) {
	m := NewModel(table.New(10), Options{
		Fetch:    staticFetch(twelveRoots()),
		Renderer: lipgloss.NewRenderer(io.Discard),
	})
	if !m.Loading() {
		t.Fatal("model with a fetch func should start loading")
	}
	if !strings.Contains(m.View(), "Loading data…") {
		t.Error("loading screen missing")
	}
	if m.Init() == nil {
		t.Error("Init should start the fetch")
	}

	// Keys other than quit are ignored while loading
	m = press(m, "2")
	if m.State().Filter().IsSet() {
		t.Error("filter applied while loading")
	}

	m = update(m, RecordsLoadedMsg{Records: twelveRoots()})
	if m.Loading() {
		t.Error("still loading after records arrived")
	}
	if !strings.Contains(m.View(), "BALANCE ⇅") {
		t.Error("table header missing after load")
	}
}

func TestFetchCmdDeliversRecords(t *testing.T) {
	msg := FetchCmd(context.Background(), staticFetch(twelveRoots()), true)()
	loaded, ok := msg.(RecordsLoadedMsg)
	if !ok {
		t.Fatalf("FetchCmd produced %T", msg)
	}
	if len(loaded.Records) != 14 || !loaded.Reload || loaded.Err != nil {
		t.Errorf("unexpected message: %+v", loaded)
	}
}

func TestModelFetchErrorBanner(t *testing.T) {
	m := NewModel(table.New(10), Options{
		Fetch:    staticFetch(nil),
		Renderer: lipgloss.NewRenderer(io.Discard),
	})
	m = update(m, RecordsLoadedMsg{Err: errors.New("connection refused")})

	if m.Loading() || m.Err() == nil {
		t.Fatal("error should end loading and be kept")
	}
	view := m.View()
	if !strings.Contains(view, "Failed to load data: connection refused") {
		t.Error("error banner missing")
	}
	if !strings.Contains(view, "No data to display") {
		t.Error("empty state missing under the error banner")
	}
}

func TestModelToggleExpand(t *testing.T) {
	m := newTestModel(t, Options{})
	if n := len(m.State().View().Rows); n != 10 {
		t.Fatalf("collapsed page 1 has %d rows, want 10", n)
	}

	m = press(m, "enter")
	if n := len(m.State().View().Rows); n != 12 {
		t.Errorf("after expanding root 1: %d rows, want 12", n)
	}
	if !strings.Contains(m.View(), "▾ Root 1") {
		t.Error("expanded indicator missing")
	}

	m = press(m, "space")
	if n := len(m.State().View().Rows); n != 10 {
		t.Errorf("after collapsing root 1: %d rows, want 10", n)
	}

	// Leaves do not toggle
	m = press(m, "enter", "j", "enter")
	if m.Cursor() != 1 {
		t.Fatalf("cursor = %d, want 1", m.Cursor())
	}
	rec, _ := m.SelectedRecord()
	if rec.ID != 101 {
		t.Fatalf("selected %d, want child 101", rec.ID)
	}
	if m.State().IsExpanded(101) {
		t.Error("leaf row was marked expanded")
	}
}

func TestModelFilterResetsPageAndExpansion(t *testing.T) {
	m := newTestModel(t, Options{})
	m = press(m, "enter", "n")
	if m.State().Page() != 2 || !m.State().IsExpanded(1) {
		t.Fatalf("setup: page %d expanded %v", m.State().Page(), m.State().ExpandedIDs())
	}

	m = press(m, "2")
	if m.State().Page() != 1 {
		t.Errorf("page after filter = %d, want 1", m.State().Page())
	}
	if len(m.State().ExpandedIDs()) != 0 {
		t.Errorf("expanded after filter = %v, want none", m.State().ExpandedIDs())
	}
	for _, row := range m.State().View().Rows {
		if !row.Node.IsActive {
			t.Errorf("inactive row %d shown under the active filter", row.Node.ID)
		}
	}
	if !strings.Contains(m.View(), "STATUS ▾●") {
		t.Error("filter dot missing in header")
	}
}

func TestModelSortKeepsPageAndExpansion(t *testing.T) {
	m := newTestModel(t, Options{})
	m = press(m, "enter", "n")

	m = press(m, "b")
	if m.State().Page() != 2 || !m.State().IsExpanded(1) {
		t.Errorf("sort reset state: page %d expanded %v", m.State().Page(), m.State().ExpandedIDs())
	}
	if s := m.State().Sort(); s.Field != model.SortFieldBalance || s.Order != model.SortAscending {
		t.Errorf("sort = %+v, want balance asc", s)
	}

	m = press(m, "b")
	if m.State().Sort().Order != model.SortDescending {
		t.Error("second press should flip to descending")
	}
	if !strings.Contains(m.View(), "BALANCE ▼") {
		t.Error("descending indicator missing")
	}

	m = press(m, "s")
	if s := m.State().Sort(); s.Field != model.SortFieldEmail || s.Order != model.SortAscending {
		t.Errorf("switching column should start ascending, got %+v", s)
	}
}

func TestModelPaging(t *testing.T) {
	m := newTestModel(t, Options{})
	if !strings.Contains(m.View(), "Page 1/2") {
		t.Error("pagination bar missing")
	}

	m = press(m, "right")
	if m.State().Page() != 2 {
		t.Fatalf("page = %d, want 2", m.State().Page())
	}
	if n := len(m.State().View().Rows); n != 2 {
		t.Errorf("page 2 has %d rows, want 2", n)
	}
	m = press(m, "n")
	if m.State().Page() != 2 {
		t.Error("next on the last page should stay")
	}
	m = press(m, "left")
	if m.State().Page() != 1 {
		t.Errorf("page = %d, want 1", m.State().Page())
	}
	m = press(m, "G")
	if m.State().Page() != 2 {
		t.Error("G should jump to the last page")
	}
	m = press(m, "g")
	if m.State().Page() != 1 {
		t.Error("g should jump to the first page")
	}

	// Everything on one page hides the bar
	m = press(m, "3")
	if strings.Contains(m.View(), "Page 1/") {
		t.Error("pagination bar shown for a single page")
	}
}

func TestModelCursorBounds(t *testing.T) {
	m := newTestModel(t, Options{})
	m = press(m, "k")
	if m.Cursor() != 0 {
		t.Errorf("cursor moved above the first row: %d", m.Cursor())
	}
	for i := 0; i < 20; i++ {
		m = press(m, "j")
	}
	if m.Cursor() != 9 {
		t.Errorf("cursor = %d, want last row 9", m.Cursor())
	}
	m = press(m, "n")
	if m.Cursor() != 0 {
		t.Errorf("cursor should reset on page change, got %d", m.Cursor())
	}
}

func TestModelExpandCollapseAll(t *testing.T) {
	m := newTestModel(t, Options{})
	m = press(m, "e")
	if n := len(m.State().View().Rows); n != 12 {
		t.Errorf("expand all: %d rows, want 12", n)
	}
	m = press(m, "c")
	if n := len(m.State().View().Rows); n != 10 {
		t.Errorf("collapse all: %d rows, want 10", n)
	}
}

func TestModelFilterPicker(t *testing.T) {
	m := newTestModel(t, Options{})
	m = press(m, "f")
	if !strings.Contains(m.View(), "Filter by status") {
		t.Fatal("picker not shown")
	}

	m = press(m, "j", "j", "enter")
	if got := m.State().Filter().String(); got != "inactive" {
		t.Errorf("filter = %s, want inactive", got)
	}
	if strings.Contains(m.View(), "Filter by status") {
		t.Error("picker still open after enter")
	}

	m = press(m, "f", "k", "esc")
	if got := m.State().Filter().String(); got != "inactive" {
		t.Errorf("esc must not apply, filter = %s", got)
	}
}

func TestModelClearFiltersAndSorts(t *testing.T) {
	m := newTestModel(t, Options{})
	m = press(m, "2", "b")
	if !m.State().HasFiltersOrSorts() {
		t.Fatal("setup failed")
	}
	m = press(m, "x")
	if m.State().HasFiltersOrSorts() {
		t.Error("x should clear filter and sort")
	}
}

func TestModelThemeTogglePersists(t *testing.T) {
	store := settings.NewMemoryStore()
	s, err := settings.Load(store, settings.ThemeLight)
	if err != nil {
		t.Fatal(err)
	}
	m := newTestModel(t, Options{Settings: s})

	m = press(m, "t")
	if m.Theme().Mode != settings.ThemeDark {
		t.Errorf("mode = %v, want dark", m.Theme().Mode)
	}
	if v, ok, _ := store.Get(settings.ThemeKey); !ok || v != "dark" {
		t.Errorf("stored theme = %q (ok=%v), want dark", v, ok)
	}

	m = press(m, "t")
	if m.Theme().Mode != settings.ThemeLight {
		t.Error("second toggle should return to light")
	}
}

type failingStore struct{}

func (failingStore) Get(string) (string, bool, error) { return "", false, nil }
func (failingStore) Set(string, string) error         { return errors.New("read-only") }

func TestModelThemeStoreFailure(t *testing.T) {
	s, _ := settings.Load(failingStore{}, settings.ThemeLight)
	m := newTestModel(t, Options{Settings: s})
	m = press(m, "t")
	if m.Theme().Mode != settings.ThemeDark {
		t.Error("theme should change even when saving fails")
	}
	if !strings.Contains(m.StatusMessage(), "Theme not saved") {
		t.Errorf("status = %q", m.StatusMessage())
	}
}

func TestModelCopyEmail(t *testing.T) {
	m := newTestModel(t, Options{})
	var copied string
	m.copyFn = func(s string) error {
		copied = s
		return nil
	}
	m = press(m, "j", "y")
	if copied != "root02@example.com" {
		t.Errorf("copied %q, want root02@example.com", copied)
	}
	if !strings.Contains(m.StatusMessage(), "Copied root02@example.com") {
		t.Errorf("status = %q", m.StatusMessage())
	}

	m.copyFn = func(string) error { return errors.New("no clipboard") }
	m = press(m, "y")
	if !strings.Contains(m.StatusMessage(), "Clipboard error") {
		t.Errorf("status = %q", m.StatusMessage())
	}
}

func TestModelHelpOverlay(t *testing.T) {
	m := newTestModel(t, Options{})
	m = press(m, "?")
	if !m.showHelp {
		t.Fatal("help not shown")
	}
	// Keys go to the overlay, not the table
	m = press(m, "2")
	if m.State().Filter().IsSet() {
		t.Error("key leaked through the help overlay")
	}
	m = press(m, "esc")
	if m.showHelp {
		t.Error("esc should close help")
	}
}

func TestModelReloadKeepsState(t *testing.T) {
	records := twelveRoots()
	m := newTestModel(t, Options{Fetch: staticFetch(records)})
	m = press(m, "enter", "b")

	_, cmd := m.Update(FileChangedMsg{Path: "/tmp/data.json"})
	if cmd == nil {
		t.Fatal("file change should trigger a reload")
	}

	next := append(append([]model.Record(nil), records...), model.Record{ID: 13, Name: "New", Balance: "$1.00"})
	m = update(m, RecordsLoadedMsg{Records: next, Reload: true})

	if !m.State().IsExpanded(1) || m.State().Sort().Field != model.SortFieldBalance {
		t.Error("reload must keep expansion and sort")
	}
	if got := m.StatusMessage(); got != "Reloaded: +1 -0 ~0 (15 records)" {
		t.Errorf("status = %q", got)
	}

	// A failed reload keeps the previous records
	m = update(m, RecordsLoadedMsg{Err: errors.New("partial write"), Reload: true})
	if len(m.State().Records()) != 15 {
		t.Errorf("records replaced on failed reload: %d", len(m.State().Records()))
	}

	// A reload that removes the current page falls back to the last page
	m = press(m, "n")
	if m.State().Page() != 2 {
		t.Fatalf("page = %d, want 2 before shrinking", m.State().Page())
	}
	m = update(m, RecordsLoadedMsg{Records: records[:5], Reload: true})
	if m.State().Page() != 1 || m.State().TotalPages() != 1 {
		t.Errorf("page = %d of %d, want 1 of 1", m.State().Page(), m.State().TotalPages())
	}
	if rows := len(m.State().View().Rows); rows == 0 {
		t.Error("shrunk reload should still show rows")
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t, Options{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestModelWindowResize(t *testing.T) {
	m := newTestModel(t, Options{})
	m = update(m, tea.WindowSizeMsg{Width: 140, Height: 40})
	header := strings.SplitN(m.View(), "\n", 3)[1]
	if w := lipgloss.Width(header); w != 140 {
		t.Errorf("header width = %d, want 140", w)
	}
}
