package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/treetable/internal/datasource"
	"github.com/vanderheijden86/treetable/pkg/debug"
	"github.com/vanderheijden86/treetable/pkg/metrics"
	"github.com/vanderheijden86/treetable/pkg/model"
	"github.com/vanderheijden86/treetable/pkg/settings"
	"github.com/vanderheijden86/treetable/pkg/table"
	"github.com/vanderheijden86/treetable/pkg/tree"
	"github.com/vanderheijden86/treetable/pkg/watcher"
)

// FetchFunc loads the full record set.
type FetchFunc func(ctx context.Context) ([]model.Record, error)

// RecordsLoadedMsg carries the result of a fetch.
type RecordsLoadedMsg struct {
	Records []model.Record
	Err     error
	Reload  bool
}

// FileChangedMsg is sent when a watched data file changes on disk
type FileChangedMsg struct {
	Path string
}

// WatchFileCmd returns a command that waits for the next file change and sends FileChangedMsg
func WatchFileCmd(g *watcher.Group) tea.Cmd {
	return func() tea.Msg {
		path, ok := <-g.Changed()
		if !ok {
			return nil
		}
		return FileChangedMsg{Path: path}
	}
}

// FetchCmd runs fetch off the update loop.
func FetchCmd(ctx context.Context, fetch FetchFunc, reload bool) tea.Cmd {
	return func() tea.Msg {
		records, err := fetch(ctx)
		return RecordsLoadedMsg{Records: records, Err: err, Reload: reload}
	}
}

// Options configures a Model.
type Options struct {
	Context  context.Context
	Fetch    FetchFunc
	Settings *settings.Settings
	Watcher  *watcher.Group
	Renderer *lipgloss.Renderer
	Title    string

	// ExpandAllOnLoad expands every parent once the first fetch completes.
	ExpandAllOnLoad bool
}

// Model is the bubbletea model of the tree table.
type Model struct {
	ctx      context.Context
	state    *table.State
	fetch    FetchFunc
	settings *settings.Settings
	watcher  *watcher.Group
	title    string

	expandAllOnLoad bool

	theme   Theme
	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	picker     FilterPickerModel
	showPicker bool
	helpView   HelpModel
	showHelp   bool

	loading   bool
	err       error
	statusMsg string
	cursor    int
	width     int
	height    int

	copyFn func(string) error
}

// NewModel wraps state, which may already carry an initial filter, sort,
// page and expansion. Records arrive through Init's fetch.
func NewModel(state *table.State, opts Options) Model {
	if state == nil {
		state = table.New(table.DefaultPerPage)
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	mode := settings.ThemeLight
	if opts.Settings != nil {
		mode = opts.Settings.Theme()
	}
	title := opts.Title
	if title == "" {
		title = "Tree table"
	}

	theme := NewTheme(opts.Renderer, mode)
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = theme.Renderer.NewStyle().Foreground(ColorInfo).Bold(true)

	return Model{
		ctx:      ctx,
		state:    state,
		fetch:    opts.Fetch,
		settings: opts.Settings,
		watcher:  opts.Watcher,
		title:    title,
		theme:    theme,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		spinner:  sp,
		loading:  opts.Fetch != nil,
		width:    defaultWidth,
		height:   defaultHeight,
		copyFn:   clipboard.WriteAll,

		expandAllOnLoad: opts.ExpandAllOnLoad,
	}
}

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.fetch != nil {
		cmds = append(cmds, m.spinner.Tick, FetchCmd(m.ctx, m.fetch, false))
	}
	if m.watcher != nil {
		cmds = append(cmds, WatchFileCmd(m.watcher))
	}
	return tea.Batch(cmds...)
}

// State exposes the table state.
func (m Model) State() *table.State { return m.state }

// Cursor returns the selected row index on the current page.
func (m Model) Cursor() int { return m.cursor }

// Loading reports whether the first fetch is still running.
func (m Model) Loading() bool { return m.loading }

// Err returns the last fetch error, if any.
func (m Model) Err() error { return m.err }

// StatusMessage returns the transient footer message.
func (m Model) StatusMessage() string { return m.statusMsg }

// Theme returns the active theme.
func (m Model) Theme() Theme { return m.theme }

// SelectedRecord returns the record under the cursor.
func (m Model) SelectedRecord() (model.Record, bool) {
	rows := m.state.View().Rows
	if m.cursor < 0 || m.cursor >= len(rows) {
		return model.Record{}, false
	}
	return rows[m.cursor].Node.Record, true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.picker.SetSize(m.width, m.height)
		if m.showHelp {
			m.helpView.SetSize(m.width, m.height)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case RecordsLoadedMsg:
		return m.handleLoaded(msg), nil

	case FileChangedMsg:
		debug.Log("ui: %s changed, reloading", msg.Path)
		var cmds []tea.Cmd
		if m.fetch != nil {
			cmds = append(cmds, FetchCmd(m.ctx, m.fetch, true))
		}
		if m.watcher != nil {
			cmds = append(cmds, WatchFileCmd(m.watcher))
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.showHelp {
		m.helpView, cmd = m.helpView.Update(msg)
	}
	return m, cmd
}

// handleLoaded installs fetched records. Filter, sort, page and expansion
// survive a reload; a failed reload keeps the previous records.
func (m Model) handleLoaded(msg RecordsLoadedMsg) Model {
	m.loading = false
	if msg.Err != nil {
		m.err = msg.Err
		debug.Log("ui: fetch failed: %v", msg.Err)
		return m
	}
	m.err = nil
	if msg.Reload {
		diff := datasource.DiffRecords(m.state.Records(), msg.Records)
		m.statusMsg = "Reloaded: " + diff.Summary()
	}
	m.state.SetRecords(msg.Records)
	if m.expandAllOnLoad && !msg.Reload {
		m.state.ExpandAll()
		m.expandAllOnLoad = false
	}
	m.clampPage()
	m.clampCursor()
	return m
}

// clampPage keeps the page inside [1, TotalPages] after the data changed.
func (m *Model) clampPage() {
	last := max(1, m.state.TotalPages())
	switch p := m.state.Page(); {
	case p > last:
		m.state.SetPage(last)
	case p < 1:
		m.state.SetPage(1)
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.showHelp {
		switch {
		case msg.Type == tea.KeyEsc, key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Quit):
			m.showHelp = false
			return m, nil
		}
		var cmd tea.Cmd
		m.helpView, cmd = m.helpView.Update(msg)
		return m, cmd
	}

	if m.showPicker {
		return m.handlePickerKey(msg), nil
	}

	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.loading {
		return m, nil
	}

	m.statusMsg = ""
	k := m.keys
	switch {
	case key.Matches(msg, k.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, k.Down):
		if m.cursor < len(m.state.View().Rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, k.Toggle):
		if n, ok := m.selectedNode(); ok && n.HasChildren() {
			m.state.ToggleExpand(n.ID)
		}
	case key.Matches(msg, k.ExpandAll):
		m.state.ExpandAll()
	case key.Matches(msg, k.CollapseAll):
		m.state.CollapseAll()
		m.clampCursor()
	case key.Matches(msg, k.SortEmail):
		m.state.ToggleSort(model.SortFieldEmail)
	case key.Matches(msg, k.SortBalance):
		m.state.ToggleSort(model.SortFieldBalance)
	case key.Matches(msg, k.Filter):
		m.picker = NewFilterPickerModel(m.state.Filter(), m.theme)
		m.picker.SetSize(m.width, m.height)
		m.showPicker = true
	case key.Matches(msg, k.FilterAll):
		m.applyFilter(model.FilterAll())
	case key.Matches(msg, k.FilterOn):
		m.applyFilter(model.FilterActive(true))
	case key.Matches(msg, k.FilterOff):
		m.applyFilter(model.FilterActive(false))
	case key.Matches(msg, k.Clear):
		m.state.ClearFiltersAndSorts()
		m.cursor = 0
	case key.Matches(msg, k.NextPage):
		if m.state.NextPage() {
			m.cursor = 0
		}
	case key.Matches(msg, k.PrevPage):
		if m.state.PrevPage() {
			m.cursor = 0
		}
	case key.Matches(msg, k.FirstPage):
		m.state.FirstPage()
		m.cursor = 0
	case key.Matches(msg, k.LastPage):
		m.state.LastPage()
		m.cursor = 0
	case key.Matches(msg, k.Theme):
		m.toggleTheme()
	case key.Matches(msg, k.Copy):
		m.copySelected()
	case key.Matches(msg, k.Help):
		m.helpView = NewHelpModel(m.keys, m.theme, m.width, m.height)
		m.showHelp = true
	}
	return m, nil
}

func (m Model) handlePickerKey(msg tea.KeyMsg) Model {
	switch {
	case msg.Type == tea.KeyEsc, key.Matches(msg, m.keys.Filter), key.Matches(msg, m.keys.Quit):
		m.showPicker = false
	case key.Matches(msg, m.keys.Up):
		m.picker.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.picker.MoveDown()
	case msg.Type == tea.KeyEnter:
		m.applyFilter(m.picker.Selected())
		m.showPicker = false
	}
	return m
}

func (m *Model) applyFilter(f model.FilterState) {
	m.state.SetFilter(f)
	m.cursor = 0
}

func (m *Model) toggleTheme() {
	next := m.theme.Mode.Toggle()
	if m.settings != nil {
		var err error
		next, err = m.settings.ToggleTheme()
		if err != nil {
			m.statusMsg = fmt.Sprintf("Theme not saved: %v", err)
		}
	}
	m.theme = NewTheme(m.theme.Renderer, next)
	m.spinner.Style = m.theme.Renderer.NewStyle().Foreground(ColorInfo).Bold(true)
}

func (m *Model) copySelected() {
	rec, ok := m.SelectedRecord()
	if !ok || rec.Email == "" {
		return
	}
	if err := m.copyFn(rec.Email); err != nil {
		m.statusMsg = fmt.Sprintf("Clipboard error: %v", err)
		return
	}
	m.statusMsg = fmt.Sprintf("Copied %s to clipboard", rec.Email)
}

func (m Model) selectedNode() (*model.Node, bool) {
	rows := m.state.View().Rows
	if m.cursor < 0 || m.cursor >= len(rows) {
		return nil, false
	}
	return rows[m.cursor].Node, true
}

func (m *Model) clampCursor() {
	n := len(m.state.View().Rows)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) tableView() TableView {
	return TableView{
		theme:    m.theme,
		width:    m.width,
		sort:     m.state.Sort(),
		filter:   m.state.Filter(),
		expanded: m.state.IsExpanded,
	}
}

func (m Model) View() string {
	defer metrics.Timer(metrics.UIRender)()

	if m.loading {
		return m.renderLoadingScreen()
	}
	if m.showHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.helpView.View())
	}
	if m.showPicker {
		return m.picker.View()
	}

	res := m.state.View()
	v := m.tableView()

	sections := []string{m.renderTitleBar()}
	if m.err != nil {
		sections = append(sections, m.theme.ErrorBanner.Width(m.width).Render("Failed to load data: "+m.err.Error()))
	}
	sections = append(sections, v.RenderBody(res.Rows, m.cursor))
	if bar := v.RenderPagination(res.Page); bar != "" {
		sections = append(sections, "", bar)
	}
	sections = append(sections, "", v.RenderSummary(tree.Summarize(res.Filtered)))
	if m.statusMsg != "" {
		sections = append(sections, m.theme.PrimaryBold.Render(m.statusMsg))
	}
	sections = append(sections, m.help.View(m.keys))

	return strings.Join(sections, "\n")
}

func (m Model) renderTitleBar() string {
	title := m.theme.PrimaryBold.Render(m.title)

	var tags []string
	if f := m.state.Filter(); f.IsSet() {
		tags = append(tags, "filter: "+FilterLabel(f))
	}
	if s := m.state.Sort(); s.IsSet() {
		tags = append(tags, fmt.Sprintf("sort: %s %s", s.Field, s.Order.Indicator()))
	}
	left := title
	if len(tags) > 0 {
		left += "  " + m.theme.MutedText.Render(strings.Join(tags, " · "))
	}

	icon := m.theme.SecondaryText.Render(ThemeIcon(m.theme.Mode) + " t")
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(icon))
	return left + strings.Repeat(" ", gap) + icon
}

func (m Model) renderLoadingScreen() string {
	titleStyle := m.theme.Renderer.NewStyle().Foreground(ColorText).Bold(true)
	lines := []string{
		m.spinner.View(),
		"",
		titleStyle.Render("Loading data…"),
	}
	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.Place(m.width, max(m.height-1, 1), lipgloss.Center, lipgloss.Center, content)
}
