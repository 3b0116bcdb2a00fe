package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every binding of the table view.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	SortEmail   key.Binding
	SortBalance key.Binding
	Filter      key.Binding
	FilterAll   key.Binding
	FilterOn    key.Binding
	FilterOff   key.Binding
	Clear       key.Binding
	NextPage    key.Binding
	PrevPage    key.Binding
	FirstPage   key.Binding
	LastPage    key.Binding
	Theme       key.Binding
	Copy        key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "expand/collapse")),
		ExpandAll:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "expand all")),
		CollapseAll: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "collapse all")),
		SortEmail:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort email")),
		SortBalance: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "sort balance")),
		Filter:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		FilterAll:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		FilterOn:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "active")),
		FilterOff:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "inactive")),
		Clear:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear filters")),
		NextPage:    key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n/→", "next page")),
		PrevPage:    key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p/←", "prev page")),
		FirstPage:   key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first page")),
		LastPage:    key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last page")),
		Theme:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Copy:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy email")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.SortBalance, k.SortEmail, k.Filter, k.NextPage, k.PrevPage, k.Theme, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.ExpandAll, k.CollapseAll},
		{k.SortEmail, k.SortBalance, k.Filter, k.FilterAll, k.FilterOn, k.FilterOff, k.Clear},
		{k.NextPage, k.PrevPage, k.FirstPage, k.LastPage},
		{k.Theme, k.Copy, k.Help, k.Quit},
	}
}
