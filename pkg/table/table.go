// Package table holds the interactive state of the tree table (filter, sort,
// page and expanded rows) and derives the visible rows from it.
package table

import (
	"github.com/vanderheijden86/treetable/pkg/model"
	"github.com/vanderheijden86/treetable/pkg/tree"
)

// DefaultPerPage is the page size when none is configured.
const DefaultPerPage = 10

// State is the table's mutable state. It is not safe for concurrent use;
// the UI owns it from its update loop.
type State struct {
	records  []model.Record
	filter   model.FilterState
	sort     model.SortState
	page     int
	perPage  int
	expanded tree.ExpandedSet

	rev     uint64
	viewRev uint64
	view    *tree.Result
}

// New returns an empty state on page 1 with no filter or sort.
func New(perPage int) *State {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return &State{
		page:     1,
		perPage:  perPage,
		expanded: tree.NewExpandedSet(),
		rev:      1,
	}
}

func (s *State) touch() { s.rev++ }

// SetRecords replaces the data. Filter, sort, page and expanded rows are kept.
func (s *State) SetRecords(records []model.Record) {
	s.records = records
	s.touch()
}

// Records returns the unfiltered input.
func (s *State) Records() []model.Record { return s.records }

// Filter returns the active filter.
func (s *State) Filter() model.FilterState { return s.filter }

// Sort returns the active sort.
func (s *State) Sort() model.SortState { return s.sort }

// Page returns the current 1-based page.
func (s *State) Page() int { return s.page }

// PerPage returns the page size.
func (s *State) PerPage() int { return s.perPage }

// IsExpanded reports whether id is expanded.
func (s *State) IsExpanded(id int) bool { return s.expanded.Has(id) }

// ExpandedIDs returns the expanded ids in ascending order.
func (s *State) ExpandedIDs() []int { return s.expanded.IDs() }

// ToggleExpand flips one row and reports whether it is now expanded.
func (s *State) ToggleExpand(id int) bool {
	s.touch()
	return s.expanded.Toggle(id)
}

// SetExpanded replaces the expanded set.
func (s *State) SetExpanded(ids ...int) {
	s.expanded = tree.NewExpandedSet(ids...)
	s.touch()
}

// ExpandAll expands every node of the filtered forest that has children.
func (s *State) ExpandAll() {
	s.expanded = tree.NewExpandedSet(tree.ExpandableIDs(s.View().Forest)...)
	s.touch()
}

// CollapseAll clears the expanded set.
func (s *State) CollapseAll() {
	s.expanded = tree.NewExpandedSet()
	s.touch()
}

// ToggleSort sorts by field. Selecting the active field flips the order, a
// new field starts ascending. Page and expanded rows are left alone.
func (s *State) ToggleSort(field model.SortField) {
	if field == model.SortFieldNone {
		s.sort = model.SortState{}
	} else if s.sort.Field == field {
		s.sort.Order = s.sort.Order.Toggle()
	} else {
		s.sort = model.SortState{Field: field, Order: model.SortAscending}
	}
	s.touch()
}

// SetSort sets field and order directly.
func (s *State) SetSort(sort model.SortState) {
	s.sort = sort
	s.touch()
}

// SetFilter applies a filter. Any filter change, even to the same value,
// collapses every row and returns to page 1.
func (s *State) SetFilter(f model.FilterState) {
	s.filter = f
	s.expanded = tree.NewExpandedSet()
	s.page = 1
	s.touch()
}

// SetPage stores p as given. Pages outside [1, TotalPages] render no rows.
func (s *State) SetPage(p int) {
	s.page = p
	s.touch()
}

// SetPerPage changes the page size and returns to page 1.
func (s *State) SetPerPage(n int) {
	if n <= 0 {
		n = DefaultPerPage
	}
	s.perPage = n
	s.page = 1
	s.touch()
}

// NextPage advances one page unless already on the last one.
func (s *State) NextPage() bool {
	if s.page >= s.TotalPages() {
		return false
	}
	s.SetPage(s.page + 1)
	return true
}

// PrevPage goes back one page unless already on the first one.
func (s *State) PrevPage() bool {
	if s.page <= 1 {
		return false
	}
	s.SetPage(s.page - 1)
	return true
}

// FirstPage jumps to page 1.
func (s *State) FirstPage() {
	s.SetPage(1)
}

// LastPage jumps to the last page, or page 1 when there is nothing to show.
func (s *State) LastPage() {
	s.SetPage(max(1, s.TotalPages()))
}

// TotalPages is the page count for the current filter.
func (s *State) TotalPages() int {
	return s.View().Page.TotalPages
}

// ClearFiltersAndSorts resets filter and sort. Because the filter changes,
// expanded rows and page reset as well.
func (s *State) ClearFiltersAndSorts() {
	s.sort = model.SortState{}
	s.SetFilter(model.FilterAll())
}

// HasFiltersOrSorts reports whether a filter or sort is active.
func (s *State) HasFiltersOrSorts() bool {
	return s.filter.IsSet() || s.sort.IsSet()
}

// View returns the pipeline result for the current state. The result is
// cached until the next mutation and must be treated as read-only.
func (s *State) View() tree.Result {
	if s.view != nil && s.viewRev == s.rev {
		return *s.view
	}
	res := tree.Process(s.records, tree.Params{
		Filter:   s.filter,
		Sort:     s.sort,
		Page:     s.page,
		PerPage:  s.perPage,
		Expanded: s.expanded,
	})
	s.view = &res
	s.viewRev = s.rev
	return res
}
