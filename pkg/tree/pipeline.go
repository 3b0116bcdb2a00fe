package tree

import (
	"github.com/vanderheijden86/treetable/pkg/debug"
	"github.com/vanderheijden86/treetable/pkg/model"
)

// Params are the UI-selected inputs of the pipeline.
type Params struct {
	Filter   model.FilterState
	Sort     model.SortState
	Page     int // 1-based
	PerPage  int
	Expanded ExpandedSet
}

// Result is everything a renderer needs for one frame.
type Result struct {
	Rows     []model.FlattenedNode // Display sequence for the current page
	Page     model.PageInfo
	Roots    []*model.Node // Roots on the current page
	Forest   []*model.Node // Filtered and sorted forest, all pages
	Filtered []model.Record
}

// Process runs filter, build, sort, paginate and flatten in order.
// It is deterministic in its inputs and never mutates them.
func Process(records []model.Record, p Params) Result {
	defer debug.LogEnterExit("tree.Process")()

	filtered := FilterItems(records, p.Filter)
	forest := SortTree(BuildTree(filtered), p.Sort.Field, p.Sort.Order)
	page := Paginate(forest, p.Page, p.PerPage)
	rows := FlattenTree(page.Roots, p.Expanded)

	debug.Log("tree.Process: %d records, %d filtered, %d roots, page %d/%d, %d rows",
		len(records), len(filtered), len(forest), page.Info.CurrentPage, page.Info.TotalPages, len(rows))

	return Result{
		Rows:     rows,
		Page:     page.Info,
		Roots:    page.Roots,
		Forest:   forest,
		Filtered: filtered,
	}
}
