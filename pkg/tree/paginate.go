package tree

import (
	"fmt"

	"github.com/vanderheijden86/treetable/pkg/metrics"
	"github.com/vanderheijden86/treetable/pkg/model"
)

// Page is one page of roots plus the metadata for a page control.
type Page struct {
	Roots []*model.Node
	Info  model.PageInfo
}

// Paginate slices the root level of a processed forest. Descendants never
// affect page boundaries or TotalItems. Pages are 1-based; a page outside
// [1, TotalPages] yields no roots. perPage <= 0 puts everything on one page.
func Paginate(roots []*model.Node, page, perPage int) Page {
	defer metrics.Timer(metrics.PaginateStage)()

	total := len(roots)
	if perPage <= 0 {
		perPage = total
		if perPage == 0 {
			perPage = 1
		}
	}
	info := model.PageInfo{
		CurrentPage:  page,
		TotalPages:   (total + perPage - 1) / perPage,
		TotalItems:   total,
		ItemsPerPage: perPage,
	}

	if page < 1 {
		return Page{Info: info}
	}
	start := (page - 1) * perPage
	if start >= total {
		return Page{Info: info}
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return Page{Roots: roots[start:end], Info: info}
}

// Gap marks an ellipsis in the slice returned by PageNumbers.
const Gap = -1

// pageWindow is how many pages are shown on each side of the current one.
const pageWindow = 2

// PageNumbers returns the page buttons to show for a page control: the pages
// within two of the current one, plus the first and last page with a Gap
// wherever numbers are skipped. For 20 pages at page 6:
//
//	1 … 4 5 6 7 8 … 20
func PageNumbers(current, total int) []int {
	if total <= 0 {
		return nil
	}
	left := max(1, current-pageWindow)
	right := min(total, current+pageWindow)

	var pages []int
	if left > 1 {
		pages = append(pages, 1)
		if left > 2 {
			pages = append(pages, Gap)
		}
	}
	for i := left; i <= right; i++ {
		pages = append(pages, i)
	}
	if right < total {
		if right < total-1 {
			pages = append(pages, Gap)
		}
		pages = append(pages, total)
	}
	return pages
}

// RangeLabel describes which roots the page shows, e.g. "11-20 of 25".
// Returns "" when there is nothing to describe.
func RangeLabel(info model.PageInfo) string {
	if info.TotalItems == 0 || info.ItemsPerPage <= 0 || info.CurrentPage < 1 {
		return ""
	}
	start := (info.CurrentPage-1)*info.ItemsPerPage + 1
	end := min(info.CurrentPage*info.ItemsPerPage, info.TotalItems)
	if start > info.TotalItems {
		return ""
	}
	return fmt.Sprintf("%d-%d of %d", start, end, info.TotalItems)
}
