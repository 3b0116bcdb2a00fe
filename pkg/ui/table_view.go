package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/treetable/pkg/loader"
	"github.com/vanderheijden86/treetable/pkg/model"
	"github.com/vanderheijden86/treetable/pkg/tree"
)

// TableView renders one frame of the tree table from a pipeline result.
// It holds no state of its own beyond layout.
type TableView struct {
	theme    Theme
	width    int
	sort     model.SortState
	filter   model.FilterState
	expanded func(id int) bool
}

// columns joins cells with the standard gap.
func columns(cells ...string) string {
	return strings.Join(cells, strings.Repeat(" ", colGap))
}

// RenderHeader returns the column header row with sort and filter indicators.
func (v TableView) RenderHeader() string {
	nw := nameWidth(v.width)

	status := "STATUS " + indicatorDropdown
	if v.filter.IsSet() {
		status += indicatorFiltered
	}

	line := columns(
		padRight("ID", colIDWidth),
		padRight("NAME", nw),
		padRight("EMAIL "+SortIndicator(v.sort, model.SortFieldEmail), colEmailWidth),
		padLeft("BALANCE "+SortIndicator(v.sort, model.SortFieldBalance), colBalanceWidth),
		padRight(status, colStatusWidth),
	)
	return v.theme.Header.Width(v.width).Render(line)
}

// RenderRow renders a single row. selected marks the cursor row.
func (v TableView) RenderRow(row model.FlattenedNode, selected bool) string {
	n := row.Node
	if n == nil {
		return ""
	}
	nw := nameWidth(v.width)

	expanded := v.expanded != nil && v.expanded(n.ID)
	indicator := ExpandIndicator(n.HasChildren(), expanded)
	if indicator == "" {
		indicator = " "
	}
	indent := strings.Repeat("  ", n.Level)
	name := fit(indent+indicator+" "+n.Name, nw)

	balance := n.Balance
	if balance == "" {
		balance = "-"
	}

	badge := v.theme.StatusStyle(n.IsActive).Render(StatusLabel(n.IsActive))
	badge += strings.Repeat(" ", max(0, colStatusWidth-lipgloss.Width(badge)))

	line := columns(
		v.theme.SecondaryText.Render(fit(fmt.Sprint(n.ID), colIDWidth)),
		name,
		fit(n.Email, colEmailWidth),
		padLeft(truncate(balance, colBalanceWidth), colBalanceWidth),
		badge,
	)

	switch {
	case selected:
		return v.theme.Selected.Width(v.width).Render(line)
	case row.RootIndex%2 == 1:
		return v.theme.Striped.Width(v.width).Render(line)
	default:
		return v.theme.Base.Width(v.width).Render(line)
	}
}

// RenderBody renders the header and every row, or the empty state.
func (v TableView) RenderBody(rows []model.FlattenedNode, cursor int) string {
	var sb strings.Builder
	sb.WriteString(v.RenderHeader())
	sb.WriteString("\n")

	if len(rows) == 0 {
		sb.WriteString(v.renderEmptyState())
		return sb.String()
	}
	for i, row := range rows {
		sb.WriteString(v.RenderRow(row, i == cursor))
		if i < len(rows)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// renderEmptyState renders the view when the filtered set is empty.
func (v TableView) renderEmptyState() string {
	r := v.theme.Renderer
	title := r.NewStyle().Foreground(v.theme.Primary).Bold(true).Render("No data to display")
	hint := v.theme.MutedText.Render("Try changing the filter")
	content := lipgloss.JoinVertical(lipgloss.Center, "", title, hint, "")
	return lipgloss.PlaceHorizontal(v.width, lipgloss.Center, content)
}

// RenderPagination renders the page bar. It is empty when everything fits on one page.
func (v TableView) RenderPagination(info model.PageInfo) string {
	if info.TotalPages <= 1 {
		return ""
	}

	var parts []string
	for _, p := range tree.PageNumbers(info.CurrentPage, info.TotalPages) {
		switch {
		case p == tree.Gap:
			parts = append(parts, v.theme.MutedText.Render("…"))
		case p == info.CurrentPage:
			parts = append(parts, v.theme.PrimaryBold.Render(fmt.Sprintf("[%d]", p)))
		default:
			parts = append(parts, fmt.Sprintf(" %d ", p))
		}
	}

	prev := v.theme.MutedText.Render("‹ p")
	if info.CurrentPage > 1 {
		prev = "‹ p"
	}
	next := v.theme.MutedText.Render("n ›")
	if info.CurrentPage < info.TotalPages {
		next = "n ›"
	}

	left := v.theme.MutedText.Render(tree.RangeLabel(info))
	center := prev + " " + strings.Join(parts, "") + " " + next
	right := v.theme.MutedText.Render(fmt.Sprintf("Page %d/%d", info.CurrentPage, info.TotalPages))

	gap := v.width - lipgloss.Width(left) - lipgloss.Width(center) - lipgloss.Width(right)
	if gap < 2 {
		return strings.Join([]string{left, center, right}, "  ")
	}
	lpad := gap / 2
	return left + strings.Repeat(" ", lpad) + center + strings.Repeat(" ", gap-lpad) + right
}

// RenderSummary renders the record counts and balance total of the filtered set.
func (v TableView) RenderSummary(s tree.Summary) string {
	return v.theme.MutedText.Render(fmt.Sprintf("%d records · %d active · %d inactive · total %s",
		s.Count, s.Active, s.Inactive, loader.FormatBalance(s.Total)))
}
