package export

import (
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/vanderheijden86/treetable/pkg/loader"
	"github.com/vanderheijden86/treetable/pkg/model"
	"github.com/vanderheijden86/treetable/pkg/table"
	"github.com/vanderheijden86/treetable/pkg/tree"
)

// sanitizeCell prepares text for a Markdown table cell.
func sanitizeCell(text string) string {
	replacer := strings.NewReplacer(
		"|", "\\|",
		"\n", " ",
		"\r", "",
	)
	result := replacer.Replace(text)

	result = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, result)

	return strings.TrimSpace(result)
}

// nameCell indents a name by level with non-breaking spaces so the
// hierarchy survives Markdown whitespace folding.
func nameCell(n *model.Node, expanded bool) string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("  ", n.Level))
	switch {
	case n.HasChildren() && expanded:
		sb.WriteString("▾ ")
	case n.HasChildren():
		sb.WriteString("▸ ")
	case n.Level > 0:
		sb.WriteString("└ ")
	}
	sb.WriteString(sanitizeCell(n.Name))
	return sb.String()
}

// MarkdownTable renders rows as a GitHub-flavored Markdown table.
func MarkdownTable(rows []model.FlattenedNode, isExpanded func(id int) bool) string {
	var sb strings.Builder
	sb.WriteString("| ID | Name | Email | Balance | Status |\n")
	sb.WriteString("|---:|------|-------|--------:|--------|\n")
	for _, r := range rows {
		n := r.Node
		expanded := isExpanded != nil && isExpanded(n.ID)
		status := "Inactive"
		if n.IsActive {
			status = "Active"
		}
		fmt.Fprintf(&sb, "| %d | %s | %s | %s | %s |\n",
			n.ID, nameCell(n, expanded), sanitizeCell(n.Email), sanitizeCell(n.Balance), status)
	}
	return sb.String()
}

// GenerateMarkdown creates a report of the current page of s.
func GenerateMarkdown(s *table.State, title string, now time.Time) string {
	res := s.View()
	sum := tree.Summarize(res.Filtered)

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "*Generated: %s*\n\n", now.Format(time.RFC1123))

	sb.WriteString("| Metric | Value |\n|--------|-------|\n")
	fmt.Fprintf(&sb, "| Filter | %s |\n", s.Filter())
	if s.Sort().IsSet() {
		fmt.Fprintf(&sb, "| Sort | %s %s |\n", s.Sort().Field, s.Sort().Order.Indicator())
	} else {
		sb.WriteString("| Sort | none |\n")
	}
	fmt.Fprintf(&sb, "| Records | %d (%d active, %d inactive) |\n", sum.Count, sum.Active, sum.Inactive)
	fmt.Fprintf(&sb, "| Total balance | %s |\n", loader.FormatBalance(sum.Total))
	if sum.Malformed > 0 {
		fmt.Fprintf(&sb, "| Unparsed balances | %d |\n", sum.Malformed)
	}
	if label := tree.RangeLabel(res.Page); label != "" {
		fmt.Fprintf(&sb, "| Page | %d of %d (roots %s) |\n", res.Page.CurrentPage, res.Page.TotalPages, label)
	}
	sb.WriteString("\n")

	if len(res.Rows) == 0 {
		sb.WriteString("_No data to display._\n")
		return sb.String()
	}
	sb.WriteString(MarkdownTable(res.Rows, s.IsExpanded))
	return sb.String()
}

// SaveMarkdownToFile writes GenerateMarkdown output to filename.
func SaveMarkdownToFile(s *table.State, filename, title string) error {
	content := GenerateMarkdown(s, title, time.Now())
	if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing markdown: %w", err)
	}
	return nil
}
