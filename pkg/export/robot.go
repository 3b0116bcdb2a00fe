// Package export renders the table state for non-interactive consumers:
// a JSON view for scripts and agents, and a Markdown report.
package export

import (
	"io"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/treetable/pkg/model"
	"github.com/vanderheijden86/treetable/pkg/table"
	"github.com/vanderheijden86/treetable/pkg/tree"
	"github.com/vanderheijden86/treetable/pkg/version"
)

// RobotRow is one visible row of the current page.
type RobotRow struct {
	ID          int    `json:"id"`
	ParentID    int    `json:"parentId"`
	Level       int    `json:"level"`
	RootIndex   int    `json:"rootIndex"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Balance     string `json:"balance"`
	IsActive    bool   `json:"isActive"`
	HasChildren bool   `json:"hasChildren"`
	Expanded    bool   `json:"expanded"`
}

// RobotParams echoes the state the view was derived from.
type RobotParams struct {
	Filter   string `json:"filter"`
	Sort     string `json:"sort"`
	Order    string `json:"order,omitempty"`
	Page     int    `json:"page"`
	PerPage  int    `json:"perPage"`
	Expanded []int  `json:"expanded"`
}

// RobotView is the machine-readable form of one rendered frame.
type RobotView struct {
	GeneratedAt string         `json:"generatedAt"`
	Version     string         `json:"version"`
	Params      RobotParams    `json:"params"`
	Page        model.PageInfo `json:"page"`
	Summary     tree.Summary   `json:"summary"`
	Rows        []RobotRow     `json:"rows"`
}

// BuildRobotView captures the current page of s.
func BuildRobotView(s *table.State, now time.Time) RobotView {
	res := s.View()

	params := RobotParams{
		Filter:   s.Filter().String(),
		Sort:     s.Sort().Field.String(),
		Page:     s.Page(),
		PerPage:  s.PerPage(),
		Expanded: s.ExpandedIDs(),
	}
	if s.Sort().IsSet() {
		params.Order = s.Sort().Order.String()
	}
	if params.Expanded == nil {
		params.Expanded = []int{}
	}

	rows := make([]RobotRow, 0, len(res.Rows))
	for _, r := range res.Rows {
		n := r.Node
		rows = append(rows, RobotRow{
			ID:          n.ID,
			ParentID:    n.ParentID,
			Level:       n.Level,
			RootIndex:   r.RootIndex,
			Name:        n.Name,
			Email:       n.Email,
			Balance:     n.Balance,
			IsActive:    n.IsActive,
			HasChildren: n.HasChildren(),
			Expanded:    n.HasChildren() && s.IsExpanded(n.ID),
		})
	}

	return RobotView{
		GeneratedAt: now.UTC().Format(time.RFC3339),
		Version:     version.Version,
		Params:      params,
		Page:        res.Page,
		Summary:     tree.Summarize(res.Filtered),
		Rows:        rows,
	}
}

// WriteRobotView encodes v as indented JSON.
func WriteRobotView(w io.Writer, v RobotView) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
