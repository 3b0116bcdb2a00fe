package model

import (
	"fmt"
	"strings"
)

// Record is a flat table row as delivered by a data source.
// ParentID 0 means the record has no parent.
type Record struct {
	ID       int    `json:"id" yaml:"id"`
	ParentID int    `json:"parentId" yaml:"parent_id"`
	IsActive bool   `json:"isActive" yaml:"is_active"`
	Balance  string `json:"balance" yaml:"balance"`
	Name     string `json:"name" yaml:"name"`
	Email    string `json:"email" yaml:"email"`
}

// Validate checks structural invariants a loader relies on.
func (r *Record) Validate() error {
	if r.ID <= 0 {
		return fmt.Errorf("record id must be positive, got %d", r.ID)
	}
	if r.ParentID < 0 {
		return fmt.Errorf("record %d: parent id cannot be negative (%d)", r.ID, r.ParentID)
	}
	return nil
}

// IsRoot reports whether the record declares no parent at all.
// Orphans (dangling parent ids) are not roots by this test; the tree builder decides that.
func (r Record) IsRoot() bool {
	return r.ParentID == 0
}

// Node is a Record placed in a forest.
type Node struct {
	Record
	Children []*Node // Child nodes in display order
	Level    int     // Nesting level (0 = root)
}

// HasChildren reports whether the node has at least one child.
func (n *Node) HasChildren() bool {
	return n != nil && len(n.Children) > 0
}

// FlattenedNode is one renderable row. RootIndex identifies the top-level root
// (within the current page) the row descends from.
type FlattenedNode struct {
	Node      *Node
	RootIndex int
}

// FilterState selects records by activity. A nil IsActive means "all".
type FilterState struct {
	IsActive *bool
}

// FilterAll returns the no-op filter.
func FilterAll() FilterState {
	return FilterState{}
}

// FilterActive returns a filter matching records whose IsActive equals active.
func FilterActive(active bool) FilterState {
	return FilterState{IsActive: &active}
}

// IsSet reports whether the filter restricts anything.
func (f FilterState) IsSet() bool {
	return f.IsActive != nil
}

// Equal compares two filters by value.
func (f FilterState) Equal(o FilterState) bool {
	if f.IsActive == nil || o.IsActive == nil {
		return f.IsActive == nil && o.IsActive == nil
	}
	return *f.IsActive == *o.IsActive
}

// String returns "all", "active" or "inactive".
func (f FilterState) String() string {
	switch {
	case f.IsActive == nil:
		return "all"
	case *f.IsActive:
		return "active"
	default:
		return "inactive"
	}
}

// ParseFilter parses the String form of a filter. Empty input means "all".
func ParseFilter(s string) (FilterState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll(), nil
	case "active", "true":
		return FilterActive(true), nil
	case "inactive", "false":
		return FilterActive(false), nil
	default:
		return FilterAll(), fmt.Errorf("invalid filter %q (want all, active or inactive)", s)
	}
}

// SortField is the column the forest is ordered by.
type SortField int

const (
	SortFieldNone    SortField = iota // Keep input order
	SortFieldBalance                  // Numeric balance
	SortFieldEmail                    // Collated email
)

// String returns a human-readable label for the sort field.
func (f SortField) String() string {
	switch f {
	case SortFieldBalance:
		return "balance"
	case SortFieldEmail:
		return "email"
	default:
		return "none"
	}
}

// ParseSortField parses "balance", "email" or ""/"none".
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SortFieldNone, nil
	case "balance":
		return SortFieldBalance, nil
	case "email":
		return SortFieldEmail, nil
	default:
		return SortFieldNone, fmt.Errorf("invalid sort field %q (want balance or email)", s)
	}
}

// SortOrder represents ascending or descending order.
type SortOrder int

const (
	SortAscending  SortOrder = iota // ▲ ascending
	SortDescending                  // ▼ descending
)

// String returns "asc" or "desc".
func (o SortOrder) String() string {
	if o == SortAscending {
		return "asc"
	}
	return "desc"
}

// Indicator returns the arrow indicator for the order.
func (o SortOrder) Indicator() string {
	if o == SortAscending {
		return "▲"
	}
	return "▼"
}

// Toggle returns the opposite order.
func (o SortOrder) Toggle() SortOrder {
	if o == SortAscending {
		return SortDescending
	}
	return SortAscending
}

// SortState is the active sort. Field SortFieldNone keeps the existing order.
type SortState struct {
	Field SortField
	Order SortOrder
}

// IsSet reports whether a sort field is selected.
func (s SortState) IsSet() bool {
	return s.Field != SortFieldNone
}

// PageInfo is the metadata a page control needs.
type PageInfo struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}
