package datasource

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/vanderheijden86/treetable/pkg/model"
)

// RecordDiff describes how a record set changed between two loads
type RecordDiff struct {
	// Added contains ids present only in the new set
	Added []int
	// Removed contains ids present only in the old set
	Removed []int
	// Changed lists field-level differences for ids present in both
	Changed []FieldChange
	// CountOld is the number of distinct ids in the old set
	CountOld int
	// CountNew is the number of distinct ids in the new set
	CountNew int
}

// FieldChange is one field that differs for a record
type FieldChange struct {
	ID    int    `json:"id"`
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// HasChanges returns true if the two sets differ
func (d RecordDiff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Changed) > 0
}

// ChangedIDs returns the distinct ids with field changes, ascending
func (d RecordDiff) ChangedIDs() []int {
	seen := make(map[int]bool)
	var ids []int
	for _, c := range d.Changed {
		if !seen[c.ID] {
			seen[c.ID] = true
			ids = append(ids, c.ID)
		}
	}
	sort.Ints(ids)
	return ids
}

// Summary returns a one-line description such as "+2 -1 ~3 (40 records)"
func (d RecordDiff) Summary() string {
	if !d.HasChanges() {
		return fmt.Sprintf("no changes (%d records)", d.CountNew)
	}
	return fmt.Sprintf("+%d -%d ~%d (%d records)", len(d.Added), len(d.Removed), len(d.ChangedIDs()), d.CountNew)
}

// DiffRecords compares two record sets by id. As in the tree builder, the
// first record with a given id wins.
func DiffRecords(old, new []model.Record) RecordDiff {
	oldByID := indexRecords(old)
	newByID := indexRecords(new)

	diff := RecordDiff{CountOld: len(oldByID), CountNew: len(newByID)}

	for id := range oldByID {
		if _, ok := newByID[id]; !ok {
			diff.Removed = append(diff.Removed, id)
		}
	}
	for id, b := range newByID {
		a, ok := oldByID[id]
		if !ok {
			diff.Added = append(diff.Added, id)
			continue
		}
		diff.Changed = append(diff.Changed, compareRecords(a, b)...)
	}

	sort.Ints(diff.Added)
	sort.Ints(diff.Removed)
	sort.Slice(diff.Changed, func(i, j int) bool {
		if diff.Changed[i].ID != diff.Changed[j].ID {
			return diff.Changed[i].ID < diff.Changed[j].ID
		}
		return diff.Changed[i].Field < diff.Changed[j].Field
	})
	return diff
}

func indexRecords(records []model.Record) map[int]model.Record {
	m := make(map[int]model.Record, len(records))
	for _, r := range records {
		if _, dup := m[r.ID]; !dup {
			m[r.ID] = r
		}
	}
	return m
}

func compareRecords(a, b model.Record) []FieldChange {
	var out []FieldChange
	add := func(field, old, new string) {
		if old != new {
			out = append(out, FieldChange{ID: a.ID, Field: field, Old: old, New: new})
		}
	}
	add("parentId", strconv.Itoa(a.ParentID), strconv.Itoa(b.ParentID))
	add("isActive", strconv.FormatBool(a.IsActive), strconv.FormatBool(b.IsActive))
	add("balance", a.Balance, b.Balance)
	add("name", a.Name, b.Name)
	add("email", a.Email, b.Email)
	return out
}
