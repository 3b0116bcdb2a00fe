// Package tree implements the table pipeline: filter the flat records, build the
// parent/child forest, sort every sibling list, slice the roots into a page and
// flatten the expanded part of that page into display rows.
//
// Every stage is a pure function of its inputs and returns a new structure.
package tree

import (
	"github.com/vanderheijden86/treetable/pkg/debug"
	"github.com/vanderheijden86/treetable/pkg/metrics"
	"github.com/vanderheijden86/treetable/pkg/model"
)

// BuildTree converts a flat record list into a forest.
//
// Roots are records with ParentID 0, records whose parent is not present
// (orphans, e.g. the parent was filtered out) and records whose parent link
// would close a cycle. Roots and children keep the relative order of the input.
// A repeated id keeps its first record; later duplicates are dropped.
func BuildTree(records []model.Record) []*model.Node {
	defer metrics.Timer(metrics.BuildStage)()

	if len(records) == 0 {
		return nil
	}

	// Step 1: one node per record, in input order
	byID := make(map[int]*model.Node, len(records))
	ordered := make([]*model.Node, 0, len(records))
	for _, rec := range records {
		if _, dup := byID[rec.ID]; dup {
			debug.Log("BuildTree: duplicate record id %d dropped", rec.ID)
			continue
		}
		node := &model.Node{Record: rec}
		byID[rec.ID] = node
		ordered = append(ordered, node)
	}

	// Step 2: link each node to its parent or promote it to a root
	parentOf := make(map[int]*model.Node, len(ordered))
	var roots []*model.Node
	for _, node := range ordered {
		if node.ParentID == 0 {
			roots = append(roots, node)
			continue
		}
		parent, ok := byID[node.ParentID]
		if !ok {
			roots = append(roots, node)
			continue
		}
		if closesCycle(node, parent, parentOf) {
			debug.Log("BuildTree: record %d -> parent %d closes a cycle, treated as root", node.ID, node.ParentID)
			roots = append(roots, node)
			continue
		}
		parentOf[node.ID] = parent
		parent.Children = append(parent.Children, node)
	}

	// Step 3: levels, assigned top-down so a child listed before its parent
	// still ends up one deeper than it.
	for _, root := range roots {
		assignLevels(root, 0)
	}

	return roots
}

// closesCycle reports whether linking node under parent would make node its own ancestor.
func closesCycle(node, parent *model.Node, parentOf map[int]*model.Node) bool {
	for cur := parent; cur != nil; cur = parentOf[cur.ID] {
		if cur == node {
			return true
		}
	}
	return false
}

func assignLevels(node *model.Node, level int) {
	node.Level = level
	for _, child := range node.Children {
		assignLevels(child, level+1)
	}
}

// HasChildren reports whether a node has at least one child.
func HasChildren(node *model.Node) bool {
	return node.HasChildren()
}

// Walk visits every node of the forest in pre-order. Returning false from fn
// skips that node's subtree.
func Walk(forest []*model.Node, fn func(*model.Node) bool) {
	for _, node := range forest {
		if node == nil {
			continue
		}
		if fn(node) {
			Walk(node.Children, fn)
		}
	}
}

// CountNodes returns the number of nodes across all levels of the forest.
func CountNodes(forest []*model.Node) int {
	n := 0
	Walk(forest, func(*model.Node) bool {
		n++
		return true
	})
	return n
}

// ExpandableIDs returns the ids of every node that has children, in pre-order.
func ExpandableIDs(forest []*model.Node) []int {
	var ids []int
	Walk(forest, func(node *model.Node) bool {
		if node.HasChildren() {
			ids = append(ids, node.ID)
		}
		return true
	})
	return ids
}
