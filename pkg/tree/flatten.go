package tree

import (
	"sort"

	"github.com/vanderheijden86/treetable/pkg/metrics"
	"github.com/vanderheijden86/treetable/pkg/model"
)

// ExpandedSet holds the ids of nodes whose children are shown.
// The zero value (nil) is an empty set that can be read but not mutated.
type ExpandedSet map[int]struct{}

// NewExpandedSet returns a set containing ids.
func NewExpandedSet(ids ...int) ExpandedSet {
	s := make(ExpandedSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is expanded.
func (s ExpandedSet) Has(id int) bool {
	_, ok := s[id]
	return ok
}

// Toggle flips id and reports whether it is now expanded.
func (s ExpandedSet) Toggle(id int) bool {
	if _, ok := s[id]; ok {
		delete(s, id)
		return false
	}
	s[id] = struct{}{}
	return true
}

// Len returns the number of expanded ids.
func (s ExpandedSet) Len() int {
	return len(s)
}

// Clone returns an independent copy.
func (s ExpandedSet) Clone() ExpandedSet {
	out := make(ExpandedSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// IDs returns the expanded ids in ascending order.
func (s ExpandedSet) IDs() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// FlattenTree walks the forest in pre-order and returns the rows to render.
// A node's children are visited only when the node is expanded and has
// children; collapsed subtrees are skipped entirely. RootIndex is the index of
// the top-level node in forest that each row descends from.
func FlattenTree(forest []*model.Node, expanded ExpandedSet) []model.FlattenedNode {
	defer metrics.Timer(metrics.FlattenStage)()

	var rows []model.FlattenedNode
	onPath := make(map[*model.Node]bool)

	var visit func(node *model.Node, rootIndex int)
	visit = func(node *model.Node, rootIndex int) {
		if node == nil || onPath[node] {
			return
		}
		rows = append(rows, model.FlattenedNode{Node: node, RootIndex: rootIndex})
		if !expanded.Has(node.ID) || len(node.Children) == 0 {
			return
		}
		onPath[node] = true
		for _, child := range node.Children {
			visit(child, rootIndex)
		}
		delete(onPath, node)
	}

	for i, root := range forest {
		visit(root, i)
	}
	return rows
}

// FlattenNodes is FlattenTree without the root index.
func FlattenNodes(forest []*model.Node, expanded ExpandedSet) []*model.Node {
	rows := FlattenTree(forest, expanded)
	nodes := make([]*model.Node, len(rows))
	for i, r := range rows {
		nodes[i] = r.Node
	}
	return nodes
}
