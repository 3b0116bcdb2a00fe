package tree

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/vanderheijden86/treetable/pkg/debug"
	"github.com/vanderheijden86/treetable/pkg/metrics"
	"github.com/vanderheijden86/treetable/pkg/model"
)

var (
	balanceStripper = strings.NewReplacer("$", "", ",", "")
	balanceSyntax   = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)
)

// ParseBalance converts a currency string such as "$1,234.56" to a float.
// Malformed input returns NaN.
func ParseBalance(balance string) float64 {
	s := balanceStripper.Replace(strings.TrimSpace(balance))
	if !balanceSyntax.MatchString(s) {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// SortTree returns a copy of the forest with every sibling list ordered by
// field and order. The sort is stable, so equal keys keep their prior order.
// SortFieldNone returns the forest unchanged.
//
// Balances that do not parse sort after every numeric balance in both
// directions.
func SortTree(forest []*model.Node, field model.SortField, order model.SortOrder) []*model.Node {
	if field == model.SortFieldNone {
		return forest
	}
	defer metrics.Timer(metrics.SortStage)()

	s := &sorter{field: field, desc: order == model.SortDescending}
	if field == model.SortFieldEmail {
		s.coll = collate.New(language.Und)
	}
	out := s.sortLevel(forest, make(map[*model.Node]bool))
	debug.LogIf(s.malformed > 0, "SortTree: %d node(s) with unparseable balance placed last", s.malformed)
	return out
}

type sorter struct {
	field     model.SortField
	desc      bool
	coll      *collate.Collator
	malformed int
}

// sortLevel copies and orders one sibling list, then recurses into each child list.
// onPath guards against hand-built forests that contain cycles.
func (s *sorter) sortLevel(nodes []*model.Node, onPath map[*model.Node]bool) []*model.Node {
	if nodes == nil {
		return nil
	}
	out := make([]*model.Node, 0, len(nodes))
	for _, n := range nodes {
		if n == nil || onPath[n] {
			continue
		}
		out = append(out, n)
	}

	switch s.field {
	case model.SortFieldBalance:
		keys := make(map[*model.Node]float64, len(out))
		for _, n := range out {
			v := ParseBalance(n.Balance)
			if math.IsNaN(v) {
				s.malformed++
			}
			keys[n] = v
		}
		sort.SliceStable(out, func(i, j int) bool {
			return s.balanceLess(keys[out[i]], keys[out[j]])
		})
	case model.SortFieldEmail:
		sort.SliceStable(out, func(i, j int) bool {
			c := s.coll.CompareString(out[i].Email, out[j].Email)
			if s.desc {
				return c > 0
			}
			return c < 0
		})
	}

	for i, n := range out {
		copied := *n
		onPath[n] = true
		copied.Children = s.sortLevel(n.Children, onPath)
		delete(onPath, n)
		out[i] = &copied
	}
	return out
}

func (s *sorter) balanceLess(a, b float64) bool {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return false
	case aNaN:
		return false
	case bNaN:
		return true
	case s.desc:
		return a > b
	default:
		return a < b
	}
}
