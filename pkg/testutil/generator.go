// Package testutil provides record fixtures for the various hierarchy shapes
// the tree pipeline has to handle. All generators are deterministic.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/treetable/pkg/model"
)

// GeneratorConfig controls record generation.
type GeneratorConfig struct {
	Seed         int64   // Random seed for determinism
	ActiveRatio  float64 // Share of active records (default 0.5)
	EmailDomain  string  // Domain for generated emails (default: "example.com")
	MalformedPct float64 // Share of records given an unparseable balance
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:        42,
		ActiveRatio: 0.5,
		EmailDomain: "example.com",
	}
}

// Generator creates record fixtures with various shapes.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	if cfg.ActiveRatio <= 0 {
		cfg.ActiveRatio = 0.5
	}
	if cfg.EmailDomain == "" {
		cfg.EmailDomain = "example.com"
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// Record builds one record with generated content.
func (g *Generator) Record(id, parentID int) model.Record {
	balance := fmt.Sprintf("$%d.%02d", g.rng.Intn(10_000), g.rng.Intn(100))
	if g.cfg.MalformedPct > 0 && g.rng.Float64() < g.cfg.MalformedPct {
		balance = "n/a"
	}
	return model.Record{
		ID:       id,
		ParentID: parentID,
		IsActive: g.rng.Float64() < g.cfg.ActiveRatio,
		Balance:  balance,
		Name:     fmt.Sprintf("Account %d", id),
		Email:    fmt.Sprintf("acct%d@%s", id, g.cfg.EmailDomain),
	}
}

// Flat creates size unrelated roots.
func (g *Generator) Flat(size int) []model.Record {
	out := make([]model.Record, size)
	for i := range out {
		out[i] = g.Record(i+1, 0)
	}
	return out
}

// Chain creates 1 <- 2 <- ... <- size, each record the child of the previous.
func (g *Generator) Chain(size int) []model.Record {
	out := make([]model.Record, size)
	for i := range out {
		out[i] = g.Record(i+1, i)
	}
	return out
}

// Star creates one root with spokes direct children.
func (g *Generator) Star(spokes int) []model.Record {
	out := []model.Record{g.Record(1, 0)}
	for i := 0; i < spokes; i++ {
		out = append(out, g.Record(i+2, 1))
	}
	return out
}

// Tree creates a complete tree with the given depth and branching factor,
// listed breadth first. Depth 0 is a single root.
func (g *Generator) Tree(depth, breadth int) []model.Record {
	out := []model.Record{g.Record(1, 0)}
	level := []int{1}
	next := 2
	for d := 0; d < depth; d++ {
		var nextLevel []int
		for _, parent := range level {
			for b := 0; b < breadth; b++ {
				out = append(out, g.Record(next, parent))
				nextLevel = append(nextLevel, next)
				next++
			}
		}
		level = nextLevel
	}
	return out
}

// Cycle creates size records whose parent links form one loop.
func (g *Generator) Cycle(size int) []model.Record {
	out := make([]model.Record, size)
	for i := range out {
		parent := i
		if i == 0 {
			parent = size
		}
		out[i] = g.Record(i+1, parent)
	}
	return out
}

// Orphans creates size records whose parents do not exist.
func (g *Generator) Orphans(size int) []model.Record {
	out := make([]model.Record, size)
	for i := range out {
		out[i] = g.Record(i+1, 10_000+i)
	}
	return out
}

// Forest creates roots trees, each a Tree(depth, breadth), with ids
// continuing across trees.
func (g *Generator) Forest(roots, depth, breadth int) []model.Record {
	var out []model.Record
	offset := 0
	for r := 0; r < roots; r++ {
		tree := g.Tree(depth, breadth)
		for i := range tree {
			tree[i].ID += offset
			if tree[i].ParentID != 0 {
				tree[i].ParentID += offset
			}
		}
		offset += len(tree)
		out = append(out, tree...)
	}
	return out
}

// ToJSONL converts records to JSONL format (one JSON object per line).
func ToJSONL(records []model.Record) string {
	var sb strings.Builder
	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			continue
		}
		sb.Write(data)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ToJSONArray converts records to an indented JSON array.
func ToJSONArray(records []model.Record) string {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(data)
}

// QuickFlat creates a flat fixture with default settings.
func QuickFlat(size int) []model.Record {
	return NewDefault().Flat(size)
}

// QuickChain creates a chain fixture with default settings.
func QuickChain(size int) []model.Record {
	return NewDefault().Chain(size)
}

// QuickTree creates a tree fixture with default settings.
func QuickTree(depth, breadth int) []model.Record {
	return NewDefault().Tree(depth, breadth)
}

// QuickForest creates a forest fixture with default settings.
func QuickForest(roots, depth, breadth int) []model.Record {
	return NewDefault().Forest(roots, depth, breadth)
}
