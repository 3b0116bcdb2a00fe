package loader

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/vanderheijden86/treetable/pkg/model"
)

// MockConfig shapes the generated dataset.
type MockConfig struct {
	Seed          int64         // 0 uses the current time
	Roots         int           // Top-level accounts
	MaxChildren   int           // Children per root are drawn from [0, MaxChildren]
	Grandchildren bool          // Give some children their own children
	Latency       time.Duration // FetchMock delay
}

// DefaultMockConfig returns the dataset used when nothing is configured.
func DefaultMockConfig() MockConfig {
	return MockConfig{
		Seed:          1,
		Roots:         25,
		MaxChildren:   3,
		Grandchildren: true,
		Latency:       300 * time.Millisecond,
	}
}

var (
	firstNames = []string{
		"Ava", "Liam", "Mia", "Noah", "Zoe", "Ethan", "Lena", "Oscar",
		"Iris", "Hugo", "Nora", "Felix", "Ruth", "Ivan", "Clara", "Omar",
	}
	lastNames = []string{
		"Hart", "Silva", "Novak", "Berg", "Okafor", "Reyes", "Lindqvist",
		"Moreau", "Kowalski", "Tanaka", "Byrne", "Haas", "Costa", "Petrov",
	}
	emailDomains = []string{"example.com", "mail.test", "corp.example"}
)

type mockGen struct {
	rng    *rand.Rand
	nextID int
	out    []model.Record
}

func (g *mockGen) record(parentID int) int {
	g.nextID++
	first := firstNames[g.rng.Intn(len(firstNames))]
	last := lastNames[g.rng.Intn(len(lastNames))]
	g.out = append(g.out, model.Record{
		ID:       g.nextID,
		ParentID: parentID,
		IsActive: g.rng.Intn(3) != 0,
		Balance:  FormatBalance(float64(g.rng.Intn(1_000_000)) / 100),
		Name:     first + " " + last,
		Email: fmt.Sprintf("%s.%s%d@%s",
			strings.ToLower(first), strings.ToLower(last), g.nextID,
			emailDomains[g.rng.Intn(len(emailDomains))]),
	})
	return g.nextID
}

// MockRecords generates a deterministic account hierarchy for cfg.Seed.
// Records are emitted in pre-order with sequential ids.
func MockRecords(cfg MockConfig) []model.Record {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &mockGen{rng: rand.New(rand.NewSource(seed))}

	for range max(cfg.Roots, 0) {
		root := g.record(0)
		children := 0
		if cfg.MaxChildren > 0 {
			children = g.rng.Intn(cfg.MaxChildren + 1)
		}
		for range children {
			child := g.record(root)
			if cfg.Grandchildren && g.rng.Intn(3) == 0 {
				for range 1 + g.rng.Intn(2) {
					g.record(child)
				}
			}
		}
	}
	return g.out
}

// FetchMock returns MockRecords(cfg) after cfg.Latency, like a remote call.
// It returns ctx.Err() if ctx ends first.
func FetchMock(ctx context.Context, cfg MockConfig) ([]model.Record, error) {
	if cfg.Latency > 0 {
		timer := time.NewTimer(cfg.Latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}
	return MockRecords(cfg), nil
}
