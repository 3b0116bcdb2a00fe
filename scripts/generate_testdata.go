//go:build ignore

// generate_testdata.go creates standard record datasets for benchmarking.
// Usage: go run scripts/generate_testdata.go
//
// Creates, for each size, a JSONL file and a SQLite copy:
//
//	tests/testdata/benchmark/small.{jsonl,db}   (10 roots)
//	tests/testdata/benchmark/medium.{jsonl,db}  (100 roots)
//	tests/testdata/benchmark/large.{jsonl,db}   (1000 roots)
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/treetable/internal/datasource"
	"github.com/vanderheijden86/treetable/pkg/testutil"
)

type datasetSpec struct {
	name    string
	roots   int
	depth   int
	breadth int
}

var datasets = []datasetSpec{
	{"small", 10, 2, 2},
	{"medium", 100, 3, 2},
	{"large", 1000, 3, 3},
}

func main() {
	outputDir := "tests/testdata/benchmark"
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, ds := range datasets {
		fmt.Printf("Generating %s dataset (%d roots)...\n", ds.name, ds.roots)

		gen := testutil.New(testutil.GeneratorConfig{
			Seed:         int64(ds.roots), // Reproducible per-size
			ActiveRatio:  0.6,
			MalformedPct: 0.01,
		})
		records := gen.Forest(ds.roots, ds.depth, ds.breadth)

		jsonl := testutil.ToJSONL(records)
		jsonlPath := filepath.Join(outputDir, ds.name+".jsonl")
		if err := os.WriteFile(jsonlPath, []byte(jsonl), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", jsonlPath, err)
			os.Exit(1)
		}

		dbPath := filepath.Join(outputDir, ds.name+".db")
		_ = os.Remove(dbPath)
		if err := datasource.WriteSQLite(context.Background(), dbPath, records); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", dbPath, err)
			os.Exit(1)
		}

		fmt.Printf("  Written %s (%d bytes) and %s (%d records)\n", jsonlPath, len(jsonl), dbPath, len(records))
	}

	fmt.Println("\nDone! Test datasets created in", outputDir)
}
