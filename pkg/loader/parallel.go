package loader

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/treetable/pkg/debug"
	"github.com/vanderheijden86/treetable/pkg/model"
)

// MaxParallelLoads bounds concurrent file loads.
const MaxParallelLoads = 8

// LoadResult is the outcome of loading one path.
type LoadResult struct {
	Path     string
	Records  []model.Record
	Error    error
	Duration time.Duration
}

// LoadFunc loads the records behind one path.
type LoadFunc func(ctx context.Context, path string) ([]model.Record, error)

// LoadAll loads JSON/JSONL files concurrently. See LoadAllWith.
func LoadAll(ctx context.Context, paths []string, opts ParseOptions) []LoadResult {
	return LoadAllWith(ctx, paths, func(_ context.Context, path string) ([]model.Record, error) {
		return LoadRecordsFromFileWithOptions(path, opts)
	})
}

// LoadAllWith runs fn for every path with at most MaxParallelLoads in flight.
// Results come back in path order. A failing path is reported in its
// LoadResult and never cancels the others.
func LoadAllWith(ctx context.Context, paths []string, fn LoadFunc) []LoadResult {
	results := make([]LoadResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxParallelLoads)

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				results[i] = LoadResult{Path: path, Error: ctx.Err()}
				return nil
			default:
			}

			start := time.Now()
			records, err := fn(ctx, path)
			if err != nil {
				err = fmt.Errorf("loading %s: %w", path, err)
			}
			results[i] = LoadResult{
				Path:     path,
				Records:  records,
				Error:    err,
				Duration: time.Since(start),
			}
			return nil
		})
	}

	// Every goroutine returns nil, so Wait cannot fail
	_ = g.Wait()

	debug.Log("loader: finished parallel load of %d paths", len(paths))
	return results
}

// Merge concatenates the records of successful results in order and collects
// the errors of the failed ones.
func Merge(results []LoadResult) ([]model.Record, []error) {
	var records []model.Record
	var errs []error
	for _, r := range results {
		if r.Error != nil {
			errs = append(errs, r.Error)
			continue
		}
		records = append(records, r.Records...)
	}
	return records, errs
}
