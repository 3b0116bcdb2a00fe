package datasource

import (
	"context"
	"fmt"

	"github.com/vanderheijden86/treetable/pkg/loader"
	"github.com/vanderheijden86/treetable/pkg/model"
)

// Options tune Load.
type Options struct {
	Mock  loader.MockConfig
	Parse loader.ParseOptions
}

// Load reads records from one source, dispatching on its type.
func Load(ctx context.Context, source DataSource, opts Options) ([]model.Record, error) {
	switch source.Type {
	case SourceTypeSQLite:
		reader, err := NewSQLiteReader(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite source %s: %w", source.Path, err)
		}
		defer reader.Close()
		return reader.LoadRecords(ctx)

	case SourceTypeJSON, SourceTypeJSONL:
		return loader.LoadRecordsFromFileWithOptions(source.Path, opts.Parse)

	case SourceTypeMock:
		return loader.FetchMock(ctx, opts.Mock)

	default:
		return nil, fmt.Errorf("unknown source type: %s", source.Type)
	}
}

// LoadSources loads every source concurrently and merges the records in
// source order. It fails only when every source failed; partial failures are
// returned alongside the records.
func LoadSources(ctx context.Context, sources []DataSource, opts Options) ([]model.Record, []error, error) {
	byPath := make(map[string]DataSource, len(sources))
	keys := make([]string, len(sources))
	for i, s := range sources {
		key := s.Path
		if key == "" {
			key = fmt.Sprintf("%s#%d", s.Type, i)
		}
		keys[i] = key
		byPath[key] = s
	}

	results := loader.LoadAllWith(ctx, keys, func(ctx context.Context, key string) ([]model.Record, error) {
		return Load(ctx, byPath[key], opts)
	})
	records, errs := loader.Merge(results)
	if len(sources) > 0 && len(errs) == len(sources) {
		return nil, errs, fmt.Errorf("all %d data sources failed: %w", len(sources), errs[0])
	}
	return records, errs, nil
}
