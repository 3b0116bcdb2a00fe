// Package datasource resolves where account records come from (JSON, JSONL,
// SQLite or the built-in mock) and loads them.
package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SourceType identifies the type of data source
type SourceType string

const (
	// SourceTypeJSON is a file holding one JSON array of records
	SourceTypeJSON SourceType = "json"
	// SourceTypeJSONL is a file with one JSON record per line
	SourceTypeJSONL SourceType = "jsonl"
	// SourceTypeSQLite is a SQLite database with a records table
	SourceTypeSQLite SourceType = "sqlite"
	// SourceTypeMock is the generated dataset
	SourceTypeMock SourceType = "mock"
)

// DataSource represents a source of records
type DataSource struct {
	// Type identifies the source type
	Type SourceType `json:"type"`
	// Path is the file path; empty for the mock source
	Path string `json:"path,omitempty"`
	// ModTime is the last modification time of the file
	ModTime time.Time `json:"mod_time,omitempty"`
	// Size is the file size in bytes
	Size int64 `json:"size,omitempty"`
}

// String returns a human-readable description of the source
func (s DataSource) String() string {
	if s.Type == SourceTypeMock {
		return "mock data"
	}
	if s.ModTime.IsZero() {
		return fmt.Sprintf("%s (%s)", s.Path, s.Type)
	}
	return fmt.Sprintf("%s (%s, %d bytes, mod=%s)", s.Path, s.Type, s.Size, s.ModTime.Format(time.RFC3339))
}

// IsFile reports whether the source is backed by a file that can be watched.
func (s DataSource) IsFile() bool {
	return s.Type != SourceTypeMock && s.Path != ""
}

// DetectType maps a file extension to a SourceType. An empty path is the
// mock source.
func DetectType(path string) (SourceType, error) {
	if path == "" || path == "mock" {
		return SourceTypeMock, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SourceTypeJSON, nil
	case ".jsonl", ".ndjson":
		return SourceTypeJSONL, nil
	case ".db", ".sqlite", ".sqlite3":
		return SourceTypeSQLite, nil
	default:
		return "", fmt.Errorf("unrecognized data file extension: %q", path)
	}
}

// Detect builds a DataSource for path and fills in file metadata.
func Detect(path string) (DataSource, error) {
	typ, err := DetectType(path)
	if err != nil {
		return DataSource{}, err
	}
	src := DataSource{Type: typ}
	if typ == SourceTypeMock {
		return src, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	src.Path = abs

	info, err := os.Stat(abs)
	if err != nil {
		return src, fmt.Errorf("cannot stat data source: %w", err)
	}
	if info.IsDir() {
		return src, fmt.Errorf("data source is a directory: %s", abs)
	}
	src.ModTime = info.ModTime()
	src.Size = info.Size()
	return src, nil
}

// DetectAll detects every path. An empty list yields the mock source.
func DetectAll(paths []string) ([]DataSource, error) {
	if len(paths) == 0 {
		return []DataSource{{Type: SourceTypeMock}}, nil
	}
	sources := make([]DataSource, 0, len(paths))
	for _, p := range paths {
		src, err := Detect(p)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// Paths returns the file paths of sources that can be watched.
func Paths(sources []DataSource) []string {
	var out []string
	for _, s := range sources {
		if s.IsFile() {
			out = append(out, s.Path)
		}
	}
	return out
}
