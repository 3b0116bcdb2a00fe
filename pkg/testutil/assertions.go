package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/treetable/pkg/model"
)

// AssertRecordCount verifies the expected number of records.
func AssertRecordCount(t *testing.T, records []model.Record, expected int) {
	t.Helper()
	if len(records) != expected {
		t.Errorf("expected %d records, got %d", expected, len(records))
	}
}

// AssertNoDuplicateIDs verifies all record IDs are unique.
func AssertNoDuplicateIDs(t *testing.T, records []model.Record) {
	t.Helper()
	seen := make(map[int]bool)
	for _, rec := range records {
		if seen[rec.ID] {
			t.Errorf("duplicate record ID: %d", rec.ID)
		}
		seen[rec.ID] = true
	}
}

// AssertAllValid verifies all records pass validation.
func AssertAllValid(t *testing.T, records []model.Record) {
	t.Helper()
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			t.Errorf("record %d (%d) invalid: %v", i, rec.ID, err)
		}
	}
}

// AssertRowIDs verifies the display order of flattened rows.
func AssertRowIDs(t *testing.T, rows []model.FlattenedNode, want ...int) {
	t.Helper()
	got := RowIDs(rows)
	if len(got) != len(want) {
		t.Errorf("rows = %v, want %v", got, want)
		return
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("rows = %v, want %v", got, want)
			return
		}
	}
}

// AssertJSONEqual compares two values after JSON round-tripping.
func AssertJSONEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()

	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		t.Fatalf("failed to marshal expected: %v", err)
	}

	actualJSON, err := json.Marshal(actual)
	if err != nil {
		t.Fatalf("failed to marshal actual: %v", err)
	}

	if string(expectedJSON) != string(actualJSON) {
		t.Errorf("JSON mismatch:\nexpected: %s\nactual:   %s", expectedJSON, actualJSON)
	}
}

// Golden file helpers

// GoldenFile handles golden file comparisons.
type GoldenFile struct {
	t      *testing.T
	dir    string
	name   string
	update bool
}

// NewGoldenFile creates a golden file helper.
// If GENERATE_GOLDEN env var is set, golden files will be updated.
func NewGoldenFile(t *testing.T, dir, name string) *GoldenFile {
	t.Helper()
	return &GoldenFile{
		t:      t,
		dir:    dir,
		name:   name,
		update: os.Getenv("GENERATE_GOLDEN") != "",
	}
}

// Path returns the full path to the golden file.
func (g *GoldenFile) Path() string {
	return filepath.Join(g.dir, g.name)
}

// Assert compares actual content against the golden file.
// If GENERATE_GOLDEN is set, updates the golden file instead.
func (g *GoldenFile) Assert(actual string) {
	g.t.Helper()

	path := g.Path()
	if g.update {
		if err := os.MkdirAll(g.dir, 0o755); err != nil {
			g.t.Fatalf("failed to create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0o644); err != nil {
			g.t.Fatalf("failed to write golden file: %v", err)
		}
		g.t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			g.t.Fatalf("golden file does not exist: %s\nRun with GENERATE_GOLDEN=1 to create it", path)
		}
		g.t.Fatalf("failed to read golden file: %v", err)
	}

	if string(expected) == actual {
		return
	}
	expectedLines := strings.Split(string(expected), "\n")
	actualLines := strings.Split(actual, "\n")
	for i := 0; i < len(expectedLines) || i < len(actualLines); i++ {
		var expLine, actLine string
		if i < len(expectedLines) {
			expLine = expectedLines[i]
		}
		if i < len(actualLines) {
			actLine = actualLines[i]
		}
		if expLine != actLine {
			g.t.Errorf("golden file mismatch at line %d:\nexpected: %s\nactual:   %s", i+1, expLine, actLine)
			return
		}
	}
	g.t.Errorf("golden file mismatch (length differs)")
}

// WriteRecordsFile writes records as JSONL to path, creating parent dirs.
func WriteRecordsFile(t *testing.T, path string, records []model.Record) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(ToJSONL(records)), 0o644); err != nil {
		t.Fatalf("failed to write records file: %v", err)
	}
	return path
}

// WriteFile writes raw content to name inside dir and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// RowIDs returns the record ids of flattened rows in display order.
func RowIDs(rows []model.FlattenedNode) []int {
	ids := make([]int, len(rows))
	for i, r := range rows {
		ids[i] = r.Node.ID
	}
	return ids
}

// GetIDs returns a slice of all record IDs.
func GetIDs(records []model.Record) []int {
	ids := make([]int, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
	}
	return ids
}

// FindRecord returns the record with the given ID, or nil if not found.
func FindRecord(records []model.Record, id int) *model.Record {
	for i := range records {
		if records[i].ID == id {
			return &records[i]
		}
	}
	return nil
}
