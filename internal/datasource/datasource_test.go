package datasource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/treetable/pkg/loader"
	"github.com/vanderheijden86/treetable/pkg/model"
	"github.com/vanderheijden86/treetable/pkg/testutil"
)

func TestDetectType(t *testing.T) {
	tests := []struct {
		path    string
		want    SourceType
		wantErr bool
	}{
		{"", SourceTypeMock, false},
		{"mock", SourceTypeMock, false},
		{"a.json", SourceTypeJSON, false},
		{"A.JSONL", SourceTypeJSONL, false},
		{"x.ndjson", SourceTypeJSONL, false},
		{"db/accounts.db", SourceTypeSQLite, false},
		{"a.sqlite3", SourceTypeSQLite, false},
		{"notes.txt", "", true},
	}
	for _, tt := range tests {
		got, err := DetectType(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("DetectType(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("DetectType(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteRecordsFile(t, filepath.Join(dir, "a.jsonl"), testutil.QuickFlat(2))

	src, err := Detect(path)
	if err != nil {
		t.Fatal(err)
	}
	if src.Type != SourceTypeJSONL || !src.IsFile() || src.Size == 0 || src.ModTime.IsZero() {
		t.Errorf("unexpected source: %+v", src)
	}
	if !strings.Contains(src.String(), "jsonl") {
		t.Errorf("String() = %q", src.String())
	}

	if _, err := Detect(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Detect(dir + "/sub.db"); err == nil {
		t.Error("expected error for missing database")
	}
}

func TestDetectAllDefaultsToMock(t *testing.T) {
	sources, err := DetectAll(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 1 || sources[0].Type != SourceTypeMock || sources[0].IsFile() {
		t.Errorf("expected a single mock source, got %+v", sources)
	}
	if got := Paths(sources); len(got) != 0 {
		t.Errorf("mock source has no watchable paths, got %v", got)
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "accounts.db")
	want := testutil.QuickTree(2, 2)

	if err := WriteSQLite(ctx, path, want); err != nil {
		t.Fatalf("WriteSQLite failed: %v", err)
	}
	// Writing again replaces the rows
	if err := WriteSQLite(ctx, path, want); err != nil {
		t.Fatalf("second WriteSQLite failed: %v", err)
	}

	src, err := Detect(path)
	if err != nil {
		t.Fatal(err)
	}
	reader, err := NewSQLiteReader(src)
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()

	count, err := reader.CountRecords(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != len(want) {
		t.Errorf("count = %d, want %d", count, len(want))
	}

	got, err := reader.LoadRecords(ctx)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertJSONEqual(t, want, got)

	active, err := reader.LoadRecordsFiltered(ctx, func(r *model.Record) bool { return r.IsActive })
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range active {
		if !r.IsActive {
			t.Errorf("filter let inactive record %d through", r.ID)
		}
	}
}

func TestNewSQLiteReaderRejectsOtherTypes(t *testing.T) {
	if _, err := NewSQLiteReader(DataSource{Type: SourceTypeJSON, Path: "x.json"}); err == nil {
		t.Error("expected error for non-SQLite source")
	}
}

func TestLoadDispatch(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	records := testutil.QuickChain(3)

	jsonPath := testutil.WriteFile(t, dir, "a.json", testutil.ToJSONArray(records))
	jsonlPath := testutil.WriteRecordsFile(t, filepath.Join(dir, "a.jsonl"), records)
	dbPath := filepath.Join(dir, "a.db")
	if err := WriteSQLite(ctx, dbPath, records); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{jsonPath, jsonlPath, dbPath} {
		src, err := Detect(path)
		if err != nil {
			t.Fatal(err)
		}
		got, err := Load(ctx, src, Options{})
		if err != nil {
			t.Fatalf("%s: %v", src.Type, err)
		}
		testutil.AssertJSONEqual(t, records, got)
	}

	mock, err := Load(ctx, DataSource{Type: SourceTypeMock}, Options{Mock: loader.MockConfig{Seed: 1, Roots: 5}})
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertRecordCount(t, mock, 5)

	if _, err := Load(ctx, DataSource{Type: "csv"}, Options{}); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestLoadSources(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	a := testutil.WriteRecordsFile(t, filepath.Join(dir, "a.jsonl"), []model.Record{{ID: 1}, {ID: 2, ParentID: 1}})
	b := testutil.WriteRecordsFile(t, filepath.Join(dir, "b.jsonl"), []model.Record{{ID: 3}})

	srcA, _ := Detect(a)
	srcB, _ := Detect(b)
	broken := DataSource{Type: SourceTypeJSONL, Path: filepath.Join(dir, "gone.jsonl")}

	records, errs, err := LoadSources(ctx, []DataSource{srcA, broken, srcB}, Options{})
	if err != nil {
		t.Fatalf("partial failure should not be fatal: %v", err)
	}
	if len(errs) != 1 {
		t.Errorf("expected 1 source error, got %v", errs)
	}
	if got := testutil.GetIDs(records); len(got) != 3 || got[2] != 3 {
		t.Errorf("ids = %v, want [1 2 3]", got)
	}

	_, _, err = LoadSources(ctx, []DataSource{broken}, Options{})
	if err == nil {
		t.Error("expected error when every source fails")
	}
}

func TestLoadSourcesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, errs, err := LoadSources(ctx, []DataSource{{Type: SourceTypeMock}}, Options{})
	if err == nil || len(errs) != 1 || !errors.Is(errs[0], context.Canceled) {
		t.Errorf("expected cancellation, got err=%v errs=%v", err, errs)
	}
}

func TestDiffRecords(t *testing.T) {
	old := []model.Record{
		{ID: 1, Balance: "$1.00"},
		{ID: 2, IsActive: true},
		{ID: 3},
	}
	updated := []model.Record{
		{ID: 1, Balance: "$2.00", Name: "renamed"},
		{ID: 3},
		{ID: 4},
	}
	d := DiffRecords(old, updated)

	if len(d.Added) != 1 || d.Added[0] != 4 {
		t.Errorf("added = %v, want [4]", d.Added)
	}
	if len(d.Removed) != 1 || d.Removed[0] != 2 {
		t.Errorf("removed = %v, want [2]", d.Removed)
	}
	if len(d.Changed) != 2 || d.Changed[0].Field != "balance" || d.Changed[1].Field != "name" {
		t.Errorf("changed = %+v", d.Changed)
	}
	if got := d.ChangedIDs(); len(got) != 1 || got[0] != 1 {
		t.Errorf("changed ids = %v, want [1]", got)
	}
	if d.Summary() != "+1 -1 ~1 (3 records)" {
		t.Errorf("summary = %q", d.Summary())
	}

	same := DiffRecords(old, old)
	if same.HasChanges() || same.Summary() != "no changes (3 records)" {
		t.Errorf("identical sets reported changes: %+v", same)
	}
}

func TestMain(m *testing.M) {
	os.Setenv(loader.RobotEnvVar, "1")
	os.Exit(m.Run())
}
