package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/vanderheijden86/treetable/pkg/testutil"
)

func BenchmarkLoadRecordsFromFile(b *testing.B) {
	for _, size := range []int{100, 1000, 10000} {
		b.Run(fmt.Sprintf("records=%d", size), func(b *testing.B) {
			dir := b.TempDir()
			path := filepath.Join(dir, "accounts.jsonl")

			records := testutil.QuickFlat(size)
			content := testutil.ToJSONL(records)
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				b.Fatalf("write records file: %v", err)
			}

			opts := ParseOptions{
				WarningHandler: func(string) {},
			}

			b.SetBytes(int64(len(content)))
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				loaded, err := LoadRecordsFromFileWithOptions(path, opts)
				if err != nil {
					b.Fatalf("load records: %v", err)
				}
				if len(loaded) != len(records) {
					b.Fatalf("unexpected record count: got=%d want=%d", len(loaded), len(records))
				}
			}
		})
	}
}
