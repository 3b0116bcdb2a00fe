// Package loader reads account records from JSON and JSONL files and
// generates the mock dataset used when no file is configured.
package loader

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/treetable/pkg/metrics"
	"github.com/vanderheijden86/treetable/pkg/model"
)

// RobotEnvVar silences default warnings when set to "1".
const RobotEnvVar = "TT_ROBOT"

// DefaultMaxBufferSize is the default maximum JSONL line length (10MB).
const DefaultMaxBufferSize = 1024 * 1024 * 10

// readChunk is the reader buffer size. Longer lines are assembled on demand.
const readChunk = 64 * 1024

// ParseOptions configures the behavior of ParseRecords.
type ParseOptions struct {
	// WarningHandler is called with warning messages (e.g., malformed JSON).
	// If nil, warnings are printed to os.Stderr.
	WarningHandler func(string)

	// BufferSize sets the maximum JSONL line size (in bytes) to read at once.
	// Lines longer than this are skipped with a warning.
	// If 0, uses DefaultMaxBufferSize (10MB).
	BufferSize int

	// RecordFilter optionally filters parsed records. Return true to include.
	RecordFilter func(*model.Record) bool
}

func (o ParseOptions) warn() func(string) {
	if o.WarningHandler != nil {
		return o.WarningHandler
	}
	if os.Getenv(RobotEnvVar) == "1" {
		return func(string) {}
	}
	return func(msg string) {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
	}
}

// LoadRecordsFromFile reads records from a JSON array or JSONL file.
func LoadRecordsFromFile(path string) ([]model.Record, error) {
	return LoadRecordsFromFileWithOptions(path, ParseOptions{})
}

// LoadRecordsFromFileWithOptions reads records from a file with custom options.
func LoadRecordsFromFileWithOptions(path string, opts ParseOptions) ([]model.Record, error) {
	defer metrics.Timer(metrics.RecordLoad)()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no records found at %s", path)
		}
		return nil, fmt.Errorf("failed to open records file: %w", err)
	}
	defer file.Close()

	return ParseRecordsWithOptions(file, opts)
}

// ParseRecords parses records from r. The format is chosen from the first
// non-space byte: '[' means a JSON array, anything else JSONL.
func ParseRecords(r io.Reader) ([]model.Record, error) {
	return ParseRecordsWithOptions(r, ParseOptions{})
}

// ParseRecordsWithOptions parses records with custom options.
func ParseRecordsWithOptions(r io.Reader, opts ParseOptions) ([]model.Record, error) {
	maxCapacity := opts.BufferSize
	if maxCapacity <= 0 {
		maxCapacity = DefaultMaxBufferSize
	}
	reader := bufio.NewReaderSize(r, min(maxCapacity, readChunk))

	first, err := peekFirstByte(reader)
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading records stream: %w", err)
	}
	if first == '[' {
		return parseArray(reader, opts)
	}
	return parseLines(reader, opts, maxCapacity)
}

// peekFirstByte skips a BOM and leading whitespace and returns the next byte
// without consuming it.
func peekFirstByte(r *bufio.Reader) (byte, error) {
	if bom, err := r.Peek(3); err == nil && bytes.Equal(bom, utf8BOM) {
		_, _ = r.Discard(3)
	}
	for {
		b, err := r.Peek(1)
		if err != nil {
			return 0, err
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			_, _ = r.Discard(1)
		default:
			return b[0], nil
		}
	}
}

// parseArray decodes a JSON array. Elements are decoded one by one so a bad
// element is skipped instead of failing the whole file.
func parseArray(r io.Reader, opts ParseOptions) ([]model.Record, error) {
	warn := opts.warn()

	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid JSON array: %w", err)
	}

	records := make([]model.Record, 0, len(raw))
	for i, elem := range raw {
		var rec model.Record
		if err := json.Unmarshal(elem, &rec); err != nil {
			warn(fmt.Sprintf("skipping malformed element %d: %v", i, err))
			continue
		}
		if err := rec.Validate(); err != nil {
			warn(fmt.Sprintf("skipping invalid record at element %d: %v", i, err))
			continue
		}
		if opts.RecordFilter != nil && !opts.RecordFilter(&rec) {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseLines(reader *bufio.Reader, opts ParseOptions, maxCapacity int) ([]model.Record, error) {
	warn := opts.warn()

	var records []model.Record
	lineNum := 0
	for {
		lineNum++
		line, tooLong, err := readLine(reader, maxCapacity)
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("error reading records stream at line %d: %w", lineNum, err)
		}
		if tooLong {
			warn(fmt.Sprintf("skipping line %d: line too long (exceeds %d bytes)", lineNum, maxCapacity))
			continue
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var rec model.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			warn(fmt.Sprintf("skipping malformed JSON on line %d: %v", lineNum, err))
			continue
		}
		if err := rec.Validate(); err != nil {
			warn(fmt.Sprintf("skipping invalid record on line %d: %v", lineNum, err))
			continue
		}
		if opts.RecordFilter != nil && !opts.RecordFilter(&rec) {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// readLine returns the next line without its line ending. A line that fits the
// reader buffer is returned without copying and is only valid until the next
// read. Fragments of a longer line are joined until limit is passed, after
// which the rest of the line is discarded and tooLong is set.
func readLine(r *bufio.Reader, limit int) (line []byte, tooLong bool, err error) {
	var buf []byte
	for {
		frag, isPrefix, err := r.ReadLine()
		if err != nil {
			if err == io.EOF && (buf != nil || tooLong) {
				return buf, tooLong, nil
			}
			return nil, false, err
		}
		switch {
		case tooLong:
		case len(buf)+len(frag) > limit:
			tooLong, buf = true, nil
		case !isPrefix && buf == nil:
			return frag, false, nil
		default:
			buf = append(buf, frag...)
		}
		if !isPrefix {
			return buf, tooLong, nil
		}
	}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteJSONL writes records one per line.
func WriteJSONL(w io.Writer, records []model.Record) error {
	enc := json.NewEncoder(w)
	for i := range records {
		if err := enc.Encode(&records[i]); err != nil {
			return fmt.Errorf("encoding record %d: %w", records[i].ID, err)
		}
	}
	return nil
}
