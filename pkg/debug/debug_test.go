package debug

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func capture(t *testing.T, on bool) *bytes.Buffer {
	t.Helper()
	orig := Enabled()
	t.Cleanup(func() { SetEnabled(orig) })

	var buf bytes.Buffer
	SetEnabled(on)
	SetOutput(&buf)
	return &buf
}

func TestLogDisabledIsSilent(t *testing.T) {
	buf := capture(t, false)
	Log("hello %d", 1)
	LogTiming("x", time.Millisecond)
	LogEnterExit("fn")()
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestLogEnabled(t *testing.T) {
	buf := capture(t, true)
	Log("hello %d", 1)
	LogIf(false, "skipped")
	LogIf(true, "kept")
	LogEnterExit("fn")()

	out := buf.String()
	for _, want := range []string{prefix, "hello 1", "kept", "-> fn", "<- fn"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "skipped") {
		t.Error("LogIf(false) wrote output")
	}
}
