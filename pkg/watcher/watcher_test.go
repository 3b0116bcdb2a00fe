package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDebouncer_CoalescesRapidTriggers(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var callCount atomic.Int32
	for i := 0; i < 10; i++ {
		d.Trigger(func() {
			callCount.Add(1)
		})
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)

	if count := callCount.Load(); count != 1 {
		t.Errorf("expected 1 callback invocation, got %d", count)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var called atomic.Bool
	d.Trigger(func() {
		called.Store(true)
	})
	d.Cancel()

	time.Sleep(100 * time.Millisecond)

	if called.Load() {
		t.Error("callback should not have been invoked after cancel")
	}
}

func TestDebouncer_DefaultDuration(t *testing.T) {
	d := NewDebouncer(0)
	if d.Duration() != DefaultDebounceDuration {
		t.Errorf("expected default duration %v, got %v", DefaultDebounceDuration, d.Duration())
	}
}

func TestWatcher_DetectsFileChange(t *testing.T) {
	tmpFile := writeTemp(t, "accounts.jsonl", "initial")

	var (
		changeMu sync.Mutex
		changed  bool
	)
	w, err := NewWatcher(tmpFile,
		WithDebounceDuration(50*time.Millisecond),
		WithOnChange(func() {
			changeMu.Lock()
			changed = true
			changeMu.Unlock()
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(tmpFile, []byte("modified content"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		changeMu.Lock()
		done := changed
		changeMu.Unlock()
		if done {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Error("expected change to be detected")
}

func TestWatcher_PollingFallback(t *testing.T) {
	tmpFile := writeTemp(t, "accounts.jsonl", "initial")

	w, err := NewWatcher(tmpFile,
		WithDebounceDuration(20*time.Millisecond),
		WithPollInterval(30*time.Millisecond),
		WithForcePoll(true),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Error("expected watcher to be in polling mode")
	}

	go func() {
		time.Sleep(50 * time.Millisecond)
		os.WriteFile(tmpFile, []byte("modified via polling"), 0644)
	}()

	select {
	case <-w.Changed():
	case <-time.After(2 * time.Second):
		t.Error("timeout waiting for change notification")
	}
}

func TestWatcher_EnvForcePoll(t *testing.T) {
	for _, env := range []string{EnvForcePoll, EnvForcePolling} {
		t.Run(env, func(t *testing.T) {
			t.Setenv(env, "true")

			w, err := NewWatcher(writeTemp(t, "a.json", "[]"),
				WithDebounceDuration(10*time.Millisecond),
				WithPollInterval(25*time.Millisecond),
			)
			if err != nil {
				t.Fatal(err)
			}
			if err := w.Start(); err != nil {
				t.Fatal(err)
			}
			defer w.Stop()

			if !w.IsPolling() {
				t.Fatalf("expected polling mode when %s is set", env)
			}
		})
	}
}

func TestWatcher_RemoteFilesystem_UsesPolling(t *testing.T) {
	tmpFile := writeTemp(t, "accounts.db", "x")

	orig := detectFilesystemTypeFunc
	detectFilesystemTypeFunc = func(string) FilesystemType { return FSTypeNFS }
	t.Cleanup(func() { detectFilesystemTypeFunc = orig })

	w, err := NewWatcher(tmpFile, WithPollInterval(25*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Fatal("expected watcher to use polling on remote filesystem")
	}
	if got := w.FilesystemType(); got != FSTypeNFS {
		t.Fatalf("expected filesystem type %v, got %v", FSTypeNFS, got)
	}
}

func TestWatcher_FileRemoved(t *testing.T) {
	tmpFile := writeTemp(t, "accounts.jsonl", "initial")

	errCh := make(chan error, 4)
	w, err := NewWatcher(tmpFile,
		WithPollInterval(30*time.Millisecond),
		WithForcePoll(true),
		WithOnError(func(err error) {
			select {
			case errCh <- err:
			default:
			}
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	if err := os.Remove(tmpFile); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-errCh:
		if !errors.Is(got, ErrFileRemoved) {
			t.Errorf("expected ErrFileRemoved, got %v", got)
		}
	case <-time.After(2 * time.Second):
		t.Error("timeout waiting for removal error")
	}
}

func TestWatcher_StartStop(t *testing.T) {
	w, err := NewWatcher(writeTemp(t, "a.jsonl", "initial"))
	if err != nil {
		t.Fatal(err)
	}

	if w.IsStarted() {
		t.Error("watcher should not be started initially")
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	if !w.IsStarted() {
		t.Error("watcher should be started after Start()")
	}
	if err := w.Start(); err != ErrAlreadyStarted {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}

	w.Stop()
	if w.IsStarted() {
		t.Error("watcher should not be started after Stop()")
	}
	// Double stop should be safe
	w.Stop()
}

func TestWatcher_PathAndPollInterval(t *testing.T) {
	tmpFile := writeTemp(t, "a.jsonl", "initial")
	w, err := NewWatcher(tmpFile, WithPollInterval(500*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}

	absPath, _ := filepath.Abs(tmpFile)
	if w.Path() != absPath {
		t.Errorf("expected path %s, got %s", absPath, w.Path())
	}
	if got := w.PollInterval(); got != 500*time.Millisecond {
		t.Errorf("expected poll interval 500ms, got %v", got)
	}
}

func TestGroup(t *testing.T) {
	a := writeTemp(t, "a.jsonl", "1")
	b := writeTemp(t, "b.jsonl", "1")

	g, err := NewGroup([]string{a, b},
		WithForcePoll(true),
		WithPollInterval(30*time.Millisecond),
		WithDebounceDuration(10*time.Millisecond),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}
	defer g.Stop()

	if !g.Polling() || len(g.Watchers()) != 2 {
		t.Fatalf("unexpected group state")
	}

	go func() {
		time.Sleep(50 * time.Millisecond)
		os.WriteFile(b, []byte("changed"), 0644)
	}()

	select {
	case path := <-g.Changed():
		want, _ := filepath.Abs(b)
		if path != want {
			t.Errorf("changed path = %s, want %s", path, want)
		}
	case <-time.After(2 * time.Second):
		t.Error("timeout waiting for group notification")
	}

	g.Stop()
	g.Stop()
}

func TestNewGroup_NoPaths(t *testing.T) {
	if _, err := NewGroup(nil); !errors.Is(err, ErrNoPaths) {
		t.Errorf("expected ErrNoPaths, got %v", err)
	}
}

func TestFilesystemType_String(t *testing.T) {
	tests := []struct {
		fsType   FilesystemType
		expected string
	}{
		{FSTypeUnknown, "unknown"},
		{FSTypeLocal, "local"},
		{FSTypeNFS, "nfs"},
		{FSTypeSMB, "smb"},
		{FSTypeSSHFS, "sshfs"},
		{FSTypeFUSE, "fuse"},
		{FilesystemType(99), "unknown"},
	}
	for _, tc := range tests {
		if got := tc.fsType.String(); got != tc.expected {
			t.Errorf("FilesystemType(%d).String() = %q, expected %q", tc.fsType, got, tc.expected)
		}
	}
}

func TestEnvBool(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"y", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"", false},
		{"invalid", false},
	}
	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			t.Setenv("TT_TEST_ENV_BOOL", tc.value)
			if got := envBool("TT_TEST_ENV_BOOL"); got != tc.expected {
				t.Errorf("envBool(%q) = %v, expected %v", tc.value, got, tc.expected)
			}
		})
	}
}

func TestDetectFilesystemType(t *testing.T) {
	if got := DetectFilesystemType(""); got != FSTypeUnknown {
		t.Errorf("DetectFilesystemType(\"\") = %v, expected FSTypeUnknown", got)
	}
	// Missing files are classified by their directory
	missing := filepath.Join(t.TempDir(), "does_not_exist.jsonl")
	if got := DetectFilesystemType(missing); got == FSTypeUnknown {
		t.Errorf("expected the temp dir to be classified, got %v", got)
	}
}
