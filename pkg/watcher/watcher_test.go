package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDebouncer_CoalescesRapidTriggers(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	var calls atomic.Int32

	for i := 0; i < 10; i++ {
		d.Trigger(func() { calls.Add(1) })
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(150 * time.Millisecond)

	if n := calls.Load(); n != 1 {
		t.Errorf("expected 1 callback, got %d", n)
	}
}

func TestDebouncer_LastCallbackWins(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var got atomic.Int32

	d.Trigger(func() { got.Store(1) })
	d.Trigger(func() { got.Store(2) })

	if !waitFor(t, time.Second, func() bool { return got.Load() != 0 }) {
		t.Fatal("callback never ran")
	}
	if got.Load() != 2 {
		t.Errorf("expected the last callback to run, got %d", got.Load())
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var called atomic.Bool

	d.Trigger(func() { called.Store(true) })
	d.Cancel()
	time.Sleep(100 * time.Millisecond)

	if called.Load() {
		t.Error("callback ran after Cancel")
	}
}

func TestDebouncer_DefaultDuration(t *testing.T) {
	if d := NewDebouncer(0); d.Duration() != DefaultDebounceDuration {
		t.Errorf("expected %v, got %v", DefaultDebounceDuration, d.Duration())
	}
	if d := NewDebouncer(-time.Second); d.Duration() != DefaultDebounceDuration {
		t.Errorf("negative duration should fall back to default, got %v", d.Duration())
	}
}

func TestWatcher_FileChange(t *testing.T) {
	snap := filepath.Join(t.TempDir(), "snapshot.db")
	writeFile(t, snap, "v1")

	var changed atomic.Bool
	w, err := NewWatcher(snap,
		WithDebounceDuration(20*time.Millisecond),
		WithOnChange(func() { changed.Store(true) }),
	)
	if err != nil {
		t.Fatal(err)
	}
	if w.IsDir() {
		t.Fatal("file path reported as directory")
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	writeFile(t, snap, "version two")

	if !waitFor(t, 2*time.Second, changed.Load) {
		t.Error("expected change to be detected")
	}
}

func TestWatcher_DirectoryIgnoresNonJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.json"), `{}`)

	var changes atomic.Int32
	w, err := NewWatcher(dir,
		WithDebounceDuration(20*time.Millisecond),
		WithPollInterval(30*time.Millisecond),
		WithForcePoll(true),
		WithOnChange(func() { changes.Add(1) }),
	)
	if err != nil {
		t.Fatal(err)
	}
	if !w.IsDir() {
		t.Fatal("expected directory mode")
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")
	time.Sleep(150 * time.Millisecond)
	if n := changes.Load(); n != 0 {
		t.Fatalf("non-JSON file triggered %d changes", n)
	}

	writeFile(t, filepath.Join(dir, "b.json"), `{"score": 1}`)
	if !waitFor(t, 2*time.Second, func() bool { return changes.Load() > 0 }) {
		t.Error("adding a model file was not detected")
	}
}

func TestWatcher_DirectoryRemovalIsAChange(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "a.json")
	writeFile(t, model, `{}`)

	var changed atomic.Bool
	var gotErr atomic.Value
	w, err := NewWatcher(dir,
		WithDebounceDuration(20*time.Millisecond),
		WithPollInterval(30*time.Millisecond),
		WithForcePoll(true),
		WithOnChange(func() { changed.Store(true) }),
		WithOnError(func(err error) { gotErr.Store(err) }),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.Remove(model); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, 2*time.Second, changed.Load) {
		t.Error("removing a model file should trigger a reload")
	}
	if gotErr.Load() != nil {
		t.Errorf("unexpected error: %v", gotErr.Load())
	}
}

func TestWatcher_PollingFallback(t *testing.T) {
	snap := filepath.Join(t.TempDir(), "cata_tree.json")
	writeFile(t, snap, `{"name":"root"}`)

	var changed atomic.Bool
	w, err := NewWatcher(snap,
		WithDebounceDuration(20*time.Millisecond),
		WithPollInterval(30*time.Millisecond),
		WithForcePoll(true),
		WithOnChange(func() { changed.Store(true) }),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Error("expected polling mode")
	}
	writeFile(t, snap, `{"name":"root","children":[]}`)

	if !waitFor(t, 2*time.Second, changed.Load) {
		t.Error("expected change to be detected via polling")
	}
}

func TestWatcher_ChangedChannel(t *testing.T) {
	snap := filepath.Join(t.TempDir(), "snapshot.db")
	writeFile(t, snap, "v1")

	w, err := NewWatcher(snap,
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

	go func() {
		time.Sleep(40 * time.Millisecond)
		_ = os.WriteFile(snap, []byte("v2 longer"), 0o644)
	}()

	select {
	case <-w.Changed():
	case <-time.After(2 * time.Second):
		t.Error("timeout waiting for change notification")
	}
}

func TestWatcher_FileRemoved(t *testing.T) {
	snap := filepath.Join(t.TempDir(), "snapshot.db")
	writeFile(t, snap, "v1")

	var (
		mu     sync.Mutex
		gotErr error
	)
	w, err := NewWatcher(snap,
		WithPollInterval(30*time.Millisecond),
		WithForcePoll(true),
		WithOnError(func(err error) {
			mu.Lock()
			gotErr = err
			mu.Unlock()
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.Remove(snap); err != nil {
		t.Fatal(err)
	}
	ok := waitFor(t, 2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return gotErr == ErrFileRemoved
	})
	if !ok {
		t.Errorf("expected ErrFileRemoved, got %v", gotErr)
	}
}

func TestWatcher_EnvForcePoll(t *testing.T) {
	t.Setenv(ForcePollEnv, "yes")

	w, err := NewWatcher(t.TempDir(), WithPollInterval(25*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Fatalf("expected polling mode when %s is set", ForcePollEnv)
	}
}

func TestWatcher_RemoteFilesystemUsesPolling(t *testing.T) {
	orig := detectFilesystemTypeFunc
	detectFilesystemTypeFunc = func(string) FilesystemType { return FSTypeSMB }
	t.Cleanup(func() { detectFilesystemTypeFunc = orig })

	w, err := NewWatcher(t.TempDir(), WithPollInterval(25*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Fatal("expected polling on a remote filesystem")
	}
	if got := w.FilesystemType(); got != FSTypeSMB {
		t.Fatalf("expected %v, got %v", FSTypeSMB, got)
	}
}

func TestWatcher_StartStop(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if w.IsStarted() {
		t.Error("watcher should not be started initially")
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != ErrAlreadyStarted {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}
	w.Stop()
	if w.IsStarted() {
		t.Error("watcher should be stopped")
	}
	w.Stop()
}

func TestWatcher_PathAndInterval(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir, WithPollInterval(500*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	abs, _ := filepath.Abs(dir)
	if w.Path() != abs {
		t.Errorf("expected %s, got %s", abs, w.Path())
	}
	if w.PollInterval() != 500*time.Millisecond {
		t.Errorf("unexpected poll interval %v", w.PollInterval())
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
		{FilesystemType(42), "unknown"},
	}
	for _, tc := range tests {
		if got := tc.fsType.String(); got != tc.expected {
			t.Errorf("FilesystemType(%d).String() = %q, expected %q", tc.fsType, got, tc.expected)
		}
	}
}

func TestIsRemoteFilesystem(t *testing.T) {
	if isRemoteFilesystem(FSTypeLocal) || isRemoteFilesystem(FSTypeUnknown) {
		t.Error("local and unknown filesystems are not remote")
	}
	for _, ft := range []FilesystemType{FSTypeNFS, FSTypeSMB, FSTypeSSHFS, FSTypeFUSE} {
		if !isRemoteFilesystem(ft) {
			t.Errorf("%v should be remote", ft)
		}
	}
}

func TestEnvBool(t *testing.T) {
	for value, want := range map[string]bool{
		"1": true, "true": true, "TRUE": true, "yes": true, "Y": true, "on": true,
		"0": false, "false": false, "no": false, "": false, "maybe": false, " on ": true,
	} {
		t.Run(value, func(t *testing.T) {
			t.Setenv("SV_TEST_ENV_BOOL", value)
			if got := envBool("SV_TEST_ENV_BOOL"); got != want {
				t.Errorf("envBool(%q) = %v, expected %v", value, got, want)
			}
		})
	}
}

func TestDetectFilesystemType(t *testing.T) {
	if got := DetectFilesystemType(""); got != FSTypeUnknown {
		t.Errorf("empty path: got %v", got)
	}
	// A missing path is classified by its parent and must not panic.
	_ = DetectFilesystemType(filepath.Join(t.TempDir(), "missing", "deeper.json"))
}
