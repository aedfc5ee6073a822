package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitForPath(t *testing.T, ch <-chan string, want string) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case got := <-ch:
			if filepath.Base(got) == want {
				return
			}
		case <-deadline:
			t.Fatalf("no event for %q within deadline", want)
		}
	}
}

func TestWatcher_DataFileChange(t *testing.T) {
	dataDir := t.TempDir()
	schemasDir := filepath.Join(dataDir, "schemas")
	if err := os.MkdirAll(schemasDir, 0o755); err != nil {
		t.Fatal(err)
	}

	dataCh := make(chan string, 8)
	schemaCh := make(chan string, 8)
	w, err := NewWatcher(&WatcherConfig{
		DataDir:          dataDir,
		SchemasDir:       schemasDir,
		DebounceInterval: 20 * time.Millisecond,
	}, func(p string) { dataCh <- p }, func(p string) { schemaCh <- p }, nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	writeFile(t, dataDir, "users.json", `[]`)
	waitForPath(t, dataCh, "users.json")

	writeFile(t, schemasDir, "users.json", `{"type":"array"}`)
	waitForPath(t, schemaCh, "users.json")
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dataDir := t.TempDir()

	dataCh := make(chan string, 8)
	w, err := NewWatcher(&WatcherConfig{
		DataDir:          dataDir,
		SchemasDir:       filepath.Join(dataDir, "schemas"),
		DebounceInterval: 20 * time.Millisecond,
	}, func(p string) { dataCh <- p }, nil, nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	writeFile(t, dataDir, "README.md", "notes")
	writeFile(t, dataDir, ".hidden.json", `{}`)

	select {
	case p := <-dataCh:
		t.Errorf("unexpected event for %q", p)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dataDir := t.TempDir()

	dataCh := make(chan string, 32)
	w, err := NewWatcher(&WatcherConfig{
		DataDir:          dataDir,
		SchemasDir:       filepath.Join(dataDir, "schemas"),
		DebounceInterval: 100 * time.Millisecond,
	}, func(p string) { dataCh <- p }, nil, nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	// A burst of writes inside the debounce window collapses to one
	// callback.
	for i := 0; i < 5; i++ {
		writeFile(t, dataDir, "users.json", `[]`)
		time.Sleep(10 * time.Millisecond)
	}

	waitForPath(t, dataCh, "users.json")
	select {
	case p := <-dataCh:
		t.Errorf("burst produced a second event for %q", p)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_StopCancelsPendingCallbacks(t *testing.T) {
	dataDir := t.TempDir()

	dataCh := make(chan string, 8)
	w, err := NewWatcher(&WatcherConfig{
		DataDir:          dataDir,
		SchemasDir:       filepath.Join(dataDir, "schemas"),
		DebounceInterval: 500 * time.Millisecond,
	}, func(p string) { dataCh <- p }, nil, nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	writeFile(t, dataDir, "users.json", `[]`)
	// Stop before the debounce interval elapses.
	time.Sleep(50 * time.Millisecond)
	w.Stop()

	select {
	case p := <-dataCh:
		t.Errorf("callback fired after Stop for %q", p)
	case <-time.After(700 * time.Millisecond):
	}
}

func TestWatcher_StopAfterFailedStart(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nonexistent")

	w, err := NewWatcher(&WatcherConfig{
		DataDir:          missing,
		SchemasDir:       filepath.Join(missing, "schemas"),
		DebounceInterval: 20 * time.Millisecond,
	}, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	if err := w.Start(); err == nil {
		t.Fatal("Start() on a missing data directory succeeded")
	}

	// Stop must return promptly even though the event loop never ran.
	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop() blocked after a failed Start()")
	}
}
