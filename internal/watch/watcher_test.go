package watch

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type changeLog struct {
	mu      sync.Mutex
	batches [][]string
}

func (c *changeLog) record(files []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batches = append(c.batches, files)
	return nil
}

func (c *changeLog) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.batches)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("timed out waiting for condition")
}

func TestFileWatcher_Start(t *testing.T) {
	tmpDir := t.TempDir()
	dataDir := filepath.Join(tmpDir, "data", "weapons")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		t.Fatal(err)
	}
	schemaFile := filepath.Join(tmpDir, "items.yml")
	if err := os.WriteFile(schemaFile, []byte("Item: {}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	changes := &changeLog{}
	watcher, err := NewFileWatcher(Config{
		Paths:    []string{schemaFile, filepath.Join(tmpDir, "data")},
		Patterns: []string{"*.xml"},
		Delay:    50 * time.Millisecond,
	}, changes.record)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer watcher.Stop()

	if err := watcher.Start(); err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}

	// Nested input directories are watched.
	if err := os.WriteFile(filepath.Join(dataDir, "sword.xml"), []byte("<Item/>"), 0644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return changes.count() == 1 })

	// The schema matches by name even though it is not *.xml.
	if err := os.WriteFile(schemaFile, []byte("Item: {Name: STRING}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return changes.count() == 2 })

	changes.mu.Lock()
	defer changes.mu.Unlock()
	if got := changes.batches[1]; len(got) != 1 || filepath.Base(got[0]) != "items.yml" {
		t.Errorf("Expected the schema change, got %v", got)
	}
}

func TestFileWatcher_AddAfterStart(t *testing.T) {
	tmpDir := t.TempDir()
	schemaFile := filepath.Join(tmpDir, "items.yml")
	libFile := filepath.Join(tmpDir, "lib", "common.lib")
	if err := os.MkdirAll(filepath.Dir(libFile), 0755); err != nil {
		t.Fatal(err)
	}
	for _, f := range []string{schemaFile, libFile} {
		if err := os.WriteFile(f, []byte("Item: {}\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	changes := &changeLog{}
	watcher, err := NewFileWatcher(Config{
		Paths:    []string{schemaFile},
		Patterns: []string{"*.xml"},
		Delay:    50 * time.Millisecond,
	}, changes.record)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer watcher.Stop()

	if err := watcher.Start(); err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}
	if err := watcher.Add([]string{schemaFile, libFile}); err != nil {
		t.Fatalf("Add() returned error: %v", err)
	}

	// The library lives outside every watched directory and matches no pattern.
	if err := os.WriteFile(libFile, []byte("Item: {Name: STRING}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return changes.count() == 1 })

	changes.mu.Lock()
	defer changes.mu.Unlock()
	if got := changes.batches[0]; len(got) != 1 || got[0] != libFile {
		t.Errorf("Expected the library change, got %v", got)
	}
}

func TestFileWatcher_StartMissingPath(t *testing.T) {
	watcher, err := NewFileWatcher(Config{
		Paths: []string{filepath.Join(t.TempDir(), "missing")},
	}, func([]string) error { return nil })
	if err != nil {
		t.Fatal(err)
	}
	defer watcher.Stop()

	if err := watcher.Start(); err == nil {
		t.Error("Expected error for a missing path")
	}
}

func TestDebouncer_Add(t *testing.T) {
	var mu sync.Mutex
	var called bool
	var files []string

	debouncer := NewDebouncer(50 * time.Millisecond)
	debouncer.SetCallback(func(f []string) {
		mu.Lock()
		defer mu.Unlock()
		called = true
		files = f
	})

	debouncer.Add("b.xml")
	debouncer.Add("a.xml")
	debouncer.Add("b.xml") // Duplicate

	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	if !called {
		t.Fatal("Expected callback to be called")
	}
	if len(files) != 2 || files[0] != "a.xml" || files[1] != "b.xml" {
		t.Errorf("Expected sorted unique files, got %v", files)
	}
}

func TestDebouncer_MultipleFlushes(t *testing.T) {
	var mu sync.Mutex
	var callCount int

	debouncer := NewDebouncer(30 * time.Millisecond)
	debouncer.SetCallback(func(f []string) {
		mu.Lock()
		defer mu.Unlock()
		callCount++
	})

	debouncer.Add("a.xml")
	time.Sleep(100 * time.Millisecond)

	debouncer.Add("b.xml")
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	if callCount != 2 {
		t.Errorf("Expected 2 callback calls, got %d", callCount)
	}
}

func TestDebouncer_Stop(t *testing.T) {
	var mu sync.Mutex
	var called bool

	debouncer := NewDebouncer(30 * time.Millisecond)
	debouncer.SetCallback(func([]string) {
		mu.Lock()
		defer mu.Unlock()
		called = true
	})

	debouncer.Add("a.xml")
	debouncer.Stop()
	debouncer.Stop()
	debouncer.Add("b.xml")
	time.Sleep(80 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if called {
		t.Error("Expected no callback after Stop")
	}
}

func TestFileWatcher_ShouldIgnore(t *testing.T) {
	watcher := &FileWatcher{
		ignored: []string{"*.swp", "*~"},
	}

	tests := []struct {
		path     string
		expected bool
	}{
		{"items.xml", false},
		{"items.xml.swp", true},
		{"items.yml~", true},
		{".hidden", true},
		{"data/sword.xml", false},
	}

	for _, tt := range tests {
		if got := watcher.shouldIgnore(tt.path); got != tt.expected {
			t.Errorf("shouldIgnore(%q) = %v, expected %v", tt.path, got, tt.expected)
		}
	}
}

func TestFileWatcher_MatchesPattern(t *testing.T) {
	tests := []struct {
		patterns []string
		files    map[string]bool
		path     string
		expected bool
	}{
		{[]string{"*.xml"}, nil, "data/a.xml", true},
		{[]string{"*.xml"}, nil, "data/a.json", false},
		{[]string{"*.item.xml"}, nil, "data/a.xml", false},
		{nil, nil, "anything.txt", true},
		{nil, map[string]bool{"items.yml": true}, "items.yml", true},
		{nil, map[string]bool{"items.yml": true}, "other.yml", false},
		{[]string{"*.xml"}, map[string]bool{"s/items.yml": true}, "s/items.yml", true},
	}

	for _, tt := range tests {
		watcher := &FileWatcher{patterns: tt.patterns, files: tt.files}
		if got := watcher.matchesPattern(tt.path); got != tt.expected {
			t.Errorf("matchesPattern(%v, %q) = %v, expected %v",
				tt.patterns, tt.path, got, tt.expected)
		}
	}
}

func TestFileWatcher_Stop(t *testing.T) {
	watcher, err := NewFileWatcher(Config{Paths: []string{t.TempDir()}}, func([]string) error { return nil })
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}

	if err := watcher.Start(); err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}
	if err := watcher.Stop(); err != nil {
		t.Errorf("Stop() returned error: %v", err)
	}
	if err := watcher.Stop(); err != nil {
		t.Errorf("second Stop() returned error: %v", err)
	}
}

func BenchmarkDebouncer_Add(b *testing.B) {
	debouncer := NewDebouncer(100 * time.Millisecond)
	debouncer.SetCallback(func(files []string) {})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		debouncer.Add("file.xml")
	}
}
