package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/x2bin-lang/x2bin/internal/tooling/build"
)

func TestWatchCommand_Creation(t *testing.T) {
	cmd := NewWatchCommand()

	if cmd == nil {
		t.Fatal("Expected watch command to be created")
	}

	if cmd.Use != "watch [build-file]" {
		t.Errorf("Expected Use to be 'watch [build-file]', got %q", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("Expected Short description to be set")
	}

	for _, name := range []string{"schema", "input", "output", "tables-dir", "compression"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("Expected --%s flag to exist", name)
		}
	}
}

func TestWatchPaths(t *testing.T) {
	w := &watchRun{buildFile: "game.build"}
	paths := w.watchPaths([]build.Job{
		{Schema: "items.yml", Input: "data/items"},
		{Schema: "items.yml", Input: "data/weapons"},
	})

	want := []string{"game.build", "items.yml", "data/items", "data/weapons"}
	if strings.Join(paths, ",") != strings.Join(want, ",") {
		t.Errorf("watchPaths() = %v, want %v", paths, want)
	}
}

func TestWatchRebuild(t *testing.T) {
	dir := project(t, map[string]string{
		"items.yml": "Item:\n  Name: STRING\n",
		"items.xml": "<Item><Name>Sword</Name></Item>",
	})

	var out, errOut bytes.Buffer
	w := &watchRun{
		job:    build.Job{Schema: "items.yml", Input: "items.xml", Output: "out/items.bin"},
		out:    &out,
		errOut: &errOut,
	}

	if err := w.rebuild(context.Background(), build.DefaultOptions()); err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "items.bin")); err != nil {
		t.Errorf("expected items.bin: %v", err)
	}

	// A broken schema is reported and the watch keeps running.
	if err := os.WriteFile(filepath.Join(dir, "items.yml"), []byte("Item:\n  Name: STRNG\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := w.rebuild(context.Background(), build.DefaultOptions()); err != nil {
		t.Fatalf("expected compile errors to be printed, got %v", err)
	}
	if !strings.Contains(errOut.String(), "SCH004") {
		t.Errorf("expected the schema error on stderr, got:\n%s", errOut.String())
	}
}

func TestWatchRebuildTracksIncludes(t *testing.T) {
	dir := project(t, map[string]string{
		"schemas/items.yml": "$$include: ../lib/common.yml\nItem:\n  Tag: $Tag\n",
		"lib/common.yml":    "$$Tag:\n  Name: STRING\n",
		"lib/extra.yml":     "$$Price:\n  ~value: INT\n",
		"data/items.xml":    "<Item><Tag><Name>a</Name></Tag></Item>",
	})

	w := &watchRun{
		job:    build.Job{Schema: "schemas/items.yml", Input: "data/items.xml", Output: "out/items.bin"},
		out:    &bytes.Buffer{},
		errOut: &bytes.Buffer{},
	}
	if err := w.rebuild(context.Background(), build.DefaultOptions()); err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}
	common := filepath.Join(dir, "lib", "common.yml")
	extra := filepath.Join(dir, "lib", "extra.yml")
	if paths := w.watched(); !slices.Contains(paths, common) {
		t.Errorf("expected %s among %v", common, paths)
	}

	// An include added later is picked up by the next rebuild.
	schema := "$$include: [../lib/common.yml, ../lib/extra.yml]\nItem:\n  Tag: $Tag\n"
	if err := os.WriteFile(filepath.Join(dir, "schemas", "items.yml"), []byte(schema), 0644); err != nil {
		t.Fatal(err)
	}
	if err := w.rebuild(context.Background(), build.DefaultOptions()); err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}
	if paths := w.watched(); !slices.Contains(paths, extra) {
		t.Errorf("expected %s among %v", extra, paths)
	}
}

func TestWatchRebuildMissingBuildFile(t *testing.T) {
	project(t, nil)

	w := &watchRun{buildFile: "missing.build", out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}
	if err := w.rebuild(context.Background(), build.DefaultOptions()); err == nil {
		t.Error("Expected error for a missing build file")
	}
}
