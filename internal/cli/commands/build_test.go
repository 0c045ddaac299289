package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/x2bin-lang/x2bin/internal/compiler/errors"
	"github.com/x2bin-lang/x2bin/internal/compiler/output"
)

func TestNewBuildCommand(t *testing.T) {
	cmd := NewBuildCommand()

	if cmd.Use != "build <file>" {
		t.Errorf("expected Use to be 'build <file>', got %s", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	for _, name := range []string{"tables-dir", "no-progress", "compression", "int"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected --%s flag to be registered", name)
		}
	}
	// Job flags belong in the build file.
	if cmd.Flags().Lookup("schema") != nil {
		t.Error("expected no --schema flag on build")
	}
}

func TestBuild(t *testing.T) {
	dir := project(t, map[string]string{
		"items.yml": "Item:\n  Name: STRING\n",
		"npcs.yml":  "Npc:\n  Name: STRING\n",
		"items.xml": "<Item><Name>Sword</Name></Item>",
		"npcs.xml":  "<Npc><Name>Smith</Name></Npc>",
		"game.build": `# two outputs, one dictionary
-s items.yml -i items.xml -o out/items.bin
-s npcs.yml -i npcs.xml -o out/npcs.bin
`,
	})

	out, _, err := execute(t, "build", "game.build", "--tables-dir", "tables", "--compression", "zlib")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	for _, path := range []string{
		filepath.Join("out", "items.bin"),
		filepath.Join("out", "npcs.bin"),
		filepath.Join("tables", output.DictionaryFile),
		filepath.Join("tables", output.ScriptsFile),
	} {
		if _, err := os.Stat(filepath.Join(dir, path)); err != nil {
			t.Errorf("expected %s: %v", path, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "out", output.DictionaryFile)); !os.IsNotExist(err) {
		t.Error("expected no dictionary next to the outputs")
	}
	if !strings.Contains(out, "Compiled 2 file(s)") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestBuildFailingJob(t *testing.T) {
	project(t, map[string]string{
		"items.yml":  "Item:\n  Name: INTT\n",
		"items.xml":  "<Item><Name>1</Name></Item>",
		"game.build": "-s items.yml -i items.xml -o out/items.bin\n",
	})

	_, _, err := execute(t, "build", "game.build", "--no-progress")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.CodeOf(err) != errors.ErrUnknownType {
		t.Errorf("expected SCH004, got %v", err)
	}
	if !strings.Contains(err.Error(), "job 1") {
		t.Errorf("expected the job number in %v", err)
	}
}

func TestBuildFileErrors(t *testing.T) {
	project(t, map[string]string{
		"game.build": "-s items.yml --bogus\n",
	})

	_, _, err := execute(t, "build", "game.build")
	if err == nil || !strings.Contains(err.Error(), "game.build:1") {
		t.Errorf("expected a build file error, got %v", err)
	}

	if _, _, err := execute(t, "build"); err == nil {
		t.Error("expected an argument error")
	}
}
