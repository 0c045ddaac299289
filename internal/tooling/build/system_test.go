package build

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/x2bin-lang/x2bin/internal/compiler/errors"
	"github.com/x2bin-lang/x2bin/internal/compiler/output"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return data
}

func TestNewSystem(t *testing.T) {
	sys := NewSystem(nil)
	if sys == nil {
		t.Fatal("Expected non-nil system")
	}
	if sys.Context() == nil {
		t.Fatal("Expected a shared context")
	}
	if sys.Context().Strings.Len() != 1 {
		t.Errorf("Expected only the empty string interned, got %d entries", sys.Context().Strings.Len())
	}
}

func TestBuildSharesTables(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "items.yml"), "Item:\n  Name: STRING\n")
	writeFile(t, filepath.Join(tmpDir, "npcs.yml"), "Npc:\n  Name: STRING\n  Greeting: STRING\n")
	writeFile(t, filepath.Join(tmpDir, "data", "items.xml"),
		`<Items><Item><Name>Sword</Name></Item><Item><Name>Shield</Name></Item></Items>`)
	writeFile(t, filepath.Join(tmpDir, "data", "npc.xml"),
		`<Npc><Name>Smith</Name><Greeting>Sword</Greeting></Npc>`)

	outDir := filepath.Join(tmpDir, "out")
	jobs := []Job{
		{
			Schema: filepath.Join(tmpDir, "items.yml"),
			Input:  filepath.Join(tmpDir, "data", "items.xml"),
			Output: filepath.Join(outDir, "items.bin"),
		},
		{
			Schema:    filepath.Join(tmpDir, "npcs.yml"),
			Input:     filepath.Join(tmpDir, "data", "npc.xml"),
			Output:    filepath.Join(outDir, "npc.bin"),
			Singleton: true,
		},
	}

	var progress []string
	opts := DefaultOptions()
	opts.ProgressFunc = func(current, total int, message string) {
		progress = append(progress, message)
	}

	result, err := NewSystem(opts).Build(context.Background(), jobs)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("Expected success, got errors: %v", result.Errors)
	}
	if len(result.Jobs) != 2 || result.Jobs[0].Records != 2 || result.Jobs[1].Records != 1 {
		t.Errorf("Unexpected job results: %+v", result.Jobs)
	}
	if result.FilesCompiled != 2 {
		t.Errorf("Expected 2 files compiled, got %d", result.FilesCompiled)
	}
	if len(progress) != 3 {
		t.Errorf("Expected 3 progress reports, got %d", len(progress))
	}

	if got := readFile(t, filepath.Join(outDir, "items.bin")); !bytes.Equal(got, []byte{2, 1, 2}) {
		t.Errorf("items.bin = %v", got)
	}
	// "Sword" is shared with the first job.
	if got := readFile(t, filepath.Join(outDir, "npc.bin")); !bytes.Equal(got, []byte{3, 1}) {
		t.Errorf("npc.bin = %v", got)
	}

	dict := readFile(t, filepath.Join(outDir, output.DictionaryFile))
	want := []byte{4, 0, 5, 'S', 'w', 'o', 'r', 'd', 6, 'S', 'h', 'i', 'e', 'l', 'd', 5, 'S', 'm', 'i', 't', 'h'}
	if !bytes.Equal(dict, want) {
		t.Errorf("dict.xbin = %v, want %v", dict, want)
	}
	if got := readFile(t, filepath.Join(outDir, output.ScriptsFile)); !bytes.Equal(got, []byte{1, 0}) {
		t.Errorf("scripts.xbin = %v", got)
	}
	if len(result.Tables) != 2 {
		t.Errorf("Expected 2 table artifacts, got %d", len(result.Tables))
	}
}

func TestBuildTablesDir(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "s.yml"), "Item:\n  ~id: INT\n")
	writeFile(t, filepath.Join(tmpDir, "in.xml"), `<Item id="1"/>`)

	opts := DefaultOptions()
	opts.TablesDir = filepath.Join(tmpDir, "tables")
	result, err := NewSystem(opts).Build(context.Background(), []Job{{
		Schema: filepath.Join(tmpDir, "s.yml"),
		Input:  filepath.Join(tmpDir, "in.xml"),
		Output: filepath.Join(tmpDir, "main.bin"),
	}})
	if err != nil || !result.Success {
		t.Fatalf("Build failed: %v %v", err, result)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "tables", output.DictionaryFile)); err != nil {
		t.Errorf("Expected dictionary in tables dir: %v", err)
	}
}

func TestBuildStopsOnFirstError(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "s.yml"), "Item:\n  ~id!: INT\n")
	writeFile(t, filepath.Join(tmpDir, "in.xml"), "<Items>\n  <Item/>\n</Items>")

	result, err := NewSystem(nil).Build(context.Background(), []Job{
		{
			Schema: filepath.Join(tmpDir, "s.yml"),
			Input:  filepath.Join(tmpDir, "in.xml"),
			Output: filepath.Join(tmpDir, "out", "a.bin"),
		},
		{
			Schema: filepath.Join(tmpDir, "missing.yml"),
			Input:  filepath.Join(tmpDir, "in.xml"),
			Output: filepath.Join(tmpDir, "out", "b.bin"),
		},
	})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if result.Success {
		t.Fatal("Expected failure")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("Expected 1 error, got %d", len(result.Errors))
	}

	be := result.Errors[0]
	if be.Phase != PhaseSerialize || be.Job != 0 {
		t.Errorf("Unexpected error origin: %+v", be)
	}
	if be.Line != 2 || be.Element != "Item" {
		t.Errorf("Expected position line 2 <Item>, got line %d <%s>", be.Line, be.Element)
	}
	if errors.CodeOf(be.Err) != errors.ErrRequiredFieldMissing {
		t.Errorf("Expected DOC001, got %s", errors.CodeOf(be.Err))
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "out", output.DictionaryFile)); !os.IsNotExist(err) {
		t.Error("Expected no tables after a failed job")
	}
}

func TestBuildReportsSchemaFiles(t *testing.T) {
	tmpDir := t.TempDir()
	lib := filepath.Join(tmpDir, "lib", "common.yml")
	main := filepath.Join(tmpDir, "items.yml")
	writeFile(t, lib, "$$Tag:\n  Name: STRING\n")
	writeFile(t, main, "$$include: lib/common.yml\nItem:\n  Tag: $Tag\n")
	writeFile(t, filepath.Join(tmpDir, "in.xml"), "<Item><Tag><Name>a</Name></Tag></Item>")

	job := Job{Schema: main, Input: filepath.Join(tmpDir, "in.xml"), Output: filepath.Join(tmpDir, "out", "a.bin")}
	result, err := NewSystem(nil).Build(context.Background(), []Job{job, job})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if !result.Success {
		t.Fatalf("Build failed: %v", result.Errors)
	}
	want := []string{main, lib}
	if strings.Join(result.SchemaFiles, ",") != strings.Join(want, ",") {
		t.Errorf("Expected schema files %v, got %v", want, result.SchemaFiles)
	}

	writeFile(t, lib, "$$Tag:\n  Name: NOPE\n")
	result, err = NewSystem(nil).Build(context.Background(), []Job{job})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if result.Success {
		t.Fatal("Expected failure")
	}
	if len(result.SchemaFiles) != 2 {
		t.Errorf("Expected the broken library to be reported, got %v", result.SchemaFiles)
	}
}

func TestBuildRejectsUnsupportedFormats(t *testing.T) {
	tmpDir := t.TempDir()
	result, err := NewSystem(nil).Build(context.Background(), []Job{{
		Schema: filepath.Join(tmpDir, "s.yml"),
		Input:  filepath.Join(tmpDir, "in.json"),
		Output: filepath.Join(tmpDir, "a.bin"),
	}})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Errors) != 1 || result.Errors[0].Phase != PhaseFormat {
		t.Fatalf("Expected a format error, got %+v", result.Errors)
	}
	if errors.CodeOf(result.Errors[0].Err) != errors.ErrUnsupportedFormat {
		t.Errorf("Expected DOC003, got %s", errors.CodeOf(result.Errors[0].Err))
	}
}

func TestBuildNoJobs(t *testing.T) {
	if _, err := NewSystem(nil).Build(context.Background(), nil); err == nil {
		t.Error("Expected error for an empty job list")
	}
}

func TestParseBuildFile(t *testing.T) {
	contents := `
# items first
--schema items.yml --input data/items --extension .item --output out/items.bin

-s "npc schema.yml" -i npc.xml -o out/npc.bin --singleton --mode xml
`
	jobs, err := ParseBuildFile("x2bin.build", contents)
	if err != nil {
		t.Fatalf("ParseBuildFile failed: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("Expected 2 jobs, got %d", len(jobs))
	}

	want := Job{Schema: "items.yml", Input: "data/items", Output: "out/items.bin", Extension: ".item"}
	if jobs[0] != want {
		t.Errorf("jobs[0] = %+v, want %+v", jobs[0], want)
	}
	want = Job{Schema: "npc schema.yml", Input: "npc.xml", Output: "out/npc.bin", Mode: "xml", Singleton: true}
	if jobs[1] != want {
		t.Errorf("jobs[1] = %+v, want %+v", jobs[1], want)
	}
}

func TestParseBuildFileErrors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		wantErr  string
	}{
		{"empty", "\n# nothing\n", "no jobs"},
		{"missing output", "--schema a.yml --input b.xml", "--output"},
		{"unknown flag", "--schema a.yml --input b.xml --output c --bogus", "x2bin.build:1"},
		{"stray argument", "--schema a.yml --input b.xml --output c extra", "unexpected arguments"},
		{"unterminated quote", `--schema "a.yml`, "x2bin.build:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBuildFile("x2bin.build", tt.contents)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestReadBuildFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.build")
	writeFile(t, path, "-s a.yml -i b.xml -o c.bin\n")

	jobs, err := ReadBuildFile(path)
	if err != nil {
		t.Fatalf("ReadBuildFile failed: %v", err)
	}
	if len(jobs) != 1 || jobs[0].Output != "c.bin" {
		t.Errorf("Unexpected jobs: %+v", jobs)
	}

	if _, err := ReadBuildFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Expected error for a missing build file")
	}
}
