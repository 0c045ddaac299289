package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/x2bin-lang/x2bin/internal/cli/ui"
	"github.com/x2bin-lang/x2bin/internal/compiler/output"
	"github.com/x2bin-lang/x2bin/internal/tooling/build"
)

// NewCompileCommand creates the compile command
func NewCompileCommand() *cobra.Command {
	var job build.Job

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile XML documents against a schema",
		Long: `Compile XML documents into a binary file using a YAML schema.

The primary output holds the record count followed by every record
(or a single record with --singleton). The string dictionary
(dict.xbin, or one <LANG>.xbin per language) and scripts.xbin are
written next to it.

Examples:
  # Compile every *.xml file under data/items
  x2bin compile -s items.yml -i data/items -o out/items.bin

  # Only files named *.weapon.xml, with fixed-width integers
  x2bin compile -s items.yml -i data -e .weapon -o out/weapons.bin --int int32

  # A single configuration record, compressed
  x2bin compile -s game.yml -i game.xml -o out/game.bin --singleton --compression zlib`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, job)
		},
	}

	build.AddJobFlags(cmd.Flags(), &job)
	addEncoderFlags(cmd.Flags())
	for _, name := range []string{"schema", "input", "output"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func runCompile(cmd *cobra.Command, job build.Job) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	result, err := build.NewSystem(s.options).Build(cmd.Context(), []build.Job{job})
	if err != nil {
		return err
	}
	if !result.Success {
		return result.Errors[0].Err
	}

	printResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), result, noColor)
	return nil
}

// printResult reports the written artifacts and any skipped documents.
func printResult(out, errOut io.Writer, result *build.Result, noColor bool) {
	for _, file := range result.Skipped {
		fmt.Fprint(errOut, ui.Warning(fmt.Sprintf("Skipped invalid document %s", file), noColor))
	}

	ui.WriteSuccess(out, fmt.Sprintf("Compiled %d file(s) in %s",
		result.FilesCompiled, result.Duration.Round(time.Microsecond)), noColor)
	fmt.Fprintln(out)

	table := ui.NewTable(out, []string{"Artifact", "Contents", "Size"}, &ui.TableOptions{
		NoColor:    noColor,
		RightAlign: []int{2},
	})
	for _, jr := range result.Jobs {
		table.AddRow(jr.Artifact.Path, fmt.Sprintf("%d record(s)", jr.Records), ui.FormatBytes(jr.Artifact.Size))
	}
	for _, a := range result.Tables {
		table.AddRow(a.Path, tableLabel(a), ui.FormatBytes(a.Size))
	}
	table.Render()
}

func tableLabel(a output.Artifact) string {
	switch a.Kind {
	case output.KindDictionary:
		if a.Lang != "" {
			return "dictionary (" + a.Lang + ")"
		}
		return "dictionary"
	case output.KindScripts:
		return "scripts"
	default:
		return string(a.Kind)
	}
}
