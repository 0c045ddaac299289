package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/x2bin-lang/x2bin/internal/cli/ui"
	"github.com/x2bin-lang/x2bin/internal/tooling/build"
)

// NewBuildCommand creates the build command
func NewBuildCommand() *cobra.Command {
	var (
		tablesDir  string
		noProgress bool
	)

	cmd := &cobra.Command{
		Use:   "build <file>",
		Short: "Run every compile job listed in a build file",
		Long: `Run the compile jobs of a build file against one shared dictionary.

Each non-empty line of the build file holds the job flags of one
compile (--schema, --input, --output, --mode, --extension,
--singleton). Lines starting with # are comments. All jobs intern
into the same string and script tables, which are written once,
after the last job, to --tables-dir or the first job's output
directory. Encoder options apply to every job.

Example build file:
  # items, then NPCs
  -s schema/items.yml -i data/items -o out/items.bin
  -s schema/npcs.yml -i data/npcs -e .npc -o out/npcs.bin

Examples:
  x2bin build game.build
  x2bin build game.build --tables-dir out/tables --compression zlib`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args[0], tablesDir, !noProgress)
		},
	}

	cmd.Flags().StringVar(&tablesDir, "tables-dir", "", "Directory for dict.xbin and scripts.xbin (default: first job's output directory)")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Do not draw a progress bar")
	addEncoderFlags(cmd.Flags())

	return cmd
}

func runBuild(cmd *cobra.Command, buildFile, tablesDir string, progress bool) error {
	jobs, err := build.ReadBuildFile(buildFile)
	if err != nil {
		return err
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()
	s.options.TablesDir = tablesDir

	var bar *ui.ProgressBar
	if progress && !verbose {
		bar = ui.NewProgressBar(cmd.ErrOrStderr(), ui.ProgressBarOptions{NoColor: noColor})
		s.options.ProgressFunc = bar.Update
	}

	result, err := build.NewSystem(s.options).Build(cmd.Context(), jobs)
	if bar != nil {
		bar.Abort()
	}
	if err != nil {
		return err
	}
	if !result.Success {
		be := result.Errors[0]
		if be.Job >= 0 {
			return fmt.Errorf("job %d (%s): %w", be.Job+1, jobs[be.Job].Output, be.Err)
		}
		return be.Err
	}

	printResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), result, noColor)
	return nil
}
