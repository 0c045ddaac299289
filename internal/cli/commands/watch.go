package commands

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/x2bin-lang/x2bin/internal/cli/ui"
	"github.com/x2bin-lang/x2bin/internal/tooling/build"
	"github.com/x2bin-lang/x2bin/internal/watch"
)

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	var (
		job       build.Job
		tablesDir string
	)

	cmd := &cobra.Command{
		Use:   "watch [build-file]",
		Short: "Recompile when schemas or input documents change",
		Long: `Compile once, then watch the schemas and inputs and recompile on change.

With a build file every job of the file is watched and the file itself
is re-read on each change. Without one the job flags describe a single
compile, as for 'x2bin compile'. Every rebuild starts from an empty
dictionary so string ids stay stable.

Examples:
  x2bin watch game.build
  x2bin watch -s items.yml -i data/items -o out/items.bin`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := &watchRun{
				job:       job,
				out:       cmd.OutOrStdout(),
				errOut:    cmd.ErrOrStderr(),
			}
			if len(args) == 1 {
				w.buildFile = args[0]
			}
			return w.run(cmd, tablesDir)
		},
	}

	build.AddJobFlags(cmd.Flags(), &job)
	cmd.Flags().StringVar(&tablesDir, "tables-dir", "", "Directory for dict.xbin and scripts.xbin (default: first job's output directory)")
	addEncoderFlags(cmd.Flags())

	return cmd
}

type watchRun struct {
	buildFile string
	job       build.Job
	out       io.Writer
	errOut    io.Writer

	mu          sync.Mutex
	schemaFiles []string
	paths       []string
}

func (w *watchRun) jobs() ([]build.Job, error) {
	if w.buildFile != "" {
		return build.ReadBuildFile(w.buildFile)
	}
	return []build.Job{w.job}, nil
}

// watchPaths lists the build file, the schemas and inputs of jobs and the
// libraries the last rebuild included, once each.
func (w *watchRun) watchPaths(jobs []build.Job) []string {
	seen := make(map[string]bool)
	var paths []string
	add := func(p string) {
		if p != "" && !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	add(w.buildFile)
	for _, j := range jobs {
		add(j.Schema)
		add(j.Input)
	}
	for _, f := range w.schemaFiles {
		add(f)
	}
	return paths
}

// watched returns the paths found by the last rebuild.
func (w *watchRun) watched() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.paths
}

func (w *watchRun) run(cmd *cobra.Command, tablesDir string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()
	s.options.TablesDir = tablesDir

	ctx := cmd.Context()
	if err := w.rebuild(ctx, s.options); err != nil {
		return err
	}

	var watcher *watch.FileWatcher
	watcher, err = watch.NewFileWatcher(watch.Config{
		Paths:    w.watched(),
		Patterns: []string{"*.xml", "*.yml", "*.yaml"},
		Ignored:  []string{"*.swp", "*.swo", "*~"},
		Logger:   s.logger,
	}, func(files []string) error {
		fmt.Fprint(w.out, ui.Info(fmt.Sprintf("%d file(s) changed, rebuilding", len(files)), noColor))
		if err := w.rebuild(ctx, s.options); err != nil {
			return err
		}
		// Jobs, schemas and $$include lists may have changed.
		return watcher.Add(w.watched())
	})
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		return err
	}
	defer watcher.Stop()

	fmt.Fprintln(w.out)
	color.New(color.FgYellow).Fprintln(w.out, "Watching for changes. Press Ctrl+C to stop")

	<-ctx.Done()

	fmt.Fprintln(w.out, "\nStopped watching")
	return nil
}

// rebuild runs the jobs with a fresh system and refreshes the watched paths.
// Compile errors are printed and leave the watch running; only an unreadable
// build file stops it.
func (w *watchRun) rebuild(ctx context.Context, opts *build.Options) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	jobs, err := w.jobs()
	if err != nil {
		return err
	}

	result, err := build.NewSystem(opts).Build(ctx, jobs)
	if result != nil {
		w.schemaFiles = result.SchemaFiles
	}
	w.paths = w.watchPaths(jobs)
	if err != nil {
		fmt.Fprint(w.errOut, ui.CompileError(err, noColor))
		return nil
	}
	if !result.Success {
		fmt.Fprint(w.errOut, ui.CompileError(result.Errors[0].Err, noColor))
		return nil
	}
	printResult(w.out, w.errOut, result, noColor)
	return nil
}
