package build

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/x2bin-lang/x2bin/internal/compiler/document"
	"github.com/x2bin-lang/x2bin/internal/compiler/errors"
	"github.com/x2bin-lang/x2bin/internal/compiler/output"
	"github.com/x2bin-lang/x2bin/internal/compiler/schema"
	"github.com/x2bin-lang/x2bin/internal/compiler/serialize"
)

// Job is the argument set of one compile: a schema, its input documents and
// the primary output file.
type Job struct {
	Schema    string
	Input     string
	Output    string
	Mode      string
	Extension string
	Singleton bool
}

// Options configures a run
type Options struct {
	// Encoding is shared by every job of the run.
	Encoding   serialize.Options
	Compressor output.Compressor
	// TablesDir receives dict.xbin / <LANG>.xbin and scripts.xbin. Empty
	// means the directory of the first job's output.
	TablesDir    string
	Logger       *zap.Logger
	ProgressFunc func(current, total int, message string)
}

// DefaultOptions returns the default encoders without compression
func DefaultOptions() *Options {
	return &Options{
		Encoding:   serialize.DefaultOptions(),
		Compressor: output.CompressionNone,
	}
}

// Result contains information about the run
type Result struct {
	Success       bool
	Duration      time.Duration
	Jobs          []JobResult
	Tables        []output.Artifact
	FilesCompiled int
	Skipped       []string
	// SchemaFiles lists the definitions read by the run, included
	// libraries too. A failed job contributes the files read before it
	// stopped.
	SchemaFiles []string
	Errors      []BuildError
}

// JobResult describes one finished job
type JobResult struct {
	Job         Job
	Records     int
	Artifact    output.Artifact
	SchemaFiles []string
}

// BuildError represents an error that stopped the run
type BuildError struct {
	Phase   string
	Job     int
	File    string
	Line    int
	Element string
	Message string
	Err     error
}

func (e BuildError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return e.Message
}

// Phases of a job, in order
const (
	PhaseFormat    = "format"
	PhaseSchema    = "schema"
	PhaseSerialize = "serialize"
	PhaseOutput    = "output"
)

// System runs jobs against one shared serialization context, so every job
// of a run interns into the same string and script tables.
// Thread-safety: a System runs one Build at a time.
type System struct {
	options *Options
	logger  *zap.Logger
	context *serialize.Context
	writer  *output.Writer
}

// NewSystem creates a build system
func NewSystem(opts *Options) *System {
	if opts == nil {
		opts = DefaultOptions()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &System{
		options: opts,
		logger:  logger,
		context: serialize.NewContext(opts.Encoding, logger),
		writer:  output.NewWriter(opts.Compressor, logger),
	}
}

// Context returns the shared serialization context.
func (s *System) Context() *serialize.Context {
	return s.context
}

// Build runs every job in order, then writes the shared tables once. The
// first failing job stops the run; its error is reported in the result and
// no tables are written.
func (s *System) Build(ctx context.Context, jobs []Job) (*Result, error) {
	if len(jobs) == 0 {
		return nil, fmt.Errorf("no jobs to run")
	}
	startTime := time.Now()

	result := &Result{
		Errors: make([]BuildError, 0),
	}

	// Progress reporting
	if s.options.ProgressFunc != nil {
		s.options.ProgressFunc(0, len(jobs), "Starting build...")
	}

	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		jr, records, buildErr := s.runJob(ctx, i, job)
		result.SchemaFiles = appendNew(result.SchemaFiles, jr.SchemaFiles)
		if buildErr != nil {
			result.Errors = append(result.Errors, *buildErr)
			result.Duration = time.Since(startTime)
			return result, nil
		}
		result.Jobs = append(result.Jobs, jr)
		result.FilesCompiled += records.Files
		result.Skipped = append(result.Skipped, records.Skipped...)

		if s.options.ProgressFunc != nil {
			s.options.ProgressFunc(i+1, len(jobs), fmt.Sprintf("Compiled %s (%d records)", filepath.Base(job.Output), jr.Records))
		}
	}

	tables, err := s.writer.WriteTables(ctx, s.tablesDir(jobs), s.context)
	if err != nil {
		result.Errors = append(result.Errors, newBuildError(PhaseOutput, -1, err))
		result.Duration = time.Since(startTime)
		return result, nil
	}

	result.Tables = tables
	result.Success = true
	result.Duration = time.Since(startTime)
	return result, nil
}

func (s *System) runJob(ctx context.Context, index int, job Job) (JobResult, *serialize.Records, *BuildError) {
	jr := JobResult{Job: job}
	fail := func(phase string, err error) (JobResult, *serialize.Records, *BuildError) {
		be := newBuildError(phase, index, err)
		return jr, nil, &be
	}

	if job.Schema == "" || job.Input == "" || job.Output == "" {
		return fail(PhaseFormat, fmt.Errorf("job %d: --schema, --input and --output are required", index+1))
	}
	if _, err := document.DetectFormat(job.Mode, job.Input); err != nil {
		return fail(PhaseFormat, errors.Annotate(err, errors.Location{File: job.Input}))
	}

	reader := schema.NewReader(s.options.Encoding.Parser, s.options.Encoding.Enums, s.logger)
	sch, err := reader.ReadFile(job.Schema)
	jr.SchemaFiles = reader.Files()
	if err != nil {
		return fail(PhaseSchema, err)
	}

	s.logger.Debug("running job",
		zap.Int("job", index+1),
		zap.String("schema", job.Schema),
		zap.String("root", sch.Root.Name),
		zap.String("input", job.Input))

	records, err := s.context.Run(ctx, serialize.Job{
		Root:      sch.Root,
		Input:     job.Input,
		Extension: job.Extension,
		Singleton: job.Singleton,
	})
	if err != nil {
		return fail(PhaseSerialize, err)
	}
	jr.Records = records.Count

	artifact, err := s.writer.WritePrimary(job.Output, s.context, records)
	if err != nil {
		return fail(PhaseOutput, err)
	}
	jr.Artifact = artifact
	return jr, records, nil
}

func appendNew(list, items []string) []string {
	for _, item := range items {
		if !slices.Contains(list, item) {
			list = append(list, item)
		}
	}
	return list
}

func (s *System) tablesDir(jobs []Job) string {
	if s.options.TablesDir != "" {
		return s.options.TablesDir
	}
	return filepath.Dir(jobs[0].Output)
}

func newBuildError(phase string, job int, err error) BuildError {
	be := BuildError{
		Phase:   phase,
		Job:     job,
		Message: err.Error(),
		Err:     err,
	}
	if ce, ok := errors.As(err); ok {
		be.File = ce.Location.File
		be.Line = ce.Location.Line
		be.Element = ce.Location.Element
		be.Message = ce.Message
	}
	return be
}
