package build

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/shlex"
	"github.com/spf13/pflag"
)

// ReadBuildFile reads a build file. Each non-blank line is the argument set
// of one job; lines starting with # are comments.
func ReadBuildFile(path string) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read build file: %w", err)
	}
	return ParseBuildFile(path, string(data))
}

// ParseBuildFile parses the contents of a build file named file.
func ParseBuildFile(file, contents string) ([]Job, error) {
	var jobs []Job
	for i, line := range strings.Split(contents, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		args, err := shlex.Split(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", file, i+1, err)
		}
		job, err := ParseJobArgs(args)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", file, i+1, err)
		}
		jobs = append(jobs, job)
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("%s: build file has no jobs", file)
	}
	return jobs, nil
}

// ParseJobArgs parses one job's arguments.
func ParseJobArgs(args []string) (Job, error) {
	var job Job
	fs := JobFlags(&job)
	fs.SetOutput(&strings.Builder{})
	if err := fs.Parse(args); err != nil {
		return Job{}, err
	}
	if fs.NArg() > 0 {
		return Job{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	var missing []string
	for _, name := range []string{"schema", "input", "output"} {
		if !fs.Changed(name) {
			missing = append(missing, "--"+name)
		}
	}
	if len(missing) > 0 {
		return Job{}, fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
	}
	return job, nil
}

// JobFlags returns a flag set bound to job. The compile command registers
// the same flags.
func JobFlags(job *Job) *pflag.FlagSet {
	fs := pflag.NewFlagSet("job", pflag.ContinueOnError)
	AddJobFlags(fs, job)
	return fs
}

// AddJobFlags registers the per-job flags on fs.
func AddJobFlags(fs *pflag.FlagSet, job *Job) {
	fs.StringVarP(&job.Schema, "schema", "s", "", "YAML schema definition")
	fs.StringVarP(&job.Input, "input", "i", "", "input XML file or directory")
	fs.StringVarP(&job.Output, "output", "o", "", "primary output file")
	fs.StringVarP(&job.Mode, "mode", "m", "", "input format (xml); detected from the input suffix when empty")
	fs.StringVarP(&job.Extension, "extension", "e", "", "directory inputs match *<extension>.xml")
	fs.BoolVar(&job.Singleton, "singleton", false, "write only the first record, without a count")
}
