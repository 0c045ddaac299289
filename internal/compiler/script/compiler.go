// Package script compiles interned script bodies into bytecode records for
// the script table.
package script

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
	"go.uber.org/zap"
)

// Compiler turns script source into an object buffer and a debug symbol
// buffer.
type Compiler interface {
	Compile(ctx context.Context, source string) (object, debug []byte, err error)
}

const (
	objectPlaceholder = "{object}"
	debugPlaceholder  = "{debug}"
)

// CommandCompiler runs an external command per script. The source is passed
// on stdin. The {object} and {debug} placeholders in the arguments are
// replaced with temporary file paths whose contents become the two buffers;
// without {object} the command's stdout is the object buffer.
type CommandCompiler struct {
	args   []string
	logger *zap.Logger
}

// NewCommandCompiler parses a shell-style command line.
func NewCommandCompiler(commandLine string, logger *zap.Logger) (*CommandCompiler, error) {
	args, err := shlex.Split(commandLine)
	if err != nil {
		return nil, fmt.Errorf("invalid script compiler command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("script compiler command is empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandCompiler{args: args, logger: logger}, nil
}

// Args returns the parsed command line.
func (c *CommandCompiler) Args() []string {
	return append([]string(nil), c.args...)
}

// Compile implements Compiler.
func (c *CommandCompiler) Compile(ctx context.Context, source string) ([]byte, []byte, error) {
	tmp, err := os.MkdirTemp("", "x2bin-script-*")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create script work dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	objectPath := filepath.Join(tmp, "object.bin")
	debugPath := filepath.Join(tmp, "debug.bin")

	var usesObject, usesDebug bool
	args := make([]string, len(c.args))
	for i, a := range c.args {
		if strings.Contains(a, objectPlaceholder) {
			usesObject = true
			a = strings.ReplaceAll(a, objectPlaceholder, objectPath)
		}
		if strings.Contains(a, debugPlaceholder) {
			usesDebug = true
			a = strings.ReplaceAll(a, debugPlaceholder, debugPath)
		}
		args[i] = a
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = strings.NewReader(source)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.Debug("compiling script", zap.Strings("args", args), zap.Int("bytes", len(source)))
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, nil, fmt.Errorf("script compiler failed: %w", err)
		}
		return nil, nil, fmt.Errorf("script compiler failed: %w: %s", err, msg)
	}

	object := stdout.Bytes()
	if usesObject {
		if object, err = os.ReadFile(objectPath); err != nil {
			return nil, nil, fmt.Errorf("script compiler wrote no object file: %w", err)
		}
	}

	var debug []byte
	if usesDebug {
		// A compiler may legitimately emit no symbols.
		debug, err = os.ReadFile(debugPath)
		if err != nil && !os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("failed to read debug symbols: %w", err)
		}
	}
	return object, debug, nil
}
