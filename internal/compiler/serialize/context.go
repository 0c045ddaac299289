// Package serialize walks input documents against a schema and writes the
// binary records, interning strings and scripts on the way.
package serialize

import (
	"go.uber.org/zap"

	"github.com/x2bin-lang/x2bin/internal/compiler/codex"
	"github.com/x2bin-lang/x2bin/internal/compiler/enum"
	"github.com/x2bin-lang/x2bin/internal/compiler/errors"
	"github.com/x2bin-lang/x2bin/internal/compiler/literal"
	"github.com/x2bin-lang/x2bin/internal/compiler/script"
	"github.com/x2bin-lang/x2bin/internal/compiler/wire"
)

// Options configures encoding for one run.
type Options struct {
	// Int encodes INT literals, counts and interned ids.
	Int wire.IntEncoding
	// String encodes RAW literals and string table entries.
	String wire.StringEncoder
	// StringTrim processes STRING, LOCAL and RAW text.
	StringTrim wire.TrimPolicy
	// CodeTrim processes CODE and SCRIPT text.
	CodeTrim wire.TrimPolicy
	// Parser parses leaf text; its DefaultDouble also selects ANGLE width.
	Parser literal.Parser
	// Enums resolves ENUM members. Nil fails on the first ENUM field.
	Enums enum.Resolver
	// Scripts compiles the script table. Nil writes processed source text.
	Scripts script.Compiler
	// Parallel bounds concurrent document parsing; 0 or less means NumCPU.
	Parallel int
}

// DefaultOptions returns 7-bit integers and strings, aggressive STRING
// trimming and C style code trimming.
func DefaultOptions() Options {
	return Options{
		Int:        wire.IntVar,
		String:     wire.StringEncoder{Width: wire.StringVar},
		StringTrim: wire.TrimAggressive,
		CodeTrim:   wire.TrimCStyle,
	}
}

// Position is the element being serialized, for diagnostics.
type Position struct {
	File    string
	Line    int
	Element string
}

// Context is the state of one compilation run: both interning tables, the
// encoders and the diagnostic position. Documents serialized through the
// same Context share its tables. A Context serializes one document at a
// time.
type Context struct {
	opts   Options
	logger *zap.Logger

	// Strings interns STRING and LOCAL text; Scripts interns CODE and
	// SCRIPT text.
	Strings *codex.Codex
	Scripts *codex.Codex

	pos Position
}

// NewContext creates a run context. logger may be nil.
func NewContext(opts Options, logger *zap.Logger) *Context {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Context{
		opts:    opts,
		logger:  logger,
		Strings: codex.New(),
		Scripts: codex.New(),
	}
}

// Options returns the run's encoding options.
func (c *Context) Options() Options {
	return c.opts
}

// Position returns the element most recently entered.
func (c *Context) Position() Position {
	return c.pos
}

// fail attaches the current position to err.
func (c *Context) fail(err error) error {
	return errors.Annotate(err, errors.Location{
		File:    c.pos.File,
		Line:    c.pos.Line,
		Element: c.pos.Element,
	})
}
