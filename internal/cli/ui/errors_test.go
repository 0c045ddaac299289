package ui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/x2bin-lang/x2bin/internal/compiler/errors"
)

func TestFormatError(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		opts     ErrorOptions
		contains []string
	}{
		{
			name: "basic error",
			opts: ErrorOptions{
				Level:   ErrorLevelError,
				Context: "build failed",
				Problem: "no jobs to run",
			},
			contains: []string{"❌ BUILD FAILED\n", "   no jobs to run"},
		},
		{
			name: "suggestions and help",
			opts: ErrorOptions{
				Level:        ErrorLevelError,
				Problem:      "unknown type",
				Suggestions:  []string{"INT", "INT7"},
				HelpCommands: []string{"x2bin types"},
			},
			contains: []string{"Did you mean: INT, INT7?", "→ x2bin types"},
		},
		{
			name: "warning",
			opts: ErrorOptions{
				Level:       ErrorLevelWarning,
				Problem:     "skipped bad.xml",
				Consequence: "the file is not part of the output",
			},
			contains: []string{"⚠️", "skipped bad.xml", "the file is not part of the output"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.NoColor = true
			result := FormatError(tt.opts)
			for _, want := range tt.contains {
				if !strings.Contains(result, want) {
					t.Errorf("FormatError() missing %q in:\n%s", want, result)
				}
			}
		})
	}
}

func TestCompileError(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	err := errors.NewUnknownType("INTT").
		WithLocation(errors.Location{File: "items.yml", Line: 4})
	result := CompileError(fmt.Errorf("job 1: %w", err), true)

	for _, want := range []string{
		"SCHEMA ERROR",
		"Unknown literal type INTT [SCH004]",
		"at items.yml:4",
		"actual:   INTT",
		"Did you mean: INT, INT7, INT8?",
		"→ Run 'x2bin types'",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("CompileError() missing %q in:\n%s", want, result)
		}
	}
}

func TestCompileErrorPosition(t *testing.T) {
	err := errors.NewRequiredFieldMissing("~id").
		WithLocation(errors.Location{File: "a.xml", Line: 2, Element: "Item"})
	result := CompileError(err, true)
	if !strings.Contains(result, "at a.xml:2 <Item>") {
		t.Errorf("CompileError() missing position in:\n%s", result)
	}
	if strings.Contains(result, "Did you mean") {
		t.Errorf("CompileError() offered suggestions for %s", err.Code)
	}
}

func TestCompileErrorPlain(t *testing.T) {
	result := CompileError(fmt.Errorf("disk full"), true)
	if !strings.Contains(result, "BUILD FAILED") || !strings.Contains(result, "disk full") {
		t.Errorf("unexpected plain error output:\n%s", result)
	}
}

func TestFormatSuccess(t *testing.T) {
	if got := FormatSuccess("Compiled 3 records", true); got != "✓ Compiled 3 records" {
		t.Errorf("FormatSuccess() = %q", got)
	}
}

func TestDescribeLocation(t *testing.T) {
	tests := []struct {
		loc  errors.Location
		want string
	}{
		{errors.Location{}, ""},
		{errors.Location{File: "a.yml"}, "a.yml"},
		{errors.Location{File: "a.yml", Line: 3}, "a.yml:3"},
		{errors.Location{Element: "Item"}, "<Item>"},
	}
	for _, tt := range tests {
		if got := describeLocation(tt.loc); got != tt.want {
			t.Errorf("describeLocation(%+v) = %q, want %q", tt.loc, got, tt.want)
		}
	}
}
