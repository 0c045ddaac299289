package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/x2bin-lang/x2bin/internal/compiler/errors"
	"github.com/x2bin-lang/x2bin/internal/compiler/literal"
)

// ErrorLevel represents the severity of an error message
type ErrorLevel int

const (
	ErrorLevelError ErrorLevel = iota
	ErrorLevelWarning
	ErrorLevelInfo
)

// ErrorOptions configures the error message formatting
type ErrorOptions struct {
	Level        ErrorLevel
	Context      string
	Problem      string
	Consequence  string
	Suggestions  []string
	HelpCommands []string
	NoColor      bool
}

// FormatError creates a standardized error message with suggestions and help commands
//
// Example output:
//
//	❌ SCHEMA ERROR
//	   Unknown literal type INTT [SCH004]
//
//	   at items.yml:4
//
//	   Did you mean: INT, INT7, INT8?
//
//	   → Run 'x2bin types' to list the supported types
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	// Determine colors and symbol based on level
	var headerColor, bodyColor *color.Color
	var symbol string

	switch opts.Level {
	case ErrorLevelError:
		headerColor = color.New(color.FgRed, color.Bold)
		bodyColor = color.New(color.FgRed)
		symbol = "❌"
	case ErrorLevelWarning:
		headerColor = color.New(color.FgYellow, color.Bold)
		bodyColor = color.New(color.FgYellow)
		symbol = "⚠️"
	case ErrorLevelInfo:
		headerColor = color.New(color.FgCyan, color.Bold)
		bodyColor = color.New(color.FgCyan)
		symbol = "ℹ️"
	}

	// Disable colors if requested
	if opts.NoColor {
		headerColor.DisableColor()
		bodyColor.DisableColor()
	}

	// Header line with context
	if opts.Context != "" {
		headerColor.Fprintf(&b, "%s %s\n", symbol, strings.ToUpper(opts.Context))
	} else {
		headerColor.Fprintf(&b, "%s %s\n", symbol, opts.Problem)
	}

	// Problem description with indentation
	if opts.Problem != "" && opts.Context != "" {
		bodyColor.Fprintf(&b, "   %s\n", opts.Problem)
	}

	// Consequence (if provided)
	if opts.Consequence != "" {
		b.WriteString("\n")
		bodyColor.Fprintf(&b, "   %s\n", opts.Consequence)
	}

	// Suggestions
	if len(opts.Suggestions) > 0 {
		b.WriteString("\n")
		yellow := color.New(color.FgYellow)
		if opts.NoColor {
			yellow.DisableColor()
		}
		yellow.Fprintf(&b, "   Did you mean: %s?\n", strings.Join(opts.Suggestions, ", "))
	}

	// Help commands
	if len(opts.HelpCommands) > 0 {
		b.WriteString("\n")
		cyan := color.New(color.FgCyan)
		if opts.NoColor {
			cyan.DisableColor()
		}
		for _, cmd := range opts.HelpCommands {
			cyan.Fprintf(&b, "   → %s\n", cmd)
		}
	}

	return b.String()
}

// WriteError writes a formatted error message to the writer
func WriteError(w io.Writer, opts ErrorOptions) {
	fmt.Fprint(w, FormatError(opts))
}

// FormatSuccess creates a success message
func FormatSuccess(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}

// WriteSuccess writes a success message to the writer
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}

// CompileError formats a compilation failure. Structured compiler errors
// show their code, position, expected and actual values and hint; unknown
// type names get "did you mean" suggestions. Other errors are reported as a
// plain build failure.
func CompileError(err error, noColor bool) string {
	ce, ok := errors.As(err)
	if !ok {
		return BuildFailed(err.Error(), noColor)
	}

	opts := ErrorOptions{
		Level:   ErrorLevelError,
		Context: fmt.Sprintf("%s error", ce.Category),
		Problem: fmt.Sprintf("%s [%s]", ce.Message, ce.Code),
		NoColor: noColor,
	}
	if ce.Severity == errors.SeverityWarning {
		opts.Level = ErrorLevelWarning
	}

	var details []string
	if loc := describeLocation(ce.Location); loc != "" {
		details = append(details, "at "+loc)
	}
	if ce.Expected != "" {
		details = append(details, "expected: "+ce.Expected)
	}
	if ce.Actual != "" {
		details = append(details, "actual:   "+ce.Actual)
	}
	opts.Consequence = strings.Join(details, "\n   ")

	if ce.Code == errors.ErrUnknownType {
		opts.Suggestions = Suggest(ce.Actual, typeNames(), 3)
	}
	if ce.Suggestion != "" {
		opts.HelpCommands = []string{ce.Suggestion}
	}
	return FormatError(opts)
}

func describeLocation(loc errors.Location) string {
	var b strings.Builder
	b.WriteString(loc.File)
	if loc.Line > 0 {
		fmt.Fprintf(&b, ":%d", loc.Line)
	}
	if loc.Element != "" {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "<%s>", loc.Element)
	}
	return b.String()
}

func typeNames() []string {
	types := literal.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return names
}

// BuildFailed creates a standardized build error
func BuildFailed(message string, noColor bool) string {
	opts := ErrorOptions{
		Level:        ErrorLevelError,
		Context:      "BUILD FAILED",
		Problem:      message,
		HelpCommands: []string{"Check the schema: x2bin check <schema.yml>", "Get help: x2bin --help"},
		NoColor:      noColor,
	}
	return FormatError(opts)
}

// ConfigError creates a standardized configuration error
func ConfigError(message string, noColor bool) string {
	opts := ErrorOptions{
		Level:   ErrorLevelError,
		Context: "CONFIGURATION ERROR",
		Problem: message,
		HelpCommands: []string{
			"View config: cat x2bin.yml",
			"Get help: x2bin --help",
		},
		NoColor: noColor,
	}
	return FormatError(opts)
}

// Warning creates a standardized warning message
func Warning(message string, noColor bool) string {
	opts := ErrorOptions{
		Level:   ErrorLevelWarning,
		Problem: message,
		NoColor: noColor,
	}
	return FormatError(opts)
}

// Info creates a standardized info message
func Info(message string, noColor bool) string {
	opts := ErrorOptions{
		Level:   ErrorLevelInfo,
		Problem: message,
		NoColor: noColor,
	}
	return FormatError(opts)
}
