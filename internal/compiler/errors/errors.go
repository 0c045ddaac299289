// Package errors provides structured error handling for the x2bin compiler.
// It defines error codes, categories, and formatting for both human-readable
// terminal output and machine-parseable JSON.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a unique error code in the x2bin compiler
type ErrorCode string

// ErrorCategory represents the category of compiler error
type ErrorCategory string

const (
	// CategorySchema represents schema definition errors (SCH001-099)
	CategorySchema ErrorCategory = "schema"
	// CategoryDocument represents input document errors (DOC001-099)
	CategoryDocument ErrorCategory = "document"
	// CategoryType represents literal parse errors (TYP001-099)
	CategoryType ErrorCategory = "type"
	// CategoryEnum represents enum resolution errors (ENM001-099)
	CategoryEnum ErrorCategory = "enum"
	// CategoryConfig represents invalid configuration values (CFG001-099)
	CategoryConfig ErrorCategory = "config"
)

// ErrorSeverity indicates the severity level of an error
type ErrorSeverity string

const (
	// SeverityError indicates an error that aborts the run
	SeverityError ErrorSeverity = "error"
	// SeverityWarning indicates a recoverable problem; processing continues
	SeverityWarning ErrorSeverity = "warning"
)

// Location identifies where in the input an error was raised.
type Location struct {
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Element string `json:"element,omitempty"`
}

// IsZero reports whether no position has been recorded.
func (l Location) IsZero() bool {
	return l.File == "" && l.Line == 0 && l.Element == ""
}

// CompilerError represents a structured compiler error
type CompilerError struct {
	// Code is the unique error code (e.g., "DOC001", "SCH002")
	Code ErrorCode `json:"code"`
	// Type is a machine-readable error type identifier
	Type string `json:"type"`
	// Category is the error category
	Category ErrorCategory `json:"category"`
	// Severity is the error severity level
	Severity ErrorSeverity `json:"severity"`
	// Message is the primary error message
	Message string `json:"message"`
	// Location is where the error was raised
	Location Location `json:"location"`
	// Expected describes what was expected (optional)
	Expected string `json:"expected,omitempty"`
	// Actual describes what was actually found (optional)
	Actual string `json:"actual,omitempty"`
	// Suggestion provides a hint for fixing the error (optional)
	Suggestion string `json:"suggestion,omitempty"`
	// Cause is the underlying error, if any
	Cause error `json:"-"`
}

// Error implements the error interface
func (e *CompilerError) Error() string {
	return FormatCompact(e)
}

// Unwrap returns the underlying cause
func (e *CompilerError) Unwrap() error {
	return e.Cause
}

// Is matches another CompilerError with the same code
func (e *CompilerError) Is(target error) bool {
	t, ok := target.(*CompilerError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Format returns a human-readable error message for terminal output
func (e *CompilerError) Format() string {
	return FormatError(e)
}

// ToJSON returns the error as a JSON string
func (e *CompilerError) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// WithLocation sets the location for the error
func (e *CompilerError) WithLocation(loc Location) *CompilerError {
	e.Location = loc
	return e
}

// WithFile sets the source file name for the error
func (e *CompilerError) WithFile(file string) *CompilerError {
	e.Location.File = file
	return e
}

// WithLine sets the source line for the error
func (e *CompilerError) WithLine(line int) *CompilerError {
	e.Location.Line = line
	return e
}

// WithExpected sets the expected value for the error
func (e *CompilerError) WithExpected(expected string) *CompilerError {
	e.Expected = expected
	return e
}

// WithActual sets the actual value for the error
func (e *CompilerError) WithActual(actual string) *CompilerError {
	e.Actual = actual
	return e
}

// WithSuggestion sets a suggestion for fixing the error
func (e *CompilerError) WithSuggestion(suggestion string) *CompilerError {
	e.Suggestion = suggestion
	return e
}

// WithCause records the underlying error
func (e *CompilerError) WithCause(cause error) *CompilerError {
	e.Cause = cause
	return e
}

// As extracts a *CompilerError from an error chain
func As(err error) (*CompilerError, bool) {
	var ce *CompilerError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// CodeOf returns the code of the first CompilerError in err's chain, or ""
func CodeOf(err error) ErrorCode {
	if ce, ok := As(err); ok {
		return ce.Code
	}
	return ""
}

// Annotate fills in the location of a CompilerError that has none. Other
// errors are returned unchanged.
func Annotate(err error, loc Location) error {
	ce, ok := As(err)
	if !ok || !ce.Location.IsZero() {
		return err
	}
	ce.Location = loc
	return err
}

// newError creates a new CompilerError with the given parameters
func newError(
	code ErrorCode,
	typ string,
	category ErrorCategory,
	severity ErrorSeverity,
	message string,
) *CompilerError {
	return &CompilerError{
		Code:     code,
		Type:     typ,
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Config error codes (CFG001-099)
const (
	// ErrInvalidOption indicates an unknown value for an enumerated option
	ErrInvalidOption ErrorCode = "CFG001"
)

// NewInvalidOption creates a CFG001 error
func NewInvalidOption(option, value string, valid ...string) *CompilerError {
	e := newError(
		ErrInvalidOption,
		"invalid_option",
		CategoryConfig,
		SeverityError,
		fmt.Sprintf("Unknown %s option %q", option, value),
	).WithActual(value)
	if len(valid) > 0 {
		e.WithExpected(fmt.Sprintf("one of %v", valid))
	}
	return e
}
