package errors

import (
	"fmt"
)

// Document error codes (DOC001-099)
const (
	// ErrRequiredFieldMissing indicates an absent input with no default policy
	ErrRequiredFieldMissing ErrorCode = "DOC001"
	// ErrInvalidDocument indicates a malformed input document
	ErrInvalidDocument ErrorCode = "DOC002"
	// ErrUnsupportedFormat indicates an input format without an adapter
	ErrUnsupportedFormat ErrorCode = "DOC003"
)

// NewRequiredFieldMissing creates a DOC001 error
func NewRequiredFieldMissing(field string) *CompilerError {
	if field == "" {
		field = "<anonymous>"
	}
	return newError(
		ErrRequiredFieldMissing,
		"required_field_missing",
		CategoryDocument,
		SeverityError,
		fmt.Sprintf("Required node %s missing", field),
	).WithSuggestion("Add the field to the document or give it a default in the schema")
}

// NewInvalidDocument creates a DOC002 warning
func NewInvalidDocument(file string, cause error) *CompilerError {
	return newError(
		ErrInvalidDocument,
		"invalid_document",
		CategoryDocument,
		SeverityWarning,
		fmt.Sprintf("Invalid document %s: %v", file, cause),
	).WithFile(file).WithCause(cause)
}

// NewUnsupportedFormat creates a DOC003 error
func NewUnsupportedFormat(format string) *CompilerError {
	return newError(
		ErrUnsupportedFormat,
		"unsupported_format",
		CategoryDocument,
		SeverityError,
		fmt.Sprintf("%s input is not supported", format),
	).WithSuggestion("Convert the input to XML")
}
