package errors

import (
	"fmt"
)

// Schema definition error codes (SCH001-099)
const (
	// ErrSchemaDefinition indicates a malformed schema definition source
	ErrSchemaDefinition ErrorCode = "SCH001"
	// ErrNoRootNode indicates a schema source without a selectable root
	ErrNoRootNode ErrorCode = "SCH002"
	// ErrUnresolvedReference indicates a reference to an unregistered subtree
	ErrUnresolvedReference ErrorCode = "SCH003"
	// ErrUnknownType indicates an unrecognized type tag
	ErrUnknownType ErrorCode = "SCH004"
	// ErrArityMismatch indicates tuple text with the wrong number of parts
	ErrArityMismatch ErrorCode = "SCH005"
)

// NewSchemaDefinition creates a SCH001 error
func NewSchemaDefinition(file string, line int, format string, args ...any) *CompilerError {
	return newError(
		ErrSchemaDefinition,
		"schema_definition",
		CategorySchema,
		SeverityError,
		fmt.Sprintf(format, args...),
	).WithLocation(Location{File: file, Line: line})
}

// NewNoRootNode creates a SCH002 error
func NewNoRootNode(file string) *CompilerError {
	return newError(
		ErrNoRootNode,
		"no_root_node",
		CategorySchema,
		SeverityError,
		fmt.Sprintf("No root node found in %s", file),
	).WithFile(file).
		WithSuggestion("Add a top-level key that does not start with $$")
}

// NewUnresolvedReference creates a SCH003 error
func NewUnresolvedReference(file string, line int, name string) *CompilerError {
	return newError(
		ErrUnresolvedReference,
		"unresolved_reference",
		CategorySchema,
		SeverityError,
		fmt.Sprintf("Recursive node $%s is not defined", name),
	).WithLocation(Location{File: file, Line: line}).
		WithSuggestion(fmt.Sprintf("Declare it with a $%s or $$%s key, or $$include the file defining it", name, name))
}

// NewUnknownType creates a SCH004 error
func NewUnknownType(name string) *CompilerError {
	return newError(
		ErrUnknownType,
		"unknown_type",
		CategorySchema,
		SeverityError,
		fmt.Sprintf("Unknown literal type %s", name),
	).WithActual(name).
		WithSuggestion("Run 'x2bin types' to list the supported types")
}

// NewArityMismatch creates a SCH005 error
func NewArityMismatch(text string, got, expected int, typeName string) *CompilerError {
	return newError(
		ErrArityMismatch,
		"arity_mismatch",
		CategorySchema,
		SeverityError,
		fmt.Sprintf("%s has %d items, doesn't match %s", text, got, typeName),
	).WithExpected(fmt.Sprintf("%d items", expected)).
		WithActual(fmt.Sprintf("%d items", got))
}
