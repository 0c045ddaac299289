package errors

import (
	"fmt"
)

// Literal error codes (TYP001-099, ENM001-099)
const (
	// ErrTypeParse indicates text that does not parse as its declared type
	ErrTypeParse ErrorCode = "TYP001"
	// ErrUnknownEnumMember indicates a member missing from the type catalog
	ErrUnknownEnumMember ErrorCode = "ENM001"
	// ErrNoEnumResolver indicates an enum field with no catalog configured
	ErrNoEnumResolver ErrorCode = "ENM002"
)

// NewTypeParse creates a TYP001 error
func NewTypeParse(text, typeName string) *CompilerError {
	return newError(
		ErrTypeParse,
		"type_parse",
		CategoryType,
		SeverityError,
		fmt.Sprintf("Cannot parse %q as %s", text, typeName),
	).WithExpected(typeName).WithActual(text)
}

// NewUnknownEnumMember creates an ENM001 error
func NewUnknownEnumMember(typeName, member string) *CompilerError {
	return newError(
		ErrUnknownEnumMember,
		"unknown_enum_member",
		CategoryEnum,
		SeverityError,
		fmt.Sprintf("Enum %s has no member %s", typeName, member),
	).WithActual(member)
}

// NewNoEnumResolver creates an ENM002 error
func NewNoEnumResolver(typeName string) *CompilerError {
	return newError(
		ErrNoEnumResolver,
		"no_enum_resolver",
		CategoryEnum,
		SeverityError,
		fmt.Sprintf("Enum %s used but no enum catalog is configured", typeName),
	).WithSuggestion("Pass --enum <catalog.yml> or set 'enums' in x2bin.yml")
}
