package errors

import (
	"fmt"
	"strings"
)

// FormatError returns a human-readable error message for terminal output
func FormatError(e *CompilerError) string {
	var b strings.Builder

	icon := severityIcon(e.Severity)
	categoryName := categoryDisplayName(e.Category)

	// Header
	if e.Location.File != "" {
		fmt.Fprintf(&b, "%s %s in %s\n", icon, categoryName, e.Location.File)
	} else {
		fmt.Fprintf(&b, "%s %s\n", icon, categoryName)
	}

	// Location
	switch {
	case e.Location.Element != "" && e.Location.Line > 0:
		fmt.Fprintf(&b, "Line %d, element <%s>:\n", e.Location.Line, e.Location.Element)
	case e.Location.Line > 0:
		fmt.Fprintf(&b, "Line %d:\n", e.Location.Line)
	case e.Location.Element != "":
		fmt.Fprintf(&b, "Element <%s>:\n", e.Location.Element)
	}
	fmt.Fprintf(&b, "  %s [%s]\n", e.Message, e.Code)

	// Expected vs Actual (if provided)
	if e.Expected != "" || e.Actual != "" {
		b.WriteString("\n")
		if e.Expected != "" {
			fmt.Fprintf(&b, "  Expected: %s\n", e.Expected)
		}
		if e.Actual != "" {
			fmt.Fprintf(&b, "  Actual:   %s\n", e.Actual)
		}
	}

	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n💡 %s\n", e.Suggestion)
	}

	return b.String()
}

// FormatCompact returns a compact one-line error format
func FormatCompact(e *CompilerError) string {
	var b strings.Builder
	if e.Location.File != "" {
		b.WriteString(e.Location.File)
		if e.Location.Line > 0 {
			fmt.Fprintf(&b, ":%d", e.Location.Line)
		}
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "%s: %s", e.Severity, e.Message)
	if e.Location.Element != "" {
		fmt.Fprintf(&b, " at <%s>", e.Location.Element)
	}
	fmt.Fprintf(&b, " [%s]", e.Code)
	return b.String()
}

// severityIcon returns the emoji/icon for a severity level
func severityIcon(severity ErrorSeverity) string {
	switch severity {
	case SeverityError:
		return "❌"
	case SeverityWarning:
		return "⚠️ "
	default:
		return "❓"
	}
}

// categoryDisplayName returns a human-readable category name
func categoryDisplayName(category ErrorCategory) string {
	switch category {
	case CategorySchema:
		return "Schema Error"
	case CategoryDocument:
		return "Document Error"
	case CategoryType:
		return "Type Error"
	case CategoryEnum:
		return "Enum Error"
	case CategoryConfig:
		return "Configuration Error"
	default:
		return "Compiler Error"
	}
}
