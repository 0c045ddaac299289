package literal

import (
	"fmt"
	"strconv"
)

// Literal is a single typed value ready for binary encoding. Exactly one
// payload is active, selected by Type().Kind(). Literals are immutable.
type Literal struct {
	typ Type
	i   int64
	f   float64
	s   string
}

// NewInt creates an integer-family literal.
func NewInt(t Type, v int64) Literal {
	mustKind(t, KindInt)
	return Literal{typ: t, i: v}
}

// NewFloat creates a float-family literal.
func NewFloat(t Type, v float64) Literal {
	mustKind(t, KindFloat)
	return Literal{typ: t, f: v}
}

// NewString creates a string-family literal.
func NewString(t Type, v string) Literal {
	mustKind(t, KindString)
	return Literal{typ: t, s: v}
}

// NewBool creates a BOOL literal.
func NewBool(v bool) Literal {
	return Literal{typ: Bool, i: boolInt(v)}
}

// Count creates the INT literal used for record, item and table counts.
func Count(n int) Literal {
	return Literal{typ: Int, i: int64(n)}
}

// Type returns the literal's type tag.
func (l Literal) Type() Type { return l.typ }

// Int returns the integer payload. It panics for literals of another kind.
func (l Literal) Int() int64 {
	mustKind(l.typ, KindInt)
	return l.i
}

// Float returns the float payload. It panics for literals of another kind.
func (l Literal) Float() float64 {
	mustKind(l.typ, KindFloat)
	return l.f
}

// Str returns the string payload. It panics for literals of another kind.
func (l Literal) Str() string {
	mustKind(l.typ, KindString)
	return l.s
}

// Bool reports whether an integer-family literal is non-zero.
func (l Literal) Bool() bool {
	return l.Int() != 0
}

func (l Literal) String() string {
	switch l.typ.Kind() {
	case KindInt:
		return fmt.Sprintf("%s(%d)", l.typ, l.i)
	case KindFloat:
		return fmt.Sprintf("%s(%s)", l.typ, strconv.FormatFloat(l.f, 'g', -1, 64))
	case KindString:
		return fmt.Sprintf("%s(%q)", l.typ, l.s)
	default:
		return l.typ.String()
	}
}

func mustKind(t Type, k Kind) {
	if t.Kind() != k {
		panic(fmt.Sprintf("literal: %s does not carry a %s payload", t, kindName(k)))
	}
}

func kindName(k Kind) string {
	switch k {
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return "value"
	}
}

func boolInt(v bool) int64 {
	if v {
		return 1
	}
	return 0
}
