// Package literal implements the closed set of value kinds understood by the
// compiler: how text is parsed into typed literals, which literal a missing
// field defaults to, and how tuple and color text is split into parts.
package literal

import (
	"fmt"
	"strings"
)

// Type is a literal type tag. The set is closed; adding a tag means adding a
// case to every exhaustive switch over Type.
type Type int

const (
	// None marks a literal whose type is inferred from its text.
	None Type = iota

	Int
	Int7
	Int8
	Byte
	Int16
	Short
	Int32
	Int64
	Long
	Long7

	Bool
	Exist
	NoExist

	Half
	Float
	Single
	Double
	Angle

	String
	StringTrim
	StringNoTrim
	Raw
	RawTrim
	RawNoTrim
	Local
	LocalTrim
	LocalNoTrim
	Code
	Script
	Color

	Tuple2
	Tuple3
	Tuple4
	Tuple5
	Tuple6
	Tuple7
	Tuple8
	Tuple9
	CSV2
	CSV3
	CSV4
	CSV5
	CSV6
	CSV7
	CSV8
	CSV9
	Pair

	Enum
)

// Kind is the payload a literal of a given type carries.
type Kind int

const (
	KindNone Kind = iota
	KindInt
	KindFloat
	KindString
	// KindComposite types expand to several literals and are never encoded
	// directly.
	KindComposite
)

var typeNames = map[Type]string{
	None:         "NONE",
	Int:          "INT",
	Int7:         "INT7",
	Int8:         "INT8",
	Byte:         "BYTE",
	Int16:        "INT16",
	Short:        "SHORT",
	Int32:        "INT32",
	Int64:        "INT64",
	Long:         "LONG",
	Long7:        "LONG7",
	Bool:         "BOOL",
	Exist:        "EXIST",
	NoExist:      "NO_EXIST",
	Half:         "HALF",
	Float:        "FLOAT",
	Single:       "SINGLE",
	Double:       "DOUBLE",
	Angle:        "ANGLE",
	String:       "STRING",
	StringTrim:   "STRING_TRIM",
	StringNoTrim: "STRING_NOTRIM",
	Raw:          "RAW",
	RawTrim:      "RAW_TRIM",
	RawNoTrim:    "RAW_NOTRIM",
	Local:        "LOCAL",
	LocalTrim:    "LOCAL_TRIM",
	LocalNoTrim:  "LOCAL_NOTRIM",
	Code:         "CODE",
	Script:       "SCRIPT",
	Color:        "COLOR",
	Tuple2:       "TUPLE2",
	Tuple3:       "TUPLE3",
	Tuple4:       "TUPLE4",
	Tuple5:       "TUPLE5",
	Tuple6:       "TUPLE6",
	Tuple7:       "TUPLE7",
	Tuple8:       "TUPLE8",
	Tuple9:       "TUPLE9",
	CSV2:         "CSV2",
	CSV3:         "CSV3",
	CSV4:         "CSV4",
	CSV5:         "CSV5",
	CSV6:         "CSV6",
	CSV7:         "CSV7",
	CSV8:         "CSV8",
	CSV9:         "CSV9",
	Pair:         "PAIR",
	Enum:         "ENUM",
}

var typesByName = func() map[string]Type {
	m := make(map[string]Type, len(typeNames))
	for t, name := range typeNames {
		if t != None {
			m[name] = t
		}
	}
	return m
}()

// String returns the tag as written in schema definitions.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType resolves a schema type name. Matching is case-insensitive.
func ParseType(name string) (Type, bool) {
	t, ok := typesByName[strings.ToUpper(strings.TrimSpace(name))]
	return t, ok
}

// Types returns every concrete type tag in declaration order.
func Types() []Type {
	out := make([]Type, 0, int(Enum))
	for t := Int; t <= Enum; t++ {
		out = append(out, t)
	}
	return out
}

// Kind reports which payload literals of this type carry.
func (t Type) Kind() Kind {
	switch t {
	case Int, Int7, Int8, Byte, Int16, Short, Int32, Int64, Long, Long7,
		Bool, Exist, NoExist, Enum:
		return KindInt
	case Half, Float, Single, Double, Angle:
		return KindFloat
	case String, StringTrim, StringNoTrim, Raw, RawTrim, RawNoTrim,
		Local, LocalTrim, LocalNoTrim, Code, Script, Color:
		return KindString
	case Tuple2, Tuple3, Tuple4, Tuple5, Tuple6, Tuple7, Tuple8, Tuple9,
		CSV2, CSV3, CSV4, CSV5, CSV6, CSV7, CSV8, CSV9, Pair:
		return KindComposite
	default:
		return KindNone
	}
}

// Arity is the number of parts of a TUPLE, CSV or PAIR type, 0 otherwise.
func (t Type) Arity() int {
	switch {
	case t >= Tuple2 && t <= Tuple9:
		return int(t-Tuple2) + 2
	case t >= CSV2 && t <= CSV9:
		return int(t-CSV2) + 2
	case t == Pair:
		return 2
	default:
		return 0
	}
}

// IsCSV reports whether tuple text is comma separated rather than whitespace
// separated.
func (t Type) IsCSV() bool {
	return t >= CSV2 && t <= CSV9
}

// IsLocal reports whether t is one of the localization leaf types.
func (t Type) IsLocal() bool {
	return t == Local || t == LocalTrim || t == LocalNoTrim
}

// Description is a one-line summary of the binary layout of t.
func (t Type) Description() string {
	switch t {
	case Int:
		return "integer, general integer encoder"
	case Int7:
		return "integer, 7-bit variable length (32-bit)"
	case Long7:
		return "integer, 7-bit variable length (64-bit)"
	case Int8, Byte:
		return "integer, 1 byte"
	case Int16, Short:
		return "integer, 2 bytes little-endian"
	case Int32:
		return "integer, 4 bytes little-endian"
	case Int64, Long:
		return "integer, 8 bytes little-endian"
	case Bool:
		return "boolean, 1 byte; empty, false, no and none are false"
	case Exist:
		return "boolean, 1 byte; true when the field is present"
	case NoExist:
		return "boolean, 1 byte; true when the field is absent"
	case Half:
		return "IEEE half precision float"
	case Float, Single:
		return "IEEE single precision float"
	case Double:
		return "IEEE double precision float"
	case Angle:
		return "degrees converted to radians, float or double"
	case String:
		return "interned string id, configured trim"
	case StringTrim:
		return "interned string id, aggressive trim"
	case StringNoTrim:
		return "interned string id, untrimmed"
	case Raw:
		return "inline string, configured trim"
	case RawTrim:
		return "inline string, aggressive trim"
	case RawNoTrim:
		return "inline string, untrimmed"
	case Local:
		return "localized string id, configured trim"
	case LocalTrim:
		return "localized string id, aggressive trim"
	case LocalNoTrim:
		return "localized string id, untrimmed"
	case Code, Script:
		return "script table id, configured code trim"
	case Color:
		return "four bytes R G B A"
	case Pair:
		return "two whitespace separated values"
	case Enum:
		return "enum ordinal from the type catalog, general integer encoder"
	}
	if n := t.Arity(); n > 0 {
		sep := "whitespace"
		if t.IsCSV() {
			sep = "comma"
		}
		return fmt.Sprintf("%d %s separated values", n, sep)
	}
	return ""
}
