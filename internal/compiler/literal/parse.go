package literal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/x2bin-lang/x2bin/internal/compiler/errors"
)

// falsyWords are the texts, besides blank text, that read as false.
var falsyWords = map[string]bool{
	"false": true,
	"no":    true,
	"none":  true,
}

// Parser turns text into literals. DefaultDouble selects DOUBLE instead of
// FLOAT for unsuffixed decimal text when no type hint is given.
type Parser struct {
	DefaultDouble bool
}

// IsFalsy reports whether text reads as false for a BOOL: blank text or one
// of the falsy words, case-insensitively.
func IsFalsy(text string) bool {
	trimmed := strings.TrimSpace(text)
	return trimmed == "" || falsyWords[strings.ToLower(trimmed)]
}

// IsPresent reports the EXIST value of an optional text: absent text and the
// falsy words are false, anything else (including empty text) is true.
func IsPresent(text *string) bool {
	if text == nil {
		return false
	}
	return !falsyWords[strings.ToLower(strings.TrimSpace(*text))]
}

// Parse converts text to a literal. With hint None the type is inferred from
// the text; otherwise the hint selects the payload directly.
func (p Parser) Parse(text string, hint Type) (Literal, error) {
	if hint == None {
		return p.infer(text), nil
	}

	switch hint.Kind() {
	case KindInt:
		switch hint {
		case Bool:
			return NewBool(!IsFalsy(text)), nil
		case Exist:
			return Literal{typ: Exist, i: boolInt(IsPresent(&text))}, nil
		case NoExist:
			return Literal{typ: NoExist, i: boolInt(!IsPresent(&text))}, nil
		case Enum:
			return Literal{}, fmt.Errorf("literal: ENUM values are resolved by the enum catalog, not parsed")
		}
		v, ok := parseInt(text)
		if !ok {
			return Literal{}, errors.NewTypeParse(text, hint.String())
		}
		return NewInt(hint, v), nil
	case KindFloat:
		v, ok := parseFloat(text)
		if !ok {
			return Literal{}, errors.NewTypeParse(text, hint.String())
		}
		return NewFloat(hint, v), nil
	case KindString:
		// Trimming is applied at encode time.
		return NewString(hint, text), nil
	default:
		return Literal{}, fmt.Errorf("literal: %s values are not parsed as a single literal", hint)
	}
}

func (p Parser) infer(text string) Literal {
	trimmed := strings.TrimSpace(text)

	switch strings.ToLower(trimmed) {
	case "true":
		return NewBool(true)
	case "false":
		return NewBool(false)
	}

	if n := len(trimmed); n > 1 {
		prefix := trimmed[:n-1]
		switch trimmed[n-1] {
		case 'H', 'h':
			if v, ok := parseFloat(prefix); ok {
				return NewFloat(Half, v)
			}
		case 'F', 'f':
			if v, ok := parseFloat(prefix); ok {
				return NewFloat(Float, v)
			}
		case 'D', 'd':
			if v, ok := parseFloat(prefix); ok {
				return NewFloat(Double, v)
			}
		case 'B', 'b':
			if v, ok := parseInt(prefix); ok {
				return NewInt(Int8, v)
			}
		case 'S', 's':
			if v, ok := parseInt(prefix); ok {
				return NewInt(Int16, v)
			}
		case 'I', 'i':
			if v, ok := parseInt(prefix); ok {
				return NewInt(Int32, v)
			}
		case 'L', 'l':
			if v, ok := parseInt(prefix); ok {
				return NewInt(Int64, v)
			}
		}
	}

	if v, ok := parseInt(trimmed); ok {
		return NewInt(Int, v)
	}
	if v, ok := parseFloat(trimmed); ok {
		if p.DefaultDouble {
			return NewFloat(Double, v)
		}
		return NewFloat(Float, v)
	}
	return NewString(String, text)
}

func parseInt(text string) (int64, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	return v, err == nil
}

// parseFloat accepts decimal notation only. Texts without digits, such as
// "inf" or "NaN", digit separators and hex floats stay strings.
func parseFloat(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if !strings.ContainsAny(text, "0123456789") || strings.ContainsAny(text, "_xX") {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	return v, err == nil
}
