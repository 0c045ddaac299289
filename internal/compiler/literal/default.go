package literal

import (
	"strconv"
	"strings"

	"github.com/x2bin-lang/x2bin/internal/compiler/errors"
)

// Default returns the literals written for an absent field of type t.
// Tuple types default to one zero INT per part, NO_EXIST defaults to true
// and every other type to a single zero value of that type.
func Default(t Type) []Literal {
	if n := t.Arity(); n > 0 {
		out := make([]Literal, n)
		for i := range out {
			out[i] = NewInt(Int, 0)
		}
		return out
	}

	switch t.Kind() {
	case KindInt:
		if t == NoExist {
			return []Literal{{typ: NoExist, i: 1}}
		}
		return []Literal{{typ: t}}
	case KindFloat, KindString:
		return []Literal{{typ: t}}
	default:
		return nil
	}
}

// ParseTuple splits text into the parts of a TUPLEN, CSVN or PAIR value.
// CSV text splits on commas, the others on whitespace; blank parts are
// dropped. Parts that read as integers become INT, the rest STRING.
func ParseTuple(text string, t Type) ([]Literal, error) {
	arity := t.Arity()
	var parts []string
	if t.IsCSV() {
		for _, part := range strings.Split(text, ",") {
			if part = strings.TrimSpace(part); part != "" {
				parts = append(parts, part)
			}
		}
	} else {
		parts = strings.Fields(text)
	}

	if len(parts) != arity {
		return nil, errors.NewArityMismatch(strings.TrimSpace(text), len(parts), arity, t.String())
	}

	out := make([]Literal, arity)
	for i, part := range parts {
		if v, err := strconv.ParseInt(part, 10, 32); err == nil {
			out[i] = NewInt(Int, v)
		} else {
			out[i] = NewString(String, part)
		}
	}
	return out, nil
}
