package schema

import (
	"strings"
)

// Reserved keys.
const (
	keyName    = "$name"
	keyValue   = "$value"
	keyAny     = "$any"
	keyAttrs   = "$attrs"
	keyDefault = "$default"
	keyInclude = "$$include"
)

// Modifiers is the parsed form of a definition key: the field name and the
// sigils around it.
type Modifiers struct {
	Name string
	// Special is the reserved form ($name, $value, $any, $attrs, $default)
	// the key spells, or empty.
	Special string

	Attribute bool // leading ~
	Recursive bool // leading $, registers the subtree under Name
	Auxiliary bool // leading $$
	Array     bool // trailing *
	Presence  bool // trailing ?
	ZeroFill  bool // trailing +
	Required  bool // trailing !
}

// ParseModifiers splits a definition key into its name and sigils. Trailing
// sigils may be combined in any order.
func ParseModifiers(key string) Modifiers {
	key = strings.TrimSpace(key)
	switch key {
	case keyName, keyValue, keyAny, keyAttrs, keyDefault:
		return Modifiers{Special: key}
	}

	var m Modifiers
	name := key
	switch {
	case strings.HasPrefix(name, "$$"):
		m.Auxiliary = true
		m.Recursive = true
		name = name[2:]
	case strings.HasPrefix(name, "$"):
		m.Recursive = true
		name = name[1:]
	case strings.HasPrefix(name, "~"):
		m.Attribute = true
		name = name[1:]
	}

	for len(name) > 0 {
		switch name[len(name)-1] {
		case '*':
			m.Array = true
		case '?':
			m.Presence = true
		case '+':
			m.ZeroFill = true
		case '!':
			m.Required = true
		default:
			m.Name = name
			return m
		}
		name = name[:len(name)-1]
	}
	return m
}

// IsInclude reports whether key is an include directive, either bare
// ($$include, path in the value) or carrying the path ($$include path).
func IsInclude(key string) (path string, ok bool) {
	key = strings.TrimSpace(key)
	if !strings.HasPrefix(key, keyInclude) {
		return "", false
	}
	rest := key[len(keyInclude):]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return "", false
	}
	return strings.TrimSpace(rest), true
}
