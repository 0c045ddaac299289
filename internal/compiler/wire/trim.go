package wire

import (
	"regexp"
	"strings"

	"github.com/x2bin-lang/x2bin/internal/compiler/errors"
)

// TrimPolicy selects how string and code text is cleaned before it is
// written or interned.
type TrimPolicy int

const (
	TrimAggressive TrimPolicy = iota
	TrimPassive
	TrimNone
	TrimCStyle
)

// ParseStringTrim resolves a STRING trim policy: aggressive, passive or no.
func ParseStringTrim(name string) (TrimPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "aggressive":
		return TrimAggressive, nil
	case "passive":
		return TrimPassive, nil
	case "no", "none":
		return TrimNone, nil
	}
	return 0, errors.NewInvalidOption("STRING processor", name, "aggressive", "passive", "no")
}

// ParseCodeTrim resolves a SCRIPT trim policy: cstyle, aggressive, passive
// or no.
func ParseCodeTrim(name string) (TrimPolicy, error) {
	if strings.EqualFold(strings.TrimSpace(name), "cstyle") {
		return TrimCStyle, nil
	}
	p, err := ParseStringTrim(name)
	if err != nil {
		return 0, errors.NewInvalidOption("SCRIPT processor", name, "cstyle", "aggressive", "passive", "no")
	}
	return p, nil
}

func (p TrimPolicy) String() string {
	switch p {
	case TrimAggressive:
		return "aggressive"
	case TrimPassive:
		return "passive"
	case TrimNone:
		return "no"
	case TrimCStyle:
		return "cstyle"
	default:
		return "unknown"
	}
}

// Apply cleans text according to the policy.
func (p TrimPolicy) Apply(text string) string {
	switch p {
	case TrimAggressive:
		return AggressiveTrim(text)
	case TrimPassive:
		return strings.TrimSpace(text)
	case TrimCStyle:
		return CStyleTrim(text)
	default:
		return text
	}
}

// AggressiveTrim trims the text and every line in it.
func AggressiveTrim(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

var (
	lineComment  = regexp.MustCompile(`(?m)//.*$`)
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	whitespace   = regexp.MustCompile(`\s+`)
	punctuation  = regexp.MustCompile(`\s*([{}\[\]()*<>=;!^&|+\-%?.:])\s*`)
)

// CStyleTrim strips C style comments and all whitespace that is not needed
// to separate tokens.
func CStyleTrim(text string) string {
	text = blockComment.ReplaceAllString(text, "")
	text = lineComment.ReplaceAllString(text, "")
	text = whitespace.ReplaceAllString(text, " ")
	text = punctuation.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}
