package document

import (
	"strings"

	"github.com/x2bin-lang/x2bin/internal/compiler/errors"
)

// Format is an input document format.
type Format int

const (
	FormatXML Format = iota
	FormatJSON
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatXML:
		return "XML"
	case FormatJSON:
		return "JSON"
	case FormatYAML:
		return "YAML"
	default:
		return "unknown"
	}
}

// DetectFormat picks the input format from an explicit mode, falling back to
// the input path's extension. Only XML has an adapter; JSON and YAML inputs
// are recognized and rejected.
func DetectFormat(mode, input string) (Format, error) {
	mode = strings.ToLower(mode)
	lower := strings.ToLower(input)

	switch {
	case strings.Contains(mode, "xml"):
		return FormatXML, nil
	case strings.Contains(mode, "json"):
		return FormatJSON, errors.NewUnsupportedFormat(FormatJSON.String())
	case strings.Contains(mode, "yaml"), strings.Contains(mode, "yml"):
		return FormatYAML, errors.NewUnsupportedFormat(FormatYAML.String())
	case mode != "":
		return 0, errors.NewInvalidOption("mode", mode, "xml", "json", "yaml")
	}

	switch {
	case strings.HasSuffix(lower, ".xml"):
		return FormatXML, nil
	case strings.HasSuffix(lower, ".json"):
		return FormatJSON, errors.NewUnsupportedFormat(FormatJSON.String())
	case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		return FormatYAML, errors.NewUnsupportedFormat(FormatYAML.String())
	}
	return 0, errors.NewInvalidOption("mode", "", "xml", "json", "yaml").
		WithSuggestion("Pass --mode xml or use an input ending in .xml")
}
