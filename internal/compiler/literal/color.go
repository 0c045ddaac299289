package literal

import (
	"encoding/hex"
	"strings"

	"github.com/x2bin-lang/x2bin/internal/compiler/errors"
)

// RGBA is a four channel color as written by COLOR literals.
type RGBA struct {
	R, G, B, A uint8
}

var namedColors = map[string]RGBA{
	"transparent": {0, 0, 0, 0},
	"black":       {0, 0, 0, 255},
	"white":       {255, 255, 255, 255},
	"red":         {255, 0, 0, 255},
	"lime":        {0, 255, 0, 255},
	"green":       {0, 128, 0, 255},
	"blue":        {0, 0, 255, 255},
	"yellow":      {255, 255, 0, 255},
	"cyan":        {0, 255, 255, 255},
	"aqua":        {0, 255, 255, 255},
	"magenta":     {255, 0, 255, 255},
	"fuchsia":     {255, 0, 255, 255},
	"gray":        {128, 128, 128, 255},
	"grey":        {128, 128, 128, 255},
	"silver":      {192, 192, 192, 255},
	"maroon":      {128, 0, 0, 255},
	"olive":       {128, 128, 0, 255},
	"navy":        {0, 0, 128, 255},
	"purple":      {128, 0, 128, 255},
	"teal":        {0, 128, 128, 255},
	"orange":      {255, 165, 0, 255},
}

// ParseColor reads blank text, a named color, or hex #RRGGBB / #RRGGBBAA.
// Colors without an alpha channel are opaque.
func ParseColor(text string) (RGBA, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return RGBA{}, nil
	}
	if c, ok := namedColors[strings.ToLower(trimmed)]; ok {
		return c, nil
	}

	digits := strings.TrimPrefix(trimmed, "#")
	if len(digits) != 6 && len(digits) != 8 {
		return RGBA{}, errors.NewTypeParse(text, Color.String())
	}
	raw, err := hex.DecodeString(digits)
	if err != nil {
		return RGBA{}, errors.NewTypeParse(text, Color.String())
	}
	c := RGBA{R: raw[0], G: raw[1], B: raw[2], A: 255}
	if len(raw) == 4 {
		c.A = raw[3]
	}
	return c, nil
}
