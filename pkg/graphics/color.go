package graphics

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ErrUnknownColor is returned by ParseColor for values it cannot resolve.
var ErrUnknownColor = errors.New("unknown color")

// ParseColor resolves a stored color value. It accepts SVG color names in
// any letter case ("Red", "magenta"), "transparent", and the hex forms
// "#rgb", "#rrggbb" and "#aarrggbb" (alpha first).
func ParseColor(s string) (color.NRGBA, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return color.NRGBA{}, fmt.Errorf("%w: empty value", ErrUnknownColor)
	}
	if v[0] == '#' {
		return parseHex(v[1:])
	}

	name := strings.ToLower(v)
	if name == "transparent" {
		return color.NRGBA{}, nil
	}
	c, ok := colornames.Map[name]
	if !ok {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrUnknownColor, s)
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
}

func parseHex(h string) (color.NRGBA, error) {
	switch len(h) {
	case 3:
		n, err := strconv.ParseUint(h, 16, 16)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: #%s", ErrUnknownColor, h)
		}
		r := uint8(n>>8) & 0xf
		g := uint8(n>>4) & 0xf
		b := uint8(n) & 0xf
		return color.NRGBA{R: r<<4 | r, G: g<<4 | g, B: b<<4 | b, A: 255}, nil
	case 6:
		n, err := strconv.ParseUint(h, 16, 32)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: #%s", ErrUnknownColor, h)
		}
		return color.NRGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 255}, nil
	case 8:
		n, err := strconv.ParseUint(h, 16, 32)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: #%s", ErrUnknownColor, h)
		}
		return color.NRGBA{A: uint8(n >> 24), R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, nil
	}
	return color.NRGBA{}, fmt.Errorf("%w: #%s", ErrUnknownColor, h)
}

// ColorOr resolves s with ParseColor and falls back to def when s is not a
// known color.
func ColorOr(s string, def color.NRGBA) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		return def
	}
	return c
}

// HexString formats c as "#rrggbb", or "#aarrggbb" when it is not opaque.
func HexString(c color.NRGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.A, c.R, c.G, c.B)
}

// WithAlpha returns c with its alpha replaced.
func WithAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	c.A = uint8(clamp(alpha, 0, 1) * 255)
	return c
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// LineCap represents the line cap style.
type LineCap int

const (
	LineCapButt LineCap = iota
	LineCapRound
	LineCapSquare
)

// LineJoin represents the line join style.
type LineJoin int

const (
	LineJoinMiter LineJoin = iota
	LineJoinRound
	LineJoinBevel
)
