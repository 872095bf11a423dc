package postcard

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

var (
	Black = color.NRGBA{A: 0xff}
	White = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	// Separator colors are 16% opaque.
	SeparatorOnLight = color.NRGBA{R: 170, G: 170, B: 170, A: 41}
	SeparatorOnDark  = color.NRGBA{R: 255, G: 255, B: 255, A: 41}
)

// Contrast is the foreground theme derived from a background color.
type Contrast struct {
	Text      color.NRGBA
	Separator color.NRGBA
}

// TextIsWhite reports the dark-background theme, which also inverts the signature.
func (c Contrast) TextIsWhite() bool {
	return c.Text == White
}

// ParseHexColor parses #RRGGBB (the leading # is optional).
func ParseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// Luminance is 0.299R + 0.587G + 0.114B on channels normalized to [0,1].
func Luminance(c color.NRGBA) float64 {
	return (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255
}

// ContrastFor picks black text when luminance is above 0.5, white otherwise.
func ContrastFor(bg color.NRGBA) Contrast {
	if Luminance(bg) > 0.5 {
		return Contrast{Text: Black, Separator: SeparatorOnLight}
	}
	return Contrast{Text: White, Separator: SeparatorOnDark}
}

// ResolveContrast is ContrastFor over a hex string.
func ResolveContrast(hex string) (Contrast, error) {
	bg, err := ParseHexColor(hex)
	if err != nil {
		return Contrast{}, err
	}
	return ContrastFor(bg), nil
}
