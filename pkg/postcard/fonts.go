package postcard

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Weight selects the regular or bold face.
type Weight int

const (
	Regular Weight = iota
	Bold
)

// Fonts holds the parsed typefaces shared by both renderers so text metrics
// match across output paths. Parsed fonts are immutable and safe to share;
// faces are not, so every caller gets a fresh one from Face.
type Fonts struct {
	regular, bold       *opentype.Font
	regularTTF, boldTTF []byte
}

var (
	defaultFonts     *Fonts
	defaultFontsOnce sync.Once
)

// DefaultFonts returns the embedded Go fonts.
func DefaultFonts() *Fonts {
	defaultFontsOnce.Do(func() {
		f, err := NewFonts(goregular.TTF, gobold.TTF)
		if err != nil {
			panic(fmt.Sprintf("postcard: embedded fonts failed to parse: %v", err))
		}
		defaultFonts = f
	})
	return defaultFonts
}

// NewFonts parses a regular and a bold TrueType/OpenType font.
func NewFonts(regularTTF, boldTTF []byte) (*Fonts, error) {
	regular, err := opentype.Parse(regularTTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(boldTTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	return &Fonts{
		regular:    regular,
		bold:       bold,
		regularTTF: regularTTF,
		boldTTF:    boldTTF,
	}, nil
}

// Face creates a face at size pixels (72 DPI). Hinting is off so widths
// scale linearly with size.
func (f *Fonts) Face(w Weight, size float64) (font.Face, error) {
	return opentype.NewFace(f.font(w), &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// TTF returns the raw font file, used for @font-face embedding.
func (f *Fonts) TTF(w Weight) []byte {
	if w == Bold {
		return f.boldTTF
	}
	return f.regularTTF
}

// Measurer returns a Measurer over a fresh face. It is not safe for
// concurrent use.
func (f *Fonts) Measurer(w Weight, size float64) (Measurer, error) {
	face, err := f.Face(w, size)
	if err != nil {
		return nil, err
	}
	return faceMeasurer{face: face}, nil
}

func (f *Fonts) font(w Weight) *opentype.Font {
	if w == Bold {
		return f.bold
	}
	return f.regular
}

type faceMeasurer struct {
	face font.Face
}

func (m faceMeasurer) MeasureString(s string) float64 {
	return float64(font.MeasureString(m.face, s)) / 64
}
