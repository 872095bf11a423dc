package postcard

import (
	"context"
	"errors"
	"image"
	"image/color"
)

// Logical canvas geometry. All coordinates are in layout units; renderers
// multiply by RenderOptions.Scale.
const (
	CanvasWidth  = 512.0
	CanvasHeight = 694.0
	SideHeight   = 347.0
	CornerRadius = 20.0

	GreetingSize    = 16.0
	BodySize        = 14.0
	LineHeight      = 20.0
	MessageMaxWidth = 180.0

	SeparatorWidth = 2.0
	StampBorder    = 1.0   // drawn inside StampFrame
	StampRotation  = -5.96 // degrees

	PhotoCaption = "Your photo will appear here"
)

var (
	FrontRect      = Rect{X: 0, Y: 0, W: CanvasWidth, H: SideHeight}
	BackRect       = Rect{X: 0, Y: SideHeight, W: CanvasWidth, H: SideHeight}
	StampFrame     = Rect{X: 407, Y: 25, W: 80, H: 60}
	SignatureFrame = Rect{X: 322, Y: 247, W: 160, H: 70}
	ThumbnailFrame = Rect{X: 30, Y: 299, W: 16, H: 16}
	Separator      = Line{X1: 256, Y1: 23.5, X2: 256, Y2: 323.5}

	greetingAt = [2]float64{30, 30}
	messageAt  = [2]float64{30, 60}
	closingAt  = [2]float64{52, 300}

	StampPlaceholderFill   = color.NRGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
	StampPlaceholderStroke = color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
	CaptionColor           = color.NRGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}
)

// Line is a straight segment.
type Line struct {
	X1, Y1, X2, Y2 float64
}

// Text is one run of text anchored at its top-left corner.
type Text struct {
	Value  string
	X, Y   float64
	Size   float64
	Weight Weight
}

// Placement is a fitted image. Draw may extend past Frame in cover mode;
// renderers clip to Frame.
type Placement struct {
	Image    image.Image
	Frame    Rect
	Draw     Rect
	Mode     FitMode
	Rotation float64 // degrees about the frame center
}

// Layout is the renderer-independent description of a postcard.
type Layout struct {
	Background color.NRGBA
	Contrast   Contrast

	Greeting Text
	Message  []Text
	Closing  Text

	Thumbnail *Placement // nil: draw the user glyph
	Stamp     *Placement // nil: draw the stamp placeholder
	Signature *Placement // nil only in preview
	Photo     *Placement // nil only in preview: draw PhotoCaption
}

// LayoutOptions tunes BuildLayout.
type LayoutOptions struct {
	// Preview tolerates a missing photo or signature.
	Preview bool
	Fonts   *Fonts
}

// BuildLayout resolves contrast, wraps the message, decodes images and fits
// them into their frames.
func BuildLayout(ctx context.Context, s Spec, opts LayoutOptions) (*Layout, error) {
	fonts := opts.Fonts
	if fonts == nil {
		fonts = DefaultFonts()
	}

	bg, err := ParseHexColor(s.BackgroundColor)
	if err != nil {
		return nil, errors.Join(ErrValidation, err)
	}
	contrast := ContrastFor(bg)

	imgs, err := LoadImages(ctx, s, !opts.Preview)
	if err != nil {
		return nil, err
	}

	measure, err := fonts.Measurer(Regular, BodySize)
	if err != nil {
		return nil, err
	}

	l := &Layout{
		Background: bg,
		Contrast:   contrast,
		Greeting: Text{
			Value:  s.Greeting(),
			X:      greetingAt[0],
			Y:      greetingAt[1],
			Size:   GreetingSize,
			Weight: Bold,
		},
		Closing: Text{
			Value: s.Closing(),
			X:     closingAt[0],
			Y:     closingAt[1],
			Size:  BodySize,
		},
	}

	lines := Wrap(s.Message, MessageMaxWidth, measure)
	if !opts.Preview {
		if err := CheckLineBudget(lines); err != nil {
			return nil, err
		}
	}

	for i, line := range lines {
		l.Message = append(l.Message, Text{
			Value: line,
			X:     messageAt[0],
			Y:     messageAt[1] + float64(i)*LineHeight,
			Size:  BodySize,
		})
	}

	sig := imgs.Signature
	if sig != nil && contrast.TextIsWhite() {
		sig = InvertSignature(sig)
	}

	l.Stamp = place(imgs.Stamp, StampFrame, FitContain, StampRotation)
	l.Thumbnail = place(imgs.Stamp, ThumbnailFrame, FitCover, 0)
	l.Signature = place(sig, SignatureFrame, FitContain, 0)
	l.Photo = place(imgs.Photo, BackRect, FitCover, 0)

	if !opts.Preview {
		// Decoded but zero-sized.
		if l.Photo == nil {
			return nil, missingAsset("photo", nil)
		}
		if l.Signature == nil {
			return nil, missingAsset("signature", nil)
		}
	}

	return l, nil
}

func place(img image.Image, frame Rect, mode FitMode, rotation float64) *Placement {
	if img == nil {
		return nil
	}

	b := img.Bounds()
	draw, ok := FitInto(mode, float64(b.Dx()), float64(b.Dy()), frame)
	if !ok {
		return nil
	}

	return &Placement{
		Image:    img,
		Frame:    frame,
		Draw:     draw,
		Mode:     mode,
		Rotation: rotation,
	}
}
