package postcard

import (
	"context"
	"math"

	"github.com/vincent-petithory/dataurl"
)

// Format is the encoding of a rendered postcard.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

func (f Format) ContentType() string {
	if f == FormatJPEG {
		return "image/jpeg"
	}
	return "image/png"
}

func (f Format) Extension() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	return ".png"
}

const (
	MaxScale       = 8.0
	DefaultQuality = 90
)

// RenderOptions control output resolution and encoding. Output pixels are
// the logical canvas multiplied by Scale.
type RenderOptions struct {
	Scale   float64
	Format  Format
	Quality int // JPEG only, 1-100
	Preview bool
}

// EmailOptions is 2x lossy output sized for an attachment.
func EmailOptions() RenderOptions {
	return RenderOptions{Scale: 2, Format: FormatJPEG, Quality: DefaultQuality}
}

// DownloadOptions is 4x lossless output.
func DownloadOptions() RenderOptions {
	return RenderOptions{Scale: 4, Format: FormatPNG}
}

// Normalize clamps invalid values to defaults.
func (o RenderOptions) Normalize() RenderOptions {
	if o.Scale <= 0 || math.IsNaN(o.Scale) {
		o.Scale = 1
	}
	o.Scale = math.Min(o.Scale, MaxScale)
	if o.Format != FormatJPEG {
		o.Format = FormatPNG
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = DefaultQuality
	}
	return o
}

// PixelSize is the output bitmap size for these options.
func (o RenderOptions) PixelSize() (int, int) {
	o = o.Normalize()
	return int(math.Round(CanvasWidth * o.Scale)), int(math.Round(CanvasHeight * o.Scale))
}

// Rendered is an encoded postcard image.
type Rendered struct {
	Data   []byte
	Format Format
	Width  int
	Height int
}

func (r *Rendered) ContentType() string { return r.Format.ContentType() }

// DataURL encodes the image as a base64 data: URL.
func (r *Rendered) DataURL() string {
	return dataurl.New(r.Data, r.ContentType()).String()
}

// Renderer turns a Spec into an encoded image. Implementations return
// *RenderError for pipeline failures.
type Renderer interface {
	Render(ctx context.Context, s Spec, opts RenderOptions) (*Rendered, error)
}
