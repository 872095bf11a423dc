package compositor

import (
	"bytes"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/dmitrymomot/postcard/pkg/postcard"
)

func encode(img image.Image, format postcard.Format, quality int) ([]byte, error) {
	var buf bytes.Buffer

	if format == postcard.FormatJPEG {
		// JPEG has no alpha; the rounded corners go white instead of black.
		b := img.Bounds()
		flat := imaging.New(b.Dx(), b.Dy(), color.White)
		flat = imaging.Overlay(flat, img, image.Point{}, 1.0)
		if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
