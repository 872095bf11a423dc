package postcard_test

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/postcard/pkg/postcard"
)

func pngAsset(t *testing.T, w, h int, c color.Color) *postcard.Asset {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &postcard.Asset{Data: buf.Bytes(), MediaType: "image/png"}
}

func validSpec(t *testing.T) postcard.Spec {
	t.Helper()

	return postcard.Spec{
		RecipientName:   "Sam",
		SenderHandle:    "sam01",
		Message:         "Hi Sam, hope you're well!",
		BackgroundColor: "#FFFFFF",
		Photo:           pngAsset(t, 640, 480, color.NRGBA{R: 200, G: 120, B: 40, A: 255}),
		Signature:       pngAsset(t, 300, 100, color.NRGBA{A: 255}),
	}
}
