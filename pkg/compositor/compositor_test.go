package compositor_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/postcard/pkg/compositor"
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

var photoColor = color.NRGBA{R: 200, G: 120, B: 40, A: 255}

func spec(t *testing.T) postcard.Spec {
	t.Helper()

	return postcard.Spec{
		RecipientName:   "Sam",
		SenderHandle:    "sam01",
		Message:         "Hi Sam, hope you're well!",
		BackgroundColor: "#FFFFFF",
		Photo:           pngAsset(t, 640, 480, photoColor),
		Signature:       pngAsset(t, 300, 100, color.NRGBA{A: 255}),
	}
}

func decodePNG(t *testing.T, r *postcard.Rendered) image.Image {
	t.Helper()

	require.Equal(t, postcard.FormatPNG, r.Format)
	img, err := png.Decode(bytes.NewReader(r.Data))
	require.NoError(t, err)
	return img
}

func rgba(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

func near(t *testing.T, want, got color.NRGBA, tol int) {
	t.Helper()

	diff := func(a, b uint8) int {
		d := int(a) - int(b)
		if d < 0 {
			return -d
		}
		return d
	}
	assert.LessOrEqual(t, diff(want.R, got.R), tol, "R want=%v got=%v", want, got)
	assert.LessOrEqual(t, diff(want.G, got.G), tol, "G want=%v got=%v", want, got)
	assert.LessOrEqual(t, diff(want.B, got.B), tol, "B want=%v got=%v", want, got)
	assert.LessOrEqual(t, diff(want.A, got.A), tol, "A want=%v got=%v", want, got)
}

func TestRender_Dimensions(t *testing.T) {
	t.Parallel()

	c := compositor.New()

	for _, scale := range []float64{1, 2, 4} {
		r, err := c.Render(context.Background(), spec(t), postcard.RenderOptions{Scale: scale, Format: postcard.FormatPNG})
		require.NoError(t, err)

		img := decodePNG(t, r)
		wantW, wantH := postcard.RenderOptions{Scale: scale}.PixelSize()
		assert.Equal(t, wantW, img.Bounds().Dx())
		assert.Equal(t, wantH, img.Bounds().Dy())
		assert.Equal(t, wantW, r.Width)
		assert.Equal(t, wantH, r.Height)
		assert.InDelta(t, 512.0/694.0, float64(r.Width)/float64(r.Height), 0.01)
	}
}

func TestRender_Pixels(t *testing.T) {
	t.Parallel()

	r, err := compositor.New().Render(context.Background(), spec(t), postcard.RenderOptions{Scale: 1})
	require.NoError(t, err)
	img := decodePNG(t, r)

	t.Run("rounded corners are transparent", func(t *testing.T) {
		assert.Equal(t, uint8(0), rgba(img.At(0, 0)).A)
		assert.Equal(t, uint8(0), rgba(img.At(511, 693)).A)
	})

	t.Run("front background", func(t *testing.T) {
		near(t, postcard.White, rgba(img.At(100, 200)), 2)
	})

	t.Run("photo covers the back", func(t *testing.T) {
		near(t, photoColor, rgba(img.At(256, 520)), 3)
		near(t, photoColor, rgba(img.At(5, 400)), 3)
	})

	t.Run("stamp placeholder", func(t *testing.T) {
		near(t, postcard.StampPlaceholderFill, rgba(img.At(447, 55)), 3)
	})

	t.Run("signature stays dark on light background", func(t *testing.T) {
		near(t, postcard.Black, rgba(img.At(402, 282)), 10)
	})

	t.Run("greeting is drawn", func(t *testing.T) {
		dark := 0
		for y := 30; y < 50; y++ {
			for x := 30; x < 80; x++ {
				if rgba(img.At(x, y)).R < 128 {
					dark++
				}
			}
		}
		assert.Positive(t, dark)
	})
}

func TestRender_DarkBackground(t *testing.T) {
	t.Parallel()

	s := spec(t)
	s.BackgroundColor = "#1E3A8A"

	r, err := compositor.New().Render(context.Background(), s, postcard.RenderOptions{Scale: 1})
	require.NoError(t, err)
	img := decodePNG(t, r)

	near(t, color.NRGBA{R: 0x1e, G: 0x3a, B: 0x8a, A: 0xff}, rgba(img.At(100, 200)), 2)
	// inverted signature
	near(t, postcard.White, rgba(img.At(402, 282)), 10)
}

func TestRender_JPEG(t *testing.T) {
	t.Parallel()

	r, err := compositor.New().Render(context.Background(), spec(t), postcard.EmailOptions())
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", r.ContentType())

	img, err := jpeg.Decode(bytes.NewReader(r.Data))
	require.NoError(t, err)
	assert.Equal(t, 1024, img.Bounds().Dx())
	assert.Equal(t, 1388, img.Bounds().Dy())

	// corners flattened onto white
	near(t, postcard.White, rgba(img.At(0, 0)), 12)
}

func TestRender_MissingAsset(t *testing.T) {
	t.Parallel()

	s := spec(t)
	s.Signature = nil

	r, err := compositor.New().Render(context.Background(), s, postcard.DownloadOptions())
	require.Error(t, err)
	assert.Nil(t, r)
	assert.ErrorIs(t, err, postcard.ErrMissingAsset)

	re, ok := postcard.AsRenderError(err)
	require.True(t, ok)
	assert.Equal(t, postcard.KindMissingAsset, re.Kind)
	assert.Equal(t, "signature", re.Asset)
}

func TestRender_PreviewWithoutImages(t *testing.T) {
	t.Parallel()

	s := spec(t)
	s.Photo = nil
	s.Signature = nil

	r, err := compositor.New().Render(context.Background(), s, postcard.RenderOptions{Scale: 1, Preview: true})
	require.NoError(t, err)
	img := decodePNG(t, r)

	// back side is background colored where no caption glyphs are
	near(t, postcard.White, rgba(img.At(50, 400)), 2)
}

func TestRender_StampBorderInsideFrame(t *testing.T) {
	t.Parallel()

	r, err := compositor.New().Render(context.Background(), spec(t), postcard.RenderOptions{Scale: 4})
	require.NoError(t, err)
	img := decodePNG(t, r)

	// At 4x the rotated top edge crosses column 1788 near y=99.3. Two rows
	// above it stay background; two rows below sit inside the 4px border.
	near(t, postcard.White, rgba(img.At(1788, 97)), 2)
	near(t, postcard.StampPlaceholderStroke, rgba(img.At(1788, 101)), 3)
}

func TestRender_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := compositor.New().Render(ctx, spec(t), postcard.DownloadOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRender_Concurrent(t *testing.T) {
	t.Parallel()

	c := compositor.New()
	s := spec(t)

	errs := make(chan error, 8)
	for range 8 {
		go func() {
			_, err := c.Render(context.Background(), s, postcard.RenderOptions{Scale: 1})
			errs <- err
		}()
	}
	for range 8 {
		assert.NoError(t, <-errs)
	}
}
