package postcard_test

import (
	"context"
	"encoding/binary"
	"hash/crc32"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/postcard/pkg/postcard"
)

func TestParseDataURL(t *testing.T) {
	t.Parallel()

	src := pngAsset(t, 4, 3, color.White)

	got, err := postcard.ParseDataURL(src.DataURL())
	require.NoError(t, err)
	assert.Equal(t, "image/png", got.MediaType)
	assert.Equal(t, src.Data, got.Data)

	img, err := got.Decode()
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())

	empty, err := postcard.ParseDataURL("  ")
	require.NoError(t, err)
	assert.Nil(t, empty)

	_, err = postcard.ParseDataURL("not a data url")
	assert.ErrorIs(t, err, postcard.ErrInvalidDataURL)

	_, err = postcard.ParseDataURL("data:text/plain;base64,aGVsbG8=")
	assert.ErrorIs(t, err, postcard.ErrInvalidDataURL)
}

func TestLoadImages(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("decodes every slot", func(t *testing.T) {
		t.Parallel()
		s := validSpec(t)
		s.Stamp = pngAsset(t, 50, 50, color.White)

		imgs, err := postcard.LoadImages(ctx, s, true)
		require.NoError(t, err)
		assert.NotNil(t, imgs.Stamp)
		assert.NotNil(t, imgs.Photo)
		assert.NotNil(t, imgs.Signature)
	})

	t.Run("missing signature", func(t *testing.T) {
		t.Parallel()
		s := validSpec(t)
		s.Signature = nil

		_, err := postcard.LoadImages(ctx, s, true)
		require.ErrorIs(t, err, postcard.ErrMissingAsset)
		re, ok := postcard.AsRenderError(err)
		require.True(t, ok)
		assert.Equal(t, postcard.KindMissingAsset, re.Kind)
		assert.Equal(t, "signature", re.Asset)
	})

	t.Run("undecodable photo", func(t *testing.T) {
		t.Parallel()
		s := validSpec(t)
		s.Photo = &postcard.Asset{Data: []byte("garbage"), MediaType: "image/png"}

		_, err := postcard.LoadImages(ctx, s, true)
		require.ErrorIs(t, err, postcard.ErrMissingAsset)
		assert.Contains(t, err.Error(), "photo")
	})

	t.Run("oversized header is refused before decoding", func(t *testing.T) {
		t.Parallel()
		s := validSpec(t)
		s.Photo = forgedPNG(t, 20000, 20000)
		s.Signature = forgedPNG(t, 20000, 20000)

		_, err := postcard.LoadImages(ctx, s, true)
		require.ErrorIs(t, err, postcard.ErrMissingAsset)
		assert.ErrorIs(t, err, postcard.ErrImageTooLarge)
	})

	t.Run("broken stamp is treated as absent", func(t *testing.T) {
		t.Parallel()
		s := validSpec(t)
		s.Stamp = &postcard.Asset{Data: []byte("garbage")}

		imgs, err := postcard.LoadImages(ctx, s, true)
		require.NoError(t, err)
		assert.Nil(t, imgs.Stamp)
	})

	t.Run("preview tolerates missing images", func(t *testing.T) {
		t.Parallel()
		s := validSpec(t)
		s.Photo, s.Signature = nil, &postcard.Asset{Data: []byte("x")}

		imgs, err := postcard.LoadImages(ctx, s, false)
		require.NoError(t, err)
		assert.Nil(t, imgs.Photo)
		assert.Nil(t, imgs.Signature)
	})
}

func TestInvertSignature(t *testing.T) {
	t.Parallel()

	img, err := pngAsset(t, 2, 2, color.NRGBA{R: 10, G: 20, B: 30, A: 128}).Decode()
	require.NoError(t, err)

	inv := postcard.InvertSignature(img)
	got := color.NRGBAModel.Convert(inv.At(0, 0)).(color.NRGBA)
	assert.Equal(t, uint8(128), got.A)
	assert.InDelta(t, 245, int(got.R), 1)
	assert.InDelta(t, 235, int(got.G), 1)
	assert.InDelta(t, 225, int(got.B), 1)
}

// forgedPNG rewrites the IHDR of a 1x1 PNG to claim w x h pixels.
func forgedPNG(t *testing.T, w, h uint32) *postcard.Asset {
	t.Helper()

	a := pngAsset(t, 1, 1, color.White)
	data := append([]byte(nil), a.Data...)
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return &postcard.Asset{Data: data, MediaType: "image/png"}
}

func TestAssetDecode_PixelBudget(t *testing.T) {
	t.Parallel()

	_, err := forgedPNG(t, 8000, 5001).Decode()
	assert.ErrorIs(t, err, postcard.ErrImageTooLarge)

	img, err := pngAsset(t, 640, 480, color.White).Decode()
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
}
