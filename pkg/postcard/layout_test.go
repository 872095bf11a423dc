package postcard_test

import (
	"context"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/postcard/pkg/postcard"
)

func TestBuildLayout(t *testing.T) {
	t.Parallel()

	l, err := postcard.BuildLayout(context.Background(), validSpec(t), postcard.LayoutOptions{})
	require.NoError(t, err)

	assert.Equal(t, postcard.Black, l.Contrast.Text)
	assert.Equal(t, "Hey Sam,", l.Greeting.Value)
	assert.Equal(t, postcard.Bold, l.Greeting.Weight)
	assert.Equal(t, "Sincerely, @sam01", l.Closing.Value)

	require.NotEmpty(t, l.Message)
	for i, line := range l.Message {
		assert.Equal(t, 60+float64(i)*postcard.LineHeight, line.Y)
		assert.Equal(t, 30.0, line.X)
	}

	var joined []string
	for _, line := range l.Message {
		joined = append(joined, line.Value)
	}
	assert.Equal(t, "Hi Sam, hope you're well!", strings.Join(joined, " "))

	require.NotNil(t, l.Photo)
	assert.Equal(t, postcard.BackRect, l.Photo.Frame)
	assert.Equal(t, postcard.FitCover, l.Photo.Mode)
	assert.GreaterOrEqual(t, l.Photo.Draw.W, postcard.BackRect.W)
	assert.GreaterOrEqual(t, l.Photo.Draw.H, postcard.BackRect.H)

	require.NotNil(t, l.Signature)
	assert.Equal(t, postcard.FitContain, l.Signature.Mode)

	// no stamp: placeholder and glyph
	assert.Nil(t, l.Stamp)
	assert.Nil(t, l.Thumbnail)
}

func TestBuildLayout_DarkBackgroundInvertsSignature(t *testing.T) {
	t.Parallel()

	s := validSpec(t)
	s.BackgroundColor = "#1E3A8A"
	s.Stamp = pngAsset(t, 120, 90, color.White)

	l, err := postcard.BuildLayout(context.Background(), s, postcard.LayoutOptions{})
	require.NoError(t, err)

	assert.True(t, l.Contrast.TextIsWhite())
	ink := color.NRGBAModel.Convert(l.Signature.Image.At(0, 0)).(color.NRGBA)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, ink)

	require.NotNil(t, l.Stamp)
	assert.Equal(t, postcard.StampRotation, l.Stamp.Rotation)
	assert.Equal(t, postcard.StampFrame.W, l.Stamp.Draw.W)
	require.NotNil(t, l.Thumbnail)
}

func TestBuildLayout_MissingAsset(t *testing.T) {
	t.Parallel()

	s := validSpec(t)
	s.Signature = nil

	_, err := postcard.BuildLayout(context.Background(), s, postcard.LayoutOptions{})
	assert.ErrorIs(t, err, postcard.ErrMissingAsset)

	l, err := postcard.BuildLayout(context.Background(), s, postcard.LayoutOptions{Preview: true})
	require.NoError(t, err)
	assert.Nil(t, l.Signature)
}

func TestBuildLayout_InvalidColor(t *testing.T) {
	t.Parallel()

	s := validSpec(t)
	s.BackgroundColor = "blue"

	_, err := postcard.BuildLayout(context.Background(), s, postcard.LayoutOptions{})
	assert.ErrorIs(t, err, postcard.ErrValidation)
	assert.ErrorIs(t, err, postcard.ErrInvalidColor)
}
