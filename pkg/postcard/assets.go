package postcard

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/vincent-petithory/dataurl"
	_ "golang.org/x/image/webp"

	"github.com/dmitrymomot/postcard/pkg/async"
)

// ParseDataURL decodes a data: URL into an Asset. An empty string yields nil.
func ParseDataURL(s string) (*Asset, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	du, err := dataurl.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	if !strings.HasPrefix(du.MediaType.ContentType(), "image/") {
		return nil, fmt.Errorf("%w: not an image (%s)", ErrInvalidDataURL, du.MediaType.ContentType())
	}

	return &Asset{Data: du.Data, MediaType: du.MediaType.ContentType()}, nil
}

// DataURL encodes the asset back into a base64 data: URL.
func (a *Asset) DataURL() string {
	return dataurl.New(a.Data, a.MediaType).String()
}

// MaxAssetPixels bounds the bitmap an uploaded image may decode to.
const MaxAssetPixels = 40_000_000

// Decode decodes the asset's bitmap. The header is read first so an image
// claiming more than MaxAssetPixels is refused before any pixel buffer exists.
func (a *Asset) Decode() (image.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(a.Data))
	if err != nil {
		return nil, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxAssetPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(a.Data))
	return img, err
}

// Images are the decoded bitmaps of a Spec. Nil means absent.
type Images struct {
	Stamp, Photo, Signature image.Image
}

// LoadImages decodes all assets concurrently and waits for every one before
// returning. With required set, a missing or undecodable photo or signature
// fails with ErrMissingAsset; the stamp is always optional and an unreadable
// one is treated as absent.
func LoadImages(ctx context.Context, s Spec, required bool) (Images, error) {
	if err := ctx.Err(); err != nil {
		return Images{}, err
	}

	decode := func(_ context.Context, a *Asset) (image.Image, error) {
		if a.Empty() {
			return nil, nil
		}
		return a.Decode()
	}

	results := async.Settle(
		async.Async(ctx, s.Stamp, decode),
		async.Async(ctx, s.Photo, decode),
		async.Async(ctx, s.Signature, decode),
	)

	imgs := Images{
		Stamp:     results[0].Value,
		Photo:     results[1].Value,
		Signature: results[2].Value,
	}
	if results[0].Err != nil {
		imgs.Stamp = nil
	}

	if !required {
		if results[1].Err != nil {
			imgs.Photo = nil
		}
		if results[2].Err != nil {
			imgs.Signature = nil
		}
		return imgs, nil
	}

	for _, slot := range []struct {
		name string
		img  image.Image
		err  error
	}{
		{"photo", imgs.Photo, results[1].Err},
		{"signature", imgs.Signature, results[2].Err},
	} {
		if slot.err != nil {
			return Images{}, missingAsset(slot.name, slot.err)
		}
		if slot.img == nil {
			return Images{}, missingAsset(slot.name, nil)
		}
	}

	return imgs, nil
}

// InvertSignature negates RGB and keeps alpha so dark ink reads on a dark card.
func InvertSignature(img image.Image) image.Image {
	return imaging.Invert(img)
}
