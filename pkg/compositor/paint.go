package compositor

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/dmitrymomot/postcard/pkg/postcard"
)

// Paint rasterizes a layout. Coordinates are multiplied by scale and faces
// are built at size*scale, so glyphs are never resampled.
func (c *Compositor) Paint(l *postcard.Layout, scale float64) (image.Image, error) {
	w := int(math.Round(postcard.CanvasWidth * scale))
	h := int(math.Round(postcard.CanvasHeight * scale))

	p := &painter{
		dc:    gg.NewContext(w, h),
		s:     scale,
		fonts: c.fonts,
		faces: make(map[faceKey]font.Face, 3),
	}
	defer p.close()

	if err := p.front(l); err != nil {
		return nil, err
	}
	if err := p.back(l); err != nil {
		return nil, err
	}

	return p.dc.Image(), nil
}

type faceKey struct {
	weight postcard.Weight
	size   float64
}

type painter struct {
	dc    *gg.Context
	s     float64
	fonts *postcard.Fonts
	faces map[faceKey]font.Face
}

func (p *painter) close() {
	for _, f := range p.faces {
		_ = f.Close()
	}
}

func (p *painter) front(l *postcard.Layout) error {
	p.side(postcard.FrontRect, true)
	p.dc.SetColor(l.Background)
	p.dc.Fill()

	sep := postcard.Separator
	p.dc.SetColor(l.Contrast.Separator)
	p.dc.SetLineWidth(postcard.SeparatorWidth * p.s)
	p.dc.DrawLine(sep.X1*p.s, sep.Y1*p.s, sep.X2*p.s, sep.Y2*p.s)
	p.dc.Stroke()

	if err := p.text(l.Greeting, l.Contrast.Text); err != nil {
		return err
	}
	for _, line := range l.Message {
		if err := p.text(line, l.Contrast.Text); err != nil {
			return err
		}
	}

	if l.Thumbnail != nil {
		p.thumbnail(l.Thumbnail)
	} else {
		p.userGlyph(l.Contrast.Text)
	}
	if err := p.text(l.Closing, l.Contrast.Text); err != nil {
		return err
	}

	if l.Stamp != nil {
		p.image(l.Stamp)
	} else {
		p.stampPlaceholder()
	}

	if l.Signature != nil {
		p.image(l.Signature)
	}
	return nil
}

func (p *painter) back(l *postcard.Layout) error {
	p.side(postcard.BackRect, false)
	p.dc.SetColor(l.Background)
	p.dc.Fill()

	if l.Photo != nil {
		p.dc.Push()
		p.side(postcard.BackRect, false)
		p.dc.Clip()
		p.image(l.Photo)
		p.dc.Pop()
		return nil
	}

	face, err := p.face(postcard.Regular, postcard.BodySize)
	if err != nil {
		return err
	}
	p.dc.SetFontFace(face)
	p.dc.SetColor(postcard.CaptionColor)
	cx, cy := postcard.BackRect.Center()
	p.dc.DrawStringAnchored(postcard.PhotoCaption, cx*p.s, cy*p.s, 0.5, 0.5)
	return nil
}

// side traces a card half with the outer corners rounded: top corners for
// the front, bottom corners for the back.
func (p *painter) side(r postcard.Rect, top bool) {
	r = r.Scale(p.s)
	radius := postcard.CornerRadius * p.s

	p.dc.NewSubPath()
	p.dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, radius)
	if top {
		p.dc.DrawRectangle(r.X, r.Y+r.H-radius, r.W, radius)
	} else {
		p.dc.DrawRectangle(r.X, r.Y, r.W, radius)
	}
}

func (p *painter) face(w postcard.Weight, size float64) (font.Face, error) {
	key := faceKey{weight: w, size: size}
	if f, ok := p.faces[key]; ok {
		return f, nil
	}
	f, err := p.fonts.Face(w, size*p.s)
	if err != nil {
		return nil, err
	}
	p.faces[key] = f
	return f, nil
}

// text draws t with its top edge at t.Y.
func (p *painter) text(t postcard.Text, c color.Color) error {
	face, err := p.face(t.Weight, t.Size)
	if err != nil {
		return err
	}
	ascent := float64(face.Metrics().Ascent) / 64

	p.dc.SetFontFace(face)
	p.dc.SetColor(c)
	p.dc.DrawString(t.Value, t.X*p.s, t.Y*p.s+ascent)
	return nil
}

// image draws a placement, rotated about its frame center when requested.
func (p *painter) image(pl *postcard.Placement) {
	d := pl.Draw.Scale(p.s)
	w := max(1, int(math.Round(d.W)))
	h := max(1, int(math.Round(d.H)))
	resized := imaging.Resize(pl.Image, w, h, imaging.Lanczos)

	p.dc.Push()
	defer p.dc.Pop()

	if pl.Rotation != 0 {
		cx, cy := pl.Frame.Scale(p.s).Center()
		p.dc.RotateAbout(gg.Radians(pl.Rotation), cx, cy)
	}
	p.dc.DrawImage(resized, int(math.Round(d.X)), int(math.Round(d.Y)))
}

func (p *painter) thumbnail(pl *postcard.Placement) {
	f := pl.Frame.Scale(p.s)
	cx, cy := f.Center()

	p.dc.Push()
	p.dc.DrawCircle(cx, cy, f.W/2)
	p.dc.Clip()
	p.image(pl)
	p.dc.Pop()
}

// userGlyph is a head-and-shoulders silhouette in the thumbnail frame.
func (p *painter) userGlyph(c color.NRGBA) {
	f := postcard.ThumbnailFrame.Scale(p.s)
	cx := f.X + f.W/2

	c.A = 0x99
	p.dc.SetColor(c)
	p.dc.DrawCircle(cx, f.Y+f.H*0.32, f.W*0.22)
	p.dc.Fill()
	p.dc.DrawEllipticalArc(cx, f.Y+f.H, f.W*0.42, f.H*0.4, math.Pi, 2*math.Pi)
	p.dc.ClosePath()
	p.dc.Fill()
}

func (p *painter) stampPlaceholder() {
	f := postcard.StampFrame.Scale(p.s)
	cx, cy := f.Center()

	p.dc.Push()
	defer p.dc.Pop()

	p.dc.RotateAbout(gg.Radians(postcard.StampRotation), cx, cy)
	p.dc.DrawRectangle(f.X, f.Y, f.W, f.H)
	p.dc.SetColor(postcard.StampPlaceholderFill)
	p.dc.Fill()

	w := postcard.StampBorder * p.s
	b := f.Inset(w / 2)
	p.dc.DrawRectangle(b.X, b.Y, b.W, b.H)
	p.dc.SetColor(postcard.StampPlaceholderStroke)
	p.dc.SetLineWidth(w)
	p.dc.Stroke()
}
