package markup

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"strings"

	"github.com/vincent-petithory/dataurl"

	"github.com/dmitrymomot/postcard/pkg/async"
	"github.com/dmitrymomot/postcard/pkg/postcard"
)

//go:embed document.gohtml
var documentSource string

var documentTemplate = template.Must(template.New("postcard").Parse(documentSource))

type textLayer struct {
	Value string
	Style template.CSS
}

type imageLayer struct {
	Src    template.URL
	Frame  template.CSS
	Draw   template.CSS
	Rotate template.CSS
}

type glyph struct {
	Frame template.CSS
	Fill  string
}

type document struct {
	FontFaces template.CSS
	Width     string
	Height    string

	Front     template.CSS
	Back      template.CSS
	Separator template.CSS
	Texts     []textLayer

	Thumbnail *imageLayer
	Glyph     glyph

	Stamp            *imageLayer
	StampPlaceholder template.CSS
	Signature        *imageLayer

	Photo       *imageLayer
	Caption     template.CSS
	CaptionText string
}

// BuildDocument renders a layout as a self-contained HTML page: fonts and
// images are inlined as data URLs so the page needs no network access.
// Geometry is in CSS pixels at scale 1; the browser applies the scale.
func BuildDocument(ctx context.Context, l *postcard.Layout, fonts *postcard.Fonts) (string, error) {
	if fonts == nil {
		fonts = postcard.DefaultFonts()
	}

	doc := document{
		FontFaces: fontFaces(fonts),
		Width:     px(postcard.CanvasWidth),
		Height:    px(postcard.CanvasHeight),
		Front: css(
			box(postcard.FrontRect),
			"background: "+cssColor(l.Background),
			fmt.Sprintf("border-radius: %[1]spx %[1]spx 0 0", px(postcard.CornerRadius)),
		),
		Back: css(
			box(postcard.BackRect),
			"background: "+cssColor(l.Background),
			fmt.Sprintf("border-radius: 0 0 %[1]spx %[1]spx", px(postcard.CornerRadius)),
		),
		Separator: separator(l.Contrast.Separator),
		Glyph: glyph{
			Frame: css(box(postcard.ThumbnailFrame)),
			Fill:  hexColor(l.Contrast.Text),
		},
		StampPlaceholder: css(
			box(postcard.StampFrame),
			"box-sizing: border-box",
			"background: "+cssColor(postcard.StampPlaceholderFill),
			"border: "+px(postcard.StampBorder)+"px solid "+cssColor(postcard.StampPlaceholderStroke),
			"transform: rotate("+deg(postcard.StampRotation)+")",
		),
		Caption: css(
			box(postcard.Rect{W: postcard.BackRect.W, H: postcard.BackRect.H}),
			"display: flex",
			"align-items: center",
			"justify-content: center",
			"font-size: "+px(postcard.BodySize)+"px",
			"color: "+cssColor(postcard.CaptionColor),
		),
		CaptionText: postcard.PhotoCaption,
	}

	texts := append([]postcard.Text{l.Greeting}, l.Message...)
	texts = append(texts, l.Closing)
	for _, t := range texts {
		doc.Texts = append(doc.Texts, textLayer{
			Value: t.Value,
			Style: css(
				fmt.Sprintf("left: %spx; top: %spx", px(t.X), px(t.Y)),
				"font-size: "+px(t.Size)+"px",
				"font-weight: "+weight(t.Weight),
				"color: "+cssColor(l.Contrast.Text),
			),
		})
	}

	// PNG encoding dominates; run the layers concurrently.
	encode := func(p *postcard.Placement) *async.Future[*imageLayer] {
		if p == nil {
			return nil
		}
		return async.Async(ctx, p, func(_ context.Context, p *postcard.Placement) (*imageLayer, error) {
			return newImageLayer(p)
		})
	}
	results := async.Settle(
		encode(l.Thumbnail),
		encode(l.Stamp),
		encode(l.Signature),
		encode(l.Photo),
	)
	for _, r := range results {
		if r.Err != nil {
			return "", r.Err
		}
	}
	doc.Thumbnail, doc.Stamp, doc.Signature, doc.Photo = results[0].Value, results[1].Value, results[2].Value, results[3].Value

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// newImageLayer positions the image relative to its frame, which is the
// containing element in the document.
func newImageLayer(p *postcard.Placement) (*imageLayer, error) {
	src, err := pngDataURL(p.Image)
	if err != nil {
		return nil, err
	}

	return &imageLayer{
		Src:    src,
		Frame:  css(box(p.Frame)),
		Draw:   css(box(p.Draw.Translate(-p.Frame.X, -p.Frame.Y))),
		Rotate: template.CSS(deg(p.Rotation)),
	}, nil
}

func pngDataURL(img image.Image) (template.URL, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return template.URL(dataurl.New(buf.Bytes(), "image/png").String()), nil
}

func fontFaces(f *postcard.Fonts) template.CSS {
	var b strings.Builder
	for _, w := range []postcard.Weight{postcard.Regular, postcard.Bold} {
		fmt.Fprintf(&b,
			"@font-face { font-family: \"Postcard Sans\"; font-weight: %s; src: url(%s) format(\"truetype\"); }\n",
			weight(w), dataurl.New(f.TTF(w), "font/ttf").String(),
		)
	}
	return template.CSS(b.String())
}

func separator(c color.NRGBA) template.CSS {
	l := postcard.Separator
	return css(
		fmt.Sprintf("left: %spx; top: %spx", px(l.X1-postcard.SeparatorWidth/2), px(l.Y1)),
		fmt.Sprintf("width: %spx; height: %spx", px(postcard.SeparatorWidth), px(l.Y2-l.Y1)),
		"background: "+cssColor(c),
	)
}

func box(r postcard.Rect) string {
	return fmt.Sprintf("left: %spx; top: %spx; width: %spx; height: %spx",
		px(r.X), px(r.Y), px(r.W), px(r.H))
}

func css(decls ...string) template.CSS {
	return template.CSS(strings.Join(decls, "; "))
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func deg(v float64) string {
	return px(v) + "deg"
}

func weight(w postcard.Weight) string {
	if w == postcard.Bold {
		return "700"
	}
	return "400"
}

func cssColor(c color.NRGBA) string {
	if c.A == 0xff {
		return hexColor(c)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B,
		strconv.FormatFloat(float64(c.A)/255, 'f', 3, 64))
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
