package compositor

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/postcard/pkg/logger"
	"github.com/dmitrymomot/postcard/pkg/postcard"
)

// Compositor paints postcards in-process. It holds no mutable state and is
// safe for concurrent use.
type Compositor struct {
	fonts *postcard.Fonts
	log   *slog.Logger
}

// Option configures a Compositor.
type Option func(*Compositor)

// WithFonts overrides the embedded Go fonts.
func WithFonts(f *postcard.Fonts) Option {
	return func(c *Compositor) {
		if f != nil {
			c.fonts = f
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Compositor) {
		if l != nil {
			c.log = l
		}
	}
}

func New(opts ...Option) *Compositor {
	c := &Compositor{
		fonts: postcard.DefaultFonts(),
		log:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ postcard.Renderer = (*Compositor)(nil)

// Render builds the layout, paints it at opts.Scale and encodes it.
// Missing required images fail before any painting.
func (c *Compositor) Render(ctx context.Context, s postcard.Spec, opts postcard.RenderOptions) (*postcard.Rendered, error) {
	start := time.Now()
	opts = opts.Normalize()

	layout, err := postcard.BuildLayout(ctx, s, postcard.LayoutOptions{
		Preview: opts.Preview,
		Fonts:   c.fonts,
	})
	if err != nil {
		return nil, err
	}

	img, err := c.Paint(layout, opts.Scale)
	if err != nil {
		return nil, postcard.NewRenderError(postcard.KindEncode, err)
	}

	data, err := encode(img, opts.Format, opts.Quality)
	if err != nil {
		return nil, postcard.NewRenderError(postcard.KindEncode, err)
	}

	b := img.Bounds()
	c.log.DebugContext(ctx, "postcard composited",
		logger.Component("compositor"),
		slog.Float64("scale", opts.Scale),
		slog.String("format", string(opts.Format)),
		slog.Int("bytes", len(data)),
		logger.Duration(time.Since(start)),
	)

	return &postcard.Rendered{
		Data:   data,
		Format: opts.Format,
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}
