package markup

import (
	"bytes"
	"context"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"time"

	"github.com/dmitrymomot/postcard/pkg/browserpool"
	"github.com/dmitrymomot/postcard/pkg/logger"
	"github.com/dmitrymomot/postcard/pkg/postcard"
)

// Pool is the part of browserpool.Pool the renderer needs.
type Pool interface {
	Acquire(ctx context.Context) (browserpool.Browser, error)
	Invalidate(b browserpool.Browser)
}

// Renderer rasterizes postcards in a headless browser. Renders share the
// pooled browser and run one tab each.
type Renderer struct {
	pool   Pool
	fonts  *postcard.Fonts
	settle time.Duration
	log    *slog.Logger
}

type Option func(*Renderer)

func WithFonts(f *postcard.Fonts) Option {
	return func(r *Renderer) {
		if f != nil {
			r.fonts = f
		}
	}
}

// WithSettleTimeout bounds the wait for fonts and images in the page.
func WithSettleTimeout(d time.Duration) Option {
	return func(r *Renderer) {
		if d > 0 {
			r.settle = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.log = l
		}
	}
}

func New(pool Pool, opts ...Option) *Renderer {
	r := &Renderer{
		pool:   pool,
		fonts:  postcard.DefaultFonts(),
		settle: DefaultSettleTimeout,
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ postcard.Renderer = (*Renderer)(nil)

// Render builds the layout, renders it as HTML and screenshots it at
// opts.Scale device pixels per layout unit.
func (r *Renderer) Render(ctx context.Context, s postcard.Spec, opts postcard.RenderOptions) (*postcard.Rendered, error) {
	start := time.Now()
	opts = opts.Normalize()

	layout, err := postcard.BuildLayout(ctx, s, postcard.LayoutOptions{
		Preview: opts.Preview,
		Fonts:   r.fonts,
	})
	if err != nil {
		return nil, err
	}

	doc, err := BuildDocument(ctx, layout, r.fonts)
	if err != nil {
		return nil, postcard.NewRenderError(postcard.KindEncode, err)
	}

	browser, err := r.pool.Acquire(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, postcard.NewRenderError(postcard.KindBrowserUnavailable, err)
	}

	data, err := browser.Capture(ctx, browserpool.CaptureRequest{
		HTML:          doc,
		Width:         int(postcard.CanvasWidth),
		Height:        int(postcard.CanvasHeight),
		Scale:         opts.Scale,
		Format:        string(opts.Format),
		Quality:       opts.Quality,
		SettleTimeout: r.settle,
	})
	if err != nil {
		return nil, r.captureFailed(ctx, browser, err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, postcard.NewRenderError(postcard.KindEncode, err)
	}

	r.log.DebugContext(ctx, "postcard rendered in browser",
		logger.Component("markup"),
		slog.Float64("scale", opts.Scale),
		slog.Int("width", cfg.Width),
		slog.Int("height", cfg.Height),
		logger.Duration(time.Since(start)),
	)

	return &postcard.Rendered{
		Data:   data,
		Format: opts.Format,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}

// captureFailed classifies a capture error. Only a browser that is gone is
// invalidated; a failing tab leaves the shared browser and its other renders alone.
func (r *Renderer) captureFailed(ctx context.Context, browser browserpool.Browser, err error) error {
	switch {
	case errors.Is(err, browserpool.ErrSettleTimeout), errors.Is(err, context.DeadlineExceeded):
		return postcard.NewRenderError(postcard.KindTimeout, err)
	case errors.Is(err, browserpool.ErrInvalidRequest):
		return postcard.NewRenderError(postcard.KindEncode, err)
	case errors.Is(err, browserpool.ErrBrowserClosed) || !browser.Alive():
		r.pool.Invalidate(browser)
		r.log.WarnContext(ctx, "browser is gone, invalidated",
			logger.Component("markup"),
			logger.Error(err),
		)
		return postcard.NewRenderError(postcard.KindBrowserUnavailable, err)
	}

	r.log.WarnContext(ctx, "page capture failed",
		logger.Component("markup"),
		logger.Error(err),
	)
	return postcard.NewRenderError(postcard.KindEncode, err)
}
