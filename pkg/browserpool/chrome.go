package browserpool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/dmitrymomot/postcard/pkg/logger"
)

// settleScript is truthy once web fonts are loaded and every image decoded.
const settleScript = `document.fonts.status === "loaded" && Array.from(document.images).every(i => i.complete && i.naturalWidth > 0)`

// ChromeLauncher starts headless Chrome through chromedp.
func ChromeLauncher(cfg Config, log *slog.Logger) LaunchFunc {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return func(ctx context.Context) (Browser, error) {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.DisableGPU,
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("font-render-hinting", "none"),
			chromedp.Flag("hide-scrollbars", true),
		)
		if cfg.NoSandbox {
			opts = append(opts, chromedp.NoSandbox)
		}
		if cfg.ExecPath != "" {
			opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
		}

		// The browser outlives the launch context; ctx only bounds startup.
		allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
		browserCtx, browserCancel := chromedp.NewContext(allocCtx,
			chromedp.WithErrorf(func(format string, args ...any) {
				log.Debug(fmt.Sprintf(format, args...), logger.Component("chrome"))
			}),
		)

		started := make(chan error, 1)
		go func() { started <- chromedp.Run(browserCtx) }()

		select {
		case err := <-started:
			if err != nil {
				browserCancel()
				allocCancel()
				return nil, err
			}
		case <-ctx.Done():
			browserCancel()
			allocCancel()
			return nil, ctx.Err()
		}

		return &chrome{
			ctx:            browserCtx,
			cancel:         browserCancel,
			allocCancel:    allocCancel,
			captureTimeout: cfg.CaptureTimeout,
		}, nil
	}
}

type chrome struct {
	ctx            context.Context
	cancel         context.CancelFunc
	allocCancel    context.CancelFunc
	captureTimeout time.Duration
	closeOnce      sync.Once
	closeErr       error
}

func (c *chrome) Alive() bool {
	return c.ctx.Err() == nil
}

// Capture renders req.HTML in a fresh tab. The tab is derived from the
// browser context, so request cancellation does not abort a capture that
// has started; the capture timeout bounds it instead.
func (c *chrome) Capture(_ context.Context, req CaptureRequest) ([]byte, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if !c.Alive() {
		return nil, ErrBrowserClosed
	}

	tabCtx, closeTab := chromedp.NewContext(c.ctx)
	defer closeTab()
	if c.captureTimeout > 0 {
		var cancel context.CancelFunc
		tabCtx, cancel = context.WithTimeout(tabCtx, c.captureTimeout)
		defer cancel()
	}

	err := chromedp.Run(tabCtx,
		emulation.SetDeviceMetricsOverride(int64(req.Width), int64(req.Height), req.Scale, false),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, req.HTML).Do(ctx)
		}),
	)
	if err != nil {
		return nil, c.wrap(err)
	}

	if req.SettleTimeout > 0 {
		var settled bool
		err := chromedp.Run(tabCtx, chromedp.Poll(settleScript, &settled,
			chromedp.WithPollingTimeout(req.SettleTimeout),
		))
		if errors.Is(err, chromedp.ErrPollingTimeout) {
			return nil, fmt.Errorf("%w: after %s", ErrSettleTimeout, req.SettleTimeout)
		}
		if err != nil {
			return nil, c.wrap(err)
		}
	}

	format := page.CaptureScreenshotFormatPng
	if req.Format == "jpeg" {
		format = page.CaptureScreenshotFormatJpeg
	}

	var buf []byte
	err = chromedp.Run(tabCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		shot := page.CaptureScreenshot().
			WithFormat(format).
			WithFromSurface(true).
			WithClip(&page.Viewport{
				X:      0,
				Y:      0,
				Width:  float64(req.Width),
				Height: float64(req.Height),
				Scale:  1,
			})
		if format == page.CaptureScreenshotFormatJpeg && req.Quality > 0 {
			shot = shot.WithQuality(int64(req.Quality))
		}

		var err error
		buf, err = shot.Do(ctx)
		return err
	}))
	if err != nil {
		return nil, c.wrap(err)
	}

	return buf, nil
}

// wrap attributes a failure to the browser when it has gone away.
func (c *chrome) wrap(err error) error {
	if !c.Alive() {
		return errors.Join(ErrBrowserClosed, err)
	}
	return errors.Join(ErrCapture, err)
}

func (c *chrome) Close() error {
	c.closeOnce.Do(func() {
		if c.ctx.Err() == nil {
			c.closeErr = chromedp.Cancel(c.ctx)
		}
		c.cancel()
		c.allocCancel()
	})
	return c.closeErr
}
