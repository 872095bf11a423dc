package browserpool

import (
	"context"
	"fmt"
	"time"
)

// Browser is a running headless browser. Implementations must be safe for
// concurrent Capture calls; each call uses its own tab.
type Browser interface {
	Capture(ctx context.Context, req CaptureRequest) ([]byte, error)
	Alive() bool
	Close() error
}

// LaunchFunc starts a new browser. ctx bounds the launch only.
type LaunchFunc func(ctx context.Context) (Browser, error)

// CaptureRequest describes one screenshot of an HTML document.
type CaptureRequest struct {
	HTML string

	// Viewport in CSS pixels; the screenshot is Width*Scale by Height*Scale.
	Width  int
	Height int
	Scale  float64

	Format  string // "png" or "jpeg"
	Quality int    // jpeg only

	// SettleTimeout bounds the wait for images and fonts.
	SettleTimeout time.Duration
}

func (r CaptureRequest) validate() error {
	switch {
	case r.HTML == "":
		return fmt.Errorf("%w: empty document", ErrInvalidRequest)
	case r.Width <= 0 || r.Height <= 0:
		return fmt.Errorf("%w: viewport %dx%d", ErrInvalidRequest, r.Width, r.Height)
	case r.Scale <= 0:
		return fmt.Errorf("%w: scale %v", ErrInvalidRequest, r.Scale)
	case r.Format != "png" && r.Format != "jpeg":
		return fmt.Errorf("%w: format %q", ErrInvalidRequest, r.Format)
	}
	return nil
}
