// Package browserpool keeps one headless browser running for the lifetime
// of the process and hands it out to concurrent renders.
//
// The pool launches lazily. While a launch is in flight every caller of
// Acquire waits on it; no second browser is started. A browser found dead
// on Acquire, or dropped via Invalidate after a failure, is closed and a new
// one is launched on the next Acquire. Shutdown closes the browser for good.
//
// ChromeLauncher provides the chromedp-backed Browser. Each Capture opens a
// tab, loads the document with Page.setDocumentContent, sets device metrics
// to the requested scale, waits for fonts and images within the settle
// timeout and takes a clipped screenshot.
//
// Usage:
//
//	pool := browserpool.NewFromConfig(cfg, browserpool.WithLogger(log))
//	defer pool.Shutdown(context.Background())
//
//	b, err := pool.Acquire(ctx)
//	if err != nil {
//		return err
//	}
//	png, err := b.Capture(ctx, browserpool.CaptureRequest{...})
package browserpool
