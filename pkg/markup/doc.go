// Package markup renders postcards by laying them out as HTML and taking a
// screenshot in a pooled headless browser.
//
// The document is generated from the same postcard.Layout the compositor
// paints, so both renderers agree on geometry, fonts and contrast. Fonts and
// images are inlined as data URLs. The browser scales the page with its
// device scale factor, which keeps text crisp at 2x and 4x.
//
// Failures map onto postcard.RenderError: a settle timeout is KindTimeout,
// any other browser failure is KindBrowserUnavailable and drops the browser
// from the pool so the next render relaunches it.
package markup
