// Package postcard holds the renderer-independent postcard model.
//
// A Spec carries the user's input. BuildLayout turns it into a Layout: the
// resolved Contrast (black or white text chosen from background luminance),
// the greeting, the message wrapped by Wrap at MessageMaxWidth, the closing
// line, and every image fitted into its frame with Fit (contain for the stamp
// and signature, cover for the back photo). Renderers (see the compositor and
// markup packages) only paint a Layout, so both output paths share geometry,
// fonts and the signature inversion step.
//
// The logical canvas is 512x694 units: the front side at y=0 and the back
// side at y=347, each 512x347. RenderOptions.Scale maps units to pixels.
//
// Renderer failures are reported as *RenderError and can be matched with
// errors.Is against ErrMissingAsset, ErrRenderTimeout and
// ErrBrowserUnavailable.
package postcard
