package postcard

import "math"

// Rect is an axis-aligned rectangle in layout units.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

func (r Rect) Scale(s float64) Rect {
	return Rect{X: r.X * s, Y: r.Y * s, W: r.W * s, H: r.H * s}
}

// Inset shrinks r by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
}

// Center returns the midpoint of r.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// FitMode selects how a source image is placed inside a frame.
type FitMode int

const (
	// FitContain scales the whole image into the frame and centers it.
	FitContain FitMode = iota
	// FitCover scales the image to fill the frame and crops the centered overflow.
	FitCover
)

func (m FitMode) String() string {
	if m == FitCover {
		return "cover"
	}
	return "contain"
}

// Fit computes the draw rectangle, in frame-local coordinates, of a srcW×srcH
// image placed in a frameW×frameH frame. ok is false when either area is zero.
func Fit(mode FitMode, srcW, srcH, frameW, frameH float64) (Rect, bool) {
	if srcW <= 0 || srcH <= 0 || frameW <= 0 || frameH <= 0 {
		return Rect{}, false
	}

	// widthBound is true when the width ratio is the smaller one.
	widthBound := frameW*srcH <= frameH*srcW

	var w, h float64
	switch {
	case mode == FitContain && widthBound, mode == FitCover && !widthBound:
		w = frameW
		h = srcH * frameW / srcW
	default:
		h = frameH
		w = srcW * frameH / srcH
	}

	// Guard the derived side against rounding past the frame edge.
	if mode == FitContain {
		w, h = math.Min(w, frameW), math.Min(h, frameH)
	} else {
		w, h = math.Max(w, frameW), math.Max(h, frameH)
	}

	return Rect{X: (frameW - w) / 2, Y: (frameH - h) / 2, W: w, H: h}, true
}

// FitInto is Fit with the result translated into frame's coordinate space.
func FitInto(mode FitMode, srcW, srcH float64, frame Rect) (Rect, bool) {
	r, ok := Fit(mode, srcW, srcH, frame.W, frame.H)
	if !ok {
		return Rect{}, false
	}
	return r.Translate(frame.X, frame.Y), true
}
