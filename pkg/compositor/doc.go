// Package compositor is the in-process postcard renderer. It paints a
// postcard.Layout onto a gg canvas and encodes it as PNG or JPEG.
//
// Drawing happens directly in output pixels: every coordinate is multiplied
// by the render scale and font faces are created at size*scale. Images are
// resampled once with imaging.Resize to their final pixel size before being
// drawn, and cover-fitted photos are clipped to the rounded back side.
package compositor
