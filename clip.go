package guigl

import (
	"image"
	"math"
)

// ClipToScissor converts a clip rectangle in points into a scissor
// rectangle in physical pixels with a top-left origin, clamped to a surface
// of the given size. An empty result means nothing can be drawn.
func ClipToScissor(clip Rect, pixelsPerPoint float32, size image.Point) image.Rectangle {
	toPixel := func(v float32, limit int) int {
		p := float64(v * pixelsPerPoint)
		if math.IsNaN(p) {
			return 0
		}
		p = math.Max(0, math.Min(p, float64(limit)))
		return clampi(int(math.Round(p)), 0, limit)
	}

	// Not image.Rect: it would swap inverted corners into a valid rectangle.
	r := image.Rectangle{
		Min: image.Pt(toPixel(clip.Min.X, size.X), toPixel(clip.Min.Y, size.Y)),
		Max: image.Pt(toPixel(clip.Max.X, size.X), toPixel(clip.Max.Y, size.Y)),
	}
	if r.Empty() {
		return image.Rectangle{}
	}
	return r
}
