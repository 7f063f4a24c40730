package demoui

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/go-theft-auto/guigl"
)

// Checkerboard returns a size×size checkerboard with straight alpha. The
// pattern is drawn at a few pixels per cell and scaled up with
// nearest-neighbour sampling so the cells stay sharp.
func Checkerboard(size, cells int, a, b color.NRGBA) *image.NRGBA {
	small := image.NewNRGBA(image.Rect(0, 0, cells, cells))
	for y := range cells {
		for x := range cells {
			c := a
			if (x+y)%2 == 1 {
				c = b
			}
			small.SetNRGBA(x, y, c)
		}
	}
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), small, small.Bounds(), draw.Src, nil)
	return dst
}

// Gradient returns a w×h image fading from left to right, smoothed with
// Catmull-Rom resampling from a two-pixel source.
func Gradient(w, h int, from, to color.NRGBA) *image.NRGBA {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, from)
	src.SetNRGBA(1, 0, to)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// ColorImage converts a straight-alpha image into a ColorImage carrying
// the same straight values, for deltas marked AlphaStraight.
func ColorImage(img *image.NRGBA) *guigl.ColorImage {
	b := img.Bounds()
	out := guigl.NewColorImage(b.Dx(), b.Dy(), guigl.ColorTransparent)
	for y := range b.Dy() {
		for x := range b.Dx() {
			c := img.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			out.Set(x, y, guigl.Color32{c.R, c.G, c.B, c.A})
		}
	}
	return out
}
