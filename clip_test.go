package guigl_test

import (
	"image"
	"testing"

	"github.com/go-theft-auto/guigl"
)

func TestClipToScissor(t *testing.T) {
	size := image.Pt(800, 600)
	tests := []struct {
		name string
		clip guigl.Rect
		ppp  float32
		want image.Rectangle
	}{
		{name: "identity", clip: guigl.RectFromSize(10, 20, 100, 50), ppp: 1, want: image.Rect(10, 20, 110, 70)},
		{name: "hidpi", clip: guigl.RectFromSize(10, 20, 100, 50), ppp: 2, want: image.Rect(20, 40, 220, 140)},
		{name: "fractional scale rounds", clip: guigl.RectFromSize(1, 1, 3, 3), ppp: 1.5, want: image.Rect(2, 2, 6, 6)},
		{name: "clamped to surface", clip: guigl.RectFromSize(-100, -100, 2000, 2000), ppp: 1, want: image.Rect(0, 0, 800, 600)},
		{name: "everything", clip: guigl.EverythingRect, ppp: 2, want: image.Rect(0, 0, 800, 600)},
		{name: "outside", clip: guigl.RectFromSize(900, 0, 50, 50), ppp: 1, want: image.Rectangle{}},
		{name: "sub-pixel collapses", clip: guigl.RectFromSize(10, 10, 0.2, 0.2), ppp: 1, want: image.Rectangle{}},
		{name: "inverted", clip: guigl.Rect{Min: guigl.Pos2{X: 50, Y: 50}, Max: guigl.Pos2{X: 10, Y: 10}}, ppp: 1, want: image.Rectangle{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := guigl.ClipToScissor(tt.clip, tt.ppp, size); got != tt.want {
				t.Errorf("ClipToScissor(%+v, %v) = %v, want %v", tt.clip, tt.ppp, got, tt.want)
			}
		})
	}
}

// Doubling pixels-per-point doubles every scissor coordinate, up to one
// pixel of rounding, as long as nothing is clamped.
func TestClipToScissorScalesWithPixelsPerPoint(t *testing.T) {
	size := image.Pt(10000, 10000)
	clips := []guigl.Rect{
		guigl.RectFromSize(0, 0, 100, 100),
		guigl.RectFromSize(12.3, 45.6, 78.9, 10.1),
		guigl.RectFromSize(333.3, 0.4, 0.6, 999),
	}
	for _, ppp := range []float32{0.5, 1, 1.25, 1.5, 2, 3} {
		for _, c := range clips {
			a := guigl.ClipToScissor(c, ppp, size)
			b := guigl.ClipToScissor(c, 2*ppp, size)
			if a.Empty() {
				continue
			}
			pairs := [][2]int{{a.Min.X, b.Min.X}, {a.Min.Y, b.Min.Y}, {a.Max.X, b.Max.X}, {a.Max.Y, b.Max.Y}}
			for _, p := range pairs {
				if d := 2*p[0] - p[1]; d < -1 || d > 1 {
					t.Errorf("ppp %v clip %+v: %v -> %v is not doubled", ppp, c, a, b)
				}
			}
		}
	}
}
