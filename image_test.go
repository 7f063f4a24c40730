package guigl_test

import (
	"errors"
	"image"
	"testing"

	"github.com/go-theft-auto/guigl"
)

func TestFromRGBAUnmultiplied(t *testing.T) {
	tests := []struct {
		r, g, b, a uint8
		want       guigl.Color32
	}{
		{255, 128, 0, 255, guigl.Color32{255, 128, 0, 255}},
		{255, 255, 255, 0, guigl.ColorTransparent},
		{255, 0, 0, 128, guigl.Color32{128, 0, 0, 128}},
		{200, 100, 50, 51, guigl.Color32{40, 20, 10, 51}},
	}
	for _, tt := range tests {
		if got := guigl.FromRGBAUnmultiplied(tt.r, tt.g, tt.b, tt.a); got != tt.want {
			t.Errorf("FromRGBAUnmultiplied(%d,%d,%d,%d) = %v, want %v", tt.r, tt.g, tt.b, tt.a, got, tt.want)
		}
	}
}

// Premultiplied and FromRGBAUnmultiplied must agree, otherwise straight
// alpha uploads and CPU-side colors would blend differently.
func TestPremultipliedMatchesColorConversion(t *testing.T) {
	img := &guigl.ColorImage{Size: [2]int{16, 16}}
	for i := 0; i < 256; i++ {
		img.Pixels = append(img.Pixels, guigl.Color32{uint8(i), uint8(255 - i), 77, uint8(i * 7)})
	}

	out := img.Premultiplied()
	for i, p := range img.Pixels {
		want := guigl.FromRGBAUnmultiplied(p[0], p[1], p[2], p[3])
		if out.Pixels[i] != want {
			t.Fatalf("pixel %d: %v -> %v, want %v", i, p, out.Pixels[i], want)
		}
	}
	if img.Pixels[1] != (guigl.Color32{1, 254, 77, 7}) {
		t.Error("Premultiplied modified its receiver")
	}
}

func TestColorImageFromRGBA(t *testing.T) {
	img, err := guigl.ColorImageFromRGBA(2, 1, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	if err != nil {
		t.Fatal(err)
	}
	if img.At(1, 0) != (guigl.Color32{5, 6, 7, 8}) {
		t.Errorf("unexpected pixel %v", img.At(1, 0))
	}
	if _, err := guigl.ColorImageFromRGBA(2, 2, []byte{1}); !errors.Is(err, guigl.ErrInvalidImage) {
		t.Errorf("expected ErrInvalidImage, got %v", err)
	}
}

func TestColorImageSubImage(t *testing.T) {
	img := guigl.NewColorImage(4, 4, guigl.ColorBlack)
	img.Set(2, 1, guigl.ColorWhite)

	sub := img.SubImage(image.Rect(1, 1, 3, 3))
	if sub.Width() != 2 || sub.Height() != 2 {
		t.Fatalf("unexpected size %v", sub.Size)
	}
	if sub.At(1, 0) != guigl.ColorWhite || sub.At(0, 0) != guigl.ColorBlack {
		t.Errorf("unexpected pixels %v", sub.Pixels)
	}
}

func TestFontImageGamma(t *testing.T) {
	font := &guigl.FontImage{Size: [2]int{3, 1}, Pixels: []float32{0, 0.5, 2}}

	linear := font.SRGBAPixels(1)
	if linear[0] != guigl.ColorTransparent || linear[1][3] != 128 || linear[2] != guigl.ColorWhite {
		t.Errorf("gamma 1: %v", linear)
	}

	boosted := font.SRGBAPixels(0)
	if boosted[1][3] <= linear[1][3] {
		t.Errorf("default gamma should brighten partial coverage: %d <= %d", boosted[1][3], linear[1][3])
	}
	if p := boosted[1]; p[0] != p[3] || p[1] != p[3] || p[2] != p[3] {
		t.Errorf("font pixels must be premultiplied white, got %v", p)
	}
}
