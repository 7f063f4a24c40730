package guigl

import (
	"fmt"
	"image"
	"math"
	"unsafe"

	"golang.org/x/image/draw"
)

// Color32 is an sRGBA color with premultiplied alpha, one byte per channel.
type Color32 [4]uint8

// Common colors.
var (
	ColorTransparent = Color32{0, 0, 0, 0}
	ColorWhite       = Color32{255, 255, 255, 255}
	ColorBlack       = Color32{0, 0, 0, 255}
)

// RGBA builds a Color32 from already premultiplied components.
func RGBA(r, g, b, a uint8) Color32 {
	return Color32{r, g, b, a}
}

// FromRGBAUnmultiplied premultiplies straight-alpha components.
func FromRGBAUnmultiplied(r, g, b, a uint8) Color32 {
	switch a {
	case 255:
		return Color32{r, g, b, a}
	case 0:
		return ColorTransparent
	}
	m := func(c uint8) uint8 {
		return uint8(uint32(c) * (uint32(a) * 0x101) / 0xff >> 8)
	}
	return Color32{m(r), m(g), m(b), a}
}

// A returns the alpha component.
func (c Color32) A() uint8 { return c[3] }

// ImageData is pixel data carried by an ImageDelta: either a *ColorImage or a
// *FontImage.
type ImageData interface {
	Width() int
	Height() int
	toColorImage() *ColorImage
}

// ColorImage is a row-major RGBA8 image.
type ColorImage struct {
	Size   [2]int
	Pixels []Color32
}

// NewColorImage returns a width×height image filled with fill.
func NewColorImage(width, height int, fill Color32) *ColorImage {
	px := make([]Color32, width*height)
	for i := range px {
		px[i] = fill
	}
	return &ColorImage{Size: [2]int{width, height}, Pixels: px}
}

// ColorImageFromRGBA wraps raw RGBA bytes. The bytes are copied.
func ColorImageFromRGBA(width, height int, rgba []byte) (*ColorImage, error) {
	if len(rgba) != width*height*4 {
		return nil, fmt.Errorf("%w: %dx%d image needs %d bytes, got %d",
			ErrInvalidImage, width, height, width*height*4, len(rgba))
	}
	img := &ColorImage{Size: [2]int{width, height}, Pixels: make([]Color32, width*height)}
	copy(img.Bytes(), rgba)
	return img, nil
}

// Width returns the image width in pixels.
func (img *ColorImage) Width() int { return img.Size[0] }

// Height returns the image height in pixels.
func (img *ColorImage) Height() int { return img.Size[1] }

// At returns the pixel at (x, y).
func (img *ColorImage) At(x, y int) Color32 {
	return img.Pixels[y*img.Size[0]+x]
}

// Set writes the pixel at (x, y).
func (img *ColorImage) Set(x, y int, c Color32) {
	img.Pixels[y*img.Size[0]+x] = c
}

// Bytes returns the pixels as a flat RGBA byte slice sharing memory with
// the image.
func (img *ColorImage) Bytes() []byte {
	if len(img.Pixels) == 0 {
		return nil
	}
	return unsafe.Slice(&img.Pixels[0][0], len(img.Pixels)*4)
}

// SubImage copies out the region r. r must lie within the image.
func (img *ColorImage) SubImage(r image.Rectangle) *ColorImage {
	out := &ColorImage{Size: [2]int{r.Dx(), r.Dy()}, Pixels: make([]Color32, 0, r.Dx()*r.Dy())}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := y * img.Size[0]
		out.Pixels = append(out.Pixels, img.Pixels[row+r.Min.X:row+r.Max.X]...)
	}
	return out
}

// Premultiplied returns a copy of the image with straight alpha converted to
// premultiplied alpha.
func (img *ColorImage) Premultiplied() *ColorImage {
	w, h := img.Size[0], img.Size[1]
	out := &ColorImage{Size: img.Size, Pixels: make([]Color32, len(img.Pixels))}
	if len(img.Pixels) == 0 {
		return out
	}
	bounds := image.Rect(0, 0, w, h)
	src := &image.NRGBA{Pix: img.Bytes(), Stride: w * 4, Rect: bounds}
	dst := &image.RGBA{Pix: out.Bytes(), Stride: w * 4, Rect: bounds}
	draw.Copy(dst, image.Point{}, src, bounds, draw.Src, nil)
	return out
}

func (img *ColorImage) toColorImage() *ColorImage { return img }

func (img *ColorImage) validate() error {
	if img.Size[0] <= 0 || img.Size[1] <= 0 {
		return fmt.Errorf("%w: non-positive size %dx%d", ErrInvalidImage, img.Size[0], img.Size[1])
	}
	if len(img.Pixels) != img.Size[0]*img.Size[1] {
		return fmt.Errorf("%w: %dx%d image has %d pixels", ErrInvalidImage, img.Size[0], img.Size[1], len(img.Pixels))
	}
	return nil
}

// DefaultFontGamma is the coverage gamma applied to font images when none is
// configured.
const DefaultFontGamma = 0.55

// FontImage is a single-channel coverage image, as produced by a font
// rasterizer. Values are in [0, 1].
type FontImage struct {
	Size   [2]int
	Pixels []float32
	// Gamma applied to coverage before conversion. Zero means DefaultFontGamma.
	Gamma float32
}

// Width returns the image width in pixels.
func (img *FontImage) Width() int { return img.Size[0] }

// Height returns the image height in pixels.
func (img *FontImage) Height() int { return img.Size[1] }

// SRGBAPixels converts coverage into premultiplied white pixels.
func (img *FontImage) SRGBAPixels(gamma float32) []Color32 {
	if gamma <= 0 {
		gamma = DefaultFontGamma
	}
	out := make([]Color32, len(img.Pixels))
	for i, coverage := range img.Pixels {
		if coverage <= 0 {
			continue
		}
		alpha := math.Pow(float64(min(coverage, 1)), float64(gamma))
		a := uint8(math.Round(alpha * 255))
		out[i] = Color32{a, a, a, a}
	}
	return out
}

func (img *FontImage) toColorImage() *ColorImage {
	if img == nil {
		return nil
	}
	return &ColorImage{Size: img.Size, Pixels: img.SRGBAPixels(img.Gamma)}
}
