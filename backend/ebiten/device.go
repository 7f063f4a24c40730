// Package ebiten implements guigl.Device, guigl.Target and guigl.Platform
// on top of an Ebitengine game.
//
// Ebitengine images store premultiplied RGBA, so uploads are written as-is
// and draws use premultiplied color scales with source-over blending.
package ebiten

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/go-theft-auto/guigl"
)

// MaxImageSize is the largest texture side the device hands out.
const MaxImageSize = 4096

// Device creates Ebitengine images as GUI textures.
type Device struct {
	maxSide int
}

// NewDevice returns a device limited to MaxImageSize.
func NewDevice() *Device {
	return &Device{maxSide: MaxImageSize}
}

// MaxTextureSide implements guigl.Device.
func (d *Device) MaxTextureSide() int {
	return d.maxSide
}

// CreateTexture implements guigl.Device.
func (d *Device) CreateTexture(width, height int, opts guigl.TextureOptions) (guigl.Texture, error) {
	if width > d.maxSide || height > d.maxSide {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d", guigl.ErrTextureTooLarge, width, height, d.maxSide)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("ebiten: invalid texture size %dx%d", width, height)
	}
	return &Texture{img: ebiten.NewImage(width, height), options: opts, owned: true}, nil
}

// Texture is a guigl.Texture backed by an *ebiten.Image.
type Texture struct {
	img     *ebiten.Image
	options guigl.TextureOptions
	owned   bool
}

// WrapImage wraps an image owned by the game for
// Painter.RegisterNativeTexture. It is never deallocated by the Painter.
func WrapImage(img *ebiten.Image) *Texture {
	return &Texture{img: img}
}

// Image returns the underlying image.
func (t *Texture) Image() *ebiten.Image { return t.img }

// Size implements guigl.Texture.
func (t *Texture) Size() image.Point {
	if t.img == nil {
		return image.Point{}
	}
	return t.img.Bounds().Size()
}

// Upload implements guigl.Texture.
func (t *Texture) Upload(x, y int, img *guigl.ColorImage) error {
	if t.img == nil {
		return fmt.Errorf("ebiten: upload to deallocated texture")
	}
	origin := t.img.Bounds().Min
	r := image.Rect(x, y, x+img.Width(), y+img.Height()).Add(origin)
	if !r.In(t.img.Bounds()) {
		return fmt.Errorf("ebiten: upload %v outside %v", r, t.img.Bounds())
	}
	t.img.SubImage(r).(*ebiten.Image).WritePixels(img.Bytes())
	return nil
}

// SetOptions implements guigl.Texture. Options take effect at draw time.
func (t *Texture) SetOptions(opts guigl.TextureOptions) {
	t.options = opts
}

// Release implements guigl.Texture.
func (t *Texture) Release() {
	if t.img != nil && t.owned {
		t.img.Deallocate()
	}
	t.img = nil
}
