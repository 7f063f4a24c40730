// Package fakegpu provides an in-memory graphics device for tests. Textures
// keep their pixels so uploads can be read back, and targets record every
// draw call.
package fakegpu

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-theft-auto/guigl"
)

// ErrReleased is returned when a released texture is used.
var ErrReleased = errors.New("fakegpu: texture released")

// Device is a fake guigl.Device.
type Device struct {
	MaxSide int
	// CreateErr, when set, is returned by the next CreateTexture calls.
	CreateErr error
	// UploadErr, when set, is returned by every Upload.
	UploadErr error

	Created  int
	Uploads  int
	Released int
}

// NewDevice returns a device with the given maximum texture side.
func NewDevice(maxSide int) *Device {
	return &Device{MaxSide: maxSide}
}

// MaxTextureSide implements guigl.Device.
func (d *Device) MaxTextureSide() int { return d.MaxSide }

// CreateTexture implements guigl.Device.
func (d *Device) CreateTexture(width, height int, opts guigl.TextureOptions) (guigl.Texture, error) {
	if d.CreateErr != nil {
		return nil, d.CreateErr
	}
	t := NewTexture(width, height)
	t.device = d
	t.Options = opts
	d.Created++
	return t, nil
}

// Live returns the number of textures created and not yet released.
func (d *Device) Live() int {
	return d.Created - d.Released
}

// Texture is a fake guigl.Texture backed by a ColorImage.
type Texture struct {
	Image    *guigl.ColorImage
	Options  guigl.TextureOptions
	Released bool
	Uploads  []image.Rectangle

	device *Device
}

// NewTexture returns a transparent width×height texture. Textures made
// directly stand in for host-owned native textures.
func NewTexture(width, height int) *Texture {
	return &Texture{Image: guigl.NewColorImage(width, height, guigl.ColorTransparent)}
}

// Size implements guigl.Texture.
func (t *Texture) Size() image.Point {
	return image.Pt(t.Image.Width(), t.Image.Height())
}

// Upload implements guigl.Texture.
func (t *Texture) Upload(x, y int, img *guigl.ColorImage) error {
	if t.Released {
		return ErrReleased
	}
	if t.device != nil {
		if t.device.UploadErr != nil {
			return t.device.UploadErr
		}
		t.device.Uploads++
	}
	r := image.Rect(x, y, x+img.Width(), y+img.Height())
	if !r.In(image.Rectangle{Max: t.Size()}) {
		return fmt.Errorf("fakegpu: upload %v outside %v", r, t.Size())
	}
	for row := 0; row < img.Height(); row++ {
		for col := 0; col < img.Width(); col++ {
			t.Image.Set(x+col, y+row, img.At(col, row))
		}
	}
	t.Uploads = append(t.Uploads, r)
	return nil
}

// SetOptions implements guigl.Texture.
func (t *Texture) SetOptions(opts guigl.TextureOptions) { t.Options = opts }

// Release implements guigl.Texture.
func (t *Texture) Release() {
	if t.Released {
		return
	}
	t.Released = true
	if t.device != nil {
		t.device.Released++
	}
}

// Draw is a recorded draw call. Slices are copied.
type Draw struct {
	Texture  guigl.Texture
	Options  guigl.TextureOptions
	Scissor  image.Rectangle
	Vertices []guigl.Vertex
	Indices  []uint32
}

// Target is a fake guigl.Target.
type Target struct {
	Width, Height int
	// DrawErr, when set, is returned by every Draw.
	DrawErr error
	Draws   []Draw
}

// NewTarget returns a target of the given pixel size.
func NewTarget(width, height int) *Target {
	return &Target{Width: width, Height: height}
}

// Size implements guigl.Target.
func (t *Target) Size() image.Point { return image.Pt(t.Width, t.Height) }

// Draw implements guigl.Target.
func (t *Target) Draw(cmd *guigl.DrawCommand) error {
	if t.DrawErr != nil {
		return t.DrawErr
	}
	if ft, ok := cmd.Texture.(*Texture); ok && ft.Released {
		return ErrReleased
	}
	t.Draws = append(t.Draws, Draw{
		Texture:  cmd.Texture,
		Options:  cmd.Options,
		Scissor:  cmd.Scissor,
		Vertices: append([]guigl.Vertex(nil), cmd.Vertices...),
		Indices:  append([]uint32(nil), cmd.Indices...),
	})
	return nil
}

// Reset forgets recorded draws.
func (t *Target) Reset() { t.Draws = t.Draws[:0] }
