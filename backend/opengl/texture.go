package opengl

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/go-theft-auto/guigl"
)

// Texture is an RGBA8 OpenGL texture.
type Texture struct {
	id      uint32
	width   int
	height  int
	options guigl.TextureOptions
	applied bool // options have been set on the GL object
	owned   bool
}

// WrapTexture wraps a texture created by the host so it can be registered
// with Painter.RegisterNativeTexture. The Painter never deletes it.
func WrapTexture(id uint32, width, height int) *Texture {
	return &Texture{id: id, width: width, height: height}
}

// ID returns the OpenGL texture name.
func (t *Texture) ID() uint32 { return t.id }

// Size implements guigl.Texture.
func (t *Texture) Size() image.Point { return image.Pt(t.width, t.height) }

// Upload implements guigl.Texture.
func (t *Texture) Upload(x, y int, img *guigl.ColorImage) error {
	if t.id == 0 {
		return fmt.Errorf("opengl: upload to deleted texture")
	}
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, int32(x), int32(y), int32(img.Width()), int32(img.Height()),
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Bytes()))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return glError("upload")
}

// SetOptions implements guigl.Texture.
func (t *Texture) SetOptions(opts guigl.TextureOptions) {
	if t.applied && t.options == opts {
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	applyOptions(opts)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	t.options, t.applied = opts, true
}

// Release implements guigl.Texture. Wrapped host textures are left alone.
func (t *Texture) Release() {
	if t.id != 0 && t.owned {
		gl.DeleteTextures(1, &t.id)
	}
	t.id = 0
}

// applyOptions sets the sampling parameters of the bound texture.
func applyOptions(opts guigl.TextureOptions) {
	minFilter, magFilter, wrap := textureParams(opts)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, magFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
}

// textureParams maps sampling options to GL parameter values.
func textureParams(opts guigl.TextureOptions) (minFilter, magFilter, wrap int32) {
	filter := func(f guigl.TextureFilter) int32 {
		if f == guigl.FilterNearest {
			return gl.NEAREST
		}
		return gl.LINEAR
	}
	switch opts.Wrap {
	case guigl.WrapRepeat:
		wrap = gl.REPEAT
	case guigl.WrapMirror:
		wrap = gl.MIRRORED_REPEAT
	default:
		wrap = gl.CLAMP_TO_EDGE
	}
	return filter(opts.Minification), filter(opts.Magnification), wrap
}

// glError drains the GL error queue and reports the first error.
func glError(op string) error {
	first := gl.GetError()
	if first == gl.NO_ERROR {
		return nil
	}
	for gl.GetError() != gl.NO_ERROR {
	}
	return fmt.Errorf("opengl: %s: %s", op, errorName(first))
}

func errorName(code uint32) string {
	switch code {
	case gl.INVALID_ENUM:
		return "invalid enum"
	case gl.INVALID_VALUE:
		return "invalid value"
	case gl.INVALID_OPERATION:
		return "invalid operation"
	case gl.OUT_OF_MEMORY:
		return "out of memory"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "invalid framebuffer operation"
	default:
		return fmt.Sprintf("error 0x%x", code)
	}
}
