package guigl

import "image"

// Device creates GPU textures. It is implemented by each graphics backend.
type Device interface {
	// MaxTextureSide returns the largest supported texture width or height.
	MaxTextureSide() int
	// CreateTexture allocates an uninitialized width×height RGBA8 texture.
	CreateTexture(width, height int, opts TextureOptions) (Texture, error)
}

// Target is a surface that accepts draw calls, typically the window's
// framebuffer for the current frame.
type Target interface {
	// Size returns the surface size in physical pixels.
	Size() image.Point
	// Draw issues one indexed triangle draw call.
	Draw(cmd *DrawCommand) error
}

// DrawCommand is a single draw call emitted by the Painter.
//
// Every backend must render it with premultiplied "over" blending
// (out = src + dst·(1−src.a)), depth testing disabled, the scissor applied
// and vertex colors multiplied with the sampled texel.
type DrawCommand struct {
	Texture Texture
	Options TextureOptions
	// Scissor is in physical pixels with a top-left origin.
	Scissor  image.Rectangle
	Vertices []Vertex
	Indices  []uint32
	// PixelsPerPoint converts vertex positions to pixels.
	PixelsPerPoint float32
}
