// Package opengl implements guigl.Device and guigl.Target on OpenGL 4.1
// core, plus a guigl.Platform for GLFW windows.
//
// All calls must be made on the thread that owns the GL context, after
// gl.Init.
package opengl

import (
	"fmt"
	"image"
	"log/slog"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/go-theft-auto/guigl"
)

const vertexSize = int(unsafe.Sizeof(guigl.Vertex{}))

// Device owns the shader program and the streaming vertex and index
// buffers shared by every frame.
type Device struct {
	program    uint32
	vao        uint32
	vbo, ebo   uint32
	screenLoc  int32
	samplerLoc int32
	maxSide    int

	vertices guigl.BufferArena
	indices  guigl.BufferArena

	log *slog.Logger
}

// NewDevice compiles the shader program and creates the buffers.
func NewDevice() (*Device, error) {
	d := &Device{log: guigl.Logger()}

	var err error
	d.program, err = createShaderProgram(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader: %w", err)
	}
	d.screenLoc = gl.GetUniformLocation(d.program, gl.Str("u_screen_size\x00"))
	d.samplerLoc = gl.GetUniformLocation(d.program, gl.Str("u_sampler\x00"))

	var side int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &side)
	d.maxSide = int(side)

	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)
	gl.GenBuffers(1, &d.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.GenBuffers(1, &d.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, d.ebo)

	stride := int32(vertexSize)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, unsafe.Offsetof(guigl.Vertex{}.Pos))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, unsafe.Offsetof(guigl.Vertex{}.UV))
	gl.EnableVertexAttribArray(1)
	// Colors are premultiplied RGBA8, normalized to 0..1.
	gl.VertexAttribPointerWithOffset(2, 4, gl.UNSIGNED_BYTE, true, stride, unsafe.Offsetof(guigl.Vertex{}.Color))
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)

	if err := glError("create device"); err != nil {
		d.Delete()
		return nil, err
	}
	d.log.Debug("opengl device created", "max_texture_side", d.maxSide,
		"version", gl.GoStr(gl.GetString(gl.VERSION)))
	return d, nil
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

	t := &Texture{width: width, height: height, owned: true}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	applyOptions(opts)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	t.options, t.applied = opts, true

	if err := glError("create texture"); err != nil {
		t.Release()
		return nil, err
	}
	return t, nil
}

// Frame returns a target drawing into the default framebuffer of the given
// size in pixels. GL state is configured on the first draw and stays set
// until End.
func (d *Device) Frame(width, height int) *Frame {
	return &Frame{device: d, width: width, height: height}
}

// Delete releases the program and buffers. Textures are released by the
// Painter.
func (d *Device) Delete() {
	if d.ebo != 0 {
		gl.DeleteBuffers(1, &d.ebo)
	}
	if d.vbo != 0 {
		gl.DeleteBuffers(1, &d.vbo)
	}
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
	}
	if d.program != 0 {
		gl.DeleteProgram(d.program)
	}
	*d = Device{log: d.log}
}

// upload streams vertices and indices into the shared buffers, growing
// them through the arenas.
func (d *Device) upload(vertices []guigl.Vertex, indices []uint32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	if c, grew := d.vertices.Reserve(len(vertices)); grew {
		gl.BufferData(gl.ARRAY_BUFFER, c*vertexSize, nil, gl.STREAM_DRAW)
		d.log.Debug("vertex buffer grown", "capacity", c)
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*vertexSize, gl.Ptr(vertices))

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, d.ebo)
	if c, grew := d.indices.Reserve(len(indices)); grew {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, c*4, nil, gl.STREAM_DRAW)
		d.log.Debug("index buffer grown", "capacity", c)
	}
	gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, len(indices)*4, gl.Ptr(indices))
}

// savedState is the GL state touched by a Frame.
type savedState struct {
	program       int32
	vao           int32
	texture       int32
	activeTexture int32
	viewport      [4]int32
	scissorBox    [4]int32
	blendSrcRGB   int32
	blendDstRGB   int32
	blendSrcAlpha int32
	blendDstAlpha int32
	blend         bool
	depthTest     bool
	cullFace      bool
	scissorTest   bool
}

func saveState() savedState {
	var s savedState
	gl.GetIntegerv(gl.CURRENT_PROGRAM, &s.program)
	gl.GetIntegerv(gl.VERTEX_ARRAY_BINDING, &s.vao)
	gl.GetIntegerv(gl.ACTIVE_TEXTURE, &s.activeTexture)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.GetIntegerv(gl.TEXTURE_BINDING_2D, &s.texture)
	gl.GetIntegerv(gl.VIEWPORT, &s.viewport[0])
	gl.GetIntegerv(gl.SCISSOR_BOX, &s.scissorBox[0])
	gl.GetIntegerv(gl.BLEND_SRC_RGB, &s.blendSrcRGB)
	gl.GetIntegerv(gl.BLEND_DST_RGB, &s.blendDstRGB)
	gl.GetIntegerv(gl.BLEND_SRC_ALPHA, &s.blendSrcAlpha)
	gl.GetIntegerv(gl.BLEND_DST_ALPHA, &s.blendDstAlpha)
	s.blend = gl.IsEnabled(gl.BLEND)
	s.depthTest = gl.IsEnabled(gl.DEPTH_TEST)
	s.cullFace = gl.IsEnabled(gl.CULL_FACE)
	s.scissorTest = gl.IsEnabled(gl.SCISSOR_TEST)
	return s
}

func (s savedState) restore() {
	gl.UseProgram(uint32(s.program))
	gl.BindVertexArray(uint32(s.vao))
	gl.BindTexture(gl.TEXTURE_2D, uint32(s.texture))
	gl.ActiveTexture(uint32(s.activeTexture))
	gl.Viewport(s.viewport[0], s.viewport[1], s.viewport[2], s.viewport[3])
	gl.Scissor(s.scissorBox[0], s.scissorBox[1], s.scissorBox[2], s.scissorBox[3])
	gl.BlendFuncSeparate(uint32(s.blendSrcRGB), uint32(s.blendDstRGB), uint32(s.blendSrcAlpha), uint32(s.blendDstAlpha))
	setEnabled(gl.BLEND, s.blend)
	setEnabled(gl.DEPTH_TEST, s.depthTest)
	setEnabled(gl.CULL_FACE, s.cullFace)
	setEnabled(gl.SCISSOR_TEST, s.scissorTest)
}

func setEnabled(capability uint32, on bool) {
	if on {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}

// Frame is a guigl.Target for one frame of the default framebuffer.
type Frame struct {
	device        *Device
	width, height int
	began         bool
	saved         savedState
}

// Size implements guigl.Target.
func (f *Frame) Size() image.Point {
	return image.Pt(f.width, f.height)
}

// begin saves the caller's GL state and sets up premultiplied blending.
func (f *Frame) begin(pixelsPerPoint float32) {
	f.saved = saveState()
	f.began = true

	gl.Viewport(0, 0, int32(f.width), int32(f.height))
	gl.Enable(gl.BLEND)
	gl.BlendFuncSeparate(gl.ONE, gl.ONE_MINUS_SRC_ALPHA, gl.ONE_MINUS_DST_ALPHA, gl.ONE)
	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.SCISSOR_TEST)

	d := f.device
	gl.UseProgram(d.program)
	gl.Uniform2f(d.screenLoc, float32(f.width)/pixelsPerPoint, float32(f.height)/pixelsPerPoint)
	gl.Uniform1i(d.samplerLoc, 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindVertexArray(d.vao)
}

// Draw implements guigl.Target.
func (f *Frame) Draw(cmd *guigl.DrawCommand) error {
	tex, ok := cmd.Texture.(*Texture)
	if !ok {
		return fmt.Errorf("opengl: cannot draw %T", cmd.Texture)
	}
	if tex.id == 0 {
		return fmt.Errorf("opengl: draw with deleted texture")
	}
	if !f.began {
		f.begin(cmd.PixelsPerPoint)
	}

	x, y, w, h := glScissor(cmd.Scissor, f.height)
	gl.Scissor(x, y, w, h)

	gl.BindTexture(gl.TEXTURE_2D, tex.id)
	tex.SetOptions(cmd.Options)
	gl.BindTexture(gl.TEXTURE_2D, tex.id)

	f.device.upload(cmd.Vertices, cmd.Indices)
	gl.DrawElements(gl.TRIANGLES, int32(len(cmd.Indices)), gl.UNSIGNED_INT, nil)
	return glError("draw")
}

// End restores the GL state found before the first draw.
func (f *Frame) End() {
	if f.began {
		f.saved.restore()
		f.began = false
	}
}

// glScissor converts a top-left origin pixel rectangle to GL's bottom-left
// origin.
func glScissor(r image.Rectangle, height int) (x, y, w, h int32) {
	return int32(r.Min.X), int32(height - r.Max.Y), int32(r.Dx()), int32(r.Dy())
}
