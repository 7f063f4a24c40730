package guigl

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
)

// maxDiagnostics bounds the number of retained Diagnostic records.
const maxDiagnostics = 256

// PainterOption configures a Painter.
type PainterOption func(*Painter)

// WithLogger sets the logger for texture bookkeeping and skipped primitives.
func WithLogger(l *slog.Logger) PainterOption {
	return func(p *Painter) {
		if l != nil {
			p.log = l
		}
	}
}

// WithMaxTextureSide caps the texture side below the device limit.
// Values larger than the device limit are ignored.
func WithMaxTextureSide(n int) PainterOption {
	return func(p *Painter) { p.sideCap = n }
}

// WithDefaultAlpha sets how pixels of deltas with AlphaDefault are
// interpreted. The default is AlphaPremultiplied.
func WithDefaultAlpha(mode AlphaMode) PainterOption {
	return func(p *Painter) {
		if mode != AlphaDefault {
			p.defaultAlpha = mode
		}
	}
}

// textureEntry is a texture known to the Painter together with the
// sampling options draw calls use for it.
type textureEntry struct {
	tex     Texture
	options TextureOptions
}

// Diagnostic records a primitive skipped for a recoverable reason.
type Diagnostic struct {
	Primitive int
	TextureID TextureID
	Reason    string
}

// PaintStats summarizes one paint call.
type PaintStats struct {
	DrawCalls int // Primitives drawn
	Clipped   int // Skipped: empty scissor
	Empty     int // Skipped: no triangles
	Missing   int // Skipped: unresolved texture or invalid mesh
	Vertices  int // Vertices submitted
	Indices   int // Indices submitted

	// ScratchVertices is the vertex capacity needed by the largest mesh
	// drawn so far, grown geometrically. Backends may size their vertex
	// buffers from it.
	ScratchVertices int
}

// Painter turns texture deltas and clipped primitives into device calls.
//
// It owns every managed texture and holds native textures by non-owning
// reference. A Painter is not safe for concurrent use: all methods must be
// called from the goroutine that owns the graphics context, and the texture
// delta of a frame must be applied before that frame is painted.
type Painter struct {
	device         Device
	maxTextureSide int
	sideCap        int
	defaultAlpha   AlphaMode
	log            *slog.Logger

	managed    map[uint64]*textureEntry
	native     map[uint64]*textureEntry
	nextNative uint64

	cmd         DrawCommand
	scratch     BufferArena
	diagnostics []Diagnostic
}

// NewPainter creates a Painter drawing through dev. It queries the maximum
// texture side once; the value is reported to the UI library so it never
// requests textures the device cannot hold.
func NewPainter(dev Device, opts ...PainterOption) (*Painter, error) {
	if dev == nil {
		return nil, ErrNoDevice
	}

	p := &Painter{
		device:       dev,
		defaultAlpha: AlphaPremultiplied,
		log:          defaultLogger,
		managed:      make(map[uint64]*textureEntry),
		native:       make(map[uint64]*textureEntry),
	}
	for _, opt := range opts {
		opt(p)
	}

	side := dev.MaxTextureSide()
	if side <= 0 {
		return nil, fmt.Errorf("%w: device reports max texture side %d", ErrDeviceLost, side)
	}
	if p.sideCap > 0 && p.sideCap < side {
		side = p.sideCap
	}
	p.maxTextureSide = side

	p.log.Debug("painter created", "max_texture_side", side)
	return p, nil
}

// MaxTextureSide returns the largest texture width or height the Painter
// accepts.
func (p *Painter) MaxTextureSide() int {
	return p.maxTextureSide
}

// RegisterNativeTexture makes a host-owned texture drawable under a fresh
// native TextureID. No pixels are copied. The caller keeps ownership of tex
// and must keep it alive as long as any primitive may reference the id.
// Registering the same texture twice yields two independent ids.
func (p *Painter) RegisterNativeTexture(tex Texture, opts TextureOptions) TextureID {
	id := NativeID(p.nextNative)
	p.nextNative++
	p.native[id.Value] = &textureEntry{tex: tex, options: opts}
	p.log.Debug("native texture registered", "texture", id)
	return id
}

// ReplaceNativeTexture points an existing native id at a different texture.
func (p *Painter) ReplaceNativeTexture(id TextureID, tex Texture, opts TextureOptions) error {
	if id.Kind != Native {
		return textureErr("replace native", id, ErrWrongNamespace)
	}
	e, ok := p.native[id.Value]
	if !ok {
		return textureErr("replace native", id, ErrUnknownTexture)
	}
	e.tex = tex
	e.options = opts
	return nil
}

// FreeNativeTexture forgets a native texture. The texture itself is not
// released; it belongs to the caller.
func (p *Painter) FreeNativeTexture(id TextureID) error {
	if id.Kind != Native {
		return textureErr("free native", id, ErrWrongNamespace)
	}
	if _, ok := p.native[id.Value]; !ok {
		return textureErr("free native", id, ErrUnknownTexture)
	}
	delete(p.native, id.Value)
	p.log.Debug("native texture freed", "texture", id)
	return nil
}

// Texture resolves a managed or native id.
func (p *Painter) Texture(id TextureID) (Texture, bool) {
	e, ok := p.lookup(id)
	if !ok {
		return nil, false
	}
	return e.tex, true
}

// ManagedCount returns the number of live managed textures.
func (p *Painter) ManagedCount() int { return len(p.managed) }

// NativeCount returns the number of registered native textures.
func (p *Painter) NativeCount() int { return len(p.native) }

func (p *Painter) lookup(id TextureID) (*textureEntry, bool) {
	var e *textureEntry
	switch id.Kind {
	case Managed:
		e = p.managed[id.Value]
	case Native:
		e = p.native[id.Value]
	}
	if e == nil || e.tex == nil {
		return nil, false
	}
	return e, true
}

// ApplyTextureDelta applies every Set entry in order and then every Free
// entry. All entries are attempted; failures are joined into the returned
// error.
func (p *Painter) ApplyTextureDelta(delta *TexturesDelta) error {
	if delta == nil {
		return nil
	}
	return errors.Join(p.setTextures(delta.Set), p.freeTextures(delta.Free))
}

func (p *Painter) setTextures(sets []TextureSet) error {
	var errs []error
	for _, s := range sets {
		if err := p.SetTexture(s.ID, s.Delta); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *Painter) freeTextures(ids []TextureID) error {
	var errs []error
	for _, id := range ids {
		if err := p.FreeTexture(id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SetTexture creates, replaces or patches the managed texture id.
//
// A whole-image delta allocates the texture on first use and uploads every
// pixel; later whole-image deltas of the same size upload in place and
// different sizes reallocate. A partial delta writes only its region into
// the existing texture, leaving all other texels untouched.
func (p *Painter) SetTexture(id TextureID, delta ImageDelta) error {
	if id.Kind != Managed {
		return textureErr("set", id, ErrWrongNamespace)
	}
	if delta.Image == nil {
		return textureErr("set", id, fmt.Errorf("%w: nil image", ErrInvalidImage))
	}

	img := delta.Image.toColorImage()
	if img == nil {
		return textureErr("set", id, fmt.Errorf("%w: nil image", ErrInvalidImage))
	}
	if err := img.validate(); err != nil {
		return textureErr("set", id, err)
	}
	if p.alphaMode(delta.Alpha) == AlphaStraight {
		img = img.Premultiplied()
	}

	existing := p.managed[id.Value]
	if !delta.IsWhole() {
		if existing == nil {
			return textureErr("patch", id, ErrUnknownTexture)
		}
		return p.patch(id, existing, delta, img)
	}

	w, h := img.Width(), img.Height()
	if w > p.maxTextureSide || h > p.maxTextureSide {
		return textureErr("set", id, fmt.Errorf("%w: %dx%d > %d", ErrTextureTooLarge, w, h, p.maxTextureSide))
	}

	if existing != nil && existing.tex.Size() == image.Pt(w, h) {
		if err := existing.tex.Upload(0, 0, img); err != nil {
			return textureErr("upload", id, fmt.Errorf("%w: %w", ErrTextureAllocation, err))
		}
		p.setOptions(existing, delta.Options)
		p.log.Debug("texture replaced in place", "texture", id, "width", w, "height", h)
		return nil
	}

	tex, err := p.device.CreateTexture(w, h, delta.Options)
	if err != nil {
		return textureErr("allocate", id, fmt.Errorf("%w: %w", ErrTextureAllocation, err))
	}
	if err := tex.Upload(0, 0, img); err != nil {
		tex.Release()
		return textureErr("upload", id, fmt.Errorf("%w: %w", ErrTextureAllocation, err))
	}

	// The old texture stays registered until its replacement is ready.
	if existing != nil {
		old := existing.tex.Size()
		existing.tex.Release()
		p.log.Debug("texture resized", "texture", id, "from", old, "width", w, "height", h)
	}
	p.managed[id.Value] = &textureEntry{tex: tex, options: delta.Options}
	p.log.Debug("texture allocated", "texture", id, "width", w, "height", h, "options", delta.Options)
	return nil
}

func (p *Painter) patch(id TextureID, e *textureEntry, delta ImageDelta, img *ColorImage) error {
	region := delta.Region()
	bounds := image.Rectangle{Max: e.tex.Size()}
	if region.Empty() || !region.In(bounds) {
		return textureErr("patch", id, fmt.Errorf("%w: %v not in %v", ErrPatchOutOfBounds, region, bounds))
	}
	if err := e.tex.Upload(region.Min.X, region.Min.Y, img); err != nil {
		return textureErr("patch", id, fmt.Errorf("%w: %w", ErrTextureAllocation, err))
	}
	p.setOptions(e, delta.Options)
	p.log.Debug("texture patched", "texture", id, "region", region)
	return nil
}

func (p *Painter) setOptions(e *textureEntry, opts TextureOptions) {
	if e.options != opts {
		e.tex.SetOptions(opts)
		e.options = opts
	}
}

func (p *Painter) alphaMode(m AlphaMode) AlphaMode {
	if m == AlphaDefault {
		return p.defaultAlpha
	}
	return m
}

// FreeTexture releases the managed texture id. Freeing an id that is
// already gone is a no-op; freeing a native id is a contract violation.
func (p *Painter) FreeTexture(id TextureID) error {
	if id.Kind != Managed {
		return textureErr("free", id, ErrWrongNamespace)
	}
	e, ok := p.managed[id.Value]
	if !ok {
		p.log.Debug("free of unknown texture ignored", "texture", id)
		return nil
	}
	e.tex.Release()
	delete(p.managed, id.Value)
	p.log.Debug("texture freed", "texture", id)
	return nil
}

// PaintPrimitives draws prims onto target in order, one draw call per
// primitive. Primitives whose scissor is empty are skipped silently.
// Primitives referencing an unknown texture are skipped with a warning and
// a Diagnostic, so a stale reference never aborts the frame. A failing draw
// call is fatal and ends the paint.
func (p *Painter) PaintPrimitives(target Target, pixelsPerPoint float32, prims []ClippedPrimitive) (PaintStats, error) {
	var stats PaintStats
	size := target.Size()

	for i, prim := range prims {
		scissor := ClipToScissor(prim.ClipRect, pixelsPerPoint, size)
		if scissor.Empty() {
			stats.Clipped++
			continue
		}
		mesh := prim.Mesh
		if mesh.IsEmpty() {
			stats.Empty++
			continue
		}

		e, ok := p.lookup(mesh.TextureID)
		if !ok {
			stats.Missing++
			p.diagnose(i, mesh.TextureID, "unknown texture")
			continue
		}
		if !mesh.IsValid() {
			stats.Missing++
			p.diagnose(i, mesh.TextureID, "index out of range")
			continue
		}

		if c, grew := p.scratch.Reserve(len(mesh.Vertices)); grew {
			p.log.Debug("scratch arena grown", "vertices", c)
		}
		p.cmd = DrawCommand{
			Texture:        e.tex,
			Options:        e.options,
			Scissor:        scissor,
			Vertices:       mesh.Vertices,
			Indices:        mesh.Indices,
			PixelsPerPoint: pixelsPerPoint,
		}
		if err := target.Draw(&p.cmd); err != nil {
			p.cmd = DrawCommand{}
			stats.ScratchVertices = p.scratch.Capacity()
			return stats, fmt.Errorf("draw primitive %d (%s): %w", i, mesh.TextureID, err)
		}
		stats.DrawCalls++
		stats.Vertices += len(mesh.Vertices)
		stats.Indices += len(mesh.Indices)
	}

	// Drop references to caller-owned mesh data.
	p.cmd = DrawCommand{}
	stats.ScratchVertices = p.scratch.Capacity()
	return stats, nil
}

// PaintAndUpdateTextures applies the Set entries of delta, paints prims and
// then applies the Free entries, so textures freed this frame are still
// available to this frame's primitives. A texture error aborts the paint.
func (p *Painter) PaintAndUpdateTextures(target Target, pixelsPerPoint float32, prims []ClippedPrimitive, delta *TexturesDelta) (PaintStats, error) {
	if delta != nil {
		if err := p.setTextures(delta.Set); err != nil {
			return PaintStats{}, err
		}
	}

	stats, err := p.PaintPrimitives(target, pixelsPerPoint, prims)
	if err != nil {
		return stats, err
	}

	if delta != nil {
		if err := p.freeTextures(delta.Free); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func (p *Painter) diagnose(i int, id TextureID, reason string) {
	p.log.Warn("skipping primitive", "primitive", i, "texture", id, "reason", reason)
	if len(p.diagnostics) == maxDiagnostics {
		copy(p.diagnostics, p.diagnostics[1:])
		p.diagnostics = p.diagnostics[:maxDiagnostics-1]
	}
	p.diagnostics = append(p.diagnostics, Diagnostic{Primitive: i, TextureID: id, Reason: reason})
}

// Diagnostics returns the most recent skipped-primitive records.
func (p *Painter) Diagnostics() []Diagnostic {
	return p.diagnostics
}

// ClearDiagnostics drops all recorded diagnostics.
func (p *Painter) ClearDiagnostics() {
	p.diagnostics = p.diagnostics[:0]
}

// Destroy releases every managed texture and forgets native ones.
// The Painter must not be used afterwards.
func (p *Painter) Destroy() {
	for v, e := range p.managed {
		e.tex.Release()
		delete(p.managed, v)
	}
	clear(p.native)
	p.log.Debug("painter destroyed")
}
