package ebiten

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/go-theft-auto/guigl"
)

// Target draws into an *ebiten.Image, usually the screen passed to
// Game.Draw. Its vertex scratch buffer is reused across frames.
type Target struct {
	dst      *ebiten.Image
	vertices []ebiten.Vertex
	arena    guigl.BufferArena
}

// NewTarget returns a target with no destination. Call Reset with the
// screen at the start of each Draw.
func NewTarget() *Target {
	return &Target{}
}

// Reset points the target at dst.
func (t *Target) Reset(dst *ebiten.Image) *Target {
	t.dst = dst
	return t
}

// Size implements guigl.Target.
func (t *Target) Size() image.Point {
	if t.dst == nil {
		return image.Point{}
	}
	return t.dst.Bounds().Size()
}

// Draw implements guigl.Target.
func (t *Target) Draw(cmd *guigl.DrawCommand) error {
	if t.dst == nil {
		return fmt.Errorf("ebiten: draw without destination")
	}
	tex, ok := cmd.Texture.(*Texture)
	if !ok {
		return fmt.Errorf("ebiten: cannot draw %T", cmd.Texture)
	}
	if tex.img == nil {
		return fmt.Errorf("ebiten: draw with deallocated texture")
	}

	origin := t.dst.Bounds().Min
	clip := t.dst.SubImage(cmd.Scissor.Add(origin)).(*ebiten.Image)

	t.vertices = growVertices(&t.arena, t.vertices, cmd, tex.img.Bounds(), origin)

	op := &ebiten.DrawTrianglesOptions{
		ColorScaleMode: ebiten.ColorScaleModePremultipliedAlpha,
		Blend:          ebiten.BlendSourceOver,
		Filter:         filter(cmd.Options),
		Address:        address(cmd.Options),
	}
	clip.DrawTriangles32(t.vertices, cmd.Indices, tex.img, op)
	return nil
}

// growVertices converts GUI vertices into Ebitengine vertices in buf,
// growing it through arena. Positions are scaled to pixels and offset by
// origin; UVs become texel coordinates of src.
func growVertices(arena *guigl.BufferArena, buf []ebiten.Vertex, cmd *guigl.DrawCommand, src image.Rectangle, origin image.Point) []ebiten.Vertex {
	buf = guigl.GrowSlice(arena, buf, len(cmd.Vertices))
	ppp := cmd.PixelsPerPoint
	if ppp <= 0 {
		ppp = 1
	}
	w, h := float32(src.Dx()), float32(src.Dy())
	sx, sy := float32(src.Min.X), float32(src.Min.Y)
	ox, oy := float32(origin.X), float32(origin.Y)

	for i, v := range cmd.Vertices {
		buf[i] = ebiten.Vertex{
			DstX:   v.Pos.X*ppp + ox,
			DstY:   v.Pos.Y*ppp + oy,
			SrcX:   sx + v.UV.X*w,
			SrcY:   sy + v.UV.Y*h,
			ColorR: float32(v.Color[0]) / 255,
			ColorG: float32(v.Color[1]) / 255,
			ColorB: float32(v.Color[2]) / 255,
			ColorA: float32(v.Color[3]) / 255,
		}
	}
	return buf
}

// filter picks the magnification filter; Ebitengine has a single filter
// per draw.
func filter(opts guigl.TextureOptions) ebiten.Filter {
	if opts.Magnification == guigl.FilterNearest {
		return ebiten.FilterNearest
	}
	return ebiten.FilterLinear
}

// address maps wrap modes. Mirrored repeat is not available and falls
// back to repeat.
func address(opts guigl.TextureOptions) ebiten.Address {
	switch opts.Wrap {
	case guigl.WrapRepeat, guigl.WrapMirror:
		return ebiten.AddressRepeat
	default:
		return ebiten.AddressUnsafe
	}
}
