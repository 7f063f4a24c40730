package demoui

import (
	"math"

	"github.com/go-theft-auto/guigl"
)

// FontTexture is the managed texture id of the font atlas.
var FontTexture = guigl.ManagedID(0)

// DrawList accumulates shapes for a frame. A new shape starts whenever the
// clip rectangle or the texture changes, so every shape is a single mesh
// with a single clip rectangle.
type DrawList struct {
	shapes    []guigl.ClippedShape
	clipStack []guigl.Rect
	clip      guigl.Rect
	current   *guigl.Mesh
}

// Clear resets the DrawList for a new frame.
func (dl *DrawList) Clear(screen guigl.Rect) {
	dl.shapes = nil
	dl.clipStack = dl.clipStack[:0]
	dl.clip = screen
	dl.current = nil
}

// Shapes returns the shapes recorded so far.
func (dl *DrawList) Shapes() []guigl.ClippedShape {
	return dl.shapes
}

// ClipRect returns the active clip rectangle.
func (dl *DrawList) ClipRect() guigl.Rect {
	return dl.clip
}

// PushClipRect intersects the clip rectangle with r until PopClipRect.
func (dl *DrawList) PushClipRect(r guigl.Rect) {
	dl.clipStack = append(dl.clipStack, dl.clip)
	dl.clip = dl.clip.Intersect(r)
	dl.current = nil
}

// PopClipRect restores the previous clip rectangle.
func (dl *DrawList) PopClipRect() {
	n := len(dl.clipStack)
	if n > 0 {
		dl.clip = dl.clipStack[n-1]
		dl.clipStack = dl.clipStack[:n-1]
		dl.current = nil
	}
}

// mesh returns the mesh to append to for the given texture, starting a new
// shape when the texture differs from the current one.
func (dl *DrawList) mesh(tex guigl.TextureID) *guigl.Mesh {
	if dl.current == nil || dl.current.TextureID != tex {
		dl.current = &guigl.Mesh{TextureID: tex}
		dl.shapes = append(dl.shapes, guigl.ClippedShape{ClipRect: dl.clip, Shape: dl.current})
	}
	return dl.current
}

// AddRect draws a filled rectangle.
func (dl *DrawList) AddRect(r guigl.Rect, color guigl.Color32) {
	if color.A() == 0 || !r.IsPositive() {
		return
	}
	dl.mesh(FontTexture).AddRectWithUV(r, whiteUV(), color)
}

// AddRectOutline draws a rectangle outline.
func (dl *DrawList) AddRectOutline(r guigl.Rect, color guigl.Color32, thickness float32) {
	x, y, w, h := r.Min.X, r.Min.Y, r.Width(), r.Height()
	dl.AddRect(guigl.RectFromSize(x, y, w, thickness), color)
	dl.AddRect(guigl.RectFromSize(x, y+h-thickness, w, thickness), color)
	dl.AddRect(guigl.RectFromSize(x, y+thickness, thickness, h-2*thickness), color)
	dl.AddRect(guigl.RectFromSize(x+w-thickness, y+thickness, thickness, h-2*thickness), color)
}

// AddText draws text with its top-left corner at pos. Each character cell
// is size×size points.
func (dl *DrawList) AddText(pos guigl.Pos2, text string, color guigl.Color32, size float32) {
	if color.A() == 0 || text == "" {
		return
	}
	m := dl.mesh(FontTexture)
	x := pos.X
	for _, r := range text {
		m.AddRectWithUV(guigl.RectFromSize(x, pos.Y, size, size), glyphUV(r), color)
		x += size
	}
}

// AddImage draws a texture stretched over r, tinted by tint.
func (dl *DrawList) AddImage(tex guigl.TextureID, r guigl.Rect, uv guigl.Rect, tint guigl.Color32) {
	if !r.IsPositive() {
		return
	}
	dl.mesh(tex).AddRectWithUV(r, uv, tint)
}

// TextWidth returns the width of text drawn with the given cell size.
func TextWidth(text string, size float32) float32 {
	n := 0
	for range text {
		n++
	}
	return float32(n) * size
}

// Tessellate merges consecutive shapes sharing a clip rectangle and texture
// into one primitive and snaps vertices to the pixel grid.
func Tessellate(shapes []guigl.ClippedShape, pixelsPerPoint float32) []guigl.ClippedPrimitive {
	var prims []guigl.ClippedPrimitive
	for _, s := range shapes {
		src, ok := s.Shape.(*guigl.Mesh)
		if !ok || src.IsEmpty() {
			continue
		}

		if n := len(prims); n > 0 {
			last := &prims[n-1]
			if last.ClipRect == s.ClipRect && last.Mesh.TextureID == src.TextureID {
				last.Mesh.Append(src)
				continue
			}
		}

		m := &guigl.Mesh{TextureID: src.TextureID}
		m.Append(src)
		prims = append(prims, guigl.ClippedPrimitive{ClipRect: s.ClipRect, Mesh: m})
	}

	if pixelsPerPoint > 0 {
		for _, p := range prims {
			for i := range p.Mesh.Vertices {
				v := &p.Mesh.Vertices[i]
				v.Pos.X = snap(v.Pos.X, pixelsPerPoint)
				v.Pos.Y = snap(v.Pos.Y, pixelsPerPoint)
			}
		}
	}
	return prims
}

func snap(v, pixelsPerPoint float32) float32 {
	return float32(math.Round(float64(v*pixelsPerPoint))) / pixelsPerPoint
}
