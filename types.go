package guigl

// Pos2 is a 2D position or size in UI points (or texel-normalized UV space
// when used as a texture coordinate).
type Pos2 struct {
	X, Y float32
}

// Add returns the sum of two positions.
func (p Pos2) Add(other Pos2) Pos2 {
	return Pos2{X: p.X + other.X, Y: p.Y + other.Y}
}

// Mul returns the position scaled by a scalar.
func (p Pos2) Mul(s float32) Pos2 {
	return Pos2{X: p.X * s, Y: p.Y * s}
}

// Rect is an axis-aligned rectangle given by its min and max corners.
// Clip rectangles are expressed in points with a top-left origin.
type Rect struct {
	Min, Max Pos2
}

// RectFromSize builds a rectangle from a top-left corner and a size.
func RectFromSize(x, y, w, h float32) Rect {
	return Rect{Min: Pos2{X: x, Y: y}, Max: Pos2{X: x + w, Y: y + h}}
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float32 { return r.Max.X - r.Min.X }

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float32 { return r.Max.Y - r.Min.Y }

// IsPositive reports whether the rectangle has a positive area.
func (r Rect) IsPositive() bool {
	return r.Max.X > r.Min.X && r.Max.Y > r.Min.Y
}

// Contains returns true if the point is inside the rectangle.
func (r Rect) Contains(p Pos2) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Intersect returns the overlap of two rectangles. The result may be
// non-positive when they do not overlap.
func (r Rect) Intersect(other Rect) Rect {
	return Rect{
		Min: Pos2{X: maxf(r.Min.X, other.Min.X), Y: maxf(r.Min.Y, other.Min.Y)},
		Max: Pos2{X: minf(r.Max.X, other.Max.X), Y: minf(r.Max.Y, other.Max.Y)},
	}
}

// EverythingRect is a clip rectangle that never clips anything.
var EverythingRect = Rect{Min: Pos2{X: -1e9, Y: -1e9}, Max: Pos2{X: 1e9, Y: 1e9}}

// Vertex is one corner of a tessellated triangle.
// Memory layout matches the OpenGL vertex attribute setup of the GL backend.
type Vertex struct {
	Pos   Pos2    // Position in points
	UV    Pos2    // Normalized texture coordinates
	Color Color32 // Premultiplied tint
}

// Mesh is an indexed triangle list drawn with a single texture.
type Mesh struct {
	Indices   []uint32
	Vertices  []Vertex
	TextureID TextureID
}

// IsEmpty reports whether the mesh has nothing to draw.
func (m *Mesh) IsEmpty() bool {
	return m == nil || len(m.Indices) == 0 || len(m.Vertices) == 0
}

// IsValid reports whether every index references an existing vertex.
func (m *Mesh) IsValid() bool {
	n := uint32(len(m.Vertices))
	for _, i := range m.Indices {
		if i >= n {
			return false
		}
	}
	return true
}

// AddRectWithUV appends a textured quad.
func (m *Mesh) AddRectWithUV(r, uv Rect, color Color32) {
	idx := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices,
		Vertex{Pos: r.Min, UV: uv.Min, Color: color},
		Vertex{Pos: Pos2{X: r.Max.X, Y: r.Min.Y}, UV: Pos2{X: uv.Max.X, Y: uv.Min.Y}, Color: color},
		Vertex{Pos: r.Max, UV: uv.Max, Color: color},
		Vertex{Pos: Pos2{X: r.Min.X, Y: r.Max.Y}, UV: Pos2{X: uv.Min.X, Y: uv.Max.Y}, Color: color},
	)
	m.Indices = append(m.Indices, idx, idx+1, idx+2, idx, idx+2, idx+3)
}

// Append merges other into m. Both meshes must use the same texture.
func (m *Mesh) Append(other *Mesh) {
	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, other.Vertices...)
	for _, i := range other.Indices {
		m.Indices = append(m.Indices, base+i)
	}
}

// ClippedPrimitive is one tessellated batch: a mesh plus the clip
// rectangle (in points) outside of which nothing may be drawn.
type ClippedPrimitive struct {
	ClipRect Rect
	Mesh     *Mesh
}

// ClippedShape is an untessellated shape produced by the UI library.
// The bridge never inspects Shape; it is handed back to the library's
// tessellator.
type ClippedShape struct {
	ClipRect Rect
	Shape    any
}

// maxf returns the maximum of two float32 values.
func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// minf returns the minimum of two float32 values.
func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

// clampi clamps an int to [lo, hi].
func clampi(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
