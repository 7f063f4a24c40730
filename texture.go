package guigl

import (
	"fmt"
	"image"
)

// TextureKind selects the namespace of a TextureID.
type TextureKind uint8

const (
	// Managed textures are allocated and uploaded by the Painter from
	// pixels delivered in a TexturesDelta.
	Managed TextureKind = iota
	// Native textures wrap a GPU texture owned by the host application.
	Native
)

// String returns the namespace name.
func (k TextureKind) String() string {
	switch k {
	case Managed:
		return "managed"
	case Native:
		return "native"
	default:
		return fmt.Sprintf("TextureKind(%d)", uint8(k))
	}
}

// TextureID identifies a texture within one of the two namespaces.
// The zero value is the first managed texture, conventionally the font atlas.
type TextureID struct {
	Kind  TextureKind
	Value uint64
}

// ManagedID returns the managed TextureID with the given value.
func ManagedID(v uint64) TextureID { return TextureID{Kind: Managed, Value: v} }

// NativeID returns the native TextureID with the given value.
func NativeID(v uint64) TextureID { return TextureID{Kind: Native, Value: v} }

// String formats the id as "managed#N" or "native#N".
func (id TextureID) String() string {
	return fmt.Sprintf("%s#%d", id.Kind, id.Value)
}

// TextureFilter selects how texels are sampled.
type TextureFilter uint8

const (
	FilterLinear TextureFilter = iota
	FilterNearest
)

// String returns the filter name.
func (f TextureFilter) String() string {
	if f == FilterNearest {
		return "nearest"
	}
	return "linear"
}

// WrapMode selects how UVs outside [0, 1] are resolved.
type WrapMode uint8

const (
	WrapClamp WrapMode = iota
	WrapRepeat
	WrapMirror
)

// String returns the wrap mode name.
func (w WrapMode) String() string {
	switch w {
	case WrapRepeat:
		return "repeat"
	case WrapMirror:
		return "mirror"
	default:
		return "clamp"
	}
}

// TextureOptions controls how a texture is sampled.
// The zero value is linear magnification and minification with clamping.
type TextureOptions struct {
	Magnification TextureFilter
	Minification  TextureFilter
	Wrap          WrapMode
}

// Predefined sampling options.
var (
	TextureLinear  = TextureOptions{}
	TextureNearest = TextureOptions{Magnification: FilterNearest, Minification: FilterNearest}
)

// AlphaMode declares how the pixels of an ImageDelta encode alpha.
type AlphaMode uint8

const (
	// AlphaDefault defers to the Painter's configured default.
	AlphaDefault AlphaMode = iota
	// AlphaPremultiplied pixels are uploaded as-is.
	AlphaPremultiplied
	// AlphaStraight pixels are premultiplied by the Painter before upload.
	AlphaStraight
)

// ImageDelta is a change to one texture: either a whole new image or a
// patch written at Pos.
type ImageDelta struct {
	Image   ImageData
	Options TextureOptions
	// Pos is the top-left corner of the patch, or nil for a whole-texture
	// replacement.
	Pos   *[2]int
	Alpha AlphaMode
}

// FullImage returns a delta replacing the whole texture with img.
func FullImage(img ImageData, opts TextureOptions) ImageDelta {
	return ImageDelta{Image: img, Options: opts}
}

// PartialImage returns a delta writing img at (x, y).
func PartialImage(x, y int, img ImageData, opts TextureOptions) ImageDelta {
	return ImageDelta{Image: img, Options: opts, Pos: &[2]int{x, y}}
}

// IsWhole reports whether the delta replaces the whole texture.
func (d ImageDelta) IsWhole() bool { return d.Pos == nil }

// Region returns the rectangle the delta writes, in texture pixels.
func (d ImageDelta) Region() image.Rectangle {
	var x, y int
	if d.Pos != nil {
		x, y = d.Pos[0], d.Pos[1]
	}
	return image.Rect(x, y, x+d.Image.Width(), y+d.Image.Height())
}

// TextureSet pairs a texture id with the delta to apply to it.
type TextureSet struct {
	ID    TextureID
	Delta ImageDelta
}

// TexturesDelta is the per-frame diff of the UI library's texture cache.
// Set entries are applied in order before painting; Free entries after.
type TexturesDelta struct {
	Set  []TextureSet
	Free []TextureID
}

// IsEmpty reports whether the delta carries no changes.
func (d *TexturesDelta) IsEmpty() bool {
	return len(d.Set) == 0 && len(d.Free) == 0
}

// Append adds the changes of newer after those already in d.
func (d *TexturesDelta) Append(newer TexturesDelta) {
	d.Set = append(d.Set, newer.Set...)
	d.Free = append(d.Free, newer.Free...)
}

// Clear drops all pending changes, keeping capacity.
func (d *TexturesDelta) Clear() {
	d.Set = d.Set[:0]
	d.Free = d.Free[:0]
}

// Take moves the changes out of d, leaving it empty.
func (d *TexturesDelta) Take() TexturesDelta {
	out := *d
	*d = TexturesDelta{}
	return out
}

// Texture is a GPU texture as seen by the Painter. Managed textures are
// created through Device.CreateTexture; native ones are supplied by the
// host application.
type Texture interface {
	// Size returns the texture dimensions in pixels.
	Size() image.Point
	// Upload writes img with its top-left corner at (x, y).
	Upload(x, y int, img *ColorImage) error
	// SetOptions changes the sampling options.
	SetOptions(opts TextureOptions)
	// Release frees the GPU memory. The texture must not be used afterwards.
	Release()
}
