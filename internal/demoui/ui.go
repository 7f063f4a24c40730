// Package demoui is a minimal immediate-mode UI used by the example
// programs and end-to-end tests. It implements guigl.UI: frames are built
// through a Context, shapes are single-texture meshes, and the bitmap font
// atlas travels to the painter as a managed texture in the first frame's
// texture delta.
package demoui

import (
	"time"

	"github.com/go-theft-auto/guigl"
)

// Style constants, in points.
const (
	DefaultTextSize = 16
	itemSpacing     = 6
	windowPadding   = 8
	titleHeight     = DefaultTextSize + 8
)

// Colors used by the widgets.
var (
	colorWindow      = guigl.RGBA(24, 24, 28, 230)
	colorTitle       = guigl.RGBA(40, 60, 110, 255)
	colorText        = guigl.RGBA(230, 230, 230, 255)
	colorButton      = guigl.RGBA(60, 60, 70, 255)
	colorButtonHover = guigl.RGBA(80, 80, 100, 255)
	colorButtonDown  = guigl.RGBA(40, 90, 160, 255)
)

// UI keeps the state that survives between frames: pointer, the widget
// being pressed, whether the font atlas has been delivered.
type UI struct {
	fontSent bool
	pointer  guigl.Pos2
	hasPtr   bool
	down     bool
	active   ID
	windows  []guigl.Rect
}

// New creates a UI.
func New() *UI {
	return &UI{}
}

// ResendFont makes the next frame deliver the font atlas again, for
// example after the painter was recreated.
func (u *UI) ResendFont() {
	u.fontSent = false
}

// Run implements guigl.UI.
func (u *UI) Run(input guigl.RawInput, build func(*Context)) guigl.FullOutput {
	ctx := &Context{ui: u, Input: input}
	ctx.consumeEvents(input.Events)

	screen, origin := input.ScreenRect, input.ScreenRect.Min
	if !screen.IsPositive() {
		screen, origin = guigl.EverythingRect, guigl.Pos2{}
	}
	ctx.dl.Clear(screen)
	ctx.cursor = origin.Add(guigl.Pos2{X: windowPadding, Y: windowPadding})

	build(ctx)

	if ctx.released {
		u.active = 0
	}
	u.windows = ctx.windows

	out := guigl.FullOutput{
		Platform:       ctx.platform,
		Shapes:         ctx.dl.Shapes(),
		PixelsPerPoint: input.PixelsPerPoint,
		RepaintAfter:   time.Second,
	}
	if u.down || len(input.Events) > 0 {
		out.RepaintAfter = 0
	}
	if !u.fontSent {
		out.Textures.Set = append(out.Textures.Set, guigl.TextureSet{
			ID:    FontTexture,
			Delta: guigl.FullImage(fontImage(), guigl.TextureNearest),
		})
		u.fontSent = true
	}
	return out
}

// Tessellate implements guigl.UI.
func (u *UI) Tessellate(shapes []guigl.ClippedShape, pixelsPerPoint float32) []guigl.ClippedPrimitive {
	return Tessellate(shapes, pixelsPerPoint)
}

// WantsPointerInput reports whether the pointer is over a window drawn in
// the last frame, or a widget is being pressed.
func (u *UI) WantsPointerInput() bool {
	if u.active != 0 {
		return true
	}
	if !u.hasPtr {
		return false
	}
	for _, r := range u.windows {
		if r.Contains(u.pointer) {
			return true
		}
	}
	return false
}

// WantsKeyboardInput is false: demoui has no text fields.
func (u *UI) WantsKeyboardInput() bool {
	return false
}
