package demoui

import "github.com/go-theft-auto/guigl"

// Context is handed to the build callback of each frame. Widgets are laid
// out top to bottom starting at the cursor.
type Context struct {
	// Input is the raw input of this frame.
	Input guigl.RawInput

	ui       *UI
	dl       DrawList
	cursor   guigl.Pos2
	platform guigl.PlatformOutput
	windows  []guigl.Rect

	pressed  bool // primary button went down this frame
	released bool // primary button went up this frame
	typed    []rune
	copyReq  bool

	parentID  ID
	idCounter uint64
}

func (ctx *Context) consumeEvents(events []guigl.Event) {
	u := ctx.ui
	for _, ev := range events {
		switch ev.Kind {
		case guigl.EventPointerMoved:
			u.pointer, u.hasPtr = ev.Pos, true
		case guigl.EventPointerGone:
			u.hasPtr = false
		case guigl.EventPointerButton:
			if ev.Button != guigl.MouseButtonLeft {
				continue
			}
			u.pointer, u.hasPtr = ev.Pos, true
			if ev.Pressed && !u.down {
				ctx.pressed = true
			}
			if !ev.Pressed && u.down {
				ctx.released = true
			}
			u.down = ev.Pressed
		case guigl.EventText:
			ctx.typed = append(ctx.typed, []rune(ev.Text)...)
		case guigl.EventCopy:
			ctx.copyReq = true
		}
	}
}

// DrawList returns the frame's draw list for custom drawing.
func (ctx *Context) DrawList() *DrawList {
	return &ctx.dl
}

// PointerPos returns the pointer position in points and whether the
// pointer is over the window.
func (ctx *Context) PointerPos() (guigl.Pos2, bool) {
	return ctx.ui.pointer, ctx.ui.hasPtr
}

// TypedText returns the characters typed this frame.
func (ctx *Context) TypedText() string {
	return string(ctx.typed)
}

// CopyRequested reports whether the user asked to copy this frame.
func (ctx *Context) CopyRequested() bool {
	return ctx.copyReq
}

// CopyText places text on the clipboard at the end of the frame.
func (ctx *Context) CopyText(text string) {
	ctx.platform.CopiedText = text
}

// SetCursor requests a cursor icon for this frame.
func (ctx *Context) SetCursor(icon guigl.CursorIcon) {
	ctx.platform.Cursor = icon
}

// OpenURL asks the platform to open a link.
func (ctx *Context) OpenURL(url string) {
	ctx.platform.OpenURL = url
}

// Cursor returns the position of the next widget.
func (ctx *Context) Cursor() guigl.Pos2 {
	return ctx.cursor
}

// Spacing adds vertical space.
func (ctx *Context) Spacing(points float32) {
	ctx.cursor.Y += points
}

// advance moves the cursor below an item of height h.
func (ctx *Context) advance(h float32) {
	ctx.cursor.Y += h + itemSpacing
}

// Window draws a titled window at r and lays out body inside it. Content
// is clipped to the window.
func (ctx *Context) Window(title string, r guigl.Rect, body func()) {
	ctx.windows = append(ctx.windows, r)

	ctx.dl.AddRect(r, colorWindow)
	ctx.dl.AddRect(guigl.RectFromSize(r.Min.X, r.Min.Y, r.Width(), titleHeight), colorTitle)
	ctx.dl.PushClipRect(r)
	ctx.dl.AddText(guigl.Pos2{X: r.Min.X + windowPadding, Y: r.Min.Y + 4}, title, colorText, DefaultTextSize)

	savedCursor, savedParent := ctx.cursor, ctx.parentID
	ctx.parentID = ctx.GetID(title)
	ctx.cursor = guigl.Pos2{X: r.Min.X + windowPadding, Y: r.Min.Y + titleHeight + windowPadding}

	body()

	ctx.cursor, ctx.parentID = savedCursor, savedParent
	ctx.dl.PopClipRect()
}

// Label draws a line of text.
func (ctx *Context) Label(text string) {
	ctx.dl.AddText(ctx.cursor, text, colorText, DefaultTextSize)
	ctx.advance(DefaultTextSize)
}

// Button draws a button and returns true on the frame it is clicked.
func (ctx *Context) Button(label string) bool {
	id := ctx.GetID(label)
	r := guigl.RectFromSize(ctx.cursor.X, ctx.cursor.Y, TextWidth(label, DefaultTextSize)+2*windowPadding, DefaultTextSize+8)
	clicked := ctx.interact(id, r)

	ctx.dl.AddRect(r, ctx.buttonColor(id, r))
	ctx.dl.AddText(guigl.Pos2{X: r.Min.X + windowPadding, Y: r.Min.Y + 4}, label, colorText, DefaultTextSize)
	ctx.advance(r.Height())
	return clicked
}

// Image draws a texture at its given size in points.
func (ctx *Context) Image(tex guigl.TextureID, size guigl.Pos2) {
	ctx.ImageTinted(tex, size, guigl.ColorWhite)
}

// ImageTinted draws a texture multiplied by tint.
func (ctx *Context) ImageTinted(tex guigl.TextureID, size guigl.Pos2, tint guigl.Color32) {
	r := guigl.RectFromSize(ctx.cursor.X, ctx.cursor.Y, size.X, size.Y)
	ctx.dl.AddImage(tex, r, guigl.Rect{Max: guigl.Pos2{X: 1, Y: 1}}, tint)
	ctx.advance(size.Y)
}

// ImageButton draws an image followed by a label, clickable as a whole.
func (ctx *Context) ImageButton(tex guigl.TextureID, size guigl.Pos2, label string) bool {
	id := ctx.GetID(label)
	h := max(size.Y, DefaultTextSize) + 8
	r := guigl.RectFromSize(ctx.cursor.X, ctx.cursor.Y, size.X+TextWidth(label, DefaultTextSize)+3*windowPadding, h)
	clicked := ctx.interact(id, r)

	ctx.dl.AddRect(r, ctx.buttonColor(id, r))
	img := guigl.RectFromSize(r.Min.X+windowPadding, r.Min.Y+(h-size.Y)/2, size.X, size.Y)
	ctx.dl.AddImage(tex, img, guigl.Rect{Max: guigl.Pos2{X: 1, Y: 1}}, guigl.ColorWhite)
	ctx.dl.AddText(guigl.Pos2{X: img.Max.X + windowPadding, Y: r.Min.Y + (h-DefaultTextSize)/2}, label, colorText, DefaultTextSize)
	ctx.advance(h)
	return clicked
}

// hovered reports whether the pointer is over r and r is visible.
func (ctx *Context) hovered(r guigl.Rect) bool {
	p, ok := ctx.PointerPos()
	return ok && r.Contains(p) && ctx.dl.ClipRect().Contains(p)
}

// interact updates the active widget and returns true when a press that
// started on id is released over r.
func (ctx *Context) interact(id ID, r guigl.Rect) bool {
	hovered := ctx.hovered(r)
	if hovered {
		ctx.platform.Cursor = guigl.CursorPointingHand
	}
	if hovered && ctx.pressed {
		ctx.ui.active = id
	}
	return ctx.released && ctx.ui.active == id && hovered
}

func (ctx *Context) buttonColor(id ID, r guigl.Rect) guigl.Color32 {
	switch {
	case ctx.ui.active == id && ctx.ui.down:
		return colorButtonDown
	case ctx.hovered(r):
		return colorButtonHover
	default:
		return colorButton
	}
}
