package opengl

import (
	"log/slog"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/guigl"
)

// scrollPoints is how far one scroll wheel notch moves, in points.
const scrollPoints = 50

// GLFWClipboard is a guigl.ClipboardProvider backed by a GLFW window.
type GLFWClipboard struct {
	window *glfw.Window
}

// GetText implements guigl.ClipboardProvider.
func (c *GLFWClipboard) GetText() string {
	return c.window.GetClipboardString()
}

// SetText implements guigl.ClipboardProvider.
func (c *GLFWClipboard) SetText(text string) {
	c.window.SetClipboardString(text)
}

// GLFWPlatform adapts a GLFW window to guigl.Platform. It installs the
// window's input callbacks and turns them into guigl events.
type GLFWPlatform struct {
	window    *glfw.Window
	input     *guigl.InputCollector
	clipboard guigl.ClipboardProvider
	start     float64

	cursors map[guigl.CursorIcon]*glfw.Cursor
	cursor  guigl.CursorIcon

	// OnOpenURL is called when the UI activates a link. When nil the
	// request is logged.
	OnOpenURL func(url string)

	log *slog.Logger
}

// NewGLFWPlatform creates the adapter and installs its callbacks on window,
// replacing any that were set.
func NewGLFWPlatform(window *glfw.Window) *GLFWPlatform {
	p := &GLFWPlatform{
		window:    window,
		input:     guigl.NewInputCollector(),
		clipboard: &GLFWClipboard{window: window},
		start:     glfw.GetTime(),
		cursors:   make(map[guigl.CursorIcon]*glfw.Cursor),
		log:       guigl.Logger(),
	}

	window.SetKeyCallback(p.keyCallback)
	window.SetCharCallback(p.charCallback)
	window.SetMouseButtonCallback(p.mouseButtonCallback)
	window.SetScrollCallback(p.scrollCallback)
	window.SetCursorPosCallback(p.cursorPosCallback)
	window.SetCursorEnterCallback(p.cursorEnterCallback)
	window.SetFocusCallback(p.focusCallback)

	return p
}

// SetClipboard replaces the clipboard provider.
func (p *GLFWPlatform) SetClipboard(c guigl.ClipboardProvider) {
	p.clipboard = c
}

// PixelsPerPoint returns the framebuffer to window size ratio.
func (p *GLFWPlatform) PixelsPerPoint() float32 {
	w, _ := p.window.GetSize()
	fw, _ := p.window.GetFramebufferSize()
	if w <= 0 || fw <= 0 {
		sx, _ := p.window.GetContentScale()
		if sx > 0 {
			return sx
		}
		return 1
	}
	return float32(fw) / float32(w)
}

// TakeInput implements guigl.Platform.
func (p *GLFWPlatform) TakeInput() guigl.RawInput {
	p.input.SetModifiers(p.modifiers())
	raw := p.input.Take()

	w, h := p.window.GetSize()
	raw.ScreenRect = guigl.RectFromSize(0, 0, float32(w), float32(h))
	raw.PixelsPerPoint = p.PixelsPerPoint()
	raw.Time = glfw.GetTime() - p.start
	return raw
}

// HandlePlatformOutput implements guigl.Platform.
func (p *GLFWPlatform) HandlePlatformOutput(out guigl.PlatformOutput) {
	if out.CopiedText != "" {
		p.clipboard.SetText(out.CopiedText)
	}
	if out.Cursor != p.cursor {
		p.setCursor(out.Cursor)
	}
	if out.OpenURL != "" {
		if p.OnOpenURL != nil {
			p.OnOpenURL(out.OpenURL)
		} else {
			p.log.Info("open url requested", "url", out.OpenURL)
		}
	}
}

// Destroy frees the cursors created by the adapter.
func (p *GLFWPlatform) Destroy() {
	for icon, c := range p.cursors {
		if c != nil {
			c.Destroy()
		}
		delete(p.cursors, icon)
	}
}

func (p *GLFWPlatform) setCursor(icon guigl.CursorIcon) {
	p.cursor = icon
	if icon == guigl.CursorNone {
		p.window.SetInputMode(glfw.CursorMode, glfw.CursorHidden)
		return
	}
	p.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	if icon == guigl.CursorDefault {
		p.window.SetCursor(nil)
		return
	}

	c, ok := p.cursors[icon]
	if !ok {
		c = glfw.CreateStandardCursor(standardCursor(icon))
		p.cursors[icon] = c
	}
	p.window.SetCursor(c)
}

func (p *GLFWPlatform) modifiers() guigl.Modifiers {
	pressed := func(a, b glfw.Key) bool {
		return p.window.GetKey(a) == glfw.Press || p.window.GetKey(b) == glfw.Press
	}
	return guigl.Modifiers{
		Ctrl:  pressed(glfw.KeyLeftControl, glfw.KeyRightControl),
		Shift: pressed(glfw.KeyLeftShift, glfw.KeyRightShift),
		Alt:   pressed(glfw.KeyLeftAlt, glfw.KeyRightAlt),
		Super: pressed(glfw.KeyLeftSuper, glfw.KeyRightSuper),
	}
}

func (p *GLFWPlatform) pointer() guigl.Pos2 {
	x, y := p.window.GetCursorPos()
	return guigl.Pos2{X: float32(x), Y: float32(y)}
}

func (p *GLFWPlatform) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action == glfw.Release {
		p.pushKey(key, false, false, mods)
		return
	}

	m := convertMods(mods)
	if m.Ctrl || m.Super {
		switch key {
		case glfw.KeyC:
			p.input.Push(guigl.Event{Kind: guigl.EventCopy, Modifiers: m})
		case glfw.KeyX:
			p.input.Push(guigl.Event{Kind: guigl.EventCut, Modifiers: m})
		case glfw.KeyV:
			p.input.Push(guigl.Event{Kind: guigl.EventPaste, Text: p.clipboard.GetText(), Modifiers: m})
		}
	}
	p.pushKey(key, true, action == glfw.Repeat, mods)
}

func (p *GLFWPlatform) pushKey(key glfw.Key, pressed, repeat bool, mods glfw.ModifierKey) {
	k := convertKey(key)
	if k == guigl.KeyNone {
		return
	}
	p.input.Push(guigl.Event{
		Kind:      guigl.EventKey,
		Key:       k,
		Pressed:   pressed,
		Repeat:    repeat,
		Modifiers: convertMods(mods),
	})
}

func (p *GLFWPlatform) charCallback(w *glfw.Window, char rune) {
	p.input.Push(guigl.Event{Kind: guigl.EventText, Text: string(char)})
}

func (p *GLFWPlatform) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	b := convertMouseButton(button)
	if b < 0 {
		return
	}
	p.input.Push(guigl.Event{
		Kind:      guigl.EventPointerButton,
		Pos:       p.pointer(),
		Button:    b,
		Pressed:   action == glfw.Press,
		Modifiers: convertMods(mods),
	})
}

func (p *GLFWPlatform) scrollCallback(w *glfw.Window, xoff, yoff float64) {
	p.input.Push(guigl.Event{
		Kind:  guigl.EventScroll,
		Delta: guigl.Pos2{X: float32(xoff) * scrollPoints, Y: float32(yoff) * scrollPoints},
	})
}

func (p *GLFWPlatform) cursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	p.input.Push(guigl.Event{Kind: guigl.EventPointerMoved, Pos: guigl.Pos2{X: float32(xpos), Y: float32(ypos)}})
}

func (p *GLFWPlatform) cursorEnterCallback(w *glfw.Window, entered bool) {
	if !entered {
		p.input.Push(guigl.Event{Kind: guigl.EventPointerGone})
	}
}

func (p *GLFWPlatform) focusCallback(w *glfw.Window, focused bool) {
	p.input.Push(guigl.Event{Kind: guigl.EventWindowFocused, Pressed: focused})
}

func convertMods(mods glfw.ModifierKey) guigl.Modifiers {
	return guigl.Modifiers{
		Ctrl:  mods&glfw.ModControl != 0,
		Shift: mods&glfw.ModShift != 0,
		Alt:   mods&glfw.ModAlt != 0,
		Super: mods&glfw.ModSuper != 0,
	}
}

func standardCursor(icon guigl.CursorIcon) glfw.StandardCursor {
	switch icon {
	case guigl.CursorPointingHand:
		return glfw.HandCursor
	case guigl.CursorText:
		return glfw.IBeamCursor
	case guigl.CursorCrosshair:
		return glfw.CrosshairCursor
	case guigl.CursorResizeHorizontal:
		return glfw.HResizeCursor
	case guigl.CursorResizeVertical:
		return glfw.VResizeCursor
	default:
		return glfw.ArrowCursor
	}
}

var keyMap = map[glfw.Key]guigl.Key{
	glfw.KeyTab:       guigl.KeyTab,
	glfw.KeyLeft:      guigl.KeyLeft,
	glfw.KeyRight:     guigl.KeyRight,
	glfw.KeyUp:        guigl.KeyUp,
	glfw.KeyDown:      guigl.KeyDown,
	glfw.KeyPageUp:    guigl.KeyPageUp,
	glfw.KeyPageDown:  guigl.KeyPageDown,
	glfw.KeyHome:      guigl.KeyHome,
	glfw.KeyEnd:       guigl.KeyEnd,
	glfw.KeyInsert:    guigl.KeyInsert,
	glfw.KeyDelete:    guigl.KeyDelete,
	glfw.KeyBackspace: guigl.KeyBackspace,
	glfw.KeySpace:     guigl.KeySpace,
	glfw.KeyEnter:     guigl.KeyEnter,
	glfw.KeyKPEnter:   guigl.KeyEnter,
	glfw.KeyEscape:    guigl.KeyEscape,
	glfw.KeyA:         guigl.KeyA,
	glfw.KeyC:         guigl.KeyC,
	glfw.KeyV:         guigl.KeyV,
	glfw.KeyX:         guigl.KeyX,
	glfw.KeyY:         guigl.KeyY,
	glfw.KeyZ:         guigl.KeyZ,
	glfw.KeyF1:        guigl.KeyF1,
	glfw.KeyF2:        guigl.KeyF2,
	glfw.KeyF3:        guigl.KeyF3,
	glfw.KeyF4:        guigl.KeyF4,
	glfw.KeyF5:        guigl.KeyF5,
	glfw.KeyF6:        guigl.KeyF6,
	glfw.KeyF7:        guigl.KeyF7,
	glfw.KeyF8:        guigl.KeyF8,
	glfw.KeyF9:        guigl.KeyF9,
	glfw.KeyF10:       guigl.KeyF10,
	glfw.KeyF11:       guigl.KeyF11,
	glfw.KeyF12:       guigl.KeyF12,
}

// convertKey maps GLFW keys to guigl keys.
func convertKey(key glfw.Key) guigl.Key {
	return keyMap[key]
}

// convertMouseButton maps GLFW mouse buttons to guigl mouse buttons.
func convertMouseButton(button glfw.MouseButton) guigl.MouseButton {
	switch button {
	case glfw.MouseButtonLeft:
		return guigl.MouseButtonLeft
	case glfw.MouseButtonRight:
		return guigl.MouseButtonRight
	case glfw.MouseButtonMiddle:
		return guigl.MouseButtonMiddle
	default:
		return -1
	}
}
