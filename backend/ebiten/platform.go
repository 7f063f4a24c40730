package ebiten

import (
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/go-theft-auto/guigl"
)

// Platform is a guigl.Platform polling Ebitengine input. Call TakeInput
// from Game.Update and SetScreenSize from Game.Layout.
type Platform struct {
	start     time.Time
	screen    guigl.Pos2
	pointer   guigl.Pos2
	hasPtr    bool
	keys      []ebiten.Key
	chars     []rune
	clipboard guigl.ClipboardProvider
	cursor    guigl.CursorIcon

	// OnOpenURL is called when the UI activates a link. When nil the
	// request is logged.
	OnOpenURL func(url string)

	log *slog.Logger
}

// NewPlatform creates the adapter.
func NewPlatform() *Platform {
	return &Platform{start: time.Now(), log: guigl.Logger()}
}

// SetClipboard sets the clipboard used for copy and paste. Without one,
// copied text is dropped and paste events carry no text.
func (p *Platform) SetClipboard(c guigl.ClipboardProvider) {
	p.clipboard = c
}

// SetScreenSize records the outside size passed to Game.Layout, in points.
func (p *Platform) SetScreenSize(width, height int) {
	p.screen = guigl.Pos2{X: float32(width), Y: float32(height)}
}

// PixelsPerPoint returns the device scale factor of the current monitor.
func (p *Platform) PixelsPerPoint() float32 {
	if m := ebiten.Monitor(); m != nil {
		if s := m.DeviceScaleFactor(); s > 0 {
			return float32(s)
		}
	}
	return 1
}

// TakeInput implements guigl.Platform.
func (p *Platform) TakeInput() guigl.RawInput {
	mods := modifiers()
	raw := guigl.RawInput{
		ScreenRect:     guigl.Rect{Max: p.screen},
		PixelsPerPoint: p.PixelsPerPoint(),
		Time:           time.Since(p.start).Seconds(),
		Modifiers:      mods,
		Focused:        ebiten.IsFocused(),
	}
	raw.Events = p.appendPointerEvents(raw.Events, mods, raw.PixelsPerPoint)
	raw.Events = p.appendKeyEvents(raw.Events, mods)

	p.chars = ebiten.AppendInputChars(p.chars[:0])
	if len(p.chars) > 0 {
		raw.Events = append(raw.Events, guigl.Event{Kind: guigl.EventText, Text: string(p.chars), Modifiers: mods})
	}
	return raw
}

// appendPointerEvents reports pointer motion, buttons and wheel. The
// cursor position is in layout pixels; scale divides it back to points.
func (p *Platform) appendPointerEvents(events []guigl.Event, mods guigl.Modifiers, scale float32) []guigl.Event {
	x, y := ebiten.CursorPosition()
	pos := guigl.Pos2{X: float32(x) / scale, Y: float32(y) / scale}
	inside := pos.X >= 0 && pos.Y >= 0 && pos.X < p.screen.X && pos.Y < p.screen.Y

	switch {
	case inside && (!p.hasPtr || pos != p.pointer):
		events = append(events, guigl.Event{Kind: guigl.EventPointerMoved, Pos: pos, Modifiers: mods})
	case !inside && p.hasPtr:
		events = append(events, guigl.Event{Kind: guigl.EventPointerGone})
	}
	p.pointer, p.hasPtr = pos, inside

	for ebButton, button := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(ebButton) {
			events = append(events, guigl.Event{Kind: guigl.EventPointerButton, Pos: pos, Button: button, Pressed: true, Modifiers: mods})
		}
		if inpututil.IsMouseButtonJustReleased(ebButton) {
			events = append(events, guigl.Event{Kind: guigl.EventPointerButton, Pos: pos, Button: button, Modifiers: mods})
		}
	}

	if dx, dy := ebiten.Wheel(); dx != 0 || dy != 0 {
		events = append(events, guigl.Event{
			Kind:      guigl.EventScroll,
			Delta:     guigl.Pos2{X: float32(dx) * scrollPoints, Y: float32(dy) * scrollPoints},
			Modifiers: mods,
		})
	}
	return events
}

func (p *Platform) appendKeyEvents(events []guigl.Event, mods guigl.Modifiers) []guigl.Event {
	p.keys = inpututil.AppendJustPressedKeys(p.keys[:0])
	for _, k := range p.keys {
		if mods.Ctrl || mods.Super {
			switch k {
			case ebiten.KeyC:
				events = append(events, guigl.Event{Kind: guigl.EventCopy, Modifiers: mods})
			case ebiten.KeyX:
				events = append(events, guigl.Event{Kind: guigl.EventCut, Modifiers: mods})
			case ebiten.KeyV:
				events = append(events, guigl.Event{Kind: guigl.EventPaste, Text: p.clipboardText(), Modifiers: mods})
			}
		}
		if gk := convertKey(k); gk != guigl.KeyNone {
			events = append(events, guigl.Event{Kind: guigl.EventKey, Key: gk, Pressed: true, Modifiers: mods})
		}
	}

	p.keys = inpututil.AppendJustReleasedKeys(p.keys[:0])
	for _, k := range p.keys {
		if gk := convertKey(k); gk != guigl.KeyNone {
			events = append(events, guigl.Event{Kind: guigl.EventKey, Key: gk, Modifiers: mods})
		}
	}
	return events
}

func (p *Platform) clipboardText() string {
	if p.clipboard == nil {
		return ""
	}
	return p.clipboard.GetText()
}

// HandlePlatformOutput implements guigl.Platform.
func (p *Platform) HandlePlatformOutput(out guigl.PlatformOutput) {
	if out.CopiedText != "" && p.clipboard != nil {
		p.clipboard.SetText(out.CopiedText)
	}
	if out.Cursor != p.cursor {
		p.cursor = out.Cursor
		if out.Cursor == guigl.CursorNone {
			ebiten.SetCursorMode(ebiten.CursorModeHidden)
		} else {
			ebiten.SetCursorMode(ebiten.CursorModeVisible)
			ebiten.SetCursorShape(cursorShape(out.Cursor))
		}
	}
	if out.OpenURL != "" {
		if p.OnOpenURL != nil {
			p.OnOpenURL(out.OpenURL)
		} else {
			p.log.Info("open url requested", "url", out.OpenURL)
		}
	}
}

// scrollPoints is how far one wheel notch moves, in points.
const scrollPoints = 50

func modifiers() guigl.Modifiers {
	return guigl.Modifiers{
		Ctrl:  ebiten.IsKeyPressed(ebiten.KeyControl),
		Shift: ebiten.IsKeyPressed(ebiten.KeyShift),
		Alt:   ebiten.IsKeyPressed(ebiten.KeyAlt),
		Super: ebiten.IsKeyPressed(ebiten.KeyMeta),
	}
}

var mouseButtons = map[ebiten.MouseButton]guigl.MouseButton{
	ebiten.MouseButtonLeft:   guigl.MouseButtonLeft,
	ebiten.MouseButtonRight:  guigl.MouseButtonRight,
	ebiten.MouseButtonMiddle: guigl.MouseButtonMiddle,
}

var keyMap = map[ebiten.Key]guigl.Key{
	ebiten.KeyTab:         guigl.KeyTab,
	ebiten.KeyArrowLeft:   guigl.KeyLeft,
	ebiten.KeyArrowRight:  guigl.KeyRight,
	ebiten.KeyArrowUp:     guigl.KeyUp,
	ebiten.KeyArrowDown:   guigl.KeyDown,
	ebiten.KeyPageUp:      guigl.KeyPageUp,
	ebiten.KeyPageDown:    guigl.KeyPageDown,
	ebiten.KeyHome:        guigl.KeyHome,
	ebiten.KeyEnd:         guigl.KeyEnd,
	ebiten.KeyInsert:      guigl.KeyInsert,
	ebiten.KeyDelete:      guigl.KeyDelete,
	ebiten.KeyBackspace:   guigl.KeyBackspace,
	ebiten.KeySpace:       guigl.KeySpace,
	ebiten.KeyEnter:       guigl.KeyEnter,
	ebiten.KeyNumpadEnter: guigl.KeyEnter,
	ebiten.KeyEscape:      guigl.KeyEscape,
	ebiten.KeyA:           guigl.KeyA,
	ebiten.KeyC:           guigl.KeyC,
	ebiten.KeyV:           guigl.KeyV,
	ebiten.KeyX:           guigl.KeyX,
	ebiten.KeyY:           guigl.KeyY,
	ebiten.KeyZ:           guigl.KeyZ,
	ebiten.KeyF1:          guigl.KeyF1,
	ebiten.KeyF2:          guigl.KeyF2,
	ebiten.KeyF3:          guigl.KeyF3,
	ebiten.KeyF4:          guigl.KeyF4,
	ebiten.KeyF5:          guigl.KeyF5,
	ebiten.KeyF6:          guigl.KeyF6,
	ebiten.KeyF7:          guigl.KeyF7,
	ebiten.KeyF8:          guigl.KeyF8,
	ebiten.KeyF9:          guigl.KeyF9,
	ebiten.KeyF10:         guigl.KeyF10,
	ebiten.KeyF11:         guigl.KeyF11,
	ebiten.KeyF12:         guigl.KeyF12,
}

func convertKey(k ebiten.Key) guigl.Key {
	return keyMap[k]
}

func cursorShape(icon guigl.CursorIcon) ebiten.CursorShapeType {
	switch icon {
	case guigl.CursorPointingHand:
		return ebiten.CursorShapePointer
	case guigl.CursorText:
		return ebiten.CursorShapeText
	case guigl.CursorCrosshair:
		return ebiten.CursorShapeCrosshair
	case guigl.CursorResizeHorizontal:
		return ebiten.CursorShapeEWResize
	case guigl.CursorResizeVertical:
		return ebiten.CursorShapeNSResize
	default:
		return ebiten.CursorShapeDefault
	}
}
