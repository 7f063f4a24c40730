package guigl

// MouseButton represents a mouse button.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
	MouseButtonCount
)

// Key represents a keyboard key.
type Key int

const (
	KeyNone Key = iota
	KeyTab
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyInsert
	KeyDelete
	KeyBackspace
	KeySpace
	KeyEnter
	KeyEscape
	KeyA
	KeyC
	KeyV
	KeyX
	KeyY
	KeyZ
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyCount
)

// Modifiers is the state of the modifier keys.
type Modifiers struct {
	Ctrl  bool
	Shift bool
	Alt   bool
	Super bool
}

// EventKind discriminates Event.
type EventKind int

const (
	EventPointerMoved EventKind = iota
	EventPointerButton
	EventPointerGone
	EventScroll
	EventKey
	EventText
	EventCopy
	EventCut
	EventPaste
	EventWindowFocused
)

// Event is one raw input event forwarded from the windowing layer.
// Only the fields relevant to Kind are set.
type Event struct {
	Kind      EventKind
	Pos       Pos2        // PointerMoved, PointerButton (points)
	Button    MouseButton // PointerButton
	Pressed   bool        // PointerButton, Key, WindowFocused
	Delta     Pos2        // Scroll (points)
	Key       Key         // Key
	Repeat    bool        // Key
	Text      string      // Text, Paste
	Modifiers Modifiers
}

// RawInput is everything the UI library needs to run one frame.
type RawInput struct {
	// ScreenRect is the drawable area in points.
	ScreenRect     Rect
	PixelsPerPoint float32
	MaxTextureSide int
	// Time is seconds since the platform adapter started.
	Time      float64
	Modifiers Modifiers
	Focused   bool
	Events    []Event
}

// InputCollector accumulates raw events between frames. Platform adapters
// push events from their callbacks; Take hands them to the next frame.
type InputCollector struct {
	events    []Event
	modifiers Modifiers
	focused   bool

	// set when an event since the last Take carried the state
	modifiersSet bool
	focusSet     bool
}

// NewInputCollector creates a collector for a focused window.
func NewInputCollector() *InputCollector {
	return &InputCollector{
		events:  make([]Event, 0, 16),
		focused: true,
	}
}

// Push records ev. Key and button events also refresh the modifier state,
// window focus events the focus state.
func (c *InputCollector) Push(ev Event) {
	switch ev.Kind {
	case EventKey, EventPointerButton:
		c.modifiers, c.modifiersSet = ev.Modifiers, true
	case EventWindowFocused:
		c.focused, c.focusSet = ev.Pressed, true
	}
	c.events = append(c.events, ev)
}

// SetModifiers overrides the tracked modifier state.
func (c *InputCollector) SetModifiers(m Modifiers) {
	c.modifiers, c.modifiersSet = m, true
}

// Pending returns the number of events not yet taken.
func (c *InputCollector) Pending() int {
	return len(c.events)
}

// Updated reports whether anything pushed since the last Take set the
// modifier or focus state.
func (c *InputCollector) Updated() (modifiers, focus bool) {
	return c.modifiersSet, c.focusSet
}

// Take moves the accumulated events into a RawInput and starts a new
// collection. The caller fills in the screen geometry and time.
func (c *InputCollector) Take() RawInput {
	events := c.events
	c.events = make([]Event, 0, cap(events))
	c.modifiersSet, c.focusSet = false, false
	return RawInput{
		Modifiers: c.modifiers,
		Focused:   c.focused,
		Events:    events,
	}
}

// KeyName returns a human-readable name for a key.
func KeyName(k Key) string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "?"
}

var keyNames = map[Key]string{
	KeyNone:      "--",
	KeyTab:       "Tab",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyPageUp:    "PgUp",
	KeyPageDown:  "PgDn",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyInsert:    "Ins",
	KeyDelete:    "Del",
	KeyBackspace: "Backspace",
	KeySpace:     "Space",
	KeyEnter:     "Enter",
	KeyEscape:    "Esc",
	KeyA:         "A",
	KeyC:         "C",
	KeyV:         "V",
	KeyX:         "X",
	KeyY:         "Y",
	KeyZ:         "Z",
	KeyF1:        "F1",
	KeyF2:        "F2",
	KeyF3:        "F3",
	KeyF4:        "F4",
	KeyF5:        "F5",
	KeyF6:        "F6",
	KeyF7:        "F7",
	KeyF8:        "F8",
	KeyF9:        "F9",
	KeyF10:       "F10",
	KeyF11:       "F11",
	KeyF12:       "F12",
}
