package guigl

import "time"

// CursorIcon is the mouse cursor shape requested by the UI.
type CursorIcon int

const (
	CursorDefault CursorIcon = iota
	CursorPointingHand
	CursorText
	CursorCrosshair
	CursorResizeHorizontal
	CursorResizeVertical
	CursorNone
)

// PlatformOutput collects the side effects a frame asks of the windowing
// layer.
type PlatformOutput struct {
	// CopiedText is placed on the clipboard when non-empty.
	CopiedText string
	Cursor     CursorIcon
	// OpenURL is a link the user activated, empty if none.
	OpenURL string
}

// FullOutput is what the UI library returns from one run.
type FullOutput struct {
	Platform       PlatformOutput
	Textures       TexturesDelta
	Shapes         []ClippedShape
	PixelsPerPoint float32
	// RepaintAfter is how long the host may wait before the next frame.
	// Zero asks for an immediate repaint.
	RepaintAfter time.Duration
}

// ClipboardProvider abstracts system clipboard access.
// Implement this interface with platform-specific clipboard APIs.
//
// For GLFW:
//
//	type GLFWClipboard struct {
//	    window *glfw.Window
//	}
//
//	func (c *GLFWClipboard) GetText() string {
//	    return c.window.GetClipboardString()
//	}
//
//	func (c *GLFWClipboard) SetText(text string) {
//	    c.window.SetClipboardString(text)
//	}
type ClipboardProvider interface {
	// GetText retrieves text from the system clipboard.
	// Returns empty string if clipboard is empty or contains non-text data.
	GetText() string

	// SetText copies text to the system clipboard.
	SetText(text string)
}

// Platform is the windowing side of a Glue: it produces the input of each
// frame and applies the frame's platform output.
type Platform interface {
	// TakeInput returns the input accumulated since the previous call.
	TakeInput() RawInput
	// HandlePlatformOutput applies clipboard, cursor and link requests.
	HandlePlatformOutput(out PlatformOutput)
}

// EventResponse tells the host how a forwarded event was handled.
type EventResponse struct {
	// Consumed is true if the UI wants the event for itself.
	Consumed bool
	// Repaint is true if a new frame should be run.
	Repaint bool
}
