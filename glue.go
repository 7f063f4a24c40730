package guigl

import "time"

// UI is the immediate-mode GUI library driven by a Glue. C is the library's
// per-frame context type handed to the build callback.
type UI[C any] interface {
	// Run executes one frame: build is called synchronously, exactly once,
	// and records the frame's widgets into the context.
	Run(input RawInput, build func(C)) FullOutput
	// Tessellate converts shapes into clipped triangle meshes.
	Tessellate(shapes []ClippedShape, pixelsPerPoint float32) []ClippedPrimitive
}

// InputWanter is implemented by UI libraries that can report whether they
// want to capture input, for example while the pointer is over a window.
type InputWanter interface {
	WantsPointerInput() bool
	WantsKeyboardInput() bool
}

// Glue sequences one UI library, one platform and one Painter.
//
// Typical frame:
//
//	repaintAfter := glue.Run(func(ctx *demoui.Context) { ... })
//	stats, err := glue.Paint(target)
//
// Glue is not safe for concurrent use.
type Glue[C any] struct {
	ui       UI[C]
	platform Platform
	painter  *Painter
	input    *InputCollector

	shapes         []ClippedShape
	textures       TexturesDelta
	pixelsPerPoint float32
}

// NewGlue creates a Glue. The painter is owned by the Glue from now on.
func NewGlue[C any](ui UI[C], platform Platform, painter *Painter) *Glue[C] {
	return &Glue[C]{
		ui:             ui,
		platform:       platform,
		painter:        painter,
		input:          NewInputCollector(),
		pixelsPerPoint: 1,
	}
}

// Painter returns the rendering bridge, for registering native textures.
func (g *Glue[C]) Painter() *Painter {
	return g.painter
}

// PixelsPerPoint returns the scale used by the last run.
func (g *Glue[C]) PixelsPerPoint() float32 {
	return g.pixelsPerPoint
}

// OnEvent queues an event for the next Run. Use it when the host
// translates window events itself instead of relying on the platform
// adapter's callbacks.
func (g *Glue[C]) OnEvent(ev Event) EventResponse {
	g.input.Push(ev)

	resp := EventResponse{Repaint: true}
	if w, ok := g.ui.(InputWanter); ok {
		switch ev.Kind {
		case EventPointerMoved, EventPointerButton, EventScroll:
			resp.Consumed = w.WantsPointerInput()
		case EventKey, EventText, EventCopy, EventCut, EventPaste:
			resp.Consumed = w.WantsKeyboardInput()
		}
	}
	return resp
}

// Run gathers input, runs the UI and applies its platform output. The
// frame's shapes and texture changes are kept for the next Paint; texture
// changes of runs that were never painted accumulate so none are lost.
// It returns how long the host may wait before running again.
func (g *Glue[C]) Run(build func(C)) time.Duration {
	raw := g.platform.TakeInput()
	if g.input.Pending() > 0 {
		modsSet, focusSet := g.input.Updated()
		queued := g.input.Take()
		raw.Events = append(raw.Events, queued.Events...)
		if modsSet {
			raw.Modifiers = queued.Modifiers
		}
		if focusSet {
			raw.Focused = queued.Focused
		}
	}
	if raw.PixelsPerPoint <= 0 {
		raw.PixelsPerPoint = g.pixelsPerPoint
	}
	raw.MaxTextureSide = g.painter.MaxTextureSide()

	out := g.ui.Run(raw, build)
	g.platform.HandlePlatformOutput(out.Platform)

	g.shapes = out.Shapes
	g.textures.Append(out.Textures)
	if out.PixelsPerPoint > 0 {
		g.pixelsPerPoint = out.PixelsPerPoint
	} else {
		g.pixelsPerPoint = raw.PixelsPerPoint
	}
	return out.RepaintAfter
}

// Paint tessellates the shapes of the last Run and draws them onto target,
// applying the pending texture changes around the draw.
func (g *Glue[C]) Paint(target Target) (PaintStats, error) {
	shapes := g.shapes
	g.shapes = nil
	textures := g.textures.Take()

	prims := g.ui.Tessellate(shapes, g.pixelsPerPoint)
	return g.painter.PaintAndUpdateTextures(target, g.pixelsPerPoint, prims, &textures)
}

// Destroy releases the painter's textures.
func (g *Glue[C]) Destroy() {
	g.painter.Destroy()
}
