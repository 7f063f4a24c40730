/*
Package guigl draws the output of an immediate-mode GUI library into a window
owned by a separate graphics/windowing stack.

# Overview

Each frame the UI library produces clipped shapes and a diff of its texture
cache. This package turns that description into draw calls:

  - Painter is the rendering bridge. It owns GPU textures keyed by
    TextureID, applies TexturesDelta updates, and draws ClippedPrimitive
    batches in order with one scissored draw call each.
  - Glue is the frame orchestrator. It feeds raw input to the UI library,
    runs the per-frame build callback, applies platform output and hands the
    tessellated result to the Painter.

Graphics backends implement Device, Target and Texture:
backend/opengl (OpenGL 4.1 core through go-gl, with a GLFW platform adapter)
and backend/ebiten.

# Quick Start

	// Setup
	dev, _ := opengl.NewDevice()
	painter, _ := guigl.NewPainter(dev)
	platform := opengl.NewGLFWPlatform(window)
	glue := guigl.NewGlue[*demoui.Context](demoui.New(), platform, painter)

	// Frame loop
	for !window.ShouldClose() {
	    glfw.PollEvents()

	    glue.Run(func(ctx *demoui.Context) {
	        ctx.Label("Hello World")
	    })

	    frame := dev.Frame(window.GetFramebufferSize())
	    _, err := glue.Paint(frame)
	    frame.End()
	    if err != nil {
	        return err
	    }
	    window.SwapBuffers()
	}

# Native Textures

Host-owned textures are drawn through the same id space:

	id := painter.RegisterNativeTexture(tex, guigl.TextureLinear)
	defer painter.FreeNativeTexture(id)

The Painter never uploads to or releases a native texture. The caller must
keep it alive for as long as primitives may reference id.

# Alpha

Pixels are premultiplied by contract. Deltas may declare AlphaStraight to
have the Painter premultiply them on upload; WithDefaultAlpha changes the
contract for deltas that declare nothing. Every backend blends with
out = src + dst·(1−src.a).

# Errors

Texture allocation and upload failures are returned and wrap
ErrTextureAllocation. Primitives whose texture cannot be resolved are
skipped with a warning and a Diagnostic; the rest of the frame is drawn.
Patching an unknown id or freeing a native id through the managed path
returns ErrUnknownTexture or ErrWrongNamespace.

# Concurrency

Painter and Glue are single-threaded. Call them from the goroutine that owns
the graphics context.
*/
package guigl
