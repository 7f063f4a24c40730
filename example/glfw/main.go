// Example draws a demo window with a host-owned OpenGL texture and a
// user image uploaded through the Painter.
//
//	go run ./example/glfw/ -verbose
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/guigl"
	"github.com/go-theft-auto/guigl/backend/opengl"
	"github.com/go-theft-auto/guigl/internal/demoui"
)

const (
	windowWidth  = 800
	windowHeight = 600
	windowTitle  = "guigl example"
)

// userImage is a managed id outside the range demoui allocates.
var userImage = guigl.ManagedID(1000)

func init() {
	// GLFW must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	verbose := flag.Bool("verbose", false, "log texture bookkeeping")
	flag.Parse()
	guigl.SetVerbose(*verbose)

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1) // vsync

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	dev, err := opengl.NewDevice()
	if err != nil {
		return fmt.Errorf("opengl device: %w", err)
	}
	defer dev.Delete()

	painter, err := guigl.NewPainter(dev)
	if err != nil {
		return fmt.Errorf("painter: %w", err)
	}

	platform := opengl.NewGLFWPlatform(window)
	defer platform.Destroy()

	glue := guigl.NewGlue[*demoui.Context](demoui.New(), platform, painter)
	defer glue.Destroy()

	// Host-owned texture, drawn through a native id.
	board := demoui.Checkerboard(128, 8,
		color.NRGBA{R: 230, G: 230, B: 230, A: 255},
		color.NRGBA{R: 40, G: 120, B: 200, A: 255})
	hostTex := uploadHostTexture(board)
	defer gl.DeleteTextures(1, &hostTex)
	nativeID := painter.RegisterNativeTexture(opengl.WrapTexture(hostTex, 128, 128), guigl.TextureNearest)

	// Straight-alpha gradient uploaded through the managed path.
	gradient := demoui.Gradient(256, 32,
		color.NRGBA{R: 255, G: 80, B: 0, A: 255},
		color.NRGBA{R: 255, G: 80, B: 0, A: 0})
	delta := guigl.FullImage(demoui.ColorImage(gradient), guigl.TextureLinear)
	delta.Alpha = guigl.AlphaStraight
	if err := painter.SetTexture(userImage, delta); err != nil {
		return fmt.Errorf("upload gradient: %w", err)
	}

	clicks := 0
	showNative := true

	for !window.ShouldClose() {
		glfw.PollEvents()

		w, h := window.GetFramebufferSize()
		gl.Viewport(0, 0, int32(w), int32(h))
		gl.ClearColor(0.12, 0.12, 0.14, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT)

		glue.Run(func(ctx *demoui.Context) {
			ctx.Window("Example Window", guigl.RectFromSize(20, 20, 320, 340), func() {
				ctx.Label("Hello from guigl!")
				if ctx.Button(fmt.Sprintf("Click me (%d)", clicks)) {
					clicks++
				}
				if ctx.Button("Toggle texture") {
					showNative = !showNative
				}
				if showNative {
					ctx.Image(nativeID, guigl.Pos2{X: 128, Y: 128})
				}
				ctx.Image(userImage, guigl.Pos2{X: 256, Y: 32})
			})
		})

		frame := dev.Frame(w, h)
		stats, err := glue.Paint(frame)
		frame.End()
		if err != nil {
			return fmt.Errorf("paint: %w", err)
		}
		if stats.Missing > 0 {
			guigl.Logger().Warn("primitives skipped", "count", stats.Missing)
		}

		window.SwapBuffers()
	}

	return painter.FreeNativeTexture(nativeID)
}

// uploadHostTexture creates a GL texture the way an application would for
// its own content. The checkerboard is opaque, so straight and
// premultiplied alpha coincide.
func uploadHostTexture(img *image.NRGBA) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	b := img.Bounds()
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(b.Dx()), int32(b.Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}
