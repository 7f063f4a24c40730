// Command gen renders demo scenes through the OpenGL backend, reads back
// the framebuffer and saves JPEG screenshots to doc/imgs/.
//
// Usage:
//
//	devbox shell
//	go run ./doc/gen/
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/guigl"
	"github.com/go-theft-auto/guigl/backend/opengl"
	"github.com/go-theft-auto/guigl/internal/demoui"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// screenshot defines a single scene to capture.
type screenshot struct {
	name           string  // filename without extension
	width          int     // framebuffer width in pixels
	height         int     // framebuffer height in pixels
	pixelsPerPoint float32 // 0 means 1
	draw           func(ctx *demoui.Context, native guigl.TextureID)
}

// fixedPlatform replays the same input every frame.
type fixedPlatform struct {
	input guigl.RawInput
}

func (p *fixedPlatform) TakeInput() guigl.RawInput { return p.input }
func (p *fixedPlatform) HandlePlatformOutput(guigl.PlatformOutput) {}

func run() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.False)

	// The hidden window stays larger than every screenshot; resizing it
	// is asynchronous and would desynchronize framebuffer and scissor.
	window, err := glfw.CreateWindow(800, 600, "screenshot-gen", nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	dev, err := opengl.NewDevice()
	if err != nil {
		return fmt.Errorf("opengl device: %w", err)
	}
	defer dev.Delete()

	outDir := filepath.Join("doc", "imgs")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	shots := buildScreenshots()
	for _, s := range shots {
		if err := capture(dev, s, outDir); err != nil {
			return fmt.Errorf("capture %s: %w", s.name, err)
		}
		fmt.Printf("  %s.jpg (%dx%d)\n", s.name, s.width, s.height)
	}

	fmt.Printf("\nGenerated %d screenshots in %s/\n", len(shots), outDir)
	return nil
}

func capture(dev *opengl.Device, s screenshot, outDir string) error {
	ppp := s.pixelsPerPoint
	if ppp <= 0 {
		ppp = 1
	}

	// Fresh painter and UI per screenshot to avoid state leaking between
	// captures.
	painter, err := guigl.NewPainter(dev)
	if err != nil {
		return err
	}
	platform := &fixedPlatform{input: guigl.RawInput{
		ScreenRect:     guigl.RectFromSize(0, 0, float32(s.width)/ppp, float32(s.height)/ppp),
		PixelsPerPoint: ppp,
	}}
	glue := guigl.NewGlue[*demoui.Context](demoui.New(), platform, painter)
	defer glue.Destroy()

	board := demoui.Checkerboard(64, 8,
		color.NRGBA{R: 230, G: 230, B: 230, A: 255},
		color.NRGBA{R: 40, G: 120, B: 200, A: 255})
	boardTex, err := dev.CreateTexture(64, 64, guigl.TextureNearest)
	if err != nil {
		return err
	}
	defer boardTex.Release()
	if err := boardTex.Upload(0, 0, demoui.ColorImage(board)); err != nil {
		return err
	}
	native := painter.RegisterNativeTexture(boardTex, guigl.TextureNearest)

	gl.Viewport(0, 0, int32(s.width), int32(s.height))
	gl.ClearColor(0.12, 0.12, 0.14, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	glue.Run(func(ctx *demoui.Context) { s.draw(ctx, native) })
	frame := dev.Frame(s.width, s.height)
	_, err = glue.Paint(frame)
	frame.End()
	if err != nil {
		return err
	}

	pixels := make([]byte, s.width*s.height*4)
	gl.ReadPixels(0, 0, int32(s.width), int32(s.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))

	// Flip vertically (OpenGL origin is bottom-left)
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	rowLen := s.width * 4
	for y := range s.height {
		src := (s.height - 1 - y) * rowLen
		copy(img.Pix[y*rowLen:(y+1)*rowLen], pixels[src:src+rowLen])
	}

	path := filepath.Join(outDir, s.name+".jpg")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
}

func buildScreenshots() []screenshot {
	return []screenshot{
		{
			name: "window", width: 320, height: 200,
			draw: func(ctx *demoui.Context, _ guigl.TextureID) {
				ctx.Window("Window", guigl.RectFromSize(10, 10, 300, 180), func() {
					ctx.Label("Hello from guigl!")
					ctx.Button("Button")
				})
			},
		},
		{
			name: "native-texture", width: 240, height: 200,
			draw: func(ctx *demoui.Context, native guigl.TextureID) {
				ctx.Window("Native", guigl.RectFromSize(10, 10, 220, 180), func() {
					ctx.ImageButton(native, guigl.Pos2{X: 64, Y: 64}, "Board")
				})
			},
		},
		{
			name: "clipped", width: 240, height: 120,
			draw: func(ctx *demoui.Context, native guigl.TextureID) {
				ctx.Window("Clipped", guigl.RectFromSize(10, 10, 120, 100), func() {
					ctx.Label("This line is longer than the window")
					ctx.Image(native, guigl.Pos2{X: 200, Y: 64})
				})
			},
		},
		{
			name: "hidpi", width: 640, height: 400, pixelsPerPoint: 2,
			draw: func(ctx *demoui.Context, native guigl.TextureID) {
				ctx.Window("Scale 2", guigl.RectFromSize(10, 10, 300, 180), func() {
					ctx.Label("Two pixels per point")
					ctx.Image(native, guigl.Pos2{X: 64, Y: 64})
				})
			},
		},
	}
}
