// Example runs the demo UI inside an Ebitengine game. The checkerboard is
// a game-owned image drawn through a native id, its tint pulses with a
// tween.
//
//	go run ./example/ebiten/ -verbose
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/go-theft-auto/guigl"
	ebitenbackend "github.com/go-theft-auto/guigl/backend/ebiten"
	"github.com/go-theft-auto/guigl/internal/demoui"
)

const (
	windowWidth  = 800
	windowHeight = 600
	pulseSeconds = 1.5
)

var errQuit = errors.New("quit")

type game struct {
	glue     *guigl.Glue[*demoui.Context]
	platform *ebitenbackend.Platform
	target   *ebitenbackend.Target
	board    guigl.TextureID

	pulse   *gween.Tween
	rising  bool
	tint    float32
	clicks  int
	quit    bool
	lastErr error
}

func newGame() (*game, error) {
	painter, err := guigl.NewPainter(ebitenbackend.NewDevice())
	if err != nil {
		return nil, err
	}
	platform := ebitenbackend.NewPlatform()

	img := ebiten.NewImageFromImage(demoui.Checkerboard(128, 8,
		color.NRGBA{R: 240, G: 240, B: 240, A: 255},
		color.NRGBA{R: 200, G: 60, B: 90, A: 255}))

	g := &game{
		glue:     guigl.NewGlue[*demoui.Context](demoui.New(), platform, painter),
		platform: platform,
		target:   ebitenbackend.NewTarget(),
		board:    painter.RegisterNativeTexture(ebitenbackend.WrapImage(img), guigl.TextureNearest),
	}
	g.restartPulse()
	return g, nil
}

func (g *game) restartPulse() {
	g.rising = !g.rising
	from, to := float32(1), float32(0.3)
	if g.rising {
		from, to = to, from
	}
	g.pulse = gween.New(from, to, pulseSeconds, ease.InOutSine)
}

func (g *game) Update() error {
	if g.lastErr != nil {
		return g.lastErr
	}
	if g.quit {
		return errQuit
	}

	var done bool
	g.tint, done = g.pulse.Update(1 / float32(ebiten.TPS()))
	if done {
		g.restartPulse()
	}

	g.glue.Run(func(ctx *demoui.Context) {
		ctx.Window("Ebitengine", guigl.RectFromSize(20, 20, 300, 280), func() {
			ctx.Label(fmt.Sprintf("TPS %.0f", ebiten.ActualTPS()))
			if ctx.Button(fmt.Sprintf("Clicked %d", g.clicks)) {
				g.clicks++
			}
			c := uint8(g.tint * 255)
			ctx.ImageTinted(g.board, guigl.Pos2{X: 128, Y: 128}, guigl.RGBA(c, c, c, c))
			if ctx.Button("Quit") {
				g.quit = true
			}
		})
	})
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 30, G: 30, B: 36, A: 255})
	if _, err := g.glue.Paint(g.target.Reset(screen)); err != nil {
		g.lastErr = err
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.platform.SetScreenSize(outsideWidth, outsideHeight)
	scale := float64(g.platform.PixelsPerPoint())
	return int(float64(outsideWidth) * scale), int(float64(outsideHeight) * scale)
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
	g, err := newGame()
	if err != nil {
		return err
	}
	defer g.glue.Destroy()

	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("guigl ebiten example")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return nil
}
