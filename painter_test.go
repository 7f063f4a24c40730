package guigl_test

import (
	"bytes"
	"errors"
	"image"
	"log/slog"
	"math/rand"
	"strings"
	"testing"

	"github.com/go-theft-auto/guigl"
	"github.com/go-theft-auto/guigl/internal/fakegpu"
)

var (
	red  = guigl.RGBA(255, 0, 0, 255)
	blue = guigl.RGBA(0, 0, 255, 255)
)

// newPainter returns a painter over a fake device with its log captured.
func newPainter(t *testing.T, opts ...guigl.PainterOption) (*guigl.Painter, *fakegpu.Device, *bytes.Buffer) {
	t.Helper()
	dev := fakegpu.NewDevice(2048)
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p, err := guigl.NewPainter(dev, append([]guigl.PainterOption{guigl.WithLogger(logger)}, opts...)...)
	if err != nil {
		t.Fatalf("NewPainter: %v", err)
	}
	return p, dev, &logs
}

// quad returns a one-quad mesh covering r whose color tags it for order checks.
func quad(id guigl.TextureID, r guigl.Rect, tag uint8) *guigl.Mesh {
	m := &guigl.Mesh{TextureID: id}
	m.AddRectWithUV(r, guigl.Rect{Max: guigl.Pos2{X: 1, Y: 1}}, guigl.RGBA(tag, tag, tag, 255))
	return m
}

func fullImage(w, h int, c guigl.Color32) guigl.ImageDelta {
	return guigl.FullImage(guigl.NewColorImage(w, h, c), guigl.TextureNearest)
}

func TestNewPainter(t *testing.T) {
	tests := []struct {
		name    string
		side    int
		opts    []guigl.PainterOption
		want    int
		wantErr error
	}{
		{name: "device limit", side: 4096, want: 4096},
		{name: "capped", side: 4096, opts: []guigl.PainterOption{guigl.WithMaxTextureSide(1024)}, want: 1024},
		{name: "cap above limit ignored", side: 2048, opts: []guigl.PainterOption{guigl.WithMaxTextureSide(8192)}, want: 2048},
		{name: "no limit", side: 0, wantErr: guigl.ErrDeviceLost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := guigl.NewPainter(fakegpu.NewDevice(tt.side), tt.opts...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewPainter: %v", err)
			}
			if got := p.MaxTextureSide(); got != tt.want {
				t.Errorf("MaxTextureSide() = %d, want %d", got, tt.want)
			}
		})
	}

	if _, err := guigl.NewPainter(nil); !errors.Is(err, guigl.ErrNoDevice) {
		t.Errorf("nil device: expected ErrNoDevice, got %v", err)
	}
}

func TestNativeTextureFullWindow(t *testing.T) {
	p, dev, _ := newPainter(t)
	target := fakegpu.NewTarget(800, 600)

	native := fakegpu.NewTexture(256, 256)
	id := p.RegisterNativeTexture(native, guigl.TextureLinear)
	if id.Kind != guigl.Native {
		t.Fatalf("expected native id, got %s", id)
	}

	full := guigl.RectFromSize(0, 0, 800, 600)
	stats, err := p.PaintPrimitives(target, 1, []guigl.ClippedPrimitive{{ClipRect: full, Mesh: quad(id, full, 1)}})
	if err != nil {
		t.Fatalf("PaintPrimitives: %v", err)
	}

	if stats.DrawCalls != 1 || len(target.Draws) != 1 {
		t.Fatalf("expected exactly 1 draw call, got %d (stats %+v)", len(target.Draws), stats)
	}
	if got, want := target.Draws[0].Scissor, image.Rect(0, 0, 800, 600); got != want {
		t.Errorf("scissor = %v, want %v", got, want)
	}
	if target.Draws[0].Texture != native {
		t.Error("draw did not bind the native texture")
	}
	if dev.Created != 0 || dev.Uploads != 0 || len(native.Uploads) != 0 {
		t.Errorf("expected no texture allocation or upload, got created=%d uploads=%d native uploads=%d",
			dev.Created, dev.Uploads, len(native.Uploads))
	}
}

func TestPartialUpdateKeepsOtherPixels(t *testing.T) {
	p, _, _ := newPainter(t)
	id := guigl.ManagedID(7)

	if err := p.ApplyTextureDelta(&guigl.TexturesDelta{Set: []guigl.TextureSet{{ID: id, Delta: fullImage(4, 4, red)}}}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	patch := guigl.PartialImage(0, 0, guigl.NewColorImage(2, 2, blue), guigl.TextureNearest)
	if err := p.ApplyTextureDelta(&guigl.TexturesDelta{Set: []guigl.TextureSet{{ID: id, Delta: patch}}}); err != nil {
		t.Fatalf("patch: %v", err)
	}

	target := fakegpu.NewTarget(100, 100)
	clip := guigl.RectFromSize(0, 0, 100, 100)
	stats, err := p.PaintPrimitives(target, 1, []guigl.ClippedPrimitive{{ClipRect: clip, Mesh: quad(id, clip, 1)}})
	if err != nil || stats.DrawCalls != 1 {
		t.Fatalf("paint: stats %+v, err %v", stats, err)
	}

	tex, ok := p.Texture(id)
	if !ok {
		t.Fatal("texture not resolvable")
	}
	img := tex.(*fakegpu.Texture).Image

	var updated, original int
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			got := img.At(x, y)
			inPatch := x < 2 && y < 2
			switch {
			case inPatch && got == blue:
				updated++
			case !inPatch && got == red:
				original++
			default:
				t.Errorf("pixel (%d,%d) = %v, patch=%v", x, y, got, inPatch)
			}
		}
	}
	if updated != 4 || original != 12 {
		t.Errorf("expected 4 updated and 12 original pixels, got %d and %d", updated, original)
	}
}

func TestDeletedTextureSkipsPrimitive(t *testing.T) {
	p, _, logs := newPainter(t)
	id := guigl.ManagedID(3)

	if err := p.ApplyTextureDelta(&guigl.TexturesDelta{Set: []guigl.TextureSet{{ID: id, Delta: fullImage(2, 2, red)}}}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := p.ApplyTextureDelta(&guigl.TexturesDelta{Free: []guigl.TextureID{id}}); err != nil {
		t.Fatalf("free: %v", err)
	}

	target := fakegpu.NewTarget(64, 64)
	clip := guigl.RectFromSize(0, 0, 64, 64)
	other := p.RegisterNativeTexture(fakegpu.NewTexture(1, 1), guigl.TextureLinear)
	prims := []guigl.ClippedPrimitive{
		{ClipRect: clip, Mesh: quad(id, clip, 1)},
		{ClipRect: clip, Mesh: quad(other, clip, 2)},
	}

	stats, err := p.PaintPrimitives(target, 1, prims)
	if err != nil {
		t.Fatalf("paint must not fail on a stale texture: %v", err)
	}
	if stats.Missing != 1 || stats.DrawCalls != 1 {
		t.Errorf("expected 1 missing and 1 drawn, got %+v", stats)
	}

	diags := p.Diagnostics()
	if len(diags) != 1 || diags[0].TextureID != id || diags[0].Primitive != 0 {
		t.Errorf("unexpected diagnostics %+v", diags)
	}
	if !strings.Contains(logs.String(), "skipping primitive") {
		t.Errorf("expected a warning in the log, got %q", logs.String())
	}

	p.ClearDiagnostics()
	if len(p.Diagnostics()) != 0 {
		t.Error("ClearDiagnostics left records")
	}
}

func TestZeroAreaClipDrawsNothing(t *testing.T) {
	tests := []struct {
		name string
		clip guigl.Rect
	}{
		{name: "zero width", clip: guigl.RectFromSize(10, 10, 0, 20)},
		{name: "zero height", clip: guigl.RectFromSize(10, 10, 20, 0)},
		{name: "inverted", clip: guigl.Rect{Min: guigl.Pos2{X: 30, Y: 30}, Max: guigl.Pos2{X: 10, Y: 10}}},
		{name: "left of surface", clip: guigl.RectFromSize(-50, 0, 40, 40)},
		{name: "below surface", clip: guigl.RectFromSize(0, 200, 40, 40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _, _ := newPainter(t)
			id := p.RegisterNativeTexture(fakegpu.NewTexture(1, 1), guigl.TextureLinear)
			target := fakegpu.NewTarget(100, 100)

			stats, err := p.PaintPrimitives(target, 1, []guigl.ClippedPrimitive{{ClipRect: tt.clip, Mesh: quad(id, tt.clip, 1)}})
			if err != nil {
				t.Fatalf("PaintPrimitives: %v", err)
			}
			if len(target.Draws) != 0 || stats.Clipped != 1 {
				t.Errorf("expected no draws and 1 clipped, got %d draws, stats %+v", len(target.Draws), stats)
			}
		})
	}
}

func TestDrawOrderMatchesInput(t *testing.T) {
	p, _, _ := newPainter(t)
	a := p.RegisterNativeTexture(fakegpu.NewTexture(1, 1), guigl.TextureLinear)
	b := p.RegisterNativeTexture(fakegpu.NewTexture(1, 1), guigl.TextureLinear)

	clips := []guigl.Rect{
		guigl.RectFromSize(0, 0, 50, 50),
		guigl.RectFromSize(25, 25, 50, 50),
		guigl.RectFromSize(0, 0, 100, 100),
		guigl.RectFromSize(10, 60, 30, 30),
		guigl.RectFromSize(0, 0, 50, 50),
		guigl.RectFromSize(70, 5, 20, 90),
	}

	rng := rand.New(rand.NewSource(1))
	for round := 0; round < 5; round++ {
		rng.Shuffle(len(clips), func(i, j int) { clips[i], clips[j] = clips[j], clips[i] })

		prims := make([]guigl.ClippedPrimitive, len(clips))
		for i, c := range clips {
			id := a
			if i%2 == 1 {
				id = b
			}
			prims[i] = guigl.ClippedPrimitive{ClipRect: c, Mesh: quad(id, c, uint8(i+1))}
		}

		target := fakegpu.NewTarget(100, 100)
		if _, err := p.PaintPrimitives(target, 1, prims); err != nil {
			t.Fatalf("PaintPrimitives: %v", err)
		}
		if len(target.Draws) != len(prims) {
			t.Fatalf("expected %d draws (no merging), got %d", len(prims), len(target.Draws))
		}
		for i, d := range target.Draws {
			if got := d.Vertices[0].Color[0]; got != uint8(i+1) {
				t.Errorf("round %d: draw %d came from primitive %d", round, i, got-1)
			}
			want := guigl.ClipToScissor(clips[i], 1, image.Pt(100, 100))
			if d.Scissor != want {
				t.Errorf("round %d: draw %d scissor %v, want %v", round, i, d.Scissor, want)
			}
		}
	}
}

func TestFreeTextureIsIdempotent(t *testing.T) {
	p, dev, _ := newPainter(t)
	id := guigl.ManagedID(1)

	delta := &guigl.TexturesDelta{
		Set:  []guigl.TextureSet{{ID: id, Delta: fullImage(2, 2, red)}},
		Free: []guigl.TextureID{id, id},
	}
	if err := p.ApplyTextureDelta(delta); err != nil {
		t.Fatalf("ApplyTextureDelta: %v", err)
	}
	if err := p.FreeTexture(id); err != nil {
		t.Fatalf("third free: %v", err)
	}
	if p.ManagedCount() != 0 || dev.Released != 1 {
		t.Errorf("expected texture released once, got managed=%d released=%d", p.ManagedCount(), dev.Released)
	}
}

func TestContractViolations(t *testing.T) {
	p, _, _ := newPainter(t, guigl.WithMaxTextureSide(64))
	native := p.RegisterNativeTexture(fakegpu.NewTexture(4, 4), guigl.TextureLinear)
	if err := p.SetTexture(guigl.ManagedID(0), fullImage(4, 4, red)); err != nil {
		t.Fatalf("setup: %v", err)
	}

	tests := []struct {
		name    string
		run     func() error
		wantErr error
	}{
		{
			name:    "free native through managed path",
			run:     func() error { return p.FreeTexture(native) },
			wantErr: guigl.ErrWrongNamespace,
		},
		{
			name:    "set native id",
			run:     func() error { return p.SetTexture(native, fullImage(1, 1, red)) },
			wantErr: guigl.ErrWrongNamespace,
		},
		{
			name:    "free managed through native path",
			run:     func() error { return p.FreeNativeTexture(guigl.ManagedID(0)) },
			wantErr: guigl.ErrWrongNamespace,
		},
		{
			name: "patch missing texture",
			run: func() error {
				return p.SetTexture(guigl.ManagedID(9), guigl.PartialImage(0, 0, guigl.NewColorImage(1, 1, red), guigl.TextureLinear))
			},
			wantErr: guigl.ErrUnknownTexture,
		},
		{
			name: "patch out of bounds",
			run: func() error {
				return p.SetTexture(guigl.ManagedID(0), guigl.PartialImage(3, 3, guigl.NewColorImage(2, 2, red), guigl.TextureLinear))
			},
			wantErr: guigl.ErrPatchOutOfBounds,
		},
		{
			name:    "too large",
			run:     func() error { return p.SetTexture(guigl.ManagedID(2), fullImage(65, 1, red)) },
			wantErr: guigl.ErrTextureTooLarge,
		},
		{
			name: "pixel count mismatch",
			run: func() error {
				img := &guigl.ColorImage{Size: [2]int{2, 2}, Pixels: make([]guigl.Color32, 3)}
				return p.SetTexture(guigl.ManagedID(2), guigl.FullImage(img, guigl.TextureLinear))
			},
			wantErr: guigl.ErrInvalidImage,
		},
		{
			name:    "nil image",
			run:     func() error { return p.SetTexture(guigl.ManagedID(2), guigl.ImageDelta{}) },
			wantErr: guigl.ErrInvalidImage,
		},
		{
			name: "typed nil color image",
			run: func() error {
				return p.SetTexture(guigl.ManagedID(2), guigl.FullImage((*guigl.ColorImage)(nil), guigl.TextureLinear))
			},
			wantErr: guigl.ErrInvalidImage,
		},
		{
			name: "typed nil font image",
			run: func() error {
				return p.SetTexture(guigl.ManagedID(2), guigl.FullImage((*guigl.FontImage)(nil), guigl.TextureLinear))
			},
			wantErr: guigl.ErrInvalidImage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			var texErr *guigl.TextureError
			if !errors.As(err, &texErr) {
				t.Errorf("expected a *TextureError, got %T", err)
			}
		})
	}

	if _, ok := p.Texture(guigl.ManagedID(0)); !ok {
		t.Error("failed operations must not drop the existing texture")
	}
}

func TestAllocationFailureIsReturned(t *testing.T) {
	p, dev, _ := newPainter(t)
	oom := errors.New("out of memory")
	dev.CreateErr = oom

	err := p.ApplyTextureDelta(&guigl.TexturesDelta{Set: []guigl.TextureSet{{ID: guigl.ManagedID(0), Delta: fullImage(8, 8, red)}}})
	if !errors.Is(err, guigl.ErrTextureAllocation) || !errors.Is(err, oom) {
		t.Fatalf("expected allocation error wrapping the device error, got %v", err)
	}
	if p.ManagedCount() != 0 {
		t.Errorf("failed allocation must not register a texture")
	}

	dev.CreateErr = nil
	dev.UploadErr = oom
	err = p.SetTexture(guigl.ManagedID(0), fullImage(8, 8, red))
	if !errors.Is(err, guigl.ErrTextureAllocation) {
		t.Fatalf("expected upload failure to wrap ErrTextureAllocation, got %v", err)
	}
	if dev.Live() != 0 {
		t.Errorf("texture whose first upload failed must be released, %d live", dev.Live())
	}

	// A failed resize keeps the previous texture usable.
	dev.UploadErr = nil
	if err := p.SetTexture(guigl.ManagedID(0), fullImage(4, 4, blue)); err != nil {
		t.Fatal(err)
	}
	dev.CreateErr = oom
	err = p.SetTexture(guigl.ManagedID(0), fullImage(8, 8, red))
	if !errors.Is(err, guigl.ErrTextureAllocation) {
		t.Fatalf("expected resize failure to wrap ErrTextureAllocation, got %v", err)
	}
	tex, ok := p.Texture(guigl.ManagedID(0))
	if !ok {
		t.Fatal("failed resize dropped the existing texture")
	}
	if got := tex.Size(); got != image.Pt(4, 4) {
		t.Errorf("size after failed resize = %v, want 4x4", got)
	}
	if tex.(*fakegpu.Texture).Released {
		t.Error("failed resize released the existing texture")
	}

	dev.CreateErr = nil
	if err := p.SetTexture(guigl.ManagedID(0), guigl.PartialImage(1, 1, guigl.NewColorImage(2, 2, red), guigl.TextureNearest)); err != nil {
		t.Errorf("patch after failed resize: %v", err)
	}

	dev.UploadErr = oom
	if err := p.SetTexture(guigl.ManagedID(0), fullImage(8, 8, red)); err == nil {
		t.Fatal("expected upload failure on resize")
	}
	if tex2, ok := p.Texture(guigl.ManagedID(0)); !ok || tex2 != tex {
		t.Error("failed resize upload replaced the existing texture")
	}
	if dev.Live() != 1 {
		t.Errorf("%d textures live after failed resize upload, want 1", dev.Live())
	}
}

func TestWholeImageReallocatesOnlyOnResize(t *testing.T) {
	p, dev, _ := newPainter(t)
	id := guigl.ManagedID(0)

	steps := []struct {
		w, h                  int
		wantCreated, wantLive int
	}{
		{4, 4, 1, 1},
		{4, 4, 1, 1},
		{8, 4, 2, 1},
		{8, 4, 2, 1},
	}
	for i, s := range steps {
		if err := p.SetTexture(id, fullImage(s.w, s.h, red)); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if dev.Created != s.wantCreated || dev.Live() != s.wantLive {
			t.Errorf("step %d: created=%d live=%d, want %d and %d", i, dev.Created, dev.Live(), s.wantCreated, s.wantLive)
		}
		tex, _ := p.Texture(id)
		if got := tex.Size(); got != image.Pt(s.w, s.h) {
			t.Errorf("step %d: size %v", i, got)
		}
	}
}

func TestStraightAlphaIsPremultiplied(t *testing.T) {
	straight := guigl.Color32{255, 0, 0, 128}
	want := guigl.Color32{128, 0, 0, 128}

	t.Run("per delta", func(t *testing.T) {
		p, _, _ := newPainter(t)
		d := guigl.FullImage(guigl.NewColorImage(1, 1, straight), guigl.TextureLinear)
		d.Alpha = guigl.AlphaStraight
		if err := p.SetTexture(guigl.ManagedID(0), d); err != nil {
			t.Fatal(err)
		}
		tex, _ := p.Texture(guigl.ManagedID(0))
		if got := tex.(*fakegpu.Texture).Image.At(0, 0); got != want {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("painter default", func(t *testing.T) {
		p, _, _ := newPainter(t, guigl.WithDefaultAlpha(guigl.AlphaStraight))
		if err := p.SetTexture(guigl.ManagedID(0), fullImage(1, 1, straight)); err != nil {
			t.Fatal(err)
		}
		tex, _ := p.Texture(guigl.ManagedID(0))
		if got := tex.(*fakegpu.Texture).Image.At(0, 0); got != want {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("premultiplied untouched", func(t *testing.T) {
		p, _, _ := newPainter(t)
		if err := p.SetTexture(guigl.ManagedID(0), fullImage(1, 1, straight)); err != nil {
			t.Fatal(err)
		}
		tex, _ := p.Texture(guigl.ManagedID(0))
		if got := tex.(*fakegpu.Texture).Image.At(0, 0); got != straight {
			t.Errorf("got %v, want %v", got, straight)
		}
	})
}

func TestFontImageUpload(t *testing.T) {
	p, _, _ := newPainter(t)
	font := &guigl.FontImage{Size: [2]int{2, 1}, Pixels: []float32{0, 1}}
	if err := p.SetTexture(guigl.ManagedID(0), guigl.FullImage(font, guigl.TextureLinear)); err != nil {
		t.Fatal(err)
	}
	tex, _ := p.Texture(guigl.ManagedID(0))
	img := tex.(*fakegpu.Texture).Image
	if img.At(0, 0) != guigl.ColorTransparent || img.At(1, 0) != guigl.ColorWhite {
		t.Errorf("unexpected font pixels %v", img.Pixels)
	}
}

func TestSamplingOptionsFollowDeltas(t *testing.T) {
	p, _, _ := newPainter(t)
	id := guigl.ManagedID(0)
	if err := p.SetTexture(id, guigl.FullImage(guigl.NewColorImage(2, 2, red), guigl.TextureLinear)); err != nil {
		t.Fatal(err)
	}
	repeat := guigl.TextureOptions{Magnification: guigl.FilterNearest, Wrap: guigl.WrapRepeat}
	if err := p.SetTexture(id, guigl.PartialImage(1, 1, guigl.NewColorImage(1, 1, blue), repeat)); err != nil {
		t.Fatal(err)
	}

	target := fakegpu.NewTarget(10, 10)
	clip := guigl.RectFromSize(0, 0, 10, 10)
	if _, err := p.PaintPrimitives(target, 1, []guigl.ClippedPrimitive{{ClipRect: clip, Mesh: quad(id, clip, 1)}}); err != nil {
		t.Fatal(err)
	}
	if got := target.Draws[0].Options; got != repeat {
		t.Errorf("draw options %+v, want %+v", got, repeat)
	}
	tex, _ := p.Texture(id)
	if got := tex.(*fakegpu.Texture).Options; got != repeat {
		t.Errorf("texture options %+v, want %+v", got, repeat)
	}
}

func TestNativeRegistration(t *testing.T) {
	p, _, _ := newPainter(t)
	tex := fakegpu.NewTexture(4, 4)

	a := p.RegisterNativeTexture(tex, guigl.TextureLinear)
	b := p.RegisterNativeTexture(tex, guigl.TextureNearest)
	if a == b {
		t.Fatalf("re-registering must yield a new id, got %s twice", a)
	}
	if p.NativeCount() != 2 {
		t.Fatalf("expected 2 native textures, got %d", p.NativeCount())
	}

	if err := p.FreeNativeTexture(a); err != nil {
		t.Fatalf("FreeNativeTexture: %v", err)
	}
	if tex.Released {
		t.Error("freeing a native id must not release the host texture")
	}
	if _, ok := p.Texture(a); ok {
		t.Error("freed native id still resolves")
	}
	if _, ok := p.Texture(b); !ok {
		t.Error("independent native id was dropped")
	}
	if err := p.FreeNativeTexture(a); !errors.Is(err, guigl.ErrUnknownTexture) {
		t.Errorf("double native free: expected ErrUnknownTexture, got %v", err)
	}

	replacement := fakegpu.NewTexture(8, 8)
	if err := p.ReplaceNativeTexture(b, replacement, guigl.TextureLinear); err != nil {
		t.Fatalf("ReplaceNativeTexture: %v", err)
	}
	if got, _ := p.Texture(b); got != replacement {
		t.Error("replacement not resolved")
	}
	if err := p.ReplaceNativeTexture(a, replacement, guigl.TextureLinear); !errors.Is(err, guigl.ErrUnknownTexture) {
		t.Errorf("replace freed id: expected ErrUnknownTexture, got %v", err)
	}
}

func TestPaintAndUpdateTexturesFreesAfterPaint(t *testing.T) {
	p, dev, _ := newPainter(t)
	id := guigl.ManagedID(4)
	target := fakegpu.NewTarget(32, 32)
	clip := guigl.RectFromSize(0, 0, 32, 32)

	delta := &guigl.TexturesDelta{
		Set:  []guigl.TextureSet{{ID: id, Delta: fullImage(2, 2, red)}},
		Free: []guigl.TextureID{id},
	}
	stats, err := p.PaintAndUpdateTextures(target, 1, []guigl.ClippedPrimitive{{ClipRect: clip, Mesh: quad(id, clip, 1)}}, delta)
	if err != nil {
		t.Fatalf("PaintAndUpdateTextures: %v", err)
	}
	if stats.DrawCalls != 1 {
		t.Errorf("texture freed this frame must still be drawn, stats %+v", stats)
	}
	if p.ManagedCount() != 0 || dev.Live() != 0 {
		t.Errorf("texture not freed after paint")
	}
}

func TestPaintAndUpdateTexturesStopsOnTextureError(t *testing.T) {
	p, dev, _ := newPainter(t)
	dev.CreateErr = errors.New("device lost")
	target := fakegpu.NewTarget(32, 32)
	clip := guigl.RectFromSize(0, 0, 32, 32)
	native := p.RegisterNativeTexture(fakegpu.NewTexture(1, 1), guigl.TextureLinear)

	delta := &guigl.TexturesDelta{Set: []guigl.TextureSet{{ID: guigl.ManagedID(0), Delta: fullImage(2, 2, red)}}}
	_, err := p.PaintAndUpdateTextures(target, 1, []guigl.ClippedPrimitive{{ClipRect: clip, Mesh: quad(native, clip, 1)}}, delta)
	if !errors.Is(err, guigl.ErrTextureAllocation) {
		t.Fatalf("expected ErrTextureAllocation, got %v", err)
	}
	if len(target.Draws) != 0 {
		t.Error("paint must not proceed after a fatal texture error")
	}
}

func TestDrawErrorIsFatal(t *testing.T) {
	p, _, _ := newPainter(t)
	id := p.RegisterNativeTexture(fakegpu.NewTexture(1, 1), guigl.TextureLinear)
	target := fakegpu.NewTarget(16, 16)
	target.DrawErr = guigl.ErrDeviceLost
	clip := guigl.RectFromSize(0, 0, 16, 16)

	_, err := p.PaintPrimitives(target, 1, []guigl.ClippedPrimitive{{ClipRect: clip, Mesh: quad(id, clip, 1)}})
	if !errors.Is(err, guigl.ErrDeviceLost) {
		t.Fatalf("expected ErrDeviceLost, got %v", err)
	}
}

func TestInvalidAndEmptyMeshesAreSkipped(t *testing.T) {
	p, _, _ := newPainter(t)
	id := p.RegisterNativeTexture(fakegpu.NewTexture(1, 1), guigl.TextureLinear)
	target := fakegpu.NewTarget(16, 16)
	clip := guigl.RectFromSize(0, 0, 16, 16)

	bad := quad(id, clip, 1)
	bad.Indices[0] = 99
	prims := []guigl.ClippedPrimitive{
		{ClipRect: clip, Mesh: &guigl.Mesh{TextureID: id}},
		{ClipRect: clip, Mesh: nil},
		{ClipRect: clip, Mesh: bad},
	}
	stats, err := p.PaintPrimitives(target, 1, prims)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Empty != 2 || stats.Missing != 1 || len(target.Draws) != 0 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestScratchArenaTracksLargestMesh(t *testing.T) {
	p, _, logs := newPainter(t)
	id := p.RegisterNativeTexture(fakegpu.NewTexture(1, 1), guigl.TextureLinear)
	target := fakegpu.NewTarget(16, 16)
	clip := guigl.RectFromSize(0, 0, 16, 16)

	big := &guigl.Mesh{TextureID: id}
	for range 600 {
		big.AddRectWithUV(clip, guigl.Rect{}, guigl.ColorWhite)
	}

	tests := []struct {
		name string
		mesh *guigl.Mesh
		want int
	}{
		{"small mesh", quad(id, clip, 1), 1024},
		{"2400 vertices", big, 4096},
		{"small again", quad(id, clip, 1), 4096},
	}
	for _, tt := range tests {
		stats, err := p.PaintPrimitives(target, 1, []guigl.ClippedPrimitive{{ClipRect: clip, Mesh: tt.mesh}})
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if stats.ScratchVertices != tt.want {
			t.Errorf("%s: ScratchVertices = %d, want %d", tt.name, stats.ScratchVertices, tt.want)
		}
	}
	if got := strings.Count(logs.String(), "scratch arena grown"); got != 2 {
		t.Errorf("arena growth logged %d times, want 2", got)
	}
}

func TestDiagnosticsAreBounded(t *testing.T) {
	p, _, _ := newPainter(t)
	target := fakegpu.NewTarget(16, 16)
	clip := guigl.RectFromSize(0, 0, 16, 16)

	prims := make([]guigl.ClippedPrimitive, 300)
	for i := range prims {
		prims[i] = guigl.ClippedPrimitive{ClipRect: clip, Mesh: quad(guigl.ManagedID(uint64(i)), clip, 1)}
	}
	if _, err := p.PaintPrimitives(target, 1, prims); err != nil {
		t.Fatal(err)
	}
	diags := p.Diagnostics()
	if len(diags) != 256 {
		t.Fatalf("expected 256 retained diagnostics, got %d", len(diags))
	}
	if diags[len(diags)-1].Primitive != 299 {
		t.Errorf("newest diagnostic should be kept, got %+v", diags[len(diags)-1])
	}
}

// TestDeltaSequenceNetEffect checks that the texture table after a random
// sequence of deltas matches a model that only tracks the net effect.
func TestDeltaSequenceNetEffect(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 20; run++ {
		p, dev, _ := newPainter(t)
		model := map[uint64]image.Point{}

		for step := 0; step < 200; step++ {
			v := uint64(rng.Intn(5))
			id := guigl.ManagedID(v)
			var delta guigl.TexturesDelta

			switch rng.Intn(3) {
			case 0:
				w, h := 1+rng.Intn(4), 1+rng.Intn(4)
				delta.Set = append(delta.Set, guigl.TextureSet{ID: id, Delta: fullImage(w, h, red)})
				model[v] = image.Pt(w, h)
			case 1:
				size, ok := model[v]
				if !ok {
					continue
				}
				x, y := rng.Intn(size.X), rng.Intn(size.Y)
				patch := guigl.NewColorImage(size.X-x, size.Y-y, blue)
				delta.Set = append(delta.Set, guigl.TextureSet{ID: id, Delta: guigl.PartialImage(x, y, patch, guigl.TextureNearest)})
			case 2:
				delta.Free = append(delta.Free, id)
				delete(model, v)
			}

			if err := p.ApplyTextureDelta(&delta); err != nil {
				t.Fatalf("run %d step %d: %v", run, step, err)
			}
		}

		if p.ManagedCount() != len(model) || dev.Live() != len(model) {
			t.Fatalf("run %d: painter has %d textures (%d live), model %d", run, p.ManagedCount(), dev.Live(), len(model))
		}
		for v, size := range model {
			tex, ok := p.Texture(guigl.ManagedID(v))
			if !ok || tex.Size() != size {
				t.Errorf("run %d: texture %d missing or wrong size", run, v)
			}
		}
	}
}

func TestDestroyReleasesManagedTextures(t *testing.T) {
	p, dev, _ := newPainter(t)
	native := fakegpu.NewTexture(1, 1)
	p.RegisterNativeTexture(native, guigl.TextureLinear)
	for i := 0; i < 3; i++ {
		if err := p.SetTexture(guigl.ManagedID(uint64(i)), fullImage(2, 2, red)); err != nil {
			t.Fatal(err)
		}
	}

	p.Destroy()
	if dev.Live() != 0 || p.ManagedCount() != 0 || p.NativeCount() != 0 {
		t.Errorf("Destroy left live=%d managed=%d native=%d", dev.Live(), p.ManagedCount(), p.NativeCount())
	}
	if native.Released {
		t.Error("Destroy must not release native textures")
	}
}
