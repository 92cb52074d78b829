package renderer

import (
	"image"
	"image/color"
	"math"
	"testing"

	"golang.org/x/image/font/basicfont"

	"github.com/ivlev/pdfshowcase/internal/composer"
	"github.com/ivlev/pdfshowcase/internal/overlay"
	"github.com/ivlev/pdfshowcase/internal/scene"
	"github.com/ivlev/pdfshowcase/internal/timeline"
)

type fakeBitmaps map[int]*image.RGBA

func (f fakeBitmaps) Lookup(page int, scale float64) (*image.RGBA, bool) {
	img, ok := f[page]
	return img, ok
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func apply(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

func TestCardTransformCenter(t *testing.T) {
	vp := scene.DefaultViewport(30, 1920, 1080)

	tests := []struct {
		card   scene.Card
		bitmap image.Rectangle
	}{
		{scene.Card{Scale: 1, RenderScale: 1}, image.Rect(0, 0, 500, 889)},
		{scene.Card{Y: 340, Scale: 1.8, RenderScale: 2}, image.Rect(0, 0, 1000, 1778)},
		{scene.Card{X: -120, Y: 40, Rotation: 30, Scale: 0.6}, image.Rect(0, 0, 500, 889)},
	}

	for _, tt := range tests {
		m := cardTransform(tt.card, tt.bitmap, vp)
		x, y := apply(m, float64(tt.bitmap.Dx())/2, float64(tt.bitmap.Dy())/2)
		wantX, wantY := 960+tt.card.X, 540+tt.card.Y
		if math.Abs(x-wantX) > 1e-6 || math.Abs(y-wantY) > 1e-6 {
			t.Errorf("card %+v: center at (%.3f, %.3f), want (%.3f, %.3f)", tt.card, x, y, wantX, wantY)
		}
	}
}

func TestCardTransformBottomOrigin(t *testing.T) {
	vp := scene.DefaultViewport(30, 1920, 1080)
	bitmap := image.Rect(0, 0, 500, 900)
	card := scene.Card{X: 30, Y: 10, Rotation: -18, Scale: 0.9, Origin: scene.OriginBottom}

	m := cardTransform(card, bitmap, vp)
	x, y := apply(m, 250, 900)
	if math.Abs(x-990) > 1e-6 || math.Abs(y-(540+450+10)) > 1e-6 {
		t.Errorf("bottom center at (%.3f, %.3f), want (990, 1000)", x, y)
	}

	// Rotation about the bottom moves the top of the card sideways.
	tx, _ := apply(m, 250, 0)
	if tx >= 990 {
		t.Errorf("counter-clockwise card top at x=%.3f, want left of 990", tx)
	}
}

func tinyViewport() scene.Viewport {
	vp := scene.DefaultViewport(30, 200, 120)
	vp.CardWidth = 50
	vp.FocusWidth = 90
	return vp
}

func TestPaintCard(t *testing.T) {
	vp := tinyViewport()
	pages := fakeBitmaps{1: solid(50, 89, color.RGBA{255, 0, 0, 255})}
	r, err := New(vp, composer.Text{}, pages)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p := r.NewPainter()
	defer p.Close()

	dst := image.NewRGBA(image.Rect(0, 0, vp.Width, vp.Height))
	f := composer.Frame{
		Grid: overlay.GridAt(0, 0, timeline.KindStack, vp.FPS, vp.Width, vp.Height),
		Layout: scene.Layout{Cards: []scene.Card{
			{Page: 1, Scale: 1, Opacity: 1, Brightness: 1, RenderScale: 1},
		}},
	}
	if err := p.Paint(dst, f); err != nil {
		t.Fatalf("Paint: %v", err)
	}

	c := dst.RGBAAt(100, 60)
	if c.R < 200 || c.G > 40 {
		t.Errorf("center pixel = %v, want the red page", c)
	}
	corner := dst.RGBAAt(2, 2)
	if corner.R > 60 {
		t.Errorf("corner pixel = %v, want background", corner)
	}
}

func TestPaintMissingBitmap(t *testing.T) {
	vp := tinyViewport()
	r, err := New(vp, composer.Text{}, fakeBitmaps{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p := r.NewPainter()
	defer p.Close()

	dst := image.NewRGBA(image.Rect(0, 0, vp.Width, vp.Height))
	f := composer.Frame{Layout: scene.Layout{Cards: []scene.Card{
		{Page: 7, Scale: 1, Opacity: 1, Brightness: 1, RenderScale: 2},
	}}}
	if err := p.Paint(dst, f); err == nil {
		t.Error("expected an error for a page that was never loaded")
	}

	// Invisible cards are skipped before the lookup.
	f.Layout.Cards[0].Opacity = 0
	if err := p.Paint(dst, f); err != nil {
		t.Errorf("invisible card: %v", err)
	}
}

func TestPaintCanvasSize(t *testing.T) {
	r, err := New(tinyViewport(), composer.Text{}, fakeBitmaps{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p := r.NewPainter()
	defer p.Close()

	if err := p.Paint(image.NewRGBA(image.Rect(0, 0, 10, 10)), composer.Frame{}); err == nil {
		t.Error("expected an error for a mismatched canvas")
	}
}

func TestPaintOverlays(t *testing.T) {
	vp := tinyViewport()
	text := composer.Text{Title: "Quarterly report", Subtitle: "2026", QR: "https://example.com/deck.pdf"}
	r, err := New(vp, text, fakeBitmaps{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.qr == nil {
		t.Fatal("QR image not generated")
	}
	p := r.NewPainter()
	defer p.Close()

	caption := overlay.CaptionAt(60, 20, vp.FPS, overlay.CaptionText{
		Title: "Results", Description: "Revenue grew in every region.", Index: 1, Total: 3,
	})
	title := overlay.TitleAt(10, 100, vp.FPS)
	ending := overlay.EndingAt(60, vp.FPS)

	before := image.NewRGBA(image.Rect(0, 0, vp.Width, vp.Height))
	if err := p.Paint(before, composer.Frame{}); err != nil {
		t.Fatalf("Paint: %v", err)
	}
	dst := image.NewRGBA(image.Rect(0, 0, vp.Width, vp.Height))
	f := composer.Frame{Caption: &caption, Title: &title, Ending: &ending}
	if err := p.Paint(dst, f); err != nil {
		t.Fatalf("Paint: %v", err)
	}

	changed := 0
	for i := range dst.Pix {
		if dst.Pix[i] != before.Pix[i] {
			changed++
		}
	}
	if changed == 0 {
		t.Error("overlays did not change the frame")
	}
}

func TestDarken(t *testing.T) {
	src := solid(2, 2, color.RGBA{200, 100, 50, 255})
	dst := image.NewRGBA(src.Rect)
	darken(dst, src, 0.5)

	got := dst.RGBAAt(1, 1)
	want := color.RGBA{100, 50, 25, 255}
	if got != want {
		t.Errorf("darken = %v, want %v", got, want)
	}
}

func TestWrap(t *testing.T) {
	face := basicfont.Face7x13

	tests := []struct {
		text string
		max  float64
		want []string
	}{
		{"aaa bbb ccc", 50, []string{"aaa bbb", "ccc"}},
		{"aaa bbb ccc", 200, []string{"aaa bbb ccc"}},
		{"one\ntwo", 200, []string{"one", "two"}},
		{"unbreakable", 10, []string{"unbreakable"}},
	}

	for _, tt := range tests {
		got := wrap(face, tt.text, tt.max)
		if len(got) != len(tt.want) {
			t.Errorf("wrap(%q, %v) = %q, want %q", tt.text, tt.max, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("wrap(%q, %v) = %q, want %q", tt.text, tt.max, got, tt.want)
				break
			}
		}
	}
}
