package renderer

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/ivlev/pdfshowcase/internal/anim"
	"github.com/ivlev/pdfshowcase/internal/overlay"
)

var (
	bgEdge   = color.NRGBA{0x0f, 0x0f, 0x1a, 0xff}
	bgCenter = color.NRGBA{0x1a, 0x1a, 0x2e, 0xff}
)

// gradient paints the diagonal backdrop, dark at the top-left and
// bottom-right corners and lighter across the middle.
func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	stops := []float64{0, 0.5, 1}
	channel := func(t float64, a, b uint8) uint8 {
		return uint8(math.Round(anim.Interpolate(t, stops, []float64{float64(a), float64(b), float64(a)}, anim.Clamped)))
	}

	length := float64(w+h) * math.Sqrt2 / 2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := ((float64(x)-float64(w)/2)+(float64(y)-float64(h)/2))*math.Sqrt2/2/length + 0.5
			i := img.PixOffset(x, y)
			img.Pix[i+0] = channel(t, bgEdge.R, bgCenter.R)
			img.Pix[i+1] = channel(t, bgEdge.G, bgCenter.G)
			img.Pix[i+2] = channel(t, bgEdge.B, bgCenter.B)
			img.Pix[i+3] = 0xff
		}
	}
	return img
}

// radialMask is a disc of the given radius whose alpha falls from 1 at the
// center to 0 at stop (a fraction of the radius).
func radialMask(radius int, stop float64) *image.Alpha {
	size := radius * 2
	m := image.NewAlpha(image.Rect(0, 0, size, size))
	r := float64(radius)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math.Hypot(float64(x)+0.5-r, float64(y)+0.5-r) / r
			a := anim.Interpolate(d, []float64{0, stop}, []float64{1, 0}, anim.Clamped)
			m.Pix[m.PixOffset(x, y)] = uint8(math.Round(a * 255))
		}
	}
	return m
}

// disc is an antialiased circle usable as a draw mask.
type disc struct {
	cx, cy, r float64
}

func (d disc) ColorModel() color.Model { return color.AlphaModel }

func (d disc) Bounds() image.Rectangle {
	return image.Rect(int(math.Floor(d.cx-d.r-1)), int(math.Floor(d.cy-d.r-1)),
		int(math.Ceil(d.cx+d.r+1)), int(math.Ceil(d.cy+d.r+1)))
}

func (d disc) At(x, y int) color.Color {
	dist := math.Hypot(float64(x)+0.5-d.cx, float64(y)+0.5-d.cy)
	return color.Alpha{uint8(255 * clamp01(d.r-dist+0.5))}
}

// ring is the outline of a circle, width pixels thick.
type ring struct {
	cx, cy, r, width float64
}

func (g ring) ColorModel() color.Model { return color.AlphaModel }

func (g ring) Bounds() image.Rectangle {
	return disc{g.cx, g.cy, g.r + g.width}.Bounds()
}

func (g ring) At(x, y int) color.Color {
	dist := math.Abs(math.Hypot(float64(x)+0.5-g.cx, float64(y)+0.5-g.cy) - g.r)
	return color.Alpha{uint8(255 * clamp01(g.width/2-dist+0.5))}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func alpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(math.Round(float64(c.A) * clamp01(a)))
	return c
}

func fill(dst draw.Image, r image.Rectangle, c color.NRGBA) {
	if c.A == 0 {
		return
	}
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Over)
}

func (p *Painter) drawBackground(dst *image.RGBA, g overlay.Grid) {
	w, h := p.r.vp.Width, p.r.vp.Height
	draw.Draw(dst, dst.Bounds(), p.r.background, image.Point{}, draw.Src)

	cols := int(math.Ceil(float64(w)/overlay.GridSize)) + 2
	rows := int(math.Ceil(float64(h)/overlay.GridSize)) + 2

	line := alpha(color.NRGBA{255, 255, 255, 255}, 0.03*g.Lines)
	for i := 0; i < cols; i++ {
		x := int(math.Round(float64(i)*overlay.GridSize - g.OffsetX))
		fill(dst, image.Rect(x, 0, x+1, h), line)
	}
	for i := 0; i < rows; i++ {
		y := int(math.Round(float64(i)*overlay.GridSize - g.OffsetY))
		fill(dst, image.Rect(0, y, w, y+1), line)
	}

	cx, cy := float64(w)/2, float64(h)/2
	maxDist := math.Hypot(cx, cy)
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			x := float64(c)*overlay.GridSize - g.OffsetX
			y := float64(r)*overlay.GridSize - g.OffsetY
			d := math.Hypot(x-cx, y-cy) / maxDist
			col := alpha(color.NRGBA{255, 255, 255, 255}, 0.15*g.DotOpacity(d))
			if col.A == 0 {
				continue
			}
			m := disc{x, y, overlay.DotRadius(d)}
			draw.DrawMask(dst, m.Bounds(), image.NewUniform(col), image.Point{}, m, m.Bounds().Min, draw.Over)
		}
	}

	if g.PulseOpacity > 0 {
		m := ring{cx, cy, g.PulseRadius, 2}
		draw.DrawMask(dst, m.Bounds(), image.NewUniform(alpha(accent, g.PulseOpacity)), image.Point{}, m, m.Bounds().Min, draw.Over)
	}

	p.glow(dst, p.r.glow, g.Glow)
	if g.Focused {
		p.glow(dst, p.r.focusGlow, g.FocusGlow)
	}
}

func (p *Painter) glow(dst *image.RGBA, mask *image.Alpha, intensity float64) {
	c := alpha(accent, intensity)
	if c.A == 0 {
		return
	}
	b := mask.Bounds()
	at := image.Pt((p.r.vp.Width-b.Dx())/2, (p.r.vp.Height-b.Dy())/2)
	draw.DrawMask(dst, b.Add(at), image.NewUniform(c), image.Point{}, mask, image.Point{}, draw.Over)
}
