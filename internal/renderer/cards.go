package renderer

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/ivlev/pdfshowcase/internal/scene"
	"github.com/ivlev/pdfshowcase/internal/system"
)

const (
	shadowOffset       = 20.0
	raisedShadowOffset = 30.0
)

// cardTransform maps bitmap pixels to canvas pixels. A card is laid out
// CardWidth wide at the middle of the canvas, then translated, rotated and
// scaled about its origin.
func cardTransform(c scene.Card, bitmap image.Rectangle, vp scene.Viewport) f64.Aff3 {
	rs := float64(bitmap.Dx()) / vp.CardWidth
	w := vp.CardWidth
	h := float64(bitmap.Dy()) / rs

	ex := (float64(vp.Width) - w) / 2
	ey := (float64(vp.Height) - h) / 2

	ox, oy := w/2, h/2
	if c.Origin == scene.OriginBottom {
		oy = h
	}

	sin, cos := math.Sincos(c.Rotation * math.Pi / 180)
	k := c.Scale / rs
	return f64.Aff3{
		k * cos, -k * sin, ex + ox + c.X - c.Scale*(cos*ox-sin*oy),
		k * sin, k * cos, ey + oy + c.Y - c.Scale*(sin*ox+cos*oy),
	}
}

// bitmap finds the page at the requested density, falling back to the other
// preloaded density.
func (p *Painter) bitmap(c scene.Card) (*image.RGBA, error) {
	if img, ok := p.r.pages.Lookup(c.Page, c.RenderScale); ok {
		return img, nil
	}
	other := 1.0
	if c.RenderScale == 1 {
		other = 2
	}
	if img, ok := p.r.pages.Lookup(c.Page, other); ok {
		return img, nil
	}
	return nil, fmt.Errorf("page %d not loaded at scale %g", c.Page, c.RenderScale)
}

func (p *Painter) drawCard(dst *image.RGBA, c scene.Card) error {
	if c.Opacity <= 0 || c.Scale <= 0 {
		return nil
	}
	src, err := p.bitmap(c)
	if err != nil {
		return err
	}
	m := cardTransform(c, src.Bounds(), p.r.vp)

	shadow, offset := 0.4, shadowOffset
	if c.Raised {
		shadow, offset = 0.6, raisedShadowOffset
	}
	sm := m
	sm[5] += offset
	shade := image.NewUniform(color.NRGBA{0, 0, 0, uint8(math.Round(255 * clamp01(shadow*0.5*c.Opacity)))})
	draw.ApproxBiLinear.Transform(dst, sm, shade, src.Bounds(), draw.Over, nil)

	if c.Brightness < 1 {
		dim := system.GetImage(src.Bounds())
		defer system.PutImage(dim)
		darken(dim, src, c.Brightness)
		src = dim
	}

	var opts *draw.Options
	if c.Opacity < 1 {
		opts = &draw.Options{SrcMask: image.NewUniform(color.Alpha{uint8(math.Round(255 * c.Opacity))})}
	}

	interp := draw.Interpolator(draw.ApproxBiLinear)
	if c.Raised {
		interp = draw.BiLinear
	}
	interp.Transform(dst, m, src, src.Bounds(), draw.Over, opts)
	return nil
}

// darken writes src with its color channels multiplied by k into dst.
func darken(dst, src *image.RGBA, k float64) {
	k = clamp01(k)
	scale := uint32(math.Round(k * 256))
	for i := 0; i+3 < len(src.Pix) && i+3 < len(dst.Pix); i += 4 {
		dst.Pix[i+0] = uint8(uint32(src.Pix[i+0]) * scale >> 8)
		dst.Pix[i+1] = uint8(uint32(src.Pix[i+1]) * scale >> 8)
		dst.Pix[i+2] = uint8(uint32(src.Pix[i+2]) * scale >> 8)
		dst.Pix[i+3] = src.Pix[i+3]
	}
}
