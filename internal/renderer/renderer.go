// Package renderer rasterizes composed frames. A Renderer holds what every
// frame shares (background, glow masks, fonts, QR code); each worker paints
// through its own Painter because font faces are not safe for concurrent use.
package renderer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/ivlev/pdfshowcase/internal/composer"
	"github.com/ivlev/pdfshowcase/internal/scene"
)

// Bitmaps supplies preloaded page bitmaps.
type Bitmaps interface {
	Lookup(page int, scale float64) (*image.RGBA, bool)
}

var accent = color.NRGBA{99, 102, 241, 255}

const qrSize = 160

// Renderer is immutable after New and safe for concurrent use.
type Renderer struct {
	vp    scene.Viewport
	text  composer.Text
	pages Bitmaps

	background *image.RGBA
	glow       *image.Alpha
	focusGlow  *image.Alpha
	qr         image.Image

	regular *opentype.Font
	medium  *opentype.Font
	bold    *opentype.Font
}

// New prepares the shared drawing state for a viewport.
func New(vp scene.Viewport, text composer.Text, pages Bitmaps) (*Renderer, error) {
	r := &Renderer{
		vp:         vp,
		text:       text,
		pages:      pages,
		background: gradient(vp.Width, vp.Height),
		glow:       radialMask(400, 0.7),
		focusGlow:  radialMask(600, 0.5),
	}

	var err error
	if r.regular, err = opentype.Parse(goregular.TTF); err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	if r.medium, err = opentype.Parse(gomedium.TTF); err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	if r.bold, err = opentype.Parse(gobold.TTF); err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	if text.QR != "" {
		q, err := qrcode.New(text.QR, qrcode.Medium)
		if err != nil {
			return nil, fmt.Errorf("qr code: %w", err)
		}
		q.BackgroundColor = color.White
		q.ForegroundColor = color.Black
		r.qr = q.Image(qrSize)
	}
	return r, nil
}

// Painter draws frames for one goroutine.
type Painter struct {
	r     *Renderer
	faces faceCache
}

func (r *Renderer) NewPainter() *Painter {
	return &Painter{r: r, faces: make(faceCache)}
}

// Close releases the painter's font faces.
func (p *Painter) Close() error {
	return p.faces.close()
}

// Paint draws f onto dst, which must match the viewport size. A card whose
// page bitmap was never loaded is an error, not a blank.
func (p *Painter) Paint(dst *image.RGBA, f composer.Frame) error {
	vp := p.r.vp
	if b := dst.Bounds(); b.Dx() != vp.Width || b.Dy() != vp.Height {
		return fmt.Errorf("canvas %dx%d, want %dx%d", b.Dx(), b.Dy(), vp.Width, vp.Height)
	}

	p.drawBackground(dst, f.Grid)

	for _, c := range f.Layout.Cards {
		if err := p.drawCard(dst, c); err != nil {
			return err
		}
	}

	if f.Ending != nil {
		p.drawEnding(dst, *f.Ending)
	}
	if f.Caption != nil {
		p.drawCaption(dst, *f.Caption)
	}
	if f.Title != nil {
		p.drawTitle(dst, *f.Title)
	}
	return nil
}
