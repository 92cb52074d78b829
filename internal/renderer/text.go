package renderer

import (
	"errors"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/pdfshowcase/internal/overlay"
)

type faceKey struct {
	font *opentype.Font
	size float64
}

// faceCache keeps one face per font and size. Faces hold glyph caches and
// must stay on one goroutine.
type faceCache map[faceKey]font.Face

func (c faceCache) get(f *opentype.Font, size float64) font.Face {
	size = math.Round(size*4) / 4
	k := faceKey{f, size}
	if face, ok := c[k]; ok {
		return face
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return basicfont.Face7x13
	}
	c[k] = face
	return face
}

func (c faceCache) close() error {
	var errs []error
	for k, face := range c {
		if err := face.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(c, k)
	}
	return errors.Join(errs...)
}

// label is a run of text in one face.
type label struct {
	face    font.Face
	text    string
	spacing float64
}

func (p *Painter) label(f *opentype.Font, size float64, s string) label {
	return label{face: p.faces.get(f, size), text: s}
}

func (l label) width() float64 {
	if l.spacing == 0 {
		return fix(font.MeasureString(l.face, l.text))
	}
	w := 0.0
	n := 0
	for _, r := range l.text {
		adv, _ := l.face.GlyphAdvance(r)
		w += fix(adv)
		n++
	}
	if n > 1 {
		w += float64(n-1) * l.spacing
	}
	return w
}

func (l label) height() float64 {
	m := l.face.Metrics()
	return fix(m.Ascent + m.Descent)
}

// draw paints the label with its top-left corner at (x, y).
func (l label) draw(dst draw.Image, x, y float64, c color.NRGBA) {
	if c.A == 0 || l.text == "" {
		return
	}
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: l.face,
		Dot:  fixed.Point26_6{X: unfix(x), Y: unfix(y) + l.face.Metrics().Ascent},
	}
	if l.spacing == 0 {
		d.DrawString(l.text)
		return
	}
	for _, r := range l.text {
		d.DrawString(string(r))
		d.Dot.X += unfix(l.spacing)
	}
}

func fix(v fixed.Int26_6) float64   { return float64(v) / 64 }
func unfix(v float64) fixed.Int26_6 { return fixed.Int26_6(math.Round(v * 64)) }

// wrap breaks s into lines no wider than max at Unicode line break
// opportunities. A single segment wider than max gets its own line.
func wrap(face font.Face, s string, max float64) []string {
	var lines []string
	var line strings.Builder
	state := -1
	rest := s
	for len(rest) > 0 {
		var seg string
		var mustBreak bool
		seg, rest, mustBreak, state = uniseg.FirstLineSegmentInString(rest, state)

		candidate := line.String() + seg
		if line.Len() > 0 && fix(font.MeasureString(face, strings.TrimRight(candidate, " \n"))) > max {
			lines = append(lines, strings.TrimRight(line.String(), " "))
			line.Reset()
		}
		line.WriteString(strings.TrimRight(seg, "\r\n"))
		if mustBreak && len(rest) > 0 {
			lines = append(lines, strings.TrimRight(line.String(), " "))
			line.Reset()
		}
	}
	if line.Len() > 0 || len(lines) == 0 {
		lines = append(lines, strings.TrimRight(line.String(), " "))
	}
	return lines
}

var (
	white = color.NRGBA{255, 255, 255, 255}
	black = color.NRGBA{0, 0, 0, 255}
)

func rect(x, y, w, h float64) image.Rectangle {
	return image.Rect(int(math.Round(x)), int(math.Round(y)), int(math.Round(x+w)), int(math.Round(y+h)))
}

const (
	captionMaxWidth   = 800.0
	captionPadX       = 24.0
	captionPadY       = 16.0
	captionBar        = 5.0
	captionLineHeight = 27.0
	captionBottom     = 50.0
)

func (p *Painter) drawCaption(dst *image.RGBA, c overlay.Caption) {
	o := clamp01(c.Opacity)
	if o == 0 {
		return
	}
	r := p.r
	title := p.label(r.medium, 26, c.Title)
	badge := p.label(r.regular, 14, c.Badge)
	descFace := p.faces.get(r.regular, 18)

	badgeW := 0.0
	if c.Badge != "" {
		badgeW = badge.width() + 16
	}
	maxContent := captionMaxWidth - 2*captionPadX - captionBar
	content := math.Min(maxContent, title.width()+12+badgeW)
	var lines []string
	if c.Description != "" {
		content = math.Min(maxContent, math.Max(content, fix(font.MeasureString(descFace, c.Description))))
		lines = wrap(descFace, c.Description, content)
	}

	boxW := content + 2*captionPadX + captionBar
	boxH := captionPadY*2 + title.height()
	if len(lines) > 0 {
		boxH += 8 + float64(len(lines))*captionLineHeight
	}
	x := (float64(r.vp.Width) - boxW) / 2
	y := float64(r.vp.Height) - captionBottom - boxH + c.SlideY

	fill(dst, rect(x, y, boxW, boxH), alpha(black, 0.75*o))
	fill(dst, rect(x, y, captionBar, boxH), alpha(accent, o))

	cx := x + captionBar + captionPadX
	cy := y + captionPadY
	title.draw(dst, cx, cy, alpha(white, o))
	if c.Badge != "" {
		bx := cx + title.width() + 12
		by := cy + (title.height()-badge.height()-6)/2
		fill(dst, rect(bx, by, badgeW, badge.height()+6), alpha(accent, 0.3*o))
		badge.draw(dst, bx+8, by+3, alpha(white, 0.9*o))
	}
	if len(lines) == 0 {
		return
	}

	ty := cy + title.height() + 8
	revealed := wrap(descFace, c.Text, content)
	if c.Text == "" {
		revealed = nil
	}
	lineX, lineY := cx, ty
	for i, s := range revealed {
		l := label{face: descFace, text: s}
		lineY = ty + float64(i)*captionLineHeight
		l.draw(dst, cx, lineY+(captionLineHeight-l.height())/2, alpha(white, 0.85*o))
		lineX = cx + l.width()
	}
	if c.Cursor {
		fill(dst, rect(lineX+2, lineY+(captionLineHeight-18)/2, 2, 18), alpha(accent, o))
	}
}

const (
	cornerMargin = 50.0
	endingRight  = 150.0
	endingWidth  = 600.0
)

func (p *Painter) drawTitle(dst *image.RGBA, t overlay.Title) {
	r := p.r
	w, h := float64(r.vp.Width), float64(r.vp.Height)
	fill(dst, dst.Bounds(), alpha(black, t.Backdrop))

	if t.Center > 0 {
		title := p.label(r.bold, 96*t.Center, r.text.Title)
		sub := p.label(r.regular, 32*t.Center, r.text.Subtitle)
		gap := 20 * t.Center
		padX, padY := 20*t.Center, 8*t.Center

		block := title.height()
		if r.text.Subtitle != "" {
			block += gap + sub.height() + 2*padY
		}
		top := (h - block) / 2
		title.draw(dst, (w-title.width())/2, top+t.TitleY, alpha(white, t.TitleOpacity))

		if r.text.Subtitle != "" {
			so := clamp01(t.SubtitleOpacity)
			bw, bh := sub.width()+2*padX, sub.height()+2*padY
			by := top + title.height() + gap + t.SubtitleY
			fill(dst, rect((w-bw)/2, by, bw, bh), alpha(accent, so))
			sub.draw(dst, (w-sub.width())/2, by+padY, alpha(white, so))
		}
	}

	if t.Corner > 0 {
		corner := p.label(r.medium, 28, r.text.Title)
		bw := corner.width() + 2*20 + 5 + 12
		bh := math.Max(corner.height(), 28) + 2*14
		x := w - cornerMargin - bw + t.CornerX
		y := cornerMargin
		fill(dst, rect(x, y, bw, bh), alpha(black, 0.6*t.Corner))
		fill(dst, rect(x+20, y+(bh-28)/2, 5, 28), alpha(accent, t.Corner))
		corner.draw(dst, x+20+5+12, y+(bh-corner.height())/2, alpha(white, t.Corner))
	}
}

func (p *Painter) drawEnding(dst *image.RGBA, e overlay.Ending) {
	o := clamp01(e.Opacity)
	if o == 0 {
		return
	}
	r := p.r
	right := float64(r.vp.Width) - endingRight + e.X

	headline := p.label(r.regular, 28, strings.ToUpper(overlay.EndingHeadline))
	headline.spacing = 6
	titleFace := p.faces.get(r.bold, 52)
	var titles []string
	if r.text.Title != "" {
		titles = wrap(titleFace, r.text.Title, endingWidth)
	}
	sub := p.label(r.regular, 24, r.text.Subtitle)

	height := headline.height() + 16
	for range titles {
		height += 62
	}
	if r.text.Subtitle != "" {
		height += 12 + sub.height()
	}
	height += 24 + 4
	if r.qr != nil {
		height += 40 + float64(r.qr.Bounds().Dy())
	}

	y := (float64(r.vp.Height) - height) / 2
	headline.draw(dst, right-headline.width(), y, alpha(white, 0.6*o))
	y += headline.height() + 16
	for _, s := range titles {
		l := label{face: titleFace, text: s}
		l.draw(dst, right-l.width(), y, alpha(white, o))
		y += 62
	}
	if r.text.Subtitle != "" {
		y += 12
		sub.draw(dst, right-sub.width(), y, alpha(white, 0.7*o))
		y += sub.height()
	}
	y += 24
	fill(dst, rect(right-e.Underline, y, e.Underline, 4), alpha(accent, 0.8*o))
	y += 4

	if r.qr != nil {
		y += 40
		b := r.qr.Bounds()
		at := rect(right-float64(b.Dx()), y, float64(b.Dx()), float64(b.Dy()))
		draw.DrawMask(dst, at, r.qr, b.Min, image.NewUniform(color.Alpha{uint8(math.Round(255 * o))}), image.Point{}, draw.Over)
	}
}
