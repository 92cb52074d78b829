package scene

import (
	"math"

	"github.com/ivlev/pdfshowcase/internal/anim"
)

// Focus pulls one page out of the deck and zooms it to FocusWidth while the
// remaining cards fan out to the sides. The top card zooms straight up; any
// other card is first extracted to the right. Over the last 25 frames the
// page collapses back into its deck slot.
func Focus(frame int, pages []int, focusPage, duration int, vp Viewport) Layout {
	f := float64(frame)
	visible := deck(pages, vp.MaxLayers, focusPage)
	n := len(visible)

	focusIndex := indexOf(visible, focusPage)
	focusStackIndex := n - 1 - focusIndex
	isTop := focusStackIndex == 0

	extract := 0.0
	if !isTop {
		extract = spring(f-5, vp.FPS, 80, 100)
	}
	focusDelay := 25.0
	if isTop {
		focusDelay = 10
	}
	focus := spring(f-focusDelay, vp.FPS, 60, 80)

	collapseStart := float64(duration - 25)
	collapse := spring(f-collapseStart, vp.FPS, 80, 120)
	collapsing := f >= collapseStart

	scrollStart := 65.0
	if isTop {
		scrollStart = 55
	}
	scroll := scrollOffset(f, scrollStart, vp.MaxScroll())
	idle := 0.0
	if f < scrollStart {
		idle = breathe(f)
	}

	focusScale := vp.FocusScale()
	top := vp.FocusTop()

	cards := make([]Card, 0, n)
	for index, page := range visible {
		stackIndex := n - 1 - index
		base := deckPose(stackIndex, n)
		card := Card{Page: page, Brightness: 1, Z: index, RenderScale: 1}

		if page == focusPage {
			card.Z = ZFocus
			card.Raised = true
			card.RenderScale = 2
			card.Opacity = 1

			x, y, rot, scale := base.X, base.Y, base.Rotation, base.Scale
			if !isTop {
				x = anim.Lerp(base.X, 150, extract)
				y = anim.Lerp(base.Y, -100, extract)
				rot = anim.Lerp(base.Rotation, -5, extract)
			}
			zoomX := anim.Lerp(x, 0, focus)
			zoomY := anim.Lerp(y, top, focus) - scroll + idle
			zoomRot := anim.Lerp(rot, 0, focus)
			zoomScale := anim.Lerp(scale, focusScale, focus)

			if collapsing {
				card.X = anim.Lerp(zoomX, base.X, collapse)
				card.Y = anim.Lerp(zoomY, base.Y, collapse)
				card.Rotation = anim.Lerp(zoomRot, base.Rotation, collapse)
				card.Scale = anim.Lerp(zoomScale, base.Scale, collapse)
			} else {
				card.X, card.Y, card.Rotation, card.Scale = zoomX, zoomY, zoomRot, zoomScale
			}
			cards = append(cards, card)
			continue
		}

		rel := index - focusIndex
		dist := math.Abs(float64(rel))
		side := 1.0
		if rel%2 != 0 {
			side = -1
		}
		spreadX := side * (600 + dist*100)
		spreadY := float64(rel)*80 + 50
		spreadRot := side * (15 + dist*8)

		// Cards above an extracted page lift out of its way first.
		x, y := base.X, base.Y
		if !isTop && stackIndex < focusStackIndex {
			x = anim.Lerp(base.X, base.X+20, extract)
			y = anim.Lerp(base.Y, base.Y-50, extract)
			spreadY -= 150
		}
		spreadXAt := anim.Lerp(x, spreadX, focus)
		spreadYAt := anim.Lerp(y, spreadY, focus)
		spreadRotAt := anim.Lerp(base.Rotation, spreadRot, focus)
		spreadScale := anim.Lerp(base.Scale, 0.6, focus)
		fade := anim.Interpolate(focus, []float64{0, 0.6, 1}, []float64{1, 0.5, 0}, anim.Options{})

		if collapsing {
			card.X = anim.Lerp(spreadXAt, base.X, collapse)
			card.Y = anim.Lerp(spreadYAt, base.Y, collapse)
			card.Rotation = anim.Lerp(spreadRotAt, base.Rotation, collapse)
			card.Scale = anim.Lerp(spreadScale, base.Scale, collapse)
			card.Opacity = anim.Lerp(fade, 1, collapse)
		} else {
			card.X, card.Y, card.Rotation, card.Scale, card.Opacity = spreadXAt, spreadYAt, spreadRotAt, spreadScale, fade
		}
		cards = append(cards, card)
	}

	l := Layout{Scroll: scroll, Breathe: idle}
	if collapsing {
		l.Collapse = collapse
	}
	return finish(cards, l)
}
