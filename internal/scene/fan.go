package scene

import (
	"math"

	"github.com/ivlev/pdfshowcase/internal/anim"
)

const (
	fanRadius      = 600.0
	fanAngle       = 18.0
	fanScrollStart = 70.0
)

var fanEnter = anim.SpringConfig{Damping: 30, Stiffness: 60, Mass: 0.8}

// Fan unfolds every page into an arc, turns the arc from the previous
// selection to the current one, then lifts the current page into focus
// while the rest dim and sink. previous <= 0 means no rotation.
func Fan(frame int, pages []int, current, previous int, vp Viewport) Layout {
	f := float64(frame)
	arc := pages
	if indexOf(arc, current) < 0 {
		arc = append(append([]int(nil), pages...), current)
	}

	currentIndex := indexOf(arc, current)
	previousIndex := currentIndex
	if previous > 0 {
		if i := indexOf(arc, previous); i >= 0 {
			previousIndex = i
		}
	}

	enter := anim.Spring(f, vp.FPS, fanEnter)
	rotate := spring(f-20, vp.FPS, 60, 80)
	focus := spring(f-40, vp.FPS, 80, 100)

	startAngle := -float64(len(arc)-1) * fanAngle / 2
	rotationOffset := anim.Lerp(0, -float64(currentIndex-previousIndex)*fanAngle, rotate)

	scroll := scrollOffset(f, fanScrollStart, vp.MaxScroll())
	idle := 0.0
	if f < fanScrollStart {
		idle = breathe(f)
	}

	angleProgress := anim.Interpolate(enter, []float64{0, 0.7, 1}, []float64{0, 0.9, 1}, anim.ClampRight)
	riseProgress := anim.Interpolate(enter, []float64{0, 0.5}, []float64{0, 1}, anim.ClampRight)
	enterScale := anim.Interpolate(enter, []float64{0, 0.6}, []float64{0.85, 1}, anim.ClampRight)
	enterOpacity := anim.Interpolate(enter, []float64{0, 0.2}, []float64{0, 1}, anim.ClampRight)

	cards := make([]Card, 0, len(arc))
	for index, page := range arc {
		finalAngle := startAngle + float64(index)*fanAngle + rotationOffset
		angle := finalAngle * angleProgress
		rad := angle * math.Pi / 180

		x := math.Sin(rad) * fanRadius
		y := anim.Lerp(200, math.Cos(rad)*fanRadius-fanRadius+100, riseProgress)
		rotation := angle * 0.8

		dist := math.Abs(finalAngle)
		scale := anim.Interpolate(dist, []float64{0, 40, 90}, []float64{1, 0.85, 0.7}, anim.ClampRight) * enterScale
		opacity := anim.Interpolate(dist, []float64{0, 30, 60}, []float64{1, 0.8, 0.4}, anim.ClampRight) * enterOpacity

		card := Card{
			Page:        page,
			X:           x,
			Y:           y,
			Rotation:    rotation,
			Scale:       scale,
			Opacity:     opacity,
			Brightness:  1,
			Z:           int(math.Round(100 - dist)),
			Origin:      OriginBottom,
			RenderScale: 1,
		}

		isCurrent := page == current
		switch {
		case isCurrent && focus > 0:
			card.X = anim.Lerp(x, 0, focus)
			card.Y = anim.Lerp(y, vp.FocusTop(), focus) - scroll + idle
			card.Scale = anim.Lerp(scale, vp.FocusScale(), focus)
			card.Rotation = anim.Lerp(rotation, 0, focus)
			card.Opacity = 1
			card.Z = ZFanFocus
			if focus > 0.5 {
				card.Origin = OriginCenter
				card.Raised = true
			}
		case focus > 0:
			card.Opacity = anim.Lerp(opacity, 0.25, focus)
			card.Scale = anim.Lerp(scale, scale*0.9, focus)
			card.Y = anim.Lerp(y, y+50, focus)
			card.Brightness = anim.Lerp(1, 0.4, focus)
		}
		if isCurrent {
			card.RenderScale = 2
		}
		cards = append(cards, card)
	}
	return finish(cards, Layout{Scroll: scroll, Breathe: idle})
}
