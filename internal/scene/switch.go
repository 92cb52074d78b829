package scene

import "github.com/ivlev/pdfshowcase/internal/anim"

const (
	switchFrames      = 25.0
	switchScrollStart = 70.0
	switchCollapse    = 20
	switchCollapseLen = 18.0
)

// Switch slides the previously focused page up and out while the next page
// rises into the focus position. The new page returns to an unscaled,
// centered card over the final frames of the scene.
func Switch(frame int, from, to, duration int, vp Viewport) Layout {
	f := float64(frame)
	focusScale := vp.FocusScale()
	top := vp.FocusTop()
	h := float64(vp.Height)

	progress := anim.Interpolate(f, []float64{0, switchFrames}, []float64{0, 1}, anim.Eased(anim.OutCubic))
	scroll := scrollOffset(f, switchScrollStart, vp.MaxScroll())
	idle := 0.0
	if f > switchFrames && f < switchScrollStart {
		idle = breathe(f)
	}

	collapseStart := float64(duration - switchCollapse)
	collapse := anim.Interpolate(f, []float64{collapseStart, collapseStart + switchCollapseLen}, []float64{0, 1},
		anim.Eased(anim.InOutCubic))
	collapsing := f >= collapseStart

	outgoing := Card{
		Page:        from,
		Y:           anim.Lerp(top, -h*0.6, progress),
		Scale:       focusScale,
		Opacity:     anim.Interpolate(progress, []float64{0, 0.6, 1}, []float64{1, 0.5, 0}, anim.Options{}),
		Brightness:  1,
		Z:           1,
		RenderScale: 1,
	}

	y := anim.Lerp(h*0.6, top, progress) - scroll + idle
	scale := focusScale
	if collapsing {
		y = anim.Lerp(y, 0, collapse)
		scale = anim.Lerp(focusScale, 1, collapse)
	}
	incoming := Card{
		Page:        to,
		Y:           y,
		Scale:       scale,
		Opacity:     anim.Interpolate(progress, []float64{0, 0.3, 1}, []float64{0, 0.9, 1}, anim.Options{}),
		Brightness:  1,
		Z:           2,
		RenderScale: 2,
		Raised:      true,
	}

	l := Layout{Scroll: scroll, Breathe: idle}
	if collapsing {
		l.Collapse = collapse
	}
	return finish([]Card{outgoing, incoming}, l)
}
