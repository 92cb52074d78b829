package overlay

import (
	"math"

	"github.com/ivlev/pdfshowcase/internal/anim"
	"github.com/ivlev/pdfshowcase/internal/timeline"
)

// GridSize is the spacing of the background grid in pixels.
const GridSize = 60.0

// Grid is the ambient background at one frame.
type Grid struct {
	// OffsetX and OffsetY drift the grid; they wrap every GridSize pixels.
	OffsetX float64
	OffsetY float64
	Breathe float64
	// Lines is the opacity of the grid lines.
	Lines float64
	// Focused is set for focus, switch and fan scenes.
	Focused bool
	// Scene is the spring progress since the active scene started.
	Scene float64
	// Glow is the alpha at the center of the 800px glow; FocusGlow of the 1200px one.
	Glow      float64
	FocusGlow float64
	// Pulse ring emitted at the start of a switch.
	PulseRadius  float64
	PulseOpacity float64
}

// GridAt evaluates the background. sceneStart and kind describe the scene
// active at frame.
func GridAt(frame, sceneStart int, kind timeline.Kind, fps, width, height int) Grid {
	f := float64(frame)
	local := float64(frame - sceneStart)

	g := Grid{
		OffsetX: anim.Interpolate(f, []float64{0, 600}, []float64{0, GridSize}, anim.Options{Right: anim.Wrap}),
		OffsetY: anim.Interpolate(f, []float64{0, 800}, []float64{0, GridSize}, anim.Options{Right: anim.Wrap}),
		Breathe: anim.Interpolate(math.Sin(f*0.02), []float64{-1, 1}, []float64{0.6, 1}, anim.Options{}),
		Focused: kind.Highlighted(),
		Scene:   anim.Spring(local, fps, anim.SpringConfig{Damping: 80, Stiffness: 100}),
	}

	fade, glow := 1.0, 0.08
	if g.Focused {
		fade = anim.Lerp(1, 0.3, g.Scene)
		glow = anim.Lerp(0.08, 0.15, g.Scene)
		g.FocusGlow = 0.05 * g.Scene
	}
	g.Lines = g.Breathe * fade
	g.Glow = glow * g.Breathe

	if kind == timeline.KindSwitch {
		g.PulseRadius = anim.Interpolate(local, []float64{0, 30}, []float64{0, math.Max(float64(width), float64(height))}, anim.ClampRight)
		g.PulseOpacity = anim.Interpolate(local, []float64{0, 10, 30}, []float64{0, 0.3, 0}, anim.ClampRight)
	}
	return g
}

// DotOpacity is the opacity of a grid intersection at normalized distance d
// from the frame center (0 at the center, 1 at a corner).
func (g Grid) DotOpacity(d float64) float64 {
	o := anim.Interpolate(d, []float64{0, 0.5, 1}, []float64{0.4, 0.15, 0.05}, anim.Options{}) * g.Breathe
	if g.Focused {
		byDistance := anim.Interpolate(d, []float64{0, 0.3, 0.6}, []float64{1, 0.5, 0.1}, anim.Options{})
		o *= anim.Lerp(1, byDistance, g.Scene)
	}
	return o
}

// DotRadius shrinks dots toward the corners.
func DotRadius(d float64) float64 {
	return anim.Lerp(3, 1.5, d)
}
