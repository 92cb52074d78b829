package scene

import (
	"math"

	"github.com/ivlev/pdfshowcase/internal/anim"
)

const (
	topMargin = 80.0

	scrollFrames    = 50.0
	scrollOvershoot = 1.2

	breatheAmplitude = 8.0
	breatheRate      = 0.06
)

// scrollOffset eases the focused page down by max over scrollFrames,
// overshooting slightly before it settles.
func scrollOffset(frame, start, max float64) float64 {
	return anim.Interpolate(frame, []float64{start, start + scrollFrames}, []float64{0, max},
		anim.Eased(anim.OutBack(scrollOvershoot)))
}

// breathe is the idle float applied before scrolling starts.
func breathe(frame float64) float64 {
	return math.Sin(frame*breatheRate) * breatheAmplitude
}

// pose is a card placement without opacity.
type pose struct {
	X, Y, Rotation, Scale float64
}

// deckPose is the resting place of the card stackIndex positions below the
// top of an n-card deck.
func deckPose(stackIndex, n int) pose {
	si := float64(stackIndex)
	return pose{
		X:        si * 4,
		Y:        si * -8,
		Rotation: (si - float64(n)/2) * 1.5,
		Scale:    1 - si*0.02,
	}
}

// deck returns the visible pages bottom first, so index i paints under i+1.
// A required page missing from the first max pages takes the bottom slot.
func deck(pages []int, max int, required int) []int {
	n := len(pages)
	if max > 0 && n > max {
		n = max
	}
	visible := append([]int(nil), pages[:n]...)

	if required > 0 && indexOf(visible, required) < 0 {
		if len(visible) == max && max > 0 {
			visible = visible[:max-1]
		}
		visible = append(visible, required)
	}

	for i, j := 0, len(visible)-1; i < j; i, j = i+1, j-1 {
		visible[i], visible[j] = visible[j], visible[i]
	}
	return visible
}

func indexOf(pages []int, page int) int {
	for i, p := range pages {
		if p == page {
			return i
		}
	}
	return -1
}

func spring(frame float64, fps int, damping, stiffness float64) float64 {
	return anim.Spring(frame, fps, anim.SpringConfig{Damping: damping, Stiffness: stiffness})
}
