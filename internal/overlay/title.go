// Package overlay computes the animated state of everything drawn over the
// page cards: the persistent title, the bottom caption, the ambient grid and
// the ending card.
package overlay

import "github.com/ivlev/pdfshowcase/internal/anim"

// Title is the persistent title at one frame. The center block dims the
// scene behind it until the first highlighted scene, then hands over to a
// smaller card in the top-right corner.
type Title struct {
	// Backdrop is the alpha of the black layer behind the center block.
	Backdrop float64
	// Center scales the whole center block.
	Center          float64
	TitleOpacity    float64
	TitleY          float64
	SubtitleOpacity float64
	SubtitleY       float64
	// Corner is the opacity of the corner card; CornerX its slide-in offset.
	Corner  float64
	CornerX float64
}

// TitleAt evaluates the title at a global frame. firstFocus is the start of
// the first non-stack scene.
func TitleAt(frame, firstFocus, fps int) Title {
	f := float64(frame)
	enter := anim.Spring(f, fps, anim.SpringConfig{Damping: 80, Stiffness: 100})
	subtitle := anim.Spring(f-8, fps, anim.SpringConfig{Damping: 80, Stiffness: 100})

	t := Title{
		Backdrop:        anim.Lerp(0, 0.4, enter),
		Center:          1,
		TitleOpacity:    enter,
		SubtitleOpacity: subtitle,
	}

	if frame < firstFocus {
		t.TitleY = anim.Lerp(50, 0, enter)
		t.SubtitleY = anim.Lerp(30, 0, subtitle)
		t.CornerX = 30
		return t
	}

	move := anim.Spring(f-float64(firstFocus), fps, anim.SpringConfig{Damping: 60, Stiffness: 80})
	fadeOut := anim.Interpolate(move, []float64{0, 0.5}, []float64{1, 0}, anim.ClampRight)

	t.Backdrop *= fadeOut
	t.SubtitleOpacity *= fadeOut
	t.Center = anim.Interpolate(move, []float64{0, 0.4}, []float64{1, 0}, anim.ClampRight)
	t.Corner = anim.Interpolate(move, []float64{0.3, 0.7}, []float64{0, 1}, anim.Clamped)
	t.CornerX = anim.Lerp(30, 0, t.Corner)
	return t
}
