package overlay

import "github.com/ivlev/pdfshowcase/internal/anim"

// EndingHeadline is the line shown above the title on the ending card.
const EndingHeadline = "Thanks for watching"

// Ending is the closing card at one frame.
type Ending struct {
	Opacity float64
	X       float64
	// Underline is the width of the decorative bar.
	Underline float64
}

// EndingAt evaluates the ending card at a frame local to the closing stack.
func EndingAt(frame, fps int) Ending {
	p := anim.Spring(float64(frame-25), fps, anim.SpringConfig{Damping: 60, Stiffness: 80})
	return Ending{
		Opacity:   p,
		X:         anim.Lerp(50, 0, p),
		Underline: anim.Lerp(0, 120, p),
	}
}
