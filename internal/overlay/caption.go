package overlay

import (
	"fmt"
	"math"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/ivlev/pdfshowcase/internal/anim"
	"github.com/ivlev/pdfshowcase/internal/timeline"
)

const (
	// CharsPerFrame is the typewriter speed.
	CharsPerFrame = 1.8
	typingDelay   = 20
	cursorPeriod  = 8
)

// EnterDelay is how long a scene waits before showing its caption.
func EnterDelay(k timeline.Kind) int {
	switch k {
	case timeline.KindSwitch:
		return 30
	case timeline.KindFan:
		return 35
	}
	return 20
}

// CaptionText is the static content of a caption.
type CaptionText struct {
	Title       string
	Description string
	// Index and Total drive the "i / n" badge.
	Index int
	Total int
}

// Caption is the bottom info card at one frame.
type Caption struct {
	Title string

	// Description is the full text, used to size the card; Text is the
	// part revealed so far.
	Description string
	Text        string
	Cursor      bool
	Badge       string

	Opacity float64
	SlideY  float64
}

// CaptionAt evaluates a caption at a scene-local frame.
func CaptionAt(frame, enterDelay, fps int, c CaptionText) Caption {
	enter := anim.Spring(float64(frame-enterDelay), fps, anim.SpringConfig{Damping: 80, Stiffness: 120})

	out := Caption{
		Title:       c.Title,
		Description: c.Description,
		Opacity:     enter,
		SlideY:      anim.Lerp(40, 0, enter),
	}
	if c.Total > 1 {
		out.Badge = fmt.Sprintf("%d / %d", c.Index, c.Total)
	}
	if c.Description == "" {
		return out
	}

	start := enterDelay + typingDelay
	complete := false
	if frame >= start {
		n := int(math.Floor(float64(frame-start) * CharsPerFrame))
		out.Text, complete = reveal(c.Description, n)
	}
	out.Cursor = !complete && floorDiv(frame, cursorPeriod)%2 == 0
	return out
}

// reveal returns the first n grapheme clusters of s and whether that is all of s.
func reveal(s string, n int) (string, bool) {
	if n <= 0 {
		return "", false
	}
	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for i := 0; i < n && g.Next(); i++ {
		b.WriteString(g.Str())
	}
	return b.String(), b.Len() == len(s)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
