package scene

import (
	"fmt"

	"github.com/ivlev/pdfshowcase/internal/timeline"
)

// Evaluate lays out the scene active at a global frame.
func Evaluate(tl *timeline.Timeline, frame int, pages []int, vp Viewport) (Layout, timeline.Entry) {
	e := tl.At(frame)
	local := e.Local(frame)

	switch it := e.Item.(type) {
	case timeline.Stack:
		return Stack(local, pages, tl.IsEndingEntry(e), vp), e
	case timeline.Focus:
		return Focus(local, pages, it.Target, e.Duration, vp), e
	case timeline.Switch:
		from := e.LastFocused
		if from <= 0 {
			from = it.Target
		}
		return Switch(local, from, it.Target, e.Duration, vp), e
	case timeline.Fan:
		return Fan(local, pages, it.Target, e.LastFocused, vp), e
	}
	panic(fmt.Sprintf("scene: unexpected item %T", e.Item))
}
