package scene

import "github.com/ivlev/pdfshowcase/internal/anim"

// Stack lays out the deck of pages. The cards rise into place one by one;
// when ending is set they gather into a tighter pile and drift left.
func Stack(frame int, pages []int, ending bool, vp Viewport) Layout {
	f := float64(frame)
	visible := deck(pages, vp.MaxLayers, 0)
	n := len(visible)

	gather := 0.0
	if ending {
		gather = spring(f, vp.FPS, 60, 80)
	}
	endingScale := anim.Lerp(1, 0.85, gather)
	offsetX := anim.Lerp(0, -300, gather)

	cards := make([]Card, 0, n)
	for index, page := range visible {
		stackIndex := n - 1 - index
		base := deckPose(stackIndex, n)
		card := Card{
			Page:        page,
			Scale:       base.Scale * endingScale,
			Brightness:  1,
			Z:           index + 1,
			RenderScale: 1,
		}

		if ending {
			si := float64(stackIndex)
			card.X = anim.Lerp(base.X, si*8, gather) + offsetX
			card.Y = anim.Lerp(base.Y, si*-6, gather)
			card.Rotation = anim.Lerp(base.Rotation, (si-float64(n)/2)*2, gather)
			card.Opacity = 1
		} else {
			p := spring(f-float64(index*4), vp.FPS, 100, 200)
			card.X = anim.Lerp(0, base.X, p)
			card.Y = anim.Lerp(300, base.Y, p)
			card.Rotation = base.Rotation
			card.Opacity = anim.Interpolate(p, []float64{0, 0.3, 1}, []float64{0, 0.8, 1}, anim.Options{})
		}
		cards = append(cards, card)
	}
	return finish(cards, Layout{})
}
