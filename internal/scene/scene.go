// Package scene evaluates the page choreography of each scene type. Every
// function here is pure: the same frame and parameters give the same Layout.
package scene

import (
	"math"
	"sort"
)

// Origin is the pivot for a card's rotation and scale.
type Origin int

const (
	OriginCenter Origin = iota
	OriginBottom
)

// Card is the transform of one page for one frame. X and Y offset the card
// from its centered rest position; Rotation is in degrees.
type Card struct {
	Page       int
	X, Y       float64
	Rotation   float64
	Scale      float64
	Opacity    float64
	Brightness float64
	Z          int
	Origin     Origin
	// RenderScale is the rasterization density requested for the page.
	RenderScale float64
	// Raised marks the card carrying the deep focus shadow.
	Raised bool
}

// Layout is the evaluated state of a scene at one frame.
type Layout struct {
	// Cards are sorted back to front.
	Cards    []Card
	Scroll   float64
	Breathe  float64
	Collapse float64
	// Active is the page on top of the z-order.
	Active int
}

// Z bands forced onto focused cards.
const (
	ZFocus    = 100
	ZFanFocus = 200
)

// Viewport is the output geometry shared by all scenes.
type Viewport struct {
	FPS    int
	Width  int
	Height int
	// CardWidth is the layout width of an unscaled page card.
	CardWidth float64
	// FocusWidth is the on-screen width of the zoomed page.
	FocusWidth float64
	// AspectRatio is page width over page height.
	AspectRatio float64
	// MaxLayers caps the cards drawn in the stacked deck.
	MaxLayers int
}

// DefaultViewport returns the stock card geometry for an output size.
func DefaultViewport(fps, width, height int) Viewport {
	return Viewport{
		FPS:         fps,
		Width:       width,
		Height:      height,
		CardWidth:   500,
		FocusWidth:  900,
		AspectRatio: 9.0 / 16.0,
		MaxLayers:   6,
	}
}

// CardHeight is the layout height of an unscaled card.
func (v Viewport) CardHeight() float64 {
	return v.CardWidth / v.AspectRatio
}

// FocusScale is the card scale that reaches FocusWidth.
func (v Viewport) FocusScale() float64 {
	return v.FocusWidth / v.CardWidth
}

// FocusTop is the Y offset that puts the top of a focused page topMargin below the frame edge.
func (v Viewport) FocusTop() float64 {
	return (v.CardHeight()*v.FocusScale()-float64(v.Height))/2 + topMargin
}

// MaxScroll is how far a focused page scrolls to reveal its bottom.
func (v Viewport) MaxScroll() float64 {
	pageHeight := v.FocusWidth / v.AspectRatio
	return math.Max(0, pageHeight-float64(v.Height)+100+topMargin)
}

func finish(cards []Card, l Layout) Layout {
	sort.SliceStable(cards, func(i, j int) bool { return cards[i].Z < cards[j].Z })
	l.Cards = cards
	if len(cards) > 0 {
		l.Active = cards[len(cards)-1].Page
	}
	return l
}
