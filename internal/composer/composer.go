// Package composer assembles everything visible at a frame: background grid,
// the active scene's cards, caption, title and ending card, plus the music
// volume for that instant.
package composer

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/ivlev/pdfshowcase/internal/overlay"
	"github.com/ivlev/pdfshowcase/internal/scene"
	"github.com/ivlev/pdfshowcase/internal/timeline"
)

// Text is the static wording of a showcase.
type Text struct {
	Title    string
	Subtitle string
	// PageTitles and PageDescriptions are keyed by the decimal page number.
	PageTitles       map[string]string
	PageDescriptions map[string]string
	// QR is encoded on the ending card when non-empty.
	QR string
}

// Frame is one composed output frame.
type Frame struct {
	Index  int
	Entry  timeline.Entry
	Local  int
	Grid   overlay.Grid
	Layout scene.Layout
	// Caption is nil during stack scenes.
	Caption *overlay.Caption
	// Title is nil when there is no title or the closing stack is on screen.
	Title *overlay.Title
	// Ending is set only during the closing stack.
	Ending *overlay.Ending
	Volume float64
}

// Composer evaluates frames of one compiled showcase. It holds no mutable
// state and is safe for concurrent use.
type Composer struct {
	tl         *timeline.Timeline
	pages      []int
	vp         scene.Viewport
	text       Text
	total      int
	firstFocus int
}

// New builds a composer for total frames. A non-positive total means the
// compiled timeline length.
func New(tl *timeline.Timeline, pages []int, vp scene.Viewport, text Text, total int) *Composer {
	if total <= 0 {
		total = tl.Total
	}
	return &Composer{
		tl:         tl,
		pages:      append([]int(nil), pages...),
		vp:         vp,
		text:       text,
		total:      total,
		firstFocus: tl.FirstFocusFrame(),
	}
}

func (c *Composer) Total() int                   { return c.total }
func (c *Composer) Pages() []int                 { return c.pages }
func (c *Composer) Viewport() scene.Viewport     { return c.vp }
func (c *Composer) Text() Text                   { return c.text }
func (c *Composer) Timeline() *timeline.Timeline { return c.tl }

// Frame composes frame n.
func (c *Composer) Frame(n int) Frame {
	layout, e := scene.Evaluate(c.tl, n, c.pages, c.vp)
	local := e.Local(n)

	f := Frame{
		Index:  n,
		Entry:  e,
		Local:  local,
		Grid:   overlay.GridAt(n, e.Start, e.Kind(), c.vp.FPS, c.vp.Width, c.vp.Height),
		Layout: layout,
		Volume: Volume(n, c.total, c.vp.FPS),
	}

	if e.Kind() != timeline.KindStack {
		caption := overlay.CaptionAt(local, overlay.EnterDelay(e.Kind()), c.vp.FPS, c.Caption(e))
		f.Caption = &caption
	}

	ending := c.tl.IsEndingEntry(e)
	if ending {
		end := overlay.EndingAt(local, c.vp.FPS)
		f.Ending = &end
	}
	if c.text.Title != "" && !ending {
		t := overlay.TitleAt(n, c.firstFocus, c.vp.FPS)
		f.Title = &t
	}
	return f
}

// Caption returns the caption wording for a highlighted entry. The title
// falls back from the script item to PageTitles to "Page N".
func (c *Composer) Caption(e timeline.Entry) overlay.CaptionText {
	page := e.Item.Page()
	key := strconv.Itoa(page)

	title := e.Item.Title()
	if title == "" {
		title = c.text.PageTitles[key]
	}
	if title == "" {
		title = fmt.Sprintf("Page %d", page)
	}
	return overlay.CaptionText{
		Title:       title,
		Description: c.text.PageDescriptions[key],
		Index:       e.Highlight,
		Total:       c.tl.Highlights,
	}
}

// PageRequest is a page bitmap the composition draws, at the largest
// render scale any scene asks for.
type PageRequest struct {
	Page  int
	Scale float64
}

// RequiredPages lists every page bitmap needed to render the whole
// composition, ordered by page number.
func (c *Composer) RequiredPages() []PageRequest {
	scales := make(map[int]float64)
	for _, e := range c.tl.Entries {
		layout, _ := scene.Evaluate(c.tl, e.Start, c.pages, c.vp)
		for _, card := range layout.Cards {
			if card.RenderScale > scales[card.Page] {
				scales[card.Page] = card.RenderScale
			}
		}
	}

	reqs := make([]PageRequest, 0, len(scales))
	for page, s := range scales {
		reqs = append(reqs, PageRequest{Page: page, Scale: s})
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].Page < reqs[j].Page })
	return reqs
}
