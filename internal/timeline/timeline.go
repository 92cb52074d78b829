package timeline

// Entry is a compiled, frame-positioned scene.
type Entry struct {
	Item     Item
	Start    int
	Duration int
	// Index is the position of the item in the script.
	Index int
	// Highlight is the 1-based position among focus/switch/fan entries, 0 for stacks.
	Highlight int
	// LastFocused is the page shown before this entry; set for switch and fan only.
	LastFocused int
}

// Kind is shorthand for e.Item.Kind().
func (e Entry) Kind() Kind { return e.Item.Kind() }

// End is the first frame after the entry.
func (e Entry) End() int { return e.Start + e.Duration }

// Local converts a global frame to the entry's own frame counter.
func (e Entry) Local(frame int) int { return frame - e.Start }

// Timeline is the compiled script. Entries partition [0, Total).
type Timeline struct {
	Entries []Entry
	Total   int
	// Highlights counts focus/switch/fan entries.
	Highlights int
}

// Compile lays the items out back to back. The "last focused" page is seeded
// with the first page of the page set and advanced by every focus, switch and
// fan entry after that entry has read it.
func Compile(items []Item, pages []int) *Timeline {
	tl := &Timeline{Entries: make([]Entry, 0, len(items))}

	last := 0
	if len(pages) > 0 {
		last = pages[0]
	}

	frame := 0
	highlight := 0
	for i, it := range items {
		e := Entry{
			Item:     it,
			Start:    frame,
			Duration: it.Frames(),
			Index:    i,
		}
		frame += e.Duration

		switch it.Kind() {
		case KindStack:
		case KindFocus:
			highlight++
			e.Highlight = highlight
			last = it.Page()
		case KindSwitch, KindFan:
			highlight++
			e.Highlight = highlight
			e.LastFocused = last
			last = it.Page()
		}
		tl.Entries = append(tl.Entries, e)
	}

	tl.Total = frame
	tl.Highlights = highlight
	return tl
}
