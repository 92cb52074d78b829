package timeline

// defaultEntry stands in when no entry has started yet.
var defaultEntry = Entry{Item: Stack{}, Duration: DefaultStackFrames}

// At returns the last entry whose start is at or before frame. Frames past
// the end stay on the final entry.
func (t *Timeline) At(frame int) Entry {
	for i := len(t.Entries) - 1; i >= 0; i-- {
		if frame >= t.Entries[i].Start {
			return t.Entries[i]
		}
	}
	return defaultEntry
}

// FirstFocusFrame is the start of the first non-stack entry, or 0.
func (t *Timeline) FirstFocusFrame() int {
	for _, e := range t.Entries {
		if e.Kind() != KindStack {
			return e.Start
		}
	}
	return 0
}

// IsEndingEntry reports whether e is the closing stack: the final entry,
// of kind stack, in a timeline with more than one entry.
func (t *Timeline) IsEndingEntry(e Entry) bool {
	n := len(t.Entries)
	return n > 1 && e.Index == n-1 && e.Kind() == KindStack
}

// IsEnding reports whether frame falls in the closing stack.
func (t *Timeline) IsEnding(frame int) bool {
	n := len(t.Entries)
	if n < 2 {
		return false
	}
	last := t.Entries[n-1]
	return last.Kind() == KindStack && frame >= last.Start
}
