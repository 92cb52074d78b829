package timeline

import "fmt"

// Kind names a scene choreography.
type Kind int

const (
	KindStack Kind = iota
	KindFocus
	KindSwitch
	KindFan
)

func (k Kind) String() string {
	switch k {
	case KindStack:
		return "stack"
	case KindFocus:
		return "focus"
	case KindSwitch:
		return "switch"
	case KindFan:
		return "fan"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "stack":
		return KindStack, nil
	case "focus":
		return KindFocus, nil
	case "switch":
		return KindSwitch, nil
	case "fan":
		return KindFan, nil
	}
	return 0, fmt.Errorf("unknown scene type %q", s)
}

// Highlighted reports whether scenes of this kind count toward the "current/total" caption.
func (k Kind) Highlighted() bool {
	return k != KindStack
}

// Default scene lengths in frames when a script item omits its duration.
const (
	DefaultStackFrames  = 60
	DefaultFocusFrames  = 90
	DefaultSwitchFrames = 90
	DefaultFanFrames    = 120
)

// Item is one scene directive. The set of implementations is closed:
// Stack, Focus, Switch and Fan.
type Item interface {
	Kind() Kind
	// Frames is the scene length, falling back to the kind's default.
	Frames() int
	// Page is the target page, 0 for Stack.
	Page() int
	// Title overrides the caption title; empty when unset.
	Title() string
	item()
}

// Stack shows the whole deck.
type Stack struct {
	Duration int
}

// Focus zooms into one page.
type Focus struct {
	Target   int
	Duration int
	Caption  string
}

// Switch moves from the previously focused page to Target.
type Switch struct {
	Target   int
	Duration int
	Caption  string
}

// Fan spreads the pages into an arc centered on Target.
type Fan struct {
	Target   int
	Duration int
	Caption  string
}

func (Stack) Kind() Kind  { return KindStack }
func (Focus) Kind() Kind  { return KindFocus }
func (Switch) Kind() Kind { return KindSwitch }
func (Fan) Kind() Kind    { return KindFan }

func (s Stack) Frames() int  { return orDefault(s.Duration, DefaultStackFrames) }
func (s Focus) Frames() int  { return orDefault(s.Duration, DefaultFocusFrames) }
func (s Switch) Frames() int { return orDefault(s.Duration, DefaultSwitchFrames) }
func (s Fan) Frames() int    { return orDefault(s.Duration, DefaultFanFrames) }

func (Stack) Page() int    { return 0 }
func (s Focus) Page() int  { return s.Target }
func (s Switch) Page() int { return s.Target }
func (s Fan) Page() int    { return s.Target }

func (Stack) Title() string    { return "" }
func (s Focus) Title() string  { return s.Caption }
func (s Switch) Title() string { return s.Caption }
func (s Fan) Title() string    { return s.Caption }

func (Stack) item()  {}
func (Focus) item()  {}
func (Switch) item() {}
func (Fan) item()    {}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// Validate checks the page and duration of a single item.
func Validate(it Item) error {
	if it == nil {
		return fmt.Errorf("missing scene")
	}
	switch v := it.(type) {
	case Stack:
		if v.Duration < 0 {
			return fmt.Errorf("stack: duration must be positive, got %d", v.Duration)
		}
	case Focus, Switch, Fan:
		if it.Page() <= 0 {
			return fmt.Errorf("%s: page must be a positive integer, got %d", it.Kind(), it.Page())
		}
		if d := duration(it); d < 0 {
			return fmt.Errorf("%s: duration must be positive, got %d", it.Kind(), d)
		}
	default:
		panic(fmt.Sprintf("timeline: unexpected item %T", it))
	}
	return nil
}

func duration(it Item) int {
	switch v := it.(type) {
	case Stack:
		return v.Duration
	case Focus:
		return v.Duration
	case Switch:
		return v.Duration
	case Fan:
		return v.Duration
	}
	panic(fmt.Sprintf("timeline: unexpected item %T", it))
}

// Synthesize builds the default script for a highlight list: an opening stack,
// a focus on the first highlight, switches to the rest and a closing stack.
// An empty list yields a single 120-frame stack.
func Synthesize(highlights []int) []Item {
	if len(highlights) == 0 {
		return []Item{Stack{Duration: 120}}
	}

	items := make([]Item, 0, len(highlights)+2)
	items = append(items, Stack{Duration: 60})
	for i, page := range highlights {
		if i == 0 {
			items = append(items, Focus{Target: page, Duration: 120})
			continue
		}
		items = append(items, Switch{Target: page, Duration: 120})
	}
	return append(items, Stack{Duration: 60})
}

// FallbackFrames is the length of the composition when neither a script nor
// highlights are given. The whole of it is one stack scene.
const FallbackFrames = 720

// Plan picks the script to compile: the custom script, else one synthesized
// from highlights, else a single FallbackFrames stack.
func Plan(script []Item, highlights []int) []Item {
	if len(script) > 0 {
		return script
	}
	if len(highlights) > 0 {
		return Synthesize(highlights)
	}
	return []Item{Stack{Duration: FallbackFrames}}
}

// Estimate sizes a render before the document is opened.
func Estimate(script []Item, highlights []int) int {
	switch {
	case len(script) > 0:
		total := 0
		for _, it := range script {
			total += it.Frames()
		}
		return total
	case len(highlights) > 0:
		return 60 + 120 + (len(highlights)-1)*120 + 60
	}
	return FallbackFrames
}
