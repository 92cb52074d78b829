package composer

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/ivlev/pdfshowcase/internal/scene"
	"github.com/ivlev/pdfshowcase/internal/timeline"
)

func newTestComposer(items []timeline.Item, text Text) *Composer {
	pages := []int{1, 2, 3, 4}
	tl := timeline.Compile(items, pages)
	return New(tl, pages, scene.DefaultViewport(30, 1920, 1080), text, 0)
}

func TestVolumeEnvelope(t *testing.T) {
	tests := []struct {
		frame int
		want  float64
	}{
		{-5, 0},
		{0, 0},
		{30, 0.25},
		{60, 0.5},
		{300, 0.5},
		{540, 0.5},
		{570, 0.25},
		{600, 0},
		{700, 0},
	}
	for _, tt := range tests {
		if got := Volume(tt.frame, 600, 30); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Volume(%d) = %v, want %v", tt.frame, got, tt.want)
		}
	}
}

func TestVolumeShortVideo(t *testing.T) {
	if got := Volume(30, 60, 30); got != 0.5 {
		t.Errorf("peak = %v, want 0.5", got)
	}
	if got := Volume(15, 60, 30); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("Volume(15) = %v, want 0.25", got)
	}
	if got := Volume(10, 0, 30); got != 0 {
		t.Errorf("empty video volume = %v", got)
	}
}

func TestVolumeFilter(t *testing.T) {
	f := VolumeFilter(600, 30)
	for _, want := range []string{"volume='", "lt(t,2.000000)", "gt(t,18.000000)", "eval=frame"} {
		if !strings.Contains(f, want) {
			t.Errorf("filter %q missing %q", f, want)
		}
	}
	if VolumeFilter(0, 30) != "volume=0" {
		t.Errorf("empty filter = %q", VolumeFilter(0, 30))
	}
}

func TestFrameOverlays(t *testing.T) {
	c := newTestComposer(timeline.Synthesize([]int{2, 4}), Text{
		Title:            "Deck",
		PageTitles:       map[string]string{"2": "Intro"},
		PageDescriptions: map[string]string{"2": "First look"},
	})

	f := c.Frame(0)
	if f.Caption != nil || f.Ending != nil || f.Title == nil {
		t.Fatalf("opening frame overlays: caption %v ending %v title %v", f.Caption, f.Ending, f.Title)
	}

	f = c.Frame(61)
	if f.Caption == nil {
		t.Fatal("focus frame without caption")
	}
	if f.Caption.Title != "Intro" || f.Caption.Badge != "1 / 2" {
		t.Errorf("focus caption = %+v", f.Caption)
	}
	if f.Local != 1 {
		t.Errorf("Local = %d, want 1", f.Local)
	}

	f = c.Frame(200)
	if f.Caption == nil || f.Caption.Title != "Page 4" || f.Caption.Badge != "2 / 2" {
		t.Errorf("switch caption = %+v", f.Caption)
	}

	f = c.Frame(c.Total() - 1)
	if f.Ending == nil || f.Title != nil {
		t.Errorf("closing frame: ending %v title %v", f.Ending, f.Title)
	}
}

func TestFrameWithoutTitle(t *testing.T) {
	c := newTestComposer(timeline.Synthesize([]int{2}), Text{})
	if f := c.Frame(10); f.Title != nil {
		t.Errorf("title overlay without a title: %+v", f.Title)
	}
}

func TestCaptionTitleFallback(t *testing.T) {
	c := newTestComposer([]timeline.Item{
		timeline.Focus{Target: 2, Caption: "Custom"},
		timeline.Fan{Target: 3},
	}, Text{PageTitles: map[string]string{"2": "Ignored", "3": "Third"}})

	tl := c.Timeline()
	if got := c.Caption(tl.Entries[0]).Title; got != "Custom" {
		t.Errorf("item title = %q, want Custom", got)
	}
	if got := c.Caption(tl.Entries[1]).Title; got != "Third" {
		t.Errorf("page title = %q, want Third", got)
	}
}

func TestRequiredPages(t *testing.T) {
	c := newTestComposer(timeline.Synthesize([]int{2, 4}), Text{})
	want := []PageRequest{{1, 1}, {2, 2}, {3, 1}, {4, 2}}
	if got := c.RequiredPages(); !reflect.DeepEqual(got, want) {
		t.Errorf("RequiredPages = %v, want %v", got, want)
	}
}

func TestTotalDefaultsToTimeline(t *testing.T) {
	c := newTestComposer(timeline.Synthesize([]int{2}), Text{})
	if c.Total() != 240 {
		t.Errorf("Total = %d, want 240", c.Total())
	}
}
