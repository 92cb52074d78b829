package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/ivlev/pdfshowcase/internal/composer"
	"github.com/ivlev/pdfshowcase/internal/config"
	"github.com/ivlev/pdfshowcase/internal/scene"
	"github.com/ivlev/pdfshowcase/internal/timeline"
)

func TestParsePages(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"", nil, false},
		{"3", []int{3}, false},
		{"3, 5,7", []int{3, 5, 7}, false},
		{"3,x", nil, true},
	}
	for _, tt := range tests {
		got, err := parsePages(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parsePages(%q) error = %v", tt.in, err)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("parsePages(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parsePages(%q) = %v, want %v", tt.in, got, tt.want)
			}
		}
	}
}

func TestPrintPlan(t *testing.T) {
	items := []timeline.Item{
		timeline.Stack{Duration: 60},
		timeline.Focus{Target: 2, Duration: 120, Caption: "日本語の資料"},
		timeline.Switch{Target: 3, Duration: 90},
		timeline.Stack{Duration: 60},
	}
	pages := []int{1, 2, 3}
	tl := timeline.Compile(items, pages)
	comp := composer.New(tl, pages, scene.DefaultViewport(30, 1920, 1080), composer.Text{}, 0)

	var buf bytes.Buffer
	printPlan(&buf, tl, comp, 30)
	out := buf.String()

	for _, want := range []string{"focus", "switch", "Page 3", "(финал)", "Всего: 330 кадров (11.0s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("plan missing %q:\n%s", want, out)
		}
	}

	lines := strings.Split(out, "\n")
	header := lines[0]
	col := runewidth.StringWidth(header[:strings.Index(header, "Заголовок")])
	for _, title := range []string{"日本語の資料", "Page 3"} {
		for _, line := range lines {
			if i := strings.Index(line, title); i >= 0 {
				if got := runewidth.StringWidth(line[:i]); got != col {
					t.Errorf("%q starts at cell %d, header at %d", title, got, col)
				}
			}
		}
	}
}

func TestExportScript(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	err := exportScript(&config.Showcase{Src: "deck.pdf", Highlights: []int{0, 3}}, bad)
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("zero highlight err = %v, want ErrInvalidConfig", err)
	}
	if _, err := os.Stat(bad); !os.IsNotExist(err) {
		t.Error("invalid showcase should not be exported")
	}

	good := filepath.Join(dir, "good.yaml")
	if err := exportScript(&config.Showcase{Src: "deck.pdf", Highlights: []int{2, 3}}, good); err != nil {
		t.Fatalf("exportScript: %v", err)
	}
	script, err := timeline.ReadScript(good)
	if err != nil {
		t.Fatalf("ReadScript: %v", err)
	}
	if pages := timeline.ScriptPages(script); len(pages) != 2 || pages[0] != 2 || pages[1] != 3 {
		t.Errorf("exported pages = %v, want [2 3]", pages)
	}
}

func TestDefaultOutput(t *testing.T) {
	got := defaultOutput("output", "https://example.com/docs/My Deck.pdf")
	if !strings.HasPrefix(got, "output/My_Deck_") || !strings.HasSuffix(got, ".mp4") {
		t.Errorf("defaultOutput = %s", got)
	}
}
