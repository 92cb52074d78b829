package system

import (
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFindLatest(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	files := []struct {
		name string
		age  time.Duration
	}{
		{"old.pdf", 3 * time.Hour},
		{"new.PDF", time.Hour},
		{"newest.mp3", 0},
		{"notes.txt", 0},
	}
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		mt := now.Add(-f.age)
		if err := os.Chtimes(path, mt, mt); err != nil {
			t.Fatal(err)
		}
	}

	got, err := FindLatestPDF(dir)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(got) != "new.PDF" {
		t.Errorf("FindLatestPDF = %s, want new.PDF", got)
	}

	got, err = FindLatestAudio(dir)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(got) != "newest.mp3" {
		t.Errorf("FindLatestAudio = %s, want newest.mp3", got)
	}

	if _, err := FindLatestShowcase(dir); err == nil {
		t.Error("expected an error when no showcase file exists")
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		out     string
		want    float64
		wantErr bool
	}{
		{"12.500000\n", 12.5, false},
		{"  3\n", 3, false},
		{"N/A", 0, true},
	}
	for _, tt := range tests {
		got, err := parseDuration(tt.out)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseDuration(%q) = %v, %v", tt.out, got, err)
		}
	}
}

func TestPickEncoder(t *testing.T) {
	tests := []struct {
		list string
		want string
	}{
		{" V....D h264_nvenc  NVIDIA NVENC H.264 encoder", "h264_nvenc"},
		{" V....D h264_videotoolbox\n V....D h264_nvenc", "h264_videotoolbox"},
		{" V....D libx264", "libx264"},
		{"", "libx264"},
	}
	for _, tt := range tests {
		if got := pickEncoder(tt.list); got != tt.want {
			t.Errorf("pickEncoder(%q) = %s, want %s", tt.list, got, tt.want)
		}
	}
}

func TestWorkersFor(t *testing.T) {
	const frame = 1920 * 1080 * 4 * 3
	tests := []struct {
		cores     int
		available uint64
		want      int
	}{
		{8, 0, 7},
		{8, 100 * frame, 7},
		{8, 6 * frame, 3},
		{1, 100 * frame, 1},
		{16, frame, 1},
	}
	for _, tt := range tests {
		if got := workersFor(tt.cores, tt.available, frame); got != tt.want {
			t.Errorf("workersFor(%d, %d) = %d, want %d", tt.cores, tt.available, got, tt.want)
		}
	}
	if n := RecommendedWorkers(1920, 1080); n < 1 {
		t.Errorf("RecommendedWorkers = %d", n)
	}
}

func TestImagePool(t *testing.T) {
	rect := image.Rect(0, 0, 8, 4)
	img := GetImage(rect)
	if img.Bounds() != rect {
		t.Fatalf("bounds = %v, want %v", img.Bounds(), rect)
	}
	PutImage(img)
	PutImage(nil)

	other := GetImage(image.Rect(0, 0, 2, 2))
	if other.Bounds().Dx() != 2 {
		t.Errorf("pool mixed sizes: %v", other.Bounds())
	}
}
