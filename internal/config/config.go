package config

import (
	"fmt"

	"github.com/ivlev/pdfshowcase/internal/timeline"
)

// Config holds the render settings. The showcase content lives in Showcase.
type Config struct {
	InputPath    string
	OutputVideo  string
	Width        int
	Height       int
	FPS          int
	Workers      int
	DPI          int
	AudioPath    string
	Preset       string
	VideoEncoder string
	Quality      int
	ShowStats    bool
	BuildVersion string

	// FocusWidth is the on-screen width of a zoomed page in pixels.
	FocusWidth float64
	// AspectRatio is page width over height; 0 takes it from the first page.
	AspectRatio float64
	MaxLayers   int
	PagePolicy  timeline.PagePolicy
	// QR puts a QR code of an http(s) source on the ending card.
	QR bool
}

// Default returns the settings used when no flag overrides them.
func Default() *Config {
	return &Config{
		Width:      1920,
		Height:     1080,
		FPS:        30,
		Workers:    4,
		DPI:        150,
		FocusWidth: 900,
		MaxLayers:  6,
		PagePolicy: timeline.PreferExplicit,
	}
}

// PresetSize maps a format preset to its frame size.
func PresetSize(preset string) (width, height int, ok bool) {
	switch preset {
	case "16:9", "1080p":
		return 1920, 1080, true
	case "720p":
		return 1280, 720, true
	case "9:16":
		return 1080, 1920, true
	case "4:5":
		return 1080, 1350, true
	}
	return 0, 0, false
}

// DefaultQuality picks a quality value suited to the encoder.
func DefaultQuality(encoder string) int {
	switch encoder {
	case "h264_videotoolbox":
		return 75 // битрейт Q*100 кбит/с
	case "h264_nvenc":
		return 28
	default:
		return 23 // CRF x264
	}
}

// Validate checks the render settings.
func (c *Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return &ValidationError{Field: "size", Reason: fmt.Sprintf("must be positive, got %dx%d", c.Width, c.Height)}
	case c.Width%2 != 0 || c.Height%2 != 0:
		return &ValidationError{Field: "size", Reason: fmt.Sprintf("yuv420p needs even dimensions, got %dx%d", c.Width, c.Height)}
	case c.FPS <= 0:
		return &ValidationError{Field: "fps", Reason: fmt.Sprintf("must be positive, got %d", c.FPS)}
	case c.Workers <= 0:
		return &ValidationError{Field: "workers", Reason: fmt.Sprintf("must be positive, got %d", c.Workers)}
	case c.DPI <= 0:
		return &ValidationError{Field: "dpi", Reason: fmt.Sprintf("must be positive, got %d", c.DPI)}
	case c.FocusWidth <= 0:
		return &ValidationError{Field: "focus-width", Reason: fmt.Sprintf("must be positive, got %g", c.FocusWidth)}
	case c.AspectRatio < 0:
		return &ValidationError{Field: "aspect", Reason: fmt.Sprintf("must not be negative, got %g", c.AspectRatio)}
	case c.MaxLayers <= 0:
		return &ValidationError{Field: "layers", Reason: fmt.Sprintf("must be positive, got %d", c.MaxLayers)}
	case c.OutputVideo == "":
		return &ValidationError{Field: "output", Reason: "missing output path"}
	}
	if _, err := timeline.ParsePagePolicy(string(c.PagePolicy)); err != nil {
		return &ValidationError{Field: "page-policy", Reason: err.Error()}
	}
	return nil
}
