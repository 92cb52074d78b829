package composer

import (
	"fmt"
	"math"

	"github.com/ivlev/pdfshowcase/internal/anim"
)

const (
	// MusicVolume is the level of the background track between fades.
	MusicVolume = 0.5
	fadeSeconds = 2
)

// fadeFrames shortens the fades for videos under four seconds so the
// envelope stays well formed.
func fadeFrames(total, fps int) float64 {
	return math.Min(float64(fadeSeconds*fps), float64(total)/2)
}

// Volume is the background music level at a frame: a ramp up over the first
// two seconds, a ramp down over the last two, silent outside [0, total].
func Volume(frame, total, fps int) float64 {
	fade := fadeFrames(total, fps)
	if fade <= 0 {
		return 0
	}
	n := float64(total)
	if 2*fade >= n {
		return anim.Interpolate(float64(frame), []float64{0, fade, n}, []float64{0, MusicVolume, 0}, anim.Clamped)
	}
	return anim.Interpolate(float64(frame),
		[]float64{0, fade, n - fade, n},
		[]float64{0, MusicVolume, MusicVolume, 0},
		anim.Clamped)
}

// VolumeFilter is Volume as an ffmpeg volume filter evaluated per audio frame.
func VolumeFilter(total, fps int) string {
	fade := fadeFrames(total, fps)
	if fade <= 0 || fps <= 0 {
		return "volume=0"
	}
	f := fade / float64(fps)
	d := float64(total) / float64(fps)
	return fmt.Sprintf("volume='if(lt(t,%f),%f*t/%f,if(gt(t,%f),%f*max(0,%f-t)/%f,%f))':eval=frame",
		f, MusicVolume, f, d-f, MusicVolume, d, f, MusicVolume)
}
