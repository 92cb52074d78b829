package anim

import (
	"errors"
	"fmt"
	"math"
)

// ErrRange is returned (or raised) for input/output ranges that cannot be mapped.
var ErrRange = errors.New("anim: invalid interpolation range")

// RangeError describes why a pair of ranges was rejected.
type RangeError struct {
	Input  []float64
	Output []float64
	Reason string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("anim: invalid interpolation range %v -> %v: %s", e.Input, e.Output, e.Reason)
}

func (e *RangeError) Is(target error) bool { return target == ErrRange }

// Extrapolate controls what happens outside the first/last breakpoint.
type Extrapolate int

const (
	// Extend continues the slope of the outermost segment.
	Extend Extrapolate = iota
	// Clamp holds the boundary output value.
	Clamp
	// Wrap folds the input back into the segment (modulo its width).
	Wrap
)

// Options configures Interpolate. The zero value extends on both sides without easing.
type Options struct {
	Left   Extrapolate
	Right  Extrapolate
	Easing Curve
}

// Clamped holds both ends.
var Clamped = Options{Left: Clamp, Right: Clamp}

// ClampRight extends to the left and clamps to the right.
var ClampRight = Options{Right: Clamp}

// Eased returns clamped options using the given curve.
func Eased(c Curve) Options {
	return Options{Left: Clamp, Right: Clamp, Easing: c}
}

// CheckRange validates the breakpoints used by Interpolate.
func CheckRange(input, output []float64) error {
	if len(input) < 2 {
		return &RangeError{Input: input, Output: output, Reason: "need at least two breakpoints"}
	}
	if len(input) != len(output) {
		return &RangeError{Input: input, Output: output, Reason: "input and output lengths differ"}
	}
	for i, v := range input {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &RangeError{Input: input, Output: output, Reason: fmt.Sprintf("breakpoint %d is not finite", i)}
		}
		if i > 0 && v <= input[i-1] {
			return &RangeError{Input: input, Output: output, Reason: fmt.Sprintf("segment %d has zero or negative width", i-1)}
		}
	}
	for i, v := range output {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &RangeError{Input: input, Output: output, Reason: fmt.Sprintf("output %d is not finite", i)}
		}
	}
	return nil
}

// Interpolate maps x from input to output piecewise linearly.
// Invalid ranges are programming errors and panic with a *RangeError.
func Interpolate(x float64, input, output []float64, opts Options) float64 {
	if err := CheckRange(input, output); err != nil {
		panic(err)
	}

	i := 1
	for ; i < len(input)-1; i++ {
		if input[i] >= x {
			break
		}
	}
	return segment(x, input[i-1], input[i], output[i-1], output[i], opts)
}

func segment(x, inMin, inMax, outMin, outMax float64, opts Options) float64 {
	width := inMax - inMin

	if x < inMin {
		switch opts.Left {
		case Clamp:
			x = inMin
		case Wrap:
			x = wrap(x, inMin, width)
		}
	}
	if x > inMax {
		switch opts.Right {
		case Clamp:
			x = inMax
		case Wrap:
			x = wrap(x, inMin, width)
		}
	}

	if outMin == outMax {
		return outMin
	}

	t := (x - inMin) / width
	if opts.Easing != nil {
		t = opts.Easing(t)
	}
	return outMin + t*(outMax-outMin)
}

func wrap(x, min, width float64) float64 {
	return math.Mod(math.Mod(x-min, width)+width, width) + min
}

// Lerp maps t in [0,1] onto [a,b] without clamping. Spring progress is
// projected onto a property this way.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

