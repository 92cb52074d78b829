package anim

import (
	"errors"
	"math"
	"testing"
)

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestInterpolateClamp(t *testing.T) {
	in := []float64{0, 10}
	out := []float64{0, 100}

	tests := []struct {
		x    float64
		want float64
	}{
		{-5, 0},
		{-0.001, 0},
		{0, 0},
		{2.5, 25},
		{5, 50},
		{10, 100},
		{11, 100},
		{1e6, 100},
	}

	for _, tt := range tests {
		got := Interpolate(tt.x, in, out, Clamped)
		if !approx(got, tt.want, 1e-9) {
			t.Errorf("Interpolate(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}

	if got := Interpolate(5, in, out, Options{}); got != 50 {
		t.Errorf("Interpolate(5) = %v, want exactly 50", got)
	}
}

func TestInterpolateExtend(t *testing.T) {
	in := []float64{0, 10}
	out := []float64{0, 100}

	if got := Interpolate(-5, in, out, Options{}); !approx(got, -50, 1e-9) {
		t.Errorf("left extend = %v, want -50", got)
	}
	if got := Interpolate(20, in, out, Options{}); !approx(got, 200, 1e-9) {
		t.Errorf("right extend = %v, want 200", got)
	}
	if got := Interpolate(20, in, out, ClampRight); got != 100 {
		t.Errorf("ClampRight = %v, want 100", got)
	}
	if got := Interpolate(-5, in, out, ClampRight); !approx(got, -50, 1e-9) {
		t.Errorf("ClampRight left side = %v, want -50", got)
	}
}

func TestInterpolateWrap(t *testing.T) {
	in := []float64{0, 600}
	out := []float64{0, 60}
	opts := Options{Right: Wrap}

	tests := []struct {
		x    float64
		want float64
	}{
		{300, 30},
		{600, 60},
		{900, 30},
		{1200, 0},
		{1500, 30},
	}
	for _, tt := range tests {
		if got := Interpolate(tt.x, in, out, opts); !approx(got, tt.want, 1e-9) {
			t.Errorf("wrap(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestInterpolatePiecewise(t *testing.T) {
	in := []float64{0, 0.3, 1}
	out := []float64{0, 0.8, 1}

	tests := []struct {
		x    float64
		want float64
	}{
		{0, 0},
		{0.15, 0.4},
		{0.3, 0.8},
		{0.65, 0.9},
		{1, 1},
	}
	for _, tt := range tests {
		if got := Interpolate(tt.x, in, out, Clamped); !approx(got, tt.want, 1e-9) {
			t.Errorf("piecewise(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestInterpolateFlatOutput(t *testing.T) {
	if got := Interpolate(7, []float64{0, 10}, []float64{0.5, 0.5}, Options{}); got != 0.5 {
		t.Errorf("flat output = %v, want 0.5", got)
	}
}

func TestInterpolateEasing(t *testing.T) {
	got := Interpolate(5, []float64{0, 10}, []float64{0, 100}, Eased(OutCubic))
	if !approx(got, 87.5, 1e-9) {
		t.Errorf("eased = %v, want 87.5", got)
	}
}

func TestInterpolateRejectsBadRanges(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		out  []float64
	}{
		{"zero width", []float64{0, 0}, []float64{0, 1}},
		{"zero width inner", []float64{0, 5, 5, 10}, []float64{0, 1, 1, 0}},
		{"decreasing", []float64{10, 0}, []float64{0, 1}},
		{"single", []float64{0}, []float64{0}},
		{"length mismatch", []float64{0, 1}, []float64{0, 1, 2}},
		{"nan", []float64{0, math.NaN()}, []float64{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := CheckRange(tt.in, tt.out); !errors.Is(err, ErrRange) {
				t.Fatalf("CheckRange error = %v, want ErrRange", err)
			}

			defer func() {
				r := recover()
				err, ok := r.(error)
				if !ok || !errors.Is(err, ErrRange) {
					t.Errorf("panic = %v, want *RangeError", r)
				}
			}()
			Interpolate(1, tt.in, tt.out, Clamped)
		})
	}
}

func TestCurves(t *testing.T) {
	tests := []struct {
		name string
		c    Curve
		t    float64
		want float64
	}{
		{"linear", Linear, 0.3, 0.3},
		{"cubic", Cubic, 0.5, 0.125},
		{"outCubic", OutCubic, 0.5, 0.875},
		{"outCubic end", OutCubic, 1, 1},
		{"inOutCubic low", InOutCubic, 0.25, 0.0625},
		{"inOutCubic mid", InOutCubic, 0.5, 0.5},
		{"inOutCubic high", InOutCubic, 0.75, 0.9375},
		{"inOut(cubic)", InOut(Cubic), 0.75, 0.9375},
		{"outBack start", OutBack(1.2), 0, 0},
		{"outBack end", OutBack(1.2), 1, 1},
	}
	for _, tt := range tests {
		if got := tt.c(tt.t); !approx(got, tt.want, 1e-9) {
			t.Errorf("%s(%v) = %v, want %v", tt.name, tt.t, got, tt.want)
		}
	}

	// outBack(1.2) overshoots before settling.
	peak := 0.0
	for i := 0; i <= 100; i++ {
		peak = math.Max(peak, OutBack(1.2)(float64(i)/100))
	}
	if peak <= 1 {
		t.Errorf("OutBack peak = %v, want > 1", peak)
	}

	// 1 - back(1-t) with s=1.2 at t=0.5: 1 - 0.25*(2.2*0.5-1.2) = 1.025
	if got := OutBack(1.2)(0.5); !approx(got, 1.025, 1e-9) {
		t.Errorf("OutBack(0.5) = %v, want 1.025", got)
	}
}

func TestSpringGating(t *testing.T) {
	configs := []SpringConfig{
		{Damping: 100, Stiffness: 200},
		{Damping: 80, Stiffness: 100},
		{Damping: 60, Stiffness: 80},
		{Damping: 30, Stiffness: 60, Mass: 0.8},
		{Damping: 10, Stiffness: 100},
	}

	for _, cfg := range configs {
		for _, f := range []float64{-1000, -25, -1, -0.5, 0} {
			if got := Spring(f, 30, cfg); got != 0 {
				t.Errorf("Spring(%v, %+v) = %v, want 0", f, cfg, got)
			}
		}
		if got := Spring(600, 30, cfg); !approx(got, 1, 0.01) {
			t.Errorf("Spring(600, %+v) = %v, want ~1", cfg, got)
		}
	}
}

func TestSpringProgresses(t *testing.T) {
	cfg := SpringConfig{Damping: 80, Stiffness: 100}
	prev := 0.0
	for f := 1.0; f <= 30; f++ {
		got := Spring(f, 30, cfg)
		if got <= prev {
			t.Fatalf("Spring(%v) = %v, not increasing from %v", f, got, prev)
		}
		prev = got
	}
}

func TestSpringUnderdampedOvershoots(t *testing.T) {
	cfg := SpringConfig{Damping: 10, Stiffness: 100}
	peak := 0.0
	for f := 0.0; f < 120; f++ {
		peak = math.Max(peak, Spring(f, 30, cfg))
	}
	if peak <= 1 {
		t.Errorf("underdamped peak = %v, want overshoot", peak)
	}
}

func TestSpringDeterministic(t *testing.T) {
	cfg := SpringConfig{Damping: 60, Stiffness: 80}
	a := Spring(47.5, 30, cfg)
	b := Spring(47.5, 30, cfg)
	if a != b {
		t.Errorf("Spring not deterministic: %v != %v", a, b)
	}
	if got := Delayed(57.5, 10, 30, cfg); got != a {
		t.Errorf("Delayed = %v, want %v", got, a)
	}
}
