package anim

// Curve reshapes linear progress t (nominally in [0,1]).
type Curve func(t float64) float64

// Linear returns t unchanged.
func Linear(t float64) float64 { return t }

// Cubic is the ease-in cubic t^3.
func Cubic(t float64) float64 { return t * t * t }

// OutCubic is 1-(1-t)^3.
func OutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// InOutCubic accelerates through the first half and decelerates through the second.
func InOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

// Back returns the backtracking cubic t^2((s+1)t - s) for overshoot s.
func Back(s float64) Curve {
	return func(t float64) float64 {
		return t * t * ((s+1)*t - s)
	}
}

// Out runs c backwards: 1 - c(1-t).
func Out(c Curve) Curve {
	return func(t float64) float64 {
		return 1 - c(1-t)
	}
}

// InOut applies c to the first half and its mirror to the second.
func InOut(c Curve) Curve {
	return func(t float64) float64 {
		if t < 0.5 {
			return c(t*2) / 2
		}
		return 1 - c((1-t)*2)/2
	}
}

// OutBack overshoots past 1 and settles back.
func OutBack(s float64) Curve {
	return Out(Back(s))
}
