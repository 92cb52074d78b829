package anim

import "math"

// SpringConfig holds the oscillator constants. Zero Mass means 1 and zero
// Stiffness means 100.
type SpringConfig struct {
	Damping   float64
	Stiffness float64
	Mass      float64
}

// maxStepMillis caps a single integration step, so low frame rates settle
// the same way they would when sampled more often.
const maxStepMillis = 64.0

type springState struct {
	position float64
	velocity float64
	lastMs   float64
}

// Spring returns the position of a damped oscillator driven from 0 toward 1,
// sampled at frame/fps seconds. Frames before 0 return exactly 0.
func Spring(frame float64, fps int, cfg SpringConfig) float64 {
	if frame <= 0 || fps <= 0 {
		return 0
	}
	cfg = cfg.withDefaults()

	st := springState{}
	whole := math.Floor(frame)
	rest := frame - whole
	for f := 0.0; f <= whole; f++ {
		at := f
		if f == whole {
			at += rest
		}
		st = st.advance(at/float64(fps)*1000, cfg)
	}
	return st.position
}

// Delayed is Spring gated to start delay frames later.
func Delayed(frame, delay float64, fps int, cfg SpringConfig) float64 {
	return Spring(frame-delay, fps, cfg)
}

func (c SpringConfig) withDefaults() SpringConfig {
	if c.Mass <= 0 {
		c.Mass = 1
	}
	if c.Stiffness <= 0 {
		c.Stiffness = 100
	}
	if c.Damping < 0 {
		c.Damping = 0
	}
	return c
}

func (s springState) advance(nowMs float64, cfg SpringConfig) springState {
	dt := math.Min(nowMs-s.lastMs, maxStepMillis)
	t := dt / 1000

	const target = 1.0
	v0 := -s.velocity
	x0 := target - s.position

	zeta := cfg.Damping / (2 * math.Sqrt(cfg.Stiffness*cfg.Mass))
	omega0 := math.Sqrt(cfg.Stiffness / cfg.Mass)

	next := springState{lastMs: nowMs}
	if zeta < 1 {
		omega1 := omega0 * math.Sqrt(1-zeta*zeta)
		sin1, cos1 := math.Sincos(omega1 * t)
		envelope := math.Exp(-zeta * omega0 * t)
		frag := envelope * (sin1*((v0+zeta*omega0*x0)/omega1) + x0*cos1)
		next.position = target - frag
		next.velocity = zeta*omega0*frag - envelope*(cos1*(v0+zeta*omega0*x0)-omega1*x0*sin1)
		return next
	}

	// Critically damped form, also used for overdamped configs.
	envelope := math.Exp(-omega0 * t)
	next.position = target - envelope*(x0+(v0+omega0*x0)*t)
	next.velocity = envelope * (v0*(t*omega0-1) + t*x0*omega0*omega0)
	return next
}
