package lfo

import (
	"fmt"
	"math"
)

const (
	defaultFrequencyHz  = 1.0
	defaultPhaseDegrees = 0.0

	// Slew ratio of the exponential family. Chosen so its average rate of
	// change matches the other families at the same frequency.
	expSlewRatio = 1.3133

	// Soft-clip drive of the square shape.
	squareDrive = 30.0
	squareGain  = 16.0
)

// Option mutates bank construction parameters.
type Option func(*config) error

type config struct {
	frequency float64
	phase     float64
	shape     Shape
}

func defaultConfig() config {
	return config{
		frequency: defaultFrequencyHz,
		phase:     defaultPhaseDegrees,
		shape:     IntegratedTriangle,
	}
}

// WithFrequency sets the oscillation rate in Hz. Zero is valid and
// freezes every family at its initial value.
func WithFrequency(hz float64) Option {
	return func(cfg *config) error {
		if hz < 0 || math.IsNaN(hz) || math.IsInf(hz, 0) {
			return fmt.Errorf("lfo frequency must be >= 0 and finite: %f", hz)
		}

		cfg.frequency = hz

		return nil
	}
}

// WithPhase sets the initial phase offset in degrees.
func WithPhase(degrees float64) Option {
	return func(cfg *config) error {
		if math.IsNaN(degrees) || math.IsInf(degrees, 0) {
			return fmt.Errorf("lfo phase must be finite: %f", degrees)
		}

		cfg.phase = degrees

		return nil
	}
}

// WithShape selects the initially active waveform family.
func WithShape(s Shape) Option {
	return func(cfg *config) error {
		if s < IntegratedTriangle || s > HyperSine {
			return fmt.Errorf("lfo shape out of range: %d", int(s))
		}

		cfg.shape = s

		return nil
	}
}

// intTriState drives the integrated-triangle family. The ramp variable
// moves linearly between the bounds; the output accumulates the ramp and
// clamps to [0,1]. Rate changes land in the pending fields and are adopted
// at the next bound flip, so the waveform never jumps mid-ramp.
type intTriState struct {
	upper, lower         float64 // active ramp bounds
	upperNext, lowerNext float64 // bounds adopted at the next flip
	slopeUp, slopeDown   float64 // pending signed slopes
	slope                float64 // active signed slope
	ramp                 float64 // triangular ramp variable
	acc                  float64 // integrated output in [0,1]
	delay                int     // startup delay realizing the phase offset
}

// triState drives the plain triangle family.
type triState struct {
	step float64 // per-sample increment
	sign float64 // +1 ascending, -1 descending
	pos  float64 // current position in [0,1]
}

// sineState drives the sine family via a coupled recurrence pair. The
// square and hyper-sine shapes derive their output from this state.
type sineState struct {
	k   float64 // rotation coefficient
	sin float64
	cos float64
}

// expState drives the exponential family: the value multiplies by the
// active coefficient and the direction flips at the bounds.
type expState struct {
	grow  float64 // coefficient > 1
	decay float64 // coefficient < 1
	coef  float64 // active coefficient
	value float64
	min   float64 // lower bound, 1/e
	max   float64 // upper bound, 1 + 1/e
}

// rlxState drives the relaxation family: a one-pole filter toward an
// alternating drive target.
type rlxState struct {
	pole  float64
	gain  float64 // 1 - pole
	drive float64 // active target, flips at the 0/1 crossings
	max   float64 // upper target, 1/(1-1/e)
	min   float64 // lower target, 1 - upper
	value float64
}

// Bank is a bank of low-frequency oscillators sharing one rate. Only the
// selected shape's family advances on Step; every other family stays
// frozen until selected again.
type Bank struct {
	sampleRate float64
	frequency  float64
	phase      float64
	shape      Shape

	intTri intTriState
	tri    triState
	sine   sineState
	exp    expState
	rlx    rlxState
}

// New creates a bank with every waveform family initialized to the same
// frequency and phase offset.
func New(sampleRate float64, opts ...Option) (*Bank, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("lfo sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(&cfg)
		if err != nil {
			return nil, err
		}
	}

	b := &Bank{
		sampleRate: sampleRate,
		frequency:  cfg.frequency,
		phase:      cfg.phase,
		shape:      cfg.shape,
	}

	b.init()

	return b, nil
}

// init derives every family's coefficients and positions from the stored
// frequency and phase.
func (b *Bank) init() {
	fs := b.sampleRate
	fosc := b.frequency
	ts := 1.0 / fs
	frq := 2.0 * fosc
	t := 4.0 * frq * frq * ts * ts

	// The phase offset becomes a startup delay for the integrated
	// triangle: a fraction of one period spent emitting zeros. A zero
	// rate has no period, so the delay collapses to zero.
	p := b.phase / 180.0
	if p < 0 {
		p = -p
	}
	delay := 0
	if frq > 0 {
		delay = int(p / frq * fs)
	}

	it := &b.intTri
	it.upper = 2.0 * ts * frq
	it.upperNext = it.upper
	it.lower = -it.upper
	it.lowerNext = it.lower
	it.slopeUp = t
	it.slopeDown = -t
	it.slope = t
	it.ramp = 0
	it.acc = 0
	it.delay = delay

	// Triangle position mirrors around the half cycle so phases in
	// [180,360) start on the descending leg.
	tr := &b.tri
	tr.step = frq / fs
	tr.sign = 1
	p = b.phase / 180.0
	if p >= 1 {
		p -= 1
		tr.sign = -1
	}
	if p < 0 {
		p = 0
		tr.sign = 1
	}
	tr.pos = p

	sn := &b.sine
	sn.k = math.Pi * frq / fs
	sn.sin = math.Sin(2 * math.Pi * b.phase / 360.0)
	sn.cos = math.Cos(2 * math.Pi * b.phase / 360.0)

	ie := 1.0 / (1.0 - 1.0/math.E)
	k := math.Exp(-2.0 * fosc / fs)
	rl := &b.rlx
	rl.pole = k
	rl.gain = 1.0 - k
	rl.drive = ie
	rl.max = ie
	rl.min = 1.0 - ie
	rl.value = 0

	k = math.Exp(-2.0 * expSlewRatio * fosc / fs)
	ex := &b.exp
	ex.decay = k
	ex.grow = 1.0 / k
	ex.coef = k
	ex.min = 1.0 / math.E
	ex.max = 1.0 + 1.0/math.E
	ex.value = ex.min
}

// Step advances the selected family by one sample and returns its output.
func (b *Bank) Step() float64 {
	switch b.shape {
	case IntegratedTriangle:
		return b.stepIntTri()

	case Triangle:
		return b.stepTri()

	case Sine:
		return b.stepSine()

	case Square:
		// Amplify and soft-clip the sine family.
		v := b.stepSine() - 0.5
		if v > 0 {
			v *= 1.0 / (1.0 + squareDrive*v)
		} else {
			v *= 1.0 / (1.0 - squareDrive*v)
		}
		v *= squareGain
		return v + 0.5

	case Exponential:
		return b.stepExp()

	case Relaxation:
		return b.stepRlx()

	case Hyper:
		v := b.stepIntTri()
		return 1.0 - math.Abs(v-0.5)

	case HyperSine:
		v := b.stepSine()
		return 1.0 - math.Abs(v-0.5)

	default:
		return b.stepIntTri()
	}
}

func (b *Bank) stepIntTri() float64 {
	s := &b.intTri
	if s.delay > 0 {
		s.delay--
		s.acc = 0
		return 0
	}

	s.ramp += s.slope
	if s.ramp >= s.upper {
		s.slope = s.slopeDown
		// Snap onto the pending bounds; after a rate change this is where
		// the new coefficients take over.
		s.ramp = s.upperNext
		s.upper = s.upperNext
		s.lower = s.lowerNext
	} else if s.ramp <= s.lower {
		s.slope = s.slopeUp
		s.ramp = s.lowerNext
		s.upper = s.upperNext
		s.lower = s.lowerNext
	}

	s.acc += s.ramp
	if s.acc > 1 {
		s.acc = 1
	}
	if s.acc < 0 {
		s.acc = 0
	}

	return s.acc
}

func (b *Bank) stepTri() float64 {
	s := &b.tri
	s.pos += s.step * s.sign
	if s.pos >= 1 {
		s.sign = -1
	}
	if s.pos <= 0 {
		s.sign = 1
	}
	return s.pos
}

func (b *Bank) stepSine() float64 {
	s := &b.sine
	s.sin += s.cos * s.k
	s.cos -= s.sin * s.k
	return 0.5 * (1.0 + s.cos)
}

func (b *Bank) stepExp() float64 {
	s := &b.exp
	s.value *= s.coef
	if s.value >= s.max {
		s.coef = s.decay
	} else if s.value <= s.min {
		s.coef = s.grow
	}
	return s.value - s.min
}

func (b *Bank) stepRlx() float64 {
	s := &b.rlx
	s.value = s.drive*s.gain + s.pole*s.value
	if s.value >= 1 {
		s.drive = s.min
	} else if s.value <= 0 {
		s.drive = s.max
	}
	return s.value
}

// SetFrequency changes the oscillation rate without resetting any
// family's position. The integrated triangle adopts the new rate at its
// next bound flip; the exponential keeps traveling in its current
// direction under the new coefficients. Zero freezes every family at
// its current value.
func (b *Bank) SetFrequency(hz float64) error {
	if hz < 0 || math.IsNaN(hz) || math.IsInf(hz, 0) {
		return fmt.Errorf("lfo frequency must be >= 0 and finite: %f", hz)
	}

	fs := b.sampleRate
	ts := 1.0 / fs
	frq := 2.0 * hz
	t := 4.0 * frq * frq * ts * ts

	b.frequency = hz

	it := &b.intTri
	it.upperNext = 2.0 * ts * frq
	it.lowerNext = -it.upperNext
	it.slopeUp = t
	it.slopeDown = -t

	b.tri.step = frq / fs
	b.sine.k = math.Pi * frq / fs

	k := math.Exp(-2.0 * hz / fs)
	b.rlx.pole = k
	b.rlx.gain = 1.0 - k

	k = math.Exp(-2.0 * expSlewRatio * hz / fs)
	ex := &b.exp
	ex.decay = k
	ex.grow = 1.0 / k
	if ex.coef >= 1 {
		ex.coef = ex.grow
	} else {
		ex.coef = ex.decay
	}
	if ex.value < ex.min {
		ex.value = ex.min
	}
	if ex.value > ex.max {
		ex.value = ex.max
	}

	return nil
}

// SetShape selects the active waveform family. Selection is a pure switch:
// no family's state is touched, so switching away and back resumes the
// waveform exactly where it stopped.
func (b *Bank) SetShape(s Shape) error {
	if s < IntegratedTriangle || s > HyperSine {
		return fmt.Errorf("lfo shape out of range: %d", int(s))
	}

	b.shape = s

	return nil
}

// SetPhase stores a new phase offset in degrees. It takes effect on the
// next Reset.
func (b *Bank) SetPhase(degrees float64) error {
	if math.IsNaN(degrees) || math.IsInf(degrees, 0) {
		return fmt.Errorf("lfo phase must be finite: %f", degrees)
	}

	b.phase = degrees

	return nil
}

// Reset reinitializes every family from the stored frequency and phase.
func (b *Bank) Reset() {
	b.init()
}

// Frequency returns the oscillation rate in Hz.
func (b *Bank) Frequency() float64 { return b.frequency }

// Phase returns the phase offset in degrees.
func (b *Bank) Phase() float64 { return b.phase }

// SampleRate returns the rate Step is expected to be called at, in Hz.
func (b *Bank) SampleRate() float64 { return b.sampleRate }

// Shape returns the active waveform family.
func (b *Bank) Shape() Shape { return b.shape }
