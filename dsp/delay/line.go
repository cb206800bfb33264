package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-looper/dsp/core"
	"github.com/cwbudde/algo-looper/dsp/interp"
)

const (
	defaultMaxDelaySeconds = 2.0
	defaultTimeSeconds     = 0.5
	defaultFeedback        = 0.7
	defaultMix             = 0.5
	defaultSmoothing       = 0.01

	minCapacitySamples = 2
)

// Option mutates delay line construction parameters.
type Option func(*config) error

type config struct {
	maxDelaySeconds float64
	timeSeconds     float64
	feedback        float64
	mix             float64
	smoothing       float64
	mode            interp.Mode
}

func defaultConfig() config {
	return config{
		maxDelaySeconds: defaultMaxDelaySeconds,
		timeSeconds:     defaultTimeSeconds,
		feedback:        defaultFeedback,
		mix:             defaultMix,
		smoothing:       defaultSmoothing,
		mode:            interp.Linear,
	}
}

// WithMaxDelay sets the line capacity in seconds.
func WithMaxDelay(seconds float64) Option {
	return func(cfg *config) error {
		if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return fmt.Errorf("delay capacity must be > 0 and finite: %f", seconds)
		}

		cfg.maxDelaySeconds = seconds

		return nil
	}
}

// WithTime sets the initial delay time in seconds. Both target and
// current delay start here, so construction causes no smoothing ramp.
// Times beyond the line capacity clamp to it.
func WithTime(seconds float64) Option {
	return func(cfg *config) error {
		if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return fmt.Errorf("delay time must be >= 0 and finite: %f", seconds)
		}

		cfg.timeSeconds = seconds

		return nil
	}
}

// WithFeedback sets feedback gain in [0, 1].
func WithFeedback(feedback float64) Option {
	return func(cfg *config) error {
		if feedback < 0 || feedback > 1 || math.IsNaN(feedback) {
			return fmt.Errorf("delay feedback must be in [0, 1]: %f", feedback)
		}

		cfg.feedback = feedback

		return nil
	}
}

// WithMix sets wet amount in [0, 1].
func WithMix(mix float64) Option {
	return func(cfg *config) error {
		if mix < 0 || mix > 1 || math.IsNaN(mix) {
			return fmt.Errorf("delay mix must be in [0, 1]: %f", mix)
		}

		cfg.mix = mix

		return nil
	}
}

// WithSmoothing sets the per-sample fraction of the remaining distance
// the delay moves toward its target, in (0, 1].
func WithSmoothing(factor float64) Option {
	return func(cfg *config) error {
		if factor <= 0 || factor > 1 || math.IsNaN(factor) {
			return fmt.Errorf("delay smoothing must be in (0, 1]: %f", factor)
		}

		cfg.smoothing = factor

		return nil
	}
}

// WithMode selects the fractional read interpolation.
func WithMode(mode interp.Mode) Option {
	return func(cfg *config) error {
		if mode != interp.Linear && mode != interp.Hermite {
			return fmt.Errorf("unsupported interpolation mode: %v", mode)
		}

		cfg.mode = mode

		return nil
	}
}

// Line is a smoothed fractional delay with feedback and dry/wet mix.
// The delay time glides toward its target by a fixed fraction of the
// remaining distance per sample, so live modulation stays click free.
type Line struct {
	sampleRate float64
	buffer     []float64
	writePos   int

	target    float64 // delay in samples
	current   float64 // smoothed delay in samples
	smoothing float64
	feedback  float64
	mix       float64
	mode      interp.Mode
}

// New creates a delay line with practical defaults and optional overrides.
func New(sampleRate float64, opts ...Option) (*Line, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("delay sample rate must be > 0 and finite: %f", sampleRate)
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

	size := int(math.Round(cfg.maxDelaySeconds * sampleRate))
	if size < minCapacitySamples {
		return nil, fmt.Errorf("delay capacity must be >= %d samples: %d", minCapacitySamples, size)
	}

	l := &Line{
		sampleRate: sampleRate,
		buffer:     make([]float64, size),
		smoothing:  cfg.smoothing,
		feedback:   cfg.feedback,
		mix:        cfg.mix,
		mode:       cfg.mode,
	}

	l.target = l.clampDelay(cfg.timeSeconds * sampleRate)
	l.current = l.target

	return l, nil
}

// Len returns internal buffer size.
func (l *Line) Len() int {
	return len(l.buffer)
}

// Write writes one sample.
func (l *Line) Write(sample float64) {
	l.buffer[l.writePos] = sample
	l.writePos++
	if l.writePos >= len(l.buffer) {
		l.writePos = 0
	}
}

// Read reads an integer delay in samples.
func (l *Line) Read(delay int) float64 {
	size := len(l.buffer)
	if size == 0 {
		return 0
	}
	readPos := (l.writePos - delay + size) % size
	return l.buffer[readPos]
}

// ReadFractional reads a fractional delay in samples using the
// configured interpolation mode.
func (l *Line) ReadFractional(delay float64) float64 {
	if len(l.buffer) == 0 {
		return 0
	}
	if delay < 0 {
		delay = 0
	}

	if l.mode == interp.Hermite {
		return l.readHermite(delay)
	}

	return l.readLinear(delay)
}

func (l *Line) readLinear(delay float64) float64 {
	maxDelay := float64(len(l.buffer) - 1)
	if delay > maxDelay {
		delay = maxDelay
	}

	p := int(math.Floor(delay))
	t := delay - float64(p)

	return interp.Linear2(t, l.Read(p), l.Read(p+1))
}

func (l *Line) readHermite(delay float64) float64 {
	maxDelay := float64(len(l.buffer) - 3)
	if maxDelay < 0 {
		maxDelay = 0
	}
	if delay > maxDelay {
		delay = maxDelay
	}

	p := int(math.Floor(delay))
	t := delay - float64(p)

	xm1 := l.Read(maxInt(0, p-1))
	x0 := l.Read(p)
	x1 := l.Read(p + 1)
	x2 := l.Read(p + 2)
	return interp.Hermite4(t, xm1, x0, x1, x2)
}

// SetTime sets the target delay in seconds. The current delay glides
// toward it; out-of-range values clamp silently.
func (l *Line) SetTime(seconds float64) {
	l.SetTimeSamples(seconds * l.sampleRate)
}

// SetTimeSamples sets the target delay in samples, clamped silently
// into [0, capacity-1]. NaN keeps the previous target.
func (l *Line) SetTimeSamples(samples float64) {
	if math.IsNaN(samples) {
		return
	}

	l.target = l.clampDelay(samples)
}

// SetFeedback sets feedback gain, clamped silently into [0, 1]. NaN
// keeps the previous value.
func (l *Line) SetFeedback(feedback float64) {
	if math.IsNaN(feedback) {
		return
	}

	l.feedback = core.Clamp(feedback, 0, 1)
}

// SetMix sets wet amount, clamped silently into [0, 1]. NaN keeps the
// previous value.
func (l *Line) SetMix(mix float64) {
	if math.IsNaN(mix) {
		return
	}

	l.mix = core.Clamp(mix, 0, 1)
}

// ProcessSample runs one sample through the delay. The smoothed delay
// advances first and the tap is read before the new input and its
// feedback term are written.
func (l *Line) ProcessSample(in float64) float64 {
	l.current += l.smoothing * (l.target - l.current)

	delayed := l.ReadFractional(l.current)

	l.Write(in + delayed*l.feedback)

	return in*(1-l.mix) + delayed*l.mix
}

// ProcessInPlace applies the delay to buf in place.
func (l *Line) ProcessInPlace(buf []float64) error {
	for i := range buf {
		buf[i] = l.ProcessSample(buf[i])
	}

	return nil
}

// ProcessBuffer fills dst with the processed src. The slices must have
// equal length; they may alias.
func (l *Line) ProcessBuffer(dst, src []float64) error {
	if len(dst) != len(src) {
		return fmt.Errorf("delay block length mismatch: dst=%d src=%d", len(dst), len(src))
	}

	for i := range src {
		dst[i] = l.ProcessSample(src[i])
	}

	return nil
}

// Reset zeroes the buffer and snaps the smoothed delay to its target.
func (l *Line) Reset() {
	for i := range l.buffer {
		l.buffer[i] = 0
	}
	l.writePos = 0
	l.current = l.target
}

// SampleRate returns sample rate in Hz.
func (l *Line) SampleRate() float64 { return l.sampleRate }

// Time returns the target delay in seconds.
func (l *Line) Time() float64 { return l.target / l.sampleRate }

// TimeSamples returns the target delay in samples.
func (l *Line) TimeSamples() float64 { return l.target }

// CurrentTimeSamples returns the smoothed delay in samples.
func (l *Line) CurrentTimeSamples() float64 { return l.current }

// Feedback returns feedback gain in [0, 1].
func (l *Line) Feedback() float64 { return l.feedback }

// Mix returns wet amount in [0, 1].
func (l *Line) Mix() float64 { return l.mix }

// Smoothing returns the per-sample smoothing fraction.
func (l *Line) Smoothing() float64 { return l.smoothing }

// Mode returns the fractional read interpolation mode.
func (l *Line) Mode() interp.Mode { return l.mode }

// MaxDelaySamples returns the largest reachable target delay in samples.
func (l *Line) MaxDelaySamples() float64 { return float64(len(l.buffer) - 1) }

func (l *Line) clampDelay(samples float64) float64 {
	return core.Clamp(samples, 0, float64(len(l.buffer)-1))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
