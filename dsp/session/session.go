package session

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-looper/dsp/core"
	"github.com/cwbudde/algo-looper/dsp/delay"
	"github.com/cwbudde/algo-looper/dsp/lfo"
	"github.com/cwbudde/algo-looper/dsp/looper"
)

const (
	defaultControlInterval = 64

	defaultLFOFrequencyHz = 0.1

	// Delay-time modulation window: the LFO swings the delay time
	// around base by up to span seconds, clamped into [min, max].
	defaultModulationBase = 0.1
	defaultModulationSpan = 1.9
	defaultModulationMin  = 0.01
	defaultModulationMax  = 2.0

	speedMin = -2.0
	speedMax = 2.0
)

// Controls holds raw knob values in [0, 1]. Speed maps affinely onto
// [-2, +2] playback speed; Depth scales how far the LFO swings the
// delay time.
type Controls struct {
	Mix      float64
	Feedback float64
	Depth    float64
	Speed    float64
}

func defaultControls() Controls {
	return Controls{
		Mix:      0.5,
		Feedback: 0.7,
		Depth:    0,
		Speed:    0.75, // maps to +1, normal forward playback
	}
}

// Option mutates session construction parameters.
type Option func(*config) error

type config struct {
	controlInterval int
	modBase         float64
	modSpan         float64
	modMin          float64
	modMax          float64
	delayOpts       []delay.Option
	lfoOpts         []lfo.Option
	looperOpts      []looper.Option
}

func defaultConfig() config {
	return config{
		controlInterval: defaultControlInterval,
		modBase:         defaultModulationBase,
		modSpan:         defaultModulationSpan,
		modMin:          defaultModulationMin,
		modMax:          defaultModulationMax,
	}
}

// WithControlInterval sets how many samples pass between control ticks.
func WithControlInterval(n int) Option {
	return func(cfg *config) error {
		if n < 1 {
			return fmt.Errorf("control interval must be >= 1: %d", n)
		}

		cfg.controlInterval = n

		return nil
	}
}

// WithModulationBase sets the center of the delay-time modulation
// window in seconds.
func WithModulationBase(seconds float64) Option {
	return func(cfg *config) error {
		if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return fmt.Errorf("modulation base must be >= 0 and finite: %f", seconds)
		}

		cfg.modBase = seconds

		return nil
	}
}

// WithModulationSpan sets how far the LFO can swing the delay time
// from the base, in seconds, at full depth.
func WithModulationSpan(seconds float64) Option {
	return func(cfg *config) error {
		if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return fmt.Errorf("modulation span must be >= 0 and finite: %f", seconds)
		}

		cfg.modSpan = seconds

		return nil
	}
}

// WithModulationLimits sets the clamp window for the modulated delay
// time in seconds.
func WithModulationLimits(minSeconds, maxSeconds float64) Option {
	return func(cfg *config) error {
		if minSeconds < 0 || maxSeconds < minSeconds ||
			math.IsNaN(minSeconds) || math.IsNaN(maxSeconds) ||
			math.IsInf(maxSeconds, 0) {
			return fmt.Errorf("modulation limits must satisfy 0 <= min <= max, finite: [%f, %f]",
				minSeconds, maxSeconds)
		}

		cfg.modMin = minSeconds
		cfg.modMax = maxSeconds

		return nil
	}
}

// WithDelayOptions forwards options to the delay line.
func WithDelayOptions(opts ...delay.Option) Option {
	return func(cfg *config) error {
		cfg.delayOpts = append(cfg.delayOpts, opts...)
		return nil
	}
}

// WithLFOOptions forwards options to the oscillator bank.
func WithLFOOptions(opts ...lfo.Option) Option {
	return func(cfg *config) error {
		cfg.lfoOpts = append(cfg.lfoOpts, opts...)
		return nil
	}
}

// WithLooperOptions forwards options to the loop ring.
func WithLooperOptions(opts ...looper.Option) Option {
	return func(cfg *config) error {
		cfg.looperOpts = append(cfg.looperOpts, opts...)
		return nil
	}
}

// Session owns one delay line, one LFO bank and one loop ring and
// drives them at audio and control cadence.
type Session struct {
	sampleRate float64

	line *delay.Line
	bank *lfo.Bank
	ring *looper.Buffer

	controls Controls

	controlInterval int
	countdown       int

	modBase float64
	modSpan float64
	modMin  float64
	modMax  float64

	playbackSpeed float64
}

// New creates a session with practical defaults: 0.5 s delay at
// feedback 0.7 and mix 0.5, a 0.1 Hz sine LFO, a 20 s loop ring and a
// 64-sample control interval.
func New(sampleRate float64, opts ...Option) (*Session, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("session sample rate must be > 0 and finite: %f", sampleRate)
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

	line, err := delay.New(sampleRate, cfg.delayOpts...)
	if err != nil {
		return nil, err
	}

	// The bank steps once per control tick, so it runs at the control
	// rate; this keeps the configured frequency true in wall time.
	controlRate := sampleRate / float64(cfg.controlInterval)

	lfoOpts := append([]lfo.Option{
		lfo.WithFrequency(defaultLFOFrequencyHz),
		lfo.WithShape(lfo.Sine),
	}, cfg.lfoOpts...)

	bank, err := lfo.New(controlRate, lfoOpts...)
	if err != nil {
		return nil, err
	}

	ring, err := looper.New(sampleRate, cfg.looperOpts...)
	if err != nil {
		return nil, err
	}

	s := &Session{
		sampleRate:      sampleRate,
		line:            line,
		bank:            bank,
		ring:            ring,
		controls:        defaultControls(),
		controlInterval: cfg.controlInterval,
		modBase:         cfg.modBase,
		modSpan:         cfg.modSpan,
		modMin:          cfg.modMin,
		modMax:          cfg.modMax,
	}

	s.playbackSpeed = mapSpeed(s.controls.Speed)

	return s, nil
}

// SetControls stores raw knob values. They are applied at the next
// control tick.
func (s *Session) SetControls(c Controls) {
	s.controls = c
}

// Controls returns the stored raw knob values.
func (s *Session) Controls() Controls {
	return s.controls
}

// Process runs one sample through the engine. A control tick fires
// first when due. The delayed sample is overdubbed into the loop while
// recording, and loop playback is added on top while playing.
func (s *Session) Process(in float64) float64 {
	if s.countdown <= 0 {
		s.applyControls()
		s.countdown = s.controlInterval
	}
	s.countdown--

	out := s.line.ProcessSample(in)

	if s.ring.Recording() {
		s.ring.RecordAdd(out)
	}

	if s.ring.Playing() {
		out += s.ring.PlaybackRead(s.playbackSpeed)
	}

	return out
}

// ProcessInPlace runs buf through the engine in place.
func (s *Session) ProcessInPlace(buf []float64) error {
	for i := range buf {
		buf[i] = s.Process(buf[i])
	}

	return nil
}

// applyControls maps the stored knob values onto the components. The
// bank steps exactly once per tick, after mix, feedback and speed are
// set and before the delay time is retargeted.
func (s *Session) applyControls() {
	c := s.controls

	s.line.SetMix(c.Mix)
	s.line.SetFeedback(c.Feedback)
	s.playbackSpeed = mapSpeed(c.Speed)

	depth := core.Clamp(c.Depth, 0, 1)

	v := s.bank.Step()
	mod := (v - 0.5) * 2

	target := s.modBase + mod*s.modSpan*depth

	s.line.SetTime(core.Clamp(target, s.modMin, s.modMax))
}

// ToggleRecord flips the transport: starting to record also starts
// playback; stopping a recording keeps the loop playing.
func (s *Session) ToggleRecord() {
	s.ring.ToggleRecord()
}

// SetClearHeld drives the loop-clear control: the first held call
// clears the ring once; release re-arms.
func (s *Session) SetClearHeld(held bool) {
	s.ring.LatchClear(held)
}

// Recording reports whether input is being overdubbed into the loop.
// It doubles as the indicator-light state.
func (s *Session) Recording() bool { return s.ring.Recording() }

// Playing reports whether the loop is audible.
func (s *Session) Playing() bool { return s.ring.Playing() }

// PlaybackSpeed returns the loop playback speed mapped from the Speed
// control, in [-2, +2].
func (s *Session) PlaybackSpeed() float64 { return s.playbackSpeed }

// SampleRate returns sample rate in Hz.
func (s *Session) SampleRate() float64 { return s.sampleRate }

// ControlInterval returns the number of samples between control ticks.
func (s *Session) ControlInterval() int { return s.controlInterval }

// Delay returns the owned delay line.
func (s *Session) Delay() *delay.Line { return s.line }

// LFO returns the owned oscillator bank.
func (s *Session) LFO() *lfo.Bank { return s.bank }

// Looper returns the owned loop ring.
func (s *Session) Looper() *looper.Buffer { return s.ring }

// Reset restores all components to construction state. Stored knob
// values survive, matching physical knobs that keep their position.
func (s *Session) Reset() {
	s.line.Reset()
	s.bank.Reset()
	s.ring.Reset()
	s.countdown = 0
}

func mapSpeed(raw float64) float64 {
	return speedMin + (speedMax-speedMin)*raw
}
