package looper

import (
	"fmt"
	"math"
)

const (
	defaultSeconds     = 20.0
	defaultOverdubGain = 0.75
)

// Option mutates looper construction parameters.
type Option func(*config) error

type config struct {
	seconds     float64
	capacity    int // wins over seconds when set
	overdubGain float64
}

func defaultConfig() config {
	return config{
		seconds:     defaultSeconds,
		overdubGain: defaultOverdubGain,
	}
}

// WithSeconds sets the ring capacity as a duration at the construction
// sample rate.
func WithSeconds(seconds float64) Option {
	return func(cfg *config) error {
		if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return fmt.Errorf("looper seconds must be > 0 and finite: %f", seconds)
		}

		cfg.seconds = seconds
		cfg.capacity = 0

		return nil
	}
}

// WithCapacity sets the ring capacity directly in samples.
func WithCapacity(n int) Option {
	return func(cfg *config) error {
		if n < 1 {
			return fmt.Errorf("looper capacity must be >= 1: %d", n)
		}

		cfg.capacity = n

		return nil
	}
}

// WithOverdubGain sets the attenuation applied to recorded samples,
// in (0, 1].
func WithOverdubGain(gain float64) Option {
	return func(cfg *config) error {
		if gain <= 0 || gain > 1 || math.IsNaN(gain) {
			return fmt.Errorf("looper overdub gain must be in (0, 1]: %f", gain)
		}

		cfg.overdubGain = gain

		return nil
	}
}

// Buffer is a loop ring with additive overdub and a free-running,
// variable-speed read position.
type Buffer struct {
	samples []float64
	write   int
	read    float64

	overdubGain float64
	recording   bool
	playing     bool
	cleared     bool // clear-on-hold latch
}

// New creates a loop ring sized for the given sample rate.
func New(sampleRate float64, opts ...Option) (*Buffer, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("looper sample rate must be > 0 and finite: %f", sampleRate)
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

	capacity := cfg.capacity
	if capacity == 0 {
		capacity = int(math.Round(cfg.seconds * sampleRate))
	}

	if capacity < 1 {
		return nil, fmt.Errorf("looper capacity must be >= 1 sample: %d", capacity)
	}

	return &Buffer{
		samples:     make([]float64, capacity),
		overdubGain: cfg.overdubGain,
	}, nil
}

// RecordAdd mixes sample into the ring at the write index and advances
// it one slot. Existing content is kept, so repeated passes overdub.
func (b *Buffer) RecordAdd(sample float64) {
	b.samples[b.write] += sample * b.overdubGain
	b.write = (b.write + 1) % len(b.samples)
}

// PlaybackRead returns the sample under the read position, then
// advances the position by speed and wraps it back into [0, capacity).
// Negative speeds play in reverse, fractional speeds scrub. The speed
// is clamped silently to one ring length per call; NaN advances by
// zero.
func (b *Buffer) PlaybackRead(speed float64) float64 {
	size := len(b.samples)
	fsize := float64(size)

	out := b.samples[int(math.Floor(b.read))%size]

	if math.IsNaN(speed) {
		speed = 0
	}
	if speed > fsize {
		speed = fsize
	} else if speed < -fsize {
		speed = -fsize
	}

	b.read += speed
	if b.read < 0 {
		b.read += fsize
	} else if b.read >= fsize {
		b.read -= fsize
	}

	return out
}

// Clear zero-fills the ring, rewinds both cursors and stops recording
// and playback.
func (b *Buffer) Clear() {
	for i := range b.samples {
		b.samples[i] = 0
	}

	b.write = 0
	b.read = 0
	b.recording = false
	b.playing = false
}

// LatchClear drives Clear from a held control: the first held call
// clears once, further held calls do nothing until a released call
// re-arms the latch.
func (b *Buffer) LatchClear(held bool) {
	if !held {
		b.cleared = false
		return
	}

	if b.cleared {
		return
	}

	b.Clear()
	b.cleared = true
}

// ToggleRecord flips the transport: starting to record also starts
// playback; stopping the recording keeps playback running.
func (b *Buffer) ToggleRecord() {
	b.recording = !b.recording
	b.playing = true
}

// SetRecording sets the overdub flag.
func (b *Buffer) SetRecording(on bool) { b.recording = on }

// SetPlaying sets the playback flag.
func (b *Buffer) SetPlaying(on bool) { b.playing = on }

// Recording reports whether the ring is capturing input.
func (b *Buffer) Recording() bool { return b.recording }

// Playing reports whether the loop is audible.
func (b *Buffer) Playing() bool { return b.playing }

// Len returns the number of slots in the ring.
func (b *Buffer) Len() int { return len(b.samples) }

// Cap returns the ring capacity in samples.
func (b *Buffer) Cap() int { return cap(b.samples) }

// OverdubGain returns the recording attenuation.
func (b *Buffer) OverdubGain() float64 { return b.overdubGain }

// ReadPosition returns the playback position in [0, capacity).
func (b *Buffer) ReadPosition() float64 { return b.read }

// WriteIndex returns the record slot index.
func (b *Buffer) WriteIndex() int { return b.write }

// Reset restores construction state. Beyond Clear it also re-arms the
// clear latch.
func (b *Buffer) Reset() {
	b.Clear()
	b.cleared = false
}
