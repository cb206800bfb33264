// Package signal synthesizes source material for the looper engine:
// sine tones, impulses and seeded noise for demos and tests.
package signal

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-looper/dsp/core"
)

// Generator synthesizes deterministic signals from a shared
// configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed uint64
}

// NewGenerator creates a generator. The sample rate comes from the
// processor options and defaults to core.DefaultProcessorConfig.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return &Generator{
		cfg:  core.ApplyProcessorOptions(opts...),
		seed: 1,
	}
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// SetSeed sets the seed used by noise synthesis.
func (g *Generator) SetSeed(seed uint64) {
	g.seed = seed
}

// Seed returns the current noise seed.
func (g *Generator) Seed() uint64 {
	return g.seed
}

// Sine synthesizes a sine tone starting at the given phase offset in
// radians.
func (g *Generator) Sine(freqHz, amplitude, phase float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine length must be > 0 samples: %d", samples)
	}
	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sine needs a sample rate > 0: %f", g.cfg.SampleRate)
	}

	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	out := make([]float64, samples)
	for i := range out {
		out[i] = amplitude * math.Sin(phase+step*float64(i))
	}
	return out, nil
}

// Impulse synthesizes silence with a single spike of the given
// amplitude at index at.
func (g *Generator) Impulse(amplitude float64, samples, at int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("impulse length must be > 0 samples: %d", samples)
	}
	if at < 0 || at >= samples {
		return nil, fmt.Errorf("impulse position must be in [0,%d): %d", samples, at)
	}

	out := make([]float64, samples)
	out[at] = amplitude
	return out, nil
}

// WhiteNoise synthesizes uniform noise in [-amplitude, amplitude].
// Renders are reproducible for a fixed seed.
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise length must be > 0 samples: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}

	rng := rand.New(rand.NewPCG(g.seed, g.seed))
	out := make([]float64, samples)
	for i := range out {
		out[i] = (2*rng.Float64() - 1) * amplitude
	}
	return out, nil
}

// Normalize returns a copy of data scaled so its peak magnitude hits
// targetPeak. Silent input stays silent.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}

	peak := 0.0
	for _, v := range data {
		peak = math.Max(peak, math.Abs(v))
	}

	out := make([]float64, len(data))
	if peak == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / peak
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}
