package osc

import (
	"errors"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-looper/dsp/window"
)

// Errors returned by the analysis functions.
var (
	ErrEmptyInput        = errors.New("osc: input is empty")
	ErrTooShort          = errors.New("osc: input too short for spectral analysis")
	ErrInvalidSampleRate = errors.New("osc: sample rate must be positive")
	ErrNoPeak            = errors.New("osc: no spectral peak above zero")
)

// minSpectralLen is the minimum input length for DominantFrequency.
const minSpectralLen = 8

// Stats holds time-domain statistics of a captured signal.
type Stats struct {
	N    int     // number of samples
	Min  float64 // smallest sample value
	Max  float64 // largest sample value
	Mean float64
	RMS  float64
	Peak float64 // max(|Min|, |Max|)
}

// Analyze computes time-domain statistics in a single pass.
func Analyze(x []float64) (Stats, error) {
	if len(x) == 0 {
		return Stats{}, ErrEmptyInput
	}

	st := Stats{N: len(x), Min: x[0], Max: x[0]}

	var sum, sumSq float64

	for _, v := range x {
		if v < st.Min {
			st.Min = v
		}

		if v > st.Max {
			st.Max = v
		}

		sum += v
		sumSq += v * v
	}

	n := float64(st.N)
	st.Mean = sum / n
	st.RMS = math.Sqrt(sumSq / n)
	st.Peak = math.Max(math.Abs(st.Min), math.Abs(st.Max))

	return st, nil
}

// Bounds returns the smallest and largest sample value of x.
func Bounds(x []float64) (lo, hi float64, err error) {
	st, err := Analyze(x)
	if err != nil {
		return 0, 0, err
	}

	return st.Min, st.Max, nil
}

// DominantFrequency estimates the strongest repetition rate in x, in Hz.
//
// The signal is mean-removed, Hann-windowed, zero-padded to a power of
// two and transformed; the strongest non-DC magnitude bin is refined by
// parabolic interpolation against its neighbors. Resolution is therefore
// a little better than sampleRate/fftSize.
func DominantFrequency(x []float64, sampleRate float64) (float64, error) {
	if len(x) < minSpectralLen {
		return 0, ErrTooShort
	}

	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, ErrInvalidSampleRate
	}

	n := len(x)

	var mean float64
	for _, v := range x {
		mean += v
	}

	mean /= float64(n)

	coeffs := window.Generate(window.TypeHann, n, window.WithPeriodic())
	fftSize := nextPowerOf2(n)

	inData := make([]complex128, fftSize)
	for i, v := range x {
		inData[i] = complex((v-mean)*coeffs[i], 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return 0, err
	}

	out := make([]complex128, fftSize)

	if err := plan.Forward(out, inData); err != nil {
		return 0, err
	}

	half := fftSize / 2
	re := make([]float64, half+1)
	im := make([]float64, half+1)

	for i := 0; i <= half; i++ {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mag := make([]float64, half+1)
	vecmath.Magnitude(mag, re, im)

	peak := 1
	for i := 2; i <= half; i++ {
		if mag[i] > mag[peak] {
			peak = i
		}
	}

	if mag[peak] == 0 {
		return 0, ErrNoPeak
	}

	pos := float64(peak)
	if peak < half {
		pos += parabolicOffset(mag[peak-1], mag[peak], mag[peak+1])
	}

	return pos * sampleRate / float64(fftSize), nil
}

// PeriodSamples returns the dominant period of x in samples.
func PeriodSamples(x []float64, sampleRate float64) (float64, error) {
	f, err := DominantFrequency(x, sampleRate)
	if err != nil {
		return 0, err
	}

	return sampleRate / f, nil
}

// parabolicOffset refines a peak bin position from the magnitudes of the
// bin and its two neighbors. The result is clamped to [-0.5, 0.5].
func parabolicOffset(left, center, right float64) float64 {
	denom := left - 2*center + right
	if denom == 0 {
		return 0
	}

	d := 0.5 * (left - right) / denom
	if d < -0.5 {
		return -0.5
	}

	if d > 0.5 {
		return 0.5
	}

	return d
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
