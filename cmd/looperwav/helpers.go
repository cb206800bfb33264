package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-looper/dsp/core"
	"github.com/cwbudde/algo-looper/dsp/dither"
	"github.com/cwbudde/algo-looper/dsp/signal"
)

const (
	chunkFrames = 8192

	pcm16Bits    = 16
	wavFormatPCM = 1

	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0
)

// loadInput returns the samples to feed the engine: a mono mixdown of
// the WAV file at path, or a synthesized sine when path is empty.
func loadInput(path string, sampleRate int, seconds, toneHz, amplitude float64) ([]float64, int, error) {
	if path != "" {
		return readWAVMono(path)
	}

	n := int(seconds * float64(sampleRate))
	if n <= 0 {
		return nil, 0, fmt.Errorf("duration must be > 0 s: %f", seconds)
	}

	gen := signal.NewGenerator(core.WithSampleRate(float64(sampleRate)))
	in, err := gen.Sine(toneHz, amplitude, 0, n)
	if err != nil {
		return nil, 0, err
	}

	return in, sampleRate, nil
}

// readWAVMono decodes a WAV file into [-1, 1] floats, averaging the
// channels into mono. It returns the samples and the file sample rate.
func readWAVMono(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := dec.Format()
	channels := format.NumChannels
	if channels < 1 {
		return nil, 0, fmt.Errorf("invalid channel count: %d", channels)
	}

	scale := 1.0 / maxValueForBits(int(dec.BitDepth))

	buf := &audio.IntBuffer{
		Data:   make([]int, chunkFrames*channels),
		Format: format,
	}

	var samples []float64
	for {
		// n counts individual ints across channels, not frames.
		n, err := dec.PCMBuffer(buf)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, 0, fmt.Errorf("failed to read audio data: %w", err)
		}
		if n == 0 {
			break
		}

		frames := n / channels
		for i := 0; i < frames; i++ {
			sum := 0.0
			for ch := 0; ch < channels; ch++ {
				sum += float64(buf.Data[i*channels+ch])
			}
			samples = append(samples, sum*scale/float64(channels))
		}
	}

	if len(samples) == 0 {
		return nil, 0, fmt.Errorf("no audio data in %s", path)
	}

	return samples, format.SampleRate, nil
}

// writeWAVMono encodes samples as a 16-bit mono PCM WAV file, running
// each sample through the quantizer. Samples outside [-1, 1] clamp to
// full scale.
func writeWAVMono(path string, samples []float64, sampleRate int, quant *dither.Quantizer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	enc := wav.NewEncoder(f, sampleRate, pcm16Bits, 1, wavFormatPCM)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, len(samples)),
		SourceBitDepth: pcm16Bits,
	}
	for i, v := range samples {
		buf.Data[i] = quant.ProcessInteger(v)
	}

	if err := enc.Write(buf); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write audio data: %w", err)
	}

	if err := enc.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to finalize WAV file: %w", err)
	}

	return f.Close()
}

func maxValueForBits(bits int) float64 {
	switch bits {
	case 24:
		return maxInt24
	case 32:
		return maxInt32
	default:
		return maxInt16
	}
}
