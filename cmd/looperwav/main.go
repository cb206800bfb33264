// Command looperwav runs audio through the looper engine offline and
// writes the result to a WAV file.
//
// Usage:
//
//	looperwav [flags]
//
// The input is a mono mixdown of -in, or a synthesized sine when -in
// is empty. The loop records the first -record seconds of the engine
// output, then plays it back on top of the rest of the input.
//
// Examples:
//
//	looperwav -tone 220 -dur 6 -record 2 -out loop.wav
//	looperwav -in take.wav -record 4 -speed -1 -out reversed.wav
//	looperwav -tone 330 -depth 0.8 -lfo triangle -rate 0.5 -out warble.wav
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-looper/dsp/buffer"
	"github.com/cwbudde/algo-looper/dsp/core"
	"github.com/cwbudde/algo-looper/dsp/dither"
	"github.com/cwbudde/algo-looper/dsp/lfo"
	"github.com/cwbudde/algo-looper/dsp/session"
	"github.com/cwbudde/algo-looper/measure/osc"
)

const blockSize = 4096

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	in := flag.String("in", "", "input WAV file (mixed down to mono; synthesized tone when empty)")
	out := flag.String("out", "looper.wav", "output WAV file (16-bit mono)")
	sr := flag.Int("sr", 44100, "sample rate in Hz for synthesized input")
	dur := flag.Float64("dur", 6.0, "duration in seconds for synthesized input")
	tone := flag.Float64("tone", 220, "synthesized input frequency in Hz")
	amp := flag.Float64("amp", 0.5, "synthesized input amplitude")
	record := flag.Float64("record", 2.0, "seconds to record into the loop (0 disables the loop)")
	speed := flag.Float64("speed", 1.0, "loop playback speed in [-2, 2]")
	mix := flag.Float64("mix", 0.5, "delay wet amount in [0, 1]")
	feedback := flag.Float64("feedback", 0.7, "delay feedback in [0, 1]")
	depth := flag.Float64("depth", 0.0, "delay modulation depth in [0, 1]")
	shapeName := flag.String("lfo", "sine", "modulation shape (sine, triangle, square, ...)")
	rate := flag.Float64("rate", 0.1, "modulation rate in Hz")
	gain := flag.Float64("gain", 0.0, "output gain in dB")
	ditherName := flag.String("dither", "triangular", "dither for the 16-bit output (none, rectangular, triangular)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: looperwav [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Runs audio through the looper engine offline and writes a WAV file.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  looperwav -tone 220 -dur 6 -record 2 -out loop.wav\n")
		fmt.Fprintf(os.Stderr, "  looperwav -in take.wav -record 4 -speed -1 -out reversed.wav\n")
	}
	flag.Parse()

	if *sr <= 0 {
		return fmt.Errorf("sample rate must be > 0: %d", *sr)
	}

	shape, err := lfo.ParseShape(*shapeName)
	if err != nil {
		return err
	}

	ditherType, err := dither.ParseType(*ditherName)
	if err != nil {
		return err
	}

	quant, err := dither.New(pcm16Bits, dither.WithType(ditherType))
	if err != nil {
		return err
	}

	input, sampleRate, err := loadInput(*in, *sr, *dur, *tone, *amp)
	if err != nil {
		return err
	}

	eng, err := session.New(float64(sampleRate),
		session.WithLFOOptions(lfo.WithFrequency(*rate), lfo.WithShape(shape)))
	if err != nil {
		return err
	}

	eng.SetControls(session.Controls{
		Mix:      *mix,
		Feedback: *feedback,
		Depth:    *depth,
		Speed:    (*speed + 2) / 4,
	})

	recordEnd := int(*record * float64(sampleRate))

	output, err := processThroughLoop(eng, input, recordEnd)
	if err != nil {
		return err
	}

	if *gain != 0 {
		g := core.DBToLinear(*gain)
		for i := range output {
			output[i] *= g
		}
	}

	if err := writeWAVMono(*out, output, sampleRate, quant); err != nil {
		return err
	}

	return printSummary(os.Stdout, eng, output, sampleRate, *out)
}

// processThroughLoop runs the input through the engine in blocks. The
// loop records from sample zero to recordEnd, so blocks are split at
// that boundary to keep the transport toggles sample accurate.
func processThroughLoop(eng *session.Session, in []float64, recordEnd int) ([]float64, error) {
	out := make([]float64, len(in))
	block := buffer.New(blockSize)

	if recordEnd > 0 && len(in) > 0 {
		eng.ToggleRecord()
	}

	pos := 0
	for pos < len(in) {
		end := pos + blockSize
		if end > len(in) {
			end = len(in)
		}
		if pos < recordEnd && recordEnd < end {
			end = recordEnd
		}

		block.Resize(end - pos)
		chunk := block.Samples()
		copy(chunk, in[pos:end])

		if err := eng.ProcessInPlace(chunk); err != nil {
			return nil, err
		}

		copy(out[pos:end], chunk)
		pos = end

		if pos == recordEnd && eng.Recording() {
			eng.ToggleRecord()
		}
	}

	return out, nil
}

func printSummary(w io.Writer, eng *session.Session, out []float64, sampleRate int, outPath string) error {
	stats, err := osc.Analyze(out)
	if err != nil {
		return err
	}

	dominant := "n/a"
	if freq, err := osc.DominantFrequency(out, float64(sampleRate)); err == nil {
		dominant = fmt.Sprintf("%.1f Hz", freq)
	}

	state := "idle"
	switch {
	case eng.Recording():
		state = "recording"
	case eng.Playing():
		state = fmt.Sprintf("playing at speed %+.2f", eng.PlaybackSpeed())
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "output\t%s (16-bit mono)\n", outPath)
	fmt.Fprintf(tw, "duration\t%.2f s at %d Hz\n", float64(len(out))/float64(sampleRate), sampleRate)
	fmt.Fprintf(tw, "peak\t%.2f dBFS\n", core.LinearToDB(stats.Peak))
	fmt.Fprintf(tw, "rms\t%.2f dBFS\n", core.LinearToDB(stats.RMS))
	fmt.Fprintf(tw, "dominant\t%s\n", dominant)
	fmt.Fprintf(tw, "loop\t%s\n", state)

	return tw.Flush()
}
