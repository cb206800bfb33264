// Command looperplay streams the looper engine to the default audio
// device.
//
// Usage:
//
//	looperplay [flags]
//
// A synthesized sine feeds the engine. The loop records the first
// -record seconds of the output, then plays it back on top while the
// tone keeps running through the delay. Use looperwav for file output.
//
// Examples:
//
//	looperplay -tone 220 -record 2 -dur 10
//	looperplay -tone 330 -depth 0.8 -lfo triangle -rate 0.5
//	looperplay -record 2 -speed -1
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/algo-looper/dsp/buffer"
	"github.com/cwbudde/algo-looper/dsp/lfo"
	"github.com/cwbudde/algo-looper/dsp/session"
)

const bytesPerSample = 4 // float32 little endian

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	sr := flag.Int("sr", 44100, "sample rate in Hz")
	dur := flag.Float64("dur", 10.0, "seconds to play before exiting")
	tone := flag.Float64("tone", 220, "input tone frequency in Hz")
	amp := flag.Float64("amp", 0.5, "input tone amplitude")
	record := flag.Float64("record", 2.0, "seconds to record into the loop (0 disables the loop)")
	speed := flag.Float64("speed", 1.0, "loop playback speed in [-2, 2]")
	mix := flag.Float64("mix", 0.5, "delay wet amount in [0, 1]")
	feedback := flag.Float64("feedback", 0.7, "delay feedback in [0, 1]")
	depth := flag.Float64("depth", 0.0, "delay modulation depth in [0, 1]")
	shapeName := flag.String("lfo", "sine", "modulation shape (sine, triangle, square, ...)")
	rate := flag.Float64("rate", 0.1, "modulation rate in Hz")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: looperplay [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Streams the looper engine to the default audio device.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  looperplay -tone 220 -record 2 -dur 10\n")
		fmt.Fprintf(os.Stderr, "  looperplay -tone 330 -depth 0.8 -lfo triangle -rate 0.5\n")
	}
	flag.Parse()

	if *sr <= 0 {
		return fmt.Errorf("sample rate must be > 0: %d", *sr)
	}
	if *dur <= 0 {
		return fmt.Errorf("duration must be > 0 s: %f", *dur)
	}

	shape, err := lfo.ParseShape(*shapeName)
	if err != nil {
		return err
	}

	eng, err := session.New(float64(*sr),
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

	src := &engineReader{
		eng:       eng,
		pool:      buffer.NewPool(),
		toneStep:  2 * math.Pi * *tone / float64(*sr),
		amplitude: *amp,
		recordEnd: int(*record * float64(*sr)),
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   *sr,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return fmt.Errorf("failed to open audio device: %w", err)
	}
	<-ready

	player := ctx.NewPlayer(src)
	defer func() { _ = player.Close() }()

	fmt.Printf("playing %.0f Hz through the looper for %.1f s at %d Hz\n", *tone, *dur, *sr)
	player.Play()

	time.Sleep(time.Duration(*dur * float64(time.Second)))

	return nil
}

// engineReader feeds the player. The device pulls from a single
// goroutine, so the engine is driven sample by sample right here;
// nextInput keeps the record window sample accurate.
type engineReader struct {
	eng  *session.Session
	pool *buffer.Pool

	toneStep  float64
	amplitude float64
	phase     float64

	pos       int
	recordEnd int
}

func (r *engineReader) Read(p []byte) (int, error) {
	frames := len(p) / bytesPerSample
	if frames == 0 {
		return 0, nil
	}

	block := r.pool.Get(frames)
	defer r.pool.Put(block)

	samples := block.Samples()
	for i := range samples {
		samples[i] = r.eng.Process(r.nextInput())
	}

	for i, v := range samples {
		binary.LittleEndian.PutUint32(p[i*bytesPerSample:], math.Float32bits(float32(v)))
	}

	return frames * bytesPerSample, nil
}

// nextInput advances the tone one sample and toggles the loop
// transport at the record window edges.
func (r *engineReader) nextInput() float64 {
	if r.recordEnd > 0 {
		if r.pos == 0 {
			r.eng.ToggleRecord()
		}
		if r.pos == r.recordEnd && r.eng.Recording() {
			r.eng.ToggleRecord()
		}
	}
	r.pos++

	v := r.amplitude * math.Sin(r.phase)
	r.phase += r.toneStep
	if r.phase >= 2*math.Pi {
		r.phase -= 2 * math.Pi
	}
	return v
}
