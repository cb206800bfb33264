package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-looper/dsp/dither"
	"github.com/cwbudde/algo-looper/dsp/session"
)

func newQuantizer(t *testing.T) *dither.Quantizer {
	t.Helper()

	q, err := dither.New(pcm16Bits, dither.WithSeed(1))
	if err != nil {
		t.Fatalf("dither.New failed: %v", err)
	}
	return q
}

func TestMaxValueForBits(t *testing.T) {
	cases := []struct {
		bits int
		want float64
	}{
		{16, 32767},
		{24, 8388607},
		{32, 2147483647},
		{8, 32767},
	}

	for _, tc := range cases {
		if got := maxValueForBits(tc.bits); got != tc.want {
			t.Fatalf("maxValueForBits(%d) = %v, want %v", tc.bits, got, tc.want)
		}
	}
}

func TestWAVRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roundtrip.wav")

	in := make([]float64, 500)
	for i := range in {
		in[i] = 0.5 * math.Sin(2*math.Pi*50*float64(i)/1000)
	}

	if err := writeWAVMono(path, in, 1000, newQuantizer(t)); err != nil {
		t.Fatalf("writeWAVMono failed: %v", err)
	}

	got, rate, err := readWAVMono(path)
	if err != nil {
		t.Fatalf("readWAVMono failed: %v", err)
	}

	if rate != 1000 {
		t.Fatalf("sample rate = %d, want 1000", rate)
	}
	if len(got) != len(in) {
		t.Fatalf("length = %d, want %d", len(got), len(in))
	}

	for i := range in {
		if math.Abs(got[i]-in[i]) > 1e-4 {
			t.Fatalf("sample %d: got %v, want %v", i, got[i], in[i])
		}
	}
}

func TestReadWAVMonoDownmixesStereo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	enc := wav.NewEncoder(f, 1000, pcm16Bits, 2, wavFormatPCM)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: 1000},
		Data:           make([]int, 200),
		SourceBitDepth: pcm16Bits,
	}
	for i := 0; i < len(buf.Data); i += 2 {
		buf.Data[i] = 16384
		buf.Data[i+1] = -16384
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encoder write failed: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("encoder close failed: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("file close failed: %v", err)
	}

	got, _, err := readWAVMono(path)
	if err != nil {
		t.Fatalf("readWAVMono failed: %v", err)
	}

	if len(got) != 100 {
		t.Fatalf("frames = %d, want 100", len(got))
	}
	for i, v := range got {
		if v != 0 {
			t.Fatalf("frame %d = %v, want 0 after downmix", i, v)
		}
	}
}

func TestReadWAVMonoRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")

	if err := os.WriteFile(path, []byte("not audio"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, _, err := readWAVMono(path); err == nil {
		t.Fatalf("readWAVMono should reject a non-WAV file")
	}
}

func TestReadWAVMonoMissingFile(t *testing.T) {
	if _, _, err := readWAVMono(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Fatalf("readWAVMono should fail for a missing file")
	}
}

func TestLoadInputSynthesizesTone(t *testing.T) {
	in, rate, err := loadInput("", 1000, 0.25, 50, 0.5)
	if err != nil {
		t.Fatalf("loadInput failed: %v", err)
	}

	if rate != 1000 {
		t.Fatalf("sample rate = %d, want 1000", rate)
	}
	if len(in) != 250 {
		t.Fatalf("length = %d, want 250", len(in))
	}
	if in[0] != 0 {
		t.Fatalf("first sample = %v, want 0", in[0])
	}

	peak := 0.0
	for _, v := range in {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak > 0.5+1e-12 {
		t.Fatalf("peak = %v, want <= 0.5", peak)
	}
}

func TestLoadInputRejectsZeroDuration(t *testing.T) {
	if _, _, err := loadInput("", 1000, 0, 50, 0.5); err == nil {
		t.Fatalf("loadInput should reject zero duration")
	}
}

func TestProcessThroughLoopTogglesAtBoundary(t *testing.T) {
	eng, err := session.New(1000)
	if err != nil {
		t.Fatalf("session.New failed: %v", err)
	}

	if _, err := processThroughLoop(eng, make([]float64, 50), 20); err != nil {
		t.Fatalf("processThroughLoop failed: %v", err)
	}

	if eng.Recording() {
		t.Fatalf("recording should stop at the boundary")
	}
	if !eng.Playing() {
		t.Fatalf("loop should keep playing after the boundary")
	}
}

func TestProcessThroughLoopZeroRecordStaysIdle(t *testing.T) {
	eng, err := session.New(1000)
	if err != nil {
		t.Fatalf("session.New failed: %v", err)
	}

	out, err := processThroughLoop(eng, make([]float64, 30), 0)
	if err != nil {
		t.Fatalf("processThroughLoop failed: %v", err)
	}

	if eng.Recording() || eng.Playing() {
		t.Fatalf("loop should stay idle with no record window")
	}
	if len(out) != 30 {
		t.Fatalf("output length = %d, want 30", len(out))
	}
}

func TestProcessThroughLoopRecordBeyondInput(t *testing.T) {
	eng, err := session.New(1000)
	if err != nil {
		t.Fatalf("session.New failed: %v", err)
	}

	if _, err := processThroughLoop(eng, make([]float64, 10), 100); err != nil {
		t.Fatalf("processThroughLoop failed: %v", err)
	}

	if !eng.Recording() {
		t.Fatalf("recording should continue past the end of the input")
	}
}
