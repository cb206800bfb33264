package main

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/cwbudde/algo-looper/dsp/buffer"
	"github.com/cwbudde/algo-looper/dsp/session"
)

func newReader(t *testing.T, recordEnd int) *engineReader {
	t.Helper()

	eng, err := session.New(1000)
	if err != nil {
		t.Fatalf("session.New failed: %v", err)
	}

	return &engineReader{
		eng:       eng,
		pool:      buffer.NewPool(),
		toneStep:  2 * math.Pi * 50 / 1000,
		amplitude: 0.5,
		recordEnd: recordEnd,
	}
}

func TestEngineReaderFillsBuffer(t *testing.T) {
	r := newReader(t, 100)

	p := make([]byte, 100*bytesPerSample)
	n, err := r.Read(p)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if n != len(p) {
		t.Fatalf("Read = %d bytes, want %d", n, len(p))
	}

	if !r.eng.Recording() {
		t.Fatalf("loop should be recording inside the record window")
	}

	for i := 0; i < 100; i++ {
		v := math.Float32frombits(binary.LittleEndian.Uint32(p[i*bytesPerSample:]))
		if math.IsNaN(float64(v)) || math.Abs(float64(v)) > 4 {
			t.Fatalf("sample %d out of range: %v", i, v)
		}
	}
}

func TestEngineReaderStopsRecordingAtBoundary(t *testing.T) {
	r := newReader(t, 100)

	p := make([]byte, 100*bytesPerSample)
	if _, err := r.Read(p); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if _, err := r.Read(p); err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if r.eng.Recording() {
		t.Fatalf("recording should stop at the boundary")
	}
	if !r.eng.Playing() {
		t.Fatalf("loop should keep playing after the boundary")
	}
}

func TestEngineReaderRecordDisabled(t *testing.T) {
	r := newReader(t, 0)

	p := make([]byte, 64*bytesPerSample)
	if _, err := r.Read(p); err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if r.eng.Recording() || r.eng.Playing() {
		t.Fatalf("loop should stay idle with no record window")
	}
}

func TestEngineReaderShortBuffer(t *testing.T) {
	r := newReader(t, 0)

	n, err := r.Read(make([]byte, 3))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if n != 0 {
		t.Fatalf("Read = %d bytes, want 0 for a short buffer", n)
	}
}
