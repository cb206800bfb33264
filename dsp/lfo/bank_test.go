package lfo

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-looper/measure/osc"
)

func stepN(b *Bank, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = b.Step()
	}
	return out
}

// --- construction and validation ---

func TestNewValidation(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Fatal("expected error for sampleRate=0")
	}
	if _, err := New(math.NaN()); err == nil {
		t.Fatal("expected error for NaN sample rate")
	}
	if _, err := New(1000, WithFrequency(-1)); err == nil {
		t.Fatal("expected error for negative frequency")
	}
	if _, err := New(1000, WithFrequency(math.Inf(1))); err == nil {
		t.Fatal("expected error for Inf frequency")
	}
	if _, err := New(1000, WithShape(Shape(99))); err == nil {
		t.Fatal("expected error for out-of-range shape")
	}
	if _, err := New(1000, WithPhase(math.NaN())); err == nil {
		t.Fatal("expected error for NaN phase")
	}
}

func TestNewDefaults(t *testing.T) {
	b, err := New(1000)
	if err != nil {
		t.Fatal(err)
	}
	if b.Frequency() != 1.0 {
		t.Fatalf("Frequency() = %v, want 1", b.Frequency())
	}
	if b.Shape() != IntegratedTriangle {
		t.Fatalf("Shape() = %v, want integrated triangle", b.Shape())
	}
	if b.SampleRate() != 1000 {
		t.Fatalf("SampleRate() = %v, want 1000", b.SampleRate())
	}
}

func TestSetShapeValidation(t *testing.T) {
	b, err := New(1000)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.SetShape(Shape(-1)); err == nil {
		t.Fatal("expected error for negative shape")
	}
	if err := b.SetShape(HyperSine); err != nil {
		t.Fatalf("SetShape(HyperSine) error = %v", err)
	}
	if b.Shape() != HyperSine {
		t.Fatalf("Shape() = %v, want hyper sine", b.Shape())
	}
}

// --- output range per family ---

func TestStepBoundsAllShapes(t *testing.T) {
	tests := []struct {
		shape Shape
		lo    float64
		hi    float64
	}{
		{IntegratedTriangle, 0, 1},
		{Triangle, -0.01, 1.01},
		{Sine, -0.01, 1.01},
		{Square, -0.05, 1.05},
		{Exponential, -0.05, 1.05},
		{Relaxation, -0.05, 1.05},
		{Hyper, 0.49, 1.01},
		{HyperSine, 0.49, 1.01},
	}

	for _, tc := range tests {
		t.Run(tc.shape.String(), func(t *testing.T) {
			b, err := New(1000, WithFrequency(2), WithShape(tc.shape))
			if err != nil {
				t.Fatal(err)
			}

			st, err := osc.Analyze(stepN(b, 10000))
			if err != nil {
				t.Fatal(err)
			}

			if st.Min < tc.lo || st.Max > tc.hi {
				t.Fatalf("range [%v, %v] outside [%v, %v]", st.Min, st.Max, tc.lo, tc.hi)
			}
		})
	}
}

// --- periodicity ---

func TestDominantFrequencySine(t *testing.T) {
	b, err := New(1000, WithFrequency(4), WithShape(Sine))
	if err != nil {
		t.Fatal(err)
	}

	got, err := osc.DominantFrequency(stepN(b, 4096), 1000)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-4) > 0.3 {
		t.Fatalf("dominant frequency = %v, want ~4", got)
	}
}

func TestDominantFrequencyTriangle(t *testing.T) {
	b, err := New(1000, WithFrequency(4), WithShape(Triangle))
	if err != nil {
		t.Fatal(err)
	}

	got, err := osc.DominantFrequency(stepN(b, 4096), 1000)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-4) > 0.3 {
		t.Fatalf("dominant frequency = %v, want ~4", got)
	}
}

func TestTrianglePeriodByCrossings(t *testing.T) {
	b, err := New(1000, WithFrequency(2), WithShape(Triangle))
	if err != nil {
		t.Fatal(err)
	}

	out := stepN(b, 5000) // 10 periods at 2 Hz / 1 kHz
	crossings := 0
	for i := 1; i < len(out); i++ {
		if out[i-1] < 0.5 && out[i] >= 0.5 {
			crossings++
		}
	}

	if crossings < 9 || crossings > 11 {
		t.Fatalf("upward 0.5-crossings = %d, want ~10", crossings)
	}
}

// --- freeze contract ---

func TestUnselectedFamiliesStayFrozen(t *testing.T) {
	shapes := []Shape{
		IntegratedTriangle, Sine, Square, Exponential,
		Relaxation, Hyper, HyperSine,
	}

	for _, s := range shapes {
		t.Run(s.String(), func(t *testing.T) {
			stepped, err := New(1000, WithFrequency(2), WithShape(Triangle))
			if err != nil {
				t.Fatal(err)
			}
			stepN(stepped, 500)

			fresh, err := New(1000, WithFrequency(2), WithShape(s))
			if err != nil {
				t.Fatal(err)
			}

			if err := stepped.SetShape(s); err != nil {
				t.Fatal(err)
			}

			// Stepping the triangle must not have advanced any other
			// family, so both banks produce identical output now.
			for i := 0; i < 10; i++ {
				got, want := stepped.Step(), fresh.Step()
				if got != want {
					t.Fatalf("step %d: got %v want %v", i, got, want)
				}
			}
		})
	}
}

func TestSwitchAwayAndBackResumes(t *testing.T) {
	a, err := New(1000, WithFrequency(2), WithShape(Triangle))
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(1000, WithFrequency(2), WithShape(Triangle))
	if err != nil {
		t.Fatal(err)
	}

	stepN(a, 100)
	stepN(b, 100)

	// Detour a through the sine family; b stays put.
	if err := a.SetShape(Sine); err != nil {
		t.Fatal(err)
	}
	stepN(a, 50)
	if err := a.SetShape(Triangle); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		got, want := a.Step(), b.Step()
		if got != want {
			t.Fatalf("step %d after detour: got %v want %v", i, got, want)
		}
	}
}

func TestSquareAdvancesSineFamily(t *testing.T) {
	a, err := New(1000, WithFrequency(2), WithShape(Square))
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(1000, WithFrequency(2), WithShape(Sine))
	if err != nil {
		t.Fatal(err)
	}

	stepN(a, 10)
	stepN(b, 10)

	// The square shape rides the sine recurrence, so both banks have
	// advanced it equally.
	if err := a.SetShape(Sine); err != nil {
		t.Fatal(err)
	}
	if got, want := a.Step(), b.Step(); got != want {
		t.Fatalf("got %v want %v", got, want)
	}
}

// --- live frequency changes ---

func TestSetFrequencyKeepsTrianglePosition(t *testing.T) {
	b, err := New(1000, WithFrequency(1), WithShape(Triangle))
	if err != nil {
		t.Fatal(err)
	}

	var last float64
	for i := 0; i < 100; i++ {
		last = b.Step()
	}

	if err := b.SetFrequency(2); err != nil {
		t.Fatal(err)
	}

	// Next step continues from the current position with the new slope
	// (4 Hz doubled step = 0.004), not from a reset ramp.
	next := b.Step()
	want := last + 0.004
	if math.Abs(next-want) > 1e-9 {
		t.Fatalf("next = %v, want %v", next, want)
	}
}

func TestSetFrequencyKeepsExpDirection(t *testing.T) {
	b, err := New(1000, WithFrequency(1), WithShape(Exponential))
	if err != nil {
		t.Fatal(err)
	}

	// The exponential dips to its lower bound on the first step and then
	// grows. After a rate change it must keep growing.
	out := stepN(b, 10)
	for i := 2; i < len(out); i++ {
		if out[i] <= out[i-1] {
			t.Fatalf("expected growth before change at step %d: %v <= %v", i, out[i], out[i-1])
		}
	}

	if err := b.SetFrequency(2); err != nil {
		t.Fatal(err)
	}

	prev := out[len(out)-1]
	for i := 0; i < 5; i++ {
		next := b.Step()
		if next <= prev {
			t.Fatalf("expected growth after change at step %d: %v <= %v", i, next, prev)
		}
		prev = next
	}
}

func TestSetFrequencyValidation(t *testing.T) {
	b, err := New(1000)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.SetFrequency(-0.5); err == nil {
		t.Fatal("expected error for negative frequency")
	}
	if err := b.SetFrequency(math.NaN()); err == nil {
		t.Fatal("expected error for NaN frequency")
	}
	if b.Frequency() != 1.0 {
		t.Fatalf("Frequency() = %v after rejected updates, want 1", b.Frequency())
	}
}

func TestZeroFrequencyHoldsOutput(t *testing.T) {
	for s := IntegratedTriangle; s <= HyperSine; s++ {
		b, err := New(1000, WithFrequency(0), WithShape(s))
		if err != nil {
			t.Fatalf("%v: New failed: %v", s, err)
		}

		first := b.Step()
		if math.IsNaN(first) || math.IsInf(first, 0) {
			t.Fatalf("%v: output not finite: %v", s, first)
		}
		for i := 0; i < 100; i++ {
			if got := b.Step(); got != first {
				t.Fatalf("%v: step %d moved: got %v want %v", s, i, got, first)
			}
		}
	}
}

func TestSetFrequencyZeroFreezesAndResumes(t *testing.T) {
	b, err := New(1000, WithFrequency(2), WithShape(Triangle))
	if err != nil {
		t.Fatal(err)
	}

	stepN(b, 37)

	if err := b.SetFrequency(0); err != nil {
		t.Fatalf("SetFrequency(0) failed: %v", err)
	}
	held := b.Step()
	for i := 0; i < 50; i++ {
		if got := b.Step(); got != held {
			t.Fatalf("step %d while frozen: got %v want %v", i, got, held)
		}
	}

	if err := b.SetFrequency(2); err != nil {
		t.Fatalf("SetFrequency(2) failed: %v", err)
	}
	if got := b.Step(); got == held {
		t.Fatalf("triangle did not resume after thaw: still %v", got)
	}
}

// --- startup delay ---

func TestIntegratedTriangleStartupDelay(t *testing.T) {
	// 180 degrees at 1 Hz / 1 kHz is half a period: 500 samples of zeros.
	b, err := New(1000, WithFrequency(1), WithPhase(180))
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 500; i++ {
		if got := b.Step(); got != 0 {
			t.Fatalf("step %d during startup delay: got %v want 0", i, got)
		}
	}
	if got := b.Step(); got <= 0 {
		t.Fatalf("first step after delay: got %v want > 0", got)
	}
}

// --- reset ---

func TestResetReproducesSequence(t *testing.T) {
	b, err := New(1000, WithFrequency(3), WithShape(Relaxation))
	if err != nil {
		t.Fatal(err)
	}

	first := stepN(b, 200)
	b.Reset()
	second := stepN(b, 200)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("step %d: %v != %v after Reset", i, first[i], second[i])
		}
	}
}

// --- names ---

func TestShapeString(t *testing.T) {
	tests := []struct {
		shape Shape
		want  string
	}{
		{IntegratedTriangle, "integrated triangle"},
		{Triangle, "triangle"},
		{Sine, "sine"},
		{Square, "square"},
		{Exponential, "exponential"},
		{Relaxation, "rc relaxation"},
		{Hyper, "hyper"},
		{HyperSine, "hyper sine"},
		{Shape(42), "unknown"},
		{Shape(-1), "unknown"},
	}

	for _, tc := range tests {
		if got := tc.shape.String(); got != tc.want {
			t.Fatalf("Shape(%d).String() = %q, want %q", int(tc.shape), got, tc.want)
		}
	}
}

func TestParseShape(t *testing.T) {
	for s := IntegratedTriangle; s <= HyperSine; s++ {
		got, err := ParseShape(s.String())
		if err != nil {
			t.Fatalf("ParseShape(%q) error = %v", s.String(), err)
		}
		if got != s {
			t.Fatalf("ParseShape(%q) = %v, want %v", s.String(), got, s)
		}
	}

	if got, err := ParseShape("HYPER-SINE"); err != nil || got != HyperSine {
		t.Fatalf("ParseShape(HYPER-SINE) = %v, %v", got, err)
	}
	if got, err := ParseShape("rc_relaxation"); err != nil || got != Relaxation {
		t.Fatalf("ParseShape(rc_relaxation) = %v, %v", got, err)
	}
	if _, err := ParseShape("sawtooth"); err == nil {
		t.Fatal("expected error for unknown name")
	}
}

// --- benchmarks ---

func BenchmarkStepSine(b *testing.B) {
	bank, _ := New(48000, WithFrequency(0.5), WithShape(Sine))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		bank.Step()
	}
}

func BenchmarkStepIntegratedTriangle(b *testing.B) {
	bank, _ := New(48000, WithFrequency(0.5), WithShape(IntegratedTriangle))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		bank.Step()
	}
}

func BenchmarkStepSquare(b *testing.B) {
	bank, _ := New(48000, WithFrequency(0.5), WithShape(Square))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		bank.Step()
	}
}
