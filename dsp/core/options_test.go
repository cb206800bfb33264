package core

import (
	"math"
	"testing"
)

func TestApplyProcessorOptions(t *testing.T) {
	cfg := ApplyProcessorOptions(WithSampleRate(96000))
	if cfg.SampleRate != 96000 {
		t.Fatalf("sample rate = %v, want 96000", cfg.SampleRate)
	}
}

func TestApplyProcessorOptionsDefaults(t *testing.T) {
	if cfg := ApplyProcessorOptions(); cfg != DefaultProcessorConfig() {
		t.Fatalf("cfg = %#v, want defaults", cfg)
	}
}

func TestInvalidSampleRateKeepsDefault(t *testing.T) {
	def := DefaultProcessorConfig()
	for _, rate := range []float64{0, -44100, math.NaN()} {
		cfg := ApplyProcessorOptions(WithSampleRate(rate))
		if cfg.SampleRate != def.SampleRate {
			t.Fatalf("rate %v: sample rate = %v, want default %v", rate, cfg.SampleRate, def.SampleRate)
		}
	}
}

func TestNilOptionSkipped(t *testing.T) {
	cfg := ApplyProcessorOptions(nil, WithSampleRate(8000))
	if cfg.SampleRate != 8000 {
		t.Fatalf("sample rate = %v, want 8000", cfg.SampleRate)
	}
}
