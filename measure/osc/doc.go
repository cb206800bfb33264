// Package osc provides offline analysis of captured oscillator and
// control signals.
//
// The package answers two questions about a recorded block of samples:
// where does it live (Analyze, Bounds: min/max/mean/RMS/peak in a single
// pass) and how fast does it repeat (DominantFrequency, PeriodSamples:
// windowed FFT peak with parabolic bin refinement).
//
// DominantFrequency removes the mean before windowing, so unipolar
// signals such as LFO outputs in [0, 1] are measured by their repetition
// rate rather than their DC offset.
//
// # Usage
//
//	st, err := osc.Analyze(captured)
//	fmt.Printf("range [%.3f, %.3f], rms %.3f\n", st.Min, st.Max, st.RMS)
//
//	f, err := osc.DominantFrequency(captured, 48000)
//	fmt.Printf("repeats at %.2f Hz\n", f)
package osc
