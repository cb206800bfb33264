// Package lfo implements a bank of low-frequency oscillators sharing one
// rate. Eight waveform families are available through a shape selector;
// stepping the bank advances only the selected family, so switching shapes
// and back resumes the previous waveform exactly where it left off.
//
// Outputs are normalized to [0,1]. The square and relaxation shapes can
// briefly overshoot that range by the nature of their curves; the hyper
// shapes fold their source waveform into [0.5,1].
package lfo
