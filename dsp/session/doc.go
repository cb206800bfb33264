// Package session composes the delay, oscillator bank and loop ring
// into one per-sample processing engine.
//
// A Session runs two cadences on a single goroutine: every sample it
// feeds the input through the delay, overdubs the result into the loop
// ring while recording and mixes loop playback into the output; every
// control interval it steps the LFO and remaps the stored knob values
// onto the delay parameters and the playback speed.
//
// Knob values are raw [0, 1] readings, the resolution of a polled
// analog input. They take effect at the next control tick, not
// immediately.
package session
