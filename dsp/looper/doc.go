// Package looper implements a fixed-capacity loop ring with additive
// overdub recording and variable-speed, bidirectional playback.
//
// Recording never overwrites: RecordAdd mixes the attenuated input into
// the slot under the write index, so repeated passes over the ring
// layer on top of each other. Playback runs on an independent
// real-valued read position that may advance by any speed, including
// negative (reverse) and fractional (scrub) rates.
//
// The recording and playing flags are independent; both being true is
// the normal overdub-while-looping state, not an error.
package looper
