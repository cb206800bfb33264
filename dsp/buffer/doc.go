// Package buffer stages sample blocks between audio I/O and the
// engine. Processing APIs take raw []float64 slices; Block and Pool
// manage those slices so per-block render and device Read loops stay
// allocation free.
package buffer
