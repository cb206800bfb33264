package lfo

import (
	"fmt"
	"strings"
)

// Shape identifies a waveform family of the bank.
type Shape int

// Waveform families, in selector order.
const (
	// IntegratedTriangle integrates a triangle wave into a quasi-sinusoid.
	// Its derivative is purely triangular, giving a linear pitch slew when
	// it modulates a delay time.
	IntegratedTriangle Shape = iota
	// Triangle is a plain linear up/down ramp in [0,1].
	Triangle
	// Sine is a coupled-pair recurrence sine, offset into [0,1].
	Sine
	// Square is a click-less square derived from the sine family by
	// amplifying and soft-clipping it.
	Square
	// Exponential alternates exponential growth and decay between fixed
	// bounds.
	Exponential
	// Relaxation models an RC relaxation oscillator: a first-order filter
	// driven toward alternating targets.
	Relaxation
	// Hyper folds the integrated triangle around its midpoint: smooth
	// bottom, triangular top.
	Hyper
	// HyperSine folds the sine family the same way.
	HyperSine
)

var shapeNames = [...]string{
	IntegratedTriangle: "integrated triangle",
	Triangle:           "triangle",
	Sine:               "sine",
	Square:             "square",
	Exponential:        "exponential",
	Relaxation:         "rc relaxation",
	Hyper:              "hyper",
	HyperSine:          "hyper sine",
}

// String returns the static name of the shape, or "unknown" for values
// outside the selector range.
func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return "unknown"
	}
	return shapeNames[s]
}

// ParseShape resolves a shape from its name. Matching is case-insensitive
// and treats '-' and '_' as spaces, so "hyper-sine" and "HYPER_SINE" both
// resolve to HyperSine.
func ParseShape(name string) (Shape, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "-", " ")
	n = strings.ReplaceAll(n, "_", " ")
	for i, label := range shapeNames {
		if n == label {
			return Shape(i), nil
		}
	}
	return 0, fmt.Errorf("unknown lfo shape: %q", name)
}
