package lfo_test

import (
	"fmt"

	"github.com/cwbudde/algo-looper/dsp/lfo"
)

func ExampleNew() {
	b, _ := lfo.New(8, lfo.WithFrequency(1), lfo.WithShape(lfo.Triangle))

	for range 6 {
		fmt.Printf("%.3f\n", b.Step())
	}

	// Output:
	// 0.250
	// 0.500
	// 0.750
	// 1.000
	// 0.750
	// 0.500
}

func ExampleParseShape() {
	s, _ := lfo.ParseShape("integrated-triangle")
	fmt.Println(s)

	// Output:
	// integrated triangle
}
