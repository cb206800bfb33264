package session_test

import (
	"fmt"

	"github.com/cwbudde/algo-looper/dsp/session"
)

func ExampleSession_ToggleRecord() {
	s, _ := session.New(44100)

	fmt.Println(s.Recording(), s.Playing())
	s.ToggleRecord()
	fmt.Println(s.Recording(), s.Playing())
	s.ToggleRecord()
	fmt.Println(s.Recording(), s.Playing())

	// Output:
	// false false
	// true true
	// false true
}

func ExampleSession_PlaybackSpeed() {
	s, _ := session.New(44100, session.WithControlInterval(1))

	for _, raw := range []float64{0, 0.5, 1} {
		c := s.Controls()
		c.Speed = raw
		s.SetControls(c)
		s.Process(0)

		fmt.Printf("%.0f\n", s.PlaybackSpeed())
	}

	// Output:
	// -2
	// 0
	// 2
}
