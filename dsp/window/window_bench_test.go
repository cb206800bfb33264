package window

import (
	"strconv"
	"testing"
)

func BenchmarkGenerate(b *testing.B) {
	cases := []struct {
		name string
		typ  Type
	}{
		{"hann", TypeHann},
		{"blackman", TypeBlackman},
	}

	for _, tc := range cases {
		for _, n := range []int{256, 1024, 4096} {
			b.Run(tc.name+"/"+strconv.Itoa(n), func(b *testing.B) {
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					_ = Generate(tc.typ, n)
				}
			})
		}
	}
}

func BenchmarkApplyCoefficientsInPlace(b *testing.B) {
	for _, n := range []int{256, 1024, 4096} {
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			b.ReportAllocs()
			buf := make([]float64, n)
			coeffs := Generate(TypeHann, n)
			for i := 0; i < b.N; i++ {
				if err := ApplyCoefficientsInPlace(buf, coeffs); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
