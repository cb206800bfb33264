// Package interp provides interpolation primitives used by delay-based DSP blocks.
//
// Available kernels, from cheapest to highest quality:
//
//   - [Linear2]:  2-point linear interpolation
//   - [Hermite4]: 4-point cubic Hermite
//
// The [Mode] enum lets consuming blocks select a kernel at
// construction time.
package interp
