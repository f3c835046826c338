// Package cpufeature exposes the CPU feature checks the product
// construction uses to size its initial work queue, the same
// feature-detection primitive the teacher's simd and prefilter packages use
// to pick SIMD code paths (golang.org/x/sys/cpu), minus the assembly: there
// is no SIMD kernel here, only a capacity hint.
package cpufeature

import "golang.org/x/sys/cpu"

// HasAVX2 reports whether the running CPU supports AVX2.
func HasAVX2() bool {
	return cpu.X86.HasAVX2
}
