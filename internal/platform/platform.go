// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package platform probes CPU capabilities at codec initialization time.
// The field and FFT kernels in this module are portable Go (no hand-written
// assembly), so capability detection does not gate correctness; it is kept
// as a first-class collaborator because the dispatcher's contract
// (spec section 4.E) calls for a platform-detection step before field
// initialization, and because it is useful diagnostic surface for callers
// who want to know whether their build would benefit from a SIMD-optimized
// drop-in replacement of the multiply-by-constant kernel.
package platform

import "github.com/klauspost/cpuid/v2"

// Features reports the instruction-set extensions cpuid.CPU exposes. None
// of these gate correctness in this build; they exist for diagnostics, and
// no option reads them (goroutine fan-out defaults to runtime.GOMAXPROCS).
type Features struct {
	SSSE3   bool
	AVX2    bool
	AVX512  bool
	NEON    bool
	NumCore int
}

// Detect runs the CPU feature probe. It never fails: on any host the Go
// portable kernels remain correct, only their throughput characteristics
// change. A bool is still returned so Init's call site reads the same way
// the field self-tests do ("return Platform on failure").
func Detect() (Features, bool) {
	f := Features{
		SSSE3:   cpuid.CPU.Supports(cpuid.SSSE3),
		AVX2:    cpuid.CPU.Supports(cpuid.AVX2),
		AVX512:  cpuid.CPU.Supports(cpuid.AVX512F, cpuid.AVX512BW, cpuid.AVX512VL),
		NEON:    cpuid.CPU.Supports(cpuid.ASIMD),
		NumCore: cpuid.CPU.LogicalCores,
	}
	if f.NumCore <= 0 {
		f.NumCore = 1
	}
	return f, true
}
