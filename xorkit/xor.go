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

// Package xorkit provides the bulk XOR kernels the Reed-Solomon codec builds
// on: the additive-FFT butterflies reduce to xor_mem on 64-byte-multiple
// buffers, and the m=1 parity fast path is a multi-stream XOR reduction.
//
// The word-at-a-time XOR itself is delegated to templexxx/xorsimd, which
// picks an AVX512/AVX2/SSE2/generic encode loop per templexxx/cpu's feature
// probe; xorkit only adds the multi-stream fan-out shapes (three-operand,
// four-independent-stream, N-way reduce) the codec needs on top of it.
package xorkit

import (
	"unsafe"

	"github.com/templexxx/cpu"
	"github.com/templexxx/xorsimd"
)

const wordSize = int(unsafe.Sizeof(uintptr(0)))

// wideFanout reports whether the host has at least AVX2, which is what
// xorsimd.Encode uses as its cutoff between its wide and SSE2 encode loops.
// FourStream uses it to decide whether interleaving four independent XORs
// is still worth the bookkeeping over four back-to-back xorsimd.Bytes calls.
var wideFanout = cpu.X86.HasAVX2

// Bytes XORs src into dst in place: dst[i] ^= src[i].
//
// Both slices must have the same length, and that length must be a positive
// multiple of 64 (the shard alignment the codec guarantees upstream); Bytes
// does not re-check this, matching the "undefined behavior on misaligned
// length" contract of the kernel layer.
func Bytes(dst, src []byte) {
	xorsimd.Bytes(dst, dst, src)
}

// Bytes3 XORs two sources into dst in place: dst[i] ^= a[i] ^ b[i].
func Bytes3(dst, a, b []byte) {
	xorsimd.Encode(dst, [][]byte{dst, a, b})
}

// Pair is one (dst, src) operand of a Bytes call, grouped so four
// independent XORs can be fed to the hardware's execution units back to
// back without data dependencies between them.
type Pair struct {
	Dst, Src []byte
}

// FourStream runs up to four independent Bytes operations. On hosts wide
// enough for xorsimd's AVX2/AVX512 encode loop, each pair is already
// saturating the execution units on its own, so the pairs just run back to
// back through Bytes. On narrower hosts the four loops are interleaved by
// hand, so a scalar core's load/store pipeline stays fed instead of
// stalling on the dependency chain of one pair at a time. Unused trailing
// pairs are zero-valued and skipped.
func FourStream(pairs [4]Pair) {
	if wideFanout {
		for _, p := range pairs {
			if p.Dst != nil {
				Bytes(p.Dst, p.Src)
			}
		}
		return
	}

	n := 0
	for _, p := range pairs {
		if p.Dst == nil {
			continue
		}
		if n == 0 || len(p.Dst) < n {
			n = len(p.Dst)
		}
	}
	w := n / wordSize
	var dw, sw [4][]uintptr
	have := 0
	for i, p := range pairs {
		if p.Dst == nil {
			continue
		}
		have++
		dw[i] = (*(*[]uintptr)(unsafe.Pointer(&p.Dst)))[:w]
		sw[i] = (*(*[]uintptr)(unsafe.Pointer(&p.Src)))[:w]
	}
	if have == 0 {
		return
	}
	for j := 0; j < w; j++ {
		for i := range pairs {
			if dw[i] != nil {
				dw[i][j] ^= sw[i][j]
			}
		}
	}
	for _, p := range pairs {
		if p.Dst == nil {
			continue
		}
		for k := w * wordSize; k < n; k++ {
			p.Dst[k] ^= p.Src[k]
		}
	}
}

// Reduce XORs every buffer in srcs into dst: dst[i] = srcs[0][i] ^ srcs[1][i] ^ ...
// dst may alias srcs[0]. This backs the m=1 systematic-parity fast path.
func Reduce(dst []byte, srcs [][]byte) {
	if len(srcs) == 0 {
		clear(dst)
		return
	}
	xorsimd.Encode(dst, srcs)
}
