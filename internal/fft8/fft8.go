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

// Package fft8 is the additive FFT over GF(2^8): the decimation-in-time
// butterfly network the encoder runs as an inverse transform over the
// evaluation points of the data shards, and the decoder runs as a forward
// transform over the error locator polynomial.
package fft8

import (
	"github.com/xtaci/rscodec/internal/field8"
	"github.com/xtaci/rscodec/xorkit"
)

type elem = field8.Elem

// butterfly2 is the forward 2-way butterfly: x ^= y*exp(logM); y ^= x.
func butterfly2(x, y []byte, logM elem) {
	if logM == field8.Modulus {
		xorkit.Bytes(y, x)
		return
	}
	field8.MulAdd(x, y, logM)
	xorkit.Bytes(y, x)
}

// ibutterfly2 is the inverse 2-way butterfly: y ^= x; x ^= y*exp(logM).
func ibutterfly2(x, y []byte, logM elem) {
	if logM == field8.Modulus {
		xorkit.Bytes(y, x)
		return
	}
	xorkit.Bytes(y, x)
	field8.MulAdd(x, y, logM)
}

// butterfly4 is the 2-layer-unrolled forward butterfly over four work
// slices spaced dist apart, grounded on the teacher's 4-way decimation
// step: it halves the loop overhead of running three independent 2-way
// butterflies in sequence.
func butterfly4(work [][]byte, dist int, logM01, logM23, logM02 elem) {
	w0, w1, w2, w3 := work[0], work[dist], work[dist*2], work[dist*3]

	if logM02 == field8.Modulus {
		xorkit.Bytes(w2, w0)
		xorkit.Bytes(w3, w1)
	} else {
		butterfly2(w0, w2, logM02)
		butterfly2(w1, w3, logM02)
	}

	if logM01 == field8.Modulus {
		xorkit.Bytes(w1, w0)
	} else {
		butterfly2(w0, w1, logM01)
	}

	if logM23 == field8.Modulus {
		xorkit.Bytes(w3, w2)
	} else {
		butterfly2(w2, w3, logM23)
	}
}

// ibutterfly4 is the inverse counterpart of butterfly4.
func ibutterfly4(work [][]byte, dist int, logM01, logM23, logM02 elem) {
	w0, w1, w2, w3 := work[0], work[dist], work[dist*2], work[dist*3]

	if logM01 == field8.Modulus {
		xorkit.Bytes(w1, w0)
	} else {
		ibutterfly2(w0, w1, logM01)
	}

	if logM23 == field8.Modulus {
		xorkit.Bytes(w3, w2)
	} else {
		ibutterfly2(w2, w3, logM23)
	}

	if logM02 == field8.Modulus {
		xorkit.Bytes(w2, w0)
		xorkit.Bytes(w3, w1)
	} else {
		ibutterfly2(w0, w2, logM02)
		ibutterfly2(w1, w3, logM02)
	}
}

// Forward runs the in-place forward FFT over work[:m], used by both the
// encoder (to evaluate the IFFT'd data at the remaining points) and the
// decoder (to evaluate the error locator's formal derivative). Only the
// first mtrunc slices are assumed non-redundant; skewLUT must have at
// least m-1 usable entries indexed the way leopard's layered skew table is.
func Forward(work [][]byte, mtrunc, m int, skewLUT []elem) {
	dist4 := m
	dist := m >> 2
	for dist != 0 {
		for r := 0; r < mtrunc; r += dist4 {
			iend := r + dist
			logM01 := skewLUT[iend-1]
			logM02 := skewLUT[iend+dist-1]
			logM23 := skewLUT[iend+dist*2-1]
			for i := r; i < iend; i++ {
				butterfly4(work[i:], dist, logM01, logM23, logM02)
			}
		}
		dist4 = dist
		dist >>= 2
	}

	if dist4 == 2 {
		for r := 0; r < mtrunc; r += 2 {
			logM := skewLUT[r]
			butterfly2(work[r], work[r+1], logM)
		}
	}
}

// InverseEncoder runs the in-place inverse FFT used by the encoder: it
// copies data into work (zero-padding beyond mtrunc), transforms it, and
// optionally XORs the result into xorRes (used to accumulate successive
// groups of m data shards into one running parity work buffer).
func InverseEncoder(data [][]byte, mtrunc int, work [][]byte, xorRes [][]byte, m int, skewLUT []elem) {
	for i := 0; i < mtrunc; i++ {
		copy(work[i], data[i])
	}
	for i := mtrunc; i < m; i++ {
		clear(work[i])
	}

	dist := 1
	dist4 := 4
	for dist4 <= m {
		for r := 0; r < mtrunc; r += dist4 {
			iend := r + dist
			logM01 := skewLUT[iend]
			logM02 := skewLUT[iend+dist]
			logM23 := skewLUT[iend+dist*2]
			for i := r; i < iend; i++ {
				ibutterfly4(work[i:], dist, logM01, logM23, logM02)
			}
		}
		dist = dist4
		dist4 <<= 2
	}

	if dist < m {
		logM := skewLUT[dist]
		if logM == field8.Modulus {
			for i := 0; i < dist; i++ {
				xorkit.Bytes(work[i+dist], work[i])
			}
		} else {
			for i := 0; i < dist; i++ {
				ibutterfly2(work[i], work[i+dist], logM)
			}
		}
	}

	if xorRes != nil {
		for i := 0; i < m; i++ {
			xorkit.Bytes(xorRes[i], work[i])
		}
	}
}

// InverseDecoder runs the in-place inverse FFT the decoder applies to the
// combined recovery/original work buffer before taking its formal
// derivative.
func InverseDecoder(mtrunc int, work [][]byte, m int, skewLUT []elem) {
	dist := 1
	dist4 := 4
	for dist4 <= m {
		for r := 0; r < mtrunc; r += dist4 {
			iend := r + dist
			logM01 := skewLUT[iend-1]
			logM02 := skewLUT[iend+dist-1]
			logM23 := skewLUT[iend+dist*2-1]
			for i := r; i < iend; i++ {
				ibutterfly4(work[i:], dist, logM01, logM23, logM02)
			}
		}
		dist = dist4
		dist4 <<= 2
	}

	if dist < m {
		logM := skewLUT[dist-1]
		if logM == field8.Modulus {
			for i := 0; i < dist; i++ {
				xorkit.Bytes(work[i+dist], work[i])
			}
		} else {
			for i := 0; i < dist; i++ {
				ibutterfly2(work[i], work[i+dist], logM)
			}
		}
	}
}

// FormalDerivative replaces work with its formal derivative in place, the
// "sandwich" step that lets the decoder avoid dividing by the error
// locator polynomial directly.
func FormalDerivative(work [][]byte) {
	n := len(work)
	for i := 1; i < n; i++ {
		width := ((i ^ (i - 1)) + 1) >> 1
		lo, hi := i-width, i
		for j := 0; j < width; j++ {
			xorkit.Bytes(work[lo+j], work[hi+j])
		}
	}
}
