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

// Package field8 implements GF(2^8) arithmetic in the Cantor basis used by
// the additive FFT: log/exp tables, the per-layer FFT skew vector, the
// Walsh-Hadamard transform of the log table (for evaluating the decoder's
// error locator polynomial), and split-nibble multiply-by-constant kernels
// over 64-byte shard chunks.
package field8

import "sync"

// Elem is a GF(2^8) element.
type Elem uint8

const (
	Bitwidth   = 8
	Order      = 1 << Bitwidth
	Modulus    = Order - 1
	Polynomial = 0x11D

	// ShardMultiple is the alignment every shard buffer must satisfy.
	ShardMultiple = 64
)

var (
	expLUT   [Order]Elem
	logLUT   [Order]Elem
	skewVec  [Modulus]Elem
	logWalsh [Order]Elem
	mulLUTs  [Order][256]Elem // mulLUTs[logM][x] = x * Exp(logM)

	once    sync.Once
	selfOK  bool
	initErr error
)

// Init builds the tables and runs the self-test described in spec
// section 4.B. It is idempotent: concurrent or repeated calls after the
// first always observe the result of that first run.
func Init() bool {
	once.Do(func() {
		buildLUTs()
		buildSkew()
		buildMulLUTs()
		selfOK = selfTest()
	})
	return selfOK
}

// buildLUTs runs the LFSR over Polynomial to build the plain log/exp
// tables, then re-expresses them in the Cantor basis so the FFT evaluation
// points form the standard additive-subspace ordering.
func buildLUTs() {
	cantorBasis := [Bitwidth]Elem{
		1, 214, 152, 146, 86, 200, 88, 230,
	}

	state := 1
	for i := 0; i < Modulus; i++ {
		expLUT[state] = Elem(i)
		state <<= 1
		if state >= Order {
			state ^= Polynomial
		}
	}
	expLUT[0] = Modulus

	logLUT[0] = 0
	for i := 0; i < Bitwidth; i++ {
		basis := cantorBasis[i]
		width := 1 << i
		for j := 0; j < width; j++ {
			logLUT[j+width] = logLUT[j] ^ basis
		}
	}
	for i := 0; i < Order; i++ {
		logLUT[i] = expLUT[logLUT[i]]
	}
	for i := 0; i < Order; i++ {
		expLUT[logLUT[i]] = Elem(i)
	}
	expLUT[Modulus] = expLUT[0]
}

// buildSkew derives the per-layer FFT skew vector and the Walsh-Hadamard
// transform of the log table from the Cantor basis, following the
// Lin-Chung-Han construction.
func buildSkew() {
	var temp [Bitwidth - 1]Elem
	for i := 1; i < Bitwidth; i++ {
		temp[i-1] = Elem(1 << i)
	}

	for m := 0; m < Bitwidth-1; m++ {
		step := 1 << (m + 1)
		skewVec[1<<m-1] = 0

		for i := m; i < Bitwidth-1; i++ {
			s := 1 << (i + 1)
			for j := 1<<m - 1; j < s; j += step {
				skewVec[j+s] = skewVec[j] ^ temp[i]
			}
		}

		temp[m] = Modulus - logLUT[MulLog(temp[m], logLUT[temp[m]^1])]
		for i := m + 1; i < Bitwidth-1; i++ {
			sum := AddMod(logLUT[temp[i]^1], temp[m])
			temp[i] = MulLog(temp[i], sum)
		}
	}
	for i := 0; i < Modulus; i++ {
		skewVec[i] = logLUT[skewVec[i]]
	}

	for i := 0; i < Order; i++ {
		logWalsh[i] = logLUT[i]
	}
	logWalsh[0] = 0
	FWHT(&logWalsh, Order)
}

func buildMulLUTs() {
	for logM := 0; logM < Order; logM++ {
		var tmp [64]Elem
		shift := 0
		for nibble := 0; nibble < 4; nibble++ {
			lut := tmp[nibble*16:]
			for x := 0; x < 16; x++ {
				lut[x] = MulLog(Elem(x<<shift), Elem(logM))
			}
			shift += 4
		}
		lut := &mulLUTs[logM]
		for i := range lut {
			lut[i] = tmp[i&15] ^ tmp[(i>>4)+16]
		}
	}
}

// Mul is scalar GF(2^8) multiplication. The modular fold in AddMod relies
// on 2^Bitwidth === 1 (mod Modulus), which lets a single Order-sized exp
// table stand in for the "extended to 2*(q-1)" table spec.md describes.
func Mul(a, b Elem) Elem {
	if a == 0 || b == 0 {
		return 0
	}
	return expLUT[AddMod(logLUT[a], logLUT[b])]
}

// Inv is the multiplicative inverse of a nonzero element.
func Inv(a Elem) Elem {
	return expLUT[Modulus-logLUT[a]]
}

// MulLog returns a * exp(logB): a GF multiply where the right operand is
// already a discrete log, used throughout table construction and the
// decoder's log-domain error-locator evaluation.
func MulLog(a, logB Elem) Elem {
	if a == 0 {
		return 0
	}
	return expLUT[AddMod(logLUT[a], logB)]
}

// AddMod adds two exponents modulo Modulus, without collapsing a result of
// exactly Modulus back to 0 (callers that need the canonical residue use
// SubMod's same trick or compare against Modulus explicitly).
func AddMod(a, b Elem) Elem {
	sum := uint(a) + uint(b)
	return Elem(sum + sum>>Bitwidth)
}

// SubMod subtracts b from a modulo Modulus.
func SubMod(a, b Elem) Elem {
	dif := uint(a) - uint(b)
	return Elem(dif + dif>>Bitwidth)
}

// Skew returns the precomputed FFT skew vector (length Modulus).
func Skew() *[Modulus]Elem { return &skewVec }

// LogWalsh returns the Walsh-Hadamard transform of the log table.
func LogWalsh() *[Order]Elem { return &logWalsh }

// Log returns the discrete log of a nonzero element.
func Log(x Elem) Elem { return logLUT[x] }

// Exp is the inverse of Log, extended so AddMod's unreduced sums index
// safely without an extra branch.
func Exp(x Elem) Elem { return expLUT[x] }

// MulAdd XORs y*exp(logM) into x, in 64-byte chunks, via the split-nibble
// lookup table built in buildMulLUTs. x and y must have equal length, a
// positive multiple of 64.
func MulAdd(x, y []byte, logM Elem) {
	lut := &mulLUTs[logM]
	for i := 0; i < len(x); i += 64 {
		src := y[i : i+64]
		dst := x[i : i+64]
		for j, v := range src {
			dst[j] ^= byte(lut[v])
		}
	}
}

// MulAssign sets x := y*exp(logM), in 64-byte chunks.
func MulAssign(x, y []byte, logM Elem) {
	lut := &mulLUTs[logM]
	for i := 0; i < len(x); i += 64 {
		src := y[i : i+64]
		dst := x[i : i+64]
		for j, v := range src {
			dst[j] = byte(lut[v])
		}
	}
}

// FWHT is the decimation-in-time Fast Walsh-Hadamard Transform over the
// order-Order cyclic group, used to collapse the error locator's missing
// position indicator into a length-Order evaluation vector in O(n log n).
func FWHT(data *[Order]Elem, mtrunc int) {
	dist := 1
	for dist < Order {
		for r := 0; r < mtrunc; r += dist * 2 {
			for i := r; i < r+dist; i++ {
				a := data[i]
				b := data[i+dist]
				data[i] = AddMod(a, b)
				data[i+dist] = SubMod(a, b)
			}
		}
		dist <<= 1
	}
}

func selfTest() bool {
	for a := 1; a < Order; a++ {
		e := Elem(a)
		if Mul(e, Inv(e)) != 1 {
			return false
		}
		if expLUT[logLUT[e]] != e {
			return false
		}
	}
	return true
}
