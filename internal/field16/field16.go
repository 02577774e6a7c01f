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

// Package field16 is field8's GF(2^16) counterpart, used once the decode
// domain nextPow2(nextPow2(recovery_count)+original_count) no longer fits in
// GF(2^8)'s 256 points.
// Elements are stored as little-endian byte pairs within a shard (spec.md
// section 3): buf[2*i], buf[2*i+1] are the low and high byte of element i.
package field16

import "sync"

// Elem is a GF(2^16) element.
type Elem uint16

const (
	Bitwidth   = 16
	Order      = 1 << Bitwidth
	Modulus    = Order - 1
	Polynomial = 0x1002D

	ShardMultiple = 64
)

var (
	expLUT   [Order]Elem
	logLUT   [Order]Elem
	skewVec  [Modulus]Elem
	logWalsh [Order]Elem

	// mulLo/mulHi[logM][byte] are the low/high-byte nibble-decomposed
	// multiply tables: for an element x = lo | hi<<8, x*exp(logM) =
	// mulLo[logM][lo] ^ mulHi[logM][hi].
	mulLo [Order][256]Elem
	mulHi [Order][256]Elem

	once   sync.Once
	selfOK bool
)

// Init builds the tables and runs the self-test. Idempotent.
func Init() bool {
	once.Do(func() {
		buildLUTs()
		buildSkew()
		buildMulLUTs()
		selfOK = selfTest()
	})
	return selfOK
}

func buildLUTs() {
	cantorBasis := [Bitwidth]Elem{
		0x0001, 0xACCA, 0x3C0E, 0x163E,
		0xC582, 0xED2E, 0x914C, 0x4012,
		0x6C98, 0x10D8, 0x6A72, 0xB900,
		0xFDB8, 0xFB34, 0xFF38, 0x991E,
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
		lo := &mulLo[logM]
		hi := &mulHi[logM]
		for i := 0; i < 256; i++ {
			lo[i] = tmp[i&15] ^ tmp[(i>>4)+16]
			hi[i] = tmp[(i&15)+32] ^ tmp[(i>>4)+48]
		}
	}
}

// Mul is scalar GF(2^16) multiplication.
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

// MulLog returns a * exp(logB).
func MulLog(a, logB Elem) Elem {
	if a == 0 {
		return 0
	}
	return expLUT[AddMod(logLUT[a], logB)]
}

// AddMod adds two exponents modulo Modulus via the 2^Bitwidth===1 fold.
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

// Exp is the inverse of Log.
func Exp(x Elem) Elem { return expLUT[x] }

// FWHT is the decimation-in-time Fast Walsh-Hadamard Transform over the
// order-Order cyclic group.
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

// MulAdd XORs y*exp(logM) into x. x and y hold len(x)/2 little-endian
// 16-bit elements each; len(x) must be a positive multiple of
// ShardMultiple.
func MulAdd(x, y []byte, logM Elem) {
	lo := &mulLo[logM]
	hi := &mulHi[logM]
	n := len(x) / 2
	for i := 0; i < n; i++ {
		yLo := y[2*i]
		yHi := y[2*i+1]
		prod := lo[yLo] ^ hi[yHi]
		x[2*i] ^= byte(prod)
		x[2*i+1] ^= byte(prod >> 8)
	}
}

// MulAssign sets x := y*exp(logM).
func MulAssign(x, y []byte, logM Elem) {
	lo := &mulLo[logM]
	hi := &mulHi[logM]
	n := len(x) / 2
	for i := 0; i < n; i++ {
		yLo := y[2*i]
		yHi := y[2*i+1]
		prod := lo[yLo] ^ hi[yHi]
		x[2*i] = byte(prod)
		x[2*i+1] = byte(prod >> 8)
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
