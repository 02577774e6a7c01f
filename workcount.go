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

package rscodec

import "math/bits"

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	const w = 32
	return 1 << (w - bits.LeadingZeros32(uint32(n-1)))
}

// EncodeWorkCount returns the number of work buffers Encode needs for the
// given original/recovery counts. K=1 copies the single shard through
// recovery unchanged, so it needs exactly R buffers; R=1 is the parity XOR
// fast path and needs exactly one; otherwise the additive-FFT codec needs
// 2*nextPow2(R) buffers (the skewed encode accumulator and its scratch
// twin).
func EncodeWorkCount(original, recovery int) int {
	switch {
	case original == 1:
		return recovery
	case recovery == 1:
		return 1
	default:
		return 2 * nextPow2(recovery)
	}
}

// DecodeWorkCount returns the number of work buffers Decode needs. K=1 and
// R=1 both need K buffers, one per original index (a single buffer when
// K=1), since the recovered shard lands in work[i] for its lost index i;
// otherwise the decoder's FFT domain is nextPow2(nextPow2(R) + K).
func DecodeWorkCount(original, recovery int) int {
	switch {
	case original == 1, recovery == 1:
		return original
	default:
		return nextPow2(nextPow2(recovery) + original)
	}
}
