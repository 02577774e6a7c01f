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

import (
	"github.com/xtaci/rscodec/internal/codec16"
	"github.com/xtaci/rscodec/internal/codec8"
	"github.com/xtaci/rscodec/internal/field16"
	"github.com/xtaci/rscodec/internal/field8"
	"github.com/xtaci/rscodec/xorkit"
)

// field8Limit is the largest FFT domain size (see codecDomain) that still
// fits in GF(2^8)'s 256-point evaluation domain; above it the dispatcher
// moves to GF(2^16).
const field8Limit = field8.Order

// field16Limit is the largest domain the 16-bit field can address at all.
const field16Limit = field16.Order

// codecDomain mirrors codec8/codec16's own m, n derivation (m = nextPow2(R),
// n = nextPow2(m+K)) so the dispatcher can pick a field width that actually
// fits the transform, rather than just comparing K+R against a threshold:
// a skewed R (not itself a power of two) can push n past K+R.
func codecDomain(original, recovery int) (m, n int) {
	m = nextPow2(recovery)
	n = nextPow2(m + original)
	return m, n
}

func validateShapeArgs(bufferBytes, original, recovery, workCount int) ErrorCode {
	if bufferBytes <= 0 || bufferBytes%field8.ShardMultiple != 0 {
		return InvalidSize
	}
	if original <= 0 || recovery <= 0 {
		return InvalidCounts
	}
	// Ordinary shapes require recovery <= original: an additive-FFT code
	// built on ceilPow2(recovery)-many evaluation points can't usefully
	// outrun the data it's protecting. The K=1 identity fast path is the
	// one exception: every recovery shard is just a copy of the original,
	// so R is unbounded there.
	if recovery > original && original != 1 {
		return InvalidCounts
	}
	if original+recovery > field16Limit {
		return TooMuchData
	}
	if _, n := codecDomain(original, recovery); n > field16Limit {
		return TooMuchData
	}
	return Success
}

func checkShards(shards [][]byte, count, bufferBytes int, allowNil bool) ErrorCode {
	if len(shards) < count {
		return InvalidInput
	}
	for i := 0; i < count; i++ {
		s := shards[i]
		if s == nil {
			if allowNil {
				continue
			}
			return InvalidInput
		}
		if len(s) != bufferBytes {
			return InvalidSize
		}
	}
	return Success
}

// Encode is the ABI-shaped entry point: original[0..K) feeds the codec,
// work[0..R) receives the recovery shards. work must have exactly
// EncodeWorkCount(K, R) entries, each a non-nil buffer_bytes-sized buffer.
func Encode(bufferBytes, original, recovery, workCount int, originalShards [][]byte, work [][]byte) ErrorCode {
	if !initOK {
		return CallInitialize
	}
	if code := validateShapeArgs(bufferBytes, original, recovery, workCount); code != Success {
		return code
	}
	if want := EncodeWorkCount(original, recovery); want != workCount || len(work) != workCount {
		return InvalidCounts
	}
	if code := checkShards(originalShards, original, bufferBytes, false); code != Success {
		return code
	}
	if code := checkShards(work, workCount, bufferBytes, false); code != Success {
		return code
	}

	switch {
	case original == 1:
		for i := 0; i < recovery; i++ {
			copy(work[i], originalShards[0])
		}
		return Success
	case recovery == 1:
		xorkit.Reduce(work[0], originalShards[:original])
		return Success
	}

	_, n := codecDomain(original, recovery)
	if n > field8Limit {
		if err := codec16.Encode(originalShards[:original], recovery, work); err != nil {
			return encodeErrToCode(err)
		}
		return Success
	}
	if err := codec8.Encode(originalShards[:original], recovery, work); err != nil {
		return encodeErrToCode(err)
	}
	return Success
}

// Decode is the ABI-shaped entry point: originalShards and recoveryShards
// carry nil at every lost index. On success, work[i] holds the recovered
// contents of every lost original index i; other work slots are scratch.
func Decode(bufferBytes, original, recovery, workCount int, originalShards, recoveryShards [][]byte, work [][]byte) ErrorCode {
	if !initOK {
		return CallInitialize
	}
	if code := validateShapeArgs(bufferBytes, original, recovery, workCount); code != Success {
		return code
	}
	if want := DecodeWorkCount(original, recovery); want != workCount || len(work) != workCount {
		return InvalidCounts
	}
	if code := checkShards(originalShards, original, bufferBytes, true); code != Success {
		return code
	}
	if code := checkShards(recoveryShards, recovery, bufferBytes, true); code != Success {
		return code
	}

	missing := 0
	for i := 0; i < original; i++ {
		if originalShards[i] == nil {
			missing++
			if work[i] == nil || len(work[i]) != bufferBytes {
				return InvalidInput
			}
		}
	}
	surviving := 0
	for i := 0; i < recovery; i++ {
		if recoveryShards[i] != nil {
			surviving++
		}
	}
	if missing == 0 {
		for i := 0; i < original; i++ {
			copy(work[i], originalShards[i])
		}
		return Success
	}
	if surviving < missing {
		return NeedMoreData
	}

	switch {
	case original == 1:
		for i := 0; i < recovery; i++ {
			if recoveryShards[i] != nil {
				copy(work[0], recoveryShards[i])
				return Success
			}
		}
		return NeedMoreData
	case recovery == 1:
		// surviving <= 1 and missing <= surviving, so exactly one original
		// is lost here; the parity shard recovers it directly.
		lost := -1
		srcs := make([][]byte, 0, original)
		for i := 0; i < original; i++ {
			if originalShards[i] != nil {
				srcs = append(srcs, originalShards[i])
			} else {
				lost = i
			}
		}
		srcs = append(srcs, recoveryShards[0])
		xorkit.Reduce(work[lost], srcs)
		return Success
	}

	_, n := codecDomain(original, recovery)
	if n > field8Limit {
		if err := codec16.Decode(originalShards[:original], recoveryShards[:recovery], work, nil); err != nil {
			return decodeErrToCode(err)
		}
		return Success
	}
	if err := codec8.Decode(originalShards[:original], recoveryShards[:recovery], work, nil); err != nil {
		return decodeErrToCode(err)
	}
	return Success
}

func encodeErrToCode(err error) ErrorCode {
	switch err {
	case codec8.ErrInvalidCounts, codec16.ErrInvalidCounts:
		return InvalidCounts
	case codec8.ErrInvalidShardSize, codec16.ErrInvalidShardSize:
		return InvalidSize
	case codec8.ErrSelfTest, codec16.ErrSelfTest:
		return Platform
	default:
		return InvalidInput
	}
}

func decodeErrToCode(err error) ErrorCode {
	switch err {
	case codec8.ErrNeedMoreData, codec16.ErrNeedMoreData:
		return NeedMoreData
	case codec8.ErrInvalidCounts, codec16.ErrInvalidCounts:
		return InvalidCounts
	case codec8.ErrInvalidShardSize, codec16.ErrInvalidShardSize:
		return InvalidSize
	case codec8.ErrSelfTest, codec16.ErrSelfTest:
		return Platform
	default:
		return InvalidInput
	}
}
