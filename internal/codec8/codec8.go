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

// Package codec8 is the GF(2^8) Reed-Solomon encode/decode driver: it wires
// field8's constant-multiply kernels and fft8's butterfly network into the
// two operations the additive-FFT construction actually provides - turn K
// data shards into R recovery shards, and turn up to R erasures scattered
// across data and recovery shards back into the missing data.
//
// Ported from the O(n log n) construction in
// S.-J. Lin, T. Y. Al-Naffouri, Y. S. Han, and W.-H. Chung, "Novel
// Polynomial Basis with Fast Fourier Transform and Its Application to
// Reed-Solomon Erasure Codes", IEEE Trans. on Information Theory, 2016.
package codec8

import (
	"errors"
	"math/bits"
	"sync"

	"github.com/xtaci/rscodec/internal/field8"
	"github.com/xtaci/rscodec/internal/fft8"
)

var (
	// ErrInvalidCounts is returned when K or R is zero, or when work does
	// not have the length Encode or Decode needs.
	ErrInvalidCounts = errors.New("codec8: original/recovery count must be positive")
	// ErrInvalidShardSize is returned when shards disagree in length or
	// their length is not a positive multiple of field8.ShardMultiple.
	ErrInvalidShardSize = errors.New("codec8: shard size must be a positive multiple of 64")
	// ErrNeedMoreData is returned when fewer than K shards survive.
	ErrNeedMoreData = errors.New("codec8: not enough surviving shards to reconstruct")
	// ErrSelfTest is returned when field8's table self-test failed.
	ErrSelfTest = errors.New("codec8: GF(2^8) self-test failed")
)

func ceilPow2(n int) int {
	const w = 32
	return 1 << (w - bits.LeadingZeros32(uint32(n-1)))
}

// Encode computes recovery shards for data in place over work, a
// caller-supplied scratch buffer of length 2*ceilPow2(recovery) (every entry
// non-nil and shardSize bytes). Encode performs no allocation of its own; on
// success work[:recovery] holds the recovery shards.
func Encode(data [][]byte, recovery int, work [][]byte) error {
	if !field8.Init() {
		return ErrSelfTest
	}
	k := len(data)
	if k == 0 || recovery == 0 {
		return ErrInvalidCounts
	}
	m := ceilPow2(recovery)
	if len(work) != 2*m {
		return ErrInvalidCounts
	}
	shardSize := len(data[0])
	if shardSize == 0 || shardSize%field8.ShardMultiple != 0 {
		return ErrInvalidShardSize
	}
	for _, s := range data {
		if len(s) != shardSize {
			return ErrInvalidShardSize
		}
	}
	for _, s := range work {
		if len(s) != shardSize {
			return ErrInvalidShardSize
		}
	}

	skew := field8.Skew()[m-1:]
	mtrunc := k
	if m < mtrunc {
		mtrunc = m
	}
	fft8.InverseEncoder(data[:mtrunc], mtrunc, work[:m], nil, m, skew)

	if m < k {
		off := m
		skewOff := skew[m:]
		for off+m <= k {
			fft8.InverseEncoder(data[off:off+m], m, work[m:2*m], work[:m], m, skewOff)
			off += m
			skewOff = skewOff[m:]
		}
		if lastCount := k % m; lastCount != 0 {
			fft8.InverseEncoder(data[off:off+lastCount], lastCount, work[m:2*m], work[:m], m, skewOff)
		}
	}

	fft8.Forward(work[:m], recovery, m, field8.Skew()[:])
	return nil
}

// InversionCache memoizes the error locator evaluation (the Walsh-Hadamard
// convolution in Decode) keyed by which shards are missing, so a caller
// that repeatedly decodes the same erasure pattern - e.g. a transport layer
// retrying with one freshly-arrived shard at a time - does not redo the
// O(n log n) locator computation on every attempt. It never changes what
// Decode returns, only how much work it repeats.
type InversionCache struct {
	mu sync.Mutex
	m  map[string][field8.Order]field8.Elem
}

// NewInversionCache returns an empty cache.
func NewInversionCache() *InversionCache {
	return &InversionCache{m: make(map[string][field8.Order]field8.Elem)}
}

func erasureKey(data, parity [][]byte) string {
	key := make([]byte, len(data)+len(parity))
	for i, s := range data {
		if s == nil {
			key[i] = 1
		}
	}
	for i, s := range parity {
		if s == nil {
			key[len(data)+i] = 1
		}
	}
	return string(key)
}

// Decode reconstructs missing data shards in place over work, a
// caller-supplied scratch buffer of length ceilPow2(ceilPow2(len(parity))+k)
// (every entry non-nil and shardSize bytes). data and parity carry nil for
// any erased shard. On success, work[i] holds the recovered contents of
// every lost data shard i; every other work slot is scratch. cache may be
// nil.
func Decode(data, parity [][]byte, work [][]byte, cache *InversionCache) error {
	if !field8.Init() {
		return ErrSelfTest
	}
	k, r := len(data), len(parity)
	if k == 0 || r == 0 {
		return ErrInvalidCounts
	}

	missing := 0
	shardSize := 0
	for _, s := range data {
		if s == nil {
			missing++
			continue
		}
		if shardSize == 0 {
			shardSize = len(s)
		} else if len(s) != shardSize {
			return ErrInvalidShardSize
		}
	}
	present := k - missing
	for _, s := range parity {
		if s == nil {
			continue
		}
		if shardSize == 0 {
			shardSize = len(s)
		} else if len(s) != shardSize {
			return ErrInvalidShardSize
		}
		present++
	}
	if shardSize == 0 || shardSize%field8.ShardMultiple != 0 {
		return ErrInvalidShardSize
	}
	if missing == 0 {
		return nil
	}
	if present < k {
		return ErrNeedMoreData
	}

	m := ceilPow2(r)
	n := ceilPow2(m + k)
	if len(work) != n {
		return ErrInvalidCounts
	}
	for _, s := range work {
		if len(s) != shardSize {
			return ErrInvalidShardSize
		}
	}

	var errLocs [field8.Order]field8.Elem
	var key string
	var cached bool
	if cache != nil {
		key = erasureKey(data, parity)
		cache.mu.Lock()
		errLocs, cached = cache.m[key]
		cache.mu.Unlock()
	}

	if !cached {
		for i := 0; i < r; i++ {
			if parity[i] == nil {
				errLocs[i] = 1
			}
		}
		for i := r; i < m; i++ {
			errLocs[i] = 1
		}
		for i := 0; i < k; i++ {
			if data[i] == nil {
				errLocs[i+m] = 1
			}
		}

		field8.FWHT(&errLocs, m+k)
		walsh := field8.LogWalsh()
		for i := range errLocs {
			errLocs[i] = field8.Elem((uint(errLocs[i]) * uint(walsh[i])) % field8.Modulus)
		}
		field8.FWHT(&errLocs, field8.Order)

		if cache != nil {
			cache.mu.Lock()
			cache.m[key] = errLocs
			cache.mu.Unlock()
		}
	}

	for i := 0; i < r; i++ {
		if parity[i] != nil {
			field8.MulAssign(work[i], parity[i], errLocs[i])
		} else {
			clear(work[i])
		}
	}
	for i := r; i < m; i++ {
		clear(work[i])
	}
	for i := 0; i < k; i++ {
		if data[i] != nil {
			field8.MulAssign(work[m+i], data[i], errLocs[m+i])
		} else {
			clear(work[m+i])
		}
	}
	for i := m + k; i < n; i++ {
		clear(work[i])
	}

	skew := field8.Skew()[:]
	fft8.InverseDecoder(m+k, work, n, skew)
	fft8.FormalDerivative(work)
	fft8.Forward(work, m+k, n, skew)

	// Ascending order matters: the slot work[i] written here is never the
	// source work[i'+m] of a later iteration i' > i, since i'+m > i for all
	// m > 0; an earlier iteration whose source was work[i] has already run.
	for i := 0; i < k; i++ {
		if data[i] != nil {
			continue
		}
		field8.MulAssign(work[i], work[i+m], field8.Elem(field8.Modulus)-errLocs[i+m])
	}
	return nil
}
