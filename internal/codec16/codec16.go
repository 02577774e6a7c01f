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

// Package codec16 is codec8's GF(2^16) counterpart, used once the decode
// domain nextPow2(nextPow2(recovery_count)+original_count) no longer fits in
// GF(2^8)'s 256 points.
package codec16

import (
	"errors"
	"math/bits"
	"sync"

	"github.com/xtaci/rscodec/internal/field16"
	"github.com/xtaci/rscodec/internal/fft16"
)

var (
	ErrInvalidCounts    = errors.New("codec16: original/recovery count must be positive")
	ErrInvalidShardSize = errors.New("codec16: shard size must be a positive multiple of 64")
	ErrNeedMoreData     = errors.New("codec16: not enough surviving shards to reconstruct")
	ErrSelfTest         = errors.New("codec16: GF(2^16) self-test failed")
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
	if !field16.Init() {
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
	if shardSize == 0 || shardSize%field16.ShardMultiple != 0 {
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

	skew := field16.Skew()[m-1:]
	mtrunc := k
	if m < mtrunc {
		mtrunc = m
	}
	fft16.InverseEncoder(data[:mtrunc], mtrunc, work[:m], nil, m, skew)

	if m < k {
		off := m
		skewOff := skew[m:]
		for off+m <= k {
			fft16.InverseEncoder(data[off:off+m], m, work[m:2*m], work[:m], m, skewOff)
			off += m
			skewOff = skewOff[m:]
		}
		if lastCount := k % m; lastCount != 0 {
			fft16.InverseEncoder(data[off:off+lastCount], lastCount, work[m:2*m], work[:m], m, skewOff)
		}
	}

	fft16.Forward(work[:m], recovery, m, field16.Skew()[:])
	return nil
}

// InversionCache is codec8.InversionCache's GF(2^16) counterpart.
type InversionCache struct {
	mu sync.Mutex
	m  map[string][field16.Order]field16.Elem
}

// NewInversionCache returns an empty cache.
func NewInversionCache() *InversionCache {
	return &InversionCache{m: make(map[string][field16.Order]field16.Elem)}
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
	if !field16.Init() {
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
	if shardSize == 0 || shardSize%field16.ShardMultiple != 0 {
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

	var errLocs [field16.Order]field16.Elem
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

		field16.FWHT(&errLocs, m+k)
		walsh := field16.LogWalsh()
		for i := range errLocs {
			errLocs[i] = field16.Elem((uint(errLocs[i]) * uint(walsh[i])) % field16.Modulus)
		}
		field16.FWHT(&errLocs, field16.Order)

		if cache != nil {
			cache.mu.Lock()
			cache.m[key] = errLocs
			cache.mu.Unlock()
		}
	}

	for i := 0; i < r; i++ {
		if parity[i] != nil {
			field16.MulAssign(work[i], parity[i], errLocs[i])
		} else {
			clear(work[i])
		}
	}
	for i := r; i < m; i++ {
		clear(work[i])
	}
	for i := 0; i < k; i++ {
		if data[i] != nil {
			field16.MulAssign(work[m+i], data[i], errLocs[m+i])
		} else {
			clear(work[m+i])
		}
	}
	for i := m + k; i < n; i++ {
		clear(work[i])
	}

	skew := field16.Skew()[:]
	fft16.InverseDecoder(m+k, work, n, skew)
	fft16.FormalDerivative(work)
	fft16.Forward(work, m+k, n, skew)

	// Ascending order matters: the slot work[i] written here is never the
	// source work[i'+m] of a later iteration i' > i, since i'+m > i for all
	// m > 0; an earlier iteration whose source was work[i] has already run.
	for i := 0; i < k; i++ {
		if data[i] != nil {
			continue
		}
		field16.MulAssign(work[i], work[i+m], field16.Elem(field16.Modulus)-errLocs[i+m])
	}
	return nil
}
