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
	"fmt"

	"github.com/xtaci/rscodec/internal/codec16"
	"github.com/xtaci/rscodec/internal/codec8"
	"github.com/xtaci/rscodec/xorkit"
)

// Codec is the shard-slice-with-nil-for-erasure wrapper around the
// ABI-shaped Encode/Decode entry points, for callers who would rather hand
// over a `[][]byte` with nils marking erasures than size work buffers
// themselves. Unlike the stateless package-level functions, a Codec is
// scoped to one (original, recovery) shape and can carry a persistent
// inversion cache across repeated Reconstruct calls.
type Codec struct {
	original int
	recovery int
	opts     options

	cache8  *codec8.InversionCache
	cache16 *codec16.InversionCache
}

// NewCodec builds a Codec for a fixed (original, recovery) shape. It calls
// Init(2) if the package has not already been initialized successfully.
func NewCodec(original, recovery int, opts ...Option) (*Codec, error) {
	if code := Init(2); code != Success {
		return nil, code
	}
	if original <= 0 || recovery <= 0 {
		return nil, InvalidCounts
	}
	o := defaultOptions
	for _, opt := range opts {
		opt(&o)
	}
	c := &Codec{original: original, recovery: recovery, opts: o}
	if o.inversionCache {
		c.cache8 = codec8.NewInversionCache()
		c.cache16 = codec16.NewInversionCache()
	}
	return c, nil
}

// Encode computes recovery shards in place. shards must have length
// original+recovery; shards[0:original] are the data, already populated by
// the caller, and shards[original:original+recovery] are overwritten with
// the recovery shards. Every shard must be the same non-zero length, a
// multiple of 64.
func (c *Codec) Encode(shards [][]byte) error {
	if len(shards) != c.original+c.recovery {
		return InvalidCounts
	}
	bufferBytes, err := uniformShardSize(shards[:c.original])
	if err != nil {
		return err
	}
	work := shards[c.original:]
	for _, s := range work {
		if len(s) != bufferBytes {
			return InvalidSize
		}
	}

	if c.recovery == 1 && c.original > 1 {
		xorkit.ParallelReduce(work[0], shards[:c.original], c.opts.maxGoroutines)
		return nil
	}

	workCount := EncodeWorkCount(c.original, c.recovery)
	if workCount != c.recovery {
		// The additive-FFT path needs 2*nextPow2(recovery) scratch
		// buffers, more than the recovery shards the caller gave us
		// room for; encode into freshly allocated scratch and copy the
		// result back into the caller's recovery shards.
		scratch := make([][]byte, workCount)
		for i := range scratch {
			scratch[i] = make([]byte, bufferBytes)
		}
		if code := Encode(bufferBytes, c.original, c.recovery, workCount, shards[:c.original], scratch); code != Success {
			return code
		}
		for i := 0; i < c.recovery; i++ {
			copy(work[i], scratch[i])
		}
		return nil
	}
	if code := Encode(bufferBytes, c.original, c.recovery, workCount, shards[:c.original], work); code != Success {
		return code
	}
	return nil
}

// Reconstruct fills in the nil data entries of shards (data followed by
// recovery) from the survivors; nil recovery entries are left nil. shards
// must have length original+recovery. When the Codec was built with
// WithInversionCache (the default), repeated calls with the same erasure
// pattern reuse the cached error-locator evaluation.
func (c *Codec) Reconstruct(shards [][]byte) error {
	if len(shards) != c.original+c.recovery {
		return InvalidCounts
	}
	data := shards[:c.original]
	recov := shards[c.original:]
	all := make([][]byte, 0, len(shards))
	all = append(all, data...)
	all = append(all, recov...)
	bufferBytes, err := uniformShardSize(all)
	if err != nil {
		return err
	}

	missing := 0
	for _, s := range data {
		if s == nil {
			missing++
		}
	}
	if missing == 0 {
		return nil
	}

	if c.original == 1 || c.recovery == 1 {
		workCount := DecodeWorkCount(c.original, c.recovery)
		work := make([][]byte, workCount)
		for i := range work {
			work[i] = make([]byte, bufferBytes)
		}
		if code := Decode(bufferBytes, c.original, c.recovery, workCount, data, recov, work); code != Success {
			return code
		}
		for i := 0; i < c.original; i++ {
			if data[i] == nil {
				data[i] = work[i]
			}
		}
		return nil
	}

	_, n := codecDomain(c.original, c.recovery)
	work := make([][]byte, n)
	for i := range work {
		work[i] = make([]byte, bufferBytes)
	}
	if n > field8Limit {
		if err := codec16.Decode(data, recov, work, c.cache16); err != nil {
			return decodeErrToCode(err)
		}
	} else {
		if err := codec8.Decode(data, recov, work, c.cache8); err != nil {
			return decodeErrToCode(err)
		}
	}
	for i := 0; i < c.original; i++ {
		if data[i] == nil {
			data[i] = work[i]
		}
	}
	return nil
}

func uniformShardSize(shards [][]byte) (int, error) {
	size := 0
	for _, s := range shards {
		if s == nil {
			continue
		}
		if size == 0 {
			size = len(s)
			continue
		}
		if len(s) != size {
			return 0, InvalidSize
		}
	}
	if size == 0 {
		return 0, InvalidSize
	}
	return size, nil
}

// String gives a one-line human-readable summary, mirroring the teacher's
// preference for a Stringer on its configuration types.
func (c *Codec) String() string {
	return fmt.Sprintf("rscodec.Codec{original=%d, recovery=%d}", c.original, c.recovery)
}
