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

package xorkit

import "sync"

// minSplitSize is the smallest per-goroutine byte range worth spawning a
// worker for; below it the dispatch overhead dominates the XOR itself.
const minSplitSize = 32 << 10

// ParallelReduce is Reduce split across up to maxGoroutines workers, each
// owning a disjoint byte range of dst. XOR is commutative and associative,
// so the workers need no ordering guarantees between them.
//
// maxGoroutines <= 1 or a buffer no larger than the split threshold runs
// Reduce inline on the calling goroutine.
func ParallelReduce(dst []byte, srcs [][]byte, maxGoroutines int) {
	n := len(dst)
	if maxGoroutines <= 1 || n <= minSplitSize || len(srcs) == 0 {
		Reduce(dst, srcs)
		return
	}

	do := (n + maxGoroutines - 1) / maxGoroutines
	if do < minSplitSize {
		do = minSplitSize
	}

	var wg sync.WaitGroup
	start := 0
	for start < n {
		stop := start + do
		if stop > n {
			stop = n
		}
		wg.Add(1)
		go func(start, stop int) {
			defer wg.Done()
			sub := make([][]byte, len(srcs))
			for i, s := range srcs {
				sub[i] = s[start:stop]
			}
			Reduce(dst[start:stop], sub)
		}(start, stop)
		start = stop
	}
	wg.Wait()
}
