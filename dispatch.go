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

// Package rscodec implements Reed-Solomon erasure coding over an additive
// FFT (Cantor basis) construction, in GF(2^8) and GF(2^16).
package rscodec

import (
	"sync"

	"github.com/xtaci/rscodec/internal/field16"
	"github.com/xtaci/rscodec/internal/field8"
	"github.com/xtaci/rscodec/internal/platform"
)

// currentVersion is the ABI tag Init checks against. Bump it whenever a
// change to this package would break a caller built against an older copy.
const currentVersion = 2

var (
	initOnce sync.Once
	initOK   bool
	hostInfo platform.Features
)

// Init prepares the package's global, immutable lookup tables. It must be
// called at least once, with a successful return, before Encode or Decode;
// concurrent callers share a single initialization via sync.Once, so Init
// is safe to call from multiple goroutines and safe to call more than once.
func Init(version int32) ErrorCode {
	if version != currentVersion {
		return InvalidInput
	}
	initOnce.Do(func() {
		f, ok := platform.Detect()
		if !ok {
			return
		}
		hostInfo = f
		if !field8.Init() {
			return
		}
		if !field16.Init() {
			return
		}
		initOK = true
	})
	if !initOK {
		return Platform
	}
	return Success
}
