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

// ErrorCode is the result of every ABI-shaped entry point in this package.
// The numeric values are part of the contract and must not be renumbered.
type ErrorCode int32

const (
	Success        ErrorCode = 0
	NeedMoreData   ErrorCode = -1
	TooMuchData    ErrorCode = -2
	InvalidSize    ErrorCode = -3
	InvalidCounts  ErrorCode = -4
	InvalidInput   ErrorCode = -5
	Platform       ErrorCode = -6
	CallInitialize ErrorCode = -7
)

func (e ErrorCode) String() string {
	switch e {
	case Success:
		return "success"
	case NeedMoreData:
		return "need more data"
	case TooMuchData:
		return "too much data"
	case InvalidSize:
		return "invalid buffer size"
	case InvalidCounts:
		return "invalid original/recovery/work counts"
	case InvalidInput:
		return "invalid input (nil shard array)"
	case Platform:
		return "platform self-test failed"
	case CallInitialize:
		return "Init was not called, or failed"
	default:
		return "unknown error code"
	}
}

// Error implements the error interface so an ErrorCode composes with
// ordinary Go error handling while still round-tripping through the exact
// integer values callers on the other side of the ABI expect.
func (e ErrorCode) Error() string { return e.String() }
