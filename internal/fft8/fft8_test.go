package fft8

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xtaci/rscodec/internal/field8"
)

func mkWork(n, size int, seed byte) [][]byte {
	work := make([][]byte, n)
	for i := range work {
		buf := make([]byte, size)
		for j := range buf {
			buf[j] = seed + byte(i*7+j)
		}
		work[i] = buf
	}
	return work
}

func cloneWork(w [][]byte) [][]byte {
	out := make([][]byte, len(w))
	for i, b := range w {
		out[i] = append([]byte(nil), b...)
	}
	return out
}

func TestForwardInverseDecoderRoundTrip(t *testing.T) {
	require.True(t, field8.Init())

	const n = 8
	skew := field8.Skew()[:]

	work := mkWork(n, 64, 1)
	original := cloneWork(work)

	InverseDecoder(n, work, n, skew)
	Forward(work, n, n, skew)

	for i := range work {
		require.Equal(t, original[i], work[i], "slice %d", i)
	}
}

func TestInverseEncoderForwardRoundTrip(t *testing.T) {
	require.True(t, field8.Init())

	const m = 4
	data := mkWork(m, 64, 5)
	work := mkWork(m, 64, 0)
	skew := field8.Skew()[m-1:]

	InverseEncoder(data, m, work, nil, m, skew)
	Forward(work, m, m, skew)

	for i := range work {
		require.Equal(t, data[i], work[i], "slice %d", i)
	}
}

func TestFormalDerivativeKnownShift(t *testing.T) {
	work := mkWork(4, 64, 0)
	before := cloneWork(work)
	FormalDerivative(work)

	// width for i=1 is 1: work[0] ^= work[1]; width for i=2 is 2:
	// work[0] ^= work[2] (work[2] is only changed later, at i=3).
	want0 := append([]byte(nil), before[0]...)
	for j := range want0 {
		want0[j] ^= before[1][j] ^ before[2][j]
	}
	require.Equal(t, want0, work[0])
}
