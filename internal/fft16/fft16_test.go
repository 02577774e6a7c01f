package fft16

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xtaci/rscodec/internal/field16"
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
	require.True(t, field16.Init())

	const n = 8
	skew := field16.Skew()[:]

	work := mkWork(n, 64, 1)
	original := cloneWork(work)

	InverseDecoder(n, work, n, skew)
	Forward(work, n, n, skew)

	for i := range work {
		require.Equal(t, original[i], work[i], "slice %d", i)
	}
}

func TestInverseEncoderForwardRoundTrip(t *testing.T) {
	require.True(t, field16.Init())

	const m = 4
	data := mkWork(m, 64, 5)
	work := mkWork(m, 64, 0)
	skew := field16.Skew()[m-1:]

	InverseEncoder(data, m, work, nil, m, skew)
	// InverseEncoder reads skewLUT[iend] while Forward reads skewLUT[iend-1],
	// so the matching forward transform starts one entry further along.
	Forward(work, m, m, skew[1:])

	for i := range work {
		require.Equal(t, data[i], work[i], "slice %d", i)
	}
}
