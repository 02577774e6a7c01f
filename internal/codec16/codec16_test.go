package codec16

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func randShards(n, size int, rnd *rand.Rand) [][]byte {
	shards := make([][]byte, n)
	for i := range shards {
		b := make([]byte, size)
		rnd.Read(b)
		shards[i] = b
	}
	return shards
}

func cloneShards(shards [][]byte) [][]byte {
	out := make([][]byte, len(shards))
	for i, s := range shards {
		out[i] = append([]byte(nil), s...)
	}
	return out
}

func makeWork(n, size int) [][]byte {
	work := make([][]byte, n)
	for i := range work {
		work[i] = make([]byte, size)
	}
	return work
}

func TestRoundTripForcesGF16(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	const k, r, size = 257, 1, 64
	data := randShards(k, size, rnd)
	m := ceilPow2(r)
	encWork := makeWork(2*m, size)
	require.NoError(t, Encode(data, r, encWork))
	parity := cloneShards(encWork[:r])
	original := cloneShards(data)

	lossy := cloneShards(data)
	lossy[100] = nil

	n := ceilPow2(m + k)
	decWork := makeWork(n, size)
	require.NoError(t, Decode(lossy, parity, decWork, nil))
	require.Equal(t, original[100], decWork[100])
}

func TestRoundTripMultipleErasures(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))

	const k, r, size = 10, 6, 64
	data := randShards(k, size, rnd)
	m := ceilPow2(r)
	encWork := makeWork(2*m, size)
	require.NoError(t, Encode(data, r, encWork))
	parity := cloneShards(encWork[:r])
	original := cloneShards(data)

	lossy := cloneShards(data)
	lossy[0], lossy[5], lossy[9] = nil, nil, nil
	lossyParity := cloneShards(parity)
	lossyParity[1] = nil

	n := ceilPow2(m + k)
	decWork := makeWork(n, size)
	require.NoError(t, Decode(lossy, lossyParity, decWork, nil))
	require.Equal(t, original[0], decWork[0])
	require.Equal(t, original[5], decWork[5])
	require.Equal(t, original[9], decWork[9])
}
