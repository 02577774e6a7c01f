package rscodec

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
		if s != nil {
			out[i] = append([]byte(nil), s...)
		}
	}
	return out
}

func xorAll(shards [][]byte, size int) []byte {
	out := make([]byte, size)
	for _, s := range shards {
		for i, b := range s {
			out[i] ^= b
		}
	}
	return out
}

func roundTrip(t *testing.T, k, r, size int, eraseData []int) (original, recovered [][]byte) {
	t.Helper()
	codec, err := NewCodec(k, r)
	require.NoError(t, err)

	rnd := rand.New(rand.NewSource(1))
	shards := make([][]byte, k+r)
	for i := 0; i < k; i++ {
		shards[i] = make([]byte, size)
		rnd.Read(shards[i])
	}
	for i := k; i < k+r; i++ {
		shards[i] = make([]byte, size)
	}
	require.NoError(t, codec.Encode(shards))

	original = cloneShards(shards)
	for _, i := range eraseData {
		shards[i] = nil
	}
	require.NoError(t, codec.Reconstruct(shards))
	return original, shards
}

func TestConcreteScenarioThreeTwo(t *testing.T) {
	const size = 64
	codec, err := NewCodec(3, 2)
	require.NoError(t, err)

	a := make([]byte, size)
	b := make([]byte, size)
	c := make([]byte, size)
	for i := range a {
		a[i], b[i], c[i] = 0x01, 0x02, 0x04
	}
	shards := [][]byte{a, b, c, make([]byte, size), make([]byte, size)}
	require.NoError(t, codec.Encode(shards))

	originalA := append([]byte(nil), a...)
	originalC := append([]byte(nil), c...)
	shards[0] = nil
	shards[2] = nil
	require.NoError(t, codec.Reconstruct(shards))
	require.Equal(t, originalA, shards[0])
	require.Equal(t, originalC, shards[2])
}

func TestConcreteScenarioParityFastPath(t *testing.T) {
	const size = 128
	codec, err := NewCodec(4, 1)
	require.NoError(t, err)

	rnd := rand.New(rand.NewSource(2))
	shards := randShards(4, size, rnd)
	shards = append(shards, make([]byte, size))
	require.NoError(t, codec.Encode(shards))
	require.Equal(t, xorAll(shards[:4], size), shards[4])
}

func TestConcreteScenarioIdentityFastPath(t *testing.T) {
	const size = 64
	codec, err := NewCodec(1, 3)
	require.NoError(t, err)

	rnd := rand.New(rand.NewSource(3))
	original := randShards(1, size, rnd)
	shards := append(cloneShards(original), make([]byte, size), make([]byte, size), make([]byte, size))
	require.NoError(t, codec.Encode(shards))
	for i := 1; i < 4; i++ {
		require.Equal(t, original[0], shards[i])
	}
}

func TestConcreteScenarioLargeGF8Domain(t *testing.T) {
	// n = ceilPow2(ceilPow2(56)+200) = ceilPow2(264) = 512, so this shape
	// actually dispatches to GF(2^16), not GF(2^8); the only property this
	// test actually checks is that the round trip is correct.
	const k, r, size = 200, 56, 4096
	erase := rand.New(rand.NewSource(4)).Perm(k)[:r]
	original, recovered := roundTrip(t, k, r, size, erase)
	for _, i := range erase {
		require.Equal(t, original[i], recovered[i], "shard %d", i)
	}
}

func TestConcreteScenarioForcesGF16(t *testing.T) {
	const size = 64
	codec, err := NewCodec(257, 1)
	require.NoError(t, err)

	rnd := rand.New(rand.NewSource(5))
	shards := randShards(257, size, rnd)
	shards = append(shards, make([]byte, size))
	require.NoError(t, codec.Encode(shards))
	require.Equal(t, xorAll(shards[:257], size), shards[257])
}

func TestConcreteScenarioBigErasure(t *testing.T) {
	const k, r, size = 1000, 500, 64
	erase := rand.New(rand.NewSource(6)).Perm(k)[:r]
	original, recovered := roundTrip(t, k, r, size, erase)
	for _, i := range erase {
		require.Equal(t, original[i], recovered[i], "shard %d", i)
	}
}

func TestBoundaryBufferBytesTooSmallMultiple(t *testing.T) {
	work := make([][]byte, EncodeWorkCount(3, 2))
	for i := range work {
		work[i] = make([]byte, 63)
	}
	data := make([][]byte, 3)
	for i := range data {
		data[i] = make([]byte, 63)
	}
	code := Encode(63, 3, 2, len(work), data, work)
	require.Equal(t, InvalidSize, code)
}

func TestBoundaryRecoveryExceedsOriginal(t *testing.T) {
	work := make([][]byte, EncodeWorkCount(2, 3))
	for i := range work {
		work[i] = make([]byte, 64)
	}
	data := make([][]byte, 2)
	for i := range data {
		data[i] = make([]byte, 64)
	}
	code := Encode(64, 2, 3, len(work), data, work)
	require.Equal(t, InvalidCounts, code)
}

func TestBoundaryTotalExceedsField16(t *testing.T) {
	code := validateShapeArgs(64, 65536, 1, 0)
	require.Equal(t, TooMuchData, code)
}

func TestBoundaryZeroErasuresReturnsCopies(t *testing.T) {
	const k, r, size = 3, 2, 64
	codec, err := NewCodec(k, r)
	require.NoError(t, err)

	rnd := rand.New(rand.NewSource(7))
	shards := randShards(k, size, rnd)
	shards = append(shards, make([]byte, size), make([]byte, size))
	require.NoError(t, codec.Encode(shards))

	original := cloneShards(shards)
	require.NoError(t, codec.Reconstruct(shards))
	require.Equal(t, original, shards)
}

func TestBoundaryAllRecoveryLostNoDataLost(t *testing.T) {
	const k, r, size = 4, 3, 64
	codec, err := NewCodec(k, r)
	require.NoError(t, err)

	rnd := rand.New(rand.NewSource(8))
	shards := randShards(k, size, rnd)
	shards = append(shards, make([]byte, size), make([]byte, size), make([]byte, size))
	require.NoError(t, codec.Encode(shards))

	original := cloneShards(shards[:k])
	shards[k], shards[k+1], shards[k+2] = nil, nil, nil
	require.NoError(t, codec.Reconstruct(shards))
	for i := 0; i < k; i++ {
		require.Equal(t, original[i], shards[i])
	}
}

func TestInvarianceToRecoverySelection(t *testing.T) {
	const k, r, size = 6, 3, 64
	rnd := rand.New(rand.NewSource(9))
	shards := randShards(k, size, rnd)
	codec, err := NewCodec(k, r)
	require.NoError(t, err)
	shards = append(shards, make([]byte, size), make([]byte, size), make([]byte, size))
	require.NoError(t, codec.Encode(shards))
	original := cloneShards(shards)

	// Erase two data shards, then try every way of keeping exactly
	// 2 of the 3 recovery shards (dropping a different one each time).
	for drop := 0; drop < r; drop++ {
		trial := cloneShards(original)
		trial[0], trial[3] = nil, nil
		trial[k+drop] = nil
		require.NoError(t, codec.Reconstruct(trial))
		require.Equal(t, original[0], trial[0], "drop=%d", drop)
		require.Equal(t, original[3], trial[3], "drop=%d", drop)
	}
}

func TestDeterminism(t *testing.T) {
	const k, r, size = 5, 2, 64
	rnd := rand.New(rand.NewSource(10))
	base := randShards(k, size, rnd)

	run := func() [][]byte {
		codec, err := NewCodec(k, r)
		require.NoError(t, err)
		shards := cloneShards(base)
		shards = append(shards, make([]byte, size), make([]byte, size))
		require.NoError(t, codec.Encode(shards))
		return shards[k:]
	}

	first := run()
	second := run()
	require.Equal(t, first, second)
}

func TestReentrancyDisjointBuffers(t *testing.T) {
	const k, r, size = 5, 2, 64
	codec, err := NewCodec(k, r)
	require.NoError(t, err)

	const streams = 4
	inputs := make([][][]byte, streams)
	for s := range inputs {
		rnd := rand.New(rand.NewSource(int64(100 + s)))
		shards := randShards(k, size, rnd)
		shards = append(shards, make([]byte, size), make([]byte, size))
		inputs[s] = shards
	}

	serial := make([][][]byte, streams)
	for s, shards := range inputs {
		cp := cloneShards(shards)
		require.NoError(t, codec.Encode(cp))
		serial[s] = cp
	}

	concurrent := make([][][]byte, streams)
	errs := make(chan error, streams)
	for s, shards := range inputs {
		cp := cloneShards(shards)
		concurrent[s] = cp
		go func(cp [][]byte) { errs <- codec.Encode(cp) }(cp)
	}
	for range inputs {
		require.NoError(t, <-errs)
	}

	for s := range inputs {
		require.Equal(t, serial[s], concurrent[s])
	}
}

func TestDispatchInitVersionMismatch(t *testing.T) {
	require.Equal(t, InvalidInput, Init(999))
}

func TestDispatchInitIdempotent(t *testing.T) {
	require.Equal(t, Success, Init(currentVersion))
	require.Equal(t, Success, Init(currentVersion))
}

func TestCodecWorkCountMismatchRejected(t *testing.T) {
	work := make([][]byte, EncodeWorkCount(3, 2)+1)
	for i := range work {
		work[i] = make([]byte, 64)
	}
	data := make([][]byte, 3)
	for i := range data {
		data[i] = make([]byte, 64)
	}
	code := Encode(64, 3, 2, len(work), data, work)
	require.Equal(t, InvalidCounts, code)
}

func TestCodecString(t *testing.T) {
	codec, err := NewCodec(3, 2)
	require.NoError(t, err)
	require.Equal(t, "rscodec.Codec{original=3, recovery=2}", codec.String())
}
