package xorkit

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBytesMatchesNaiveXor(t *testing.T) {
	dst := make([]byte, 256)
	src := make([]byte, 256)
	want := make([]byte, 256)
	for i := range dst {
		dst[i] = byte(i * 7)
		src[i] = byte(i*13 + 1)
		want[i] = dst[i] ^ src[i]
	}
	Bytes(dst, src)
	require.Equal(t, want, dst)
}

func TestBytes3(t *testing.T) {
	dst := make([]byte, 128)
	a := bytes.Repeat([]byte{0x01}, 128)
	b := bytes.Repeat([]byte{0x02}, 128)
	Bytes3(dst, a, b)
	require.Equal(t, bytes.Repeat([]byte{0x03}, 128), dst)
}

func TestFourStreamMatchesSequential(t *testing.T) {
	n := 192
	mk := func(seed byte) []byte {
		b := make([]byte, n)
		for i := range b {
			b[i] = seed + byte(i)
		}
		return b
	}

	var pairs [4]Pair
	var want [4][]byte
	for i := 0; i < 4; i++ {
		dst := mk(byte(i * 10))
		src := mk(byte(i*10 + 1))
		w := make([]byte, n)
		copy(w, dst)
		Bytes(w, src)
		want[i] = w
		pairs[i] = Pair{Dst: dst, Src: src}
	}

	FourStream(pairs)
	for i := 0; i < 4; i++ {
		require.Equal(t, want[i], pairs[i].Dst, "stream %d", i)
	}
}

func TestFourStreamSkipsNilPairs(t *testing.T) {
	dst := make([]byte, 64)
	src := bytes.Repeat([]byte{0xff}, 64)
	var pairs [4]Pair
	pairs[2] = Pair{Dst: dst, Src: src}
	FourStream(pairs)
	require.Equal(t, src, dst)
}

func TestReduce(t *testing.T) {
	dst := make([]byte, 64)
	a := bytes.Repeat([]byte{0x01}, 64)
	b := bytes.Repeat([]byte{0x02}, 64)
	c := bytes.Repeat([]byte{0x04}, 64)
	Reduce(dst, [][]byte{a, b, c})
	require.Equal(t, bytes.Repeat([]byte{0x07}, 64), dst)
}

func TestParallelReduceMatchesReduce(t *testing.T) {
	n := 128 << 10 // exceed the split threshold
	srcs := make([][]byte, 5)
	for i := range srcs {
		s := make([]byte, n)
		for j := range s {
			s[j] = byte((i + 1) * (j + 1))
		}
		srcs[i] = s
	}

	want := make([]byte, n)
	Reduce(want, srcs)

	got := make([]byte, n)
	ParallelReduce(got, srcs, 8)
	require.Equal(t, want, got)
}
