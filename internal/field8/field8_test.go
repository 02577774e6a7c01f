package field8

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitSelfTest(t *testing.T) {
	require.True(t, Init())
}

func TestMulInverse(t *testing.T) {
	Init()
	for a := 1; a < Order; a++ {
		e := Elem(a)
		require.EqualValues(t, 1, Mul(e, Inv(e)), "a=%d", a)
	}
}

func TestMulZero(t *testing.T) {
	Init()
	require.EqualValues(t, 0, Mul(0, 42))
	require.EqualValues(t, 0, Mul(42, 0))
}

func TestMulAssignRoundTrips(t *testing.T) {
	Init()
	x := make([]byte, 64)
	y := make([]byte, 64)
	for i := range y {
		y[i] = byte(i * 3)
	}
	logM := Log(5)
	MulAssign(x, y, logM)

	// x now holds y * 5. Multiplying by the inverse of 5 should recover y.
	back := make([]byte, 64)
	MulAssign(back, x, Log(Inv(5)))
	require.Equal(t, y, back)
}

func TestMulAddIsXorAccumulate(t *testing.T) {
	Init()
	x := make([]byte, 64)
	for i := range x {
		x[i] = byte(i)
	}
	before := append([]byte(nil), x...)
	y := make([]byte, 64)
	for i := range y {
		y[i] = byte(255 - i)
	}
	logM := Log(9)

	scaled := make([]byte, 64)
	MulAssign(scaled, y, logM)

	MulAdd(x, y, logM)
	for i := range x {
		require.EqualValues(t, before[i]^scaled[i], x[i])
	}
}

func TestFWHTKnownVector(t *testing.T) {
	Init()
	var data [Order]Elem
	data[0] = 1
	FWHT(&data, Order)
	for _, v := range data {
		require.EqualValues(t, 1, v)
	}
}
