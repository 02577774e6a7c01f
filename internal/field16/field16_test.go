package field16

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitSelfTest(t *testing.T) {
	require.True(t, Init())
}

func TestMulInverseSample(t *testing.T) {
	Init()
	for _, a := range []int{1, 2, 3, 255, 256, 12345, Order - 1} {
		e := Elem(a)
		require.EqualValues(t, 1, Mul(e, Inv(e)), "a=%d", a)
	}
}

func TestMulAssignRoundTrip(t *testing.T) {
	Init()
	y := make([]byte, 128)
	for i := range y {
		y[i] = byte(i * 5)
	}
	x := make([]byte, 128)
	MulAssign(x, y, Log(777))

	back := make([]byte, 128)
	MulAssign(back, x, Log(Inv(777)))
	require.Equal(t, y, back)
}

func TestMulAddAccumulates(t *testing.T) {
	Init()
	x := make([]byte, 64)
	for i := range x {
		x[i] = byte(i)
	}
	before := append([]byte(nil), x...)
	y := make([]byte, 64)
	for i := range y {
		y[i] = byte(200 - i)
	}
	logM := Log(42)
	scaled := make([]byte, 64)
	MulAssign(scaled, y, logM)

	MulAdd(x, y, logM)
	for i := range x {
		require.EqualValues(t, before[i]^scaled[i], x[i])
	}
}
