package ring_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticefhe/bfvcore/ring"
)

func TestMulAdd192AccumulatesExactly(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))

	var acc ring.Uint192
	var want uint64 // fits since we keep the products small enough not to overflow a uint64 reference sum
	for i := 0; i < 50; i++ {
		x := rnd.Uint64() % (1 << 20)
		y := rnd.Uint64() % (1 << 20)
		acc = ring.MulAdd192(acc, x, y)
		want += x * y
	}
	require.Equal(t, want, acc[0])
	require.Equal(t, uint64(0), acc[1])
	require.Equal(t, uint64(0), acc[2])
}

func TestModBarrett192MatchesModulus(t *testing.T) {
	const q = uint64(0xffffffffffc0001)
	m, err := ring.NewModulus(q)
	require.NoError(t, err)

	rnd := rand.New(rand.NewSource(12))
	var acc ring.Uint192
	var refSum uint64
	ref, _ := ring.NewModulus(q)
	for i := 0; i < 200; i++ {
		x := rnd.Uint64() % q
		y := rnd.Uint64() % q
		acc = ring.MulAdd192(acc, x, y)
		refSum = ring.AddMod(refSum, ref.MulModBarrett(x, y), q)
	}

	got := ring.ModBarrett192(acc, m)
	require.Equal(t, refSum, got)
}

func TestCmp192Ordering(t *testing.T) {
	a := ring.Uint192{1, 0, 0}
	b := ring.Uint192{2, 0, 0}
	require.Equal(t, -1, ring.Cmp192(a, b))
	require.Equal(t, 1, ring.Cmp192(b, a))
	require.Equal(t, 0, ring.Cmp192(a, a))
}

func TestAddSub192RoundTrip(t *testing.T) {
	a := ring.Uint192{10, 20, 30}
	b := ring.Uint192{1, 2, 3}
	sum := ring.Add192(a, b)
	back := ring.Sub192(sum, b)
	require.Equal(t, a, back)
}
