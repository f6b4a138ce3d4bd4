package ring_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticefhe/bfvcore/ring"
)

func TestMulModBarrettMatchesBigIntSemantics(t *testing.T) {
	const q = uint64(0xffffffffffc0001) // a 60-bit NTT-friendly prime

	m, err := ring.NewModulus(q)
	require.NoError(t, err)

	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		a := rnd.Uint64() % q
		b := rnd.Uint64() % q
		got := m.MulModBarrett(a, b)
		want := mulModRef(a, b, q)
		require.Equal(t, want, got)
	}
}

func TestAddSubNegMod(t *testing.T) {
	const q = uint64(97)
	require.Equal(t, uint64(5), ring.AddMod(96, 6, q))
	require.Equal(t, uint64(91), ring.SubMod(0, 6, q))
	require.Equal(t, uint64(6), ring.SubMod(6, 0, q))
	require.Equal(t, uint64(91), ring.NegMod(6, q))
	require.Equal(t, uint64(0), ring.NegMod(0, q))
}

func TestInverseModRoundTrip(t *testing.T) {
	const q = uint64(0xffffffffffc0001)
	m, err := ring.NewModulus(q)
	require.NoError(t, err)

	rnd := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		a := rnd.Uint64()%(q-1) + 1
		inv, err := ring.InverseMod(a, q)
		require.NoError(t, err)
		require.Equal(t, uint64(1), m.MulModBarrett(a, inv))
	}
}

func TestConstantTimeSelectAndLessThan(t *testing.T) {
	require.Equal(t, uint64(10), ring.ConstantTimeSelect(1, 10, 20))
	require.Equal(t, uint64(20), ring.ConstantTimeSelect(0, 10, 20))
	require.Equal(t, ^uint64(0), ring.ConstantTimeLessThan(3, 5))
	require.Equal(t, uint64(0), ring.ConstantTimeLessThan(5, 5))
	require.Equal(t, uint64(0), ring.ConstantTimeLessThan(7, 5))
}

func TestNewModulusRejectsInvalid(t *testing.T) {
	_, err := ring.NewModulus(0)
	require.Error(t, err)
	_, err = ring.NewModulus(8) // even
	require.Error(t, err)
}

func mulModRef(a, b, q uint64) uint64 {
	hi, lo := bitsMul64(a, b)
	return bitsMod128(hi, lo, q)
}

// bitsMul64/bitsMod128 compute a*b mod q via a simple double-width modulus
// reference implementation independent of the Barrett machinery under test.
func bitsMul64(a, b uint64) (hi, lo uint64) {
	const mask32 = 1<<32 - 1
	aLo, aHi := a&mask32, a>>32
	bLo, bHi := b&mask32, b>>32

	lo1 := aLo * bLo
	mid1 := aLo * bHi
	mid2 := aHi * bLo
	hi1 := aHi * bHi

	mid := mid1 + mid2
	carry := uint64(0)
	if mid < mid1 {
		carry = 1 << 32
	}

	loRes := lo1 + (mid << 32)
	carryLo := uint64(0)
	if loRes < lo1 {
		carryLo = 1
	}
	hiRes := hi1 + (mid >> 32) + carry + carryLo
	return hiRes, loRes
}

func bitsMod128(hi, lo, q uint64) uint64 {
	// Simple shift-and-subtract long division of the 128-bit {hi, lo} value
	// by q, used only as an independent oracle in this test.
	var rem uint64
	for i := 127; i >= 0; i-- {
		var bit uint64
		if i >= 64 {
			bit = (hi >> uint(i-64)) & 1
		} else {
			bit = (lo >> uint(i)) & 1
		}
		rem = (rem << 1) | bit
		if rem >= q {
			rem -= q
		}
	}
	return rem
}
