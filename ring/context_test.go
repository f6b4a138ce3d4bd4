package ring_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticefhe/bfvcore/ring"
)

func TestAtLevelWalksNextChain(t *testing.T) {
	ctx := smallMultiModContext(t)
	top := ctx.Level()

	for level := top; level >= 0; level-- {
		sub := ctx.AtLevel(level)
		require.Equal(t, level, sub.Level())
		require.Equal(t, ctx.Moduli()[:level+1], sub.Moduli())
	}
}

func TestAtLevelIsPointerStable(t *testing.T) {
	ctx := smallMultiModContext(t)
	top := ctx.Level()

	a := ctx.AtLevel(top - 1)
	b := ctx.AtLevel(top - 1)
	require.Same(t, a, b)
	require.Same(t, ctx.Next(), a)
}

func TestAtLevelSameLevelReturnsSelf(t *testing.T) {
	ctx := smallMultiModContext(t)
	require.Same(t, ctx, ctx.AtLevel(ctx.Level()))
}

func TestAtLevelPanicsOutOfRange(t *testing.T) {
	ctx := smallMultiModContext(t)
	require.Panics(t, func() { ctx.AtLevel(ctx.Level() + 1) })
	require.Panics(t, func() { ctx.AtLevel(-1) })
}

func TestQRemainderMatchesBigIntMod(t *testing.T) {
	ctx := smallMultiModContext(t)
	m := uint64(97)

	got := ctx.QRemainder(m)
	want := new(big.Int).Mod(ctx.ModulusBigInt(), big.NewInt(int64(m))).Uint64()
	require.Equal(t, want, got)
}

func TestMaxLazyProductAccumulationCountShrinksWithWiderModuli(t *testing.T) {
	narrow, err := ring.NTTFriendlyPrimes(2, 30, 16, true)
	require.NoError(t, err)
	narrowCtx, err := ring.NewPolyContext(16, narrow)
	require.NoError(t, err)

	wide, err := ring.NTTFriendlyPrimes(2, 60, 16, true)
	require.NoError(t, err)
	wideCtx, err := ring.NewPolyContext(16, wide)
	require.NoError(t, err)

	require.Greater(t, narrowCtx.MaxLazyProductAccumulationCount(), wideCtx.MaxLazyProductAccumulationCount())
	require.Greater(t, narrowCtx.MaxLazyProductAccumulationCount(), 0)
	require.Greater(t, wideCtx.MaxLazyProductAccumulationCount(), 0)
}

func TestMaxLazyProductAccumulationCountClampsForNarrowModuli(t *testing.T) {
	// A small modulus pushes headroom-1 well past 63 bits; the result must
	// stay a usable positive bound instead of wrapping to 0 via a too-wide
	// shift.
	primes, err := ring.NTTFriendlyPrimes(2, 20, 16, true)
	require.NoError(t, err)
	ctx, err := ring.NewPolyContext(16, primes)
	require.NoError(t, err)

	require.Equal(t, 1<<62, ctx.MaxLazyProductAccumulationCount())
}
