package ring_test

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticefhe/bfvcore/ring"
)

func TestCRTComposeRoundTrip(t *testing.T) {
	ctx := smallMultiModContext(t)
	n := ctx.N()

	rnd := rand.New(rand.NewSource(5))
	modulus := ctx.ModulusBigInt()

	wantX := make([]*big.Int, n)
	p := ring.NewPoly(ctx, ring.Coeff)
	for j := 0; j < n; j++ {
		x := new(big.Int).Rand(rnd, modulus)
		wantX[j] = x
		for i, qi := range ctx.Moduli() {
			p.Coeffs[i][j] = new(big.Int).Mod(x, new(big.Int).SetUint64(qi)).Uint64()
		}
	}

	got := ring.CRTComposeCtx(ctx, p)
	for j := range got {
		require.Equal(t, 0, wantX[j].Cmp(got[j]), "coefficient %d", j)
	}
}

func TestCRTComposeRoundTripWideChainFallback(t *testing.T) {
	// 6 moduli pushes CRTComposeCtx past the 5-limb Uint320 fast path and
	// onto its math/big fallback; this exercises that branch explicitly
	// rather than relying on every other test happening to stay under 5.
	primes, err := ring.NTTFriendlyPrimes(6, 30, 16, true)
	require.NoError(t, err)
	ctx, err := ring.NewPolyContext(16, primes)
	require.NoError(t, err)
	n := ctx.N()

	rnd := rand.New(rand.NewSource(15))
	modulus := ctx.ModulusBigInt()

	wantX := make([]*big.Int, n)
	p := ring.NewPoly(ctx, ring.Coeff)
	for j := 0; j < n; j++ {
		x := new(big.Int).Rand(rnd, modulus)
		wantX[j] = x
		for i, qi := range ctx.Moduli() {
			p.Coeffs[i][j] = new(big.Int).Mod(x, new(big.Int).SetUint64(qi)).Uint64()
		}
	}

	got := ring.CRTComposeCtx(ctx, p)
	for j := range got {
		require.Equal(t, 0, wantX[j].Cmp(got[j]), "coefficient %d", j)
	}
}

func TestConvertApproximatePreservesResiduesModP(t *testing.T) {
	// from: two ~28-bit moduli; to: two different ~29-bit moduli.
	// ConvertApproximate must produce, for every destination modulus pj,
	// (x + a*Q) mod pj for one offset 0 <= a < len(from moduli).
	fromPrimes, err := ring.NTTFriendlyPrimes(2, 28, 16, true)
	require.NoError(t, err)
	from, err := ring.NewPolyContext(16, fromPrimes)
	require.NoError(t, err)

	toPrimes, err := ring.NTTFriendlyPrimes(2, 29, 16, false)
	require.NoError(t, err)
	to, err := ring.NewPolyContext(16, toPrimes)
	require.NoError(t, err)

	bc := ring.NewBaseConverter(from, to)

	rnd := rand.New(rand.NewSource(6))
	p := ring.NewPoly(from, ring.Coeff)
	for i, qi := range from.Moduli() {
		for j := range p.Coeffs[i] {
			p.Coeffs[i][j] = rnd.Uint64() % qi
		}
	}

	xs := ring.CRTComposeCtx(from, p)
	out := bc.ConvertApproximate(p)

	bigQ := from.ModulusBigInt()
	k := from.ModuliCount()
	for j, x := range xs {
		// Every destination row must agree with x + a*Q for the same a.
		found := false
		for a := 0; a < k && !found; a++ {
			v := new(big.Int).Add(x, new(big.Int).Mul(big.NewInt(int64(a)), bigQ))
			match := true
			for i, pj := range to.Moduli() {
				if new(big.Int).Mod(v, new(big.Int).SetUint64(pj)).Uint64() != out.Coeffs[i][j] {
					match = false
				}
			}
			found = match
		}
		require.True(t, found, "coefficient %d is not (x + a*Q) mod pj for any 0 <= a < %d", j, k)
	}
}

func TestDivideAndRoundQLastExactMultiples(t *testing.T) {
	ctx := smallMultiModContext(t)
	n := ctx.N()
	qLast := ctx.Moduli()[ctx.Level()]

	rnd := rand.New(rand.NewSource(7))
	next := ctx.Next()
	bigNext := next.ModulusBigInt()

	p := ring.NewPoly(ctx, ring.Coeff)
	wantQuot := make([]*big.Int, n)
	for j := 0; j < n; j++ {
		quot := new(big.Int).Rand(rnd, bigNext)
		wantQuot[j] = quot
		x := new(big.Int).Mul(quot, new(big.Int).SetUint64(qLast))
		for i, qi := range ctx.Moduli() {
			p.Coeffs[i][j] = new(big.Int).Mod(x, new(big.Int).SetUint64(qi)).Uint64()
		}
	}

	out := p.DivideAndRoundQLast()
	require.True(t, out.Context.Equal(next))

	got := ring.CRTComposeCtx(next, out)
	for j := range got {
		require.Equal(t, 0, wantQuot[j].Cmp(got[j]), "coefficient %d", j)
	}
}
