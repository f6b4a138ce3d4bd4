package ring_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticefhe/bfvcore/ring"
)

func testPolyContext(t *testing.T) *ring.PolyContext {
	t.Helper()
	q, err := ring.NTTFriendlyPrime(30, 16)
	require.NoError(t, err)
	ctx, err := ring.NewPolyContext(16, []uint64{q})
	require.NoError(t, err)
	return ctx
}

func smallMultiModContext(t *testing.T) *ring.PolyContext {
	t.Helper()
	primes, err := ring.NTTFriendlyPrimes(3, 30, 16, true)
	require.NoError(t, err)
	ctx, err := ring.NewPolyContext(16, primes)
	require.NoError(t, err)
	return ctx
}

func TestNTTInvolution(t *testing.T) {
	ctx := smallMultiModContext(t)
	rnd := rand.New(rand.NewSource(3))

	p := ring.NewPoly(ctx, ring.Coeff)
	for i, qi := range ctx.Moduli() {
		for j := range p.Coeffs[i] {
			p.Coeffs[i][j] = rnd.Uint64() % qi
		}
	}
	orig := p.CopyNew()

	p.ForwardNTT()
	require.Equal(t, ring.Eval, p.Form)
	p.InverseNTT()
	require.Equal(t, ring.Coeff, p.Form)

	require.Equal(t, orig.Coeffs, p.Coeffs)
}

func TestForwardNTTPanicsOnEvalInput(t *testing.T) {
	ctx := smallMultiModContext(t)
	p := ring.NewPoly(ctx, ring.Eval)
	require.Panics(t, func() { p.ForwardNTT() })
}

func TestInverseNTTPanicsOnCoeffInput(t *testing.T) {
	ctx := smallMultiModContext(t)
	p := ring.NewPoly(ctx, ring.Coeff)
	require.Panics(t, func() { p.InverseNTT() })
}

func TestMulAssignRequiresEvalForm(t *testing.T) {
	ctx := smallMultiModContext(t)
	a := ring.NewPoly(ctx, ring.Coeff)
	b := ring.NewPoly(ctx, ring.Coeff)
	require.Panics(t, func() { a.MulAssign(b) })
}

func TestNTTMatchesPointwiseMultiplication(t *testing.T) {
	// Forward-NTT two random polynomials, multiply pointwise in Eval form,
	// inverse-NTT, and check against a naive negacyclic convolution.
	ctx := testPolyContext(t)
	n := ctx.N()
	q := ctx.Moduli()[0]

	rnd := rand.New(rand.NewSource(4))
	aCoeffs := make([]uint64, n)
	bCoeffs := make([]uint64, n)
	for i := range aCoeffs {
		aCoeffs[i] = rnd.Uint64() % q
		bCoeffs[i] = rnd.Uint64() % q
	}

	a := ring.NewPoly(ctx, ring.Coeff)
	b := ring.NewPoly(ctx, ring.Coeff)
	copy(a.Coeffs[0], aCoeffs)
	copy(b.Coeffs[0], bCoeffs)

	a.ForwardNTT()
	b.ForwardNTT()
	a.MulAssign(b)
	a.InverseNTT()

	want := negacyclicConvolution(aCoeffs, bCoeffs, q)
	require.Equal(t, want, a.Coeffs[0])
}

// negacyclicConvolution computes the reference product in Z_q[X]/(X^N+1)
// by schoolbook multiplication with the X^N = -1 wraparound, as an
// independent oracle for the NTT-based multiplication under test.
func negacyclicConvolution(a, b []uint64, q uint64) []uint64 {
	n := len(a)
	out := make([]uint64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			prod := mulModRef(a[i], b[j], q)
			k := i + j
			if k < n {
				out[k] = ring.AddMod(out[k], prod, q)
			} else {
				out[k-n] = ring.SubMod(out[k-n], prod, q)
			}
		}
	}
	return out
}

func TestPolyContextNextDropsLastModulus(t *testing.T) {
	ctx := smallMultiModContext(t)
	require.Equal(t, 3, ctx.ModuliCount())
	next := ctx.Next()
	require.NotNil(t, next)
	require.Equal(t, 2, next.ModuliCount())
	require.Equal(t, ctx.Moduli()[:2], next.Moduli())
	require.Nil(t, next.Next().Next())
}

func TestPolyContextEqual(t *testing.T) {
	ctx1 := smallMultiModContext(t)
	ctx2 := smallMultiModContext(t)
	require.True(t, ctx1.Equal(ctx2))
	require.False(t, ctx1.Equal(ctx1.Next()))
}

func TestPolyContextRejectsNonNTTFriendlyModulus(t *testing.T) {
	_, err := ring.NewPolyContext(16, []uint64{101})
	require.Error(t, err)
}

func TestPolyContextRejectsNonPowerOfTwoDegree(t *testing.T) {
	_, err := ring.NewPolyContext(15, []uint64{97})
	require.Error(t, err)
}
