package ring_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticefhe/bfvcore/ring"
)

func TestApplyGaloisIdentityElement(t *testing.T) {
	ctx := smallMultiModContext(t)
	rnd := rand.New(rand.NewSource(8))

	p := ring.NewPoly(ctx, ring.Coeff)
	for i, qi := range ctx.Moduli() {
		for j := range p.Coeffs[i] {
			p.Coeffs[i][j] = rnd.Uint64() % qi
		}
	}

	out := p.ApplyGalois(1)
	require.Equal(t, p.Coeffs, out.Coeffs)
}

func TestApplyGaloisCoeffAndEvalAgree(t *testing.T) {
	// Applying a Galois element in Coeff form, then forward-NTT, must equal
	// forward-NTT then applying the same element in Eval form.
	ctx := testPolyContext(t)
	rnd := rand.New(rand.NewSource(9))
	q := ctx.Moduli()[0]

	p := ring.NewPoly(ctx, ring.Coeff)
	for j := range p.Coeffs[0] {
		p.Coeffs[0][j] = rnd.Uint64() % q
	}

	gen := ring.GaloisElementForColumnRotation(ctx.N(), 3)

	viaCoeff := p.ApplyGalois(gen)
	viaCoeff.ForwardNTT()

	viaEval := p.CopyNew()
	viaEval.ForwardNTT()
	viaEval = viaEval.ApplyGalois(gen)

	require.Equal(t, viaCoeff.Coeffs, viaEval.Coeffs)
}

func TestGaloisElementForRowRotationIsInvolution(t *testing.T) {
	n := 16
	el := ring.GaloisElementForRowRotation(n)
	// The row-swap automorphism squared must act as the identity on
	// exponents mod 2N: el*el mod 2N == 1.
	nthRoot := uint64(2 * n)
	require.Equal(t, uint64(1), (el*el)%nthRoot)
}
