package ring_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticefhe/bfvcore/ring"
)

func TestLazyAccumulateProductsMatchesEagerSum(t *testing.T) {
	ctx := smallMultiModContext(t)
	rnd := rand.New(rand.NewSource(21))

	const numTerms = 9
	terms := make([][2]*ring.Poly, numTerms)
	for k := 0; k < numTerms; k++ {
		a := ring.NewPoly(ctx, ring.Eval)
		b := ring.NewPoly(ctx, ring.Eval)
		for i, qi := range ctx.Moduli() {
			for j := range a.Coeffs[i] {
				a.Coeffs[i][j] = rnd.Uint64() % qi
				b.Coeffs[i][j] = rnd.Uint64() % qi
			}
		}
		terms[k] = [2]*ring.Poly{a, b}
	}

	got := ring.LazyAccumulateProducts(ctx, terms)

	want := ring.NewPoly(ctx, ring.Eval)
	for i, m := range wantReducers(ctx) {
		for k := 0; k < numTerms; k++ {
			a, b := terms[k][0].Coeffs[i], terms[k][1].Coeffs[i]
			row := want.Coeffs[i]
			for j := range row {
				row[j] = ring.AddMod(row[j], m.MulModBarrett(a[j], b[j]), m.Q())
			}
		}
	}

	require.Equal(t, want.Coeffs, got.Coeffs)
}

func TestLazyAccumulateProductsSingleTerm(t *testing.T) {
	ctx := smallMultiModContext(t)
	rnd := rand.New(rand.NewSource(22))

	a := ring.NewPoly(ctx, ring.Eval)
	b := ring.NewPoly(ctx, ring.Eval)
	for i, qi := range ctx.Moduli() {
		for j := range a.Coeffs[i] {
			a.Coeffs[i][j] = rnd.Uint64() % qi
			b.Coeffs[i][j] = rnd.Uint64() % qi
		}
	}

	got := ring.LazyAccumulateProducts(ctx, [][2]*ring.Poly{{a, b}})

	want := a.CopyNew()
	want.MulAssign(b)

	require.Equal(t, want.Coeffs, got.Coeffs)
}

func wantReducers(ctx *ring.PolyContext) []*ring.Modulus {
	out := make([]*ring.Modulus, ctx.ModuliCount())
	for i := range out {
		out[i] = ctx.Modulus(i)
	}
	return out
}
