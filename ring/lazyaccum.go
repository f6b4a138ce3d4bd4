package ring

// LazyAccumulateProducts computes, for every RNS row and every coefficient
// position, the sum over terms of terms[k][0]*terms[k][1], both operands
// bound to ctx and in Eval form. Rather than reducing after every pairwise
// product (as a loop of Poly.MulAssign/AddAssign would), each product is
// folded into a per-coefficient Uint192 accumulator via MulAdd192, and the
// accumulator is only brought back into [0, qi) via ModBarrett192 once
// every PolyContext.MaxLazyProductAccumulationCount terms, or at the end of
// the term list. This is the lazy inner-product accumulator
// MaxLazyProductAccumulationCount exists to bound: it amortizes the modular
// reduction across many terms instead of paying for one per term.
func LazyAccumulateProducts(ctx *PolyContext, terms [][2]*Poly) *Poly {
	if len(terms) == 0 {
		panic("ring: LazyAccumulateProducts requires at least one term")
	}
	for _, term := range terms {
		if !term[0].Context.Equal(ctx) || !term[1].Context.Equal(ctx) {
			panic("ring: LazyAccumulateProducts operand does not match the accumulation context")
		}
		term[0].requireForm(Eval)
		term[1].requireForm(Eval)
	}

	n := ctx.N()
	batch := ctx.MaxLazyProductAccumulationCount()
	if batch <= 0 {
		batch = 1
	}

	out := NewPoly(ctx, Eval)
	acc := make([]Uint192, n)
	for i, m := range ctx.reducer {
		for j := range acc {
			acc[j] = Uint192{}
		}
		count := 0
		for _, term := range terms {
			a, b := term[0].Coeffs[i], term[1].Coeffs[i]
			for j := 0; j < n; j++ {
				acc[j] = MulAdd192(acc[j], a[j], b[j])
			}
			count++
			if count == batch {
				for j := 0; j < n; j++ {
					acc[j] = Uint192{ModBarrett192(acc[j], m)}
				}
				count = 0
			}
		}
		row := out.Coeffs[i]
		for j := 0; j < n; j++ {
			row[j] = ModBarrett192(acc[j], m)
		}
	}
	return out
}
