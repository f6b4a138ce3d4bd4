package ring

// DivideAndRoundQLast removes the last RNS modulus from p (which must be in
// Coeff form) by computing, for every remaining modulus qi, the rounded
// quotient round(x / q_last) mod qi, the modulus-switching-down primitive.
// Adds floor(q_last/2) to x before the exact division by q_last, so that
// the result rounds to nearest rather than down.
func (p *Poly) DivideAndRoundQLast() *Poly {
	p.requireForm(Coeff)

	level := p.Context.Level()
	if level == 0 {
		panic("ring: cannot drop the last modulus of a single-modulus PolyContext")
	}

	qLastMod := p.Context.reducer[level]
	qLast := qLastMod.Q()
	half := (qLast - 1) >> 1

	out := NewPoly(p.Context.Next(), Coeff)
	n := p.Context.N()

	lastRow := p.Coeffs[level]

	for i := 0; i < level; i++ {
		mi := p.Context.reducer[i]
		qi := mi.Q()

		qLastInv, err := InverseMod(qLast%qi, qi)
		if err != nil {
			panic(err)
		}

		halfModQi := half % qi

		srcRow := p.Coeffs[i]
		dstRow := out.Coeffs[i]
		for j := 0; j < n; j++ {
			// With r = (x + half) mod q_last, the integer x + half - r is
			// q_last * round(x / q_last); its residue mod qi is
			// x_i + half - r, which is then divided exactly by q_last.
			r := AddMod(lastRow[j], half, qLast)
			diff := SubMod(AddMod(srcRow[j], halfModQi, qi), r%qi, qi)
			dstRow[j] = mi.MulModBarrett(diff, qLastInv)
		}
	}

	return out
}
