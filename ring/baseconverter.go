package ring

import "math/big"

// BaseConverter implements RNS base conversion between two PolyContexts
// sharing a ring degree but different moduli sets.
// Grounded on BasisExtender/GenModUpConstants
// (ring/basis_extension.go), simplified to a coefficient-at-a-time
// computation: this module trades 8-wide SIMD-unrolled inner
// loop for a plain per-coefficient loop, since the core's performance
// mandate concerns the RNS representation, not a specific
// vectorization, and the conversion is not on the per-ciphertext-op hot path
// the way NTT and pointwise arithmetic are.
type BaseConverter struct {
	from *PolyContext
	to *PolyContext

	// qOverQiInv[i] = (Q/qi)^-1 mod qi, for each modulus qi of `from`.
	qOverQiInv []uint64
	// qOverQiModP[j][i] = (Q/qi) mod pj, for each modulus pj of `to`.
	qOverQiModP [][]uint64
}

// NewBaseConverter precomputes the constants needed to convert polynomials
// from `from`'s RNS base to `to`'s.
func NewBaseConverter(from, to *PolyContext) *BaseConverter {
	k := from.ModuliCount()
	m := to.ModuliCount()

	bc := &BaseConverter{
		from: from,
		to: to,
		qOverQiInv: make([]uint64, k),
		qOverQiModP: make([][]uint64, m),
	}

	Q := from.Moduli()
	bigQ := from.ModulusBigInt()

	qOverQi := make([]*big.Int, k)
	for i, qi := range Q {
		qOverQi[i] = new(big.Int).Div(bigQ, new(big.Int).SetUint64(qi))
		rem := new(big.Int).Mod(qOverQi[i], new(big.Int).SetUint64(qi)).Uint64()
		inv, err := InverseMod(rem, qi)
		if err != nil {
			panic(err)
		}
		bc.qOverQiInv[i] = inv
	}

	for j := range bc.qOverQiModP {
		pj := to.Moduli()[j]
		pjBig := new(big.Int).SetUint64(pj)
		bc.qOverQiModP[j] = make([]uint64, k)
		for i := range Q {
			bc.qOverQiModP[j][i] = new(big.Int).Mod(qOverQi[i], pjBig).Uint64()
		}
	}

	return bc
}

// From returns the source PolyContext.
func (bc *BaseConverter) From() *PolyContext { return bc.from }

// To returns the destination PolyContext.
func (bc *BaseConverter) To() *PolyContext { return bc.to }

// ConvertApproximate base-extends polyQ into the destination context: for
// each coefficient x of polyQ, it produces an element congruent to x mod pj
// for every destination modulus pj, with an additive error term of a*Q for
// some a in [0, k). polyQ must be in Coeff form (the conversion is a
// coefficient-wise CRT operation, meaningless on NTT evaluations).
func (bc *BaseConverter) ConvertApproximate(polyQ *Poly) *Poly {
	polyQ.requireForm(Coeff)
	if !polyQ.Context.Equal(bc.from) {
		panic("ring: BaseConverter source poly does not match the converter's from-context")
	}

	k := bc.from.ModuliCount()
	n := bc.from.N()
	out := NewPoly(bc.to, Coeff)

	y := make([]uint64, k)
	for col := 0; col < n; col++ {
		for i, m := range bc.from.reducer {
			y[i] = m.MulModBarrett(polyQ.Coeffs[i][col], bc.qOverQiInv[i])
		}
		for j, m := range bc.to.reducer {
			pj := m.Q()
			row := bc.qOverQiModP[j]
			acc := uint64(0)
			for i := 0; i < k; i++ {
				acc = AddMod(acc, m.MulModBarrett(y[i], row[i]), pj)
			}
			out.Coeffs[j][col] = acc
		}
	}
	return out
}

// ConvertApproximateProducts premultiplies polyQ in place by (Q/qi)^-1 mod
// qi on every row, so a caller running several base extensions of the same
// underlying value can reuse this premultiplied form instead of repeating
// the per-row multiply each time.
func (bc *BaseConverter) ConvertApproximateProducts(polyQ *Poly) {
	polyQ.requireForm(Coeff)
	for i, m := range bc.from.reducer {
		row := polyQ.Coeffs[i]
		inv := bc.qOverQiInv[i]
		for j := range row {
			row[j] = m.MulModBarrett(row[j], inv)
		}
	}
}

// CRTCompose exactly reconstructs every coefficient of polyQ as a big.Int in
// [0, Q), via Chinese Remainder composition (crt_compose).
func (bc *BaseConverter) CRTCompose(polyQ *Poly) []*big.Int {
	return CRTComposeCtx(bc.from, polyQ)
}

// CRTComposeCtx exactly reconstructs every coefficient of poly (bound to
// ctx) as a big.Int in [0, prod(ctx.Moduli())), via Chinese Remainder
// composition. For chains of up to 5 moduli, each coefficient's composition
// is accumulated into a Uint320 via MulAddLimb320 (schoolbook
// multiply-accumulate over qOverQi's 64-bit limbs) rather than reduced
// through math/big term by term; wider chains, which Uint320 cannot hold,
// fall back to a plain math/big accumulation.
func CRTComposeCtx(ctx *PolyContext, poly *Poly) []*big.Int {
	poly.requireForm(Coeff)
	n := ctx.N()
	k := ctx.ModuliCount()
	Q := ctx.Moduli()
	bigQ := ctx.ModulusBigInt()

	qOverQi := make([]*big.Int, k)
	qOverQiInv := make([]uint64, k)
	for i, qi := range Q {
		qOverQi[i] = new(big.Int).Div(bigQ, new(big.Int).SetUint64(qi))
		rem := new(big.Int).Mod(qOverQi[i], new(big.Int).SetUint64(qi)).Uint64()
		inv, err := InverseMod(rem, qi)
		if err != nil {
			panic(err)
		}
		qOverQiInv[i] = inv
	}

	out := make([]*big.Int, n)

	if k > 5 {
		for col := 0; col < n; col++ {
			acc := new(big.Int)
			for i, m := range ctx.reducer {
				y := m.MulModBarrett(poly.Coeffs[i][col], qOverQiInv[i])
				term := new(big.Int).Mul(qOverQi[i], new(big.Int).SetUint64(y))
				acc.Add(acc, term)
			}
			acc.Mod(acc, bigQ)
			out[col] = acc
		}
		return out
	}

	qOverQiLimbs := make([][]uint64, k)
	for i := range qOverQi {
		qOverQiLimbs[i] = limbs64(qOverQi[i])
	}

	for col := 0; col < n; col++ {
		var acc Uint320
		for i, m := range ctx.reducer {
			y := m.MulModBarrett(poly.Coeffs[i][col], qOverQiInv[i])
			for at, x := range qOverQiLimbs[i] {
				if x == 0 {
					continue
				}
				acc = MulAddLimb320(acc, x, y, at)
			}
		}
		v := uint320ToBigInt(acc)
		v.Mod(v, bigQ)
		out[col] = v
	}
	return out
}

// limbs64 decomposes b (assumed non-negative) into little-endian 64-bit
// limbs, trimmed to the narrowest slice holding every set bit. Assumes a
// 64-bit big.Word, true of every platform this module targets.
func limbs64(b *big.Int) []uint64 {
	words := b.Bits()
	limbs := make([]uint64, len(words))
	for i, w := range words {
		limbs[i] = uint64(w)
	}
	return limbs
}

// uint320ToBigInt reassembles a Uint320's little-endian limbs into a big.Int.
func uint320ToBigInt(v Uint320) *big.Int {
	out := new(big.Int)
	for i := len(v) - 1; i >= 0; i-- {
		out.Lsh(out, 64)
		out.Or(out, new(big.Int).SetUint64(v[i]))
	}
	return out
}
