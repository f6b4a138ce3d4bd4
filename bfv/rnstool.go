package bfv

import (
	"math/big"

	"github.com/latticefhe/bfvcore/ring"
)

// RnsTool binds a ciphertext modulus chain Q to the plaintext modulus t and
// an auxiliary RNS base used for BEHZ-style multiplication. Grounded on
// _teacherref/ring/basis_extension.go's BasisExtender for the shape of the
// auxiliary-base extension, and on _teacherref/bfv/scaling.go for the
// scale-and-round contract.
//
// BasisExtender pipelines every step through lazy, per-limb
// Barrett/Montgomery accumulators operating on 8-wide SIMD-unrolled uint64
// slices (see basis_extension.go's use of unsafe.Pointer). This module
// instead composes each coefficient exactly via ring.CRTComposeCtx, which
// itself accumulates through a fixed-width Uint320 for moduli chains of up
// to 5 primes and falls back to math/big beyond that (qBsk, with its
// auxiliary B base, routinely exceeds 5). Either way composition is
// variable-time: BEHZ multiplication needs a wider-than-native-word
// intermediate value, and exact composition matters more on that path than
// a constant-time guarantee this module does not otherwise provide; see
// DESIGN.md for the full rationale.
type RnsTool struct {
	qCtx *ring.PolyContext
	bCtx *ring.PolyContext // auxiliary base B, |Q|+1 primes
	bskCtx *ring.PolyContext // B ∪ {m_sk}
	qBsk *ring.PolyContext // Q ∪ Bsk, concatenated modulus list

	mtilde *big.Int // 2^32, the half-word auxiliary constant

	t uint64
	tBig *big.Int
	qBig *big.Int
	bskBig *big.Int
}

// NewRnsTool builds the RnsTool for the ciphertext context qCtx and
// plaintext modulus t.
func NewRnsTool(qCtx *ring.PolyContext, t uint64) (*RnsTool, error) {
	n := qCtx.N()
	k := qCtx.ModuliCount()

	used := make(map[uint64]bool, 2*k+2)
	for _, qi := range qCtx.Moduli() {
		used[qi] = true
	}

	// Large-first generation with logQ=60 yields 61-bit primes, the widest
	// NewModulus accepts.
	bPrimes, err := pickFreshPrimes(n, 60, k+1, used)
	if err != nil {
		return nil, err
	}
	mskPrimes, err := pickFreshPrimes(n, 60, 1, used)
	if err != nil {
		return nil, err
	}

	bskPrimes := append(append([]uint64{}, bPrimes...), mskPrimes[0])

	bCtx, err := ring.NewPolyContext(n, bPrimes)
	if err != nil {
		return nil, err
	}
	bskCtx, err := ring.NewPolyContext(n, bskPrimes)
	if err != nil {
		return nil, err
	}
	qBsk, err := ring.NewPolyContext(n, append(append([]uint64{}, qCtx.Moduli()...), bskPrimes...))
	if err != nil {
		return nil, err
	}

	return &RnsTool{
		qCtx: qCtx,
		bCtx: bCtx,
		bskCtx: bskCtx,
		qBsk: qBsk,
		mtilde: new(big.Int).Lsh(big.NewInt(1), 32),
		t: t,
		tBig: new(big.Int).SetUint64(t),
		qBig: qCtx.ModulusBigInt(),
		bskBig: bskCtx.ModulusBigInt(),
	}, nil
}

// pickFreshPrimes generates count NTT-friendly primes for ring degree n by
// ring.NTTFriendlyPrimes' large-first search with logQ = bits (so each
// prime has bits+1 bits), none of which appears in `used`; selected
// primes are added to `used` so a later call in the same RnsTool
// construction cannot repeat one.
func pickFreshPrimes(n, bits, count int, used map[uint64]bool) ([]uint64, error) {
	out := make([]uint64, 0, count)
	request := count
	for len(out) < count {
		candidates, err := ring.NTTFriendlyPrimes(request, bits, n, false)
		if err != nil {
			return nil, err
		}
		out = out[:0]
		for _, c := range candidates {
			if !used[c] {
				out = append(out, c)
				if len(out) == count {
					break
				}
			}
		}
		request += count
	}
	for _, c := range out {
		used[c] = true
	}
	return out, nil
}

// QCtx returns the ciphertext RNS context this tool was built for.
func (rt *RnsTool) QCtx() *ring.PolyContext { return rt.qCtx }

// BskCtx returns the auxiliary B_sk context.
func (rt *RnsTool) BskCtx() *ring.PolyContext { return rt.bskCtx }

// QBskCtx returns the combined [Q, B_sk] context.
func (rt *RnsTool) QBskCtx() *ring.PolyContext { return rt.qBsk }

// centeredValues composes every coefficient of poly (bound to ctx) into a
// big.Int and recenters it into (-modulus/2, modulus/2], interpreting the
// RNS value as a signed residue the way a ciphertext's noise term is meant
// to be read.
func centeredValues(ctx *ring.PolyContext, poly *ring.Poly) []*big.Int {
	vals := ring.CRTComposeCtx(ctx, poly)
	modulus := ctx.ModulusBigInt()
	half := new(big.Int).Rsh(modulus, 1)
	for _, v := range vals {
		if v.Cmp(half) > 0 {
			v.Sub(v, modulus)
		}
	}
	return vals
}

// rowsFromBig reduces each big.Int in vals modulo every modulus of ctx and
// assembles a Coeff-form poly bound to ctx.
func rowsFromBig(ctx *ring.PolyContext, vals []*big.Int) *ring.Poly {
	out := ring.NewPoly(ctx, ring.Coeff)
	for i, m := range ctx.Moduli() {
		mBig := new(big.Int).SetUint64(m)
		row := out.Coeffs[i]
		tmp := new(big.Int)
		for j, v := range vals {
			tmp.Mod(v, mBig)
			row[j] = tmp.Uint64()
		}
	}
	return out
}

// ScaleAndRound scales poly (in R_Q, carrying a ciphertext dot-product) down
// into R_t, returning coefficients equal to
// round((t/Q)*poly_i)*scalingFactor mod t.
func (rt *RnsTool) ScaleAndRound(poly *ring.Poly, scalingFactor uint64) []uint64 {
	xs := centeredValues(rt.qCtx, poly)
	out := make([]uint64, len(xs))
	sf := new(big.Int).SetUint64(scalingFactor)

	for i, x := range xs {
		num := new(big.Int).Mul(x, rt.tBig)
		q, r := new(big.Int).QuoRem(num, rt.qBig, new(big.Int))
		twiceR := new(big.Int).Lsh(new(big.Int).Abs(r), 1)
		if twiceR.Cmp(rt.qBig) >= 0 {
			if num.Sign() >= 0 {
				q.Add(q, big.NewInt(1))
			} else {
				q.Sub(q, big.NewInt(1))
			}
		}
		q.Mul(q, sf)
		q.Mod(q, rt.tBig)
		out[i] = q.Uint64()
	}
	return out
}

// BskMTildePoly is the output of ConvertApproximateBskMTilde: a polynomial
// expressed over B_sk ∪ {m̃}, where m̃ = 2^32 cannot itself be wrapped in a
// ring.PolyContext (it is even, not a prime), so its row is carried
// alongside the Bsk-context poly rather than inside one.
type BskMTildePoly struct {
	Bsk *ring.Poly // context: rt.bskCtx
	MTilde []uint64 // length N, each in [0, 2^32)
}

// ConvertApproximateBskMTilde maps poly in R_Q to R_{B_sk ∪ {m̃}} with
// output coefficient m̃·x + a·Q for some a in [0, k-1]. This implementation
// composes x exactly, so a = 0 identically.
func (rt *RnsTool) ConvertApproximateBskMTilde(poly *ring.Poly) *BskMTildePoly {
	xs := ring.CRTComposeCtx(rt.qCtx, poly)
	bskVals := make([]*big.Int, len(xs))
	mtildeRow := make([]uint64, len(xs))
	tmp := new(big.Int)
	for i, x := range xs {
		v := new(big.Int).Mul(x, rt.mtilde)
		bskVals[i] = v
		mtildeRow[i] = tmp.Mod(v, rt.mtilde).Uint64()
	}
	return &BskMTildePoly{Bsk: rowsFromBig(rt.bskCtx, bskVals), MTilde: mtildeRow}
}

// SmallMontgomeryReduce removes the m̃ component from aug, producing a poly
// over B_sk representing x mod B_sk exactly.
func (rt *RnsTool) SmallMontgomeryReduce(aug *BskMTildePoly) *ring.Poly {
	vB := ring.CRTComposeCtx(rt.bskCtx, aug.Bsk) // each entry: mtilde*x mod bskProduct
	out := make([]*big.Int, len(vB))
	for i, v := range vB {
		combined := combineCRT(v, rt.bskBig, new(big.Int).SetUint64(aug.MTilde[i]), rt.mtilde)
		x := new(big.Int).Div(combined, rt.mtilde)
		out[i] = x
	}
	return rowsFromBig(rt.bskCtx, out)
}

// LiftQToQBsk composes ConvertApproximateBskMTilde and
// SmallMontgomeryReduce, producing a poly over [Q, B_sk] carrying the
// exact value of poly (already in R_Q, so the Q rows are copied verbatim).
func (rt *RnsTool) LiftQToQBsk(poly *ring.Poly) *ring.Poly {
	bskPart := rt.SmallMontgomeryReduce(rt.ConvertApproximateBskMTilde(poly))

	out := ring.NewPoly(rt.qBsk, ring.Coeff)
	k := rt.qCtx.ModuliCount()
	for i := 0; i < k; i++ {
		copy(out.Coeffs[i], poly.Coeffs[i])
	}
	for j := 0; j < rt.bskCtx.ModuliCount(); j++ {
		copy(out.Coeffs[k+j], bskPart.Coeffs[j])
	}
	return out
}

// ApproximateFloor maps poly over [Q, B_sk] representing v < Q*B_sk to a
// B_sk-context poly representing floor(v/Q) + eps. This implementation
// composes v exactly, so eps = 0.
func (rt *RnsTool) ApproximateFloor(poly *ring.Poly) *ring.Poly {
	v := ring.CRTComposeCtx(rt.qBsk, poly)
	out := make([]*big.Int, len(v))
	for i, x := range v {
		out[i] = new(big.Int).Div(x, rt.qBig)
	}
	return rowsFromBig(rt.bskCtx, out)
}

// ConvertApproximateBskToQ implements Shenoy-Kumeresan base
// change from B_sk to Q, recentering the B_sk value around zero before
// reducing into Q so the ε term above is removed exactly.
func (rt *RnsTool) ConvertApproximateBskToQ(poly *ring.Poly) *ring.Poly {
	vals := centeredValues(rt.bskCtx, poly)
	return rowsFromBig(rt.qCtx, vals)
}

// FloorQBskToQ is the BEHZ rescale step, calling ApproximateFloor then
// ConvertApproximateBskToQ.
func (rt *RnsTool) FloorQBskToQ(poly *ring.Poly) *ring.Poly {
	return rt.ConvertApproximateBskToQ(rt.ApproximateFloor(poly))
}

// CRTCompose re-exports CRT composition over this tool's Q context.
func (rt *RnsTool) CRTCompose(poly *ring.Poly) []*big.Int {
	return ring.CRTComposeCtx(rt.qCtx, poly)
}

// combineCRT solves, via Garner's formula, for the unique x in
// [0, m1*m2) such that x ≡ v1 (mod m1) and x ≡ v2 (mod m2). m1 and m2 must
// be coprime.
func combineCRT(v1, m1, v2, m2 *big.Int) *big.Int {
	m1InvModM2 := new(big.Int).ModInverse(m1, m2)
	diff := new(big.Int).Sub(v2, v1)
	diff.Mod(diff, m2)
	t := new(big.Int).Mul(diff, m1InvModM2)
	t.Mod(t, m2)
	x := new(big.Int).Mul(t, m1)
	x.Add(x, v1)
	modulus := new(big.Int).Mul(m1, m2)
	x.Mod(x, modulus)
	return x
}
