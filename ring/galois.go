package ring

// GaloisGen is the standard generator used to build the cyclic group of
// column-rotation Galois elements for SIMD-packed BFV plaintexts (slots are
// laid out in two rows of N/2; the row swap uses X -> X^{2N-1} instead).
// Grounded on bfv.GaloisGen.
const GaloisGen uint64 = 5

// GaloisElementForColumnRotation returns the Galois element X -> X^g
// implementing a cyclic rotation of the SIMD column slots by k positions
// (k may be negative, meaning a rotation in the opposite direction).
func GaloisElementForColumnRotation(n int, k int) uint64 {
	nthRoot := uint64(2 * n)
	kk := ((int64(k) % int64(n)) + int64(n)) % int64(n)
	return powModPublic(GaloisGen, uint64(kk), nthRoot)
}

// GaloisElementForRowRotation returns the Galois element implementing the
// row-swap automorphism (X -> X^{2N-1}), swap_rows.
func GaloisElementForRowRotation(n int) uint64 {
	return uint64(2*n - 1)
}

// automorphismIndexCoeff computes, for a ring of degree n, the index
// permutation table for the Galois automorphism X^i -> X^{i*gen} in the
// Coeff domain (the Eval domain uses automorphismIndexNTT). idx[i] gives the
// destination coefficient for source index i, and sign[i] is true if the
// moved coefficient must be negated (arises whenever the destination
// exponent wraps past X^N = -1).
func automorphismIndexCoeff(n int, gen uint64) (idx []int, sign []bool) {
	mask := uint64(n - 1)
	idx = make([]int, n)
	sign = make([]bool, n)
	for i := 0; i < n; i++ {
		raw := uint64(i) * gen
		dst := raw & mask
		wrapped := (raw>>uint(bits64Len(mask))) & 1
		idx[i] = int(dst)
		sign[i] = wrapped == 1
	}
	return
}

// automorphismIndexNTT computes the lookup table for applying the Galois
// automorphism X^i -> X^{i*gen} directly on a polynomial already in Eval
// (NTT) form: the automorphism there is a pure permutation of the
// evaluation-point order, no sign flips, grounded on
// AutomorphismNTTIndex (ring/automorphism.go).
func automorphismIndexNTT(n int, gen uint64) []uint64 {
	nthRoot := uint64(2 * n)
	logNthRoot := bits64Len(nthRoot-1) - 1
	mask := nthRoot - 1
	index := make([]uint64, n)
	for i := 0; i < n; i++ {
		tmp1 := 2*bitReverse(uint64(i), logNthRoot) + 1
		tmp2 := ((gen*tmp1)&mask - 1) >> 1
		index[i] = bitReverse(tmp2, logNthRoot)
	}
	return index
}

// ApplyGalois permutes p's coefficient indices by the Galois automorphism
// X -> X^gen on Z_q[X]/(X^N+1), returning a new polynomial. In Coeff form
// this is an index permutation with a sign flip wherever the destination
// exponent wraps past X^N = -1; in Eval form it permutes evaluation
// points, with no sign flip needed. The result is never computed in place:
// every destination index may read from any source index.
func (p *Poly) ApplyGalois(gen uint64) *Poly {
	out := NewPoly(p.Context, p.Form)
	n := p.Context.N()

	if p.Form == Coeff {
		idx, sign := automorphismIndexCoeff(n, gen)
		for i, m := range p.Context.reducer {
			q := m.Q()
			src, dst := p.Coeffs[i], out.Coeffs[i]
			for j := 0; j < n; j++ {
				v := src[j]
				if sign[j] {
					v = NegMod(v, q)
				}
				dst[idx[j]] = v
			}
		}
		return out
	}

	index := automorphismIndexNTT(n, gen)
	for i := range p.Context.reducer {
		src, dst := p.Coeffs[i], out.Coeffs[i]
		for j := 0; j < n; j++ {
			dst[j] = src[index[j]]
		}
	}
	return out
}
