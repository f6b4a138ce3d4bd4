package ring

import (
	"errors"
	"math/big"
)

// nttTable holds, for a single modulus, the bit-reversed powers of the
// primitive 2N-th root of unity (and its inverse) in Montgomery form,
// needed to run Harvey's lazy NTT butterfly in place. Grounded on
// Context.GenNTTParams (ring/ring_context.go) and NTT/InvNTT
// (ring/ntt.go).
type nttTable struct {
	psi []uint64 // bit-reversed powers of psi, Montgomery form
	psiInv []uint64 // bit-reversed powers of psi^-1, Montgomery form
	nInv uint64 // N^-1 mod q, Montgomery form
}

func buildNTTTable(m *Modulus, n int) (nttTable, error) {
	q := m.Q()
	bitLen := bits64Len(uint64(n)) - 1

	g, err := primitiveRoot(q)
	if err != nil {
		return nttTable{}, err
	}

	twoN := uint64(2 * n)
	power := (q - 1) / twoN
	powerInv := (q - 1) - power

	psi := powModPublic(g, power, q)
	psiInv := powModPublic(g, powerInv, q)

	psiMont := MForm(psi, q, m.bredParams)
	psiInvMont := MForm(psiInv, q, m.bredParams)

	table := nttTable{
		psi: make([]uint64, n),
		psiInv: make([]uint64, n),
		nInv: MForm(powModPublic(uint64(n), q-2, q), q, m.bredParams),
	}

	table.psi[0] = MForm(1, q, m.bredParams)
	table.psiInv[0] = MForm(1, q, m.bredParams)

	for j := 1; j < n; j++ {
		prev := bitReverse(uint64(j-1), bitLen)
		next := bitReverse(uint64(j), bitLen)
		table.psi[next] = MRed(table.psi[prev], psiMont, q, m.mredParams)
		table.psiInv[next] = MRed(table.psiInv[prev], psiInvMont, q, m.mredParams)
	}

	return table, nil
}

func bits64Len(x uint64) int {
	n := 0
	for x > 0 {
		n++
		x >>= 1
	}
	return n
}

func bitReverse(index uint64, bitLen int) uint64 {
	var r uint64
	for i := 0; i < bitLen; i++ {
		if (index>>uint(i))&1 != 0 {
			r |= 1 << uint(bitLen-1-i)
		}
	}
	return r
}

func powModPublic(base, exp, q uint64) uint64 {
	result := uint64(1) % q
	b := base % q
	for exp > 0 {
		if exp&1 == 1 {
			result = mulModPublic(result, b, q)
		}
		b = mulModPublic(b, b, q)
		exp >>= 1
	}
	return result
}

func mulModPublic(a, b, q uint64) uint64 {
	return new(big.Int).Mod(new(big.Int).Mul(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b)), new(big.Int).SetUint64(q)).Uint64()
}

// primitiveRoot finds a generator of (Z/qZ)^*, q prime, by trial and
// factorization of q-1. Variable-time and setup-only: q is always a public
// modulus.
func primitiveRoot(q uint64) (uint64, error) {
	if q == 2 {
		return 1, nil
	}
	factors := distinctPrimeFactors(q - 1)
	for g := uint64(2); g < q; g++ {
		isGenerator := true
		for _, p := range factors {
			if powModPublic(g, (q-1)/p, q) == 1 {
				isGenerator = false
				break
			}
		}
		if isGenerator {
			return g, nil
		}
	}
	return 0, errors.New("ring: failed to find a primitive root (modulus is not prime?)")
}

func distinctPrimeFactors(x uint64) []uint64 {
	var factors []uint64
	n := x
	for p := uint64(2); p*p <= n; p++ {
		if n%p == 0 {
			factors = append(factors, p)
			for n%p == 0 {
				n /= p
			}
		}
	}
	if n > 1 {
		factors = append(factors, n)
	}
	return factors
}

// butterflyCT computes X, Y = U + V*psi, U - V*psi (mod 4q), the
// Cooley-Tukey decimation-in-time step used by the forward NTT. U may lie
// in [0, 4q); it is first brought down to at most 2q.
func butterflyCT(u, v, psi, q, qInv uint64) (x, y uint64) {
	if u > 2*q {
		u -= 2 * q
	}
	v = MRed(v, psi, q, qInv)
	x = u + v
	y = u + 2*q - v
	return
}

// butterflyGS computes X, Y = U + V, (U - V)*psi (mod 4q), the
// Gentleman-Sande decimation-in-frequency step used by the inverse NTT.
func butterflyGS(u, v, psi, q, qInv uint64) (x, y uint64) {
	x = u + v
	if x > 2*q {
		x -= 2 * q
	}
	y = MRed(u+2*q-v, psi, q, qInv)
	return
}

// forwardNTTSingle runs Harvey's in-place lazy NTT on a single modulus's
// row of coefficients (length n, a power of two), transforming coefficient
// form into evaluation form. Grounded on ring.NTT (ring/ntt.go).
func forwardNTTSingle(coeffs []uint64, n int, table nttTable, m *Modulus) {
	q, qInv := m.Q(), m.mredParams

	t := n >> 1
	f := table.psi[1]
	for j := 0; j < t; j++ {
		coeffs[j], coeffs[j+t] = butterflyCT(coeffs[j], coeffs[j+t], f, q, qInv)
	}

	for mm := 2; mm < n; mm <<= 1 {
		t >>= 1
		for i := 0; i < mm; i++ {
			j1 := (i * t) << 1
			j2 := j1 + t - 1
			f := table.psi[mm+i]
			for j := j1; j <= j2; j++ {
				coeffs[j], coeffs[j+t] = butterflyCT(coeffs[j], coeffs[j+t], f, q, qInv)
			}
		}
	}

	for i := 0; i < n; i++ {
		coeffs[i] = m.BRedAdd(coeffs[i])
	}
}

// inverseNTTSingle runs Harvey's in-place lazy inverse NTT on a single
// modulus's row of coefficients, transforming evaluation form back into
// coefficient form. Grounded on ring.InvNTT (ring/ntt.go).
func inverseNTTSingle(coeffs []uint64, n int, table nttTable, m *Modulus) {
	q, qInv := m.Q(), m.mredParams

	t := 1
	h := n >> 1
	j1 := 0
	for i := 0; i < h; i++ {
		f := table.psiInv[h+i]
		coeffs[j1], coeffs[j1+t] = butterflyGS(coeffs[j1], coeffs[j1+t], f, q, qInv)
		j1 += t << 1
	}

	t <<= 1
	for mm := n >> 1; mm > 1; mm >>= 1 {
		j1 = 0
		h = mm >> 1
		for i := 0; i < h; i++ {
			j2 := j1 + t - 1
			f := table.psiInv[h+i]
			for j := j1; j <= j2; j++ {
				coeffs[j], coeffs[j+t] = butterflyGS(coeffs[j], coeffs[j+t], f, q, qInv)
			}
			j1 += t << 1
		}
		t <<= 1
	}

	for j := 0; j < n; j++ {
		coeffs[j] = MRed(coeffs[j], table.nInv, q, qInv)
	}
}
