package ring

import "math/bits"

// Uint192 is a fixed-width 192-bit unsigned integer, stored as three
// 64-bit limbs in little-endian limb order (Limbs[0] is least significant).
// Fixed-size arrays are used here instead of math/big.Int so that every
// operation below runs in time independent of the operands' values. Two
// widths are provided: Uint192 (3x the 64-bit scalar width) for the lazy
// product accumulator, and Uint320 (5x) for CRT composition over up to 5
// moduli; CRTComposeCtx uses math/big for longer chains.
type Uint192 [3]uint64

// Add192 returns a+b as a 192-bit value, discarding any carry out of the
// top limb (the caller is responsible for sizing the type to avoid this).
func Add192(a, b Uint192) Uint192 {
	var r Uint192
	var c uint64
	r[0], c = bits.Add64(a[0], b[0], 0)
	r[1], c = bits.Add64(a[1], b[1], c)
	r[2], _ = bits.Add64(a[2], b[2], c)
	return r
}

// Sub192 returns a-b as a 192-bit value, assuming a >= b.
func Sub192(a, b Uint192) Uint192 {
	var r Uint192
	var c uint64
	r[0], c = bits.Sub64(a[0], b[0], 0)
	r[1], c = bits.Sub64(a[1], b[1], c)
	r[2], _ = bits.Sub64(a[2], b[2], c)
	return r
}

// MulAdd192 computes acc += x*y, where x, y are 64-bit words and acc is a
// 192-bit accumulator. This is the core primitive of the lazy inner-product
// accumulator: many such products are summed before any modular reduction
// occurs.
func MulAdd192(acc Uint192, x, y uint64) Uint192 {
	hi, lo := bits.Mul64(x, y)
	var c uint64
	acc[0], c = bits.Add64(acc[0], lo, 0)
	acc[1], c = bits.Add64(acc[1], hi, c)
	acc[2] += c
	return acc
}

// Cmp192 returns -1, 0 or 1 as a is less than, equal to, or greater than b.
func Cmp192(a, b Uint192) int {
	for i := 2; i >= 0; i-- {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// ModBarrett192 reduces a 192-bit accumulator modulo m, returning the
// canonical representative in [0, m.Q()). Implemented with fixed-width
// limb arithmetic rather than math/big: the three limbs are folded in
// through the same 128-bit Barrett reduction MulModBarrett uses.
func ModBarrett192(a Uint192, m *Modulus) uint64 {
	// Process from the most significant limb down, folding in 64 bits of
	// the accumulator at a time via r = (r*2^64 + limb) mod q; each of the
	// three folds leaves r < q.
	r := uint64(0)
	for i := 2; i >= 0; i-- {
		r = mulHiReduce(r, a[i], m)
	}
	return r
}

// mulHiReduce folds one more 64-bit limb x into the partial remainder r
// (itself already < m.Q()), computing (r*2^64 + x) mod q via a 128-bit
// Barrett reduction of the two-word value {r, x}.
func mulHiReduce(r, x uint64, m *Modulus) uint64 {
	// {r, x} interpreted as r*2^64+x, reduced mod q using the same
	// 128-bit Barrett machinery as BRedAdd/MulModBarrett.
	lhi, _ := bits.Mul64(x, m.bredParams[1])
	mhi, mlo := bits.Mul64(x, m.bredParams[0])
	s0, carry := bits.Add64(mlo, lhi, 0)
	s1 := mhi + carry
	mhi, mlo = bits.Mul64(r, m.bredParams[1])
	_, carry = bits.Add64(mlo, s0, 0)
	lhi = mhi + carry
	s0 = r*m.bredParams[0] + s1 + lhi

	out := x - s0*m.q
	for out >= m.q {
		out -= m.q
	}
	return out
}

// Uint320 is a 320-bit fixed-width unsigned integer (5 limbs), used by
// CRTCompose when composing a coefficient across up to 5 RNS moduli into a
// single wide integer without reducing to a representative modulo any
// single prime.
type Uint320 [5]uint64

// MulAddLimb320 computes acc += x*y where x is a public 64-bit modulus-chain
// product coefficient and y is a single RNS residue, accumulating the
// result starting at limb offset `at`.
func MulAddLimb320(acc Uint320, x, y uint64, at int) Uint320 {
	hi, lo := bits.Mul64(x, y)
	var c uint64
	acc[at], c = bits.Add64(acc[at], lo, 0)
	for i := at + 1; i < len(acc) && (hi != 0 || c != 0); i++ {
		if i == at+1 {
			acc[i], c = bits.Add64(acc[i], hi, c)
		} else {
			acc[i], c = bits.Add64(acc[i], 0, c)
		}
	}
	return acc
}
