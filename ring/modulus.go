package ring

import (
	"errors"
	"math/big"
	"math/bits"
)

// Modulus is a single NTT-friendly prime modulus together with the
// precomputed constants needed for constant-time reduction: a Barrett
// reduction pair, a Montgomery reduction constant, and the bit-length used
// to size the Barrett reciprocal.
//
// Every Modulus is immutable once built by NewModulus and is safe to share
// across many PolyRq values and across goroutines.
type Modulus struct {
	q uint64

	// bredParams = floor(2^128/q) as a 2-word value {hi, lo}, used by
	// BRedAdd, MulModBarrett and MForm.
	bredParams [2]uint64

	// mredParams = q^-1 mod 2^64, used by MRed (Montgomery multiplication).
	mredParams uint64

	// bitLen is bits.Len64(q).
	bitLen int
}

// NewModulus builds the reduction constants for q. q must be odd; the
// caller is responsible for verifying primality and NTT-friendliness where
// required (PolyContext does this).
func NewModulus(q uint64) (*Modulus, error) {
	if q == 0 {
		return nil, errors.New("ring: modulus must be non-zero")
	}
	if q&1 == 0 {
		return nil, errors.New("ring: modulus must be odd")
	}
	if bits.Len64(q) > 61 {
		return nil, errors.New("ring: modulus must fit in 61 bits")
	}

	m := &Modulus{q: q, bitLen: bits.Len64(q)}

	r := new(big.Int).Lsh(big.NewInt(1), 128)
	r.Quo(r, new(big.Int).SetUint64(q))
	m.bredParams[0] = new(big.Int).Rsh(r, 64).Uint64()
	m.bredParams[1] = r.Uint64()

	m.mredParams = mredParams(q)

	return m, nil
}

// Q returns the modulus value.
func (m *Modulus) Q() uint64 { return m.q }

// BitLen returns bits.Len64(Q()).
func (m *Modulus) BitLen() int { return m.bitLen }

// mredParams computes qInv = q^-1 mod 2^64, required by MRed/InvMForm.
//
// Grounded on ring.MRedParams in the prior revision corpus: Newton-style iteration
// computing the inverse of an odd q modulo 2^64 by repeated squaring.
func mredParams(q uint64) uint64 {
	qInv := uint64(1)
	x := q
	for i := 0; i < 63; i++ {
		qInv *= x
		x *= x
	}
	return qInv
}

// BRedAdd reduces x, where x < q^2, into [0, q) using Barrett reduction.
func (m *Modulus) BRedAdd(x uint64) uint64 {
	s0, _ := bits.Mul64(x, m.bredParams[0])
	r := x - s0*m.q
	if r >= m.q {
		r -= m.q
	}
	return r
}

// BRedAddConstant is the constant-time variant of BRedAdd: the result lies
// in [0, 2q) and the caller must perform the final conditional subtraction
// itself if it needs a canonical representative in constant time.
func (m *Modulus) BRedAddConstant(x uint64) uint64 {
	s0, _ := bits.Mul64(x, m.bredParams[0])
	return x - s0*m.q
}

// MulModBarrett returns a*b mod q using Barrett reduction, for a, b < q.
// Constant-time with respect to a, b (the reduction touches no secret
// branches beyond the fixed final-subtraction pattern common to all
// Barrett/Montgomery reducers in this package).
func (m *Modulus) MulModBarrett(a, b uint64) uint64 {
	ahi, alo := bits.Mul64(a, b)

	lhi, _ := bits.Mul64(alo, m.bredParams[1])
	mhi, mlo := bits.Mul64(alo, m.bredParams[0])
	s0, carry := bits.Add64(mlo, lhi, 0)
	s1 := mhi + carry
	mhi, mlo = bits.Mul64(ahi, m.bredParams[1])
	_, carry = bits.Add64(mlo, s0, 0)
	lhi = mhi + carry
	s0 = ahi*m.bredParams[0] + s1 + lhi

	r := alo - s0*m.q
	if r >= m.q {
		r -= m.q
	}
	return r
}

// MulModBarrettLazy is the non-normalizing counterpart of MulModBarrett:
// the result is in [0, 2q).
func (m *Modulus) MulModBarrettLazy(a, b uint64) uint64 {
	ahi, alo := bits.Mul64(a, b)

	lhi, _ := bits.Mul64(alo, m.bredParams[1])
	mhi, mlo := bits.Mul64(alo, m.bredParams[0])
	s0, carry := bits.Add64(mlo, lhi, 0)
	s1 := mhi + carry
	mhi, mlo = bits.Mul64(ahi, m.bredParams[1])
	_, carry = bits.Add64(mlo, s0, 0)
	lhi = mhi + carry
	s0 = ahi*m.bredParams[0] + s1 + lhi

	return alo - s0*m.q
}

// AddMod returns (a+b) mod q for a, b < q.
func AddMod(a, b, q uint64) uint64 {
	r := a + b
	if r >= q {
		r -= q
	}
	return r
}

// SubMod returns (a-b) mod q for a, b < q, using a conditional add of q
// instead of a signed branch.
func SubMod(a, b, q uint64) uint64 {
	if a >= b {
		return a - b
	}
	return a - b + q
}

// NegMod returns (q-a) mod q: q-a if a>0, else 0.
func NegMod(a, q uint64) uint64 {
	mask := ^uint64(0)
	if a == 0 {
		mask = 0
	}
	return (q - a) & mask
}

// MForm switches a into the Montgomery domain, computing a*2^64 mod q.
func MForm(a, q uint64, bredParams [2]uint64) uint64 {
	mhi, _ := bits.Mul64(a, bredParams[1])
	r := -(a*bredParams[0] + mhi) * q
	if r >= q {
		r -= q
	}
	return r
}

// InvMForm switches a out of the Montgomery domain, computing a*(1/2^64) mod q.
func InvMForm(a, q, qInv uint64) uint64 {
	r, _ := bits.Mul64(a*qInv, q)
	r = q - r
	if r >= q {
		r -= q
	}
	return r
}

// MRed computes x*y*(1/2^64) mod q: Montgomery multiplication.
func MRed(x, y, q, qInv uint64) uint64 {
	ahi, alo := bits.Mul64(x, y)
	h, _ := bits.Mul64(alo*qInv, q)
	r := ahi - h + q
	if r >= q {
		r -= q
	}
	return r
}

// MulModMontgomery returns a*b mod q where both a, b are assumed already in
// Montgomery form, using the Modulus's precomputed qInv.
func (m *Modulus) MulModMontgomery(a, b uint64) uint64 {
	return MRed(a, b, m.q, m.mredParams)
}

// ShoupMultiplier precomputes the Shoup (two-word) multiplier for a fixed
// public operand b, allowing MulModShoup to compute a*b mod q for many
// varying a with a single extra-word multiply-high plus one subtraction.
type ShoupMultiplier struct {
	q uint64
	b uint64
	bMont uint64 // floor(b * 2^64 / q)
}

// NewShoupMultiplier precomputes the Shoup multiplier for the public operand
// b modulo q.
func NewShoupMultiplier(b, q uint64) ShoupMultiplier {
	bq := new(big.Int).Lsh(new(big.Int).SetUint64(b), 64)
	bq.Quo(bq, new(big.Int).SetUint64(q))
	return ShoupMultiplier{q: q, b: b, bMont: bq.Uint64()}
}

// MulModShoup returns a*b mod q using the precomputed Shoup multiplier, for
// a < q. The Montgomery-like quotient estimate never needs a 128-bit divide
// at call time.
func (s ShoupMultiplier) MulModShoup(a uint64) uint64 {
	hi, _ := bits.Mul64(a, s.bMont)
	r := a*s.b - hi*s.q
	if r >= s.q {
		r -= s.q
	}
	return r
}

// PowMod computes base^exp mod q by square-and-multiply. Variable-time:
// both operands must be public.
func PowMod(base, exp, q uint64) uint64 {
	mod, err := NewModulus(q)
	if err != nil {
		// q is expected to already be a validated prime at every call site;
		// a failure here indicates a programmer error, not caller input.
		panic(err)
	}
	result := uint64(1) % q
	b := base % q
	for exp > 0 {
		if exp&1 == 1 {
			result = mod.MulModBarrett(result, b)
		}
		b = mod.MulModBarrett(b, b)
		exp >>= 1
	}
	return result
}

// InverseMod returns a^-1 mod q via the extended Euclidean algorithm.
// Variable-time: inputs must be public.
// Returns an error if a and q are not coprime.
func InverseMod(a, q uint64) (uint64, error) {
	if a == 0 {
		return 0, errors.New("ring: 0 has no inverse")
	}
	g, x, _ := extendedGCD(new(big.Int).SetUint64(a), new(big.Int).SetUint64(q))
	if g.Cmp(big.NewInt(1)) != 0 {
		return 0, errors.New("ring: value is not invertible modulo q")
	}
	x.Mod(x, new(big.Int).SetUint64(q))
	return x.Uint64(), nil
}

func extendedGCD(a, b *big.Int) (g, x, y *big.Int) {
	if a.Sign() == 0 {
		return new(big.Int).Set(b), big.NewInt(0), big.NewInt(1)
	}
	g, x1, y1 := extendedGCD(new(big.Int).Mod(b, a), a)
	q := new(big.Int).Div(b, a)
	x = new(big.Int).Sub(y1, new(big.Int).Mul(q, x1))
	y = x1
	return g, x, y
}

// ConstantTimeSelect returns a if cond == 1, else b. cond must be 0 or 1;
// the selection itself never branches on cond.
func ConstantTimeSelect(cond, a, b uint64) uint64 {
	mask := uint64(0) - (cond & 1)
	return (a & mask) | (b & ^mask)
}

// ConstantTimeLessThan returns ^uint64(0) if a < threshold, else 0, without
// branching on a.
func ConstantTimeLessThan(a, threshold uint64) uint64 {
	// (a - threshold) has its top bit set iff a < threshold, assuming both
	// fit comfortably below 2^63 (true for every RNS coefficient in this
	// module, all of which are < 2^61).
	diff := a - threshold
	return -(diff >> 63)
}
