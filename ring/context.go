package ring

import (
	"errors"
	"math/big"
)

// PolyContext is an ordered chain of RNS moduli for a ring of degree N,
// together with the per-modulus reduction and NTT tables every PolyRq
// operation needs. PolyContext values are immutable once built by
// NewPolyContext and are shared by reference across every PolyRq bound to
// them, exactly as ring.Context is shared across polynomials
// (ring/ring_context.go).
type PolyContext struct {
	n int

	moduli []uint64
	reducer []*Modulus

	nttTables []nttTable

	// next is the context obtained by dropping the last modulus; nil at the
	// single-modulus tail of the chain. The chain is a singly-linked,
	// acyclic structure of shared immutable values.
	next *PolyContext

	// modulusBig is the big.Int product of every modulus, precomputed once
	// at construction for q_remainder and CRT composition support.
	modulusBig *big.Int
}

// NewPolyContext builds a PolyContext for ring degree n (a power of two)
// over the given moduli chain. Every modulus must be prime and NTT-friendly
// for n (q = 1 mod 2n); construction fails with an error if a modulus is
// zero, even, wider than 61 bits or not 1 mod 2n. Primality is not checked.
func NewPolyContext(n int, moduli []uint64) (*PolyContext, error) {
	if n <= 0 || n&(n-1) != 0 {
		return nil, errors.New("ring: N must be a power of two")
	}
	if len(moduli) == 0 {
		return nil, errors.New("ring: moduli list must not be empty")
	}

	pc := &PolyContext{n: n, moduli: append([]uint64(nil), moduli...)}
	pc.reducer = make([]*Modulus, len(moduli))
	pc.nttTables = make([]nttTable, len(moduli))

	prod := big.NewInt(1)
	for i, q := range moduli {
		mod, err := NewModulus(q)
		if err != nil {
			return nil, err
		}
		if q%uint64(2*n) != 1 {
			return nil, errors.New("ring: modulus is not NTT-friendly for the given degree (q != 1 mod 2N)")
		}
		pc.reducer[i] = mod
		table, err := buildNTTTable(mod, n)
		if err != nil {
			return nil, err
		}
		pc.nttTables[i] = table
		prod.Mul(prod, new(big.Int).SetUint64(q))
	}
	pc.modulusBig = prod

	if len(moduli) > 1 {
		next, err := NewPolyContext(n, moduli[:len(moduli)-1])
		if err != nil {
			return nil, err
		}
		pc.next = next
	}

	return pc, nil
}

// N returns the ring degree.
func (pc *PolyContext) N() int { return pc.n }

// Level returns the number of RNS moduli minus one, matching the corpus's
// convention that "level" indexes the top modulus of the current chain.
func (pc *PolyContext) Level() int { return len(pc.moduli) - 1 }

// ModuliCount returns the number of RNS moduli in the chain.
func (pc *PolyContext) ModuliCount() int { return len(pc.moduli) }

// Moduli returns the ordered moduli chain. The returned slice must not be
// mutated.
func (pc *PolyContext) Moduli() []uint64 { return pc.moduli }

// Modulus returns the i-th reducer.
func (pc *PolyContext) Modulus(i int) *Modulus { return pc.reducer[i] }

// Next returns the context obtained by dropping the last modulus, or nil if
// this context already holds a single modulus.
func (pc *PolyContext) Next() *PolyContext { return pc.next }

// AtLevel returns the ancestor context holding exactly level+1 moduli,
// walking the Next chain. Panics if level is out of range: asking for a
// level above what the chain holds is a programmer error, not a recoverable
// one.
func (pc *PolyContext) AtLevel(level int) *PolyContext {
	if level < 0 || level > pc.Level() {
		panic(errors.New("ring: requested level is out of range for this PolyContext"))
	}
	cur := pc
	for cur.Level() > level {
		cur = cur.next
	}
	return cur
}

// QRemainder returns (prod(moduli)) mod m.
func (pc *PolyContext) QRemainder(m uint64) uint64 {
	return new(big.Int).Mod(pc.modulusBig, new(big.Int).SetUint64(m)).Uint64()
}

// ModulusBigInt returns the big.Int product of every modulus in the chain.
// Callers must not mutate the returned value.
func (pc *PolyContext) ModulusBigInt() *big.Int { return pc.modulusBig }

// MaxLazyProductAccumulationCount returns an upper bound on how many full
// 64x64->128 bit products may be summed into a two-word (128-bit)
// accumulator before an overflow becomes possible: 2^(127-2*maxBits) for
// the widest modulus of maxBits bits (32 for 61-bit moduli), clamped to
// 2^62. LazyAccumulateProducts sums into a Uint192, so the bound is
// conservative there. The bound is a function of the modulus bit-width
// only, never of secret data.
func (pc *PolyContext) MaxLazyProductAccumulationCount() int {
	maxBits := 0
	for _, m := range pc.reducer {
		if m.BitLen() > maxBits {
			maxBits = m.BitLen()
		}
	}
	// Each product is <= 2*maxBits bits; a two-word accumulator has 128.
	headroom := 128 - 2*maxBits
	if headroom <= 0 {
		return 0
	}
	shift := headroom - 1
	if shift > 62 {
		// int is only 64 bits wide; clamp rather than let the shift count
		// exceed the type's width and silently wrap to 0.
		shift = 62
	}
	return 1 << uint(shift)
}

// Equal reports whether two PolyContext values describe the identical ring
// (same degree, same ordered moduli). Operations across PolyRq values
// require their contexts to satisfy Equal.
func (pc *PolyContext) Equal(other *PolyContext) bool {
	if pc == other {
		return true
	}
	if pc == nil || other == nil {
		return false
	}
	if pc.n != other.n || len(pc.moduli) != len(other.moduli) {
		return false
	}
	for i := range pc.moduli {
		if pc.moduli[i] != other.moduli[i] {
			return false
		}
	}
	return true
}
