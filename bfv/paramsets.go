package bfv

import (
	"fmt"

	"github.com/latticefhe/bfvcore/ring"
)

// ParametersLiteral is the plain-struct literal a caller fills in to request
// a BFV parameter set, mirroring rlwe.ParametersLiteral /
// bfv.ParametersLiteral pair (grounded on _teacherref/bfv/parameters.go).
// NewParametersFromLiteral validates and expands it into Parameters.
type ParametersLiteral struct {
	LogN int // log2 of the ring degree.
	Q []uint64 // ciphertext modulus chain, NTT-friendly primes for N.
	P uint64 // special modulus appended for hybrid key switching (0 = none).
	T uint64 // plaintext modulus.
	Xe float64 // error standard deviation (default 3.2 if zero).
}

// Parameters is the checked, immutable parameter set built from a
// ParametersLiteral. It owns the PolyContext chains the rest of the package
// operates over.
type Parameters struct {
	logN int
	q []uint64
	p uint64
	t uint64
	xe float64

	ringQ *ring.PolyContext // chain over Q = q0*...*qL-1
	ringQP *ring.PolyContext // chain over Q extended by the special modulus
}

const defaultErrorStdDev = 3.2

// NewParametersFromLiteral validates pl and constructs the corresponding
// Parameters, wrapping ErrInvalidEncryptionParams with detail on any
// failure (InvalidEncryptionParameters), except an empty Q, which wraps
// ErrEmptyModulus.
func NewParametersFromLiteral(pl ParametersLiteral) (Parameters, error) {
	if pl.LogN < 10 {
		return Parameters{}, fmt.Errorf("%w: LogN=%d below minimum secure degree", ErrInvalidEncryptionParams, pl.LogN)
	}
	if len(pl.Q) == 0 {
		return Parameters{}, fmt.Errorf("%w: empty Q", ErrEmptyModulus)
	}
	if pl.T == 0 {
		return Parameters{}, fmt.Errorf("%w: T must be non-zero", ErrInvalidEncryptionParams)
	}

	n := 1 << pl.LogN

	ringQ, err := ring.NewPolyContext(n, pl.Q)
	if err != nil {
		return Parameters{}, fmt.Errorf("%w: %v", ErrInvalidEncryptionParams, err)
	}

	var ringQP *ring.PolyContext
	if pl.P != 0 {
		qp := append(append([]uint64{}, pl.Q...), pl.P)
		ringQP, err = ring.NewPolyContext(n, qp)
		if err != nil {
			return Parameters{}, fmt.Errorf("%w: special modulus: %v", ErrInvalidEncryptionParams, err)
		}
	}

	xe := pl.Xe
	if xe == 0 {
		xe = defaultErrorStdDev
	}

	return Parameters{
		logN: pl.LogN,
		q: append([]uint64{}, pl.Q...),
		p: pl.P,
		t: pl.T,
		xe: xe,
		ringQ: ringQ,
		ringQP: ringQP,
	}, nil
}

// N returns the ring degree.
func (p Parameters) N() int { return 1 << p.logN }

// LogN returns log2(N).
func (p Parameters) LogN() int { return p.logN }

// T returns the plaintext modulus.
func (p Parameters) T() uint64 { return p.t }

// ErrorStdDev returns the configured error distribution standard deviation.
func (p Parameters) ErrorStdDev() float64 { return p.xe }

// QCount returns the number of ciphertext moduli at the fresh (top) level.
func (p Parameters) QCount() int { return len(p.q) }

// RingQ returns the top-level ciphertext PolyContext.
func (p Parameters) RingQ() *ring.PolyContext { return p.ringQ }

// RingQP returns the key-switching PolyContext (Q extended by the special
// modulus), or nil if no special modulus was configured.
func (p Parameters) RingQP() *ring.PolyContext { return p.ringQP }

// HasSpecialModulus reports whether hybrid key switching is configured.
func (p Parameters) HasSpecialModulus() bool { return p.p != 0 }

// SpecialModulus returns the special modulus, or 0 if none is configured.
func (p Parameters) SpecialModulus() uint64 { return p.p }

// Equal reports whether p and other describe the same parameter set.
func (p Parameters) Equal(other Parameters) bool {
	if p.logN != other.logN || p.t != other.t || p.p != other.p || len(p.q) != len(other.q) {
		return false
	}
	for i := range p.q {
		if p.q[i] != other.q[i] {
			return false
		}
	}
	return true
}

// Named parameter sets.
// Each name encodes (N, approximate logQ moduli sizes, logT) directly; the
// moduli themselves are generated at package init via
// ring.NTTFriendlyPrimes rather than hand-transcribed, so every literal is
// guaranteed NTT-friendly for its N instead of risking a transcription
// error in a hand-picked hex constant.
var (
	// N4096LogQ272828LogT5 is a small, fast parameter set: N=4096, three
	// moduli of about 27, 28 and 28 bits, and a 5-bit plaintext modulus.
	N4096LogQ272828LogT5 = mustNamed(4096, []int{27, 28, 28}, 5)

	// N8192LogQ3x55LogT42 targets a deeper multiplicative circuit: N=8192,
	// three 55-bit moduli, and a 42-bit plaintext modulus.
	N8192LogQ3x55LogT42 = mustNamed(8192, []int{55, 55, 55}, 42)

	// N16384Classical128 targets 128-bit classical security at a large
	// degree: N=16384, six moduli sized like PN14QP438.
	N16384Classical128 = mustNamed(16384, []int{56, 55, 55, 54, 54, 54}, 16)
)

// mustNamed builds a named ParametersLiteral's moduli chain by generating
// one NTT-friendly prime per requested bit size (smallest-first) and a
// plaintext modulus of about logT bits, the first prime found by
// NTTFriendlyPrime(logT-1, n) (17 for logT=5). It panics on failure since
// these are fixed, package-level constants evaluated at init — any failure
// here is a bug in this file, not a runtime condition a caller can recover
// from.
func mustNamed(n int, logQs []int, logT int) ParametersLiteral {
	q := make([]uint64, len(logQs))
	seen := make(map[uint64]bool, len(logQs))
	for i, bits := range logQs {
		primes, err := ring.NTTFriendlyPrimes(len(seen)+1, bits, n, true)
		if err != nil {
			panic(err)
		}
		for _, cand := range primes {
			if !seen[cand] {
				q[i] = cand
				seen[cand] = true
				break
			}
		}
		if q[i] == 0 {
			panic(fmt.Errorf("bfv: could not find a fresh %d-bit NTT-friendly prime for N=%d", bits, n))
		}
	}

	t, err := ring.NTTFriendlyPrime(logT-1, n)
	if err != nil {
		panic(err)
	}

	return ParametersLiteral{LogN: log2(n), Q: q, T: t}
}

func log2(n int) int {
	l := 0
	for n > 1 {
		n >>= 1
		l++
	}
	return l
}
