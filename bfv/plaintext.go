package bfv

import "fmt"

// Plaintext holds N coefficients reduced modulo the plaintext modulus t.
// Unlike a Ciphertext poly, a Plaintext is not itself an RNS object: t need
// not be NTT-friendly, and its values enter ciphertext-space arithmetic
// only through PlaintextTranslate (plaintext addition and subtraction),
// which embeds them into every ciphertext modulus row, and through
// Evaluator.MulPlaintextAssign. Grounded on the shape of
// _teacherref/bfv/plaintext.go's raw-coefficient Plaintext, adapted away
// from that file's BigPoly/ring.Poly backing since this module keeps
// ciphertext and plaintext spaces as distinct representations.
type Plaintext struct {
	T uint64
	Values []uint64 // length N, each in [0, T)
}

// NewPlaintext allocates a zero plaintext of degree N over modulus t.
func NewPlaintext(n int, t uint64) *Plaintext {
	return &Plaintext{T: t, Values: make([]uint64, n)}
}

// NewPlaintextFromUint64 builds a plaintext from raw coefficients, reducing
// each one modulo t.
func NewPlaintextFromUint64(n int, t uint64, coeffs []uint64) (*Plaintext, error) {
	if len(coeffs) > n {
		return nil, fmt.Errorf("%w: %d coefficients exceed ring degree %d", ErrEncodingOutOfBounds, len(coeffs), n)
	}
	pt := NewPlaintext(n, t)
	for i, c := range coeffs {
		pt.Values[i] = c % t
	}
	return pt, nil
}

// NewPlaintextFromInt64 builds a plaintext from signed coefficients in
// [-floor(t/2), ceil(t/2)), returning ErrEncodingOutOfBounds if any value
// falls outside that centered range (EncodingDataOutOfBounds).
func NewPlaintextFromInt64(n int, t uint64, coeffs []int64) (*Plaintext, error) {
	if len(coeffs) > n {
		return nil, fmt.Errorf("%w: %d coefficients exceed ring degree %d", ErrEncodingOutOfBounds, len(coeffs), n)
	}
	lower := -int64(t / 2)
	upper := int64((t - 1) / 2)
	pt := NewPlaintext(n, t)
	for i, c := range coeffs {
		if c < lower || c > upper {
			return nil, fmt.Errorf("%w: coefficient %d outside [%d, %d]", ErrEncodingOutOfBounds, c, lower, upper)
		}
		v := c % int64(t)
		if v < 0 {
			v += int64(t)
		}
		pt.Values[i] = uint64(v)
	}
	return pt, nil
}

// Int64 decodes the plaintext's coefficients back into the centered signed
// representative of each residue class, in the same range
// NewPlaintextFromInt64 accepts.
func (p *Plaintext) Int64() []int64 {
	out := make([]int64, len(p.Values))
	half := int64((p.T - 1) / 2)
	for i, v := range p.Values {
		x := int64(v)
		if x > half {
			x -= int64(p.T)
		}
		out[i] = x
	}
	return out
}
