package bfv

import (
	"fmt"

	"github.com/latticefhe/bfvcore/ring"
)

// Ciphertext is a fixed-order tuple of PolyRq values (normally 2, 3 while
// awaiting relinearization after a raw multiply), a correction factor, and
// an optional seed from which the second polynomial may be regenerated.
// Every polynomial shares the same PolyContext and Form.
type Ciphertext struct {
	Context *ring.PolyContext
	Form ring.Form
	Value []*ring.Poly
	CorrectionFactor uint64 // in [1, t), invertible mod t
	Seed []byte // 16-byte AES-CTR-DRBG seed, or nil
}

// NewCiphertext allocates a degree-sized (numPolys) zero ciphertext over ctx
// in the given form, with correction factor 1.
func NewCiphertext(ctx *ring.PolyContext, form ring.Form, numPolys int) *Ciphertext {
	polys := make([]*ring.Poly, numPolys)
	for i := range polys {
		polys[i] = ring.NewPoly(ctx, form)
	}
	return &Ciphertext{Context: ctx, Form: form, Value: polys, CorrectionFactor: 1}
}

// Degree returns the ciphertext's polynomial-tuple degree (len(Value)-1).
func (ct *Ciphertext) Degree() int { return len(ct.Value) - 1 }

// requireContext panics if ct and other do not share a PolyContext and Form
// — the reference-equality check the data model's invariant (i) calls for.
func (ct *Ciphertext) requireContext(other *Ciphertext) {
	if ct.Context != other.Context {
		panic(fmt.Errorf("%w: ciphertexts bound to different PolyContexts", ErrInvalidContext))
	}
	if ct.Form != other.Form {
		panic(fmt.Errorf("%w: ciphertexts in different forms (%s vs %s)", ErrInvalidContext, ct.Form, other.Form))
	}
}

// validateFresh returns ErrInvalidCiphertext unless ct is a 2-poly
// ciphertext with the unit correction factor, the precondition most
// multiplication/key-switching entry points require.
func (ct *Ciphertext) validateFresh() error {
	if len(ct.Value) != 2 {
		return fmt.Errorf("%w: expected 2 polynomials, got %d", ErrInvalidCiphertext, len(ct.Value))
	}
	if ct.CorrectionFactor != 1 {
		return fmt.Errorf("%w: correction factor %d != 1", ErrInvalidCorrectionFactor, ct.CorrectionFactor)
	}
	return nil
}

// CopyNew returns a deep copy of ct.
func (ct *Ciphertext) CopyNew() *Ciphertext {
	out := &Ciphertext{
		Context: ct.Context,
		Form: ct.Form,
		Value: make([]*ring.Poly, len(ct.Value)),
		CorrectionFactor: ct.CorrectionFactor,
	}
	for i, p := range ct.Value {
		out.Value[i] = p.CopyNew()
	}
	if ct.Seed != nil {
		out.Seed = append([]byte{}, ct.Seed...)
	}
	return out
}

// IsTransparent reports whether every polynomial but the first is zero,
// meaning the ciphertext carries no secret-key dependent masking and
// decrypts to a public value under any key.
func (ct *Ciphertext) IsTransparent() bool {
	for _, p := range ct.Value[1:] {
		if !p.IsZero(true) {
			return false
		}
	}
	return true
}

// Zeroize clears every polynomial's backing storage.
func (ct *Ciphertext) Zeroize() {
	for _, p := range ct.Value {
		p.Zeroize()
	}
}

// ForwardNTT converts every polynomial from Coeff to Eval, preserving the
// correction factor and seed.
func (ct *Ciphertext) ForwardNTT() {
	for _, p := range ct.Value {
		p.ForwardNTT()
	}
	ct.Form = ring.Eval
}

// InverseNTT converts every polynomial from Eval to Coeff, preserving the
// correction factor and seed.
func (ct *Ciphertext) InverseNTT() {
	for _, p := range ct.Value {
		p.InverseNTT()
	}
	ct.Form = ring.Coeff
}
