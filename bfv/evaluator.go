package bfv

import (
	"fmt"

	"github.com/latticefhe/bfvcore/ring"
)

// Evaluator implements the additive/multiplicative ciphertext operations,
// grounded on bfv/evaluator.go's operation surface but reworked around this
// module's Ciphertext/RnsTool types.
type Evaluator struct {
	ctx *Context
}

// NewEvaluator builds an Evaluator bound to ctx.
func NewEvaluator(ctx *Context) *Evaluator {
	return &Evaluator{ctx: ctx}
}

// ZeroCiphertext builds a transparent all-zero ciphertext at the given
// level with numPolys polynomials.
func (e *Evaluator) ZeroCiphertext(level, numPolys int) *Ciphertext {
	ringQ := e.ctx.RingQAtLevel(level)
	return NewCiphertext(ringQ, ring.Coeff, numPolys)
}

// AddAssign adds rhs into lhs in place. Both ciphertexts must share a
// context and Form; seed is cleared on lhs since the result no longer
// corresponds to any single seeded `a` polynomial.
func (e *Evaluator) AddAssign(lhs, rhs *Ciphertext) error {
	if err := requireCompatible(lhs, rhs); err != nil {
		return err
	}
	for i := range lhs.Value {
		lhs.Value[i].AddAssign(rhs.Value[i])
	}
	lhs.Seed = nil
	return nil
}

// SubAssign subtracts rhs from lhs in place.
func (e *Evaluator) SubAssign(lhs, rhs *Ciphertext) error {
	if err := requireCompatible(lhs, rhs); err != nil {
		return err
	}
	for i := range lhs.Value {
		lhs.Value[i].SubAssign(rhs.Value[i])
	}
	lhs.Seed = nil
	return nil
}

// NegAssign negates every polynomial of ct in place.
func (e *Evaluator) NegAssign(ct *Ciphertext) {
	for _, p := range ct.Value {
		p.Neg()
	}
	ct.Seed = nil
}

func requireCompatible(lhs, rhs *Ciphertext) error {
	if len(lhs.Value) != len(rhs.Value) {
		return fmt.Errorf("%w: ciphertexts have %d and %d polynomials", ErrInvalidCiphertext, len(lhs.Value), len(rhs.Value))
	}
	lhs.requireContext(rhs)
	return nil
}

// AddPlaintextAssign implements ciphertext-plaintext addition in Coeff
// form, via PlaintextTranslate.
func (e *Evaluator) AddPlaintextAssign(ct *Ciphertext, pt *Plaintext) error {
	return e.translatePlaintext(ct, pt, opAdd)
}

// SubPlaintextAssign implements ciphertext-plaintext subtraction in Coeff
// form.
func (e *Evaluator) SubPlaintextAssign(ct *Ciphertext, pt *Plaintext) error {
	return e.translatePlaintext(ct, pt, opSub)
}

func (e *Evaluator) translatePlaintext(ct *Ciphertext, pt *Plaintext, op translateOp) error {
	if ct.Form != ring.Coeff {
		return fmt.Errorf("%w: plaintext +/- is not supported on Eval ciphertexts", ErrUnsupportedOperation)
	}
	level, err := e.ctx.Level(ct)
	if err != nil {
		return err
	}
	rt, err := e.ctx.RnsToolAtLevel(level)
	if err != nil {
		return err
	}
	return PlaintextTranslate(ct, pt, rt, op)
}

// MulPlaintextAssign implements ciphertext-plaintext multiplication in
// Eval form: lift pt's raw coefficients into a Coeff-form polynomial over
// ct's own context (one row per ciphertext modulus), forward-NTT that lift
// into Eval form, then pointwise-multiply every ciphertext polynomial by
// it.
func (e *Evaluator) MulPlaintextAssign(ct *Ciphertext, pt *Plaintext) error {
	if ct.Form != ring.Eval {
		return fmt.Errorf("%w: ciphertext-plaintext multiply requires Eval form", ErrUnsupportedOperation)
	}
	if pt.T != e.ctx.Params.T() {
		return fmt.Errorf("%w: plaintext modulus mismatch", ErrIncompatiblePlaintext)
	}

	lifted := ring.NewPoly(ct.Context, ring.Coeff)
	for i, qi := range ct.Context.Moduli() {
		row := lifted.Coeffs[i]
		for j, m := range pt.Values {
			row[j] = m % qi
		}
	}
	lifted.ForwardNTT()

	for _, poly := range ct.Value {
		poly.MulAssign(lifted)
	}
	return nil
}

// ModSwitchDown requires correction_factor == 1 and calls
// DivideAndRoundQLast on each polynomial, dropping the last (top) modulus.
func (e *Evaluator) ModSwitchDown(ct *Ciphertext) error {
	if ct.CorrectionFactor != 1 {
		return fmt.Errorf("%w: mod_switch_down requires correction_factor == 1", ErrInvalidCorrectionFactor)
	}
	next := ct.Context.Next()
	if next == nil {
		return fmt.Errorf("%w: ciphertext already at a single modulus", ErrInvalidPolyContext)
	}
	for i, p := range ct.Value {
		ct.Value[i] = p.DivideAndRoundQLast()
	}
	ct.Context = next
	ct.Seed = nil
	return nil
}

// ModSwitchDownToSingle repeats ModSwitchDown until one modulus remains.
func (e *Evaluator) ModSwitchDownToSingle(ct *Ciphertext) error {
	for ct.Context.ModuliCount() > 1 {
		if err := e.ModSwitchDown(ct); err != nil {
			return err
		}
	}
	return nil
}

// ForwardNTT applies the NTT to every polynomial of ct (preserving
// correction factor and seed).
func (e *Evaluator) ForwardNTT(ct *Ciphertext) error {
	if ct.Form != ring.Coeff {
		return fmt.Errorf("%w: forward_ntt requires Coeff form", ErrInvalidCiphertext)
	}
	ct.ForwardNTT()
	return nil
}

// InverseNTT applies the inverse NTT to every polynomial of ct.
func (e *Evaluator) InverseNTT(ct *Ciphertext) error {
	if ct.Form != ring.Eval {
		return fmt.Errorf("%w: inverse_ntt requires Eval form", ErrInvalidCiphertext)
	}
	ct.InverseNTT()
	return nil
}

// MultiplyPowerOfX multiplies every coefficient polynomial of ct by X^k in
// R_q (cyclic with sign flip).
func (e *Evaluator) MultiplyPowerOfX(ct *Ciphertext, k int) error {
	if ct.Form != ring.Coeff {
		return fmt.Errorf("%w: multiply_power_of_x requires Coeff form", ErrUnsupportedOperation)
	}
	for _, p := range ct.Value {
		p.MultiplyPowerOfX(k)
	}
	return nil
}

// MultiplyWithoutScaling lifts both fresh 2-poly ciphertexts into [Q,
// B_sk], forward-NTTs, and computes the three cross products in the
// extended base.
func (e *Evaluator) MultiplyWithoutScaling(lhs, rhs *Ciphertext) (*Ciphertext, error) {
	if err := lhs.validateFresh(); err != nil {
		return nil, err
	}
	if err := rhs.validateFresh(); err != nil {
		return nil, err
	}
	lhs.requireContext(rhs)

	level, err := e.ctx.Level(lhs)
	if err != nil {
		return nil, err
	}
	rt, err := e.ctx.RnsToolAtLevel(level)
	if err != nil {
		return nil, err
	}

	a := e.lift2(lhs, rt)
	b := e.lift2(rhs, rt)

	qbsk := rt.QBskCtx()
	c0 := ring.LazyAccumulateProducts(qbsk, [][2]*ring.Poly{{a[0], b[0]}})
	c1 := ring.LazyAccumulateProducts(qbsk, [][2]*ring.Poly{{a[0], b[1]}, {a[1], b[0]}})
	c2 := ring.LazyAccumulateProducts(qbsk, [][2]*ring.Poly{{a[1], b[1]}})

	return &Ciphertext{
		Context: qbsk,
		Form: ring.Eval,
		Value: []*ring.Poly{c0, c1, c2},
		CorrectionFactor: 1,
	}, nil
}

// DropExtendedBase multiplies each poly by t, NTT^-1, applies
// FloorQBskToQ, and preserves the correction factor.
func (e *Evaluator) DropExtendedBase(ct *Ciphertext, level int) (*Ciphertext, error) {
	rt, err := e.ctx.RnsToolAtLevel(level)
	if err != nil {
		return nil, err
	}

	t := e.ctx.Params.T()
	scalars := make([]uint64, ct.Context.ModuliCount())
	for i, qi := range ct.Context.Moduli() {
		scalars[i] = t % qi
	}

	out := make([]*ring.Poly, len(ct.Value))
	for i, p := range ct.Value {
		tmp := p.CopyNew()
		tmp.MulScalarAssign(scalars)
		tmp.InverseNTT()
		out[i] = rt.FloorQBskToQ(tmp)
	}

	return &Ciphertext{
		Context: rt.QCtx(),
		Form: ring.Coeff,
		Value: out,
		CorrectionFactor: ct.CorrectionFactor,
	}, nil
}

// MulAssign composes MultiplyWithoutScaling and DropExtendedBase, leaving a
// 3-polynomial ciphertext that the caller must relinearize to return to 2
// polynomials.
func (e *Evaluator) MulAssign(lhs, rhs *Ciphertext) (*Ciphertext, error) {
	level, err := e.ctx.Level(lhs)
	if err != nil {
		return nil, err
	}
	raw, err := e.MultiplyWithoutScaling(lhs, rhs)
	if err != nil {
		return nil, err
	}
	return e.DropExtendedBase(raw, level)
}

// lift2 base-extends a fresh 2-poly ciphertext into [Q, B_sk] and
// forward-NTTs both polynomials, the per-operand half of
// MultiplyWithoutScaling factored out so InnerProduct can lift every
// operand exactly once and reuse it across every pair it participates in.
func (e *Evaluator) lift2(ct *Ciphertext, rt *RnsTool) [2]*ring.Poly {
	var out [2]*ring.Poly
	for i, p := range ct.Value {
		coeff := p
		if ct.Form != ring.Coeff {
			coeff = p.CopyNew()
			coeff.InverseNTT()
		}
		lifted := rt.LiftQToQBsk(coeff)
		lifted.ForwardNTT()
		out[i] = lifted
	}
	return out
}

// InnerProduct computes sum_i lhs[i]*rhs[i] over two matched slices of
// fresh ciphertexts. Every operand is lifted into the extended [Q, B_sk]
// base exactly once; the three cross-product accumulators (c0, c1, c2) are
// accumulated across every pair via ring.LazyAccumulateProducts, which
// defers modular reduction across batches of terms instead of reducing
// after every pairwise product, before a single DropExtendedBase call
// converts the total back to the ciphertext modulus chain. The result is a
// 3-polynomial ciphertext the caller must relinearize.
func (e *Evaluator) InnerProduct(lhsCts, rhsCts []*Ciphertext) (*Ciphertext, error) {
	if len(lhsCts) == 0 || len(lhsCts) != len(rhsCts) {
		return nil, fmt.Errorf("%w: inner_product requires equal non-empty operand slices, got %d and %d", ErrInvalidCiphertext, len(lhsCts), len(rhsCts))
	}
	for i := range lhsCts {
		if err := lhsCts[i].validateFresh(); err != nil {
			return nil, fmt.Errorf("inner_product operand %d: %w", i, err)
		}
		if err := rhsCts[i].validateFresh(); err != nil {
			return nil, fmt.Errorf("inner_product operand %d: %w", i, err)
		}
		lhsCts[0].requireContext(lhsCts[i])
		lhsCts[0].requireContext(rhsCts[i])
	}

	level, err := e.ctx.Level(lhsCts[0])
	if err != nil {
		return nil, err
	}
	rt, err := e.ctx.RnsToolAtLevel(level)
	if err != nil {
		return nil, err
	}

	qbsk := rt.QBskCtx()
	termsC0 := make([][2]*ring.Poly, 0, len(lhsCts))
	termsC1 := make([][2]*ring.Poly, 0, 2*len(lhsCts))
	termsC2 := make([][2]*ring.Poly, 0, len(lhsCts))
	for i := range lhsCts {
		a := e.lift2(lhsCts[i], rt)
		b := e.lift2(rhsCts[i], rt)

		termsC0 = append(termsC0, [2]*ring.Poly{a[0], b[0]})
		termsC1 = append(termsC1, [2]*ring.Poly{a[0], b[1]}, [2]*ring.Poly{a[1], b[0]})
		termsC2 = append(termsC2, [2]*ring.Poly{a[1], b[1]})
	}

	raw := &Ciphertext{
		Context: qbsk,
		Form: ring.Eval,
		Value: []*ring.Poly{
			ring.LazyAccumulateProducts(qbsk, termsC0),
			ring.LazyAccumulateProducts(qbsk, termsC1),
			ring.LazyAccumulateProducts(qbsk, termsC2),
		},
		CorrectionFactor: 1,
	}
	return e.DropExtendedBase(raw, level)
}

// InnerProductPlaintext computes sum_i cts[i]*plaintexts[i] in Eval form,
// skipping any index whose plaintext entry is nil.
func (e *Evaluator) InnerProductPlaintext(cts []*Ciphertext, plaintexts []*Plaintext) (*Ciphertext, error) {
	if len(cts) == 0 || len(cts) != len(plaintexts) {
		return nil, fmt.Errorf("%w: inner_product requires equal non-empty operand slices, got %d and %d", ErrInvalidCiphertext, len(cts), len(plaintexts))
	}

	var acc *Ciphertext
	for i, ct := range cts {
		if plaintexts[i] == nil {
			continue
		}
		term := ct.CopyNew()
		if err := e.MulPlaintextAssign(term, plaintexts[i]); err != nil {
			return nil, fmt.Errorf("inner_product operand %d: %w", i, err)
		}
		if acc == nil {
			acc = term
			continue
		}
		if err := e.AddAssign(acc, term); err != nil {
			return nil, fmt.Errorf("inner_product operand %d: %w", i, err)
		}
	}
	if acc == nil {
		return nil, fmt.Errorf("%w: inner_product over plaintexts has no non-nil terms", ErrInvalidCiphertext)
	}
	return acc, nil
}
