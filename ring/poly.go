package ring

import "fmt"

// Form is the phantom tag distinguishing a PolyRq's representation: either
// Coeff (plain coefficient vector) or Eval (post-NTT evaluation-point
// vector). Go has no compile-time phantom types, so this is a runtime tag
// checked at the top of every operation that only makes sense in one
// domain, with an immediate panic on mismatch (a Coeff/Eval mixup is a
// programmer error, never a recoverable one).
type Form int

const (
	// Coeff is the plain coefficient representation.
	Coeff Form = iota
	// Eval is the NTT (evaluation-point) representation.
	Eval
)

func (f Form) String() string {
	if f == Coeff {
		return "Coeff"
	}
	return "Eval"
}

// Poly is an RNS polynomial of degree N over a PolyContext, stored as an
// L x N row-major array of scalars (one row per modulus), each reduced into
// [0, qi). Form records whether the entries are coefficients or NTT
// evaluations; operations that require a specific Form check it and panic
// otherwise. Grounded on ring.Poly (ring/poly.go,
// ring/ring_poly.go), generalized with an explicit Form tag.
type Poly struct {
	Context *PolyContext
	Form Form
	Coeffs [][]uint64
}

// NewPoly allocates a zero polynomial over ctx in the given form.
func NewPoly(ctx *PolyContext, form Form) *Poly {
	coeffs := make([][]uint64, ctx.ModuliCount())
	for i := range coeffs {
		coeffs[i] = make([]uint64, ctx.N())
	}
	return &Poly{Context: ctx, Form: form, Coeffs: coeffs}
}

func (p *Poly) requireForm(f Form) {
	if p.Form != f {
		panic(fmt.Errorf("ring: operation requires a %s-form polynomial, got %s", f, p.Form))
	}
}

func requireSameContext(a, b *Poly) {
	if !a.Context.Equal(b.Context) {
		panic(fmt.Errorf("ring: operands carry mismatched PolyContext values"))
	}
	if a.Form != b.Form {
		panic(fmt.Errorf("ring: operands carry mismatched Form (%s vs %s)", a.Form, b.Form))
	}
}

// CopyNew returns a deep copy of p.
func (p *Poly) CopyNew() *Poly {
	q := NewPoly(p.Context, p.Form)
	for i := range p.Coeffs {
		copy(q.Coeffs[i], p.Coeffs[i])
	}
	return q
}

// Copy overwrites the receiver's coefficients with src's. Both must share a
// context and Form.
func (p *Poly) Copy(src *Poly) {
	requireSameContext(p, src)
	for i := range p.Coeffs {
		copy(p.Coeffs[i], src.Coeffs[i])
	}
}

// AddAssign computes p += a, pointwise per modulus.
func (p *Poly) AddAssign(a *Poly) {
	requireSameContext(p, a)
	for i, m := range p.Context.reducer {
		q := m.Q()
		row, arow := p.Coeffs[i], a.Coeffs[i]
		for j := range row {
			row[j] = AddMod(row[j], arow[j], q)
		}
	}
}

// SubAssign computes p -= a, pointwise per modulus.
func (p *Poly) SubAssign(a *Poly) {
	requireSameContext(p, a)
	for i, m := range p.Context.reducer {
		q := m.Q()
		row, arow := p.Coeffs[i], a.Coeffs[i]
		for j := range row {
			row[j] = SubMod(row[j], arow[j], q)
		}
	}
}

// Neg computes p = -p, pointwise per modulus.
func (p *Poly) Neg() {
	for i, m := range p.Context.reducer {
		q := m.Q()
		row := p.Coeffs[i]
		for j := range row {
			row[j] = NegMod(row[j], q)
		}
	}
}

// MulAssign computes p *= a pointwise. Requires p.Form == Eval.
func (p *Poly) MulAssign(a *Poly) {
	p.requireForm(Eval)
	requireSameContext(p, a)
	for i, m := range p.Context.reducer {
		row, arow := p.Coeffs[i], a.Coeffs[i]
		for j := range row {
			row[j] = m.MulModBarrett(row[j], arow[j])
		}
	}
}

// MulScalarAssign multiplies every coefficient of row i by scalars[i] mod
// qi, for each RNS row. Used for the "multiply by t" steps of BEHZ
// multiplication (DropExtendedBase) and of the noise-budget computation.
func (p *Poly) MulScalarAssign(scalars []uint64) {
	for i, m := range p.Context.reducer {
		row := p.Coeffs[i]
		for j := range row {
			row[j] = m.MulModBarrett(row[j], scalars[i])
		}
	}
}

// ForwardNTT transforms p from Coeff to Eval form in place. Panics if p is
// already in Eval form.
func (p *Poly) ForwardNTT() {
	p.requireForm(Coeff)
	n := p.Context.N()
	for i, m := range p.Context.reducer {
		forwardNTTSingle(p.Coeffs[i], n, p.Context.nttTables[i], m)
	}
	p.Form = Eval
}

// InverseNTT transforms p from Eval to Coeff form in place. Panics if p is
// already in Coeff form.
func (p *Poly) InverseNTT() {
	p.requireForm(Eval)
	n := p.Context.N()
	for i, m := range p.Context.reducer {
		inverseNTTSingle(p.Coeffs[i], n, p.Context.nttTables[i], m)
	}
	p.Form = Coeff
}

// Zero sets every coefficient of p to 0.
func (p *Poly) Zero() {
	for i := range p.Coeffs {
		row := p.Coeffs[i]
		for j := range row {
			row[j] = 0
		}
	}
}

// IsZero scans every entry of p and reports whether all are zero.
// variableTime documents that the scan does not run in constant time
// (it short-circuits on the first non-zero entry); this is acceptable for
// the transparency check, which only ever inspects already-decrypted or
// public ciphertext components.
func (p *Poly) IsZero(variableTime bool) bool {
	_ = variableTime
	for _, row := range p.Coeffs {
		for _, c := range row {
			if c != 0 {
				return false
			}
		}
	}
	return true
}

// Zeroize overwrites every backing coefficient with 0. Unlike Zero, which
// is a normal polynomial reset, Zeroize documents secret-hygiene intent: it
// must be called on every secret-derived temporary once its scope ends.
// Nothing calls it implicitly: SecretKey.Zeroize (see keys.go) calls it on
// the key's Value when the caller invokes that method.
func (p *Poly) Zeroize() {
	if p == nil {
		return
	}
	p.Zero()
}

// DropContext asserts that p.Context is a prefix-extension of to (i.e. to
// is reachable by following Next from p.Context) and returns a new Poly
// holding only the rows kept by to.
func (p *Poly) DropContext(to *PolyContext) *Poly {
	if to.ModuliCount() > p.Context.ModuliCount() {
		panic(fmt.Errorf("ring: DropContext target has more moduli than the source"))
	}
	if !p.Context.AtLevel(to.Level()).Equal(to) {
		panic(fmt.Errorf("ring: DropContext target is not a prefix of the source context"))
	}
	out := NewPoly(to, p.Form)
	for i := 0; i < to.ModuliCount(); i++ {
		copy(out.Coeffs[i], p.Coeffs[i])
	}
	return out
}

// MultiplyPowerOfX multiplies p (in Coeff form) by X^k in R_q = Z_q[X]/(X^N+1),
// in place. k may be negative or >= N; the rotation is cyclic with a sign
// flip whenever indices wrap across X^N = -1.
func (p *Poly) MultiplyPowerOfX(k int) {
	p.requireForm(Coeff)
	n := p.Context.N()
	k = ((k % (2 * n)) + 2*n) % (2 * n)

	for i, m := range p.Context.reducer {
		q := m.Q()
		row := p.Coeffs[i]
		out := make([]uint64, n)
		for j := 0; j < n; j++ {
			dst := j + k
			neg := false
			if dst >= 2*n {
				dst -= 2 * n
			}
			if dst >= n {
				dst -= n
				neg = true
			}
			if neg {
				out[dst] = NegMod(row[j], q)
			} else {
				out[dst] = row[j]
			}
		}
		copy(row, out)
	}
}
