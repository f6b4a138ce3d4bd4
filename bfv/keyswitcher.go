package bfv

import (
	"fmt"
	"io"

	"github.com/latticefhe/bfvcore/ring"
)

// GenerateSecretKey samples a fresh ternary secret key over the full
// (level-0) ciphertext context, key-generation entry point.
// Grounded on bfv/keygen.go GenSecretKey, reworked to keep the
// raw ternary signs alongside the NTT-domain value (see keys.go's Signs
// field).
func GenerateSecretKey(ctx *Context, prng io.Reader) (*SecretKey, error) {
	ringQ := ctx.Params.RingQ()
	coeff := ring.NewTernarySampler(ringQ, prng).ReadNew()
	signs := extractSigns(coeff)
	coeff.ForwardNTT()
	return &SecretKey{Value: coeff, Signs: signs}, nil
}

// GenerateKeySwitchKey builds the KeySwitchKey carrying, for every RNS digit
// (one per modulus of the level-`level` ciphertext context), an encryption
// of zero under targetKey over the extended [Q,special] context with
// currentKey's digit added into that digit's own row, scaled by the special
// modulus (generate_key_switch_key). currentKey must be in
// Coeff form over ctx.RingQAtLevel(level); this is how both relinearization
// (currentKey = s^2) and Galois key generation (currentKey =
// apply_galois(s)) are expressed in terms of the same primitive.
func GenerateKeySwitchKey(ctx *Context, level int, currentKey *ring.Poly, targetKey *SecretKey) (*KeySwitchKey, error) {
	if currentKey.Form != ring.Coeff {
		return nil, fmt.Errorf("%w: generate_key_switch_key requires currentKey in Coeff form", ErrUnsupportedOperation)
	}
	if !currentKey.Context.Equal(ctx.RingQAtLevel(level)) {
		return nil, fmt.Errorf("%w: currentKey is not bound to the level-%d ciphertext context", ErrInvalidContext, level)
	}

	ext, err := ctx.KeySwitchContextAtLevel(level)
	if err != nil {
		return nil, err
	}
	special := ctx.Params.SpecialModulus()
	errStdDev := ctx.Params.ErrorStdDev()
	targetEval := embedSecretKeyInContext(targetKey.Signs, ext)

	k := currentKey.Context.ModuliCount()
	digits := make([]Ciphertext, k)

	for i, qi := range currentKey.Context.Moduli() {
		c0, c1, seed, err := encryptZeroOverContext(ext, targetEval, errStdDev)
		if err != nil {
			return nil, fmt.Errorf("bfv: generating key-switch digit %d: %w", i, err)
		}

		pModQi := special % qi
		mod := ext.Modulus(i)
		row := c0.Coeffs[i]
		src := currentKey.Coeffs[i]
		for j := range row {
			row[j] = ring.AddMod(row[j], mod.MulModBarrett(src[j], pModQi), qi)
		}

		c0.ForwardNTT()
		c1.ForwardNTT()

		digits[i] = Ciphertext{
			Context: ext,
			Form: ring.Eval,
			Value: []*ring.Poly{c0, c1},
			CorrectionFactor: 1,
			Seed: seed,
		}
	}

	return &KeySwitchKey{Value: digits}, nil
}

// GenerateRelinearizationKey builds the key switch key from s^2 back to s,
// relinearization key.
func GenerateRelinearizationKey(ctx *Context, sk *SecretKey) (*RelinearizationKey, error) {
	sSquaredEval := sk.Value.CopyNew()
	sSquaredEval.MulAssign(sk.Value)
	sSquaredCoeff := sSquaredEval.CopyNew()
	sSquaredCoeff.InverseNTT()

	ksk, err := GenerateKeySwitchKey(ctx, 0, sSquaredCoeff, sk)
	if err != nil {
		return nil, fmt.Errorf("bfv: generating relinearization key: %w", err)
	}
	return &RelinearizationKey{Key: ksk}, nil
}

// GenerateGaloisKeyForElement builds the key switch key mapping
// Galois-permuted secret sigma(s) back to s, for the single Galois element
// `element`.
func GenerateGaloisKeyForElement(ctx *Context, sk *SecretKey, element uint64) (*KeySwitchKey, error) {
	sCoeff := sk.Value.CopyNew()
	sCoeff.InverseNTT()
	permuted := sCoeff.ApplyGalois(element)

	ksk, err := GenerateKeySwitchKey(ctx, 0, permuted, sk)
	if err != nil {
		return nil, fmt.Errorf("bfv: generating galois key for element %d: %w", element, err)
	}
	return ksk, nil
}

// ComputeKeySwitchingUpdate base-extends each RNS digit of `target`
// (Coeff form, bound to the level-`level` ciphertext context) into the
// extended [Q,special] base via a singleton-modulus BaseConverter, NTTs it,
// multiplies pointwise against the matching key-switch digit, accumulates
// across all digits, and drops the special modulus via
// DivideAndRoundQLast, returning the (c0, c1) update to add into the
// ciphertext being switched.
func ComputeKeySwitchingUpdate(ctx *Context, level int, target *ring.Poly, ksk *KeySwitchKey) (c0, c1 *ring.Poly, err error) {
	if target.Form != ring.Coeff {
		return nil, nil, fmt.Errorf("%w: compute_key_switching_update requires target in Coeff form", ErrUnsupportedOperation)
	}
	if !target.Context.Equal(ctx.RingQAtLevel(level)) {
		return nil, nil, fmt.Errorf("%w: target is not bound to the level-%d ciphertext context", ErrInvalidContext, level)
	}
	if len(ksk.Value) != target.Context.ModuliCount() {
		return nil, nil, fmt.Errorf("%w: key-switch key has %d digits, target has %d moduli", ErrInvalidCiphertext, len(ksk.Value), target.Context.ModuliCount())
	}

	ext, err := ctx.KeySwitchContextAtLevel(level)
	if err != nil {
		return nil, nil, err
	}

	accC0 := ring.NewPoly(ext, ring.Eval)
	accC1 := ring.NewPoly(ext, ring.Eval)

	for i, qi := range target.Context.Moduli() {
		singleton, err := ring.NewPolyContext(ext.N(), []uint64{qi})
		if err != nil {
			return nil, nil, fmt.Errorf("bfv: building singleton base for digit %d: %w", i, err)
		}
		digit := ring.NewPoly(singleton, ring.Coeff)
		copy(digit.Coeffs[0], target.Coeffs[i])

		extended := ring.NewBaseConverter(singleton, ext).ConvertApproximate(digit)
		extended.ForwardNTT()

		digitKsk := ksk.Value[i]

		t0 := extended.CopyNew()
		t0.MulAssign(digitKsk.Value[0])
		accC0.AddAssign(t0)

		t1 := extended.CopyNew()
		t1.MulAssign(digitKsk.Value[1])
		accC1.AddAssign(t1)
	}

	accC0.InverseNTT()
	accC1.InverseNTT()

	c0 = accC0.DivideAndRoundQLast()
	c1 = accC1.DivideAndRoundQLast()
	return c0, c1, nil
}

// Relinearize reduces a 3-polynomial post-multiplication ciphertext back to
// 2 polynomials by key-switching its c2 term from s^2 to s, using ek's
// relinearization key.
func Relinearize(ctx *Context, ct *Ciphertext, ek *EvaluationKey) error {
	if len(ct.Value) != 3 {
		return fmt.Errorf("%w: relinearize requires a 3-polynomial ciphertext, got %d", ErrInvalidCiphertext, len(ct.Value))
	}
	if !ek.HasRelinearizationKey() {
		return fmt.Errorf("%w: evaluation key carries no relinearization key", ErrMissingRelinearizationKey)
	}

	level, err := ctx.Level(ct)
	if err != nil {
		return err
	}

	c2 := ct.Value[2]
	if ct.Form == ring.Eval {
		c2 = c2.CopyNew()
		c2.InverseNTT()
	}

	d0, d1, err := ComputeKeySwitchingUpdate(ctx, level, c2, ek.Relin.Key)
	if err != nil {
		return fmt.Errorf("bfv: relinearize: %w", err)
	}

	if ct.Form == ring.Eval {
		d0.ForwardNTT()
		d1.ForwardNTT()
	}

	ct.Value[0].AddAssign(d0)
	ct.Value[1].AddAssign(d1)
	ct.Value = ct.Value[:2]
	ct.Seed = nil
	return nil
}

// ApplyGalois permutes ct's polynomials by the Galois automorphism for
// `element`, then key-switches the permuted c1 back onto the original
// secret key using ek's Galois key for that element.
func ApplyGalois(ctx *Context, ct *Ciphertext, element uint64, ek *EvaluationKey) error {
	if len(ct.Value) != 2 {
		return fmt.Errorf("%w: apply_galois requires a 2-polynomial ciphertext, got %d", ErrInvalidCiphertext, len(ct.Value))
	}
	if ek.Galois == nil {
		return fmt.Errorf("%w: evaluation key carries no Galois key", ErrMissingGaloisElement)
	}
	ksk, ok := ek.Galois.Get(element)
	if !ok {
		return fmt.Errorf("%w: evaluation key carries no Galois key for element %d", ErrMissingGaloisKey, element)
	}

	level, err := ctx.Level(ct)
	if err != nil {
		return err
	}

	wasEval := ct.Form == ring.Eval
	c0 := ct.Value[0]
	c1 := ct.Value[1]
	if wasEval {
		c0 = c0.CopyNew()
		c0.InverseNTT()
		c1 = c1.CopyNew()
		c1.InverseNTT()
	}

	c0p := c0.ApplyGalois(element)
	c1p := c1.ApplyGalois(element)

	d0, d1, err := ComputeKeySwitchingUpdate(ctx, level, c1p, ksk)
	if err != nil {
		return fmt.Errorf("bfv: apply_galois: %w", err)
	}

	c0p.AddAssign(d0)

	if wasEval {
		c0p.ForwardNTT()
		d1.ForwardNTT()
	}

	ct.Value[0] = c0p
	ct.Value[1] = d1
	ct.Seed = nil
	return nil
}
