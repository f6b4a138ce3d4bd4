package bfv

import "github.com/latticefhe/bfvcore/ring"

// SecretKey is a ternary-distributed secret polynomial, stored in Eval form.
// Grounded on _teacherref/bfv/keys.go's SecretKey, generalized with an
// explicit zeroize-on-drop method since GC alone offers no deadline for it.
type SecretKey struct {
	Value *ring.Poly

	// Signs holds the raw ternary {-1,0,1} value sampled for each of the N
	// coefficients, independent of any particular PolyContext. Key
	// switching needs to re-embed the secret into an extended [Q,special]
	// context whose moduli differ from Value's own context, which cannot
	// be done by reducing Value's already-RNS-encoded rows (a row encodes
	// -1 as qi-1 for whichever modulus qi backs it); Signs lets
	// embedSecretKeyInContext rebuild the key fresh against any context.
	Signs []int8
}

// Zeroize overwrites the secret key's backing storage. Callers must invoke
// this explicitly once a key leaves scope; Go has no deterministic
// destructors, so there is no implicit call site.
func (sk *SecretKey) Zeroize() {
	if sk.Value != nil {
		sk.Value.Zeroize()
	}
	for i := range sk.Signs {
		sk.Signs[i] = 0
	}
}

// KeySwitchKey is a vector of Eval-form Ciphertexts, one per RNS
// decomposition level of the source key. Relinearization keys
// and Galois keys are both represented as a KeySwitchKey keyed differently
// by their owner.
type KeySwitchKey struct {
	Value []Ciphertext
}

// Zeroize clears every ciphertext backing this key.
func (ksk *KeySwitchKey) Zeroize() {
	for i := range ksk.Value {
		ksk.Value[i].Zeroize()
	}
}

// RelinearizationKey is the KeySwitchKey for the squared secret s^2 -> s.
type RelinearizationKey struct {
	Key *KeySwitchKey
}

// GaloisKey maps a Galois element to the KeySwitchKey that maps the
// permuted key back to the original one.
type GaloisKey struct {
	Keys map[uint64]*KeySwitchKey
}

// NewGaloisKey returns an empty GaloisKey ready to accept entries.
func NewGaloisKey() *GaloisKey {
	return &GaloisKey{Keys: make(map[uint64]*KeySwitchKey)}
}

// Set installs the key-switch key for the given Galois element.
func (gk *GaloisKey) Set(element uint64, ksk *KeySwitchKey) {
	gk.Keys[element] = ksk
}

// Get looks up the key-switch key for a Galois element.
func (gk *GaloisKey) Get(element uint64) (*KeySwitchKey, bool) {
	ksk, ok := gk.Keys[element]
	return ksk, ok
}

// EvaluationKey bundles the optional GaloisKey and RelinearizationKey a
// ciphertext consumer needs for rotation and multiplication.
type EvaluationKey struct {
	Relin *RelinearizationKey
	Galois *GaloisKey
}

// HasRelinearizationKey reports whether ek carries a relinearization key.
func (ek *EvaluationKey) HasRelinearizationKey() bool {
	return ek != nil && ek.Relin != nil
}

// HasGaloisElement reports whether ek's Galois key contains element.
func (ek *EvaluationKey) HasGaloisElement(element uint64) bool {
	if ek == nil || ek.Galois == nil {
		return false
	}
	_, ok := ek.Galois.Keys[element]
	return ok
}

// extractSigns reads back the ternary sign of every coefficient of a
// Coeff-form polynomial sampled by ring.TernarySampler, which encodes -1 as
// qi-1 in whatever modulus backs row 0.
func extractSigns(poly *ring.Poly) []int8 {
	q0 := poly.Context.Moduli()[0]
	row := poly.Coeffs[0]
	signs := make([]int8, len(row))
	for i, v := range row {
		switch v {
		case 0:
			signs[i] = 0
		case 1:
			signs[i] = 1
		case q0 - 1:
			signs[i] = -1
		default:
			panic("bfv: secret key coefficient is not ternary")
		}
	}
	return signs
}

// embedSecretKeyInContext rebuilds a Coeff-form secret-key polynomial over
// ctx from its raw ternary signs, encoding -1 as qi-1 per row the same way
// ring.TernarySampler does, then forward-NTTs it to match SecretKey.Value's
// Eval-form convention.
func embedSecretKeyInContext(signs []int8, ctx *ring.PolyContext) *ring.Poly {
	out := ring.NewPoly(ctx, ring.Coeff)
	for i, qi := range ctx.Moduli() {
		row := out.Coeffs[i]
		for j, s := range signs {
			switch s {
			case 0:
				row[j] = 0
			case 1:
				row[j] = 1
			case -1:
				row[j] = qi - 1
			}
		}
	}
	out.ForwardNTT()
	return out
}
