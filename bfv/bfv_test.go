package bfv

import (
	"math/bits"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticefhe/bfvcore/ring"
	"github.com/latticefhe/bfvcore/utils/sampling"
)

// newTestContext builds a Context over a small, fast parameter set with no
// special modulus: enough for encrypt/decrypt, homomorphic add/sub, and
// mod-switch-down testing. Grounded on TESTN14QP418-style
// throwaway test parameters (_examples/tuneinsight-lattigo/bfv/test_parameters.go)
// but kept deliberately small since nothing here needs key switching.
func newTestContext(t *testing.T) (*Context, Parameters) {
	t.Helper()
	n := 1024
	q, err := ring.NTTFriendlyPrimes(2, 30, n, true)
	require.NoError(t, err)
	tMod, err := ring.NTTFriendlyPrime(8, n)
	require.NoError(t, err)
	params, err := NewParametersFromLiteral(ParametersLiteral{LogN: 10, Q: q, T: tMod})
	require.NoError(t, err)
	return NewContext(params), params
}

// newKeySwitchTestContext is newTestContext plus a special modulus, for
// relinearization and Galois rotation tests.
func newKeySwitchTestContext(t *testing.T) (*Context, Parameters) {
	t.Helper()
	n := 1024
	q, err := ring.NTTFriendlyPrimes(2, 30, n, true)
	require.NoError(t, err)
	p, err := ring.NTTFriendlyPrime(31, n)
	require.NoError(t, err)
	tMod, err := ring.NTTFriendlyPrime(8, n)
	require.NoError(t, err)
	params, err := NewParametersFromLiteral(ParametersLiteral{LogN: 10, Q: q, P: p, T: tMod})
	require.NoError(t, err)
	return NewContext(params), params
}

// newMultiplyTestContext builds a parameter set with a generous noise budget
// relative to its plaintext modulus, wide enough to carry one ciphertext
// multiplication through relinearization without the noise budget collapsing,
// scaled down to N=8192 rather than production degree to keep the RNS chain
// short.
func newMultiplyTestContext(t *testing.T) (*Context, Parameters) {
	t.Helper()
	n := 8192
	q, err := ring.NTTFriendlyPrimes(4, 54, n, true)
	require.NoError(t, err)
	p, err := ring.NTTFriendlyPrime(55, n)
	require.NoError(t, err)
	tMod, err := ring.NTTFriendlyPrime(6, n)
	require.NoError(t, err)
	params, err := NewParametersFromLiteral(ParametersLiteral{LogN: 13, Q: q, P: p, T: tMod})
	require.NoError(t, err)
	return NewContext(params), params
}

func newSecretKey(t *testing.T, ctx *Context) *SecretKey {
	t.Helper()
	prng, err := sampling.NewPRNG()
	require.NoError(t, err)
	sk, err := GenerateSecretKey(ctx, prng)
	require.NoError(t, err)
	return sk
}

func randomPlaintext(t *testing.T, rnd *rand.Rand, n int, tMod uint64) *Plaintext {
	t.Helper()
	values := make([]uint64, n)
	for i := range values {
		values[i] = rnd.Uint64() % tMod
	}
	pt, err := NewPlaintextFromUint64(n, tMod, values)
	require.NoError(t, err)
	return pt
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	ctx, params := newTestContext(t)
	sk := newSecretKey(t, ctx)
	defer sk.Zeroize()

	enc := NewEncryptor(ctx, sk)
	dec := NewDecryptor(ctx, sk)

	rnd := rand.New(rand.NewSource(1))
	pt := randomPlaintext(t, rnd, params.N(), params.T())

	ct, err := enc.Encrypt(pt)
	require.NoError(t, err)
	require.False(t, ct.IsTransparent())

	got, err := dec.DecryptEval(ct)
	require.NoError(t, err)
	require.Equal(t, pt.Values, got.Values)
}

// newWidePlaintextModulusContext builds a parameter set with a ~42-bit
// plaintext modulus against ~55-bit ciphertext moduli, the shape of the
// package's N8192LogQ3x55LogT42 named set: deltaI*m and qModT*m both
// overflow a native uint64 multiply here, which PlaintextTranslate must
// carry through Modulus.MulModBarrett/bits.Mul64 rather than wrapping.
func newWidePlaintextModulusContext(t *testing.T) (*Context, Parameters) {
	t.Helper()
	n := 8192
	q, err := ring.NTTFriendlyPrimes(3, 55, n, true)
	require.NoError(t, err)
	tMod, err := ring.NTTFriendlyPrime(42, n)
	require.NoError(t, err)
	params, err := NewParametersFromLiteral(ParametersLiteral{LogN: 13, Q: q, T: tMod})
	require.NoError(t, err)
	return NewContext(params), params
}

func TestEncryptDecryptRoundTripWidePlaintextModulus(t *testing.T) {
	ctx, params := newWidePlaintextModulusContext(t)
	sk := newSecretKey(t, ctx)
	defer sk.Zeroize()

	enc := NewEncryptor(ctx, sk)
	dec := NewDecryptor(ctx, sk)

	rnd := rand.New(rand.NewSource(44))
	pt := randomPlaintext(t, rnd, params.N(), params.T())

	ct, err := enc.Encrypt(pt)
	require.NoError(t, err)

	got, err := dec.DecryptEval(ct)
	require.NoError(t, err)
	require.Equal(t, pt.Values, got.Values)
}

func TestZeroCiphertextIsTransparent(t *testing.T) {
	ctx, _ := newTestContext(t)
	ev := NewEvaluator(ctx)

	ct := ev.ZeroCiphertext(0, 2)
	require.True(t, ct.IsTransparent())

	ct2 := ct.CopyNew()
	require.NoError(t, ev.SubAssign(ct, ct2))
	require.True(t, ct.IsTransparent())
}

func TestHomomorphicAddMatchesPlaintextSum(t *testing.T) {
	ctx, params := newTestContext(t)
	sk := newSecretKey(t, ctx)
	defer sk.Zeroize()

	enc := NewEncryptor(ctx, sk)
	dec := NewDecryptor(ctx, sk)
	ev := NewEvaluator(ctx)

	rnd := rand.New(rand.NewSource(2))
	a := randomPlaintext(t, rnd, params.N(), params.T())
	b := randomPlaintext(t, rnd, params.N(), params.T())

	ctA, err := enc.Encrypt(a)
	require.NoError(t, err)
	ctB, err := enc.Encrypt(b)
	require.NoError(t, err)

	require.NoError(t, ev.AddAssign(ctA, ctB))

	got, err := dec.DecryptEval(ctA)
	require.NoError(t, err)

	want := make([]uint64, params.N())
	for i := range want {
		want[i] = (a.Values[i] + b.Values[i]) % params.T()
	}
	require.Equal(t, want, got.Values)
}

func TestHomomorphicSubMatchesPlaintextDifference(t *testing.T) {
	ctx, params := newTestContext(t)
	sk := newSecretKey(t, ctx)
	defer sk.Zeroize()

	enc := NewEncryptor(ctx, sk)
	dec := NewDecryptor(ctx, sk)
	ev := NewEvaluator(ctx)

	rnd := rand.New(rand.NewSource(3))
	a := randomPlaintext(t, rnd, params.N(), params.T())
	b := randomPlaintext(t, rnd, params.N(), params.T())

	ctA, err := enc.Encrypt(a)
	require.NoError(t, err)
	ctB, err := enc.Encrypt(b)
	require.NoError(t, err)

	require.NoError(t, ev.SubAssign(ctA, ctB))

	got, err := dec.DecryptEval(ctA)
	require.NoError(t, err)

	want := make([]uint64, params.N())
	tMod := params.T()
	for i := range want {
		want[i] = (a.Values[i] + tMod - b.Values[i]) % tMod
	}
	require.Equal(t, want, got.Values)
}

func TestAddPlaintextAssignMatchesSum(t *testing.T) {
	ctx, params := newTestContext(t)
	sk := newSecretKey(t, ctx)
	defer sk.Zeroize()

	enc := NewEncryptor(ctx, sk)
	dec := NewDecryptor(ctx, sk)
	ev := NewEvaluator(ctx)

	rnd := rand.New(rand.NewSource(4))
	a := randomPlaintext(t, rnd, params.N(), params.T())
	b := randomPlaintext(t, rnd, params.N(), params.T())

	ct, err := enc.Encrypt(a)
	require.NoError(t, err)
	require.NoError(t, ev.AddPlaintextAssign(ct, b))

	got, err := dec.DecryptEval(ct)
	require.NoError(t, err)

	want := make([]uint64, params.N())
	for i := range want {
		want[i] = (a.Values[i] + b.Values[i]) % params.T()
	}
	require.Equal(t, want, got.Values)
}

func TestModSwitchDownPreservesDecryption(t *testing.T) {
	ctx, params := newTestContext(t)
	require.Equal(t, 2, params.QCount())
	sk := newSecretKey(t, ctx)
	defer sk.Zeroize()

	enc := NewEncryptor(ctx, sk)
	dec := NewDecryptor(ctx, sk)
	ev := NewEvaluator(ctx)

	rnd := rand.New(rand.NewSource(5))
	pt := randomPlaintext(t, rnd, params.N(), params.T())

	ct, err := enc.Encrypt(pt)
	require.NoError(t, err)

	require.NoError(t, ev.ModSwitchDown(ct))
	require.Equal(t, 1, ct.Context.ModuliCount())

	got, err := dec.DecryptEval(ct)
	require.NoError(t, err)
	require.Equal(t, pt.Values, got.Values)
}

func TestMultiplyRelinearizeRecoversScalarProduct(t *testing.T) {
	ctx, params := newMultiplyTestContext(t)
	sk := newSecretKey(t, ctx)
	defer sk.Zeroize()

	relin, err := GenerateRelinearizationKey(ctx, sk)
	require.NoError(t, err)
	ek := &EvaluationKey{Relin: relin}

	enc := NewEncryptor(ctx, sk)
	dec := NewDecryptor(ctx, sk)
	ev := NewEvaluator(ctx)

	// Use single-coefficient (constant) plaintexts: the product of two
	// degree-0 ring elements has no cross terms to reduce mod X^N+1, so the
	// expected result is the plain scalar product mod t, independent of any
	// negacyclic-convolution bookkeeping.
	a, err := NewPlaintextFromUint64(params.N(), params.T(), []uint64{11})
	require.NoError(t, err)
	b, err := NewPlaintextFromUint64(params.N(), params.T(), []uint64{13})
	require.NoError(t, err)

	ctA, err := enc.Encrypt(a)
	require.NoError(t, err)
	ctB, err := enc.Encrypt(b)
	require.NoError(t, err)

	product, err := ev.MulAssign(ctA, ctB)
	require.NoError(t, err)
	require.Len(t, product.Value, 3)

	require.NoError(t, Relinearize(ctx, product, ek))
	require.Len(t, product.Value, 2)

	got, err := dec.DecryptEval(product)
	require.NoError(t, err)

	want := (uint64(11) * uint64(13)) % params.T()
	require.Equal(t, want, got.Values[0])
	for i := 1; i < params.N(); i++ {
		require.Equal(t, uint64(0), got.Values[i], "coefficient %d", i)
	}
}

func TestNoiseBudgetDecreasesAfterMultiply(t *testing.T) {
	ctx, params := newMultiplyTestContext(t)
	sk := newSecretKey(t, ctx)
	defer sk.Zeroize()

	relin, err := GenerateRelinearizationKey(ctx, sk)
	require.NoError(t, err)
	ek := &EvaluationKey{Relin: relin}

	enc := NewEncryptor(ctx, sk)
	dec := NewDecryptor(ctx, sk)
	ev := NewEvaluator(ctx)

	a, err := NewPlaintextFromUint64(params.N(), params.T(), []uint64{3})
	require.NoError(t, err)
	b, err := NewPlaintextFromUint64(params.N(), params.T(), []uint64{5})
	require.NoError(t, err)

	ctA, err := enc.Encrypt(a)
	require.NoError(t, err)
	ctB, err := enc.Encrypt(b)
	require.NoError(t, err)

	before, err := dec.NoiseBudgetEval(ctA)
	require.NoError(t, err)
	require.Greater(t, before, 0.0)

	product, err := ev.MulAssign(ctA, ctB)
	require.NoError(t, err)
	require.NoError(t, Relinearize(ctx, product, ek))

	after, err := dec.NoiseBudgetEval(product)
	require.NoError(t, err)

	require.Less(t, after, before)
	require.Greater(t, after, 0.0, "noise budget collapsed to zero after a single multiplication")

	got, err := dec.DecryptEval(product)
	require.NoError(t, err)
	require.Equal(t, uint64(15)%params.T(), got.Values[0])
}

// applyGaloisCoeffRef replicates ring.automorphismIndexCoeff's permutation
// and sign pattern directly over centered plaintext coefficients mod t,
// serving as an independent oracle for ApplyGalois's effect on the
// plaintext a ciphertext decrypts to (the same automorphism acts on the
// scaled plaintext polynomial as on the ciphertext that carries it).
func applyGaloisCoeffRef(values []uint64, tMod uint64, gen uint64) []uint64 {
	n := len(values)
	mask := uint64(n - 1)
	shift := uint(bits.Len64(mask))
	out := make([]uint64, n)
	for i := 0; i < n; i++ {
		raw := uint64(i) * gen
		dst := raw & mask
		wrapped := (raw >> shift) & 1
		v := values[i]
		if wrapped == 1 {
			v = ring.NegMod(v, tMod)
		}
		out[dst] = v
	}
	return out
}

func TestApplyGaloisMatchesCoefficientAutomorphism(t *testing.T) {
	ctx, params := newKeySwitchTestContext(t)
	sk := newSecretKey(t, ctx)
	defer sk.Zeroize()

	element := GaloisElementForColumnRotation(params.N(), 1)
	ksk, err := GenerateGaloisKeyForElement(ctx, sk, element)
	require.NoError(t, err)
	gk := NewGaloisKey()
	gk.Set(element, ksk)
	ek := &EvaluationKey{Galois: gk}

	enc := NewEncryptor(ctx, sk)
	dec := NewDecryptor(ctx, sk)

	rnd := rand.New(rand.NewSource(6))
	pt := randomPlaintext(t, rnd, params.N(), params.T())

	ct, err := enc.Encrypt(pt)
	require.NoError(t, err)

	require.NoError(t, ApplyGalois(ctx, ct, element, ek))

	got, err := dec.DecryptEval(ct)
	require.NoError(t, err)

	want := applyGaloisCoeffRef(pt.Values, params.T(), element)
	require.Equal(t, want, got.Values)
}

func TestRotateColumnsWrapper(t *testing.T) {
	ctx, params := newKeySwitchTestContext(t)
	sk := newSecretKey(t, ctx)
	defer sk.Zeroize()

	step := 2
	element := GaloisElementForColumnRotation(params.N(), step)
	ksk, err := GenerateGaloisKeyForElement(ctx, sk, element)
	require.NoError(t, err)
	gk := NewGaloisKey()
	gk.Set(element, ksk)
	ek := &EvaluationKey{Galois: gk}

	enc := NewEncryptor(ctx, sk)
	dec := NewDecryptor(ctx, sk)

	rnd := rand.New(rand.NewSource(7))
	pt := randomPlaintext(t, rnd, params.N(), params.T())

	ct, err := enc.Encrypt(pt)
	require.NoError(t, err)

	require.NoError(t, RotateColumns(ctx, ct, step, ek))

	got, err := dec.DecryptEval(ct)
	require.NoError(t, err)

	want := applyGaloisCoeffRef(pt.Values, params.T(), element)
	require.Equal(t, want, got.Values)
}

func TestRotateColumnsMissingKeyFails(t *testing.T) {
	ctx, _ := newKeySwitchTestContext(t)
	sk := newSecretKey(t, ctx)
	defer sk.Zeroize()

	enc := NewEncryptor(ctx, sk)
	pt := NewPlaintext(ctx.Params.N(), ctx.Params.T())
	ct, err := enc.Encrypt(pt)
	require.NoError(t, err)

	ek := &EvaluationKey{Galois: NewGaloisKey()}
	err = RotateColumns(ctx, ct, 1, ek)
	require.ErrorIs(t, err, ErrMissingGaloisKey)
}

func TestInnerProductMatchesAccumulatedMultiply(t *testing.T) {
	ctx, params := newMultiplyTestContext(t)
	sk := newSecretKey(t, ctx)
	defer sk.Zeroize()

	relin, err := GenerateRelinearizationKey(ctx, sk)
	require.NoError(t, err)
	ek := &EvaluationKey{Relin: relin}

	enc := NewEncryptor(ctx, sk)
	dec := NewDecryptor(ctx, sk)
	ev := NewEvaluator(ctx)

	lhsValues := []uint64{2, 3}
	rhsValues := []uint64{5, 7}
	lhsCts := make([]*Ciphertext, len(lhsValues))
	rhsCts := make([]*Ciphertext, len(rhsValues))
	for i := range lhsValues {
		pt, err := NewPlaintextFromUint64(params.N(), params.T(), []uint64{lhsValues[i]})
		require.NoError(t, err)
		lhsCts[i], err = enc.Encrypt(pt)
		require.NoError(t, err)

		pt2, err := NewPlaintextFromUint64(params.N(), params.T(), []uint64{rhsValues[i]})
		require.NoError(t, err)
		rhsCts[i], err = enc.Encrypt(pt2)
		require.NoError(t, err)
	}

	sum, err := ev.InnerProduct(lhsCts, rhsCts)
	require.NoError(t, err)
	require.NoError(t, Relinearize(ctx, sum, ek))

	got, err := dec.DecryptEval(sum)
	require.NoError(t, err)

	want := uint64(0)
	for i := range lhsValues {
		want = (want + lhsValues[i]*rhsValues[i]) % params.T()
	}
	require.Equal(t, want, got.Values[0])
}

func TestInnerProductPlaintextMatchesAccumulatedSum(t *testing.T) {
	ctx, params := newTestContext(t)
	sk := newSecretKey(t, ctx)
	defer sk.Zeroize()

	enc := NewEncryptor(ctx, sk)
	dec := NewDecryptor(ctx, sk)
	ev := NewEvaluator(ctx)

	rnd := rand.New(rand.NewSource(9))
	a := randomPlaintext(t, rnd, params.N(), params.T())
	b := randomPlaintext(t, rnd, params.N(), params.T())

	ctA, err := enc.Encrypt(a)
	require.NoError(t, err)
	ctB, err := enc.Encrypt(b)
	require.NoError(t, err)
	require.NoError(t, ev.ForwardNTT(ctA))
	require.NoError(t, ev.ForwardNTT(ctB))

	weightA, err := NewPlaintextFromUint64(params.N(), params.T(), []uint64{1})
	require.NoError(t, err)
	weightB, err := NewPlaintextFromUint64(params.N(), params.T(), []uint64{1})
	require.NoError(t, err)

	sum, err := ev.InnerProductPlaintext([]*Ciphertext{ctA, ctB}, []*Plaintext{weightA, weightB})
	require.NoError(t, err)
	require.NoError(t, ev.InverseNTT(sum))

	got, err := dec.DecryptEval(sum)
	require.NoError(t, err)

	want := make([]uint64, params.N())
	for i := range want {
		want[i] = (a.Values[i] + b.Values[i]) % params.T()
	}
	require.Equal(t, want, got.Values)
}

func TestNewPlaintextFromInt64RejectsOutOfRange(t *testing.T) {
	_, err := NewPlaintextFromInt64(8, 17, []int64{100})
	require.ErrorIs(t, err, ErrEncodingOutOfBounds)
}

func TestNewPlaintextFromInt64RoundTrip(t *testing.T) {
	tMod := uint64(17)
	values := []int64{-8, -1, 0, 1, 8}
	pt, err := NewPlaintextFromInt64(8, tMod, values)
	require.NoError(t, err)
	require.Equal(t, values, pt.Int64()[:len(values)])
}

func TestParametersEqual(t *testing.T) {
	_, params := newTestContext(t)
	n := 1024
	q, err := ring.NTTFriendlyPrimes(2, 30, n, true)
	require.NoError(t, err)
	other, err := NewParametersFromLiteral(ParametersLiteral{LogN: 10, Q: q, T: params.T() + 2})
	require.NoError(t, err)

	require.True(t, params.Equal(params))
	require.False(t, params.Equal(other)) // differs only by plaintext modulus
}
