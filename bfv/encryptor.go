package bfv

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"math/bits"

	"github.com/latticefhe/bfvcore/ring"
	"github.com/latticefhe/bfvcore/utils/sampling"
)

const seedLen = 16

// Encryptor encrypts plaintexts under a fixed Context and SecretKey.
// Grounded on bfv/encryptor.go's Encrypt/EncryptZero pair but reworked
// around this module's seeded-PRNG ciphertext layout.
type Encryptor struct {
	ctx *Context
	sk *SecretKey
}

// NewEncryptor builds an Encryptor bound to ctx and sk.
func NewEncryptor(ctx *Context, sk *SecretKey) *Encryptor {
	return &Encryptor{ctx: ctx, sk: sk}
}

// EncryptZero produces a fresh encryption of zero, at the context's top level.
func (e *Encryptor) EncryptZero() (*Ciphertext, error) {
	ringQ := e.ctx.Params.RingQ()
	c0, c1, seed, err := encryptZeroOverContext(ringQ, e.sk.Value, e.ctx.Params.ErrorStdDev())
	if err != nil {
		return nil, err
	}
	return &Ciphertext{
		Context: ringQ,
		Form: ring.Coeff,
		Value: []*ring.Poly{c0, c1},
		CorrectionFactor: 1,
		Seed: seed,
	}, nil
}

// encryptZeroOverContext implements the shared core of an encryption of
// zero: sample a uniform `a` in Eval form under a fresh seed, sample
// centered-binomial error `e`, and return (c0, c1) = (-(a*sk) + e, a), both
// in Coeff form, plus the seed `a` was drawn from. Shared by
// Encryptor.EncryptZero and GenerateKeySwitchKey, both of which need an
// encryption of zero under some secret key over some PolyContext.
func encryptZeroOverContext(ctx *ring.PolyContext, skEval *ring.Poly, errStdDev float64) (c0, c1 *ring.Poly, seed []byte, err error) {
	seed = make([]byte, seedLen)
	if _, err = rand.Read(seed); err != nil {
		return nil, nil, nil, fmt.Errorf("bfv: sampling encryption seed: %w", err)
	}

	publicPRNG, err := sampling.NewKeyedPRNG(seed)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("bfv: building seeded PRNG: %w", err)
	}
	a := ring.NewUniformSampler(ctx, publicPRNG).ReadNew(ring.Eval)

	secretOS, err := sampling.NewPRNG()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("bfv: building OS PRNG: %w", err)
	}
	secretRNG := sampling.NewBufferedRNG(secretOS, 256)
	errPoly := ring.NewCenteredBinomialSampler(ctx, secretRNG, errStdDev).ReadNew()

	c0 = a.CopyNew()
	c0.MulAssign(skEval)
	c0.Neg()
	c0.InverseNTT()
	c0.AddAssign(errPoly)
	errPoly.Zeroize()

	c1 = a.CopyNew()
	c1.InverseNTT()

	return c0, c1, seed, nil
}

// Encrypt produces a fresh encryption of pt.
func (e *Encryptor) Encrypt(pt *Plaintext) (*Ciphertext, error) {
	ct, err := e.EncryptZero()
	if err != nil {
		return nil, err
	}
	rt, err := e.ctx.RnsToolAtLevel(0)
	if err != nil {
		return nil, err
	}
	if err := PlaintextTranslate(ct, pt, rt, opAdd); err != nil {
		return nil, err
	}
	return ct, nil
}

type translateOp int

const (
	opAdd translateOp = iota
	opSub
)

// PlaintextTranslate encodes pt into ct's first polynomial: for each
// plaintext coefficient m, computes adjust = floor((q_mod_t*m + ceil(t/2))/t)
// and accumulates sign*(Δ_i*m + adjust) mod qi into ct's first polynomial,
// where Δ_i = floor(Q/t) mod qi. ct must be in Coeff form with correction
// factor 1.
//
// q_mod_t*m and Δ_i*m do not fit a native uint64 multiply for the module's
// wider named parameter sets (e.g. N8192LogQ3x55LogT42, where t is ~42
// bits and Δ_i is close to a ~55-bit qi): Δ_i*m is reduced through
// Modulus.MulModBarrett, which carries the product in the full 128-bit
// bits.Mul64 result before reducing, and adjust is computed via
// bits.Mul64/bits.Div64 directly rather than native `*`/`/`.
func PlaintextTranslate(ct *Ciphertext, pt *Plaintext, rt *RnsTool, op translateOp) error {
	if ct.Form != ring.Coeff {
		return fmt.Errorf("%w: plaintext_translate requires Coeff form", ErrUnsupportedOperation)
	}
	if ct.CorrectionFactor != 1 {
		return fmt.Errorf("%w: plaintext_translate requires correction_factor == 1", ErrInvalidCorrectionFactor)
	}
	if pt.T != rt.t {
		return fmt.Errorf("%w: plaintext modulus %d != ciphertext modulus %d", ErrIncompatiblePlaintext, pt.T, rt.t)
	}

	n := len(pt.Values)
	t := rt.t
	qModT := new(big.Int).Mod(rt.qBig, rt.tBig).Uint64()
	qDivT := new(big.Int).Div(rt.qBig, rt.tBig)
	half := (t + 1) / 2

	moduli := rt.qCtx.Moduli()
	deltas := make([]uint64, len(moduli))
	for i, qi := range moduli {
		deltas[i] = new(big.Int).Mod(qDivT, new(big.Int).SetUint64(qi)).Uint64()
	}

	for i, qi := range moduli {
		row := ct.Value[0].Coeffs[i]
		deltaI := deltas[i]
		mod := rt.qCtx.Modulus(i)
		for j := 0; j < n; j++ {
			m := pt.Values[j]

			hi, lo := bits.Mul64(qModT, m)
			lo, carry := bits.Add64(lo, half, 0)
			hi += carry
			adjust, _ := bits.Div64(hi, lo, t)

			v := ring.AddMod(mod.MulModBarrett(deltaI, m), adjust, qi)
			if op == opSub {
				v = ring.NegMod(v, qi)
			}
			row[j] = ring.AddMod(row[j], v, qi)
		}
	}
	return nil
}
