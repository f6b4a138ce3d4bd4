package bfv

import (
	"fmt"
	"math"
	"math/big"

	"github.com/latticefhe/bfvcore/ring"
)

// Decryptor decrypts ciphertexts under a fixed Context and SecretKey.
// Grounded on bfv/decryptor.go's Decrypt method.
type Decryptor struct {
	ctx *Context
	sk *SecretKey
}

// NewDecryptor builds a Decryptor bound to ctx and sk.
func NewDecryptor(ctx *Context, sk *SecretKey) *Decryptor {
	return &Decryptor{ctx: ctx, sk: sk}
}

// dotProductWithSecretKey computes c0 + c1*sk in Eval form, returning the
// result in Coeff form. ct must carry exactly 2 polynomials: this module's
// SecretKey does not carry sk^2, so a 3-poly ciphertext has to be
// relinearized before it can be decrypted. For a mod-switched ciphertext
// the key is restricted to the ciphertext's remaining moduli.
func (d *Decryptor) dotProductWithSecretKey(ct *Ciphertext) (*ring.Poly, error) {
	if len(ct.Value) != 2 {
		return nil, fmt.Errorf("%w: decryption requires a 2-polynomial ciphertext, got %d", ErrInvalidCiphertext, len(ct.Value))
	}

	c0 := ct.Value[0].CopyNew()
	c1 := ct.Value[1].CopyNew()
	if ct.Form == ring.Coeff {
		c0.ForwardNTT()
		c1.ForwardNTT()
	}

	skValue := d.sk.Value
	if !skValue.Context.Equal(c1.Context) {
		skValue = skValue.DropContext(c1.Context)
	}
	c1.MulAssign(skValue)
	c0.AddAssign(c1)
	c0.InverseNTT()
	return c0, nil
}

// DecryptEval dot-products ct with the secret key, NTT^-1 into Coeff, then
// scales and rounds by the inverse correction factor.
func (d *Decryptor) DecryptEval(ct *Ciphertext) (*Plaintext, error) {
	v, err := d.dotProductWithSecretKey(ct)
	if err != nil {
		return nil, err
	}

	level, err := d.ctx.Level(ct)
	if err != nil {
		return nil, err
	}
	rt, err := d.ctx.RnsToolAtLevel(level)
	if err != nil {
		return nil, err
	}

	t := d.ctx.Params.T()
	cfInv, err := ring.InverseMod(ct.CorrectionFactor%t, t)
	if err != nil {
		return nil, fmt.Errorf("%w: correction factor %d not invertible mod t", ErrInvalidCorrectionFactor, ct.CorrectionFactor)
	}

	values := rt.ScaleAndRound(v, cfInv)
	return &Plaintext{T: t, Values: values}, nil
}

// DecryptCoeff forward-NTTs a Coeff-form ciphertext, then decrypts in Eval
// form.
func (d *Decryptor) DecryptCoeff(ct *Ciphertext) (*Plaintext, error) {
	if ct.Form == ring.Coeff {
		tmp := ct.CopyNew()
		tmp.ForwardNTT()
		return d.DecryptEval(tmp)
	}
	return d.DecryptEval(ct)
}

// NoiseBudgetEval computes v = (sum c_i*sk^i)*t in Coeff, CRT-composes it
// via the RnsTool, centers each coefficient around zero, and returns
// log2(Q / (2*||v*t||_inf)).
func (d *Decryptor) NoiseBudgetEval(ct *Ciphertext) (float64, error) {
	v, err := d.dotProductWithSecretKey(ct)
	if err != nil {
		return 0, err
	}

	level, err := d.ctx.Level(ct)
	if err != nil {
		return 0, err
	}
	ringQ := d.ctx.RingQAtLevel(level)

	v.MulScalarAssign(repeat(d.ctx.Params.T(), ringQ.ModuliCount()))

	xs := ring.CRTComposeCtx(ringQ, v)
	modulus := ringQ.ModulusBigInt()
	half := new(big.Int).Rsh(modulus, 1)

	maxAbs := new(big.Int)
	for _, x := range xs {
		centered := new(big.Int).Set(x)
		if centered.Cmp(half) > 0 {
			centered.Sub(centered, modulus)
		}
		centered.Abs(centered)
		if centered.Cmp(maxAbs) > 0 {
			maxAbs = centered
		}
	}

	if maxAbs.Sign() == 0 {
		return float64(modulus.BitLen()), nil
	}

	twiceNorm := new(big.Int).Lsh(maxAbs, 1)
	logQ := new(big.Float).SetInt(modulus)
	logDenom := new(big.Float).SetInt(twiceNorm)
	ratio := new(big.Float).Quo(logQ, logDenom)
	f, _ := ratio.Float64()
	return math.Log2(f), nil
}

func repeat(v uint64, n int) []uint64 {
	out := make([]uint64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
