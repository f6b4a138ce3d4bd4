package ring_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticefhe/bfvcore/ring"
)

// repeatingReader cycles a fixed byte sequence, giving the rejection-based
// samplers below a deterministic (if adversarial) randomness source.
type repeatingReader struct {
	data []byte
	pos int
}

func (r *repeatingReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.data[r.pos%len(r.data)]
		r.pos++
	}
	return len(p), nil
}

func TestTernarySamplerProducesOnlyTernaryValues(t *testing.T) {
	ctx := smallMultiModContext(t)
	src := &repeatingReader{data: []byte{0x1b, 0x72, 0xe4, 0x05, 0x9a, 0xc3}}

	p := ring.NewTernarySampler(ctx, src).ReadNew()
	q0 := ctx.Moduli()[0]
	for _, v := range p.Coeffs[0] {
		require.True(t, v == 0 || v == 1 || v == q0-1, "unexpected ternary encoding %d", v)
	}
}

func TestTernarySamplerRowsAgreeAcrossModuli(t *testing.T) {
	// Every RNS row must encode the same sign pattern: 0, 1, or qi-1.
	ctx := smallMultiModContext(t)
	src := &repeatingReader{data: []byte{0x4a, 0xcc, 0x17, 0x88, 0x33, 0x91, 0x0e}}

	p := ring.NewTernarySampler(ctx, src).ReadNew()
	n := ctx.N()
	for j := 0; j < n; j++ {
		v0 := p.Coeffs[0][j]
		var sign int
		switch v0 {
		case 0:
			sign = 0
		case 1:
			sign = 1
		default:
			sign = -1
		}
		for i, qi := range ctx.Moduli() {
			v := p.Coeffs[i][j]
			switch sign {
			case 0:
				require.Equal(t, uint64(0), v)
			case 1:
				require.Equal(t, uint64(1), v)
			case -1:
				require.Equal(t, qi-1, v)
			}
		}
	}
}

func TestUniformSamplerStaysInRange(t *testing.T) {
	ctx := smallMultiModContext(t)
	var entropy bytes.Buffer
	for i := 0; i < 1<<20; i++ {
		entropy.WriteByte(byte(i * 37))
	}
	src := bytes.NewReader(entropy.Bytes())

	p := ring.NewUniformSampler(ctx, src).ReadNew(ring.Coeff)
	for i, qi := range ctx.Moduli() {
		for _, v := range p.Coeffs[i] {
			require.Less(t, v, qi)
		}
	}
}

func TestCenteredBinomialSamplerBounded(t *testing.T) {
	ctx := smallMultiModContext(t)
	var entropy bytes.Buffer
	for i := 0; i < 1<<16; i++ {
		entropy.WriteByte(byte(i * 91))
	}
	src := bytes.NewReader(entropy.Bytes())

	sampler := ring.NewCenteredBinomialSampler(ctx, src, 3.2)
	p := sampler.ReadNew()
	require.Equal(t, ring.Coeff, p.Form)

	// Every coefficient must be a valid residue for its row's modulus.
	for i, qi := range ctx.Moduli() {
		for _, v := range p.Coeffs[i] {
			require.Less(t, v, qi)
		}
	}
}
