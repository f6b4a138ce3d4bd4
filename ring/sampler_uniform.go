package ring

import (
	"encoding/binary"
	"io"
)

// UniformSampler draws coefficients uniformly from [0, qi) for every RNS row
// of a PolyContext, by rejection sampling each coefficient against the
// smallest bitmask covering qi. Grounded on
// ring_sampler_uniform.go's RandUniform helper, generalized across an
// entire RNS row instead of a single modulus.
//
// UniformSampler consumes randomness through a plain io.Reader rather than
// calling crypto/rand directly, so callers can plug in either the
// deterministic utils/sampling.KeyedPRNG (public randomness) or an
// OS-backed generator.
type UniformSampler struct {
	ctx *PolyContext
	prng io.Reader
}

// NewUniformSampler builds a sampler over ctx, drawing randomness from prng.
func NewUniformSampler(ctx *PolyContext, prng io.Reader) *UniformSampler {
	return &UniformSampler{ctx: ctx, prng: prng}
}

// Read samples a fresh uniform polynomial directly into dst, whose Form is
// preserved as-is: a uniform distribution is the same whether the caller
// intends to treat the result as Coeff or Eval.
func (s *UniformSampler) Read(dst *Poly) {
	if !dst.Context.Equal(s.ctx) {
		panic("ring: UniformSampler target does not match its PolyContext")
	}
	n := s.ctx.N()
	var buf [8]byte
	for i, m := range s.ctx.reducer {
		q := m.Q()
		mask := uint64(1)<<uint(bits64Len(q)) - 1
		row := dst.Coeffs[i]
		for j := 0; j < n; j++ {
			for {
				if _, err := io.ReadFull(s.prng, buf[:]); err != nil {
					panic(err)
				}
				v := binary.BigEndian.Uint64(buf[:]) & mask
				if v < q {
					row[j] = v
					break
				}
			}
		}
	}
}

// ReadNew samples a fresh uniform polynomial in the given Form.
func (s *UniformSampler) ReadNew(form Form) *Poly {
	p := NewPoly(s.ctx, form)
	s.Read(p)
	return p
}
