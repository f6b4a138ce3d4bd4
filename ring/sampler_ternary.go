package ring

import "io"

// TernarySampler draws secret polynomials from the ternary distribution
// {-1, 0, 1} with uniform probability on each value, by taking uniform
// two-bit values and mapping {00->0, 01->1, 10->-1, 11->rejection}.
// Grounded on ring_sampler_ternary.go, simplified to the uniform
// (Hamming-weight-free) variant.
type TernarySampler struct {
	ctx *PolyContext
	prng io.Reader
}

// NewTernarySampler builds a ternary sampler over ctx.
func NewTernarySampler(ctx *PolyContext, prng io.Reader) *TernarySampler {
	return &TernarySampler{ctx: ctx, prng: prng}
}

// ReadNew samples a fresh ternary polynomial in Coeff form.
func (s *TernarySampler) ReadNew() *Poly {
	n := s.ctx.N()
	signs := make([]int8, n)

	var buf [1]byte
	for j := 0; j < n; {
		if _, err := io.ReadFull(s.prng, buf[:]); err != nil {
			panic(err)
		}
		b := buf[0]
		for k := 0; k < 4 && j < n; k++ {
			switch (b >> uint(2*k)) & 0x3 {
			case 0b00:
				signs[j] = 0
				j++
			case 0b01:
				signs[j] = 1
				j++
			case 0b10:
				signs[j] = -1
				j++
			default:
				// 0b11: rejected, draw another two-bit value instead.
			}
		}
	}

	p := NewPoly(s.ctx, Coeff)
	for i, m := range s.ctx.reducer {
		q := m.Q()
		row := p.Coeffs[i]
		for j, sgn := range signs {
			switch sgn {
			case 0:
				row[j] = 0
			case 1:
				row[j] = 1
			default:
				row[j] = q - 1
			}
		}
	}
	return p
}
