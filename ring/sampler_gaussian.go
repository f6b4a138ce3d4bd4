package ring

import "io"

// CenteredBinomialSampler draws ring coefficients from a centered binomial
// distribution (CBD) of parameter k (variance k/2): each coefficient is the
// difference of two independent Hamming weights of k uniform bits, with k
// chosen as round(2*sigma^2).
// Grounded on ternary/error sampler shape
// (ring/ring_sampler_ternary.go), generalized to the CBD error law.
type CenteredBinomialSampler struct {
	ctx *PolyContext
	prng io.Reader
	k int
}

// NewCenteredBinomialSampler builds an error sampler over ctx targeting
// standard deviation sigma.
func NewCenteredBinomialSampler(ctx *PolyContext, prng io.Reader, sigma float64) *CenteredBinomialSampler {
	k := int(2*sigma*sigma + 0.5)
	if k < 1 {
		k = 1
	}
	return &CenteredBinomialSampler{ctx: ctx, prng: prng, k: k}
}

// ReadNew samples a fresh error polynomial in Coeff form.
func (s *CenteredBinomialSampler) ReadNew() *Poly {
	n := s.ctx.N()
	vals := make([]int64, n)

	bytesNeeded := (2*s.k + 7) / 8
	buf := make([]byte, bytesNeeded)
	for j := 0; j < n; j++ {
		if _, err := io.ReadFull(s.prng, buf); err != nil {
			panic(err)
		}
		var a, b int
		for bit := 0; bit < s.k; bit++ {
			if getBit(buf, bit) {
				a++
			}
			if getBit(buf, s.k+bit) {
				b++
			}
		}
		vals[j] = int64(a - b)
	}

	p := NewPoly(s.ctx, Coeff)
	for i, m := range s.ctx.reducer {
		q := m.Q()
		row := p.Coeffs[i]
		for j, v := range vals {
			if v >= 0 {
				row[j] = uint64(v) % q
			} else {
				row[j] = NegMod(uint64(-v)%q, q)
			}
		}
	}
	return p
}

func getBit(buf []byte, i int) bool {
	return (buf[i/8]>>uint(i%8))&1 == 1
}
