// Package sampling provides the two randomness roles a lattice-based scheme
// needs: a deterministic, seeded generator for public polynomial sampling
// (KeyedPRNG), and an OS-backed generator for secrets (errors, ternary
// keys), buffered to amortize syscall overhead.
//
// Grounded on the utils/sampling package (only a test file was
// retrieved from the corpus, utils/sampling/prng_test.go; this file supplies
// the implementation the test exercises) and on the PRNG-consuming samplers
// of ring/ring_sampler*.go, which take a PRNG by interface rather than
// calling crypto/rand directly.
package sampling

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

// PRNG is the randomness source every sampler in this module consumes. It is
// a plain io.Reader plus Reset, so deterministic (KeyedPRNG) and
// non-deterministic (the OS generator) sources are interchangeable at the
// call sites that don't care which they got.
type PRNG interface {
	io.Reader
	// Reset rewinds a deterministic generator back to its initial state.
	// Non-deterministic generators implement it as a no-op.
	Reset()
}

const (
	ctrDRBGKeyLen = 16 // AES-128 key size
	ctrDRBGVLen = 16 // AES block size, used as the CTR_DRBG counter block V

	// reseedInterval bounds how many AES blocks a KeyedPRNG serves from one
	// derived key before pulling fresh OS entropy and re-deriving, mirroring
	// NIST SP 800-90A's reseed-counter requirement.
	reseedInterval = 1 << 20
)

// KeyedPRNG is an AES-128-CTR DRBG seeded from a caller-supplied key. It is
// used for the public randomness of encrypt_zero: the seed is small enough
// to store in a ciphertext so the sampled polynomial can be regenerated at
// deserialize time instead of transmitted.
//
// The per-request key/counter derivation runs HKDF-SHA256 (golang.org/x/crypto/hkdf)
// over the entropy rather than a hand-rolled derivation function — see
// SPEC_FULL.md's domain-stack wiring for golang.org/x/crypto. The primitive
// keystream itself is standard AES-128 in CTR mode (crypto/aes, crypto/cipher).
type KeyedPRNG struct {
	seed []byte

	block cipher.Block
	v [ctrDRBGVLen]byte

	blocksServed uint64
}

// NewKeyedPRNG builds a KeyedPRNG from key. If key is nil or empty, 32 fresh
// OS-random bytes are used instead (matching the common NewKeyedPRNG(nil)
// convention for "give me an unpredictable but still Read-able generator").
func NewKeyedPRNG(key []byte) (*KeyedPRNG, error) {
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
	}
	p := &KeyedPRNG{seed: append([]byte(nil), key...)}
	if err := p.derive(p.seed, nil); err != nil {
		return nil, err
	}
	return p, nil
}

// derive runs the HKDF-based update function over entropy (and optional
// additional input), producing a fresh AES-128 key and initial counter block
// V — the CTR_DRBG "instantiate"/"reseed" primitive of SP 800-90A, built on
// hkdf.New(sha256.New, ...) instead of the standard's raw block-cipher
// derivation function.
func (p *KeyedPRNG) derive(entropy, additional []byte) error {
	kdf := hkdf.New(sha256.New, entropy, additional, []byte("bfvcore-ctr-drbg-v1"))
	material := make([]byte, ctrDRBGKeyLen+ctrDRBGVLen)
	if _, err := io.ReadFull(kdf, material); err != nil {
		return err
	}
	block, err := aes.NewCipher(material[:ctrDRBGKeyLen])
	if err != nil {
		return err
	}
	p.block = block
	copy(p.v[:], material[ctrDRBGKeyLen:])
	p.blocksServed = 0
	return nil
}

// Reset rewinds the generator to the state it had right after construction,
// so a subsequent Read reproduces the byte sequence the generator produced
// from the start, for the first reseedInterval AES blocks; output past that
// point mixes in fresh OS entropy and is not reproduced.
func (p *KeyedPRNG) Reset() {
	if err := p.derive(p.seed, nil); err != nil {
		// derive only fails if HKDF's expansion limit is exceeded, which
		// cannot happen for a fixed 32-byte output; a failure here means the
		// generator was already broken at construction time.
		panic(err)
	}
}

// Read fills b with keystream bytes, reseeding from fresh OS entropy every
// reseedInterval AES blocks served.
func (p *KeyedPRNG) Read(b []byte) (int, error) {
	out := b
	var block [ctrDRBGVLen]byte
	for len(out) > 0 {
		if p.blocksServed > 0 && p.blocksServed%reseedInterval == 0 {
			if err := p.reseed(); err != nil {
				return len(b) - len(out), err
			}
		}
		p.block.Encrypt(block[:], p.v[:])
		incrementCounter(&p.v)
		p.blocksServed++
		n := copy(out, block[:])
		out = out[n:]
	}
	return len(b), nil
}

func incrementCounter(v *[ctrDRBGVLen]byte) {
	for i := len(v) - 1; i >= 0; i-- {
		v[i]++
		if v[i] != 0 {
			return
		}
	}
}

// reseed pulls fresh OS entropy, mixes it with the current counter block and
// the original seed as additional input, and re-derives key/V.
func (p *KeyedPRNG) reseed() error {
	fresh := make([]byte, 32)
	if _, err := rand.Read(fresh); err != nil {
		return err
	}
	mix := append(append([]byte(nil), p.v[:]...), fresh...)
	return p.derive(mix, p.seed)
}

// OSPRNG is the non-deterministic generator backing secret randomness
// (error and ternary-secret sampling): it reads straight from
// the operating system CSPRNG. Reset is a no-op since there is no
// replayable state to rewind.
type OSPRNG struct{}

// NewPRNG returns the OS-backed generator used for every secret-derived
// sampling operation.
func NewPRNG() (*OSPRNG, error) { return &OSPRNG{}, nil }

// Read fills b from crypto/rand.
func (OSPRNG) Read(b []byte) (int, error) { return rand.Read(b) }

// Reset is a no-op: OSPRNG has no internal state to rewind.
func (OSPRNG) Reset() {}

// BufferedRNG wraps a PRNG with a fixed-size byte buffer, refilled one whole
// buffer at a time, to reduce the per-byte syscall/derivation overhead of
// sampling many individual coefficients: bytes are served strictly in the
// order the source produced them, across refills.
type BufferedRNG struct {
	src PRNG
	buf []byte
	pos int
}

// NewBufferedRNG wraps src with a bufSize-byte buffer (defaulting to 64
// bytes for bufSize <= 0).
func NewBufferedRNG(src PRNG, bufSize int) *BufferedRNG {
	if bufSize <= 0 {
		bufSize = 64
	}
	return &BufferedRNG{src: src, buf: make([]byte, bufSize), pos: bufSize}
}

// ReadByte returns the next buffered byte, refilling the whole buffer from
// src when exhausted.
func (b *BufferedRNG) ReadByte() (byte, error) {
	if b.pos == len(b.buf) {
		if _, err := b.src.Read(b.buf); err != nil {
			return 0, err
		}
		b.pos = 0
	}
	v := b.buf[b.pos]
	b.pos++
	return v, nil
}

// Read fills p one buffered byte at a time, preserving source order across
// refills.
func (b *BufferedRNG) Read(p []byte) (int, error) {
	for i := range p {
		v, err := b.ReadByte()
		if err != nil {
			return i, err
		}
		p[i] = v
	}
	return len(p), nil
}

// Reset forwards to the underlying source and discards any buffered bytes.
func (b *BufferedRNG) Reset() {
	b.src.Reset()
	b.pos = len(b.buf)
}
