package bfv

import (
	"fmt"
	"sync"

	"github.com/latticefhe/bfvcore/ring"
)

// Context holds everything an encrypt/decrypt/evaluate call needs beyond
// the ciphertext and key values themselves: the parameter set, the
// ciphertext and key-switching PolyContexts, and a lazily populated
// RnsTool cache keyed by moduli count.
type Context struct {
	Params Parameters

	mu sync.Mutex
	rnsToolCache map[int]*RnsTool
	ksContextCache map[int]*ring.PolyContext
}

// NewContext builds a Context from a checked Parameters value.
func NewContext(params Parameters) *Context {
	return &Context{
		Params: params,
		rnsToolCache: make(map[int]*RnsTool),
		ksContextCache: make(map[int]*ring.PolyContext),
	}
}

// KeySwitchContextAtLevel returns (creating and caching if necessary) the
// extended [Q_level, q_special] PolyContext hybrid key switching operates
// over.
// Callers that need pointer-stable contexts across a GenerateKeySwitchKey /
// ComputeKeySwitchingUpdate pair must go through this cache rather than
// constructing their own, since Ciphertext operations validate context
// compatibility by reference.
func (c *Context) KeySwitchContextAtLevel(level int) (*ring.PolyContext, error) {
	if !c.Params.HasSpecialModulus() {
		return nil, fmt.Errorf("%w: no special modulus configured for hybrid key switching", ErrInvalidEncryptionParams)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if ctx, ok := c.ksContextCache[level]; ok {
		return ctx, nil
	}

	qCtx := c.RingQAtLevel(level)
	moduli := append(append([]uint64{}, qCtx.Moduli()...), c.Params.SpecialModulus())
	ext, err := ring.NewPolyContext(qCtx.N(), moduli)
	if err != nil {
		return nil, fmt.Errorf("bfv: building key-switch context for level %d: %w", level, err)
	}
	c.ksContextCache[level] = ext
	return ext, nil
}

// RnsToolAtLevel returns (creating and caching if necessary) the RnsTool
// bound to the level-`level` ciphertext context, i.e. the context whose
// moduli count is params.QCount()-level.
func (c *Context) RnsToolAtLevel(level int) (*RnsTool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if rt, ok := c.rnsToolCache[level]; ok {
		return rt, nil
	}

	ctx := c.RingQAtLevel(level)
	rt, err := NewRnsTool(ctx, c.Params.T())
	if err != nil {
		return nil, fmt.Errorf("bfv: building RnsTool for level %d: %w", level, err)
	}
	c.rnsToolCache[level] = rt
	return rt, nil
}

// RingQAtLevel returns the ciphertext PolyContext truncated to `level`
// moduli dropped from the top of the fresh chain. ring's AtLevel counts the
// other way (its argument is the number of moduli kept minus one), so the
// level is translated here.
func (c *Context) RingQAtLevel(level int) *ring.PolyContext {
	return c.Params.RingQ().AtLevel(c.Params.RingQ().Level() - level)
}

// Level returns the moduli-count-derived level of a ciphertext's context
// relative to the Context's fresh (level-0) chain, or an error if ct's
// context is not one of this Context's chain nodes.
func (c *Context) Level(ct *Ciphertext) (int, error) {
	ctx := c.Params.RingQ()
	for level := 0; ctx != nil; level++ {
		if ctx == ct.Context {
			return level, nil
		}
		ctx = ctx.Next()
	}
	return 0, fmt.Errorf("%w: ciphertext context does not belong to this Context's chain", ErrInvalidContext)
}
