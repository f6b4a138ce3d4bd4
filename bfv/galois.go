package bfv

import (
	"fmt"

	"github.com/latticefhe/bfvcore/ring"
)

// GaloisGen is the generator used to build every cyclic rotation element on
// the SIMD two-row slot layout, re-exported from ring.GaloisGen for
// convenience at the bfv API surface.
const GaloisGen = ring.GaloisGen

// GaloisElementForColumnRotation returns the Galois element implementing a
// cyclic rotation of the SIMD column slots by step positions (positive:
// left rotation; negative: right rotation).
func GaloisElementForColumnRotation(n int, step int) uint64 {
	return ring.GaloisElementForColumnRotation(n, step)
}

// GaloisElementForRowRotation returns the Galois element implementing the
// row-swap automorphism.
func GaloisElementForRowRotation(n int) uint64 {
	return ring.GaloisElementForRowRotation(n)
}

// RotateColumns is a thin wrapper over ApplyGalois using the precomputed
// Galois element for a cyclic column rotation by step slots.
func RotateColumns(ctx *Context, ct *Ciphertext, step int, ek *EvaluationKey) error {
	element := GaloisElementForColumnRotation(ctx.Params.N(), step)
	if err := ApplyGalois(ctx, ct, element, ek); err != nil {
		return fmt.Errorf("bfv: rotate_columns(%d): %w", step, err)
	}
	return nil
}

// SwapRows is a thin wrapper over ApplyGalois using the row-swap Galois
// element.
func SwapRows(ctx *Context, ct *Ciphertext, ek *EvaluationKey) error {
	element := GaloisElementForRowRotation(ctx.Params.N())
	if err := ApplyGalois(ctx, ct, element, ek); err != nil {
		return fmt.Errorf("bfv: swap_rows: %w", err)
	}
	return nil
}

// RotationPlan is one step of a multi-step rotation decomposition: apply
// the Galois element for a single-step column rotation of `step` slots,
// `repeat` times in a row.
type RotationPlan struct {
	Step int
	Repeat int
}

// PlanMultiStepRotation decomposes an arbitrary rotation amount `by` (taken
// modulo n/2, the number of slots per row) into a sequence of supported
// single steps from `supported`, each possibly applied more than once,
// realizing the requested rotation by repeated application of
// RotateColumns via a shortest-path search over the additive group of
// rotation amounts, grounded on the general shape of rotation-key-set
// planning in _teacherref/bfv/galois.go's BSGS-style key set selection,
// simplified to a direct BFS cover since this module does not carry a
// baby-step/giant-step evaluator.
func PlanMultiStepRotation(n int, by int, supported []int) ([]RotationPlan, error) {
	slots := n / 2
	target := ((by % slots) + slots) % slots
	if target == 0 {
		return nil, nil
	}

	steps := make([]int, 0, len(supported))
	for _, s := range supported {
		v := ((s % slots) + slots) % slots
		if v != 0 {
			steps = append(steps, v)
		}
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: no supported rotation steps available", ErrInvalidRotationStep)
	}

	// dist[k] = minimal number of supported-step applications to reach
	// rotation amount k, via a BFS/DP over the additive group Z/slots.
	const unreached = -1
	dist := make([]int, slots)
	prev := make([]int, slots)
	for i := range dist {
		dist[i] = unreached
	}
	dist[0] = 0
	queue := []int{0}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == target {
			break
		}
		for _, s := range steps {
			next := (cur + s) % slots
			if dist[next] == unreached {
				dist[next] = dist[cur] + 1
				prev[next] = s
				queue = append(queue, next)
			}
		}
	}
	if dist[target] == unreached {
		return nil, fmt.Errorf("%w: rotation by %d is not representable by the supported step set", ErrInvalidRotationStep, by)
	}

	var rawSteps []int
	for cur := target; cur != 0; {
		s := prev[cur]
		rawSteps = append(rawSteps, s)
		cur = (cur - s + slots) % slots
	}

	var plan []RotationPlan
	for _, s := range rawSteps {
		if len(plan) > 0 && plan[len(plan)-1].Step == s {
			plan[len(plan)-1].Repeat++
			continue
		}
		plan = append(plan, RotationPlan{Step: s, Repeat: 1})
	}
	return plan, nil
}

// RotateColumnsMultiStep decomposes `by` into a sequence of supported
// Galois steps (the keys present in ek.Galois) and applies them in order.
func RotateColumnsMultiStep(ctx *Context, ct *Ciphertext, by int, ek *EvaluationKey) error {
	if ek == nil || ek.Galois == nil {
		return fmt.Errorf("%w: evaluation key carries no Galois key", ErrMissingGaloisKey)
	}

	n := ctx.Params.N()
	slots := n / 2
	supported := make([]int, 0, len(ek.Galois.Keys))
	elementToStep := make(map[uint64]int, len(ek.Galois.Keys))
	for s := 1; s < slots; s++ {
		el := GaloisElementForColumnRotation(n, s)
		if _, ok := ek.Galois.Keys[el]; ok {
			supported = append(supported, s)
			elementToStep[el] = s
		}
	}

	plan, err := PlanMultiStepRotation(n, by, supported)
	if err != nil {
		return err
	}
	for _, step := range plan {
		element := GaloisElementForColumnRotation(n, step.Step)
		for i := 0; i < step.Repeat; i++ {
			if err := ApplyGalois(ctx, ct, element, ek); err != nil {
				return fmt.Errorf("bfv: rotate_columns_multi_step(%d): %w", by, err)
			}
		}
	}
	return nil
}
