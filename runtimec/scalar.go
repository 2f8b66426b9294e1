package main

/*
#include "abi.h"
*/
import "C"

import (
	"math"
	"unsafe"
)

// eigen_T_create heap-allocates a tracked scalar (spec §4.R.1).
// Ownership transfers to the caller; release with eigen_T_destroy.
//
//export eigen_T_create
func eigen_T_create(v C.double) *C.eigen_T {
	t := (*C.eigen_T)(C.malloc(C.size_t(unsafe.Sizeof(C.eigen_T{}))))
	initScalar(t, v)
	return t
}

// eigen_T_init field-initializes a caller-owned slot (a stack alloca
// in the emitted IR). It MUST NOT touch history beyond history[0]: an
// O(H) memset here would defeat the whole point of a stack-scoped
// tracked scalar (spec §4.R.1). The codegen marks the declaration
// alwaysinline; that attribute lives in internal/codegen, not here.
//
//export eigen_T_init
func eigen_T_init(slot *C.eigen_T, v C.double) {
	slot.value = v
	slot.gradient = 0
	slot.stability = 1
	slot.iteration = 0
	slot.prev_value = v
	slot.prev_gradient = 0
	slot.history[0] = v
	slot.history_size = 1
	slot.history_index = 0
}

func initScalar(t *C.eigen_T, v C.double) {
	eigen_T_init(t, v)
}

// eigen_T_update applies one update per spec §4.R.1 and §8 property 1.
//
// Note on field use: spec §8 property 1 is the authority ("after the
// k-th update, t.gradient = vₖ − vₖ₋₁"), so gradient is computed
// against the current (not-yet-overwritten) value field — the actual
// previous reading — rather than against the prev_value field, which
// by §3's own invariant ("value before last update") only catches up
// to that same reading one step later. Using prev_value directly in
// the gradient formula would make gradient lag by an extra step and
// violate property 1.
//
//export eigen_T_update
func eigen_T_update(t *C.eigen_T, v C.double) {
	oldValue := t.value
	gradient := v - oldValue
	acceleration := gradient - t.gradient
	stability := math.Exp(-math.Abs(float64(acceleration)))
	if stability == 0 {
		// exp underflows to 0 once |acceleration| passes ~745; keep
		// stability inside (0, 1].
		stability = math.SmallestNonzeroFloat64
	}
	t.stability = C.double(stability)

	t.history_index = (t.history_index + 1) % historyLen
	t.history[t.history_index] = v
	if t.history_size < historyLen {
		t.history_size++
	}

	t.prev_gradient = t.gradient
	t.gradient = gradient
	t.prev_value = oldValue
	t.value = v
	t.iteration++
}

// eigen_T_reset rearms a tracked scalar to a single fresh value
// without a new allocation (SPEC_FULL.md supplement). internal/codegen
// does not emit calls to it.
//
//export eigen_T_reset
func eigen_T_reset(t *C.eigen_T, v C.double) {
	eigen_T_init(t, v)
}

// eigen_T_destroy frees a heap-created tracked scalar. Stack-created
// (eigen_T_init) instances are never passed here — they end with
// their frame (spec §3 lifecycle).
//
//export eigen_T_destroy
func eigen_T_destroy(t *C.eigen_T) {
	C.free(unsafe.Pointer(t))
}

//export eigen_T_value
func eigen_T_value(t *C.eigen_T) C.double { return t.value }

//export eigen_T_gradient
func eigen_T_gradient(t *C.eigen_T) C.double { return t.gradient }

//export eigen_T_stability
func eigen_T_stability(t *C.eigen_T) C.double { return t.stability }

//export eigen_T_iteration
func eigen_T_iteration(t *C.eigen_T) C.longlong { return t.iteration }

// eigen_T_who answers the "who is x" interrogative (spec §4.C.3): a
// stable-for-the-object's-lifetime identifier derived from the
// low 32 bits of the scalar's own address, not from its value — two
// distinct T records never collide for the life of either.
//
//export eigen_T_who
func eigen_T_who(t *C.eigen_T) C.double {
	addr := uint64(uintptr(unsafe.Pointer(t)))
	return C.double(addr & 0xffffffff)
}

const convergenceEpsilon = 1e-6

// historyDelta returns |h[i] - h[i-1]| for the i-th most recent pair,
// counting back from the most recently written entry (offset 0 is the
// latest value, offset 1 the one before it, and so on).
func historyDelta(t *C.eigen_T, offsetFromLatest int) (float64, bool) {
	if offsetFromLatest+1 >= int(t.history_size) {
		return 0, false
	}
	idx := func(back int) int {
		i := int(t.history_index) - back
		i %= historyLen
		if i < 0 {
			i += historyLen
		}
		return i
	}
	a := float64(t.history[idx(offsetFromLatest)])
	b := float64(t.history[idx(offsetFromLatest+1)])
	return math.Abs(a - b), true
}

func boolToDouble(b bool) C.double {
	if b {
		return 1
	}
	return 0
}

// eigen_T_check_converged implements the "converged" predicate of
// spec §4.R.1: history_size >= 5 AND the max of the 4 consecutive
// deltas between the last 5 history values is below convergenceEpsilon.
//
//export eigen_T_check_converged
func eigen_T_check_converged(t *C.eigen_T) C.double {
	if t.history_size < 5 {
		return 0
	}
	max := 0.0
	for offset := 0; offset < 4; offset++ {
		d, ok := historyDelta(t, offset)
		if !ok {
			return 0
		}
		if d > max {
			max = d
		}
	}
	return boolToDouble(max < convergenceEpsilon)
}

// eigen_T_check_diverging implements spec §4.R.1's "diverging" predicate.
//
//export eigen_T_check_diverging
func eigen_T_check_diverging(t *C.eigen_T) C.double {
	if t.history_size < 3 {
		return 0
	}
	if math.Abs(float64(t.value)) > 1e10 {
		return 1
	}
	// Three consecutive gradient magnitudes each grew by >= 20%. The
	// current and previous gradient live directly on the struct; the
	// one before that is a history delta one step further back.
	g0, ok := historyDelta(t, 2)
	if !ok {
		return 0
	}
	g1 := math.Abs(float64(t.prev_gradient))
	g2 := math.Abs(float64(t.gradient))
	grew := func(newer, older float64) bool {
		return older > 0 && newer >= older*1.2
	}
	return boolToDouble(grew(g1, g0) && grew(g2, g1))
}

const oscillationThreshold = 3

// eigen_T_check_oscillating implements spec §4.R.1's "oscillating" predicate:
// history_size >= 6 AND at least 3 sign changes among the last 10
// consecutive gradients (reconstructed from history deltas, signed).
//
//export eigen_T_check_oscillating
func eigen_T_check_oscillating(t *C.eigen_T) C.double {
	if t.history_size < 6 {
		return 0
	}
	window := int(t.history_size) - 1
	if window > 10 {
		window = 10
	}
	signs := make([]float64, 0, window)
	for offset := 0; offset < window; offset++ {
		idx := func(back int) int {
			i := int(t.history_index) - back
			i %= historyLen
			if i < 0 {
				i += historyLen
			}
			return i
		}
		newer := float64(t.history[idx(offset)])
		older := float64(t.history[idx(offset + 1)])
		signs = append(signs, newer-older)
	}
	changes := 0
	for i := 1; i < len(signs); i++ {
		if (signs[i-1] > 0) != (signs[i] > 0) {
			changes++
		}
	}
	return boolToDouble(changes >= oscillationThreshold)
}

//export eigen_T_check_stable
func eigen_T_check_stable(t *C.eigen_T) C.double {
	return boolToDouble(float64(t.stability) > 0.8)
}

//export eigen_T_check_improving
func eigen_T_check_improving(t *C.eigen_T) C.double {
	if t.history_size < 3 {
		return 0
	}
	return boolToDouble(math.Abs(float64(t.gradient)) < math.Abs(float64(t.prev_gradient)))
}
