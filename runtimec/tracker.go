package main

/*
#include "abi.h"
*/
import "C"

import "math"

// The process-wide fallback tracker S2 (spec §4.R.4): used when the
// compiler has not bound a predicate to a specific variable (an
// unscoped `converged`, `stable`, etc.). Single-threaded only, per
// spec §5 — no locking.
var (
	trackerLastValue    float64
	trackerPrevValue    float64
	trackerChangeHistory [100]float64
	trackerHistoryIdx   int
	trackerHistoryCount int
)

const trackerRing = 100

//export eigen_track_value
func eigen_track_value(v C.double) {
	change := float64(v) - trackerLastValue
	trackerHistoryIdx = (trackerHistoryIdx + 1) % trackerRing
	trackerChangeHistory[trackerHistoryIdx] = change
	if trackerHistoryCount < trackerRing {
		trackerHistoryCount++
	}
	trackerPrevValue = trackerLastValue
	trackerLastValue = float64(v)
}

// recentChanges returns the last n changes, most recent first.
func recentChanges(n int) []float64 {
	if n > trackerHistoryCount {
		n = trackerHistoryCount
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		idx := trackerHistoryIdx - i
		idx %= trackerRing
		if idx < 0 {
			idx += trackerRing
		}
		out[i] = trackerChangeHistory[idx]
	}
	return out
}

const trackerEpsilon = 1e-4

//export eigen_is_converged
func eigen_is_converged() C.double {
	c := recentChanges(3)
	if len(c) < 3 {
		return 0
	}
	for _, d := range c {
		if math.Abs(d) >= trackerEpsilon {
			return 0
		}
	}
	return 1
}

//export eigen_is_stable
func eigen_is_stable() C.double {
	c := recentChanges(5)
	if len(c) < 5 {
		return 0
	}
	sawPositive, sawNegative := false, false
	for _, d := range c {
		if d > trackerEpsilon {
			sawPositive = true
		} else if d < -trackerEpsilon {
			sawNegative = true
		}
	}
	return boolToDouble(!(sawPositive && sawNegative))
}

//export eigen_is_diverging
func eigen_is_diverging() C.double {
	c := recentChanges(3)
	if len(c) < 3 {
		return 0
	}
	// c[0] is most recent; diverging means magnitudes strictly grow
	// walking from oldest (c[2]) to newest (c[0]).
	m2, m1, m0 := math.Abs(c[2]), math.Abs(c[1]), math.Abs(c[0])
	return boolToDouble(m1 > m2 && m0 > m1)
}

//export eigen_is_improving
func eigen_is_improving() C.double {
	c := recentChanges(2)
	if len(c) < 2 {
		return 0
	}
	return boolToDouble(math.Abs(c[0]) < math.Abs(c[1]))
}

//export eigen_is_oscillating
func eigen_is_oscillating() C.double {
	c := recentChanges(4)
	if len(c) < 4 {
		return 0
	}
	flips := 0
	for i := 1; i < len(c); i++ {
		if (c[i-1] > 0) != (c[i] > 0) {
			flips++
		}
	}
	return boolToDouble(flips >= 2)
}

//export eigen_is_equilibrium
func eigen_is_equilibrium() C.double {
	c := recentChanges(5)
	if len(c) < 5 {
		return 0
	}
	sum := 0.0
	for _, d := range c {
		sum += d
	}
	return boolToDouble(math.Abs(sum) < 1e-3)
}

//export eigen_is_stuck
func eigen_is_stuck() C.double {
	return boolToDouble(eigen_is_converged() == 0 && eigen_is_improving() == 0)
}

//export eigen_is_chaotic
func eigen_is_chaotic() C.double {
	c := recentChanges(5)
	if len(c) < 5 {
		return 0
	}
	mean := 0.0
	for _, d := range c {
		mean += d
	}
	mean /= float64(len(c))
	variance := 0.0
	for _, d := range c {
		diff := d - mean
		variance += diff * diff
	}
	variance /= float64(len(c))
	return boolToDouble(variance > 10*math.Abs(mean))
}

// eigen_is_settled and eigen_is_balanced round out the predicate
// globals list in spec §4.R.4; the spec names them without a distinct
// rule, so they alias the nearest-meaning canonical predicate
// (settled -> converged, balanced -> equilibrium), matching how
// "stuck" is itself defined in terms of two others.
//
//export eigen_is_settled
func eigen_is_settled() C.double { return eigen_is_converged() }

//export eigen_is_balanced
func eigen_is_balanced() C.double { return eigen_is_equilibrium() }

// --- Temporal operators (spec §4.R.4) ---

//export eigen_was_is
func eigen_was_is() C.double { return C.double(trackerPrevValue) }

//export eigen_change_is
func eigen_change_is(x C.double) C.double { return x - C.double(trackerPrevValue) }

// eigen_trend_is returns the tri-valued encoding {-1, 0, 0.5, 1} for
// decreasing/stable/oscillating/increasing based on the last 3 changes.
//
//export eigen_trend_is
func eigen_trend_is(x C.double) C.double {
	_ = x // x only selects which value the trend is asked about; the
	// process-wide tracker's own change history is the source of truth.
	c := recentChanges(3)
	if len(c) < 3 {
		return 0
	}
	allPos, allNeg := true, true
	for _, d := range c {
		if d <= trackerEpsilon {
			allPos = false
		}
		if d >= -trackerEpsilon {
			allNeg = false
		}
	}
	if allPos {
		return 1
	}
	if allNeg {
		return -1
	}
	flips := 0
	for i := 1; i < len(c); i++ {
		if (c[i-1] > 0) != (c[i] > 0) {
			flips++
		}
	}
	if flips >= 1 {
		return 0.5
	}
	return 0
}
