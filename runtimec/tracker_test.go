package main

/*
#include "abi.h"
*/
import "C"

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// resetTracker restores the process-wide tracker globals between
// tests (they are intentionally package-level per spec §4.R.4/§5 —
// no thread safety, single-threaded model).
func resetTracker() {
	trackerLastValue = 0
	trackerPrevValue = 0
	trackerChangeHistory = [100]float64{}
	trackerHistoryIdx = 0
	trackerHistoryCount = 0
}

func TestTrackerOscillating(t *testing.T) {
	resetTracker()
	for _, v := range []float64{1, 0, 1, 0, 1, 0} {
		eigen_track_value(C.double(v))
	}
	require.NotZero(t, float64(eigen_is_oscillating()))
}

func TestTrackerConverged(t *testing.T) {
	resetTracker()
	for _, v := range []float64{10, 10.00001, 10.00002, 10.000021} {
		eigen_track_value(C.double(v))
	}
	require.NotZero(t, float64(eigen_is_converged()))
}

func TestTrackerStuckImpliesNotConvergedNotImproving(t *testing.T) {
	resetTracker()
	for _, v := range []float64{1, 5, 1, 5, 1} {
		eigen_track_value(C.double(v))
	}
	if eigen_is_stuck() != 0 {
		require.Zero(t, float64(eigen_is_converged()))
		require.Zero(t, float64(eigen_is_improving()))
	}
}

func TestTemporalOperators(t *testing.T) {
	resetTracker()
	eigen_track_value(1)
	eigen_track_value(4)
	require.Equal(t, 1.0, float64(eigen_was_is()))
	require.Equal(t, 9.0, float64(eigen_change_is(10)))
}
