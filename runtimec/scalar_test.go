package main

/*
#include "abi.h"
*/
import "C"

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestScalarUpdateInvariants checks spec §8 property 1: after the k-th
// update, value/gradient/history_size track the update sequence exactly.
func TestScalarUpdateInvariants(t *testing.T) {
	var tr C.eigen_T
	eigen_T_init(&tr, 0)

	values := []float64{1, 3, 2, 5, 5, 5, 7}
	prev := 0.0
	for k, v := range values {
		eigen_T_update(&tr, C.double(v))
		require.Equal(t, v, float64(eigen_T_value(&tr)))
		require.InDelta(t, v-prev, float64(eigen_T_gradient(&tr)), 1e-12)
		wantSize := k + 2 // +1 for the eigen_T_init seed, +1 for 0-index
		if wantSize > 100 {
			wantSize = 100
		}
		require.EqualValues(t, wantSize, tr.history_size)
		prev = v
	}
}

// TestScalarStabilityRange checks spec §8 property 3: stability is
// always in (0, 1].
func TestScalarStabilityRange(t *testing.T) {
	var tr C.eigen_T
	eigen_T_init(&tr, 0)
	for _, v := range []float64{10, -5, 100, 0, -1000, 3.14} {
		eigen_T_update(&tr, C.double(v))
		s := float64(eigen_T_stability(&tr))
		require.Greater(t, s, 0.0)
		require.LessOrEqual(t, s, 1.0)
	}
}

// TestScalarConverged checks spec §8 property 2 directly.
func TestScalarConverged(t *testing.T) {
	var tr C.eigen_T
	eigen_T_init(&tr, 50)
	// Newton-style convergence toward sqrt(100)=10.
	guess := 50.0
	var converged bool
	for i := 0; i < 50; i++ {
		guess = (guess + 100/guess) / 2
		eigen_T_update(&tr, C.double(guess))
		if eigen_T_check_converged(&tr) != 0 {
			converged = true
			break
		}
	}
	require.True(t, converged)
	require.InDelta(t, 10.0, guess, 1e-6)
}

func TestScalarOscillating(t *testing.T) {
	var tr C.eigen_T
	eigen_T_init(&tr, 1)
	for _, v := range []float64{0, 1, 0, 1, 0} {
		eigen_T_update(&tr, C.double(v))
	}
	require.NotZero(t, float64(eigen_T_check_oscillating(&tr)))
}

func TestScalarHistoryWrapsAt100(t *testing.T) {
	var tr C.eigen_T
	eigen_T_init(&tr, 0)
	for i := 1; i <= 101; i++ {
		eigen_T_update(&tr, C.double(i))
	}
	require.EqualValues(t, 100, tr.history_size)
	require.EqualValues(t, 101, float64(eigen_T_value(&tr)))
}

func TestScalarDestroyDoesNotPanic(t *testing.T) {
	tr := eigen_T_create(1)
	eigen_T_update(tr, 2)
	require.NotPanics(t, func() { eigen_T_destroy(tr) })
}

func TestIsIntegerValued(t *testing.T) {
	require.True(t, isIntegerValued(42))
	require.True(t, isIntegerValued(0))
	require.False(t, isIntegerValued(42.5))
	require.False(t, isIntegerValued(math.NaN()))
}
