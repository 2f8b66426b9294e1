package main

/*
#include "abi.h"
*/
import "C"

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestListAppend checks spec §8 property 5.
func TestListAppend(t *testing.T) {
	l := eigen_L_create(0)
	defer eigen_L_destroy(l)

	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	for _, v := range values {
		eigen_L_append(l, C.double(v))
	}
	require.EqualValues(t, len(values), eigen_L_length(l))
	for i, v := range values {
		require.Equal(t, v, float64(eigen_L_get(l, C.longlong(i))))
	}
}

func TestListGetOutOfRangeReturnsZero(t *testing.T) {
	l := eigen_L_create(3)
	defer eigen_L_destroy(l)
	require.Equal(t, 0.0, float64(eigen_L_get(l, 10)))
	require.Equal(t, 0.0, float64(eigen_L_get(l, -1)))
}

func TestListSliceMatchesPythonSemantics(t *testing.T) {
	l := eigen_L_create(0)
	defer eigen_L_destroy(l)
	for _, v := range []float64{0, 1, 2, 3, 4} {
		eigen_L_append(l, C.double(v))
	}

	// Full slice is content-identical (round-trip law).
	full := eigen_L_slice(l, 0, eigen_L_length(l))
	defer eigen_L_destroy(full)
	require.EqualValues(t, eigen_L_length(l), eigen_L_length(full))

	// Negative indices follow Python semantics.
	tail := eigen_L_slice(l, -2, eigen_L_length(l))
	defer eigen_L_destroy(tail)
	require.EqualValues(t, 2, eigen_L_length(tail))
	require.Equal(t, 3.0, float64(eigen_L_get(tail, 0)))
	require.Equal(t, 4.0, float64(eigen_L_get(tail, 1)))

	// start > end yields empty.
	empty := eigen_L_slice(l, 4, 1)
	defer eigen_L_destroy(empty)
	require.EqualValues(t, 0, eigen_L_length(empty))
}

func TestListAppendGrowsCapacityFromZero(t *testing.T) {
	l := eigen_L_create(0)
	defer eigen_L_destroy(l)
	for i := 0; i < 9; i++ {
		eigen_L_append(l, C.double(float64(i)))
	}
	require.GreaterOrEqual(t, int64(l.capacity), int64(9))
}
