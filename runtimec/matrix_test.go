package main

/*
#include "abi.h"
*/
import "C"

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatmulDimensionCheck(t *testing.T) {
	a := eigen_M_create(2, 3)
	b := eigen_M_create(4, 2)
	require.Nil(t, eigen_M_matmul(a, b))

	c := eigen_M_create(3, 2)
	require.NotNil(t, eigen_M_matmul(a, c))
}

func TestTransposeInvolution(t *testing.T) {
	m := eigen_M_create(2, 3)
	for r := C.longlong(0); r < 2; r++ {
		for c := C.longlong(0); c < 3; c++ {
			*matSlot(m, r, c) = C.double(r*3 + c)
		}
	}
	back := eigen_M_transpose(eigen_M_transpose(m))
	for r := C.longlong(0); r < 2; r++ {
		for c := C.longlong(0); c < 3; c++ {
			require.Equal(t, float64(*matSlot(m, r, c)), float64(*matSlot(back, r, c)))
		}
	}
}

func TestIdentityMatmulIsIdentity(t *testing.T) {
	id := eigen_M_identity(2)
	m := eigen_M_create(2, 2)
	*matSlot(m, 0, 0) = 1
	*matSlot(m, 0, 1) = 2
	*matSlot(m, 1, 0) = 3
	*matSlot(m, 1, 1) = 4
	out := eigen_M_matmul(m, id)
	require.Equal(t, 1.0, float64(*matSlot(out, 0, 0)))
	require.Equal(t, 4.0, float64(*matSlot(out, 1, 1)))
}

func TestCausalMaskUpperTriangle(t *testing.T) {
	m := eigen_M_ones(3, 3)
	masked := eigen_causal_mask(m)
	require.Equal(t, -1e9, float64(*matSlot(masked, 0, 1)))
	require.Equal(t, 1.0, float64(*matSlot(masked, 0, 0)))
	require.Equal(t, 1.0, float64(*matSlot(masked, 2, 0)))
}

func TestSoftmaxRowsSumToOne(t *testing.T) {
	m := eigen_M_create(1, 4)
	*matSlot(m, 0, 0) = 1
	*matSlot(m, 0, 1) = 2
	*matSlot(m, 0, 2) = 3
	*matSlot(m, 0, 3) = 4
	out := eigen_softmax(m)
	sum := 0.0
	for c := C.longlong(0); c < 4; c++ {
		sum += float64(*matSlot(out, 0, c))
	}
	require.InDelta(t, 1.0, sum, 1e-9)
}
