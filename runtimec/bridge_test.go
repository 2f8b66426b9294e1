package main

/*
#include "abi.h"
*/
import "C"

import (
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// TestPointerRoundTrip checks spec §8 property 4: decode(encode(p)) == p.
func TestPointerRoundTrip(t *testing.T) {
	scalar := eigen_T_create(7)
	defer eigen_T_destroy(scalar)

	encoded := encodePtr(unsafe.Pointer(scalar))
	decoded := decodePtr(encoded)
	require.Equal(t, unsafe.Pointer(scalar), decoded)
}

func TestPrintValNumberVsString(t *testing.T) {
	bits := math.Float64bits(3.5)
	require.False(t, pointerLooksLikeHandle(bits))

	s := eigen_S_from_cstr(C.CString("hi"))
	require.True(t, sanityCheckString(s))
}

func TestValTwinsRoundTrip(t *testing.T) {
	handle := eigen_T_create_val(10)
	eigen_T_update_val(handle, 12)
	require.Equal(t, 12.0, float64(eigen_T_value_val(handle)))
	require.Equal(t, 2.0, float64(eigen_T_gradient_val(handle)))
}
