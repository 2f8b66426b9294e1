package main

/*
#include "abi.h"
*/
import "C"

import (
	"math"
	"unsafe"
)

// This file is the "encoded double" bridge (spec §4.R.2): the
// self-hosted front end represents every handle as a float64, so
// the tracked-scalar ops, the core list ops (create/get/set/append/
// length) and S_from_cstr get a `_val` twin that reinterprets the 64
// bits of a double as a pointer. The other string, list and matrix ops
// have no `_val` twin.
// math.Float64bits/Float64frombits gives a lossless round trip (spec
// §8 property 4) the same way the teacher's own raw-address traffic
// in tinyrange-rtg/std/runtime (Sliceptr, ReadPtr, WritePtr) reuses
// uintptr for an address that didn't originate as a pointer literal.

func encodePtr(p unsafe.Pointer) C.double {
	return C.double(math.Float64frombits(uint64(uintptr(p))))
}

func decodePtr(v C.double) unsafe.Pointer {
	return unsafe.Pointer(uintptr(math.Float64bits(float64(v))))
}

//export eigen_encode_ptr
func eigen_encode_ptr(p unsafe.Pointer) C.double { return encodePtr(p) }

//export eigen_decode_ptr
func eigen_decode_ptr(v C.double) unsafe.Pointer { return decodePtr(v) }

//export eigen_T_create_val
func eigen_T_create_val(v C.double) C.double {
	return encodePtr(unsafe.Pointer(eigen_T_create(v)))
}

//export eigen_T_update_val
func eigen_T_update_val(handle C.double, v C.double) {
	eigen_T_update((*C.eigen_T)(decodePtr(handle)), v)
}

//export eigen_T_value_val
func eigen_T_value_val(handle C.double) C.double {
	return eigen_T_value((*C.eigen_T)(decodePtr(handle)))
}

//export eigen_T_gradient_val
func eigen_T_gradient_val(handle C.double) C.double {
	return eigen_T_gradient((*C.eigen_T)(decodePtr(handle)))
}

//export eigen_T_stability_val
func eigen_T_stability_val(handle C.double) C.double {
	return eigen_T_stability((*C.eigen_T)(decodePtr(handle)))
}

//export eigen_T_iteration_val
func eigen_T_iteration_val(handle C.double) C.double {
	return C.double(eigen_T_iteration((*C.eigen_T)(decodePtr(handle))))
}

//export eigen_L_create_val
func eigen_L_create_val(n C.longlong) C.double {
	return encodePtr(unsafe.Pointer(eigen_L_create(n)))
}

//export eigen_L_get_val
func eigen_L_get_val(handle C.double, i C.longlong) C.double {
	return eigen_L_get((*C.eigen_L)(decodePtr(handle)), i)
}

//export eigen_L_set_val
func eigen_L_set_val(handle C.double, i C.longlong, v C.double) {
	eigen_L_set((*C.eigen_L)(decodePtr(handle)), i, v)
}

//export eigen_L_append_val
func eigen_L_append_val(handle C.double, v C.double) {
	eigen_L_append((*C.eigen_L)(decodePtr(handle)), v)
}

//export eigen_L_length_val
func eigen_L_length_val(handle C.double) C.double {
	return C.double(eigen_L_length((*C.eigen_L)(decodePtr(handle))))
}

//export eigen_S_from_cstr_val
func eigen_S_from_cstr_val(cstr *C.char) C.double {
	return encodePtr(unsafe.Pointer(eigen_S_from_cstr(cstr)))
}

// pointerLooksLikeHandle bounds-checks the bit pattern the way spec
// §4.R.2 documents: [0x10000, 0x800000000000).
func pointerLooksLikeHandle(bits uint64) bool {
	return bits >= 0x10000 && bits < 0x800000000000
}

// sanityCheckString guards the dereference: a real eigen_S record
// never has a null data pointer or an absurd length.
func sanityCheckString(s *C.eigen_S) bool {
	return s != nil && s.data != nil && s.length >= 0 && s.length < 1000000
}

// eigen_print_val is the universal print of spec §4.R.2: heuristically
// distinguish a numeric double from an encoded string pointer, then
// print accordingly (integer-valued doubles print without a decimal
// point — spec §4.R.2, last paragraph).
//
//export eigen_print_val
func eigen_print_val(v C.double) {
	bits := math.Float64bits(float64(v))
	if pointerLooksLikeHandle(bits) {
		s := (*C.eigen_S)(unsafe.Pointer(uintptr(bits)))
		if sanityCheckString(s) {
			printCString(s.data, s.length)
			return
		}
	}
	printDoubleValue(float64(v))
}
