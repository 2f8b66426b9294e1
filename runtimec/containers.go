package main

/*
#include "abi.h"
*/
import "C"

import (
	"fmt"
	"os"
	"unsafe"
)

// eigen_L_create allocates a list with the given initial length,
// zero-filled, capacity rounded up to at least length (spec §3, §4.R.3).
//
//export eigen_L_create
func eigen_L_create(n C.longlong) *C.eigen_L {
	l := (*C.eigen_L)(C.malloc(C.size_t(unsafe.Sizeof(C.eigen_L{}))))
	cap := n
	if cap < 1 {
		cap = 1
	}
	l.data = (*C.double)(C.calloc(C.size_t(cap), C.size_t(unsafe.Sizeof(C.double(0)))))
	l.length = n
	l.capacity = cap
	return l
}

//export eigen_L_destroy
func eigen_L_destroy(l *C.eigen_L) {
	if l == nil {
		return
	}
	C.free(unsafe.Pointer(l.data))
	C.free(unsafe.Pointer(l))
}

//export eigen_L_length
func eigen_L_length(l *C.eigen_L) C.longlong { return l.length }

func listSlot(l *C.eigen_L, i C.longlong) *C.double {
	base := unsafe.Pointer(l.data)
	return (*C.double)(unsafe.Add(base, uintptr(i)*unsafe.Sizeof(C.double(0))))
}

// eigen_L_get is bounds-checked per spec §7/§8: out-of-range prints a
// diagnostic to stderr and returns 0, never panics.
//
//export eigen_L_get
func eigen_L_get(l *C.eigen_L, i C.longlong) C.double {
	if i < 0 || i >= l.length {
		fmt.Fprintf(os.Stderr, "L_get: index %d out of range [0,%d)\n", int64(i), int64(l.length))
		return 0
	}
	return *listSlot(l, i)
}

// eigen_L_set is bounds-checked the same way; out-of-range is a no-op.
//
//export eigen_L_set
func eigen_L_set(l *C.eigen_L, i C.longlong, v C.double) {
	if i < 0 || i >= l.length {
		fmt.Fprintf(os.Stderr, "L_set: index %d out of range [0,%d)\n", int64(i), int64(l.length))
		return
	}
	*listSlot(l, i) = v
}

// eigen_L_append grows with amortized doubling starting at 8 (spec §3, §8).
//
//export eigen_L_append
func eigen_L_append(l *C.eigen_L, v C.double) {
	if l.length >= l.capacity {
		newCap := l.capacity * 2
		if newCap < 8 {
			newCap = 8
		}
		newData := (*C.double)(C.realloc(unsafe.Pointer(l.data), C.size_t(newCap)*C.size_t(unsafe.Sizeof(C.double(0)))))
		l.data = newData
		l.capacity = newCap
	}
	*listSlot(l, l.length) = v
	l.length++
}

func clampIndex(i, length C.longlong) C.longlong {
	if i < 0 {
		i = length + i
	}
	if i < 0 {
		i = 0
	}
	if i > length {
		i = length
	}
	return i
}

// eigen_L_slice follows Python negative-index/clamping semantics
// (spec §3, §8): start > end yields an empty list.
//
//export eigen_L_slice
func eigen_L_slice(l *C.eigen_L, start, end C.longlong) *C.eigen_L {
	s := clampIndex(start, l.length)
	e := clampIndex(end, l.length)
	if s > e {
		return eigen_L_create(0)
	}
	out := eigen_L_create(e - s)
	for i := C.longlong(0); i < e-s; i++ {
		*listSlot(out, i) = *listSlot(l, s+i)
	}
	return out
}
