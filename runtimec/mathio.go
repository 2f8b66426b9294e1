package main

/*
#include "abi.h"
*/
import "C"

import (
	"fmt"
	"math"
	"os"
	"unsafe"
)

// --- Math scalar wrappers (spec §4.R.3): thin libm forwards. ---

//export eigen_sqrt
func eigen_sqrt(x C.double) C.double { return C.double(math.Sqrt(float64(x))) }

//export eigen_abs
func eigen_abs(x C.double) C.double { return C.double(math.Abs(float64(x))) }

//export eigen_pow
func eigen_pow(base, exp C.double) C.double { return C.double(math.Pow(float64(base), float64(exp))) }

//export eigen_log
func eigen_log(x C.double) C.double { return C.double(math.Log(float64(x))) }

//export eigen_exp
func eigen_exp(x C.double) C.double { return C.double(math.Exp(float64(x))) }

//export eigen_sin
func eigen_sin(x C.double) C.double { return C.double(math.Sin(float64(x))) }

//export eigen_cos
func eigen_cos(x C.double) C.double { return C.double(math.Cos(float64(x))) }

//export eigen_tan
func eigen_tan(x C.double) C.double { return C.double(math.Tan(float64(x))) }

//export eigen_floor
func eigen_floor(x C.double) C.double { return C.double(math.Floor(float64(x))) }

//export eigen_ceil
func eigen_ceil(x C.double) C.double { return C.double(math.Ceil(float64(x))) }

//export eigen_round
func eigen_round(x C.double) C.double { return C.double(math.Round(float64(x))) }

// --- I/O (spec §4.R.3): failures return a null handle or 0.0, never panic. ---

//export eigen_file_read
func eigen_file_read(path *C.char) *C.eigen_S {
	b, err := os.ReadFile(C.GoString(path))
	if err != nil {
		fmt.Fprintf(os.Stderr, "file_read: %v\n", err)
		return nil
	}
	return goStringToEigenS(string(b))
}

//export eigen_file_write
func eigen_file_write(path *C.char, content *C.eigen_S) C.double {
	err := os.WriteFile(C.GoString(path), goBytes(content), 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "file_write: %v\n", err)
		return 0
	}
	return 1
}

//export eigen_file_append
func eigen_file_append(path *C.char, content *C.eigen_S) C.double {
	f, err := os.OpenFile(C.GoString(path), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "file_append: %v\n", err)
		return 0
	}
	defer f.Close()
	if _, err := f.Write(goBytes(content)); err != nil {
		fmt.Fprintf(os.Stderr, "file_append: %v\n", err)
		return 0
	}
	return 1
}

//export eigen_file_exists
func eigen_file_exists(path *C.char) C.double {
	_, err := os.Stat(C.GoString(path))
	return boolToDouble(err == nil)
}

//export eigen_print_string
func eigen_print_string(s *C.eigen_S) {
	printCString(s.data, s.length)
}

//export eigen_print_double
func eigen_print_double(v C.double) {
	printDoubleValue(float64(v))
}

//export eigen_print_newline
func eigen_print_newline() {
	fmt.Fprintln(os.Stdout)
}

// --- argv (spec §4.R.3) ---

var programArgs []string

// eigen_init_args is called once at program entry. It copies argv out
// of the raw C-style array so later eigen_get_arg calls don't need to
// re-touch foreign memory. The `main` that internal/codegen emits takes
// no argc/argv and does not call it; until it runs, eigen_get_argc
// returns 0.
//
//export eigen_init_args
func eigen_init_args(argc C.int, argv **C.char) {
	n := int(argc)
	programArgs = make([]string, n)
	base := unsafe.Pointer(argv)
	ptrSize := unsafe.Sizeof(argv)
	for i := 0; i < n; i++ {
		p := *(**C.char)(unsafe.Add(base, uintptr(i)*ptrSize))
		programArgs[i] = C.GoString(p)
	}
}

//export eigen_get_argc
func eigen_get_argc() C.longlong { return C.longlong(len(programArgs)) }

//export eigen_get_arg
func eigen_get_arg(i C.longlong) C.double {
	if i < 0 || int(i) >= len(programArgs) {
		return encodePtr(unsafe.Pointer(goStringToEigenS("")))
	}
	return encodePtr(unsafe.Pointer(goStringToEigenS(programArgs[i])))
}
