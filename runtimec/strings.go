package main

/*
#include "abi.h"
*/
import "C"

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"unsafe"
)

const minStringCapacity = 16

func allocString(length C.longlong) *C.eigen_S {
	s := (*C.eigen_S)(C.malloc(C.size_t(unsafe.Sizeof(C.eigen_S{}))))
	cap := length + 1
	if cap < minStringCapacity {
		cap = minStringCapacity
	}
	s.data = (*C.char)(C.calloc(C.size_t(cap), 1))
	s.length = length
	s.capacity = cap
	return s
}

// eigen_S_empty allocates an empty string with at least the requested
// capacity (minimum 16, spec §3).
//
//export eigen_S_empty
func eigen_S_empty(capHint C.longlong) *C.eigen_S {
	s := allocString(0)
	if capHint > s.capacity {
		s.data = (*C.char)(C.realloc(unsafe.Pointer(s.data), C.size_t(capHint)))
		s.capacity = capHint
	}
	return s
}

// eigen_S_from_cstr copies a NUL-terminated C string into an owned
// eigen_S (spec §4.C.3: "wrapped into a runtime S by S_from_cstr").
//
//export eigen_S_from_cstr
func eigen_S_from_cstr(cstr *C.char) *C.eigen_S {
	n := C.longlong(C.strlen(cstr))
	s := allocString(n)
	C.memcpy(unsafe.Pointer(s.data), unsafe.Pointer(cstr), C.size_t(n))
	return s
}

//export eigen_S_destroy
func eigen_S_destroy(s *C.eigen_S) {
	if s == nil {
		return
	}
	C.free(unsafe.Pointer(s.data))
	C.free(unsafe.Pointer(s))
}

//export eigen_S_length
func eigen_S_length(s *C.eigen_S) C.longlong { return s.length }

func stringByte(s *C.eigen_S, i C.longlong) byte {
	base := unsafe.Pointer(s.data)
	p := (*C.char)(unsafe.Add(base, uintptr(i)))
	return byte(*p)
}

// eigen_S_char_at returns -1 on out-of-range access (spec §3, §8).
//
//export eigen_S_char_at
func eigen_S_char_at(s *C.eigen_S, i C.longlong) C.longlong {
	if i < 0 || i >= s.length {
		return -1
	}
	return C.longlong(stringByte(s, i))
}

// eigen_S_substring clamps start/length to the string bounds (spec §8):
// start >= length returns empty; length beyond the end clamps.
//
//export eigen_S_substring
func eigen_S_substring(s *C.eigen_S, start, length C.longlong) *C.eigen_S {
	if start < 0 {
		start = 0
	}
	if start >= s.length {
		return allocString(0)
	}
	if length < 0 {
		length = 0
	}
	if start+length > s.length {
		length = s.length - start
	}
	out := allocString(length)
	C.memcpy(unsafe.Pointer(out.data), unsafe.Pointer(uintptr(unsafe.Pointer(s.data))+uintptr(start)), C.size_t(length))
	return out
}

//export eigen_S_concat
func eigen_S_concat(a, b *C.eigen_S) *C.eigen_S {
	out := allocString(a.length + b.length)
	C.memcpy(unsafe.Pointer(out.data), unsafe.Pointer(a.data), C.size_t(a.length))
	C.memcpy(unsafe.Pointer(uintptr(unsafe.Pointer(out.data))+uintptr(a.length)), unsafe.Pointer(b.data), C.size_t(b.length))
	return out
}

// eigen_S_append_char grows with amortized doubling, mirroring
// eigen_L_append (spec §3, §4.R.3).
//
//export eigen_S_append_char
func eigen_S_append_char(s *C.eigen_S, ch C.char) {
	if s.length+1 >= s.capacity {
		newCap := s.capacity * 2
		if newCap < minStringCapacity {
			newCap = minStringCapacity
		}
		s.data = (*C.char)(C.realloc(unsafe.Pointer(s.data), C.size_t(newCap)))
		s.capacity = newCap
	}
	*(*C.char)(unsafe.Add(unsafe.Pointer(s.data), uintptr(s.length))) = ch
	s.length++
	*(*C.char)(unsafe.Add(unsafe.Pointer(s.data), uintptr(s.length))) = 0
}

func goBytes(s *C.eigen_S) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(s.data)), int(s.length))
}

//export eigen_S_compare
func eigen_S_compare(a, b *C.eigen_S) C.longlong {
	ab, bb := goBytes(a), goBytes(b)
	n := len(ab)
	if len(bb) < n {
		n = len(bb)
	}
	for i := 0; i < n; i++ {
		if ab[i] != bb[i] {
			return C.longlong(int(ab[i]) - int(bb[i]))
		}
	}
	return C.longlong(len(ab) - len(bb))
}

// eigen_S_equals implements spec §8 property 6 exactly: length equality
// AND byte-for-byte equality.
//
//export eigen_S_equals
func eigen_S_equals(a, b *C.eigen_S) C.double {
	if a.length != b.length {
		return 0
	}
	return boolToDouble(C.memcmp(unsafe.Pointer(a.data), unsafe.Pointer(b.data), C.size_t(a.length)) == 0)
}

// eigen_S_find returns the byte index of the first occurrence of
// needle in hay at or after start, or -1 (spec §4.R.3).
//
//export eigen_S_find
func eigen_S_find(hay, needle *C.eigen_S, start C.longlong) C.longlong {
	h, n := goBytes(hay), goBytes(needle)
	if start < 0 {
		start = 0
	}
	if len(n) == 0 {
		if int(start) <= len(h) {
			return start
		}
		return -1
	}
	for i := int(start); i+len(n) <= len(h); i++ {
		if string(h[i:i+len(n)]) == string(n) {
			return C.longlong(i)
		}
	}
	return -1
}

//export eigen_is_digit
func eigen_is_digit(c C.char) C.double { return boolToDouble(c >= '0' && c <= '9') }

//export eigen_is_alpha
func eigen_is_alpha(c C.char) C.double {
	return boolToDouble((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'))
}

//export eigen_is_alnum
func eigen_is_alnum(c C.char) C.double {
	return boolToDouble(eigen_is_alpha(c) != 0 || eigen_is_digit(c) != 0)
}

//export eigen_is_whitespace
func eigen_is_whitespace(c C.char) C.double {
	return boolToDouble(c == ' ' || c == '\t' || c == '\r' || c == '\n')
}

//export eigen_is_newline
func eigen_is_newline(c C.char) C.double { return boolToDouble(c == '\n') }

//export eigen_char_to_string
func eigen_char_to_string(c C.char) *C.eigen_S {
	s := allocString(1)
	*s.data = c
	return s
}

// isIntegerValued matches spec §4.R.2's integer-print rule exactly:
// value == trunc(value) and |value| < 2^53.
func isIntegerValued(v float64) bool {
	return v == math.Trunc(v) && math.Abs(v) < (1<<53)
}

func formatNumber(v float64) string {
	if isIntegerValued(v) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', 15, 64)
}

// eigen_number_to_string implements spec §4.R.3/§4.R.2's integer
// fast path, else "%.15g" (spec §9's adopted resolution of the
// %.15g-vs-%g open question).
//
//export eigen_number_to_string
func eigen_number_to_string(v C.double) *C.eigen_S {
	str := formatNumber(float64(v))
	return goStringToEigenS(str)
}

func goStringToEigenS(str string) *C.eigen_S {
	out := allocString(C.longlong(len(str)))
	if len(str) > 0 {
		C.memcpy(unsafe.Pointer(out.data), unsafe.Pointer(&[]byte(str)[0]), C.size_t(len(str)))
	}
	return out
}

// eigen_string_to_number returns NaN on total parse failure; a
// trailing-garbage prefix parse is NOT accepted (spec §4.R.3) — the
// whole string must parse as a float.
//
//export eigen_string_to_number
func eigen_string_to_number(s *C.eigen_S) C.double {
	str := string(goBytes(s))
	v, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return C.double(math.NaN())
	}
	return C.double(v)
}

// eigen_S_clone is a dropped-feature supplement (SPEC_FULL.md): an
// owned copy distinct from any cached literal pointer.
//
//export eigen_S_clone
func eigen_S_clone(s *C.eigen_S) *C.eigen_S {
	out := allocString(s.length)
	C.memcpy(unsafe.Pointer(out.data), unsafe.Pointer(s.data), C.size_t(s.length))
	return out
}

func printCString(data *C.char, length C.longlong) {
	b := unsafe.Slice((*byte)(unsafe.Pointer(data)), int(length))
	os.Stdout.Write(b)
}

func printDoubleValue(v float64) {
	fmt.Fprint(os.Stdout, formatNumber(v))
}
