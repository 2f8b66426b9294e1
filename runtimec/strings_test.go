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

func TestStringEqualsMatchesSpec(t *testing.T) {
	a := eigen_S_from_cstr(C.CString("hello"))
	b := eigen_S_from_cstr(C.CString("hello"))
	c := eigen_S_from_cstr(C.CString("world"))
	require.NotZero(t, float64(eigen_S_equals(a, b)))
	require.Zero(t, float64(eigen_S_equals(a, c)))
}

func TestStringConcatEmptyIdentity(t *testing.T) {
	a := eigen_S_from_cstr(C.CString("abc"))
	empty := eigen_S_empty(0)
	out := eigen_S_concat(a, empty)
	require.NotZero(t, float64(eigen_S_equals(a, out)))
}

func TestStringCharAtOutOfRange(t *testing.T) {
	s := eigen_S_from_cstr(C.CString("ab"))
	require.EqualValues(t, -1, eigen_S_char_at(s, 5))
	require.EqualValues(t, -1, eigen_S_char_at(s, -1))
	require.EqualValues(t, 'a', eigen_S_char_at(s, 0))
}

func TestStringSubstringClamping(t *testing.T) {
	s := eigen_S_from_cstr(C.CString("hello"))
	require.EqualValues(t, 0, eigen_S_substring(s, 10, 3).length)
	clamped := eigen_S_substring(s, 2, 100)
	require.EqualValues(t, 3, clamped.length) // "llo"
}

func TestStringFind(t *testing.T) {
	hay := eigen_S_from_cstr(C.CString("abcabc"))
	needle := eigen_S_from_cstr(C.CString("bc"))
	require.EqualValues(t, 1, eigen_S_find(hay, needle, 0))
	require.EqualValues(t, 4, eigen_S_find(hay, needle, 2))
	require.EqualValues(t, -1, eigen_S_find(hay, eigen_S_from_cstr(C.CString("zz")), 0))
}

// TestNumberStringRoundTrip checks spec §8's round-trip law for
// integer-valued doubles on [-2^53, 2^53].
func TestNumberStringRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 1, -1, 42, 1 << 52} {
		s := eigen_number_to_string(C.double(v))
		got := eigen_string_to_number(s)
		require.Equal(t, v, float64(got))
	}
}

func TestIntegerFormattingHasNoDecimalPoint(t *testing.T) {
	require.Equal(t, "42", formatNumber(42))
	require.NotEqual(t, "42", formatNumber(42.5))
}

func TestStringToNumberNaNOnFailure(t *testing.T) {
	s := eigen_S_from_cstr(C.CString("not a number"))
	require.True(t, math.IsNaN(float64(eigen_string_to_number(s))))
}

func TestStringToNumberRejectsPartialParse(t *testing.T) {
	s := eigen_S_from_cstr(C.CString("42abc"))
	require.True(t, math.IsNaN(float64(eigen_string_to_number(s))))
}
