package main

/*
#include "abi.h"
*/
import "C"

import (
	"math"
	"unsafe"
)

// eigen_M_create allocates a zeroed row-major matrix (spec §3, §4.R.3).
//
//export eigen_M_create
func eigen_M_create(rows, cols C.longlong) *C.eigen_M {
	m := (*C.eigen_M)(C.malloc(C.size_t(unsafe.Sizeof(C.eigen_M{}))))
	cap := rows * cols
	if cap < 1 {
		cap = 1
	}
	m.data = (*C.double)(C.calloc(C.size_t(cap), C.size_t(unsafe.Sizeof(C.double(0)))))
	m.rows = rows
	m.cols = cols
	m.capacity = cap
	return m
}

//export eigen_M_destroy
func eigen_M_destroy(m *C.eigen_M) {
	if m == nil {
		return
	}
	C.free(unsafe.Pointer(m.data))
	C.free(unsafe.Pointer(m))
}

func matSlot(m *C.eigen_M, r, c C.longlong) *C.double {
	idx := r*m.cols + c
	return (*C.double)(unsafe.Add(unsafe.Pointer(m.data), uintptr(idx)*unsafe.Sizeof(C.double(0))))
}

//export eigen_M_zeros
func eigen_M_zeros(rows, cols C.longlong) *C.eigen_M { return eigen_M_create(rows, cols) }

//export eigen_M_ones
func eigen_M_ones(rows, cols C.longlong) *C.eigen_M {
	m := eigen_M_create(rows, cols)
	for i := C.longlong(0); i < rows*cols; i++ {
		*(*C.double)(unsafe.Add(unsafe.Pointer(m.data), uintptr(i)*unsafe.Sizeof(C.double(0)))) = 1
	}
	return m
}

//export eigen_M_identity
func eigen_M_identity(n C.longlong) *C.eigen_M {
	m := eigen_M_create(n, n)
	for i := C.longlong(0); i < n; i++ {
		*matSlot(m, i, i) = 1
	}
	return m
}

// lcgState is the process-wide RNG state S1 (spec §4.R.3: "LCG seed is
// process-wide state S1 ... deterministic per-process given same
// sequence of calls").
var lcgState uint64 = 0x2545F4914F6CDD1D

// Knuth's MMIX LCG constants; documented per spec §4.R.3.
const (
	lcgMultiplier = 6364136223846793005
	lcgIncrement  = 1442695040888963407
)

func lcgNext() float64 {
	lcgState = lcgState*lcgMultiplier + lcgIncrement
	// Take the high 53 bits for a uniform value in [0, 1).
	return float64(lcgState>>11) / float64(1<<53)
}

//export eigen_M_random
func eigen_M_random(rows, cols C.longlong) *C.eigen_M {
	m := eigen_M_create(rows, cols)
	for i := C.longlong(0); i < rows*cols; i++ {
		*(*C.double)(unsafe.Add(unsafe.Pointer(m.data), uintptr(i)*unsafe.Sizeof(C.double(0)))) = C.double(lcgNext())
	}
	return m
}

//export eigen_M_shape
func eigen_M_shape(m *C.eigen_M) *C.eigen_L {
	l := eigen_L_create(2)
	*listSlot(l, 0) = C.double(m.rows)
	*listSlot(l, 1) = C.double(m.cols)
	return l
}

//export eigen_M_transpose
func eigen_M_transpose(m *C.eigen_M) *C.eigen_M {
	out := eigen_M_create(m.cols, m.rows)
	for r := C.longlong(0); r < m.rows; r++ {
		for c := C.longlong(0); c < m.cols; c++ {
			*matSlot(out, c, r) = *matSlot(m, r, c)
		}
	}
	return out
}

// eigen_M_add returns a null handle (nil) on dimension mismatch per
// spec §3/§8 property 7's sibling contract for M_matmul.
//
//export eigen_M_add
func eigen_M_add(a, b *C.eigen_M) *C.eigen_M {
	if a.rows != b.rows || a.cols != b.cols {
		return nil
	}
	out := eigen_M_create(a.rows, a.cols)
	for r := C.longlong(0); r < a.rows; r++ {
		for c := C.longlong(0); c < a.cols; c++ {
			*matSlot(out, r, c) = *matSlot(a, r, c) + *matSlot(b, r, c)
		}
	}
	return out
}

//export eigen_M_scale
func eigen_M_scale(m *C.eigen_M, s C.double) *C.eigen_M {
	out := eigen_M_create(m.rows, m.cols)
	for r := C.longlong(0); r < m.rows; r++ {
		for c := C.longlong(0); c < m.cols; c++ {
			*matSlot(out, r, c) = *matSlot(m, r, c) * s
		}
	}
	return out
}

// eigen_M_matmul implements spec §8 property 7: returns null iff
// A.cols != B.rows.
//
//export eigen_M_matmul
func eigen_M_matmul(a, b *C.eigen_M) *C.eigen_M {
	if a.cols != b.rows {
		return nil
	}
	out := eigen_M_create(a.rows, b.cols)
	for r := C.longlong(0); r < a.rows; r++ {
		for c := C.longlong(0); c < b.cols; c++ {
			var sum C.double
			for k := C.longlong(0); k < a.cols; k++ {
				sum += *matSlot(a, r, k) * *matSlot(b, k, c)
			}
			*matSlot(out, r, c) = sum
		}
	}
	return out
}

//export eigen_M_sum
func eigen_M_sum(m *C.eigen_M) C.double {
	var sum C.double
	for i := C.longlong(0); i < m.rows*m.cols; i++ {
		sum += *(*C.double)(unsafe.Add(unsafe.Pointer(m.data), uintptr(i)*unsafe.Sizeof(C.double(0))))
	}
	return sum
}

//export eigen_M_mean
func eigen_M_mean(m *C.eigen_M) C.double {
	n := m.rows * m.cols
	if n == 0 {
		return 0
	}
	return eigen_M_sum(m) / C.double(n)
}

//export eigen_M_reshape
func eigen_M_reshape(m *C.eigen_M, rows, cols C.longlong) *C.eigen_M {
	if rows*cols != m.rows*m.cols {
		return nil
	}
	out := eigen_M_create(rows, cols)
	C.memcpy(unsafe.Pointer(out.data), unsafe.Pointer(m.data), C.size_t(rows*cols)*C.size_t(unsafe.Sizeof(C.double(0))))
	return out
}

// eigen_M_slice returns the row range [start, end) (spec §4.R.3).
//
//export eigen_M_slice
func eigen_M_slice(m *C.eigen_M, start, end C.longlong) *C.eigen_M {
	if start < 0 {
		start = 0
	}
	if end > m.rows {
		end = m.rows
	}
	if start > end {
		start = end
	}
	out := eigen_M_create(end-start, m.cols)
	C.memcpy(unsafe.Pointer(out.data), unsafe.Pointer(matSlot(m, start, 0)), C.size_t(end-start)*C.size_t(m.cols)*C.size_t(unsafe.Sizeof(C.double(0))))
	return out
}

// eigen_M_concat hstacks two matrices of equal row count (spec §4.R.3).
//
//export eigen_M_concat
func eigen_M_concat(a, b *C.eigen_M) *C.eigen_M {
	if a.rows != b.rows {
		return nil
	}
	out := eigen_M_create(a.rows, a.cols+b.cols)
	for r := C.longlong(0); r < a.rows; r++ {
		for c := C.longlong(0); c < a.cols; c++ {
			*matSlot(out, r, c) = *matSlot(a, r, c)
		}
		for c := C.longlong(0); c < b.cols; c++ {
			*matSlot(out, r, a.cols+c) = *matSlot(b, r, c)
		}
	}
	return out
}

//export eigen_M_dot
func eigen_M_dot(a, b *C.eigen_M) C.double {
	n := a.rows * a.cols
	var sum C.double
	for i := C.longlong(0); i < n; i++ {
		av := *(*C.double)(unsafe.Add(unsafe.Pointer(a.data), uintptr(i)*unsafe.Sizeof(C.double(0))))
		bv := *(*C.double)(unsafe.Add(unsafe.Pointer(b.data), uintptr(i)*unsafe.Sizeof(C.double(0))))
		sum += av * bv
	}
	return sum
}

//export eigen_M_argmax
func eigen_M_argmax(m *C.eigen_M) *C.eigen_L {
	out := eigen_L_create(m.rows)
	for r := C.longlong(0); r < m.rows; r++ {
		best := 0
		bestV := *matSlot(m, r, 0)
		for c := C.longlong(1); c < m.cols; c++ {
			v := *matSlot(m, r, c)
			if v > bestV {
				bestV = v
				best = int(c)
			}
		}
		*listSlot(out, r) = C.double(best)
	}
	return out
}

// --- activation / transformer helpers (spec §4.R.3) ---

//export eigen_relu
func eigen_relu(m *C.eigen_M) *C.eigen_M {
	out := eigen_M_create(m.rows, m.cols)
	for i := C.longlong(0); i < m.rows*m.cols; i++ {
		v := *(*C.double)(unsafe.Add(unsafe.Pointer(m.data), uintptr(i)*unsafe.Sizeof(C.double(0))))
		if v < 0 {
			v = 0
		}
		*(*C.double)(unsafe.Add(unsafe.Pointer(out.data), uintptr(i)*unsafe.Sizeof(C.double(0)))) = v
	}
	return out
}

// eigen_gelu uses the tanh approximation documented in spec §4.R.3.
//
//export eigen_gelu
func eigen_gelu(m *C.eigen_M) *C.eigen_M {
	const c = 0.7978845608028654 // sqrt(2/pi)
	out := eigen_M_create(m.rows, m.cols)
	for i := C.longlong(0); i < m.rows*m.cols; i++ {
		x := float64(*(*C.double)(unsafe.Add(unsafe.Pointer(m.data), uintptr(i)*unsafe.Sizeof(C.double(0)))))
		inner := c * (x + 0.044715*x*x*x)
		y := 0.5 * x * (1 + math.Tanh(inner))
		*(*C.double)(unsafe.Add(unsafe.Pointer(out.data), uintptr(i)*unsafe.Sizeof(C.double(0)))) = C.double(y)
	}
	return out
}

// eigen_softmax is row-wise with max-shift for numerical stability
// (spec §4.R.3).
//
//export eigen_softmax
func eigen_softmax(m *C.eigen_M) *C.eigen_M {
	out := eigen_M_create(m.rows, m.cols)
	for r := C.longlong(0); r < m.rows; r++ {
		max := float64(*matSlot(m, r, 0))
		for c := C.longlong(1); c < m.cols; c++ {
			v := float64(*matSlot(m, r, c))
			if v > max {
				max = v
			}
		}
		var sum float64
		for c := C.longlong(0); c < m.cols; c++ {
			e := math.Exp(float64(*matSlot(m, r, c)) - max)
			*matSlot(out, r, c) = C.double(e)
			sum += e
		}
		for c := C.longlong(0); c < m.cols; c++ {
			*matSlot(out, r, c) = C.double(float64(*matSlot(out, r, c)) / sum)
		}
	}
	return out
}

const layerNormEpsilon = 1e-5

// eigen_layer_norm normalizes each row to zero mean/unit variance with
// epsilon 1e-5 (spec §4.R.3).
//
//export eigen_layer_norm
func eigen_layer_norm(m *C.eigen_M) *C.eigen_M {
	out := eigen_M_create(m.rows, m.cols)
	n := float64(m.cols)
	for r := C.longlong(0); r < m.rows; r++ {
		var mean float64
		for c := C.longlong(0); c < m.cols; c++ {
			mean += float64(*matSlot(m, r, c))
		}
		mean /= n
		var variance float64
		for c := C.longlong(0); c < m.cols; c++ {
			d := float64(*matSlot(m, r, c)) - mean
			variance += d * d
		}
		variance /= n
		denom := math.Sqrt(variance + layerNormEpsilon)
		for c := C.longlong(0); c < m.cols; c++ {
			*matSlot(out, r, c) = C.double((float64(*matSlot(m, r, c)) - mean) / denom)
		}
	}
	return out
}

// eigen_embedding_lookup gathers rows of a table matrix by index list.
//
//export eigen_embedding_lookup
func eigen_embedding_lookup(table *C.eigen_M, indices *C.eigen_L) *C.eigen_M {
	n := indices.length
	out := eigen_M_create(n, table.cols)
	for i := C.longlong(0); i < n; i++ {
		row := C.longlong(*listSlot(indices, i))
		for c := C.longlong(0); c < table.cols; c++ {
			*matSlot(out, i, c) = *matSlot(table, row, c)
		}
	}
	return out
}

// eigen_sinusoidal_pe builds the standard transformer sinusoidal
// positional-encoding table of shape (length, dim).
//
//export eigen_sinusoidal_pe
func eigen_sinusoidal_pe(length, dim C.longlong) *C.eigen_M {
	out := eigen_M_create(length, dim)
	for pos := C.longlong(0); pos < length; pos++ {
		for i := C.longlong(0); i < dim; i += 2 {
			rate := 1.0 / math.Pow(10000, float64(i)/float64(dim))
			angle := float64(pos) * rate
			*matSlot(out, pos, i) = C.double(math.Sin(angle))
			if i+1 < dim {
				*matSlot(out, pos, i+1) = C.double(math.Cos(angle))
			}
		}
	}
	return out
}

const causalMaskFill = -1e9

// eigen_causal_mask sets the strict upper triangle to -1e9 (spec §4.R.3).
//
//export eigen_causal_mask
func eigen_causal_mask(m *C.eigen_M) *C.eigen_M {
	out := eigen_M_create(m.rows, m.cols)
	C.memcpy(unsafe.Pointer(out.data), unsafe.Pointer(m.data), C.size_t(m.rows*m.cols)*C.size_t(unsafe.Sizeof(C.double(0))))
	for r := C.longlong(0); r < m.rows; r++ {
		for c := r + 1; c < m.cols; c++ {
			*matSlot(out, r, c) = causalMaskFill
		}
	}
	return out
}
