// Package tensor provides the n-dimensional float64 array shared by the
// distance, loss and confusion packages.
//
// Arrays are stored row-major (the last axis varies fastest), matching the
// channel-first layout produced by the imaging package: a grayscale image is
// (1, H, W), a stacked volume is (D, H, W), a training batch is
// (B, C, spatial...).
//
// None of the operations in this repository mutate an Array passed to them;
// they always return a fresh one. An Array may therefore be shared between
// goroutines as long as nobody calls Set on it.
package tensor

import (
	"fmt"
)

// Array is a dense n-dimensional array of float64 values.
type Array struct {
	shape   []int
	strides []int
	data    []float64
}

// New allocates a zero-filled array with the given shape.
//
// Every extent must be at least 1 and at least one extent is required.
func New(shape ...int) (*Array, error) {
	n, err := volume(shape)
	if err != nil {
		return nil, err
	}
	return &Array{
		shape:   append([]int(nil), shape...),
		strides: stridesFor(shape),
		data:    make([]float64, n),
	}, nil
}

// MustNew is like New but panics on an invalid shape. Intended for tests and
// package-level fixtures.
func MustNew(shape ...int) *Array {
	a, err := New(shape...)
	if err != nil {
		panic(err)
	}
	return a
}

// FromSlice wraps a copy of data in an array of the given shape.
func FromSlice(data []float64, shape ...int) (*Array, error) {
	n, err := volume(shape)
	if err != nil {
		return nil, err
	}
	if len(data) != n {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)", len(data), shape, n)
	}
	return &Array{
		shape:   append([]int(nil), shape...),
		strides: stridesFor(shape),
		data:    append([]float64(nil), data...),
	}, nil
}

// MustFromSlice is like FromSlice but panics on error.
func MustFromSlice(data []float64, shape ...int) *Array {
	a, err := FromSlice(data, shape...)
	if err != nil {
		panic(err)
	}
	return a
}

// ZerosLike returns a zero-filled array with the same shape as a.
func ZerosLike(a *Array) *Array {
	return &Array{
		shape:   append([]int(nil), a.shape...),
		strides: append([]int(nil), a.strides...),
		data:    make([]float64, len(a.data)),
	}
}

// Shape returns a copy of the array's extents.
func (a *Array) Shape() []int {
	return append([]int(nil), a.shape...)
}

// Strides returns a copy of the row-major strides, in elements.
func (a *Array) Strides() []int {
	return append([]int(nil), a.strides...)
}

// Rank is the number of axes.
func (a *Array) Rank() int {
	return len(a.shape)
}

// Len is the total number of elements.
func (a *Array) Len() int {
	return len(a.data)
}

// Data exposes the backing slice. Callers that received the array from this
// repository own it; callers must not write through Data of an array they
// passed in to an operation that is still running.
func (a *Array) Data() []float64 {
	return a.data
}

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	return &Array{
		shape:   append([]int(nil), a.shape...),
		strides: append([]int(nil), a.strides...),
		data:    append([]float64(nil), a.data...),
	}
}

// Offset converts a multi-index into a flat offset into Data.
func (a *Array) Offset(idx ...int) (int, error) {
	if len(idx) != len(a.shape) {
		return 0, fmt.Errorf("index %v has rank %d, array has rank %d", idx, len(idx), len(a.shape))
	}
	off := 0
	for i, v := range idx {
		if v < 0 || v >= a.shape[i] {
			return 0, fmt.Errorf("index %v outside shape %v", idx, a.shape)
		}
		off += v * a.strides[i]
	}
	return off, nil
}

// At returns the element at the given multi-index. It panics when the index
// is out of range, like slice indexing.
func (a *Array) At(idx ...int) float64 {
	off, err := a.Offset(idx...)
	if err != nil {
		panic(err)
	}
	return a.data[off]
}

// Set stores v at the given multi-index. It panics when the index is out of
// range.
func (a *Array) Set(v float64, idx ...int) {
	off, err := a.Offset(idx...)
	if err != nil {
		panic(err)
	}
	a.data[off] = v
}

// SameShape reports whether a and b have identical extents.
func (a *Array) SameShape(b *Array) bool {
	return EqualShape(a.shape, b.shape)
}

// Count returns how many elements satisfy pred.
func (a *Array) Count(pred func(float64) bool) int {
	n := 0
	for _, v := range a.data {
		if pred(v) {
			n++
		}
	}
	return n
}

// EqualShape reports whether two shapes have the same rank and extents.
func EqualShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func volume(shape []int) (int, error) {
	if len(shape) == 0 {
		return 0, fmt.Errorf("shape must have at least one axis")
	}
	n := 1
	for _, s := range shape {
		if s < 1 {
			return 0, fmt.Errorf("invalid shape %v: every extent must be >= 1", shape)
		}
		n *= s
	}
	return n, nil
}

func stridesFor(shape []int) []int {
	strides := make([]int, len(shape))
	step := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = step
		step *= shape[i]
	}
	return strides
}
