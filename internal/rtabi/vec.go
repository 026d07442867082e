package rtabi

import (
	"fmt"
)

// Vec is a reference model of the runtime's untyped growable vector: a
// flat byte backing indexed by element stride. The real implementation
// lives behind kiln_vec_*; this model exists so the compiler side can
// state and test the storage contract it relies on, in particular that
// element i always lives at byte offset i*stride.
type Vec struct {
	stride int
	data   []byte
}

// NewVec creates an empty vector for elements of the given stride in
// bytes. Stride comes from the layout engine and is already
// alignment-padded; zero-stride elements are rejected.
func NewVec(stride int) (*Vec, error) {
	if stride <= 0 {
		return nil, fmt.Errorf("rtabi: invalid element stride %d", stride)
	}
	return &Vec{stride: stride}, nil
}

// Stride returns the element stride in bytes.
func (v *Vec) Stride() int {
	return v.stride
}

// Len returns the number of elements.
func (v *Vec) Len() int {
	return len(v.data) / v.stride
}

// Push appends one element. The element must be exactly one stride wide.
func (v *Vec) Push(elem []byte) error {
	if len(elem) != v.stride {
		return fmt.Errorf("rtabi: push of %d bytes into stride-%d vector", len(elem), v.stride)
	}
	v.data = append(v.data, elem...)
	return nil
}

// Get returns a copy of element i.
func (v *Vec) Get(i int) ([]byte, error) {
	if i < 0 || i >= v.Len() {
		return nil, fmt.Errorf("rtabi: index %d out of range [0, %d)", i, v.Len())
	}
	out := make([]byte, v.stride)
	copy(out, v.data[i*v.stride:])
	return out, nil
}

// Set overwrites element i.
func (v *Vec) Set(i int, elem []byte) error {
	if i < 0 || i >= v.Len() {
		return fmt.Errorf("rtabi: index %d out of range [0, %d)", i, v.Len())
	}
	if len(elem) != v.stride {
		return fmt.Errorf("rtabi: set of %d bytes into stride-%d vector", len(elem), v.stride)
	}
	copy(v.data[i*v.stride:], elem)
	return nil
}

// Pop removes and returns the last element. The second result is false
// when the vector is empty.
func (v *Vec) Pop() ([]byte, bool) {
	n := v.Len()
	if n == 0 {
		return nil, false
	}
	out := make([]byte, v.stride)
	copy(out, v.data[(n-1)*v.stride:])
	v.data = v.data[:(n-1)*v.stride]
	return out, true
}
