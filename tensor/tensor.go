// Package tensor provides the concrete categorical payload families
// carried by core.Value: dense tensors, sparse tensors in coordinate
// format, and tensor sequences.
//
// Each family spans many concrete element-type instantiations (a dense
// tensor of float32 and a dense tensor of int64 are distinct identities in
// the types registry) but satisfies one spanning interface so generic
// consumers can handle any member without knowing the element type.
//
// The package holds data and shape only. It performs no arithmetic; math
// kernels belong to the execution providers that consume these payloads.
package tensor

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"

	"github.com/axonml/axon/types"
)

// Elem is the closed set of element types the engine moves between nodes.
type Elem interface {
	~float32 | ~float64 | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Tensor spans every Dense instantiation. It exposes shape and diagnostics
// only; typed data access requires the concrete Dense[E].
type Tensor interface {
	Shape() []int
	Len() int
	ElemKind() string

	tensorMarker()
}

// Dense is a dense tensor: a shape and a flat, row-major backing slice.
type Dense[E Elem] struct {
	shape []int
	data  []E
}

// NewDense wraps data in a tensor of the given shape. The data slice is
// adopted, not copied; len(data) must equal the shape volume.
func NewDense[E Elem](shape []int, data []E) (*Dense[E], error) {
	n := volume(shape)
	if n != len(data) {
		return nil, errors.Errorf("tensor: shape %v wants %d elements, data has %d", shape, n, len(data))
	}
	return &Dense[E]{shape: shape, data: data}, nil
}

// Shape returns the tensor's dimensions. The caller must not mutate it.
func (t *Dense[E]) Shape() []int { return t.shape }

// Len returns the total element count.
func (t *Dense[E]) Len() int { return len(t.data) }

// Data returns the flat backing slice.
func (t *Dense[E]) Data() []E { return t.data }

// At returns the element at the given multi-dimensional index.
func (t *Dense[E]) At(idx ...int) E { return t.data[t.offset(idx)] }

// SetAt stores v at the given multi-dimensional index.
func (t *Dense[E]) SetAt(v E, idx ...int) { t.data[t.offset(idx)] = v }

func (t *Dense[E]) offset(idx []int) int {
	if len(idx) != len(t.shape) {
		panic(fmt.Sprintf("tensor: index rank %d against shape %v", len(idx), t.shape))
	}
	off := 0
	for i, x := range idx {
		if x < 0 || x >= t.shape[i] {
			panic(fmt.Sprintf("tensor: index %v out of range for shape %v", idx, t.shape))
		}
		off = off*t.shape[i] + x
	}
	return off
}

// ElemKind returns the element type name, for diagnostics.
func (t *Dense[E]) ElemKind() string { return elemKind[E]() }

func (*Dense[E]) tensorMarker() {}

// TypeFamily tags every Dense instantiation as a tensor-family member.
func (Dense[E]) TypeFamily() types.Family { return types.FamilyTensor }

// TypeName reports the diagnostic name used by the identity registry.
func (Dense[E]) TypeName() string { return "tensor<" + elemKind[E]() + ">" }

func elemKind[E Elem]() string {
	return reflect.TypeOf((*E)(nil)).Elem().String()
}

func volume(shape []int) int {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return -1
		}
		n *= d
	}
	return n
}
