package tensor

import (
	"github.com/pkg/errors"

	"github.com/axonml/axon/types"
)

// SparseTensor spans every Sparse instantiation.
type SparseTensor interface {
	Shape() []int
	NNZ() int
	ElemKind() string

	sparseMarker()
}

// Sparse is a sparse tensor in coordinate (COO) format: one row of indices
// per non-zero element, each row holding one coordinate per dimension.
type Sparse[E Elem] struct {
	shape   []int
	values  []E
	indices [][]int
}

// NewSparse builds a COO sparse tensor. values and indices must have equal
// length and every index row must match the shape's rank.
func NewSparse[E Elem](shape []int, values []E, indices [][]int) (*Sparse[E], error) {
	if len(values) != len(indices) {
		return nil, errors.Errorf("tensor: %d values against %d index rows", len(values), len(indices))
	}
	for i, row := range indices {
		if len(row) != len(shape) {
			return nil, errors.Errorf("tensor: index row %d has rank %d, shape %v wants %d", i, len(row), shape, len(shape))
		}
		for d, x := range row {
			if x < 0 || x >= shape[d] {
				return nil, errors.Errorf("tensor: index row %d = %v out of range for shape %v", i, row, shape)
			}
		}
	}
	return &Sparse[E]{shape: shape, values: values, indices: indices}, nil
}

// Shape returns the dense shape the sparse tensor addresses.
func (s *Sparse[E]) Shape() []int { return s.shape }

// NNZ returns the number of stored non-zero elements.
func (s *Sparse[E]) NNZ() int { return len(s.values) }

// Values returns the non-zero values in storage order.
func (s *Sparse[E]) Values() []E { return s.values }

// Indices returns the coordinate rows, parallel to Values.
func (s *Sparse[E]) Indices() [][]int { return s.indices }

// ElemKind returns the element type name, for diagnostics.
func (s *Sparse[E]) ElemKind() string { return elemKind[E]() }

func (*Sparse[E]) sparseMarker() {}

// TypeFamily tags every Sparse instantiation as a sparse-tensor member.
func (Sparse[E]) TypeFamily() types.Family { return types.FamilySparseTensor }

// TypeName reports the diagnostic name used by the identity registry.
func (Sparse[E]) TypeName() string { return "sparse<" + elemKind[E]() + ">" }
