package tensor

import (
	"github.com/pkg/errors"

	"github.com/axonml/axon/types"
)

// TensorSequence spans every Sequence instantiation.
type TensorSequence interface {
	Len() int
	ElemKind() string

	sequenceMarker()
}

// Sequence is an ordered collection of dense tensors sharing one element
// type. Members may differ in shape.
type Sequence[E Elem] struct {
	tensors []*Dense[E]
}

// NewSequence builds a tensor sequence. Nil members are rejected.
func NewSequence[E Elem](tensors ...*Dense[E]) (*Sequence[E], error) {
	for i, t := range tensors {
		if t == nil {
			return nil, errors.Errorf("tensor: nil member at position %d", i)
		}
	}
	return &Sequence[E]{tensors: tensors}, nil
}

// Len returns the number of tensors in the sequence.
func (s *Sequence[E]) Len() int { return len(s.tensors) }

// At returns the i-th tensor.
func (s *Sequence[E]) At(i int) *Dense[E] { return s.tensors[i] }

// Append adds a tensor to the end of the sequence.
func (s *Sequence[E]) Append(t *Dense[E]) error {
	if t == nil {
		return errors.New("tensor: nil member")
	}
	s.tensors = append(s.tensors, t)
	return nil
}

// ElemKind returns the element type name, for diagnostics.
func (s *Sequence[E]) ElemKind() string { return elemKind[E]() }

func (*Sequence[E]) sequenceMarker() {}

// TypeFamily tags every Sequence instantiation as a tensor-sequence member.
func (Sequence[E]) TypeFamily() types.Family { return types.FamilyTensorSequence }

// TypeName reports the diagnostic name used by the identity registry.
func (Sequence[E]) TypeName() string { return "seq<" + elemKind[E]() + ">" }
