// Package core provides the Value container: the type-erased,
// shared-ownership box through which payloads travel between computation
// nodes.
//
// A Value carries three things: a payload published through an atomic
// reference-counted cell, the payload's canonical type identity, and an
// optional device fence signalling asynchronous completion of the
// payload's contents. Copies of a Value share the payload; the deleter
// bound at Init runs exactly once, when the last owning copy releases.
//
// Key components:
//   - Value: the container, with lock-free copy/release semantics
//   - Get / GetMutable: exact-identity typed access
//   - Tensor / TensorSequence / SparseTensor: family-checked access
//   - Fence: the opaque completion-signal contract
//
// Concurrency contract: Assign, Clone, Release and IsAllocated are safe to
// invoke concurrently on different Value instances that share payload
// state. Mutating one shared instance from several goroutines is not
// race-free beyond the atomicity of the payload cell itself - identity and
// fence travel as plain fields, so a concurrent writer can produce an
// observer that sees a payload from one revision paired with a fence from
// another. Give each goroutine its own Clone.
package core

import (
	"sync/atomic"

	"github.com/axonml/axon/tensor"
	"github.com/axonml/axon/types"
)

// DeleteFunc releases a payload. It is bound once at Init, carried with
// the shared payload record, and invoked exactly once when the reference
// count reaches zero - on whichever goroutine happens to release last, so
// it must not assume thread affinity. A nil DeleteFunc means the payload
// is garbage-collected normally.
type DeleteFunc func(payload any)

// shared is the reference-counted payload record. One record is created
// per Init and shared, never mutated, by every Value copy descending from
// it.
type shared struct {
	payload any
	del     DeleteFunc
	refs    atomic.Int64
}

func newShared(payload any, del DeleteFunc) *shared {
	s := &shared{payload: payload, del: del}
	s.refs.Store(1)
	return s
}

func (s *shared) retain() { s.refs.Add(1) }

func (s *shared) release() {
	if s.refs.Add(-1) == 0 && s.del != nil {
		s.del(s.payload)
	}
}

// Value is the type-erased container for a single payload. The zero Value
// is unallocated and ready for use. Values must not be copied with =;
// share them with Clone or Assign so ownership is accounted.
type Value struct {
	cell  atomic.Pointer[shared]
	typ   *types.DataType
	fence Fence
}

// NewValue constructs an allocated Value wrapping payload with its
// canonical identity and release action. See Init for the contract.
func NewValue(payload any, dt *types.DataType, del DeleteFunc) *Value {
	v := new(Value)
	v.Init(payload, dt, del)
	return v
}

// Init installs a fresh shared-ownership record wrapping payload, with del
// as its release action, and records the identity. payload and dt are
// either both nil (degenerate, behaves as empty) or both non-nil; payload
// must be a pointer whose pointee type matches dt exactly. The container
// does not validate that binding - the caller supplies the canonical
// identity for the payload's true layout, and a wrong pairing surfaces
// only at access time. Any previously held payload is released.
func (v *Value) Init(payload any, dt *types.DataType, del DeleteFunc) {
	var s *shared
	if payload != nil {
		s = newShared(payload, del)
	}
	old := v.cell.Swap(s)
	v.typ = dt
	if old != nil {
		old.release()
	}
}

// IsAllocated reports whether the container holds both a payload and an
// identity; either alone is not meaningful. Side-effect free and safe to
// call concurrently with Assign and Release on sharing copies.
func (v *Value) IsAllocated() bool {
	return v.cell.Load() != nil && v.typ != nil
}

// Type returns the container's identity handle, or nil when unallocated.
func (v *Value) Type() *types.DataType { return v.typ }

// Assign gives v exactly src's (payload, identity, fence) triple, sharing
// ownership of the payload. The payload cell is snapshotted and published
// atomically; identity and fence are copied as plain fields (see the
// package concurrency contract). Self-assignment is a no-op. Returns v.
func (v *Value) Assign(src *Value) *Value {
	if v == src {
		return v
	}
	s := src.cell.Load()
	if s != nil {
		s.retain()
	}
	old := v.cell.Swap(s)
	v.typ = src.typ
	v.fence = src.fence
	if old != nil {
		old.release()
	}
	return v
}

// Clone returns a new Value sharing v's payload, identity and fence.
func (v *Value) Clone() *Value {
	return new(Value).Assign(v)
}

// Release drops v's reference to the shared payload. When the last owning
// copy releases, the deleter bound at Init runs exactly once. The identity
// is retained, but the container reads as unallocated afterwards. Release
// on an empty container is a no-op; releasing twice drops only one
// reference.
func (v *Value) Release() {
	if old := v.cell.Swap(nil); old != nil {
		old.release()
	}
}

// IsTensor reports whether the identity is a tensor-family member.
// Null-safe: false when unallocated.
func (v *Value) IsTensor() bool { return v.typ.IsTensor() }

// IsTensorSequence reports whether the identity is a tensor-sequence
// member. Null-safe: false when unallocated.
func (v *Value) IsTensorSequence() bool { return v.typ.IsTensorSequence() }

// IsSparseTensor reports whether the identity is a sparse-tensor member.
// Null-safe: false when unallocated.
func (v *Value) IsSparseTensor() bool { return v.typ.IsSparseTensor() }

// Fence returns the attached completion fence, or nil.
func (v *Value) Fence() Fence { return v.fence }

// SetFence attaches or replaces the completion fence.
func (v *Value) SetFence(f Fence) { v.fence = f }

// ShareFenceWith adopts other's fence handle, so producer/consumer pairs
// observe the same completion signal without re-issuing work.
func (v *Value) ShareFenceWith(other *Value) { v.fence = other.fence }

// Get returns the payload as *T. The container's identity must equal the
// canonical identity of T exactly; otherwise a *TypeMismatchError naming
// both identities is returned. Accessing an unallocated container is the
// degenerate mismatch against a nil identity.
func Get[T any](v *Value) (*T, error) {
	want := types.Of[T]()
	if v.typ != want {
		return nil, &TypeMismatchError{Expected: want, Actual: v.typ}
	}
	s := v.cell.Load()
	if s == nil {
		return nil, &TypeMismatchError{Expected: want}
	}
	return s.payload.(*T), nil
}

// GetMutable is Get for writers. It performs no fence wait and no
// exclusivity check: the caller is solely responsible for having observed
// fence completion and for not racing other readers or writers on the
// payload. This is a deliberate low-overhead contract, not a safety
// guarantee.
func GetMutable[T any](v *Value) (*T, error) {
	return Get[T](v)
}

// Tensor returns the payload through the tensor-family interface. Unlike
// Get, membership is decided by the family predicate on the identity, so
// any element-type instantiation satisfies it.
func (v *Value) Tensor() (tensor.Tensor, error) {
	if !v.typ.IsTensor() {
		return nil, &TypeMismatchError{ExpectedFamily: types.FamilyTensor, Actual: v.typ}
	}
	s := v.cell.Load()
	if s == nil {
		return nil, &TypeMismatchError{ExpectedFamily: types.FamilyTensor}
	}
	return s.payload.(tensor.Tensor), nil
}

// TensorSequence returns the payload through the tensor-sequence-family
// interface.
func (v *Value) TensorSequence() (tensor.TensorSequence, error) {
	if !v.typ.IsTensorSequence() {
		return nil, &TypeMismatchError{ExpectedFamily: types.FamilyTensorSequence, Actual: v.typ}
	}
	s := v.cell.Load()
	if s == nil {
		return nil, &TypeMismatchError{ExpectedFamily: types.FamilyTensorSequence}
	}
	return s.payload.(tensor.TensorSequence), nil
}

// SparseTensor returns the payload through the sparse-tensor-family
// interface.
func (v *Value) SparseTensor() (tensor.SparseTensor, error) {
	if !v.typ.IsSparseTensor() {
		return nil, &TypeMismatchError{ExpectedFamily: types.FamilySparseTensor, Actual: v.typ}
	}
	s := v.cell.Load()
	if s == nil {
		return nil, &TypeMismatchError{ExpectedFamily: types.FamilySparseTensor}
	}
	return s.payload.(tensor.SparseTensor), nil
}
