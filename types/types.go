// Package types implements the process-wide type identity registry for the
// axon value layer.
//
// Every payload kind that flows through a core.Value is represented by a
// canonical *DataType handle. Handles are issued lazily on first use, are
// stable for the lifetime of the process, and are compared by pointer
// identity, never by structural equality. The registry also answers the
// capability questions the generic value accessors need: whether an
// identity belongs to the tensor, tensor-sequence, or sparse-tensor family.
//
// Key components:
//   - DataType: opaque, pointer-stable identity handle
//   - Of: lazy, thread-safe, idempotent identity lookup per concrete type
//   - Family / FamilyMember: categorical family tagging for payload types
//
// The registry is read-only once an identity has been issued and may be
// used from any goroutine without synchronization.
package types

import (
	"reflect"
	"sort"
	"sync"
)

// Family classifies an identity into one of the categorical payload
// families understood by the generic value accessors. Most registered
// types are FamilyOpaque; only the three tensor families receive special
// dispatch.
type Family uint8

const (
	FamilyOpaque Family = iota
	FamilyTensor
	FamilyTensorSequence
	FamilySparseTensor
)

// String returns the family name used in diagnostics.
func (f Family) String() string {
	switch f {
	case FamilyTensor:
		return "tensor"
	case FamilyTensorSequence:
		return "tensor sequence"
	case FamilySparseTensor:
		return "sparse tensor"
	default:
		return "opaque"
	}
}

// FamilyMember is implemented by payload types that belong to one of the
// categorical families. Membership is read once, at registration, via a
// zero value of the type; TypeFamily must therefore be a pure function of
// the type, not of instance state.
type FamilyMember interface {
	TypeFamily() Family
}

// TypeNamer optionally overrides the diagnostic name of a payload type.
// Without it the Go type string is used.
type TypeNamer interface {
	TypeName() string
}

// DataType is the canonical identity of one concrete payload type.
// Two containers hold the same type iff their *DataType handles are
// pointer-equal. A nil *DataType means "unallocated" and answers false to
// every capability predicate.
type DataType struct {
	name   string
	family Family
	gotype reflect.Type
}

// String returns the human-readable name of the identity. Diagnostics
// only; never use names for comparison.
func (dt *DataType) String() string {
	if dt == nil {
		return "<nil>"
	}
	return dt.name
}

// Family returns the categorical family of the identity.
func (dt *DataType) Family() Family {
	if dt == nil {
		return FamilyOpaque
	}
	return dt.family
}

// IsTensor reports whether the identity is a member of the tensor family.
func (dt *DataType) IsTensor() bool {
	return dt != nil && dt.family == FamilyTensor
}

// IsTensorSequence reports whether the identity is a member of the
// tensor-sequence family.
func (dt *DataType) IsTensorSequence() bool {
	return dt != nil && dt.family == FamilyTensorSequence
}

// IsSparseTensor reports whether the identity is a member of the
// sparse-tensor family.
func (dt *DataType) IsSparseTensor() bool {
	return dt != nil && dt.family == FamilySparseTensor
}

// GoType returns the reflected Go type the identity was issued for.
func (dt *DataType) GoType() reflect.Type {
	if dt == nil {
		return nil
	}
	return dt.gotype
}

// registry maps reflect.Type to its issued *DataType. LoadOrStore keeps
// handles pointer-stable even when two goroutines race on first use.
var registry sync.Map

// Of returns the canonical identity handle for the concrete type T,
// registering it on first use. Calls are cheap after registration and the
// returned pointer is the same for the lifetime of the process.
func Of[T any]() *DataType {
	return of(reflect.TypeOf((*T)(nil)).Elem())
}

func of(rt reflect.Type) *DataType {
	if dt, ok := registry.Load(rt); ok {
		return dt.(*DataType)
	}

	dt := &DataType{
		name:   rt.String(),
		family: FamilyOpaque,
		gotype: rt,
	}

	// Family and name markers are probed on an addressable zero value so
	// both value and pointer receivers are seen.
	zero := reflect.New(rt).Interface()
	if m, ok := zero.(FamilyMember); ok {
		dt.family = m.TypeFamily()
	}
	if n, ok := zero.(TypeNamer); ok {
		dt.name = n.TypeName()
	}

	actual, _ := registry.LoadOrStore(rt, dt)
	return actual.(*DataType)
}

// Registered returns a snapshot of every identity issued so far, sorted by
// name. Intended for inspection tooling, not for dispatch.
func Registered() []*DataType {
	var out []*DataType
	registry.Range(func(_, v any) bool {
		out = append(out, v.(*DataType))
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}
