package core

import (
	"errors"
	"fmt"

	"github.com/axonml/axon/types"
)

// ErrTypeMismatch matches every typed-access failure via errors.Is.
var ErrTypeMismatch = errors.New("type mismatch")

// TypeMismatchError is the single failure kind of the container: a typed
// or categorical accessor was invoked against an identity that does not
// satisfy the requested exact type or family. It is always synchronous and
// always raised at the call site; a mismatch is a programming error, never
// a transient condition, so nothing in this package retries or recovers.
//
// Accessing an unallocated container is the degenerate case: a mismatch
// against a nil actual identity.
type TypeMismatchError struct {
	// Expected is the canonical identity an exact accessor demanded.
	// Nil when a categorical accessor failed; see ExpectedFamily.
	Expected *types.DataType

	// ExpectedFamily names the family a categorical accessor demanded.
	// FamilyOpaque when an exact accessor failed; see Expected.
	ExpectedFamily types.Family

	// Actual is the container's identity at the time of the call; nil for
	// an unallocated container.
	Actual *types.DataType
}

func (e *TypeMismatchError) Error() string {
	if e.ExpectedFamily != types.FamilyOpaque {
		return fmt.Sprintf("trying to get a %s, but got: %s", e.ExpectedFamily, e.Actual)
	}
	return fmt.Sprintf("%s != %s", e.Expected, e.Actual)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }
