// Package featurize provides data-transformation components with a
// fit/transform contract, using core.Value as their input/output currency.
//
// Each Transformer learns its parameters from a sample of values (Fit) and
// then maps values one at a time (Transform). Transformers operate on
// dense float32 tensors of a fixed length; values of any other identity
// are rejected with the container's own mismatch error.
//
// Available components:
//   - MinMaxScaler: rescale each position into [0, 1]
//   - StandardScaler: center and scale each position to unit variance
//   - Imputer: replace NaN with the per-position mean seen during Fit
//   - Pipeline: ordered composition with concurrent batch transform
package featurize

import (
	"context"

	"github.com/pkg/errors"

	"github.com/axonml/axon/core"
	"github.com/axonml/axon/tensor"
	"github.com/axonml/axon/types"
)

// ErrNotFitted is returned by Transform when Fit has not run.
var ErrNotFitted = errors.New("featurize: transformer not fitted")

// Transformer is the fit/transform contract. Fit learns parameters from a
// sample of values; Transform maps one value to a new value, leaving the
// input untouched. Implementations are safe for concurrent Transform after
// Fit has returned.
type Transformer interface {
	Name() string
	Fit(ctx context.Context, samples []*core.Value) error
	Transform(ctx context.Context, in *core.Value) (*core.Value, error)
}

// denseInput unwraps the float32 feature vector a transformer operates on.
func denseInput(v *core.Value) (*tensor.Dense[float32], error) {
	return core.Get[tensor.Dense[float32]](v)
}

// denseOutput wraps a transformed feature vector back into a Value. The
// payload is heap-allocated and garbage-collected, so no deleter is bound.
func denseOutput(shape []int, data []float32) (*core.Value, error) {
	t, err := tensor.NewDense(shape, data)
	if err != nil {
		return nil, err
	}
	return core.NewValue(t, types.Of[tensor.Dense[float32]](), nil), nil
}

// fitVectors collects the sample vectors for Fit, enforcing one common
// length.
func fitVectors(samples []*core.Value) ([][]float32, int, error) {
	if len(samples) == 0 {
		return nil, 0, errors.New("featurize: empty fit sample")
	}
	vecs := make([][]float32, len(samples))
	width := -1
	for i, v := range samples {
		t, err := denseInput(v)
		if err != nil {
			return nil, 0, errors.Wrapf(err, "featurize: fit sample %d", i)
		}
		if width < 0 {
			width = t.Len()
		} else if t.Len() != width {
			return nil, 0, errors.Errorf("featurize: fit sample %d has %d features, want %d", i, t.Len(), width)
		}
		vecs[i] = t.Data()
	}
	return vecs, width, nil
}
