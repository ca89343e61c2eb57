package types_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axonml/axon/tensor"
	"github.com/axonml/axon/types"
)

type opaquePayload struct {
	blob []byte
}

func TestOfIsPointerStable(t *testing.T) {
	t.Parallel()
	a := types.Of[tensor.Dense[float32]]()
	b := types.Of[tensor.Dense[float32]]()
	require.NotNil(t, a)
	assert.Same(t, a, b, "identities are singletons per concrete type")
}

func TestOfDistinguishesInstantiations(t *testing.T) {
	t.Parallel()
	f32 := types.Of[tensor.Dense[float32]]()
	f64 := types.Of[tensor.Dense[float64]]()
	i64 := types.Of[tensor.Dense[int64]]()

	assert.NotSame(t, f32, f64)
	assert.NotSame(t, f32, i64)
	assert.NotSame(t, f64, i64)
}

func TestOfConcurrentFirstUse(t *testing.T) {
	t.Parallel()
	const goroutines = 32

	// A type nothing else in the test binary touches, so every goroutine
	// races on first registration.
	type fresh struct{ _ [3]uint64 }

	var wg sync.WaitGroup
	got := make([]*types.DataType, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = types.Of[fresh]()
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		assert.Same(t, got[0], got[i])
	}
}

func TestFamilyPredicates(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		dt       *types.DataType
		family   types.Family
		tensor   bool
		sequence bool
		sparse   bool
	}{
		{
			name:   "dense tensor",
			dt:     types.Of[tensor.Dense[float32]](),
			family: types.FamilyTensor,
			tensor: true,
		},
		{
			name:     "tensor sequence",
			dt:       types.Of[tensor.Sequence[int64]](),
			family:   types.FamilyTensorSequence,
			sequence: true,
		},
		{
			name:   "sparse tensor",
			dt:     types.Of[tensor.Sparse[int32]](),
			family: types.FamilySparseTensor,
			sparse: true,
		},
		{
			name:   "opaque payload",
			dt:     types.Of[opaquePayload](),
			family: types.FamilyOpaque,
		},
		{
			name:   "nil identity",
			dt:     nil,
			family: types.FamilyOpaque,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.family, tt.dt.Family())
			assert.Equal(t, tt.tensor, tt.dt.IsTensor())
			assert.Equal(t, tt.sequence, tt.dt.IsTensorSequence())
			assert.Equal(t, tt.sparse, tt.dt.IsSparseTensor())
		})
	}
}

func TestDiagnosticNames(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "tensor<float32>", types.Of[tensor.Dense[float32]]().String())
	assert.Equal(t, "sparse<int32>", types.Of[tensor.Sparse[int32]]().String())
	assert.Equal(t, "seq<float64>", types.Of[tensor.Sequence[float64]]().String())
	assert.Equal(t, "<nil>", (*types.DataType)(nil).String())

	// Unmarked types fall back to the Go type string.
	assert.Contains(t, types.Of[opaquePayload]().String(), "opaquePayload")
}

func TestRegisteredSnapshot(t *testing.T) {
	t.Parallel()
	dt := types.Of[tensor.Dense[uint8]]()

	found := false
	for _, r := range types.Registered() {
		if r == dt {
			found = true
			break
		}
	}
	assert.True(t, found, "issued identity must appear in the snapshot")
}

func BenchmarkOfRegistered(b *testing.B) {
	types.Of[tensor.Dense[float32]]()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = types.Of[tensor.Dense[float32]]()
	}
}
