package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axonml/axon/tensor"
)

func TestNewDense(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		shape   []int
		data    []float32
		wantErr bool
	}{
		{name: "vector", shape: []int{3}, data: []float32{1, 2, 3}},
		{name: "matrix", shape: []int{2, 2}, data: []float32{1, 2, 3, 4}},
		{name: "scalar", shape: []int{}, data: []float32{7}},
		{name: "short data", shape: []int{4}, data: []float32{1}, wantErr: true},
		{name: "negative dim", shape: []int{-1}, data: nil, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d, err := tensor.NewDense(tt.shape, tt.data)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.shape, d.Shape())
			assert.Equal(t, len(tt.data), d.Len())
		})
	}
}

func TestDenseIndexing(t *testing.T) {
	t.Parallel()
	d, err := tensor.NewDense([]int{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	assert.Equal(t, float32(1), d.At(0, 0))
	assert.Equal(t, float32(3), d.At(0, 2))
	assert.Equal(t, float32(4), d.At(1, 0))
	assert.Equal(t, float32(6), d.At(1, 2))

	d.SetAt(42, 1, 1)
	assert.Equal(t, float32(42), d.At(1, 1))
	assert.Equal(t, float32(42), d.Data()[4], "At/SetAt address the flat slice row-major")

	assert.Panics(t, func() { d.At(0) }, "rank mismatch")
	assert.Panics(t, func() { d.At(2, 0) }, "out of range")
}

func TestDenseElemKind(t *testing.T) {
	t.Parallel()
	f, err := tensor.NewDense([]int{1}, []float32{0})
	require.NoError(t, err)
	assert.Equal(t, "float32", f.ElemKind())

	i, err := tensor.NewDense([]int{1}, []int64{0})
	require.NoError(t, err)
	assert.Equal(t, "int64", i.ElemKind())
}

func TestNewSparse(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		shape   []int
		values  []int32
		indices [][]int
		wantErr bool
	}{
		{
			name:    "valid",
			shape:   []int{3, 3},
			values:  []int32{1, 2},
			indices: [][]int{{0, 0}, {2, 1}},
		},
		{
			name:    "count mismatch",
			shape:   []int{3},
			values:  []int32{1, 2},
			indices: [][]int{{0}},
			wantErr: true,
		},
		{
			name:    "rank mismatch",
			shape:   []int{3, 3},
			values:  []int32{1},
			indices: [][]int{{0}},
			wantErr: true,
		},
		{
			name:    "index out of range",
			shape:   []int{2},
			values:  []int32{1},
			indices: [][]int{{5}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, err := tensor.NewSparse(tt.shape, tt.values, tt.indices)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.values), s.NNZ())
			assert.Equal(t, tt.shape, s.Shape())
			assert.Equal(t, tt.values, s.Values())
		})
	}
}

func TestSequence(t *testing.T) {
	t.Parallel()
	a, err := tensor.NewDense([]int{2}, []float32{1, 2})
	require.NoError(t, err)
	b, err := tensor.NewDense([]int{3}, []float32{3, 4, 5})
	require.NoError(t, err)

	seq, err := tensor.NewSequence(a, b)
	require.NoError(t, err)
	assert.Equal(t, 2, seq.Len())
	assert.Same(t, a, seq.At(0))
	assert.Same(t, b, seq.At(1))
	assert.Equal(t, "float32", seq.ElemKind())

	c, err := tensor.NewDense([]int{1}, []float32{6})
	require.NoError(t, err)
	require.NoError(t, seq.Append(c))
	assert.Equal(t, 3, seq.Len())

	require.Error(t, seq.Append(nil))

	_, err = tensor.NewSequence[float32](a, nil)
	require.Error(t, err)
}
