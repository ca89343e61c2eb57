package featurize

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"github.com/axonml/axon/core"
)

// MinMaxScaler rescales each feature position into [0, 1] using the range
// observed during Fit. Positions with zero range map to 0.
type MinMaxScaler struct {
	min, max []float32
}

// Name implements Transformer.
func (*MinMaxScaler) Name() string { return "minmax-scaler" }

// Fit records the per-position minimum and maximum across the sample.
func (s *MinMaxScaler) Fit(ctx context.Context, samples []*core.Value) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	vecs, width, err := fitVectors(samples)
	if err != nil {
		return err
	}
	s.min = make([]float32, width)
	s.max = make([]float32, width)
	copy(s.min, vecs[0])
	copy(s.max, vecs[0])
	for _, vec := range vecs[1:] {
		for j, x := range vec {
			if x < s.min[j] {
				s.min[j] = x
			}
			if x > s.max[j] {
				s.max[j] = x
			}
		}
	}
	return nil
}

// Transform maps each position through (x - min) / (max - min).
func (s *MinMaxScaler) Transform(ctx context.Context, in *core.Value) (*core.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.min == nil {
		return nil, ErrNotFitted
	}
	t, err := denseInput(in)
	if err != nil {
		return nil, err
	}
	if t.Len() != len(s.min) {
		return nil, errors.Errorf("featurize: input has %d features, fitted on %d", t.Len(), len(s.min))
	}
	out := make([]float32, t.Len())
	for j, x := range t.Data() {
		if r := s.max[j] - s.min[j]; r != 0 {
			out[j] = (x - s.min[j]) / r
		}
	}
	return denseOutput(t.Shape(), out)
}

// StandardScaler centers each feature position on the fitted mean and
// scales it to unit variance. Positions with zero variance map to 0.
type StandardScaler struct {
	mean, std []float32
}

// Name implements Transformer.
func (*StandardScaler) Name() string { return "standard-scaler" }

// Fit records the per-position mean and standard deviation.
func (s *StandardScaler) Fit(ctx context.Context, samples []*core.Value) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	vecs, width, err := fitVectors(samples)
	if err != nil {
		return err
	}
	n := float64(len(vecs))
	s.mean = make([]float32, width)
	s.std = make([]float32, width)
	for j := 0; j < width; j++ {
		var sum float64
		for _, vec := range vecs {
			sum += float64(vec[j])
		}
		mean := sum / n
		var variance float64
		for _, vec := range vecs {
			d := float64(vec[j]) - mean
			variance += d * d
		}
		s.mean[j] = float32(mean)
		s.std[j] = float32(math.Sqrt(variance / n))
	}
	return nil
}

// Transform maps each position through (x - mean) / std.
func (s *StandardScaler) Transform(ctx context.Context, in *core.Value) (*core.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.mean == nil {
		return nil, ErrNotFitted
	}
	t, err := denseInput(in)
	if err != nil {
		return nil, err
	}
	if t.Len() != len(s.mean) {
		return nil, errors.Errorf("featurize: input has %d features, fitted on %d", t.Len(), len(s.mean))
	}
	out := make([]float32, t.Len())
	for j, x := range t.Data() {
		if s.std[j] != 0 {
			out[j] = (x - s.mean[j]) / s.std[j]
		}
	}
	return denseOutput(t.Shape(), out)
}

// Imputer replaces NaN positions with the per-position mean of the non-NaN
// values seen during Fit. Positions that were all-NaN during Fit impute 0.
type Imputer struct {
	fill   []float32
	fitted bool
}

// Name implements Transformer.
func (*Imputer) Name() string { return "mean-imputer" }

// Fit records the per-position mean over non-NaN sample values.
func (im *Imputer) Fit(ctx context.Context, samples []*core.Value) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	vecs, width, err := fitVectors(samples)
	if err != nil {
		return err
	}
	im.fill = make([]float32, width)
	for j := 0; j < width; j++ {
		var sum float64
		var n int
		for _, vec := range vecs {
			if x := float64(vec[j]); !math.IsNaN(x) {
				sum += x
				n++
			}
		}
		if n > 0 {
			im.fill[j] = float32(sum / float64(n))
		}
	}
	im.fitted = true
	return nil
}

// Transform copies the input, replacing NaN positions with fitted means.
func (im *Imputer) Transform(ctx context.Context, in *core.Value) (*core.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !im.fitted {
		return nil, ErrNotFitted
	}
	t, err := denseInput(in)
	if err != nil {
		return nil, err
	}
	if t.Len() != len(im.fill) {
		return nil, errors.Errorf("featurize: input has %d features, fitted on %d", t.Len(), len(im.fill))
	}
	out := make([]float32, t.Len())
	for j, x := range t.Data() {
		if math.IsNaN(float64(x)) {
			out[j] = im.fill[j]
		} else {
			out[j] = x
		}
	}
	return denseOutput(t.Shape(), out)
}
