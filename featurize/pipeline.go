package featurize

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/axonml/axon/core"
)

// Pipeline chains transformers in order. Fit trains each stage on the
// output of the previous one; Transform folds a value through every stage.
type Pipeline struct {
	stages []Transformer
	log    logrus.FieldLogger
}

// NewPipeline builds a pipeline over the given stages. A nil logger
// disables stage logging.
func NewPipeline(log logrus.FieldLogger, stages ...Transformer) *Pipeline {
	if log == nil {
		logger := logrus.New()
		logger.SetLevel(logrus.PanicLevel)
		log = logger
	}
	return &Pipeline{stages: stages, log: log}
}

// Stages returns the pipeline's transformers in order.
func (p *Pipeline) Stages() []Transformer { return p.stages }

// Fit trains each stage on the sample, feeding every stage the previous
// stage's transformed output.
func (p *Pipeline) Fit(ctx context.Context, samples []*core.Value) error {
	cur := samples
	for _, stage := range p.stages {
		p.log.WithField("stage", stage.Name()).WithField("samples", len(cur)).Debug("fitting stage")
		if err := stage.Fit(ctx, cur); err != nil {
			return errors.Wrapf(err, "fit %s", stage.Name())
		}
		next := make([]*core.Value, len(cur))
		for i, v := range cur {
			out, err := stage.Transform(ctx, v)
			if err != nil {
				return errors.Wrapf(err, "fit-transform %s sample %d", stage.Name(), i)
			}
			next[i] = out
		}
		cur = next
	}
	return nil
}

// Transform folds one value through every stage.
func (p *Pipeline) Transform(ctx context.Context, in *core.Value) (*core.Value, error) {
	cur := in
	for _, stage := range p.stages {
		out, err := stage.Transform(ctx, cur)
		if err != nil {
			return nil, errors.Wrapf(err, "transform %s", stage.Name())
		}
		cur = out
	}
	return cur, nil
}

// TransformAll transforms a batch concurrently, preserving order. The
// fan-out is bounded by GOMAXPROCS; the first failure cancels the rest.
func (p *Pipeline) TransformAll(ctx context.Context, in []*core.Value) ([]*core.Value, error) {
	out := make([]*core.Value, len(in))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, v := range in {
		i, v := i, v
		g.Go(func() error {
			res, err := p.Transform(ctx, v)
			if err != nil {
				return errors.Wrapf(err, "value %d", i)
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
