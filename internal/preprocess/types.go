package preprocess

import (
	"github.com/packagewjx/tensorprep/pkg/core"
	"github.com/pkg/errors"
	"strings"
)

// Epsilon guards the normalize stages against division by zero.
const Epsilon = 1e-7

// Transform is one preprocessing stage. Implementations are immutable after
// construction and safe for concurrent use. Apply never modifies data and
// always returns a newly allocated array.
type Transform interface {
	Name() string
	Apply(data *core.Array, feature core.Metadata) (*core.Array, error)
}

// Pipeline applies its stages in order. The zero-length pipeline is the identity.
type Pipeline struct {
	stages []Transform
}

var _ Transform = &Pipeline{}

func NewPipeline(stages ...Transform) *Pipeline {
	s := make([]Transform, len(stages))
	copy(s, stages)
	return &Pipeline{stages: s}
}

func (p *Pipeline) Name() string {
	names := make([]string, len(p.stages))
	for i, stage := range p.stages {
		names[i] = stage.Name()
	}
	return "pipeline[" + strings.Join(names, ",") + "]"
}

func (p *Pipeline) Len() int {
	return len(p.stages)
}

func (p *Pipeline) Stages() []Transform {
	s := make([]Transform, len(p.stages))
	copy(s, p.stages)
	return s
}

// Apply folds data through every stage, passing feature unchanged to each one.
// The first stage error aborts the run and is returned as is.
func (p *Pipeline) Apply(data *core.Array, feature core.Metadata) (*core.Array, error) {
	if data == nil {
		return nil, errors.Wrap(ErrInvalidType, "pipeline input is nil")
	}
	var err error
	for _, stage := range p.stages {
		data, err = stage.Apply(data, feature)
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}

func checkInput(stage string, data *core.Array) error {
	if data == nil {
		return errors.Wrapf(ErrInvalidType, "%s: input is nil", stage)
	}
	return nil
}
