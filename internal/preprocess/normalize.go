package preprocess

import (
	"github.com/packagewjx/tensorprep/pkg/core"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"math"
)

// ZScore standardizes data to zero mean and unit population standard deviation.
func ZScore() Transform {
	return zScore{}
}

type zScore struct {
}

func (zScore) Name() string {
	return "zscore"
}

func (z zScore) Apply(data *core.Array, _ core.Metadata) (*core.Array, error) {
	if err := checkInput(z.Name(), data); err != nil {
		return nil, err
	}
	values := data.Values()
	mean, std := stat.PopMeanStdDev(values, nil)
	std = math.Max(std, Epsilon)

	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32((v - mean) / std)
	}
	return core.NewFloat32(data.Shape(), out)
}

// MinMax rescales data to [0, 1). Constant data maps to zeros.
func MinMax() Transform {
	return minMax{}
}

type minMax struct {
}

func (minMax) Name() string {
	return "minmax"
}

// largest float32 below 1, so that rounding never reaches the upper bound
var belowOne = math.Nextafter32(1, 0)

func (m minMax) Apply(data *core.Array, _ core.Metadata) (*core.Array, error) {
	if err := checkInput(m.Name(), data); err != nil {
		return nil, err
	}
	values := data.Values()
	min := floats.Min(values)
	denom := floats.Max(values) - min + Epsilon

	out := make([]float32, len(values))
	for i, v := range values {
		f := float32((v - min) / denom)
		if f > belowOne {
			f = belowOne
		}
		out[i] = f
	}
	return core.NewFloat32(data.Shape(), out)
}

// NewScale multiplies data by scalar. scalar must be finite.
func NewScale(scalar float64) (Transform, error) {
	if math.IsNaN(scalar) || math.IsInf(scalar, 0) {
		return nil, errors.Wrapf(ErrConfiguration, "scale: scalar must be a finite number, got %v", scalar)
	}
	return scale{scalar: scalar}, nil
}

type scale struct {
	scalar float64
}

func (scale) Name() string {
	return "scale"
}

func (s scale) Apply(data *core.Array, _ core.Metadata) (*core.Array, error) {
	if err := checkInput(s.Name(), data); err != nil {
		return nil, err
	}
	out := make([]float32, data.Size())
	for i := range out {
		out[i] = float32(s.scalar * data.At(i))
	}
	return core.NewFloat32(data.Shape(), out)
}
