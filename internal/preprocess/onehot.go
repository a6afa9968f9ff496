package preprocess

import (
	"github.com/packagewjx/tensorprep/pkg/core"
	"github.com/pkg/errors"
	"math"
)

const DefaultOnehotTolerance = 1e-6

// NewOnehot encodes a 1-D array of class indices as an n x numClasses matrix.
// Values further than tolerance from an integer are rejected.
func NewOnehot(numClasses int, tolerance float64) (Transform, error) {
	if numClasses <= 0 {
		return nil, errors.Wrapf(ErrConfiguration, "onehot: num_classes must be positive, got %d", numClasses)
	}
	if math.IsNaN(tolerance) || tolerance < 0 {
		return nil, errors.Wrapf(ErrConfiguration, "onehot: tolerance must be non-negative, got %v", tolerance)
	}
	return onehot{numClasses: numClasses, tolerance: tolerance}, nil
}

type onehot struct {
	numClasses int
	tolerance  float64
}

func (onehot) Name() string {
	return "onehot"
}

func (o onehot) Apply(data *core.Array, _ core.Metadata) (*core.Array, error) {
	if err := checkInput(o.Name(), data); err != nil {
		return nil, err
	}
	if data.Rank() != 1 {
		return nil, errors.Wrapf(ErrShapeMismatch, "onehot: expected a 1-D array of class indices, got shape %v", data.Shape())
	}

	n := data.Size()
	out := make([]float32, n*o.numClasses)
	for i := 0; i < n; i++ {
		v := data.At(i)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.Wrapf(ErrInvalidType, "onehot: element %d is %v, not a class index", i, v)
		}
		r := math.Round(v)
		if math.Abs(v-r) > o.tolerance {
			return nil, errors.Wrapf(ErrInvalidType, "onehot: element %d is %v, not within %v of an integer", i, v, o.tolerance)
		}
		if r < 0 || r >= float64(o.numClasses) {
			return nil, errors.Wrapf(ErrIndexOutOfRange, "onehot: element %d is %d, expected 0 <= index < %d", i, int64(r), o.numClasses)
		}
		out[i*o.numClasses+int(r)] = 1
	}
	return core.NewFloat32([]int{n, o.numClasses}, out)
}
