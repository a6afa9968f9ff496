package preprocess

import (
	"github.com/packagewjx/tensorprep/pkg/core"
	"github.com/pkg/errors"
)

// Wildcard marks the one reshape dimension inferred from the element count.
const Wildcard = -1

// NewReshape rearranges data into shape. At most one entry may be Wildcard.
func NewReshape(shape []int) (Transform, error) {
	if len(shape) == 0 {
		return nil, errors.Wrap(ErrConfiguration, "reshape: shape must not be empty")
	}
	wildcard := -1
	for i, d := range shape {
		switch {
		case d == Wildcard && wildcard != -1:
			return nil, errors.Wrapf(ErrConfiguration, "reshape: shape %v has more than one wildcard", shape)
		case d == Wildcard:
			wildcard = i
		case d <= 0:
			return nil, errors.Wrapf(ErrConfiguration, "reshape: dimension %d of shape %v is %d", i, shape, d)
		}
	}
	s := make([]int, len(shape))
	copy(s, shape)
	return reshape{shape: s, wildcard: wildcard}, nil
}

type reshape struct {
	shape    []int
	wildcard int
}

func (reshape) Name() string {
	return "reshape"
}

func (r reshape) resolve(size int) ([]int, error) {
	shape := make([]int, len(r.shape))
	copy(shape, r.shape)
	known := 1
	for i, d := range shape {
		if i != r.wildcard {
			known *= d
		}
	}

	if r.wildcard == -1 {
		if known != size {
			return nil, errors.Wrapf(ErrShapeMismatch, "reshape: cannot reshape %d elements into %v", size, r.shape)
		}
		return shape, nil
	}
	if size%known != 0 {
		return nil, errors.Wrapf(ErrShapeMismatch, "reshape: %d elements are not divisible by %d for shape %v", size, known, r.shape)
	}
	shape[r.wildcard] = size / known
	return shape, nil
}

func (r reshape) Apply(data *core.Array, _ core.Metadata) (*core.Array, error) {
	if err := checkInput(r.Name(), data); err != nil {
		return nil, err
	}
	shape, err := r.resolve(data.Size())
	if err != nil {
		return nil, err
	}
	return data.Reshaped(shape)
}
