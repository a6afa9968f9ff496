package preprocess

import (
	"github.com/packagewjx/tensorprep/pkg/core"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestReshape(t *testing.T) {
	r, err := NewReshape([]int{3, 2})
	require.NoError(t, err)
	in := int32Array(t, []int{6}, 1, 2, 3, 4, 5, 6)
	out, err := r.Apply(in, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, out.Shape())
	assert.Equal(t, core.Int32, out.DType())
	assert.Equal(t, in.Int32s(), out.Int32s())
	assert.Equal(t, []int{6}, in.Shape())
}

func TestReshapeWildcard(t *testing.T) {
	r, err := NewReshape([]int{Wildcard, 4})
	require.NoError(t, err)
	out, err := r.Apply(float32Array(t, []int{2, 2, 2}, 1, 2, 3, 4, 5, 6, 7, 8), nil)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, out.Shape())

	_, err = r.Apply(float32Array(t, []int{6}, 1, 2, 3, 4, 5, 6), nil)
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

func TestReshapeMismatch(t *testing.T) {
	r, _ := NewReshape([]int{4, 4})
	_, err := r.Apply(float32Array(t, []int{15}, make([]float32, 15)...), nil)
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

func TestNewReshapeConfiguration(t *testing.T) {
	for _, shape := range [][]int{nil, {0, 2}, {-2, 2}, {-1, -1}} {
		_, err := NewReshape(shape)
		assert.True(t, errors.Is(err, ErrConfiguration), "%v", shape)
	}
}
