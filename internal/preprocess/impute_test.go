package preprocess

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"testing"
)

func TestImpute(t *testing.T) {
	const rowLen = 96
	nan := float32(math.NaN())
	data := make([]float32, 2*rowLen)
	for i := 0; i < rowLen; i++ {
		data[i] = float32(i)
		data[rowLen+i] = nan
	}
	for i := 0; i < 4; i++ {
		data[i] = nan
	}
	data[10] = nan
	data[11] = nan
	data[50] = nan
	data[95] = nan

	out, err := Impute().Apply(float32Array(t, []int{2, rowLen}, data...), nil)
	require.NoError(t, err)
	got := out.Float32s()
	for _, v := range got {
		assert.False(t, math.IsNaN(float64(v)))
	}

	assert.InDelta(t, 0.8, got[0], 1e-6)
	assert.InDelta(t, 1.6, got[1], 1e-6)
	assert.InDelta(t, 2.4, got[2], 1e-6)
	assert.InDelta(t, 3.2, got[3], 1e-6)
	assert.InDelta(t, 10, got[10], 1e-6)
	assert.InDelta(t, 11, got[11], 1e-6)
	assert.InDelta(t, 50, got[50], 1e-6)
	assert.InDelta(t, 47, got[95], 1e-6)

	// a row without any valid value
	for _, v := range got[rowLen:] {
		assert.Equal(t, float32(0), v)
	}

	// input untouched
	assert.True(t, math.IsNaN(float64(data[0])))
}

func TestImputeInt32Unchanged(t *testing.T) {
	in := int32Array(t, []int{3}, 1, 2, 3)
	out, err := Impute().Apply(in, nil)
	require.NoError(t, err)
	assert.True(t, in.Equal(out))
}
