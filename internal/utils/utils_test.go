package utils

import (
	"github.com/stretchr/testify/assert"
	"math"
	"math/rand"
	"sort"
	"testing"
)

func TestPartition(t *testing.T) {
	arr := []float32{3, 6, 1, 76, 2, 16, 549}
	idx := Partition(arr, 0, len(arr)-1)
	assert.Equal(t, idx, 5)
	assert.Equal(t, arr[5], float32(76))
	idx = Partition(arr, 0, idx)
	assert.Condition(t, func() (success bool) {
		return idx < 5
	})

	arr = []float32{1, 2, 3}
	idx = Partition(arr, 0, len(arr)-1)
	assert.Equal(t, idx, 1)
	assert.Equal(t, arr[1], float32(2))

	arr = []float32{4, 2, 1, 3}
	idx = Partition(arr, 0, len(arr)-1)
	assert.Equal(t, idx, 0)
	assert.Equal(t, arr[0], float32(1))

	arr = []float32{}
	idx = Partition(arr, 0, len(arr)-1)
	assert.Equal(t, idx, 0)
}

func TestGetSortedPosition(t *testing.T) {
	arr := []float32{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}
	n := GetSortedPositionValue(arr, 4)
	assert.Equal(t, float32(4), n)

	arr = make([]float32, 10000)
	for i := 0; i < len(arr); i++ {
		arr[i] = rand.Float32() * 10000
	}
	positions := []int{0, 1, 2, 1000, 2000, 5000, 9998, 9999}
	values := make([]float32, len(positions))
	for i, p := range positions {
		values[i] = GetSortedPositionValue(arr, p)
	}
	sort.Slice(arr, func(i, j int) bool {
		return arr[i] < arr[j]
	})
	for i, p := range positions {
		assert.Equal(t, arr[p], values[i], "position %d", p)
	}

	assert.True(t, math.IsNaN(float64(GetSortedPositionValue(arr, -1))))
	assert.True(t, math.IsNaN(float64(GetSortedPositionValue(arr, len(arr)))))
	assert.Equal(t, float32(7), GetSortedPositionValue([]float32{7}, 0))
}

func TestShapeFormat(t *testing.T) {
	assert.Equal(t, "2x3x4", FormatShape([]int{2, 3, 4}))
	assert.Equal(t, "5", FormatShape([]int{5}))

	shape, err := ParseShape("2x3x4")
	assert.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4}, shape)

	_, err = ParseShape("")
	assert.Error(t, err)
	_, err = ParseShape("2xa")
	assert.Error(t, err)
}
