package store

import (
	"github.com/packagewjx/tensorprep/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"testing"
	"time"
)

func TestNewRunRecord(t *testing.T) {
	a, err := core.NewFloat32([]int{2, 2}, []float32{4, 1, 3, 2})
	require.NoError(t, err)
	r := NewRunRecord("a.png", "pipeline[zscore]", a, 1500*time.Millisecond)
	assert.Equal(t, "a.png", r.Identifier)
	assert.Equal(t, "pipeline[zscore]", r.Pipeline)
	assert.Equal(t, []int{2, 2}, r.Shape)
	assert.Equal(t, core.Float32, r.DType)
	assert.InDelta(t, 2.5, r.Mean, 1e-6)
	assert.InDelta(t, 1.118034, r.Std, 1e-5)
	assert.Equal(t, float32(1), r.Min)
	assert.Equal(t, float32(4), r.Max)
	assert.Equal(t, float32(3), r.Median)
	assert.Equal(t, 1500*time.Millisecond, r.Elapsed)
	// the array is left untouched
	assert.Equal(t, []float32{4, 1, 3, 2}, a.Float32s())
}

func TestRunRecordDO(t *testing.T) {
	a, _ := core.NewInt32([]int{3, 1, 2}, []int32{1, 2, 3, 4, 5, 6})
	r := NewRunRecord("x", "pipeline[]", a, 20*time.Millisecond)
	do := fromRecord(r)
	assert.Equal(t, "3x1x2", do.Shape)
	assert.Equal(t, "int32", do.DType)
	assert.Equal(t, int64(20), do.ElapsedMs)

	back, err := do.toRecord()
	assert.NoError(t, err)
	assert.Equal(t, r.Shape, back.Shape)
	assert.Equal(t, r.Median, back.Median)
	assert.Equal(t, r.Elapsed, back.Elapsed)

	do.Shape = "bad"
	_, err = do.toRecord()
	assert.Error(t, err)
}

func TestResolveDSN(t *testing.T) {
	dsn, err := ResolveDSN("user@tcp(db:3306)/x")
	assert.NoError(t, err)
	assert.Equal(t, "user@tcp(db:3306)/x", dsn)

	t.Setenv("MYSQL_SERVICE_HOST", "mysql")
	t.Setenv("MYSQL_SERVICE_PORT", "3307")
	t.Setenv("MYSQL_USER", "")
	t.Setenv("MYSQL_PASSWORD", "secret")
	dsn, err = ResolveDSN("")
	assert.NoError(t, err)
	assert.Equal(t, "root:secret@tcp(mysql:3307)/tensorprep?charset=utf8mb4&parseTime=True&loc=Local", dsn)

	t.Setenv("MYSQL_SERVICE_HOST", "")
	_, err = ResolveDSN("")
	assert.Error(t, err)
}

func TestNewRunRecordNaN(t *testing.T) {
	a, _ := core.NewFloat32([]int{3}, []float32{float32(math.NaN()), 5, 1})
	r := NewRunRecord("n", "pipeline[]", a, 0)
	assert.Equal(t, float32(5), r.Median)

	a, _ = core.NewFloat32([]int{1}, []float32{float32(math.NaN())})
	r = NewRunRecord("n", "pipeline[]", a, 0)
	assert.True(t, math.IsNaN(float64(r.Median)))
}
