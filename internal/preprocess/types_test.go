package preprocess

import (
	"github.com/packagewjx/tensorprep/pkg/core"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sync"
	"sync/atomic"
	"testing"
)

type countingTransform struct {
	Transform
	calls int32
	seen  []core.Metadata
	mu    sync.Mutex
}

func (c *countingTransform) Apply(data *core.Array, feature core.Metadata) (*core.Array, error) {
	atomic.AddInt32(&c.calls, 1)
	c.mu.Lock()
	c.seen = append(c.seen, feature)
	c.mu.Unlock()
	return c.Transform.Apply(data, feature)
}

func TestPipelineFailFast(t *testing.T) {
	r, err := NewReshape([]int{4, 4})
	require.NoError(t, err)
	o, err := NewOnehot(3, DefaultOnehotTolerance)
	require.NoError(t, err)
	reshapeStage := &countingTransform{Transform: r}
	onehotStage := &countingTransform{Transform: o}

	p := NewPipeline(reshapeStage, onehotStage)
	_, err = p.Apply(float32Array(t, []int{15}, make([]float32, 15)...), nil)
	assert.True(t, errors.Is(err, ErrShapeMismatch))
	assert.Equal(t, int32(1), reshapeStage.calls)
	assert.Equal(t, int32(0), onehotStage.calls)
}

func TestPipelineOrderAndMetadata(t *testing.T) {
	s, _ := NewScale(2)
	r, _ := NewReshape([]int{Wildcard})
	first := &countingTransform{Transform: s}
	second := &countingTransform{Transform: r}
	p := NewPipeline(first, second)
	assert.Equal(t, "pipeline[scale,reshape]", p.Name())
	assert.Equal(t, 2, p.Len())

	feature := core.Metadata{"boxes": []float64{1, 2, 3, 4}}
	out, err := p.Apply(int32Array(t, []int{2, 2}, 1, 2, 3, 4), feature)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, out.Shape())
	assert.Equal(t, []float32{2, 4, 6, 8}, out.Float32s())

	require.Len(t, first.seen, 1)
	require.Len(t, second.seen, 1)
	assert.Equal(t, feature, first.seen[0])
	assert.Equal(t, feature, second.seen[0])
}

func TestEmptyPipelineIsIdentity(t *testing.T) {
	in := int32Array(t, []int{3}, 1, 2, 3)
	out, err := NewPipeline().Apply(in, nil)
	require.NoError(t, err)
	assert.True(t, in.Equal(out))

	_, err = NewPipeline().Apply(nil, nil)
	assert.True(t, errors.Is(err, ErrInvalidType))
}

func TestPipelineConcurrentUse(t *testing.T) {
	resizeStage, err := NewResize(ResizeOptions{TargetHeight: 8, TargetWidth: 8, Interpolation: Area, KeepAspectRatio: true})
	require.NoError(t, err)
	p := NewPipeline(MinMax(), resizeStage, ZScore())
	in := float32Array(t, []int{5, 12, 3}, sequence(5*12*3)...)
	want, err := p.Apply(in, nil)
	require.NoError(t, err)

	wg := sync.WaitGroup{}
	results := make([]*core.Array, 16)
	for i := range results {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], _ = p.Apply(in, nil)
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		assert.True(t, want.Equal(got))
	}
}
