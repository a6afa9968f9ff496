package datasource

import (
	"github.com/packagewjx/tensorprep/pkg/core"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestArraySource(t *testing.T) {
	s := NewArraySource()
	a, _ := core.NewInt32([]int{2}, []int32{1, 2})
	s.Put("a", a)

	got, err := s.Load("a")
	assert.NoError(t, err)
	assert.True(t, a.Equal(got))

	_, err = s.Load("b")
	assert.True(t, errors.Is(err, ErrSourceNotFound))
}
