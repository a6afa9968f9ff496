package datasource

import (
	"github.com/packagewjx/tensorprep/pkg/core"
	"github.com/pkg/errors"
	"sync"
)

// ArraySource serves arrays kept in memory.
type ArraySource struct {
	mu     sync.RWMutex
	arrays map[string]*core.Array
}

func NewArraySource() *ArraySource {
	return &ArraySource{arrays: make(map[string]*core.Array)}
}

func (s *ArraySource) Put(identifier string, a *core.Array) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.arrays[identifier] = a
}

func (s *ArraySource) Load(identifier string) (*core.Array, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.arrays[identifier]
	if !ok {
		return nil, errors.Wrapf(ErrSourceNotFound, "%s", identifier)
	}
	return a, nil
}
