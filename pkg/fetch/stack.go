package fetch

import (
	"github.com/brain2-labs/assetengine/pkg/apperrors"
	"github.com/brain2-labs/assetengine/pkg/assetpath"
	"github.com/brain2-labs/assetengine/pkg/ecs"
)

// Stack is the database's ordered collection of fetch engines : the
// top engine (the end of the slice) is tried first; lower engines serve
// as fallbacks.
type Stack struct {
	engines []Engine
}

// NewStack creates an empty stack, optionally seeded with base engines in
// bottom-to-top order.
func NewStack(base ...Engine) *Stack {
	return &Stack{engines: append([]Engine(nil), base...)}
}

// Push adds an engine to the top of the stack.
func (s *Stack) Push(e Engine) { s.engines = append(s.engines, e) }

// Pop removes and returns the top engine, or nil if the stack is empty.
func (s *Stack) Pop() Engine {
	if len(s.engines) == 0 {
		return nil
	}
	top := s.engines[len(s.engines)-1]
	s.engines = s.engines[:len(s.engines)-1]
	return top
}

// Swap replaces the top engine with e, returning the one it replaced.
func (s *Stack) Swap(e Engine) Engine {
	old := s.Pop()
	s.Push(e)
	return old
}

// UseScoped pushes e, runs fn, and pops it afterward regardless of panic.
func (s *Stack) UseScoped(e Engine, fn func()) {
	s.Push(e)
	defer s.Pop()
	fn()
}

// LoadBytes tries every engine top-down, returning the first bundle a
// LoadBytes call produces without error.
func (s *Stack) LoadBytes(path assetpath.Path) (Bundle, error) {
	var lastErr error
	for i := len(s.engines) - 1; i >= 0; i-- {
		bundle, err := s.engines[i].LoadBytes(path)
		if err == nil {
			return bundle, nil
		}
		lastErr = err
	}
	if lastErr != nil {
		return Bundle{}, apperrors.NewFetchFailed(path.String(), lastErr)
	}
	return Bundle{}, apperrors.NewNoFetchEngine(path.String())
}

// Maintain drains every Maintainer engine on the stack, top-down (// step 2).
func (s *Stack) Maintain(storage *ecs.Storage) error {
	for i := len(s.engines) - 1; i >= 0; i-- {
		if m, ok := s.engines[i].(Maintainer); ok {
			if err := m.Maintain(storage); err != nil {
				return err
			}
		}
	}
	return nil
}
