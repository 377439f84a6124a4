package actionstate

import (
	"context"
	"sync"
)

// Snapshot is a point-in-time copy of a State.
type Snapshot[T any] struct {
	Loading bool
	Err     error
	Data    T
	// HasData is false until the first successful run.
	HasData bool
}

// State tracks the lifecycle of one logical operation.
type State[T any] struct {
	mu   sync.RWMutex
	snap Snapshot[T]
}

func New[T any]() *State[T] { return &State[T]{} }

// Run wraps fn in the loading/error/data contract: loading is set and the
// previous error cleared before fn runs; on success the result is stored; on
// failure the error is stored and data is left untouched. Loading is cleared
// on every path and the error is returned unchanged.
func Run[T any](ctx context.Context, s *State[T], fn func(ctx context.Context) (T, error)) (T, error) {
	s.mu.Lock()
	s.snap.Loading = true
	s.snap.Err = nil
	s.mu.Unlock()

	var (
		out      T
		err      error
		returned bool
	)
	defer func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.snap.Loading = false
		switch {
		case !returned:
		case err != nil:
			s.snap.Err = err
		default:
			s.snap.Data = out
			s.snap.HasData = true
		}
	}()

	out, err = fn(ctx)
	returned = true
	return out, err
}

func (s *State[T]) Snapshot() Snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *State[T]) Loading() bool { return s.Snapshot().Loading }
func (s *State[T]) Err() error    { return s.Snapshot().Err }

// Data returns the last successful result.
func (s *State[T]) Data() (T, bool) {
	snap := s.Snapshot()
	return snap.Data, snap.HasData
}

// Set stores v as the current data without touching loading or error.
func (s *State[T]) Set(v T) {
	s.mu.Lock()
	s.snap.Data = v
	s.snap.HasData = true
	s.mu.Unlock()
}

// Update replaces the current data with fn(data). It does nothing and
// reports false until the first successful run or Set.
func (s *State[T]) Update(fn func(T) T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.snap.HasData {
		return false
	}
	s.snap.Data = fn(s.snap.Data)
	return true
}

// Reset restores the initial {loading: false, error: nil, data: unset} state.
func (s *State[T]) Reset() {
	s.mu.Lock()
	s.snap = Snapshot[T]{}
	s.mu.Unlock()
}

// Resetter is implemented by every State.
type Resetter interface {
	Reset()
}

// Group holds the states of one feature store.
type Group struct {
	mu     sync.Mutex
	states []Resetter
}

// Add registers s with g and returns it.
func Add[T any](g *Group, s *State[T]) *State[T] {
	g.mu.Lock()
	g.states = append(g.states, s)
	g.mu.Unlock()
	return s
}

// Track creates a fresh State registered with g.
func Track[T any](g *Group) *State[T] { return Add(g, New[T]()) }

// ResetAll restores every registered state.
func (g *Group) ResetAll() {
	g.mu.Lock()
	states := append([]Resetter(nil), g.states...)
	g.mu.Unlock()
	for _, s := range states {
		s.Reset()
	}
}

func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.states)
}
