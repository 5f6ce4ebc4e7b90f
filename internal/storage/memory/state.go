package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/sandevgo/dailyfacts/internal/core"
)

// StateStore keeps the serialized session state in memory. It backs one-shot CLI runs
// and tests.
type StateStore struct {
	mu       sync.RWMutex
	data     []byte
	saves    int
	failWith error
}

func NewStateStore() *StateStore {
	return &StateStore{}
}

func (s *StateStore) LoadState(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		return nil, core.ErrStateNotFound
	}
	return slices.Clone(s.data), nil
}

func (s *StateStore) SaveState(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return s.failWith
	}
	s.data = slices.Clone(data)
	s.saves++
	return nil
}

// Saves reports how many writes succeeded.
func (s *StateStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// FailSaves makes every following save return err; nil restores normal behaviour.
func (s *StateStore) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}
