package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sandevgo/dailyfacts/internal/core"
	"github.com/sandevgo/dailyfacts/pkg/log"
)

var _ core.SettingsStore = (*Store)(nil)

// Store is the in-process owner of the persisted SessionState. Reads are served from
// memory; every update is written through to the repository and then broadcast.
type Store struct {
	repo core.StateRepository

	mu     sync.Mutex
	state  core.SessionState
	loaded bool

	subsMu sync.Mutex
	subs   map[int]chan core.SessionState
	nextID int
}

func NewStore(repo core.StateRepository) *Store {
	return &Store{
		repo: repo,
		subs: make(map[int]chan core.SessionState),
	}
}

func (s *Store) Get(ctx context.Context) core.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	return s.state.Clone()
}

// Update applies mutate to a copy of the current state, persists it and returns the merged
// result. On a persistence failure the in-memory state is left untouched.
func (s *Store) Update(ctx context.Context, mutate func(*core.SessionState)) (core.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	return s.updateLocked(ctx, mutate)
}

// ClearHistory resets shown and current facts. Without any history it is a no-op and
// nothing is broadcast.
func (s *Store) ClearHistory(ctx context.Context) (core.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	if !s.state.HasHistory() {
		return s.state.Clone(), nil
	}
	return s.updateLocked(ctx, func(st *core.SessionState) {
		st.ResetHistory()
	})
}

func (s *Store) updateLocked(ctx context.Context, mutate func(*core.SessionState)) (core.SessionState, error) {
	next := s.state.Clone()
	mutate(&next)
	next.Normalize()

	if err := s.persist(ctx, next); err != nil {
		return s.state.Clone(), err
	}
	s.state = next

	// Publishing under mu keeps subscribers in commit order.
	s.publish(next)
	return next.Clone(), nil
}

// Changes streams every committed state until ctx ends. Slow readers only ever see the
// latest value.
func (s *Store) Changes(ctx context.Context) <-chan core.SessionState {
	ch := make(chan core.SessionState, 1)

	s.subsMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subsMu.Unlock()

	go func() {
		<-ctx.Done()
		s.subsMu.Lock()
		delete(s.subs, id)
		close(ch)
		s.subsMu.Unlock()
	}()

	return ch
}

func (s *Store) publish(st core.SessionState) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- st.Clone():
		default:
			// drop the stale value and replace it
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- st.Clone():
			default:
			}
		}
	}
}

func (s *Store) ensureLoaded(ctx context.Context) {
	if s.loaded {
		return
	}
	s.state = s.load(ctx)
	s.loaded = true
}

func (s *Store) load(ctx context.Context) core.SessionState {
	logger := log.FromCtx(ctx)
	state := core.DefaultSessionState()

	data, err := s.repo.LoadState(ctx)
	if err != nil {
		if !errors.Is(err, core.ErrStateNotFound) {
			logger.Warn().Err(err).Msg("failed to load session state, using defaults")
		}
		return state
	}

	// Missing fields keep their defaults.
	if err := json.Unmarshal(data, &state); err != nil {
		logger.Warn().Err(err).Msg("failed to parse session state, using defaults")
		return core.DefaultSessionState()
	}
	state.Normalize()
	return state
}

func (s *Store) persist(ctx context.Context, st core.SessionState) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}
	if err := s.repo.SaveState(ctx, data); err != nil {
		return fmt.Errorf("failed to persist session state: %w", err)
	}
	return nil
}
