package core

import (
	"context"
	"errors"
)

// ErrStateNotFound is returned by a StateRepository that has never been written.
var ErrStateNotFound = errors.New("session state not found")

// StateRepository persists the serialized SessionState under a single namespaced key.
type StateRepository interface {
	LoadState(ctx context.Context) ([]byte, error)
	SaveState(ctx context.Context, data []byte) error
}

// SettingsStore is the configuration store consumed by the session engine.
type SettingsStore interface {
	Get(ctx context.Context) SessionState
	Update(ctx context.Context, mutate func(*SessionState)) (SessionState, error)
	Changes(ctx context.Context) <-chan SessionState
	ClearHistory(ctx context.Context) (SessionState, error)
}
