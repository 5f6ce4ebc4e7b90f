package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sandevgo/dailyfacts/internal/core"
	"github.com/sandevgo/dailyfacts/pkg/log"
)

// StateStorage keeps the serialized session state in a single JSON file.
type StateStorage struct {
	path string
	mu   sync.RWMutex
}

func NewStateStorage(path string) *StateStorage {
	return &StateStorage{
		path: path,
	}
}

func (s *StateStorage) LoadState(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	data, err := os.ReadFile(s.path)
	s.mu.RUnlock()

	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.ErrStateNotFound
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	return data, nil
}

// SaveState writes through a temp file and rename so a crash never leaves half a document.
func (s *StateStorage) SaveState(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp state file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to chmod state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	log.FromCtx(ctx).Debug().Str("path", s.path).Msg("session state saved")
	return nil
}
