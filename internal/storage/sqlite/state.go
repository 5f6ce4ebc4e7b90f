package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sandevgo/dailyfacts/internal/core"
	"github.com/sandevgo/dailyfacts/pkg/log"
)

// StateKey namespaces the session state row.
const StateKey = "dailyfacts.settings"

// StateRepo stores the serialized session state in the kv_state table.
type StateRepo struct {
	db  *sql.DB
	key string
}

func NewStateRepo(db *sql.DB) *StateRepo {
	return &StateRepo{db: db, key: StateKey}
}

func (r *StateRepo) LoadState(ctx context.Context) ([]byte, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv_state WHERE key = ?`, r.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query state: %w", err)
	}
	return []byte(value), nil
}

func (r *StateRepo) SaveState(ctx context.Context, data []byte) error {
	query := `INSERT INTO kv_state (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`
	if _, err := r.db.ExecContext(ctx, query, r.key, string(data)); err != nil {
		return fmt.Errorf("failed to upsert state: %w", err)
	}
	log.FromCtx(ctx).Debug().Int("bytes", len(data)).Msg("session state saved")
	return nil
}
