package statestore

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/greentic-ai/cardengine/internal/canonicaljson"
	"github.com/greentic-ai/cardengine/internal/model"
)

//go:embed schema.sql
var schemaSQL string

const currentSchemaVersion = 1

// Store persists card state documents in SQLite. WAL mode allows concurrent
// reads while a host process writes.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path. Pragmas and
// schema are applied automatically; the function is idempotent.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY under contention.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// KeyFor derives the persistence key for an invocation: the interaction's
// card instance wins, then the node id, then a shared default.
func KeyFor(inv *model.Invocation) string {
	if inv.Interaction != nil && inv.Interaction.CardInstanceID != "" {
		return inv.Interaction.CardInstanceID
	}
	if inv.NodeID != "" {
		return inv.NodeID
	}
	return "default"
}

// LoadState returns the stored state document under key. found is false
// when nothing has been stored yet.
func (s *Store) LoadState(ctx context.Context, key string) (state any, found bool, err error) {
	var raw string
	err = s.db.QueryRowContext(ctx, `SELECT state FROM card_state WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load state: %w", err)
	}
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, false, fmt.Errorf("load state: %w", err)
	}
	return doc, true, nil
}

// SaveState upserts the state document under key in canonical form.
func (s *Store) SaveState(ctx context.Context, key string, state any) error {
	raw, err := canonicaljson.Marshal(state)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO card_state (key, state) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET
			state = excluded.state,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
	`, key, string(raw))
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// LoadSession returns the stored session document under key.
func (s *Store) LoadSession(ctx context.Context, key string) (session any, found bool, err error) {
	var raw string
	err = s.db.QueryRowContext(ctx, `SELECT session FROM session_state WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load session: %w", err)
	}
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, false, fmt.Errorf("load session: %w", err)
	}
	return doc, true, nil
}

// SaveSession upserts the session document under key in canonical form.
func (s *Store) SaveSession(ctx context.Context, key string, session any) error {
	raw, err := canonicaljson.Marshal(session)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO session_state (key, session) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET
			session = excluded.session,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
	`, key, string(raw))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Commit applies a result's update operations to the stored documents under
// key and persists both. It plays the host's role after an invocation.
func (s *Store) Commit(ctx context.Context, key string, result *model.AdaptiveCardResult) error {
	state, _, err := s.LoadState(ctx, key)
	if err != nil {
		return err
	}
	session, _, err := s.LoadSession(ctx, key)
	if err != nil {
		return err
	}

	if err := s.SaveState(ctx, key, ApplyStateUpdates(state, result.StateUpdates)); err != nil {
		return err
	}
	return s.SaveSession(ctx, key, ApplySessionUpdates(session, result.SessionUpdates))
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("failed to set schema version: %w", err)
	}
	return nil
}
