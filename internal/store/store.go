// Package store is the local key-value cache: one SQLite-backed namespace
// per installation, holding a serialized JSON array per resource type plus
// the session user id. The store is a volatile mirror of the backend, never
// authoritative.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"portfel/internal/core"
	"portfel/internal/log"

	_ "modernc.org/sqlite"
)

// Well-known cache keys. The namespace is scoped per installation, not per
// user: switching accounts inherits the previous cache until overwritten.
const (
	KeyExpenses = "cached_expenses"
	KeyHoldings = "cached_cryptos"

	keyUserID = "user_id"
)

// NoUser is the session sentinel meaning "not logged in".
const NoUser = -1

type Store struct {
	db     *sql.DB
	logger *log.Logger
}

// Open opens (creating if needed) the store at dbPath and migrates its
// schema. Pass ":memory:" for an ephemeral store.
func Open(dbPath string, logger *log.Logger) (*Store, error) {
	if dir := filepath.Dir(dbPath); dbPath != ":memory:" && dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// One connection: serializes writers and keeps :memory: on a single DB.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate store: %w", err)
	}

	return &Store{
		db:     db,
		logger: logger.WithComponent(log.ComponentStore),
	}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read key %q: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("write key %q: %w", key, err)
	}
	return nil
}

func (s *Store) remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("remove key %q: %w", key, err)
	}
	return nil
}

// WriteAll serializes the full record list and overwrites the stored value.
// Last writer wins; there is no versioning and no merge.
func WriteAll[T any](ctx context.Context, s *Store, key string, records []T) error {
	if records == nil {
		records = []T{}
	}
	encoded, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode cache %q: %w", key, err)
	}

	if err := s.set(ctx, key, string(encoded)); err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "Cache overwritten",
		log.FieldCacheKey, key, log.FieldCount, len(records))
	return nil
}

// ReadAll returns the cached record list for key. An absent key or a
// malformed value yields an empty list, never an error: the cache fails
// open and the next successful refresh rewrites it.
func ReadAll[T any](ctx context.Context, s *Store, key string) ([]T, error) {
	value, ok, err := s.get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal([]byte(value), &records); err != nil {
		s.logger.WarnContext(ctx, "Discarding malformed cache entry",
			log.FieldCacheKey, key, log.FieldError, err)
		return []T{}, nil
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// RemoveOne rewrites the cached list for key without the record whose
// identifier equals id. Used on the optimistic-delete path only, so it can
// race a concurrent WriteAll; whichever lands last wins.
func RemoveOne[T core.Record](ctx context.Context, s *Store, key string, id int) error {
	records, err := ReadAll[T](ctx, s, key)
	if err != nil {
		return err
	}

	kept := make([]T, 0, len(records))
	for _, r := range records {
		if r.RecordID() != id {
			kept = append(kept, r)
		}
	}

	return WriteAll(ctx, s, key, kept)
}

// UserID returns the persisted session user id, or NoUser when nobody is
// logged in (absent or malformed value).
func (s *Store) UserID(ctx context.Context) (int, error) {
	value, ok, err := s.get(ctx, keyUserID)
	if err != nil {
		return NoUser, err
	}
	if !ok {
		return NoUser, nil
	}

	id, err := strconv.Atoi(value)
	if err != nil {
		return NoUser, nil
	}
	return id, nil
}

// SetUserID persists the session user id.
func (s *Store) SetUserID(ctx context.Context, id int) error {
	return s.set(ctx, keyUserID, strconv.Itoa(id))
}

// ClearUserID drops the persisted session.
func (s *Store) ClearUserID(ctx context.Context) error {
	return s.remove(ctx, keyUserID)
}
