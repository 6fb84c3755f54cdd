// Package sqlitestore persists per-browser sessions in SQLite. Each browser
// gets its own namespace so one database serves every visitor.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jrsteele09/go-flight-admin/storage"
	"github.com/rs/zerolog/log"

	_ "modernc.org/sqlite"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS session_values (
		namespace  TEXT    NOT NULL,
		key        TEXT    NOT NULL,
		value      TEXT    NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (namespace, key)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_session_values_updated_at ON session_values(updated_at)`,
}

// DB owns the SQLite connection and hands out namespaced stores.
type DB struct {
	db      *sql.DB
	nowTime func() time.Time
}

// Option configures a DB
type Option func(*DB)

// WithNowTime sets the clock used for updated_at (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(d *DB) {
		d.nowTime = nowFunc
	}
}

// Open opens (or creates) the database at path and applies migrations.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string, options ...Option) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	d := &DB{db: db, nowTime: time.Now}
	for _, opt := range options {
		opt(d)
	}

	if err := d.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	for _, m := range migrations {
		if _, err := d.db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Namespace returns the Store for one browser.
func (d *DB) Namespace(namespace string) storage.Store {
	return &namespaceStore{db: d, namespace: namespace}
}

// DropNamespace deletes everything stored for one browser.
func (d *DB) DropNamespace(ctx context.Context, namespace string) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM session_values WHERE namespace = ?`, namespace); err != nil {
		return fmt.Errorf("drop namespace: %w", err)
	}
	return nil
}

// PurgeIdle removes every namespace that has not been written or touched for
// longer than idle.
// Returns the number of rows deleted.
func (d *DB) PurgeIdle(ctx context.Context, idle time.Duration) (int64, error) {
	cutoff := d.nowTime().Add(-idle).UnixMilli()
	res, err := d.db.ExecContext(ctx, `
		DELETE FROM session_values WHERE namespace IN (
			SELECT namespace FROM session_values GROUP BY namespace HAVING MAX(updated_at) < ?
		)`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge idle sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		log.Debug().Int64("rows", n).Dur("idle", idle).Msg("purged idle browser sessions")
	}
	return n, nil
}

var (
	_ storage.Store   = (*namespaceStore)(nil)
	_ storage.Toucher = (*namespaceStore)(nil)
)

type namespaceStore struct {
	db        *DB
	namespace string
}

// Touch marks every key in the namespace as used now, keeping it out of PurgeIdle.
func (s *namespaceStore) Touch(ctx context.Context) error {
	if _, err := s.db.db.ExecContext(ctx,
		`UPDATE session_values SET updated_at = ? WHERE namespace = ?`,
		s.db.nowTime().UnixMilli(), s.namespace); err != nil {
		return fmt.Errorf("touch: %w", err)
	}
	return nil
}

func (s *namespaceStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.db.QueryRowContext(ctx,
		`SELECT value FROM session_values WHERE namespace = ? AND key = ?`,
		s.namespace, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *namespaceStore) Set(ctx context.Context, values map[string]string, remove ...string) error {
	now := s.db.nowTime().UnixMilli()
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for k, v := range values {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO session_values (namespace, key, value, updated_at) VALUES (?, ?, ?, ?)
				ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
				s.namespace, k, v, now); err != nil {
				return fmt.Errorf("set %s: %w", k, err)
			}
		}
		return s.deleteKeys(ctx, tx, remove)
	})
}

func (s *namespaceStore) Remove(ctx context.Context, keys ...string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return s.deleteKeys(ctx, tx, keys)
	})
}

func (s *namespaceStore) deleteKeys(ctx context.Context, tx *sql.Tx, keys []string) error {
	for _, k := range keys {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM session_values WHERE namespace = ? AND key = ?`, s.namespace, k); err != nil {
			return fmt.Errorf("remove %s: %w", k, err)
		}
	}
	return nil
}

func (s *namespaceStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
