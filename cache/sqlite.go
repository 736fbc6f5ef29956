package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"
)

// sqliteSchemaVersion is the latest artifacts schema version.
const sqliteSchemaVersion = 1

// migrateLockTimeout bounds how long OpenSQLite waits for another process
// that is migrating the same database.
const migrateLockTimeout = 10 * time.Second

// SQLiteStore persists artifacts in a SQLite database so they survive
// restarts and can be shared between a CLI and a long-running server.
type SQLiteStore struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// OpenSQLite opens (creating if needed) the artifact database at path.
// Schema migrations run under an exclusive file lock at path+".lock".
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("cache: sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("cache: create cache directory: %w", err)
	}

	unlock, err := acquireFileLock(path+".lock", migrateLockTimeout)
	if err != nil {
		return nil, err
	}
	defer unlock()

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cache: open database: %w", err)
	}

	if err := verifyWALMode(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	_ = os.Chmod(path, 0o600)

	return &SQLiteStore{db: db, path: path, now: time.Now}, nil
}

// acquireFileLock polls for an exclusive lock until timeout elapses.
func acquireFileLock(lockPath string, timeout time.Duration) (func(), error) {
	l := flock.New(lockPath)
	deadline := time.Now().Add(timeout)
	for {
		locked, err := l.TryLock()
		if err != nil {
			return nil, fmt.Errorf("cache: acquire lock %s: %w", lockPath, err)
		}
		if locked {
			return func() { _ = l.Unlock() }, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w (lock: %s)", ErrLocked, lockPath)
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return fmt.Errorf("cache: get user_version: %w", err)
	}

	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS artifacts (
		  key        TEXT PRIMARY KEY,
		  value      BLOB NOT NULL,
		  created_at INTEGER NOT NULL,
		  expires_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_artifacts_expires_at
		ON artifacts(expires_at);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("cache: migration 1 failed: %w", err)
		}
	}

	if version < sqliteSchemaVersion {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", sqliteSchemaVersion)); err != nil {
			return fmt.Errorf("cache: set user_version: %w", err)
		}
	}
	return nil
}

func verifyWALMode(db *sql.DB) error {
	var mode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&mode); err != nil {
		return fmt.Errorf("cache: verify journal mode: %w", err)
	}
	if mode != "wal" {
		return fmt.Errorf("cache: expected WAL mode, got %s", mode)
	}
	return nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Get retrieves a fresh artifact. Query failures are reported as a miss.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool) {
	var (
		value     []byte
		expiresAt int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT value, expires_at FROM artifacts WHERE key = ?", key,
	).Scan(&value, &expiresAt)
	if err != nil {
		return nil, false
	}

	if s.now().UnixNano() > expiresAt {
		_, _ = s.db.ExecContext(ctx,
			"DELETE FROM artifacts WHERE key = ? AND expires_at = ?", key, expiresAt)
		return nil, false
	}
	return value, true
}

// Set stores value for ttl, replacing any existing entry.
func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	now := s.now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO artifacts (key, value, created_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
		  value = excluded.value,
		  created_at = excluded.created_at,
		  expires_at = excluded.expires_at`,
		key, value, now.UnixNano(), now.Add(ttl).UnixNano())
	if err != nil {
		return fmt.Errorf("cache: store %s: %w", key, err)
	}
	return nil
}

// Delete removes one entry. Idempotent.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM artifacts WHERE key = ?", key); err != nil {
		return fmt.Errorf("cache: delete %s: %w", key, err)
	}
	return nil
}

// Clear removes every entry.
func (s *SQLiteStore) Clear(ctx context.Context) (int, error) {
	return s.exec(ctx, "clear", "DELETE FROM artifacts")
}

// Sweep removes expired entries.
func (s *SQLiteStore) Sweep(ctx context.Context) (int, error) {
	return s.exec(ctx, "sweep", "DELETE FROM artifacts WHERE expires_at < ?", s.now().UnixNano())
}

// Len returns the number of stored entries.
func (s *SQLiteStore) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM artifacts").Scan(&n); err != nil {
		return 0, fmt.Errorf("cache: count: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		return err
	}
	return nil
}

func (s *SQLiteStore) exec(ctx context.Context, op, query string, args ...any) (int, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("cache: %s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cache: %s: %w", op, err)
	}
	return int(n), nil
}

var _ Store = (*SQLiteStore)(nil)
