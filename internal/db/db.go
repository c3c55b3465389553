package db

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

const (
	dbFileName   = "postit.db"
	lockFileName = "postit.lock"
)

// ErrLocked is returned when another process holds the data directory.
var ErrLocked = errors.New("data directory is in use by another postit process")

// DB wraps the database connection and the data directory lock
type DB struct {
	*sql.DB
	path string
	lock *flock.Flock
}

// Open locks dataDir, opens the database inside it, and initializes the schema
func Open(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	lock := flock.New(filepath.Join(dataDir, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, dataDir)
	}

	dbPath := FilePath(dataDir)
	database, err := open(dbPath + "?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	database.path = dbPath
	database.lock = lock
	return database, nil
}

// OpenMemory returns a private in-memory database, for tests.
func OpenMemory() (*DB, error) {
	database, err := open(":memory:")
	if err != nil {
		return nil, err
	}
	// every pooled connection would otherwise see its own empty database
	database.SetMaxOpenConns(1)
	database.path = ":memory:"
	return database, nil
}

func open(dsn string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// Initialize schema
	if _, err := sqlDB.Exec(schema); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &DB{DB: sqlDB}, nil
}

// FilePath returns the database file inside dataDir
func FilePath(dataDir string) string {
	return filepath.Join(dataDir, dbFileName)
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// Close closes the database and releases the data directory lock
func (db *DB) Close() error {
	err := db.DB.Close()
	if db.lock != nil {
		if unlockErr := db.lock.Unlock(); unlockErr != nil && err == nil {
			err = fmt.Errorf("release lock: %w", unlockErr)
		}
	}
	return err
}

// Get retrieves the value stored under key. The boolean is false when the key
// is absent.
func (db *DB) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key
func (db *DB) Set(ctx context.Context, key string, value []byte) error {
	return db.SetMany(ctx, map[string][]byte{key: value})
}

// SetMany stores every entry in a single transaction
func (db *DB) SetMany(ctx context.Context, entries map[string][]byte) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for key, value := range entries {
		if value == nil {
			value = []byte{}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO kv (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
		`, key, value)
		if err != nil {
			return fmt.Errorf("set %q: %w", key, err)
		}
	}
	return tx.Commit()
}

// Delete removes key; deleting an absent key is not an error
func (db *DB) Delete(ctx context.Context, key string) error {
	if _, err := db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Keys lists the stored keys in order
func (db *DB) Keys(ctx context.Context) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT key FROM kv ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
