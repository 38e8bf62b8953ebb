// Package sqlite keeps the snapshot and statistics in one SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"rtmsync/internal/application"
	"rtmsync/internal/domain"
	"rtmsync/internal/ports"
)

const schemaVersion = "1"

// Store owns the database connection. Snapshots and Statistics expose it
// through the two store ports.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open creates or opens the database at dbPath
func Open(dbPath string) (*Store, error) {
	if len(dbPath) > 0 && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;

		CREATE TABLE IF NOT EXISTS snapshot (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			tree TEXT NOT NULL,
			saved_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS statistics (
			date TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			data TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_statistics_position ON statistics(position);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	if _, err := db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to update metadata: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file
func (s *Store) Path() string {
	return s.dbPath
}

// SchemaVersion reports the schema version recorded in the database
func (s *Store) SchemaVersion(ctx context.Context) (string, error) {
	var version string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&version)
	return version, err
}

// Snapshots returns the snapshot view of the store
func (s *Store) Snapshots() *SnapshotStore {
	return &SnapshotStore{store: s}
}

// Statistics returns the statistics view of the store
func (s *Store) Statistics() *StatisticsStore {
	return &StatisticsStore{store: s}
}

// withTx runs fn in a transaction, rolling back on error
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// SnapshotStore implements ports.SnapshotStore
type SnapshotStore struct {
	store *Store
}

var _ ports.SnapshotStore = (*SnapshotStore)(nil)

func (s *SnapshotStore) Load(ctx context.Context) (*domain.Node, error) {
	var tree string
	err := s.store.db.QueryRowContext(ctx, `SELECT tree FROM snapshot WHERE id = 1`).Scan(&tree)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &application.PersistenceError{Op: "read", Path: s.store.dbPath, Err: err}
	}

	var root domain.Node
	if err := json.Unmarshal([]byte(tree), &root); err != nil {
		return nil, &application.PersistenceError{Op: "decode", Path: s.store.dbPath, Err: err}
	}
	return &root, nil
}

func (s *SnapshotStore) Save(ctx context.Context, root *domain.Node) error {
	tree, err := json.Marshal(root)
	if err != nil {
		return &application.PersistenceError{Op: "encode", Path: s.store.dbPath, Err: err}
	}

	err = s.store.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO snapshot (id, tree, saved_at)
			VALUES (1, ?, ?)
		`, string(tree), time.Now().UTC().Format(time.RFC3339))
		return err
	})
	if err != nil {
		return &application.PersistenceError{Op: "write", Path: s.store.dbPath, Err: err}
	}
	return nil
}

// StatisticsStore implements ports.StatisticsStore
type StatisticsStore struct {
	store *Store
}

var _ ports.StatisticsStore = (*StatisticsStore)(nil)

func (s *StatisticsStore) Load(ctx context.Context) (domain.Series, error) {
	rows, err := s.store.db.QueryContext(ctx, `SELECT date, data FROM statistics ORDER BY position`)
	if err != nil {
		return nil, &application.PersistenceError{Op: "read", Path: s.store.dbPath, Err: err}
	}
	defer rows.Close()

	var series domain.Series
	for rows.Next() {
		var date, data string
		if err := rows.Scan(&date, &data); err != nil {
			return nil, &application.PersistenceError{Op: "read", Path: s.store.dbPath, Err: err}
		}
		entry := domain.StatsEntry{Date: date}
		if err := json.Unmarshal([]byte(data), &entry.Data); err != nil {
			return nil, &application.PersistenceError{Op: "decode", Path: s.store.dbPath, Err: fmt.Errorf("entry %s: %w", date, err)}
		}
		series = append(series, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, &application.PersistenceError{Op: "read", Path: s.store.dbPath, Err: err}
	}
	return series, nil
}

// Save replaces the whole series in one transaction
func (s *StatisticsStore) Save(ctx context.Context, series domain.Series) error {
	err := s.store.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM statistics`); err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO statistics (date, position, data) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, entry := range series {
			data, err := json.Marshal(entry.Data)
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx, entry.Date, i, string(data)); err != nil {
				return fmt.Errorf("entry %s: %w", entry.Date, err)
			}
		}
		return nil
	})
	if err != nil {
		return &application.PersistenceError{Op: "write", Path: s.store.dbPath, Err: err}
	}
	return nil
}
