// Package metadata persists StorageInfo records describing every file the
// service has accepted, backed by an embedded SQLite database opened
// through modernc.org/sqlite (pure Go, no cgo).
package metadata

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// StorageInfo mirrors one row of tem_table: everything the HTTP layer needs
// to answer a download or list request without touching the filesystem.
type StorageInfo struct {
	URL            string
	StoragePath    string
	ATime          int64
	MTime          int64
	Size           int64
	DownloadPrefix string
}

const schema = `
CREATE TABLE IF NOT EXISTS tem_table (
	url          VARCHAR(512) PRIMARY KEY,
	atime        BIGINT,
	mtime        BIGINT,
	storage_path VARCHAR(512) UNIQUE,
	file_size    BIGINT
);
CREATE INDEX IF NOT EXISTS idx_tem_table_storage_path ON tem_table(storage_path);
`

// Store is a handle to the embedded metadata database. database/sql already
// pools connections internally, but a single SQLite file only tolerates one
// writer at a time; the explicit RWMutex layered here serializes writers
// against each other and against readers at the application level so a
// burst of concurrent uploads doesn't surface as SQLITE_BUSY errors to
// callers.
type Store struct {
	mu sync.RWMutex
	db *sql.DB

	insertStmt         *sql.Stmt
	getByURLStmt       *sql.Stmt
	getByPathStmt      *sql.Stmt
	getAllStmt         *sql.Stmt
	deleteByURLStmt    *sql.Stmt
}

// Open creates or reuses the SQLite database at path and prepares the
// store's statement set.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("metadata: open database: %w", err)
	}
	// A single physical file backs every connection in the pool; SQLite
	// itself only allows one writer, so there is no concurrency benefit to
	// more than one open connection and real risk of SQLITE_BUSY under the
	// default driver timeout.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("metadata: set journal mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("metadata: set busy_timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("metadata: create schema: %w", err)
	}

	s := &Store{db: db}
	if err := s.prepare(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) prepare(ctx context.Context) error {
	var err error
	if s.insertStmt, err = s.db.PrepareContext(ctx,
		`INSERT INTO tem_table(url, atime, mtime, storage_path, file_size)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET
			atime=excluded.atime, mtime=excluded.mtime,
			storage_path=excluded.storage_path, file_size=excluded.file_size`); err != nil {
		return fmt.Errorf("metadata: prepare insert: %w", err)
	}
	if s.getByURLStmt, err = s.db.PrepareContext(ctx,
		`SELECT url, storage_path, atime, mtime, file_size FROM tem_table WHERE url = ?`); err != nil {
		return fmt.Errorf("metadata: prepare get_by_url: %w", err)
	}
	if s.getByPathStmt, err = s.db.PrepareContext(ctx,
		`SELECT url, storage_path, atime, mtime, file_size FROM tem_table WHERE storage_path = ?`); err != nil {
		return fmt.Errorf("metadata: prepare get_by_storage_path: %w", err)
	}
	if s.getAllStmt, err = s.db.PrepareContext(ctx,
		`SELECT url, storage_path, atime, mtime, file_size FROM tem_table`); err != nil {
		return fmt.Errorf("metadata: prepare get_all: %w", err)
	}
	if s.deleteByURLStmt, err = s.db.PrepareContext(ctx,
		`DELETE FROM tem_table WHERE url = ?`); err != nil {
		return fmt.Errorf("metadata: prepare delete_by_url: %w", err)
	}
	return nil
}

// Close releases every prepared statement and the underlying database
// handle.
func (s *Store) Close() error {
	for _, stmt := range []*sql.Stmt{s.insertStmt, s.getByURLStmt, s.getByPathStmt, s.getAllStmt, s.deleteByURLStmt} {
		if stmt != nil {
			stmt.Close() //nolint:errcheck
		}
	}
	return s.db.Close()
}

// Insert upserts info by primary key (url). Update is its exact synonym:
// both the original design and this one treat insert-or-replace as a single
// operation since StorageInfo records are never mutated field-by-field.
func (s *Store) Insert(ctx context.Context, info StorageInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.insertStmt.ExecContext(ctx, info.URL, info.ATime, info.MTime, info.StoragePath, info.Size)
	if err != nil {
		return fmt.Errorf("metadata: insert %q: %w", info.URL, err)
	}
	return nil
}

// Update is a synonym for Insert per the upsert-by-primary-key contract.
func (s *Store) Update(ctx context.Context, info StorageInfo) error {
	return s.Insert(ctx, info)
}

// GetByURL looks up a record by its primary key. The second return value is
// false if no row matched.
func (s *Store) GetByURL(ctx context.Context, url string) (StorageInfo, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var info StorageInfo
	err := s.getByURLStmt.QueryRowContext(ctx, url).
		Scan(&info.URL, &info.StoragePath, &info.ATime, &info.MTime, &info.Size)
	if err == sql.ErrNoRows {
		return StorageInfo{}, false, nil
	}
	if err != nil {
		return StorageInfo{}, false, fmt.Errorf("metadata: get_by_url %q: %w", url, err)
	}
	return info, true, nil
}

// GetByStoragePath looks up a record by its unique storage_path column.
func (s *Store) GetByStoragePath(ctx context.Context, path string) (StorageInfo, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var info StorageInfo
	err := s.getByPathStmt.QueryRowContext(ctx, path).
		Scan(&info.URL, &info.StoragePath, &info.ATime, &info.MTime, &info.Size)
	if err == sql.ErrNoRows {
		return StorageInfo{}, false, nil
	}
	if err != nil {
		return StorageInfo{}, false, fmt.Errorf("metadata: get_by_storage_path %q: %w", path, err)
	}
	return info, true, nil
}

// GetAll returns every record in the store, in no particular order.
func (s *Store) GetAll(ctx context.Context) ([]StorageInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.getAllStmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("metadata: get_all: %w", err)
	}
	defer rows.Close()

	var out []StorageInfo
	for rows.Next() {
		var info StorageInfo
		if err := rows.Scan(&info.URL, &info.StoragePath, &info.ATime, &info.MTime, &info.Size); err != nil {
			return nil, fmt.Errorf("metadata: scan row: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// DeleteByURL removes the record with the given primary key, reporting
// whether a row actually existed.
func (s *Store) DeleteByURL(ctx context.Context, url string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.deleteByURLStmt.ExecContext(ctx, url)
	if err != nil {
		return false, fmt.Errorf("metadata: delete_by_url %q: %w", url, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
