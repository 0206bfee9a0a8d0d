package importer

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// StateDB remembers which export files a previous run already ingested,
// keyed by file name with the size and content hash it had at the time. A
// file counts as new again whenever either changed, so a re-downloaded
// export with extra sessions gets imported once more (deterministic set IDs
// keep that idempotent at the row level).
type StateDB struct {
	db *sql.DB
}

const stateSchema = `
CREATE TABLE IF NOT EXISTS import_history (
	file        TEXT PRIMARY KEY,
	size        INTEGER NOT NULL,
	sha256      TEXT NOT NULL,
	sets        INTEGER NOT NULL DEFAULT 0,
	imported_at TEXT NOT NULL DEFAULT (datetime('now'))
)`

// OpenStateDB opens dir/imports.db, creating the directory and schema as
// needed.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "imports.db"))
	if err != nil {
		return nil, fmt.Errorf("opening import state db: %w", err)
	}
	if _, err := db.Exec(stateSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing import_history: %w", err)
	}

	return &StateDB{db: db}, nil
}

// IsImported reports whether the file was already ingested with this exact
// size and hash.
func (s *StateDB) IsImported(file string, size int64, hash string) (bool, error) {
	var prevSize int64
	var prevHash string
	err := s.db.QueryRow(
		`SELECT size, sha256 FROM import_history WHERE file = ?`, file,
	).Scan(&prevSize, &prevHash)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading import history: %w", err)
	}
	return prevSize == size && prevHash == hash, nil
}

// MarkImported records a successful ingest, replacing any earlier record of
// the same file.
func (s *StateDB) MarkImported(file string, size int64, hash string, sets int64) error {
	_, err := s.db.Exec(
		`INSERT INTO import_history (file, size, sha256, sets) VALUES (?, ?, ?, ?)
		 ON CONFLICT(file) DO UPDATE SET
			size = excluded.size,
			sha256 = excluded.sha256,
			sets = excluded.sets,
			imported_at = datetime('now')`,
		file, size, hash, sets,
	)
	if err != nil {
		return fmt.Errorf("recording import of %s: %w", file, err)
	}
	return nil
}

// Close closes the state database.
func (s *StateDB) Close() error {
	return s.db.Close()
}

// fingerprintFile returns the size and SHA-256 of a file in one pass over
// the stat info and contents.
func fingerprintFile(path string) (int64, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, "", err
	}

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, "", err
	}
	return info.Size(), hex.EncodeToString(h.Sum(nil)), nil
}
