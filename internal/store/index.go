package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"voxelpaint/internal/world"
)

// Index maps chunk coordinates to their snapshot files in SQLite.
type Index struct {
	db *sql.DB
}

// Entry is one indexed snapshot.
type Entry struct {
	Coord     world.ChunkCoord
	Path      string
	SHA256    string
	SizeBytes int64
	SavedAt   time.Time
}

// OpenIndex opens (creating if needed) the snapshot index at path.
func OpenIndex(path string) (*Index, error) {
	if path == "" {
		return nil, fmt.Errorf("empty index path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Index{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	// WAL is much faster for append-style workloads.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS chunks (
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		z INTEGER NOT NULL,
		path TEXT NOT NULL,
		sha256 TEXT NOT NULL,
		size_bytes INTEGER NOT NULL,
		saved_at TEXT NOT NULL,
		PRIMARY KEY (x, y, z)
	);`)
	return err
}

func (ix *Index) Close() error {
	return ix.db.Close()
}

// Record hashes the snapshot file and upserts its row.
func (ix *Index) Record(ctx context.Context, coord world.ChunkCoord, path string) error {
	sum, size, err := hashFile(path)
	if err != nil {
		return fmt.Errorf("hash snapshot: %w", err)
	}
	_, err = ix.db.ExecContext(ctx, `INSERT INTO chunks (x, y, z, path, sha256, size_bytes, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (x, y, z) DO UPDATE SET
			path = excluded.path,
			sha256 = excluded.sha256,
			size_bytes = excluded.size_bytes,
			saved_at = excluded.saved_at`,
		coord.X, coord.Y, coord.Z, path, sum, size, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record chunk %v: %w", coord, err)
	}
	return nil
}

// Lookup returns the entry for a chunk coordinate, if indexed.
func (ix *Index) Lookup(ctx context.Context, coord world.ChunkCoord) (Entry, bool, error) {
	row := ix.db.QueryRowContext(ctx,
		`SELECT path, sha256, size_bytes, saved_at FROM chunks WHERE x = ? AND y = ? AND z = ?`,
		coord.X, coord.Y, coord.Z)

	e := Entry{Coord: coord}
	var savedAt string
	if err := row.Scan(&e.Path, &e.SHA256, &e.SizeBytes, &savedAt); err != nil {
		if err == sql.ErrNoRows {
			return Entry{}, false, nil
		}
		return Entry{}, false, err
	}
	t, err := time.Parse(time.RFC3339, savedAt)
	if err != nil {
		return Entry{}, false, fmt.Errorf("parse saved_at %q: %w", savedAt, err)
	}
	e.SavedAt = t
	return e, true, nil
}

// List returns all indexed snapshots ordered by coordinate.
func (ix *Index) List(ctx context.Context) ([]Entry, error) {
	rows, err := ix.db.QueryContext(ctx,
		`SELECT x, y, z, path, sha256, size_bytes, saved_at FROM chunks ORDER BY x, y, z`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var savedAt string
		if err := rows.Scan(&e.Coord.X, &e.Coord.Y, &e.Coord.Z, &e.Path, &e.SHA256, &e.SizeBytes, &savedAt); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339, savedAt)
		if err != nil {
			return nil, fmt.Errorf("parse saved_at %q: %w", savedAt, err)
		}
		e.SavedAt = t
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func hashFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	h := sha256.New()
	size, err := io.Copy(h, f)
	if err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(h.Sum(nil)), size, nil
}
