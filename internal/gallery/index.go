// Package gallery manages the wallpaper directory: a SQLite index mirrors
// the files on disk so listings never rescan the directory, and an fsnotify
// watcher keeps the index current. The directory itself stays the source
// of truth.
package gallery

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/wunjo/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS wallpapers (
	name       TEXT PRIMARY KEY,
	checksum   TEXT NOT NULL DEFAULT '',
	size       INTEGER NOT NULL DEFAULT 0,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Index defines the wallpaper index operations. Consumers should depend on
// this interface rather than the concrete *DB type to facilitate testing.
type Index interface {
	Upsert(w models.WallpaperInfo) error
	Remove(name string) error
	List() ([]models.WallpaperInfo, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// DB wraps a sql.DB with wallpaper index operations.
type DB struct {
	conn *sql.DB
}

// Verify *DB satisfies Index at compile time.
var _ Index = (*DB)(nil)

// Open opens (or creates) the SQLite index and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("gallery: open index: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("gallery: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("gallery: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Upsert inserts or replaces one wallpaper row.
func (db *DB) Upsert(w models.WallpaperInfo) error {
	_, err := db.conn.Exec(`
		INSERT INTO wallpapers (name, checksum, size, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			checksum   = excluded.checksum,
			size       = excluded.size,
			updated_at = excluded.updated_at
	`, w.Name, w.Checksum, w.Size, w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("gallery: upsert %s: %w", w.Name, err)
	}
	return nil
}

// Remove deletes one wallpaper row. Removing an unknown name is a no-op.
func (db *DB) Remove(name string) error {
	if _, err := db.conn.Exec(`DELETE FROM wallpapers WHERE name = ?`, name); err != nil {
		return fmt.Errorf("gallery: remove %s: %w", name, err)
	}
	return nil
}

// List returns every indexed wallpaper ordered by name.
func (db *DB) List() ([]models.WallpaperInfo, error) {
	rows, err := db.conn.Query(`SELECT name, checksum, size, updated_at FROM wallpapers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("gallery: list: %w", err)
	}
	defer rows.Close()

	var out []models.WallpaperInfo
	for rows.Next() {
		var w models.WallpaperInfo
		if err := rows.Scan(&w.Name, &w.Checksum, &w.Size, &w.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// AllChecksums returns name -> checksum for every indexed wallpaper.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT name, checksum FROM wallpapers`)
	if err != nil {
		return nil, fmt.Errorf("gallery: all checksums: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var name, cs string
		if err := rows.Scan(&name, &cs); err != nil {
			return nil, err
		}
		out[name] = cs
	}
	return out, rows.Err()
}
