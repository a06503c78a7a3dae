// Package testutil provides shared test helpers for setting up data
// directories and wallpaper index databases.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/wunjo/internal/gallery"
	"github.com/starford/wunjo/internal/storage"
)

// TestDB creates a temporary SQLite wallpaper index that is automatically
// cleaned up.
func TestDB(t *testing.T) *gallery.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "wunjo-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := gallery.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestDir creates a temporary flat directory with a storage.Provider.
func TestDir(t *testing.T) (string, storage.Provider) {
	t.Helper()
	root := t.TempDir()
	dir, err := storage.NewDir(root)
	if err != nil {
		t.Fatal(err)
	}
	return root, dir
}
